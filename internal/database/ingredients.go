package database

import "context"

const listIngredients = `
SELECT id, name, description, created_at, updated_at
FROM ingredients
WHERE $1 = '' OR name ILIKE '%' || $1 || '%'
ORDER BY name
`

func (q *Queries) ListIngredients(ctx context.Context, search string) ([]Ingredient, error) {
	rows, err := q.db.Query(ctx, listIngredients, search)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var ingredients []Ingredient
	for rows.Next() {
		var i Ingredient
		if err := rows.Scan(&i.ID, &i.Name, &i.Description, &i.CreatedAt, &i.UpdatedAt); err != nil {
			return nil, err
		}
		ingredients = append(ingredients, i)
	}
	return ingredients, rows.Err()
}

const getRecipeIngredients = `
SELECT ri.id, ri.recipe_id, ri.ingredient_id, ri.quantity, ri.unit, ri.notes,
       i.id, i.name, i.description, i.created_at, i.updated_at
FROM recipe_ingredients ri
JOIN ingredients i ON i.id = ri.ingredient_id
WHERE ri.recipe_id = $1
ORDER BY ri.id
`

func (q *Queries) GetRecipeIngredients(ctx context.Context, recipeID int64) ([]GetRecipeIngredientsRow, error) {
	rows, err := q.db.Query(ctx, getRecipeIngredients, recipeID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var result []GetRecipeIngredientsRow
	for rows.Next() {
		var r GetRecipeIngredientsRow
		if err := rows.Scan(
			&r.ID, &r.RecipeID, &r.IngredientID, &r.Quantity, &r.Unit, &r.Notes,
			&r.Ingredient.ID, &r.Ingredient.Name, &r.Ingredient.Description,
			&r.Ingredient.CreatedAt, &r.Ingredient.UpdatedAt,
		); err != nil {
			return nil, err
		}
		result = append(result, r)
	}
	return result, rows.Err()
}

// upsertIngredient is the get-or-create step of a recipe write.
// Matching is exact on the stored name. The no-op DO UPDATE makes
// RETURNING yield the id for the existing row as well.
const upsertIngredient = `
INSERT INTO ingredients (name)
VALUES ($1)
ON CONFLICT (name) DO UPDATE SET name = excluded.name
RETURNING id
`

func (q *Queries) upsertIngredient(ctx context.Context, name string) (int64, error) {
	var id int64
	err := q.db.QueryRow(ctx, upsertIngredient, name).Scan(&id)
	return id, err
}
