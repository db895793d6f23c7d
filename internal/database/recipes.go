package database

import (
	"context"
	"fmt"
	"strings"

	"github.com/jackc/pgx/v5"
)

const recipeColumns = `id, author_id, title, description, instructions,
preparation_time, cooking_time, servings, difficulty, image, created_at, updated_at`

// recipeColumnsQualified disambiguates the column names in queries
// that join other tables carrying id/created_at columns.
const recipeColumnsQualified = `r.id, r.author_id, r.title, r.description, r.instructions,
r.preparation_time, r.cooking_time, r.servings, r.difficulty, r.image, r.created_at, r.updated_at`

func scanRecipe(row pgx.Row) (Recipe, error) {
	var r Recipe
	err := row.Scan(
		&r.ID, &r.AuthorID, &r.Title, &r.Description, &r.Instructions,
		&r.PreparationTime, &r.CookingTime, &r.Servings, &r.Difficulty,
		&r.Image, &r.CreatedAt, &r.UpdatedAt)
	return r, err
}

func collectRecipes(rows pgx.Rows) ([]Recipe, error) {
	defer rows.Close()

	var recipes []Recipe
	for rows.Next() {
		r, err := scanRecipe(rows)
		if err != nil {
			return nil, err
		}
		recipes = append(recipes, r)
	}
	return recipes, rows.Err()
}

const insertRecipe = `
INSERT INTO recipes (author_id, title, description, instructions,
                     preparation_time, cooking_time, servings, difficulty)
VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
RETURNING id
`

const insertRecipeCategory = `
INSERT INTO recipe_categories (recipe_id, category_id)
VALUES ($1, $2)
ON CONFLICT DO NOTHING
`

const insertRecipeIngredient = `
INSERT INTO recipe_ingredients (recipe_id, ingredient_id, quantity, unit, notes)
VALUES ($1, $2, $3, $4, $5)
`

func (q *Queries) replaceRelations(ctx context.Context, recipeID int64,
	categoryIDs []int64, ingredients []IngredientInput, replaceCategories, replaceIngredients bool) error {

	if replaceCategories {
		if _, err := q.db.Exec(ctx, `DELETE FROM recipe_categories WHERE recipe_id = $1`, recipeID); err != nil {
			return fmt.Errorf("clearing recipe categories: %w", err)
		}
		for _, categoryID := range categoryIDs {
			if _, err := q.db.Exec(ctx, insertRecipeCategory, recipeID, categoryID); err != nil {
				return fmt.Errorf("adding recipe category %d: %w", categoryID, err)
			}
		}
	}

	if replaceIngredients {
		if _, err := q.db.Exec(ctx, `DELETE FROM recipe_ingredients WHERE recipe_id = $1`, recipeID); err != nil {
			return fmt.Errorf("clearing recipe ingredients: %w", err)
		}
		for _, ing := range ingredients {
			ingredientID, err := q.upsertIngredient(ctx, ing.Name)
			if err != nil {
				return fmt.Errorf("resolving ingredient %q: %w", ing.Name, err)
			}
			if _, err := q.db.Exec(ctx, insertRecipeIngredient,
				recipeID, ingredientID, ing.Quantity, ing.Unit, ing.Notes); err != nil {
				return fmt.Errorf("adding recipe ingredient %q: %w", ing.Name, err)
			}
		}
	}

	return nil
}

// CreateRecipe inserts the recipe and its category/ingredient
// relations in one transaction. Ingredients are resolved
// get-or-create by name.
func (q *Queries) CreateRecipe(ctx context.Context, arg CreateRecipeParams) (int64, error) {
	tx, err := q.pool.Begin(ctx)
	if err != nil {
		return 0, fmt.Errorf("beginning transaction: %w", err)
	}
	defer func() { _ = tx.Rollback(ctx) }()

	qtx := q.withTx(tx)
	var recipeID int64
	if err := tx.QueryRow(ctx, insertRecipe,
		arg.AuthorID, arg.Title, arg.Description, arg.Instructions,
		arg.PreparationTime, arg.CookingTime, arg.Servings, arg.Difficulty,
	).Scan(&recipeID); err != nil {
		return 0, fmt.Errorf("inserting recipe: %w", err)
	}

	if err := qtx.replaceRelations(ctx, recipeID, arg.CategoryIDs, arg.Ingredients, true, true); err != nil {
		return 0, err
	}

	if err := tx.Commit(ctx); err != nil {
		return 0, fmt.Errorf("committing transaction: %w", err)
	}
	return recipeID, nil
}

const updateRecipe = `
UPDATE recipes
SET title = COALESCE($2, title),
    description = COALESCE($3, description),
    instructions = COALESCE($4, instructions),
    preparation_time = COALESCE($5, preparation_time),
    cooking_time = COALESCE($6, cooking_time),
    servings = COALESCE($7, servings),
    difficulty = COALESCE($8, difficulty),
    updated_at = now()
WHERE id = $1
`

// UpdateRecipe applies a partial update to the recipe row and, when
// relation sets are supplied, fully replaces the category links and
// the recipe_ingredients rows. The replace is deliberate: ingredient
// rows carry no identity across edits.
func (q *Queries) UpdateRecipe(ctx context.Context, arg UpdateRecipeParams) error {
	tx, err := q.pool.Begin(ctx)
	if err != nil {
		return fmt.Errorf("beginning transaction: %w", err)
	}
	defer func() { _ = tx.Rollback(ctx) }()

	qtx := q.withTx(tx)
	var difficulty *string
	if arg.Difficulty != nil {
		s := string(*arg.Difficulty)
		difficulty = &s
	}
	tag, err := tx.Exec(ctx, updateRecipe,
		arg.ID, arg.Title, arg.Description, arg.Instructions,
		arg.PreparationTime, arg.CookingTime, arg.Servings, difficulty)
	if err != nil {
		return fmt.Errorf("updating recipe: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return ErrNoRowsAffected
	}

	var categoryIDs []int64
	if arg.CategoryIDs != nil {
		categoryIDs = *arg.CategoryIDs
	}
	var ingredients []IngredientInput
	if arg.Ingredients != nil {
		ingredients = *arg.Ingredients
	}
	if err := qtx.replaceRelations(ctx, arg.ID, categoryIDs, ingredients,
		arg.CategoryIDs != nil, arg.Ingredients != nil); err != nil {
		return err
	}

	if err := tx.Commit(ctx); err != nil {
		return fmt.Errorf("committing transaction: %w", err)
	}
	return nil
}

const updateRecipeImage = `
UPDATE recipes
SET image = $2,
    updated_at = now()
WHERE id = $1
`

func (q *Queries) UpdateRecipeImage(ctx context.Context, arg UpdateRecipeImageParams) error {
	tag, err := q.db.Exec(ctx, updateRecipeImage, arg.ID, arg.Image)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return ErrNoRowsAffected
	}
	return nil
}

const deleteRecipe = `
DELETE FROM recipes WHERE id = $1
`

func (q *Queries) DeleteRecipe(ctx context.Context, id int64) error {
	tag, err := q.db.Exec(ctx, deleteRecipe, id)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return ErrNoRowsAffected
	}
	return nil
}

const getRecipe = `
SELECT ` + recipeColumns + `
FROM recipes
WHERE id = $1
`

func (q *Queries) GetRecipe(ctx context.Context, id int64) (Recipe, error) {
	return scanRecipe(q.db.QueryRow(ctx, getRecipe, id))
}

// ListRecipes builds the filtered, searched, sorted listing. Search
// matches title, description, ingredient names and category names.
func (q *Queries) ListRecipes(ctx context.Context, arg ListRecipesParams) ([]Recipe, error) {
	var sb strings.Builder
	sb.WriteString(`SELECT ` + recipeColumns + ` FROM recipes r WHERE true`)

	var args []any
	if arg.CategoryID != nil {
		args = append(args, *arg.CategoryID)
		fmt.Fprintf(&sb, ` AND EXISTS (
			SELECT 1 FROM recipe_categories rc
			WHERE rc.recipe_id = r.id AND rc.category_id = $%d)`, len(args))
	}
	if arg.Difficulty != nil {
		args = append(args, string(*arg.Difficulty))
		fmt.Fprintf(&sb, ` AND r.difficulty = $%d::difficulty`, len(args))
	}
	if arg.Search != "" {
		args = append(args, "%"+arg.Search+"%")
		n := len(args)
		fmt.Fprintf(&sb, ` AND (r.title ILIKE $%d OR r.description ILIKE $%d
			OR EXISTS (
				SELECT 1 FROM recipe_ingredients ri
				JOIN ingredients i ON i.id = ri.ingredient_id
				WHERE ri.recipe_id = r.id AND i.name ILIKE $%d)
			OR EXISTS (
				SELECT 1 FROM recipe_categories rc
				JOIN categories c ON c.id = rc.category_id
				WHERE rc.recipe_id = r.id AND c.name ILIKE $%d))`, n, n, n, n)
	}
	sb.WriteString(` ORDER BY ` + orderClause(arg.Sort))

	rows, err := q.db.Query(ctx, sb.String(), args...)
	if err != nil {
		return nil, err
	}
	return collectRecipes(rows)
}

const listRecipesByCategory = `
SELECT ` + recipeColumns + `
FROM recipes r
WHERE EXISTS (
    SELECT 1 FROM recipe_categories rc
    WHERE rc.recipe_id = r.id AND rc.category_id = $1)
ORDER BY r.created_at DESC, r.id DESC
`

func (q *Queries) ListRecipesByCategory(ctx context.Context, categoryID int64) ([]Recipe, error) {
	rows, err := q.db.Query(ctx, listRecipesByCategory, categoryID)
	if err != nil {
		return nil, err
	}
	return collectRecipes(rows)
}

const listRecipesByIngredient = `
SELECT ` + recipeColumns + `
FROM recipes r
WHERE EXISTS (
    SELECT 1 FROM recipe_ingredients ri
    WHERE ri.recipe_id = r.id AND ri.ingredient_id = $1)
ORDER BY r.created_at DESC, r.id DESC
`

func (q *Queries) ListRecipesByIngredient(ctx context.Context, ingredientID int64) ([]Recipe, error) {
	rows, err := q.db.Query(ctx, listRecipesByIngredient, ingredientID)
	if err != nil {
		return nil, err
	}
	return collectRecipes(rows)
}

// listTopRatedRecipes ranks recipes with at least one review by mean
// rating, ties broken by ascending id for a deterministic order.
const listTopRatedRecipes = `
SELECT ` + recipeColumnsQualified + `
FROM recipes r
JOIN reviews rv ON rv.recipe_id = r.id
GROUP BY r.id
ORDER BY avg(rv.rating) DESC, r.id ASC
LIMIT 10
`

func (q *Queries) ListTopRatedRecipes(ctx context.Context) ([]Recipe, error) {
	rows, err := q.db.Query(ctx, listTopRatedRecipes)
	if err != nil {
		return nil, err
	}
	return collectRecipes(rows)
}

const listPopularRecipes = `
SELECT ` + recipeColumnsQualified + `
FROM recipes r
JOIN favorites f ON f.recipe_id = r.id
GROUP BY r.id
ORDER BY count(*) DESC, r.id ASC
LIMIT 10
`

func (q *Queries) ListPopularRecipes(ctx context.Context) ([]Recipe, error) {
	rows, err := q.db.Query(ctx, listPopularRecipes)
	if err != nil {
		return nil, err
	}
	return collectRecipes(rows)
}
