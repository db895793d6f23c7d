package database

import "context"

const listCategories = `
SELECT id, name, description, created_at, updated_at
FROM categories
ORDER BY name
`

func (q *Queries) ListCategories(ctx context.Context) ([]Category, error) {
	rows, err := q.db.Query(ctx, listCategories)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var categories []Category
	for rows.Next() {
		var c Category
		if err := rows.Scan(&c.ID, &c.Name, &c.Description, &c.CreatedAt, &c.UpdatedAt); err != nil {
			return nil, err
		}
		categories = append(categories, c)
	}
	return categories, rows.Err()
}

const getRecipeCategories = `
SELECT c.id, c.name, c.description, c.created_at, c.updated_at
FROM categories c
JOIN recipe_categories rc ON rc.category_id = c.id
WHERE rc.recipe_id = $1
ORDER BY c.name
`

func (q *Queries) GetRecipeCategories(ctx context.Context, recipeID int64) ([]Category, error) {
	rows, err := q.db.Query(ctx, getRecipeCategories, recipeID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var categories []Category
	for rows.Next() {
		var c Category
		if err := rows.Scan(&c.ID, &c.Name, &c.Description, &c.CreatedAt, &c.UpdatedAt); err != nil {
			return nil, err
		}
		categories = append(categories, c)
	}
	return categories, rows.Err()
}
