package database

import "context"

// upsertFavorite is idempotent: the no-op DO UPDATE makes RETURNING
// yield the existing row when the (user, recipe) pair already exists.
const upsertFavorite = `
INSERT INTO favorites (user_id, recipe_id)
VALUES ($1, $2)
ON CONFLICT (user_id, recipe_id) DO UPDATE SET user_id = excluded.user_id
RETURNING id, user_id, recipe_id, created_at
`

func (q *Queries) UpsertFavorite(ctx context.Context, arg UpsertFavoriteParams) (Favorite, error) {
	var f Favorite
	err := q.db.QueryRow(ctx, upsertFavorite, arg.UserID, arg.RecipeID).Scan(
		&f.ID, &f.UserID, &f.RecipeID, &f.CreatedAt)
	return f, err
}

const listFavorites = `
SELECT id, user_id, recipe_id, created_at
FROM favorites
WHERE user_id = $1
ORDER BY created_at DESC, id DESC
`

func (q *Queries) ListFavorites(ctx context.Context, userID int64) ([]Favorite, error) {
	rows, err := q.db.Query(ctx, listFavorites, userID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var favorites []Favorite
	for rows.Next() {
		var f Favorite
		if err := rows.Scan(&f.ID, &f.UserID, &f.RecipeID, &f.CreatedAt); err != nil {
			return nil, err
		}
		favorites = append(favorites, f)
	}
	return favorites, rows.Err()
}

const deleteFavorite = `
DELETE FROM favorites
WHERE user_id = $1 AND recipe_id = $2
`

// DeleteFavorite removes the requester's favorite for the recipe and
// reports how many rows were removed.
func (q *Queries) DeleteFavorite(ctx context.Context, arg DeleteFavoriteParams) (int64, error) {
	tag, err := q.db.Exec(ctx, deleteFavorite, arg.UserID, arg.RecipeID)
	if err != nil {
		return 0, err
	}
	return tag.RowsAffected(), nil
}

const isFavorite = `
SELECT EXISTS (
    SELECT 1 FROM favorites
    WHERE user_id = $1 AND recipe_id = $2
)
`

func (q *Queries) IsFavorite(ctx context.Context, arg IsFavoriteParams) (bool, error) {
	var exists bool
	err := q.db.QueryRow(ctx, isFavorite, arg.UserID, arg.RecipeID).Scan(&exists)
	return exists, err
}
