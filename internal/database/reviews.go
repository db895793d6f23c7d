package database

import "context"

const createReview = `
INSERT INTO reviews (recipe_id, author_id, rating, comment)
VALUES ($1, $2, $3, $4)
RETURNING id, recipe_id, author_id, rating, comment, created_at, updated_at
`

func (q *Queries) CreateReview(ctx context.Context, arg CreateReviewParams) (Review, error) {
	var r Review
	err := q.db.QueryRow(ctx, createReview,
		arg.RecipeID, arg.AuthorID, arg.Rating, arg.Comment).Scan(
		&r.ID, &r.RecipeID, &r.AuthorID, &r.Rating, &r.Comment, &r.CreatedAt, &r.UpdatedAt)
	return r, err
}

const getRecipeReviews = `
SELECT rv.id, rv.recipe_id, rv.author_id, rv.rating, rv.comment, rv.created_at, rv.updated_at,
       u.id, u.username, u.email, u.password_hash, u.bio, u.profile_picture, u.created_at, u.updated_at
FROM reviews rv
JOIN users u ON u.id = rv.author_id
WHERE rv.recipe_id = $1
ORDER BY rv.created_at DESC, rv.id DESC
`

func (q *Queries) GetRecipeReviews(ctx context.Context, recipeID int64) ([]GetRecipeReviewsRow, error) {
	rows, err := q.db.Query(ctx, getRecipeReviews, recipeID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var reviews []GetRecipeReviewsRow
	for rows.Next() {
		var r GetRecipeReviewsRow
		if err := rows.Scan(
			&r.ID, &r.RecipeID, &r.AuthorID, &r.Rating, &r.Comment, &r.CreatedAt, &r.UpdatedAt,
			&r.Author.ID, &r.Author.Username, &r.Author.Email, &r.Author.PasswordHash,
			&r.Author.Bio, &r.Author.ProfilePicture, &r.Author.CreatedAt, &r.Author.UpdatedAt,
		); err != nil {
			return nil, err
		}
		reviews = append(reviews, r)
	}
	return reviews, rows.Err()
}

// getRecipeAverageRating returns 0 rather than NULL for recipes
// without reviews.
const getRecipeAverageRating = `
SELECT COALESCE(avg(rating), 0)::float8
FROM reviews
WHERE recipe_id = $1
`

func (q *Queries) GetRecipeAverageRating(ctx context.Context, recipeID int64) (float64, error) {
	var avg float64
	err := q.db.QueryRow(ctx, getRecipeAverageRating, recipeID).Scan(&avg)
	return avg, err
}
