package database

import "context"

// Querier is the full store surface the request adapters depend on.
// Implemented by *Queries for Postgres and by dbmock.Store in tests.
type Querier interface {
	CheckUsersTableExists(ctx context.Context) (bool, error)

	CountUsers(ctx context.Context) (int64, error)
	CreateUser(ctx context.Context, arg CreateUserParams) (int64, error)
	GetUser(ctx context.Context, id int64) (User, error)
	UpdateUser(ctx context.Context, arg UpdateUserParams) (User, error)
	UpdateUserPicture(ctx context.Context, arg UpdateUserPictureParams) error

	ListCategories(ctx context.Context) ([]Category, error)
	GetRecipeCategories(ctx context.Context, recipeID int64) ([]Category, error)

	ListIngredients(ctx context.Context, search string) ([]Ingredient, error)
	GetRecipeIngredients(ctx context.Context, recipeID int64) ([]GetRecipeIngredientsRow, error)

	CreateRecipe(ctx context.Context, arg CreateRecipeParams) (int64, error)
	GetRecipe(ctx context.Context, id int64) (Recipe, error)
	UpdateRecipe(ctx context.Context, arg UpdateRecipeParams) error
	UpdateRecipeImage(ctx context.Context, arg UpdateRecipeImageParams) error
	DeleteRecipe(ctx context.Context, id int64) error
	ListRecipes(ctx context.Context, arg ListRecipesParams) ([]Recipe, error)
	ListRecipesByCategory(ctx context.Context, categoryID int64) ([]Recipe, error)
	ListRecipesByIngredient(ctx context.Context, ingredientID int64) ([]Recipe, error)
	ListTopRatedRecipes(ctx context.Context) ([]Recipe, error)
	ListPopularRecipes(ctx context.Context) ([]Recipe, error)

	CreateReview(ctx context.Context, arg CreateReviewParams) (Review, error)
	GetRecipeReviews(ctx context.Context, recipeID int64) ([]GetRecipeReviewsRow, error)
	GetRecipeAverageRating(ctx context.Context, recipeID int64) (float64, error)

	UpsertFavorite(ctx context.Context, arg UpsertFavoriteParams) (Favorite, error)
	ListFavorites(ctx context.Context, userID int64) ([]Favorite, error)
	DeleteFavorite(ctx context.Context, arg DeleteFavoriteParams) (int64, error)
	IsFavorite(ctx context.Context, arg IsFavoriteParams) (bool, error)
}
