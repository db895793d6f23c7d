// Package recipe assembles the nested recipe payloads served by the
// API: author, categories, ingredient rows, reviews, the computed
// average rating and the viewer-relative favorite flag.
package recipe

import (
	"context"
	"fmt"
	"time"

	"github.com/rgood/tastebook/internal/database"
)

// ImageResolver turns a stored image reference into a retrievable
// URL. A nil resolver leaves references unresolved.
type ImageResolver interface {
	ResolveURL(ctx context.Context, key string) (string, error)
}

type Author struct {
	ID             int64   `json:"id"`
	Username       string  `json:"username"`
	Email          string  `json:"email"`
	Bio            string  `json:"bio"`
	ProfilePicture *string `json:"profile_picture"`
}

type Category struct {
	ID          int64  `json:"id"`
	Name        string `json:"name"`
	Description string `json:"description"`
}

type Ingredient struct {
	ID          int64  `json:"id"`
	Name        string `json:"name"`
	Description string `json:"description"`
}

type RecipeIngredient struct {
	Ingredient Ingredient `json:"ingredient"`
	Quantity   string     `json:"quantity"`
	Unit       string     `json:"unit"`
	Notes      string     `json:"notes"`
}

type Review struct {
	ID        int64     `json:"id"`
	Author    Author    `json:"author"`
	Rating    int32     `json:"rating"`
	Comment   string    `json:"comment"`
	CreatedAt time.Time `json:"created_at"`
}

type Recipe struct {
	ID              int64              `json:"id"`
	Title           string             `json:"title"`
	Description     string             `json:"description"`
	Ingredients     []RecipeIngredient `json:"ingredients"`
	Instructions    string             `json:"instructions"`
	Categories      []Category         `json:"categories"`
	PreparationTime int32              `json:"preparation_time"`
	CookingTime     int32              `json:"cooking_time"`
	Servings        int32              `json:"servings"`
	Difficulty      string             `json:"difficulty"`
	Author          Author             `json:"author"`
	Image           *string            `json:"image"`
	CreatedAt       time.Time          `json:"created_at"`
	UpdatedAt       time.Time          `json:"updated_at"`
	Reviews         []Review           `json:"reviews"`
	IsFavorite      bool               `json:"is_favorite"`
	AverageRating   float64            `json:"average_rating"`
}

func newAuthor(ctx context.Context, u database.User, resolver ImageResolver) (Author, error) {
	author := Author{
		ID:       u.ID,
		Username: u.Username,
		Email:    u.Email,
		Bio:      u.Bio,
	}
	if u.ProfilePicture.Valid {
		url, err := resolveImage(ctx, resolver, u.ProfilePicture.String)
		if err != nil {
			return Author{}, err
		}
		author.ProfilePicture = &url
	}
	return author, nil
}

func resolveImage(ctx context.Context, resolver ImageResolver, key string) (string, error) {
	if resolver == nil {
		return key, nil
	}
	url, err := resolver.ResolveURL(ctx, key)
	if err != nil {
		return "", fmt.Errorf("resolving image %q: %w", key, err)
	}
	return url, nil
}

// Assemble loads everything the recipe payload embeds. The viewer id
// controls is_favorite; a nil viewer is anonymous and never favorites.
func Assemble(ctx context.Context, q database.Querier, row database.Recipe,
	resolver ImageResolver, viewerID *int64) (Recipe, error) {

	authorRow, err := q.GetUser(ctx, row.AuthorID)
	if err != nil {
		return Recipe{}, fmt.Errorf("loading author: %w", err)
	}
	author, err := newAuthor(ctx, authorRow, resolver)
	if err != nil {
		return Recipe{}, err
	}

	categoryRows, err := q.GetRecipeCategories(ctx, row.ID)
	if err != nil {
		return Recipe{}, fmt.Errorf("loading categories: %w", err)
	}
	categories := make([]Category, 0, len(categoryRows))
	for _, c := range categoryRows {
		categories = append(categories, Category{ID: c.ID, Name: c.Name, Description: c.Description})
	}

	ingredientRows, err := q.GetRecipeIngredients(ctx, row.ID)
	if err != nil {
		return Recipe{}, fmt.Errorf("loading ingredients: %w", err)
	}
	ingredients := make([]RecipeIngredient, 0, len(ingredientRows))
	for _, ri := range ingredientRows {
		ingredients = append(ingredients, RecipeIngredient{
			Ingredient: Ingredient{
				ID:          ri.Ingredient.ID,
				Name:        ri.Ingredient.Name,
				Description: ri.Ingredient.Description,
			},
			Quantity: ri.Quantity,
			Unit:     ri.Unit,
			Notes:    ri.Notes,
		})
	}

	reviewRows, err := q.GetRecipeReviews(ctx, row.ID)
	if err != nil {
		return Recipe{}, fmt.Errorf("loading reviews: %w", err)
	}
	reviews := make([]Review, 0, len(reviewRows))
	for _, rv := range reviewRows {
		reviewAuthor, err := newAuthor(ctx, rv.Author, resolver)
		if err != nil {
			return Recipe{}, err
		}
		reviews = append(reviews, Review{
			ID:        rv.ID,
			Author:    reviewAuthor,
			Rating:    rv.Rating,
			Comment:   rv.Comment,
			CreatedAt: rv.CreatedAt,
		})
	}

	averageRating, err := q.GetRecipeAverageRating(ctx, row.ID)
	if err != nil {
		return Recipe{}, fmt.Errorf("loading average rating: %w", err)
	}

	var isFavorite bool
	if viewerID != nil {
		isFavorite, err = q.IsFavorite(ctx, database.IsFavoriteParams{
			UserID:   *viewerID,
			RecipeID: row.ID,
		})
		if err != nil {
			return Recipe{}, fmt.Errorf("checking favorite: %w", err)
		}
	}

	result := Recipe{
		ID:              row.ID,
		Title:           row.Title,
		Description:     row.Description,
		Ingredients:     ingredients,
		Instructions:    row.Instructions,
		Categories:      categories,
		PreparationTime: row.PreparationTime,
		CookingTime:     row.CookingTime,
		Servings:        row.Servings,
		Difficulty:      row.Difficulty.String(),
		Author:          author,
		CreatedAt:       row.CreatedAt,
		UpdatedAt:       row.UpdatedAt,
		Reviews:         reviews,
		IsFavorite:      isFavorite,
		AverageRating:   averageRating,
	}
	if row.Image.Valid {
		url, err := resolveImage(ctx, resolver, row.Image.String)
		if err != nil {
			return Recipe{}, err
		}
		result.Image = &url
	}
	return result, nil
}

// AssembleAuthor builds the user payload served by the profile
// endpoints.
func AssembleAuthor(ctx context.Context, u database.User, resolver ImageResolver) (Author, error) {
	return newAuthor(ctx, u, resolver)
}

// AssembleReview builds a single review payload with its author.
func AssembleReview(ctx context.Context, q database.Querier, row database.Review,
	resolver ImageResolver) (Review, error) {

	authorRow, err := q.GetUser(ctx, row.AuthorID)
	if err != nil {
		return Review{}, fmt.Errorf("loading review author: %w", err)
	}
	author, err := newAuthor(ctx, authorRow, resolver)
	if err != nil {
		return Review{}, err
	}
	return Review{
		ID:        row.ID,
		Author:    author,
		Rating:    row.Rating,
		Comment:   row.Comment,
		CreatedAt: row.CreatedAt,
	}, nil
}

// AssembleList assembles payloads for a listing, preserving order.
func AssembleList(ctx context.Context, q database.Querier, rows []database.Recipe,
	resolver ImageResolver, viewerID *int64) ([]Recipe, error) {

	recipes := make([]Recipe, 0, len(rows))
	for _, row := range rows {
		r, err := Assemble(ctx, q, row, resolver, viewerID)
		if err != nil {
			return nil, err
		}
		recipes = append(recipes, r)
	}
	return recipes, nil
}
