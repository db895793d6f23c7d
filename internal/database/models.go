package database

import (
	"fmt"
	"strings"
	"time"

	"github.com/jackc/pgx/v5/pgtype"
)

// Difficulty mirrors the Postgres difficulty enum.
type Difficulty string

const (
	DifficultyEasy   Difficulty = "easy"
	DifficultyMedium Difficulty = "medium"
	DifficultyHard   Difficulty = "hard"
)

// ParseDifficulty accepts the enum values case-insensitively.
func ParseDifficulty(s string) (Difficulty, error) {
	switch d := Difficulty(strings.ToLower(s)); d {
	case DifficultyEasy, DifficultyMedium, DifficultyHard:
		return d, nil
	}
	return "", fmt.Errorf("unknown difficulty %q", s)
}

func (d Difficulty) String() string {
	return string(d)
}

type User struct {
	ID             int64
	Username       string
	Email          string
	PasswordHash   string
	Bio            string
	ProfilePicture pgtype.Text
	CreatedAt      time.Time
	UpdatedAt      time.Time
}

type Category struct {
	ID          int64
	Name        string
	Description string
	CreatedAt   time.Time
	UpdatedAt   time.Time
}

type Ingredient struct {
	ID          int64
	Name        string
	Description string
	CreatedAt   time.Time
	UpdatedAt   time.Time
}

type Recipe struct {
	ID              int64
	AuthorID        int64
	Title           string
	Description     string
	Instructions    string
	PreparationTime int32
	CookingTime     int32
	Servings        int32
	Difficulty      Difficulty
	Image           pgtype.Text
	CreatedAt       time.Time
	UpdatedAt       time.Time
}

type RecipeIngredient struct {
	ID           int64
	RecipeID     int64
	IngredientID int64
	Quantity     string
	Unit         string
	Notes        string
}

type GetRecipeIngredientsRow struct {
	RecipeIngredient

	Ingredient Ingredient
}

type Review struct {
	ID        int64
	RecipeID  int64
	AuthorID  int64
	Rating    int32
	Comment   string
	CreatedAt time.Time
	UpdatedAt time.Time
}

type GetRecipeReviewsRow struct {
	Review

	Author User
}

type Favorite struct {
	ID        int64
	UserID    int64
	RecipeID  int64
	CreatedAt time.Time
}

type CreateUserParams struct {
	Username     string
	Email        string
	PasswordHash string
	Bio          string
}

type UpdateUserParams struct {
	ID       int64
	Username pgtype.Text
	Bio      pgtype.Text
}

type UpdateUserPictureParams struct {
	ID             int64
	ProfilePicture pgtype.Text
}

// IngredientInput is one entry of a recipe's embedded ingredient
// list. The ingredient itself is resolved get-or-create by name.
type IngredientInput struct {
	Name     string
	Quantity string
	Unit     string
	Notes    string
}

type CreateRecipeParams struct {
	AuthorID        int64
	Title           string
	Description     string
	Instructions    string
	PreparationTime int32
	CookingTime     int32
	Servings        int32
	Difficulty      Difficulty
	CategoryIDs     []int64
	Ingredients     []IngredientInput
}

// UpdateRecipeParams carries a partial update. Nil pointers leave
// the column untouched; a non-nil CategoryIDs or Ingredients slice
// replaces the full relation set.
type UpdateRecipeParams struct {
	ID              int64
	Title           pgtype.Text
	Description     pgtype.Text
	Instructions    pgtype.Text
	PreparationTime pgtype.Int4
	CookingTime     pgtype.Int4
	Servings        pgtype.Int4
	Difficulty      *Difficulty
	CategoryIDs     *[]int64
	Ingredients     *[]IngredientInput
}

type UpdateRecipeImageParams struct {
	ID    int64
	Image pgtype.Text
}

type ListRecipesParams struct {
	CategoryID *int64
	Difficulty *Difficulty
	Search     string
	Sort       string
}

type CreateReviewParams struct {
	RecipeID int64
	AuthorID int64
	Rating   int32
	Comment  string
}

type UpsertFavoriteParams struct {
	UserID   int64
	RecipeID int64
}

type DeleteFavoriteParams struct {
	UserID   int64
	RecipeID int64
}

type IsFavoriteParams struct {
	UserID   int64
	RecipeID int64
}
