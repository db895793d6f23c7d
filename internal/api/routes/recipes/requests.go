package recipes

import (
	"errors"
	"strconv"
)

type (
	recipeID     string
	categoryID   string
	ingredientID string
)

func parseID(s string) (int64, error) {
	v, err := strconv.ParseInt(s, 10, 64)
	if err != nil {
		return 0, errors.New("expected an integer")
	}
	if v < 0 {
		return 0, errors.New("id should be non-negative")
	}
	return v, nil
}

func (r recipeID) Validate() error {
	_, err := parseID(string(r))
	return err
}

func (c categoryID) Validate() error {
	_, err := parseID(string(c))
	return err
}

func (i ingredientID) Validate() error {
	_, err := parseID(string(i))
	return err
}

// IngredientEntry is one element of the embedded ingredient list on
// recipe create/update. Only the name is required; the ingredient is
// resolved get-or-create by name.
type IngredientEntry struct {
	Name     string `json:"name" validate:"required"`
	Quantity string `json:"quantity"`
	Unit     string `json:"unit"`
	Notes    string `json:"notes"`
}

type CreateRecipeRequest struct {
	Title           string            `json:"title" validate:"required"`
	Description     string            `json:"description"`
	Instructions    string            `json:"instructions"`
	Ingredients     []IngredientEntry `json:"ingredients" validate:"dive"`
	Categories      []int64           `json:"categories" validate:"dive,gte=0"`
	PreparationTime int32             `json:"preparation_time" validate:"gte=0"`
	CookingTime     int32             `json:"cooking_time" validate:"gte=0"`
	Servings        int32             `json:"servings" validate:"gte=0"`
	Difficulty      string            `json:"difficulty"`
}

// UpdateRecipeRequest is a partial update; nil fields are left
// untouched. A non-nil ingredient or category list replaces the
// recipe's full relation set.
type UpdateRecipeRequest struct {
	Title           *string            `json:"title" validate:"omitnil,min=1"`
	Description     *string            `json:"description"`
	Instructions    *string            `json:"instructions"`
	Ingredients     *[]IngredientEntry `json:"ingredients" validate:"omitempty,dive"`
	Categories      *[]int64           `json:"categories" validate:"omitempty,dive,gte=0"`
	PreparationTime *int32             `json:"preparation_time" validate:"omitempty,gte=0"`
	CookingTime     *int32             `json:"cooking_time" validate:"omitempty,gte=0"`
	Servings        *int32             `json:"servings" validate:"omitempty,gte=0"`
	Difficulty      *string            `json:"difficulty"`
}
