package recipes

import (
	"encoding/json"
	"net/http"

	"github.com/rgood/tastebook/internal/recipe"
)

type GetRecipeResponse = recipe.Recipe

type ListRecipesResponse = []recipe.Recipe

type CategoryResponse = recipe.Category

type IngredientResponse = recipe.Ingredient

func writeJSON(w http.ResponseWriter, status int, v any) error {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	return json.NewEncoder(w).Encode(v)
}
