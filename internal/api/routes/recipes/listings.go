package recipes

import (
	"log/slog"
	"net/http"
	"strconv"
	"strings"

	"github.com/go-chi/chi/v5"

	apiError "github.com/rgood/tastebook/internal/api/error"
	"github.com/rgood/tastebook/internal/api/requestid"
	"github.com/rgood/tastebook/internal/api/token"
	"github.com/rgood/tastebook/internal/database"
	"github.com/rgood/tastebook/internal/env"
	"github.com/rgood/tastebook/internal/recipe"
)

func writeRecipeList(w http.ResponseWriter, r *http.Request, rows []database.Recipe) {
	ctx := r.Context()
	env := env.EnvFromCtx(ctx)
	requestID := strconv.FormatUint(requestid.Extract(ctx), 10)

	payload, err := recipe.AssembleList(ctx, env.Database, rows, env.FileStore, token.ViewerFromCtx(ctx))
	if err != nil {
		env.Logger.ErrorContext(ctx, "failed to assemble recipes", slog.Any("error", err))
		_ = apiError.EncodeInternalError(w, requestID)
		return
	}

	if err := writeJSON(w, http.StatusOK, payload); err != nil {
		env.Logger.ErrorContext(ctx, "failed to write response", slog.Any("error", err))
	}
}

// ListRecipes handles GET /api/recipes with optional filtering
// (categories, difficulty), search and ordering query parameters.
func ListRecipes(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	env := env.EnvFromCtx(ctx)
	requestID := strconv.FormatUint(requestid.Extract(ctx), 10)

	// Read query parameters
	query := r.URL.Query()
	params := database.ListRecipesParams{
		Search: strings.TrimSpace(query.Get("search")),
		Sort:   strings.TrimSpace(query.Get("ordering")),
	}
	if raw := query.Get("categories"); raw != "" {
		// Non-numeric filter values are ignored, not rejected.
		if id, err := parseID(raw); err == nil {
			params.CategoryID = &id
		}
	}
	if raw := query.Get("difficulty"); raw != "" {
		difficulty, err := database.ParseDifficulty(raw)
		if err != nil {
			env.Logger.ErrorContext(ctx, "failed to parse difficulty filter", slog.Any("error", err))
			_ = apiError.EncodeError(w, apiError.BadRequest, "bad request", requestID)
			return
		}
		params.Difficulty = &difficulty
	}

	env.Logger.DebugContext(ctx, "listing recipes")
	rows, err := env.Database.ListRecipes(ctx, params)
	if err != nil {
		env.Logger.ErrorContext(ctx, "failed to list recipes", slog.Any("error", err))
		_ = apiError.EncodeInternalError(w, requestID)
		return
	}

	writeRecipeList(w, r, rows)
}

// ListByCategory handles GET /api/recipes/category/{categoryID}.
func ListByCategory(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	env := env.EnvFromCtx(ctx)
	requestID := strconv.FormatUint(requestid.Extract(ctx), 10)

	categoryIDQ := categoryID(chi.URLParam(r, "categoryID"))
	if err := categoryIDQ.Validate(); err != nil {
		env.Logger.ErrorContext(ctx, "failed to validate category id", slog.Any("error", err))
		_ = apiError.EncodeError(w, apiError.BadRequest, "bad request", requestID)
		return
	}
	id, _ := parseID(string(categoryIDQ))

	rows, err := env.Database.ListRecipesByCategory(ctx, id)
	if err != nil {
		env.Logger.ErrorContext(ctx, "failed to list recipes by category", slog.Any("error", err))
		_ = apiError.EncodeInternalError(w, requestID)
		return
	}

	writeRecipeList(w, r, rows)
}

// ListByIngredient handles GET /api/recipes/ingredient/{ingredientID}.
func ListByIngredient(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	env := env.EnvFromCtx(ctx)
	requestID := strconv.FormatUint(requestid.Extract(ctx), 10)

	ingredientIDQ := ingredientID(chi.URLParam(r, "ingredientID"))
	if err := ingredientIDQ.Validate(); err != nil {
		env.Logger.ErrorContext(ctx, "failed to validate ingredient id", slog.Any("error", err))
		_ = apiError.EncodeError(w, apiError.BadRequest, "bad request", requestID)
		return
	}
	id, _ := parseID(string(ingredientIDQ))

	rows, err := env.Database.ListRecipesByIngredient(ctx, id)
	if err != nil {
		env.Logger.ErrorContext(ctx, "failed to list recipes by ingredient", slog.Any("error", err))
		_ = apiError.EncodeInternalError(w, requestID)
		return
	}

	writeRecipeList(w, r, rows)
}

// ListTopRated handles GET /api/recipes/top-rated: the ten best
// reviewed recipes, by mean rating.
func ListTopRated(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	env := env.EnvFromCtx(ctx)
	requestID := strconv.FormatUint(requestid.Extract(ctx), 10)

	rows, err := env.Database.ListTopRatedRecipes(ctx)
	if err != nil {
		env.Logger.ErrorContext(ctx, "failed to list top rated recipes", slog.Any("error", err))
		_ = apiError.EncodeInternalError(w, requestID)
		return
	}

	writeRecipeList(w, r, rows)
}

// ListPopular handles GET /api/recipes/popular: the ten most
// favorited recipes.
func ListPopular(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	env := env.EnvFromCtx(ctx)
	requestID := strconv.FormatUint(requestid.Extract(ctx), 10)

	rows, err := env.Database.ListPopularRecipes(ctx)
	if err != nil {
		env.Logger.ErrorContext(ctx, "failed to list popular recipes", slog.Any("error", err))
		_ = apiError.EncodeInternalError(w, requestID)
		return
	}

	writeRecipeList(w, r, rows)
}

// ListCategories handles GET /api/recipes/categories.
func ListCategories(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	env := env.EnvFromCtx(ctx)
	requestID := strconv.FormatUint(requestid.Extract(ctx), 10)

	rows, err := env.Database.ListCategories(ctx)
	if err != nil {
		env.Logger.ErrorContext(ctx, "failed to list categories", slog.Any("error", err))
		_ = apiError.EncodeInternalError(w, requestID)
		return
	}

	payload := make([]CategoryResponse, 0, len(rows))
	for _, c := range rows {
		payload = append(payload, CategoryResponse{ID: c.ID, Name: c.Name, Description: c.Description})
	}
	if err := writeJSON(w, http.StatusOK, payload); err != nil {
		env.Logger.ErrorContext(ctx, "failed to write response", slog.Any("error", err))
	}
}

// ListIngredients handles GET /api/recipes/ingredients with an
// optional name search.
func ListIngredients(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	env := env.EnvFromCtx(ctx)
	requestID := strconv.FormatUint(requestid.Extract(ctx), 10)

	search := strings.TrimSpace(r.URL.Query().Get("search"))
	rows, err := env.Database.ListIngredients(ctx, search)
	if err != nil {
		env.Logger.ErrorContext(ctx, "failed to list ingredients", slog.Any("error", err))
		_ = apiError.EncodeInternalError(w, requestID)
		return
	}

	payload := make([]IngredientResponse, 0, len(rows))
	for _, i := range rows {
		payload = append(payload, IngredientResponse{ID: i.ID, Name: i.Name, Description: i.Description})
	}
	if err := writeJSON(w, http.StatusOK, payload); err != nil {
		env.Logger.ErrorContext(ctx, "failed to write response", slog.Any("error", err))
	}
}
