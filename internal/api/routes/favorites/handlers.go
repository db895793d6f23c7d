// Package favorites contains handlers for the viewer's favorite
// recipes.
package favorites

import (
	"encoding/json"
	"log/slog"
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-playground/validator/v10"

	apiError "github.com/rgood/tastebook/internal/api/error"
	"github.com/rgood/tastebook/internal/api/requestid"
	"github.com/rgood/tastebook/internal/api/token"
	"github.com/rgood/tastebook/internal/database"
	"github.com/rgood/tastebook/internal/env"
	tbJson "github.com/rgood/tastebook/internal/json"
	"github.com/rgood/tastebook/internal/recipe"
)

type CreateFavoriteRequest struct {
	Recipe int64 `json:"recipe" validate:"required,gte=1"`
}

type FavoriteResponse struct {
	ID        int64         `json:"id"`
	Recipe    recipe.Recipe `json:"recipe"`
	CreatedAt time.Time     `json:"created_at"`
}

func writeJSON(w http.ResponseWriter, status int, v any) error {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	return json.NewEncoder(w).Encode(v)
}

func assembleFavorite(r *http.Request, row database.Favorite) (FavoriteResponse, error) {
	ctx := r.Context()
	env := env.EnvFromCtx(ctx)

	recipeRow, err := env.Database.GetRecipe(ctx, row.RecipeID)
	if err != nil {
		return FavoriteResponse{}, err
	}
	viewerID := row.UserID
	payload, err := recipe.Assemble(ctx, env.Database, recipeRow, env.FileStore, &viewerID)
	if err != nil {
		return FavoriteResponse{}, err
	}
	return FavoriteResponse{ID: row.ID, Recipe: payload, CreatedAt: row.CreatedAt}, nil
}

// ListFavorites handles GET /api/recipes/favorites.
func ListFavorites(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	env := env.EnvFromCtx(ctx)
	requestID := strconv.FormatUint(requestid.Extract(ctx), 10)
	userID, err := token.UserIDFromCtx(ctx)
	if err != nil {
		env.Logger.ErrorContext(ctx, "failed to extract user id from context", slog.Any("error", err))
		_ = apiError.EncodeInternalError(w, requestID)
		return
	}

	rows, err := env.Database.ListFavorites(ctx, userID)
	if err != nil {
		env.Logger.ErrorContext(ctx, "failed to list favorites", slog.Any("error", err))
		_ = apiError.EncodeInternalError(w, requestID)
		return
	}

	payload := make([]FavoriteResponse, 0, len(rows))
	for _, row := range rows {
		fav, err := assembleFavorite(r, row)
		if err != nil {
			env.Logger.ErrorContext(ctx, "failed to assemble favorite", slog.Any("error", err))
			_ = apiError.EncodeInternalError(w, requestID)
			return
		}
		payload = append(payload, fav)
	}

	if err := writeJSON(w, http.StatusOK, payload); err != nil {
		env.Logger.ErrorContext(ctx, "failed to write response", slog.Any("error", err))
	}
}

// CreateFavorite handles POST /api/recipes/favorites. Favoriting a
// recipe twice is a no-op that returns the existing favorite.
func CreateFavorite(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	env := env.EnvFromCtx(ctx)
	requestID := strconv.FormatUint(requestid.Extract(ctx), 10)
	userID, err := token.UserIDFromCtx(ctx)
	if err != nil {
		env.Logger.ErrorContext(ctx, "failed to extract user id from context", slog.Any("error", err))
		_ = apiError.EncodeInternalError(w, requestID)
		return
	}

	// Read request
	env.Logger.DebugContext(ctx, "reading request")
	var request CreateFavoriteRequest
	if err := tbJson.Decode(&request, json.NewDecoder(r.Body)); err != nil {
		env.Logger.ErrorContext(ctx, "failed to decode request", slog.Any("error", err))
		_ = apiError.EncodeError(w, apiError.BadRequest, "bad request", requestID)
		return
	}
	validate := validator.New(validator.WithRequiredStructEnabled())
	if err := validate.Struct(request); err != nil {
		env.Logger.ErrorContext(ctx, "failed to validate request", slog.Any("error", err))
		_ = apiError.EncodeValidationError(w, err, requestID)
		return
	}

	env.Logger.DebugContext(ctx, "creating favorite")
	row, err := env.Database.UpsertFavorite(ctx, database.UpsertFavoriteParams{
		UserID:   userID,
		RecipeID: request.Recipe,
	})
	if err != nil {
		if database.IsForeignKeyViolation(err) {
			env.Logger.ErrorContext(ctx, "recipe not found", slog.Any("error", err))
			_ = apiError.EncodeError(w, apiError.RecipeNotFound, "recipe not found", requestID)
			return
		}
		env.Logger.ErrorContext(ctx, "failed to create favorite", slog.Any("error", err))
		_ = apiError.EncodeInternalError(w, requestID)
		return
	}

	payload, err := assembleFavorite(r, row)
	if err != nil {
		env.Logger.ErrorContext(ctx, "failed to assemble favorite", slog.Any("error", err))
		_ = apiError.EncodeInternalError(w, requestID)
		return
	}

	if err := writeJSON(w, http.StatusCreated, payload); err != nil {
		env.Logger.ErrorContext(ctx, "failed to write response", slog.Any("error", err))
	}
}

// DeleteFavorite handles DELETE /api/recipes/favorites/{recipeID}.
func DeleteFavorite(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	env := env.EnvFromCtx(ctx)
	requestID := strconv.FormatUint(requestid.Extract(ctx), 10)
	userID, err := token.UserIDFromCtx(ctx)
	if err != nil {
		env.Logger.ErrorContext(ctx, "failed to extract user id from context", slog.Any("error", err))
		_ = apiError.EncodeInternalError(w, requestID)
		return
	}

	recipeID, err := strconv.ParseInt(chi.URLParam(r, "recipeID"), 10, 64)
	if err != nil || recipeID < 0 {
		env.Logger.ErrorContext(ctx, "failed to parse recipe id", slog.Any("error", err))
		_ = apiError.EncodeError(w, apiError.BadRequest, "bad request", requestID)
		return
	}

	env.Logger.DebugContext(ctx, "deleting favorite")
	deleted, err := env.Database.DeleteFavorite(ctx, database.DeleteFavoriteParams{
		UserID:   userID,
		RecipeID: recipeID,
	})
	if err != nil {
		env.Logger.ErrorContext(ctx, "failed to delete favorite", slog.Any("error", err))
		_ = apiError.EncodeInternalError(w, requestID)
		return
	}
	if deleted == 0 {
		_ = apiError.EncodeError(w, apiError.FavoriteNotFound, "favorite not found", requestID)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}
