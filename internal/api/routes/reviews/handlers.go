// Package reviews contains handlers for recipe reviews.
package reviews

import (
	"encoding/json"
	"log/slog"
	"net/http"
	"strconv"

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

// CreateReview handles POST /api/recipes/{recipeID}/reviews. A user
// may review a recipe at most once.
func CreateReview(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	env := env.EnvFromCtx(ctx)
	requestID := strconv.FormatUint(requestid.Extract(ctx), 10)
	userID, err := token.UserIDFromCtx(ctx)
	if err != nil {
		env.Logger.ErrorContext(ctx, "failed to extract user id from context", slog.Any("error", err))
		_ = apiError.EncodeInternalError(w, requestID)
		return
	}

	recipeIDQ := recipeID(chi.URLParam(r, "recipeID"))
	if err := recipeIDQ.Validate(); err != nil {
		env.Logger.ErrorContext(ctx, "failed to validate recipe id", slog.Any("error", err))
		_ = apiError.EncodeError(w, apiError.BadRequest, "bad request", requestID)
		return
	}

	// Read request
	env.Logger.DebugContext(ctx, "reading request")
	var request CreateReviewRequest
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

	// Create review
	env.Logger.DebugContext(ctx, "creating review")
	row, err := env.Database.CreateReview(ctx, database.CreateReviewParams{
		RecipeID: recipeIDQ.Int64(),
		AuthorID: userID,
		Rating:   request.Rating,
		Comment:  request.Comment,
	})
	if err != nil {
		switch {
		case database.IsUniqueViolation(err):
			env.Logger.ErrorContext(ctx, "review already exists", slog.Any("error", err))
			_ = apiError.EncodeError(w, apiError.DuplicateReview, "you have already reviewed this recipe", requestID)
		case database.IsForeignKeyViolation(err):
			env.Logger.ErrorContext(ctx, "recipe not found", slog.Any("error", err))
			_ = apiError.EncodeError(w, apiError.RecipeNotFound, "recipe not found", requestID)
		default:
			env.Logger.ErrorContext(ctx, "failed to create review", slog.Any("error", err))
			_ = apiError.EncodeInternalError(w, requestID)
		}
		return
	}

	payload, err := recipe.AssembleReview(ctx, env.Database, row, env.FileStore)
	if err != nil {
		env.Logger.ErrorContext(ctx, "failed to assemble review", slog.Any("error", err))
		_ = apiError.EncodeInternalError(w, requestID)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusCreated)
	if err := json.NewEncoder(w).Encode(payload); err != nil {
		env.Logger.ErrorContext(ctx, "failed to write response", slog.Any("error", err))
	}
}
