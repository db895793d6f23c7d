// Package recipes contains handlers for the recipes endpoint.
package recipes

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"
	"github.com/go-playground/validator/v10"
	"github.com/jackc/pgx/v5/pgtype"

	apiError "github.com/rgood/tastebook/internal/api/error"
	"github.com/rgood/tastebook/internal/api/requestid"
	"github.com/rgood/tastebook/internal/api/token"
	"github.com/rgood/tastebook/internal/database"
	"github.com/rgood/tastebook/internal/env"
	"github.com/rgood/tastebook/internal/filestore"
	"github.com/rgood/tastebook/internal/form"
	tbJson "github.com/rgood/tastebook/internal/json"
	"github.com/rgood/tastebook/internal/recipe"
)

const maxUploadSize = 20 << 20 // ~ 20 MB

func ingredientInputs(entries []IngredientEntry) []database.IngredientInput {
	inputs := make([]database.IngredientInput, 0, len(entries))
	for _, e := range entries {
		inputs = append(inputs, database.IngredientInput{
			Name:     e.Name,
			Quantity: e.Quantity,
			Unit:     e.Unit,
			Notes:    e.Notes,
		})
	}
	return inputs
}

// CreateRecipe handles POST /api/recipes. The author is always the
// authenticated user, never client-supplied.
func CreateRecipe(w http.ResponseWriter, r *http.Request) {
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
	var request CreateRecipeRequest
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
	difficulty := database.DifficultyMedium
	if request.Difficulty != "" {
		difficulty, err = database.ParseDifficulty(request.Difficulty)
		if err != nil {
			env.Logger.ErrorContext(ctx, "invalid difficulty", slog.Any("error", err))
			_ = apiError.EncodeError(w, apiError.UnprocessibleEntity, "invalid difficulty", requestID)
			return
		}
	}

	// Create recipe
	env.Logger.DebugContext(ctx, "creating recipe")
	recipeID, err := env.Database.CreateRecipe(ctx, database.CreateRecipeParams{
		AuthorID:        userID,
		Title:           request.Title,
		Description:     request.Description,
		Instructions:    request.Instructions,
		PreparationTime: request.PreparationTime,
		CookingTime:     request.CookingTime,
		Servings:        request.Servings,
		Difficulty:      difficulty,
		CategoryIDs:     request.Categories,
		Ingredients:     ingredientInputs(request.Ingredients),
	})
	if database.IsForeignKeyViolation(err) {
		env.Logger.ErrorContext(ctx, "unknown category", slog.Any("error", err))
		_ = apiError.EncodeError(w, apiError.CategoryNotFound, "category not found", requestID)
		return
	} else if database.IsUniqueViolation(err) {
		env.Logger.ErrorContext(ctx, "duplicate ingredient in recipe", slog.Any("error", err))
		_ = apiError.EncodeError(w, apiError.DuplicateIngredient, "duplicate ingredient in recipe", requestID)
		return
	} else if err != nil {
		env.Logger.ErrorContext(ctx, "failed to create recipe", slog.Any("error", err))
		_ = apiError.EncodeInternalError(w, requestID)
		return
	}

	respondWithRecipe(w, r, recipeID, http.StatusCreated)
}

// GetRecipe handles GET /api/recipes/{recipeID}. Open to anonymous
// viewers; is_favorite is false for them.
func GetRecipe(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	env := env.EnvFromCtx(ctx)
	requestID := strconv.FormatUint(requestid.Extract(ctx), 10)

	recipeIDQ := recipeID(chi.URLParam(r, "recipeID"))
	if err := recipeIDQ.Validate(); err != nil {
		env.Logger.ErrorContext(ctx, "failed to validate recipe id", slog.Any("error", err))
		_ = apiError.EncodeError(w, apiError.BadRequest, "bad request", requestID)
		return
	}
	id, _ := parseID(string(recipeIDQ))

	respondWithRecipe(w, r, id, http.StatusOK)
}

// UpdateRecipe handles PUT/PATCH /api/recipes/{recipeID}. Owner only.
func UpdateRecipe(w http.ResponseWriter, r *http.Request) {
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
	recipeIDQ := recipeID(chi.URLParam(r, "recipeID"))
	if err := recipeIDQ.Validate(); err != nil {
		env.Logger.ErrorContext(ctx, "failed to validate recipe id", slog.Any("error", err))
		_ = apiError.EncodeError(w, apiError.BadRequest, "bad request", requestID)
		return
	}
	id, _ := parseID(string(recipeIDQ))
	var request UpdateRecipeRequest
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
	var difficulty *database.Difficulty
	if request.Difficulty != nil {
		d, err := database.ParseDifficulty(*request.Difficulty)
		if err != nil {
			env.Logger.ErrorContext(ctx, "invalid difficulty", slog.Any("error", err))
			_ = apiError.EncodeError(w, apiError.UnprocessibleEntity, "invalid difficulty", requestID)
			return
		}
		difficulty = &d
	}

	// Check ownership
	env.Logger.DebugContext(ctx, "checking recipe ownership")
	existing, err := env.Database.GetRecipe(ctx, id)
	if database.IsNotFound(err) {
		_ = apiError.EncodeError(w, apiError.RecipeNotFound, "recipe not found", requestID)
		return
	} else if err != nil {
		env.Logger.ErrorContext(ctx, "failed to get recipe", slog.Any("error", err))
		_ = apiError.EncodeInternalError(w, requestID)
		return
	}
	if existing.AuthorID != userID {
		env.Logger.ErrorContext(ctx, "user does not own recipe")
		_ = apiError.EncodeError(w, apiError.RecipeNotOwned, "user does not own recipe", requestID)
		return
	}

	// Update recipe
	env.Logger.DebugContext(ctx, "updating recipe")
	params := database.UpdateRecipeParams{
		ID:          id,
		Difficulty:  difficulty,
		CategoryIDs: request.Categories,
	}
	if request.Title != nil {
		params.Title = pgtype.Text{String: *request.Title, Valid: true}
	}
	if request.Description != nil {
		params.Description = pgtype.Text{String: *request.Description, Valid: true}
	}
	if request.Instructions != nil {
		params.Instructions = pgtype.Text{String: *request.Instructions, Valid: true}
	}
	if request.PreparationTime != nil {
		params.PreparationTime = pgtype.Int4{Int32: *request.PreparationTime, Valid: true}
	}
	if request.CookingTime != nil {
		params.CookingTime = pgtype.Int4{Int32: *request.CookingTime, Valid: true}
	}
	if request.Servings != nil {
		params.Servings = pgtype.Int4{Int32: *request.Servings, Valid: true}
	}
	if request.Ingredients != nil {
		inputs := ingredientInputs(*request.Ingredients)
		params.Ingredients = &inputs
	}
	err = env.Database.UpdateRecipe(ctx, params)
	if database.IsForeignKeyViolation(err) {
		env.Logger.ErrorContext(ctx, "unknown category", slog.Any("error", err))
		_ = apiError.EncodeError(w, apiError.CategoryNotFound, "category not found", requestID)
		return
	} else if database.IsUniqueViolation(err) {
		env.Logger.ErrorContext(ctx, "duplicate ingredient in recipe", slog.Any("error", err))
		_ = apiError.EncodeError(w, apiError.DuplicateIngredient, "duplicate ingredient in recipe", requestID)
		return
	} else if err != nil {
		env.Logger.ErrorContext(ctx, "failed to update recipe", slog.Any("error", err))
		_ = apiError.EncodeInternalError(w, requestID)
		return
	}

	respondWithRecipe(w, r, id, http.StatusOK)
}

// DeleteRecipe handles DELETE /api/recipes/{recipeID}. Owner only;
// anyone else gets a forbidden response.
func DeleteRecipe(w http.ResponseWriter, r *http.Request) {
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
	id, _ := parseID(string(recipeIDQ))

	// Check ownership
	env.Logger.DebugContext(ctx, "checking recipe ownership")
	existing, err := env.Database.GetRecipe(ctx, id)
	if database.IsNotFound(err) {
		_ = apiError.EncodeError(w, apiError.RecipeNotFound, "recipe not found", requestID)
		return
	} else if err != nil {
		env.Logger.ErrorContext(ctx, "failed to get recipe", slog.Any("error", err))
		_ = apiError.EncodeInternalError(w, requestID)
		return
	}
	if existing.AuthorID != userID {
		env.Logger.ErrorContext(ctx, "user does not own recipe")
		_ = apiError.EncodeError(w, apiError.RecipeNotOwned, "user does not own recipe", requestID)
		return
	}

	// Delete recipe; reviews, favorites and ingredient rows cascade.
	env.Logger.DebugContext(ctx, "deleting recipe")
	if err := env.Database.DeleteRecipe(ctx, id); err != nil {
		env.Logger.ErrorContext(ctx, "failed to delete recipe", slog.Any("error", err))
		_ = apiError.EncodeInternalError(w, requestID)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

// UpdateRecipeCover handles POST /api/recipes/{recipeID}/cover.
// Expects multipart/form-data with a single image file. Owner only.
func UpdateRecipeCover(w http.ResponseWriter, r *http.Request) {
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
	recipeIDQ := recipeID(chi.URLParam(r, "recipeID"))
	if err := recipeIDQ.Validate(); err != nil {
		env.Logger.ErrorContext(ctx, "failed to validate recipe id", slog.Any("error", err))
		_ = apiError.EncodeError(w, apiError.BadRequest, "bad request", requestID)
		return
	}
	id, _ := parseID(string(recipeIDQ))
	r.Body = http.MaxBytesReader(w, r.Body, maxUploadSize)
	uploadedImage, err := form.ReadImage(r, "image")
	if errors.Is(err, form.ErrNoImageUploaded) {
		env.Logger.ErrorContext(ctx, "no image uploaded")
		_ = apiError.EncodeError(w, apiError.BadRequest, "expected an image in the form", requestID)
		return
	} else if errors.Is(err, form.ErrUnsupportedMimeType) {
		env.Logger.ErrorContext(ctx, "unsupported file type", slog.Any("error", err))
		_ = apiError.EncodeError(w, apiError.BadRequest, "invalid file type", requestID)
		return
	} else if err != nil {
		env.Logger.ErrorContext(ctx, "failed to read cover image", slog.Any("error", err))
		_ = apiError.EncodeInternalError(w, requestID)
		return
	}

	// Check ownership
	env.Logger.DebugContext(ctx, "checking recipe ownership")
	existing, err := env.Database.GetRecipe(ctx, id)
	if database.IsNotFound(err) {
		_ = apiError.EncodeError(w, apiError.RecipeNotFound, "recipe not found", requestID)
		return
	} else if err != nil {
		env.Logger.ErrorContext(ctx, "failed to get recipe", slog.Any("error", err))
		_ = apiError.EncodeInternalError(w, requestID)
		return
	}
	if existing.AuthorID != userID {
		env.Logger.ErrorContext(ctx, "user does not own recipe")
		_ = apiError.EncodeError(w, apiError.RecipeNotOwned, "user does not own recipe", requestID)
		return
	}

	if env.FileStore == nil {
		env.Logger.ErrorContext(ctx, "file store not configured")
		_ = apiError.EncodeInternalError(w, requestID)
		return
	}

	// Upload image
	env.Logger.DebugContext(ctx, "uploading image")
	key := filestore.RecipeCoverKey(id, uploadedImage.Suffix)
	if err := env.FileStore.Upload(ctx, key, uploadedImage.Data, uploadedImage.MimeType); err != nil {
		env.Logger.ErrorContext(ctx, "failed to upload cover image", slog.Any("error", err))
		_ = apiError.EncodeInternalError(w, requestID)
		return
	}
	err = env.Database.UpdateRecipeImage(ctx, database.UpdateRecipeImageParams{
		ID:    id,
		Image: pgtype.Text{String: key, Valid: true},
	})
	if err != nil {
		env.Logger.ErrorContext(ctx, "failed to update recipe image", slog.Any("error", err))
		_ = apiError.EncodeInternalError(w, requestID)
		return
	}

	w.WriteHeader(http.StatusCreated)
}

// respondWithRecipe loads and writes the nested recipe payload.
func respondWithRecipe(w http.ResponseWriter, r *http.Request, id int64, status int) {
	ctx := r.Context()
	env := env.EnvFromCtx(ctx)
	requestID := strconv.FormatUint(requestid.Extract(ctx), 10)

	row, err := env.Database.GetRecipe(ctx, id)
	if database.IsNotFound(err) {
		_ = apiError.EncodeError(w, apiError.RecipeNotFound, "recipe not found", requestID)
		return
	} else if err != nil {
		env.Logger.ErrorContext(ctx, "failed to get recipe", slog.Any("error", err))
		_ = apiError.EncodeInternalError(w, requestID)
		return
	}

	payload, err := recipe.Assemble(ctx, env.Database, row, env.FileStore, token.ViewerFromCtx(ctx))
	if err != nil {
		env.Logger.ErrorContext(ctx, "failed to assemble recipe", slog.Any("error", err))
		_ = apiError.EncodeInternalError(w, requestID)
		return
	}

	if err := writeJSON(w, status, payload); err != nil {
		env.Logger.ErrorContext(ctx, "failed to write response", slog.Any("error", err))
	}
}
