// Package users contains handlers for the authenticated user's
// profile.
package users

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"strconv"

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

type UpdateUserRequest struct {
	Username *string `json:"username" validate:"omitnil,min=1,max=150"`
	Bio      *string `json:"bio"`
}

func writeJSON(w http.ResponseWriter, status int, v any) error {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	return json.NewEncoder(w).Encode(v)
}

func respondWithUser(w http.ResponseWriter, r *http.Request, row database.User, status int) {
	ctx := r.Context()
	env := env.EnvFromCtx(ctx)
	requestID := strconv.FormatUint(requestid.Extract(ctx), 10)

	payload, err := recipe.AssembleAuthor(ctx, row, env.FileStore)
	if err != nil {
		env.Logger.ErrorContext(ctx, "failed to assemble user", slog.Any("error", err))
		_ = apiError.EncodeInternalError(w, requestID)
		return
	}
	if err := writeJSON(w, status, payload); err != nil {
		env.Logger.ErrorContext(ctx, "failed to write response", slog.Any("error", err))
	}
}

// GetMe handles GET /api/users/me.
func GetMe(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	env := env.EnvFromCtx(ctx)
	requestID := strconv.FormatUint(requestid.Extract(ctx), 10)
	userID, err := token.UserIDFromCtx(ctx)
	if err != nil {
		env.Logger.ErrorContext(ctx, "failed to extract user id from context", slog.Any("error", err))
		_ = apiError.EncodeInternalError(w, requestID)
		return
	}

	row, err := env.Database.GetUser(ctx, userID)
	if err != nil {
		if database.IsNotFound(err) {
			_ = apiError.EncodeError(w, apiError.UserNotFound, "user not found", requestID)
			return
		}
		env.Logger.ErrorContext(ctx, "failed to get user", slog.Any("error", err))
		_ = apiError.EncodeInternalError(w, requestID)
		return
	}

	respondWithUser(w, r, row, http.StatusOK)
}

// UpdateMe handles PATCH /api/users/me.
func UpdateMe(w http.ResponseWriter, r *http.Request) {
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
	var request UpdateUserRequest
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

	params := database.UpdateUserParams{ID: userID}
	if request.Username != nil {
		params.Username = pgtype.Text{String: *request.Username, Valid: true}
	}
	if request.Bio != nil {
		params.Bio = pgtype.Text{String: *request.Bio, Valid: true}
	}

	env.Logger.DebugContext(ctx, "updating user")
	row, err := env.Database.UpdateUser(ctx, params)
	if err != nil {
		switch {
		case database.IsNotFound(err):
			_ = apiError.EncodeError(w, apiError.UserNotFound, "user not found", requestID)
		case database.IsUniqueViolation(err):
			env.Logger.ErrorContext(ctx, "username taken", slog.Any("error", err))
			_ = apiError.EncodeError(w, apiError.UsernameConflict, "username already in use", requestID)
		default:
			env.Logger.ErrorContext(ctx, "failed to update user", slog.Any("error", err))
			_ = apiError.EncodeInternalError(w, requestID)
		}
		return
	}

	respondWithUser(w, r, row, http.StatusOK)
}

// UpdatePicture handles POST /api/users/me/picture.
func UpdatePicture(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	env := env.EnvFromCtx(ctx)
	requestID := strconv.FormatUint(requestid.Extract(ctx), 10)
	userID, err := token.UserIDFromCtx(ctx)
	if err != nil {
		env.Logger.ErrorContext(ctx, "failed to extract user id from context", slog.Any("error", err))
		_ = apiError.EncodeInternalError(w, requestID)
		return
	}

	if env.FileStore == nil {
		env.Logger.ErrorContext(ctx, "file storage is not configured")
		_ = apiError.EncodeInternalError(w, requestID)
		return
	}

	r.Body = http.MaxBytesReader(w, r.Body, maxUploadSize)
	file, err := form.ReadImage(r, "picture")
	if err != nil {
		if errors.Is(err, form.ErrNoImageUploaded) || errors.Is(err, form.ErrUnsupportedMimeType) {
			env.Logger.ErrorContext(ctx, "invalid upload", slog.Any("error", err))
			_ = apiError.EncodeError(w, apiError.UnprocessibleEntity, err.Error(), requestID)
			return
		}
		env.Logger.ErrorContext(ctx, "failed to read upload", slog.Any("error", err))
		_ = apiError.EncodeError(w, apiError.BadRequest, "bad request", requestID)
		return
	}

	key := filestore.ProfilePictureKey(userID, file.Suffix)
	env.Logger.DebugContext(ctx, "uploading profile picture", slog.String("key", key))
	if err := env.FileStore.Upload(ctx, key, file.Data, file.MimeType); err != nil {
		env.Logger.ErrorContext(ctx, "failed to upload profile picture", slog.Any("error", err))
		_ = apiError.EncodeInternalError(w, requestID)
		return
	}

	if err := env.Database.UpdateUserPicture(ctx, database.UpdateUserPictureParams{
		ID:             userID,
		ProfilePicture: pgtype.Text{String: key, Valid: true},
	}); err != nil {
		if database.IsNotFound(err) {
			_ = apiError.EncodeError(w, apiError.UserNotFound, "user not found", requestID)
			return
		}
		env.Logger.ErrorContext(ctx, "failed to save profile picture", slog.Any("error", err))
		_ = apiError.EncodeInternalError(w, requestID)
		return
	}

	row, err := env.Database.GetUser(ctx, userID)
	if err != nil {
		env.Logger.ErrorContext(ctx, "failed to get user", slog.Any("error", err))
		_ = apiError.EncodeInternalError(w, requestID)
		return
	}

	respondWithUser(w, r, row, http.StatusCreated)
}
