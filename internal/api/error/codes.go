package error

import "net/http"

type ErrorCode string

const (
	UnknownError        ErrorCode = "unknown_error"
	InternalServerError ErrorCode = "internal_server_error"
	BadRequest          ErrorCode = "bad_request"
	UnprocessibleEntity ErrorCode = "unprocessible_entity"
	InvalidAccessToken  ErrorCode = "invalid_access_token"
	ExpiredAccessToken  ErrorCode = "expired_access_token"
	RecipeNotFound      ErrorCode = "recipe_not_found"
	RecipeNotOwned      ErrorCode = "recipe_not_owned"
	CategoryNotFound    ErrorCode = "category_not_found"
	IngredientNotFound  ErrorCode = "ingredient_not_found"
	UserNotFound        ErrorCode = "user_not_found"
	FavoriteNotFound    ErrorCode = "favorite_not_found"
	DuplicateReview     ErrorCode = "duplicate_review"
	DuplicateIngredient ErrorCode = "duplicate_ingredient"
	EmailConflict       ErrorCode = "email_conflict"
	UsernameConflict    ErrorCode = "username_conflict"
	WeakPassword        ErrorCode = "weak_password"
)

var errorCodeToStatusCode = map[ErrorCode]int{
	UnknownError:        0, // No error code - unknown
	InternalServerError: http.StatusInternalServerError,
	BadRequest:          http.StatusBadRequest,
	UnprocessibleEntity: http.StatusUnprocessableEntity,
	InvalidAccessToken:  http.StatusUnauthorized,
	ExpiredAccessToken:  http.StatusUnauthorized,
	RecipeNotFound:      http.StatusNotFound,
	RecipeNotOwned:      http.StatusForbidden,
	CategoryNotFound:    http.StatusNotFound,
	IngredientNotFound:  http.StatusNotFound,
	UserNotFound:        http.StatusNotFound,
	FavoriteNotFound:    http.StatusNotFound,
	DuplicateReview:     http.StatusUnprocessableEntity,
	DuplicateIngredient: http.StatusConflict,
	EmailConflict:       http.StatusConflict,
	UsernameConflict:    http.StatusConflict,
	WeakPassword:        http.StatusUnprocessableEntity,
}

func (ec ErrorCode) StatusCode() int {
	return errorCodeToStatusCode[ec]
}

func (ec ErrorCode) String() string {
	return string(ec)
}
