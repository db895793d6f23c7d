// Package error defines the JSON error envelope returned by the API.
package error

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/go-playground/validator/v10"
)

type Error struct {
	Code    ErrorCode         `json:"code"`
	Status  int               `json:"-"`
	Message string            `json:"message"`
	Fields  map[string]string `json:"fields,omitempty"`
	ErrorID string            `json:"error_id"`
}

func (e *Error) Error() string {
	return e.Message
}

func New(code ErrorCode, message, errorID string) *Error {
	return &Error{
		Code:    code,
		Status:  code.StatusCode(),
		Message: message,
		ErrorID: errorID,
	}
}

func encode(w http.ResponseWriter, e *Error) error {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(e.Status)
	return json.NewEncoder(w).Encode(e)
}

// EncodeError writes the error envelope for the given code.
func EncodeError(w http.ResponseWriter, code ErrorCode, message, errorID string) error {
	return encode(w, New(code, message, errorID))
}

// EncodeInternalError writes a generic internal server error envelope.
func EncodeInternalError(w http.ResponseWriter, errorID string) error {
	return EncodeError(w, InternalServerError, "internal server error", errorID)
}

// EncodeValidationError writes an unprocessible-entity envelope with
// per-field detail when err is a validator.ValidationErrors.
func EncodeValidationError(w http.ResponseWriter, err error, errorID string) error {
	e := New(UnprocessibleEntity, "validation failed", errorID)

	var validationErrs validator.ValidationErrors
	if errors.As(err, &validationErrs) {
		e.Fields = make(map[string]string, len(validationErrs))
		for _, fe := range validationErrs {
			e.Fields[fe.Field()] = fe.Tag()
		}
	}
	return encode(w, e)
}
