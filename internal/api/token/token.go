// Package token handles bearer credentials and the
// authenticated user id carried in the request context.
package token

import (
	"context"
	"errors"
	"net/http"
	"strings"
)

var (
	ErrMissingAuthorization = errors.New("missing authorization header")
	ErrMalformedBearer      = errors.New("malformed bearer credential")
	ErrNoUserID             = errors.New("no user id in context")
)

type userIDKeyType struct{}

var userIDKey userIDKeyType

// FromRequest extracts the bearer token from the Authorization header.
func FromRequest(r *http.Request) (string, error) {
	header := r.Header.Get("Authorization")
	if header == "" {
		return "", ErrMissingAuthorization
	}

	scheme, credential, found := strings.Cut(header, " ")
	if !found || !strings.EqualFold(scheme, "Bearer") {
		return "", ErrMalformedBearer
	}
	credential = strings.TrimSpace(credential)
	if credential == "" {
		return "", ErrMalformedBearer
	}
	return credential, nil
}

// UserIDWithCtx stores the authenticated user id in the context.
func UserIDWithCtx(ctx context.Context, userID int64) context.Context {
	return context.WithValue(ctx, userIDKey, userID)
}

// UserIDFromCtx returns the authenticated user id, or ErrNoUserID
// when the request is anonymous.
func UserIDFromCtx(ctx context.Context) (int64, error) {
	if v, ok := ctx.Value(userIDKey).(int64); ok {
		return v, nil
	}
	return 0, ErrNoUserID
}

// ViewerFromCtx returns the authenticated user id as a nullable
// viewer reference for read paths open to anonymous requests.
func ViewerFromCtx(ctx context.Context) *int64 {
	if v, ok := ctx.Value(userIDKey).(int64); ok {
		return &v
	}
	return nil
}
