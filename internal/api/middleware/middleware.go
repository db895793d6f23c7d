// Package middleware contains middleware functions for the API
package middleware

import (
	"errors"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/go-chi/httplog/v3"
	"github.com/oklog/ulid/v2"

	apiError "github.com/rgood/tastebook/internal/api/error"
	"github.com/rgood/tastebook/internal/api/requestid"
	"github.com/rgood/tastebook/internal/api/token"
	"github.com/rgood/tastebook/internal/env"
	"github.com/rgood/tastebook/internal/identity"
	"github.com/rgood/tastebook/internal/log"
)

// InjectEnv injects an environment struct into the request context.
func InjectEnv(environment *env.Env) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			next.ServeHTTP(w, r.WithContext(env.WithCtx(r.Context(), environment)))
		})
	}
}

func LogRequest(logger *slog.Logger) func(http.Handler) http.Handler {
	return httplog.RequestLogger(logger, &httplog.Options{
		LogExtraAttrs: func(r *http.Request, reqBody string, respStatus int) []slog.Attr {
			if id := requestid.Extract(r.Context()); id != 0 {
				return []slog.Attr{slog.Uint64("log_id", id)}
			}
			return []slog.Attr{slog.String("log_id", "N/A")}
		},
	})
}

// AddRequestID adds a request ID to the request context.
func AddRequestID(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		requestID := ulid.Now()
		r = r.WithContext(log.AppendCtx(r.Context(), slog.Uint64("log_id", requestID)))
		r = r.WithContext(requestid.Inject(r.Context(), requestID))
		next.ServeHTTP(w, r)
	})
}

// AddCors adds the necessary CORS headers to the response.
func AddCors(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		e := env.EnvFromCtx(r.Context())
		origin := r.Header.Get("Origin")
		baseURL := e.Config.BaseURL
		isProd := e.Config.Env == "PROD"

		var allowedOrigin string
		if isProd {
			allowedOrigin = baseURL
		} else if origin != "" {
			// In dev mode, allow all origins
			allowedOrigin = origin
		}
		if allowedOrigin == "" && baseURL != "" {
			allowedOrigin = baseURL
		}

		w.Header().Set("Access-Control-Allow-Origin", allowedOrigin)
		w.Header().Set("Access-Control-Allow-Methods", "GET, POST, PUT, DELETE, OPTIONS, PATCH")
		w.Header().Set("Access-Control-Max-Age", "86400")
		w.Header().Set("Access-Control-Allow-Headers", "Content-Type, Authorization")
		w.Header().Set("Access-Control-Allow-Credentials", "true")

		if r.Method == http.MethodOptions {
			w.WriteHeader(http.StatusNoContent)
			return
		}

		next.ServeHTTP(w, r)
	})
}

func authenticate(r *http.Request) (*http.Request, *apiError.Error) {
	ctx := r.Context()
	e := env.EnvFromCtx(ctx)
	requestID := strconv.FormatUint(requestid.Extract(ctx), 10)

	rawToken, err := token.FromRequest(r)
	if err != nil {
		e.Logger.ErrorContext(ctx, "unable to get access token", slog.Any("error", err))
		return r, apiError.New(apiError.InvalidAccessToken, "invalid access token", requestID)
	}

	if e.Verifier == nil {
		e.Logger.ErrorContext(ctx, "no credential verifier configured")
		return r, apiError.New(apiError.InternalServerError, "internal server error", requestID)
	}

	id, err := e.Verifier.Verify(ctx, rawToken)
	if errors.Is(err, identity.ErrTokenExpired) {
		e.Logger.ErrorContext(ctx, "access token expired", slog.Any("error", err))
		return r, apiError.New(apiError.ExpiredAccessToken, "access token expired", requestID)
	} else if err != nil {
		e.Logger.ErrorContext(ctx, "invalid access token", slog.Any("error", err))
		return r, apiError.New(apiError.InvalidAccessToken, "invalid access token", requestID)
	}

	r = r.WithContext(log.AppendCtx(r.Context(), slog.Int64("user_id", id.UserID)))
	r = r.WithContext(token.UserIDWithCtx(r.Context(), id.UserID))
	return r, nil
}

// RequireUser validates the bearer credential and stores the user id
// in the request context. Requests without a valid credential fail.
func RequireUser(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		r, apiErr := authenticate(r)
		if apiErr != nil {
			_ = apiError.EncodeError(w, apiErr.Code, apiErr.Message, apiErr.ErrorID)
			return
		}
		next.ServeHTTP(w, r)
	})
}

// OptionalUser authenticates when a credential is present and lets
// anonymous requests through. A credential that is present but
// invalid is still rejected.
func OptionalUser(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Header.Get("Authorization") == "" {
			next.ServeHTTP(w, r)
			return
		}

		r, apiErr := authenticate(r)
		if apiErr != nil {
			_ = apiError.EncodeError(w, apiErr.Code, apiErr.Message, apiErr.ErrorID)
			return
		}
		next.ServeHTTP(w, r)
	})
}
