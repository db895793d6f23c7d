package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/rgood/tastebook/internal/api/token"
	"github.com/rgood/tastebook/internal/config"
	"github.com/rgood/tastebook/internal/env"
	"github.com/rgood/tastebook/internal/identity"
	tbJwt "github.com/rgood/tastebook/internal/jwt"
	"github.com/rgood/tastebook/internal/log"
)

var testSecret = []byte("0123456789abcdef0123456789abcdef")

func testEnv() *env.Env {
	return &env.Env{
		Logger:   log.NullLogger(),
		Verifier: identity.LocalVerifier{Secret: testSecret},
		Config:   &config.Config{Env: "DEV"},
	}
}

func bearer(t *testing.T, userID int64) string {
	t.Helper()
	raw, err := tbJwt.Generate(userID, testSecret, tbJwt.DefaultKID)
	if err != nil {
		t.Fatalf("failed to generate token: %v", err)
	}
	return "Bearer " + raw
}

func TestRequireUser(t *testing.T) {
	tests := []struct {
		name       string
		authHeader func(t *testing.T) string
		wantStatus int
		wantUserID int64
	}{
		{
			name:       "valid token",
			authHeader: func(t *testing.T) string { return bearer(t, 9) },
			wantStatus: http.StatusOK,
			wantUserID: 9,
		},
		{
			name:       "missing header",
			authHeader: func(t *testing.T) string { return "" },
			wantStatus: http.StatusUnauthorized,
		},
		{
			name:       "malformed header",
			authHeader: func(t *testing.T) string { return "Basic abc" },
			wantStatus: http.StatusUnauthorized,
		},
		{
			name:       "garbage token",
			authHeader: func(t *testing.T) string { return "Bearer garbage" },
			wantStatus: http.StatusUnauthorized,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var gotUserID int64
			handler := InjectEnv(testEnv())(RequireUser(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				id, err := token.UserIDFromCtx(r.Context())
				if err != nil {
					t.Errorf("expected user id in context: %v", err)
				}
				gotUserID = id
			})))

			req := httptest.NewRequest(http.MethodGet, "/", nil)
			if header := tt.authHeader(t); header != "" {
				req.Header.Set("Authorization", header)
			}
			rec := httptest.NewRecorder()
			handler.ServeHTTP(rec, req)

			if rec.Code != tt.wantStatus {
				t.Fatalf("expected status %d, got %d", tt.wantStatus, rec.Code)
			}
			if tt.wantStatus == http.StatusOK && gotUserID != tt.wantUserID {
				t.Errorf("expected user id %d, got %d", tt.wantUserID, gotUserID)
			}
		})
	}
}

func TestOptionalUser(t *testing.T) {
	t.Run("anonymous passes through", func(t *testing.T) {
		called := false
		handler := InjectEnv(testEnv())(OptionalUser(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			called = true
			if viewer := token.ViewerFromCtx(r.Context()); viewer != nil {
				t.Errorf("expected no viewer, got %d", *viewer)
			}
		})))

		req := httptest.NewRequest(http.MethodGet, "/", nil)
		rec := httptest.NewRecorder()
		handler.ServeHTTP(rec, req)

		if !called {
			t.Fatal("expected the handler to be called")
		}
		if rec.Code != http.StatusOK {
			t.Errorf("expected status 200, got %d", rec.Code)
		}
	})

	t.Run("valid token sets viewer", func(t *testing.T) {
		handler := InjectEnv(testEnv())(OptionalUser(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			viewer := token.ViewerFromCtx(r.Context())
			if viewer == nil {
				t.Fatal("expected a viewer in context")
			}
			if *viewer != 4 {
				t.Errorf("expected viewer 4, got %d", *viewer)
			}
		})))

		req := httptest.NewRequest(http.MethodGet, "/", nil)
		req.Header.Set("Authorization", bearer(t, 4))
		rec := httptest.NewRecorder()
		handler.ServeHTTP(rec, req)

		if rec.Code != http.StatusOK {
			t.Errorf("expected status 200, got %d", rec.Code)
		}
	})

	t.Run("invalid token is rejected", func(t *testing.T) {
		handler := InjectEnv(testEnv())(OptionalUser(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			t.Error("handler should not run for an invalid token")
		})))

		req := httptest.NewRequest(http.MethodGet, "/", nil)
		req.Header.Set("Authorization", "Bearer garbage")
		rec := httptest.NewRecorder()
		handler.ServeHTTP(rec, req)

		if rec.Code != http.StatusUnauthorized {
			t.Errorf("expected status 401, got %d", rec.Code)
		}
	})
}
