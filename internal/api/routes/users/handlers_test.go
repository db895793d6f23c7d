package users_test

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/rgood/tastebook/internal/api"
	"github.com/rgood/tastebook/internal/config"
	"github.com/rgood/tastebook/internal/database"
	"github.com/rgood/tastebook/internal/database/dbmock"
	"github.com/rgood/tastebook/internal/env"
	"github.com/rgood/tastebook/internal/identity"
	tbJwt "github.com/rgood/tastebook/internal/jwt"
	"github.com/rgood/tastebook/internal/log"
	"github.com/rgood/tastebook/internal/recipe"
)

var testSecret = []byte("0123456789abcdef0123456789abcdef")

func newServer(store *dbmock.Store) http.Handler {
	return api.Routes(&env.Env{
		Logger:   log.NullLogger(),
		Database: &database.Database{Querier: store},
		Verifier: identity.LocalVerifier{Secret: testSecret},
		Config:   &config.Config{Env: "DEV"},
	})
}

func bearer(t *testing.T, userID int64) string {
	t.Helper()
	raw, err := tbJwt.Generate(userID, testSecret, tbJwt.DefaultKID)
	if err != nil {
		t.Fatalf("failed to generate token: %v", err)
	}
	return "Bearer " + raw
}

func do(t *testing.T, server http.Handler, method, path, auth string, body any) *httptest.ResponseRecorder {
	t.Helper()
	var reader *bytes.Reader
	if body != nil {
		raw, err := json.Marshal(body)
		if err != nil {
			t.Fatalf("failed to marshal body: %v", err)
		}
		reader = bytes.NewReader(raw)
	} else {
		reader = bytes.NewReader(nil)
	}
	req := httptest.NewRequest(method, path, reader)
	req.Header.Set("Content-Type", "application/json")
	if auth != "" {
		req.Header.Set("Authorization", auth)
	}
	rec := httptest.NewRecorder()
	server.ServeHTTP(rec, req)
	return rec
}

func TestGetMe(t *testing.T) {
	store := dbmock.New()
	user := store.SeedUser("alice", "alice@example.com")
	server := newServer(store)

	rec := do(t, server, http.MethodGet, "/api/users/me", bearer(t, user.ID), nil)
	if rec.Code != http.StatusOK {
		t.Fatalf("expected status 200, got %d: %s", rec.Code, rec.Body.String())
	}

	var payload recipe.Author
	if err := json.Unmarshal(rec.Body.Bytes(), &payload); err != nil {
		t.Fatalf("failed to decode user: %v", err)
	}
	if payload.ID != user.ID {
		t.Errorf("expected id %d, got %d", user.ID, payload.ID)
	}
	if payload.Username != "alice" {
		t.Errorf("expected username alice, got %q", payload.Username)
	}
	if payload.Email != "alice@example.com" {
		t.Errorf("expected email alice@example.com, got %q", payload.Email)
	}
}

func TestGetMeRequiresAuth(t *testing.T) {
	server := newServer(dbmock.New())
	rec := do(t, server, http.MethodGet, "/api/users/me", "", nil)
	if rec.Code != http.StatusUnauthorized {
		t.Errorf("expected status 401, got %d", rec.Code)
	}
}

func TestUpdateMe(t *testing.T) {
	store := dbmock.New()
	user := store.SeedUser("alice", "alice@example.com")
	taken := store.SeedUser("bob", "bob@example.com")
	server := newServer(store)

	t.Run("updates bio only", func(t *testing.T) {
		rec := do(t, server, http.MethodPatch, "/api/users/me", bearer(t, user.ID),
			map[string]any{"bio": "home cook"})
		if rec.Code != http.StatusOK {
			t.Fatalf("expected status 200, got %d: %s", rec.Code, rec.Body.String())
		}
		var payload recipe.Author
		if err := json.Unmarshal(rec.Body.Bytes(), &payload); err != nil {
			t.Fatalf("failed to decode user: %v", err)
		}
		if payload.Bio != "home cook" {
			t.Errorf("expected bio updated, got %q", payload.Bio)
		}
		if payload.Username != "alice" {
			t.Errorf("username should be untouched, got %q", payload.Username)
		}
	})

	t.Run("rejects a taken username", func(t *testing.T) {
		rec := do(t, server, http.MethodPatch, "/api/users/me", bearer(t, user.ID),
			map[string]any{"username": taken.Username})
		if rec.Code != http.StatusConflict {
			t.Errorf("expected status 409, got %d", rec.Code)
		}
		var body struct {
			Code string `json:"code"`
		}
		if err := json.Unmarshal(rec.Body.Bytes(), &body); err != nil {
			t.Fatalf("failed to decode error: %v", err)
		}
		if body.Code != "username_conflict" {
			t.Errorf("expected code username_conflict, got %q", body.Code)
		}
	})

	t.Run("rejects an empty username", func(t *testing.T) {
		rec := do(t, server, http.MethodPatch, "/api/users/me", bearer(t, user.ID),
			map[string]any{"username": ""})
		if rec.Code != http.StatusUnprocessableEntity {
			t.Errorf("expected status 422, got %d", rec.Code)
		}
	})
}
