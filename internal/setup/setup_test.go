package setup

import (
	"context"
	"testing"

	"github.com/rgood/tastebook/internal/config"
	"github.com/rgood/tastebook/internal/database"
	"github.com/rgood/tastebook/internal/database/dbmock"
	"github.com/rgood/tastebook/internal/env"
	tbHttp "github.com/rgood/tastebook/internal/http"
	"github.com/rgood/tastebook/internal/identity"
	"github.com/rgood/tastebook/internal/log"
)

func bootstrapEnv(store *dbmock.Store, conf config.BootstrapConfig) *env.Env {
	return &env.Env{
		Logger:   log.NullLogger(),
		Database: &database.Database{Querier: store},
		Config:   &config.Config{Bootstrap: conf},
	}
}

func TestBootstrap(t *testing.T) {
	ctx := context.Background()

	t.Run("creates the initial user", func(t *testing.T) {
		store := dbmock.New()
		e := bootstrapEnv(store, config.BootstrapConfig{
			Email:    "admin@example.com",
			Password: "c0rrect-Horse-battery",
		})
		if err := Bootstrap(ctx, e); err != nil {
			t.Fatalf("bootstrap failed: %v", err)
		}

		count, err := store.CountUsers(ctx)
		if err != nil {
			t.Fatalf("failed to count users: %v", err)
		}
		if count != 1 {
			t.Fatalf("expected 1 user, got %d", count)
		}
		for _, u := range store.Users {
			if u.Username != "admin" {
				t.Errorf("expected default username admin, got %q", u.Username)
			}
			if u.PasswordHash == "" || u.PasswordHash == "c0rrect-Horse-battery" {
				t.Error("expected the password to be stored hashed")
			}
		}
	})

	t.Run("skips when unconfigured", func(t *testing.T) {
		store := dbmock.New()
		if err := Bootstrap(ctx, bootstrapEnv(store, config.BootstrapConfig{})); err != nil {
			t.Fatalf("bootstrap failed: %v", err)
		}
		if count, _ := store.CountUsers(ctx); count != 0 {
			t.Errorf("expected no users, got %d", count)
		}
	})

	t.Run("skips when users exist", func(t *testing.T) {
		store := dbmock.New()
		store.SeedUser("existing", "existing@example.com")
		e := bootstrapEnv(store, config.BootstrapConfig{
			Email:    "admin@example.com",
			Password: "c0rrect-Horse-battery",
		})
		if err := Bootstrap(ctx, e); err != nil {
			t.Fatalf("bootstrap failed: %v", err)
		}
		if count, _ := store.CountUsers(ctx); count != 1 {
			t.Errorf("expected the existing user only, got %d", count)
		}
	})

	t.Run("rejects a bad email", func(t *testing.T) {
		e := bootstrapEnv(dbmock.New(), config.BootstrapConfig{
			Email:    "not-an-email",
			Password: "c0rrect-Horse-battery",
		})
		if err := Bootstrap(ctx, e); err == nil {
			t.Error("expected an error for an invalid email")
		}
	})
}

func TestVerifier(t *testing.T) {
	client := tbHttp.New(tbHttp.DefaultConfig())

	t.Run("local secret wins", func(t *testing.T) {
		conf := &config.Config{Auth: config.AuthConfig{
			Secret:           "0123456789abcdef0123456789abcdef",
			IntrospectionURL: "https://auth.example.com/introspect",
		}}
		v, err := Verifier(conf, client)
		if err != nil {
			t.Fatalf("failed to build verifier: %v", err)
		}
		if _, ok := v.(identity.LocalVerifier); !ok {
			t.Errorf("expected a LocalVerifier, got %T", v)
		}
	})

	t.Run("falls back to introspection", func(t *testing.T) {
		conf := &config.Config{Auth: config.AuthConfig{
			IntrospectionURL: "https://auth.example.com/introspect",
		}}
		v, err := Verifier(conf, client)
		if err != nil {
			t.Fatalf("failed to build verifier: %v", err)
		}
		if _, ok := v.(*identity.Introspector); !ok {
			t.Errorf("expected an Introspector, got %T", v)
		}
	})

	t.Run("fails with neither", func(t *testing.T) {
		if _, err := Verifier(&config.Config{}, client); err == nil {
			t.Error("expected an error with no auth configuration")
		}
	})
}
