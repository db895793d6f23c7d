// Package env provides a structure for managing application-wide dependencies.
package env

import (
	"context"
	"log/slog"

	"github.com/rgood/tastebook/internal/config"
	"github.com/rgood/tastebook/internal/database"
	"github.com/rgood/tastebook/internal/filestore"
	"github.com/rgood/tastebook/internal/identity"
	"github.com/rgood/tastebook/internal/log"
)

type Env struct {
	Logger    *slog.Logger
	Database  *database.Database
	FileStore filestore.Store
	Verifier  identity.Verifier
	Config    *config.Config
}

type envKeyType struct{}

var envKey envKeyType

// WithCtx injects the environment into the context.
func WithCtx(ctx context.Context, e *Env) context.Context {
	return context.WithValue(ctx, envKey, e)
}

// EnvFromCtx extracts the environment from the context, falling back
// to a null environment so callers never receive nil.
func EnvFromCtx(ctx context.Context) *Env {
	if e, ok := ctx.Value(envKey).(*Env); ok {
		return e
	}
	return Null()
}

// Null returns an environment that logs nowhere. Intended for tests.
func Null() *Env {
	return &Env{
		Logger: log.NullLogger(),
		Config: &config.Config{},
	}
}
