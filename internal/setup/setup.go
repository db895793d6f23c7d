// Package setup is responsible for setting up components.
package setup

import (
	"context"
	"fmt"
	"net/mail"

	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/rgood/tastebook/internal/argon2id"
	"github.com/rgood/tastebook/internal/config"
	"github.com/rgood/tastebook/internal/database"
	"github.com/rgood/tastebook/internal/env"
	"github.com/rgood/tastebook/internal/filestore"
	tbHttp "github.com/rgood/tastebook/internal/http"
	"github.com/rgood/tastebook/internal/identity"
	"github.com/rgood/tastebook/internal/jwt"
)

// Database opens the connection pool and applies the schema if the
// database has not been initialized.
func Database(ctx context.Context, conf *config.Config) (*database.Database, error) {
	pool, err := pgxpool.New(ctx, conf.Database.URL())
	if err != nil {
		return nil, fmt.Errorf("creating database pool: %w", err)
	}

	db := database.NewDatabase(pool)
	if err := db.EnsureSchema(ctx); err != nil {
		return nil, fmt.Errorf("initializing database: %w", err)
	}
	return db, nil
}

// FileStore sets up the object store client when storage is
// configured; image references stay unresolved otherwise.
func FileStore(ctx context.Context, conf *config.Config) (filestore.Store, error) {
	if !conf.Storage.Enabled() {
		return nil, nil
	}

	fs, err := filestore.New(filestore.Config{
		Endpoint:  conf.Storage.Endpoint,
		AccessKey: conf.Storage.AccessKey,
		SecretKey: conf.Storage.SecretKey,
		Bucket:    conf.Storage.Bucket,
		UseSSL:    conf.Storage.UseSSL,
		URLExpiry: conf.Storage.URLExpiry,
	})
	if err != nil {
		return nil, err
	}
	if err := fs.EnsureBucket(ctx); err != nil {
		return nil, err
	}
	return fs, nil
}

// Verifier picks the credential verifier: local HS256 validation
// when a secret is configured, remote introspection otherwise.
func Verifier(conf *config.Config, client *tbHttp.HTTP) (identity.Verifier, error) {
	if conf.Auth.Secret != "" {
		kid := conf.Auth.SecretVersion
		if kid == "" {
			kid = jwt.DefaultKID
		}
		return identity.LocalVerifier{
			Secret: []byte(conf.Auth.Secret),
			KID:    kid,
		}, nil
	}

	if conf.Auth.IntrospectionURL == "" {
		return nil, fmt.Errorf("no auth secret and no introspection url configured")
	}
	return &identity.Introspector{
		HTTP: client,
		URL:  conf.Auth.IntrospectionURL,
	}, nil
}

// Bootstrap creates the initial user when the users table is empty.
// Token issuance stays with the identity provider; this only gives
// the catalog an owner identity to start from.
func Bootstrap(ctx context.Context, e *env.Env) error {
	conf := e.Config.Bootstrap
	if conf.Email == "" || conf.Password == "" {
		e.Logger.Info("bootstrap user not configured, skipping")
		return nil
	}

	if _, err := mail.ParseAddress(conf.Email); err != nil {
		return fmt.Errorf("parsing bootstrap email: %w", err)
	}

	count, err := e.Database.CountUsers(ctx)
	if err != nil {
		return fmt.Errorf("counting users: %w", err)
	}
	if count > 0 {
		e.Logger.Info("users already exist, skipping bootstrap")
		return nil
	}

	hashedPassword, err := argon2id.EncodeHash(string(conf.Password), argon2id.DefaultParams)
	if err != nil {
		return fmt.Errorf("hashing bootstrap password: %w", err)
	}

	username := conf.Username
	if username == "" {
		username = "admin"
	}
	if _, err := e.Database.CreateUser(ctx, database.CreateUserParams{
		Username:     username,
		Email:        conf.Email,
		PasswordHash: hashedPassword,
	}); err != nil {
		return fmt.Errorf("creating bootstrap user: %w", err)
	}
	e.Logger.Info("bootstrap user created")
	return nil
}
