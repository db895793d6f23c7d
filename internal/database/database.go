// Package database is the entity store: hand-written pgx queries
// over the Postgres schema, behind a Querier interface so handlers
// can be tested against a fake.
package database

import (
	"context"
	_ "embed"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
)

//go:embed schema.sql
var schema string

// DBTX is the subset of pgx shared by pools and transactions.
type DBTX interface {
	Exec(ctx context.Context, sql string, args ...any) (pgconn.CommandTag, error)
	Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
}

type Pool interface {
	DBTX
	Begin(ctx context.Context) (pgx.Tx, error)
}

// Queries implements Querier against a live database.
type Queries struct {
	db   DBTX
	pool Pool
}

var _ Querier = (*Queries)(nil)

func New(pool Pool) *Queries {
	return &Queries{db: pool, pool: pool}
}

// withTx returns a copy of the queries scoped to the transaction.
func (q *Queries) withTx(tx pgx.Tx) *Queries {
	return &Queries{db: tx}
}

type Database struct {
	Querier

	Pool Pool
}

func NewDatabase(pool *pgxpool.Pool) *Database {
	return &Database{
		Querier: New(pool),
		Pool:    pool,
	}
}

// EnsureSchema applies the schema DDL when the database has not
// been initialized yet.
func (d *Database) EnsureSchema(ctx context.Context) error {
	exists, err := d.CheckUsersTableExists(ctx)
	if err != nil {
		return fmt.Errorf("checking schema: %w", err)
	}
	if exists {
		return nil
	}

	if _, err := d.Pool.Exec(ctx, schema); err != nil {
		return fmt.Errorf("applying database schema: %w", err)
	}
	return nil
}
