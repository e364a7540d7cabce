//go:build integration

// Package testutil sets up a real PostgreSQL schema for integration tests.
package testutil

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"runtime"
	"testing"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/rs/zerolog"
	"github.com/yigit/campusconnect/internal/app/migrations"
)

// NewPostgres connects to DATABASE_URL, applies the migrations and empties every table.
// The test is skipped when DATABASE_URL is not set. Packages share the database, so run
// them one at a time: go test -tags integration -p 1 ./...
func NewPostgres(t *testing.T) *pgxpool.Pool {
	t.Helper()

	dsn := os.Getenv("DATABASE_URL")
	if dsn == "" {
		t.Skip("DATABASE_URL not set; skipping integration test")
	}

	ctx := context.Background()
	pool, err := pgxpool.New(ctx, dsn)
	if err != nil {
		t.Fatalf("db connect failed: %v", err)
	}
	t.Cleanup(pool.Close)

	if err := migrations.NewMigrator(pool, zerolog.Nop()).MigrateFromDirectory(ctx, migrationsDir()); err != nil {
		t.Fatalf("migrate failed: %v", err)
	}

	// Every table references users, directly or through a parent row.
	if _, err := pool.Exec(ctx, "TRUNCATE users RESTART IDENTITY CASCADE"); err != nil {
		t.Fatalf("truncate failed: %v", err)
	}
	return pool
}

// CreateUser inserts an active user with an empty profile and returns its id.
func CreateUser(t *testing.T, pool *pgxpool.Pool, email string) int64 {
	t.Helper()

	ctx := context.Background()
	var id int64
	err := pool.QueryRow(ctx,
		"INSERT INTO users (email, password_hash, is_active) VALUES ($1, 'x', true) RETURNING id",
		email).Scan(&id)
	if err != nil {
		t.Fatalf("create user %s: %v", email, err)
	}
	if _, err := pool.Exec(ctx,
		"INSERT INTO profiles (user_id, email, full_name) VALUES ($1, $2, $3)",
		id, email, email); err != nil {
		t.Fatalf("create profile %s: %v", email, err)
	}
	return id
}

// CountRows counts rows of table whose column equals value.
func CountRows(t *testing.T, pool *pgxpool.Pool, table, column string, value int64) int64 {
	t.Helper()

	var n int64
	query := fmt.Sprintf("SELECT count(*) FROM %s WHERE %s = $1", table, column)
	if err := pool.QueryRow(context.Background(), query, value).Scan(&n); err != nil {
		t.Fatalf("count %s: %v", table, err)
	}
	return n
}

func migrationsDir() string {
	_, file, _, _ := runtime.Caller(0)
	return filepath.Join(filepath.Dir(file), "..", "..", "migrations")
}
