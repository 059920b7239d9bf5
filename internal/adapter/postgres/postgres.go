// Package postgres implements the domain repositories using PostgreSQL.
package postgres

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	_ "github.com/lib/pq"
)

// DB wraps a *sql.DB and implements domain repository interfaces.
type DB struct {
	sql *sql.DB
}

// Open connects to PostgreSQL, pings, and runs migrations.
func Open(connStr string) (*DB, error) {
	s, err := sql.Open("postgres", connStr)
	if err != nil {
		return nil, err
	}
	s.SetMaxOpenConns(10)
	s.SetMaxIdleConns(5)
	s.SetConnMaxLifetime(5 * time.Minute)

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := s.PingContext(ctx); err != nil {
		_ = s.Close()
		return nil, err
	}

	d := &DB{sql: s}
	if err := d.migrate(ctx); err != nil {
		_ = s.Close()
		return nil, err
	}
	return d, nil
}

// Close closes the underlying database connection.
func (d *DB) Close() error {
	return d.sql.Close()
}

func (d *DB) migrate(ctx context.Context) error {
	stmts := []string{
		"CREATE TABLE IF NOT EXISTS accounts (id TEXT PRIMARY KEY, name TEXT NOT NULL, email TEXT NOT NULL, password_hash TEXT NOT NULL, avatar TEXT NOT NULL DEFAULT '', subscription TEXT NOT NULL DEFAULT 'free' CHECK(subscription IN ('free','premium','enterprise')), created_at TIMESTAMPTZ NOT NULL, last_login TIMESTAMPTZ NOT NULL, profile JSONB NOT NULL DEFAULT '{}');",
		"CREATE UNIQUE INDEX IF NOT EXISTS idx_accounts_email_lower ON accounts(LOWER(email));",
		"CREATE TABLE IF NOT EXISTS sessions (token TEXT PRIMARY KEY, user_id TEXT NOT NULL REFERENCES accounts(id) ON DELETE CASCADE, expires_at TIMESTAMPTZ NOT NULL, created_at TIMESTAMPTZ NOT NULL);",
		"CREATE INDEX IF NOT EXISTS idx_sessions_expires_at ON sessions(expires_at);",
		"CREATE TABLE IF NOT EXISTS actions (id TEXT PRIMARY KEY, user_id TEXT NOT NULL REFERENCES accounts(id) ON DELETE CASCADE, title TEXT NOT NULL, description TEXT NOT NULL DEFAULT '', category TEXT NOT NULL CHECK(category IN ('energy','water','waste','transport','food')), difficulty TEXT NOT NULL CHECK(difficulty IN ('easy','medium','hard')), points INT NOT NULL, completed BOOLEAN NOT NULL DEFAULT FALSE, created_at TIMESTAMPTZ NOT NULL, completed_at TIMESTAMPTZ, co2_reduction DOUBLE PRECISION NOT NULL DEFAULT 0, water_saved DOUBLE PRECISION NOT NULL DEFAULT 0, waste_reduced DOUBLE PRECISION NOT NULL DEFAULT 0);",
		"CREATE INDEX IF NOT EXISTS idx_actions_user_id ON actions(user_id);",
		"CREATE TABLE IF NOT EXISTS posts (id TEXT PRIMARY KEY, user_id TEXT NOT NULL DEFAULT '', user_name TEXT NOT NULL, content TEXT NOT NULL, post_type TEXT NOT NULL CHECK(post_type IN ('achievement','tip','question','project')), created_at TIMESTAMPTZ NOT NULL, likes INT NOT NULL DEFAULT 0, comments INT NOT NULL DEFAULT 0);",
		"CREATE INDEX IF NOT EXISTS idx_posts_created_at ON posts(created_at);",
	}

	for _, stmt := range stmts {
		if _, err := d.sql.ExecContext(ctx, stmt); err != nil {
			return fmt.Errorf("migrate: %w", err)
		}
	}
	return nil
}
