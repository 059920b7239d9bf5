package postgres

import (
	"context"
	"database/sql"
	"encoding/json"
	"time"

	"climatebuddy/internal/domain"
)

const accountColumns = "id, name, email, password_hash, avatar, subscription, created_at, last_login, profile"

func scanAccount(row *sql.Row) (*domain.Account, error) {
	var a domain.Account
	var profileJSON []byte
	err := row.Scan(&a.ID, &a.Name, &a.Email, &a.PasswordHash, &a.Avatar,
		&a.Subscription, &a.CreatedAt, &a.LastLogin, &profileJSON)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	if err := json.Unmarshal(profileJSON, &a.Profile); err != nil {
		return nil, err
	}
	return &a, nil
}

// GetByEmail retrieves an account by email, case-insensitively.
func (d *DB) GetByEmail(ctx context.Context, email string) (*domain.Account, error) {
	row := d.sql.QueryRowContext(ctx,
		"SELECT "+accountColumns+" FROM accounts WHERE LOWER(email) = LOWER($1)",
		email,
	)
	return scanAccount(row)
}

// GetByID retrieves an account by ID.
func (d *DB) GetByID(ctx context.Context, id string) (*domain.Account, error) {
	row := d.sql.QueryRowContext(ctx,
		"SELECT "+accountColumns+" FROM accounts WHERE id = $1",
		id,
	)
	return scanAccount(row)
}

// Create stores a new account. The unique index on LOWER(email) backs the
// case-insensitive uniqueness invariant.
func (d *DB) Create(ctx context.Context, a *domain.Account) error {
	profileJSON, err := json.Marshal(a.Profile)
	if err != nil {
		return err
	}
	_, err = d.sql.ExecContext(ctx,
		"INSERT INTO accounts (id, name, email, password_hash, avatar, subscription, created_at, last_login, profile) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)",
		a.ID, a.Name, a.Email, a.PasswordHash, a.Avatar, a.Subscription, a.CreatedAt, a.LastLogin, profileJSON,
	)
	return err
}

// UpdateLastLogin sets the account's last-login timestamp.
func (d *DB) UpdateLastLogin(ctx context.Context, id string, at time.Time) error {
	_, err := d.sql.ExecContext(ctx, "UPDATE accounts SET last_login = $2 WHERE id = $1", id, at)
	return err
}

// UpdateProfile replaces the account's profile.
func (d *DB) UpdateProfile(ctx context.Context, id string, p domain.Profile) error {
	profileJSON, err := json.Marshal(p)
	if err != nil {
		return err
	}
	_, err = d.sql.ExecContext(ctx, "UPDATE accounts SET profile = $2 WHERE id = $1", id, profileJSON)
	return err
}

// Count returns the total number of accounts.
func (d *DB) Count(ctx context.Context) (int, error) {
	var count int
	err := d.sql.QueryRowContext(ctx, "SELECT COUNT(*) FROM accounts").Scan(&count)
	return count, err
}

// SessionRepo implements session repository operations on DB.
type SessionRepo struct {
	db *DB
}

// NewSessionRepo wraps a DB as a SessionRepository.
func NewSessionRepo(db *DB) *SessionRepo {
	return &SessionRepo{db: db}
}

// Create stores a new session.
func (r *SessionRepo) Create(ctx context.Context, userID, token string, expiresAt time.Time) error {
	_, err := r.db.sql.ExecContext(ctx,
		"INSERT INTO sessions (token, user_id, expires_at, created_at) VALUES ($1, $2, $3, $4)",
		token, userID, expiresAt, time.Now(),
	)
	return err
}

// GetByToken retrieves a session by exact token match. Expired sessions are
// returned as-is; expiry is enforced by the auth service on access.
func (r *SessionRepo) GetByToken(ctx context.Context, token string) (*domain.Session, error) {
	var s domain.Session
	err := r.db.sql.QueryRowContext(ctx,
		"SELECT token, user_id, expires_at, created_at FROM sessions WHERE token = $1",
		token,
	).Scan(&s.Token, &s.UserID, &s.ExpiresAt, &s.CreatedAt)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &s, nil
}

// Delete deletes a session by token.
func (r *SessionRepo) Delete(ctx context.Context, token string) error {
	_, err := r.db.sql.ExecContext(ctx, "DELETE FROM sessions WHERE token = $1", token)
	return err
}

// DeleteExpired deletes all expired sessions.
func (r *SessionRepo) DeleteExpired(ctx context.Context) error {
	_, err := r.db.sql.ExecContext(ctx, "DELETE FROM sessions WHERE expires_at < $1", time.Now())
	return err
}
