package postgres

import (
	"context"
	"database/sql"
	"time"

	"climatebuddy/internal/domain"
)

const actionColumns = "id, user_id, title, description, category, difficulty, points, completed, created_at, completed_at, co2_reduction, water_saved, waste_reduced"

func scanAction(scan func(...any) error) (*domain.Action, error) {
	var a domain.Action
	var completedAt sql.NullTime
	err := scan(&a.ID, &a.UserID, &a.Title, &a.Description, &a.Category,
		&a.Difficulty, &a.Points, &a.Completed, &a.CreatedAt, &completedAt,
		&a.Impact.CO2Reduction, &a.Impact.WaterSaved, &a.Impact.WasteReduced)
	if err != nil {
		return nil, err
	}
	if completedAt.Valid {
		t := completedAt.Time
		a.CompletedAt = &t
	}
	return &a, nil
}

// AddAction stores an action for its owner.
func (d *DB) AddAction(ctx context.Context, a *domain.Action) error {
	_, err := d.sql.ExecContext(ctx,
		"INSERT INTO actions (id, user_id, title, description, category, difficulty, points, completed, created_at, co2_reduction, water_saved, waste_reduced) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12)",
		a.ID, a.UserID, a.Title, a.Description, a.Category, a.Difficulty,
		a.Points, a.Completed, a.CreatedAt,
		a.Impact.CO2Reduction, a.Impact.WaterSaved, a.Impact.WasteReduced,
	)
	return err
}

// GetAction retrieves one of the user's actions by ID.
func (d *DB) GetAction(ctx context.Context, userID, id string) (*domain.Action, error) {
	row := d.sql.QueryRowContext(ctx,
		"SELECT "+actionColumns+" FROM actions WHERE user_id = $1 AND id = $2",
		userID, id,
	)
	a, err := scanAction(row.Scan)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return a, nil
}

// ListActions returns the user's actions, newest first.
func (d *DB) ListActions(ctx context.Context, userID string) ([]domain.Action, error) {
	rows, err := d.sql.QueryContext(ctx,
		"SELECT "+actionColumns+" FROM actions WHERE user_id = $1 ORDER BY created_at DESC",
		userID,
	)
	if err != nil {
		return nil, err
	}
	defer func() { _ = rows.Close() }()

	// Non-nil so an empty list serializes as [], matching the memory adapter.
	result := []domain.Action{}
	for rows.Next() {
		a, err := scanAction(rows.Scan)
		if err != nil {
			return nil, err
		}
		result = append(result, *a)
	}
	return result, rows.Err()
}

// MarkCompleted flags an action as done at the given time.
func (d *DB) MarkCompleted(ctx context.Context, userID, id string, at time.Time) error {
	res, err := d.sql.ExecContext(ctx,
		"UPDATE actions SET completed = TRUE, completed_at = $3 WHERE user_id = $1 AND id = $2",
		userID, id, at,
	)
	if err != nil {
		return err
	}
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return sql.ErrNoRows
	}
	return nil
}

// DeleteAction removes one of the user's actions.
func (d *DB) DeleteAction(ctx context.Context, userID, id string) error {
	_, err := d.sql.ExecContext(ctx,
		"DELETE FROM actions WHERE user_id = $1 AND id = $2", userID, id)
	return err
}
