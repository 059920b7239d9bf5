package postgres

import (
	"context"
	"database/sql"

	"climatebuddy/internal/domain"
)

// AddPost stores a community post.
func (d *DB) AddPost(ctx context.Context, p *domain.CommunityPost) error {
	_, err := d.sql.ExecContext(ctx,
		"INSERT INTO posts (id, user_id, user_name, content, post_type, created_at, likes, comments) VALUES ($1, $2, $3, $4, $5, $6, $7, $8)",
		p.ID, p.UserID, p.UserName, p.Content, p.Type, p.Timestamp, p.Likes, p.Comments,
	)
	return err
}

// ListPosts returns the most recent posts, newest first.
func (d *DB) ListPosts(ctx context.Context, limit int) ([]domain.CommunityPost, error) {
	rows, err := d.sql.QueryContext(ctx,
		"SELECT id, user_id, user_name, content, post_type, created_at, likes, comments FROM posts ORDER BY created_at DESC LIMIT $1",
		limit,
	)
	if err != nil {
		return nil, err
	}
	defer func() { _ = rows.Close() }()

	result := []domain.CommunityPost{}
	for rows.Next() {
		var p domain.CommunityPost
		if err := rows.Scan(&p.ID, &p.UserID, &p.UserName, &p.Content, &p.Type,
			&p.Timestamp, &p.Likes, &p.Comments); err != nil {
			return nil, err
		}
		result = append(result, p)
	}
	return result, rows.Err()
}

// LikePost increments a post's like counter and returns the new count.
func (d *DB) LikePost(ctx context.Context, id string) (int, error) {
	var likes int
	err := d.sql.QueryRowContext(ctx,
		"UPDATE posts SET likes = likes + 1 WHERE id = $1 RETURNING likes", id,
	).Scan(&likes)
	if err == sql.ErrNoRows {
		return 0, domain.ErrPostNotFound
	}
	return likes, err
}
