package domain

import (
	"context"
	"errors"
	"time"
)

// ErrPostNotFound indicates the referenced community post does not exist.
var ErrPostNotFound = errors.New("post not found")

// Community post types.
const (
	PostTypeAchievement = "achievement"
	PostTypeTip         = "tip"
	PostTypeQuestion    = "question"
	PostTypeProject     = "project"
)

// CommunityPost is a message shared on the community board.
type CommunityPost struct {
	ID        string    `json:"id"`
	UserID    string    `json:"userId"`
	UserName  string    `json:"userName"`
	Content   string    `json:"content"`
	Type      string    `json:"type"`
	Timestamp time.Time `json:"timestamp"`
	Likes     int       `json:"likes"`
	Comments  int       `json:"comments"`
}

// ValidPostType reports whether t is a known post type.
func ValidPostType(t string) bool {
	switch t {
	case PostTypeAchievement, PostTypeTip, PostTypeQuestion, PostTypeProject:
		return true
	}
	return false
}

// CommunityRepository is the port for community post persistence.
type CommunityRepository interface {
	AddPost(ctx context.Context, p *CommunityPost) error
	ListPosts(ctx context.Context, limit int) ([]CommunityPost, error)
	LikePost(ctx context.Context, id string) (int, error)
}
