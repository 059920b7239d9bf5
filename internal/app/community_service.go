package app

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"climatebuddy/internal/domain"

	"github.com/google/uuid"
)

// ErrEmptyPost indicates a post without content.
var ErrEmptyPost = errors.New("post content is required")

// CommunityService handles the shared community board.
type CommunityService struct {
	posts    domain.CommunityRepository
	accounts domain.AccountRepository
}

// NewCommunityService creates a CommunityService backed by the given
// repositories.
func NewCommunityService(posts domain.CommunityRepository, accounts domain.AccountRepository) *CommunityService {
	return &CommunityService{posts: posts, accounts: accounts}
}

// List returns the most recent posts, newest first.
func (s *CommunityService) List(ctx context.Context, limit int) ([]domain.CommunityPost, error) {
	if limit <= 0 {
		limit = 20
	}
	return s.posts.ListPosts(ctx, limit)
}

// Create publishes a post on behalf of the user. The display name is
// resolved from the account so clients cannot impersonate each other.
func (s *CommunityService) Create(ctx context.Context, userID, content, postType string) (*domain.CommunityPost, error) {
	if strings.TrimSpace(content) == "" {
		return nil, ErrEmptyPost
	}
	if !domain.ValidPostType(postType) {
		return nil, fmt.Errorf("unknown post type %q", postType)
	}

	acct, err := s.accounts.GetByID(ctx, userID)
	if err != nil {
		return nil, err
	}
	if acct == nil {
		return nil, ErrUserNotFound
	}

	p := &domain.CommunityPost{
		ID:        uuid.NewString(),
		UserID:    userID,
		UserName:  acct.Name,
		Content:   content,
		Type:      postType,
		Timestamp: time.Now().UTC(),
	}
	if err := s.posts.AddPost(ctx, p); err != nil {
		return nil, err
	}
	return p, nil
}

// Like increments a post's like counter and returns the new count.
func (s *CommunityService) Like(ctx context.Context, postID string) (int, error) {
	return s.posts.LikePost(ctx, postID)
}
