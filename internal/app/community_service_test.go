package app

import (
	"context"
	"testing"

	"climatebuddy/internal/domain"
)

type mockCommunityRepo struct {
	addPostFn   func(ctx context.Context, p *domain.CommunityPost) error
	listPostsFn func(ctx context.Context, limit int) ([]domain.CommunityPost, error)
	likePostFn  func(ctx context.Context, id string) (int, error)
}

func (m *mockCommunityRepo) AddPost(ctx context.Context, p *domain.CommunityPost) error {
	if m.addPostFn != nil {
		return m.addPostFn(ctx, p)
	}
	return nil
}

func (m *mockCommunityRepo) ListPosts(ctx context.Context, limit int) ([]domain.CommunityPost, error) {
	if m.listPostsFn != nil {
		return m.listPostsFn(ctx, limit)
	}
	return nil, nil
}

func (m *mockCommunityRepo) LikePost(ctx context.Context, id string) (int, error) {
	if m.likePostFn != nil {
		return m.likePostFn(ctx, id)
	}
	return 0, domain.ErrPostNotFound
}

func TestCommunityService_Create(t *testing.T) {
	acct := &domain.Account{ID: "user-1", Name: "Ann"}
	accounts := &mockAccountRepo{
		getByIDFn: func(ctx context.Context, id string) (*domain.Account, error) {
			return acct, nil
		},
	}
	var stored *domain.CommunityPost
	posts := &mockCommunityRepo{
		addPostFn: func(ctx context.Context, p *domain.CommunityPost) error {
			stored = p
			return nil
		},
	}
	svc := NewCommunityService(posts, accounts)

	p, err := svc.Create(context.Background(), "user-1", "Planted three trees today!", domain.PostTypeAchievement)
	if err != nil {
		t.Fatalf("expected no error, got %v", err)
	}
	if p.UserName != "Ann" {
		t.Errorf("expected the display name resolved from the account, got %q", p.UserName)
	}
	if p.ID == "" || p.Timestamp.IsZero() {
		t.Error("expected ID and timestamp to be set")
	}
	if stored == nil || stored.ID != p.ID {
		t.Error("expected the post to be persisted")
	}
}

func TestCommunityService_Create_Validation(t *testing.T) {
	svc := NewCommunityService(&mockCommunityRepo{}, &mockAccountRepo{})

	_, err := svc.Create(context.Background(), "user-1", "   ", domain.PostTypeTip)
	if err != ErrEmptyPost {
		t.Errorf("expected ErrEmptyPost, got %v", err)
	}

	_, err = svc.Create(context.Background(), "user-1", "hello", "rant")
	if err == nil {
		t.Error("expected error for unknown post type")
	}

	// Unknown user: validation passes but the account lookup fails.
	_, err = svc.Create(context.Background(), "ghost", "hello", domain.PostTypeTip)
	if err != ErrUserNotFound {
		t.Errorf("expected ErrUserNotFound, got %v", err)
	}
}

func TestCommunityService_List_DefaultLimit(t *testing.T) {
	var gotLimit int
	posts := &mockCommunityRepo{
		listPostsFn: func(ctx context.Context, limit int) ([]domain.CommunityPost, error) {
			gotLimit = limit
			return nil, nil
		},
	}
	svc := NewCommunityService(posts, &mockAccountRepo{})

	if _, err := svc.List(context.Background(), 0); err != nil {
		t.Fatalf("expected no error, got %v", err)
	}
	if gotLimit != 20 {
		t.Errorf("expected default limit 20, got %d", gotLimit)
	}
}

func TestCommunityService_Like_Unknown(t *testing.T) {
	svc := NewCommunityService(&mockCommunityRepo{}, &mockAccountRepo{})

	_, err := svc.Like(context.Background(), "missing")
	if err != domain.ErrPostNotFound {
		t.Errorf("expected ErrPostNotFound, got %v", err)
	}
}
