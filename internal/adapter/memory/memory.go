// Package memory implements in-memory repositories seeded with demo data.
// State lives for the process lifetime only.
package memory

import (
	"context"
	"errors"
	"sort"
	"sync"
	"time"

	"climatebuddy/internal/domain"

	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"
)

// DB implements the domain repositories over keyed in-memory maps.
type DB struct {
	mu       sync.Mutex
	accounts map[string]*domain.Account // by ID
	emailIdx map[string]string          // normalized email -> ID
	sessions map[string]*domain.Session // by token
	actions  map[string][]domain.Action // by user ID
	posts    []domain.CommunityPost
}

// New creates an empty in-memory database.
func New() *DB {
	return &DB{
		accounts: make(map[string]*domain.Account),
		emailIdx: make(map[string]string),
		sessions: make(map[string]*domain.Session),
		actions:  make(map[string][]domain.Action),
	}
}

// Ensure interfaces are met.
var _ domain.AccountRepository = (*DB)(nil)
var _ domain.ActionRepository = (*DB)(nil)
var _ domain.CommunityRepository = (*DB)(nil)
var _ domain.SessionRepository = (*SessionRepo)(nil)

// --- AccountRepository ---

// GetByEmail retrieves an account by email, case-insensitively.
func (db *DB) GetByEmail(ctx context.Context, email string) (*domain.Account, error) {
	db.mu.Lock()
	defer db.mu.Unlock()

	id, ok := db.emailIdx[domain.NormalizeEmail(email)]
	if !ok {
		return nil, nil
	}
	return copyAccount(db.accounts[id]), nil
}

// GetByID retrieves an account by ID.
func (db *DB) GetByID(ctx context.Context, id string) (*domain.Account, error) {
	db.mu.Lock()
	defer db.mu.Unlock()

	a, ok := db.accounts[id]
	if !ok {
		return nil, nil
	}
	return copyAccount(a), nil
}

// Create stores a new account. The email must not already be registered,
// compared case-insensitively.
func (db *DB) Create(ctx context.Context, a *domain.Account) error {
	db.mu.Lock()
	defer db.mu.Unlock()

	key := domain.NormalizeEmail(a.Email)
	if _, exists := db.emailIdx[key]; exists {
		return errors.New("account already exists")
	}
	db.accounts[a.ID] = copyAccount(a)
	db.emailIdx[key] = a.ID
	return nil
}

// UpdateLastLogin sets the account's last-login timestamp.
func (db *DB) UpdateLastLogin(ctx context.Context, id string, at time.Time) error {
	db.mu.Lock()
	defer db.mu.Unlock()

	a, ok := db.accounts[id]
	if !ok {
		return errors.New("account not found")
	}
	a.LastLogin = at
	return nil
}

// UpdateProfile replaces the account's profile.
func (db *DB) UpdateProfile(ctx context.Context, id string, p domain.Profile) error {
	db.mu.Lock()
	defer db.mu.Unlock()

	a, ok := db.accounts[id]
	if !ok {
		return errors.New("account not found")
	}
	a.Profile = p
	return nil
}

// Count returns the total number of accounts.
func (db *DB) Count(ctx context.Context) (int, error) {
	db.mu.Lock()
	defer db.mu.Unlock()
	return len(db.accounts), nil
}

func copyAccount(a *domain.Account) *domain.Account {
	cp := *a
	cp.Profile.Achievements = append([]string(nil), a.Profile.Achievements...)
	return &cp
}

// --- ActionRepository ---

// AddAction stores an action for its owner.
func (db *DB) AddAction(ctx context.Context, a *domain.Action) error {
	db.mu.Lock()
	defer db.mu.Unlock()

	db.actions[a.UserID] = append(db.actions[a.UserID], *a)
	return nil
}

// GetAction retrieves one of the user's actions by ID.
func (db *DB) GetAction(ctx context.Context, userID, id string) (*domain.Action, error) {
	db.mu.Lock()
	defer db.mu.Unlock()

	for i := range db.actions[userID] {
		if db.actions[userID][i].ID == id {
			cp := db.actions[userID][i]
			return &cp, nil
		}
	}
	return nil, nil
}

// ListActions returns the user's actions, newest first.
func (db *DB) ListActions(ctx context.Context, userID string) ([]domain.Action, error) {
	db.mu.Lock()
	defer db.mu.Unlock()

	result := make([]domain.Action, len(db.actions[userID]))
	copy(result, db.actions[userID])

	sort.Slice(result, func(i, j int) bool {
		return result[i].CreatedAt.After(result[j].CreatedAt)
	})
	return result, nil
}

// MarkCompleted flags an action as done at the given time.
func (db *DB) MarkCompleted(ctx context.Context, userID, id string, at time.Time) error {
	db.mu.Lock()
	defer db.mu.Unlock()

	items := db.actions[userID]
	for i := range items {
		if items[i].ID == id {
			items[i].Completed = true
			t := at
			items[i].CompletedAt = &t
			return nil
		}
	}
	return errors.New("action not found")
}

// DeleteAction removes one of the user's actions.
func (db *DB) DeleteAction(ctx context.Context, userID, id string) error {
	db.mu.Lock()
	defer db.mu.Unlock()

	items := db.actions[userID]
	for i := range items {
		if items[i].ID == id {
			db.actions[userID] = append(items[:i], items[i+1:]...)
			return nil
		}
	}
	// Deleting an action that is already gone is not an error.
	return nil
}

// --- CommunityRepository ---

// AddPost stores a community post.
func (db *DB) AddPost(ctx context.Context, p *domain.CommunityPost) error {
	db.mu.Lock()
	defer db.mu.Unlock()

	db.posts = append(db.posts, *p)
	return nil
}

// ListPosts returns the most recent posts, newest first.
func (db *DB) ListPosts(ctx context.Context, limit int) ([]domain.CommunityPost, error) {
	db.mu.Lock()
	defer db.mu.Unlock()

	result := make([]domain.CommunityPost, len(db.posts))
	copy(result, db.posts)

	sort.Slice(result, func(i, j int) bool {
		return result[i].Timestamp.After(result[j].Timestamp)
	})
	if len(result) > limit {
		result = result[:limit]
	}
	return result, nil
}

// LikePost increments a post's like counter and returns the new count.
func (db *DB) LikePost(ctx context.Context, id string) (int, error) {
	db.mu.Lock()
	defer db.mu.Unlock()

	for i := range db.posts {
		if db.posts[i].ID == id {
			db.posts[i].Likes++
			return db.posts[i].Likes, nil
		}
	}
	return 0, domain.ErrPostNotFound
}

// --- SessionRepository ---

// SessionRepo implements session persistence.
type SessionRepo struct {
	db *DB
}

// NewSessionRepo creates a new session repository.
func (db *DB) NewSessionRepo() *SessionRepo {
	return &SessionRepo{db: db}
}

// Create stores a new session keyed by token.
func (r *SessionRepo) Create(ctx context.Context, userID, token string, expiresAt time.Time) error {
	r.db.mu.Lock()
	defer r.db.mu.Unlock()

	r.db.sessions[token] = &domain.Session{
		UserID:    userID,
		Token:     token,
		CreatedAt: time.Now().UTC(),
		ExpiresAt: expiresAt,
	}
	return nil
}

// GetByToken retrieves a session by exact token match. Expired sessions are
// returned as-is; expiry is the caller's decision, so "invalid" and
// "expired" stay distinguishable.
func (r *SessionRepo) GetByToken(ctx context.Context, token string) (*domain.Session, error) {
	r.db.mu.Lock()
	defer r.db.mu.Unlock()

	s, ok := r.db.sessions[token]
	if !ok {
		return nil, nil
	}
	cp := *s
	return &cp, nil
}

// Delete removes a session. Deleting an absent token is a no-op.
func (r *SessionRepo) Delete(ctx context.Context, token string) error {
	r.db.mu.Lock()
	defer r.db.mu.Unlock()
	delete(r.db.sessions, token)
	return nil
}

// DeleteExpired removes all expired sessions.
func (r *SessionRepo) DeleteExpired(ctx context.Context) error {
	r.db.mu.Lock()
	defer r.db.mu.Unlock()
	now := time.Now()
	for k, v := range r.db.sessions {
		if now.After(v.ExpiresAt) {
			delete(r.db.sessions, k)
		}
	}
	return nil
}

// --- Seed data ---

// DemoCredential is a seeded account's login pair, shown on the demo login
// screen. Plaintext passwords exist only here; the stores keep bcrypt hashes.
type DemoCredential struct {
	Name     string `json:"name"`
	Email    string `json:"email"`
	Password string `json:"password"`
}

var seedAccounts = []struct {
	name, email, password, avatar string
	subscription                  string
	points                        int
}{
	{"Emma Green", "emma@climatebuddy.demo", "GreenPlanet1", "https://images.unsplash.com/photo-1494790108377?w=150&h=150&fit=crop&crop=face", domain.SubscriptionPremium, 240},
	{"Liam Rivers", "liam@climatebuddy.demo", "SolarPower2", "https://images.unsplash.com/photo-1507003211169?w=150&h=150&fit=crop&crop=face", domain.SubscriptionFree, 85},
	{"Sofia Chen", "sofia@climatebuddy.demo", "RecycleMore3", "https://images.unsplash.com/photo-1438761681033?w=150&h=150&fit=crop&crop=face", domain.SubscriptionFree, 0},
}

// Seed creates a database pre-populated with demo accounts and starter
// community posts, and returns the credentials usable to log into them.
func Seed() (*DB, []DemoCredential) {
	db := New()
	creds := make([]DemoCredential, 0, len(seedAccounts))
	now := time.Now().UTC()

	for _, s := range seedAccounts {
		hash, err := bcrypt.GenerateFromPassword([]byte(s.password), bcrypt.DefaultCost)
		if err != nil {
			// bcrypt only fails on invalid cost or oversized input; neither
			// applies to the fixed seed set.
			panic(err)
		}
		profile := domain.DefaultProfile()
		profile.Points = s.points
		profile.Level = domain.LevelForPoints(s.points)

		a := &domain.Account{
			ID:           uuid.NewString(),
			Name:         s.name,
			Email:        s.email,
			PasswordHash: string(hash),
			Avatar:       s.avatar,
			Subscription: s.subscription,
			CreatedAt:    now,
			LastLogin:    now,
			Profile:      profile,
		}
		if err := db.Create(context.Background(), a); err != nil {
			panic(err)
		}
		creds = append(creds, DemoCredential{Name: s.name, Email: s.email, Password: s.password})
	}

	db.posts = []domain.CommunityPost{
		{
			ID:        uuid.NewString(),
			UserName:  "EcoWarrior23",
			Content:   "Just completed my first week of biking to work! Saved 2.5kg of CO₂! 🚴‍♀️💚",
			Type:      domain.PostTypeAchievement,
			Timestamp: now.Add(-2 * time.Hour),
			Likes:     12,
		},
		{
			ID:        uuid.NewString(),
			UserName:  "GreenThumb",
			Content:   "Pro tip: Start a small herb garden on your windowsill! 🌿",
			Type:      domain.PostTypeTip,
			Timestamp: now.Add(-26 * time.Hour),
			Likes:     8,
		},
	}

	return db, creds
}
