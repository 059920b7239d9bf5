// Package domain contains the core business entities and interfaces.
package domain

import (
	"context"
	"strings"
	"time"
)

// Subscription tiers an account can hold.
const (
	SubscriptionFree       = "free"
	SubscriptionPremium    = "premium"
	SubscriptionEnterprise = "enterprise"
)

// Account is a registered user's credential and profile record.
type Account struct {
	ID           string
	Name         string
	Email        string // unique, compared case-insensitively
	PasswordHash string
	Avatar       string
	Subscription string
	CreatedAt    time.Time
	LastLogin    time.Time
	Profile      Profile
}

// Profile holds the learning preferences and gamification state owned by
// exactly one Account.
type Profile struct {
	AgeGroup       string   `json:"ageGroup"`
	KnowledgeLevel string   `json:"knowledgeLevel"`
	Language       string   `json:"language"`
	Location       string   `json:"location"`
	Points         int      `json:"points"`
	Level          int      `json:"level"`
	Achievements   []string `json:"achievements"`
}

// DefaultProfile returns the profile assigned to new accounts at signup.
func DefaultProfile() Profile {
	return Profile{
		AgeGroup:       "adult",
		KnowledgeLevel: "beginner",
		Language:       "en",
		Location:       "Unknown",
		Points:         0,
		Level:          1,
		Achievements:   []string{},
	}
}

// ProfilePatch is a field-level partial update of a Profile. Nil fields keep
// their current value.
type ProfilePatch struct {
	AgeGroup       *string   `json:"ageGroup"`
	KnowledgeLevel *string   `json:"knowledgeLevel"`
	Language       *string   `json:"language"`
	Location       *string   `json:"location"`
	Points         *int      `json:"points"`
	Level          *int      `json:"level"`
	Achievements   *[]string `json:"achievements"`
}

// Merge applies the patch on top of p and returns the result.
func (p Profile) Merge(patch ProfilePatch) Profile {
	if patch.AgeGroup != nil {
		p.AgeGroup = *patch.AgeGroup
	}
	if patch.KnowledgeLevel != nil {
		p.KnowledgeLevel = *patch.KnowledgeLevel
	}
	if patch.Language != nil {
		p.Language = *patch.Language
	}
	if patch.Location != nil {
		p.Location = *patch.Location
	}
	if patch.Points != nil {
		p.Points = *patch.Points
	}
	if patch.Level != nil {
		p.Level = *patch.Level
	}
	if patch.Achievements != nil {
		p.Achievements = *patch.Achievements
	}
	return p
}

// PublicUser is the subset of Account fields safe to return to a caller.
// The password hash is never part of it.
type PublicUser struct {
	ID           string    `json:"id"`
	Email        string    `json:"email"`
	Name         string    `json:"name"`
	Avatar       string    `json:"avatar,omitempty"`
	Subscription string    `json:"subscription"`
	CreatedAt    time.Time `json:"createdAt"`
	LastLogin    time.Time `json:"lastLogin"`
}

// Public returns the account's public view.
func (a *Account) Public() *PublicUser {
	return &PublicUser{
		ID:           a.ID,
		Email:        a.Email,
		Name:         a.Name,
		Avatar:       a.Avatar,
		Subscription: a.Subscription,
		CreatedAt:    a.CreatedAt,
		LastLogin:    a.LastLogin,
	}
}

// Session is an issued token granting time-bounded authenticated access on
// behalf of one Account. Removal from the store encodes both terminal states
// (expired, revoked); no status flag is kept.
type Session struct {
	UserID    string
	Token     string
	CreatedAt time.Time
	ExpiresAt time.Time
}

// NormalizeEmail lowercases and trims an email for case-insensitive
// comparison and storage keys.
func NormalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

// AccountRepository defines the port for account persistence operations.
// Lookups return (nil, nil) when no account matches.
type AccountRepository interface {
	GetByEmail(ctx context.Context, email string) (*Account, error)
	GetByID(ctx context.Context, id string) (*Account, error)
	Create(ctx context.Context, a *Account) error
	UpdateLastLogin(ctx context.Context, id string, at time.Time) error
	UpdateProfile(ctx context.Context, id string, p Profile) error
	Count(ctx context.Context) (int, error)
}

// SessionRepository defines the port for session persistence operations.
type SessionRepository interface {
	Create(ctx context.Context, userID, token string, expiresAt time.Time) error
	GetByToken(ctx context.Context, token string) (*Session, error)
	Delete(ctx context.Context, token string) error
	DeleteExpired(ctx context.Context) error
}
