// Package app holds the application services and business logic.
package app

import (
	"context"
	"errors"
	"fmt"
	"math/rand/v2"
	"regexp"
	"time"
	"unicode"

	"climatebuddy/internal/domain"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"
)

// Error texts surface verbatim in API responses, so they are full sentences.
var (
	// ErrMissingCredentials indicates an empty email or password on login.
	ErrMissingCredentials = errors.New("Email and password are required")
	// ErrInvalidCredentials covers both unknown email and wrong password so a
	// caller cannot tell which field was wrong.
	ErrInvalidCredentials = errors.New("Invalid email or password")
	// ErrAllFieldsRequired indicates a signup with a missing required field.
	ErrAllFieldsRequired = errors.New("All fields are required")
	// ErrEmailTaken indicates the signup email is already registered.
	ErrEmailTaken = errors.New("An account with this email already exists")
	// ErrInvalidEmail indicates the signup email is malformed.
	ErrInvalidEmail = errors.New("Please enter a valid email address")
	// ErrPasswordTooShort indicates a password below the minimum length.
	ErrPasswordTooShort = errors.New("Password must be at least 8 characters long")
	// ErrPasswordTooWeak indicates a password missing a required character class.
	ErrPasswordTooWeak = errors.New("Password must contain at least one uppercase letter, one lowercase letter, and one number")
	// ErrPasswordMismatch indicates password and confirmation differ.
	ErrPasswordMismatch = errors.New("Passwords do not match")
	// ErrTermsNotAgreed indicates the terms checkbox was not ticked.
	ErrTermsNotAgreed = errors.New("You must agree to the terms and conditions")
	// ErrEmailRequired indicates a forgot-password call without an email.
	ErrEmailRequired = errors.New("Email is required")
	// ErrInvalidToken indicates the token matches no stored session.
	ErrInvalidToken = errors.New("Invalid token")
	// ErrTokenExpired indicates the session existed but is past its expiry.
	ErrTokenExpired = errors.New("Token expired")
	// ErrUserNotFound indicates an operation referencing a vanished account.
	ErrUserNotFound = errors.New("User not found")
)

// PasswordResetMessage is returned for every forgot-password request,
// registered email or not, so callers cannot enumerate accounts.
const PasswordResetMessage = "If an account with this email exists, a password reset link has been sent."

const tokenTTL = 24 * time.Hour

var emailPattern = regexp.MustCompile(`^[^\s@]+@[^\s@]+\.[^\s@]+$`)

// SignupData is the input to Signup.
type SignupData struct {
	Name            string `json:"name"`
	Email           string `json:"email"`
	Password        string `json:"password"`
	ConfirmPassword string `json:"confirmPassword"`
	AgreeToTerms    bool   `json:"agreeToTerms"`
	Newsletter      bool   `json:"newsletter"`
}

// AuthService handles authentication, sessions, and profile access.
type AuthService struct {
	accounts   domain.AccountRepository
	sessions   domain.SessionRepository
	signingKey []byte

	// SimulateLatency makes every operation sleep for a bounded random
	// interval before returning, so clients exercise their loading states.
	// It carries no ordering guarantee and is off by default.
	SimulateLatency bool
}

// NewAuthService creates an authentication service. The signing key is used
// to mint session tokens; the session store remains the source of truth for
// their validity.
func NewAuthService(accounts domain.AccountRepository, sessions domain.SessionRepository, signingKey []byte) *AuthService {
	return &AuthService{
		accounts:   accounts,
		sessions:   sessions,
		signingKey: signingKey,
	}
}

// Login authenticates an account by email and password and issues a session.
func (s *AuthService) Login(ctx context.Context, email, password string) (*domain.PublicUser, string, error) {
	s.pause(800*time.Millisecond, 1500*time.Millisecond)

	if email == "" || password == "" {
		return nil, "", ErrMissingCredentials
	}

	acct, err := s.accounts.GetByEmail(ctx, email)
	if err != nil {
		return nil, "", err
	}
	if acct == nil {
		return nil, "", ErrInvalidCredentials
	}

	if err := bcrypt.CompareHashAndPassword([]byte(acct.PasswordHash), []byte(password)); err != nil {
		return nil, "", ErrInvalidCredentials
	}

	now := time.Now().UTC()
	if err := s.accounts.UpdateLastLogin(ctx, acct.ID, now); err != nil {
		return nil, "", err
	}
	acct.LastLogin = now

	token, err := s.issueSession(ctx, acct.ID, now)
	if err != nil {
		return nil, "", err
	}
	return acct.Public(), token, nil
}

// Signup validates the signup data, creates an account with the default
// profile, and issues a session. Checks run in order and stop at the first
// failure.
func (s *AuthService) Signup(ctx context.Context, data SignupData) (*domain.PublicUser, string, error) {
	s.pause(1000*time.Millisecond, 2000*time.Millisecond)

	if data.Name == "" || data.Email == "" || data.Password == "" {
		return nil, "", ErrAllFieldsRequired
	}

	existing, err := s.accounts.GetByEmail(ctx, data.Email)
	if err != nil {
		return nil, "", err
	}
	if existing != nil {
		return nil, "", ErrEmailTaken
	}

	if !emailPattern.MatchString(data.Email) {
		return nil, "", ErrInvalidEmail
	}
	if len(data.Password) < 8 {
		return nil, "", ErrPasswordTooShort
	}
	if !hasRequiredClasses(data.Password) {
		return nil, "", ErrPasswordTooWeak
	}
	if data.Password != data.ConfirmPassword {
		return nil, "", ErrPasswordMismatch
	}
	if !data.AgreeToTerms {
		return nil, "", ErrTermsNotAgreed
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(data.Password), bcrypt.DefaultCost)
	if err != nil {
		return nil, "", err
	}

	now := time.Now().UTC()
	acct := &domain.Account{
		ID:           uuid.NewString(),
		Name:         data.Name,
		Email:        data.Email,
		PasswordHash: string(hash),
		Avatar:       randomAvatar(),
		Subscription: domain.SubscriptionFree,
		CreatedAt:    now,
		LastLogin:    now,
		Profile:      domain.DefaultProfile(),
	}
	if err := s.accounts.Create(ctx, acct); err != nil {
		return nil, "", err
	}

	token, err := s.issueSession(ctx, acct.ID, now)
	if err != nil {
		return nil, "", err
	}
	return acct.Public(), token, nil
}

// ForgotPassword acknowledges a reset request. The reply is identical for
// registered and unregistered emails.
func (s *AuthService) ForgotPassword(ctx context.Context, email string) (string, error) {
	s.pause(500*time.Millisecond, 1000*time.Millisecond)

	if email == "" {
		return "", ErrEmailRequired
	}

	// The lookup result is deliberately unused; a real deployment would send
	// mail here for known accounts.
	if _, err := s.accounts.GetByEmail(ctx, email); err != nil {
		return "", err
	}
	return PasswordResetMessage, nil
}

// ValidateToken resolves a session token to its account's public view.
// Expiry is discovered here, not by a background sweep: a token presented
// past its expiry is removed from the store and can never validate again.
func (s *AuthService) ValidateToken(ctx context.Context, token string) (*domain.PublicUser, error) {
	s.pause(200*time.Millisecond, 500*time.Millisecond)

	sess, err := s.sessions.GetByToken(ctx, token)
	if err != nil {
		return nil, err
	}
	if sess == nil {
		return nil, ErrInvalidToken
	}

	if time.Now().After(sess.ExpiresAt) {
		_ = s.sessions.Delete(ctx, token)
		return nil, ErrTokenExpired
	}

	acct, err := s.accounts.GetByID(ctx, sess.UserID)
	if err != nil {
		return nil, err
	}
	if acct == nil {
		return nil, ErrUserNotFound
	}
	return acct.Public(), nil
}

// Logout revokes the session matching the token. Logging out a token that
// was never issued is not an error.
func (s *AuthService) Logout(ctx context.Context, token string) error {
	s.pause(200*time.Millisecond, 500*time.Millisecond)
	return s.sessions.Delete(ctx, token)
}

// GetUserProfile returns the profile owned by the given account.
func (s *AuthService) GetUserProfile(ctx context.Context, userID string) (*domain.Profile, error) {
	s.pause(300*time.Millisecond, 800*time.Millisecond)

	acct, err := s.accounts.GetByID(ctx, userID)
	if err != nil {
		return nil, err
	}
	if acct == nil {
		return nil, ErrUserNotFound
	}
	p := acct.Profile
	return &p, nil
}

// UpdateUserProfile shallow-merges the patch onto the stored profile: set
// fields overwrite, unset fields are retained.
func (s *AuthService) UpdateUserProfile(ctx context.Context, userID string, patch domain.ProfilePatch) (*domain.Profile, error) {
	s.pause(500*time.Millisecond, 1000*time.Millisecond)

	acct, err := s.accounts.GetByID(ctx, userID)
	if err != nil {
		return nil, err
	}
	if acct == nil {
		return nil, ErrUserNotFound
	}

	merged := acct.Profile.Merge(patch)
	if err := s.accounts.UpdateProfile(ctx, userID, merged); err != nil {
		return nil, err
	}
	return &merged, nil
}

// LoginWithSSO issues a session for an identity already authenticated by an
// external provider, auto-provisioning an account on first login. SSO
// accounts carry no usable password hash.
func (s *AuthService) LoginWithSSO(ctx context.Context, email, name string) (*domain.PublicUser, string, error) {
	if email == "" {
		return nil, "", ErrInvalidCredentials
	}

	acct, err := s.accounts.GetByEmail(ctx, email)
	if err != nil {
		return nil, "", err
	}
	if acct == nil {
		if name == "" {
			name = email
		}
		now := time.Now().UTC()
		acct = &domain.Account{
			ID:           uuid.NewString(),
			Name:         name,
			Email:        email,
			Avatar:       randomAvatar(),
			Subscription: domain.SubscriptionFree,
			CreatedAt:    now,
			LastLogin:    now,
			Profile:      domain.DefaultProfile(),
		}
		if err := s.accounts.Create(ctx, acct); err != nil {
			// Lost a provisioning race; the account should exist now.
			acct, err = s.accounts.GetByEmail(ctx, email)
			if err != nil || acct == nil {
				return nil, "", ErrInvalidCredentials
			}
		}
	}

	now := time.Now().UTC()
	if err := s.accounts.UpdateLastLogin(ctx, acct.ID, now); err != nil {
		return nil, "", err
	}
	acct.LastLogin = now

	token, err := s.issueSession(ctx, acct.ID, now)
	if err != nil {
		return nil, "", err
	}
	return acct.Public(), token, nil
}

func (s *AuthService) issueSession(ctx context.Context, userID string, now time.Time) (string, error) {
	expiresAt := now.Add(tokenTTL)
	token, err := s.mintToken(userID, now, expiresAt)
	if err != nil {
		return "", err
	}
	if err := s.sessions.Create(ctx, userID, token, expiresAt); err != nil {
		return "", err
	}
	return token, nil
}

// mintToken produces an HS256-signed JWT used as an opaque session token.
// Validation is always a store lookup; the signature exists so tokens look
// and behave like the real thing to clients, not as a second trust path.
func (s *AuthService) mintToken(userID string, now, expiresAt time.Time) (string, error) {
	claims := jwt.RegisteredClaims{
		Subject:   userID,
		ID:        uuid.NewString(),
		IssuedAt:  jwt.NewNumericDate(now),
		ExpiresAt: jwt.NewNumericDate(expiresAt),
	}
	return jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(s.signingKey)
}

func (s *AuthService) pause(min, max time.Duration) {
	if !s.SimulateLatency {
		return
	}
	time.Sleep(min + rand.N(max-min))
}

func hasRequiredClasses(password string) bool {
	var lower, upper, digit bool
	for _, r := range password {
		switch {
		case unicode.IsLower(r):
			lower = true
		case unicode.IsUpper(r):
			upper = true
		case unicode.IsDigit(r):
			digit = true
		}
	}
	return lower && upper && digit
}

func randomAvatar() string {
	return fmt.Sprintf("https://images.unsplash.com/photo-%d?w=150&h=150&fit=crop&crop=face", rand.IntN(1000000000))
}
