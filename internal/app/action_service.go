package app

import (
	"context"
	"errors"
	"fmt"
	"time"

	"climatebuddy/internal/domain"

	"github.com/google/uuid"
)

var (
	// ErrActionNotFound indicates the referenced action does not exist for
	// the user.
	ErrActionNotFound = errors.New("action not found")
	// ErrTitleRequired indicates a custom action without a title.
	ErrTitleRequired = errors.New("title is required")
)

// NewActionInput describes an action a user wants to track. Points and
// Impact are optional; when zero they are derived from the difficulty.
type NewActionInput struct {
	Title       string         `json:"title"`
	Description string         `json:"description"`
	Category    string         `json:"category"`
	Difficulty  string         `json:"difficulty"`
	Points      int            `json:"points"`
	Impact      *domain.Impact `json:"impact"`
}

// ActionStats aggregates a user's completed actions.
type ActionStats struct {
	Total        int     `json:"total"`
	Completed    int     `json:"completed"`
	Points       int     `json:"points"`
	CO2Reduction float64 `json:"co2Reduction"`
	WaterSaved   float64 `json:"waterSaved"`
	WasteReduced float64 `json:"wasteReduced"`
}

// ActionService encapsulates the gamified action-tracker use cases.
type ActionService struct {
	actions  domain.ActionRepository
	accounts domain.AccountRepository
}

// NewActionService creates an ActionService backed by the given repositories.
// The account repository is needed to award points to profiles.
func NewActionService(actions domain.ActionRepository, accounts domain.AccountRepository) *ActionService {
	return &ActionService{actions: actions, accounts: accounts}
}

// Suggested returns the catalog of predefined actions a user can adopt.
// Entries carry no ID or owner; Add assigns those.
func (s *ActionService) Suggested() []domain.Action {
	out := make([]domain.Action, len(suggestedActions))
	copy(out, suggestedActions)
	return out
}

// Add records a new action for the user.
func (s *ActionService) Add(ctx context.Context, userID string, in NewActionInput) (*domain.Action, error) {
	if in.Title == "" {
		return nil, ErrTitleRequired
	}
	if !domain.ValidCategory(in.Category) {
		return nil, fmt.Errorf("unknown category %q", in.Category)
	}
	if !domain.ValidDifficulty(in.Difficulty) {
		return nil, fmt.Errorf("unknown difficulty %q", in.Difficulty)
	}

	points := in.Points
	if points <= 0 {
		points = domain.PointsForDifficulty(in.Difficulty)
	}
	impact := domain.ImpactForDifficulty(in.Difficulty)
	if in.Impact != nil {
		impact = *in.Impact
	}

	a := &domain.Action{
		ID:          uuid.NewString(),
		UserID:      userID,
		Title:       in.Title,
		Description: in.Description,
		Category:    in.Category,
		Difficulty:  in.Difficulty,
		Points:      points,
		CreatedAt:   time.Now().UTC(),
		Impact:      impact,
	}
	if err := s.actions.AddAction(ctx, a); err != nil {
		return nil, err
	}
	return a, nil
}

// List returns all of the user's actions.
func (s *ActionService) List(ctx context.Context, userID string) ([]domain.Action, error) {
	return s.actions.ListActions(ctx, userID)
}

// Complete marks an action done and awards its points to the user's profile.
// Completing an already-completed action changes nothing.
func (s *ActionService) Complete(ctx context.Context, userID, actionID string) (*domain.Action, *domain.Profile, error) {
	a, err := s.actions.GetAction(ctx, userID, actionID)
	if err != nil {
		return nil, nil, err
	}
	if a == nil {
		return nil, nil, ErrActionNotFound
	}

	acct, err := s.accounts.GetByID(ctx, userID)
	if err != nil {
		return nil, nil, err
	}
	if acct == nil {
		return nil, nil, ErrUserNotFound
	}

	if a.Completed {
		p := acct.Profile
		return a, &p, nil
	}

	now := time.Now().UTC()
	if err := s.actions.MarkCompleted(ctx, userID, actionID, now); err != nil {
		return nil, nil, err
	}
	a.Completed = true
	a.CompletedAt = &now

	profile := acct.Profile
	profile.Points += a.Points
	newLevel := domain.LevelForPoints(profile.Points)
	if newLevel > profile.Level {
		profile.Achievements = append(profile.Achievements, fmt.Sprintf("Reached level %d", newLevel))
	}
	profile.Level = newLevel

	if err := s.accounts.UpdateProfile(ctx, userID, profile); err != nil {
		return nil, nil, err
	}
	return a, &profile, nil
}

// Delete removes an action the user no longer wants to track.
func (s *ActionService) Delete(ctx context.Context, userID, actionID string) error {
	return s.actions.DeleteAction(ctx, userID, actionID)
}

// Stats aggregates the user's completed actions and their estimated impact.
func (s *ActionService) Stats(ctx context.Context, userID string) (*ActionStats, error) {
	items, err := s.actions.ListActions(ctx, userID)
	if err != nil {
		return nil, err
	}

	stats := &ActionStats{Total: len(items)}
	for _, a := range items {
		if !a.Completed {
			continue
		}
		stats.Completed++
		stats.Points += a.Points
		stats.CO2Reduction += a.Impact.CO2Reduction
		stats.WaterSaved += a.Impact.WaterSaved
		stats.WasteReduced += a.Impact.WasteReduced
	}
	return stats, nil
}

// suggestedActions mirrors the starter catalog shown to every user.
var suggestedActions = []domain.Action{
	{
		Title:       "Turn off lights when leaving room",
		Description: "Make it a habit to turn off lights when you leave a room to save energy.",
		Category:    domain.CategoryEnergy,
		Difficulty:  domain.DifficultyEasy,
		Points:      10,
		Impact:      domain.Impact{CO2Reduction: 0.1},
	},
	{
		Title:       "Use reusable water bottle",
		Description: "Replace single-use plastic bottles with a reusable water bottle.",
		Category:    domain.CategoryWaste,
		Difficulty:  domain.DifficultyEasy,
		Points:      15,
		Impact:      domain.Impact{CO2Reduction: 0.2, WasteReduced: 50},
	},
	{
		Title:       "Walk or bike to nearby places",
		Description: "Choose walking or biking for trips under 2km instead of driving.",
		Category:    domain.CategoryTransport,
		Difficulty:  domain.DifficultyMedium,
		Points:      25,
		Impact:      domain.Impact{CO2Reduction: 0.5},
	},
	{
		Title:       "Reduce shower time by 2 minutes",
		Description: "Cut your shower time to save water and energy used for heating.",
		Category:    domain.CategoryWater,
		Difficulty:  domain.DifficultyEasy,
		Points:      20,
		Impact:      domain.Impact{CO2Reduction: 0.3, WaterSaved: 20},
	},
	{
		Title:       "Plant a tree or garden",
		Description: "Plant a tree in your yard or start a small vegetable garden.",
		Category:    domain.CategoryEnergy,
		Difficulty:  domain.DifficultyMedium,
		Points:      50,
		Impact:      domain.Impact{CO2Reduction: 1.0},
	},
	{
		Title:       "Switch to LED light bulbs",
		Description: "Replace incandescent bulbs with energy-efficient LED bulbs.",
		Category:    domain.CategoryEnergy,
		Difficulty:  domain.DifficultyMedium,
		Points:      30,
		Impact:      domain.Impact{CO2Reduction: 0.4},
	},
	{
		Title:       "Eat one vegetarian meal per week",
		Description: "Replace one meat-based meal with a vegetarian option.",
		Category:    domain.CategoryFood,
		Difficulty:  domain.DifficultyEasy,
		Points:      15,
		Impact:      domain.Impact{CO2Reduction: 0.3, WaterSaved: 10},
	},
	{
		Title:       "Use public transportation",
		Description: "Take public transport instead of driving for your daily commute.",
		Category:    domain.CategoryTransport,
		Difficulty:  domain.DifficultyMedium,
		Points:      40,
		Impact:      domain.Impact{CO2Reduction: 0.8},
	},
}
