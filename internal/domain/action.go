package domain

import (
	"context"
	"time"
)

// Action categories and difficulties.
const (
	CategoryEnergy    = "energy"
	CategoryWater     = "water"
	CategoryWaste     = "waste"
	CategoryTransport = "transport"
	CategoryFood      = "food"

	DifficultyEasy   = "easy"
	DifficultyMedium = "medium"
	DifficultyHard   = "hard"
)

// Impact is the estimated environmental effect of completing an action.
type Impact struct {
	CO2Reduction float64 `json:"co2Reduction"`
	WaterSaved   float64 `json:"waterSaved"`
	WasteReduced float64 `json:"wasteReduced"`
}

// Action is a climate action a user has committed to.
type Action struct {
	ID          string     `json:"id"`
	UserID      string     `json:"userId"`
	Title       string     `json:"title"`
	Description string     `json:"description"`
	Category    string     `json:"category"`
	Difficulty  string     `json:"difficulty"`
	Points      int        `json:"points"`
	Completed   bool       `json:"completed"`
	CreatedAt   time.Time  `json:"createdAt"`
	CompletedAt *time.Time `json:"completedAt,omitempty"`
	Impact      Impact     `json:"impact"`
}

// ValidCategory reports whether c is a known action category.
func ValidCategory(c string) bool {
	switch c {
	case CategoryEnergy, CategoryWater, CategoryWaste, CategoryTransport, CategoryFood:
		return true
	}
	return false
}

// ValidDifficulty reports whether d is a known difficulty.
func ValidDifficulty(d string) bool {
	switch d {
	case DifficultyEasy, DifficultyMedium, DifficultyHard:
		return true
	}
	return false
}

// PointsForDifficulty returns the points awarded for a custom action of the
// given difficulty.
func PointsForDifficulty(d string) int {
	switch d {
	case DifficultyMedium:
		return 25
	case DifficultyHard:
		return 50
	default:
		return 10
	}
}

// ImpactForDifficulty returns the estimated impact of a custom action of the
// given difficulty.
func ImpactForDifficulty(d string) Impact {
	switch d {
	case DifficultyMedium:
		return Impact{CO2Reduction: 0.5, WaterSaved: 15, WasteReduced: 25}
	case DifficultyHard:
		return Impact{CO2Reduction: 1.0, WaterSaved: 30, WasteReduced: 50}
	default:
		return Impact{CO2Reduction: 0.1, WaterSaved: 5, WasteReduced: 10}
	}
}

// ActionRepository is the port for action persistence.
// Lookups return (nil, nil) when no action matches.
type ActionRepository interface {
	AddAction(ctx context.Context, a *Action) error
	GetAction(ctx context.Context, userID, id string) (*Action, error)
	ListActions(ctx context.Context, userID string) ([]Action, error)
	MarkCompleted(ctx context.Context, userID, id string, at time.Time) error
	DeleteAction(ctx context.Context, userID, id string) error
}
