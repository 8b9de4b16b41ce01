package types

import (
	"time"

	"github.com/google/uuid"
)

type UserProfile struct {
	ID                 uuid.UUID `json:"id"`
	Email              string    `json:"email"`
	Name               string    `json:"name"`
	PasswordHash       string    `json:"-"` // Exclude from JSON responses
	DietaryPreferences []string  `json:"dietary_preferences"`
	Allergies          []string  `json:"allergies"`
	HealthGoals        []string  `json:"health_goals"`
	IsActive           bool      `json:"is_active"`
	CreatedAt          time.Time `json:"created_at"`
	UpdatedAt          time.Time `json:"updated_at"`
}

// UpdateProfileParams defines the fields allowed for profile updates.
// Use pointers for optional fields, allowing partial updates.
type UpdateProfileParams struct {
	Name               *string   `json:"name,omitempty"`
	DietaryPreferences *[]string `json:"dietary_preferences,omitempty"`
	Allergies          *[]string `json:"allergies,omitempty"`
	HealthGoals        *[]string `json:"health_goals,omitempty"`
}
