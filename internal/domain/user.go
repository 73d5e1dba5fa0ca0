package domain

import (
	"time"

	"github.com/google/uuid"
)

type User struct {
	ID                uuid.UUID `json:"id"`
	Email             string    `json:"email"`
	Username          string    `json:"username"`
	HashedPassword    string    `json:"-"`
	IsVerified        bool      `json:"is_verified"`
	HowToUse          *string   `json:"how_to_use,omitempty"`
	AboutRegistration *string   `json:"about_registration,omitempty"`
	AgreedToTerms     bool      `json:"agreed_to_terms"`
	CreatedAt         time.Time `json:"created_at"`
	UpdatedAt         time.Time `json:"updated_at"`
}
