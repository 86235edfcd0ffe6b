package domain

import (
	"strings"
	"time"

	"github.com/google/uuid"
)

type User struct {
	ID               uuid.UUID        `json:"id" db:"id"`
	Email            string           `json:"email" db:"email"`
	PasswordHash     *string          `json:"-" db:"password_hash"`
	Name             string           `json:"name" db:"name"`
	Role             UserRole         `json:"role" db:"role"`
	OnboardingStatus OnboardingStatus `json:"onboarding_status" db:"onboarding_status"`
	Phone            *string          `json:"phone,omitempty" db:"phone"`
	Address          *string          `json:"address,omitempty" db:"address"`
	BloodGroup       *string          `json:"blood_group,omitempty" db:"blood_group"`
	LinkedInURL      *string          `json:"linkedin_url,omitempty" db:"linkedin_url"`
	SlackID          *string          `json:"slack_id,omitempty" db:"slack_id"`
	TeamBio          *string          `json:"team_bio,omitempty" db:"team_bio"`
	TeamImageKey     *string          `json:"team_image_key,omitempty" db:"team_image_key"`
	TourCompleted    bool             `json:"tour_completed" db:"tour_completed"`
	CreatedAt        time.Time        `json:"created_at" db:"created_at"`
	UpdatedAt        time.Time        `json:"updated_at" db:"updated_at"`
}

type UserRole string

const (
	RoleUser  UserRole = "USER"
	RoleAdmin UserRole = "ADMIN"
)

func (r UserRole) IsValid() bool {
	switch r {
	case RoleUser, RoleAdmin:
		return true
	default:
		return false
	}
}

type OnboardingStatus string

const (
	OnboardingInProgress OnboardingStatus = "IN_PROGRESS"
	OnboardingCompleted  OnboardingStatus = "COMPLETED"
)

func (s OnboardingStatus) IsValid() bool {
	return s == OnboardingInProgress || s == OnboardingCompleted
}

func (u *User) IsAdmin() bool {
	return u != nil && u.Role == RoleAdmin
}

// NormalizeEmail lowercases and trims an address so lookups and the unique
// index agree on one spelling.
func NormalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

type RegisterInput struct {
	Email    string `json:"email"`
	Password string `json:"password"`
	Name     string `json:"name"`
}

type LoginInput struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

type IdentityTokenInput struct {
	IDToken string `json:"id_token"`
}

// UpdateProfileInput carries self-service edits. Nil fields are left as is.
type UpdateProfileInput struct {
	Name         *string `json:"name,omitempty"`
	Phone        *string `json:"phone,omitempty"`
	Address      *string `json:"address,omitempty"`
	BloodGroup   *string `json:"blood_group,omitempty"`
	LinkedInURL  *string `json:"linkedin_url,omitempty"`
	SlackID      *string `json:"slack_id,omitempty"`
	TeamBio      *string `json:"team_bio,omitempty"`
	TeamImageKey *string `json:"team_image_key,omitempty"`
}

// AdminUpdateUserInput extends the profile edits with fields only an admin may change.
type AdminUpdateUserInput struct {
	UpdateProfileInput
	Role             *UserRole         `json:"role,omitempty"`
	OnboardingStatus *OnboardingStatus `json:"onboarding_status,omitempty"`
}

type TokenPair struct {
	AccessToken  string `json:"access_token"`
	RefreshToken string `json:"refresh_token"`
	ExpiresIn    int64  `json:"expires_in"`
}
