package api

import (
	"time"

	"github.com/google/uuid"
)

// User is the account profile as the server reports it. It is an immutable
// value: responses carry a whole new User, never a partial update.
type User struct {
	ID        uuid.UUID `json:"id"`
	Email     string    `json:"email"`
	Name      string    `json:"name"`
	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}

type LoginRequest struct {
	Email    string `json:"email" validate:"required,acct_email"`
	Password string `json:"password" validate:"min=8,max=128"`
}

type LoginResponse struct {
	Token        string `json:"token"`
	RefreshToken string `json:"refreshToken"`
	User         User   `json:"user"`
}

// RegisterRequest lists Name first so struct-tag validation reports a bad
// name before a bad email, matching the order the form checks fields in.
type RegisterRequest struct {
	Name     string `json:"name" validate:"acct_name"`
	Email    string `json:"email" validate:"required,acct_email"`
	Password string `json:"password" validate:"min=8,max=128"`
}

type RegisterResponse struct {
	Token        string `json:"token"`
	RefreshToken string `json:"refreshToken"`
	User         User   `json:"user"`
}

type RefreshRequest struct {
	RefreshToken string `json:"refreshToken" validate:"required"`
}

type RefreshResponse struct {
	Token        string `json:"token"`
	RefreshToken string `json:"refreshToken"`
}

type UpdateProfileRequest struct {
	Name  string  `json:"name" validate:"acct_name"`
	Phone *string `json:"phone,omitempty" validate:"omitempty,acct_phone"`
	Bio   *string `json:"bio,omitempty"`
}

type UpdateProfileResponse struct {
	User User `json:"user"`
}

type ProfileResponse struct {
	User User `json:"user"`
}
