package transport

import (
	"time"

	"github.com/google/uuid"
)

// Request DTOs
type LoginRequest struct {
	Login    string `json:"login" validate:"required,min=1,max=100"`
	Password string `json:"password" validate:"required,min=8,max=128"`
}

type CreateUserRequest struct {
	Login    string `json:"login" validate:"required,min=3,max=100"`
	Password string `json:"password" validate:"required,min=8,max=128"`
	FullName string `json:"fullName" validate:"required,min=1,max=150"`
	Role     string `json:"role" validate:"required,oneof=dispatcher master admin"`
}

// Response DTOs
type LoginResponse struct {
	AccessToken string       `json:"accessToken"`
	ExpiresAt   time.Time    `json:"expiresAt"`
	User        UserResponse `json:"user"`
}

type UserResponse struct {
	ID       uuid.UUID `json:"id"`
	Login    string    `json:"login"`
	FullName string    `json:"fullName"`
	Role     string    `json:"role"`
}
