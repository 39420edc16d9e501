package domain

import (
	"context"
	"time"
)

type User struct {
	ID        string    `json:"id"` // identity provider UUID
	Email     string    `json:"email"`
	Role      string    `json:"role"`
	FirstName *string   `json:"first_name,omitempty"`
	LastName  *string   `json:"last_name,omitempty"`
	Company   *string   `json:"company,omitempty"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

type UserRepository interface {
	Create(ctx context.Context, user *User) error
	GetByID(ctx context.Context, id string) (*User, error)
	GetByEmail(ctx context.Context, email string) (*User, error)
	Update(ctx context.Context, user *User) error
	Delete(ctx context.Context, id string) error
}

type AuthUsecase interface {
	EnsureUserExists(ctx context.Context, user *User) error
	AssignRole(ctx context.Context, userID string, role string) error
	GetCurrentUser(ctx context.Context, id string) (*User, error)
}

// IdentityEvent is a user lifecycle event pushed by the identity provider.
type IdentityEvent struct {
	Type string           `json:"type"` // user.created, user.updated, user.deleted
	Data IdentityUserData `json:"data"`
}

type IdentityUserData struct {
	ID        string `json:"id"`
	Email     string `json:"email"`
	FirstName string `json:"first_name"`
	LastName  string `json:"last_name"`
	Role      string `json:"role"`
}

type WebhookUsecase interface {
	HandleIdentityEvent(ctx context.Context, event IdentityEvent) error
}
