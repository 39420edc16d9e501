package usecase

import (
	"context"
	"errors"

	"go-interview-backend/internal/domain"
	"go-interview-backend/pkg/apperror"
	"go-interview-backend/pkg/logger"
)

// Identity provider event types
const (
	EventUserCreated = "user.created"
	EventUserUpdated = "user.updated"
	EventUserDeleted = "user.deleted"
)

type webhookUsecase struct {
	auth     domain.AuthUsecase
	userRepo domain.UserRepository
}

func NewWebhookUsecase(auth domain.AuthUsecase, userRepo domain.UserRepository) domain.WebhookUsecase {
	return &webhookUsecase{auth: auth, userRepo: userRepo}
}

// HandleIdentityEvent mirrors identity provider user changes locally.
// Unknown event types are acknowledged and ignored.
func (u *webhookUsecase) HandleIdentityEvent(ctx context.Context, event domain.IdentityEvent) error {
	if event.Data.ID == "" {
		return apperror.BadRequest("Event carries no user id")
	}

	switch event.Type {
	case EventUserCreated, EventUserUpdated:
		if event.Data.Email == "" {
			return apperror.BadRequest("Event carries no email")
		}
		user := &domain.User{
			ID:    event.Data.ID,
			Email: event.Data.Email,
			Role:  event.Data.Role,
		}
		if event.Data.FirstName != "" {
			user.FirstName = &event.Data.FirstName
		}
		if event.Data.LastName != "" {
			user.LastName = &event.Data.LastName
		}
		return u.auth.EnsureUserExists(ctx, user)

	case EventUserDeleted:
		err := u.userRepo.Delete(ctx, event.Data.ID)
		if err != nil && !errors.Is(err, domain.ErrNotFound) {
			return err
		}
		return nil

	default:
		logger.Log.Info("ignoring identity event", "type", event.Type)
		return nil
	}
}
