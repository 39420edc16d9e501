package usecase

import (
	"context"
	"errors"
	"net/http"
	"strings"
	"time"

	"go-interview-backend/internal/domain"
	"go-interview-backend/pkg/apperror"
)

type authUsecase struct {
	userRepo domain.UserRepository
}

func NewAuthUsecase(userRepo domain.UserRepository) domain.AuthUsecase {
	return &authUsecase{userRepo: userRepo}
}

// EnsureUserExists creates the local user on first sight and keeps email and
// role in sync afterwards. Self-service roles are limited to candidate and
// recruiter; admin is only ever assigned through AssignRole.
func (u *authUsecase) EnsureUserExists(ctx context.Context, user *domain.User) error {
	user.Email = strings.ToLower(strings.TrimSpace(user.Email))
	if user.Role == domain.RoleAdmin {
		user.Role = ""
	}

	existing, err := u.userRepo.GetByID(ctx, user.ID)
	if err == nil {
		changed := false
		if user.Role != "" && existing.Role != user.Role && existing.Role != domain.RoleAdmin {
			existing.Role = user.Role
			changed = true
		}
		if user.Email != "" && existing.Email != user.Email {
			existing.Email = user.Email
			changed = true
		}
		for _, f := range []struct{ dst, src **string }{
			{&existing.FirstName, &user.FirstName},
			{&existing.LastName, &user.LastName},
			{&existing.Company, &user.Company},
		} {
			if *f.src != nil && (*f.dst == nil || **f.dst != **f.src) {
				*f.dst = *f.src
				changed = true
			}
		}
		if !changed {
			return nil
		}
		existing.UpdatedAt = time.Now()
		return u.userRepo.Update(ctx, existing)
	}
	if !errors.Is(err, domain.ErrNotFound) {
		return err
	}

	if user.Role == "" {
		user.Role = domain.RoleCandidate
	}
	user.CreatedAt = time.Now()
	user.UpdatedAt = time.Now()

	return u.userRepo.Create(ctx, user)
}

func (u *authUsecase) AssignRole(ctx context.Context, userID string, role string) error {
	// Security: Only admin can assign roles
	ctxRole, ok := ctx.Value(domain.KeyUserRole).(string)
	if !ok || ctxRole != domain.RoleAdmin {
		return apperror.Forbidden("Only admins can assign roles")
	}

	switch role {
	case domain.RoleCandidate, domain.RoleRecruiter, domain.RoleAdmin:
	default:
		return apperror.BadRequest("Role must be one of: candidate, recruiter, admin")
	}

	user, err := u.userRepo.GetByID(ctx, userID)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return apperror.NotFound("User not found")
		}
		return err
	}

	user.Role = role
	user.UpdatedAt = time.Now()
	return u.userRepo.Update(ctx, user)
}

func (u *authUsecase) GetCurrentUser(ctx context.Context, id string) (*domain.User, error) {
	user, err := u.userRepo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return nil, apperror.New(http.StatusNotFound, "User not found", domain.ErrNotFound)
		}
		return nil, err
	}
	return user, nil
}
