package usecase_test

import (
	"context"
	"net/http"
	"testing"

	"go-interview-backend/internal/domain"
	"go-interview-backend/internal/usecase"
	"go-interview-backend/pkg/apperror"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
)

// Mock Repositories
type MockUserRepo struct {
	mock.Mock
}

func (m *MockUserRepo) Create(ctx context.Context, user *domain.User) error {
	return m.Called(ctx, user).Error(0)
}
func (m *MockUserRepo) Update(ctx context.Context, user *domain.User) error {
	return m.Called(ctx, user).Error(0)
}
func (m *MockUserRepo) Delete(ctx context.Context, id string) error {
	return m.Called(ctx, id).Error(0)
}
func (m *MockUserRepo) GetByEmail(ctx context.Context, email string) (*domain.User, error) {
	args := m.Called(ctx, email)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.User), args.Error(1)
}
func (m *MockUserRepo) GetByID(ctx context.Context, id string) (*domain.User, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.User), args.Error(1)
}

func TestAuthPrivilege(t *testing.T) {
	mockRepo := new(MockUserRepo)
	uc := usecase.NewAuthUsecase(mockRepo)

	t.Run("Should fail if role is not admin", func(t *testing.T) {
		ctx := context.WithValue(context.Background(), domain.KeyUserRole, "recruiter")
		err := uc.AssignRole(ctx, "target_user", "admin")
		assert.Error(t, err)
		assert.Contains(t, err.Error(), "Only admins can assign roles")
	})

	t.Run("Should fail safe if role is nil", func(t *testing.T) {
		ctx := context.Background()
		err := uc.AssignRole(ctx, "target_user", "admin")
		assert.Error(t, err)
		assert.Contains(t, err.Error(), "Only admins can assign roles")
	})

	t.Run("Should reject unknown roles", func(t *testing.T) {
		ctx := context.WithValue(context.Background(), domain.KeyUserRole, "admin")
		err := uc.AssignRole(ctx, "target_user", "superuser")
		assert.Error(t, err)
		mockRepo.AssertNotCalled(t, "GetByID", mock.Anything, mock.Anything)
	})

	t.Run("Admin assigns role", func(t *testing.T) {
		ctx := context.WithValue(context.Background(), domain.KeyUserRole, "admin")
		mockRepo.On("GetByID", ctx, "u1").Return(&domain.User{ID: "u1", Role: "candidate"}, nil).Once()
		mockRepo.On("Update", ctx, mock.AnythingOfType("*domain.User")).Return(nil).Run(func(args mock.Arguments) {
			assert.Equal(t, "recruiter", args.Get(1).(*domain.User).Role)
		}).Once()

		assert.NoError(t, uc.AssignRole(ctx, "u1", "recruiter"))
	})
}

func TestEnsureUserExists(t *testing.T) {
	t.Run("Creates unknown user as candidate", func(t *testing.T) {
		mockRepo := new(MockUserRepo)
		uc := usecase.NewAuthUsecase(mockRepo)
		ctx := context.Background()

		mockRepo.On("GetByID", ctx, "u1").Return(nil, domain.ErrNotFound)
		mockRepo.On("Create", ctx, mock.AnythingOfType("*domain.User")).Return(nil).Run(func(args mock.Arguments) {
			u := args.Get(1).(*domain.User)
			assert.Equal(t, "candidate", u.Role)
			assert.Equal(t, "jane@example.com", u.Email)
		})

		err := uc.EnsureUserExists(ctx, &domain.User{ID: "u1", Email: "Jane@Example.com"})
		assert.NoError(t, err)
		mockRepo.AssertExpectations(t)
	})

	t.Run("Self-declared admin role is ignored", func(t *testing.T) {
		mockRepo := new(MockUserRepo)
		uc := usecase.NewAuthUsecase(mockRepo)
		ctx := context.Background()

		mockRepo.On("GetByID", ctx, "u2").Return(&domain.User{ID: "u2", Email: "a@b.c", Role: "candidate"}, nil)

		err := uc.EnsureUserExists(ctx, &domain.User{ID: "u2", Email: "a@b.c", Role: "admin"})
		assert.NoError(t, err)
		mockRepo.AssertNotCalled(t, "Update", mock.Anything, mock.Anything)
	})
}

func TestWebhookIdentityEvents(t *testing.T) {
	ctx := context.Background()

	t.Run("Deleted user that never synced is acknowledged", func(t *testing.T) {
		mockRepo := new(MockUserRepo)
		uc := usecase.NewWebhookUsecase(usecase.NewAuthUsecase(mockRepo), mockRepo)
		mockRepo.On("Delete", ctx, "u1").Return(domain.ErrNotFound)

		err := uc.HandleIdentityEvent(ctx, domain.IdentityEvent{Type: usecase.EventUserDeleted, Data: domain.IdentityUserData{ID: "u1"}})
		assert.NoError(t, err)
	})

	t.Run("Created user is stored with names", func(t *testing.T) {
		mockRepo := new(MockUserRepo)
		uc := usecase.NewWebhookUsecase(usecase.NewAuthUsecase(mockRepo), mockRepo)
		mockRepo.On("GetByID", ctx, "u3").Return(nil, domain.ErrNotFound)
		mockRepo.On("Create", ctx, mock.AnythingOfType("*domain.User")).Return(nil).Run(func(args mock.Arguments) {
			u := args.Get(1).(*domain.User)
			assert.Equal(t, "recruiter", u.Role)
			if assert.NotNil(t, u.FirstName) {
				assert.Equal(t, "Ada", *u.FirstName)
			}
		})

		err := uc.HandleIdentityEvent(ctx, domain.IdentityEvent{
			Type: usecase.EventUserCreated,
			Data: domain.IdentityUserData{ID: "u3", Email: "ada@example.com", FirstName: "Ada", Role: "recruiter"},
		})
		assert.NoError(t, err)
		mockRepo.AssertExpectations(t)
	})

	t.Run("Missing user id is rejected", func(t *testing.T) {
		mockRepo := new(MockUserRepo)
		uc := usecase.NewWebhookUsecase(usecase.NewAuthUsecase(mockRepo), mockRepo)
		err := uc.HandleIdentityEvent(ctx, domain.IdentityEvent{Type: usecase.EventUserCreated})
		assert.Error(t, err)
	})
}

func TestGetCurrentUser_NotFoundKeepsSentinel(t *testing.T) {
	mockRepo := new(MockUserRepo)
	mockRepo.On("GetByID", mock.Anything, "ghost").Return(nil, domain.ErrNotFound)

	_, err := usecase.NewAuthUsecase(mockRepo).GetCurrentUser(context.Background(), "ghost")

	var appErr *apperror.AppError
	if assert.ErrorAs(t, err, &appErr) {
		assert.Equal(t, http.StatusNotFound, appErr.Code)
	}
	assert.ErrorIs(t, err, domain.ErrNotFound)
}

func TestEnsureUserExists_UpdatesProfileFields(t *testing.T) {
	mockRepo := new(MockUserRepo)
	ctx := context.Background()
	mockRepo.On("GetByID", ctx, "u1").Return(&domain.User{ID: "u1", Email: "a@example.com", Role: "recruiter"}, nil)
	mockRepo.On("Update", ctx, mock.MatchedBy(func(u *domain.User) bool {
		return u.Company != nil && *u.Company == "Acme" && u.Role == "recruiter"
	})).Return(nil)

	company := "Acme"
	err := usecase.NewAuthUsecase(mockRepo).EnsureUserExists(ctx, &domain.User{ID: "u1", Email: "a@example.com", Company: &company})

	assert.NoError(t, err)
	mockRepo.AssertExpectations(t)
}
