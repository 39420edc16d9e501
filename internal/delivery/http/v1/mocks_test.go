package v1

import (
	"context"
	"time"

	"go-interview-backend/internal/domain"

	"github.com/stretchr/testify/mock"
)

type MockTemplateUsecase struct{ mock.Mock }

func (m *MockTemplateUsecase) ValidateTemplate(input *domain.TemplateInput) error {
	return m.Called(input).Error(0)
}

func (m *MockTemplateUsecase) CreateTemplate(ctx context.Context, actor domain.Actor, input *domain.TemplateInput) (*domain.Template, error) {
	args := m.Called(ctx, actor, input)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Template), args.Error(1)
}

func (m *MockTemplateUsecase) GetTemplate(ctx context.Context, actor domain.Actor, id int64) (*domain.Template, error) {
	args := m.Called(ctx, actor, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Template), args.Error(1)
}

func (m *MockTemplateUsecase) ListTemplates(ctx context.Context, actor domain.Actor, page, pageSize int) ([]domain.Template, int64, error) {
	args := m.Called(ctx, actor, page, pageSize)
	return args.Get(0).([]domain.Template), args.Get(1).(int64), args.Error(2)
}

func (m *MockTemplateUsecase) UpdateTemplate(ctx context.Context, actor domain.Actor, id int64, input *domain.TemplateInput) (*domain.Template, error) {
	args := m.Called(ctx, actor, id, input)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Template), args.Error(1)
}

func (m *MockTemplateUsecase) DeleteTemplate(ctx context.Context, actor domain.Actor, id int64) error {
	return m.Called(ctx, actor, id).Error(0)
}

type MockInterviewUsecase struct{ mock.Mock }

func (m *MockInterviewUsecase) CreateInterview(ctx context.Context, actor domain.Actor, input *domain.CreateInterviewInput) (*domain.InterviewInvitation, error) {
	args := m.Called(ctx, actor, input)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.InterviewInvitation), args.Error(1)
}

func (m *MockInterviewUsecase) GetInterview(ctx context.Context, actor domain.Actor, id int64) (*domain.InterviewDetail, error) {
	args := m.Called(ctx, actor, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.InterviewDetail), args.Error(1)
}

func (m *MockInterviewUsecase) ListForRecruiter(ctx context.Context, actor domain.Actor, page, pageSize int) ([]domain.Interview, int64, error) {
	args := m.Called(ctx, actor, page, pageSize)
	return args.Get(0).([]domain.Interview), args.Get(1).(int64), args.Error(2)
}

func (m *MockInterviewUsecase) ListForCandidate(ctx context.Context, actor domain.Actor, page, pageSize int) ([]domain.Interview, int64, error) {
	args := m.Called(ctx, actor, page, pageSize)
	return args.Get(0).([]domain.Interview), args.Get(1).(int64), args.Error(2)
}

func (m *MockInterviewUsecase) Start(ctx context.Context, actor domain.Actor, id int64) (*domain.Interview, error) {
	args := m.Called(ctx, actor, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Interview), args.Error(1)
}

func (m *MockInterviewUsecase) SubmitResponses(ctx context.Context, actor domain.Actor, id int64, responses []domain.ResponseInput) (*domain.SubmissionResult, error) {
	args := m.Called(ctx, actor, id, responses)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.SubmissionResult), args.Error(1)
}

func (m *MockInterviewUsecase) IssueVideoUploadURL(ctx context.Context, actor domain.Actor, id int64) (*domain.UploadURL, error) {
	args := m.Called(ctx, actor, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.UploadURL), args.Error(1)
}

func (m *MockInterviewUsecase) GetAnalysis(ctx context.Context, actor domain.Actor, id int64) (*domain.InterviewAnalysisView, error) {
	args := m.Called(ctx, actor, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.InterviewAnalysisView), args.Error(1)
}

func (m *MockInterviewUsecase) RegenerateAnalysis(ctx context.Context, actor domain.Actor, id int64) (*domain.InterviewAnalysisView, error) {
	args := m.Called(ctx, actor, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.InterviewAnalysisView), args.Error(1)
}

func (m *MockInterviewUsecase) ExpireOverdue(ctx context.Context, now time.Time) (int, error) {
	args := m.Called(ctx, now)
	return args.Int(0), args.Error(1)
}

type MockAnalyticsUsecase struct{ mock.Mock }

func (m *MockAnalyticsUsecase) GetRecruiterDashboard(ctx context.Context, actor domain.Actor) (*domain.RecruiterAnalytics, error) {
	args := m.Called(ctx, actor)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.RecruiterAnalytics), args.Error(1)
}

func (m *MockAnalyticsUsecase) ExportResults(ctx context.Context, actor domain.Actor) ([]byte, string, error) {
	args := m.Called(ctx, actor)
	if args.Get(0) == nil {
		return nil, "", args.Error(2)
	}
	return args.Get(0).([]byte), args.String(1), args.Error(2)
}

type MockAuthUsecase struct{ mock.Mock }

func (m *MockAuthUsecase) EnsureUserExists(ctx context.Context, user *domain.User) error {
	return m.Called(ctx, user).Error(0)
}

func (m *MockAuthUsecase) AssignRole(ctx context.Context, userID string, role string) error {
	return m.Called(ctx, userID, role).Error(0)
}

func (m *MockAuthUsecase) GetCurrentUser(ctx context.Context, id string) (*domain.User, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.User), args.Error(1)
}

type MockWebhookUsecase struct{ mock.Mock }

func (m *MockWebhookUsecase) HandleIdentityEvent(ctx context.Context, event domain.IdentityEvent) error {
	return m.Called(ctx, event).Error(0)
}
