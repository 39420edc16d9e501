package usecase

import (
	"context"
	"errors"
	"net/http"
	"sort"
	"strings"
	"time"

	"go-interview-backend/internal/domain"
	"go-interview-backend/pkg/apperror"
)

type templateUsecase struct {
	templateRepo domain.TemplateRepository
	validator    *TemplateValidator
}

func NewTemplateUsecase(templateRepo domain.TemplateRepository, validator *TemplateValidator) domain.TemplateUsecase {
	return &templateUsecase{
		templateRepo: templateRepo,
		validator:    validator,
	}
}

func (u *templateUsecase) ValidateTemplate(input *domain.TemplateInput) error {
	if err := u.validator.Validate(input); err != nil {
		return asValidationAppError(err)
	}
	return nil
}

func (u *templateUsecase) CreateTemplate(ctx context.Context, actor domain.Actor, input *domain.TemplateInput) (*domain.Template, error) {
	if err := u.ValidateTemplate(input); err != nil {
		return nil, err
	}

	now := time.Now()
	tmpl := &domain.Template{
		CreatorID:   actor.UserID,
		Title:       strings.TrimSpace(input.Title),
		Description: input.Description,
		Version:     1,
		IsActive:    true,
		Questions:   buildQuestions(input.Questions, now),
		CreatedAt:   now,
		UpdatedAt:   now,
	}

	if err := u.templateRepo.Create(ctx, tmpl); err != nil {
		return nil, err
	}
	return tmpl, nil
}

func (u *templateUsecase) GetTemplate(ctx context.Context, actor domain.Actor, id int64) (*domain.Template, error) {
	return u.getOwned(ctx, actor, id)
}

func (u *templateUsecase) ListTemplates(ctx context.Context, actor domain.Actor, page, pageSize int) ([]domain.Template, int64, error) {
	limit, offset := pageBounds(page, pageSize)
	return u.templateRepo.ListByCreator(ctx, actor.UserID, limit, offset)
}

func (u *templateUsecase) UpdateTemplate(ctx context.Context, actor domain.Actor, id int64, input *domain.TemplateInput) (*domain.Template, error) {
	tmpl, err := u.getOwned(ctx, actor, id)
	if err != nil {
		return nil, err
	}
	if err := u.ensureUnreferenced(ctx, id); err != nil {
		return nil, err
	}
	if err := u.ValidateTemplate(input); err != nil {
		return nil, err
	}

	now := time.Now()
	tmpl.Title = strings.TrimSpace(input.Title)
	tmpl.Description = input.Description
	tmpl.Version++
	tmpl.Questions = buildQuestions(input.Questions, now)
	tmpl.UpdatedAt = now

	if err := u.templateRepo.Update(ctx, tmpl); err != nil {
		return nil, err
	}
	return tmpl, nil
}

func (u *templateUsecase) DeleteTemplate(ctx context.Context, actor domain.Actor, id int64) error {
	if _, err := u.getOwned(ctx, actor, id); err != nil {
		return err
	}
	if err := u.ensureUnreferenced(ctx, id); err != nil {
		return err
	}
	return u.templateRepo.Delete(ctx, id)
}

func (u *templateUsecase) getOwned(ctx context.Context, actor domain.Actor, id int64) (*domain.Template, error) {
	tmpl, err := u.templateRepo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return nil, apperror.NotFound("Template not found")
		}
		return nil, err
	}
	if tmpl.CreatorID != actor.UserID && actor.Role != domain.RoleAdmin {
		return nil, apperror.Forbidden("You can only access your own templates")
	}
	return tmpl, nil
}

// Interviews keep pointing at the questions they were answered against, so a
// referenced template is frozen.
func (u *templateUsecase) ensureUnreferenced(ctx context.Context, id int64) error {
	n, err := u.templateRepo.CountInterviews(ctx, id)
	if err != nil {
		return err
	}
	if n > 0 {
		return apperror.Conflict("Template is used by existing interviews and can no longer be changed")
	}
	return nil
}

// buildQuestions sorts by the submitted order, keeping submission order for
// ties, and renumbers from 1.
func buildQuestions(inputs []domain.QuestionInput, now time.Time) []domain.Question {
	sorted := make([]domain.QuestionInput, len(inputs))
	copy(sorted, inputs)
	sort.SliceStable(sorted, func(i, j int) bool {
		return sorted[i].Order < sorted[j].Order
	})

	questions := make([]domain.Question, len(sorted))
	for i, in := range sorted {
		questions[i] = domain.Question{
			Text:      strings.TrimSpace(in.Text),
			Type:      in.Type,
			Options:   in.Options,
			TimeLimit: in.TimeLimit,
			Required:  in.IsRequired(),
			Order:     i + 1,
			CreatedAt: now,
		}
	}
	return questions
}

func asValidationAppError(err error) error {
	var verr *domain.ValidationError
	if errors.As(err, &verr) {
		return validationFailed("Template validation failed", verr)
	}
	return err
}

func validationFailed(message string, verr *domain.ValidationError) *apperror.AppError {
	return apperror.New(http.StatusBadRequest, message, verr).WithDetails(verr.Violations)
}
