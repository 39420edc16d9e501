package usecase

import (
	"errors"
	"fmt"

	"go-interview-backend/internal/domain"
	"go-interview-backend/pkg/validation"

	"github.com/go-playground/validator/v10"
)

// TemplateValidator checks a proposed template and reports every violation,
// not only the first one.
type TemplateValidator struct {
	validate *validator.Validate
}

func NewTemplateValidator(validate *validator.Validate) *TemplateValidator {
	return &TemplateValidator{validate: validate}
}

// Validate returns nil or a *domain.ValidationError.
func (v *TemplateValidator) Validate(input *domain.TemplateInput) error {
	verr := &domain.ValidationError{}
	if input == nil {
		verr.Add(domain.Violation{Field: "template", Message: "is required"})
		return verr
	}

	v.collectTags(verr, input, nil)

	if len(input.Questions) == 0 {
		verr.Add(domain.Violation{Field: "questions", Message: "at least one question is required"})
	}

	for i := range input.Questions {
		idx := i
		q := input.Questions[i]
		v.collectTags(verr, q, &idx)
		checkQuestionShape(verr, q, &idx)
	}

	return verr.ErrOrNil()
}

func (v *TemplateValidator) collectTags(verr *domain.ValidationError, s interface{}, idx *int) {
	err := v.validate.Struct(s)
	if err == nil {
		return
	}
	var fieldErrs validator.ValidationErrors
	if !errors.As(err, &fieldErrs) {
		verr.Add(domain.Violation{QuestionIndex: idx, Field: "template", Message: err.Error()})
		return
	}
	for _, fe := range fieldErrs {
		verr.Add(domain.Violation{
			QuestionIndex: idx,
			Field:         fe.Field(),
			Message:       validation.FieldMessage(fe),
		})
	}
}

// checkQuestionShape enforces the per-type rules on options and time limit.
// An unknown type is already reported by the tag check.
func checkQuestionShape(verr *domain.ValidationError, q domain.QuestionInput, idx *int) {
	switch q.Type {
	case domain.QuestionTypeMultipleChoice:
		if len(q.Options) < 2 {
			verr.Add(domain.Violation{QuestionIndex: idx, Field: "options", Message: "multiple_choice questions need at least 2 options"})
		}
	case domain.QuestionTypeText, domain.QuestionTypeVideo:
		if len(q.Options) > 0 {
			verr.Add(domain.Violation{QuestionIndex: idx, Field: "options", Message: "only multiple_choice questions carry options"})
		}
	}

	switch q.Type {
	case domain.QuestionTypeVideo:
		switch {
		case q.TimeLimit == nil:
			verr.Add(domain.Violation{QuestionIndex: idx, Field: "time_limit", Message: "video questions need a time limit"})
		case *q.TimeLimit < domain.MinVideoTimeLimit || *q.TimeLimit > domain.MaxVideoTimeLimit:
			verr.Add(domain.Violation{
				QuestionIndex: idx,
				Field:         "time_limit",
				Message:       fmt.Sprintf("must be between %d and %d seconds", domain.MinVideoTimeLimit, domain.MaxVideoTimeLimit),
			})
		}
	case domain.QuestionTypeText, domain.QuestionTypeMultipleChoice:
		if q.TimeLimit != nil {
			verr.Add(domain.Violation{QuestionIndex: idx, Field: "time_limit", Message: "only video questions carry a time limit"})
		}
	}
}
