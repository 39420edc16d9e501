package domain

import (
	"context"
	"time"
)

// Question types
const (
	QuestionTypeText           = "text"
	QuestionTypeMultipleChoice = "multiple_choice"
	QuestionTypeVideo          = "video"
)

// Video time limit bounds, in seconds
const (
	MinVideoTimeLimit = 10
	MaxVideoTimeLimit = 300
)

// Template is an ordered set of questions owned by a recruiter.
// Once an interview references it the template is frozen; Version counts edits made before that.
type Template struct {
	ID          int64      `json:"id"`
	CreatorID   string     `json:"creator_id"`
	Title       string     `json:"title"`
	Description *string    `json:"description,omitempty"`
	Version     int        `json:"version"`
	IsActive    bool       `json:"is_active"`
	Questions   []Question `json:"questions"`
	CreatedAt   time.Time  `json:"created_at"`
	UpdatedAt   time.Time  `json:"updated_at"`
}

type Question struct {
	ID         int64     `json:"id"`
	TemplateID int64     `json:"template_id"`
	Text       string    `json:"text"`
	Type       string    `json:"type"`
	Options    []string  `json:"options,omitempty"`
	TimeLimit  *int      `json:"time_limit,omitempty"` // seconds, video only
	Required   bool      `json:"required"`
	Order      int       `json:"order"`
	CreatedAt  time.Time `json:"created_at"`
}

// TemplateInput is a proposed template, before validation.
type TemplateInput struct {
	Title       string          `json:"title" validate:"required,max=200"`
	Description *string         `json:"description" validate:"omitempty,max=2000"`
	Questions   []QuestionInput `json:"questions"`
}

type QuestionInput struct {
	Text      string   `json:"text" validate:"notblank"`
	Type      string   `json:"type" validate:"oneof=text multiple_choice video"`
	Options   []string `json:"options"`
	TimeLimit *int     `json:"time_limit"`
	Required  *bool    `json:"required"` // defaults to true
	Order     int      `json:"order"`
}

// IsRequired applies the default for a missing flag.
func (q QuestionInput) IsRequired() bool {
	return q.Required == nil || *q.Required
}

type TemplateRepository interface {
	Create(ctx context.Context, t *Template) error
	GetByID(ctx context.Context, id int64) (*Template, error)
	ListByCreator(ctx context.Context, creatorID string, limit, offset int) ([]Template, int64, error)
	Update(ctx context.Context, t *Template) error
	Delete(ctx context.Context, id int64) error
	CountInterviews(ctx context.Context, templateID int64) (int64, error)
}

type TemplateUsecase interface {
	ValidateTemplate(input *TemplateInput) error
	CreateTemplate(ctx context.Context, actor Actor, input *TemplateInput) (*Template, error)
	GetTemplate(ctx context.Context, actor Actor, id int64) (*Template, error)
	ListTemplates(ctx context.Context, actor Actor, page, pageSize int) ([]Template, int64, error)
	UpdateTemplate(ctx context.Context, actor Actor, id int64, input *TemplateInput) (*Template, error)
	DeleteTemplate(ctx context.Context, actor Actor, id int64) error
}
