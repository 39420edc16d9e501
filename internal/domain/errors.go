package domain

import (
	"errors"
	"fmt"
	"strings"
)

// Common domain errors
var (
	ErrNotFound         = errors.New("resource not found")
	ErrInvalidState     = errors.New("operation not valid in current interview state")
	ErrAlreadyCompleted = errors.New("interview already completed")
	ErrInsufficientData = errors.New("no scored responses to aggregate")
	ErrScoring          = errors.New("response scoring failed")
)

// Violation is a single structural defect of a template or submission.
// QuestionIndex is the zero-based position in the submitted list, QuestionID
// is set when the question already exists.
type Violation struct {
	QuestionIndex *int   `json:"question_index,omitempty"`
	QuestionID    *int64 `json:"question_id,omitempty"`
	Field         string `json:"field"`
	Message       string `json:"message"`
}

func (v Violation) String() string {
	switch {
	case v.QuestionID != nil:
		return fmt.Sprintf("question %d: %s: %s", *v.QuestionID, v.Field, v.Message)
	case v.QuestionIndex != nil:
		return fmt.Sprintf("question at position %d: %s: %s", *v.QuestionIndex+1, v.Field, v.Message)
	default:
		return fmt.Sprintf("%s: %s", v.Field, v.Message)
	}
}

// ValidationError enumerates every violation found.
type ValidationError struct {
	Violations []Violation `json:"violations"`
}

func (e *ValidationError) Error() string {
	msgs := make([]string, len(e.Violations))
	for i, v := range e.Violations {
		msgs[i] = v.String()
	}
	return "validation failed: " + strings.Join(msgs, "; ")
}

func (e *ValidationError) Add(v Violation) {
	e.Violations = append(e.Violations, v)
}

// ErrOrNil returns nil when nothing was collected.
func (e *ValidationError) ErrOrNil() error {
	if e == nil || len(e.Violations) == 0 {
		return nil
	}
	return e
}

// ScoringError reports a Scorer failure for one response. The cause stays
// server side; clients only see the ids and that the analysis is pending.
type ScoringError struct {
	ResponseID int64  `json:"response_id"`
	QuestionID int64  `json:"question_id"`
	Status     string `json:"status"`
	Err        error  `json:"-"`
}

func NewScoringError(responseID, questionID int64, err error) *ScoringError {
	return &ScoringError{
		ResponseID: responseID,
		QuestionID: questionID,
		Status:     "analysis_pending",
		Err:        err,
	}
}

func (e *ScoringError) Error() string {
	return fmt.Sprintf("scoring response %d (question %d): %v", e.ResponseID, e.QuestionID, e.Err)
}

func (e *ScoringError) Unwrap() []error {
	return []error{ErrScoring, e.Err}
}

