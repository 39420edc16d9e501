package usecase_test

import (
	"context"
	"net/http"
	"testing"

	"go-interview-backend/internal/domain"
	"go-interview-backend/internal/usecase"
	"go-interview-backend/pkg/validation"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func intPtr(i int) *int { return &i }

func validInput() *domain.TemplateInput {
	return &domain.TemplateInput{
		Title: "Platform engineer",
		Questions: []domain.QuestionInput{
			{Text: "Why us?", Type: domain.QuestionTypeText},
			{Text: "Favourite DB", Type: domain.QuestionTypeMultipleChoice, Options: []string{"Postgres", "MySQL"}},
			{Text: "Walk us through a project", Type: domain.QuestionTypeVideo, TimeLimit: intPtr(120)},
		},
	}
}

func violationFields(t *testing.T, err error) map[string]int {
	t.Helper()
	var verr *domain.ValidationError
	require.ErrorAs(t, err, &verr)
	out := map[string]int{}
	for _, v := range verr.Violations {
		out[v.Field]++
	}
	return out
}

func TestTemplateValidator(t *testing.T) {
	v := usecase.NewTemplateValidator(validation.New())

	t.Run("Valid template passes", func(t *testing.T) {
		assert.NoError(t, v.Validate(validInput()))
	})

	t.Run("Video time limit bounds are inclusive", func(t *testing.T) {
		for _, limit := range []int{domain.MinVideoTimeLimit, domain.MaxVideoTimeLimit} {
			in := validInput()
			in.Questions[2].TimeLimit = intPtr(limit)
			assert.NoError(t, v.Validate(in), "limit %d", limit)
		}
		for _, limit := range []int{domain.MinVideoTimeLimit - 1, domain.MaxVideoTimeLimit + 1} {
			in := validInput()
			in.Questions[2].TimeLimit = intPtr(limit)
			assert.Error(t, v.Validate(in), "limit %d", limit)
		}
	})

	t.Run("Every violation is reported with its position", func(t *testing.T) {
		in := &domain.TemplateInput{
			Title: "",
			Questions: []domain.QuestionInput{
				{Text: "   ", Type: domain.QuestionTypeText, Options: []string{"x"}},
				{Text: "Pick", Type: domain.QuestionTypeMultipleChoice, Options: []string{"only"}},
				{Text: "Record", Type: domain.QuestionTypeVideo},
				{Text: "Essay", Type: domain.QuestionTypeText, TimeLimit: intPtr(30)},
				{Text: "Draw", Type: "drawing"},
			},
		}

		err := v.Validate(in)
		fields := violationFields(t, err)
		assert.Equal(t, 1, fields["title"])
		assert.Equal(t, 1, fields["text"])
		assert.Equal(t, 2, fields["options"])
		assert.Equal(t, 2, fields["time_limit"])
		assert.Equal(t, 1, fields["type"])

		var verr *domain.ValidationError
		require.ErrorAs(t, err, &verr)
		for _, viol := range verr.Violations {
			if viol.Field == "type" {
				require.NotNil(t, viol.QuestionIndex)
				assert.Equal(t, 4, *viol.QuestionIndex)
			}
		}
	})

	t.Run("Empty question list", func(t *testing.T) {
		err := v.Validate(&domain.TemplateInput{Title: "Empty"})
		assert.Equal(t, map[string]int{"questions": 1}, violationFields(t, err))
	})
}

func newTemplateUsecase(store *memStore) domain.TemplateUsecase {
	return usecase.NewTemplateUsecase(memTemplateRepo{store}, usecase.NewTemplateValidator(validation.New()))
}

func TestTemplateUsecase(t *testing.T) {
	ctx := context.Background()
	owner := domain.Actor{UserID: "rec-1", Role: domain.RoleRecruiter}

	t.Run("Questions are ordered stably and renumbered", func(t *testing.T) {
		uc := newTemplateUsecase(newMemStore())
		in := validInput()
		in.Questions[0].Order = 5
		in.Questions[1].Order = 1
		in.Questions[2].Order = 5

		tmpl, err := uc.CreateTemplate(ctx, owner, in)
		require.NoError(t, err)
		require.Len(t, tmpl.Questions, 3)
		assert.Equal(t, "Favourite DB", tmpl.Questions[0].Text)
		assert.Equal(t, "Why us?", tmpl.Questions[1].Text)
		assert.Equal(t, "Walk us through a project", tmpl.Questions[2].Text)
		for i, q := range tmpl.Questions {
			assert.Equal(t, i+1, q.Order)
			assert.True(t, q.Required)
		}
		assert.Equal(t, 1, tmpl.Version)
	})

	t.Run("Invalid template is rejected with violations", func(t *testing.T) {
		uc := newTemplateUsecase(newMemStore())
		_, err := uc.CreateTemplate(ctx, owner, &domain.TemplateInput{Title: "x"})
		assert.Equal(t, http.StatusBadRequest, appCode(t, err))
	})

	t.Run("Unreferenced template update bumps version", func(t *testing.T) {
		uc := newTemplateUsecase(newMemStore())
		tmpl, err := uc.CreateTemplate(ctx, owner, validInput())
		require.NoError(t, err)

		in := validInput()
		in.Title = "Renamed"
		updated, err := uc.UpdateTemplate(ctx, owner, tmpl.ID, in)
		require.NoError(t, err)
		assert.Equal(t, 2, updated.Version)
		assert.Equal(t, "Renamed", updated.Title)
	})

	t.Run("Referenced template is frozen", func(t *testing.T) {
		store := newMemStore()
		uc := newTemplateUsecase(store)
		tmpl, err := uc.CreateTemplate(ctx, owner, validInput())
		require.NoError(t, err)
		store.interviews[500] = domain.Interview{ID: 500, TemplateID: tmpl.ID}

		_, err = uc.UpdateTemplate(ctx, owner, tmpl.ID, validInput())
		assert.Equal(t, http.StatusConflict, appCode(t, err))

		err = uc.DeleteTemplate(ctx, owner, tmpl.ID)
		assert.Equal(t, http.StatusConflict, appCode(t, err))
	})

	t.Run("Other recruiters cannot read or delete", func(t *testing.T) {
		uc := newTemplateUsecase(newMemStore())
		tmpl, err := uc.CreateTemplate(ctx, owner, validInput())
		require.NoError(t, err)

		other := domain.Actor{UserID: "rec-2", Role: domain.RoleRecruiter}
		_, err = uc.GetTemplate(ctx, other, tmpl.ID)
		assert.Equal(t, http.StatusForbidden, appCode(t, err))
		assert.Equal(t, http.StatusForbidden, appCode(t, uc.DeleteTemplate(ctx, other, tmpl.ID)))
	})

	t.Run("List only returns own templates", func(t *testing.T) {
		uc := newTemplateUsecase(newMemStore())
		_, err := uc.CreateTemplate(ctx, owner, validInput())
		require.NoError(t, err)
		_, err = uc.CreateTemplate(ctx, domain.Actor{UserID: "rec-2"}, validInput())
		require.NoError(t, err)

		list, total, err := uc.ListTemplates(ctx, owner, 1, 10)
		require.NoError(t, err)
		assert.Equal(t, int64(1), total)
		assert.Len(t, list, 1)
	})
}
