package usecase_test

import (
	"context"
	"errors"
	"sort"
	"strings"
	"sync"
	"time"

	"go-interview-backend/internal/domain"

	"github.com/stretchr/testify/mock"
)

// memStore backs the repository fakes. WithinTransaction serializes callers
// and restores the previous state when fn fails, like a row lock plus rollback.
type memStore struct {
	txMu sync.Mutex
	mu   sync.Mutex

	nextID       int64
	templates    map[int64]domain.Template
	interviews   map[int64]domain.Interview
	responses    map[int64]domain.Response
	respAnalyses map[int64]domain.ResponseAnalysis // keyed by response id
	analyses     map[int64]domain.InterviewAnalysis
	users        map[string]domain.User

	analysisWrites int
	failUpsert     error
}

func newMemStore() *memStore {
	return &memStore{
		templates:    map[int64]domain.Template{},
		interviews:   map[int64]domain.Interview{},
		responses:    map[int64]domain.Response{},
		respAnalyses: map[int64]domain.ResponseAnalysis{},
		analyses:     map[int64]domain.InterviewAnalysis{},
		users:        map[string]domain.User{},
	}
}

func (s *memStore) id() int64 {
	s.nextID++
	return s.nextID
}

type snapshot struct {
	nextID       int64
	templates    map[int64]domain.Template
	interviews   map[int64]domain.Interview
	responses    map[int64]domain.Response
	respAnalyses map[int64]domain.ResponseAnalysis
	analyses     map[int64]domain.InterviewAnalysis
	users        map[string]domain.User
}

func copyMap[K comparable, V any](m map[K]V) map[K]V {
	out := make(map[K]V, len(m))
	for k, v := range m {
		out[k] = v
	}
	return out
}

func (s *memStore) WithinTransaction(ctx context.Context, fn func(ctx context.Context) error) error {
	s.txMu.Lock()
	defer s.txMu.Unlock()

	s.mu.Lock()
	snap := snapshot{
		nextID:       s.nextID,
		templates:    copyMap(s.templates),
		interviews:   copyMap(s.interviews),
		responses:    copyMap(s.responses),
		respAnalyses: copyMap(s.respAnalyses),
		analyses:     copyMap(s.analyses),
		users:        copyMap(s.users),
	}
	s.mu.Unlock()

	if err := fn(ctx); err != nil {
		s.mu.Lock()
		s.nextID = snap.nextID
		s.templates = snap.templates
		s.interviews = snap.interviews
		s.responses = snap.responses
		s.respAnalyses = snap.respAnalyses
		s.analyses = snap.analyses
		s.users = snap.users
		s.mu.Unlock()
		return err
	}
	return nil
}

// --- templates

type memTemplateRepo struct{ s *memStore }

func (r memTemplateRepo) Create(ctx context.Context, t *domain.Template) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	t.ID = r.s.id()
	for i := range t.Questions {
		t.Questions[i].ID = r.s.id()
		t.Questions[i].TemplateID = t.ID
	}
	r.s.templates[t.ID] = cloneTemplate(*t)
	return nil
}

func (r memTemplateRepo) GetByID(ctx context.Context, id int64) (*domain.Template, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	t, ok := r.s.templates[id]
	if !ok {
		return nil, domain.ErrNotFound
	}
	t = cloneTemplate(t)
	return &t, nil
}

func (r memTemplateRepo) ListByCreator(ctx context.Context, creatorID string, limit, offset int) ([]domain.Template, int64, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	var out []domain.Template
	for _, t := range r.s.templates {
		if t.CreatorID == creatorID {
			out = append(out, cloneTemplate(t))
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return page(out, limit, offset), int64(len(out)), nil
}

func (r memTemplateRepo) Update(ctx context.Context, t *domain.Template) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if _, ok := r.s.templates[t.ID]; !ok {
		return domain.ErrNotFound
	}
	for i := range t.Questions {
		t.Questions[i].ID = r.s.id()
		t.Questions[i].TemplateID = t.ID
	}
	r.s.templates[t.ID] = cloneTemplate(*t)
	return nil
}

func (r memTemplateRepo) Delete(ctx context.Context, id int64) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	delete(r.s.templates, id)
	return nil
}

func (r memTemplateRepo) CountInterviews(ctx context.Context, templateID int64) (int64, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	var n int64
	for _, iv := range r.s.interviews {
		if iv.TemplateID == templateID {
			n++
		}
	}
	return n, nil
}

func cloneTemplate(t domain.Template) domain.Template {
	t.Questions = append([]domain.Question(nil), t.Questions...)
	return t
}

// --- interviews

type memInterviewRepo struct{ s *memStore }

func (r memInterviewRepo) Create(ctx context.Context, iv *domain.Interview) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	iv.ID = r.s.id()
	r.s.interviews[iv.ID] = *iv
	return nil
}

func (r memInterviewRepo) GetByID(ctx context.Context, id int64) (*domain.Interview, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	iv, ok := r.s.interviews[id]
	if !ok {
		return nil, domain.ErrNotFound
	}
	return &iv, nil
}

func (r memInterviewRepo) GetForUpdate(ctx context.Context, id int64) (*domain.Interview, error) {
	return r.GetByID(ctx, id)
}

func (r memInterviewRepo) list(match func(domain.Interview) bool, limit, offset int) ([]domain.Interview, int64, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	var out []domain.Interview
	for _, iv := range r.s.interviews {
		if match(iv) {
			out = append(out, iv)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return page(out, limit, offset), int64(len(out)), nil
}

func (r memInterviewRepo) ListByRecruiter(ctx context.Context, recruiterID string, limit, offset int) ([]domain.Interview, int64, error) {
	return r.list(func(iv domain.Interview) bool { return iv.RecruiterID == recruiterID }, limit, offset)
}

func (r memInterviewRepo) ListByCandidateEmail(ctx context.Context, email string, limit, offset int) ([]domain.Interview, int64, error) {
	return r.list(func(iv domain.Interview) bool { return strings.EqualFold(iv.CandidateEmail, email) }, limit, offset)
}

func (r memInterviewRepo) MarkStarted(ctx context.Context, id int64, at time.Time) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	iv := r.s.interviews[id]
	if iv.Status == domain.InterviewStatusPending {
		iv.Status = domain.InterviewStatusInProgress
	}
	if iv.StartedAt == nil {
		iv.StartedAt = &at
	}
	r.s.interviews[id] = iv
	return nil
}

func (r memInterviewRepo) MarkCompleted(ctx context.Context, id int64, at time.Time) (bool, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	iv := r.s.interviews[id]
	if iv.Status == domain.InterviewStatusCompleted {
		return false, nil
	}
	iv.Status = domain.InterviewStatusCompleted
	if iv.CompletedAt == nil {
		iv.CompletedAt = &at
	}
	r.s.interviews[id] = iv
	return true, nil
}

func (r memInterviewRepo) ExpireOverdue(ctx context.Context, now time.Time) ([]int64, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	var ids []int64
	for id, iv := range r.s.interviews {
		open := iv.Status == domain.InterviewStatusPending || iv.Status == domain.InterviewStatusInProgress
		if open && iv.DueDate != nil && iv.DueDate.Before(now) {
			iv.Status = domain.InterviewStatusExpired
			r.s.interviews[id] = iv
			ids = append(ids, id)
		}
	}
	return ids, nil
}

// --- responses

type memResponseRepo struct{ s *memStore }

func (r memResponseRepo) Upsert(ctx context.Context, resp *domain.Response) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	for id, existing := range r.s.responses {
		if existing.InterviewID == resp.InterviewID && existing.QuestionID == resp.QuestionID {
			resp.ID = id
			resp.Analysis = nil
			r.s.responses[id] = *resp
			delete(r.s.respAnalyses, id)
			return nil
		}
	}
	resp.ID = r.s.id()
	r.s.responses[resp.ID] = *resp
	return nil
}

func (r memResponseRepo) ListByInterview(ctx context.Context, interviewID int64) ([]domain.Response, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	var out []domain.Response
	for id, resp := range r.s.responses {
		if resp.InterviewID != interviewID {
			continue
		}
		if a, ok := r.s.respAnalyses[id]; ok {
			a := a
			resp.Analysis = &a
		}
		out = append(out, resp)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

func (r memResponseRepo) AnsweredQuestionIDs(ctx context.Context, interviewID int64) ([]int64, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	var ids []int64
	for _, resp := range r.s.responses {
		if resp.InterviewID == interviewID {
			ids = append(ids, resp.QuestionID)
		}
	}
	return ids, nil
}

// --- analyses

type memAnalysisRepo struct{ s *memStore }

func (r memAnalysisRepo) CreateResponseAnalysis(ctx context.Context, a *domain.ResponseAnalysis) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if _, exists := r.s.respAnalyses[a.ResponseID]; exists {
		return errors.New("duplicate response analysis")
	}
	a.ID = r.s.id()
	r.s.respAnalyses[a.ResponseID] = *a
	return nil
}

func (r memAnalysisRepo) GetInterviewAnalysis(ctx context.Context, interviewID int64) (*domain.InterviewAnalysis, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	a, ok := r.s.analyses[interviewID]
	if !ok {
		return nil, domain.ErrNotFound
	}
	return &a, nil
}

func (r memAnalysisRepo) UpsertInterviewAnalysis(ctx context.Context, a *domain.InterviewAnalysis) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if r.s.failUpsert != nil {
		return r.s.failUpsert
	}
	if existing, ok := r.s.analyses[a.InterviewID]; ok {
		a.ID = existing.ID
		a.CreatedAt = existing.CreatedAt
	} else {
		a.ID = r.s.id()
		a.CreatedAt = time.Now()
	}
	a.UpdatedAt = time.Now()
	r.s.analyses[a.InterviewID] = *a
	r.s.analysisWrites++
	return nil
}

func (r memAnalysisRepo) DeleteInterviewAnalysis(ctx context.Context, interviewID int64) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	delete(r.s.analyses, interviewID)
	return nil
}

// --- users

type memUserRepo struct{ s *memStore }

func (r memUserRepo) Create(ctx context.Context, u *domain.User) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	r.s.users[u.ID] = *u
	return nil
}

func (r memUserRepo) GetByID(ctx context.Context, id string) (*domain.User, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	u, ok := r.s.users[id]
	if !ok {
		return nil, domain.ErrNotFound
	}
	return &u, nil
}

func (r memUserRepo) GetByEmail(ctx context.Context, email string) (*domain.User, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	for _, u := range r.s.users {
		if strings.EqualFold(u.Email, email) {
			return &u, nil
		}
	}
	return nil, domain.ErrNotFound
}

func (r memUserRepo) Update(ctx context.Context, u *domain.User) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	r.s.users[u.ID] = *u
	return nil
}

func (r memUserRepo) Delete(ctx context.Context, id string) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if _, ok := r.s.users[id]; !ok {
		return domain.ErrNotFound
	}
	delete(r.s.users, id)
	return nil
}

func page[T any](items []T, limit, offset int) []T {
	if offset >= len(items) {
		return nil
	}
	end := offset + limit
	if end > len(items) {
		end = len(items)
	}
	return items[offset:end]
}

// --- collaborators

type MockScorer struct {
	mock.Mock
}

func (m *MockScorer) Score(ctx context.Context, req domain.ScoreRequest) (*domain.ScoreResult, error) {
	args := m.Called(ctx, req)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.ScoreResult), args.Error(1)
}

type MockNotifier struct {
	mock.Mock
}

func (m *MockNotifier) SendInvitation(ctx context.Context, inv domain.Invitation) (*domain.DeliveryResult, error) {
	args := m.Called(ctx, inv)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.DeliveryResult), args.Error(1)
}

type MockUploadIssuer struct {
	mock.Mock
}

func (m *MockUploadIssuer) IssueVideoUploadURL(ctx context.Context, interviewID int64) (*domain.UploadURL, error) {
	args := m.Called(ctx, interviewID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.UploadURL), args.Error(1)
}
