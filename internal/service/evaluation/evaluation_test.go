package evaluation

import (
	"context"
	"slices"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Alijeyrad/telecare_backend/internal/repo"
	"github.com/Alijeyrad/telecare_backend/pkg/constants"
	"github.com/Alijeyrad/telecare_backend/pkg/crypto"
)

type memStore struct {
	rows    map[uuid.UUID]*repo.ClinicalEvaluation
	filters []repo.EvaluationFilter
}

func newMemStore() *memStore { return &memStore{rows: map[uuid.UUID]*repo.ClinicalEvaluation{}} }

func (m *memStore) Create(_ context.Context, e *repo.ClinicalEvaluation) error {
	c := *e
	m.rows[e.ID] = &c
	return nil
}

func (m *memStore) view(e *repo.ClinicalEvaluation) *repo.EvaluationView {
	v := &repo.EvaluationView{ClinicalEvaluation: *e}
	v.Patient = &repo.User{ID: e.UserID, FullName: "Ana"}
	if e.ReviewerID != nil {
		name := "Dra. Lima"
		v.ReviewerName = &name
	}
	return v
}

func (m *memStore) Get(_ context.Context, id uuid.UUID) (*repo.EvaluationView, error) {
	e, ok := m.rows[id]
	if !ok {
		return nil, repo.ErrNotFound
	}
	return m.view(e), nil
}

func (m *memStore) List(_ context.Context, f repo.EvaluationFilter) ([]*repo.EvaluationView, error) {
	m.filters = append(m.filters, f)
	var out []*repo.EvaluationView
	for _, e := range m.rows {
		if len(f.Statuses) > 0 && !slices.Contains(f.Statuses, e.Status) {
			continue
		}
		if f.UserID != nil && *f.UserID != e.UserID {
			continue
		}
		out = append(out, m.view(e))
	}
	if f.Offset >= len(out) {
		return nil, nil
	}
	out = out[f.Offset:]
	if f.Limit > 0 && len(out) > f.Limit {
		out = out[:f.Limit]
	}
	return out, nil
}

func (m *memStore) Review(_ context.Context, id uuid.UUID, u repo.ReviewUpdate) error {
	e, ok := m.rows[id]
	if !ok {
		return repo.ErrNotFound
	}
	e.Status = u.Status
	e.ReviewerID = u.ReviewerID
	at := u.ReviewedAt
	e.ReviewedAt = &at
	if u.MedicalNotes != nil {
		e.MedicalNotes = u.MedicalNotes
	}
	if u.DenialReason != nil {
		e.DenialReason = u.DenialReason
	}
	return nil
}

type recPublisher struct {
	subjects []string
	payloads []any
}

func (p *recPublisher) Publish(_ context.Context, subject string, _ uuid.UUID, payload any) error {
	p.subjects = append(p.subjects, subject)
	p.payloads = append(p.payloads, payload)
	return nil
}

const testKeyHex = "000102030405060708090a0b0c0d0e0f101112131415161718191a1b1c1d1e1f"

func newTestService(t *testing.T, keyHex string) (*evaluationService, *memStore, *recPublisher) {
	t.Helper()
	sealer, err := crypto.NewSealer(keyHex)
	require.NoError(t, err)
	store := newMemStore()
	pub := &recPublisher{}
	svc := New(store, sealer, pub, nil).(*evaluationService)
	svc.now = func() time.Time { return time.Date(2026, 2, 1, 9, 0, 0, 0, time.UTC) }
	return svc, store, pub
}

func seed(t *testing.T, svc *evaluationService) *repo.ClinicalEvaluation {
	t.Helper()
	e, err := svc.CreateFromQuiz(context.Background(), CreateRequest{
		UserID:              uuid.New(),
		Answers:             []repo.EvaluationAnswer{{QuestionID: "q1", Question: "Fuma?", Answer: "Não"}},
		MedicationRequested: " finasterida ",
	})
	require.NoError(t, err)
	return e
}

func ptr[T any](v T) *T { return &v }

func TestCreateFromQuiz(t *testing.T) {
	svc, _, pub := newTestService(t, "")

	_, err := svc.CreateFromQuiz(context.Background(), CreateRequest{UserID: uuid.New()})
	assert.ErrorIs(t, err, ErrEmptySnapshot)

	e := seed(t, svc)
	assert.Equal(t, repo.EvaluationAwaitingReview, e.Status)
	assert.Equal(t, "finasterida", e.MedicationRequested)
	assert.Equal(t, []string{constants.SubjectEvaluationCreated}, pub.subjects)
}

// Pending to denied with a reason, then straight to approved: nothing
// prevents leaving a terminal status.
func TestTransitionDeniedThenApproved(t *testing.T) {
	svc, _, pub := newTestService(t, "")
	ctx := context.Background()
	e := seed(t, svc)
	reviewer := uuid.New()

	out, err := svc.Transition(ctx, TransitionRequest{
		ID: e.ID, ReviewerID: reviewer, Status: "negado",
		DenialReason: ptr("Hipertensão não controlada"),
	})
	require.NoError(t, err)
	assert.Equal(t, repo.EvaluationDenied, out.Status)
	assert.Equal(t, ExternalDenied, out.DisplayStatus)

	page, err := svc.List(ctx, ListRequest{Status: "negado"})
	require.NoError(t, err)
	listed := page.Items
	require.Len(t, listed, 1)
	assert.Equal(t, e.ID, listed[0].ID)
	require.NotNil(t, listed[0].DenialReason)
	assert.Equal(t, "Hipertensão não controlada", *listed[0].DenialReason)
	assert.Equal(t, "Dra. Lima", *listed[0].ReviewerName)

	out, err = svc.Transition(ctx, TransitionRequest{ID: e.ID, ReviewerID: reviewer, Status: "aprovado"})
	require.NoError(t, err)
	assert.Equal(t, repo.EvaluationApproved, out.Status)
	assert.Equal(t, []string{
		constants.SubjectEvaluationCreated,
		constants.SubjectEvaluationReviewed,
		constants.SubjectEvaluationReviewed,
	}, pub.subjects)
}

func TestTransitionValidation(t *testing.T) {
	svc, _, _ := newTestService(t, "")
	ctx := context.Background()
	e := seed(t, svc)

	_, err := svc.Transition(ctx, TransitionRequest{ID: e.ID, ReviewerID: uuid.New(), Status: "em_analise"})
	assert.ErrorIs(t, err, ErrInvalidStatus)

	_, err = svc.Transition(ctx, TransitionRequest{ID: e.ID, Status: "aprovado"})
	assert.ErrorIs(t, err, ErrInvalidReviewer)

	_, err = svc.Transition(ctx, TransitionRequest{ID: uuid.New(), ReviewerID: uuid.New(), Status: "aprovado"})
	assert.ErrorIs(t, err, ErrEvaluationNotFound)
}

func TestPendingTransitionCollapsesToAwaitingReview(t *testing.T) {
	svc, store, _ := newTestService(t, "")
	e := seed(t, svc)
	store.rows[e.ID].Status = repo.EvaluationNeedsClarification

	out, err := svc.Transition(context.Background(), TransitionRequest{ID: e.ID, ReviewerID: uuid.New(), Status: "pending"})
	require.NoError(t, err)
	assert.Equal(t, repo.EvaluationAwaitingReview, out.Status)
}

func TestNotesEncryptedAtRest(t *testing.T) {
	svc, store, _ := newTestService(t, testKeyHex)
	ctx := context.Background()
	e := seed(t, svc)

	out, err := svc.Transition(ctx, TransitionRequest{
		ID: e.ID, ReviewerID: uuid.New(), Status: "aprovado", Notes: ptr("sem contraindicações"),
	})
	require.NoError(t, err)
	require.NotNil(t, out.MedicalNotes)
	assert.Equal(t, "sem contraindicações", *out.MedicalNotes)
	assert.NotEqual(t, "sem contraindicações", *store.rows[e.ID].MedicalNotes)
}

func TestListForUserHidesClinicianFields(t *testing.T) {
	svc, _, _ := newTestService(t, "")
	ctx := context.Background()
	e := seed(t, svc)
	_, err := svc.Transition(ctx, TransitionRequest{ID: e.ID, ReviewerID: uuid.New(), Status: "aprovado", Notes: ptr("ok")})
	require.NoError(t, err)

	mine, err := svc.ListForUser(ctx, e.UserID)
	require.NoError(t, err)
	require.Len(t, mine, 1)
	assert.Nil(t, mine[0].MedicalNotes)
	assert.Nil(t, mine[0].ReviewerID)
	assert.Nil(t, mine[0].Patient)
	assert.Equal(t, ExternalApproved, mine[0].DisplayStatus)

	others, err := svc.ListForUser(ctx, uuid.New())
	require.NoError(t, err)
	assert.Empty(t, others)
}

func TestListPaging(t *testing.T) {
	svc, store, _ := newTestService(t, "")
	page, err := svc.List(context.Background(), ListRequest{Page: 3, PerPage: 10})
	require.NoError(t, err)
	require.Len(t, store.filters, 1)
	assert.Equal(t, 11, store.filters[0].Limit)
	assert.Equal(t, 20, store.filters[0].Offset)
	assert.Equal(t, 3, page.Page)
	assert.False(t, page.HasMore)

	_, err = svc.List(context.Background(), ListRequest{Status: "unknown"})
	assert.ErrorIs(t, err, ErrInvalidStatus)
}

func TestListWithoutPerPageReturnsEverything(t *testing.T) {
	svc, store, _ := newTestService(t, "")
	ctx := context.Background()
	for range 60 {
		seed(t, svc)
	}

	page, err := svc.List(ctx, ListRequest{})
	require.NoError(t, err)
	assert.Len(t, page.Items, 60)
	assert.False(t, page.HasMore)
	assert.Zero(t, store.filters[0].Limit)

	page, err = svc.List(ctx, ListRequest{Page: 1, PerPage: 25})
	require.NoError(t, err)
	assert.Len(t, page.Items, 25)
	assert.True(t, page.HasMore)

	page, err = svc.List(ctx, ListRequest{Page: 3, PerPage: 25})
	require.NoError(t, err)
	assert.Len(t, page.Items, 10)
	assert.False(t, page.HasMore)

	page, err = svc.List(ctx, ListRequest{PerPage: 500})
	require.NoError(t, err)
	assert.Equal(t, maxPerPage, page.PerPage)
}
