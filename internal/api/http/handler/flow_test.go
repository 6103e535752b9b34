package handler

import (
	"context"
	"fmt"
	"net/http"
	"slices"
	"sync"
	"testing"
	"time"

	"github.com/goccy/go-json"
	"github.com/gofiber/fiber/v3"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Alijeyrad/telecare_backend/internal/quiz"
	"github.com/Alijeyrad/telecare_backend/internal/repo"
	"github.com/Alijeyrad/telecare_backend/internal/service/evaluation"
	"github.com/Alijeyrad/telecare_backend/internal/service/questionnaire"
	"github.com/Alijeyrad/telecare_backend/internal/service/quizresponse"
	"github.com/Alijeyrad/telecare_backend/pkg/crypto"
)

// In-memory stores behind the real services, so these tests exercise the
// whole handler -> service -> store path.

type flowQuestionnaires struct {
	mu   sync.Mutex
	rows map[uuid.UUID]*repo.Questionnaire
}

func (m *flowQuestionnaires) Create(_ context.Context, q *repo.Questionnaire) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	c := *q
	m.rows[q.ID] = &c
	return nil
}

func (m *flowQuestionnaires) Get(_ context.Context, id uuid.UUID) (*repo.Questionnaire, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	q, ok := m.rows[id]
	if !ok || q.DeletedAt != nil {
		return nil, repo.ErrNotFound
	}
	c := *q
	return &c, nil
}

func (m *flowQuestionnaires) List(_ context.Context, includeInactive bool) ([]*repo.Questionnaire, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var out []*repo.Questionnaire
	for _, q := range m.rows {
		if q.DeletedAt == nil && (includeInactive || q.Active) {
			c := *q
			out = append(out, &c)
		}
	}
	slices.SortFunc(out, func(a, b *repo.Questionnaire) int { return a.DisplayOrder - b.DisplayOrder })
	return out, nil
}

func (m *flowQuestionnaires) FirstActive(ctx context.Context, typ *quiz.QuestionnaireType) (*repo.Questionnaire, error) {
	list, _ := m.List(ctx, false)
	for _, q := range list {
		if typ == nil || q.Type == *typ {
			return q, nil
		}
	}
	return nil, repo.ErrNotFound
}

func (m *flowQuestionnaires) Update(_ context.Context, q *repo.Questionnaire) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.rows[q.ID]; !ok {
		return repo.ErrNotFound
	}
	c := *q
	m.rows[q.ID] = &c
	return nil
}

func (m *flowQuestionnaires) SoftDelete(_ context.Context, id uuid.UUID, at time.Time) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	q, ok := m.rows[id]
	if !ok {
		return repo.ErrNotFound
	}
	q.DeletedAt = &at
	return nil
}

type flowQuestions struct {
	mu   sync.Mutex
	rows map[uuid.UUID]*repo.Question
}

func (m *flowQuestions) Create(_ context.Context, q *repo.Question) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	c := *q
	m.rows[q.ID] = &c
	return nil
}

func (m *flowQuestions) Get(_ context.Context, id uuid.UUID) (*repo.Question, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	q, ok := m.rows[id]
	if !ok {
		return nil, repo.ErrNotFound
	}
	c := *q
	return &c, nil
}

func (m *flowQuestions) ListByQuestionnaire(_ context.Context, questionnaireID uuid.UUID, activeOnly bool) ([]*repo.Question, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var out []*repo.Question
	for _, q := range m.rows {
		if q.QuestionnaireID == questionnaireID && (!activeOnly || q.Active) {
			c := *q
			out = append(out, &c)
		}
	}
	slices.SortFunc(out, func(a, b *repo.Question) int { return a.DisplayOrder - b.DisplayOrder })
	return out, nil
}

func (m *flowQuestions) Update(_ context.Context, q *repo.Question) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	c := *q
	m.rows[q.ID] = &c
	return nil
}

func (m *flowQuestions) Delete(_ context.Context, id uuid.UUID) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.rows, id)
	return nil
}

// flowBundles keys rows by (user, quiz type) like the unique index does.
type flowBundles struct {
	mu   sync.Mutex
	rows map[string]*repo.QuizResponse
}

func (m *flowBundles) Upsert(_ context.Context, r *repo.QuizResponse) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	key := r.UserID.String() + "|" + r.QuizType
	if cur, ok := m.rows[key]; ok {
		cur.Responses = r.Responses
		cur.CompletedAt = r.CompletedAt
		cur.UpdatedAt = r.UpdatedAt
		*r = *cur
		return nil
	}
	c := *r
	m.rows[key] = &c
	return nil
}

func (m *flowBundles) ListByUser(_ context.Context, userID uuid.UUID, quizType *string) ([]*repo.QuizResponse, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var out []*repo.QuizResponse
	for _, r := range m.rows {
		if r.UserID == userID && (quizType == nil || r.QuizType == *quizType) {
			c := *r
			out = append(out, &c)
		}
	}
	return out, nil
}

func (m *flowBundles) ExistsForUser(ctx context.Context, userID uuid.UUID) (bool, error) {
	list, _ := m.ListByUser(ctx, userID, nil)
	return len(list) > 0, nil
}

type flowEvaluations struct {
	mu   sync.Mutex
	rows map[uuid.UUID]*repo.ClinicalEvaluation
}

func (m *flowEvaluations) Create(_ context.Context, e *repo.ClinicalEvaluation) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	c := *e
	m.rows[e.ID] = &c
	return nil
}

func (m *flowEvaluations) Get(_ context.Context, id uuid.UUID) (*repo.EvaluationView, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	e, ok := m.rows[id]
	if !ok {
		return nil, repo.ErrNotFound
	}
	return &repo.EvaluationView{ClinicalEvaluation: *e}, nil
}

func (m *flowEvaluations) List(_ context.Context, f repo.EvaluationFilter) ([]*repo.EvaluationView, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var out []*repo.EvaluationView
	for _, e := range m.rows {
		if len(f.Statuses) > 0 && !slices.Contains(f.Statuses, e.Status) {
			continue
		}
		out = append(out, &repo.EvaluationView{ClinicalEvaluation: *e})
	}
	return out, nil
}

func (m *flowEvaluations) Review(_ context.Context, id uuid.UUID, u repo.ReviewUpdate) error {
	m.mu.Lock()
	defer m.mu.Unlock()
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

type flow struct {
	app         *fiber.App
	evaluations evaluation.Service
	admin       uuid.UUID
	patient     uuid.UUID
}

func newFlow() *flow {
	f := &flow{admin: uuid.New(), patient: uuid.New()}

	qsvc := questionnaire.New(
		&flowQuestionnaires{rows: map[uuid.UUID]*repo.Questionnaire{}},
		&flowQuestions{rows: map[uuid.UUID]*repo.Question{}},
	)
	rsvc := quizresponse.New(&flowBundles{rows: map[string]*repo.QuizResponse{}}, nil, nil)
	f.evaluations = evaluation.New(&flowEvaluations{rows: map[uuid.UUID]*repo.ClinicalEvaluation{}}, crypto.Sealer{}, nil, nil)

	qh := NewQuestionnaireHandler(qsvc)
	quizH := NewQuizHandler(rsvc)
	evalH := NewEvaluationHandler(f.evaluations)

	f.app = fiber.New()
	f.app.Get("/quiz/perguntas", qh.ActiveQuestions)

	patient := f.app.Group("/quiz", asUser(f.patient, nil))
	patient.Post("/", quizH.Submit)
	patient.Get("/", quizH.Fetch)

	admin := f.app.Group("/admin", asUser(f.admin, nil))
	admin.Post("/questionarios", qh.Create)
	admin.Post("/perguntas", qh.CreateQuestion)
	admin.Get("/avaliacoes", evalH.List)
	admin.Patch("/avaliacoes", evalH.Transition)
	admin.Get("/avaliacoes/:id", evalH.Get)
	return f
}

func (f *flow) do(t *testing.T, method, path string, body any) (int, map[string]any) {
	t.Helper()
	var raw string
	if body != nil {
		b, err := json.Marshal(body)
		require.NoError(t, err)
		raw = string(b)
	}
	return do(t, f.app, method, path, raw)
}

func dataMap(t *testing.T, body map[string]any) map[string]any {
	t.Helper()
	m, ok := body["data"].(map[string]any)
	require.True(t, ok, "data is not an object: %v", body)
	return m
}

func dataList(t *testing.T, body map[string]any) []any {
	t.Helper()
	l, ok := body["data"].([]any)
	require.True(t, ok, "data is not a list: %v", body)
	return l
}

func TestQuestionnaireToBundleFlow(t *testing.T) {
	f := newFlow()

	status, body := f.do(t, http.MethodPost, "/admin/questionarios", map[string]any{
		"title": "Avaliação Médica",
		"type":  "initial_assessment",
	})
	require.Equal(t, http.StatusCreated, status, body)
	qnID := dataMap(t, body)["id"].(string)

	status, body = f.do(t, http.MethodPost, "/admin/perguntas", map[string]any{
		"questionnaireId": qnID,
		"title":           "Já utilizou o medicamento antes?",
		"answerType":      "single_choice",
		"options":         []string{"Sim", "Não"},
	})
	require.Equal(t, http.StatusCreated, status, body)
	questionID := dataMap(t, body)["id"].(string)
	assert.Equal(t, true, dataMap(t, body)["required"])

	status, body = f.do(t, http.MethodGet, "/quiz/perguntas", nil)
	require.Equal(t, http.StatusOK, status)
	active := dataMap(t, body)
	assert.Equal(t, qnID, active["questionnaire"].(map[string]any)["id"])
	questions := active["questions"].([]any)
	require.Len(t, questions, 1)
	assert.Equal(t, questionID, questions[0].(map[string]any)["id"])

	status, body = f.do(t, http.MethodPost, "/quiz/", map[string]any{
		"quizType":  "initial_assessment",
		"responses": map[string]string{questionID: "Sim"},
	})
	require.Equal(t, http.StatusOK, status, body)

	status, body = f.do(t, http.MethodGet, "/quiz/?quizType=initial_assessment", nil)
	require.Equal(t, http.StatusOK, status)
	bundles := dataList(t, body)
	require.Len(t, bundles, 1)
	assert.Equal(t, map[string]any{questionID: "Sim"}, bundles[0].(map[string]any)["responses"])
}

func TestChoiceQuestionWithoutOptionsIsRejected(t *testing.T) {
	f := newFlow()

	_, body := f.do(t, http.MethodPost, "/admin/questionarios", map[string]any{
		"title": "Triagem",
		"type":  "initial_assessment",
	})
	qnID := dataMap(t, body)["id"].(string)

	for _, typ := range []string{"single_choice", "yes_no"} {
		status, body := f.do(t, http.MethodPost, "/admin/perguntas", map[string]any{
			"questionnaireId": qnID,
			"title":           "Fuma?",
			"answerType":      typ,
		})
		assert.Equal(t, http.StatusBadRequest, status, typ)
		assert.NotEmpty(t, body["error"])
	}
}

func TestResubmittedQuizTypeKeepsOneBundle(t *testing.T) {
	f := newFlow()

	answers := func(prefix string) map[string]string {
		out := map[string]string{}
		for i := 1; i <= 5; i++ {
			out[fmt.Sprintf("q%d", i)] = fmt.Sprintf("%s resposta %d", prefix, i)
		}
		return out
	}

	for _, prefix := range []string{"primeira", "segunda"} {
		status, body := f.do(t, http.MethodPost, "/quiz/", map[string]any{
			"quizType":  "sexual_health",
			"responses": answers(prefix),
		})
		require.Equal(t, http.StatusOK, status, body)
	}

	status, body := f.do(t, http.MethodGet, "/quiz/?quizType=sexual_health", nil)
	require.Equal(t, http.StatusOK, status)
	bundles := dataList(t, body)
	require.Len(t, bundles, 1)

	got := bundles[0].(map[string]any)["responses"].(map[string]any)
	require.Len(t, got, 5)
	for id, v := range answers("segunda") {
		assert.Equal(t, v, got[id])
	}
}

func TestReviewDecisionCanBeReversed(t *testing.T) {
	f := newFlow()

	ev, err := f.evaluations.CreateFromQuiz(context.Background(), evaluation.CreateRequest{
		UserID: f.patient,
		Answers: []repo.EvaluationAnswer{
			{QuestionID: "q1", Question: "Pressão arterial", AnswerType: quiz.AnswerText, Answer: "16x10 sem tratamento"},
		},
		MedicationRequested: "sildenafila",
	})
	require.NoError(t, err)

	reason := "Hipertensão não controlada"
	status, body := f.do(t, http.MethodPatch, "/admin/avaliacoes", map[string]any{
		"id":           ev.ID.String(),
		"status":       "negado",
		"denialReason": reason,
	})
	require.Equal(t, http.StatusOK, status, body)

	status, body = f.do(t, http.MethodGet, "/admin/avaliacoes?status=negado", nil)
	require.Equal(t, http.StatusOK, status)
	list := dataList(t, body)
	require.Len(t, list, 1)
	assert.Equal(t, false, body["meta"].(map[string]any)["hasMore"])
	row := list[0].(map[string]any)
	assert.Equal(t, ev.ID.String(), row["id"])
	assert.Equal(t, "negado", row["status"])
	assert.Equal(t, "negado", row["displayStatus"])
	assert.Equal(t, reason, row["denialReason"])
	assert.Equal(t, f.admin.String(), row["reviewerId"])

	// terminal decisions are not locked
	status, body = f.do(t, http.MethodPatch, "/admin/avaliacoes", map[string]any{
		"id":     ev.ID.String(),
		"status": "aprovado",
	})
	require.Equal(t, http.StatusOK, status, body)

	status, body = f.do(t, http.MethodGet, "/admin/avaliacoes/"+ev.ID.String(), nil)
	require.Equal(t, http.StatusOK, status)
	assert.Equal(t, "aprovado", dataMap(t, body)["status"])

	status, _ = f.do(t, http.MethodPatch, "/admin/avaliacoes", map[string]any{
		"id":     ev.ID.String(),
		"status": "talvez",
	})
	assert.Equal(t, http.StatusBadRequest, status)

	status, _ = f.do(t, http.MethodGet, "/admin/avaliacoes?perPage=abc", nil)
	assert.Equal(t, http.StatusBadRequest, status)
}
