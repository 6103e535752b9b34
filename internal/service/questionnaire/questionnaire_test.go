package questionnaire

import (
	"context"
	"slices"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Alijeyrad/telecare_backend/internal/quiz"
	"github.com/Alijeyrad/telecare_backend/internal/repo"
)

type memQuestionnaires struct {
	rows map[uuid.UUID]*repo.Questionnaire
}

func (m *memQuestionnaires) Create(_ context.Context, q *repo.Questionnaire) error {
	c := *q
	m.rows[q.ID] = &c
	return nil
}

func (m *memQuestionnaires) Get(_ context.Context, id uuid.UUID) (*repo.Questionnaire, error) {
	q, ok := m.rows[id]
	if !ok || q.DeletedAt != nil {
		return nil, repo.ErrNotFound
	}
	c := *q
	return &c, nil
}

func (m *memQuestionnaires) sorted() []*repo.Questionnaire {
	var out []*repo.Questionnaire
	for _, q := range m.rows {
		if q.DeletedAt == nil {
			c := *q
			out = append(out, &c)
		}
	}
	slices.SortFunc(out, func(a, b *repo.Questionnaire) int { return a.DisplayOrder - b.DisplayOrder })
	return out
}

func (m *memQuestionnaires) List(_ context.Context, includeInactive bool) ([]*repo.Questionnaire, error) {
	var out []*repo.Questionnaire
	for _, q := range m.sorted() {
		if includeInactive || q.Active {
			out = append(out, q)
		}
	}
	return out, nil
}

func (m *memQuestionnaires) FirstActive(_ context.Context, typ *quiz.QuestionnaireType) (*repo.Questionnaire, error) {
	for _, q := range m.sorted() {
		if q.Active && (typ == nil || q.Type == *typ) {
			return q, nil
		}
	}
	return nil, repo.ErrNotFound
}

func (m *memQuestionnaires) Update(_ context.Context, q *repo.Questionnaire) error {
	if _, ok := m.rows[q.ID]; !ok {
		return repo.ErrNotFound
	}
	c := *q
	m.rows[q.ID] = &c
	return nil
}

func (m *memQuestionnaires) SoftDelete(_ context.Context, id uuid.UUID, at time.Time) error {
	q, ok := m.rows[id]
	if !ok || q.DeletedAt != nil {
		return repo.ErrNotFound
	}
	q.DeletedAt = &at
	q.Active = false
	return nil
}

type memQuestions struct {
	rows map[uuid.UUID]*repo.Question
}

func (m *memQuestions) Create(_ context.Context, q *repo.Question) error {
	c := *q
	m.rows[q.ID] = &c
	return nil
}

func (m *memQuestions) Get(_ context.Context, id uuid.UUID) (*repo.Question, error) {
	q, ok := m.rows[id]
	if !ok {
		return nil, repo.ErrNotFound
	}
	c := *q
	return &c, nil
}

func (m *memQuestions) ListByQuestionnaire(_ context.Context, qid uuid.UUID, activeOnly bool) ([]*repo.Question, error) {
	var out []*repo.Question
	for _, q := range m.rows {
		if q.QuestionnaireID == qid && (!activeOnly || q.Active) {
			c := *q
			out = append(out, &c)
		}
	}
	slices.SortFunc(out, func(a, b *repo.Question) int { return a.DisplayOrder - b.DisplayOrder })
	return out, nil
}

func (m *memQuestions) Update(_ context.Context, q *repo.Question) error {
	if _, ok := m.rows[q.ID]; !ok {
		return repo.ErrNotFound
	}
	c := *q
	m.rows[q.ID] = &c
	return nil
}

func (m *memQuestions) Delete(_ context.Context, id uuid.UUID) error {
	if _, ok := m.rows[id]; !ok {
		return repo.ErrNotFound
	}
	delete(m.rows, id)
	return nil
}

var fixedNow = time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)

func newTestService() (*questionnaireService, *memQuestionnaires, *memQuestions) {
	qs := &memQuestionnaires{rows: map[uuid.UUID]*repo.Questionnaire{}}
	qq := &memQuestions{rows: map[uuid.UUID]*repo.Question{}}
	svc := New(qs, qq).(*questionnaireService)
	svc.now = func() time.Time { return fixedNow }
	return svc, qs, qq
}

func ptr[T any](v T) *T { return &v }

func TestCreateQuestionnaireValidation(t *testing.T) {
	svc, _, _ := newTestService()
	ctx := context.Background()

	_, err := svc.CreateQuestionnaire(ctx, CreateQuestionnaireRequest{Title: " ab ", Type: quiz.QuestionnaireCustom})
	assert.ErrorIs(t, err, ErrInvalidTitle)

	_, err = svc.CreateQuestionnaire(ctx, CreateQuestionnaireRequest{Title: "Triagem", Type: "survey"})
	assert.ErrorIs(t, err, ErrInvalidQuestionnaireType)

	q, err := svc.CreateQuestionnaire(ctx, CreateQuestionnaireRequest{Title: "  Triagem ", Type: quiz.QuestionnaireInitialAssessment})
	require.NoError(t, err)
	assert.Equal(t, "Triagem", q.Title)
	assert.True(t, q.Active)
	assert.Equal(t, fixedNow, q.CreatedAt)
}

func TestCreateQuestionOptionsRule(t *testing.T) {
	svc, _, _ := newTestService()
	ctx := context.Background()

	qn, err := svc.CreateQuestionnaire(ctx, CreateQuestionnaireRequest{Title: "Triagem", Type: quiz.QuestionnaireInitialAssessment})
	require.NoError(t, err)

	_, err = svc.CreateQuestion(ctx, CreateQuestionRequest{
		QuestionnaireID: qn.ID, Title: "Sexo", AnswerType: quiz.AnswerSingleChoice,
	})
	assert.ErrorIs(t, err, ErrInvalidQuestion)
	assert.ErrorIs(t, err, quiz.ErrOptionsRequired)

	_, err = svc.CreateQuestion(ctx, CreateQuestionRequest{
		QuestionnaireID: qn.ID, Title: "Idade", AnswerType: quiz.AnswerNumber, Options: []string{"1"},
	})
	assert.ErrorIs(t, err, quiz.ErrOptionsNotAllowed)

	_, err = svc.CreateQuestion(ctx, CreateQuestionRequest{
		QuestionnaireID: uuid.New(), Title: "Idade", AnswerType: quiz.AnswerNumber,
	})
	assert.ErrorIs(t, err, ErrQuestionnaireNotFound)

	q, err := svc.CreateQuestion(ctx, CreateQuestionRequest{
		QuestionnaireID: qn.ID, Title: "Fuma?", AnswerType: quiz.AnswerYesNo, Options: []string{"Sim", "Não"}, Required: true,
	})
	require.NoError(t, err)
	assert.True(t, q.Active)
}

func TestUpdateQuestionRechecksMergedOptions(t *testing.T) {
	svc, _, _ := newTestService()
	ctx := context.Background()

	qn, _ := svc.CreateQuestionnaire(ctx, CreateQuestionnaireRequest{Title: "Triagem", Type: quiz.QuestionnaireInitialAssessment})
	q, err := svc.CreateQuestion(ctx, CreateQuestionRequest{
		QuestionnaireID: qn.ID, Title: "Fuma?", AnswerType: quiz.AnswerYesNo, Options: []string{"Sim", "Não"},
	})
	require.NoError(t, err)

	_, err = svc.UpdateQuestion(ctx, q.ID, UpdateQuestionRequest{AnswerType: ptr(quiz.AnswerText)})
	assert.ErrorIs(t, err, quiz.ErrOptionsNotAllowed)

	updated, err := svc.UpdateQuestion(ctx, q.ID, UpdateQuestionRequest{
		AnswerType: ptr(quiz.AnswerText),
		Options:    ptr([]string{}),
	})
	require.NoError(t, err)
	assert.Equal(t, quiz.AnswerText, updated.AnswerType)
	assert.Empty(t, updated.Options)

	_, err = svc.UpdateQuestion(ctx, uuid.New(), UpdateQuestionRequest{Title: ptr("x")})
	assert.ErrorIs(t, err, ErrQuestionNotFound)
}

func TestActiveQuestionnaireAndOrdering(t *testing.T) {
	svc, _, _ := newTestService()
	ctx := context.Background()

	_, err := svc.ActiveQuestionnaire(ctx, nil)
	assert.ErrorIs(t, err, ErrNoActiveQuestionnaire)

	second, _ := svc.CreateQuestionnaire(ctx, CreateQuestionnaireRequest{Title: "Segundo", Type: quiz.QuestionnaireFollowUp, DisplayOrder: 2})
	first, _ := svc.CreateQuestionnaire(ctx, CreateQuestionnaireRequest{Title: "Primeiro", Type: quiz.QuestionnaireInitialAssessment, DisplayOrder: 1})

	for i, title := range []string{"C", "A", "B"} {
		_, err := svc.CreateQuestion(ctx, CreateQuestionRequest{
			QuestionnaireID: first.ID, Title: title, AnswerType: quiz.AnswerText, DisplayOrder: []int{3, 1, 2}[i],
		})
		require.NoError(t, err)
	}
	_, err = svc.CreateQuestion(ctx, CreateQuestionRequest{
		QuestionnaireID: first.ID, Title: "Off", AnswerType: quiz.AnswerText, DisplayOrder: 0, Active: ptr(false),
	})
	require.NoError(t, err)

	got, err := svc.ActiveQuestionnaire(ctx, nil)
	require.NoError(t, err)
	assert.Equal(t, first.ID, got.ID)
	require.Len(t, got.Questions, 3)
	assert.Equal(t, []string{"A", "B", "C"}, []string{got.Questions[0].Title, got.Questions[1].Title, got.Questions[2].Title})

	got, err = svc.ActiveQuestionnaire(ctx, ptr(quiz.QuestionnaireFollowUp))
	require.NoError(t, err)
	assert.Equal(t, second.ID, got.ID)
	assert.Empty(t, got.Questions)

	all, err := svc.ListQuestions(ctx, first.ID)
	require.NoError(t, err)
	assert.Len(t, all, 4)
}

func TestDeleteQuestionnaireIsSoft(t *testing.T) {
	svc, store, _ := newTestService()
	ctx := context.Background()

	qn, _ := svc.CreateQuestionnaire(ctx, CreateQuestionnaireRequest{Title: "Triagem", Type: quiz.QuestionnaireCustom})
	require.NoError(t, svc.DeleteQuestionnaire(ctx, qn.ID))

	_, err := svc.GetQuestionnaire(ctx, qn.ID)
	assert.ErrorIs(t, err, ErrQuestionnaireNotFound)
	require.Contains(t, store.rows, qn.ID)
	assert.Equal(t, fixedNow, *store.rows[qn.ID].DeletedAt)

	assert.ErrorIs(t, svc.DeleteQuestionnaire(ctx, qn.ID), ErrQuestionnaireNotFound)
}

func TestDeleteQuestionIsHard(t *testing.T) {
	svc, _, questions := newTestService()
	ctx := context.Background()

	qn, _ := svc.CreateQuestionnaire(ctx, CreateQuestionnaireRequest{Title: "Triagem", Type: quiz.QuestionnaireCustom})
	q, err := svc.CreateQuestion(ctx, CreateQuestionRequest{QuestionnaireID: qn.ID, Title: "Peso", AnswerType: quiz.AnswerNumber})
	require.NoError(t, err)

	require.NoError(t, svc.DeleteQuestion(ctx, q.ID))
	assert.NotContains(t, questions.rows, q.ID)
	assert.ErrorIs(t, svc.DeleteQuestion(ctx, q.ID), ErrQuestionNotFound)
}
