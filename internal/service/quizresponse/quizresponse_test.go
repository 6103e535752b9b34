package quizresponse

import (
	"context"
	"errors"
	"slices"
	"sync"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Alijeyrad/telecare_backend/internal/quiz"
	"github.com/Alijeyrad/telecare_backend/internal/repo"
	"github.com/Alijeyrad/telecare_backend/pkg/constants"
)

// memStore mimics the ON CONFLICT upsert: one row per (user, quiz type),
// keeping the first id and created_at.
type memStore struct {
	mu   sync.Mutex
	rows map[string]*repo.QuizResponse
	err  error
}

func newMemStore() *memStore { return &memStore{rows: map[string]*repo.QuizResponse{}} }

func (m *memStore) Upsert(_ context.Context, r *repo.QuizResponse) error {
	if m.err != nil {
		return m.err
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	key := r.UserID.String() + "|" + r.QuizType
	if cur, ok := m.rows[key]; ok {
		cur.Responses = r.Responses
		cur.CompletedAt = r.CompletedAt
		cur.UpdatedAt = r.UpdatedAt
		r.ID, r.CreatedAt = cur.ID, cur.CreatedAt
		return nil
	}
	c := *r
	m.rows[key] = &c
	return nil
}

func (m *memStore) ListByUser(_ context.Context, userID uuid.UUID, quizType *string) ([]*repo.QuizResponse, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var out []*repo.QuizResponse
	for _, r := range m.rows {
		if r.UserID == userID && (quizType == nil || r.QuizType == *quizType) {
			c := *r
			out = append(out, &c)
		}
	}
	slices.SortFunc(out, func(a, b *repo.QuizResponse) int { return b.CompletedAt.Compare(a.CompletedAt) })
	return out, nil
}

func (m *memStore) ExistsForUser(ctx context.Context, userID uuid.UUID) (bool, error) {
	rs, _ := m.ListByUser(ctx, userID, nil)
	return len(rs) > 0, nil
}

type recPublisher struct {
	mu       sync.Mutex
	subjects []string
	err      error
}

func (p *recPublisher) Publish(_ context.Context, subject string, _ uuid.UUID, _ any) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.subjects = append(p.subjects, subject)
	return p.err
}

func newTestService(store Store, pub *recPublisher) *quizResponseService {
	svc := New(store, pub, nil).(*quizResponseService)
	tick := time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)
	var mu sync.Mutex
	svc.now = func() time.Time {
		mu.Lock()
		defer mu.Unlock()
		tick = tick.Add(time.Minute)
		return tick
	}
	return svc
}

func answers(kv ...string) quiz.Answers {
	out := quiz.Answers{}
	for i := 0; i+1 < len(kv); i += 2 {
		out[kv[i]] = quiz.Answer{Value: kv[i+1]}
	}
	return out
}

func TestSubmitValidation(t *testing.T) {
	svc := newTestService(newMemStore(), &recPublisher{})
	ctx := context.Background()
	user := uuid.New()

	_, err := svc.Submit(ctx, SubmitRequest{UserID: user, QuizType: "  ", Responses: answers("q1", "a")})
	assert.ErrorIs(t, err, ErrInvalidQuizType)

	_, err = svc.Submit(ctx, SubmitRequest{UserID: user, QuizType: "initial_assessment"})
	assert.ErrorIs(t, err, ErrNoAnswers)

	_, err = svc.Submit(ctx, SubmitRequest{QuizType: "initial_assessment", Responses: answers("q1", "a")})
	assert.ErrorIs(t, err, ErrInvalidUser)
}

func TestResubmitReplacesBundle(t *testing.T) {
	store := newMemStore()
	pub := &recPublisher{}
	svc := newTestService(store, pub)
	ctx := context.Background()
	user := uuid.New()

	first, err := svc.Submit(ctx, SubmitRequest{UserID: user, QuizType: "initial_assessment", Responses: answers("q1", "Sim")})
	require.NoError(t, err)
	second, err := svc.Submit(ctx, SubmitRequest{UserID: user, QuizType: "initial_assessment", Responses: answers("q1", "Não", "q2", "30")})
	require.NoError(t, err)

	assert.Equal(t, first.ID, second.ID)
	assert.True(t, second.CompletedAt.After(first.CompletedAt))

	got, err := svc.Fetch(ctx, user, nil)
	require.NoError(t, err)
	require.Len(t, got, 1)
	assert.Equal(t, "Não", got[0].Responses["q1"].Value)
	assert.Len(t, got[0].Responses, 2)
	assert.Equal(t, []string{constants.SubjectQuizSubmitted, constants.SubjectQuizSubmitted}, pub.subjects)
}

func TestConcurrentSubmitsLeaveOneBundle(t *testing.T) {
	store := newMemStore()
	svc := newTestService(store, &recPublisher{})
	ctx := context.Background()
	user := uuid.New()

	var wg sync.WaitGroup
	for i := range 8 {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			_, err := svc.Submit(ctx, SubmitRequest{UserID: user, QuizType: "follow_up", Responses: answers("q1", string(rune('a'+i)))})
			assert.NoError(t, err)
		}(i)
	}
	wg.Wait()

	got, err := svc.Fetch(ctx, user, nil)
	require.NoError(t, err)
	assert.Len(t, got, 1)
}

func TestFetchOrderingAndFilter(t *testing.T) {
	svc := newTestService(newMemStore(), &recPublisher{})
	ctx := context.Background()
	user := uuid.New()

	_, err := svc.Submit(ctx, SubmitRequest{UserID: user, QuizType: "initial_assessment", Responses: answers("q1", "a")})
	require.NoError(t, err)
	_, err = svc.Submit(ctx, SubmitRequest{UserID: user, QuizType: "follow_up", Responses: answers("q1", "b")})
	require.NoError(t, err)

	got, err := svc.Fetch(ctx, user, nil)
	require.NoError(t, err)
	require.Len(t, got, 2)
	assert.Equal(t, "follow_up", got[0].QuizType)

	qt := " initial_assessment "
	got, err = svc.Fetch(ctx, user, &qt)
	require.NoError(t, err)
	require.Len(t, got, 1)
	assert.Equal(t, "initial_assessment", got[0].QuizType)

	empty, err := svc.Fetch(ctx, uuid.New(), nil)
	require.NoError(t, err)
	assert.NotNil(t, empty)
	assert.Empty(t, empty)

	has, err := svc.HasAny(ctx, user)
	require.NoError(t, err)
	assert.True(t, has)
}

func TestSubmitSurvivesPublishFailure(t *testing.T) {
	svc := newTestService(newMemStore(), &recPublisher{err: errors.New("nats down")})
	_, err := svc.Submit(context.Background(), SubmitRequest{UserID: uuid.New(), QuizType: "custom", Responses: answers("q", "v")})
	assert.NoError(t, err)
}

func TestSubmitWrapsStoreError(t *testing.T) {
	store := newMemStore()
	store.err = errors.New("connection reset")
	svc := newTestService(store, &recPublisher{})
	_, err := svc.Submit(context.Background(), SubmitRequest{UserID: uuid.New(), QuizType: "custom", Responses: answers("q", "v")})
	assert.ErrorIs(t, err, store.err)
}
