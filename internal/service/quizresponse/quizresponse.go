package quizresponse

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/Alijeyrad/telecare_backend/internal/quiz"
	"github.com/Alijeyrad/telecare_backend/internal/repo"
	"github.com/Alijeyrad/telecare_backend/pkg/constants"
	"github.com/Alijeyrad/telecare_backend/pkg/events"
	"github.com/Alijeyrad/telecare_backend/pkg/observability"
)

const maxQuizTypeLength = 64

type SubmitRequest struct {
	UserID    uuid.UUID
	QuizType  string
	Responses quiz.Answers
}

type Store interface {
	Upsert(ctx context.Context, r *repo.QuizResponse) error
	ListByUser(ctx context.Context, userID uuid.UUID, quizType *string) ([]*repo.QuizResponse, error)
	ExistsForUser(ctx context.Context, userID uuid.UUID) (bool, error)
}

// Service stores one answer bundle per (user, quiz type). Resubmitting
// replaces the previous bundle.
type Service interface {
	Submit(ctx context.Context, req SubmitRequest) (*repo.QuizResponse, error)
	Fetch(ctx context.Context, userID uuid.UUID, quizType *string) ([]*repo.QuizResponse, error)
	HasAny(ctx context.Context, userID uuid.UUID) (bool, error)
}

type quizResponseService struct {
	store     Store
	publisher events.Publisher
	metrics   *observability.Metrics

	now   func() time.Time
	newID func() uuid.UUID
}

func New(store Store, publisher events.Publisher, metrics *observability.Metrics) Service {
	if publisher == nil {
		publisher = events.Noop{}
	}
	return &quizResponseService{
		store:     store,
		publisher: publisher,
		metrics:   metrics,
		now:       time.Now,
		newID:     func() uuid.UUID { return uuid.Must(uuid.NewV7()) },
	}
}

func normalizeQuizType(s string) (string, error) {
	s = strings.TrimSpace(s)
	if s == "" || len(s) > maxQuizTypeLength {
		return "", ErrInvalidQuizType
	}
	return s, nil
}

func (s *quizResponseService) Submit(ctx context.Context, req SubmitRequest) (*repo.QuizResponse, error) {
	if req.UserID == uuid.Nil {
		return nil, ErrInvalidUser
	}
	quizType, err := normalizeQuizType(req.QuizType)
	if err != nil {
		return nil, err
	}
	if len(req.Responses) == 0 {
		return nil, ErrNoAnswers
	}

	now := s.now().UTC()
	r := &repo.QuizResponse{
		ID:          s.newID(),
		UserID:      req.UserID,
		QuizType:    quizType,
		Responses:   req.Responses,
		CompletedAt: now,
		CreatedAt:   now,
		UpdatedAt:   now,
	}
	if err := s.store.Upsert(ctx, r); err != nil {
		return nil, fmt.Errorf("upsert quiz response: %w", err)
	}

	s.metrics.QuizSubmitted(ctx, quizType)
	if err := s.publisher.Publish(ctx, constants.SubjectQuizSubmitted, r.ID, events.QuizSubmitted{
		UserID:   r.UserID,
		BundleID: r.ID,
		QuizType: quizType,
	}); err != nil {
		slog.WarnContext(ctx, "quizresponse: publish submitted failed", "id", r.ID, "err", err)
	}
	return r, nil
}

// Fetch returns the user's bundles, newest first, optionally for one quiz
// type. A blank quiz type means all types.
func (s *quizResponseService) Fetch(ctx context.Context, userID uuid.UUID, quizType *string) ([]*repo.QuizResponse, error) {
	if quizType != nil {
		qt := strings.TrimSpace(*quizType)
		if qt == "" {
			quizType = nil
		} else {
			quizType = &qt
		}
	}
	out, err := s.store.ListByUser(ctx, userID, quizType)
	if err != nil {
		return nil, fmt.Errorf("list quiz responses: %w", err)
	}
	if out == nil {
		out = []*repo.QuizResponse{}
	}
	return out, nil
}

func (s *quizResponseService) HasAny(ctx context.Context, userID uuid.UUID) (bool, error) {
	ok, err := s.store.ExistsForUser(ctx, userID)
	if err != nil {
		return false, fmt.Errorf("check quiz responses: %w", err)
	}
	return ok, nil
}
