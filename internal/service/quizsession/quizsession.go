// Package quizsession keeps a quiz runner per user in Redis so the client can
// answer one question per request.
package quizsession

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/Alijeyrad/telecare_backend/internal/quiz"
	"github.com/Alijeyrad/telecare_backend/internal/repo"
	"github.com/Alijeyrad/telecare_backend/internal/service/evaluation"
	"github.com/Alijeyrad/telecare_backend/internal/service/questionnaire"
	"github.com/Alijeyrad/telecare_backend/internal/service/quizresponse"
	redispkg "github.com/Alijeyrad/telecare_backend/pkg/redis"
)

// NextCheckout is where the client goes once the quiz is over, whether or
// not the answers were saved.
const NextCheckout = "checkout"

// Session is the persisted runner plus what it produced.
type Session struct {
	ID                  uuid.UUID    `json:"id"`
	UserID              uuid.UUID    `json:"userId"`
	QuizType            string       `json:"quizType"`
	QuestionnaireID     uuid.UUID    `json:"questionnaireId"`
	MedicationRequested string       `json:"medicationRequested,omitempty"`
	Runner              *quiz.Runner `json:"runner"`
	BundleID            *uuid.UUID   `json:"bundleId,omitempty"`
	EvaluationID        *uuid.UUID   `json:"evaluationId,omitempty"`
	CreatedAt           time.Time    `json:"createdAt"`
	UpdatedAt           time.Time    `json:"updatedAt"`
}

// View is the client's picture of a session.
type View struct {
	ID              uuid.UUID         `json:"id"`
	QuizType        string            `json:"quizType"`
	QuestionnaireID uuid.UUID         `json:"questionnaireId"`
	Phase           quiz.Phase        `json:"phase"`
	Index           int               `json:"index"`
	Total           int               `json:"total"`
	Answered        int               `json:"answered"`
	Current         *quiz.Question    `json:"current,omitempty"`
	CurrentValue    *string           `json:"currentValue,omitempty"`
	Answers         map[string]string `json:"answers"`
	BundleID        *uuid.UUID        `json:"bundleId,omitempty"`
	EvaluationID    *uuid.UUID        `json:"evaluationId,omitempty"`
	Proceed         bool              `json:"proceed"`
	Next            string            `json:"next,omitempty"`
	Failure         string            `json:"failure,omitempty"`
	ExpiresAt       time.Time         `json:"expiresAt"`
}

type StartRequest struct {
	UserID              uuid.UUID
	QuizType            string
	QuestionnaireID     *uuid.UUID
	MedicationRequested string
}

type Store interface {
	Get(ctx context.Context, key string) (*Session, error)
	Set(ctx context.Context, key string, s *Session) error
}

type Service interface {
	Start(ctx context.Context, req StartRequest) (*View, error)
	Get(ctx context.Context, userID, sessionID uuid.UUID) (*View, error)
	Answer(ctx context.Context, userID, sessionID uuid.UUID, value string) (*View, error)
	Back(ctx context.Context, userID, sessionID uuid.UUID) (*View, error)
}

type Params struct {
	Sessions        Store
	Questionnaires  questionnaire.Service
	Responses       quizresponse.Service
	Evaluations     evaluation.Service
	DefaultQuizType string
	TTL             time.Duration
}

type quizSessionService struct {
	sessions        Store
	questionnaires  questionnaire.Service
	responses       quizresponse.Service
	evaluations     evaluation.Service
	defaultQuizType string
	ttl             time.Duration

	now   func() time.Time
	newID func() uuid.UUID
}

func New(p Params) Service {
	if p.DefaultQuizType == "" {
		p.DefaultQuizType = string(quiz.QuestionnaireInitialAssessment)
	}
	return &quizSessionService{
		sessions:        p.Sessions,
		questionnaires:  p.Questionnaires,
		responses:       p.Responses,
		evaluations:     p.Evaluations,
		defaultQuizType: p.DefaultQuizType,
		ttl:             p.TTL,
		now:             time.Now,
		newID:           func() uuid.UUID { return uuid.Must(uuid.NewV7()) },
	}
}

// Sessions are keyed by owner so one user can never load another's.
func key(userID, sessionID uuid.UUID) string {
	return userID.String() + ":" + sessionID.String()
}

func (s *quizSessionService) view(sess *Session) *View {
	r := sess.Runner
	answered, total := r.Progress()
	v := &View{
		ID:              sess.ID,
		QuizType:        sess.QuizType,
		QuestionnaireID: sess.QuestionnaireID,
		Phase:           r.Phase,
		Index:           r.Index,
		Total:           total,
		Answered:        answered,
		Answers:         r.Values,
		BundleID:        sess.BundleID,
		EvaluationID:    sess.EvaluationID,
		Failure:         r.Failure,
		ExpiresAt:       sess.UpdatedAt.Add(s.ttl),
	}
	if q, ok := r.Current(); ok {
		v.Current = &q
		if val, ok := r.CurrentValue(); ok {
			v.CurrentValue = &val
		}
	}
	if r.Phase == quiz.PhaseCompleted || r.Phase == quiz.PhaseError {
		v.Proceed = true
		v.Next = NextCheckout
	}
	if v.Answers == nil {
		v.Answers = map[string]string{}
	}
	return v
}

func (s *quizSessionService) Start(ctx context.Context, req StartRequest) (*View, error) {
	quizType := strings.TrimSpace(req.QuizType)
	if quizType == "" {
		quizType = s.defaultQuizType
	}

	var (
		qn  *repo.Questionnaire
		err error
	)
	if req.QuestionnaireID != nil {
		qn, err = s.questionnaires.GetQuestionnaire(ctx, *req.QuestionnaireID)
	} else {
		var typ *quiz.QuestionnaireType
		if t := quiz.QuestionnaireType(quizType); t.Valid() {
			typ = &t
		}
		qn, err = s.questionnaires.ActiveQuestionnaire(ctx, typ)
	}
	if err != nil {
		return nil, err
	}
	if !qn.Active {
		return nil, questionnaire.ErrQuestionnaireInactive
	}

	questions := make([]quiz.Question, 0, len(qn.Questions))
	for _, q := range qn.Questions {
		if q.Active {
			questions = append(questions, q.QuizQuestion())
		}
	}

	runner := quiz.NewRunner()
	if err := runner.Load(questions); err != nil {
		return nil, err
	}

	now := s.now().UTC()
	sess := &Session{
		ID:                  s.newID(),
		UserID:              req.UserID,
		QuizType:            quizType,
		QuestionnaireID:     qn.ID,
		MedicationRequested: strings.TrimSpace(req.MedicationRequested),
		Runner:              runner,
		CreatedAt:           now,
		UpdatedAt:           now,
	}
	if err := s.save(ctx, sess); err != nil {
		return nil, err
	}
	return s.view(sess), nil
}

func (s *quizSessionService) load(ctx context.Context, userID, sessionID uuid.UUID) (*Session, error) {
	sess, err := s.sessions.Get(ctx, key(userID, sessionID))
	if errors.Is(err, redispkg.ErrMiss) {
		return nil, ErrSessionNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("load quiz session: %w", err)
	}
	if sess.Runner == nil {
		return nil, ErrSessionNotFound
	}
	return sess, nil
}

func (s *quizSessionService) save(ctx context.Context, sess *Session) error {
	sess.UpdatedAt = s.now().UTC()
	if err := s.sessions.Set(ctx, key(sess.UserID, sess.ID), sess); err != nil {
		return fmt.Errorf("save quiz session: %w", err)
	}
	return nil
}

func (s *quizSessionService) Get(ctx context.Context, userID, sessionID uuid.UUID) (*View, error) {
	sess, err := s.load(ctx, userID, sessionID)
	if err != nil {
		return nil, err
	}
	return s.view(sess), nil
}

// Answer records value for the current question. After the last question
// the answers are submitted in the same call.
func (s *quizSessionService) Answer(ctx context.Context, userID, sessionID uuid.UUID, value string) (*View, error) {
	sess, err := s.load(ctx, userID, sessionID)
	if err != nil {
		return nil, err
	}

	if err := sess.Runner.Answer(value); err != nil {
		if errors.Is(err, quiz.ErrNotPresenting) {
			return nil, ErrSessionFinished
		}
		return nil, err
	}

	if sess.Runner.Phase == quiz.PhaseSubmitting {
		s.submit(ctx, sess)
	}

	if err := s.save(ctx, sess); err != nil {
		return nil, err
	}
	return s.view(sess), nil
}

// submit stores the bundle and opens the clinical evaluation. Failures put
// the runner in the error phase; the client still proceeds to checkout.
func (s *quizSessionService) submit(ctx context.Context, sess *Session) {
	r := sess.Runner

	bundle, err := s.responses.Submit(ctx, quizresponse.SubmitRequest{
		UserID:    sess.UserID,
		QuizType:  sess.QuizType,
		Responses: r.Answers(),
	})
	if err != nil {
		slog.ErrorContext(ctx, "quizsession: submit answers failed", "session", sess.ID, "user", sess.UserID, "err", err)
		r.Fail(errSubmitFailed)
		return
	}
	sess.BundleID = &bundle.ID

	ev, err := s.evaluations.CreateFromQuiz(ctx, evaluation.CreateRequest{
		UserID:              sess.UserID,
		Answers:             snapshot(r),
		MedicationRequested: sess.MedicationRequested,
	})
	if err != nil {
		slog.ErrorContext(ctx, "quizsession: create evaluation failed", "session", sess.ID, "user", sess.UserID, "bundle", bundle.ID, "err", err)
		r.Fail(errEvaluationFailed)
		return
	}
	sess.EvaluationID = &ev.ID

	if err := r.Complete(); err != nil {
		r.Fail(err)
	}
}

func snapshot(r *quiz.Runner) []repo.EvaluationAnswer {
	out := make([]repo.EvaluationAnswer, 0, len(r.Values))
	for _, q := range r.Questions {
		v, ok := r.Values[q.ID]
		if !ok {
			continue
		}
		out = append(out, repo.EvaluationAnswer{
			QuestionID: q.ID,
			Question:   q.Title,
			AnswerType: q.Type,
			Answer:     v,
		})
	}
	return out
}

func (s *quizSessionService) Back(ctx context.Context, userID, sessionID uuid.UUID) (*View, error) {
	sess, err := s.load(ctx, userID, sessionID)
	if err != nil {
		return nil, err
	}
	if err := sess.Runner.Back(); err != nil {
		switch {
		case errors.Is(err, quiz.ErrAtFirstQuestion):
			return nil, ErrAtFirstQuestion
		case errors.Is(err, quiz.ErrNotPresenting):
			return nil, ErrSessionFinished
		}
		return nil, err
	}
	if err := s.save(ctx, sess); err != nil {
		return nil, err
	}
	return s.view(sess), nil
}
