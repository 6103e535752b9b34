package questionnaire

import (
	"context"
	"fmt"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/google/uuid"

	"github.com/Alijeyrad/telecare_backend/internal/quiz"
	"github.com/Alijeyrad/telecare_backend/internal/repo"
)

const minTitleLength = 3

// ---------------------------------------------------------------------------
// DTOs
// ---------------------------------------------------------------------------

type CreateQuestionnaireRequest struct {
	Title        string
	Description  *string
	Type         quiz.QuestionnaireType
	DisplayOrder int
	Active       *bool // defaults to true
}

type UpdateQuestionnaireRequest struct {
	Title        *string
	Description  *string
	Type         *quiz.QuestionnaireType
	DisplayOrder *int
	Active       *bool
}

type CreateQuestionRequest struct {
	QuestionnaireID uuid.UUID
	Title           string
	Description     *string
	AnswerType      quiz.AnswerType
	Options         []string
	Required        bool
	DisplayOrder    int
	Active          *bool // defaults to true
}

// UpdateQuestionRequest patches a question. A non-nil Options replaces the
// list; an empty non-nil slice clears it.
type UpdateQuestionRequest struct {
	Title        *string
	Description  *string
	AnswerType   *quiz.AnswerType
	Options      *[]string
	Required     *bool
	DisplayOrder *int
	Active       *bool
}

// ---------------------------------------------------------------------------
// Stores
// ---------------------------------------------------------------------------

type QuestionnaireStore interface {
	Create(ctx context.Context, q *repo.Questionnaire) error
	Get(ctx context.Context, id uuid.UUID) (*repo.Questionnaire, error)
	List(ctx context.Context, includeInactive bool) ([]*repo.Questionnaire, error)
	FirstActive(ctx context.Context, typ *quiz.QuestionnaireType) (*repo.Questionnaire, error)
	Update(ctx context.Context, q *repo.Questionnaire) error
	SoftDelete(ctx context.Context, id uuid.UUID, at time.Time) error
}

type QuestionStore interface {
	Create(ctx context.Context, q *repo.Question) error
	Get(ctx context.Context, id uuid.UUID) (*repo.Question, error)
	ListByQuestionnaire(ctx context.Context, questionnaireID uuid.UUID, activeOnly bool) ([]*repo.Question, error)
	Update(ctx context.Context, q *repo.Question) error
	Delete(ctx context.Context, id uuid.UUID) error
}

// ---------------------------------------------------------------------------
// Interface
// ---------------------------------------------------------------------------

type Service interface {
	CreateQuestionnaire(ctx context.Context, req CreateQuestionnaireRequest) (*repo.Questionnaire, error)
	GetQuestionnaire(ctx context.Context, id uuid.UUID) (*repo.Questionnaire, error)
	ListQuestionnaires(ctx context.Context, includeInactive bool) ([]*repo.Questionnaire, error)
	UpdateQuestionnaire(ctx context.Context, id uuid.UUID, req UpdateQuestionnaireRequest) (*repo.Questionnaire, error)
	DeleteQuestionnaire(ctx context.Context, id uuid.UUID) error
	ActiveQuestionnaire(ctx context.Context, typ *quiz.QuestionnaireType) (*repo.Questionnaire, error)

	CreateQuestion(ctx context.Context, req CreateQuestionRequest) (*repo.Question, error)
	GetQuestion(ctx context.Context, id uuid.UUID) (*repo.Question, error)
	ListActiveQuestions(ctx context.Context, questionnaireID uuid.UUID) ([]*repo.Question, error)
	ListQuestions(ctx context.Context, questionnaireID uuid.UUID) ([]*repo.Question, error)
	UpdateQuestion(ctx context.Context, id uuid.UUID, req UpdateQuestionRequest) (*repo.Question, error)
	DeleteQuestion(ctx context.Context, id uuid.UUID) error
}

// ---------------------------------------------------------------------------
// Implementation
// ---------------------------------------------------------------------------

type questionnaireService struct {
	questionnaires QuestionnaireStore
	questions      QuestionStore

	now   func() time.Time
	newID func() uuid.UUID
}

func New(questionnaires QuestionnaireStore, questions QuestionStore) Service {
	return &questionnaireService{
		questionnaires: questionnaires,
		questions:      questions,
		now:            time.Now,
		newID:          func() uuid.UUID { return uuid.Must(uuid.NewV7()) },
	}
}

// NewFromClient wires the service to the Postgres repositories.
func NewFromClient(db *repo.Client) Service {
	return New(db.Questionnaires, db.Questions)
}

func checkTitle(title string) (string, error) {
	title = strings.TrimSpace(title)
	if utf8.RuneCountInString(title) < minTitleLength {
		return "", ErrInvalidTitle
	}
	return title, nil
}

func trimOptional(s *string) *string {
	if s == nil {
		return nil
	}
	t := strings.TrimSpace(*s)
	if t == "" {
		return nil
	}
	return &t
}

func (s *questionnaireService) CreateQuestionnaire(ctx context.Context, req CreateQuestionnaireRequest) (*repo.Questionnaire, error) {
	title, err := checkTitle(req.Title)
	if err != nil {
		return nil, err
	}
	if !req.Type.Valid() {
		return nil, ErrInvalidQuestionnaireType
	}
	if req.DisplayOrder < 0 {
		return nil, ErrInvalidDisplayOrder
	}

	now := s.now().UTC()
	q := &repo.Questionnaire{
		ID:           s.newID(),
		Title:        title,
		Description:  trimOptional(req.Description),
		Type:         req.Type,
		Active:       req.Active == nil || *req.Active,
		DisplayOrder: req.DisplayOrder,
		CreatedAt:    now,
		UpdatedAt:    now,
	}
	if err := s.questionnaires.Create(ctx, q); err != nil {
		return nil, fmt.Errorf("create questionnaire: %w", err)
	}
	return q, nil
}

func (s *questionnaireService) loadQuestionnaire(ctx context.Context, id uuid.UUID) (*repo.Questionnaire, error) {
	q, err := s.questionnaires.Get(ctx, id)
	if err != nil {
		if repo.IsNotFound(err) {
			return nil, ErrQuestionnaireNotFound
		}
		return nil, fmt.Errorf("get questionnaire: %w", err)
	}
	return q, nil
}

// GetQuestionnaire returns the questionnaire with all of its questions,
// inactive ones included.
func (s *questionnaireService) GetQuestionnaire(ctx context.Context, id uuid.UUID) (*repo.Questionnaire, error) {
	q, err := s.loadQuestionnaire(ctx, id)
	if err != nil {
		return nil, err
	}
	q.Questions, err = s.questions.ListByQuestionnaire(ctx, id, false)
	if err != nil {
		return nil, fmt.Errorf("list questions: %w", err)
	}
	return q, nil
}

func (s *questionnaireService) ListQuestionnaires(ctx context.Context, includeInactive bool) ([]*repo.Questionnaire, error) {
	qs, err := s.questionnaires.List(ctx, includeInactive)
	if err != nil {
		return nil, fmt.Errorf("list questionnaires: %w", err)
	}
	return qs, nil
}

func (s *questionnaireService) UpdateQuestionnaire(ctx context.Context, id uuid.UUID, req UpdateQuestionnaireRequest) (*repo.Questionnaire, error) {
	q, err := s.loadQuestionnaire(ctx, id)
	if err != nil {
		return nil, err
	}

	if req.Title != nil {
		if q.Title, err = checkTitle(*req.Title); err != nil {
			return nil, err
		}
	}
	if req.Description != nil {
		q.Description = trimOptional(req.Description)
	}
	if req.Type != nil {
		if !req.Type.Valid() {
			return nil, ErrInvalidQuestionnaireType
		}
		q.Type = *req.Type
	}
	if req.DisplayOrder != nil {
		if *req.DisplayOrder < 0 {
			return nil, ErrInvalidDisplayOrder
		}
		q.DisplayOrder = *req.DisplayOrder
	}
	if req.Active != nil {
		q.Active = *req.Active
	}
	q.UpdatedAt = s.now().UTC()

	if err := s.questionnaires.Update(ctx, q); err != nil {
		if repo.IsNotFound(err) {
			return nil, ErrQuestionnaireNotFound
		}
		return nil, fmt.Errorf("update questionnaire: %w", err)
	}
	return q, nil
}

// DeleteQuestionnaire soft deletes. Stored answer bundles keep referring to
// its question ids.
func (s *questionnaireService) DeleteQuestionnaire(ctx context.Context, id uuid.UUID) error {
	if err := s.questionnaires.SoftDelete(ctx, id, s.now().UTC()); err != nil {
		if repo.IsNotFound(err) {
			return ErrQuestionnaireNotFound
		}
		return fmt.Errorf("delete questionnaire: %w", err)
	}
	return nil
}

func (s *questionnaireService) ActiveQuestionnaire(ctx context.Context, typ *quiz.QuestionnaireType) (*repo.Questionnaire, error) {
	if typ != nil && !typ.Valid() {
		return nil, ErrInvalidQuestionnaireType
	}
	q, err := s.questionnaires.FirstActive(ctx, typ)
	if err != nil {
		if repo.IsNotFound(err) {
			return nil, ErrNoActiveQuestionnaire
		}
		return nil, fmt.Errorf("find active questionnaire: %w", err)
	}
	q.Questions, err = s.questions.ListByQuestionnaire(ctx, q.ID, true)
	if err != nil {
		return nil, fmt.Errorf("list active questions: %w", err)
	}
	return q, nil
}

func checkQuestion(q *repo.Question) error {
	if strings.TrimSpace(q.Title) == "" {
		return ErrInvalidQuestionTitle
	}
	if q.DisplayOrder < 0 {
		return ErrInvalidDisplayOrder
	}
	if err := quiz.CheckOptions(q.AnswerType, q.Options); err != nil {
		return fmt.Errorf("%w: %w", ErrInvalidQuestion, err)
	}
	return nil
}

func (s *questionnaireService) CreateQuestion(ctx context.Context, req CreateQuestionRequest) (*repo.Question, error) {
	now := s.now().UTC()
	q := &repo.Question{
		ID:              s.newID(),
		QuestionnaireID: req.QuestionnaireID,
		Title:           strings.TrimSpace(req.Title),
		Description:     trimOptional(req.Description),
		AnswerType:      req.AnswerType,
		Options:         req.Options,
		Required:        req.Required,
		DisplayOrder:    req.DisplayOrder,
		Active:          req.Active == nil || *req.Active,
		CreatedAt:       now,
		UpdatedAt:       now,
	}
	if err := checkQuestion(q); err != nil {
		return nil, err
	}
	if _, err := s.loadQuestionnaire(ctx, req.QuestionnaireID); err != nil {
		return nil, err
	}

	if err := s.questions.Create(ctx, q); err != nil {
		if repo.IsNotFound(err) {
			return nil, ErrQuestionnaireNotFound
		}
		return nil, fmt.Errorf("create question: %w", err)
	}
	return q, nil
}

func (s *questionnaireService) GetQuestion(ctx context.Context, id uuid.UUID) (*repo.Question, error) {
	q, err := s.questions.Get(ctx, id)
	if err != nil {
		if repo.IsNotFound(err) {
			return nil, ErrQuestionNotFound
		}
		return nil, fmt.Errorf("get question: %w", err)
	}
	return q, nil
}

// ListActiveQuestions returns the active questions ascending by display
// order. An empty result is valid.
func (s *questionnaireService) ListActiveQuestions(ctx context.Context, questionnaireID uuid.UUID) ([]*repo.Question, error) {
	qs, err := s.questions.ListByQuestionnaire(ctx, questionnaireID, true)
	if err != nil {
		return nil, fmt.Errorf("list active questions: %w", err)
	}
	return qs, nil
}

func (s *questionnaireService) ListQuestions(ctx context.Context, questionnaireID uuid.UUID) ([]*repo.Question, error) {
	qs, err := s.questions.ListByQuestionnaire(ctx, questionnaireID, false)
	if err != nil {
		return nil, fmt.Errorf("list questions: %w", err)
	}
	return qs, nil
}

// UpdateQuestion merges the patch and re-checks the options rule against
// the result, so switching a choice question to text requires clearing its
// options in the same request.
func (s *questionnaireService) UpdateQuestion(ctx context.Context, id uuid.UUID, req UpdateQuestionRequest) (*repo.Question, error) {
	q, err := s.GetQuestion(ctx, id)
	if err != nil {
		return nil, err
	}

	if req.Title != nil {
		q.Title = strings.TrimSpace(*req.Title)
	}
	if req.Description != nil {
		q.Description = trimOptional(req.Description)
	}
	if req.AnswerType != nil {
		q.AnswerType = *req.AnswerType
	}
	if req.Options != nil {
		q.Options = *req.Options
	}
	if req.Required != nil {
		q.Required = *req.Required
	}
	if req.DisplayOrder != nil {
		q.DisplayOrder = *req.DisplayOrder
	}
	if req.Active != nil {
		q.Active = *req.Active
	}
	if err := checkQuestion(q); err != nil {
		return nil, err
	}
	q.UpdatedAt = s.now().UTC()

	if err := s.questions.Update(ctx, q); err != nil {
		if repo.IsNotFound(err) {
			return nil, ErrQuestionNotFound
		}
		return nil, fmt.Errorf("update question: %w", err)
	}
	return q, nil
}

// DeleteQuestion removes the row. Answers already stored under its id stay
// in their bundles.
func (s *questionnaireService) DeleteQuestion(ctx context.Context, id uuid.UUID) error {
	if err := s.questions.Delete(ctx, id); err != nil {
		if repo.IsNotFound(err) {
			return ErrQuestionNotFound
		}
		return fmt.Errorf("delete question: %w", err)
	}
	return nil
}
