package evaluation

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/google/uuid"

	"github.com/Alijeyrad/telecare_backend/internal/repo"
	"github.com/Alijeyrad/telecare_backend/pkg/constants"
	"github.com/Alijeyrad/telecare_backend/pkg/crypto"
	"github.com/Alijeyrad/telecare_backend/pkg/events"
	"github.com/Alijeyrad/telecare_backend/pkg/observability"
)

const (
	maxNotesLength = 5000
	maxPerPage     = 100
)

// ---------------------------------------------------------------------------
// DTOs
// ---------------------------------------------------------------------------

// ListRequest filters the dashboard list. PerPage 0 returns every match.
type ListRequest struct {
	Status  string // external or internal status; empty means all
	UserID  *uuid.UUID
	Page    int
	PerPage int
}

type ListPage struct {
	Items   []*Evaluation `json:"items"`
	Page    int           `json:"page"`
	PerPage int           `json:"perPage"`
	HasMore bool          `json:"hasMore"`
}

type CreateRequest struct {
	UserID              uuid.UUID
	Answers             []repo.EvaluationAnswer
	MedicationRequested string
}

type TransitionRequest struct {
	ID           uuid.UUID
	ReviewerID   uuid.UUID
	Status       string
	Notes        *string
	DenialReason *string
}

// Evaluation is a stored evaluation with decrypted notes and the status as
// the dashboard shows it.
type Evaluation struct {
	*repo.EvaluationView
	DisplayStatus ExternalStatus `json:"displayStatus"`
}

// ---------------------------------------------------------------------------
// Interface
// ---------------------------------------------------------------------------

type Store interface {
	Create(ctx context.Context, e *repo.ClinicalEvaluation) error
	Get(ctx context.Context, id uuid.UUID) (*repo.EvaluationView, error)
	List(ctx context.Context, f repo.EvaluationFilter) ([]*repo.EvaluationView, error)
	Review(ctx context.Context, id uuid.UUID, u repo.ReviewUpdate) error
}

type Service interface {
	List(ctx context.Context, req ListRequest) (*ListPage, error)
	Get(ctx context.Context, id uuid.UUID) (*Evaluation, error)
	ListForUser(ctx context.Context, userID uuid.UUID) ([]*Evaluation, error)
	CreateFromQuiz(ctx context.Context, req CreateRequest) (*repo.ClinicalEvaluation, error)
	Transition(ctx context.Context, req TransitionRequest) (*Evaluation, error)
}

// ---------------------------------------------------------------------------
// Implementation
// ---------------------------------------------------------------------------

type evaluationService struct {
	store     Store
	sealer    crypto.Sealer
	publisher events.Publisher
	metrics   *observability.Metrics

	now   func() time.Time
	newID func() uuid.UUID
}

func New(store Store, sealer crypto.Sealer, publisher events.Publisher, metrics *observability.Metrics) Service {
	if publisher == nil {
		publisher = events.Noop{}
	}
	return &evaluationService{
		store:     store,
		sealer:    sealer,
		publisher: publisher,
		metrics:   metrics,
		now:       time.Now,
		newID:     func() uuid.UUID { return uuid.Must(uuid.NewV7()) },
	}
}

func (s *evaluationService) present(v *repo.EvaluationView) (*Evaluation, error) {
	if v.MedicalNotes != nil {
		notes, err := s.sealer.Open(*v.MedicalNotes)
		if err != nil {
			return nil, fmt.Errorf("open medical notes: %w", err)
		}
		v.MedicalNotes = &notes
	}
	return &Evaluation{EvaluationView: v, DisplayStatus: MapInternalToExternal(v.Status)}, nil
}

func (s *evaluationService) presentAll(vs []*repo.EvaluationView) ([]*Evaluation, error) {
	out := make([]*Evaluation, 0, len(vs))
	for _, v := range vs {
		e, err := s.present(v)
		if err != nil {
			return nil, err
		}
		out = append(out, e)
	}
	return out, nil
}

func (s *evaluationService) List(ctx context.Context, req ListRequest) (*ListPage, error) {
	statuses, err := statusFilter(req.Status)
	if err != nil {
		return nil, err
	}

	f := repo.EvaluationFilter{Statuses: statuses, UserID: req.UserID}
	page := &ListPage{Page: 1}
	if req.PerPage > 0 {
		page.PerPage = min(req.PerPage, maxPerPage)
		page.Page = max(req.Page, 1)
		// one extra row tells whether another page exists
		f.Limit = page.PerPage + 1
		f.Offset = (page.Page - 1) * page.PerPage
	}

	vs, err := s.store.List(ctx, f)
	if err != nil {
		return nil, fmt.Errorf("list evaluations: %w", err)
	}
	if page.PerPage > 0 && len(vs) > page.PerPage {
		vs = vs[:page.PerPage]
		page.HasMore = true
	}
	if page.Items, err = s.presentAll(vs); err != nil {
		return nil, err
	}
	return page, nil
}

func (s *evaluationService) Get(ctx context.Context, id uuid.UUID) (*Evaluation, error) {
	v, err := s.store.Get(ctx, id)
	if err != nil {
		if repo.IsNotFound(err) {
			return nil, ErrEvaluationNotFound
		}
		return nil, fmt.Errorf("get evaluation: %w", err)
	}
	return s.present(v)
}

// ListForUser is the patient's own view. Clinician notes and the reviewer
// are left out.
func (s *evaluationService) ListForUser(ctx context.Context, userID uuid.UUID) ([]*Evaluation, error) {
	vs, err := s.store.List(ctx, repo.EvaluationFilter{UserID: &userID})
	if err != nil {
		return nil, fmt.Errorf("list user evaluations: %w", err)
	}
	out := make([]*Evaluation, 0, len(vs))
	for _, v := range vs {
		v.MedicalNotes = nil
		v.ReviewerID = nil
		v.ReviewerName = nil
		v.Patient = nil
		out = append(out, &Evaluation{EvaluationView: v, DisplayStatus: MapInternalToExternal(v.Status)})
	}
	return out, nil
}

func (s *evaluationService) CreateFromQuiz(ctx context.Context, req CreateRequest) (*repo.ClinicalEvaluation, error) {
	if len(req.Answers) == 0 {
		return nil, ErrEmptySnapshot
	}

	now := s.now().UTC()
	e := &repo.ClinicalEvaluation{
		ID:                   s.newID(),
		UserID:               req.UserID,
		QuestionnaireAnswers: req.Answers,
		MedicationRequested:  strings.TrimSpace(req.MedicationRequested),
		Status:               repo.EvaluationAwaitingReview,
		SubmittedAt:          now,
		CreatedAt:            now,
		UpdatedAt:            now,
	}
	if err := s.store.Create(ctx, e); err != nil {
		return nil, fmt.Errorf("create evaluation: %w", err)
	}

	if err := s.publisher.Publish(ctx, constants.SubjectEvaluationCreated, e.ID, events.EvaluationCreated{
		EvaluationID: e.ID,
		UserID:       e.UserID,
	}); err != nil {
		slog.WarnContext(ctx, "evaluation: publish created failed", "id", e.ID, "err", err)
	}
	return e, nil
}

// Transition records a clinician decision. There is no guard on the
// current status; the last write wins.
func (s *evaluationService) Transition(ctx context.Context, req TransitionRequest) (*Evaluation, error) {
	if req.ReviewerID == uuid.Nil {
		return nil, ErrInvalidReviewer
	}
	ext, err := ParseExternal(req.Status)
	if err != nil {
		return nil, err
	}
	status, err := MapExternalToInternal(ext)
	if err != nil {
		return nil, err
	}

	reviewer := req.ReviewerID
	upd := repo.ReviewUpdate{
		Status:     status,
		ReviewerID: &reviewer,
		ReviewedAt: s.now().UTC(),
	}
	if req.Notes != nil {
		if utf8.RuneCountInString(*req.Notes) > maxNotesLength {
			return nil, ErrNotesTooLong
		}
		sealed, err := s.sealer.Seal(*req.Notes)
		if err != nil {
			return nil, fmt.Errorf("seal medical notes: %w", err)
		}
		upd.MedicalNotes = &sealed
	}
	if req.DenialReason != nil {
		reason := strings.TrimSpace(*req.DenialReason)
		upd.DenialReason = &reason
	}

	if err := s.store.Review(ctx, req.ID, upd); err != nil {
		if repo.IsNotFound(err) {
			return nil, ErrEvaluationNotFound
		}
		return nil, fmt.Errorf("review evaluation: %w", err)
	}
	s.metrics.EvaluationTransitioned(ctx, string(status))

	out, err := s.Get(ctx, req.ID)
	if err != nil {
		return nil, err
	}

	if err := s.publisher.Publish(ctx, constants.SubjectEvaluationReviewed, out.ID, events.EvaluationReviewed{
		EvaluationID: out.ID,
		UserID:       out.UserID,
		Status:       string(status),
		ReviewerID:   &reviewer,
		ReviewedAt:   upd.ReviewedAt,
	}); err != nil {
		slog.WarnContext(ctx, "evaluation: publish reviewed failed", "id", out.ID, "err", err)
	}
	return out, nil
}
