// Package notification turns domain events into patient emails and SMS.
package notification

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/google/uuid"

	"github.com/Alijeyrad/telecare_backend/internal/repo"
	"github.com/Alijeyrad/telecare_backend/internal/service/evaluation"
	"github.com/Alijeyrad/telecare_backend/pkg/email"
	"github.com/Alijeyrad/telecare_backend/pkg/events"
	"github.com/Alijeyrad/telecare_backend/pkg/sms"
)

// ---------------------------------------------------------------------------
// Dependencies
// ---------------------------------------------------------------------------

type UserStore interface {
	Get(ctx context.Context, id uuid.UUID) (*repo.User, error)
}

type EvaluationStore interface {
	Get(ctx context.Context, id uuid.UUID) (*repo.EvaluationView, error)
}

// ---------------------------------------------------------------------------
// Interface
// ---------------------------------------------------------------------------

type Service interface {
	EvaluationReviewed(ctx context.Context, ev events.EvaluationReviewed) error
	CheckoutCompleted(ctx context.Context, ev events.CheckoutCompleted) error
}

// ---------------------------------------------------------------------------
// Implementation
// ---------------------------------------------------------------------------

type Params struct {
	Users       UserStore
	Evaluations EvaluationStore
	Email       email.Sender
	SMS         sms.Sender
}

type notificationService struct {
	users       UserStore
	evaluations EvaluationStore
	email       email.Sender
	sms         sms.Sender
}

func New(p Params) Service {
	return &notificationService{
		users:       p.Users,
		evaluations: p.Evaluations,
		email:       p.Email,
		sms:         p.SMS,
	}
}

// EvaluationReviewed tells the patient about a final decision. The stored
// evaluation is reloaded so a quick second review wins over a stale event;
// decisions that map to pending are ignored.
func (s *notificationService) EvaluationReviewed(ctx context.Context, ev events.EvaluationReviewed) error {
	v, err := s.evaluations.Get(ctx, ev.EvaluationID)
	if err != nil {
		if repo.IsNotFound(err) {
			return ErrEvaluationNotFound
		}
		return fmt.Errorf("get evaluation: %w", err)
	}

	ext := evaluation.MapInternalToExternal(v.Status)
	if ext == evaluation.ExternalPending {
		slog.DebugContext(ctx, "notification: evaluation not final, skipping", "id", v.ID, "status", v.Status)
		return nil
	}
	approved := ext == evaluation.ExternalApproved

	patient, err := s.patient(ctx, v)
	if err != nil {
		return err
	}

	var errs []error
	if patient.Email != "" {
		data := email.DecisionEmailData{
			Email:    patient.Email,
			FullName: patient.FullName,
			Approved: approved,
		}
		if !approved && v.DenialReason != nil {
			data.DenialReason = *v.DenialReason
		}
		if err := s.sendEmail(ctx, email.BuildDecisionEmail(data)); err != nil {
			errs = append(errs, fmt.Errorf("decision email: %w", err))
		}
	}

	if patient.Phone != nil && s.sms != nil && s.sms.IsEnabled() {
		if err := s.sms.SendDecision(ctx, *patient.Phone, approved, patient.FullName); err != nil {
			errs = append(errs, fmt.Errorf("decision sms: %w", err))
		}
	}

	return errors.Join(errs...)
}

func (s *notificationService) patient(ctx context.Context, v *repo.EvaluationView) (*repo.User, error) {
	if v.Patient != nil {
		return v.Patient, nil
	}
	u, err := s.users.Get(ctx, v.UserID)
	if err != nil {
		if repo.IsNotFound(err) {
			return nil, ErrPatientNotFound
		}
		return nil, fmt.Errorf("get patient: %w", err)
	}
	return u, nil
}

func (s *notificationService) CheckoutCompleted(ctx context.Context, ev events.CheckoutCompleted) error {
	u, err := s.users.Get(ctx, ev.UserID)
	if err != nil {
		if repo.IsNotFound(err) {
			return ErrPatientNotFound
		}
		return fmt.Errorf("get patient: %w", err)
	}
	if u.Email == "" {
		return nil
	}

	msg := email.BuildReceiptEmail(email.ReceiptEmailData{
		Email:       u.Email,
		FullName:    u.FullName,
		ProductName: ev.ProductName,
		Subtotal:    ev.Subtotal,
		Discount:    ev.Discount,
		Total:       ev.Total,
		Currency:    ev.Currency,
		CouponCode:  ev.CouponCode,
		OrderID:     ev.OrderID.String(),
	})
	if err := s.sendEmail(ctx, msg); err != nil {
		return fmt.Errorf("receipt email: %w", err)
	}
	return nil
}

func (s *notificationService) sendEmail(ctx context.Context, m email.Message) error {
	if s.email == nil {
		return nil
	}
	err := s.email.Send(ctx, m)
	if errors.As(err, &email.ErrDisabled{}) {
		return nil
	}
	return err
}
