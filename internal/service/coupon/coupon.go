package coupon

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/Alijeyrad/telecare_backend/internal/repo"
	"github.com/Alijeyrad/telecare_backend/pkg/observability"
	"github.com/Alijeyrad/telecare_backend/pkg/util/codes"
)

const (
	minCodeLength    = 3
	maxCodeLength    = 32
	generateAttempts = 5
	maxPercentageOff = 100
)

// ---------------------------------------------------------------------------
// DTOs
// ---------------------------------------------------------------------------

// CreateRequest describes a new coupon. An empty Code is generated.
type CreateRequest struct {
	Code           string
	DiscountAmount int64
	DiscountKind   repo.DiscountKind
	ExpiresAt      time.Time
	Active         *bool // defaults to true
	UsageCap       int
}

type UpdateRequest struct {
	DiscountAmount *int64
	DiscountKind   *repo.DiscountKind
	ExpiresAt      *time.Time
	Active         *bool
	UsageCap       *int
}

// ---------------------------------------------------------------------------
// Interface
// ---------------------------------------------------------------------------

type Store interface {
	Create(ctx context.Context, c *repo.Coupon) error
	Get(ctx context.Context, id uuid.UUID) (*repo.Coupon, error)
	GetByCode(ctx context.Context, code string) (*repo.Coupon, error)
	List(ctx context.Context) ([]*repo.Coupon, error)
	Update(ctx context.Context, c *repo.Coupon) error
	Delete(ctx context.Context, id uuid.UUID) error
	Redeem(ctx context.Context, code string, now time.Time) (bool, error)
	Release(ctx context.Context, code string, now time.Time) (bool, error)
}

type Service interface {
	Create(ctx context.Context, req CreateRequest) (*repo.Coupon, error)
	Get(ctx context.Context, id uuid.UUID) (*repo.Coupon, error)
	List(ctx context.Context) ([]*repo.Coupon, error)
	Update(ctx context.Context, id uuid.UUID, req UpdateRequest) (*repo.Coupon, error)
	Delete(ctx context.Context, id uuid.UUID) error

	// Validate returns the coupon when it can be applied right now.
	Validate(ctx context.Context, code string) (*repo.Coupon, error)
	// Redeem consumes one use. It fails without side effects when the
	// coupon is inactive, expired or at its cap.
	Redeem(ctx context.Context, code string) error
	// Release returns a use taken by Redeem, for payments that failed
	// after redemption.
	Release(ctx context.Context, code string) error
}

// ---------------------------------------------------------------------------
// Implementation
// ---------------------------------------------------------------------------

type couponService struct {
	store   Store
	codes   codes.Config
	metrics *observability.Metrics

	now   func() time.Time
	newID func() uuid.UUID
}

func New(store Store, codesCfg codes.Config, metrics *observability.Metrics) Service {
	return &couponService{
		store:   store,
		codes:   codesCfg,
		metrics: metrics,
		now:     time.Now,
		newID:   func() uuid.UUID { return uuid.Must(uuid.NewV7()) },
	}
}

// Discount is the amount in cents taken off subtotal. It never exceeds the
// subtotal; percentages round down.
func Discount(c *repo.Coupon, subtotal int64) int64 {
	if c == nil || subtotal <= 0 || c.DiscountAmount <= 0 {
		return 0
	}
	var off int64
	switch c.DiscountKind {
	case repo.DiscountPercentage:
		off = subtotal * min(c.DiscountAmount, maxPercentageOff) / 100
	case repo.DiscountFixed:
		off = c.DiscountAmount
	}
	return min(off, subtotal)
}

// Usable reports why c cannot be applied at now, or nil.
func Usable(c *repo.Coupon, now time.Time) error {
	switch {
	case !c.Active:
		return ErrCouponInactive
	case !now.Before(c.ExpiresAt):
		return ErrCouponExpired
	case c.UsageCap > 0 && c.UsageCount >= c.UsageCap:
		return ErrCouponExhausted
	}
	return nil
}

func checkCode(code string) error {
	if len(code) < minCodeLength || len(code) > maxCodeLength {
		return ErrInvalidCode
	}
	for _, r := range code {
		if (r < 'A' || r > 'Z') && (r < '0' || r > '9') {
			return ErrInvalidCode
		}
	}
	return nil
}

func checkTerms(c *repo.Coupon) error {
	if !c.DiscountKind.Valid() || c.DiscountAmount <= 0 {
		return ErrInvalidDiscount
	}
	if c.DiscountKind == repo.DiscountPercentage && c.DiscountAmount > maxPercentageOff {
		return fmt.Errorf("%w: percentage above %d", ErrInvalidDiscount, maxPercentageOff)
	}
	if c.UsageCap < 0 {
		return ErrInvalidUsageCap
	}
	if c.ExpiresAt.IsZero() {
		return ErrInvalidExpiration
	}
	return nil
}

func (s *couponService) Create(ctx context.Context, req CreateRequest) (*repo.Coupon, error) {
	now := s.now().UTC()
	c := &repo.Coupon{
		ID:             s.newID(),
		Code:           codes.ParseCode(req.Code),
		DiscountAmount: req.DiscountAmount,
		DiscountKind:   req.DiscountKind,
		ExpiresAt:      req.ExpiresAt.UTC(),
		Active:         req.Active == nil || *req.Active,
		UsageCap:       req.UsageCap,
		CreatedAt:      now,
		UpdatedAt:      now,
	}
	if err := checkTerms(c); err != nil {
		return nil, err
	}

	if c.Code != "" {
		if err := checkCode(c.Code); err != nil {
			return nil, err
		}
		if err := s.store.Create(ctx, c); err != nil {
			if repo.IsUniqueViolation(err) {
				return nil, ErrCodeTaken
			}
			return nil, fmt.Errorf("create coupon: %w", err)
		}
		return c, nil
	}

	for range generateAttempts {
		code, err := codes.GenerateCoupon(s.codes)
		if err != nil {
			return nil, fmt.Errorf("generate coupon code: %w", err)
		}
		c.Code = code
		err = s.store.Create(ctx, c)
		if err == nil {
			return c, nil
		}
		if !repo.IsUniqueViolation(err) {
			return nil, fmt.Errorf("create coupon: %w", err)
		}
	}
	return nil, ErrCodeGenerationFail
}

func (s *couponService) Get(ctx context.Context, id uuid.UUID) (*repo.Coupon, error) {
	c, err := s.store.Get(ctx, id)
	if err != nil {
		if repo.IsNotFound(err) {
			return nil, ErrCouponNotFound
		}
		return nil, fmt.Errorf("get coupon: %w", err)
	}
	return c, nil
}

func (s *couponService) List(ctx context.Context) ([]*repo.Coupon, error) {
	cs, err := s.store.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("list coupons: %w", err)
	}
	return cs, nil
}

// Update changes the terms. The code and usage count are immutable.
func (s *couponService) Update(ctx context.Context, id uuid.UUID, req UpdateRequest) (*repo.Coupon, error) {
	c, err := s.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	if req.DiscountAmount != nil {
		c.DiscountAmount = *req.DiscountAmount
	}
	if req.DiscountKind != nil {
		c.DiscountKind = *req.DiscountKind
	}
	if req.ExpiresAt != nil {
		c.ExpiresAt = req.ExpiresAt.UTC()
	}
	if req.Active != nil {
		c.Active = *req.Active
	}
	if req.UsageCap != nil {
		c.UsageCap = *req.UsageCap
	}
	if err := checkTerms(c); err != nil {
		return nil, err
	}
	c.UpdatedAt = s.now().UTC()

	if err := s.store.Update(ctx, c); err != nil {
		if repo.IsNotFound(err) {
			return nil, ErrCouponNotFound
		}
		return nil, fmt.Errorf("update coupon: %w", err)
	}
	return c, nil
}

func (s *couponService) Delete(ctx context.Context, id uuid.UUID) error {
	if err := s.store.Delete(ctx, id); err != nil {
		if repo.IsNotFound(err) {
			return ErrCouponNotFound
		}
		return fmt.Errorf("delete coupon: %w", err)
	}
	return nil
}

func (s *couponService) lookup(ctx context.Context, code string) (*repo.Coupon, error) {
	code = codes.ParseCode(code)
	if code == "" {
		return nil, ErrCouponNotFound
	}
	c, err := s.store.GetByCode(ctx, code)
	if err != nil {
		if repo.IsNotFound(err) {
			return nil, ErrCouponNotFound
		}
		return nil, fmt.Errorf("get coupon by code: %w", err)
	}
	return c, nil
}

func (s *couponService) Validate(ctx context.Context, code string) (*repo.Coupon, error) {
	c, err := s.lookup(ctx, code)
	if err != nil {
		return nil, err
	}
	if err := Usable(c, s.now()); err != nil {
		return nil, err
	}
	return c, nil
}

func (s *couponService) Redeem(ctx context.Context, code string) error {
	code = codes.ParseCode(code)
	ok, err := s.store.Redeem(ctx, code, s.now().UTC())
	if err != nil {
		return fmt.Errorf("redeem coupon: %w", err)
	}
	s.metrics.CouponRedeemed(ctx, ok)
	if ok {
		return nil
	}

	// The conditional update matched nothing; report the reason.
	c, err := s.lookup(ctx, code)
	if err != nil {
		return err
	}
	if err := Usable(c, s.now()); err != nil {
		return err
	}
	// Another request took the last use between the update and the read.
	return ErrCouponExhausted
}

func (s *couponService) Release(ctx context.Context, code string) error {
	code = codes.ParseCode(code)
	ok, err := s.store.Release(ctx, code, s.now().UTC())
	if err != nil {
		return fmt.Errorf("release coupon: %w", err)
	}
	if !ok {
		return ErrCouponNotFound
	}
	return nil
}
