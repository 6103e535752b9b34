package checkout

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"github.com/Alijeyrad/telecare_backend/internal/repo"
	"github.com/Alijeyrad/telecare_backend/internal/service/coupon"
	"github.com/Alijeyrad/telecare_backend/internal/service/product"
	"github.com/Alijeyrad/telecare_backend/pkg/constants"
	"github.com/Alijeyrad/telecare_backend/pkg/events"
	"github.com/Alijeyrad/telecare_backend/pkg/observability"
	redispkg "github.com/Alijeyrad/telecare_backend/pkg/redis"
	"github.com/Alijeyrad/telecare_backend/pkg/util/codes"
)

// ---------------------------------------------------------------------------
// DTOs
// ---------------------------------------------------------------------------

// Cart is the per-session checkout state kept in Redis.
type Cart struct {
	CouponCode string    `json:"couponCode,omitempty"`
	UpdatedAt  time.Time `json:"updatedAt"`
}

type ApplyResult struct {
	Coupon         *repo.Coupon `json:"coupon"`
	AlreadyApplied bool         `json:"alreadyApplied"`
}

type Summary struct {
	Product    *repo.Product `json:"product"`
	CouponCode string        `json:"couponCode,omitempty"`
	Subtotal   int64         `json:"subtotal"`
	Discount   int64         `json:"discount"`
	Total      int64         `json:"total"`
	Currency   string        `json:"currency"`
}

type PayRequest struct {
	Session   string
	UserID    uuid.UUID
	ProductID uuid.UUID
}

type Receipt struct {
	OrderID uuid.UUID `json:"orderId"`
	Summary
	PaidAt time.Time `json:"paidAt"`
}

// ---------------------------------------------------------------------------
// Interface
// ---------------------------------------------------------------------------

type CartStore interface {
	Get(ctx context.Context, session string) (*Cart, error)
	Set(ctx context.Context, session string, c *Cart) error
	Delete(ctx context.Context, session string) error
}

// Charger takes the payment. The default approves everything. A Charge
// error gives the redeemed coupon use back.
type Charger interface {
	Charge(ctx context.Context, orderID uuid.UUID, amountCents int64, currency string) error
}

type Service interface {
	// ApplyCoupon attaches code to the session cart. Applying the code that
	// is already attached changes nothing and reports AlreadyApplied.
	ApplyCoupon(ctx context.Context, session, code string) (*ApplyResult, error)
	RemoveCoupon(ctx context.Context, session string) error
	Summary(ctx context.Context, session string, productID uuid.UUID) (*Summary, error)
	Pay(ctx context.Context, req PayRequest) (*Receipt, error)
}

// ---------------------------------------------------------------------------
// Implementation
// ---------------------------------------------------------------------------

type mockCharger struct{}

func (mockCharger) Charge(context.Context, uuid.UUID, int64, string) error { return nil }

type checkoutService struct {
	carts     CartStore
	coupons   coupon.Service
	products  product.Service
	charger   Charger
	publisher events.Publisher
	metrics   *observability.Metrics
	currency  string

	now   func() time.Time
	newID func() uuid.UUID
}

type Params struct {
	Carts     CartStore
	Coupons   coupon.Service
	Products  product.Service
	Charger   Charger
	Publisher events.Publisher
	Metrics   *observability.Metrics
	Currency  string
}

func New(p Params) Service {
	if p.Charger == nil {
		p.Charger = mockCharger{}
	}
	if p.Publisher == nil {
		p.Publisher = events.Noop{}
	}
	if p.Currency == "" {
		p.Currency = "BRL"
	}
	return &checkoutService{
		carts:     p.Carts,
		coupons:   p.Coupons,
		products:  p.Products,
		charger:   p.Charger,
		publisher: p.Publisher,
		metrics:   p.Metrics,
		currency:  p.Currency,
		now:       time.Now,
		newID:     func() uuid.UUID { return uuid.Must(uuid.NewV7()) },
	}
}

func (s *checkoutService) cart(ctx context.Context, session string) (*Cart, error) {
	if session == "" {
		return nil, ErrNoSession
	}
	c, err := s.carts.Get(ctx, session)
	if errors.Is(err, redispkg.ErrMiss) {
		return &Cart{}, nil
	}
	if err != nil {
		return nil, fmt.Errorf("load cart: %w", err)
	}
	return c, nil
}

func (s *checkoutService) ApplyCoupon(ctx context.Context, session, code string) (*ApplyResult, error) {
	code = codes.ParseCode(code)
	if code == "" {
		return nil, ErrCouponCodeRequired
	}
	cart, err := s.cart(ctx, session)
	if err != nil {
		return nil, err
	}

	c, err := s.coupons.Validate(ctx, code)
	if err != nil {
		return nil, err
	}
	if cart.CouponCode == c.Code {
		return &ApplyResult{Coupon: c, AlreadyApplied: true}, nil
	}

	cart.CouponCode = c.Code
	cart.UpdatedAt = s.now().UTC()
	if err := s.carts.Set(ctx, session, cart); err != nil {
		return nil, fmt.Errorf("save cart: %w", err)
	}
	return &ApplyResult{Coupon: c}, nil
}

func (s *checkoutService) RemoveCoupon(ctx context.Context, session string) error {
	cart, err := s.cart(ctx, session)
	if err != nil {
		return err
	}
	if cart.CouponCode == "" {
		return nil
	}
	cart.CouponCode = ""
	cart.UpdatedAt = s.now().UTC()
	if err := s.carts.Set(ctx, session, cart); err != nil {
		return fmt.Errorf("save cart: %w", err)
	}
	return nil
}

// Summary prices productID with the session's coupon. A coupon that stopped
// being usable since it was applied is dropped from the cart.
func (s *checkoutService) Summary(ctx context.Context, session string, productID uuid.UUID) (*Summary, error) {
	cart, err := s.cart(ctx, session)
	if err != nil {
		return nil, err
	}
	p, err := s.products.Get(ctx, productID)
	if err != nil {
		return nil, err
	}
	if !p.Active {
		return nil, ErrProductUnavailable
	}

	sum := &Summary{Product: p, Subtotal: p.PriceCents, Currency: s.currency}
	if cart.CouponCode != "" {
		c, err := s.coupons.Validate(ctx, cart.CouponCode)
		switch {
		case err == nil:
			sum.CouponCode = c.Code
			sum.Discount = coupon.Discount(c, sum.Subtotal)
		case isCouponRejection(err):
			slog.InfoContext(ctx, "checkout: dropping unusable coupon", "code", cart.CouponCode, "err", err)
			if err := s.carts.Delete(ctx, session); err != nil {
				return nil, fmt.Errorf("clear cart: %w", err)
			}
		default:
			return nil, err
		}
	}
	sum.Total = sum.Subtotal - sum.Discount
	return sum, nil
}

func isCouponRejection(err error) bool {
	return errors.Is(err, coupon.ErrCouponNotFound) ||
		errors.Is(err, coupon.ErrCouponInactive) ||
		errors.Is(err, coupon.ErrCouponExpired) ||
		errors.Is(err, coupon.ErrCouponExhausted)
}

// Pay redeems the coupon before charging, so a coupon at its cap fails the
// payment instead of being over-used. A declined charge releases the use.
// The cart is cleared afterwards.
func (s *checkoutService) Pay(ctx context.Context, req PayRequest) (*Receipt, error) {
	sum, err := s.Summary(ctx, req.Session, req.ProductID)
	if err != nil {
		return nil, err
	}

	if sum.CouponCode != "" {
		if err := s.coupons.Redeem(ctx, sum.CouponCode); err != nil {
			return nil, err
		}
	}

	orderID := s.newID()
	if err := s.charger.Charge(ctx, orderID, sum.Total, sum.Currency); err != nil {
		if sum.CouponCode != "" {
			if rerr := s.coupons.Release(ctx, sum.CouponCode); rerr != nil {
				slog.ErrorContext(ctx, "checkout: release coupon failed", "order", orderID, "coupon", sum.CouponCode, "err", rerr)
			}
		}
		return nil, fmt.Errorf("%w: %w", ErrPaymentDeclined, err)
	}

	receipt := &Receipt{OrderID: orderID, Summary: *sum, PaidAt: s.now().UTC()}
	if err := s.carts.Delete(ctx, req.Session); err != nil {
		slog.WarnContext(ctx, "checkout: clear cart failed", "session", req.Session, "err", err)
	}
	s.metrics.CheckoutCompleted(ctx)

	if err := s.publisher.Publish(ctx, constants.SubjectCheckoutCompleted, orderID, events.CheckoutCompleted{
		OrderID:     orderID,
		UserID:      req.UserID,
		ProductID:   sum.Product.ID,
		ProductName: sum.Product.Name,
		CouponCode:  sum.CouponCode,
		Subtotal:    sum.Subtotal,
		Discount:    sum.Discount,
		Total:       sum.Total,
		Currency:    sum.Currency,
		PaidAt:      receipt.PaidAt,
	}); err != nil {
		slog.WarnContext(ctx, "checkout: publish completed failed", "order", orderID, "err", err)
	}
	return receipt, nil
}
