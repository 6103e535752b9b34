package handler

import (
	"errors"
	"log/slog"

	"github.com/gofiber/fiber/v3"
	"github.com/google/uuid"

	"github.com/Alijeyrad/telecare_backend/internal/service/checkout"
	"github.com/Alijeyrad/telecare_backend/internal/service/coupon"
	"github.com/Alijeyrad/telecare_backend/internal/service/product"
	"github.com/Alijeyrad/telecare_backend/pkg/validate"
)

type CheckoutHandler struct {
	svc checkout.Service
}

func NewCheckoutHandler(svc checkout.Service) *CheckoutHandler {
	return &CheckoutHandler{svc: svc}
}

func mapCheckoutError(c fiber.Ctx, err error) error {
	switch {
	case errors.Is(err, coupon.ErrCouponNotFound),
		errors.Is(err, product.ErrProductNotFound):
		return notFound(c, err.Error())
	case errors.Is(err, coupon.ErrCouponInactive),
		errors.Is(err, coupon.ErrCouponExpired),
		errors.Is(err, coupon.ErrCouponExhausted),
		errors.Is(err, checkout.ErrProductUnavailable):
		return unprocessable(c, err.Error(), nil)
	case errors.Is(err, checkout.ErrCouponCodeRequired),
		errors.Is(err, checkout.ErrNoSession),
		errors.Is(err, coupon.ErrInvalidCode):
		return badRequest(c, err.Error())
	case errors.Is(err, checkout.ErrPaymentDeclined):
		return paymentRequired(c, err.Error())
	default:
		slog.ErrorContext(c.Context(), "checkout handler", "err", err)
		return internalError(c)
	}
}

// GET /checkout?productId=
func (h *CheckoutHandler) Summary(c fiber.Ctx) error {
	session, _, authed := checkoutSession(c)
	if !authed {
		return unauthorized(c)
	}
	pid, err := uuid.Parse(c.Query("productId"))
	if err != nil {
		return badRequest(c, "productId is required")
	}

	sum, err := h.svc.Summary(c.Context(), session, pid)
	if err != nil {
		return mapCheckoutError(c, err)
	}
	return ok(c, sum)
}

// POST /checkout/cupom
func (h *CheckoutHandler) ApplyCoupon(c fiber.Ctx) error {
	session, _, authed := checkoutSession(c)
	if !authed {
		return unauthorized(c)
	}

	var body struct {
		Code string `json:"code" validate:"required,max=32"`
	}
	if err := c.Bind().JSON(&body); err != nil {
		return badRequest(c, "invalid request body")
	}
	if err := validate.Struct(body); err != nil {
		return invalid(c, err)
	}

	res, err := h.svc.ApplyCoupon(c.Context(), session, body.Code)
	if err != nil {
		return mapCheckoutError(c, err)
	}
	return ok(c, res)
}

// DELETE /checkout/cupom
func (h *CheckoutHandler) RemoveCoupon(c fiber.Ctx) error {
	session, _, authed := checkoutSession(c)
	if !authed {
		return unauthorized(c)
	}
	if err := h.svc.RemoveCoupon(c.Context(), session); err != nil {
		return mapCheckoutError(c, err)
	}
	return noContent(c)
}

// POST /checkout/pagamento
func (h *CheckoutHandler) Pay(c fiber.Ctx) error {
	session, uid, authed := checkoutSession(c)
	if !authed {
		return unauthorized(c)
	}

	var body struct {
		ProductID string `json:"productId" validate:"required,uuid"`
	}
	if err := c.Bind().JSON(&body); err != nil {
		return badRequest(c, "invalid request body")
	}
	if err := validate.Struct(body); err != nil {
		return invalid(c, err)
	}

	receipt, err := h.svc.Pay(c.Context(), checkout.PayRequest{
		Session:   session,
		UserID:    uid,
		ProductID: uuid.MustParse(body.ProductID),
	})
	if err != nil {
		return mapCheckoutError(c, err)
	}
	return created(c, receipt)
}
