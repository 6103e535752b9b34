package handler

import (
	"errors"
	"log/slog"
	"time"

	"github.com/gofiber/fiber/v3"

	"github.com/Alijeyrad/telecare_backend/internal/repo"
	"github.com/Alijeyrad/telecare_backend/internal/service/coupon"
	"github.com/Alijeyrad/telecare_backend/pkg/validate"
)

type CouponHandler struct {
	svc coupon.Service
}

func NewCouponHandler(svc coupon.Service) *CouponHandler {
	return &CouponHandler{svc: svc}
}

func mapCouponError(c fiber.Ctx, err error) error {
	switch {
	case errors.Is(err, coupon.ErrCouponNotFound):
		return notFound(c, err.Error())
	case errors.Is(err, coupon.ErrCodeTaken):
		return conflict(c, err.Error())
	case errors.Is(err, coupon.ErrCouponInactive),
		errors.Is(err, coupon.ErrCouponExpired),
		errors.Is(err, coupon.ErrCouponExhausted):
		return unprocessable(c, err.Error(), nil)
	case errors.Is(err, coupon.ErrInvalidCode),
		errors.Is(err, coupon.ErrInvalidDiscount),
		errors.Is(err, coupon.ErrInvalidUsageCap),
		errors.Is(err, coupon.ErrInvalidExpiration):
		return badRequest(c, err.Error())
	default:
		slog.ErrorContext(c.Context(), "coupon handler", "err", err)
		return internalError(c)
	}
}

// GET /admin/cupons
func (h *CouponHandler) List(c fiber.Ctx) error {
	list, err := h.svc.List(c.Context())
	if err != nil {
		return mapCouponError(c, err)
	}
	if list == nil {
		list = []*repo.Coupon{}
	}
	return ok(c, list)
}

type createCouponBody struct {
	Code           string    `json:"code" validate:"omitempty,min=3,max=32,alphanum"`
	DiscountAmount int64     `json:"discountAmount" validate:"gt=0"`
	DiscountKind   string    `json:"discountKind" validate:"required,oneof=percentage fixed"`
	ExpiresAt      time.Time `json:"expiresAt" validate:"required"`
	Active         *bool     `json:"active"`
	UsageCap       int       `json:"usageCap" validate:"gte=0"`
}

// POST /admin/cupons
// An empty code is generated.
func (h *CouponHandler) Create(c fiber.Ctx) error {
	var body createCouponBody
	if err := c.Bind().JSON(&body); err != nil {
		return badRequest(c, "invalid request body")
	}
	if err := validate.Struct(body); err != nil {
		return invalid(c, err)
	}

	cp, err := h.svc.Create(c.Context(), coupon.CreateRequest{
		Code:           body.Code,
		DiscountAmount: body.DiscountAmount,
		DiscountKind:   repo.DiscountKind(body.DiscountKind),
		ExpiresAt:      body.ExpiresAt,
		Active:         body.Active,
		UsageCap:       body.UsageCap,
	})
	if err != nil {
		return mapCouponError(c, err)
	}
	return created(c, cp)
}

// GET /admin/cupons/:id
func (h *CouponHandler) Get(c fiber.Ctx) error {
	id, valid := paramID(c)
	if !valid {
		return badRequest(c, "invalid coupon id")
	}
	cp, err := h.svc.Get(c.Context(), id)
	if err != nil {
		return mapCouponError(c, err)
	}
	return ok(c, cp)
}

// PATCH /admin/cupons/:id
func (h *CouponHandler) Update(c fiber.Ctx) error {
	id, valid := paramID(c)
	if !valid {
		return badRequest(c, "invalid coupon id")
	}

	var body struct {
		DiscountAmount *int64     `json:"discountAmount" validate:"omitempty,gt=0"`
		DiscountKind   *string    `json:"discountKind" validate:"omitempty,oneof=percentage fixed"`
		ExpiresAt      *time.Time `json:"expiresAt"`
		Active         *bool      `json:"active"`
		UsageCap       *int       `json:"usageCap" validate:"omitempty,gte=0"`
	}
	if err := c.Bind().JSON(&body); err != nil {
		return badRequest(c, "invalid request body")
	}
	if err := validate.Struct(body); err != nil {
		return invalid(c, err)
	}

	req := coupon.UpdateRequest{
		DiscountAmount: body.DiscountAmount,
		ExpiresAt:      body.ExpiresAt,
		Active:         body.Active,
		UsageCap:       body.UsageCap,
	}
	if body.DiscountKind != nil {
		k := repo.DiscountKind(*body.DiscountKind)
		req.DiscountKind = &k
	}

	cp, err := h.svc.Update(c.Context(), id, req)
	if err != nil {
		return mapCouponError(c, err)
	}
	return ok(c, cp)
}

// DELETE /admin/cupons/:id
func (h *CouponHandler) Delete(c fiber.Ctx) error {
	id, valid := paramID(c)
	if !valid {
		return badRequest(c, "invalid coupon id")
	}
	if err := h.svc.Delete(c.Context(), id); err != nil {
		return mapCouponError(c, err)
	}
	return noContent(c)
}
