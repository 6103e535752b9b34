package handler

import (
	"errors"
	"log/slog"

	"github.com/gofiber/fiber/v3"

	"github.com/Alijeyrad/telecare_backend/internal/repo"
	"github.com/Alijeyrad/telecare_backend/internal/service/product"
	"github.com/Alijeyrad/telecare_backend/pkg/validate"
)

type ProductHandler struct {
	svc product.Service
}

func NewProductHandler(svc product.Service) *ProductHandler {
	return &ProductHandler{svc: svc}
}

func mapProductError(c fiber.Ctx, err error) error {
	switch {
	case errors.Is(err, product.ErrProductNotFound):
		return notFound(c, err.Error())
	case errors.Is(err, product.ErrInvalidName),
		errors.Is(err, product.ErrInvalidPrice):
		return badRequest(c, err.Error())
	default:
		slog.ErrorContext(c.Context(), "product handler", "err", err)
		return internalError(c)
	}
}

func (h *ProductHandler) list(c fiber.Ctx, activeOnly bool) error {
	list, err := h.svc.List(c.Context(), activeOnly)
	if err != nil {
		return mapProductError(c, err)
	}
	if list == nil {
		list = []*repo.Product{}
	}
	return ok(c, list)
}

// GET /produtos
func (h *ProductHandler) ListActive(c fiber.Ctx) error { return h.list(c, true) }

// GET /admin/produtos
func (h *ProductHandler) List(c fiber.Ctx) error { return h.list(c, false) }

// POST /admin/produtos
func (h *ProductHandler) Create(c fiber.Ctx) error {
	var body struct {
		Name        string  `json:"name" validate:"required,max=200"`
		Description *string `json:"description" validate:"omitempty,max=2000"`
		PriceCents  int64   `json:"priceCents" validate:"gt=0"`
		Active      *bool   `json:"active"`
	}
	if err := c.Bind().JSON(&body); err != nil {
		return badRequest(c, "invalid request body")
	}
	if err := validate.Struct(body); err != nil {
		return invalid(c, err)
	}

	p, err := h.svc.Create(c.Context(), product.CreateRequest{
		Name:        body.Name,
		Description: body.Description,
		PriceCents:  body.PriceCents,
		Active:      body.Active,
	})
	if err != nil {
		return mapProductError(c, err)
	}
	return created(c, p)
}

// PATCH /admin/produtos/:id
func (h *ProductHandler) Update(c fiber.Ctx) error {
	id, valid := paramID(c)
	if !valid {
		return badRequest(c, "invalid product id")
	}

	var body struct {
		Name        *string `json:"name" validate:"omitempty,max=200"`
		Description *string `json:"description" validate:"omitempty,max=2000"`
		PriceCents  *int64  `json:"priceCents" validate:"omitempty,gt=0"`
		Active      *bool   `json:"active"`
	}
	if err := c.Bind().JSON(&body); err != nil {
		return badRequest(c, "invalid request body")
	}
	if err := validate.Struct(body); err != nil {
		return invalid(c, err)
	}

	p, err := h.svc.Update(c.Context(), id, product.UpdateRequest{
		Name:        body.Name,
		Description: body.Description,
		PriceCents:  body.PriceCents,
		Active:      body.Active,
	})
	if err != nil {
		return mapProductError(c, err)
	}
	return ok(c, p)
}

// DELETE /admin/produtos/:id
func (h *ProductHandler) Delete(c fiber.Ctx) error {
	id, valid := paramID(c)
	if !valid {
		return badRequest(c, "invalid product id")
	}
	if err := h.svc.Delete(c.Context(), id); err != nil {
		return mapProductError(c, err)
	}
	return noContent(c)
}
