package handler

import (
	"errors"
	"log/slog"

	"github.com/gofiber/fiber/v3"
	"github.com/google/uuid"

	"github.com/Alijeyrad/telecare_backend/internal/service/evaluation"
	"github.com/Alijeyrad/telecare_backend/pkg/validate"
)

type EvaluationHandler struct {
	svc evaluation.Service
}

func NewEvaluationHandler(svc evaluation.Service) *EvaluationHandler {
	return &EvaluationHandler{svc: svc}
}

func mapEvaluationError(c fiber.Ctx, err error) error {
	switch {
	case errors.Is(err, evaluation.ErrEvaluationNotFound):
		return notFound(c, err.Error())
	case errors.Is(err, evaluation.ErrInvalidStatus),
		errors.Is(err, evaluation.ErrInvalidReviewer),
		errors.Is(err, evaluation.ErrNotesTooLong),
		errors.Is(err, evaluation.ErrEmptySnapshot):
		return badRequest(c, err.Error())
	default:
		slog.ErrorContext(c.Context(), "evaluation handler", "err", err)
		return internalError(c)
	}
}

// GET /avaliacoes
func (h *EvaluationHandler) ListMine(c fiber.Ctx) error {
	uid, authed := currentUser(c)
	if !authed {
		return unauthorized(c)
	}
	list, err := h.svc.ListForUser(c.Context(), uid)
	if err != nil {
		return mapEvaluationError(c, err)
	}
	return ok(c, list)
}

// GET /admin/avaliacoes
func (h *EvaluationHandler) List(c fiber.Ctx) error {
	var q struct {
		Status  string `query:"status"`
		UserID  string `query:"userId"`
		Page    int    `query:"page"`
		PerPage int    `query:"perPage"`
	}
	if err := c.Bind().Query(&q); err != nil {
		return badRequest(c, "invalid query parameters")
	}

	req := evaluation.ListRequest{Status: q.Status, Page: q.Page, PerPage: q.PerPage}
	if q.UserID != "" {
		uid, err := uuid.Parse(q.UserID)
		if err != nil {
			return badRequest(c, "invalid userId")
		}
		req.UserID = &uid
	}

	page, err := h.svc.List(c.Context(), req)
	if err != nil {
		return mapEvaluationError(c, err)
	}
	return okPage(c, page.Items, fiber.Map{
		"page":    page.Page,
		"perPage": page.PerPage,
		"hasMore": page.HasMore,
	})
}

// GET /admin/avaliacoes/:id
func (h *EvaluationHandler) Get(c fiber.Ctx) error {
	id, valid := paramID(c)
	if !valid {
		return badRequest(c, "invalid evaluation id")
	}
	e, err := h.svc.Get(c.Context(), id)
	if err != nil {
		return mapEvaluationError(c, err)
	}
	return ok(c, e)
}

type transitionBody struct {
	ID           string  `json:"id" validate:"required,uuid"`
	Status       string  `json:"status" validate:"required"`
	Notes        *string `json:"notes"`
	DenialReason *string `json:"denialReason" validate:"omitempty,max=2000"`
}

// PATCH /admin/avaliacoes
// The reviewer is the caller.
func (h *EvaluationHandler) Transition(c fiber.Ctx) error {
	reviewer, authed := currentUser(c)
	if !authed {
		return unauthorized(c)
	}

	var body transitionBody
	if err := c.Bind().JSON(&body); err != nil {
		return badRequest(c, "invalid request body")
	}
	if err := validate.Struct(body); err != nil {
		return invalid(c, err)
	}

	e, err := h.svc.Transition(c.Context(), evaluation.TransitionRequest{
		ID:           uuid.MustParse(body.ID),
		ReviewerID:   reviewer,
		Status:       body.Status,
		Notes:        body.Notes,
		DenialReason: body.DenialReason,
	})
	if err != nil {
		return mapEvaluationError(c, err)
	}
	return ok(c, e)
}
