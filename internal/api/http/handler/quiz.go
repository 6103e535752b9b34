package handler

import (
	"errors"
	"log/slog"

	"github.com/gofiber/fiber/v3"

	"github.com/Alijeyrad/telecare_backend/internal/quiz"
	"github.com/Alijeyrad/telecare_backend/internal/service/quizresponse"
	"github.com/Alijeyrad/telecare_backend/pkg/validate"
)

type QuizHandler struct {
	svc quizresponse.Service
}

func NewQuizHandler(svc quizresponse.Service) *QuizHandler {
	return &QuizHandler{svc: svc}
}

func mapQuizResponseError(c fiber.Ctx, err error) error {
	switch {
	case errors.Is(err, quizresponse.ErrInvalidQuizType),
		errors.Is(err, quizresponse.ErrNoAnswers),
		errors.Is(err, quizresponse.ErrInvalidUser):
		return badRequest(c, err.Error())
	default:
		slog.ErrorContext(c.Context(), "quiz handler", "err", err)
		return internalError(c)
	}
}

type submitQuizBody struct {
	QuizType  string       `json:"quizType" validate:"required,max=64"`
	Responses quiz.Answers `json:"responses" validate:"required,min=1"`
}

// POST /quiz
// Saves the caller's answers for a quiz type, replacing any earlier bundle.
func (h *QuizHandler) Submit(c fiber.Ctx) error {
	uid, authed := currentUser(c)
	if !authed {
		return unauthorized(c)
	}

	var body submitQuizBody
	if err := c.Bind().JSON(&body); err != nil {
		return badRequest(c, "invalid request body")
	}
	if err := validate.Struct(body); err != nil {
		return invalid(c, err)
	}

	bundle, err := h.svc.Submit(c.Context(), quizresponse.SubmitRequest{
		UserID:    uid,
		QuizType:  body.QuizType,
		Responses: body.Responses,
	})
	if err != nil {
		return mapQuizResponseError(c, err)
	}
	return ok(c, bundle)
}

// GET /quiz?quizType=
func (h *QuizHandler) Fetch(c fiber.Ctx) error {
	uid, authed := currentUser(c)
	if !authed {
		return unauthorized(c)
	}

	var quizType *string
	if qt := c.Query("quizType"); qt != "" {
		quizType = &qt
	}

	bundles, err := h.svc.Fetch(c.Context(), uid, quizType)
	if err != nil {
		return mapQuizResponseError(c, err)
	}
	return ok(c, bundles)
}

// GET /quiz/check
func (h *QuizHandler) Check(c fiber.Ctx) error {
	uid, authed := currentUser(c)
	if !authed {
		return unauthorized(c)
	}

	has, err := h.svc.HasAny(c.Context(), uid)
	if err != nil {
		return mapQuizResponseError(c, err)
	}
	return ok(c, fiber.Map{"hasResponses": has})
}
