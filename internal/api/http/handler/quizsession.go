package handler

import (
	"errors"
	"log/slog"

	"github.com/gofiber/fiber/v3"
	"github.com/google/uuid"

	"github.com/Alijeyrad/telecare_backend/internal/quiz"
	"github.com/Alijeyrad/telecare_backend/internal/service/questionnaire"
	"github.com/Alijeyrad/telecare_backend/internal/service/quizsession"
	"github.com/Alijeyrad/telecare_backend/pkg/validate"
)

type QuizSessionHandler struct {
	svc quizsession.Service
}

func NewQuizSessionHandler(svc quizsession.Service) *QuizSessionHandler {
	return &QuizSessionHandler{svc: svc}
}

func mapQuizSessionError(c fiber.Ctx, err error) error {
	var fe *quiz.FieldError
	switch {
	case errors.As(err, &fe):
		return unprocessable(c, "invalid answer", fe)
	case errors.Is(err, quizsession.ErrSessionNotFound),
		errors.Is(err, questionnaire.ErrQuestionnaireNotFound),
		errors.Is(err, questionnaire.ErrNoActiveQuestionnaire):
		return notFound(c, err.Error())
	case errors.Is(err, quizsession.ErrSessionFinished),
		errors.Is(err, quizsession.ErrAtFirstQuestion),
		errors.Is(err, questionnaire.ErrQuestionnaireInactive):
		return conflict(c, err.Error())
	default:
		slog.ErrorContext(c.Context(), "quiz session handler", "err", err)
		return internalError(c)
	}
}

// POST /quiz/sessions
func (h *QuizSessionHandler) Start(c fiber.Ctx) error {
	uid, authed := currentUser(c)
	if !authed {
		return unauthorized(c)
	}

	var body struct {
		QuizType            string  `json:"quizType" validate:"omitempty,max=64"`
		QuestionnaireID     *string `json:"questionnaireId" validate:"omitempty,uuid"`
		MedicationRequested string  `json:"medicationRequested" validate:"omitempty,max=200"`
	}
	if len(c.Body()) > 0 {
		if err := c.Bind().JSON(&body); err != nil {
			return badRequest(c, "invalid request body")
		}
	}
	if err := validate.Struct(body); err != nil {
		return invalid(c, err)
	}

	req := quizsession.StartRequest{
		UserID:              uid,
		QuizType:            body.QuizType,
		MedicationRequested: body.MedicationRequested,
	}
	if body.QuestionnaireID != nil {
		qid := uuid.MustParse(*body.QuestionnaireID)
		req.QuestionnaireID = &qid
	}

	v, err := h.svc.Start(c.Context(), req)
	if err != nil {
		return mapQuizSessionError(c, err)
	}
	return created(c, v)
}

// GET /quiz/sessions/:id
func (h *QuizSessionHandler) Get(c fiber.Ctx) error {
	uid, authed := currentUser(c)
	if !authed {
		return unauthorized(c)
	}
	id, valid := paramID(c)
	if !valid {
		return badRequest(c, "invalid session id")
	}

	v, err := h.svc.Get(c.Context(), uid, id)
	if err != nil {
		return mapQuizSessionError(c, err)
	}
	return ok(c, v)
}

// POST /quiz/sessions/:id/answer
func (h *QuizSessionHandler) Answer(c fiber.Ctx) error {
	uid, authed := currentUser(c)
	if !authed {
		return unauthorized(c)
	}
	id, valid := paramID(c)
	if !valid {
		return badRequest(c, "invalid session id")
	}

	var body struct {
		Value quiz.Answer `json:"value"`
	}
	if err := c.Bind().JSON(&body); err != nil {
		return badRequest(c, "invalid request body")
	}

	v, err := h.svc.Answer(c.Context(), uid, id, body.Value.Value)
	if err != nil {
		return mapQuizSessionError(c, err)
	}
	return ok(c, v)
}

// POST /quiz/sessions/:id/back
func (h *QuizSessionHandler) Back(c fiber.Ctx) error {
	uid, authed := currentUser(c)
	if !authed {
		return unauthorized(c)
	}
	id, valid := paramID(c)
	if !valid {
		return badRequest(c, "invalid session id")
	}

	v, err := h.svc.Back(c.Context(), uid, id)
	if err != nil {
		return mapQuizSessionError(c, err)
	}
	return ok(c, v)
}
