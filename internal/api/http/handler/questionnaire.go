package handler

import (
	"errors"
	"log/slog"

	"github.com/gofiber/fiber/v3"
	"github.com/google/uuid"

	"github.com/Alijeyrad/telecare_backend/internal/quiz"
	"github.com/Alijeyrad/telecare_backend/internal/repo"
	"github.com/Alijeyrad/telecare_backend/internal/service/questionnaire"
	"github.com/Alijeyrad/telecare_backend/pkg/validate"
)

type QuestionnaireHandler struct {
	svc questionnaire.Service
}

func NewQuestionnaireHandler(svc questionnaire.Service) *QuestionnaireHandler {
	return &QuestionnaireHandler{svc: svc}
}

func mapQuestionnaireError(c fiber.Ctx, err error) error {
	switch {
	case errors.Is(err, questionnaire.ErrQuestionnaireNotFound),
		errors.Is(err, questionnaire.ErrQuestionNotFound),
		errors.Is(err, questionnaire.ErrNoActiveQuestionnaire):
		return notFound(c, err.Error())
	case errors.Is(err, questionnaire.ErrInvalidTitle),
		errors.Is(err, questionnaire.ErrInvalidQuestionTitle),
		errors.Is(err, questionnaire.ErrInvalidQuestionnaireType),
		errors.Is(err, questionnaire.ErrInvalidQuestion),
		errors.Is(err, questionnaire.ErrInvalidDisplayOrder):
		return badRequest(c, err.Error())
	default:
		slog.ErrorContext(c.Context(), "questionnaire handler", "err", err)
		return internalError(c)
	}
}

type activeQuestionsResponse struct {
	Questionnaire *repo.Questionnaire `json:"questionnaire"`
	Questions     []*repo.Question    `json:"questions"`
}

// GET /quiz/perguntas
// The active questionnaire and its active questions, in display order. No
// active questionnaire is a null questionnaire with an empty list, not an error.
func (h *QuestionnaireHandler) ActiveQuestions(c fiber.Ctx) error {
	var q struct {
		Type string `query:"type"`
	}
	if err := c.Bind().Query(&q); err != nil {
		return badRequest(c, "invalid query parameters")
	}

	var typ *quiz.QuestionnaireType
	if q.Type != "" {
		t := quiz.QuestionnaireType(q.Type)
		if !t.Valid() {
			return badRequest(c, questionnaire.ErrInvalidQuestionnaireType.Error())
		}
		typ = &t
	}

	qn, err := h.svc.ActiveQuestionnaire(c.Context(), typ)
	if errors.Is(err, questionnaire.ErrNoActiveQuestionnaire) {
		return ok(c, activeQuestionsResponse{Questions: []*repo.Question{}})
	}
	if err != nil {
		return mapQuestionnaireError(c, err)
	}

	out := activeQuestionsResponse{Questions: qn.Questions}
	if out.Questions == nil {
		out.Questions = []*repo.Question{}
	}
	header := *qn
	header.Questions = nil
	out.Questionnaire = &header
	return ok(c, out)
}

// GET /admin/questionarios
func (h *QuestionnaireHandler) List(c fiber.Ctx) error {
	var q struct {
		IncludeInactive bool `query:"includeInactive"`
	}
	if err := c.Bind().Query(&q); err != nil {
		return badRequest(c, "invalid query parameters")
	}

	list, err := h.svc.ListQuestionnaires(c.Context(), q.IncludeInactive)
	if err != nil {
		return mapQuestionnaireError(c, err)
	}
	return ok(c, list)
}

type createQuestionnaireBody struct {
	Title        string  `json:"title" validate:"required,min=3,max=200"`
	Description  *string `json:"description" validate:"omitempty,max=2000"`
	Type         string  `json:"type" validate:"required"`
	DisplayOrder int     `json:"displayOrder" validate:"gte=0"`
	Active       *bool   `json:"active"`
}

// POST /admin/questionarios
func (h *QuestionnaireHandler) Create(c fiber.Ctx) error {
	var body createQuestionnaireBody
	if err := c.Bind().JSON(&body); err != nil {
		return badRequest(c, "invalid request body")
	}
	if err := validate.Struct(body); err != nil {
		return invalid(c, err)
	}

	qn, err := h.svc.CreateQuestionnaire(c.Context(), questionnaire.CreateQuestionnaireRequest{
		Title:        body.Title,
		Description:  body.Description,
		Type:         quiz.QuestionnaireType(body.Type),
		DisplayOrder: body.DisplayOrder,
		Active:       body.Active,
	})
	if err != nil {
		return mapQuestionnaireError(c, err)
	}
	return created(c, qn)
}

// GET /admin/questionarios/:id
func (h *QuestionnaireHandler) Get(c fiber.Ctx) error {
	id, valid := paramID(c)
	if !valid {
		return badRequest(c, "invalid questionnaire id")
	}
	qn, err := h.svc.GetQuestionnaire(c.Context(), id)
	if err != nil {
		return mapQuestionnaireError(c, err)
	}
	return ok(c, qn)
}

// PATCH /admin/questionarios/:id
func (h *QuestionnaireHandler) Update(c fiber.Ctx) error {
	id, valid := paramID(c)
	if !valid {
		return badRequest(c, "invalid questionnaire id")
	}

	var body struct {
		Title        *string `json:"title" validate:"omitempty,min=3,max=200"`
		Description  *string `json:"description" validate:"omitempty,max=2000"`
		Type         *string `json:"type"`
		DisplayOrder *int    `json:"displayOrder" validate:"omitempty,gte=0"`
		Active       *bool   `json:"active"`
	}
	if err := c.Bind().JSON(&body); err != nil {
		return badRequest(c, "invalid request body")
	}
	if err := validate.Struct(body); err != nil {
		return invalid(c, err)
	}

	req := questionnaire.UpdateQuestionnaireRequest{
		Title:        body.Title,
		Description:  body.Description,
		DisplayOrder: body.DisplayOrder,
		Active:       body.Active,
	}
	if body.Type != nil {
		t := quiz.QuestionnaireType(*body.Type)
		req.Type = &t
	}

	qn, err := h.svc.UpdateQuestionnaire(c.Context(), id, req)
	if err != nil {
		return mapQuestionnaireError(c, err)
	}
	return ok(c, qn)
}

// DELETE /admin/questionarios/:id
func (h *QuestionnaireHandler) Delete(c fiber.Ctx) error {
	id, valid := paramID(c)
	if !valid {
		return badRequest(c, "invalid questionnaire id")
	}
	if err := h.svc.DeleteQuestionnaire(c.Context(), id); err != nil {
		return mapQuestionnaireError(c, err)
	}
	return noContent(c)
}

// GET /admin/perguntas?questionnaireId=
func (h *QuestionnaireHandler) ListQuestions(c fiber.Ctx) error {
	qid, err := uuid.Parse(c.Query("questionnaireId"))
	if err != nil {
		return badRequest(c, "questionnaireId is required")
	}
	list, err := h.svc.ListQuestions(c.Context(), qid)
	if err != nil {
		return mapQuestionnaireError(c, err)
	}
	if list == nil {
		list = []*repo.Question{}
	}
	return ok(c, list)
}

type createQuestionBody struct {
	QuestionnaireID string   `json:"questionnaireId" validate:"required,uuid"`
	Title           string   `json:"title" validate:"required,max=500"`
	Description     *string  `json:"description" validate:"omitempty,max=2000"`
	AnswerType      string   `json:"answerType" validate:"required"`
	Options         []string `json:"options"`
	Required        *bool    `json:"required"`
	DisplayOrder    int      `json:"displayOrder" validate:"gte=0"`
	Active          *bool    `json:"active"`
}

// POST /admin/perguntas
func (h *QuestionnaireHandler) CreateQuestion(c fiber.Ctx) error {
	var body createQuestionBody
	if err := c.Bind().JSON(&body); err != nil {
		return badRequest(c, "invalid request body")
	}
	if err := validate.Struct(body); err != nil {
		return invalid(c, err)
	}

	required := true
	if body.Required != nil {
		required = *body.Required
	}

	q, err := h.svc.CreateQuestion(c.Context(), questionnaire.CreateQuestionRequest{
		QuestionnaireID: uuid.MustParse(body.QuestionnaireID),
		Title:           body.Title,
		Description:     body.Description,
		AnswerType:      quiz.AnswerType(body.AnswerType),
		Options:         body.Options,
		Required:        required,
		DisplayOrder:    body.DisplayOrder,
		Active:          body.Active,
	})
	if err != nil {
		return mapQuestionnaireError(c, err)
	}
	return created(c, q)
}

// PATCH /admin/perguntas/:id
func (h *QuestionnaireHandler) UpdateQuestion(c fiber.Ctx) error {
	id, valid := paramID(c)
	if !valid {
		return badRequest(c, "invalid question id")
	}

	var body struct {
		Title        *string   `json:"title" validate:"omitempty,max=500"`
		Description  *string   `json:"description" validate:"omitempty,max=2000"`
		AnswerType   *string   `json:"answerType"`
		Options      *[]string `json:"options"`
		Required     *bool     `json:"required"`
		DisplayOrder *int      `json:"displayOrder" validate:"omitempty,gte=0"`
		Active       *bool     `json:"active"`
	}
	if err := c.Bind().JSON(&body); err != nil {
		return badRequest(c, "invalid request body")
	}
	if err := validate.Struct(body); err != nil {
		return invalid(c, err)
	}

	req := questionnaire.UpdateQuestionRequest{
		Title:        body.Title,
		Description:  body.Description,
		Options:      body.Options,
		Required:     body.Required,
		DisplayOrder: body.DisplayOrder,
		Active:       body.Active,
	}
	if body.AnswerType != nil {
		t := quiz.AnswerType(*body.AnswerType)
		req.AnswerType = &t
	}

	q, err := h.svc.UpdateQuestion(c.Context(), id, req)
	if err != nil {
		return mapQuestionnaireError(c, err)
	}
	return ok(c, q)
}

// DELETE /admin/perguntas/:id
func (h *QuestionnaireHandler) DeleteQuestion(c fiber.Ctx) error {
	id, valid := paramID(c)
	if !valid {
		return badRequest(c, "invalid question id")
	}
	if err := h.svc.DeleteQuestion(c.Context(), id); err != nil {
		return mapQuestionnaireError(c, err)
	}
	return noContent(c)
}
