package router

import (
	"github.com/gofiber/fiber/v3"

	"github.com/Alijeyrad/telecare_backend/internal/api/http/handler"
)

func (r *Router) registerQuizRoutes(
	api fiber.Router,
	qh *handler.QuestionnaireHandler,
	h *handler.QuizHandler,
	sh *handler.QuizSessionHandler,
	authRequired fiber.Handler,
) {
	q := api.Group("/quiz")

	q.Get("/perguntas", qh.ActiveQuestions)

	q.Post("/", authRequired, h.Submit)
	q.Get("/", authRequired, h.Fetch)
	q.Get("/check", authRequired, h.Check)

	sessions := q.Group("/sessions", authRequired)
	sessions.Post("/", sh.Start)
	sessions.Get("/:id", sh.Get)
	sessions.Post("/:id/answer", sh.Answer)
	sessions.Post("/:id/back", sh.Back)
}
