package router

import (
	"github.com/gofiber/fiber/v3"

	"github.com/Alijeyrad/telecare_backend/internal/api/http/handler"
	"github.com/Alijeyrad/telecare_backend/pkg/authorize"
)

func (r *Router) registerEvaluationRoutes(api fiber.Router, h *handler.EvaluationHandler, authRequired fiber.Handler) {
	api.Get("/avaliacoes", authRequired, h.ListMine)
}

func (r *Router) registerAdminEvaluationRoutes(admin fiber.Router, h *handler.EvaluationHandler, requirePerm permFunc) {
	ev := admin.Group("/avaliacoes")

	ev.Get("/", requirePerm(authorize.ResourceEvaluation, authorize.ActionList), h.List)
	ev.Patch("/", requirePerm(authorize.ResourceEvaluation, authorize.ActionReview), h.Transition)
	ev.Get("/:id", requirePerm(authorize.ResourceEvaluation, authorize.ActionRead), h.Get)
}
