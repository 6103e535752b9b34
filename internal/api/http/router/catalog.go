package router

import (
	"github.com/gofiber/fiber/v3"

	"github.com/Alijeyrad/telecare_backend/internal/api/http/handler"
	"github.com/Alijeyrad/telecare_backend/pkg/authorize"
)

func (r *Router) registerCatalogRoutes(api fiber.Router, h *handler.ProductHandler) {
	api.Get("/produtos", h.ListActive)
}

func (r *Router) registerAdminQuestionnaireRoutes(admin fiber.Router, h *handler.QuestionnaireHandler, requirePerm permFunc) {
	qs := admin.Group("/questionarios")
	qs.Get("/", requirePerm(authorize.ResourceQuestionnaire, authorize.ActionList), h.List)
	qs.Post("/", requirePerm(authorize.ResourceQuestionnaire, authorize.ActionCreate), h.Create)
	qs.Get("/:id", requirePerm(authorize.ResourceQuestionnaire, authorize.ActionRead), h.Get)
	qs.Patch("/:id", requirePerm(authorize.ResourceQuestionnaire, authorize.ActionUpdate), h.Update)
	qs.Delete("/:id", requirePerm(authorize.ResourceQuestionnaire, authorize.ActionDelete), h.Delete)

	ps := admin.Group("/perguntas")
	ps.Get("/", requirePerm(authorize.ResourceQuestion, authorize.ActionList), h.ListQuestions)
	ps.Post("/", requirePerm(authorize.ResourceQuestion, authorize.ActionCreate), h.CreateQuestion)
	ps.Patch("/:id", requirePerm(authorize.ResourceQuestion, authorize.ActionUpdate), h.UpdateQuestion)
	ps.Delete("/:id", requirePerm(authorize.ResourceQuestion, authorize.ActionDelete), h.DeleteQuestion)
}

func (r *Router) registerAdminCouponRoutes(admin fiber.Router, h *handler.CouponHandler, requirePerm permFunc) {
	cs := admin.Group("/cupons")
	cs.Get("/", requirePerm(authorize.ResourceCoupon, authorize.ActionList), h.List)
	cs.Post("/", requirePerm(authorize.ResourceCoupon, authorize.ActionCreate), h.Create)
	cs.Get("/:id", requirePerm(authorize.ResourceCoupon, authorize.ActionRead), h.Get)
	cs.Patch("/:id", requirePerm(authorize.ResourceCoupon, authorize.ActionUpdate), h.Update)
	cs.Delete("/:id", requirePerm(authorize.ResourceCoupon, authorize.ActionDelete), h.Delete)
}

func (r *Router) registerAdminProductRoutes(admin fiber.Router, h *handler.ProductHandler, requirePerm permFunc) {
	ps := admin.Group("/produtos")
	ps.Get("/", requirePerm(authorize.ResourceProduct, authorize.ActionList), h.List)
	ps.Post("/", requirePerm(authorize.ResourceProduct, authorize.ActionCreate), h.Create)
	ps.Patch("/:id", requirePerm(authorize.ResourceProduct, authorize.ActionUpdate), h.Update)
	ps.Delete("/:id", requirePerm(authorize.ResourceProduct, authorize.ActionDelete), h.Delete)
}
