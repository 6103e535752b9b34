package router

import (
	"github.com/gofiber/fiber/v3"

	"github.com/Alijeyrad/telecare_backend/internal/api/http/handler"
)

func (r *Router) registerCheckoutRoutes(api fiber.Router, h *handler.CheckoutHandler, authRequired fiber.Handler) {
	co := api.Group("/checkout", authRequired)

	co.Get("/", h.Summary)
	co.Post("/cupom", h.ApplyCoupon)
	co.Delete("/cupom", h.RemoveCoupon)
	co.Post("/pagamento", h.Pay)
}
