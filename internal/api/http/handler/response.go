package handler

import (
	"github.com/gofiber/fiber/v3"
	"github.com/google/uuid"

	"github.com/Alijeyrad/telecare_backend/pkg/reqctx"
	"github.com/Alijeyrad/telecare_backend/pkg/validate"
)

func ok(c fiber.Ctx, data any) error {
	return c.JSON(fiber.Map{"data": data})
}

// okPage is ok for a list page; meta carries the paging position.
func okPage(c fiber.Ctx, data any, meta fiber.Map) error {
	return c.JSON(fiber.Map{"data": data, "meta": meta})
}

func created(c fiber.Ctx, data any) error {
	return c.Status(fiber.StatusCreated).JSON(fiber.Map{"data": data})
}

func noContent(c fiber.Ctx) error {
	return c.SendStatus(fiber.StatusNoContent)
}

func badRequest(c fiber.Ctx, msg string) error {
	return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": msg})
}

// invalid reports a request DTO that failed its validate tags.
func invalid(c fiber.Ctx, err error) error {
	return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
		"error":  validate.FormatFirstValidationError(err),
		"fields": validate.FieldErrors(err),
	})
}

func unprocessable(c fiber.Ctx, msg string, detail any) error {
	body := fiber.Map{"error": msg}
	if detail != nil {
		body["detail"] = detail
	}
	return c.Status(fiber.StatusUnprocessableEntity).JSON(body)
}

func unauthorized(c fiber.Ctx) error {
	return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{"error": "unauthorized"})
}

func notFound(c fiber.Ctx, msg string) error {
	return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": msg})
}

func conflict(c fiber.Ctx, msg string) error {
	return c.Status(fiber.StatusConflict).JSON(fiber.Map{"error": msg})
}

func paymentRequired(c fiber.Ctx, msg string) error {
	return c.Status(fiber.StatusPaymentRequired).JSON(fiber.Map{"error": msg})
}

func internalError(c fiber.Ctx) error {
	return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "internal server error"})
}

// currentUser reads the caller set by the auth middleware.
func currentUser(c fiber.Ctx) (uuid.UUID, bool) {
	uid, ok := reqctx.UserIDFromContext(c.Context())
	return uid, ok && uid != uuid.Nil
}

// checkoutSession keys the cart by auth session, falling back to the user.
func checkoutSession(c fiber.Ctx) (string, uuid.UUID, bool) {
	claims := reqctx.ClaimsFromContext(c.Context())
	if claims == nil || claims.GetUserID() == uuid.Nil {
		return "", uuid.Nil, false
	}
	if sid := claims.GetSessionID(); sid != nil {
		return sid.String(), claims.GetUserID(), true
	}
	return claims.GetUserID().String(), claims.GetUserID(), true
}

func paramID(c fiber.Ctx) (uuid.UUID, bool) {
	id, err := uuid.Parse(c.Params("id"))
	return id, err == nil
}
