package serverutils

import (
	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
)

// IdentityMiddleware reads the caller identity set by the upstream gateway.
// Authentication itself happens there; this service only requires that the
// header is present and well formed.
func IdentityMiddleware(ctx *fiber.Ctx) error {
	userIdStr := ctx.Get("X-User-Id")
	if userIdStr == "" {
		return ctx.Status(fiber.StatusUnauthorized).JSON(ErrorResponse("missing X-User-Id header"))
	}
	userId, err := uuid.Parse(userIdStr)
	if err != nil {
		return ctx.Status(fiber.StatusUnauthorized).JSON(ErrorResponse("invalid X-User-Id header"))
	}

	ctx.Locals("user_id", userId.String())
	return ctx.Next()
}

// UserIdFromCtx returns the identity placed by IdentityMiddleware.
func UserIdFromCtx(ctx *fiber.Ctx) uuid.UUID {
	userIdStr, _ := ctx.Locals("user_id").(string)
	userId, _ := uuid.Parse(userIdStr)
	return userId
}
