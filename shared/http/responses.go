package http

import (
	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
)

// Success responses carry {"message": ..., "<resource>": ...}; failures carry
// {"errors": {"field": "message", ...}}. Every handler in every service uses
// these helpers so the wire format stays uniform.

func SuccessResponse(c *fiber.Ctx, message, resourceName string, resource interface{}) error {
	return resourceResponse(c, fiber.StatusOK, message, resourceName, resource)
}

func CreatedResponse(c *fiber.Ctx, message, resourceName string, resource interface{}) error {
	return resourceResponse(c, fiber.StatusCreated, message, resourceName, resource)
}

func MessageResponse(c *fiber.Ctx, message string) error {
	return c.Status(fiber.StatusOK).JSON(fiber.Map{"message": message})
}

// ValidationErrorResponse reports every violated field at once.
func ValidationErrorResponse(c *fiber.Ctx, fieldErrors map[string]string) error {
	return errorsResponse(c, fiber.StatusBadRequest, fieldErrors)
}

func BadRequestResponse(c *fiber.Ctx, field, message string) error {
	return errorsResponse(c, fiber.StatusBadRequest, map[string]string{field: message})
}

func NotFoundResponse(c *fiber.Ctx, field, message string) error {
	return errorsResponse(c, fiber.StatusNotFound, map[string]string{field: message})
}

// ConflictResponse is used for business-rule conflicts such as insufficient
// stock or an illegal status transition.
func ConflictResponse(c *fiber.Ctx, field, message string) error {
	return errorsResponse(c, fiber.StatusConflict, map[string]string{field: message})
}

func UnauthorizedResponse(c *fiber.Ctx, message string) error {
	return errorsResponse(c, fiber.StatusUnauthorized, map[string]string{"auth": message})
}

func ForbiddenResponse(c *fiber.Ctx, message string) error {
	return errorsResponse(c, fiber.StatusForbidden, map[string]string{"auth": message})
}

func InternalServerErrorResponse(c *fiber.Ctx, message string) error {
	return errorsResponse(c, fiber.StatusInternalServerError, map[string]string{"server": message})
}

func resourceResponse(c *fiber.Ctx, status int, message, resourceName string, resource interface{}) error {
	ensureRequestID(c)
	body := fiber.Map{"message": message}
	if resourceName != "" {
		body[resourceName] = resource
	}
	return c.Status(status).JSON(body)
}

func errorsResponse(c *fiber.Ctx, status int, errs map[string]string) error {
	ensureRequestID(c)
	return c.Status(status).JSON(fiber.Map{"errors": errs})
}

func ensureRequestID(c *fiber.Ctx) {
	if c.Get("X-Request-ID") == "" {
		c.Set("X-Request-ID", uuid.New().String())
	}
}
