package handlers

import (
	"errors"

	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"

	"github.com/greenveggies/backend/internal/cart/domain"
	"github.com/greenveggies/backend/internal/cart/service"
	sharedHTTP "github.com/greenveggies/backend/shared/http"
	"github.com/greenveggies/backend/shared/validation"
)

type CartHandler struct {
	cartService *service.CartService
	logger      *zap.Logger
}

func NewCartHandler(cartService *service.CartService, logger *zap.Logger) *CartHandler {
	return &CartHandler{
		cartService: cartService,
		logger:      logger,
	}
}

func (h *CartHandler) MergeCart(c *fiber.Ctx) error {
	var request domain.MergeCartRequest
	if err := c.BodyParser(&request); err != nil {
		return sharedHTTP.BadRequestResponse(c, "body", "invalid request body")
	}

	cart, err := h.cartService.MergeCart(c.Context(), request)
	if err != nil {
		var fieldErrs validation.Errors
		if errors.As(err, &fieldErrs) {
			return sharedHTTP.ValidationErrorResponse(c, fieldErrs)
		}
		h.logger.Error("cart merge failed", zap.Error(err))
		return sharedHTTP.InternalServerErrorResponse(c, "cart merge failed")
	}

	return sharedHTTP.CreatedResponse(c, "Shopping cart updated successfully", "shoppingCart", cart)
}

func (h *CartHandler) GetCartByUserID(c *fiber.Ctx) error {
	userID := c.Params("userID")

	cart, err := h.cartService.GetCartByUserID(c.Context(), userID)
	if err != nil {
		if errors.Is(err, domain.ErrCartNotFound) {
			return sharedHTTP.NotFoundResponse(c, "userID", "no cart found")
		}
		h.logger.Error("cart retrieval failed", zap.Error(err))
		return sharedHTTP.InternalServerErrorResponse(c, "cart retrieval failed")
	}

	return sharedHTTP.SuccessResponse(c, "Shopping cart retrieved successfully", "shoppingCart", cart)
}

func (h *CartHandler) UpdateQuantity(c *fiber.Ctx) error {
	var request domain.UpdateQuantityRequest
	if err := c.BodyParser(&request); err != nil {
		return sharedHTTP.BadRequestResponse(c, "body", "invalid request body")
	}

	cart, err := h.cartService.UpdateQuantity(c.Context(), request)
	if err != nil {
		var fieldErrs validation.Errors
		if errors.As(err, &fieldErrs) {
			return sharedHTTP.ValidationErrorResponse(c, fieldErrs)
		}
		if errors.Is(err, domain.ErrCartNotFound) {
			return sharedHTTP.NotFoundResponse(c, "shoppingCartID", "not found")
		}
		if errors.Is(err, domain.ErrCartDetailNotFound) {
			return sharedHTTP.NotFoundResponse(c, "productID", "not in cart")
		}
		h.logger.Error("cart quantity update failed", zap.Error(err))
		return sharedHTTP.InternalServerErrorResponse(c, "cart quantity update failed")
	}

	return sharedHTTP.SuccessResponse(c, "Shopping cart updated successfully", "shoppingCart", cart)
}

func (h *CartHandler) RemoveLine(c *fiber.Ctx) error {
	detailID := c.Params("detailID")

	cart, err := h.cartService.RemoveLine(c.Context(), detailID)
	if err != nil {
		if errors.Is(err, domain.ErrCartDetailNotFound) {
			return sharedHTTP.NotFoundResponse(c, "detailID", "not found")
		}
		if errors.Is(err, domain.ErrCartNotFound) {
			return sharedHTTP.NotFoundResponse(c, "shoppingCartID", "not found")
		}
		h.logger.Error("cart line removal failed", zap.Error(err))
		return sharedHTTP.InternalServerErrorResponse(c, "cart line removal failed")
	}

	return sharedHTTP.SuccessResponse(c, "Item removed successfully", "shoppingCart", cart)
}

func (h *CartHandler) DeleteCart(c *fiber.Ctx) error {
	cartID := c.Params("id")

	if err := h.cartService.DeleteCart(c.Context(), cartID); err != nil {
		if errors.Is(err, domain.ErrCartNotFound) {
			return sharedHTTP.NotFoundResponse(c, "shoppingCartID", "not found")
		}
		h.logger.Error("cart delete failed", zap.Error(err))
		return sharedHTTP.InternalServerErrorResponse(c, "cart delete failed")
	}

	return sharedHTTP.MessageResponse(c, "Shopping cart deleted successfully")
}

func (h *CartHandler) HealthCheck(c *fiber.Ctx) error {
	return c.Status(fiber.StatusOK).JSON(fiber.Map{
		"service": "cart-service",
		"status":  "healthy",
	})
}
