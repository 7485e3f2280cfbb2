package handlers

import (
	"errors"

	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"

	inventorydomain "github.com/greenveggies/backend/internal/inventory/domain"
	"github.com/greenveggies/backend/internal/order/domain"
	"github.com/greenveggies/backend/internal/order/service"
	sharedHTTP "github.com/greenveggies/backend/shared/http"
	"github.com/greenveggies/backend/shared/validation"
)

type OrderHandler struct {
	orderService *service.OrderService
	logger       *zap.Logger
}

func NewOrderHandler(orderService *service.OrderService, logger *zap.Logger) *OrderHandler {
	return &OrderHandler{
		orderService: orderService,
		logger:       logger,
	}
}

func (h *OrderHandler) CreateOrder(c *fiber.Ctx) error {
	var request domain.CreateOrderRequest
	if err := c.BodyParser(&request); err != nil {
		return sharedHTTP.BadRequestResponse(c, "body", "invalid request body")
	}

	order, err := h.orderService.CreateOrder(c.Context(), request)
	if err != nil {
		return h.mapOrderCreationError(c, err)
	}

	return sharedHTTP.CreatedResponse(c, "Order created successfully", "order", order)
}

func (h *OrderHandler) GetOrderByID(c *fiber.Ctx) error {
	orderID := c.Params("orderID")

	order, err := h.orderService.GetOrderByID(c.Context(), orderID)
	if err != nil {
		if errors.Is(err, domain.ErrOrderNotFound) {
			return sharedHTTP.NotFoundResponse(c, "orderID", "not found")
		}
		h.logger.Error("order retrieval failed", zap.Error(err))
		return sharedHTTP.InternalServerErrorResponse(c, "order retrieval failed")
	}

	return sharedHTTP.SuccessResponse(c, "Order retrieved successfully", "order", order)
}

func (h *OrderHandler) GetOrdersByUserID(c *fiber.Ctx) error {
	userID := c.Params("userID")

	orders, err := h.orderService.GetOrdersByUserID(c.Context(), userID)
	if err != nil {
		if errors.Is(err, domain.ErrOrderNotFound) {
			return sharedHTTP.NotFoundResponse(c, "userID", "no orders found")
		}
		h.logger.Error("orders retrieval failed", zap.Error(err))
		return sharedHTTP.InternalServerErrorResponse(c, "orders retrieval failed")
	}

	return c.Status(fiber.StatusOK).JSON(fiber.Map{
		"user":   userID,
		"orders": orders,
	})
}

func (h *OrderHandler) UpdateStatus(c *fiber.Ctx) error {
	orderID := c.Params("orderID")

	var request domain.UpdateStatusRequest
	if err := c.BodyParser(&request); err != nil {
		return sharedHTTP.BadRequestResponse(c, "body", "invalid request body")
	}
	if !request.Status.IsValid() {
		return sharedHTTP.BadRequestResponse(c, "status", "unknown status")
	}

	order, err := h.orderService.UpdateStatus(c.Context(), orderID, request.Status)
	if err != nil {
		if errors.Is(err, domain.ErrOrderNotFound) {
			return sharedHTTP.NotFoundResponse(c, "orderID", "not found")
		}
		var transitionErr *domain.StatusTransitionError
		if errors.As(err, &transitionErr) {
			return sharedHTTP.ConflictResponse(c, "status", transitionErr.Error())
		}
		h.logger.Error("order status update failed", zap.Error(err))
		return sharedHTTP.InternalServerErrorResponse(c, "order status update failed")
	}

	return sharedHTTP.SuccessResponse(c, "Order updated successfully", "order", order)
}

func (h *OrderHandler) DeleteOrder(c *fiber.Ctx) error {
	orderID := c.Params("orderID")

	if err := h.orderService.DeleteOrder(c.Context(), orderID); err != nil {
		if errors.Is(err, domain.ErrOrderNotFound) {
			return sharedHTTP.NotFoundResponse(c, "orderID", "not found")
		}
		if errors.Is(err, domain.ErrOrderNotDeletable) {
			return sharedHTTP.ConflictResponse(c, "status", err.Error())
		}
		h.logger.Error("order delete failed", zap.Error(err))
		return sharedHTTP.InternalServerErrorResponse(c, "order delete failed")
	}

	return sharedHTTP.MessageResponse(c, "Order deleted successfully")
}

func (h *OrderHandler) HealthCheck(c *fiber.Ctx) error {
	return c.Status(fiber.StatusOK).JSON(fiber.Map{
		"service": "order-service",
		"status":  "healthy",
	})
}

// mapOrderCreationError translates the failure modes of the aggregate
// builder. Insufficient stock is a business conflict (409), not a server
// error.
func (h *OrderHandler) mapOrderCreationError(c *fiber.Ctx, err error) error {
	var fieldErrs validation.Errors
	if errors.As(err, &fieldErrs) {
		return sharedHTTP.ValidationErrorResponse(c, fieldErrs)
	}

	var stockErr *inventorydomain.InsufficientStockError
	if errors.As(err, &stockErr) {
		return sharedHTTP.ConflictResponse(c, stockErr.ProductID, stockErr.Error())
	}

	if errors.Is(err, inventorydomain.ErrProductNotFound) {
		return sharedHTTP.NotFoundResponse(c, "productID", "not found")
	}

	h.logger.Error("order creation failed", zap.Error(err))
	return sharedHTTP.InternalServerErrorResponse(c, "order creation failed")
}
