package handlers

import (
	"errors"

	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"

	"github.com/greenveggies/backend/internal/payment/domain"
	"github.com/greenveggies/backend/internal/payment/service"
	sharedHTTP "github.com/greenveggies/backend/shared/http"
	"github.com/greenveggies/backend/shared/validation"
)

type PaymentHandler struct {
	paymentService *service.PaymentService
	logger         *zap.Logger
}

func NewPaymentHandler(paymentService *service.PaymentService, logger *zap.Logger) *PaymentHandler {
	return &PaymentHandler{
		paymentService: paymentService,
		logger:         logger,
	}
}

func (h *PaymentHandler) CreatePayment(c *fiber.Ctx) error {
	var request domain.CreatePaymentRequest
	if err := c.BodyParser(&request); err != nil {
		return sharedHTTP.BadRequestResponse(c, "body", "invalid request body")
	}

	payment, err := h.paymentService.CreatePayment(c.Context(), request)
	if err != nil {
		var fieldErrs validation.Errors
		if errors.As(err, &fieldErrs) {
			return sharedHTTP.ValidationErrorResponse(c, fieldErrs)
		}
		h.logger.Error("payment creation failed", zap.Error(err))
		return sharedHTTP.InternalServerErrorResponse(c, "payment creation failed")
	}

	return sharedHTTP.CreatedResponse(c, "Payment created successfully", "payment", payment)
}

func (h *PaymentHandler) GetPayment(c *fiber.Ctx) error {
	paymentID := c.Params("paymentID")

	payment, err := h.paymentService.GetPayment(c.Context(), paymentID)
	if err != nil {
		if errors.Is(err, domain.ErrPaymentNotFound) {
			return sharedHTTP.NotFoundResponse(c, "paymentID", "not found")
		}
		h.logger.Error("payment retrieval failed", zap.Error(err))
		return sharedHTTP.InternalServerErrorResponse(c, "payment retrieval failed")
	}

	return sharedHTTP.SuccessResponse(c, "Payment retrieved successfully", "payment", payment)
}

func (h *PaymentHandler) GetPaymentByOrderID(c *fiber.Ctx) error {
	orderID := c.Params("orderID")

	payment, err := h.paymentService.GetPaymentByOrderID(c.Context(), orderID)
	if err != nil {
		if errors.Is(err, domain.ErrPaymentNotFound) {
			return sharedHTTP.NotFoundResponse(c, "orderID", "no payment found")
		}
		h.logger.Error("payment retrieval failed", zap.Error(err))
		return sharedHTTP.InternalServerErrorResponse(c, "payment retrieval failed")
	}

	return sharedHTTP.SuccessResponse(c, "Payment retrieved successfully", "payment", payment)
}
