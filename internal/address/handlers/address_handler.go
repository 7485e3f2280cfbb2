package handlers

import (
	"errors"

	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"

	"github.com/greenveggies/backend/internal/address/domain"
	"github.com/greenveggies/backend/internal/address/service"
	sharedHTTP "github.com/greenveggies/backend/shared/http"
	"github.com/greenveggies/backend/shared/validation"
)

type AddressHandler struct {
	addressService *service.AddressService
	logger         *zap.Logger
}

func NewAddressHandler(addressService *service.AddressService, logger *zap.Logger) *AddressHandler {
	return &AddressHandler{
		addressService: addressService,
		logger:         logger,
	}
}

func (h *AddressHandler) CreateAddress(c *fiber.Ctx) error {
	var request domain.AddressRequest
	if err := c.BodyParser(&request); err != nil {
		return sharedHTTP.BadRequestResponse(c, "body", "invalid request body")
	}

	address, err := h.addressService.CreateAddress(c.Context(), request)
	if err != nil {
		var fieldErrs validation.Errors
		if errors.As(err, &fieldErrs) {
			return sharedHTTP.ValidationErrorResponse(c, fieldErrs)
		}
		h.logger.Error("address creation failed", zap.Error(err))
		return sharedHTTP.InternalServerErrorResponse(c, "address creation failed")
	}

	return sharedHTTP.CreatedResponse(c, "Address created successfully", "address", address)
}

func (h *AddressHandler) UpdateAddress(c *fiber.Ctx) error {
	addressID := c.Params("addressID")

	var request domain.AddressRequest
	if err := c.BodyParser(&request); err != nil {
		return sharedHTTP.BadRequestResponse(c, "body", "invalid request body")
	}

	address, err := h.addressService.UpdateAddress(c.Context(), addressID, request)
	if err != nil {
		var fieldErrs validation.Errors
		if errors.As(err, &fieldErrs) {
			return sharedHTTP.ValidationErrorResponse(c, fieldErrs)
		}
		if errors.Is(err, domain.ErrAddressNotFound) {
			return sharedHTTP.NotFoundResponse(c, "addressID", "not found")
		}
		h.logger.Error("address update failed", zap.Error(err))
		return sharedHTTP.InternalServerErrorResponse(c, "address update failed")
	}

	return sharedHTTP.SuccessResponse(c, "Address updated successfully", "address", address)
}

func (h *AddressHandler) SetDefault(c *fiber.Ctx) error {
	userID := c.Params("userID")
	addressID := c.Params("addressID")

	address, err := h.addressService.SetDefault(c.Context(), userID, addressID)
	if err != nil {
		if errors.Is(err, domain.ErrAddressNotFound) {
			return sharedHTTP.NotFoundResponse(c, "addressID", "not found")
		}
		h.logger.Error("set default address failed", zap.Error(err))
		return sharedHTTP.InternalServerErrorResponse(c, "set default address failed")
	}

	return sharedHTTP.SuccessResponse(c, "Default address updated successfully", "address", address)
}

func (h *AddressHandler) GetAddress(c *fiber.Ctx) error {
	addressID := c.Params("addressID")

	address, err := h.addressService.GetAddress(c.Context(), addressID)
	if err != nil {
		if errors.Is(err, domain.ErrAddressNotFound) {
			return sharedHTTP.NotFoundResponse(c, "addressID", "not found")
		}
		h.logger.Error("address retrieval failed", zap.Error(err))
		return sharedHTTP.InternalServerErrorResponse(c, "address retrieval failed")
	}

	return sharedHTTP.SuccessResponse(c, "Address retrieved successfully", "address", address)
}

func (h *AddressHandler) ListAddresses(c *fiber.Ctx) error {
	userID := c.Params("userID")

	addresses, err := h.addressService.ListAddresses(c.Context(), userID)
	if err != nil {
		h.logger.Error("addresses retrieval failed", zap.Error(err))
		return sharedHTTP.InternalServerErrorResponse(c, "addresses retrieval failed")
	}

	return sharedHTTP.SuccessResponse(c, "Addresses retrieved successfully", "addresses", addresses)
}

func (h *AddressHandler) DeleteAddress(c *fiber.Ctx) error {
	addressID := c.Params("addressID")

	if err := h.addressService.DeleteAddress(c.Context(), addressID); err != nil {
		if errors.Is(err, domain.ErrAddressNotFound) {
			return sharedHTTP.NotFoundResponse(c, "addressID", "not found")
		}
		h.logger.Error("address delete failed", zap.Error(err))
		return sharedHTTP.InternalServerErrorResponse(c, "address delete failed")
	}

	return sharedHTTP.MessageResponse(c, "Address deleted successfully")
}

func (h *AddressHandler) HealthCheck(c *fiber.Ctx) error {
	return c.Status(fiber.StatusOK).JSON(fiber.Map{
		"service": "address-service",
		"status":  "healthy",
	})
}
