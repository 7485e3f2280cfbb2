package handlers

import (
	"errors"

	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"

	"github.com/greenveggies/backend/internal/inventory/domain"
	"github.com/greenveggies/backend/internal/inventory/service"
	sharedHTTP "github.com/greenveggies/backend/shared/http"
	"github.com/greenveggies/backend/shared/validation"
)

type InventoryHandler struct {
	inventoryService *service.InventoryService
	logger           *zap.Logger
}

func NewInventoryHandler(inventoryService *service.InventoryService, logger *zap.Logger) *InventoryHandler {
	return &InventoryHandler{
		inventoryService: inventoryService,
		logger:           logger,
	}
}

func (h *InventoryHandler) CreateProduct(c *fiber.Ctx) error {
	var request domain.CreateProductRequest
	if err := c.BodyParser(&request); err != nil {
		return sharedHTTP.BadRequestResponse(c, "body", "invalid request body")
	}

	product, err := h.inventoryService.CreateProduct(c.Context(), request)
	if err != nil {
		var fieldErrs validation.Errors
		if errors.As(err, &fieldErrs) {
			return sharedHTTP.ValidationErrorResponse(c, fieldErrs)
		}
		h.logger.Error("product creation failed", zap.Error(err))
		return sharedHTTP.InternalServerErrorResponse(c, "product creation failed")
	}

	return sharedHTTP.CreatedResponse(c, "Product created successfully", "product", product)
}

func (h *InventoryHandler) GetProduct(c *fiber.Ctx) error {
	productID := c.Params("productID")

	product, err := h.inventoryService.GetProduct(c.Context(), productID)
	if err != nil {
		if errors.Is(err, domain.ErrProductNotFound) {
			return sharedHTTP.NotFoundResponse(c, "productID", "not found")
		}
		h.logger.Error("product retrieval failed", zap.Error(err))
		return sharedHTTP.InternalServerErrorResponse(c, "product retrieval failed")
	}

	return sharedHTTP.SuccessResponse(c, "Product retrieved successfully", "product", product)
}

func (h *InventoryHandler) ListProducts(c *fiber.Ctx) error {
	products, err := h.inventoryService.ListProducts(c.Context())
	if err != nil {
		h.logger.Error("products retrieval failed", zap.Error(err))
		return sharedHTTP.InternalServerErrorResponse(c, "products retrieval failed")
	}

	return sharedHTTP.SuccessResponse(c, "Products retrieved successfully", "products", products)
}

// Replenish registers a stock entry for a product.
func (h *InventoryHandler) Replenish(c *fiber.Ctx) error {
	productID := c.Params("productID")

	var request domain.ReplenishRequest
	if err := c.BodyParser(&request); err != nil {
		return sharedHTTP.BadRequestResponse(c, "body", "invalid request body")
	}

	entry, err := h.inventoryService.Replenish(c.Context(), productID, request)
	if err != nil {
		var fieldErrs validation.Errors
		if errors.As(err, &fieldErrs) {
			return sharedHTTP.ValidationErrorResponse(c, fieldErrs)
		}
		if errors.Is(err, domain.ErrProductNotFound) {
			return sharedHTTP.NotFoundResponse(c, "productID", "not found")
		}
		h.logger.Error("stock replenish failed", zap.Error(err))
		return sharedHTTP.InternalServerErrorResponse(c, "stock replenish failed")
	}

	return sharedHTTP.CreatedResponse(c, "Stock entry created successfully", "stockEntry", entry)
}

func (h *InventoryHandler) ListStockEntries(c *fiber.Ctx) error {
	productID := c.Params("productID")

	entries, err := h.inventoryService.ListStockEntries(c.Context(), productID)
	if err != nil {
		if errors.Is(err, domain.ErrProductNotFound) {
			return sharedHTTP.NotFoundResponse(c, "productID", "not found")
		}
		h.logger.Error("stock entries retrieval failed", zap.Error(err))
		return sharedHTTP.InternalServerErrorResponse(c, "stock entries retrieval failed")
	}

	return sharedHTTP.SuccessResponse(c, "Stock entries retrieved successfully", "stockEntries", entries)
}
