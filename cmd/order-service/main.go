package main

import (
	"os"
	"os/signal"
	"syscall"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"
	"github.com/gofiber/fiber/v2/middleware/logger"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"go.uber.org/zap"

	inventoryhandlers "github.com/greenveggies/backend/internal/inventory/handlers"
	inventoryrepo "github.com/greenveggies/backend/internal/inventory/repository"
	inventoryservice "github.com/greenveggies/backend/internal/inventory/service"
	orderhandlers "github.com/greenveggies/backend/internal/order/handlers"
	orderrepo "github.com/greenveggies/backend/internal/order/repository"
	orderservice "github.com/greenveggies/backend/internal/order/service"
	"github.com/greenveggies/backend/internal/payment/gateway"
	paymenthandlers "github.com/greenveggies/backend/internal/payment/handlers"
	paymentrepo "github.com/greenveggies/backend/internal/payment/repository"
	paymentservice "github.com/greenveggies/backend/internal/payment/service"
	"github.com/greenveggies/backend/shared/auth"
	"github.com/greenveggies/backend/shared/messaging"
	"github.com/greenveggies/backend/shared/storage"
)

func main() {
	log, err := zap.NewProduction()
	if err != nil {
		panic(err)
	}
	defer log.Sync()

	log.Info("order service starting")

	db, err := storage.Open(storage.NewConfig("greenveggies_orders"))
	if err != nil {
		log.Fatal("database connection failed", zap.Error(err))
	}
	defer db.Close()

	rabbitClient := messaging.NewRabbitMQClient(messaging.NewRabbitMQConfig(), log)
	if err := rabbitClient.Connect(); err != nil {
		log.Fatal("rabbitmq connection failed", zap.Error(err))
	}
	defer rabbitClient.Close()

	publisher := messaging.NewPublisher(rabbitClient, log)

	inventoryRepository := inventoryrepo.NewInventoryRepository()
	orderRepository := orderrepo.NewOrderRepository()
	paymentRepository := paymentrepo.NewPaymentRepository()

	inventoryService := inventoryservice.NewInventoryService(db, inventoryRepository, publisher, log)
	orderService := orderservice.NewOrderService(db, orderRepository, inventoryRepository, publisher, log)
	paymentService := paymentservice.NewPaymentService(db, paymentRepository, gateway.NewVietQRGateway(), publisher, log)

	inventoryHandler := inventoryhandlers.NewInventoryHandler(inventoryService, log)
	orderHandler := orderhandlers.NewOrderHandler(orderService, log)
	paymentHandler := paymenthandlers.NewPaymentHandler(paymentService, log)

	app := setupFiberApp(log)
	setupRoutes(app, orderHandler, inventoryHandler, paymentHandler)

	go func() {
		sigChan := make(chan os.Signal, 1)
		signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)
		<-sigChan

		log.Info("order service shutting down")
		if err := app.Shutdown(); err != nil {
			log.Error("shutdown error", zap.Error(err))
		}
	}()

	port := getEnvOrDefault("PORT", "8001")
	log.Info("order service listening", zap.String("port", port))

	if err := app.Listen(":" + port); err != nil {
		log.Fatal("server start failed", zap.Error(err))
	}
}

func setupFiberApp(log *zap.Logger) *fiber.App {
	app := fiber.New(fiber.Config{
		AppName: "Order Service v1.0",
		ErrorHandler: func(c *fiber.Ctx, err error) error {
			code := fiber.StatusInternalServerError
			if e, ok := err.(*fiber.Error); ok {
				code = e.Code
			}
			log.Error("unhandled error", zap.Error(err))
			return c.Status(code).JSON(fiber.Map{
				"errors": fiber.Map{"server": err.Error()},
			})
		},
	})

	app.Use(recover.New())
	app.Use(logger.New(logger.Config{
		Format: "[${time}] ${status} - ${method} ${path} - ${latency}\n",
	}))
	app.Use(cors.New(cors.Config{
		AllowOrigins: "*",
		AllowMethods: "GET,POST,PUT,PATCH,DELETE,OPTIONS",
		AllowHeaders: "Origin,Content-Type,Accept,Authorization,X-Request-ID",
	}))

	return app
}

func setupRoutes(app *fiber.App, orderHandler *orderhandlers.OrderHandler, inventoryHandler *inventoryhandlers.InventoryHandler, paymentHandler *paymenthandlers.PaymentHandler) {
	verifier := auth.NewHTTPVerifier()

	api := app.Group("/api/v1")
	api.Get("/health", orderHandler.HealthCheck)

	orders := api.Group("/orders", auth.Authenticate(verifier))
	orders.Post("/", orderHandler.CreateOrder)
	orders.Get("/user/:userID", orderHandler.GetOrdersByUserID)
	orders.Get("/:orderID", orderHandler.GetOrderByID)
	orders.Put("/:orderID", auth.RequireAdmin(), orderHandler.UpdateStatus)
	orders.Delete("/:orderID", orderHandler.DeleteOrder)

	products := api.Group("/products")
	products.Get("/", inventoryHandler.ListProducts)
	products.Get("/:productID", inventoryHandler.GetProduct)
	products.Post("/", auth.Authenticate(verifier), auth.RequireAdmin(), inventoryHandler.CreateProduct)
	products.Post("/:productID/stock-entries", auth.Authenticate(verifier), auth.RequireAdmin(), inventoryHandler.Replenish)
	products.Get("/:productID/stock-entries", auth.Authenticate(verifier), auth.RequireAdmin(), inventoryHandler.ListStockEntries)

	payments := api.Group("/payments", auth.Authenticate(verifier))
	payments.Post("/", paymentHandler.CreatePayment)
	payments.Get("/order/:orderID", paymentHandler.GetPaymentByOrderID)
	payments.Get("/:paymentID", paymentHandler.GetPayment)

	app.Use(func(c *fiber.Ctx) error {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{
			"errors": fiber.Map{"route": "not found"},
		})
	})
}

func getEnvOrDefault(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}
