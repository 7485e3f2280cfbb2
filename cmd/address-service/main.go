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

	"github.com/greenveggies/backend/internal/address/handlers"
	"github.com/greenveggies/backend/internal/address/repository"
	"github.com/greenveggies/backend/internal/address/service"
	"github.com/greenveggies/backend/shared/auth"
	"github.com/greenveggies/backend/shared/storage"
)

func main() {
	log, err := zap.NewProduction()
	if err != nil {
		panic(err)
	}
	defer log.Sync()

	log.Info("address service starting")

	db, err := storage.Open(storage.NewConfig("greenveggies_addresses"))
	if err != nil {
		log.Fatal("database connection failed", zap.Error(err))
	}
	defer db.Close()

	addressService := service.NewAddressService(db, repository.NewAddressRepository(), log)
	addressHandler := handlers.NewAddressHandler(addressService, log)

	app := setupFiberApp(log)
	setupRoutes(app, addressHandler)

	go func() {
		sigChan := make(chan os.Signal, 1)
		signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)
		<-sigChan

		log.Info("address service shutting down")
		if err := app.Shutdown(); err != nil {
			log.Error("shutdown error", zap.Error(err))
		}
	}()

	port := getEnvOrDefault("PORT", "8003")
	log.Info("address service listening", zap.String("port", port))

	if err := app.Listen(":" + port); err != nil {
		log.Fatal("server start failed", zap.Error(err))
	}
}

func setupFiberApp(log *zap.Logger) *fiber.App {
	app := fiber.New(fiber.Config{
		AppName: "Address Service v1.0",
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

func setupRoutes(app *fiber.App, addressHandler *handlers.AddressHandler) {
	verifier := auth.NewHTTPVerifier()

	api := app.Group("/api/v1")
	api.Get("/health", addressHandler.HealthCheck)

	addresses := api.Group("/addresses", auth.Authenticate(verifier))
	addresses.Post("/", addressHandler.CreateAddress)
	addresses.Get("/user/:userID", addressHandler.ListAddresses)
	addresses.Get("/:addressID", addressHandler.GetAddress)
	addresses.Put("/:addressID", addressHandler.UpdateAddress)
	addresses.Patch("/:addressID/default", addressHandler.SetDefault)
	addresses.Delete("/:addressID", addressHandler.DeleteAddress)

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
