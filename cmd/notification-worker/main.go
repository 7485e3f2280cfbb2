package main

import (
	"os"
	"os/signal"
	"syscall"

	"go.uber.org/zap"

	"github.com/greenveggies/backend/internal/notification/repository"
	"github.com/greenveggies/backend/internal/notification/service"
	"github.com/greenveggies/backend/shared/messaging"
	"github.com/greenveggies/backend/shared/storage"
)

func main() {
	log, err := zap.NewProduction()
	if err != nil {
		panic(err)
	}
	defer log.Sync()

	log.Info("notification worker starting")

	db, err := storage.Open(storage.NewConfig("greenveggies_notifications"))
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

	notificationRepository := repository.NewNotificationRepository()
	notificationService := service.NewNotificationService(db, notificationRepository, publisher, log)

	consumer := messaging.NewConsumer(rabbitClient, log, "notification.events", "notification-worker")

	routingKeys := []string{
		"greenveggies.order-service.order.created",
		"greenveggies.order-service.order.status.changed",
		"greenveggies.order-service.order.deleted",
		"greenveggies.order-service.payment.created",
		"greenveggies.order-service.stock.replenished",
	}

	if err := consumer.ConsumeEvents(routingKeys, notificationService.HandleEvent); err != nil {
		log.Fatal("consumer start failed", zap.Error(err))
	}

	log.Info("notification worker running")

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)
	<-sigChan

	log.Info("notification worker shutting down")
}
