package messaging

import (
	"encoding/json"
	"fmt"
	"time"

	"github.com/streadway/amqp"
	"go.uber.org/zap"

	"github.com/greenveggies/backend/shared/events"
)

type EventHandler func(event events.DomainEvent) error

type Consumer struct {
	client      *RabbitMQClient
	logger      *zap.Logger
	queueName   string
	serviceName string
}

func NewConsumer(client *RabbitMQClient, logger *zap.Logger, queueName, serviceName string) *Consumer {
	return &Consumer{
		client:      client,
		logger:      logger,
		queueName:   queueName,
		serviceName: serviceName,
	}
}

func (c *Consumer) ConsumeEvents(routingKeys []string, handler EventHandler) error {
	if !c.client.IsConnected() {
		return fmt.Errorf("no connection to RabbitMQ")
	}

	channel := c.client.Channel()

	queue, err := channel.QueueDeclare(
		c.queueName, // name
		true,        // durable
		false,       // delete when unused
		false,       // exclusive
		false,       // no-wait
		nil,         // arguments
	)
	if err != nil {
		return fmt.Errorf("queue declare error: %w", err)
	}

	for _, routingKey := range routingKeys {
		err = channel.QueueBind(
			queue.Name,
			routingKey,
			c.client.config.Exchange,
			false,
			nil,
		)
		if err != nil {
			return fmt.Errorf("queue bind error (%s): %w", routingKey, err)
		}
		c.logger.Info("queue bound",
			zap.String("queue", queue.Name),
			zap.String("routing_key", routingKey))
	}

	messages, err := channel.Consume(
		queue.Name,
		c.serviceName,
		false, // manual ack
		false,
		false,
		false,
		nil,
	)
	if err != nil {
		return fmt.Errorf("consume start error: %w", err)
	}

	c.logger.Info("consuming events", zap.String("queue", queue.Name))

	go func() {
		for {
			select {
			case msg := <-messages:
				c.handleMessage(msg, handler)
			case <-c.client.Context().Done():
				c.logger.Info("consumer stopped", zap.String("service", c.serviceName))
				return
			}
		}
	}()

	return nil
}

func (c *Consumer) handleMessage(msg amqp.Delivery, handler EventHandler) {
	var event events.DomainEvent

	if err := json.Unmarshal(msg.Body, &event); err != nil {
		c.logger.Error("event deserialize error", zap.Error(err))
		msg.Nack(false, false)
		return
	}

	if err := handler(event); err != nil {
		c.logger.Error("event processing error",
			zap.String("event_type", string(event.EventType)),
			zap.Error(err))

		if c.shouldRetry(msg) {
			c.republish(msg, event)
		} else {
			c.logger.Warn("max retries reached, dropping event",
				zap.String("event_type", string(event.EventType)))
			msg.Nack(false, false)
		}
		return
	}

	msg.Ack(false)
}

const (
	retryCountHeader = "x-retry-count"
	maxRedeliveries  = 3
)

func (c *Consumer) shouldRetry(msg amqp.Delivery) bool {
	return retryCount(msg.Headers) < maxRedeliveries
}

// retryCount reads the redelivery counter this consumer stamps on every
// republished message. Absent header means first delivery.
func retryCount(headers amqp.Table) int64 {
	if headers == nil {
		return 0
	}
	switch count := headers[retryCountHeader].(type) {
	case int64:
		return count
	case int32:
		return int64(count)
	case int:
		return int64(count)
	default:
		return 0
	}
}

// retryHeaders copies the delivery headers with the redelivery counter
// incremented, so the retry cap holds across republishes.
func retryHeaders(headers amqp.Table) amqp.Table {
	next := amqp.Table{}
	for key, value := range headers {
		next[key] = value
	}
	next[retryCountHeader] = retryCount(headers) + 1
	return next
}

func (c *Consumer) republish(msg amqp.Delivery, event events.DomainEvent) {
	channel := c.client.Channel()

	time.Sleep(2 * time.Second)

	err := channel.Publish(
		msg.Exchange,
		msg.RoutingKey,
		false,
		false,
		amqp.Publishing{
			ContentType:  msg.ContentType,
			Body:         msg.Body,
			DeliveryMode: msg.DeliveryMode,
			Headers:      retryHeaders(msg.Headers),
		},
	)

	if err != nil {
		c.logger.Error("retry publish error", zap.Error(err))
		msg.Nack(false, false)
		return
	}

	msg.Ack(false)
	c.logger.Info("event re-published", zap.String("event_type", string(event.EventType)))
}
