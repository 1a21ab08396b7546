package config

import (
	"fmt"
	"time"

	"github.com/avast/retry-go/v4"
	amqp "github.com/rabbitmq/amqp091-go"
	"go.uber.org/zap"
)

func NewRabbitMQ(cfg *Config, logger *zap.SugaredLogger) (*amqp.Connection, error) {
	var conn *amqp.Connection
	err := retry.Do(
		func() error {
			var err error
			conn, err = amqp.Dial(cfg.RabbitMQURL)
			return err
		},
		retry.Attempts(cfg.ConnectAttempts),
		retry.Delay(time.Second),
		retry.LastErrorOnly(true),
		retry.OnRetry(func(n uint, err error) {
			logger.Warnw("rabbitmq connect failed, retrying", "attempt", n+1, "error", err)
		}),
	)
	if err != nil {
		return nil, fmt.Errorf("rabbitmq connect: %w", err)
	}
	return conn, nil
}
