package config

import (
	"fmt"
	"time"

	"github.com/avast/retry-go/v4"
	mqtt "github.com/eclipse/paho.mqtt.golang"
	"go.uber.org/zap"
)

// NewMQTT connects to the broker. onConnect runs after the first connect and
// after every automatic reconnect, so subscriptions belong there.
func NewMQTT(cfg *Config, logger *zap.SugaredLogger, onConnect mqtt.OnConnectHandler) (mqtt.Client, error) {
	opts := mqtt.NewClientOptions().
		AddBroker(cfg.MQTTBroker).
		SetClientID(cfg.MQTTClientID).
		SetAutoReconnect(true).
		SetConnectionLostHandler(func(_ mqtt.Client, err error) {
			logger.Warnw("mqtt connection lost", "error", err)
		})
	if onConnect != nil {
		opts.SetOnConnectHandler(onConnect)
	}

	client := mqtt.NewClient(opts)
	err := retry.Do(
		func() error {
			token := client.Connect()
			token.Wait()
			return token.Error()
		},
		retry.Attempts(cfg.ConnectAttempts),
		retry.Delay(time.Second),
		retry.LastErrorOnly(true),
		retry.OnRetry(func(n uint, err error) {
			logger.Warnw("mqtt connect failed, retrying", "attempt", n+1, "error", err)
		}),
	)
	if err != nil {
		return nil, fmt.Errorf("mqtt connect: %w", err)
	}
	return client, nil
}
