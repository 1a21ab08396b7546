package config

import (
	"fmt"
	"os"
	"strconv"

	"github.com/go-playground/validator/v10"
	"gopkg.in/yaml.v3"
)

type Config struct {
	Env             string `yaml:"env" validate:"oneof=dev prod"`
	HTTPPort        string `yaml:"http_port" validate:"required,numeric"`
	DataDir         string `yaml:"data_dir" validate:"required"`
	RabbitMQURL     string `yaml:"rabbitmq_url" validate:"omitempty,url"`
	MQTTBroker      string `yaml:"mqtt_broker" validate:"omitempty,url"`
	MQTTClientID    string `yaml:"mqtt_client_id" validate:"required_with=MQTTBroker"`
	MQTTTopic       string `yaml:"mqtt_topic" validate:"required_with=MQTTBroker"`
	ConnectAttempts uint   `yaml:"connect_attempts" validate:"gte=1"`
}

func defaults() Config {
	return Config{
		Env:             "prod",
		HTTPPort:        "9443",
		DataDir:         "data",
		MQTTClientID:    "shuttle-server",
		MQTTTopic:       "shuttle/vehicle/+/report",
		ConnectAttempts: 5,
	}
}

// Load builds the config from defaults, then the YAML file named by CONFIG_FILE
// (if any), then environment overrides.
func Load() (*Config, error) {
	cfg := defaults()

	if path := os.Getenv("CONFIG_FILE"); path != "" {
		data, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("read config file: %w", err)
		}
		if err := yaml.Unmarshal(data, &cfg); err != nil {
			return nil, fmt.Errorf("parse config file: %w", err)
		}
	}

	cfg.Env = getEnv("ENV", cfg.Env)
	cfg.HTTPPort = getEnv("HTTP_PORT", cfg.HTTPPort)
	cfg.DataDir = getEnv("DATA_DIR", cfg.DataDir)
	cfg.RabbitMQURL = getEnv("RABBITMQ_URL", cfg.RabbitMQURL)
	cfg.MQTTBroker = getEnv("MQTT_BROKER", cfg.MQTTBroker)
	cfg.MQTTClientID = getEnv("MQTT_CLIENT_ID", cfg.MQTTClientID)
	cfg.MQTTTopic = getEnv("MQTT_TOPIC", cfg.MQTTTopic)

	if v := os.Getenv("CONNECT_ATTEMPTS"); v != "" {
		n, err := strconv.ParseUint(v, 10, 32)
		if err != nil {
			return nil, fmt.Errorf("CONNECT_ATTEMPTS: %w", err)
		}
		cfg.ConnectAttempts = uint(n)
	}

	if err := validator.New().Struct(cfg); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}
	return &cfg, nil
}

func getEnv(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}
