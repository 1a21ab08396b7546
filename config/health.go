package config

import (
	"net/http"

	mqtt "github.com/eclipse/paho.mqtt.golang"
	"github.com/gin-gonic/gin"
)

// AMQPConn is the part of *amqp091.Connection the health check needs.
type AMQPConn interface {
	IsClosed() bool
}

// HealthChecker reports broker connectivity. A nil dependency means the
// transport is disabled and never marks the service unhealthy.
type HealthChecker struct {
	amqpConn AMQPConn
	mqtt     mqtt.Client
}

func NewHealthChecker(amqpConn AMQPConn, mqttClient mqtt.Client) *HealthChecker {
	return &HealthChecker{amqpConn: amqpConn, mqtt: mqttClient}
}

func (h *HealthChecker) Register(r *gin.Engine) {
	r.GET("/healthz", h.Handle)
}

func (h *HealthChecker) Handle(c *gin.Context) {
	status := http.StatusOK
	deps := gin.H{}

	switch {
	case h.amqpConn == nil:
		deps["rabbitmq"] = gin.H{"status": "disabled"}
	case h.amqpConn.IsClosed():
		deps["rabbitmq"] = gin.H{"status": "down", "error": "connection closed"}
		status = http.StatusServiceUnavailable
	default:
		deps["rabbitmq"] = gin.H{"status": "up"}
	}

	switch {
	case h.mqtt == nil:
		deps["mqtt"] = gin.H{"status": "disabled"}
	case !h.mqtt.IsConnected():
		deps["mqtt"] = gin.H{"status": "down", "error": "not connected"}
		status = http.StatusServiceUnavailable
	default:
		deps["mqtt"] = gin.H{"status": "up"}
	}

	overall := "healthy"
	if status != http.StatusOK {
		overall = "unhealthy"
	}

	c.JSON(status, gin.H{
		"status":       overall,
		"dependencies": deps,
	})
}
