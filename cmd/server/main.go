package main

import (
	"context"
	"errors"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	mqtt "github.com/eclipse/paho.mqtt.golang"
	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	amqp "github.com/rabbitmq/amqp091-go"

	"github.com/chim712/shuttle-roid-TestServer/config"
	"github.com/chim712/shuttle-roid-TestServer/module/catalog"
	"github.com/chim712/shuttle-roid-TestServer/module/live"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("config: %v", err)
	}

	logger, err := config.NewLogger(cfg.Env)
	if err != nil {
		log.Fatalf("logger: %v", err)
	}
	defer func() { _ = logger.Sync() }()

	var (
		amqpConn   *amqp.Connection
		healthAMQP config.AMQPConn
		mqttClient mqtt.Client
	)

	if cfg.RabbitMQURL != "" {
		amqpConn, err = config.NewRabbitMQ(cfg, logger)
		if err != nil {
			logger.Fatalf("rabbitmq: %v", err)
		}
		defer func() { _ = amqpConn.Close() }()
		healthAMQP = amqpConn
	}

	liveModule, err := live.Build(amqpConn, cfg.MQTTTopic, logger)
	if err != nil {
		logger.Fatalf("live module: %v", err)
	}

	if cfg.MQTTBroker != "" {
		mqttClient, err = config.NewMQTT(cfg, logger, liveModule.OnMQTTConnect)
		if err != nil {
			logger.Fatalf("mqtt: %v", err)
		}
		defer mqttClient.Disconnect(250)
	}

	catalogModule := catalog.Build(cfg.DataDir, logger)

	if cfg.Env != "dev" {
		gin.SetMode(gin.ReleaseMode)
	}
	r := gin.New()
	r.Use(gin.Recovery(), config.RequestLogger(logger))
	r.Use(cors.New(cors.Config{
		AllowAllOrigins: true,
		AllowMethods:    []string{"GET", "POST", "OPTIONS"},
		AllowHeaders:    []string{"Origin", "Content-Type", "Accept"},
	}))

	health := config.NewHealthChecker(healthAMQP, mqttClient)
	health.Register(r)

	liveModule.RegisterRoutes(&r.RouterGroup)
	catalogModule.RegisterRoutes(&r.RouterGroup)

	srv := &http.Server{
		Addr:              ":" + cfg.HTTPPort,
		Handler:           r,
		ReadHeaderTimeout: 5 * time.Second,
	}

	go func() {
		logger.Infow("listening", "port", cfg.HTTPPort, "data_dir", cfg.DataDir)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Fatalf("server: %v", err)
		}
	}()

	sig := make(chan os.Signal, 1)
	signal.Notify(sig, syscall.SIGINT, syscall.SIGTERM)
	<-sig
	logger.Info("shutting down")

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(ctx); err != nil {
		logger.Errorw("server shutdown", "error", err)
	}
}
