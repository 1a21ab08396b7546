package live

import (
	"fmt"

	mqtt "github.com/eclipse/paho.mqtt.golang"
	"github.com/gin-gonic/gin"
	amqp "github.com/rabbitmq/amqp091-go"
	"go.uber.org/zap"

	handler "github.com/chim712/shuttle-roid-TestServer/module/live/internal/handler/http"
	"github.com/chim712/shuttle-roid-TestServer/module/live/internal/handler/subscriber"
	"github.com/chim712/shuttle-roid-TestServer/module/live/internal/repository/publisher"
	"github.com/chim712/shuttle-roid-TestServer/module/live/internal/repository/publisher/rabbitmq"
	"github.com/chim712/shuttle-roid-TestServer/module/live/internal/repository/store/memory"
	"github.com/chim712/shuttle-roid-TestServer/module/live/service"
)

type Module struct {
	ReportSvc  *service.ReportService
	Store      *memory.LatestStore
	handler    *handler.ReportHandler
	subscriber *subscriber.ReportSubscriber
}

// Build wires the ingestion store. A nil amqpConn disables the event
// publisher; an empty mqttTopic disables MQTT ingestion.
func Build(amqpConn *amqp.Connection, mqttTopic string, logger *zap.SugaredLogger) (*Module, error) {
	latestStore := memory.NewLatestStore()

	var pub publisher.ReportPublisher = publisher.Nop{}
	if amqpConn != nil {
		rp, err := rabbitmq.NewReportPublisher(amqpConn)
		if err != nil {
			return nil, fmt.Errorf("report publisher: %w", err)
		}
		pub = rp
	}

	reportSvc := service.NewReportService(latestStore, pub, logger)

	m := &Module{
		ReportSvc: reportSvc,
		Store:     latestStore,
		handler:   handler.NewReportHandler(reportSvc),
	}
	if mqttTopic != "" {
		m.subscriber = subscriber.NewReportSubscriber(mqttTopic, reportSvc, logger)
	}
	return m, nil
}

func (m *Module) RegisterRoutes(r *gin.RouterGroup) {
	m.handler.Register(r)
}

// OnMQTTConnect is passed to the MQTT client as its connect handler.
func (m *Module) OnMQTTConnect(client mqtt.Client) {
	if m.subscriber == nil {
		return
	}
	m.subscriber.OnConnect(client)
}
