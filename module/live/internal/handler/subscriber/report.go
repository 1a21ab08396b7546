package subscriber

import (
	"context"
	"errors"

	mqtt "github.com/eclipse/paho.mqtt.golang"
	"go.uber.org/zap"

	"github.com/chim712/shuttle-roid-TestServer/module/live/domain"
)

const sourceMQTT = "mqtt"

type reportService interface {
	Ingest(ctx context.Context, body []byte, source string) (*domain.StoredRecord, error)
}

type ReportSubscriber struct {
	topic     string
	reportSvc reportService
	logger    *zap.SugaredLogger
}

func NewReportSubscriber(topic string, reportSvc reportService, logger *zap.SugaredLogger) *ReportSubscriber {
	return &ReportSubscriber{
		topic:     topic,
		reportSvc: reportSvc,
		logger:    logger,
	}
}

func (s *ReportSubscriber) Subscribe(client mqtt.Client) error {
	token := client.Subscribe(s.topic, 1, s.handleMessage)
	token.Wait()
	return token.Error()
}

// OnConnect is an mqtt.OnConnectHandler. The broker drops subscriptions of a
// clean session on disconnect, so every reconnect subscribes again.
func (s *ReportSubscriber) OnConnect(client mqtt.Client) {
	if err := s.Subscribe(client); err != nil {
		s.logger.Errorw("mqtt subscribe failed", "topic", s.topic, "error", err)
		return
	}
	s.logger.Infow("mqtt subscribed", "topic", s.topic)
}

func (s *ReportSubscriber) handleMessage(_ mqtt.Client, msg mqtt.Message) {
	rec, err := s.reportSvc.Ingest(context.Background(), msg.Payload(), sourceMQTT)
	if err != nil {
		var verr *domain.ValidationError
		if errors.As(err, &verr) {
			s.logger.Warnw("invalid report message", "topic", msg.Topic(), "error", err)
			return
		}
		s.logger.Errorw("ingest report error", "topic", msg.Topic(), "error", err)
		return
	}

	s.logger.Debugw("report ingested", "topic", msg.Topic(), "vehicle_no", rec.Payload.VehicleNo)
}
