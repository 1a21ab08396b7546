package rabbitmq

import (
	"context"
	"fmt"

	amqp "github.com/rabbitmq/amqp091-go"
	"github.com/segmentio/encoding/json"

	"github.com/chim712/shuttle-roid-TestServer/module/live/domain"
	"github.com/chim712/shuttle-roid-TestServer/module/live/internal/repository/publisher"
)

var _ publisher.ReportPublisher = (*ReportPublisher)(nil)

const (
	ExchangeName = "shuttle.events"
	QueueName    = "report_events"

	eventReceived = "report.received"
)

type channel interface {
	PublishWithContext(ctx context.Context, exchange, key string, mandatory, immediate bool, msg amqp.Publishing) error
}

type ReportPublisher struct {
	ch channel
}

func NewReportPublisher(conn *amqp.Connection) (*ReportPublisher, error) {
	ch, err := conn.Channel()
	if err != nil {
		return nil, fmt.Errorf("rabbitmq channel: %w", err)
	}

	if err := ch.ExchangeDeclare(ExchangeName, "fanout", true, false, false, false, nil); err != nil {
		return nil, fmt.Errorf("declare exchange: %w", err)
	}

	if _, err := ch.QueueDeclare(QueueName, true, false, false, false, nil); err != nil {
		return nil, fmt.Errorf("declare queue: %w", err)
	}

	if err := ch.QueueBind(QueueName, "", ExchangeName, false, nil); err != nil {
		return nil, fmt.Errorf("bind queue: %w", err)
	}

	return &ReportPublisher{ch: ch}, nil
}

type eventMessage struct {
	Event  string               `json:"event"`
	Record *domain.StoredRecord `json:"record"`
}

func (p *ReportPublisher) PublishReceived(ctx context.Context, rec *domain.StoredRecord) error {
	body, err := json.Marshal(eventMessage{Event: eventReceived, Record: rec})
	if err != nil {
		return fmt.Errorf("marshal event: %w", err)
	}

	return p.ch.PublishWithContext(ctx, ExchangeName, "", false, false, amqp.Publishing{
		ContentType: "application/json",
		Type:        eventReceived,
		Body:        body,
	})
}
