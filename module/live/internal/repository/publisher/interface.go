package publisher

import (
	"context"

	"github.com/chim712/shuttle-roid-TestServer/module/live/domain"
)

type ReportPublisher interface {
	PublishReceived(ctx context.Context, rec *domain.StoredRecord) error
}

// Nop is used when no broker is configured.
type Nop struct{}

func (Nop) PublishReceived(context.Context, *domain.StoredRecord) error { return nil }
