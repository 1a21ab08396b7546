package store

import (
	"context"

	"github.com/chim712/shuttle-roid-TestServer/module/live/domain"
)

// LatestRepository holds at most one record. Put replaces it wholesale.
type LatestRepository interface {
	Put(ctx context.Context, rec *domain.StoredRecord) error
	Latest(ctx context.Context) (*domain.StoredRecord, bool, error)
}
