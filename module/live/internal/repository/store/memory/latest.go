package memory

import (
	"context"
	"sync"

	"github.com/chim712/shuttle-roid-TestServer/module/live/domain"
	"github.com/chim712/shuttle-roid-TestServer/module/live/internal/repository/store"
)

var _ store.LatestRepository = (*LatestStore)(nil)

type LatestStore struct {
	mu     sync.RWMutex
	latest *domain.StoredRecord
}

func NewLatestStore() *LatestStore {
	return &LatestStore{}
}

// Put copies rec before taking the lock so readers never see a record
// the caller is still mutating.
func (s *LatestStore) Put(_ context.Context, rec *domain.StoredRecord) error {
	cp := *rec

	s.mu.Lock()
	s.latest = &cp
	s.mu.Unlock()
	return nil
}

func (s *LatestStore) Latest(_ context.Context) (*domain.StoredRecord, bool, error) {
	s.mu.RLock()
	cur := s.latest
	s.mu.RUnlock()

	if cur == nil {
		return nil, false, nil
	}
	cp := *cur
	return &cp, true, nil
}

func (s *LatestStore) Reset() {
	s.mu.Lock()
	s.latest = nil
	s.mu.Unlock()
}
