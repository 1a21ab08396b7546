package service

import (
	"context"
	"fmt"
	"time"

	"go.uber.org/zap"

	"github.com/chim712/shuttle-roid-TestServer/module/live/domain"
	"github.com/chim712/shuttle-roid-TestServer/module/live/internal/repository/publisher"
	"github.com/chim712/shuttle-roid-TestServer/module/live/internal/repository/store"
)

const unknownSource = "unknown"

type ReportService struct {
	repo      store.LatestRepository
	publisher publisher.ReportPublisher
	logger    *zap.SugaredLogger
	now       func() time.Time
}

func NewReportService(repo store.LatestRepository, pub publisher.ReportPublisher, logger *zap.SugaredLogger) *ReportService {
	if pub == nil {
		pub = publisher.Nop{}
	}
	return &ReportService{
		repo:      repo,
		publisher: pub,
		logger:    logger,
		now:       time.Now,
	}
}

// Ingest validates body, stamps it and replaces the stored record. Publishing
// the event is best-effort and never fails the ingest.
func (s *ReportService) Ingest(ctx context.Context, body []byte, source string) (*domain.StoredRecord, error) {
	report, err := domain.DecodeReport(body)
	if err != nil {
		return nil, err
	}

	if source == "" {
		source = unknownSource
	}
	rec := &domain.StoredRecord{
		ReceivedAt: s.now().Format(domain.ReceivedAtLayout),
		SourceIP:   source,
		Payload:    report,
	}

	if err := s.repo.Put(ctx, rec); err != nil {
		return nil, fmt.Errorf("store report: %w", err)
	}

	if err := s.publisher.PublishReceived(ctx, rec); err != nil {
		s.logger.Warnw("publish report event failed", "vehicle_no", report.VehicleNo, "error", err)
	}
	return rec, nil
}

func (s *ReportService) GetLatest(ctx context.Context) (*domain.StoredRecord, bool, error) {
	return s.repo.Latest(ctx)
}
