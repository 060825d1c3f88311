package refresh

import (
	"context"
	"fmt"
	"time"

	"go-retail/internal/config"
	"go-retail/internal/features/metrics"

	"github.com/robfig/cron/v3"
	"go.uber.org/zap"
)

const (
	rebuildTimeout    = 60 * time.Second
	rebuildWindowDays = 30
)

// RefreshService rebuilds the default-window snapshot on a schedule so the
// latest snapshot (and every sink behind it) stays warm between interactive
// requests.
type RefreshService interface {
	Start(ctx context.Context) error
	Stop() error
}

type RefreshServiceImpl struct {
	metricsService metrics.MetricsService
	log            *zap.Logger
	spec           string

	scheduler *cron.Cron
}

func NewRefreshService(cfg *config.Config, metricsService metrics.MetricsService, log *zap.Logger) RefreshService {
	return &RefreshServiceImpl{
		metricsService: metricsService,
		log:            log,
		spec:           cfg.SnapshotRefresh,
	}
}

func (s *RefreshServiceImpl) Start(ctx context.Context) error {
	if _, err := cron.ParseStandard(s.spec); err != nil {
		return fmt.Errorf("invalid snapshot refresh expression: %w", err)
	}

	s.scheduler = cron.New()
	if _, err := s.scheduler.AddFunc(s.spec, s.rebuild); err != nil {
		return err
	}
	s.scheduler.Start()

	s.log.Info("snapshot refresh scheduler started", zap.String("spec", s.spec))

	// Warm the first snapshot in the background so Latest() serves something
	// before the first tick.
	go s.rebuild()
	return nil
}

func (s *RefreshServiceImpl) Stop() error {
	if s.scheduler != nil {
		s.scheduler.Stop()
	}
	return nil
}

func (s *RefreshServiceImpl) rebuild() {
	ctx, cancel := context.WithTimeout(context.Background(), rebuildTimeout)
	defer cancel()

	end := time.Now()
	filters := metrics.SnapshotFilters{
		Start: end.AddDate(0, 0, -rebuildWindowDays),
		End:   end,
	}

	snap, err := s.metricsService.BuildSnapshot(ctx, filters)
	if err != nil {
		s.log.Error("scheduled snapshot rebuild failed", zap.Error(err))
		return
	}
	s.log.Info("scheduled snapshot rebuilt",
		zap.Int("sales", snap.Overview.SaleCount),
		zap.Strings("degraded", snap.Degraded))
}
