package metrics

import (
	"context"
	"fmt"
	"sync"

	"go.uber.org/zap"
	"golang.org/x/sync/singleflight"
)

// SnapshotSink receives every freshly applied snapshot (live push, alert
// evaluation). Publish must not block for long; sinks own their buffering.
type SnapshotSink interface {
	Publish(snap *OperationalSnapshot)
}

type MetricsService interface {
	// BuildSnapshot assembles a fresh snapshot for the given filters and, if
	// it is still the newest requested build, makes it the latest one.
	BuildSnapshot(ctx context.Context, filters SnapshotFilters) (*OperationalSnapshot, error)

	// Latest returns the most recently applied snapshot, or nil before the
	// first build completes.
	Latest() *OperationalSnapshot
}

type MetricsServiceImpl struct {
	assembler *Assembler
	log       *zap.Logger
	sinks     []SnapshotSink

	flight singleflight.Group

	mu         sync.Mutex
	latest     *OperationalSnapshot
	generation uint64 // handed to each build request, monotonically increasing
	applied    uint64 // generation of the snapshot currently held in latest
}

func NewMetricsService(assembler *Assembler, log *zap.Logger, sinks []SnapshotSink) MetricsService {
	return &MetricsServiceImpl{
		assembler: assembler,
		log:       log,
		sinks:     sinks,
	}
}

func (s *MetricsServiceImpl) BuildSnapshot(ctx context.Context, filters SnapshotFilters) (*OperationalSnapshot, error) {
	// Identical concurrent requests (same window, same store) share one build,
	// and the apply/publish below runs once per underlying build, never once
	// per coalesced caller.
	v, err, _ := s.flight.Do(flightKey(filters), func() (interface{}, error) {
		// The generation is taken before the fetch fan-out starts so that a
		// stale, slower-resolving build can never overwrite a more recent one.
		s.mu.Lock()
		s.generation++
		generation := s.generation
		s.mu.Unlock()

		snap := s.assembler.BuildSnapshot(ctx, filters)

		s.mu.Lock()
		fresh := generation > s.applied
		if fresh {
			s.applied = generation
			s.latest = snap
		}
		s.mu.Unlock()

		if fresh {
			for _, sink := range s.sinks {
				sink.Publish(snap)
			}
		} else {
			s.log.Debug("discarding stale snapshot build",
				zap.Uint64("generation", generation))
		}
		return snap, nil
	})
	if err != nil {
		return nil, err
	}
	return v.(*OperationalSnapshot), nil
}

func (s *MetricsServiceImpl) Latest() *OperationalSnapshot {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.latest
}

func flightKey(filters SnapshotFilters) string {
	store := ""
	if filters.StoreID != nil {
		store = filters.StoreID.Hex()
	}
	return fmt.Sprintf("%d|%d|%s", filters.Start.Unix(), filters.End.Unix(), store)
}
