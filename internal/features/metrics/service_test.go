package metrics

import (
	"context"
	"sync"
	"testing"
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.uber.org/zap"
)

type captureSink struct {
	mu        sync.Mutex
	published []*OperationalSnapshot
}

func (c *captureSink) Publish(snap *OperationalSnapshot) {
	c.mu.Lock()
	c.published = append(c.published, snap)
	c.mu.Unlock()
}

func (c *captureSink) count() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return len(c.published)
}

func TestServiceBuildAndLatest(t *testing.T) {
	sink := &captureSink{}
	svc := NewMetricsService(NewAssembler(fixturePort(), zap.NewNop()), zap.NewNop(), []SnapshotSink{sink})

	if svc.Latest() != nil {
		t.Fatal("Latest should be nil before the first build")
	}

	snap, err := svc.BuildSnapshot(context.Background(), testFilters())
	if err != nil {
		t.Fatalf("BuildSnapshot: %v", err)
	}
	if svc.Latest() != snap {
		t.Error("Latest should return the snapshot just applied")
	}
	if sink.count() != 1 || sink.published[0] != snap {
		t.Errorf("sink received %d snapshots, want the applied one once", sink.count())
	}
}

func TestServiceStaleBuildDoesNotOverwrite(t *testing.T) {
	// First build starts, then stalls in its fetch; a second build with a
	// different window starts later and finishes first. When the stalled
	// build resolves, it must not displace the newer snapshot.
	gate := make(chan struct{})
	started := make(chan struct{})
	port := fixturePort()
	staleFilters := testFilters()

	// Gate only the build whose window matches the stale request; the fresh
	// build's fetches pass straight through.
	port.salesHook = func(opts FetchOptions) {
		if opts.End != nil && opts.End.Equal(staleFilters.End) {
			close(started)
			<-gate
		}
	}

	sink := &captureSink{}
	svc := NewMetricsService(NewAssembler(port, zap.NewNop()), zap.NewNop(), []SnapshotSink{sink})
	var staleSnap *OperationalSnapshot
	done := make(chan struct{})
	go func() {
		staleSnap, _ = svc.BuildSnapshot(context.Background(), staleFilters)
		close(done)
	}()

	<-started

	freshFilters := testFilters()
	freshFilters.End = freshFilters.End.AddDate(0, 0, 7)
	freshSnap, err := svc.BuildSnapshot(context.Background(), freshFilters)
	if err != nil {
		t.Fatalf("fresh build: %v", err)
	}
	if svc.Latest() != freshSnap {
		t.Fatal("fresh snapshot should be latest")
	}

	close(gate)
	<-done

	if svc.Latest() != freshSnap {
		t.Error("stale build overwrote a newer snapshot")
	}
	if staleSnap == nil {
		t.Error("stale build should still return its snapshot to its caller")
	}
	// Only the fresh snapshot reaches the sinks.
	if sink.count() != 1 || sink.published[0] != freshSnap {
		t.Errorf("sinks received %d snapshots, want only the fresh one", sink.count())
	}
}

func TestServiceCoalescesIdenticalRequests(t *testing.T) {
	gate := make(chan struct{})
	entered := make(chan struct{}, 8)
	port := fixturePort()
	port.salesHook = func(FetchOptions) {
		entered <- struct{}{}
		<-gate
	}

	sink := &captureSink{}
	svc := NewMetricsService(NewAssembler(port, zap.NewNop()), zap.NewNop(), []SnapshotSink{sink})
	filters := testFilters()

	results := make(chan *OperationalSnapshot, 2)
	for i := 0; i < 2; i++ {
		go func() {
			snap, _ := svc.BuildSnapshot(context.Background(), filters)
			results <- snap
		}()
	}

	// Exactly one underlying build should start for identical filters.
	<-entered
	select {
	case <-entered:
		t.Error("identical concurrent requests should share one build")
	case <-time.After(50 * time.Millisecond):
	}
	close(gate)

	first, second := <-results, <-results
	if first != second {
		t.Error("coalesced requests should receive the same snapshot")
	}
	// One underlying build means one publication, not one per caller: sinks
	// like the alert evaluator record an event for every snapshot they see.
	if sink.count() != 1 {
		t.Errorf("sinks received %d publications for one build, want 1", sink.count())
	}
}

func TestFlightKey(t *testing.T) {
	filters := testFilters()
	base := flightKey(filters)

	storeID := primitive.NewObjectID()
	withStore := filters
	withStore.StoreID = &storeID
	if flightKey(withStore) == base {
		t.Error("store filter must change the coalescing key")
	}

	shifted := filters
	shifted.End = shifted.End.Add(24 * time.Hour)
	if flightKey(shifted) == base {
		t.Error("window must change the coalescing key")
	}
}
