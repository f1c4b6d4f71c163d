package engine

import (
	"context"
	"fmt"
	"log"
	"sync/atomic"
	"time"

	"github.com/transit-tools/line-uptime/uptime"
)

// Source produces a best-effort, possibly-partial snapshot of delay
// judgments across lines. Both observation variants implement it.
type Source interface {
	Name() string
	FetchSnapshot(ctx context.Context) (uptime.Snapshot, error)
}

// Engine drives the periodic observe/reconcile cycle.
type Engine struct {
	source   Source
	store    *uptime.Store
	interval time.Duration

	lastCycle atomic.Int64

	stopCh chan struct{}
	doneCh chan struct{}
}

// New creates an engine polling the source on the given interval.
func New(source Source, store *uptime.Store, interval time.Duration) *Engine {
	if interval <= 0 {
		interval = 59 * time.Second
	}
	return &Engine{
		source:   source,
		store:    store,
		interval: interval,
		stopCh:   make(chan struct{}),
		doneCh:   make(chan struct{}),
	}
}

// Start runs one cycle synchronously so state is seeded before the first
// query, then launches the periodic loop.
func (e *Engine) Start() {
	if err := e.RunOnce(context.Background()); err != nil {
		log.Printf("initial cycle skipped: %v", err)
	}
	go e.run()
}

// Stop requests loop termination and waits until it is done. In-flight
// fetches are not cancelled; their cycles complete or fail on their own.
func (e *Engine) Stop() {
	select {
	case <-e.doneCh:
		return
	default:
	}
	close(e.stopCh)
	<-e.doneCh
}

// RunOnce executes a single observation cycle. On fetch failure no record
// is touched and the error is returned.
func (e *Engine) RunOnce(ctx context.Context) error {
	snap, err := e.source.FetchSnapshot(ctx)
	if err != nil {
		return fmt.Errorf("%s fetch: %w", e.source.Name(), err)
	}
	e.store.Apply(snap)
	e.lastCycle.Store(time.Now().Unix())
	return nil
}

// LastCycleEpoch returns the unix time of the last completed cycle, 0 if
// none has completed yet.
func (e *Engine) LastCycleEpoch() int64 {
	return e.lastCycle.Load()
}

func (e *Engine) run() {
	defer close(e.doneCh)

	ticker := time.NewTicker(e.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ticker.C:
			// Fire and forget: a slow fetch must not hold up later
			// cycles. Apply serializes on the store's lock.
			go func() {
				if err := e.RunOnce(context.Background()); err != nil {
					log.Printf("cycle skipped: %v", err)
				}
			}()
		case <-e.stopCh:
			return
		}
	}
}
