package sync

import (
	"context"
	"errors"
	"log"
	"sync"
	"time"
)

// ErrSyncInProgress is returned when a cycle is requested while another is
// still running. The losing request is dropped, not queued.
var ErrSyncInProgress = errors.New("sync already in progress")

// Runner is what the worker drives; *Syncer satisfies it.
type Runner interface {
	RunOnce(ctx context.Context) error
}

// Worker triggers the syncer on a fixed cadence and serves manual triggers.
// Cycles never overlap: the mutex makes each tick and each RunNow call
// single-flight.
type Worker struct {
	Syncer   Runner
	Interval time.Duration

	mu sync.Mutex
}

func NewWorker(syncer Runner, interval time.Duration) *Worker {
	return &Worker{Syncer: syncer, Interval: interval}
}

// Start runs the cadence loop until ctx is canceled. Call it in a goroutine.
func (w *Worker) Start(ctx context.Context) {
	ticker := time.NewTicker(w.Interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			if err := w.RunNow(ctx); err != nil && !errors.Is(err, ErrSyncInProgress) {
				log.Printf("sync: scheduled cycle failed: %v", err)
			}
		}
	}
}

// RunNow runs one cycle immediately, or reports ErrSyncInProgress when a
// cycle is already running.
func (w *Worker) RunNow(ctx context.Context) error {
	if !w.mu.TryLock() {
		log.Println("sync: cycle requested while another is running, skipping")
		return ErrSyncInProgress
	}
	defer w.mu.Unlock()

	return w.Syncer.RunOnce(ctx)
}
