// internal/app/system/workers/pageviewcleanup.go
package workers

import (
	"sync"
	"time"

	"github.com/dalemusser/studentdash/internal/app/store/pageviews"
	"github.com/dalemusser/studentdash/internal/app/system/metrics"
	"go.uber.org/zap"
)

// PageViewCleanup is a background worker that evicts idle and closed
// dashboard page views, cancelling any fetch still bound to them.
type PageViewCleanup struct {
	views         *pageviews.Store
	log           *zap.Logger
	interval      time.Duration
	idleThreshold time.Duration
	stopCh        chan struct{}
	stopOnce      sync.Once
	wg            sync.WaitGroup
}

// NewPageViewCleanup creates a new page view cleanup worker.
//
// Parameters:
//   - views: the page view store
//   - logger: zap logger for logging
//   - interval: how often to sweep (e.g., 1 minute)
//   - idleThreshold: how long a page view may go unused before eviction (e.g., 30 minutes)
func NewPageViewCleanup(views *pageviews.Store, logger *zap.Logger, interval, idleThreshold time.Duration) *PageViewCleanup {
	return &PageViewCleanup{
		views:         views,
		log:           logger,
		interval:      interval,
		idleThreshold: idleThreshold,
		stopCh:        make(chan struct{}),
	}
}

// Start begins the background cleanup loop.
func (w *PageViewCleanup) Start() {
	w.wg.Add(1)
	go w.run()
	w.log.Info("page view cleanup worker started",
		zap.Duration("interval", w.interval),
		zap.Duration("idle_threshold", w.idleThreshold))
}

// Stop signals the worker to stop and waits for it to finish.
// It is safe to call more than once.
func (w *PageViewCleanup) Stop() {
	w.stopOnce.Do(func() {
		close(w.stopCh)
		w.wg.Wait()
		w.log.Info("page view cleanup worker stopped")
	})
}

// RunOnce performs a single sweep and returns how many page views were evicted.
func (w *PageViewCleanup) RunOnce() int {
	n := w.views.Sweep(w.idleThreshold)
	metrics.OpenPageViews.Set(float64(w.views.Len()))
	if n > 0 {
		w.log.Debug("evicted page views", zap.Int("count", n))
	}
	return n
}

func (w *PageViewCleanup) run() {
	defer w.wg.Done()

	ticker := time.NewTicker(w.interval)
	defer ticker.Stop()

	for {
		select {
		case <-w.stopCh:
			return
		case <-ticker.C:
			w.RunOnce()
		}
	}
}
