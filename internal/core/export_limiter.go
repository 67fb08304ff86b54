package core

// export_limiter.go bounds how many table exports are built at once.
//
// Each export copies, filters and sorts the session's rows and, for XLSX,
// assembles a workbook in memory. A semaphore caps parallel builds; a
// request that cannot get a slot within maxWait fails with
// ErrTooManyExports. WaitForDrain lets shutdown finish running exports.

import (
	"context"
	"errors"
	"sync/atomic"
	"time"
)

// ErrTooManyExports is returned when every export slot stays busy for the
// whole wait.
var ErrTooManyExports = errors.New("export failed: too many concurrent exports")

const (
	DefaultMaxConcurrentExports = 4
	DefaultExportWait           = 10 * time.Second
)

// ExportLimiter is a counting semaphore for export builds.
type ExportLimiter struct {
	slots   chan struct{}
	maxWait time.Duration
	active  atomic.Int64
}

// NewExportLimiter allows at most maxConcurrent exports. Non-positive
// arguments take the defaults.
func NewExportLimiter(maxConcurrent int, maxWait time.Duration) *ExportLimiter {
	if maxConcurrent <= 0 {
		maxConcurrent = DefaultMaxConcurrentExports
	}
	if maxWait <= 0 {
		maxWait = DefaultExportWait
	}
	return &ExportLimiter{
		slots:   make(chan struct{}, maxConcurrent),
		maxWait: maxWait,
	}
}

// Acquire takes a slot, waiting up to maxWait. The returned release func
// must be called exactly once.
func (l *ExportLimiter) Acquire(ctx context.Context) (release func(), err error) {
	timer := time.NewTimer(l.maxWait)
	defer timer.Stop()

	select {
	case l.slots <- struct{}{}:
		l.active.Add(1)
		var done atomic.Bool
		return func() {
			if done.CompareAndSwap(false, true) {
				l.active.Add(-1)
				<-l.slots
			}
		}, nil
	case <-timer.C:
		return nil, ErrTooManyExports
	case <-ctx.Done():
		return nil, ctx.Err()
	}
}

// Active returns the number of exports in progress.
func (l *ExportLimiter) Active() int {
	return int(l.active.Load())
}

// WaitForDrain blocks until no export is running or ctx ends.
func (l *ExportLimiter) WaitForDrain(ctx context.Context) error {
	ticker := time.NewTicker(100 * time.Millisecond)
	defer ticker.Stop()

	for l.Active() > 0 {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-ticker.C:
		}
	}
	return nil
}

// ExportLimiterStatus is a snapshot for health output.
type ExportLimiterStatus struct {
	Active        int `json:"active"`
	Available     int `json:"available"`
	MaxConcurrent int `json:"max_concurrent"`
}

// Status returns the current limiter state.
func (l *ExportLimiter) Status() ExportLimiterStatus {
	return ExportLimiterStatus{
		Active:        l.Active(),
		Available:     cap(l.slots) - len(l.slots),
		MaxConcurrent: cap(l.slots),
	}
}
