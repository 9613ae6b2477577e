package keyvault

import (
	"context"
	"sync"
	"time"

	"github.com/benbjohnson/clock"
)

// rateGate spaces the starts of successive operations at least one interval
// apart. Admission works by handing each caller the next free slot on a shared
// schedule, so the spacing holds no matter how many goroutines arrive at once
// and no matter how long each operation runs after admission.
type rateGate struct {
	clk      clock.Clock
	interval time.Duration

	mu   sync.Mutex
	next time.Time
}

func newRateGate(clk clock.Clock, interval time.Duration) *rateGate {
	return &rateGate{
		clk:      clk,
		interval: interval,
	}
}

// wait blocks until the caller's slot arrives. It returns early with the
// context's error when ctx is done first.
func (g *rateGate) wait(ctx context.Context) error {
	g.mu.Lock()
	now := g.clk.Now()
	slot := g.next
	if slot.Before(now) {
		slot = now
	}
	g.next = slot.Add(g.interval)
	g.mu.Unlock()

	delay := slot.Sub(now)
	if delay <= 0 {
		return ctx.Err()
	}

	timer := g.clk.Timer(delay)
	defer timer.Stop()

	select {
	case <-timer.C:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}
