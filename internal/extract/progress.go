package extract

import (
	"sync"
	"sync/atomic"
	"time"

	"github.com/shellcmdr/shellcmdr/internal/dialog"
)

// DefaultReportInterval is how often the reporting worker samples the shared
// counter.
const DefaultReportInterval = 100 * time.Millisecond

// Percent maps accumulated work onto a 0-100 percentage, capped at 100.
// A zero max reports 0: the reporter must never show completion while the
// extraction is still in flight, and success pushes its own explicit 100.
func Percent(value, max uint64) int {
	if max == 0 {
		return 0
	}
	pct := int(value * 100 / max)
	if pct > 100 {
		pct = 100
	}
	return pct
}

// reporter is the secondary worker that periodically reads the shared
// progress counter and pushes a derived percentage to the UI. It must be
// joined before the extraction call returns: after that the counter it reads
// belongs to nobody.
type reporter struct {
	value    *atomic.Uint64
	max      uint64
	ui       dialog.UI
	interval time.Duration

	quit     chan struct{}
	done     chan struct{}
	stopOnce sync.Once
}

func newReporter(value *atomic.Uint64, max uint64, ui dialog.UI, interval time.Duration) *reporter {
	if interval <= 0 {
		interval = DefaultReportInterval
	}
	return &reporter{
		value:    value,
		max:      max,
		ui:       ui,
		interval: interval,
		quit:     make(chan struct{}),
		done:     make(chan struct{}),
	}
}

// start spawns the reporting worker.
func (r *reporter) start() {
	go r.run()
}

func (r *reporter) run() {
	defer close(r.done)
	ticker := time.NewTicker(r.interval)
	defer ticker.Stop()
	for {
		select {
		case <-r.quit:
			return
		case <-ticker.C:
			r.ui.SetProgress(Percent(r.value.Load(), r.max))
		}
	}
}

// stop signals the worker and waits for it to fully terminate. Safe to call
// more than once.
func (r *reporter) stop() {
	r.stopOnce.Do(func() {
		close(r.quit)
	})
	<-r.done
}
