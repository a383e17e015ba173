package extract

import (
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/shellcmdr/shellcmdr/internal/dialog"
)

func TestPercent(t *testing.T) {
	tests := []struct {
		name  string
		value uint64
		max   uint64
		want  int
	}{
		{"zero of max", 0, 1200, 0},
		{"half", 600, 1200, 50},
		{"complete", 1200, 1200, 100},
		{"overshoot capped", 1500, 1200, 100},
		{"empty max stays at zero", 0, 0, 0},
		{"empty max ignores credited work", 50, 0, 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := Percent(tt.value, tt.max); got != tt.want {
				t.Errorf("Percent(%d, %d) = %d, want %d", tt.value, tt.max, got, tt.want)
			}
		})
	}
}

// progressUI records only progress pushes.
type progressUI struct {
	mu       sync.Mutex
	progress []int
}

func (u *progressUI) AskQuestion(string)                   {}
func (u *progressUI) InitProgress(string)                  {}
func (u *progressUI) Close()                               {}
func (u *progressUI) ShowError(dialog.ErrorCode, error)    {}
func (u *progressUI) SetProgress(percent int) {
	u.mu.Lock()
	defer u.mu.Unlock()
	u.progress = append(u.progress, percent)
}

func (u *progressUI) count() int {
	u.mu.Lock()
	defer u.mu.Unlock()
	return len(u.progress)
}

func (u *progressUI) values() []int {
	u.mu.Lock()
	defer u.mu.Unlock()
	out := make([]int, len(u.progress))
	copy(out, u.progress)
	return out
}

func TestReporterPushesDerivedPercentage(t *testing.T) {
	var counter atomic.Uint64
	ui := &progressUI{}
	rep := newReporter(&counter, 1200, ui, time.Millisecond)

	counter.Store(600)
	rep.start()

	deadline := time.Now().Add(2 * time.Second)
	for ui.count() == 0 && time.Now().Before(deadline) {
		time.Sleep(time.Millisecond)
	}
	rep.stop()

	values := ui.values()
	if len(values) == 0 {
		t.Fatal("reporter pushed no progress")
	}
	for _, v := range values {
		if v != 50 {
			t.Errorf("progress = %d, want 50", v)
		}
	}
}

func TestReporterNeverExceedsHundred(t *testing.T) {
	var counter atomic.Uint64
	counter.Store(99999)
	ui := &progressUI{}
	rep := newReporter(&counter, 1200, ui, time.Millisecond)
	rep.start()

	time.Sleep(20 * time.Millisecond)
	rep.stop()

	for _, v := range ui.values() {
		if v > 100 {
			t.Fatalf("progress %d exceeds 100", v)
		}
	}
}

func TestReporterStopsReadingAfterJoin(t *testing.T) {
	var counter atomic.Uint64
	ui := &progressUI{}
	rep := newReporter(&counter, 1200, ui, time.Millisecond)
	rep.start()
	time.Sleep(10 * time.Millisecond)
	rep.stop()

	before := ui.count()
	counter.Store(1200)
	time.Sleep(20 * time.Millisecond)
	if after := ui.count(); after != before {
		t.Errorf("reporter still pushing after stop: %d -> %d", before, after)
	}

	// stop is safe to call again.
	rep.stop()
}
