// Package dialog provides the process-wide dialog step store and the
// user-facing dialog collaborator used by the update pipeline.
//
// The step store is the single piece of cross-worker mutable state in the
// pipeline. It is last-write-wins shared state, not a queue and not a lock:
// workers poll it with a fixed delay to observe transitions made elsewhere.
// Readers tolerate staleness; the value only steers which modal stage the UI
// renders next.
package dialog

import (
	"context"
	"sync/atomic"
	"time"
)

// Step identifies which modal stage of a long-running operation is live.
// Exactly one value is live at a time across the whole process.
type Step int32

const (
	// StepNone means no dialog is active. The store is reset to StepNone
	// at idle and when the user declines a question.
	StepNone Step = iota
	// StepUpdateQuestion is live while the update confirmation prompt waits
	// for an answer.
	StepUpdateQuestion
	// StepDownloading is set when the user accepted the update question.
	StepDownloading
	// StepDownloaded is set once the installer package landed on storage.
	StepDownloaded
	// StepExtracting is live while the extraction supervisor runs.
	StepExtracting
	// StepExtracted is the terminal success marker of an extraction.
	StepExtracted
	// StepCanceled is the terminal failure/cancel marker of an extraction
	// or of the accept-branch download.
	StepCanceled
	// StepError is the terminal marker of a fatal failure in any pipeline
	// stage other than an in-flight extraction cancel.
	StepError
)

// String returns a short name for the step.
func (s Step) String() string {
	switch s {
	case StepNone:
		return "none"
	case StepUpdateQuestion:
		return "update-question"
	case StepDownloading:
		return "downloading"
	case StepDownloaded:
		return "downloaded"
	case StepExtracting:
		return "extracting"
	case StepExtracted:
		return "extracted"
	case StepCanceled:
		return "canceled"
	case StepError:
		return "error"
	default:
		return "unknown"
	}
}

// DefaultPollInterval is the delay between step polls. The original polling
// design is deliberately cheap: tens of milliseconds is fast enough for a
// human-driven dialog and costs nothing measurable.
const DefaultPollInterval = 10 * time.Millisecond

// Store holds the current dialog step. Any worker may read or write it;
// the atomic word is the only synchronization. There is no notification
// channel on purpose: consumers poll via WaitWhile.
type Store struct {
	step atomic.Int32
}

// NewStore creates a store at StepNone.
func NewStore() *Store {
	return &Store{}
}

// Step returns the current step.
func (s *Store) Step() Step {
	return Step(s.step.Load())
}

// SetStep overwrites the current step. Last write wins.
func (s *Store) SetStep(step Step) {
	s.step.Store(int32(step))
}

// Reset returns the store to StepNone.
func (s *Store) Reset() {
	s.SetStep(StepNone)
}

// WaitWhile blocks until the current step differs from step, polling every
// interval. It returns the step observed after the transition, or the
// context error if ctx ends first. An interval <= 0 falls back to
// DefaultPollInterval.
func (s *Store) WaitWhile(ctx context.Context, step Step, interval time.Duration) (Step, error) {
	if interval <= 0 {
		interval = DefaultPollInterval
	}
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		if cur := s.Step(); cur != step {
			return cur, nil
		}
		select {
		case <-ctx.Done():
			return s.Step(), ctx.Err()
		case <-ticker.C:
		}
	}
}
