// Package archive defines the archive gateway the extraction supervisor
// drives, together with the progress and cancellation capabilities passed
// into an extraction.
package archive

import (
	"errors"
	"sync/atomic"
)

// DirectoryWeight approximates the fixed progress cost of creating a
// directory entry. Byte size alone undercounts directory-only work, so the
// progress maximum is total bytes + folders * DirectoryWeight.
const DirectoryWeight uint64 = 4096

// ErrCanceled is returned by Extract when the cancel source fired.
// Cancellation is cooperative: it is polled between entries and chunks,
// never forced on an in-flight read.
var ErrCanceled = errors.New("archive: extraction canceled")

// PathInfo aggregates what lives under an archive path.
type PathInfo struct {
	Bytes   uint64 // total uncompressed file bytes
	Folders uint32 // directory entry count
	Files   uint32 // file entry count
}

// ProgressSink accumulates completed work units during an extraction.
type ProgressSink interface {
	Add(delta uint64)
}

// CancelSource tells the extraction whether to stop at the next poll point.
type CancelSource interface {
	Canceled() bool
}

// CounterSink is a ProgressSink over a shared atomic counter. The extraction
// worker writes it; a reporting worker may read it concurrently, tolerating
// benign staleness since it only drives a percentage display.
type CounterSink struct {
	Value *atomic.Uint64
}

// Add credits delta work units to the shared counter.
func (s CounterSink) Add(delta uint64) {
	s.Value.Add(delta)
}

// Archive is an opened archive handle.
type Archive interface {
	// PathInfo aggregates sizes and entry counts under root ("" for the
	// whole archive).
	PathInfo(root string) (PathInfo, error)

	// Extract unpacks everything under root into dst, crediting progress to
	// sink and polling cancel between entries and chunks. It returns
	// ErrCanceled when the cancel source fired.
	Extract(root, dst string, sink ProgressSink, cancel CancelSource) error

	// Close releases the archive.
	Close() error
}

// Gateway opens archives and owns password state.
type Gateway interface {
	// ClearPassword resets any password carried over from a previous
	// operation.
	ClearPassword()

	// Open opens the archive at path.
	Open(path string) (Archive, error)
}
