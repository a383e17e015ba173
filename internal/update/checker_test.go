package update

import (
	"context"
	"errors"
	"os"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/shellcmdr/shellcmdr/internal/config"
	"github.com/shellcmdr/shellcmdr/internal/dialog"
	"github.com/shellcmdr/shellcmdr/internal/download"
	"github.com/shellcmdr/shellcmdr/internal/logger"
)

// fakeGateway serves a canned descriptor and records package downloads.
type fakeGateway struct {
	mu sync.Mutex

	size       int64
	sizeErr    error
	descriptor []byte
	packageErr error

	packageDownloads int
}

func (g *fakeGateway) FileSize(ctx context.Context, url string) (int64, error) {
	return g.size, g.sizeErr
}

func (g *fakeGateway) Download(ctx context.Context, url, dst string, progress download.ProgressFunc) (int64, error) {
	g.mu.Lock()
	defer g.mu.Unlock()
	if strings.HasSuffix(url, config.VersionPath) {
		if err := os.WriteFile(dst, g.descriptor, 0o644); err != nil {
			return 0, err
		}
		return int64(len(g.descriptor)), nil
	}
	g.packageDownloads++
	if g.packageErr != nil {
		return 0, g.packageErr
	}
	if progress != nil {
		progress(50, 100)
		progress(100, 100)
	}
	if err := os.WriteFile(dst, []byte("pkg"), 0o644); err != nil {
		return 0, err
	}
	return 3, nil
}

func (g *fakeGateway) packageCount() int {
	g.mu.Lock()
	defer g.mu.Unlock()
	return g.packageDownloads
}

// recordUI records dialog interactions without rendering anything.
type recordUI struct {
	mu        sync.Mutex
	questions []string
	progress  []int
	errors    []dialog.ErrorCode
	closed    int
}

func (u *recordUI) AskQuestion(message string) {
	u.mu.Lock()
	defer u.mu.Unlock()
	u.questions = append(u.questions, message)
}

func (u *recordUI) InitProgress(title string) {}

func (u *recordUI) SetProgress(percent int) {
	u.mu.Lock()
	defer u.mu.Unlock()
	u.progress = append(u.progress, percent)
}

func (u *recordUI) Close() {
	u.mu.Lock()
	defer u.mu.Unlock()
	u.closed++
}

func (u *recordUI) ShowError(code dialog.ErrorCode, err error) {
	u.mu.Lock()
	defer u.mu.Unlock()
	u.errors = append(u.errors, code)
}

func (u *recordUI) questionCount() int {
	u.mu.Lock()
	defer u.mu.Unlock()
	return len(u.questions)
}

func newTestChecker(t *testing.T, gw *fakeGateway, running Version) (*Checker, *dialog.Store, *recordUI) {
	t.Helper()
	cfg := config.Default()
	cfg.DataRoot = t.TempDir()
	cfg.PollIntervalMS = 1
	store := dialog.NewStore()
	ui := &recordUI{}
	checker := NewChecker(cfg, gw, store, ui, logger.Nop()).WithRunning(running)
	return checker, store, ui
}

// waitForStep polls until the store reaches step or the deadline passes.
func waitForStep(t *testing.T, store *dialog.Store, step dialog.Step) {
	t.Helper()
	deadline := time.Now().Add(2 * time.Second)
	for time.Now().Before(deadline) {
		if store.Step() == step {
			return
		}
		time.Sleep(time.Millisecond)
	}
	t.Fatalf("store never reached step %v (at %v)", step, store.Step())
}

func TestCheckerReachesPromptWhenRemoteNewer(t *testing.T) {
	gw := &fakeGateway{size: DescriptorSize, descriptor: []byte{0x01, 0x30, 0x00, 0x00}}
	checker, store, ui := newTestChecker(t, gw, 0x01200000)

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	done := make(chan error, 1)
	go func() { done <- checker.Run(ctx) }()

	waitForStep(t, store, dialog.StepUpdateQuestion)
	if ui.questionCount() != 1 {
		t.Errorf("questions = %d, want 1", ui.questionCount())
	}

	// Decline.
	store.SetStep(dialog.StepNone)
	if err := <-done; err != nil {
		t.Fatalf("Run() error = %v", err)
	}
	if got := store.Step(); got != dialog.StepNone {
		t.Errorf("step after decline = %v, want none", got)
	}
	if gw.packageCount() != 0 {
		t.Errorf("package downloads after decline = %d, want 0", gw.packageCount())
	}
}

func TestCheckerAbortsWhenRemoteNotNewer(t *testing.T) {
	tests := []struct {
		name   string
		remote []byte
	}{
		{"equal", []byte{0x01, 0x20, 0x00, 0x00}},
		{"older", []byte{0x01, 0x10, 0x00, 0x00}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			gw := &fakeGateway{size: DescriptorSize, descriptor: tt.remote}
			checker, store, ui := newTestChecker(t, gw, 0x01200000)

			if err := checker.Run(context.Background()); err != nil {
				t.Fatalf("Run() error = %v", err)
			}
			if got := store.Step(); got != dialog.StepNone {
				t.Errorf("step = %v, want none", got)
			}
			if ui.questionCount() != 0 {
				t.Errorf("questions = %d, want 0", ui.questionCount())
			}
		})
	}
}

func TestCheckerAbortsWhenDialogBusy(t *testing.T) {
	gw := &fakeGateway{size: DescriptorSize, descriptor: []byte{0x01, 0x30, 0x00, 0x00}}
	checker, store, ui := newTestChecker(t, gw, 0x01200000)

	store.SetStep(dialog.StepExtracting)
	if err := checker.Run(context.Background()); err != nil {
		t.Fatalf("Run() error = %v", err)
	}
	if got := store.Step(); got != dialog.StepExtracting {
		t.Errorf("step = %v, want extracting (unchanged)", got)
	}
	if ui.questionCount() != 0 {
		t.Errorf("questions = %d, want 0", ui.questionCount())
	}
}

func TestCheckerIgnoresWrongDescriptorSize(t *testing.T) {
	tests := []struct {
		name    string
		size    int64
		sizeErr error
	}{
		{"too large", 8, nil},
		{"too small", 2, nil},
		{"zero", 0, nil},
		{"size query failed", 0, errors.New("network down")},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			gw := &fakeGateway{size: tt.size, sizeErr: tt.sizeErr, descriptor: []byte{0x01, 0x30, 0x00, 0x00}}
			checker, store, ui := newTestChecker(t, gw, 0x01200000)

			if err := checker.Run(context.Background()); err != nil {
				t.Fatalf("Run() error = %v", err)
			}
			if got := store.Step(); got != dialog.StepNone {
				t.Errorf("step = %v, want none", got)
			}
			if ui.questionCount() != 0 {
				t.Errorf("questions = %d, want 0", ui.questionCount())
			}
		})
	}
}

func TestCheckerAcceptDownloadsPackage(t *testing.T) {
	gw := &fakeGateway{size: DescriptorSize, descriptor: []byte{0x01, 0x30, 0x00, 0x00}}
	checker, store, _ := newTestChecker(t, gw, 0x01200000)

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	done := make(chan error, 1)
	go func() { done <- checker.Run(ctx) }()

	waitForStep(t, store, dialog.StepUpdateQuestion)
	store.SetStep(dialog.StepDownloading) // accept

	if err := <-done; err != nil {
		t.Fatalf("Run() error = %v", err)
	}
	if got := store.Step(); got != dialog.StepDownloaded {
		t.Errorf("step = %v, want downloaded", got)
	}
	if gw.packageCount() != 1 {
		t.Errorf("package downloads = %d, want 1", gw.packageCount())
	}
}

func TestCheckerAcceptDownloadFailure(t *testing.T) {
	gw := &fakeGateway{
		size:       DescriptorSize,
		descriptor: []byte{0x01, 0x30, 0x00, 0x00},
		packageErr: errors.New("connection reset"),
	}
	checker, store, ui := newTestChecker(t, gw, 0x01200000)

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	done := make(chan error, 1)
	go func() { done <- checker.Run(ctx) }()

	waitForStep(t, store, dialog.StepUpdateQuestion)
	store.SetStep(dialog.StepDownloading) // accept

	if err := <-done; err == nil {
		t.Fatal("Run() error = nil, want download error")
	}
	if got := store.Step(); got != dialog.StepCanceled {
		t.Errorf("step = %v, want canceled", got)
	}
	ui.mu.Lock()
	defer ui.mu.Unlock()
	if len(ui.errors) != 1 || ui.errors[0] != dialog.CodeDownload {
		t.Errorf("errors = %v, want [CodeDownload]", ui.errors)
	}
}
