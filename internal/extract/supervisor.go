// Package extract orchestrates the staged extraction of a downloaded
// installer package: archive opening, work counting, a background
// progress-reporting worker, chunked extraction with cooperative
// cancellation, and promotion of the result.
package extract

import (
	"context"
	"os"
	"sync/atomic"
	"time"

	"go.uber.org/zap"

	"github.com/shellcmdr/shellcmdr/internal/archive"
	"github.com/shellcmdr/shellcmdr/internal/config"
	"github.com/shellcmdr/shellcmdr/internal/dialog"
	"github.com/shellcmdr/shellcmdr/internal/installer"
	"github.com/shellcmdr/shellcmdr/internal/power"
)

// PackageName identifies the extracted payload in its regenerated header.
const PackageName = "shellcmdr"

// Supervisor runs the update extraction on its own background worker.
// The dominant correctness property here is resource release: the power lock
// is released exactly once and the reporting worker is joined on every exit
// path, success or failure alike.
type Supervisor struct {
	paths      config.Paths
	dialogWait time.Duration

	archives  archive.Gateway
	installer *installer.Installer
	store     *dialog.Store
	ui        dialog.UI
	power     power.Manager
	log       *zap.Logger

	version        string
	dirWeight      uint64
	reportInterval time.Duration
}

// New wires a supervisor from configuration and collaborators.
func New(cfg *config.Config, gw archive.Gateway, inst *installer.Installer, store *dialog.Store, ui dialog.UI, pm power.Manager, log *zap.Logger) *Supervisor {
	return &Supervisor{
		paths:          cfg.Paths(),
		dialogWait:     cfg.DialogWait(),
		archives:       gw,
		installer:      inst,
		store:          store,
		ui:             ui,
		power:          pm,
		log:            log,
		dirWeight:      archive.DirectoryWeight,
		reportInterval: DefaultReportInterval,
	}
}

// WithVersion sets the version recorded in the regenerated package header.
func (s *Supervisor) WithVersion(version string) *Supervisor {
	s.version = version
	return s
}

// WithDirectoryWeight overrides the per-directory progress weight.
func (s *Supervisor) WithDirectoryWeight(w uint64) *Supervisor {
	s.dirWeight = w
	return s
}

// WithReportInterval overrides the progress reporting interval.
func (s *Supervisor) WithReportInterval(d time.Duration) *Supervisor {
	s.reportInterval = d
	return s
}

// cancelSource stops the extraction when the context ends or the dialog step
// moved to canceled (the UI cancel path). Polled between entries and chunks.
type cancelSource struct {
	ctx   context.Context
	store *dialog.Store
}

func (c cancelSource) Canceled() bool {
	return c.ctx.Err() != nil || c.store.Step() == dialog.StepCanceled
}

// Run performs the whole extraction operation. No automatic retry happens on
// any failure; the user re-triggers the pipeline.
func (s *Supervisor) Run(ctx context.Context) error {
	// The power lock covers the entire operation and must not leak on any
	// error branch.
	release, err := power.Guard(s.power)
	if err != nil {
		s.log.Error("power lock unavailable", zap.Error(err))
		return err
	}
	defer release()

	s.store.SetStep(dialog.StepExtracting)
	s.ui.InitProgress("Installing update")
	s.ui.SetProgress(0)
	s.pause(ctx) // let the 0% render before real updates land

	if err := s.installer.InstallCompanion(s.version); err != nil {
		s.ui.Close()
		s.store.SetStep(dialog.StepError)
		s.ui.ShowError(dialog.CodeManifest, err)
		s.log.Error("updater companion install failed", zap.Error(err))
		return err
	}

	// Fresh staging tree for the main payload; the companion consumed the
	// previous one.
	if err := s.installer.ResetPackageDir(); err != nil {
		s.ui.Close()
		s.store.SetStep(dialog.StepError)
		s.ui.ShowError(dialog.CodeExtract, err)
		return err
	}

	s.archives.ClearPassword()
	arc, err := s.archives.Open(s.paths.PackageFile())
	if err != nil {
		s.ui.Close()
		s.store.SetStep(dialog.StepError)
		s.ui.ShowError(dialog.CodeArchiveOpen, err)
		s.log.Error("archive open failed", zap.Error(err))
		return err
	}
	defer arc.Close()

	info, err := arc.PathInfo("")
	if err != nil {
		s.ui.Close()
		s.store.SetStep(dialog.StepError)
		s.ui.ShowError(dialog.CodeArchiveOpen, err)
		return err
	}
	max := info.Bytes + uint64(info.Folders)*s.dirWeight
	s.log.Info("extraction planned",
		zap.Uint64("bytes", info.Bytes),
		zap.Uint32("folders", info.Folders),
		zap.Uint32("files", info.Files),
		zap.Uint64("max", max))

	var counter atomic.Uint64
	rep := newReporter(&counter, max, s.ui, s.reportInterval)
	rep.start()
	// Joined before Run returns so the worker never reads the counter after
	// this frame is gone.
	defer rep.stop()

	err = arc.Extract("", s.paths.PackageDir(),
		archive.CounterSink{Value: &counter},
		cancelSource{ctx: ctx, store: s.store})
	if err != nil {
		rep.stop()
		s.ui.Close()
		s.store.SetStep(dialog.StepCanceled)
		s.ui.ShowError(dialog.CodeExtract, err)
		s.log.Error("extraction failed", zap.Error(err))
		return err
	}

	// The downloaded package is consumed.
	_ = os.Remove(s.paths.PackageFile())

	if err := s.installer.RegenerateHead(PackageName, s.version); err != nil {
		rep.stop()
		s.ui.Close()
		s.store.SetStep(dialog.StepError)
		s.ui.ShowError(dialog.CodeManifest, err)
		s.log.Error("package header regeneration failed", zap.Error(err))
		return err
	}

	rep.stop()
	s.ui.SetProgress(100)
	s.pause(ctx) // let the 100% render before the dialog closes
	s.ui.Close()
	s.store.SetStep(dialog.StepExtracted)
	s.log.Info("extraction complete")
	return nil
}

// pause sleeps for the dialog visibility wait, ending early with the context.
func (s *Supervisor) pause(ctx context.Context) {
	if s.dialogWait <= 0 {
		return
	}
	t := time.NewTimer(s.dialogWait)
	defer t.Stop()
	select {
	case <-ctx.Done():
	case <-t.C:
	}
}
