package update

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"go.uber.org/zap"

	"github.com/shellcmdr/shellcmdr/internal/config"
	"github.com/shellcmdr/shellcmdr/internal/dialog"
	"github.com/shellcmdr/shellcmdr/internal/download"
)

// Checker polls the remote version descriptor, compares it to the running
// build and drives the update confirmation prompt. It is designed to run on
// its own background worker so the foreground stays responsive.
type Checker struct {
	running      Version
	versionURL   string
	packageURL   string
	versionFile  string
	packageFile  string
	pollInterval time.Duration

	gateway download.Gateway
	store   *dialog.Store
	ui      dialog.UI
	log     *zap.Logger
}

// NewChecker wires a checker from configuration and collaborators.
func NewChecker(cfg *config.Config, gw download.Gateway, store *dialog.Store, ui dialog.UI, log *zap.Logger) *Checker {
	paths := cfg.Paths()
	return &Checker{
		running:      Current,
		versionURL:   cfg.VersionURL(),
		packageURL:   cfg.PackageURL(),
		versionFile:  paths.VersionFile(),
		packageFile:  paths.PackageFile(),
		pollInterval: cfg.PollInterval(),
		gateway:      gw,
		store:        store,
		ui:           ui,
		log:          log,
	}
}

// WithRunning overrides the embedded running version. Tests use this to pit
// arbitrary version pairs against each other.
func (c *Checker) WithRunning(v Version) *Checker {
	c.running = v
	return c
}

// Run performs one complete check-and-offer cycle.
//
// Every condition before the confirmation prompt aborts silently: a remote
// descriptor that is absent, malformed or of the wrong size is
// indistinguishable from "no update available", and an unrelated dialog is
// never interrupted. Only the accept-branch download surfaces errors, through
// this worker's own error dialog reporting.
func (c *Checker) Run(ctx context.Context) error {
	size, err := c.gateway.FileSize(ctx, c.versionURL)
	if err != nil || size != DescriptorSize {
		c.log.Debug("no usable update descriptor",
			zap.Int64("size", size), zap.Error(err))
		return nil
	}

	remote, ok := c.fetchDescriptor(ctx)
	if !ok {
		return nil
	}

	// Never interrupt an in-progress unrelated dialog.
	if c.store.Step() != dialog.StepNone {
		c.log.Debug("dialog busy, skipping update check",
			zap.Stringer("step", c.store.Step()))
		return nil
	}

	if !remote.NewerThan(c.running) {
		c.log.Debug("no newer version",
			zap.String("remote", remote.Format()),
			zap.String("running", c.running.Format()))
		return nil
	}

	c.log.Info("update available", zap.String("version", remote.Format()))
	// Raised before the prompt so an instant answer (auto-accept) cannot be
	// overwritten afterwards.
	c.store.SetStep(dialog.StepUpdateQuestion)
	c.ui.AskQuestion(fmt.Sprintf("Version %s is available. Install it?", remote.Format()))

	cur, err := c.store.WaitWhile(ctx, dialog.StepUpdateQuestion, c.pollInterval)
	if err != nil {
		return err
	}
	if cur == dialog.StepNone {
		c.log.Info("update declined")
		return nil
	}

	return c.downloadPackage(ctx)
}

// fetchDescriptor downloads the descriptor to a private location, parses it
// and removes the temporary file regardless of the parse outcome.
func (c *Checker) fetchDescriptor(ctx context.Context) (Version, bool) {
	if err := os.MkdirAll(filepath.Dir(c.versionFile), 0o755); err != nil {
		return 0, false
	}
	if _, err := c.gateway.Download(ctx, c.versionURL, c.versionFile, nil); err != nil {
		c.log.Debug("descriptor download failed", zap.Error(err))
		return 0, false
	}
	data, err := os.ReadFile(c.versionFile)
	_ = os.Remove(c.versionFile)
	if err != nil {
		return 0, false
	}
	remote, err := ParseDescriptor(data)
	if err != nil {
		c.log.Debug("descriptor malformed", zap.Error(err))
		return 0, false
	}
	return remote, true
}

// downloadPackage fetches the installer package to its fixed staging path and
// signals the result through the step store.
func (c *Checker) downloadPackage(ctx context.Context) error {
	c.ui.InitProgress("Downloading update")
	c.ui.SetProgress(0)

	_, err := c.gateway.Download(ctx, c.packageURL, c.packageFile, func(current, total int64) {
		if total > 0 {
			c.ui.SetProgress(int(current * 100 / total))
		}
	})
	if err != nil {
		c.ui.Close()
		c.store.SetStep(dialog.StepCanceled)
		c.ui.ShowError(dialog.CodeDownload, err)
		c.log.Error("package download failed", zap.Error(err))
		return err
	}

	c.ui.SetProgress(100)
	c.ui.Close()
	c.store.SetStep(dialog.StepDownloaded)
	c.log.Info("package downloaded", zap.String("path", c.packageFile))
	return nil
}
