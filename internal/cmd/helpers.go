package cmd

import (
	"os"

	"go.uber.org/zap"

	"github.com/shellcmdr/shellcmdr/internal/archive"
	"github.com/shellcmdr/shellcmdr/internal/config"
	"github.com/shellcmdr/shellcmdr/internal/dialog"
	"github.com/shellcmdr/shellcmdr/internal/download"
	"github.com/shellcmdr/shellcmdr/internal/extract"
	"github.com/shellcmdr/shellcmdr/internal/installer"
	"github.com/shellcmdr/shellcmdr/internal/logger"
	"github.com/shellcmdr/shellcmdr/internal/power"
	"github.com/shellcmdr/shellcmdr/internal/update"
)

// pipeline bundles the collaborators every entry point needs.
type pipeline struct {
	cfg   *config.Config
	log   *zap.Logger
	store *dialog.Store
	ui    *dialog.Console
	gw    *download.HTTPGateway
	arcs  *archive.ZipGateway
	inst  *installer.Installer
	power power.Manager
}

// newPipeline loads configuration and wires the collaborators.
func newPipeline() (*pipeline, error) {
	cfg, err := config.Load(configPath)
	if err != nil {
		return nil, err
	}
	if verbose {
		cfg.Log.Level = "debug"
	}
	if quiet {
		cfg.Log.Level = "error"
	}
	log := logger.New(cfg.Log)

	store := dialog.NewStore()
	ui := dialog.NewConsole(store)
	if assumeYes {
		ui.AutoAccept()
	}

	paths := cfg.Paths()
	inst := installer.New(paths, installer.NewDirPromoter(paths.InstallRoot()), log)

	return &pipeline{
		cfg:   cfg,
		log:   log,
		store: store,
		ui:    ui,
		gw:    download.NewHTTPGateway(),
		arcs:  archive.NewZipGateway(),
		inst:  inst,
		power: detectPowerManager(),
	}, nil
}

// detectPowerManager uses the kernel wake-lock interface when present and
// falls back to a no-op elsewhere.
func detectPowerManager() power.Manager {
	m := power.NewSysfsManager("shellcmdr-update")
	if _, err := os.Stat(m.LockPath); err != nil {
		return power.NoopManager{}
	}
	return m
}

// checker builds the update checker worker.
func (p *pipeline) checker() *update.Checker {
	return update.NewChecker(p.cfg, p.gw, p.store, p.ui, p.log)
}

// supervisor builds the extraction supervisor worker.
func (p *pipeline) supervisor() *extract.Supervisor {
	return extract.New(p.cfg, p.arcs, p.inst, p.store, p.ui, p.power, p.log).
		WithVersion(update.Current.Format())
}
