// Package installer materializes the updater companion package and generates
// staged package headers. The companion is a minimal secondary application:
// it exists so the running binary can be replaced from outside itself.
package installer

import (
	"fmt"
	"os"

	"go.uber.org/zap"

	"github.com/shellcmdr/shellcmdr/internal/config"
)

// CompanionName identifies the staged updater package to the promotion layer.
const CompanionName = "shellcmdr-updater"

// Installer writes the updater companion into the fixed staging tree.
type Installer struct {
	paths    config.Paths
	promoter Promoter
	log      *zap.Logger
}

// New creates an installer over the staging layout.
func New(paths config.Paths, promoter Promoter, log *zap.Logger) *Installer {
	return &Installer{paths: paths, promoter: promoter, log: log}
}

// ResetPackageDir clears and recreates the packaging staging tree, including
// the required metadata subdirectory. Every staging pass starts here, which
// is what makes retries after partial failures safe.
func (i *Installer) ResetPackageDir() error {
	if err := os.RemoveAll(i.paths.PackageDir()); err != nil {
		return fmt.Errorf("clear package dir: %w", err)
	}
	if err := os.MkdirAll(i.paths.PackageDir(), 0o755); err != nil {
		return fmt.Errorf("create package dir: %w", err)
	}
	if err := os.MkdirAll(i.paths.MetaDir(), 0o755); err != nil {
		return fmt.Errorf("create metadata dir: %w", err)
	}
	return nil
}

// InstallCompanion stages the updater companion package: clear and recreate
// the staging tree, write both embedded payloads verbatim to their fixed
// paths, generate the package header, and promote the staged directory.
// Idempotent: a second call after a partial failure produces the same staged
// files because it always clears before writing.
func (i *Installer) InstallCompanion(version string) error {
	if err := i.ResetPackageDir(); err != nil {
		return err
	}

	if err := os.WriteFile(i.paths.UpdaterExec(), UpdaterExec(), 0o755); err != nil {
		return fmt.Errorf("write updater executable: %w", err)
	}
	if err := os.WriteFile(i.paths.UpdaterParam(), UpdaterParam(), 0o644); err != nil {
		return fmt.Errorf("write updater descriptor: %w", err)
	}

	if err := WriteManifest(i.paths.PackageDir(), CompanionName, version); err != nil {
		return err
	}

	if err := i.promoter.Promote(i.paths.PackageDir(), CompanionName); err != nil {
		return fmt.Errorf("promote updater companion: %w", err)
	}
	i.log.Info("updater companion installed", zap.String("name", CompanionName))
	return nil
}

// RegenerateHead rewrites the package header for the extracted payload in
// the staging directory.
func (i *Installer) RegenerateHead(name, version string) error {
	return WriteManifest(i.paths.PackageDir(), name, version)
}
