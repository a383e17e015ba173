// Package config handles shellcmdr configuration parsing and the fixed
// staging layout used by the update pipeline.
package config

import (
	"os"
	"path/filepath"
	"time"
)

// DefaultBaseAddress is the well-known release endpoint. Overridable through
// configuration for mirrors; the URL suffixes below are not.
const DefaultBaseAddress = "https://releases.shellcmdr.dev/stable"

// Fixed URL suffixes under the base address.
const (
	// VersionPath locates the 4-byte version descriptor.
	VersionPath = "/version.bin"
	// PackagePath locates the installer package artifact.
	PackagePath = "/shellcmdr.pkg"
)

// LogConfig controls the zap logger and its rotating file sink.
type LogConfig struct {
	Level      string `yaml:"level" toml:"level" json:"level"`
	Format     string `yaml:"format" toml:"format" json:"format"` // console or json
	File       string `yaml:"file" toml:"file" json:"file"`       // empty disables the file sink
	MaxSizeMB  int    `yaml:"max_size_mb" toml:"max_size_mb" json:"max_size_mb"`
	MaxBackups int    `yaml:"max_backups" toml:"max_backups" json:"max_backups"`
}

// Config is the parsed shellcmdr configuration file.
type Config struct {
	// BaseAddress is the release endpoint the updater talks to.
	BaseAddress string `yaml:"base_address" toml:"base_address" json:"base_address"`

	// DataRoot is the persistent storage root. All staging paths are fixed
	// constants relative to it.
	DataRoot string `yaml:"data_root" toml:"data_root" json:"data_root"`

	// PollIntervalMS is the dialog step poll delay in milliseconds.
	PollIntervalMS int `yaml:"poll_interval_ms" toml:"poll_interval_ms" json:"poll_interval_ms"`

	// DialogWaitMS is the pause that guarantees a progress reset or a final
	// 100% is visually observed before the dialog moves on.
	DialogWaitMS int `yaml:"dialog_wait_ms" toml:"dialog_wait_ms" json:"dialog_wait_ms"`

	Log LogConfig `yaml:"log" toml:"log" json:"log"`
}

// Default returns the built-in configuration.
func Default() *Config {
	return &Config{
		BaseAddress:    DefaultBaseAddress,
		DataRoot:       defaultDataRoot(),
		PollIntervalMS: 10,
		DialogWaitMS:   700,
		Log: LogConfig{
			Level:      "info",
			Format:     "console",
			MaxSizeMB:  5,
			MaxBackups: 2,
		},
	}
}

func defaultDataRoot() string {
	if home, err := os.UserHomeDir(); err == nil {
		return filepath.Join(home, ".local", "share", "shellcmdr")
	}
	return filepath.Join(os.TempDir(), "shellcmdr")
}

// PollInterval returns the step poll delay.
func (c *Config) PollInterval() time.Duration {
	return time.Duration(c.PollIntervalMS) * time.Millisecond
}

// DialogWait returns the progress visibility pause.
func (c *Config) DialogWait() time.Duration {
	return time.Duration(c.DialogWaitMS) * time.Millisecond
}

// VersionURL returns the full descriptor URL.
func (c *Config) VersionURL() string {
	return c.BaseAddress + VersionPath
}

// PackageURL returns the full installer package URL.
func (c *Config) PackageURL() string {
	return c.BaseAddress + PackagePath
}

// Paths is the fixed staging layout under the data root. Sub-paths are
// constants by design: the pipeline and the updater companion have to agree
// on them without exchanging configuration.
type Paths struct {
	DataRoot string
}

// Paths returns the staging layout for this configuration.
func (c *Config) Paths() Paths {
	return Paths{DataRoot: c.DataRoot}
}

// InternalDir holds private pipeline files (descriptor, downloaded package).
func (p Paths) InternalDir() string {
	return filepath.Join(p.DataRoot, "internal")
}

// VersionFile is the temporary location of the downloaded descriptor.
func (p Paths) VersionFile() string {
	return filepath.Join(p.InternalDir(), "version.bin")
}

// PackageFile is the fixed staging location of the downloaded installer
// package.
func (p Paths) PackageFile() string {
	return filepath.Join(p.InternalDir(), "shellcmdr.pkg")
}

// PackageDir is the package-installer working directory. It is cleared and
// recreated before every use.
func (p Paths) PackageDir() string {
	return filepath.Join(p.DataRoot, "pkg")
}

// MetaDir is the required metadata subdirectory inside PackageDir.
func (p Paths) MetaDir() string {
	return filepath.Join(p.PackageDir(), "meta")
}

// UpdaterExec is the staged updater companion executable.
func (p Paths) UpdaterExec() string {
	return filepath.Join(p.PackageDir(), "updater.bin")
}

// UpdaterParam is the staged updater companion descriptor.
func (p Paths) UpdaterParam() string {
	return filepath.Join(p.MetaDir(), "param.bin")
}

// HeadFile is the generated package header inside PackageDir.
func (p Paths) HeadFile() string {
	return filepath.Join(p.PackageDir(), "head.bin")
}

// InstallRoot is where promoted packages become active installations.
func (p Paths) InstallRoot() string {
	return filepath.Join(p.DataRoot, "app")
}
