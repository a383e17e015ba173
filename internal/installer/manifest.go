package installer

import (
	"bytes"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"
)

// manifestMagic is the first line of a generated package header.
const manifestMagic = "SHELLPKG1"

// Manifest is the generated header of a staged package. It is derived from
// the directory contents, so regenerating it after extraction always matches
// what actually landed on disk.
type Manifest struct {
	Name    string `yaml:"name"`
	Version string `yaml:"version"`
	Files   int    `yaml:"files"`
	Bytes   int64  `yaml:"bytes"`
}

// WriteManifest scans dir and writes its header file (head.bin). The header
// file itself and a stale predecessor are excluded from the scan, which makes
// regeneration deterministic.
func WriteManifest(dir, name, version string) error {
	m := Manifest{Name: name, Version: version}

	headPath := filepath.Join(dir, "head.bin")
	err := filepath.WalkDir(dir, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if d.IsDir() || path == headPath {
			return nil
		}
		info, err := d.Info()
		if err != nil {
			return err
		}
		m.Files++
		m.Bytes += info.Size()
		return nil
	})
	if err != nil {
		return fmt.Errorf("scan package dir: %w", err)
	}

	var buf bytes.Buffer
	fmt.Fprintln(&buf, manifestMagic)
	if err := yaml.NewEncoder(&buf).Encode(&m); err != nil {
		return fmt.Errorf("encode manifest: %w", err)
	}
	if err := os.WriteFile(headPath, buf.Bytes(), 0o644); err != nil {
		return fmt.Errorf("write package header: %w", err)
	}
	return nil
}

// ReadManifest parses a generated header file.
func ReadManifest(path string) (*Manifest, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	nl := bytes.IndexByte(data, '\n')
	if nl < 0 || string(data[:nl]) != manifestMagic {
		return nil, fmt.Errorf("not a package header: %s", path)
	}
	var m Manifest
	if err := yaml.Unmarshal(data[nl+1:], &m); err != nil {
		return nil, fmt.Errorf("parse package header: %w", err)
	}
	return &m, nil
}
