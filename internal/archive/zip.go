package archive

import (
	"archive/zip"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
)

// extractChunk is the copy granularity inside a single file entry.
// Cancellation and progress are observed between chunks.
const extractChunk = 64 * 1024

// ZipGateway opens installer packages, which are zip containers.
type ZipGateway struct {
	password string
}

// NewZipGateway creates a zip gateway.
func NewZipGateway() *ZipGateway {
	return &ZipGateway{}
}

// SetPassword records a password for subsequent opens. Installer packages
// are unencrypted, so the password only matters for the reset contract.
func (g *ZipGateway) SetPassword(password string) {
	g.password = password
}

// ClearPassword drops any previously set password.
func (g *ZipGateway) ClearPassword() {
	g.password = ""
}

// Open opens the archive at path.
func (g *ZipGateway) Open(path string) (Archive, error) {
	rc, err := zip.OpenReader(path)
	if err != nil {
		return nil, fmt.Errorf("open archive %s: %w", path, err)
	}
	return &zipArchive{rc: rc}, nil
}

type zipArchive struct {
	rc *zip.ReadCloser
}

// entryUnder reports whether name lives under root and returns the
// root-relative remainder.
func entryUnder(root, name string) (string, bool) {
	if root == "" {
		return name, true
	}
	root = strings.TrimSuffix(root, "/") + "/"
	if !strings.HasPrefix(name, root) {
		return "", false
	}
	return strings.TrimPrefix(name, root), true
}

func (a *zipArchive) PathInfo(root string) (PathInfo, error) {
	var info PathInfo
	for _, f := range a.rc.File {
		rel, ok := entryUnder(root, f.Name)
		if !ok || rel == "" {
			continue
		}
		if strings.HasSuffix(f.Name, "/") {
			info.Folders++
			continue
		}
		info.Files++
		info.Bytes += f.UncompressedSize64
	}
	return info, nil
}

func (a *zipArchive) Extract(root, dst string, sink ProgressSink, cancel CancelSource) error {
	if err := os.MkdirAll(dst, 0o755); err != nil {
		return err
	}
	for _, f := range a.rc.File {
		if cancel != nil && cancel.Canceled() {
			return ErrCanceled
		}
		rel, ok := entryUnder(root, f.Name)
		if !ok || rel == "" {
			continue
		}
		target, err := securePath(dst, rel)
		if err != nil {
			return err
		}
		if strings.HasSuffix(f.Name, "/") {
			if err := os.MkdirAll(target, 0o755); err != nil {
				return err
			}
			sink.Add(DirectoryWeight)
			continue
		}
		if err := a.extractFile(f, target, sink, cancel); err != nil {
			return err
		}
	}
	return nil
}

func (a *zipArchive) extractFile(f *zip.File, target string, sink ProgressSink, cancel CancelSource) error {
	if err := os.MkdirAll(filepath.Dir(target), 0o755); err != nil {
		return err
	}
	src, err := f.Open()
	if err != nil {
		return fmt.Errorf("open entry %s: %w", f.Name, err)
	}
	defer src.Close()

	out, err := os.OpenFile(target, os.O_WRONLY|os.O_CREATE|os.O_TRUNC, f.Mode().Perm()|0o600)
	if err != nil {
		return err
	}

	// A partial target never survives: cancel and I/O errors alike remove it
	// so the staged package dir holds only fully extracted files.
	buf := make([]byte, extractChunk)
	for {
		if cancel != nil && cancel.Canceled() {
			out.Close()
			os.Remove(target)
			return ErrCanceled
		}
		n, rerr := src.Read(buf)
		if n > 0 {
			if _, werr := out.Write(buf[:n]); werr != nil {
				out.Close()
				os.Remove(target)
				return werr
			}
			sink.Add(uint64(n))
		}
		if rerr == io.EOF {
			break
		}
		if rerr != nil {
			out.Close()
			os.Remove(target)
			return fmt.Errorf("read entry %s: %w", f.Name, rerr)
		}
	}
	if err := out.Close(); err != nil {
		os.Remove(target)
		return err
	}
	return nil
}

func (a *zipArchive) Close() error {
	return a.rc.Close()
}

// securePath joins rel onto base, rejecting entries that would escape it.
func securePath(base, rel string) (string, error) {
	target := filepath.Join(base, filepath.FromSlash(rel))
	if target != base && !strings.HasPrefix(target, filepath.Clean(base)+string(os.PathSeparator)) {
		return "", fmt.Errorf("archive entry escapes destination: %s", rel)
	}
	return target, nil
}
