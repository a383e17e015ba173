package installer

import (
	"fmt"
	"os"
	"path/filepath"
)

// Promoter makes a staged directory the active installation under a name.
// On device this is a privileged platform call; the default implementation
// below is the filesystem rendition.
type Promoter interface {
	Promote(stagedDir, name string) error
}

// DirPromoter promotes by atomic rename into an install root, keeping a
// backup of any previous installation for rollback. The staged directory is
// consumed by a successful promotion.
type DirPromoter struct {
	installRoot string
}

// NewDirPromoter creates a promoter rooted at installRoot.
func NewDirPromoter(installRoot string) *DirPromoter {
	return &DirPromoter{installRoot: installRoot}
}

// Promote moves stagedDir to installRoot/name. A previous installation is
// renamed aside first and restored if the swap fails.
func (p *DirPromoter) Promote(stagedDir, name string) error {
	if err := os.MkdirAll(p.installRoot, 0o755); err != nil {
		return fmt.Errorf("create install root: %w", err)
	}
	dest := filepath.Join(p.installRoot, name)
	backup := dest + ".backup"

	hadPrevious := false
	if _, err := os.Stat(dest); err == nil {
		hadPrevious = true
		_ = os.RemoveAll(backup)
		if err := os.Rename(dest, backup); err != nil {
			return fmt.Errorf("back up previous installation: %w", err)
		}
	}

	if err := os.Rename(stagedDir, dest); err != nil {
		if hadPrevious {
			_ = os.Rename(backup, dest)
		}
		return fmt.Errorf("promote %s: %w", name, err)
	}

	if hadPrevious {
		_ = os.RemoveAll(backup)
	}
	return nil
}

// NopPromoter leaves the staged directory in place and only marks it
// promotable. Used where promotion is done by an external privileged layer.
type NopPromoter struct{}

// Promote is a no-op.
func (NopPromoter) Promote(stagedDir, name string) error {
	return nil
}
