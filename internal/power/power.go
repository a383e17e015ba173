// Package power guards the device against idling or suspending while a
// long-running operation is in flight.
package power

import (
	"fmt"
	"os"
	"sync"
)

// Manager is the power-management lock. It is a global, reentrant-unsafe
// resource: one Lock per operation, exactly one Unlock on every exit path.
type Manager interface {
	Lock() error
	Unlock() error
}

// Guard acquires the lock and returns a release function that is safe to
// call from any exit path: only the first call releases. Model the lock as a
// scoped guard so an error branch cannot leak it.
func Guard(m Manager) (release func(), err error) {
	if err := m.Lock(); err != nil {
		return nil, err
	}
	var once sync.Once
	return func() {
		once.Do(func() {
			_ = m.Unlock()
		})
	}, nil
}

// NoopManager satisfies Manager on hosts without power management.
type NoopManager struct{}

func (NoopManager) Lock() error   { return nil }
func (NoopManager) Unlock() error { return nil }

// SysfsManager holds a kernel wake lock by writing a tag to the wake_lock
// and wake_unlock interfaces.
type SysfsManager struct {
	Tag        string
	LockPath   string
	UnlockPath string
}

// NewSysfsManager creates a manager with the default sysfs paths.
func NewSysfsManager(tag string) *SysfsManager {
	return &SysfsManager{
		Tag:        tag,
		LockPath:   "/sys/power/wake_lock",
		UnlockPath: "/sys/power/wake_unlock",
	}
}

func (m *SysfsManager) Lock() error {
	if err := os.WriteFile(m.LockPath, []byte(m.Tag), 0o200); err != nil {
		return fmt.Errorf("acquire wake lock: %w", err)
	}
	return nil
}

func (m *SysfsManager) Unlock() error {
	if err := os.WriteFile(m.UnlockPath, []byte(m.Tag), 0o200); err != nil {
		return fmt.Errorf("release wake lock: %w", err)
	}
	return nil
}
