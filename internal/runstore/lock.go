package runstore

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"
)

const (
	runLockDirName   = ".archive.lock"
	runLockOwnerFile = "owner.json"

	// Archiving a run takes milliseconds; a lock this old on the same host
	// was left behind by a process that died mid-write.
	staleLockAfter = 2 * time.Minute
)

var ErrRunLocked = errors.New("run directory is locked")

// RunLock is held while a run's files are being written.
type RunLock struct {
	lockDir string
}

type runLockOwner struct {
	PID       int       `json:"pid"`
	RunID     string    `json:"run_id,omitempty"`
	CreatedAt time.Time `json:"created_at"`
	Hostname  string    `json:"hostname,omitempty"`
}

// AcquireRunLock takes the archive lock of runDir for runID. A lock left on
// this host longer than staleLockAfter is reclaimed once.
func AcquireRunLock(runDir, runID string) (RunLock, error) {
	target := strings.TrimSpace(runDir)
	if target == "" {
		return RunLock{}, fmt.Errorf("run directory is required")
	}
	lockDir := filepath.Join(target, runLockDirName)

	lock, err := tryRunLock(lockDir, runID)
	if err == nil {
		return lock, nil
	}
	if !errors.Is(err, os.ErrExist) {
		return RunLock{}, fmt.Errorf("acquire run lock for %s: %w", target, err)
	}

	owner, readErr := readLockOwner(lockDir)
	if readErr == nil && owner.stale(time.Now()) {
		_ = os.RemoveAll(lockDir)
		if lock, err := tryRunLock(lockDir, runID); err == nil {
			return lock, nil
		}
	}
	if readErr == nil && owner.PID > 0 {
		return RunLock{}, fmt.Errorf("%w: %s (run=%s pid=%d created_at=%s host=%s)",
			ErrRunLocked, target, owner.RunID, owner.PID,
			owner.CreatedAt.Format(time.RFC3339), owner.Hostname,
		)
	}
	return RunLock{}, fmt.Errorf("%w: %s", ErrRunLocked, target)
}

func tryRunLock(lockDir, runID string) (RunLock, error) {
	if err := os.Mkdir(lockDir, 0o755); err != nil {
		return RunLock{}, err
	}
	owner := runLockOwner{
		PID:       os.Getpid(),
		RunID:     runID,
		CreatedAt: time.Now().UTC(),
		Hostname:  hostnameOrUnknown(),
	}
	if err := WriteJSON(filepath.Join(lockDir, runLockOwnerFile), owner); err != nil {
		_ = os.RemoveAll(lockDir)
		return RunLock{}, fmt.Errorf("write lock owner: %w", err)
	}
	return RunLock{lockDir: lockDir}, nil
}

func readLockOwner(lockDir string) (runLockOwner, error) {
	var owner runLockOwner
	if err := ReadJSON(filepath.Join(lockDir, runLockOwnerFile), &owner); err != nil {
		return runLockOwner{}, err
	}
	return owner, nil
}

func (o runLockOwner) stale(now time.Time) bool {
	if o.CreatedAt.IsZero() || o.Hostname != hostnameOrUnknown() {
		return false
	}
	return now.Sub(o.CreatedAt) > staleLockAfter
}

func (l RunLock) Release() error {
	if strings.TrimSpace(l.lockDir) == "" {
		return nil
	}
	_ = os.Remove(filepath.Join(l.lockDir, runLockOwnerFile))
	if err := os.Remove(l.lockDir); err != nil && !os.IsNotExist(err) {
		return fmt.Errorf("release run lock %s: %w", l.lockDir, err)
	}
	return nil
}

func hostnameOrUnknown() string {
	host, err := os.Hostname()
	if err != nil {
		return "unknown"
	}
	host = strings.TrimSpace(host)
	if host == "" {
		return "unknown"
	}
	return host
}
