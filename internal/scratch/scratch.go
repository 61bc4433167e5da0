// Package scratch hands out per-invocation working directories under a shared root.
package scratch

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/gofrs/flock"
)

const (
	dirPrefix = "inv-"
	lockName  = ".scratch.lock"
)

// Root is a scratch directory shared by the stage invocations of one or more
// processes. Each process holds a shared lock on it for its lifetime.
type Root struct {
	dir  string
	lock *flock.Flock
}

// Open creates dir if needed and takes a shared lock on it. If no other
// process holds the lock, leftover invocation directories from a previous
// run are removed first.
func Open(dir string) (*Root, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("create scratch root: %w", err)
	}

	lock := flock.New(filepath.Join(dir, lockName))
	exclusive, err := lock.TryLock()
	if err != nil {
		return nil, fmt.Errorf("lock scratch root: %w", err)
	}
	if exclusive {
		sweepErr := sweep(dir)
		if err := lock.Unlock(); err != nil {
			return nil, fmt.Errorf("unlock scratch root: %w", err)
		}
		if sweepErr != nil {
			return nil, sweepErr
		}
	}
	if err := lock.RLock(); err != nil {
		return nil, fmt.Errorf("share scratch root: %w", err)
	}

	return &Root{dir: dir, lock: lock}, nil
}

// Dir returns the root path.
func (r *Root) Dir() string {
	return r.dir
}

// Close releases the shared lock.
func (r *Root) Close() error {
	return r.lock.Unlock()
}

// Workspace is a directory private to one stage invocation.
type Workspace struct {
	Dir string
}

// NewWorkspace creates a fresh, empty directory for one invocation.
func (r *Root) NewWorkspace() (*Workspace, error) {
	dir, err := os.MkdirTemp(r.dir, dirPrefix+"*")
	if err != nil {
		return nil, fmt.Errorf("create workspace: %w", err)
	}
	return &Workspace{Dir: dir}, nil
}

// Path joins name onto the workspace directory.
func (w *Workspace) Path(name string) string {
	return filepath.Join(w.Dir, filepath.Base(name))
}

// Cleanup removes the workspace and everything in it.
func (w *Workspace) Cleanup() error {
	return os.RemoveAll(w.Dir)
}

func sweep(dir string) error {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return fmt.Errorf("read scratch root: %w", err)
	}
	for _, e := range entries {
		if e.IsDir() && strings.HasPrefix(e.Name(), dirPrefix) {
			if err := os.RemoveAll(filepath.Join(dir, e.Name())); err != nil {
				return fmt.Errorf("remove stale workspace: %w", err)
			}
		}
	}
	return nil
}
