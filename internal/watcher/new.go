package watcher

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/fsnotify/fsnotify"

	"github.com/nguyentantai21042004/subtitle-flow/internal/logger"
)

const (
	doneDir   = "done"
	failedDir = "failed"
)

// New creates a Watcher on inbox. Handled files are moved to inbox/done or
// inbox/failed; at most maxConcurrent files are handled at once.
func New(inbox string, handler EventHandler, log logger.Logger, maxConcurrent int) (Watcher, error) {
	for _, dir := range []string{inbox, filepath.Join(inbox, doneDir), filepath.Join(inbox, failedDir)} {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return nil, fmt.Errorf("create directory %s: %w", dir, err)
		}
	}

	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, fmt.Errorf("create watcher: %w", err)
	}

	if err := watcher.Add(inbox); err != nil {
		watcher.Close()
		return nil, fmt.Errorf("add watch path: %w", err)
	}

	// Default to 2 concurrent if not specified
	if maxConcurrent <= 0 {
		maxConcurrent = 2
	}

	return &implWatcher{
		inbox:         inbox,
		handler:       handler,
		logger:        log,
		watcher:       watcher,
		maxConcurrent: maxConcurrent,
		semaphore:     make(chan struct{}, maxConcurrent),
		settle:        500 * time.Millisecond,
	}, nil
}
