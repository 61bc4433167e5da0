package watcher

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"

	"github.com/nguyentantai21042004/subtitle-flow/internal/logger"
)

var supportedFormats = []string{".mp4", ".mov", ".avi", ".mkv", ".webm", ".m4v", ".flv"}

type implWatcher struct {
	inbox         string
	handler       EventHandler
	logger        logger.Logger
	watcher       *fsnotify.Watcher
	maxConcurrent int
	semaphore     chan struct{}
	wg            sync.WaitGroup
	settle        time.Duration

	mu       sync.Mutex
	inFlight map[string]bool
}

// Start handles videos already in the inbox, then every video created in it,
// until ctx is cancelled. It waits for in-flight files before returning.
func (w *implWatcher) Start(ctx context.Context) error {
	w.logger.Info(ctx, "File watcher started (max concurrent: %d). Monitoring: %s", w.maxConcurrent, w.inbox)
	w.logger.Info(ctx, "Supported formats: %s", strings.Join(supportedFormats, ", "))

	defer func() {
		w.logger.Info(ctx, "Waiting for ongoing processing to complete...")
		w.wg.Wait()
		w.logger.Info(ctx, "File watcher stopped")
	}()

	existing, err := w.scan()
	if err != nil {
		return fmt.Errorf("scan inbox: %w", err)
	}
	for _, path := range existing {
		if err := w.dispatch(ctx, path); err != nil {
			return err
		}
	}

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()

		case event, ok := <-w.watcher.Events:
			if !ok {
				return fmt.Errorf("watcher events channel closed")
			}
			if !event.Has(fsnotify.Create) {
				continue
			}
			if !isVideoFile(event.Name) {
				w.logger.Debug(ctx, "Ignoring non-video file: %s", event.Name)
				continue
			}

			w.logger.Info(ctx, "New video detected: %s", event.Name)
			if err := w.dispatch(ctx, event.Name); err != nil {
				return err
			}

		case err, ok := <-w.watcher.Errors:
			if !ok {
				return fmt.Errorf("watcher errors channel closed")
			}
			w.logger.Error(ctx, "Watcher error: %v", err)
		}
	}
}

// Stop closes the file watcher
func (w *implWatcher) Stop() error {
	return w.watcher.Close()
}

// dispatch blocks until a slot is free, then handles path in a goroutine.
func (w *implWatcher) dispatch(ctx context.Context, path string) error {
	if !w.claim(path) {
		return nil
	}

	select {
	case w.semaphore <- struct{}{}:
	case <-ctx.Done():
		w.unclaim(path)
		return ctx.Err()
	}

	w.wg.Add(1)
	go func() {
		defer w.wg.Done()
		defer func() { <-w.semaphore }()
		defer w.unclaim(path)

		if err := w.waitStable(ctx, path); err != nil {
			w.logger.Warn(ctx, "Skipping %s: %v", path, err)
			return
		}

		handleErr := w.handler(ctx, path)
		if handleErr != nil {
			w.logger.Error(ctx, "Failed to process %s: %v", path, handleErr)
		}
		if err := w.archive(path, handleErr == nil); err != nil {
			w.logger.Warn(ctx, "Failed to move %s out of the inbox: %v", path, err)
		}
	}()
	return nil
}

func (w *implWatcher) claim(path string) bool {
	w.mu.Lock()
	defer w.mu.Unlock()
	if w.inFlight == nil {
		w.inFlight = make(map[string]bool)
	}
	if w.inFlight[path] {
		return false
	}
	w.inFlight[path] = true
	return true
}

func (w *implWatcher) unclaim(path string) {
	w.mu.Lock()
	defer w.mu.Unlock()
	delete(w.inFlight, path)
}

// waitStable returns once two consecutive size readings agree, so a file
// still being copied into the inbox is not picked up half written.
func (w *implWatcher) waitStable(ctx context.Context, path string) error {
	last := int64(-1)
	for {
		info, err := os.Stat(path)
		if err != nil {
			return err
		}
		if info.Size() == last {
			return nil
		}
		last = info.Size()

		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-time.After(w.settle):
		}
	}
}

// archive moves a handled file to done/ or failed/ so it is not picked up
// again on the next start.
func (w *implWatcher) archive(path string, ok bool) error {
	dest := failedDir
	if ok {
		dest = doneDir
	}
	return os.Rename(path, filepath.Join(w.inbox, dest, filepath.Base(path)))
}

func (w *implWatcher) scan() ([]string, error) {
	entries, err := os.ReadDir(w.inbox)
	if err != nil {
		return nil, err
	}

	var files []string
	for _, e := range entries {
		if e.IsDir() || strings.HasPrefix(e.Name(), ".") {
			continue
		}
		if isVideoFile(e.Name()) {
			files = append(files, filepath.Join(w.inbox, e.Name()))
		}
	}

	sort.Strings(files)
	return files, nil
}

// isVideoFile checks if the file has a supported video extension
func isVideoFile(path string) bool {
	ext := strings.ToLower(filepath.Ext(path))
	for _, format := range supportedFormats {
		if ext == format {
			return true
		}
	}
	return false
}
