package watcher

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"sync"
	"testing"
	"time"

	"github.com/nguyentantai21042004/subtitle-flow/internal/logger"
)

func TestIsVideoFile(t *testing.T) {
	tests := []struct {
		path string
		want bool
	}{
		{"clip.mp4", true},
		{"/inbox/Clip.MOV", true},
		{"a.b.mkv", true},
		{"movie.webm", true},
		{"notes.txt", false},
		{"subtitles.srt", false},
		{"noext", false},
	}

	for _, tt := range tests {
		if got := isVideoFile(tt.path); got != tt.want {
			t.Errorf("isVideoFile(%q) = %v, want %v", tt.path, got, tt.want)
		}
	}
}

type recorder struct {
	mu    sync.Mutex
	paths []string
	seen  chan string
	err   error
}

func (r *recorder) handle(ctx context.Context, path string) error {
	r.mu.Lock()
	r.paths = append(r.paths, path)
	r.mu.Unlock()
	r.seen <- filepath.Base(path)
	return r.err
}

func startWatcher(t *testing.T, inbox string, rec *recorder) (context.CancelFunc, chan error) {
	t.Helper()
	w, err := New(inbox, rec.handle, logger.NewNop(), 2)
	if err != nil {
		t.Fatalf("New() error = %v", err)
	}
	w.(*implWatcher).settle = 10 * time.Millisecond
	t.Cleanup(func() { w.Stop() })

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- w.Start(ctx) }()
	return cancel, done
}

func waitFor(t *testing.T, rec *recorder, name string) {
	t.Helper()
	select {
	case got := <-rec.seen:
		if got != name {
			t.Fatalf("handled %q, want %q", got, name)
		}
	case <-time.After(5 * time.Second):
		t.Fatalf("%s was never handled", name)
	}
}

func TestWatcherHandlesExistingAndNewFiles(t *testing.T) {
	inbox := t.TempDir()
	if err := os.WriteFile(filepath.Join(inbox, "old.mp4"), []byte("v"), 0o644); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(filepath.Join(inbox, "readme.txt"), []byte("x"), 0o644); err != nil {
		t.Fatal(err)
	}

	rec := &recorder{seen: make(chan string, 4)}
	cancel, done := startWatcher(t, inbox, rec)

	waitFor(t, rec, "old.mp4")

	if err := os.WriteFile(filepath.Join(inbox, "new.mov"), []byte("v"), 0o644); err != nil {
		t.Fatal(err)
	}
	waitFor(t, rec, "new.mov")

	cancel()
	if err := <-done; !errors.Is(err, context.Canceled) {
		t.Errorf("Start() error = %v, want context.Canceled", err)
	}

	for _, name := range []string{"old.mp4", "new.mov"} {
		if _, err := os.Stat(filepath.Join(inbox, doneDir, name)); err != nil {
			t.Errorf("%s not archived to done/: %v", name, err)
		}
	}
	if _, err := os.Stat(filepath.Join(inbox, "readme.txt")); err != nil {
		t.Errorf("non-video file was touched: %v", err)
	}
}

func TestWatcherArchivesFailures(t *testing.T) {
	inbox := t.TempDir()
	if err := os.WriteFile(filepath.Join(inbox, "bad.mp4"), []byte("v"), 0o644); err != nil {
		t.Fatal(err)
	}

	rec := &recorder{seen: make(chan string, 1), err: errors.New("ffmpeg failed")}
	cancel, done := startWatcher(t, inbox, rec)

	waitFor(t, rec, "bad.mp4")
	cancel()
	<-done

	if _, err := os.Stat(filepath.Join(inbox, failedDir, "bad.mp4")); err != nil {
		t.Errorf("bad.mp4 not archived to failed/: %v", err)
	}
}

func TestClaim(t *testing.T) {
	w := &implWatcher{}
	if !w.claim("a.mp4") {
		t.Fatal("first claim rejected")
	}
	if w.claim("a.mp4") {
		t.Error("duplicate claim accepted")
	}
	w.unclaim("a.mp4")
	if !w.claim("a.mp4") {
		t.Error("claim after release rejected")
	}
}
