package dispatch

import (
	"context"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/nguyentantai21042004/subtitle-flow/internal/logger"
)

func TestLocalQueueSubmitDoesNotWait(t *testing.T) {
	release := make(chan struct{})
	var ran atomic.Int32
	q := NewLocal(func(ctx context.Context, job Job) {
		<-release
		ran.Add(1)
	}, 1, logger.NewNop())

	done := make(chan error, 1)
	go func() {
		// Three jobs on a single slot: all submits must still return at once.
		for _, iid := range []string{"1", "2", "3"} {
			if err := q.Submit(context.Background(), Job{IID: iid}); err != nil {
				done <- err
				return
			}
		}
		done <- nil
	}()

	select {
	case err := <-done:
		if err != nil {
			t.Fatalf("Submit() error = %v", err)
		}
	case <-time.After(2 * time.Second):
		t.Fatal("Submit() blocked on a busy handler")
	}

	close(release)
	q.Close()
	if ran.Load() != 3 {
		t.Errorf("handler ran %d times, want 3", ran.Load())
	}
}

func TestLocalQueueConcurrencyLimit(t *testing.T) {
	var mu sync.Mutex
	active, peak := 0, 0
	q := NewLocal(func(ctx context.Context, job Job) {
		mu.Lock()
		active++
		if active > peak {
			peak = active
		}
		mu.Unlock()

		time.Sleep(20 * time.Millisecond)

		mu.Lock()
		active--
		mu.Unlock()
	}, 2, logger.NewNop())

	for i := 0; i < 8; i++ {
		if err := q.Submit(context.Background(), Job{}); err != nil {
			t.Fatal(err)
		}
	}
	q.Close()

	if peak > 2 {
		t.Errorf("peak concurrency = %d, want <= 2", peak)
	}
}

func TestLocalQueueDetachesCancellation(t *testing.T) {
	got := make(chan error, 1)
	q := NewLocal(func(ctx context.Context, job Job) {
		time.Sleep(10 * time.Millisecond)
		got <- ctx.Err()
	}, 1, logger.NewNop())

	ctx, cancel := context.WithCancel(logger.WithRequestID(context.Background(), "req-9"))
	if err := q.Submit(ctx, Job{IID: "1"}); err != nil {
		t.Fatal(err)
	}
	cancel()
	q.Close()

	if err := <-got; err != nil {
		t.Errorf("job context cancelled with the request: %v", err)
	}
}

func TestLocalQueueClosed(t *testing.T) {
	q := NewLocal(func(ctx context.Context, job Job) {}, 1, logger.NewNop())
	q.Close()

	if err := q.Submit(context.Background(), Job{IID: "1"}); err != ErrClosed {
		t.Errorf("Submit() after Close = %v, want ErrClosed", err)
	}
}

func TestDecodeJob(t *testing.T) {
	tests := []struct {
		name    string
		body    string
		want    Job
		wantErr bool
	}{
		{
			name: "object",
			body: `{"IID":"12345","audio":"audio/a.mp3"}`,
			want: Job{IID: "12345", Audio: "audio/a.mp3"},
		},
		{
			name: "string wrapped object",
			body: `"{\"IID\":\"7\",\"audio\":\"audio/b.mp3\",\"video\":{\"key\":\"videos/b.mp4\"}}"`,
			want: Job{IID: "7", Audio: "audio/b.mp3", Video: &VideoRef{Key: "videos/b.mp4"}},
		},
		{
			name: "warmup",
			body: `{"warmup":true}`,
			want: Job{Warmup: true},
		},
		{
			name: "numeric IID",
			body: `{"IID":12345,"audio":"audio/a.mp3"}`,
			want: Job{IID: "12345", Audio: "audio/a.mp3"},
		},
		{
			name: "numeric IID in wrapped string",
			body: `"{\"IID\":7,\"audio\":\"audio/b.mp3\"}"`,
			want: Job{IID: "7", Audio: "audio/b.mp3"},
		},
		{
			name: "null IID",
			body: `{"IID":null,"audio":"audio/a.mp3"}`,
			want: Job{Audio: "audio/a.mp3"},
		},
		{
			name:    "object IID",
			body:    `{"IID":{"id":1},"audio":"audio/a.mp3"}`,
			wantErr: true,
		},
		{
			name:    "boolean IID",
			body:    `{"IID":true}`,
			wantErr: true,
		},
		{
			name:    "not json",
			body:    `IID=1`,
			wantErr: true,
		},
		{
			name:    "string holding garbage",
			body:    `"nope"`,
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := DecodeJob([]byte(tt.body))
			if (err != nil) != tt.wantErr {
				t.Fatalf("DecodeJob() error = %v, wantErr %v", err, tt.wantErr)
			}
			if tt.wantErr {
				return
			}
			if got.IID != tt.want.IID || got.Audio != tt.want.Audio || got.Warmup != tt.want.Warmup {
				t.Errorf("DecodeJob() = %+v, want %+v", got, tt.want)
			}
			if (got.Video == nil) != (tt.want.Video == nil) || (got.Video != nil && *got.Video != *tt.want.Video) {
				t.Errorf("Video = %+v, want %+v", got.Video, tt.want.Video)
			}
		})
	}
}

func TestSlots(t *testing.T) {
	s := newSlots(0)
	if s.size() != 1 {
		t.Fatalf("size() = %d, want 1 for a non-positive request", s.size())
	}

	release, err := s.take(context.Background())
	if err != nil {
		t.Fatal(err)
	}
	if s.busy() != 1 {
		t.Errorf("busy() = %d, want 1", s.busy())
	}

	ctx, cancel := context.WithTimeout(context.Background(), 20*time.Millisecond)
	defer cancel()
	if _, err := s.take(ctx); err != context.DeadlineExceeded {
		t.Errorf("take() on a full pool = %v, want DeadlineExceeded", err)
	}

	release()
	if s.busy() != 0 {
		t.Errorf("busy() after release = %d", s.busy())
	}
}
