package processor

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/nguyentantai21042004/subtitle-flow/internal/apperr"
	"github.com/nguyentantai21042004/subtitle-flow/internal/blobstore"
	"github.com/nguyentantai21042004/subtitle-flow/internal/blobstore/blobstoretest"
	"github.com/nguyentantai21042004/subtitle-flow/internal/logger"
	"github.com/nguyentantai21042004/subtitle-flow/internal/scratch"
	"github.com/nguyentantai21042004/subtitle-flow/internal/subtitle"
	"github.com/nguyentantai21042004/subtitle-flow/internal/transcriber"
)

const bucket = "video-subtitler"

type fakeTool struct {
	err        error
	videoPath  string
	srtPath    string
	srtContent string
}

func (f *fakeTool) ExtractAudio(ctx context.Context, videoPath string) (string, error) {
	f.videoPath = videoPath
	if f.err != nil {
		return "", f.err
	}
	out := strings.TrimSuffix(videoPath, filepath.Ext(videoPath)) + "_audio.mp3"
	return out, os.WriteFile(out, []byte("audio"), 0o644)
}

func (f *fakeTool) BurnInSubtitles(ctx context.Context, videoPath, srtPath string) (string, error) {
	f.videoPath, f.srtPath = videoPath, srtPath
	data, _ := os.ReadFile(srtPath)
	f.srtContent = string(data)
	if f.err != nil {
		return "", f.err
	}
	out := strings.TrimSuffix(videoPath, ".mp4") + "_sub.mp4"
	return out, os.WriteFile(out, []byte("subtitled"), 0o644)
}

type fakeEngine struct {
	res transcriber.Result
	err error
}

func (f *fakeEngine) Transcribe(ctx context.Context, audioPath, workDir string) (transcriber.Result, error) {
	if _, err := os.Stat(audioPath); err != nil {
		return transcriber.Result{}, err
	}
	return f.res, f.err
}

func newProcessor(t *testing.T, store blobstore.Store, tool *fakeTool, engine transcriber.Engine) (Processor, string) {
	t.Helper()
	dir := t.TempDir()
	root, err := scratch.Open(dir)
	if err != nil {
		t.Fatalf("scratch.Open() error = %v", err)
	}
	t.Cleanup(func() { root.Close() })

	return New(Deps{
		DefaultBucket: bucket,
		Store:         store,
		Tool:          tool,
		Engine:        engine,
		Scratch:       root,
		Logger:        logger.NewNop(),
	}), dir
}

func assertScratchEmpty(t *testing.T, dir string) {
	t.Helper()
	entries, err := os.ReadDir(dir)
	if err != nil {
		t.Fatal(err)
	}
	for _, e := range entries {
		if e.IsDir() {
			t.Errorf("workspace %s left behind", e.Name())
		}
	}
}

func TestExtractAudio(t *testing.T) {
	store := blobstoretest.New()
	store.Seed("other-bucket", "videos/test_video.mp4", []byte("video"))
	proc, dir := newProcessor(t, store, &fakeTool{}, nil)

	got, err := proc.ExtractAudio(context.Background(), AudioRequest{
		Bucket: "other-bucket",
		Key:    "videos/test_video.mp4",
		UID:    "test123",
	})
	if err != nil {
		t.Fatalf("ExtractAudio() error = %v", err)
	}

	want := Artifact{Key: "audio/test123/test_video.mp3", Bucket: "other-bucket"}
	if got != want {
		t.Errorf("ExtractAudio() = %+v, want %+v", got, want)
	}
	if data, ok := store.Object("other-bucket", want.Key); !ok || string(data) != "audio" {
		t.Errorf("audio blob = %q (exists=%v)", data, ok)
	}
	assertScratchEmpty(t, dir)
}

func TestExtractAudioRejectsEscapingUID(t *testing.T) {
	uids := []string{"../processed/srt", "../..", "a/../../videos", "/abs", "./x"}
	for _, uid := range uids {
		t.Run(uid, func(t *testing.T) {
			store := blobstoretest.New()
			store.Seed(bucket, "videos/clip.mp4", []byte("video"))
			tool := &fakeTool{}
			proc, _ := newProcessor(t, store, tool, nil)

			_, err := proc.ExtractAudio(context.Background(), AudioRequest{Key: "videos/clip.mp4", UID: uid})
			if !apperr.IsInput(err) {
				t.Fatalf("expected InputError, got %v", err)
			}
			if tool.videoPath != "" {
				t.Errorf("tool ran on %q", tool.videoPath)
			}
			if len(store.Writes()) != 0 {
				t.Errorf("unexpected writes: %v", store.Writes())
			}
		})
	}
}

func TestExtractAudioSourceNaming(t *testing.T) {
	store := blobstoretest.New()
	store.Seed(bucket, "audio/raw/talk.mp3", []byte("mp3"))
	tool := &fakeTool{}
	proc, _ := newProcessor(t, store, tool, nil)

	got, err := proc.ExtractAudio(context.Background(), AudioRequest{Key: "audio/raw/talk.mp3"})
	if err != nil {
		t.Fatalf("ExtractAudio() error = %v", err)
	}
	if filepath.Base(tool.videoPath) != "source.mp3" {
		t.Errorf("local input = %q, want source.mp3", tool.videoPath)
	}
	if got.Key != "audio/talk.mp3" {
		t.Errorf("ExtractAudio() key = %q, want audio/talk.mp3", got.Key)
	}
}

func TestExtractAudioDefaultBucket(t *testing.T) {
	store := blobstoretest.New()
	store.Seed(bucket, "videos/demo.mp4", []byte("video"))
	proc, _ := newProcessor(t, store, &fakeTool{}, nil)

	got, err := proc.ExtractAudio(context.Background(), AudioRequest{Key: "videos/demo.mp4"})
	if err != nil {
		t.Fatalf("ExtractAudio() error = %v", err)
	}
	if got.Bucket != bucket || got.Key != "audio/demo.mp3" {
		t.Errorf("ExtractAudio() = %+v", got)
	}
}

func TestExtractAudioToolFailure(t *testing.T) {
	store := blobstoretest.New()
	store.Seed(bucket, "videos/a.mp4", []byte("video"))
	toolErr := apperr.Tool("ffmpeg extract audio", errors.New("exit status 1"))
	proc, dir := newProcessor(t, store, &fakeTool{err: toolErr}, nil)

	_, err := proc.ExtractAudio(context.Background(), AudioRequest{Key: "videos/a.mp4"})
	if !apperr.IsTool(err) {
		t.Fatalf("expected ToolError, got %v", err)
	}
	if len(store.Writes()) != 0 {
		t.Errorf("writes after tool failure: %v", store.Writes())
	}
	assertScratchEmpty(t, dir)
}

func TestExtractAudioMissingInput(t *testing.T) {
	proc, _ := newProcessor(t, blobstoretest.New(), &fakeTool{}, nil)

	_, err := proc.ExtractAudio(context.Background(), AudioRequest{Key: "videos/missing.mp4"})
	if !blobstore.IsNotFound(err) {
		t.Fatalf("expected not found, got %v", err)
	}

	_, err = proc.ExtractAudio(context.Background(), AudioRequest{})
	if !apperr.IsInput(err) {
		t.Fatalf("expected InputError for empty key, got %v", err)
	}
}

func TestTranscribe(t *testing.T) {
	store := blobstoretest.New()
	store.Seed(bucket, "audio/a.mp3", []byte("audio"))
	engine := &fakeEngine{res: transcriber.Result{
		Segments: []subtitle.Segment{
			{Start: 0.0, End: 1.5, Text: " Hi"},
			{Start: 1.5, End: 3.0, Text: "   there"},
		},
		Text: " Hi there",
	}}
	proc, dir := newProcessor(t, store, &fakeTool{}, engine)

	got, err := proc.Transcribe(context.Background(), TranscribeRequest{IID: "12345", AudioKey: "audio/a.mp3"})
	if err != nil {
		t.Fatalf("Transcribe() error = %v", err)
	}
	if got.Text.Key != "processed/text/12345.txt" || got.Subtitles.Key != "processed/srt/12345.srt" {
		t.Errorf("Transcribe() = %+v", got)
	}

	writes := store.Writes()
	if len(writes) != 2 || writes[0] != got.Text.Key || writes[1] != got.Subtitles.Key {
		t.Fatalf("write order = %v, want text then srt", writes)
	}

	text, _ := store.Object(bucket, got.Text.Key)
	if string(text) != "Hi there" {
		t.Errorf("transcript = %q, want %q", text, "Hi there")
	}
	srt, _ := store.Object(bucket, got.Subtitles.Key)
	want := "1\n00:00:00,0 --> 00:00:01,500\nHi\n\n2\n00:00:01,500 --> 00:00:03,0\nthere\n\n"
	if string(srt) != want {
		t.Errorf("srt =\n%q\nwant\n%q", srt, want)
	}
	assertScratchEmpty(t, dir)
}

func TestTranscribeFailureWritesNothing(t *testing.T) {
	tests := []struct {
		name   string
		req    TranscribeRequest
		engine *fakeEngine
		check  func(error) bool
	}{
		{
			name:   "engine failure",
			req:    TranscribeRequest{IID: "1", AudioKey: "audio/a.mp3"},
			engine: &fakeEngine{err: apperr.Tool("whisper transcribe", errors.New("boom"))},
			check:  apperr.IsTool,
		},
		{
			name:   "missing audio key",
			req:    TranscribeRequest{IID: "1"},
			engine: &fakeEngine{},
			check:  apperr.IsInput,
		},
		{
			name:   "missing IID",
			req:    TranscribeRequest{AudioKey: "audio/a.mp3"},
			engine: &fakeEngine{},
			check:  apperr.IsInput,
		},
		{
			name:   "audio blob absent",
			req:    TranscribeRequest{IID: "1", AudioKey: "audio/none.mp3"},
			engine: &fakeEngine{},
			check:  blobstore.IsNotFound,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			store := blobstoretest.New()
			store.Seed(bucket, "audio/a.mp3", []byte("audio"))
			proc, _ := newProcessor(t, store, &fakeTool{}, tt.engine)

			_, err := proc.Transcribe(context.Background(), tt.req)
			if !tt.check(err) {
				t.Fatalf("unexpected error kind: %v", err)
			}
			if len(store.Writes()) != 0 {
				t.Errorf("writes after failure: %v", store.Writes())
			}
		})
	}
}

func TestTranscribeStoreFailureBeforeSRT(t *testing.T) {
	store := blobstoretest.New()
	store.Seed(bucket, "audio/a.mp3", []byte("audio"))
	store.FailOn["put:processed/text/1.txt"] = errors.New("throttled")
	proc, _ := newProcessor(t, store, &fakeTool{}, &fakeEngine{res: transcriber.Result{Text: "x"}})

	if _, err := proc.Transcribe(context.Background(), TranscribeRequest{IID: "1", AudioKey: "audio/a.mp3"}); err == nil {
		t.Fatal("Transcribe() should fail when the transcript cannot be stored")
	}
	if _, ok := store.Object(bucket, "processed/srt/1.srt"); ok {
		t.Error("SRT written although the transcript write failed")
	}
}

func TestBurnInSubtitles(t *testing.T) {
	store := blobstoretest.New()
	store.Seed(bucket, "videos/test_video.mp4", []byte("video"))
	store.Seed(bucket, "subtitles/test_video.srt", []byte("1\n00:00:00,0 --> 00:00:01,0\nHi\n\n"))
	tool := &fakeTool{}
	proc, dir := newProcessor(t, store, tool, nil)

	got, err := proc.BurnInSubtitles(context.Background(), BurnRequest{
		VideoKey: "videos/test_video.mp4",
		SRTKey:   "subtitles/test_video.srt",
	})
	if err != nil {
		t.Fatalf("BurnInSubtitles() error = %v", err)
	}
	if got.Key != "video_sub/test_video_sub.mp4" || got.Bucket != bucket {
		t.Errorf("BurnInSubtitles() = %+v", got)
	}
	if got.URL == "" {
		t.Error("BurnInSubtitles() returned no presigned URL")
	}
	if !strings.Contains(tool.srtContent, "Hi") {
		t.Errorf("tool received srt %q", tool.srtContent)
	}
	if _, ok := store.Object(bucket, got.Key); !ok {
		t.Error("subtitled video not stored")
	}
	assertScratchEmpty(t, dir)
}

func TestBurnInSubtitlesFailure(t *testing.T) {
	store := blobstoretest.New()
	store.Seed(bucket, "videos/a.mp4", []byte("video"))
	store.Seed(bucket, "processed/srt/1.srt", []byte("srt"))
	tool := &fakeTool{err: apperr.Tool("ffmpeg burn subtitles", errors.New("exit status 1"))}
	proc, _ := newProcessor(t, store, tool, nil)

	_, err := proc.BurnInSubtitles(context.Background(), BurnRequest{VideoKey: "videos/a.mp4", SRTKey: "processed/srt/1.srt"})
	if !apperr.IsTool(err) {
		t.Fatalf("expected ToolError, got %v", err)
	}
	if len(store.Writes()) != 0 {
		t.Errorf("writes after tool failure: %v", store.Writes())
	}

	_, err = proc.BurnInSubtitles(context.Background(), BurnRequest{VideoKey: "videos/a.mp4"})
	if !apperr.IsInput(err) {
		t.Fatalf("expected InputError for missing srt, got %v", err)
	}
}
