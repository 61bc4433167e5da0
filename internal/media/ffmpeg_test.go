package media

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/nguyentantai21042004/subtitle-flow/internal/apperr"
	"github.com/nguyentantai21042004/subtitle-flow/internal/config"
	"github.com/nguyentantai21042004/subtitle-flow/internal/logger"
)

type call struct {
	dir  string
	name string
	args []string
}

// fakeExecutor records calls and fails the first failN of them. Successful
// calls create the file named by the last argument.
type fakeExecutor struct {
	calls []call
	failN int
}

func (f *fakeExecutor) Execute(ctx context.Context, name string, args ...string) (string, error) {
	return f.ExecuteInDir(ctx, "", name, args...)
}

func (f *fakeExecutor) ExecuteInDir(ctx context.Context, dir, name string, args ...string) (string, error) {
	f.calls = append(f.calls, call{dir: dir, name: name, args: args})
	out := args[len(args)-1]
	if len(f.calls) <= f.failN {
		// ffmpeg leaves a partial file behind on failure
		os.WriteFile(out, []byte("partial"), 0o644)
		return "", errors.New("exit status 1")
	}
	return "", os.WriteFile(out, []byte("media"), 0o644)
}

func newTool(exec *fakeExecutor, encoder string) Tool {
	return New(config.FFmpegConfig{
		Encoder:      encoder,
		Preset:       "medium",
		AudioCodec:   "copy",
		VideoBitrate: "5M",
	}, exec, logger.NewNop())
}

func TestExtractAudio(t *testing.T) {
	dir := t.TempDir()
	video := filepath.Join(dir, "test_video.mp4")
	exec := &fakeExecutor{}

	out, err := newTool(exec, "libx264").ExtractAudio(context.Background(), video)
	if err != nil {
		t.Fatalf("ExtractAudio() error = %v", err)
	}
	if want := filepath.Join(dir, "test_video.mp3"); out != want {
		t.Errorf("ExtractAudio() = %q, want %q", out, want)
	}

	want := []string{"-i", video, "-q:a", "0", "-map", "a", "-y", out}
	if got := exec.calls[0].args; strings.Join(got, " ") != strings.Join(want, " ") {
		t.Errorf("args = %v, want %v", got, want)
	}
	if exec.calls[0].name != "ffmpeg" {
		t.Errorf("binary = %q, want ffmpeg", exec.calls[0].name)
	}
}

func TestExtractAudioFromMP3Source(t *testing.T) {
	dir := t.TempDir()
	source := filepath.Join(dir, "source.mp3")
	exec := &fakeExecutor{}

	out, err := newTool(exec, "libx264").ExtractAudio(context.Background(), source)
	if err != nil {
		t.Fatalf("ExtractAudio() error = %v", err)
	}
	if want := filepath.Join(dir, "source_audio.mp3"); out != want {
		t.Errorf("ExtractAudio() = %q, want %q", out, want)
	}
	args := exec.calls[0].args
	if args[1] != source || args[len(args)-1] != out {
		t.Errorf("args = %v, want input %q and output %q", args, source, out)
	}
}

func TestExtractAudioFailureLeavesNoOutput(t *testing.T) {
	dir := t.TempDir()
	exec := &fakeExecutor{failN: 1}

	_, err := newTool(exec, "libx264").ExtractAudio(context.Background(), filepath.Join(dir, "a.mp4"))
	if !apperr.IsTool(err) {
		t.Fatalf("expected ToolError, got %v", err)
	}
	if _, statErr := os.Stat(filepath.Join(dir, "a.mp3")); !os.IsNotExist(statErr) {
		t.Errorf("partial audio file left behind: %v", statErr)
	}
}

func TestBurnInSubtitles(t *testing.T) {
	dir := t.TempDir()
	video := filepath.Join(dir, "clip.mkv")
	srt := filepath.Join(dir, "subs", "clip.srt")
	exec := &fakeExecutor{}

	out, err := newTool(exec, "h264_nvenc").BurnInSubtitles(context.Background(), video, srt)
	if err != nil {
		t.Fatalf("BurnInSubtitles() error = %v", err)
	}
	if want := filepath.Join(dir, "clip_sub.mkv"); out != want {
		t.Errorf("BurnInSubtitles() = %q, want %q", out, want)
	}

	c := exec.calls[0]
	if c.dir != filepath.Join(dir, "subs") {
		t.Errorf("workdir = %q, want subtitle dir", c.dir)
	}
	joined := strings.Join(c.args, " ")
	if !strings.Contains(joined, "-vf subtitles=clip.srt") {
		t.Errorf("args missing relative subtitles filter: %v", c.args)
	}
	if !strings.Contains(joined, "-c:v h264_nvenc") {
		t.Errorf("args missing configured encoder: %v", c.args)
	}
}

func TestBurnInSubtitlesSoftwareFallback(t *testing.T) {
	dir := t.TempDir()
	exec := &fakeExecutor{failN: 1}

	_, err := newTool(exec, "h264_videotoolbox").BurnInSubtitles(context.Background(),
		filepath.Join(dir, "a.mp4"), filepath.Join(dir, "a.srt"))
	if err != nil {
		t.Fatalf("BurnInSubtitles() error = %v", err)
	}
	if len(exec.calls) != 2 {
		t.Fatalf("expected fallback call, got %d calls", len(exec.calls))
	}
	if !strings.Contains(strings.Join(exec.calls[1].args, " "), "-c:v libx264") {
		t.Errorf("fallback did not use libx264: %v", exec.calls[1].args)
	}
}

func TestBurnInSubtitlesFailure(t *testing.T) {
	dir := t.TempDir()
	exec := &fakeExecutor{failN: 2}

	_, err := newTool(exec, "h264_videotoolbox").BurnInSubtitles(context.Background(),
		filepath.Join(dir, "a.mp4"), filepath.Join(dir, "a.srt"))
	if !apperr.IsTool(err) {
		t.Fatalf("expected ToolError, got %v", err)
	}
	if _, statErr := os.Stat(filepath.Join(dir, "a_sub.mp4")); !os.IsNotExist(statErr) {
		t.Errorf("partial output left behind: %v", statErr)
	}
}
