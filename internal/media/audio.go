package media

import (
	"context"
	"os"
	"path/filepath"
	"strings"

	"github.com/nguyentantai21042004/subtitle-flow/internal/apperr"
)

// ExtractAudio copies the best audio stream of videoPath into an MP3 at the
// highest VBR quality, written as {stem}.mp3 in the same directory. An .mp3
// input is written as {stem}_audio.mp3 since ffmpeg cannot edit in place.
func (f *implFFmpeg) ExtractAudio(ctx context.Context, videoPath string) (string, error) {
	stem := strings.TrimSuffix(videoPath, filepath.Ext(videoPath))
	audioPath := stem + ".mp3"
	if audioPath == videoPath {
		audioPath = stem + "_audio.mp3"
	}

	f.logger.Info(ctx, "Extracting audio: %s", videoPath)

	// -q:a 0: best VBR quality
	// -map a: audio streams only
	// -y: overwrite output file if exists
	args := []string{
		"-i", videoPath,
		"-q:a", "0",
		"-map", "a",
		"-y",
		audioPath,
	}

	if _, err := f.executor.Execute(ctx, f.cfg.BinaryPath, args...); err != nil {
		os.Remove(audioPath)
		return "", apperr.Tool("ffmpeg extract audio", err)
	}

	f.logger.Info(ctx, "Audio extracted successfully: %s", audioPath)
	return audioPath, nil
}
