package media

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/nguyentantai21042004/subtitle-flow/internal/apperr"
)

const subtitledSuffix = "_sub"

// BurnInSubtitles composites the SRT into the video frames. The output keeps
// the input extension: clip.mp4 becomes clip_sub.mp4.
// ffmpeg runs inside the subtitle's directory with a relative filename so the
// subtitles filter never has to parse an escaped absolute path.
func (f *implFFmpeg) BurnInSubtitles(ctx context.Context, videoPath, srtPath string) (string, error) {
	ext := filepath.Ext(videoPath)
	outputPath := strings.TrimSuffix(videoPath, ext) + subtitledSuffix + ext

	absVideo, err := filepath.Abs(videoPath)
	if err != nil {
		return "", fmt.Errorf("resolve video path: %w", err)
	}
	absOutput, err := filepath.Abs(outputPath)
	if err != nil {
		return "", fmt.Errorf("resolve output path: %w", err)
	}
	workDir := filepath.Dir(srtPath)
	subFilename := filepath.Base(srtPath)

	f.logger.Info(ctx, "Burning subtitles into video: %s", videoPath)

	args := []string{
		"-y",
		"-i", absVideo,
		"-vf", "subtitles=" + subFilename,
		"-c:v", f.cfg.Encoder,
	}
	if f.cfg.VideoBitrate != "" {
		args = append(args, "-b:v", f.cfg.VideoBitrate)
	}
	args = append(args, "-c:a", f.cfg.AudioCodec, absOutput)

	f.logger.Debug(ctx, "FFmpeg command in dir %s: ffmpeg -vf subtitles=%s ...", workDir, subFilename)

	if _, err := f.executor.ExecuteInDir(ctx, workDir, f.cfg.BinaryPath, args...); err != nil {
		if f.cfg.Encoder == softwareEncoder {
			os.Remove(absOutput)
			return "", apperr.Tool("ffmpeg burn subtitles", err)
		}
		f.logger.Warn(ctx, "Encoder %s failed, trying software encoder: %v", f.cfg.Encoder, err)
		if err := f.burnInSoftware(ctx, workDir, absVideo, subFilename, absOutput); err != nil {
			os.Remove(absOutput)
			return "", apperr.Tool("ffmpeg burn subtitles", err)
		}
	}

	f.logger.Info(ctx, "Subtitles burned successfully: %s", outputPath)
	return outputPath, nil
}

const softwareEncoder = "libx264"

// burnInSoftware is the libx264 fallback for hardware encoder failures.
func (f *implFFmpeg) burnInSoftware(ctx context.Context, workDir, videoPath, subFilename, outputPath string) error {
	args := []string{
		"-y",
		"-i", videoPath,
		"-vf", "subtitles=" + subFilename,
		"-c:v", softwareEncoder,
		"-preset", f.cfg.Preset,
		"-crf", "23",
		"-c:a", "copy",
		outputPath,
	}

	if _, err := f.executor.ExecuteInDir(ctx, workDir, f.cfg.BinaryPath, args...); err != nil {
		return fmt.Errorf("software encoder failed: %w", err)
	}
	return nil
}
