package media

import "context"

// Tool runs the external transcoder. Each operation writes its output next to
// the input and returns the output path; on failure no output file is left.
type Tool interface {
	ExtractAudio(ctx context.Context, videoPath string) (string, error)
	BurnInSubtitles(ctx context.Context, videoPath, srtPath string) (string, error)
}
