package transcriber

import (
	"context"

	"github.com/nguyentantai21042004/subtitle-flow/internal/subtitle"
)

// Result is one transcription: ordered timed segments plus the flattened text.
// Texts are returned as produced by the engine, leading spaces included.
type Result struct {
	Segments []subtitle.Segment
	Text     string
}

// Engine transcribes an audio file. Implementations are built once per worker
// process and are safe for concurrent use. workDir is scratch space owned by
// the caller.
type Engine interface {
	Transcribe(ctx context.Context, audioPath, workDir string) (Result, error)
}
