package ingest

import (
	"context"
	"errors"

	"github.com/nguyentantai21042004/subtitle-flow/internal/processor"
)

var (
	// ErrTranscriptionFailed means the job reached the ERROR state.
	ErrTranscriptionFailed = errors.New("transcription failed")
	// ErrPollTimeout means the job was still pending when the poll budget ran out.
	ErrPollTimeout = errors.New("timed out waiting for transcription")
)

// Ingester runs the whole chain for one local video file.
type Ingester interface {
	Process(ctx context.Context, videoPath string) (Result, error)
}

// Result is everything one ingest run produced.
type Result struct {
	IID        string               `json:"IID"`
	Video      processor.Artifact   `json:"video"`
	Audio      processor.Artifact   `json:"audio"`
	Transcript processor.Transcript `json:"transcript"`
	Subtitled  processor.Artifact   `json:"subtitled"`
}
