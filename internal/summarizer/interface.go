package summarizer

import (
	"context"
	"errors"

	"github.com/nguyentantai21042004/subtitle-flow/internal/processor"
)

// ErrDisabled is returned by New when no Gemini API keys are configured.
var ErrDisabled = errors.New("summarizer disabled: no API keys configured")

// Summarizer turns a finished transcript into a markdown and a docx summary.
type Summarizer interface {
	Summarize(ctx context.Context, req Request) (Summary, error)
}

type Request struct {
	Bucket string `json:"bucket,omitempty"`
	IID    string `json:"IID"`
}

type Summary struct {
	Markdown processor.Artifact `json:"markdown"`
	Document processor.Artifact `json:"document"`
}

// Generator produces text for a prompt.
type Generator interface {
	Generate(ctx context.Context, prompt string) (string, error)
}
