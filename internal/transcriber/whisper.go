package transcriber

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/nguyentantai21042004/subtitle-flow/internal/apperr"
	"github.com/nguyentantai21042004/subtitle-flow/internal/subtitle"
)

// whisperOutput is the document whisper.cpp writes with -oj.
type whisperOutput struct {
	Transcription []struct {
		Offsets struct {
			From int64 `json:"from"`
			To   int64 `json:"to"`
		} `json:"offsets"`
		Text string `json:"text"`
	} `json:"transcription"`
}

// Transcribe runs whisper.cpp with deterministic decoding and reads its JSON output.
func (w *implWhisper) Transcribe(ctx context.Context, audioPath, workDir string) (Result, error) {
	outputPrefix := filepath.Join(workDir, "transcript")

	w.logger.Info(ctx, "Starting transcription with %d threads: %s", w.cfg.Threads, audioPath)
	start := time.Now()

	// -oj: JSON output, -of: output prefix
	// -tp 0 -nf: temperature 0 without fallback sampling
	// no -owts/-ml: segment-level timing only
	args := []string{
		"-m", w.cfg.ModelPath,
		"-f", audioPath,
		"-oj",
		"-of", outputPrefix,
		"-l", w.cfg.Language,
		"-t", strconv.Itoa(w.cfg.Threads),
		"-tp", "0",
		"-nf",
	}
	if w.cfg.Prompt != "" {
		args = append(args, "--prompt", w.cfg.Prompt)
	}

	if _, err := w.executor.Execute(ctx, w.cfg.BinaryPath, args...); err != nil {
		return Result{}, apperr.Tool("whisper transcribe", err)
	}

	data, err := os.ReadFile(outputPrefix + ".json")
	if err != nil {
		return Result{}, apperr.Tool("whisper transcribe", fmt.Errorf("read output: %w", err))
	}

	res, err := parseOutput(data)
	if err != nil {
		return Result{}, apperr.Tool("whisper transcribe", err)
	}

	w.logger.Info(ctx, "Transcription finished in %s (%d segments)", time.Since(start).Round(time.Millisecond), len(res.Segments))
	return res, nil
}

// parseOutput converts whisper.cpp JSON into a Result. The flattened text is
// the concatenation of the segment texts.
func parseOutput(data []byte) (Result, error) {
	var out whisperOutput
	if err := json.Unmarshal(data, &out); err != nil {
		return Result{}, fmt.Errorf("decode whisper output: %w", err)
	}

	res := Result{Segments: make([]subtitle.Segment, 0, len(out.Transcription))}
	var text strings.Builder
	for _, seg := range out.Transcription {
		res.Segments = append(res.Segments, subtitle.Segment{
			Start: float64(seg.Offsets.From) / 1000,
			End:   float64(seg.Offsets.To) / 1000,
			Text:  seg.Text,
		})
		text.WriteString(seg.Text)
	}
	res.Text = text.String()
	return res, nil
}
