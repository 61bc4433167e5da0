package summarizer

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/nguyentantai21042004/subtitle-flow/internal/apperr"
	"github.com/nguyentantai21042004/subtitle-flow/internal/artifact"
	"github.com/nguyentantai21042004/subtitle-flow/internal/logger"
	"github.com/nguyentantai21042004/subtitle-flow/internal/processor"
)

const summaryPrompt = `You are an expert at analysing recorded video content. Using the transcript below, write a DETAILED summary in the language of the transcript.

Requirements:
- Start with a one-sentence overview of the video's topic
- List ALL main points or steps in the order they appear
- Explain each point, including important notes, tips and warnings
- Keep technical terms as they are spoken
- Use markdown: headings, bullet points, bold for key terms
- Finish with an "Important notes" section if anything needs emphasis

Transcript:
---
%s
---`

// Summarize reads processed/text/{IID}.txt and writes the markdown summary
// and its docx rendering next to it.
func (s *implSummarizer) Summarize(ctx context.Context, req Request) (Summary, error) {
	if req.IID == "" {
		return Summary{}, apperr.Missing("IID")
	}
	bucket := req.Bucket
	if bucket == "" {
		bucket = s.bucket
	}
	ctx = logger.WithJob(ctx, req.IID)

	transcript, err := s.store.Get(ctx, bucket, artifact.TextKey(req.IID))
	if err != nil {
		return Summary{}, fmt.Errorf("read transcript: %w", err)
	}
	if strings.TrimSpace(string(transcript)) == "" {
		return Summary{}, &apperr.InputError{Field: "IID", Reason: "transcript is empty"}
	}

	s.logger.Info(ctx, "Summarizing transcript (%d bytes)", len(transcript))

	summary, err := s.generator.Generate(ctx, fmt.Sprintf(summaryPrompt, transcript))
	if err != nil {
		return Summary{}, apperr.Tool("gemini summarize", err)
	}

	md := renderMarkdown(req.IID, summary, time.Now())

	mdArt := processor.Artifact{Key: artifact.SummaryKey(req.IID), Bucket: bucket}
	if err := s.store.Put(ctx, bucket, mdArt.Key, []byte(md)); err != nil {
		return Summary{}, fmt.Errorf("store summary: %w", err)
	}

	docArt := processor.Artifact{Key: artifact.SummaryDocKey(req.IID), Bucket: bucket}
	if err := s.storeDocx(ctx, bucket, docArt.Key, req.IID, summary); err != nil {
		return Summary{}, err
	}

	if mdArt.URL, err = s.store.Presign(ctx, bucket, mdArt.Key); err != nil {
		return Summary{}, fmt.Errorf("presign summary: %w", err)
	}
	if docArt.URL, err = s.store.Presign(ctx, bucket, docArt.Key); err != nil {
		return Summary{}, fmt.Errorf("presign document: %w", err)
	}

	s.logger.Info(ctx, "[DONE] summary -> %s", mdArt.Key)
	return Summary{Markdown: mdArt, Document: docArt}, nil
}

func (s *implSummarizer) storeDocx(ctx context.Context, bucket, key, title, summary string) error {
	ws, err := s.scratch.NewWorkspace()
	if err != nil {
		return err
	}
	defer func() {
		if err := ws.Cleanup(); err != nil {
			s.logger.Warn(ctx, "Failed to clean workspace %s: %v", ws.Dir, err)
		}
	}()

	local := ws.Path("summary.docx")
	if err := markdownToDocx(title, summary, local); err != nil {
		return fmt.Errorf("render docx: %w", err)
	}
	if err := s.store.Upload(ctx, bucket, key, local); err != nil {
		return fmt.Errorf("store document: %w", err)
	}
	return nil
}

func renderMarkdown(title, summary string, now time.Time) string {
	return fmt.Sprintf("# %s\n\n_%s_\n\n%s\n",
		title,
		now.Format("2006-01-02 15:04"),
		strings.TrimSpace(summary),
	)
}
