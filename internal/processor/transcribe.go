package processor

import (
	"context"
	"errors"
	"fmt"
	"path"

	"github.com/nguyentantai21042004/subtitle-flow/internal/apperr"
	"github.com/nguyentantai21042004/subtitle-flow/internal/artifact"
	"github.com/nguyentantai21042004/subtitle-flow/internal/subtitle"
)

var errNoEngine = errors.New("no transcription engine configured")

// Transcribe runs the engine over the audio blob and stores the transcript
// text, then the SRT file. The SRT key is the completion signal, so it is
// written only after the text is in place. On failure neither is written by
// this stage; the error marker is the caller's responsibility.
func (p *implProcessor) Transcribe(ctx context.Context, req TranscribeRequest) (Transcript, error) {
	if req.IID == "" {
		return Transcript{}, apperr.Missing("IID")
	}
	if req.AudioKey == "" {
		return Transcript{}, apperr.Missing("audio")
	}
	if p.engine == nil {
		return Transcript{}, errNoEngine
	}
	bucket := p.bucketOr(req.Bucket)

	ws, release, err := p.workspace(ctx)
	if err != nil {
		return Transcript{}, err
	}
	defer release()

	audioPath := ws.Path("received_audio" + path.Ext(req.AudioKey))
	if err := p.fetch(ctx, bucket, req.AudioKey, audioPath); err != nil {
		return Transcript{}, err
	}

	p.logger.Info(ctx, "Processing audio %s with ID %s...", req.AudioKey, req.IID)
	res, err := p.engine.Transcribe(ctx, audioPath, ws.Dir)
	if err != nil {
		return Transcript{}, err
	}

	segments := subtitle.Normalize(res.Segments)
	text := subtitle.TrimLeadingSpace(res.Text)

	textKey := artifact.TextKey(req.IID)
	if err := p.store.Put(ctx, bucket, textKey, []byte(text)); err != nil {
		return Transcript{}, fmt.Errorf("store transcript: %w", err)
	}

	srtKey := artifact.SRTKey(req.IID)
	if err := p.store.Put(ctx, bucket, srtKey, []byte(subtitle.Encode(segments))); err != nil {
		return Transcript{}, fmt.Errorf("store subtitles: %w", err)
	}

	p.logger.Info(ctx, "SRT file uploaded to %s", srtKey)
	return Transcript{
		Text:      Artifact{Key: textKey, Bucket: bucket},
		Subtitles: Artifact{Key: srtKey, Bucket: bucket},
	}, nil
}
