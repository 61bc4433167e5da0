package processor

import (
	"context"
	"fmt"
	"path"

	"github.com/nguyentantai21042004/subtitle-flow/internal/apperr"
	"github.com/nguyentantai21042004/subtitle-flow/internal/artifact"
)

// ExtractAudio downloads the video, extracts its audio track and stores it at
// audio/{uid}/{stem}.mp3. Nothing is stored when the tool fails.
func (p *implProcessor) ExtractAudio(ctx context.Context, req AudioRequest) (Artifact, error) {
	if req.Key == "" {
		return Artifact{}, apperr.Missing("key")
	}
	if !artifact.ValidUID(req.UID) {
		return Artifact{}, &apperr.InputError{Field: "uid", Reason: "must be a relative key segment without '.' or '..'"}
	}
	bucket := p.bucketOr(req.Bucket)

	ws, release, err := p.workspace(ctx)
	if err != nil {
		return Artifact{}, err
	}
	defer release()

	videoPath := ws.Path(sourceName + path.Ext(req.Key))
	if err := p.fetch(ctx, bucket, req.Key, videoPath); err != nil {
		return Artifact{}, err
	}

	audioPath, err := p.tool.ExtractAudio(ctx, videoPath)
	if err != nil {
		return Artifact{}, err
	}

	audioKey := artifact.AudioKey(req.Key, req.UID)
	if err := p.store.Upload(ctx, bucket, audioKey, audioPath); err != nil {
		return Artifact{}, fmt.Errorf("upload audio: %w", err)
	}

	p.logger.Info(ctx, "Audio stored at s3://%s/%s", bucket, audioKey)
	return Artifact{Key: audioKey, Bucket: bucket}, nil
}
