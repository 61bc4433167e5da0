package processor

import (
	"context"
	"fmt"
	"path"

	"github.com/nguyentantai21042004/subtitle-flow/internal/apperr"
	"github.com/nguyentantai21042004/subtitle-flow/internal/artifact"
)

// BurnInSubtitles downloads the video and its SRT, hard-codes the subtitles
// and stores the result at video_sub/{stem}_sub{ext}. The returned artifact
// carries a presigned URL.
func (p *implProcessor) BurnInSubtitles(ctx context.Context, req BurnRequest) (Artifact, error) {
	if req.VideoKey == "" {
		return Artifact{}, apperr.Missing("video")
	}
	if req.SRTKey == "" {
		return Artifact{}, apperr.Missing("srt")
	}
	bucket := p.bucketOr(req.Bucket)

	ws, release, err := p.workspace(ctx)
	if err != nil {
		return Artifact{}, err
	}
	defer release()

	// Fixed local names keep user-supplied key characters out of the ffmpeg filter graph.
	videoPath := ws.Path(sourceName + path.Ext(req.VideoKey))
	srtPath := ws.Path("subtitles.srt")
	if err := p.fetch(ctx, bucket, req.VideoKey, videoPath); err != nil {
		return Artifact{}, err
	}
	if err := p.fetch(ctx, bucket, req.SRTKey, srtPath); err != nil {
		return Artifact{}, err
	}

	outputPath, err := p.tool.BurnInSubtitles(ctx, videoPath, srtPath)
	if err != nil {
		return Artifact{}, err
	}

	finalKey := artifact.SubtitledVideoKey(req.VideoKey)
	p.logger.Info(ctx, "Uploading %s to %s", outputPath, finalKey)
	if err := p.store.Upload(ctx, bucket, finalKey, outputPath); err != nil {
		return Artifact{}, fmt.Errorf("upload subtitled video: %w", err)
	}

	url, err := p.store.Presign(ctx, bucket, finalKey)
	if err != nil {
		return Artifact{}, fmt.Errorf("presign subtitled video: %w", err)
	}

	return Artifact{Key: finalKey, Bucket: bucket, URL: url}, nil
}
