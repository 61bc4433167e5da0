package coordinator

import (
	"context"
	"fmt"
	"net/http"

	"github.com/nguyentantai21042004/subtitle-flow/internal/apperr"
	"github.com/nguyentantai21042004/subtitle-flow/internal/artifact"
	"github.com/nguyentantai21042004/subtitle-flow/internal/logger"
	"github.com/nguyentantai21042004/subtitle-flow/internal/processor"
)

// Poll reports the job state. It has no side effects.
func (c *implCoordinator) Poll(ctx context.Context, req PollRequest) (Response, error) {
	if req.IID == "" {
		return Response{}, apperr.Missing("IID")
	}
	bucket := c.bucketOr(req.Bucket)
	ctx = logger.WithJob(ctx, req.IID)

	state, err := c.State(ctx, bucket, req.IID)
	if err != nil {
		return Response{}, err
	}

	switch state {
	case StateDone:
		c.logger.Debug(ctx, "SRT exists")
		transcript, err := c.locate(ctx, bucket, req.IID)
		if err != nil {
			return Response{}, err
		}
		return Response{StatusCode: http.StatusOK, Body: transcript}, nil
	case StateError:
		c.logger.Warn(ctx, "Job results in an error")
		return Response{StatusCode: http.StatusInternalServerError, Body: Message{MsgError}}, nil
	default:
		c.logger.Debug(ctx, "Still waiting")
		return Response{StatusCode: http.StatusAccepted, Body: Message{MsgPending}}, nil
	}
}

// State probes the SRT key first and the error marker only when it is absent.
// A not-found probe is a negative answer; any other store error is returned.
func (c *implCoordinator) State(ctx context.Context, bucket, iid string) (State, error) {
	bucket = c.bucketOr(bucket)

	srtExists, err := c.store.Exists(ctx, bucket, artifact.SRTKey(iid))
	if err != nil {
		return StatePending, fmt.Errorf("probe subtitles: %w", err)
	}
	if srtExists {
		return DeriveState(true, false), nil
	}

	errExists, err := c.store.Exists(ctx, bucket, artifact.ErrorKey(iid))
	if err != nil {
		return StatePending, fmt.Errorf("probe error marker: %w", err)
	}
	return DeriveState(false, errExists), nil
}

func (c *implCoordinator) locate(ctx context.Context, bucket, iid string) (processor.Transcript, error) {
	text := processor.Artifact{Key: artifact.TextKey(iid), Bucket: bucket}
	srt := processor.Artifact{Key: artifact.SRTKey(iid), Bucket: bucket}

	var err error
	if text.URL, err = c.store.Presign(ctx, bucket, text.Key); err != nil {
		return processor.Transcript{}, fmt.Errorf("presign transcript: %w", err)
	}
	if srt.URL, err = c.store.Presign(ctx, bucket, srt.Key); err != nil {
		return processor.Transcript{}, fmt.Errorf("presign subtitles: %w", err)
	}
	return processor.Transcript{Text: text, Subtitles: srt}, nil
}
