package coordinator

import (
	"context"
	"fmt"
	"net/http"

	"github.com/nguyentantai21042004/subtitle-flow/internal/apperr"
	"github.com/nguyentantai21042004/subtitle-flow/internal/dispatch"
	"github.com/nguyentantai21042004/subtitle-flow/internal/logger"
)

// Start hands job to the queue and returns without waiting for it to run.
func (c *implCoordinator) Start(ctx context.Context, job dispatch.Job) (Response, error) {
	if job.Warmup {
		c.logger.Info(ctx, "Warm up request")
		return Response{StatusCode: http.StatusOK, Body: Message{MsgWarmup}}, nil
	}
	if job.IID == "" {
		return Response{}, apperr.Missing("IID")
	}
	if job.Audio == "" {
		return Response{}, apperr.Missing("audio")
	}

	job.Bucket = c.bucketOr(job.Bucket)
	ctx = logger.WithJob(ctx, job.IID)

	if err := c.queue.Submit(ctx, job); err != nil {
		return Response{}, fmt.Errorf("dispatch job %s: %w", job.IID, err)
	}

	c.logger.Info(ctx, "Dispatched transcription of %s", job.Audio)
	return Response{StatusCode: http.StatusAccepted, Body: Message{MsgStarted}}, nil
}
