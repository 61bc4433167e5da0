package coordinator

import (
	"context"
	"fmt"
	"time"

	"github.com/nguyentantai21042004/subtitle-flow/internal/artifact"
	"github.com/nguyentantai21042004/subtitle-flow/internal/dispatch"
	"github.com/nguyentantai21042004/subtitle-flow/internal/logger"
	"github.com/nguyentantai21042004/subtitle-flow/internal/processor"
)

// Runner is the worker side of a transcription job. Run is the failure
// boundary: every job with an IID ends with either the SRT or the error
// marker in the blob store, even if the stage panics.
type Runner struct {
	bucket string
	stage  Stage
	store  Storage
	logger logger.Logger
}

func NewRunner(defaultBucket string, stage Stage, store Storage, log logger.Logger) *Runner {
	return &Runner{
		bucket: defaultBucket,
		stage:  stage,
		store:  store,
		logger: log,
	}
}

// Run executes job. It matches dispatch.Handler.
func (r *Runner) Run(ctx context.Context, job dispatch.Job) {
	ctx = logger.WithJob(ctx, job.IID)
	if job.Warmup {
		r.logger.Info(ctx, "Warm up!")
		return
	}

	bucket := job.Bucket
	if bucket == "" {
		bucket = r.bucket
	}

	defer func() {
		if rec := recover(); rec != nil {
			r.fail(ctx, bucket, job.IID, fmt.Errorf("panic: %v", rec))
		}
	}()

	if job.IID == "" {
		r.logger.Error(ctx, "Dropping job without IID: no error marker can be written")
		return
	}

	r.logger.Info(ctx, "Processing audio %s", job.Audio)
	start := time.Now()

	res, err := r.stage.Transcribe(ctx, processor.TranscribeRequest{
		Bucket:   bucket,
		IID:      job.IID,
		AudioKey: job.Audio,
	})
	if err != nil {
		r.fail(ctx, bucket, job.IID, err)
		return
	}

	r.logger.Info(ctx, "Transcription finished in %s, SRT uploaded to %s",
		time.Since(start).Round(time.Millisecond), res.Subtitles.Key)
}

// fail writes the error marker. The write is detached from ctx so a cancelled
// caller cannot leave the job unresolved.
func (r *Runner) fail(ctx context.Context, bucket, iid string, cause error) {
	r.logger.Error(ctx, "Transcription failed: %v", cause)
	if iid == "" {
		return
	}

	key := artifact.ErrorKey(iid)
	if err := r.store.Put(context.WithoutCancel(ctx), bucket, key, []byte(cause.Error())); err != nil {
		r.logger.Error(ctx, "Failed to write error marker %s: %v", key, err)
	}
}
