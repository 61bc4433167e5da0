package dispatch

import (
	"context"
	"errors"
)

// ErrClosed is returned by Submit after the queue has been closed.
var ErrClosed = errors.New("dispatch queue closed")

// VideoRef points at the source video of a job.
type VideoRef struct {
	Key string `json:"key"`
}

// Job is the transcription job payload handed from Start to a worker.
type Job struct {
	IID    string    `json:"IID"`
	Bucket string    `json:"bucket,omitempty"`
	Audio  string    `json:"audio"`
	Video  *VideoRef `json:"video,omitempty"`
	Warmup bool      `json:"warmup,omitempty"`
}

// Handler executes one job. There is no return channel: the outcome is only
// observable through what the handler writes to the blob store.
type Handler func(ctx context.Context, job Job)

// Queue accepts jobs for asynchronous execution. Submit returns as soon as the
// job has been handed off and never waits for the handler.
type Queue interface {
	Submit(ctx context.Context, job Job) error
	Close() error
}
