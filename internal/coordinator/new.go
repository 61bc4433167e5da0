package coordinator

import (
	"github.com/nguyentantai21042004/subtitle-flow/internal/dispatch"
	"github.com/nguyentantai21042004/subtitle-flow/internal/logger"
)

type implCoordinator struct {
	bucket string
	store  Storage
	queue  dispatch.Queue
	logger logger.Logger
}

// New creates a Coordinator that dispatches through queue.
func New(defaultBucket string, store Storage, queue dispatch.Queue, log logger.Logger) Coordinator {
	return &implCoordinator{
		bucket: defaultBucket,
		store:  store,
		queue:  queue,
		logger: log,
	}
}

func (c *implCoordinator) bucketOr(bucket string) string {
	if bucket != "" {
		return bucket
	}
	return c.bucket
}
