package ingest

import (
	"time"

	"github.com/google/uuid"

	"github.com/nguyentantai21042004/subtitle-flow/internal/blobstore"
	"github.com/nguyentantai21042004/subtitle-flow/internal/config"
	"github.com/nguyentantai21042004/subtitle-flow/internal/coordinator"
	"github.com/nguyentantai21042004/subtitle-flow/internal/logger"
	"github.com/nguyentantai21042004/subtitle-flow/internal/processor"
)

type implIngester struct {
	bucket      string
	store       blobstore.Store
	processor   processor.Processor
	coordinator coordinator.Coordinator
	poll        config.PollConfig
	newID       func() string
	logger      logger.Logger
}

type Deps struct {
	Bucket      string
	Store       blobstore.Store
	Processor   processor.Processor
	Coordinator coordinator.Coordinator
	Poll        config.PollConfig
	Logger      logger.Logger
}

// New creates an Ingester. Every run gets a fresh UUID as its IID.
func New(d Deps) Ingester {
	if d.Poll.Interval <= 0 {
		d.Poll.Interval = 5 * time.Second
	}
	if d.Poll.Timeout <= 0 {
		d.Poll.Timeout = 30 * time.Minute
	}
	return &implIngester{
		bucket:      d.Bucket,
		store:       d.Store,
		processor:   d.Processor,
		coordinator: d.Coordinator,
		poll:        d.Poll,
		newID:       uuid.NewString,
		logger:      d.Logger,
	}
}
