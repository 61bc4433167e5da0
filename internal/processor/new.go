package processor

import (
	"github.com/nguyentantai21042004/subtitle-flow/internal/blobstore"
	"github.com/nguyentantai21042004/subtitle-flow/internal/logger"
	"github.com/nguyentantai21042004/subtitle-flow/internal/media"
	"github.com/nguyentantai21042004/subtitle-flow/internal/scratch"
	"github.com/nguyentantai21042004/subtitle-flow/internal/transcriber"
)

// sourceName is the local file name of a downloaded video, before its extension.
const sourceName = "source"

type implProcessor struct {
	bucket  string
	store   blobstore.Store
	tool    media.Tool
	engine  transcriber.Engine
	scratch *scratch.Root
	logger  logger.Logger
}

// Deps are the collaborators shared by all stage invocations.
// Engine may be nil in processes that never transcribe.
type Deps struct {
	DefaultBucket string
	Store         blobstore.Store
	Tool          media.Tool
	Engine        transcriber.Engine
	Scratch       *scratch.Root
	Logger        logger.Logger
}

// New creates a new Processor instance
func New(d Deps) Processor {
	return &implProcessor{
		bucket:  d.DefaultBucket,
		store:   d.Store,
		tool:    d.Tool,
		engine:  d.Engine,
		scratch: d.Scratch,
		logger:  d.Logger,
	}
}
