package summarizer

import (
	"github.com/nguyentantai21042004/subtitle-flow/internal/blobstore"
	"github.com/nguyentantai21042004/subtitle-flow/internal/config"
	"github.com/nguyentantai21042004/subtitle-flow/internal/logger"
	"github.com/nguyentantai21042004/subtitle-flow/internal/scratch"
)

type implSummarizer struct {
	bucket    string
	store     blobstore.Store
	scratch   *scratch.Root
	generator Generator
	logger    logger.Logger
}

// New creates a Summarizer backed by Gemini. It returns ErrDisabled when
// cfg carries no API keys.
func New(cfg config.GeminiConfig, defaultBucket string, store blobstore.Store, root *scratch.Root, log logger.Logger) (Summarizer, error) {
	if len(cfg.APIKeys) == 0 {
		return nil, ErrDisabled
	}
	return newWithGenerator(newGemini(cfg.APIKeys, cfg.Model, log), defaultBucket, store, root, log), nil
}

func newWithGenerator(gen Generator, defaultBucket string, store blobstore.Store, root *scratch.Root, log logger.Logger) *implSummarizer {
	return &implSummarizer{
		bucket:    defaultBucket,
		store:     store,
		scratch:   root,
		generator: gen,
		logger:    log,
	}
}
