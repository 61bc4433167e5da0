package media

import (
	"github.com/nguyentantai21042004/subtitle-flow/internal/config"
	"github.com/nguyentantai21042004/subtitle-flow/internal/logger"
	"github.com/nguyentantai21042004/subtitle-flow/pkg/executor"
)

type implFFmpeg struct {
	cfg      config.FFmpegConfig
	executor executor.Executor
	logger   logger.Logger
}

// New creates an ffmpeg-backed Tool
func New(cfg config.FFmpegConfig, exec executor.Executor, log logger.Logger) Tool {
	if cfg.BinaryPath == "" {
		cfg.BinaryPath = "ffmpeg"
	}
	return &implFFmpeg{
		cfg:      cfg,
		executor: exec,
		logger:   log,
	}
}
