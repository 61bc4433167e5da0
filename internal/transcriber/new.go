package transcriber

import (
	"fmt"
	"os"
	"os/exec"

	"github.com/nguyentantai21042004/subtitle-flow/internal/config"
	"github.com/nguyentantai21042004/subtitle-flow/internal/logger"
	"github.com/nguyentantai21042004/subtitle-flow/pkg/executor"
)

type implWhisper struct {
	cfg      config.WhisperConfig
	executor executor.Executor
	logger   logger.Logger
}

// New checks that the whisper.cpp binary and model are usable and returns an
// Engine bound to them. Fields are never modified afterwards.
func New(cfg config.WhisperConfig, runner executor.Executor, log logger.Logger) (Engine, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	if _, err := os.Stat(cfg.ModelPath); err != nil {
		return nil, fmt.Errorf("whisper model: %w", err)
	}
	if _, err := exec.LookPath(cfg.BinaryPath); err != nil {
		return nil, fmt.Errorf("whisper binary: %w", err)
	}
	return newEngine(cfg, runner, log), nil
}

func newEngine(cfg config.WhisperConfig, runner executor.Executor, log logger.Logger) *implWhisper {
	return &implWhisper{
		cfg:      cfg,
		executor: runner,
		logger:   log,
	}
}
