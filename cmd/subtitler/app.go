package main

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os/signal"
	"runtime"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/nguyentantai21042004/subtitle-flow/internal/blobstore"
	"github.com/nguyentantai21042004/subtitle-flow/internal/config"
	"github.com/nguyentantai21042004/subtitle-flow/internal/coordinator"
	"github.com/nguyentantai21042004/subtitle-flow/internal/dispatch"
	"github.com/nguyentantai21042004/subtitle-flow/internal/logger"
	"github.com/nguyentantai21042004/subtitle-flow/internal/media"
	"github.com/nguyentantai21042004/subtitle-flow/internal/processor"
	"github.com/nguyentantai21042004/subtitle-flow/internal/scratch"
	"github.com/nguyentantai21042004/subtitle-flow/internal/transcriber"
	"github.com/nguyentantai21042004/subtitle-flow/pkg/executor"
)

// app holds the dependencies shared by every subcommand.
type app struct {
	cfg     *config.Config
	log     logger.Logger
	store   blobstore.Store
	scratch *scratch.Root
	proc    processor.Processor
}

// enginePolicy decides from the loaded config whether a command needs the
// transcription engine. Loading the model is what makes a process a
// transcription worker.
type enginePolicy func(cfg *config.Config) bool

var (
	noEngine      enginePolicy = func(*config.Config) bool { return false }
	withEngine    enginePolicy = func(*config.Config) bool { return true }
	engineIfLocal enginePolicy = func(cfg *config.Config) bool {
		return cfg.Queue.Driver == config.QueueDriverLocal
	}
)

// newApp loads config and wires storage and the stages.
func newApp(ctx context.Context, cmd *cobra.Command, needEngine enginePolicy) (*app, error) {
	path, _ := cmd.Flags().GetString("config")

	cfg, err := config.Load(path)
	if err != nil {
		return nil, err
	}

	log := logger.New(cfg.Logging.Level, cfg.Logging.Format)
	log.Debug(ctx, "System: %s/%s, %d CPU cores", runtime.GOOS, runtime.GOARCH, runtime.NumCPU())

	store, err := blobstore.NewS3(ctx, blobstore.S3Options{
		Region:     cfg.Storage.Region,
		Endpoint:   cfg.Storage.Endpoint,
		PathStyle:  cfg.Storage.PathStyle,
		PresignTTL: cfg.Storage.PresignTTL,
	})
	if err != nil {
		return nil, err
	}

	root, err := scratch.Open(cfg.Paths.Scratch)
	if err != nil {
		return nil, err
	}

	exec := executor.New()

	var engine transcriber.Engine
	if needEngine(cfg) {
		engine, err = transcriber.New(cfg.Whisper, exec, log)
		if err != nil {
			root.Close()
			return nil, fmt.Errorf("load transcription engine: %w", err)
		}
		log.Info(ctx, "Model loaded: %s", cfg.Whisper.ModelPath)
	}

	proc := processor.New(processor.Deps{
		DefaultBucket: cfg.Storage.Bucket,
		Store:         store,
		Tool:          media.New(cfg.FFmpeg, exec, log),
		Engine:        engine,
		Scratch:       root,
		Logger:        log,
	})

	return &app{
		cfg:     cfg,
		log:     log,
		store:   store,
		scratch: root,
		proc:    proc,
	}, nil
}

func (a *app) Close() error {
	return a.scratch.Close()
}

// runner returns the failure boundary around the Transcribe stage.
func (a *app) runner() *coordinator.Runner {
	return coordinator.NewRunner(a.cfg.Storage.Bucket, a.proc, a.store, a.log)
}

// newQueue builds the job queue selected by queue.driver. The local driver
// runs jobs through handler in this process; the rabbitmq driver only
// publishes, and handler is unused.
func (a *app) newQueue(handler dispatch.Handler) (dispatch.Queue, error) {
	switch a.cfg.Queue.Driver {
	case config.QueueDriverRabbitMQ:
		return dispatch.NewRabbitQueue(a.cfg.Queue.URL, a.cfg.Queue.Name)
	case config.QueueDriverLocal:
		if handler == nil {
			return nil, errors.New("local queue needs a handler")
		}
		return dispatch.NewLocal(handler, a.cfg.Performance.MaxConcurrent, a.log), nil
	default:
		return nil, fmt.Errorf("queue driver %q not supported", a.cfg.Queue.Driver)
	}
}

// signalContext is cancelled on SIGINT or SIGTERM.
func signalContext() (context.Context, context.CancelFunc) {
	return signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
}

func printJSON(w io.Writer, v any) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}
