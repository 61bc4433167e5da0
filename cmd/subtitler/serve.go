package main

import (
	"errors"

	"github.com/spf13/cobra"

	"github.com/nguyentantai21042004/subtitle-flow/internal/config"
	"github.com/nguyentantai21042004/subtitle-flow/internal/coordinator"
	"github.com/nguyentantai21042004/subtitle-flow/internal/dispatch"
	"github.com/nguyentantai21042004/subtitle-flow/internal/httpapi"
	"github.com/nguyentantai21042004/subtitle-flow/internal/summarizer"
)

func newServeCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Run the HTTP API",
		Long: "Run the HTTP API. With the local queue driver transcription runs in this\n" +
			"process; with rabbitmq, jobs are published for `subtitler worker`.",
		Args: cobra.NoArgs,
		RunE: runServe,
	}
	cmd.Flags().String("addr", "", "Listen address (overrides server.addr)")
	return cmd
}

func runServe(cmd *cobra.Command, _ []string) error {
	ctx, cancel := signalContext()
	defer cancel()

	a, err := newApp(ctx, cmd, engineIfLocal)
	if err != nil {
		return err
	}
	defer a.Close()

	var handler dispatch.Handler
	if a.cfg.Queue.Driver == config.QueueDriverLocal {
		handler = a.runner().Run
	}
	queue, err := a.newQueue(handler)
	if err != nil {
		return err
	}
	defer func() {
		a.log.Info(ctx, "Waiting for dispatched jobs to finish...")
		if err := queue.Close(); err != nil {
			a.log.Warn(ctx, "Queue close: %v", err)
		}
	}()

	summ, err := summarizer.New(a.cfg.Gemini, a.cfg.Storage.Bucket, a.store, a.scratch, a.log)
	if errors.Is(err, summarizer.ErrDisabled) {
		a.log.Info(ctx, "Summaries disabled: no Gemini API keys")
	} else if err != nil {
		return err
	}

	srv := httpapi.New(httpapi.Deps{
		Coordinator: coordinator.New(a.cfg.Storage.Bucket, a.store, queue, a.log),
		Processor:   a.proc,
		Summarizer:  summ,
		Logger:      a.log,
	})

	addr, _ := cmd.Flags().GetString("addr")
	if addr == "" {
		addr = a.cfg.Server.Addr
	}

	a.log.Info(ctx, "Queue driver: %s, max concurrent: %d", a.cfg.Queue.Driver, a.cfg.Performance.MaxConcurrent)
	if err := srv.ListenAndServe(ctx, addr); err != nil {
		return err
	}
	a.log.Info(ctx, "Shutdown signal received")
	return nil
}
