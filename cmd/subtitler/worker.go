package main

import (
	"context"
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/nguyentantai21042004/subtitle-flow/internal/config"
	"github.com/nguyentantai21042004/subtitle-flow/internal/dispatch"
)

func newWorkerCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "worker",
		Short: "Consume transcription jobs from RabbitMQ",
		Args:  cobra.NoArgs,
		RunE:  runWorker,
	}
}

func runWorker(cmd *cobra.Command, _ []string) error {
	ctx, cancel := signalContext()
	defer cancel()

	a, err := newApp(ctx, cmd, withEngine)
	if err != nil {
		return err
	}
	defer a.Close()

	if a.cfg.Queue.Driver != config.QueueDriverRabbitMQ {
		return fmt.Errorf("worker needs queue.driver %q, got %q", config.QueueDriverRabbitMQ, a.cfg.Queue.Driver)
	}

	consumer, err := dispatch.NewRabbitConsumer(a.cfg.Queue.URL, a.cfg.Queue.Name, a.cfg.Performance.MaxConcurrent, a.log)
	if err != nil {
		return err
	}
	defer consumer.Close()

	a.log.Info(ctx, "Transcription worker ready. Press Ctrl+C to stop")
	err = consumer.Consume(ctx, a.runner().Run)
	if errors.Is(err, context.Canceled) {
		a.log.Info(ctx, "Worker stopped")
		return nil
	}
	return err
}
