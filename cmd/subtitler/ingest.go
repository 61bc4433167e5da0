package main

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/nguyentantai21042004/subtitle-flow/internal/coordinator"
	"github.com/nguyentantai21042004/subtitle-flow/internal/ingest"
	"github.com/nguyentantai21042004/subtitle-flow/internal/watcher"
)

func newIngestCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "ingest <video-file>...",
		Short: "Run the whole pipeline for local video files",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx, cancel := signalContext()
			defer cancel()

			a, ing, closeQueue, err := newIngester(ctx, cmd)
			if err != nil {
				return err
			}
			defer a.Close()
			defer closeQueue()

			var failed int
			for _, path := range args {
				res, err := ing.Process(ctx, path)
				if err != nil {
					a.log.Error(ctx, "Failed to process %s: %v", path, err)
					failed++
					continue
				}
				if err := printJSON(cmd.OutOrStdout(), res); err != nil {
					return err
				}
			}
			if failed > 0 {
				return fmt.Errorf("%d of %d files failed", failed, len(args))
			}
			return nil
		},
	}
}

func newWatchCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "watch",
		Short: "Run the pipeline for every video dropped into the inbox",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			ctx, cancel := signalContext()
			defer cancel()

			a, ing, closeQueue, err := newIngester(ctx, cmd)
			if err != nil {
				return err
			}
			defer a.Close()
			defer closeQueue()

			inbox, _ := cmd.Flags().GetString("inbox")
			if inbox == "" {
				inbox = a.cfg.Paths.Inbox
			}

			handle := func(ctx context.Context, path string) error {
				_, err := ing.Process(ctx, path)
				return err
			}
			w, err := watcher.New(inbox, handle, a.log, a.cfg.Performance.MaxConcurrent)
			if err != nil {
				return err
			}
			defer w.Stop()

			a.log.Info(ctx, "Video pipeline is ready! Press Ctrl+C to stop")
			if err := w.Start(ctx); err != nil && err != context.Canceled {
				return err
			}
			return nil
		},
	}
	cmd.Flags().String("inbox", "", "Directory to watch (overrides paths.inbox)")
	return cmd
}

// newIngester wires an Ingester. With the local driver transcription runs in
// this process; with rabbitmq a separate worker must be running.
func newIngester(ctx context.Context, cmd *cobra.Command) (*app, ingest.Ingester, func(), error) {
	a, err := newApp(ctx, cmd, engineIfLocal)
	if err != nil {
		return nil, nil, nil, err
	}

	queue, err := a.newQueue(a.runner().Run)
	if err != nil {
		a.Close()
		return nil, nil, nil, err
	}

	ing := ingest.New(ingest.Deps{
		Bucket:      a.cfg.Storage.Bucket,
		Store:       a.store,
		Processor:   a.proc,
		Coordinator: coordinator.New(a.cfg.Storage.Bucket, a.store, queue, a.log),
		Poll:        a.cfg.Poll,
		Logger:      a.log,
	})

	closeQueue := func() {
		if err := queue.Close(); err != nil {
			a.log.Warn(ctx, "Queue close: %v", err)
		}
	}
	return a, ing, closeQueue, nil
}
