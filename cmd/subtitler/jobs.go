package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/nguyentantai21042004/subtitle-flow/internal/coordinator"
	"github.com/nguyentantai21042004/subtitle-flow/internal/dispatch"
	"github.com/nguyentantai21042004/subtitle-flow/internal/processor"
)

func newStartCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "start <IID> <audio-key>",
		Short: "Dispatch a transcription job",
		Long: "Dispatch a transcription job. With the rabbitmq driver this returns once the\n" +
			"job is published; with the local driver the job runs in this process and the\n" +
			"command exits when it has finished.",
		Args: cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx, cancel := signalContext()
			defer cancel()

			a, err := newApp(ctx, cmd, engineIfLocal)
			if err != nil {
				return err
			}
			defer a.Close()

			queue, err := a.newQueue(a.runner().Run)
			if err != nil {
				return err
			}
			defer queue.Close()

			bucket, _ := cmd.Flags().GetString("bucket")
			job := dispatch.Job{IID: args[0], Audio: args[1], Bucket: bucket}
			if video, _ := cmd.Flags().GetString("video"); video != "" {
				job.Video = &dispatch.VideoRef{Key: video}
			}

			resp, err := coordinator.New(a.cfg.Storage.Bucket, a.store, queue, a.log).Start(ctx, job)
			if err != nil {
				return err
			}
			return printJSON(cmd.OutOrStdout(), resp)
		},
	}
	cmd.Flags().String("bucket", "", "Bucket (defaults to storage.bucket)")
	cmd.Flags().String("video", "", "Key of the source video")
	return cmd
}

func newPollCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "poll <IID>...",
		Short: "Show the state of transcription jobs",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx, cancel := signalContext()
			defer cancel()

			a, err := newApp(ctx, cmd, noEngine)
			if err != nil {
				return err
			}
			defer a.Close()

			bucket, _ := cmd.Flags().GetString("bucket")
			coord := coordinator.New(a.cfg.Storage.Bucket, a.store, nil, a.log)

			rows := make([][]string, 0, len(args))
			for _, iid := range args {
				resp, err := coord.Poll(ctx, coordinator.PollRequest{Bucket: bucket, IID: iid})
				if err != nil {
					return fmt.Errorf("poll %s: %w", iid, err)
				}
				rows = append(rows, pollRow(iid, resp))
			}

			fmt.Fprintln(cmd.OutOrStdout(), renderPollTable(rows))
			return nil
		},
	}
	cmd.Flags().String("bucket", "", "Bucket (defaults to storage.bucket)")
	return cmd
}

func pollRow(iid string, resp coordinator.Response) []string {
	switch body := resp.Body.(type) {
	case processor.Transcript:
		return []string{iid, coordinator.StateDone.String(), body.Text.URL, body.Subtitles.URL}
	case coordinator.Message:
		state := coordinator.StatePending
		if body.Message == coordinator.MsgError {
			state = coordinator.StateError
		}
		return []string{iid, state.String(), "-", "-"}
	default:
		return []string{iid, fmt.Sprintf("HTTP %d", resp.StatusCode), "-", "-"}
	}
}
