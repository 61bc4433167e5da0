package main

import (
	"github.com/spf13/cobra"

	"github.com/nguyentantai21042004/subtitle-flow/internal/processor"
)

func newExtractCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "extract <video-key>",
		Short: "Extract the audio track of a stored video",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx, cancel := signalContext()
			defer cancel()

			a, err := newApp(ctx, cmd, noEngine)
			if err != nil {
				return err
			}
			defer a.Close()

			bucket, _ := cmd.Flags().GetString("bucket")
			uid, _ := cmd.Flags().GetString("uid")

			out, err := a.proc.ExtractAudio(ctx, processor.AudioRequest{Bucket: bucket, Key: args[0], UID: uid})
			if err != nil {
				return err
			}
			return printJSON(cmd.OutOrStdout(), out)
		},
	}
	cmd.Flags().String("bucket", "", "Bucket (defaults to storage.bucket)")
	cmd.Flags().String("uid", "", "Namespace for the audio key")
	return cmd
}

func newBurnCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "burn <video-key> <srt-key>",
		Short: "Burn a stored SRT file into a stored video",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx, cancel := signalContext()
			defer cancel()

			a, err := newApp(ctx, cmd, noEngine)
			if err != nil {
				return err
			}
			defer a.Close()

			bucket, _ := cmd.Flags().GetString("bucket")

			out, err := a.proc.BurnInSubtitles(ctx, processor.BurnRequest{Bucket: bucket, VideoKey: args[0], SRTKey: args[1]})
			if err != nil {
				return err
			}
			return printJSON(cmd.OutOrStdout(), out)
		},
	}
	cmd.Flags().String("bucket", "", "Bucket (defaults to storage.bucket)")
	return cmd
}
