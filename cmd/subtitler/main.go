package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

func main() {
	root := &cobra.Command{
		Use:          "subtitler",
		Short:        "Turn uploaded videos into subtitled videos",
		SilenceUsage: true,
	}

	root.SetOut(os.Stdout)
	root.SetErr(os.Stderr)
	root.SilenceErrors = true

	root.PersistentFlags().String("config", "config.yaml", "Path to the YAML config file")

	root.AddCommand(
		newServeCmd(),
		newWorkerCmd(),
		newExtractCmd(),
		newBurnCmd(),
		newStartCmd(),
		newPollCmd(),
		newIngestCmd(),
		newWatchCmd(),
	)

	if err := root.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
