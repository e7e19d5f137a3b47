// Package cli implements the openshorts command line interface.
package cli

import (
	"fmt"
	"os"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"
)

func Main() {
	_ = godotenv.Load() // best-effort: load .env if present

	root := &cobra.Command{
		Use:           "openshorts",
		Short:         "Cut captioned vertical clips out of long-form media",
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	root.SetOut(os.Stdout)
	root.SetErr(os.Stderr)
	root.PersistentFlags().String("config", "", "Path to YAML config file")

	root.AddCommand(newProcessCmd())
	root.AddCommand(newServeCmd())

	if err := root.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func newProcessCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "process <input>",
		Short: "Cut highlight clips from a local media file",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runProcess(cmd, args[0])
		},
	}
	cmd.Flags().String("out", "out", "Output directory")
	cmd.Flags().Float64("len", 15, "Target clip length in seconds")
	cmd.Flags().Int("clips", 6, "Maximum number of clips")
	cmd.Flags().String("aspect", "9:16", "Output aspect: 9:16, 1:1 or 16:9")
	cmd.Flags().String("style", "default", "Caption style name")
	cmd.Flags().String("lang", "", "Transcription language hint")
	return cmd
}

func newServeCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "serve",
		Short: "Run the HTTP API",
		Args:  cobra.NoArgs,
		RunE:  runServe,
	}
}
