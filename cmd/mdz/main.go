package main

import (
	"os"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"
)

// envLogLevel overrides the default of --log-level.
const envLogLevel = "MDZ_LOG_LEVEL"

const version = "0.1.0"

func newRootCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "mdz",
		Short: "Create and manage MDZ (Markdown Zipped) documents",
		Long: `mdz works with MDZ containers: zip archives holding a main.md
markdown document together with its images (img/) and stylesheets (css/).

Documents can be created from a directory, extracted back, validated
and rendered to a self-contained HTML preview.`,
		Version:      version,
		SilenceUsage: true,
	}

	defaultLevel := os.Getenv(envLogLevel)
	if defaultLevel == "" {
		defaultLevel = "info"
	}
	cmd.PersistentFlags().String("log-level", defaultLevel, "Log level (debug, info, warn, error)")
	cmd.PersistentFlags().String("log-format", "text", "Log format (text, json)")

	cmd.AddCommand(
		newCreateCmd(),
		newExtractCmd(),
		newValidateCmd(),
		newPreviewCmd(),
	)
	return cmd
}

func main() {
	_ = godotenv.Load()

	if err := newRootCmd().Execute(); err != nil {
		os.Exit(1)
	}
}
