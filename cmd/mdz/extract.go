package main

import (
	"fmt"
	"io"
	"log/slog"

	"github.com/fatih/color"
	"github.com/spf13/cobra"
	"github.com/yuanying/mdz/internal/mdz"
)

type extractOptions struct {
	InputPath string       `flag:"input" validate:"required"`
	OutputDir string       `flag:"to" validate:"required"`
	Force     bool         `flag:"force"`
	Verbose   bool         `flag:"verbose"`
	Logger    *slog.Logger `validate:"-"`
}

func newExtractCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "extract <input>",
		Short: "Extract an MDZ file to a directory",
		Long: `Extract writes every entry of the MDZ file below the output directory.
An existing output directory is refused unless --force is given.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			opts, err := readExtractOptions(cmd, args)
			if err != nil {
				return err
			}
			return runExtract(cmd.OutOrStdout(), opts)
		},
	}

	cmd.Flags().StringP("to", "t", "", "Output directory")
	cmd.Flags().Bool("force", false, "Extract into an existing directory, overwriting files")
	cmd.Flags().BoolP("verbose", "v", false, "Log every extracted entry")
	return cmd
}

func readExtractOptions(cmd *cobra.Command, args []string) (*extractOptions, error) {
	to, _ := cmd.Flags().GetString("to")
	force, _ := cmd.Flags().GetBool("force")
	verbose, _ := cmd.Flags().GetBool("verbose")

	opts := &extractOptions{
		InputPath: args[0],
		OutputDir: to,
		Force:     force,
		Verbose:   verbose,
	}
	if err := checkOptions(opts); err != nil {
		return nil, err
	}

	logger, err := readLogger(cmd, verbose)
	if err != nil {
		return nil, err
	}
	opts.Logger = logger
	return opts, nil
}

func runExtract(w io.Writer, opts *extractOptions) error {
	fmt.Fprintf(w, "%s Extracting MDZ file...\n", color.CyanString("●"))

	archive, err := mdz.OpenArchive(opts.InputPath)
	if err != nil {
		return fmt.Errorf("extract failed: %w", err)
	}
	defer archive.Close()

	n, err := mdz.Unpack(archive, opts.OutputDir, mdz.UnpackOptions{
		Force:  opts.Force,
		Logger: opts.Logger,
	})
	if err != nil {
		return fmt.Errorf("extract failed: %w", err)
	}

	fmt.Fprintf(w, "%s Extracted to: %s\n", color.GreenString("✓"), opts.OutputDir)
	fmt.Fprintf(w, "  Files extracted: %d\n", n)
	return nil
}
