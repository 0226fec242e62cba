package main

import (
	"fmt"
	"io"
	"log/slog"
	"os"

	"github.com/fatih/color"
	"github.com/spf13/cobra"
	"github.com/yuanying/mdz/internal/mdz"
)

type createOptions struct {
	OutputPath  string       `flag:"output" validate:"required"`
	SourceDir   string       `flag:"from" validate:"required"`
	Compression int          `flag:"compression" validate:"min=0,max=9"`
	Method      string       `flag:"method" validate:"oneof=deflate store zstd"`
	Verbose     bool         `flag:"verbose"`
	Logger      *slog.Logger `validate:"-"`
}

func newCreateCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "create <output>",
		Short: "Create an MDZ file from a source directory",
		Long: `Create packs main.md and the img/ and css/ directories of the
source directory into a new MDZ file. Other files are left out.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			opts, err := readCreateOptions(cmd, args)
			if err != nil {
				return err
			}
			return runCreate(cmd.OutOrStdout(), opts)
		},
	}

	cmd.Flags().StringP("from", "f", "", "Source directory containing main.md and resources")
	cmd.Flags().Int("compression", mdz.DefaultCompressionLevel, "Compression level (0-9)")
	cmd.Flags().String("method", mdz.MethodDeflate, "Compression method (deflate, store, zstd)")
	cmd.Flags().BoolP("verbose", "v", false, "List every file added")
	return cmd
}

func readCreateOptions(cmd *cobra.Command, args []string) (*createOptions, error) {
	from, _ := cmd.Flags().GetString("from")
	compression, _ := cmd.Flags().GetInt("compression")
	method, _ := cmd.Flags().GetString("method")
	verbose, _ := cmd.Flags().GetBool("verbose")

	opts := &createOptions{
		OutputPath:  args[0],
		SourceDir:   from,
		Compression: compression,
		Method:      method,
		Verbose:     verbose,
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

func runCreate(w io.Writer, opts *createOptions) error {
	fmt.Fprintf(w, "%s Creating MDZ file...\n", color.CyanString("●"))

	summary, err := mdz.PackFile(opts.SourceDir, opts.OutputPath, mdz.PackOptions{
		Method: opts.Method,
		Level:  opts.Compression,
		Logger: opts.Logger,
	})
	if err != nil {
		return fmt.Errorf("create failed: %w", err)
	}

	if opts.Verbose {
		for _, name := range summary.Entries {
			fmt.Fprintf(w, "  %s %s\n", color.BlueString("·"), name)
		}
	}

	info, err := os.Stat(opts.OutputPath)
	if err != nil {
		return fmt.Errorf("create failed: %w", err)
	}
	fmt.Fprintf(w, "%s MDZ file created: %s\n", color.GreenString("✓"), opts.OutputPath)
	fmt.Fprintf(w, "  Size: %d bytes\n", info.Size())
	return nil
}
