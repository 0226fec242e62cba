package main

import (
	"errors"
	"fmt"
	"io"
	"log/slog"

	"github.com/fatih/color"
	"github.com/spf13/cobra"
	"github.com/yuanying/mdz/internal/mdz"
)

// errValidationFailed is returned when the report has errors, or warnings in strict mode.
var errValidationFailed = errors.New("validation failed")

type validateOptions struct {
	InputPath string       `flag:"input" validate:"required"`
	Detailed  bool         `flag:"detailed"`
	Strict    bool         `flag:"strict"`
	Logger    *slog.Logger `validate:"-"`
}

func newValidateCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "validate <input>",
		Short: "Validate the structure of an MDZ file",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			opts, err := readValidateOptions(cmd, args)
			if err != nil {
				return err
			}
			return runValidate(cmd.OutOrStdout(), opts)
		},
	}

	cmd.Flags().BoolP("detailed", "d", false, "Show the file summary")
	cmd.Flags().Bool("strict", false, "Treat warnings as errors")
	return cmd
}

func readValidateOptions(cmd *cobra.Command, args []string) (*validateOptions, error) {
	detailed, _ := cmd.Flags().GetBool("detailed")
	strict, _ := cmd.Flags().GetBool("strict")

	opts := &validateOptions{
		InputPath: args[0],
		Detailed:  detailed,
		Strict:    strict,
	}
	if err := checkOptions(opts); err != nil {
		return nil, err
	}

	logger, err := readLogger(cmd, false)
	if err != nil {
		return nil, err
	}
	opts.Logger = logger
	return opts, nil
}

func runValidate(w io.Writer, opts *validateOptions) error {
	fmt.Fprintf(w, "%s Validating MDZ file...\n", color.CyanString("●"))

	result, err := mdz.ValidateFile(opts.InputPath)
	if err != nil {
		return fmt.Errorf("validate failed: %w", err)
	}
	opts.Logger.Debug("validated container",
		"path", opts.InputPath,
		"errors", len(result.Errors),
		"warnings", len(result.Warnings))

	printReport(w, result, opts.Detailed)

	if !result.IsValid() || (opts.Strict && len(result.Warnings) > 0) {
		return errValidationFailed
	}
	fmt.Fprintf(w, "%s Validation passed\n", color.GreenString("✓"))
	return nil
}

func printReport(w io.Writer, result *mdz.ValidationResult, detailed bool) {
	fmt.Fprintln(w, "\nStructure Check:")
	printCheck(w, "main.md present", result.HasMainMD)
	printCheck(w, "img/ directory", result.HasImgDir)
	printCheck(w, "css/ directory", result.HasCSSDir)
	printCheck(w, "css/style.css", result.HasMainCSS)

	if detailed {
		fmt.Fprintln(w, "\nFile Summary:")
		fmt.Fprintf(w, "  Image files: %d\n", len(result.ImageFiles))
		fmt.Fprintf(w, "  CSS files: %d\n", len(result.CSSFiles))
		printList(w, "Images", result.ImageFiles)
		printList(w, "CSS Files", result.CSSFiles)
	}

	if len(result.Errors) > 0 {
		fmt.Fprintln(w, "\nErrors:")
		for _, e := range result.Errors {
			fmt.Fprintf(w, "  %s %s\n", color.RedString("✗"), e)
		}
	}

	if len(result.Warnings) > 0 {
		fmt.Fprintln(w, "\nWarnings:")
		for _, warn := range result.Warnings {
			fmt.Fprintf(w, "  %s %s\n", color.YellowString("!"), warn)
		}
	}

	fmt.Fprintln(w, "\nOverall Status:")
	if result.IsValid() {
		fmt.Fprintf(w, "  %s Valid MDZ format\n", color.GreenString("✓"))
	} else {
		fmt.Fprintf(w, "  %s Invalid MDZ format\n", color.RedString("✗"))
	}
}

func printCheck(w io.Writer, label string, ok bool) {
	mark := color.GreenString("✓")
	if !ok {
		mark = color.RedString("✗")
	}
	fmt.Fprintf(w, "  %s %s\n", mark, label)
}

func printList(w io.Writer, title string, items []string) {
	if len(items) == 0 {
		return
	}
	fmt.Fprintf(w, "\n  %s:\n", title)
	for _, item := range items {
		fmt.Fprintf(w, "    %s\n", item)
	}
}
