package main

import (
	"fmt"
	"io"
	"log/slog"
	"os"
	"os/exec"
	"path/filepath"
	"runtime"
	"strings"

	"github.com/fatih/color"
	"github.com/spf13/cobra"
	"github.com/yuanying/mdz/internal/mdz"
	"github.com/yuanying/mdz/internal/render"
)

type previewOptions struct {
	InputPath      string       `flag:"input" validate:"required"`
	OutputPath     string       `flag:"output"`
	CSSPath        string       `flag:"css" validate:"excluded_with=NoCSS"`
	NoCSS          bool         `flag:"no-css"`
	NoInlineImages bool         `flag:"no-inline-images"`
	Title          string       `flag:"title"`
	MaxImageWidth  int          `flag:"max-image-width" validate:"gte=0"`
	Text           bool         `flag:"text"`
	Browser        bool         `flag:"browser"`
	Logger         *slog.Logger `validate:"-"`
}

// openBrowser hands path to the platform's default opener.
var openBrowser = func(path string) error {
	var cmd *exec.Cmd
	switch runtime.GOOS {
	case "darwin":
		cmd = exec.Command("open", path)
	case "windows":
		cmd = exec.Command("cmd", "/C", "start", "", path)
	default:
		cmd = exec.Command("xdg-open", path)
	}
	return cmd.Start()
}

func newPreviewCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "preview <input>",
		Short: "Render an MDZ file to HTML for preview",
		Long: `Preview renders the document to a single self-contained HTML file,
with images inlined as data URLs. --text writes plain text instead.

Without --output the result goes to the system temp directory.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			opts, err := readPreviewOptions(cmd, args)
			if err != nil {
				return err
			}
			return runPreview(cmd.OutOrStdout(), opts)
		},
	}

	cmd.Flags().StringP("output", "o", "", "Output file path (default: <tmp>/<input stem>.html)")
	cmd.Flags().String("css", "", "CSS file used instead of the document stylesheet")
	cmd.Flags().Bool("no-css", false, "Render without any stylesheet")
	cmd.Flags().Bool("no-inline-images", false, "Keep image references instead of inlining them")
	cmd.Flags().String("title", "", "HTML title (default: first heading of the document)")
	cmd.Flags().Int("max-image-width", 0, "Downscale inlined images wider than this many pixels (0 disables)")
	cmd.Flags().Bool("text", false, "Write plain text instead of HTML")
	cmd.Flags().BoolP("browser", "b", false, "Open the result in the default browser")
	return cmd
}

func readPreviewOptions(cmd *cobra.Command, args []string) (*previewOptions, error) {
	output, _ := cmd.Flags().GetString("output")
	cssPath, _ := cmd.Flags().GetString("css")
	noCSS, _ := cmd.Flags().GetBool("no-css")
	noInline, _ := cmd.Flags().GetBool("no-inline-images")
	title, _ := cmd.Flags().GetString("title")
	maxWidth, _ := cmd.Flags().GetInt("max-image-width")
	text, _ := cmd.Flags().GetBool("text")
	browser, _ := cmd.Flags().GetBool("browser")

	opts := &previewOptions{
		InputPath:      args[0],
		OutputPath:     output,
		CSSPath:        cssPath,
		NoCSS:          noCSS,
		NoInlineImages: noInline,
		Title:          title,
		MaxImageWidth:  maxWidth,
		Text:           text,
		Browser:        browser,
	}
	if err := checkOptions(opts); err != nil {
		return nil, err
	}
	if opts.OutputPath == "" {
		opts.OutputPath = defaultPreviewPath(opts.InputPath, opts.Text)
	}

	logger, err := readLogger(cmd, false)
	if err != nil {
		return nil, err
	}
	opts.Logger = logger
	return opts, nil
}

// defaultPreviewPath places the preview in the temp directory, named after the input.
func defaultPreviewPath(input string, text bool) string {
	stem := strings.TrimSuffix(filepath.Base(input), filepath.Ext(input))
	if stem == "" || stem == "." || stem == string(filepath.Separator) {
		stem = "preview"
	}
	ext := ".html"
	if text {
		ext = ".txt"
	}
	return filepath.Join(os.TempDir(), stem+ext)
}

func runPreview(w io.Writer, opts *previewOptions) error {
	fmt.Fprintf(w, "%s Generating preview...\n", color.CyanString("●"))

	doc, err := mdz.ParseFile(opts.InputPath)
	if err != nil {
		return fmt.Errorf("failed to parse MDZ file: %w", err)
	}

	renderOpts := render.DefaultOptions()
	renderOpts.IncludeCSS = !opts.NoCSS
	renderOpts.Base64Images = !opts.NoInlineImages
	renderOpts.HTMLTitle = opts.Title
	renderOpts.MaxImageWidth = opts.MaxImageWidth
	if opts.CSSPath != "" {
		css, err := os.ReadFile(opts.CSSPath)
		if err != nil {
			return fmt.Errorf("failed to read custom CSS file: %w", err)
		}
		custom := string(css)
		renderOpts.CustomCSS = &custom
	}

	r := render.New(renderOpts)
	r.Logger = opts.Logger

	var out string
	if opts.Text {
		out, err = r.RenderText(doc)
	} else {
		out, err = r.RenderHTML(doc)
	}
	if err != nil {
		return fmt.Errorf("failed to render: %w", err)
	}

	if dir := filepath.Dir(opts.OutputPath); dir != "" {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return fmt.Errorf("failed to create output directory: %w", err)
		}
	}
	if err := os.WriteFile(opts.OutputPath, []byte(out), 0644); err != nil {
		return fmt.Errorf("failed to write preview: %w", err)
	}
	fmt.Fprintf(w, "%s Preview generated: %s\n", color.GreenString("✓"), opts.OutputPath)

	if !opts.Browser {
		fmt.Fprintln(w, "  Use --browser to open automatically")
		return nil
	}
	if err := openBrowser(opts.OutputPath); err != nil {
		return fmt.Errorf("failed to open browser: %w", err)
	}
	fmt.Fprintln(w, "  Opened in browser")
	return nil
}
