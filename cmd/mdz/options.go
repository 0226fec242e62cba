package main

import (
	"errors"
	"fmt"
	"io"
	"log/slog"
	"reflect"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/spf13/cobra"
)

// logOptions holds the persistent flags shared by every subcommand.
type logOptions struct {
	Level  string `flag:"log-level" validate:"oneof=debug info warn error"`
	Format string `flag:"log-format" validate:"oneof=text json"`
}

var validate = newValidator()

// newValidator reports field errors under their flag names.
func newValidator() *validator.Validate {
	v := validator.New(validator.WithRequiredStructEnabled())
	v.RegisterTagNameFunc(func(f reflect.StructField) string {
		name := f.Tag.Get("flag")
		if name == "" {
			return f.Name
		}
		return "--" + name
	})
	return v
}

// checkOptions validates an option struct and joins every failure into one error.
func checkOptions(opts any) error {
	err := validate.Struct(opts)
	if err == nil {
		return nil
	}

	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		return err
	}
	msgs := make([]string, 0, len(verrs))
	for _, fe := range verrs {
		rule := fe.Tag()
		if fe.Param() != "" {
			rule += "=" + fe.Param()
		}
		msgs = append(msgs, fmt.Sprintf("invalid value %q for %s (%s)", fmt.Sprint(fe.Value()), fe.Field(), rule))
	}
	return errors.New(strings.Join(msgs, "; "))
}

// readLogger builds the logger selected by the persistent flags.
// verbose forces the debug level.
func readLogger(cmd *cobra.Command, verbose bool) (*slog.Logger, error) {
	level, _ := cmd.Flags().GetString("log-level")
	format, _ := cmd.Flags().GetString("log-format")

	opts := logOptions{
		Level:  strings.ToLower(level),
		Format: strings.ToLower(format),
	}
	if err := checkOptions(opts); err != nil {
		return nil, err
	}
	if verbose {
		opts.Level = "debug"
	}
	return buildLogger(cmd.ErrOrStderr(), opts.Level, opts.Format), nil
}

// buildLogger creates a text or JSON logger at the given level.
// Unknown levels fall back to info.
func buildLogger(w io.Writer, levelStr, formatStr string) *slog.Logger {
	var level slog.Level
	switch strings.ToLower(levelStr) {
	case "debug":
		level = slog.LevelDebug
	case "warn":
		level = slog.LevelWarn
	case "error":
		level = slog.LevelError
	default:
		level = slog.LevelInfo
	}

	handlerOpts := &slog.HandlerOptions{Level: level}
	if strings.ToLower(formatStr) == "json" {
		return slog.New(slog.NewJSONHandler(w, handlerOpts))
	}
	return slog.New(slog.NewTextHandler(w, handlerOpts))
}
