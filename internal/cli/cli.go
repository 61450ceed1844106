package cli

import (
	"errors"
	"flag"
	"fmt"
	"io"
	"log/slog"
	"strings"
	"time"

	"github.com/vk/fluxfield/internal/app"
	"github.com/vk/fluxfield/internal/specerr"
)

// Exit codes.
const (
	ExitFailure = 1
	ExitUsage   = 2
)

// ExitError is a custom error type that includes a specific exit code.
type ExitError struct {
	Code    int
	Message string
}

// Error implements the error interface for ExitError.
func (e *ExitError) Error() string {
	return e.Message
}

// Parse processes command-line arguments. It returns a populated Config,
// a boolean indicating if the program should exit cleanly, or an ExitError.
func Parse(args []string, output io.Writer) (*app.Config, bool, error) {
	slog.Debug("CLI parser started.")
	flagSet := flag.NewFlagSet("fluxfield", flag.ContinueOnError)
	flagSet.SetOutput(output)

	flagSet.Usage = func() {
		fmt.Fprint(output, `
fluxfield - builds resource graphs from HPC resource specifications.

Usage:
  fluxfield [options] [SPEC_PATH]

Arguments:
  SPEC_PATH
    Path to a single .yaml, .yml, .json or .hcl file, or a directory
    containing such files.

Options:
`)
		flagSet.PrintDefaults()
	}

	specFlag := flagSet.String("spec", "", "Path to the spec file or directory.")
	sFlag := flagSet.String("s", "", "Path to the spec file or directory (shorthand).")
	outputFlag := flagSet.String("output", "yaml", "Output format. Options: "+quoted(app.OutputFormats)+".")
	emitFlag := flagSet.String("emit", "canonical", "What to print. Options: "+quoted(app.EmitModes)+".")
	idsFlag := flagSet.String("ids", "uuid", "Instance identifier generator. Options: "+quoted(app.IDGenerators)+".")
	maxFlag := flagSet.Int("max-instances", 0, "Upper bound on instances per spec. 0 uses the built-in limit.")
	logFormatFlag := flagSet.String("log-format", "text", "Log output format. Options: 'text' or 'json'.")
	logLevelFlag := flagSet.String("log-level", "info", "Set the logging level. Options: 'debug', 'info', 'warn', 'error'.")
	pubURLFlag := flagSet.String("publish-url", "", "socket.io endpoint that receives each built graph. Empty disables publishing.")
	pubNSFlag := flagSet.String("publish-namespace", "/", "socket.io namespace.")
	pubEventFlag := flagSet.String("publish-event", "resources", "Event emitted with the graph.")
	pubAckFlag := flagSet.String("publish-ack-event", "", "Event to wait for after emitting. Empty means fire and forget.")
	pubTimeoutFlag := flagSet.Duration("publish-timeout", 10*time.Second, "Time allowed for each publish.")
	pubInsecureFlag := flagSet.Bool("publish-insecure", false, "Skip TLS certificate verification when publishing.")

	if err := flagSet.Parse(args); err != nil {
		if err == flag.ErrHelp {
			return nil, true, nil
		}
		return nil, false, &ExitError{Code: ExitUsage, Message: err.Error()}
	}
	slog.Debug("Arguments parsed successfully.")

	path := ""
	if *specFlag != "" {
		path = *specFlag
	} else if *sFlag != "" {
		path = *sFlag
	} else if flagSet.NArg() > 0 {
		path = flagSet.Arg(0)
	}
	slog.Debug("Spec path determined.", "path", path)

	if path == "" {
		slog.Debug("No spec path provided, printing usage and exiting.")
		flagSet.Usage()
		return nil, true, nil
	}
	if flagSet.NArg() > 1 {
		return nil, false, &ExitError{Code: ExitUsage, Message: fmt.Sprintf("expected a single SPEC_PATH, got %d", flagSet.NArg())}
	}

	logFormat := strings.ToLower(*logFormatFlag)
	if logFormat != "text" && logFormat != "json" {
		return nil, false, &ExitError{Code: ExitUsage, Message: "invalid log-format: must be 'text' or 'json'"}
	}

	logLevel := strings.ToLower(*logLevelFlag)
	switch logLevel {
	case "debug", "info", "warn", "error":
		// valid
	default:
		return nil, false, &ExitError{Code: ExitUsage, Message: "invalid log-level: must be 'debug', 'info', 'warn', or 'error'"}
	}
	slog.Debug("CLI parameter validation complete.")

	config, err := app.NewConfig(app.Config{
		SpecPath:     path,
		Output:       strings.ToLower(*outputFlag),
		Emit:         strings.ToLower(*emitFlag),
		IDs:          strings.ToLower(*idsFlag),
		MaxInstances: *maxFlag,
		LogFormat:    logFormat,
		LogLevel:     logLevel,
		Publish: app.PublishConfig{
			URL:                *pubURLFlag,
			Namespace:          *pubNSFlag,
			Event:              *pubEventFlag,
			AckEvent:           *pubAckFlag,
			Timeout:            *pubTimeoutFlag,
			InsecureSkipVerify: *pubInsecureFlag,
		},
	})
	if err != nil {
		return nil, false, &ExitError{Code: ExitUsage, Message: err.Error()}
	}

	slog.Debug("CLI parser finished successfully.", "config", config)
	return config, false, nil
}

// FromError converts an application failure into an ExitError. Spec
// validation failures name their kind and location.
func FromError(err error) *ExitError {
	if err == nil {
		return nil
	}
	var exitErr *ExitError
	if errors.As(err, &exitErr) {
		return exitErr
	}
	var se *specerr.Error
	if errors.As(err, &se) {
		loc := se.Field
		if loc == "" {
			loc = "<root>"
		}
		return &ExitError{
			Code:    ExitFailure,
			Message: fmt.Sprintf("invalid spec (%s at %s): %v", se.Kind, loc, err),
		}
	}
	return &ExitError{Code: ExitFailure, Message: err.Error()}
}

func quoted(values []string) string {
	out := make([]string, len(values))
	for i, v := range values {
		out[i] = "'" + v + "'"
	}
	return strings.Join(out, ", ")
}
