package cli

import (
	"flag"
	"fmt"
	"io"
	"log/slog"
	"strings"

	"github.com/vk/blastradius/internal/app"
	"github.com/vk/blastradius/internal/reach"
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

// stringList is a repeatable string flag.
type stringList []string

func (s *stringList) String() string {
	return strings.Join(*s, ",")
}

func (s *stringList) Set(value string) error {
	*s = append(*s, value)
	return nil
}

// Parse processes command-line arguments. It returns a populated Config,
// a boolean indicating if the program should exit cleanly, or an ExitError.
func Parse(args []string, output io.Writer) (*app.Config, bool, error) {
	slog.Debug("CLI parser started.")
	flagSet := flag.NewFlagSet("blastradius", flag.ContinueOnError)
	flagSet.SetOutput(output)

	// Custom usage/help text function
	flagSet.Usage = func() {
		fmt.Fprint(output, `
blastradius - Terraform dependency graph explorer.

Usage:
  blastradius [options] CONFIG_DIR

Arguments:
  CONFIG_DIR
    Directory containing .tf configuration files.

Options:
`)
		flagSet.PrintDefaults()
	}

	serveFlag := flagSet.Bool("serve", false, "Serve the graph over HTTP (the default mode).")
	exportFlag := flagSet.Bool("export", false, "Write export files and exit instead of serving.")
	formatFlag := flagSet.String("format", "json", "Export format. Options: 'json', 'dot', 'html', or 'all'.")
	outFlag := flagSet.String("out", "out", "Output directory for export files.")
	hostFlag := flagSet.String("host", "127.0.0.1", "Host address for the HTTP server.")
	portFlag := flagSet.Int("port", 8080, "Port for the HTTP server.")
	maxDepthFlag := flagSet.Int("max-depth", int(reach.Unbounded), "Default hop limit for blast-radius queries. -1 is unbounded.")
	watchFlag := flagSet.Bool("watch", false, "Rebuild the graph when configuration files change.")
	categoriesFlag := flagSet.String("categories", "", "Path to a TOML file with extra category rules.")
	logFormatFlag := flagSet.String("log-format", "json", "Log output format. Options: 'text' or 'json'.")
	logLevelFlag := flagSet.String("log-level", "info", "Set the logging level. Options: 'debug', 'info', 'warn', 'error'.")

	var excludes stringList
	flagSet.Var(&excludes, "exclude", "Glob pattern for file names to skip. Repeatable.")

	if err := flagSet.Parse(args); err != nil {
		if err == flag.ErrHelp {
			return nil, true, nil
		}
		return nil, false, &ExitError{Code: 2, Message: err.Error()}
	}
	slog.Debug("Arguments parsed successfully.")

	if *serveFlag && *exportFlag {
		return nil, false, &ExitError{Code: 2, Message: "-serve and -export are mutually exclusive"}
	}

	path := ""
	if flagSet.NArg() > 0 {
		path = flagSet.Arg(0)
	}
	slog.Debug("Config directory determined.", "path", path)

	if path == "" {
		slog.Debug("No config directory provided, printing usage and exiting.")
		flagSet.Usage()
		return nil, true, nil
	}

	logFormat := strings.ToLower(*logFormatFlag)
	if logFormat != "text" && logFormat != "json" {
		return nil, false, &ExitError{Code: 2, Message: "invalid log-format: must be 'text' or 'json'"}
	}

	logLevel := strings.ToLower(*logLevelFlag)
	switch logLevel {
	case "debug", "info", "warn", "error":
		// valid
	default:
		return nil, false, &ExitError{Code: 2, Message: "invalid log-level: must be 'debug', 'info', 'warn', or 'error'"}
	}
	slog.Debug("CLI parameter validation complete.")

	config, err := app.NewConfig(app.Config{
		ConfigDir:      path,
		Export:         *exportFlag,
		Format:         strings.ToLower(*formatFlag),
		OutDir:         *outFlag,
		Host:           *hostFlag,
		Port:           *portFlag,
		MaxDepth:       *maxDepthFlag,
		Watch:          *watchFlag,
		Excludes:       excludes,
		CategoriesPath: *categoriesFlag,
		LogFormat:      logFormat,
		LogLevel:       logLevel,
	})

	if err != nil {
		return nil, false, &ExitError{Code: 2, Message: err.Error()}
	}

	slog.Debug("CLI parser finished successfully.", "config", config)
	return config, false, nil
}
