package cli

import (
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"strings"

	"github.com/specialistvlad/dockerish/internal/app"
	"github.com/specialistvlad/dockerish/internal/engine"
	"github.com/specialistvlad/dockerish/internal/target"
	"github.com/spf13/pflag"
)

// EngineEnv names the environment variable that overrides the default engine.
const EngineEnv = "DOCKERISH_ENGINE"

// ExitError is a custom error type that includes a specific exit code.
type ExitError struct {
	Code    int
	Message string
}

// Error implements the error interface for ExitError.
func (e *ExitError) Error() string {
	return e.Message
}

func usageError(format string, args ...any) *ExitError {
	return &ExitError{Code: 2, Message: fmt.Sprintf(format, args...)}
}

// Parse processes command-line arguments. It returns a populated app.Config,
// a boolean indicating if the program should exit cleanly, or an ExitError.
// Everything after a "--" separator is passed through to the engine.
func Parse(args []string, output io.Writer) (*app.Config, bool, error) {
	slog.Debug("CLI parser started.")
	flagSet := pflag.NewFlagSet("dockerish", pflag.ContinueOnError)
	flagSet.SetOutput(output)
	flagSet.SortFlags = false

	flagSet.Usage = func() {
		fmt.Fprint(output, `
dockerish - build, run and stop containers from a templated description.

Usage:
  dockerish [options] [TARGET] [-- ENGINE_ARGS...]

Arguments:
  TARGET
    Template file, or a directory containing dockerish.template.yml.
    Defaults to ./dockerish.template.yml.

Options:
`)
		flagSet.PrintDefaults()
	}

	configFlag := flagSet.StringP("config", "c", "", "Config file. Defaults to ./dockerish.config.json when present.")
	setFlag := flagSet.StringArrayP("set", "k", nil, "Override a config key, as key:value. Repeatable.")
	mountFlag := flagSet.StringArrayP("mount", "m", nil, "Bind a mount placeholder to a host path, as name:path. Repeatable.")
	namespaceFlag := flagSet.StringP("namespace", "n", "", "Use the config sub-object with this key.")
	targetFlag := flagSet.StringP("target", "t", "", "Template file or directory.")
	runFlag := flagSet.BoolP("run", "r", false, "Run the container.")
	runAsFlag := flagSet.StringP("run-as", "a", "", "Run the container using the named run block.")
	stopFlag := flagSet.BoolP("stop", "s", false, "Stop the container.")
	buildFlag := flagSet.BoolP("build", "b", false, "Build the image.")
	noCacheFlag := flagSet.Bool("no-cache", false, "Build without reusing cached layers.")
	platformsFlag := flagSet.StringSlice("platforms", nil, "Build for these platforms with buildx, e.g. linux/amd64,linux/arm64.")
	onDemandFlag := flagSet.BoolP("build-on-demand", "o", false, "Build and retry once when the image to run is missing.")
	debugFlag := flagSet.BoolP("debug", "d", false, "Trace every stage. Implies --log-level=debug.")
	engineFlag := flagSet.String("engine", defaultEngine(), "Container engine binary. Also set by "+EngineEnv+".")
	logFormatFlag := flagSet.String("log-format", "text", "Log output format. Options: 'text' or 'json'.")
	logLevelFlag := flagSet.String("log-level", "info", "Set the logging level. Options: 'debug', 'info', 'warn', 'error'.")

	if err := flagSet.Parse(args); err != nil {
		if errors.Is(err, pflag.ErrHelp) {
			return nil, true, nil
		}
		return nil, false, usageError("%s", err.Error())
	}
	slog.Debug("Arguments parsed successfully.")

	positional := flagSet.Args()
	var passthrough []string
	if dash := flagSet.ArgsLenAtDash(); dash >= 0 {
		passthrough = positional[dash:]
		positional = positional[:dash]
	}
	if len(positional) > 1 {
		return nil, false, usageError("unexpected arguments: %s", strings.Join(positional[1:], " "))
	}

	path := *targetFlag
	if path == "" && len(positional) == 1 {
		path = positional[0]
	}
	slog.Debug("Target path determined.", "path", path)

	logFormat := strings.ToLower(*logFormatFlag)
	if logFormat != "text" && logFormat != "json" {
		return nil, false, usageError("invalid log-format: must be 'text' or 'json'")
	}

	logLevel := strings.ToLower(*logLevelFlag)
	switch logLevel {
	case "debug", "info", "warn", "error":
		// valid
	default:
		return nil, false, usageError("invalid log-level: must be 'debug', 'info', 'warn', or 'error'")
	}
	slog.Debug("CLI parameter validation complete.")

	config, err := app.NewConfig(app.Config{
		ConfigPath: *configFlag,
		Overrides:  *setFlag,
		Mounts:     *mountFlag,
		Namespace:  *namespaceFlag,
		TargetPath: path,
		Actions: target.Actions{
			Stop:  *stopFlag,
			Build: *buildFlag,
			Run:   *runFlag,
			RunAs: *runAsFlag,
		},
		NoCache:       *noCacheFlag,
		Platforms:     *platformsFlag,
		BuildOnDemand: *onDemandFlag,
		Engine:        *engineFlag,
		Passthrough:   passthrough,
		Debug:         *debugFlag,
		LogFormat:     logFormat,
		LogLevel:      logLevel,
	})
	if err != nil {
		return nil, false, usageError("%s", err.Error())
	}

	slog.Debug("CLI parser finished successfully.", "config", config)
	return config, false, nil
}

func defaultEngine() string {
	if e := os.Getenv(EngineEnv); e != "" {
		return e
	}
	return engine.DefaultBinary
}
