package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/specialistvlad/dockerish/internal/app"
	"github.com/specialistvlad/dockerish/internal/cli"
	"github.com/specialistvlad/dockerish/internal/executor"
)

// main is the entrypoint for the dockerish application.
func main() {
	// Use a minimal logger until the full one is configured.
	slog.SetDefault(slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{
		Level: slog.LevelInfo,
	})))

	// An interrupt cancels the context: the running process is killed,
	// staged artifacts are removed and the exit status becomes 130.
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	code := run(ctx, os.Args[1:], os.Stdout, os.Stderr)
	stop()
	os.Exit(code)
}

// run encapsulates the main application logic and returns the exit status.
func run(ctx context.Context, args []string, outW, errW io.Writer, opts ...app.Option) int {
	appConfig, shouldExit, err := cli.Parse(args, outW)
	if err != nil {
		var exitErr *cli.ExitError
		if errors.As(err, &exitErr) {
			fmt.Fprintln(errW, exitErr.Message)
			return exitErr.Code
		}
		fmt.Fprintln(errW, err)
		return 1
	}
	if shouldExit {
		return 0
	}

	dockerishApp := app.NewApp(errW, appConfig, opts...)
	err = dockerishApp.Run(ctx)
	code := executor.ExitStatus(err)

	var engErr *executor.EngineError
	switch {
	case err == nil:
	case errors.As(err, &engErr):
		// The engine already reported on its own stderr.
	case code == executor.ExitInterrupted:
		fmt.Fprintln(errW, "dockerish: interrupted")
	default:
		fmt.Fprintf(errW, "dockerish: %v\n", err)
	}
	return code
}
