package app

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"

	"github.com/specialistvlad/dockerish/internal/artifact"
	"github.com/specialistvlad/dockerish/internal/config"
	"github.com/specialistvlad/dockerish/internal/ctxlog"
	"github.com/specialistvlad/dockerish/internal/executor"
	"github.com/specialistvlad/dockerish/internal/fsutil"
	"github.com/specialistvlad/dockerish/internal/template"
)

// App encapsulates the application's dependencies, configuration, and lifecycle.
type App struct {
	logger  *slog.Logger
	config  *Config
	runner  executor.ProcessRunner
	staging *artifact.Staging
}

// Option customises an App.
type Option func(*App)

// WithRunner replaces the process runner used for hooks and the engine.
func WithRunner(r executor.ProcessRunner) Option {
	return func(a *App) {
		a.runner = r
	}
}

// NewApp is the constructor for the main application. Logs are written to
// logW; the engine's own output goes to the process's stdio.
func NewApp(logW io.Writer, cfg *Config, opts ...Option) *App {
	a := &App{
		logger:  newLogger(cfg.LogLevel, cfg.LogFormat, logW),
		config:  cfg,
		runner:  executor.NewExecRunner(),
		staging: artifact.NewStaging(),
	}
	for _, opt := range opts {
		opt(a)
	}
	a.logger.Debug("Logger configured successfully.")
	return a
}

// Staging returns the run's artifact registry. This is primarily for testing.
func (a *App) Staging() *artifact.Staging {
	return a.staging
}

// Run executes one invocation. Staged artifacts are removed before it
// returns, including when ctx is cancelled mid-run.
func (a *App) Run(ctx context.Context) error {
	ctx = ctxlog.WithLogger(ctx, a.logger)
	a.logger.Debug("App.Run method started.")

	defer func() {
		if err := a.staging.CleanupAll(ctx); err != nil {
			a.logger.Warn("Artifact cleanup was incomplete.", "error", err)
		}
	}()

	templatePath, err := fsutil.ResolveTemplatePath(a.config.TargetPath)
	if err != nil {
		return err
	}
	templatePath, err = filepath.Abs(templatePath)
	if err != nil {
		return fmt.Errorf("failed to resolve template path: %w", err)
	}
	raw, err := os.ReadFile(templatePath)
	if err != nil {
		return fmt.Errorf("failed to read template: %w", err)
	}
	templateDir := filepath.Dir(templatePath)
	a.logger.Debug("Template located.", "path", templatePath)

	cfg, err := config.Resolve(ctx, config.ResolveOptions{
		Path:      a.config.ConfigPath,
		Overrides: a.config.Overrides,
		Namespace: a.config.Namespace,
	})
	if err != nil {
		return err
	}

	tgt, err := template.NewExpander(templateDir).Expand(ctx, raw, templatePath, cfg)
	if err != nil {
		return err
	}

	actions := a.config.Actions
	if err := tgt.ValidateFor(actions); err != nil {
		return fmt.Errorf("%s: %w", templatePath, err)
	}
	if !actions.Any() {
		a.logger.Info("No action requested, template expanded successfully.", "template", templatePath)
		return nil
	}

	rt := &executor.Runtime{
		Runner:      a.runner,
		Staging:     a.staging,
		Target:      tgt,
		TemplateDir: templateDir,
		Engine:      a.config.Engine,
		Bindings:    a.config.Bindings,
		NoCache:     a.config.NoCache,
		Platforms:   a.config.Platforms,
		Passthrough: a.config.Passthrough,
	}
	tasks, err := executor.Plan(rt, executor.PlanOptions{
		Actions:       actions,
		BuildOnDemand: a.config.BuildOnDemand,
	})
	if err != nil {
		return err
	}

	a.logger.Info("🚀 Starting pipeline.", "tasks", len(tasks), "container", tgt.Container.Image)
	if err := executor.NewPipeline(tasks...).Run(ctx); err != nil {
		return err
	}
	a.logger.Info("🏁 Pipeline finished.")
	return nil
}
