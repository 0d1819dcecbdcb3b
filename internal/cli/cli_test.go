package cli

import (
	"bytes"
	"errors"
	"testing"

	"github.com/specialistvlad/dockerish/internal/target"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParse_Defaults(t *testing.T) {
	t.Setenv(EngineEnv, "")

	cfg, shouldExit, err := Parse(nil, &bytes.Buffer{})

	require.NoError(t, err)
	require.False(t, shouldExit)
	assert.Equal(t, "", cfg.TargetPath)
	assert.Equal(t, "docker", cfg.Engine)
	assert.Equal(t, "text", cfg.LogFormat)
	assert.Equal(t, "info", cfg.LogLevel)
	assert.False(t, cfg.Actions.Any())
	assert.Empty(t, cfg.Passthrough)
}

func TestParse_AllFlags(t *testing.T) {
	// --- Arrange ---
	args := []string{
		"-c", "conf.json",
		"-k", "env:prod", "--set", "url:http://x:1",
		"-m", "data:/srv/data",
		"-n", "prod",
		"-t", "deploy/",
		"-sbr", "-o", "-d",
		"--no-cache",
		"--platforms", "linux/amd64,linux/arm64",
		"--engine", "podman",
		"--", "--pull", "always",
	}

	// --- Act ---
	cfg, shouldExit, err := Parse(args, &bytes.Buffer{})

	// --- Assert ---
	require.NoError(t, err)
	require.False(t, shouldExit)
	assert.Equal(t, "conf.json", cfg.ConfigPath)
	assert.Equal(t, []string{"env:prod", "url:http://x:1"}, cfg.Overrides)
	assert.Equal(t, map[string]string{"data": "/srv/data"}, cfg.Bindings)
	assert.Equal(t, "prod", cfg.Namespace)
	assert.Equal(t, "deploy/", cfg.TargetPath)
	assert.Equal(t, target.Actions{Stop: true, Build: true, Run: true}, cfg.Actions)
	assert.True(t, cfg.BuildOnDemand)
	assert.True(t, cfg.NoCache)
	assert.Equal(t, []string{"linux/amd64", "linux/arm64"}, cfg.Platforms)
	assert.Equal(t, "podman", cfg.Engine)
	assert.Equal(t, "debug", cfg.LogLevel)
	assert.Equal(t, []string{"--pull", "always"}, cfg.Passthrough)
}

func TestParse_PositionalTargetAndRunAs(t *testing.T) {
	cfg, _, err := Parse([]string{"services/web", "-a", "shell", "--", "bash"}, &bytes.Buffer{})

	require.NoError(t, err)
	assert.Equal(t, "services/web", cfg.TargetPath)
	assert.Equal(t, "shell", cfg.Actions.RunAs)
	assert.Equal(t, []string{"bash"}, cfg.Passthrough)
}

func TestParse_EngineFromEnvironment(t *testing.T) {
	t.Setenv(EngineEnv, "nerdctl")

	cfg, _, err := Parse(nil, &bytes.Buffer{})

	require.NoError(t, err)
	assert.Equal(t, "nerdctl", cfg.Engine)
}

func TestParse_Help(t *testing.T) {
	out := &bytes.Buffer{}

	cfg, shouldExit, err := Parse([]string{"-h"}, out)

	require.NoError(t, err)
	assert.True(t, shouldExit)
	assert.Nil(t, cfg)
	assert.Contains(t, out.String(), "Usage:")
	assert.Contains(t, out.String(), "--build-on-demand")
}

func TestParse_UsageErrors(t *testing.T) {
	testCases := []struct {
		name string
		args []string
		msg  string
	}{
		{name: "unknown flag", args: []string{"--bogus"}, msg: "unknown flag: --bogus"},
		{name: "bad override", args: []string{"-k", "novalue"}, msg: "invalid --set value"},
		{name: "bad mount", args: []string{"-m", "novalue"}, msg: "invalid --mount value"},
		{name: "bad log format", args: []string{"--log-format", "xml"}, msg: "invalid log-format"},
		{name: "bad log level", args: []string{"--log-level", "loud"}, msg: "invalid log-level"},
		{name: "two targets", args: []string{"a", "b"}, msg: "unexpected arguments: b"},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			_, _, err := Parse(tc.args, &bytes.Buffer{})

			var exitErr *ExitError
			require.True(t, errors.As(err, &exitErr), "expected an ExitError, got %v", err)
			assert.Equal(t, 2, exitErr.Code)
			assert.Contains(t, exitErr.Message, tc.msg)
		})
	}
}
