package executor

import (
	"bytes"
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestExecRunner_CapturesStatusAndStderr(t *testing.T) {
	// --- Arrange ---
	var stdout, stderr bytes.Buffer
	r := &ExecRunner{Stdout: &stdout, Stderr: &stderr}
	dir := t.TempDir()

	// --- Act ---
	res, err := r.Run(context.Background(), Invocation{
		Name: "sh",
		Args: []string{"-c", "pwd; echo oops >&2; exit 3"},
		Dir:  dir,
	})

	// --- Assert ---
	require.NoError(t, err)
	assert.Equal(t, 3, res.ExitCode)
	assert.Equal(t, "oops\n", res.Stderr)
	assert.Equal(t, "oops\n", stderr.String(), "stderr is forwarded as well as captured")
	assert.Contains(t, stdout.String(), dir)
}

func TestExecRunner_Success(t *testing.T) {
	var stdout bytes.Buffer
	r := &ExecRunner{Stdout: &stdout}

	res, err := r.Run(context.Background(), Invocation{Name: "sh", Args: []string{"-c", "echo hi"}})

	require.NoError(t, err)
	assert.Equal(t, Result{ExitCode: 0, Stderr: ""}, res)
	assert.Equal(t, "hi\n", stdout.String())
}

func TestExecRunner_Stdin(t *testing.T) {
	var stdout bytes.Buffer
	r := &ExecRunner{Stdin: bytes.NewBufferString("typed\n"), Stdout: &stdout}

	_, err := r.Run(context.Background(), Invocation{Name: "sh", Args: []string{"-c", "cat"}, Interactive: true})

	require.NoError(t, err)
	assert.Equal(t, "typed\n", stdout.String())
}

func TestExecRunner_MissingBinary(t *testing.T) {
	r := &ExecRunner{}

	_, err := r.Run(context.Background(), Invocation{Name: "dockerish-no-such-binary"})

	assert.Error(t, err)
}

func TestExecRunner_Cancelled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	r := &ExecRunner{}

	_, err := r.Run(ctx, Invocation{Name: "sh", Args: []string{"-c", "sleep 5"}})

	assert.ErrorIs(t, err, context.Canceled)
}

func TestExecRunner_CancelKillsHookChildren(t *testing.T) {
	// --- Arrange ---
	var stderr bytes.Buffer
	r := &ExecRunner{Stdout: &bytes.Buffer{}, Stderr: &stderr}
	ctx, cancel := context.WithTimeout(context.Background(), 200*time.Millisecond)
	defer cancel()

	// --- Act ---
	start := time.Now()
	_, err := r.Run(ctx, Invocation{Name: "sh", Args: []string{"-c", HookCommand("sleep 4\ntrue")}})
	elapsed := time.Since(start)

	// --- Assert ---
	assert.ErrorIs(t, err, context.DeadlineExceeded)
	assert.Less(t, elapsed, 2*time.Second, "the sleeping grandchild must not hold Run open")
}

func TestExecRunner_CancelInteractiveIsBounded(t *testing.T) {
	var stderr bytes.Buffer
	r := &ExecRunner{Stdout: &bytes.Buffer{}, Stderr: &stderr}
	ctx, cancel := context.WithTimeout(context.Background(), 200*time.Millisecond)
	defer cancel()

	start := time.Now()
	_, err := r.Run(ctx, Invocation{Name: "sh", Args: []string{"-c", "sleep 4 && true"}, Interactive: true})
	elapsed := time.Since(start)

	assert.ErrorIs(t, err, context.DeadlineExceeded)
	assert.Less(t, elapsed, 200*time.Millisecond+WaitDelay+time.Second)
}
