package engine

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/specialistvlad/dockerish/internal/target"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPrepareMounts_CreatesMissingWritableSources(t *testing.T) {
	// --- Arrange ---
	base := t.TempDir()
	mounts := []target.Mount{
		{Host: "state/app.db", Container: "/var/lib/app.db", Permission: "rw"},
		{Host: "cache", Container: "/cache", Permission: "rw"},
	}

	// --- Act ---
	volumes, err := PrepareMounts(context.Background(), mounts, nil, base)

	// --- Assert ---
	require.NoError(t, err)
	assert.Equal(t, []string{
		filepath.Join(base, "state/app.db") + ":/var/lib/app.db:rw",
		filepath.Join(base, "cache") + ":/cache:rw",
	}, volumes)

	info, err := os.Stat(filepath.Join(base, "state", "app.db"))
	require.NoError(t, err)
	assert.False(t, info.IsDir())
	assert.Zero(t, info.Size())

	info, err = os.Stat(filepath.Join(base, "cache"))
	require.NoError(t, err)
	assert.True(t, info.IsDir())
}

func TestPrepareMounts_ReadOnlyIsNotCreated(t *testing.T) {
	base := t.TempDir()
	mounts := []target.Mount{{Host: "conf.ini", Container: "/etc/conf.ini", Permission: "r"}}

	volumes, err := PrepareMounts(context.Background(), mounts, nil, base)
	require.NoError(t, err)
	assert.Equal(t, []string{filepath.Join(base, "conf.ini") + ":/etc/conf.ini:ro"}, volumes)
	assert.NoFileExists(t, filepath.Join(base, "conf.ini"))
}

func TestPrepareMounts_ExistingPathIsKept(t *testing.T) {
	base := t.TempDir()
	existing := filepath.Join(base, "data.json")
	require.NoError(t, os.WriteFile(existing, []byte(`{"k":1}`), 0644))

	_, err := PrepareMounts(context.Background(), []target.Mount{
		{Host: existing, Container: "/data.json", Permission: "rw"},
	}, nil, base)
	require.NoError(t, err)

	data, err := os.ReadFile(existing)
	require.NoError(t, err)
	assert.Equal(t, `{"k":1}`, string(data))
}

func TestPrepareMounts_Placeholders(t *testing.T) {
	base := t.TempDir()
	certs := t.TempDir()
	mounts := []target.Mount{{Placeholder: "certs", Container: "/certs", Permission: "r"}}

	t.Run("bound placeholder", func(t *testing.T) {
		volumes, err := PrepareMounts(context.Background(), mounts, map[string]string{"certs": certs}, base)
		require.NoError(t, err)
		assert.Equal(t, []string{certs + ":/certs:ro"}, volumes)
	})

	t.Run("unbound placeholder", func(t *testing.T) {
		_, err := PrepareMounts(context.Background(), mounts, nil, base)
		assert.ErrorIs(t, err, ErrUnboundPlaceholder)
	})
}

func TestPrepareMounts_IncompleteMount(t *testing.T) {
	_, err := PrepareMounts(context.Background(), []target.Mount{{Container: "/x"}}, nil, t.TempDir())
	assert.ErrorIs(t, err, target.ErrTargetParse)
}
