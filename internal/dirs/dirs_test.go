package dirs

import (
	"path/filepath"
	"runtime"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestXDGOverrides(t *testing.T) {
	if runtime.GOOS != "linux" {
		t.Skip("XDG variables only apply on linux")
	}
	base := t.TempDir()
	t.Setenv("XDG_CONFIG_HOME", filepath.Join(base, "cfg"))
	t.Setenv("XDG_STATE_HOME", filepath.Join(base, "state"))
	t.Setenv("XDG_DATA_HOME", filepath.Join(base, "data"))

	cfg, err := ConfigDir()
	require.NoError(t, err)
	assert.Equal(t, filepath.Join(base, "cfg", "vidscribe"), cfg)

	db, err := DefaultDBPath()
	require.NoError(t, err)
	assert.Equal(t, filepath.Join(base, "state", "vidscribe", "history.db"), db)

	out, err := DefaultOutputDir()
	require.NoError(t, err)
	assert.Equal(t, filepath.Join(base, "data", "vidscribe", "results"), out)
}

func TestEnsure(t *testing.T) {
	assert.Error(t, Ensure(""))

	p := filepath.Join(t.TempDir(), "a", "b")
	require.NoError(t, Ensure(p))
	assert.DirExists(t, p)
}
