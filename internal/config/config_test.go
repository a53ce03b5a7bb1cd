package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/spf13/pflag"
	"github.com/spf13/viper"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"vidscribe/internal/model"
)

func isolate(t *testing.T) {
	t.Helper()
	base := t.TempDir()
	for _, env := range []string{"XDG_CONFIG_HOME", "XDG_DATA_HOME", "XDG_CACHE_HOME", "XDG_STATE_HOME"} {
		t.Setenv(env, filepath.Join(base, env))
	}
	t.Setenv("HOME", base)
}

func newFlags() *pflag.FlagSet {
	fs := pflag.NewFlagSet("test", pflag.ContinueOnError)
	fs.String("server", "", "")
	fs.String("lang", "", "")
	fs.Duration("timeout", 0, "")
	fs.Bool("no-cache", false, "")
	return fs
}

func TestOptionsDefaults(t *testing.T) {
	isolate(t)
	v := viper.New()
	require.NoError(t, Init(v, newFlags()))

	opts, err := Options(v)
	require.NoError(t, err)
	assert.Equal(t, "http://localhost:8000", opts.ServerURL)
	assert.Equal(t, "zh", opts.SummaryLanguage)
	assert.Equal(t, 30*time.Second, opts.Timeout)
	assert.Equal(t, "text", opts.LogFormat)
	assert.Equal(t, "history.db", filepath.Base(opts.DBPath))
	assert.NotEmpty(t, opts.OutDir)
}

func TestOptionsPrecedence(t *testing.T) {
	isolate(t)
	t.Setenv("VIDSCRIBE_LANG", "en")
	t.Setenv("VIDSCRIBE_SERVER", "http://env:9000")

	// godotenv writes straight to the process environment.
	t.Cleanup(func() { _ = os.Unsetenv("VIDSCRIBE_TIMEOUT") })
	envFile := filepath.Join(t.TempDir(), ".env")
	require.NoError(t, os.WriteFile(envFile, []byte("VIDSCRIBE_TIMEOUT=5s\nVIDSCRIBE_LANG=fr\n"), 0o644))

	fs := newFlags()
	require.NoError(t, fs.Parse([]string{"--server", "http://flag:8000"}))

	v := viper.New()
	require.NoError(t, Init(v, fs, envFile))

	opts, err := Options(v)
	require.NoError(t, err)
	assert.Equal(t, "http://flag:8000", opts.ServerURL, "flags win over env")
	assert.Equal(t, "en", opts.SummaryLanguage, ".env never overrides the environment")
	assert.Equal(t, 5*time.Second, opts.Timeout)
}

func TestOptionsInvalid(t *testing.T) {
	tests := map[string]struct {
		env map[string]string
	}{
		"A non positive timeout should fail.": {
			env: map[string]string{"VIDSCRIBE_TIMEOUT": "0s"},
		},
		"An unknown log format should fail.": {
			env: map[string]string{"VIDSCRIBE_LOG_FORMAT": "xml"},
		},
		"An empty language should fail.": {
			env: map[string]string{"VIDSCRIBE_LANG": " "},
		},
	}

	for name, test := range tests {
		t.Run(name, func(t *testing.T) {
			isolate(t)
			for k, val := range test.env {
				t.Setenv(k, val)
			}
			v := viper.New()
			require.NoError(t, Init(v, newFlags()))

			_, err := Options(v)
			assert.ErrorIs(t, err, model.ErrNotValid)
		})
	}
}
