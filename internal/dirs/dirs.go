// Package dirs resolves the per-user directories of vidscribe.
package dirs

import (
	"errors"
	"os"
	"path/filepath"
	"runtime"
)

const appName = "vidscribe"

// location describes where one kind of directory lives on each platform.
type location struct {
	xdgEnv   string   // Linux override variable
	linux    []string // below $HOME
	darwin   []string // below $HOME
	fallback func() (string, error)
}

var (
	configLoc = location{
		xdgEnv:   "XDG_CONFIG_HOME",
		linux:    []string{".config"},
		darwin:   []string{"Library", "Application Support"},
		fallback: os.UserConfigDir,
	}
	dataLoc = location{
		xdgEnv:   "XDG_DATA_HOME",
		linux:    []string{".local", "share"},
		darwin:   []string{"Library", "Application Support"},
		fallback: os.UserConfigDir,
	}
	cacheLoc = location{
		xdgEnv:   "XDG_CACHE_HOME",
		linux:    []string{".cache"},
		darwin:   []string{"Library", "Caches"},
		fallback: os.UserCacheDir,
	}
	stateLoc = location{
		xdgEnv: "XDG_STATE_HOME",
		linux:  []string{".local", "state"},
		darwin: []string{"Library", "Application Support"},
		fallback: func() (string, error) {
			if la := os.Getenv("LOCALAPPDATA"); la != "" {
				return la, nil
			}
			return os.UserConfigDir()
		},
	}
)

func (l location) resolve() (string, error) {
	switch runtime.GOOS {
	case "linux":
		if xdg := os.Getenv(l.xdgEnv); xdg != "" {
			return filepath.Join(xdg, appName), nil
		}
		home, err := os.UserHomeDir()
		if err != nil {
			return "", err
		}
		return filepath.Join(append(append([]string{home}, l.linux...), appName)...), nil
	case "darwin":
		home, err := os.UserHomeDir()
		if err != nil {
			return "", err
		}
		return filepath.Join(append(append([]string{home}, l.darwin...), appName)...), nil
	default:
		base, err := l.fallback()
		if err != nil {
			return "", err
		}
		return filepath.Join(base, appName), nil
	}
}

// ConfigDir returns the configuration directory, e.g. ~/.config/vidscribe.
func ConfigDir() (string, error) { return configLoc.resolve() }

// DataDir returns the data directory, e.g. ~/.local/share/vidscribe.
func DataDir() (string, error) { return dataLoc.resolve() }

// CacheDir returns the cache directory, e.g. ~/.cache/vidscribe.
func CacheDir() (string, error) { return cacheLoc.resolve() }

// StateDir returns the state directory, e.g. ~/.local/state/vidscribe.
// On macOS it is a "state" folder below the application support directory.
func StateDir() (string, error) {
	d, err := stateLoc.resolve()
	if err != nil {
		return "", err
	}
	if runtime.GOOS != "linux" {
		d = filepath.Join(d, "state")
	}
	return d, nil
}

// DefaultOutputDir is where result documents go unless configured otherwise.
func DefaultOutputDir() (string, error) {
	d, err := DataDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(d, "results"), nil
}

// DefaultDBPath is the location of the local history cache.
func DefaultDBPath() (string, error) {
	d, err := StateDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(d, "history.db"), nil
}

// Ensure creates the directory if it doesn't exist.
func Ensure(path string) error {
	if path == "" {
		return errors.New("empty path")
	}
	return os.MkdirAll(path, 0o755)
}

// EnsureAll ensures config, data, cache and state dirs exist.
func EnsureAll() error {
	for _, get := range []func() (string, error){ConfigDir, DataDir, CacheDir, StateDir} {
		p, err := get()
		if err != nil {
			continue
		}
		if err := Ensure(p); err != nil {
			return err
		}
	}
	return nil
}
