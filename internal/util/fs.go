package util

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"regexp"
	"strings"
	"unicode/utf8"

	"github.com/moby/sys/atomicwriter"
)

const maxTitleRunes = 80

var (
	unsafeTitleChars = regexp.MustCompile(`[^\p{L}\p{N}_\-\s]`)
	titleSpaces      = regexp.MustCompile(`\s+`)
)

// EnsureDir creates the directory path if it does not exist.
func EnsureDir(path string) error {
	if path == "" {
		return errors.New("empty path")
	}
	return os.MkdirAll(path, 0o755)
}

// SanitizeTitle turns a media title into a file name fragment the same way
// the backend names its result files: only letters, digits, '_', '-' and
// whitespace survive, whitespace runs become '_', and the result is capped
// at 80 runes.
func SanitizeTitle(s string) string {
	s = unsafeTitleChars.ReplaceAllString(s, "")
	s = titleSpaces.ReplaceAllString(s, "_")
	s = strings.Trim(s, "._-")

	if utf8.RuneCountInString(s) > maxTitleRunes {
		s = string([]rune(s)[:maxTitleRunes])
	}
	if s == "" {
		return "untitled"
	}
	return s
}

// WriteFileAtomic writes content to dir/name so a reader never observes a
// partial file. It returns the final path.
func WriteFileAtomic(dir, name string, content []byte) (string, error) {
	if err := EnsureDir(dir); err != nil {
		return "", fmt.Errorf("could not create %s: %w", dir, err)
	}

	final := filepath.Join(dir, name)
	if err := atomicwriter.WriteFile(final, content, 0o644); err != nil {
		return "", fmt.Errorf("could not write %s: %w", name, err)
	}
	return final, nil
}
