//go:build !windows
// +build !windows

package settings

import (
	"fmt"
	"os"
	"path/filepath"
)

// DefaultPath returns <user config dir>/<app>/settings.json.
func DefaultPath(app string) (string, error) {
	dir, err := os.UserConfigDir()
	if err != nil {
		return "", fmt.Errorf("resolve user config dir: %w", err)
	}
	return filepath.Join(dir, app, FileName), nil
}
