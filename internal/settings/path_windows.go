//go:build windows
// +build windows

package settings

import (
	"fmt"
	"path/filepath"

	"golang.org/x/sys/windows"
)

// DefaultPath returns %APPDATA%\<app>\settings.json.
func DefaultPath(app string) (string, error) {
	dir, err := windows.KnownFolderPath(windows.FOLDERID_RoamingAppData, windows.KF_FLAG_CREATE)
	if err != nil {
		return "", fmt.Errorf("resolve roaming app data folder: %w", err)
	}
	return filepath.Join(dir, app, FileName), nil
}
