package config

import (
	"os"
	"path/filepath"

	"github.com/adrg/xdg"
)

const appName = "bcfview"

// GetDataDir resolves the base directory for session storage. BCFVIEW_DIR
// wins, then the XDG data home, then ~/.local/share.
func GetDataDir() string {
	if explicit := os.Getenv("BCFVIEW_DIR"); explicit != "" {
		return explicit
	}

	xdg.Reload()

	dataHome := xdg.DataHome
	if dataHome == "" {
		home := xdg.Home
		if home == "" {
			var err error
			home, err = os.UserHomeDir()
			if err != nil {
				return filepath.Join(os.TempDir(), appName)
			}
		}
		dataHome = filepath.Join(home, ".local", "share")
	}

	return filepath.Join(dataHome, appName)
}

// GetDBPath returns the absolute path to the session catalog.
func GetDBPath() string {
	return filepath.Join(GetDataDir(), "session.db")
}

// GetExportDir returns the default target of the export command.
func GetExportDir() string {
	return filepath.Join(GetDataDir(), "export")
}

// GetLogLevel returns BCFVIEW_LOG_LEVEL, or "" when unset.
func GetLogLevel() string {
	return os.Getenv("BCFVIEW_LOG_LEVEL")
}
