// Package config resolves boardsync settings from flags, environment,
// a YAML config file and built-in defaults.
package config

import (
	"os"
	"path/filepath"
	"runtime"
)

// appName names the per-user configuration directory.
const appName = "boardsync"

// Dir returns the boardsync configuration directory.
//
// Resolution:
//   - $BOARDSYNC_CONFIG_HOME if set (explicit override)
//   - $XDG_CONFIG_HOME/boardsync if set (respects XDG on any platform)
//   - %AppData%/boardsync on Windows
//   - ~/.config/boardsync on macOS and Linux
func Dir() string {
	if dir := os.Getenv("BOARDSYNC_CONFIG_HOME"); dir != "" {
		return dir
	}
	if xdg := os.Getenv("XDG_CONFIG_HOME"); xdg != "" {
		return filepath.Join(xdg, appName)
	}
	if runtime.GOOS == "windows" {
		if appData := os.Getenv("APPDATA"); appData != "" {
			return filepath.Join(appData, appName)
		}
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return ""
	}
	return filepath.Join(home, ".config", appName)
}

// FilePath returns the path of the YAML config file, or "" when no
// configuration directory can be determined.
func FilePath() string {
	dir := Dir()
	if dir == "" {
		return ""
	}
	return filepath.Join(dir, "config.yaml")
}
