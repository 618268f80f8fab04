package main

import (
	"fmt"
	"path/filepath"
	"strconv"

	"github.com/spf13/cobra"

	"github.com/gorewood/boardsync/internal/config"
	"github.com/gorewood/boardsync/internal/output"
	"github.com/gorewood/boardsync/internal/queue"
)

// addSourceFlags registers the flags every command that reads a board takes.
func addSourceFlags(cmd *cobra.Command) {
	cmd.Flags().String("file", "", "Sync file written by the board UI (env "+config.EnvSyncFile+")")
	cmd.Flags().String("dir", "", "Directory holding .sync/ (default current directory)")
}

// addArtifactFlags registers the poller and artifact flags.
func addArtifactFlags(cmd *cobra.Command) {
	cmd.Flags().Int("interval", 0, fmt.Sprintf("Poll interval in milliseconds (env %s, default %d)",
		config.EnvInterval, config.DefaultIntervalMS))
	cmd.Flags().String("out", "", "JSON mirror file name under .sync/ (default latest.json)")
	cmd.Flags().String("summary", "", "Markdown summary file name under .sync/ (default summary.md)")
}

// resolveSettings layers defaults, the config file, the environment and
// finally any flags the user set. The sync file path is made absolute.
func resolveSettings(cmd *cobra.Command) (config.Settings, error) {
	path := persistentString(cmd, "config")
	if path == "" {
		path = config.FilePath()
	}
	settings, err := config.Load(path)
	if err != nil {
		return settings, output.NewUserError(err.Error())
	}

	settings = settings.Merge(flagSettings(cmd))
	if level := persistentString(cmd, "log-level"); level != "" {
		settings.LogLevel = level
	}

	if settings.SyncFile != "" {
		abs, err := filepath.Abs(settings.SyncFile)
		if err != nil {
			return settings, output.NewSystemErrorWithCause("failed to resolve sync file path", err)
		}
		settings.SyncFile = abs
	}
	return settings, nil
}

// flagSettings collects the flags that were explicitly set.
func flagSettings(cmd *cobra.Command) config.Settings {
	var settings config.Settings
	changed := func(name string) (string, bool) {
		flag := cmd.Flags().Lookup(name)
		if flag == nil || !flag.Changed {
			return "", false
		}
		return flag.Value.String(), true
	}

	if value, ok := changed("file"); ok {
		settings.SyncFile = value
	}
	if value, ok := changed("dir"); ok {
		settings.WorkDir = value
	}
	if value, ok := changed("interval"); ok {
		if ms, err := strconv.Atoi(value); err == nil {
			settings.IntervalMS = ms
		}
	}
	if value, ok := changed("out"); ok {
		settings.Out = value
	}
	if value, ok := changed("summary"); ok {
		settings.Summary = value
	}
	return settings
}

// requireSyncFile rejects settings without a sync file path.
func requireSyncFile(settings config.Settings) error {
	if settings.SyncFile == "" {
		return output.NewUserError("missing sync file path: use --file <path> or set " + config.EnvSyncFile)
	}
	return nil
}

// replyQueue returns the reply queue under the configured .sync directory.
func replyQueue(settings config.Settings) (*queue.Queue, error) {
	dir, err := settings.SyncDir()
	if err != nil {
		return nil, output.NewSystemErrorWithCause("failed to resolve .sync directory", err)
	}
	return queue.InDir(dir), nil
}
