package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/gorewood/boardsync/internal/logging"
	"github.com/gorewood/boardsync/internal/output"
	"github.com/gorewood/boardsync/internal/syncer"
	"github.com/gorewood/boardsync/internal/triage"
)

// newWatchCmd creates the watch command.
func newWatchCmd() *cobra.Command {
	var onceFlag bool
	cmd := &cobra.Command{
		Use:   "watch",
		Short: "Poll the sync file and keep the board moving",
		Long: `Poll the sync file written by the board UI.

Each time the file's modification time advances, watch reads it, moves
jarvis tasks along the board, posts queued replies, writes the file back
when anything changed, and refreshes .sync/latest.json and .sync/summary.md.
A file caught mid-write is skipped and the last good copy is republished.

Runs until interrupted.

Examples:
  boardsync watch --file ~/board/sync.json
  SYNC_FILE=sync.json SYNC_INTERVAL=500 boardsync watch
  boardsync watch --file sync.json --once   # single cycle, then exit`,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runWatch(cmd, args, onceFlag)
		},
	}
	addSourceFlags(cmd)
	addArtifactFlags(cmd)
	cmd.Flags().BoolVar(&onceFlag, "once", false, "Run a single poll cycle and exit")
	return cmd
}

// runWatch executes the watch command.
func runWatch(cmd *cobra.Command, _ []string, once bool) error {
	printer := output.NewPrinter(cmd.OutOrStdout(), isJSONMode(cmd), useColor(cmd))

	poller, err := buildPoller(cmd)
	if err != nil {
		printer.Error(err)
		return err
	}

	if once {
		outcome := poller.PollOnce(commandContext(cmd))
		if printer.IsJSON() {
			return printer.Success(map[string]any{"outcome": outcome.String()})
		}
		printer.KeyValue("Outcome", outcome.String())
		return nil
	}

	ctx, stop := signal.NotifyContext(commandContext(cmd), os.Interrupt, syscall.SIGTERM)
	defer stop()
	return poller.Run(ctx)
}

// buildPoller wires settings, logger, queue and mutator into a poller.
func buildPoller(cmd *cobra.Command) (*syncer.Poller, error) {
	settings, err := resolveSettings(cmd)
	if err != nil {
		return nil, err
	}
	if err := requireSyncFile(settings); err != nil {
		return nil, err
	}

	logger, err := logging.New(cmd.ErrOrStderr(), settings.LogLevel)
	if err != nil {
		return nil, output.NewUserError(err.Error())
	}
	artifacts, err := settings.Artifacts()
	if err != nil {
		return nil, output.NewSystemErrorWithCause("failed to resolve .sync directory", err)
	}
	replies, err := replyQueue(settings)
	if err != nil {
		return nil, err
	}

	return syncer.New(syncer.Options{
		SourcePath: settings.SyncFile,
		Artifacts:  artifacts,
		Mutator:    &triage.Mutator{Queue: replies, SourcePath: settings.SyncFile},
		Interval:   settings.Interval(),
		Logger:     logger,
	})
}

// commandContext returns the command's context, or Background when the
// command is executed without one.
func commandContext(cmd *cobra.Command) context.Context {
	if ctx := cmd.Context(); ctx != nil {
		return ctx
	}
	return context.Background()
}
