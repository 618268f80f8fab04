package main

import (
	"errors"
	"os"
	"time"

	"github.com/spf13/cobra"

	"github.com/gorewood/boardsync/internal/board"
	"github.com/gorewood/boardsync/internal/output"
)

// newInitCmd creates the init command.
func newInitCmd() *cobra.Command {
	var forceFlag bool
	cmd := &cobra.Command{
		Use:   "init",
		Short: "Write a starter sync file",
		Long: `Write the default board (one project, one board, four columns and two
jarvis tasks) to the sync file. An existing file is left alone unless
--force is given.

Examples:
  boardsync init --file sync.json
  boardsync init --file sync.json --force`,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runInit(cmd, args, forceFlag)
		},
	}
	addSourceFlags(cmd)
	cmd.Flags().BoolVar(&forceFlag, "force", false, "Overwrite an existing sync file")
	return cmd
}

// runInit executes the init command.
func runInit(cmd *cobra.Command, _ []string, force bool) error {
	printer := output.NewPrinter(cmd.OutOrStdout(), isJSONMode(cmd), useColor(cmd))

	settings, err := resolveSettings(cmd)
	if err != nil {
		printer.Error(err)
		return err
	}
	if err := requireSyncFile(settings); err != nil {
		printer.Error(err)
		return err
	}

	_, statErr := os.Stat(settings.SyncFile)
	exists := statErr == nil
	if statErr != nil && !errors.Is(statErr, os.ErrNotExist) {
		err := output.NewSystemErrorWithCause("failed to check sync file", statErr)
		printer.Error(err)
		return err
	}
	if exists && !force {
		err := output.NewConflictError("sync file already exists: " + settings.SyncFile + "; use --force to overwrite")
		printer.Error(err)
		return err
	}

	doc := board.Default(time.Now())
	if err := board.Save(settings.SyncFile, doc); err != nil {
		printer.Error(err)
		return err
	}

	if printer.IsJSON() {
		return printer.Success(map[string]any{
			"file":        settings.SyncFile,
			"overwritten": exists,
		})
	}
	printer.Print("Wrote starter board to %s\n", settings.SyncFile)
	return nil
}
