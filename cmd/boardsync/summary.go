package main

import (
	"github.com/spf13/cobra"

	"github.com/gorewood/boardsync/internal/board"
	"github.com/gorewood/boardsync/internal/export"
	"github.com/gorewood/boardsync/internal/output"
)

// newSummaryCmd creates the summary command.
func newSummaryCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "summary",
		Short: "Print the board summary once",
		Long: `Render the sync file the way watch renders .sync/summary.md and print it.

With --json the whole document is printed as latest.json would contain it.
Nothing is written.

Examples:
  boardsync summary --file sync.json
  boardsync summary --file sync.json --json | jq '.projects[0].name'`,
		RunE: runSummary,
	}
	addSourceFlags(cmd)
	return cmd
}

// runSummary executes the summary command.
func runSummary(cmd *cobra.Command, _ []string) error {
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

	doc, err := board.Load(settings.SyncFile)
	if err != nil {
		printer.Error(err)
		return err
	}

	if printer.IsJSON() {
		return export.WriteJSON(printer, doc)
	}
	printer.Print("%s", export.FormatMarkdown(doc))
	return nil
}
