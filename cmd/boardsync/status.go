package main

import (
	"errors"
	"os"
	"strconv"

	"github.com/spf13/cobra"

	"github.com/gorewood/boardsync/internal/board"
	"github.com/gorewood/boardsync/internal/config"
	"github.com/gorewood/boardsync/internal/output"
)

// statusResult holds the data for status output.
type statusResult struct {
	SyncFile    string `json:"sync_file"`
	FileExists  bool   `json:"file_exists"`
	ModTime     string `json:"mod_time,omitempty"`
	ParseError  string `json:"parse_error,omitempty"`
	Project     string `json:"project,omitempty"`
	Board       string `json:"board,omitempty"`
	TaskCount   int    `json:"task_count"`
	QueuePath   string `json:"queue_path"`
	QueueLength int    `json:"queue_length"`
	LatestPath  string `json:"latest_path"`
	SummaryPath string `json:"summary_path"`
	IntervalMS  int    `json:"interval_ms"`
}

// newStatusCmd creates the status command.
func newStatusCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "status",
		Short: "Show sync file, queue and artifact state",
		Long: `Show where boardsync reads and writes, and what it currently sees.

Displays the sync file path and modification time, the active project and
board, the number of replies waiting in the queue, and the artifact paths.

Examples:
  boardsync status --file sync.json
  boardsync status --json`,
		RunE: runStatus,
	}
	addSourceFlags(cmd)
	addArtifactFlags(cmd)
	return cmd
}

// runStatus executes the status command.
func runStatus(cmd *cobra.Command, _ []string) error {
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

	result, err := gatherStatus(settings)
	if err != nil {
		printer.Error(err)
		return err
	}

	if printer.IsJSON() {
		return printer.WriteJSON(result)
	}
	printHumanStatus(printer, result)
	return nil
}

// gatherStatus collects all status information.
func gatherStatus(settings config.Settings) (*statusResult, error) {
	artifacts, err := settings.Artifacts()
	if err != nil {
		return nil, output.NewSystemErrorWithCause("failed to resolve .sync directory", err)
	}
	replies, err := replyQueue(settings)
	if err != nil {
		return nil, err
	}

	result := &statusResult{
		SyncFile:    settings.SyncFile,
		QueuePath:   replies.Path(),
		QueueLength: replies.Len(),
		LatestPath:  artifacts.LatestPath(),
		SummaryPath: artifacts.SummaryPath(),
		IntervalMS:  int(settings.Interval().Milliseconds()),
	}

	info, err := os.Stat(settings.SyncFile)
	if errors.Is(err, os.ErrNotExist) {
		return result, nil
	}
	if err != nil {
		return nil, output.NewSystemErrorWithCause("failed to stat sync file", err)
	}
	result.FileExists = true
	result.ModTime = info.ModTime().UTC().Format(board.TimestampLayout)

	doc, err := board.Load(settings.SyncFile)
	if err != nil {
		result.ParseError = err.Error()
		return result, nil
	}
	if project, active, err := doc.ActiveBoard(); err == nil {
		result.Project = project.Name
		result.Board = active.Name
		result.TaskCount = len(active.Tasks)
	}
	return result, nil
}

// printHumanStatus renders status in human-readable format.
func printHumanStatus(printer *output.Printer, result *statusResult) {
	printer.Section("Sync File")
	printer.KeyValue("Path", result.SyncFile)
	if !result.FileExists {
		printer.Muted("not written yet")
	} else {
		printer.KeyValue("Modified", result.ModTime)
	}
	if result.ParseError != "" {
		printer.Warn("%s", result.ParseError)
	}
	if result.Board != "" {
		printer.KeyValue("Project", result.Project)
		printer.KeyValue("Board", result.Board)
		printer.KeyValue("Tasks", strconv.Itoa(result.TaskCount))
	}

	printer.Section("Sync Directory")
	printer.KeyValue("Queue", result.QueuePath+" ("+strconv.Itoa(result.QueueLength)+" pending)")
	printer.KeyValue("Latest", result.LatestPath)
	printer.KeyValue("Summary", result.SummaryPath)
	printer.KeyValue("Interval", strconv.Itoa(result.IntervalMS)+"ms")
}
