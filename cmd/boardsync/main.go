// Package main provides the entry point for the boardsync CLI.
package main

import (
	"context"
	"fmt"
	"os"
	"path/filepath"

	"github.com/charmbracelet/fang"
	"github.com/charmbracelet/lipgloss"
	"github.com/spf13/cobra"

	"github.com/gorewood/boardsync/internal/config"
	"github.com/gorewood/boardsync/internal/envfile"
	"github.com/gorewood/boardsync/internal/output"
)

// Build info set via ldflags at build time by goreleaser.
// Example: go build -ldflags "-X main.version=1.0.0 -X main.commit=abc123 -X main.date=2024-01-01"
var (
	version = "dev"
	commit  = "none"
	date    = "unknown"
)

// isJSONMode reads the --json persistent flag from the command hierarchy.
func isJSONMode(cmd *cobra.Command) bool {
	flag := cmd.Flags().Lookup("json")
	if flag == nil {
		flag = cmd.Root().PersistentFlags().Lookup("json")
	}
	return flag != nil && flag.Value.String() == "true"
}

// useColor resolves --color against the command's stdout. An invalid
// value falls back to auto; runColorCheck reports it before any command runs.
func useColor(cmd *cobra.Command) bool {
	mode, err := output.ParseColorMode(persistentString(cmd, "color"))
	if err != nil {
		mode = output.ColorAuto
	}
	return output.ResolveColorMode(mode, output.IsTTY(cmd.OutOrStdout()))
}

// persistentString reads a string flag that may be declared on the root.
func persistentString(cmd *cobra.Command, name string) string {
	flag := cmd.Flags().Lookup(name)
	if flag == nil {
		flag = cmd.Root().PersistentFlags().Lookup(name)
	}
	if flag == nil {
		return ""
	}
	return flag.Value.String()
}

// buildVersion returns the full version string including commit and date.
func buildVersion() string {
	if commit == "none" && date == "unknown" {
		return version
	}
	shortCommit := commit
	if len(commit) > 7 {
		shortCommit = commit[:7]
	}
	return fmt.Sprintf("%s (%s, %s)", version, shortCommit, date)
}

func main() {
	code := run()
	os.Exit(code)
}

func run() int {
	cmd := newRootCmd()
	err := fang.Execute(context.Background(), cmd, fang.WithVersion(buildVersion()))
	return output.GetExitCode(err)
}

// newRootCmd creates the root command for the boardsync CLI.
func newRootCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "boardsync",
		Short: "Keep a kanban board file in sync with its agent",
		Long: `Boardsync - A file-based sync agent for a kanban board.

Boardsync watches the JSON file a kanban UI saves its state to and:
  - Moves tasks assigned to jarvis from to-do into in-progress
  - Moves finished in-progress tasks into review
  - Posts queued assistant replies onto the board
  - Mirrors the board to .sync/latest.json and .sync/summary.md

All commands support --json for structured output.`,
		Version:       buildVersion(),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, _ []string) error {
			if isJSONMode(cmd) {
				printer := output.NewPrinter(cmd.OutOrStdout(), true, false)
				err := output.NewUserError("no command specified. Run 'boardsync --help' for usage")
				printer.Error(err)
				return err
			}
			return cmd.Help()
		},
	}

	// SYNC_FILE and friends may live in .env files next to the board.
	// Environment variables always take precedence over file values.
	cmd.PersistentPreRunE = func(cmd *cobra.Command, _ []string) error {
		loadEnvFiles()
		return runColorCheck(cmd)
	}

	cmd.PersistentFlags().Bool("json", false, "Output in JSON format")
	cmd.PersistentFlags().String("color", string(output.ColorAuto), "Colorize output: auto, always or never")
	cmd.PersistentFlags().String("log-level", "", "Log level for watch: debug, info, warn or error (env "+config.EnvLogLevel+")")
	cmd.PersistentFlags().String("config", "", "Config file (default <config dir>/config.yaml)")

	lipgloss.SetHasDarkBackground(true)

	addCommandGroups(cmd)
	addCommands(cmd)

	return cmd
}

func runColorCheck(cmd *cobra.Command) error {
	if _, err := output.ParseColorMode(persistentString(cmd, "color")); err != nil {
		output.NewPrinter(cmd.OutOrStdout(), isJSONMode(cmd), false).Error(err)
		return err
	}
	return nil
}

// loadEnvFiles loads env files in priority order. First match for each
// variable wins; environment variables already set always take precedence.
//
// Resolution order:
//  1. $CWD/.env.local         (per-board override, gitignored)
//  2. $CWD/.env               (per-board)
//  3. ~/.config/boardsync/env (global fallback)
func loadEnvFiles() {
	paths := []string{".env.local", ".env"}
	if dir := config.Dir(); dir != "" {
		paths = append(paths, filepath.Join(dir, "env"))
	}
	_, _ = envfile.LoadAll(paths...)
}

// addCommandGroups defines the command groups for help output.
func addCommandGroups(cmd *cobra.Command) {
	cmd.AddGroup(&cobra.Group{ID: "core", Title: "Core Commands:"})
	cmd.AddGroup(&cobra.Group{ID: "query", Title: "Query Commands:"})
	cmd.AddGroup(&cobra.Group{ID: "agent", Title: "Agent Commands:"})
	cmd.AddGroup(&cobra.Group{ID: "admin", Title: "Admin Commands:"})
}

// addCommands adds all subcommands with their group assignments.
func addCommands(cmd *cobra.Command) {
	addGroupedCommand(cmd, newWatchCmd(), "core")
	addGroupedCommand(cmd, newReplyCmd(), "core")

	addGroupedCommand(cmd, newSummaryCmd(), "query")
	addGroupedCommand(cmd, newStatusCmd(), "query")

	addGroupedCommand(cmd, newServeCmd(), "agent")

	addGroupedCommand(cmd, newInitCmd(), "admin")
}

// addGroupedCommand adds a subcommand with a group assignment.
func addGroupedCommand(parent *cobra.Command, child *cobra.Command, groupID string) {
	child.GroupID = groupID
	parent.AddCommand(child)
}
