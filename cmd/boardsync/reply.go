package main

import (
	"time"

	"github.com/spf13/cobra"

	"github.com/gorewood/boardsync/internal/output"
	"github.com/gorewood/boardsync/internal/queue"
)

// replyFlags holds the command-line flags for the reply command.
type replyFlags struct {
	message  string
	taskID   string
	title    string
	complete bool
}

// newReplyCmd creates the reply command.
func newReplyCmd() *cobra.Command {
	flags := &replyFlags{}
	cmd := &cobra.Command{
		Use:   "reply",
		Short: "Queue an assistant reply for the sync agent",
		Long: `Queue an assistant reply for a task on the board.

The target task is resolved now against the sync file: by --taskId, then by
--title (exact, then partial match), then the latest jarvis task in
progress. The running watch command posts the reply on its next cycle.
With --complete it also tags the task complete and moves it to review.

Examples:
  boardsync reply --file sync.json --message "清单已整理" --taskId task-1
  boardsync reply --message "验证通过" --title "看板UI" --complete
  boardsync reply --message "done" --json   # print the queued entry`,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return runReply(cmd, flags)
		},
	}
	addSourceFlags(cmd)
	cmd.Flags().StringVar(&flags.message, "message", "", "Reply text (required)")
	cmd.Flags().StringVar(&flags.taskID, "taskId", "", "ID of the task being answered")
	cmd.Flags().StringVar(&flags.title, "title", "", "Title of the task being answered")
	cmd.Flags().BoolVar(&flags.complete, "complete", false, "Mark the task complete and move it to review")
	return cmd
}

// runReply executes the reply command.
func runReply(cmd *cobra.Command, flags *replyFlags) error {
	printer := output.NewPrinter(cmd.OutOrStdout(), isJSONMode(cmd), useColor(cmd))

	settings, err := resolveSettings(cmd)
	if err != nil {
		printer.Error(err)
		return err
	}
	replies, err := replyQueue(settings)
	if err != nil {
		printer.Error(err)
		return err
	}

	entry, err := queue.Submit(replies, queue.Request{
		SyncFile:     settings.SyncFile,
		Message:      flags.message,
		TaskID:       flags.taskID,
		Title:        flags.title,
		MarkComplete: flags.complete,
	}, time.Now())
	if err != nil {
		printer.Error(err)
		return err
	}

	if printer.IsJSON() {
		return printer.Success(map[string]any{
			"id":            entry.ID,
			"task_id":       entry.TaskID,
			"title":         entry.Title,
			"mark_complete": entry.MarkComplete,
			"queue":         replies.Path(),
		})
	}

	target := entry.TaskID
	if target == "" {
		target = "(unresolved)"
	} else if entry.Title != "" {
		target += " " + entry.Title
	}
	printer.Print("Queued reply %s\n", entry.ID)
	printer.KeyValue("Task", target)
	printer.KeyValue("Queue", replies.Path())
	return nil
}
