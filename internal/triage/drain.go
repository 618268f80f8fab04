package triage

import (
	"errors"

	"github.com/gorewood/boardsync/internal/board"
	"github.com/gorewood/boardsync/internal/queue"
)

// DrainReport counts what happened to queued replies in one drain.
type DrainReport struct {
	Read      int      // entries found in the queue
	Applied   int      // entries posted to this board
	Skipped   int      // entries scoped to another sync file, dropped
	Unmatched int      // applied entries whose task could not be found
	Completed []string // task ids completed and moved to review
	Malformed bool     // queue file could not be parsed and was ignored
}

// Drain applies every queued reply to b and then empties the queue.
//
// Entries scoped to another sync file and entries whose task cannot be
// found are dropped along with the rest; nothing is retried. A missing,
// empty or unparseable queue is left as is.
func (m *Mutator) Drain(b *board.Board) (DrainReport, error) {
	var report DrainReport
	if m.Queue == nil {
		return report, nil
	}

	entries, err := m.Queue.Read()
	if err != nil {
		if errors.Is(err, queue.ErrMalformed) {
			report.Malformed = true
			return report, nil
		}
		return report, err
	}
	if len(entries) == 0 {
		return report, nil
	}

	report.Read = len(entries)
	now := m.now()
	for _, entry := range entries {
		if !entry.ScopedTo(m.SourcePath) {
			report.Skipped++
			continue
		}
		report.Applied++
		task, ok := resolveEntryTask(b, entry)
		taskID := ""
		if ok {
			taskID = task.ID
		}
		b.PushMessage(board.NewMessage(board.RoleAssistant, entry.Content, taskID, now))
		if !ok {
			report.Unmatched++
			continue
		}
		if !entry.MarkComplete {
			continue
		}
		if _, hasReview := b.Column(board.ColumnReview); !hasReview {
			continue
		}
		if !task.IsComplete() {
			task.AddTag(board.TagComplete)
		}
		b.MoveTask(task.ID, board.ColumnReview)
		b.PushMessage(board.NewMessage(board.RoleSystem, board.ReviewMessage(task.Title), task.ID, now))
		report.Completed = append(report.Completed, task.ID)
	}

	if err := m.Queue.Clear(); err != nil {
		return report, err
	}
	return report, nil
}

// resolveEntryTask finds the task a queued reply targets: by id, then by
// exact title.
func resolveEntryTask(b *board.Board, entry queue.Entry) (*board.Task, bool) {
	if task, ok := b.Task(entry.TaskID); ok {
		return task, true
	}
	return b.TaskByTitle(entry.Title)
}
