package queue

import (
	"strings"
	"time"

	"github.com/gorewood/boardsync/internal/board"
	"github.com/gorewood/boardsync/internal/output"
)

// Request describes a reply to queue against a sync file.
type Request struct {
	SyncFile     string
	Message      string
	TaskID       string
	Title        string
	MarkComplete bool
}

// Target is a task resolved at submission time.
type Target struct {
	ID    string
	Title string
}

// ResolveTarget picks the task a reply is meant for on the active board:
// the task with the given id, else an exact (trimmed, case-insensitive)
// title match, else a title substring match, else the most recently placed
// agent-assigned task at the bottom of the in-progress column.
func ResolveTarget(doc *board.Document, taskID, title string) (Target, bool) {
	if doc == nil {
		return Target{}, false
	}
	_, b, err := doc.ActiveBoard()
	if err != nil {
		return Target{}, false
	}

	if task, ok := b.Task(taskID); ok {
		return Target{ID: task.ID, Title: task.Title}, true
	}
	if task, ok := b.MatchTaskTitle(title); ok {
		return Target{ID: task.ID, Title: task.Title}, true
	}

	progress, ok := b.Column(board.ColumnProgress)
	if !ok {
		return Target{}, false
	}
	var latest *board.Task
	for _, task := range b.ColumnTasks(progress) {
		if task.AssignedToAgent() {
			latest = task
		}
	}
	if latest == nil {
		return Target{}, false
	}
	return Target{ID: latest.ID, Title: latest.Title}, true
}

// Submit resolves the target task against the current sync file and
// appends one entry to the queue. An unreadable sync file is not an error:
// the entry keeps the caller's raw task id and title and is resolved again
// when the sync agent consumes it.
func Submit(q *Queue, req Request, now time.Time) (Entry, error) {
	if strings.TrimSpace(req.SyncFile) == "" {
		return Entry{}, output.NewUserError("missing sync file path: use --file <path> or set SYNC_FILE")
	}
	if strings.TrimSpace(req.Message) == "" {
		return Entry{}, output.NewUserError("missing reply message: use --message <text>")
	}

	entry := NewEntry(req.SyncFile, req.Message, now)
	entry.MarkComplete = req.MarkComplete
	entry.TaskID = req.TaskID
	entry.Title = req.Title

	if doc, err := board.Load(req.SyncFile); err == nil {
		if target, ok := ResolveTarget(doc, req.TaskID, req.Title); ok {
			entry.TaskID = target.ID
			entry.Title = target.Title
		}
	}

	if err := q.Append(entry); err != nil {
		return Entry{}, err
	}
	return entry, nil
}
