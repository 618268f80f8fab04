// Package triage applies the sync agent's automatic board transitions.
//
// One Mutate call walks the active board once:
//
//  1. agent-assigned tasks in the to-do column without the read tag are
//     tagged and moved to the front of in-progress;
//  2. in-progress tasks carrying a completion marker are tagged as
//     reviewing and moved to the front of review;
//  3. queued assistant replies are posted and, when asked, complete and
//     move their task to review.
//
// Each column is scanned from a snapshot taken before any step runs, so a
// task advances at most one stage per call. The read and reviewing tags
// make repeated calls on an unchanged board report no change.
package triage

import (
	"slices"
	"time"

	"github.com/gorewood/boardsync/internal/board"
	"github.com/gorewood/boardsync/internal/queue"
)

// Mutator transforms a sync document in place.
type Mutator struct {
	// Queue is drained on every call. Nil disables reply handling.
	Queue *queue.Queue
	// SourcePath is the sync file being processed; queue entries scoped to
	// another file are dropped without being applied.
	SourcePath string
	// Now defaults to time.Now.
	Now func() time.Time
}

// Report describes what one Mutate call did.
type Report struct {
	Picked   []string // task ids moved to in-progress
	Reviewed []string // task ids moved to review by tag
	Replies  DrainReport
}

// Changed reports whether the document was modified.
func (r Report) Changed() bool {
	return len(r.Picked) > 0 || len(r.Reviewed) > 0 || r.Replies.Applied > 0
}

func (m *Mutator) now() time.Time {
	if m.Now != nil {
		return m.Now()
	}
	return time.Now()
}

// Mutate applies all transitions to the active board of doc. A document
// without a resolvable board is left untouched. The returned error comes
// only from reply queue I/O; board transitions in the report have already
// been applied when it is non-nil.
func (m *Mutator) Mutate(doc *board.Document) (Report, error) {
	var report Report
	_, b, err := doc.ActiveBoard()
	if err != nil {
		return report, nil
	}

	todo := columnSnapshot(b, board.ColumnTodo)
	progress := columnSnapshot(b, board.ColumnProgress)

	now := m.now()
	report.Picked = pickUpAssigned(b, todo, now)
	report.Reviewed = advanceCompleted(b, progress, now)

	report.Replies, err = m.Drain(b)
	return report, err
}

func columnSnapshot(b *board.Board, id string) []string {
	column, ok := b.Column(id)
	if !ok {
		return nil
	}
	return slices.Clone(column.TaskIDs)
}

// pickUpAssigned moves unread agent tasks from to-do to in-progress.
func pickUpAssigned(b *board.Board, todo []string, now time.Time) []string {
	if _, ok := b.Column(board.ColumnProgress); !ok {
		return nil
	}
	var moved []string
	for _, id := range todo {
		task, ok := b.Task(id)
		if !ok || !task.AssignedToAgent() || task.HasTag(board.TagRead) {
			continue
		}
		task.AddTag(board.TagRead)
		b.MoveTask(id, board.ColumnProgress)
		b.PushMessage(board.NewMessage(board.RoleSystem, board.ReadMessage(task.Title), id, now))
		moved = append(moved, id)
	}
	return moved
}

// advanceCompleted moves in-progress tasks tagged complete to review.
func advanceCompleted(b *board.Board, progress []string, now time.Time) []string {
	if _, ok := b.Column(board.ColumnReview); !ok {
		return nil
	}
	var moved []string
	for _, id := range progress {
		task, ok := b.Task(id)
		if !ok || !task.IsComplete() {
			continue
		}
		task.AddTag(board.TagReviewing)
		b.MoveTask(id, board.ColumnReview)
		b.PushMessage(board.NewMessage(board.RoleSystem, board.ReviewMessage(task.Title), id, now))
		moved = append(moved, id)
	}
	return moved
}
