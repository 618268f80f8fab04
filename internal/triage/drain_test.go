package triage

import (
	"os"
	"path/filepath"
	"slices"
	"testing"

	"github.com/gorewood/boardsync/internal/board"
	"github.com/gorewood/boardsync/internal/queue"
)

func TestDrain_CompletesTask(t *testing.T) {
	doc := newDoc(map[string]*board.Task{
		"t1": {ID: "t1", Title: "Ship it", Assignee: "jarvis", Tags: []string{board.TagRead}},
	}, []string{}, []string{"t1"})
	m, source := newMutator(t)
	entry := queue.NewEntry(source, "done", fixedNow)
	entry.TaskID = "t1"
	entry.MarkComplete = true
	writeQueue(t, m.Queue, entry)

	report, err := m.Mutate(doc)
	if err != nil {
		t.Fatalf("Mutate() error = %v", err)
	}
	if report.Replies.Applied != 1 || !slices.Equal(report.Replies.Completed, []string{"t1"}) {
		t.Errorf("replies = %+v", report.Replies)
	}

	b := activeBoard(t, doc)
	if got := columnIDs(t, b, board.ColumnReview); !slices.Equal(got, []string{"t1"}) {
		t.Errorf("review = %v", got)
	}
	if !b.Tasks["t1"].HasTag(board.TagComplete) {
		t.Errorf("tags = %v", b.Tasks["t1"].Tags)
	}
	if len(b.Messages) != 2 {
		t.Fatalf("messages = %+v, want 2", b.Messages)
	}
	// Newest first: the announcement follows the reply.
	if b.Messages[1].Role != board.RoleAssistant || b.Messages[1].Content != "done" || b.Messages[1].TaskID != "t1" {
		t.Errorf("reply message = %+v", b.Messages[1])
	}
	if b.Messages[0].Role != board.RoleSystem || b.Messages[0].Content != "任务完成：Ship it，已移入评审。" {
		t.Errorf("announcement = %+v", b.Messages[0])
	}
	if got := readQueueFile(t, m.Queue); got != "[]" {
		t.Errorf("queue file = %q, want []", got)
	}
}

func TestDrain_ExistingCompletionTagNotDuplicated(t *testing.T) {
	doc := newDoc(map[string]*board.Task{
		"t1": {ID: "t1", Title: "T", Assignee: "alice", Tags: []string{"Done"}},
	}, []string{"t1"}, []string{})
	m, _ := newMutator(t)
	entry := queue.NewEntry("", "finished", fixedNow)
	entry.Title = "T"
	entry.MarkComplete = true
	writeQueue(t, m.Queue, entry)

	if _, err := m.Mutate(doc); err != nil {
		t.Fatal(err)
	}
	b := activeBoard(t, doc)
	if !slices.Equal(b.Tasks["t1"].Tags, []string{"Done"}) {
		t.Errorf("tags = %v, want [Done]", b.Tasks["t1"].Tags)
	}
	if got := columnIDs(t, b, board.ColumnReview); !slices.Equal(got, []string{"t1"}) {
		t.Errorf("review = %v", got)
	}
}

func TestDrain_UnmatchedStillPostedAndCleared(t *testing.T) {
	doc := newDoc(map[string]*board.Task{}, []string{}, []string{})
	m, source := newMutator(t)
	entry := queue.NewEntry(source, "orphan reply", fixedNow)
	entry.TaskID = "missing"
	entry.MarkComplete = true
	writeQueue(t, m.Queue, entry)

	report, err := m.Mutate(doc)
	if err != nil {
		t.Fatal(err)
	}
	if report.Replies.Unmatched != 1 || !report.Changed() {
		t.Errorf("replies = %+v", report.Replies)
	}
	b := activeBoard(t, doc)
	if len(b.Messages) != 1 || b.Messages[0].TaskID != "" {
		t.Errorf("messages = %+v", b.Messages)
	}
	if got := readQueueFile(t, m.Queue); got != "[]" {
		t.Errorf("queue file = %q, want []", got)
	}
}

func TestDrain_OtherSyncFileDroppedWithoutMutation(t *testing.T) {
	doc := newDoc(map[string]*board.Task{
		"t1": {ID: "t1", Title: "T", Assignee: "alice"},
	}, []string{}, []string{"t1"})
	m, _ := newMutator(t)
	entry := queue.NewEntry("/some/other/board.json", "not for you", fixedNow)
	entry.TaskID = "t1"
	entry.MarkComplete = true
	writeQueue(t, m.Queue, entry)

	report, err := m.Mutate(doc)
	if err != nil {
		t.Fatal(err)
	}
	if report.Replies.Skipped != 1 || report.Changed() {
		t.Errorf("replies = %+v, want one skipped and no change", report.Replies)
	}
	b := activeBoard(t, doc)
	if len(b.Messages) != 0 || !slices.Equal(columnIDs(t, b, board.ColumnProgress), []string{"t1"}) {
		t.Errorf("board was mutated: messages %v", b.Messages)
	}
	if got := readQueueFile(t, m.Queue); got != "[]" {
		t.Errorf("queue file = %q, want []", got)
	}
}

func TestDrain_MissingOrMalformedQueueNotWritten(t *testing.T) {
	doc := newDoc(map[string]*board.Task{}, []string{}, []string{})

	m, _ := newMutator(t)
	if report, err := m.Mutate(doc); err != nil || report.Changed() {
		t.Errorf("missing queue: %+v, %v", report, err)
	}
	if _, err := os.Stat(m.Queue.Path()); !os.IsNotExist(err) {
		t.Errorf("missing queue should not be created: %v", err)
	}

	if err := os.MkdirAll(filepath.Dir(m.Queue.Path()), 0o755); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(m.Queue.Path(), []byte("not json"), 0o600); err != nil {
		t.Fatal(err)
	}
	report, err := m.Mutate(doc)
	if err != nil || !report.Replies.Malformed {
		t.Errorf("malformed queue: %+v, %v", report.Replies, err)
	}
	if got := readQueueFile(t, m.Queue); got != "not json" {
		t.Errorf("malformed queue rewritten to %q", got)
	}
}

func TestDrain_NilQueue(t *testing.T) {
	doc := newDoc(map[string]*board.Task{}, []string{}, []string{})
	m := &Mutator{}
	if report, err := m.Mutate(doc); err != nil || report.Changed() {
		t.Errorf("nil queue: %+v, %v", report, err)
	}
}
