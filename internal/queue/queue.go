// Package queue stores pending assistant replies for the sync agent.
//
// Producers append entries with a read-modify-write of the whole JSON array.
// The sync agent reads every entry during one poll cycle and then replaces
// the file with an empty array; entries are never removed one at a time.
package queue

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/google/uuid"

	"github.com/gorewood/boardsync/internal/board"
	"github.com/gorewood/boardsync/internal/output"
)

// FileName is the queue file name inside the .sync working directory.
const FileName = "assistant-replies.json"

// ErrMalformed is returned by Read when the queue file is not a JSON array
// of entries.
var ErrMalformed = errors.New("reply queue is malformed")

// Entry is one pending assistant action.
type Entry struct {
	ID           string `json:"id"`
	TaskID       string `json:"taskId,omitempty"`
	Title        string `json:"title,omitempty"`
	Content      string `json:"content"`
	MarkComplete bool   `json:"markComplete"`
	CreatedAt    string `json:"createdAt"`
	SyncFile     string `json:"syncFile,omitempty"`
}

// NewEntry builds an entry with a fresh id and creation timestamp.
func NewEntry(syncFile, content string, now time.Time) Entry {
	return Entry{
		ID:        "reply-" + uuid.NewString(),
		Content:   content,
		CreatedAt: now.UTC().Format(board.TimestampLayout),
		SyncFile:  syncFile,
	}
}

// ScopedTo reports whether the entry applies to the sync file at source.
// Entries without a sync file apply everywhere.
func (e Entry) ScopedTo(source string) bool {
	if e.SyncFile == "" {
		return true
	}
	return SamePath(e.SyncFile, source)
}

// SamePath compares two paths after resolving them to absolute form.
func SamePath(a, b string) bool {
	absA, errA := filepath.Abs(a)
	absB, errB := filepath.Abs(b)
	if errA != nil || errB != nil {
		return filepath.Clean(a) == filepath.Clean(b)
	}
	return absA == absB
}

// Queue is the reply queue file at a fixed path.
type Queue struct {
	path string
}

// New returns the queue stored at path.
func New(path string) *Queue {
	return &Queue{path: path}
}

// InDir returns the queue stored in the given .sync directory.
func InDir(dir string) *Queue {
	return New(filepath.Join(dir, FileName))
}

// Path returns the queue file path.
func (q *Queue) Path() string {
	return q.path
}

// Read returns the queued entries. A missing or empty file yields no
// entries and no error; an unparseable file yields ErrMalformed.
func (q *Queue) Read() ([]Entry, error) {
	data, err := os.ReadFile(q.path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil, nil
		}
		return nil, output.NewSystemErrorWithCause("failed to read reply queue: "+q.path, err)
	}
	if len(data) == 0 {
		return nil, nil
	}

	var entries []Entry
	if err := json.Unmarshal(data, &entries); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrMalformed, err)
	}
	return entries, nil
}

// Len returns the number of readable entries; a malformed queue counts as empty.
func (q *Queue) Len() int {
	entries, err := q.Read()
	if err != nil {
		return 0
	}
	return len(entries)
}

// Append adds an entry to the end of the queue. An unreadable queue is
// replaced, matching what the consumer would do with it anyway.
func (q *Queue) Append(entry Entry) error {
	entries, err := q.Read()
	if err != nil && !errors.Is(err, ErrMalformed) {
		return err
	}
	entries = append(entries, entry)
	return q.write(entries)
}

// Clear replaces the queue with an empty array.
func (q *Queue) Clear() error {
	return q.write([]Entry{})
}

func (q *Queue) write(entries []Entry) error {
	data, err := json.MarshalIndent(entries, "", "  ")
	if err != nil {
		return output.NewSystemErrorWithCause("failed to serialize reply queue", err)
	}
	if err := board.AtomicWrite(q.path, data); err != nil {
		return output.NewSystemErrorWithCause("failed to write reply queue: "+q.path, err)
	}
	return nil
}
