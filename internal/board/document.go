// Package board provides the sync file schema and the pure functions that navigate it.
package board

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"time"
)

// Stable column identifiers. Columns are referenced by id, never by position.
const (
	ColumnTodo     = "col-todo"
	ColumnProgress = "col-progress"
	ColumnReview   = "col-review"
	ColumnDone     = "col-done"
)

// TimestampLayout matches the millisecond ISO-8601 form the web UI writes.
const TimestampLayout = "2006-01-02T15:04:05.000Z07:00"

// MaxMessages caps the board message log.
const MaxMessages = 50

// Priority is a task priority.
type Priority string

// Task priorities.
const (
	PriorityLow    Priority = "low"
	PriorityMedium Priority = "medium"
	PriorityHigh   Priority = "high"
)

// Role identifies the author of a board message.
type Role string

// Message roles.
const (
	RoleSystem    Role = "system"
	RoleAssistant Role = "assistant"
	RoleUser      Role = "user"
)

// Document is the root object persisted in the sync file.
// Top-level fields the schema does not know about are kept in extra and
// written back unchanged.
type Document struct {
	Projects        []*Project `json:"projects"`
	ActiveProjectID string     `json:"activeProjectId,omitempty"`
	ActiveBoardID   string     `json:"activeBoardId,omitempty"`
	ExportedAt      string     `json:"exportedAt,omitempty"`

	extra map[string]json.RawMessage
}

// Project groups boards.
type Project struct {
	ID     string   `json:"id"`
	Name   string   `json:"name"`
	Boards []*Board `json:"boards"`
}

// Board holds columns, the task table, and the message log.
type Board struct {
	ID       string           `json:"id"`
	Name     string           `json:"name"`
	Columns  []*Column        `json:"columns"`
	Tasks    map[string]*Task `json:"tasks"`
	Messages []Message        `json:"messages,omitempty"`
}

// Column is an ordered list of task ids.
type Column struct {
	ID       string   `json:"id"`
	Title    string   `json:"title"`
	TaskIDs  []string `json:"taskIds"`
	WipLimit int      `json:"wipLimit,omitempty"`
}

// Task is a single card.
type Task struct {
	ID          string   `json:"id"`
	Title       string   `json:"title"`
	Description string   `json:"description"`
	Assignee    string   `json:"assignee"`
	Priority    Priority `json:"priority"`
	Tags        []string `json:"tags"`
	DueDate     string   `json:"dueDate"`
}

// Message is an entry in a board's message log.
type Message struct {
	ID        string `json:"id"`
	Role      Role   `json:"role"`
	Content   string `json:"content"`
	TaskID    string `json:"taskId,omitempty"`
	CreatedAt string `json:"createdAt"`
}

// knownFields are the top-level keys decoded into Document fields.
var knownFields = []string{"projects", "activeProjectId", "activeBoardId", "exportedAt"}

// documentFields is Document without its JSON methods.
type documentFields Document

// UnmarshalJSON decodes the known fields and keeps everything else.
func (d *Document) UnmarshalJSON(data []byte) error {
	var raw map[string]json.RawMessage
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}
	if raw == nil {
		return errors.New("sync document must be a JSON object")
	}

	var fields documentFields
	if err := json.Unmarshal(data, &fields); err != nil {
		return err
	}
	for _, key := range knownFields {
		delete(raw, key)
	}
	*d = Document(fields)
	if len(raw) > 0 {
		d.extra = raw
	}
	d.normalize()
	return nil
}

// MarshalJSON encodes the known fields merged with the preserved extras.
func (d *Document) MarshalJSON() ([]byte, error) {
	fields := documentFields(*d)
	fields.extra = nil
	if fields.Projects == nil {
		fields.Projects = []*Project{}
	}
	base, err := encode(fields)
	if err != nil {
		return nil, err
	}
	if len(d.extra) == 0 {
		return base, nil
	}

	merged := make(map[string]json.RawMessage, len(d.extra)+len(knownFields))
	if err := json.Unmarshal(base, &merged); err != nil {
		return nil, err
	}
	for key, value := range d.extra {
		if _, known := merged[key]; !known {
			merged[key] = value
		}
	}
	return encode(merged)
}

// encode marshals v without HTML escaping, matching what the UI writes.
func encode(v any) ([]byte, error) {
	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	enc.SetEscapeHTML(false)
	if err := enc.Encode(v); err != nil {
		return nil, err
	}
	return bytes.TrimSuffix(buf.Bytes(), []byte("\n")), nil
}

// Extra returns the raw value of an unknown top-level field.
func (d *Document) Extra(key string) (json.RawMessage, bool) {
	value, ok := d.extra[key]
	return value, ok
}

// Touch stamps ExportedAt with the given time.
func (d *Document) Touch(now time.Time) {
	d.ExportedAt = now.UTC().Format(TimestampLayout)
}

// Clone returns a deep copy of the document.
func (d *Document) Clone() (*Document, error) {
	data, err := json.Marshal(d)
	if err != nil {
		return nil, fmt.Errorf("cloning document: %w", err)
	}
	var clone Document
	if err := json.Unmarshal(data, &clone); err != nil {
		return nil, fmt.Errorf("cloning document: %w", err)
	}
	return &clone, nil
}

// normalize replaces nil collections the UI expects to be arrays or objects
// and drops nil entries left by JSON nulls.
func (d *Document) normalize() {
	projects := d.Projects[:0]
	for _, project := range d.Projects {
		if project == nil {
			continue
		}
		project.normalize()
		projects = append(projects, project)
	}
	d.Projects = projects
}

func (p *Project) normalize() {
	boards := p.Boards[:0]
	for _, board := range p.Boards {
		if board == nil {
			continue
		}
		board.normalize()
		boards = append(boards, board)
	}
	p.Boards = boards
}

func (b *Board) normalize() {
	if b.Tasks == nil {
		b.Tasks = map[string]*Task{}
	}
	for id, task := range b.Tasks {
		if task == nil {
			delete(b.Tasks, id)
			continue
		}
		if task.Tags == nil {
			task.Tags = []string{}
		}
	}
	columns := b.Columns[:0]
	for _, column := range b.Columns {
		if column == nil {
			continue
		}
		if column.TaskIDs == nil {
			column.TaskIDs = []string{}
		}
		columns = append(columns, column)
	}
	b.Columns = columns
}

// Unlimited reports whether the column has no WIP limit.
func (c *Column) Unlimited() bool {
	return c.WipLimit <= 0
}

// OverLimit reports whether the column holds more tasks than its WIP limit.
func (c *Column) OverLimit() bool {
	return !c.Unlimited() && len(c.TaskIDs) > c.WipLimit
}
