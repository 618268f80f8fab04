package board

import (
	"fmt"
	"slices"
	"strings"
	"time"

	"github.com/google/uuid"
)

// Localized tags and message templates written by the sync agent.
const (
	TagRead      = "已读"
	TagReviewing = "评审中"
	TagComplete  = "完成"

	readMessageFormat   = "已读任务：%s，已移入进行中。"
	reviewMessageFormat = "任务完成：%s，已移入评审。"
)

// agentName is matched case-insensitively against task assignees.
const agentName = "jarvis"

// CompletionMarker is a tag value that marks a task as finished.
type CompletionMarker string

// Completion markers recognized on tasks.
const (
	MarkerComplete  CompletionMarker = TagComplete
	MarkerDone      CompletionMarker = "done"
	MarkerCompleted CompletionMarker = "completed"
)

// completionMarkers is the fixed completion vocabulary.
var completionMarkers = []CompletionMarker{MarkerComplete, MarkerDone, MarkerCompleted}

// CompletionMarkers returns the completion vocabulary.
func CompletionMarkers() []CompletionMarker {
	return slices.Clone(completionMarkers)
}

// Matches reports whether tag equals the marker, ignoring case and
// surrounding whitespace.
func (m CompletionMarker) Matches(tag string) bool {
	return strings.EqualFold(strings.TrimSpace(tag), string(m))
}

// IsCompletionTag reports whether tag belongs to the completion vocabulary.
func IsCompletionTag(tag string) bool {
	for _, marker := range completionMarkers {
		if marker.Matches(tag) {
			return true
		}
	}
	return false
}

// IsAgentAssignee reports whether an assignee names the automation agent.
func IsAgentAssignee(assignee string) bool {
	return strings.Contains(strings.ToLower(assignee), agentName)
}

// AssignedToAgent reports whether the task belongs to the automation agent.
func (t *Task) AssignedToAgent() bool {
	return IsAgentAssignee(t.Assignee)
}

// HasTag reports whether the task carries tag (case-insensitive).
func (t *Task) HasTag(tag string) bool {
	for _, existing := range t.Tags {
		if strings.EqualFold(existing, tag) {
			return true
		}
	}
	return false
}

// AddTag adds tag unless already present. It reports whether the tags changed.
func (t *Task) AddTag(tag string) bool {
	if t.HasTag(tag) {
		return false
	}
	t.Tags = append(t.Tags, tag)
	return true
}

// IsComplete reports whether any tag is a completion marker.
func (t *Task) IsComplete() bool {
	return slices.ContainsFunc(t.Tags, IsCompletionTag)
}

// MoveTask removes taskID from every column and prepends it to the target
// column. It reports false, leaving the board untouched, when the target
// column does not exist.
func (b *Board) MoveTask(taskID, columnID string) bool {
	target, ok := b.Column(columnID)
	if !ok {
		return false
	}
	for _, column := range b.Columns {
		column.TaskIDs = slices.DeleteFunc(column.TaskIDs, func(id string) bool {
			return id == taskID
		})
	}
	target.TaskIDs = slices.Insert(target.TaskIDs, 0, taskID)
	return true
}

// NewMessage builds a message with a fresh id.
func NewMessage(role Role, content, taskID string, now time.Time) Message {
	return Message{
		ID:        "msg-" + uuid.NewString(),
		Role:      role,
		Content:   content,
		TaskID:    taskID,
		CreatedAt: now.UTC().Format(TimestampLayout),
	}
}

// PushMessage prepends msg to the log, keeping at most MaxMessages entries.
func (b *Board) PushMessage(msg Message) {
	b.Messages = slices.Insert(b.Messages, 0, msg)
	if len(b.Messages) > MaxMessages {
		b.Messages = b.Messages[:MaxMessages]
	}
}

// ReadMessage is the system note posted when the agent picks up a task.
func ReadMessage(title string) string {
	return fmt.Sprintf(readMessageFormat, title)
}

// ReviewMessage is the system note posted when a task moves to review.
func ReviewMessage(title string) string {
	return fmt.Sprintf(reviewMessageFormat, title)
}
