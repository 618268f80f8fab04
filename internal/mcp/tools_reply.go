package mcp

import (
	"context"
	"errors"

	"github.com/modelcontextprotocol/go-sdk/mcp"

	"github.com/gorewood/boardsync/internal/queue"
)

// ReplyInput is the input for the reply tool.
type ReplyInput struct {
	Message      string `json:"message"                 jsonschema:"reply text to post on the board (required)"`
	TaskID       string `json:"task_id,omitempty"       jsonschema:"ID of the task being answered"`
	Title        string `json:"title,omitempty"         jsonschema:"task title, used when task_id is not given"`
	MarkComplete bool   `json:"mark_complete,omitempty" jsonschema:"tag the task complete and move it to review"`
}

// ReplyOutput is the output for the reply tool.
type ReplyOutput struct {
	ID         string `json:"id"               jsonschema:"queued reply ID"`
	TaskID     string `json:"task_id,omitempty" jsonschema:"task the reply was resolved to"`
	Title      string `json:"title,omitempty"  jsonschema:"title of the resolved task"`
	QueueDepth int    `json:"queue_depth"      jsonschema:"replies waiting for the sync agent, including this one"`
}

func handleReply(src Source) mcp.ToolHandlerFor[ReplyInput, ReplyOutput] {
	return func(_ context.Context, _ *mcp.CallToolRequest, input ReplyInput) (*mcp.CallToolResult, ReplyOutput, error) {
		if input.Message == "" {
			return nil, ReplyOutput{}, errors.New("message is required")
		}
		if src.Queue == nil {
			return nil, ReplyOutput{}, errors.New("reply queue is not configured")
		}

		entry, err := queue.Submit(src.Queue, queue.Request{
			SyncFile:     src.SyncFile,
			Message:      input.Message,
			TaskID:       input.TaskID,
			Title:        input.Title,
			MarkComplete: input.MarkComplete,
		}, src.now())
		if err != nil {
			return nil, ReplyOutput{}, err
		}

		return nil, ReplyOutput{
			ID:         entry.ID,
			TaskID:     entry.TaskID,
			Title:      entry.Title,
			QueueDepth: src.Queue.Len(),
		}, nil
	}
}
