// Package mcp provides a Model Context Protocol server for boardsync.
// It exposes the active board and the reply queue as MCP tools so an agent
// can read the board and answer tasks without touching the files directly.
package mcp

import (
	"time"

	"github.com/modelcontextprotocol/go-sdk/mcp"

	"github.com/gorewood/boardsync/internal/queue"
)

// Source is the sync file and reply queue the tools operate on.
type Source struct {
	SyncFile string
	Queue    *queue.Queue
	Now      func() time.Time
}

func (s Source) now() time.Time {
	if s.Now != nil {
		return s.Now()
	}
	return time.Now()
}

// NewServer creates an MCP server with all boardsync tools registered.
func NewServer(version string, src Source) *mcp.Server {
	server := mcp.NewServer(&mcp.Implementation{
		Name:    "boardsync",
		Version: version,
	}, nil)
	registerTools(server, src)
	return server
}

// boolPtr returns a pointer to a bool value.
func boolPtr(b bool) *bool {
	return &b
}

// readOnlyAnnotations returns annotations for read-only tools.
func readOnlyAnnotations() *mcp.ToolAnnotations {
	return &mcp.ToolAnnotations{
		ReadOnlyHint:   true,
		IdempotentHint: true,
		OpenWorldHint:  boolPtr(false),
	}
}

// writeAnnotations returns annotations for write tools (additive, not destructive).
func writeAnnotations() *mcp.ToolAnnotations {
	return &mcp.ToolAnnotations{
		DestructiveHint: boolPtr(false),
		OpenWorldHint:   boolPtr(false),
	}
}

// registerTools adds all boardsync tools to the server.
func registerTools(server *mcp.Server, src Source) {
	mcp.AddTool(server, &mcp.Tool{
		Name:        "board",
		Description: "Show the active project and board: column titles with task counts and WIP limits, plus a markdown summary.",
		Annotations: readOnlyAnnotations(),
	}, handleBoard(src))

	mcp.AddTool(server, &mcp.Tool{
		Name:        "tasks",
		Description: "List tasks on the active board in column order. Filter by column id (col-todo, col-progress, col-review, col-done) or to tasks assigned to jarvis.",
		Annotations: readOnlyAnnotations(),
	}, handleTasks(src))

	mcp.AddTool(server, &mcp.Tool{
		Name:        "reply",
		Description: "Queue an assistant reply for a task. The sync agent posts it to the board on its next cycle and, with mark_complete, tags the task complete and moves it to review.",
		Annotations: writeAnnotations(),
	}, handleReply(src))
}
