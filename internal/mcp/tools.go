package mcp

import (
	"context"
	"fmt"

	"github.com/modelcontextprotocol/go-sdk/mcp"

	"github.com/gorewood/boardsync/internal/board"
	"github.com/gorewood/boardsync/internal/export"
)

// --- Shared types ---

// ColumnSummary describes one column.
type ColumnSummary struct {
	ID        string `json:"id"                  jsonschema:"column ID"`
	Title     string `json:"title"               jsonschema:"column title"`
	Count     int    `json:"count"               jsonschema:"number of tasks in the column"`
	WipLimit  int    `json:"wip_limit,omitempty" jsonschema:"work-in-progress limit, omitted when unlimited"`
	OverLimit bool   `json:"over_limit,omitempty" jsonschema:"true when the column holds more tasks than its limit"`
}

// TaskSummary is a task as seen by an agent.
type TaskSummary struct {
	ID          string   `json:"id"                    jsonschema:"task ID"`
	Title       string   `json:"title"                 jsonschema:"task title"`
	Description string   `json:"description,omitempty" jsonschema:"task description"`
	Assignee    string   `json:"assignee,omitempty"    jsonschema:"assignee name"`
	Priority    string   `json:"priority,omitempty"    jsonschema:"low, medium or high"`
	Tags        []string `json:"tags,omitempty"        jsonschema:"task tags"`
	DueDate     string   `json:"due_date,omitempty"    jsonschema:"due date"`
	Column      string   `json:"column,omitempty"      jsonschema:"ID of the column holding the task"`
}

func loadActive(src Source) (*board.Document, *board.Project, *board.Board, error) {
	doc, err := board.Load(src.SyncFile)
	if err != nil {
		return nil, nil, nil, err
	}
	project, active, err := doc.ActiveBoard()
	if err != nil {
		return nil, nil, nil, fmt.Errorf("sync file has no board: %w", err)
	}
	return doc, project, active, nil
}

func toTaskSummary(b *board.Board, task *board.Task) TaskSummary {
	return TaskSummary{
		ID:          task.ID,
		Title:       task.Title,
		Description: task.Description,
		Assignee:    task.Assignee,
		Priority:    string(task.Priority),
		Tags:        task.Tags,
		DueDate:     task.DueDate,
		Column:      b.ColumnOf(task.ID),
	}
}

// --- Board tool ---

// BoardInput is the input for the board tool (no parameters needed).
type BoardInput struct{}

// BoardOutput is the output for the board tool.
type BoardOutput struct {
	Project    string          `json:"project"     jsonschema:"active project name"`
	Board      string          `json:"board"       jsonschema:"active board name"`
	ExportedAt string          `json:"exported_at" jsonschema:"last write timestamp of the sync file"`
	Columns    []ColumnSummary `json:"columns"     jsonschema:"columns in display order"`
	Summary    string          `json:"summary"     jsonschema:"markdown rendering of the board"`
}

func handleBoard(src Source) mcp.ToolHandlerFor[BoardInput, BoardOutput] {
	return func(_ context.Context, _ *mcp.CallToolRequest, _ BoardInput) (*mcp.CallToolResult, BoardOutput, error) {
		doc, project, active, err := loadActive(src)
		if err != nil {
			return nil, BoardOutput{}, err
		}

		columns := make([]ColumnSummary, 0, len(active.Columns))
		for _, column := range active.Columns {
			columns = append(columns, ColumnSummary{
				ID:        column.ID,
				Title:     column.Title,
				Count:     len(active.ColumnTasks(column)),
				WipLimit:  column.WipLimit,
				OverLimit: column.OverLimit(),
			})
		}

		return nil, BoardOutput{
			Project:    project.Name,
			Board:      active.Name,
			ExportedAt: doc.ExportedAt,
			Columns:    columns,
			Summary:    export.FormatMarkdown(doc),
		}, nil
	}
}

// --- Tasks tool ---

// TasksInput is the input for the tasks tool.
type TasksInput struct {
	Column       string `json:"column,omitempty"        jsonschema:"only tasks in this column ID"`
	AssignedOnly bool   `json:"assigned_only,omitempty" jsonschema:"only tasks assigned to jarvis"`
}

// TasksOutput is the output for the tasks tool.
type TasksOutput struct {
	Count int           `json:"count" jsonschema:"number of tasks returned"`
	Tasks []TaskSummary `json:"tasks" jsonschema:"matching tasks in column order"`
}

func handleTasks(src Source) mcp.ToolHandlerFor[TasksInput, TasksOutput] {
	return func(_ context.Context, _ *mcp.CallToolRequest, input TasksInput) (*mcp.CallToolResult, TasksOutput, error) {
		_, _, active, err := loadActive(src)
		if err != nil {
			return nil, TasksOutput{}, err
		}

		candidates := active.OrderedTasks()
		if input.Column != "" {
			column, ok := active.Column(input.Column)
			if !ok {
				return nil, TasksOutput{}, fmt.Errorf("column not found: %s", input.Column)
			}
			candidates = active.ColumnTasks(column)
		}

		tasks := make([]TaskSummary, 0, len(candidates))
		for _, task := range candidates {
			if input.AssignedOnly && !task.AssignedToAgent() {
				continue
			}
			tasks = append(tasks, toTaskSummary(active, task))
		}
		return nil, TasksOutput{Count: len(tasks), Tasks: tasks}, nil
	}
}
