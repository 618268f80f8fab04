package export

import (
	"fmt"
	"strings"

	"github.com/gorewood/boardsync/internal/board"
)

const notAvailable = "N/A"

// FormatMarkdown renders the summary of the document's active board.
func FormatMarkdown(doc *board.Document) string {
	var builder strings.Builder

	project, active, _ := doc.ActiveBoard()
	writeHeader(&builder, doc, project, active)

	if active == nil || len(active.Columns) == 0 {
		builder.WriteString("- No data")
		return builder.String()
	}
	for _, column := range active.Columns {
		writeColumn(&builder, active, column)
	}
	// Columns are separated by a blank line; the document ends with one newline.
	return strings.TrimSuffix(builder.String(), "\n")
}

func writeHeader(builder *strings.Builder, doc *board.Document, project *board.Project, active *board.Board) {
	projectName, boardName := notAvailable, notAvailable
	if project != nil {
		projectName = project.Name
	}
	if active != nil {
		boardName = active.Name
	}
	updated := doc.ExportedAt
	if updated == "" {
		updated = notAvailable
	}

	builder.WriteString("# Sync Summary\n")
	fmt.Fprintf(builder, "- Project: %s\n", projectName)
	fmt.Fprintf(builder, "- Board: %s\n", boardName)
	fmt.Fprintf(builder, "- Updated: %s\n", updated)
	builder.WriteString("\n## Columns\n")
}

func writeColumn(builder *strings.Builder, b *board.Board, column *board.Column) {
	tasks := b.ColumnTasks(column)
	fmt.Fprintf(builder, "### %s (%d)\n", column.Title, len(tasks))
	if len(tasks) == 0 {
		builder.WriteString("- (empty)\n")
	}
	for _, task := range tasks {
		builder.WriteString(FormatTask(task))
		builder.WriteString("\n")
	}
	builder.WriteString("\n")
}

// FormatTask renders one task line, omitting empty trailing segments.
func FormatTask(task *board.Task) string {
	var builder strings.Builder
	builder.WriteString("- ")
	builder.WriteString(task.Title)
	if task.Assignee != "" {
		builder.WriteString(" @" + task.Assignee)
	}
	if task.Priority != "" {
		builder.WriteString(" · " + string(task.Priority))
	}
	if task.DueDate != "" {
		builder.WriteString(" · " + task.DueDate)
	}
	return builder.String()
}
