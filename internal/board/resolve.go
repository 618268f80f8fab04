package board

import (
	"errors"
	"sort"
	"strings"
)

// ErrNotFound is returned when a lookup has no candidate to fall back to.
var ErrNotFound = errors.New("not found")

// ResolveActive returns the candidate whose id equals activeID, else the
// first candidate. It returns ErrNotFound only when candidates is empty.
func ResolveActive[T any](candidates []T, activeID string, id func(T) string) (T, error) {
	var zero T
	if len(candidates) == 0 {
		return zero, ErrNotFound
	}
	if activeID != "" {
		for _, candidate := range candidates {
			if id(candidate) == activeID {
				return candidate, nil
			}
		}
	}
	return candidates[0], nil
}

func projectID(p *Project) string { return p.ID }
func boardID(b *Board) string     { return b.ID }

// ActiveProject resolves the active project with first-project fallback.
func (d *Document) ActiveProject() (*Project, error) {
	return ResolveActive(d.Projects, d.ActiveProjectID, projectID)
}

// ActiveBoard resolves the active board of the active project, falling back
// to the first board of that project.
func (d *Document) ActiveBoard() (*Project, *Board, error) {
	project, err := d.ActiveProject()
	if err != nil {
		return nil, nil, err
	}
	b, err := ResolveActive(project.Boards, d.ActiveBoardID, boardID)
	if err != nil {
		return project, nil, err
	}
	return project, b, nil
}

// Column returns the column with the given id.
func (b *Board) Column(id string) (*Column, bool) {
	for _, column := range b.Columns {
		if column.ID == id {
			return column, true
		}
	}
	return nil, false
}

// Task returns the task with the given id.
func (b *Board) Task(id string) (*Task, bool) {
	if id == "" {
		return nil, false
	}
	task, ok := b.Tasks[id]
	return task, ok
}

// ColumnOf returns the id of the column holding taskID, or "" if none does.
func (b *Board) ColumnOf(taskID string) string {
	for _, column := range b.Columns {
		for _, id := range column.TaskIDs {
			if id == taskID {
				return column.ID
			}
		}
	}
	return ""
}

// ColumnTasks returns the tasks of a column in display order, skipping ids
// that have no task.
func (b *Board) ColumnTasks(column *Column) []*Task {
	tasks := make([]*Task, 0, len(column.TaskIDs))
	for _, id := range column.TaskIDs {
		if task, ok := b.Tasks[id]; ok {
			tasks = append(tasks, task)
		}
	}
	return tasks
}

// OrderedTasks returns every task on the board: placed tasks in column
// order first, then unplaced tasks sorted by id.
func (b *Board) OrderedTasks() []*Task {
	seen := make(map[string]bool, len(b.Tasks))
	tasks := make([]*Task, 0, len(b.Tasks))
	for _, column := range b.Columns {
		for _, task := range b.ColumnTasks(column) {
			if seen[task.ID] {
				continue
			}
			seen[task.ID] = true
			tasks = append(tasks, task)
		}
	}

	var orphans []string
	for id := range b.Tasks {
		if !seen[id] {
			orphans = append(orphans, id)
		}
	}
	sort.Strings(orphans)
	for _, id := range orphans {
		tasks = append(tasks, b.Tasks[id])
	}
	return tasks
}

// TaskByTitle returns the first task whose title equals title exactly.
func (b *Board) TaskByTitle(title string) (*Task, bool) {
	if title == "" {
		return nil, false
	}
	for _, task := range b.OrderedTasks() {
		if task.Title == title {
			return task, true
		}
	}
	return nil, false
}

// MatchTaskTitle looks up a task by normalized title: an exact match
// (trimmed, case-insensitive) wins over a substring match.
func (b *Board) MatchTaskTitle(title string) (*Task, bool) {
	needle := normalize(title)
	if needle == "" {
		return nil, false
	}
	tasks := b.OrderedTasks()
	for _, task := range tasks {
		if normalize(task.Title) == needle {
			return task, true
		}
	}
	for _, task := range tasks {
		if strings.Contains(normalize(task.Title), needle) {
			return task, true
		}
	}
	return nil, false
}

func normalize(value string) string {
	return strings.ToLower(strings.TrimSpace(value))
}
