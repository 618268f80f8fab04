package export

import (
	"path/filepath"

	"github.com/gorewood/boardsync/internal/board"
	"github.com/gorewood/boardsync/internal/output"
)

// Default artifact file names.
const (
	DefaultLatestName  = "latest.json"
	DefaultSummaryName = "summary.md"
)

// Artifacts locates the derived files of a sync cycle.
type Artifacts struct {
	Dir         string
	LatestName  string
	SummaryName string
}

// LatestPath returns the path of the JSON mirror.
func (a Artifacts) LatestPath() string {
	return a.resolve(nameOr(a.LatestName, DefaultLatestName))
}

// SummaryPath returns the path of the markdown summary.
func (a Artifacts) SummaryPath() string {
	return a.resolve(nameOr(a.SummaryName, DefaultSummaryName))
}

// resolve places relative names under Dir; absolute names are used as is.
func (a Artifacts) resolve(name string) string {
	if filepath.IsAbs(name) {
		return name
	}
	return filepath.Join(a.Dir, name)
}

func nameOr(name, fallback string) string {
	if name == "" {
		return fallback
	}
	return name
}

// Write renders doc and overwrites both artifact files.
func (a Artifacts) Write(doc *board.Document) error {
	latest, err := FormatJSON(doc)
	if err != nil {
		return err
	}
	if err := board.AtomicWrite(a.LatestPath(), latest); err != nil {
		return output.NewSystemErrorWithCause("failed to write "+a.LatestPath(), err)
	}
	if err := board.AtomicWrite(a.SummaryPath(), []byte(FormatMarkdown(doc))); err != nil {
		return output.NewSystemErrorWithCause("failed to write "+a.SummaryPath(), err)
	}
	return nil
}
