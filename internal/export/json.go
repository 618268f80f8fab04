package export

import (
	"github.com/gorewood/boardsync/internal/board"
	"github.com/gorewood/boardsync/internal/output"
)

// FormatJSON renders the full document as the latest.json mirror.
func FormatJSON(doc *board.Document) ([]byte, error) {
	data, err := board.Marshal(doc)
	if err != nil {
		return nil, output.NewSystemErrorWithCause("failed to render latest snapshot", err)
	}
	return data, nil
}

// WriteJSON writes the document to the printer as JSON.
func WriteJSON(printer *output.Printer, doc *board.Document) error {
	return printer.WriteJSON(doc)
}
