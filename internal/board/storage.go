package board

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/gorewood/boardsync/internal/output"
)

// Parse decodes a sync document.
func Parse(data []byte) (*Document, error) {
	if len(data) == 0 {
		return nil, errors.New("empty sync file")
	}
	var doc Document
	if err := json.Unmarshal(data, &doc); err != nil {
		return nil, fmt.Errorf("parsing sync file: %w", err)
	}
	return &doc, nil
}

// Marshal encodes a document the way the web UI does: two-space indent,
// no trailing newline.
func Marshal(doc *Document) ([]byte, error) {
	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	enc.SetEscapeHTML(false)
	enc.SetIndent("", "  ")
	if err := enc.Encode(doc); err != nil {
		return nil, fmt.Errorf("serializing sync file: %w", err)
	}
	return bytes.TrimSuffix(buf.Bytes(), []byte("\n")), nil
}

// Load reads and parses the sync file at path.
// A missing file is reported as a user error wrapping os.ErrNotExist.
func Load(path string) (*Document, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil, &output.ExitError{
				Code:    output.ExitUserError,
				Message: "sync file not found: " + path,
				Cause:   err,
			}
		}
		return nil, output.NewSystemErrorWithCause("failed to read sync file: "+path, err)
	}
	doc, err := Parse(data)
	if err != nil {
		return nil, output.NewSystemErrorWithCause("failed to parse sync file: "+path, err)
	}
	return doc, nil
}

// Save writes the document to path via write-to-temp-then-rename.
func Save(path string, doc *Document) error {
	data, err := Marshal(doc)
	if err != nil {
		return output.NewSystemErrorWithCause("failed to serialize sync file", err)
	}
	if err := AtomicWrite(path, data); err != nil {
		return output.NewSystemErrorWithCause("failed to write sync file: "+path, err)
	}
	return nil
}

// AtomicWrite writes data to path using write-to-temp-then-rename.
// The temp file is created in the same directory as path.
func AtomicWrite(path string, data []byte) error {
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("create directory: %w", err)
	}
	tmpFile, err := os.CreateTemp(dir, ".tmp-*"+filepath.Ext(path))
	if err != nil {
		return fmt.Errorf("create temp file: %w", err)
	}
	tmpPath := tmpFile.Name()
	defer func() { _ = os.Remove(tmpPath) }()

	if _, err := tmpFile.Write(data); err != nil {
		_ = tmpFile.Close()
		return fmt.Errorf("write data: %w", err)
	}
	if err := tmpFile.Chmod(0o644); err != nil {
		_ = tmpFile.Close()
		return fmt.Errorf("chmod temp file: %w", err)
	}
	if err := tmpFile.Close(); err != nil {
		return fmt.Errorf("close temp file: %w", err)
	}
	if err := os.Rename(tmpPath, path); err != nil {
		return fmt.Errorf("rename temp file: %w", err)
	}
	return nil
}
