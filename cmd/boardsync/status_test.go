package main

import (
	"encoding/json"
	"path/filepath"
	"strings"
	"testing"
)

func TestStatusCommand(t *testing.T) {
	isolateEnv(t)
	file, dir := initBoard(t)
	if _, _, err := executeCmd(t, "reply", "--file", file, "--dir", dir, "--message", "hi"); err != nil {
		t.Fatalf("reply failed: %v", err)
	}

	out, _, err := executeCmd(t, "status", "--file", file, "--dir", dir, "--interval", "700", "--json")
	if err != nil {
		t.Fatalf("status failed: %v", err)
	}

	var result map[string]any
	if err := json.Unmarshal([]byte(out), &result); err != nil {
		t.Fatalf("failed to parse JSON output: %v\nOutput: %s", err, out)
	}
	wantFields := map[string]any{
		"sync_file":    file,
		"file_exists":  true,
		"project":      "Jarvis Lab",
		"board":        "Research Sprint",
		"task_count":   float64(2),
		"queue_length": float64(1),
		"interval_ms":  float64(700),
		"latest_path":  filepath.Join(dir, ".sync", "latest.json"),
	}
	for key, want := range wantFields {
		got, ok := result[key]
		if !ok {
			t.Errorf("missing field %q in output", key)
			continue
		}
		if got != want {
			t.Errorf("%s = %v, want %v", key, got, want)
		}
	}
}

func TestStatusCommand_HumanNotWritten(t *testing.T) {
	isolateEnv(t)
	dir := t.TempDir()

	out, _, err := executeCmd(t, "status", "--file", filepath.Join(dir, "sync.json"), "--dir", dir, "--color", "never")
	if err != nil {
		t.Fatalf("status failed: %v", err)
	}
	for _, want := range []string{"Sync File", "not written yet", "0 pending", "1500ms"} {
		if !strings.Contains(out, want) {
			t.Errorf("status output missing %q:\n%s", want, out)
		}
	}
}
