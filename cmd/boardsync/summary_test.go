package main

import (
	"encoding/json"
	"path/filepath"
	"strings"
	"testing"

	"github.com/gorewood/boardsync/internal/output"
)

func TestSummaryCommand(t *testing.T) {
	isolateEnv(t)
	file, _ := initBoard(t)

	out, _, err := executeCmd(t, "summary", "--file", file, "--color", "never")
	if err != nil {
		t.Fatalf("summary failed: %v", err)
	}
	for _, want := range []string{
		"# Sync Summary",
		"- Project: Jarvis Lab",
		"- Board: Research Sprint",
		"### 待办 (1)",
		"- 整理扩散模型论文清单 @Jarvis · high",
		"### 评审 (0)",
		"- (empty)",
	} {
		if !strings.Contains(out, want) {
			t.Errorf("summary missing %q:\n%s", want, out)
		}
	}
}

func TestSummaryCommand_JSON(t *testing.T) {
	isolateEnv(t)
	file, _ := initBoard(t)

	out, _, err := executeCmd(t, "summary", "--file", file, "--json")
	if err != nil {
		t.Fatalf("summary failed: %v", err)
	}
	var doc map[string]any
	if err := json.Unmarshal([]byte(out), &doc); err != nil {
		t.Fatalf("invalid JSON: %v\n%s", err, out)
	}
	if doc["activeBoardId"] != "board-1" {
		t.Errorf("activeBoardId = %v", doc["activeBoardId"])
	}
}

func TestSummaryCommand_EnvFile(t *testing.T) {
	isolateEnv(t)
	file, _ := initBoard(t)
	t.Setenv("SYNC_FILE", file)

	out, _, err := executeCmd(t, "summary")
	if err != nil {
		t.Fatalf("summary failed: %v", err)
	}
	if !strings.Contains(out, "Research Sprint") {
		t.Errorf("summary did not read SYNC_FILE:\n%s", out)
	}
}

func TestSummaryCommand_MissingSyncFile(t *testing.T) {
	isolateEnv(t)

	_, _, err := executeCmd(t, "summary", "--file", filepath.Join(t.TempDir(), "absent.json"))
	if code := exitCode(err); code != output.ExitUserError {
		t.Errorf("exit code = %d, want %d (err %v)", code, output.ExitUserError, err)
	}
}
