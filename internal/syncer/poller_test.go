package syncer

import (
	"bytes"
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/charmbracelet/log"

	"github.com/gorewood/boardsync/internal/board"
	"github.com/gorewood/boardsync/internal/export"
	"github.com/gorewood/boardsync/internal/output"
	"github.com/gorewood/boardsync/internal/queue"
	"github.com/gorewood/boardsync/internal/triage"
)

// countingMutator records calls and changes nothing.
type countingMutator struct {
	calls int
}

func (m *countingMutator) Mutate(_ *board.Document) (triage.Report, error) {
	m.calls++
	return triage.Report{}, nil
}

type fixture struct {
	source    string
	artifacts export.Artifacts
	logs      *bytes.Buffer
}

func newFixture(t *testing.T) fixture {
	t.Helper()
	dir := t.TempDir()
	return fixture{
		source:    filepath.Join(dir, "sync.json"),
		artifacts: export.Artifacts{Dir: filepath.Join(dir, ".sync")},
		logs:      new(bytes.Buffer),
	}
}

func (f fixture) poller(t *testing.T, mutator Mutator) *Poller {
	t.Helper()
	logger := log.NewWithOptions(f.logs, log.Options{Level: log.DebugLevel})
	p, err := New(Options{
		SourcePath: f.source,
		Artifacts:  f.artifacts,
		Mutator:    mutator,
		Logger:     logger,
	})
	if err != nil {
		t.Fatalf("New() error = %v", err)
	}
	return p
}

// writeSource writes data and pins its mtime.
func (f fixture) writeSource(t *testing.T, data []byte, mtime time.Time) {
	t.Helper()
	if err := os.WriteFile(f.source, data, 0o600); err != nil {
		t.Fatal(err)
	}
	if err := os.Chtimes(f.source, mtime, mtime); err != nil {
		t.Fatal(err)
	}
}

func (f fixture) writeSeed(t *testing.T, mtime time.Time) {
	t.Helper()
	data, err := board.Marshal(board.Default(mtime))
	if err != nil {
		t.Fatal(err)
	}
	f.writeSource(t, data, mtime)
}

func (f fixture) readArtifacts(t *testing.T) (string, string) {
	t.Helper()
	latest, err := os.ReadFile(f.artifacts.LatestPath())
	if err != nil {
		t.Fatalf("reading latest: %v", err)
	}
	summary, err := os.ReadFile(f.artifacts.SummaryPath())
	if err != nil {
		t.Fatalf("reading summary: %v", err)
	}
	return string(latest), string(summary)
}

func TestNew_RequiresSourcePath(t *testing.T) {
	_, err := New(Options{})
	if code := output.GetExitCode(err); code != output.ExitUserError {
		t.Errorf("exit code = %d, want %d", code, output.ExitUserError)
	}
}

func TestNew_Defaults(t *testing.T) {
	p, err := New(Options{SourcePath: "sync.json"})
	if err != nil {
		t.Fatal(err)
	}
	if p.Interval() != DefaultInterval {
		t.Errorf("Interval() = %v, want %v", p.Interval(), DefaultInterval)
	}
	if p.LastGood() != nil {
		t.Error("new poller should have no last good document")
	}
}

func TestPollOnce_ModTimeGating(t *testing.T) {
	f := newFixture(t)
	mutator := &countingMutator{}
	p := f.poller(t, mutator)
	ctx := context.Background()
	base := time.Now().Add(-time.Hour).Truncate(time.Second)

	f.writeSeed(t, base)
	if got := p.PollOnce(ctx); got != OutcomeSynced {
		t.Fatalf("first poll = %v, want synced", got)
	}
	if got := p.PollOnce(ctx); got != OutcomeUnchanged {
		t.Errorf("second poll = %v, want unchanged", got)
	}
	if mutator.calls != 1 {
		t.Errorf("mutator called %d times, want 1", mutator.calls)
	}

	// Rewritten content with an older mtime is still ignored.
	f.writeSource(t, []byte("{broken"), base.Add(-time.Minute))
	if got := p.PollOnce(ctx); got != OutcomeUnchanged {
		t.Errorf("poll with older mtime = %v, want unchanged", got)
	}

	f.writeSeed(t, base.Add(time.Second))
	if got := p.PollOnce(ctx); got != OutcomeSynced {
		t.Errorf("poll after touch = %v, want synced", got)
	}
	if mutator.calls != 2 {
		t.Errorf("mutator called %d times, want 2", mutator.calls)
	}
}

func TestPollOnce_RecoversWithLastGood(t *testing.T) {
	f := newFixture(t)
	p := f.poller(t, nil)
	ctx := context.Background()
	base := time.Now().Add(-time.Hour).Truncate(time.Second)

	f.writeSeed(t, base)
	if got := p.PollOnce(ctx); got != OutcomeSynced {
		t.Fatalf("first poll = %v", got)
	}
	latest, summary := f.readArtifacts(t)

	f.writeSource(t, []byte(`{"projects": [`), base.Add(time.Second))
	if got := p.PollOnce(ctx); got != OutcomeRecovered {
		t.Fatalf("poll of truncated file = %v, want recovered", got)
	}
	gotLatest, gotSummary := f.readArtifacts(t)
	if gotLatest != latest || gotSummary != summary {
		t.Error("artifacts changed after a failed read")
	}
	if !strings.Contains(f.logs.String(), "failed to read sync file") {
		t.Errorf("logs = %q", f.logs.String())
	}

	// The failed mtime is not recorded, so a retry at the same mtime parses again.
	data, _ := board.Marshal(board.Default(base))
	f.writeSource(t, data, base.Add(time.Second))
	if got := p.PollOnce(ctx); got != OutcomeSynced {
		t.Errorf("poll after repair = %v, want synced", got)
	}
}

func TestPollOnce_FailsWithoutLastGood(t *testing.T) {
	f := newFixture(t)
	p := f.poller(t, nil)

	f.writeSource(t, []byte("not json"), time.Now())
	if got := p.PollOnce(context.Background()); got != OutcomeFailed {
		t.Fatalf("poll = %v, want failed", got)
	}
	if _, err := os.Stat(f.artifacts.LatestPath()); !os.IsNotExist(err) {
		t.Errorf("no artifacts should be written: %v", err)
	}
}

func TestPollOnce_SourceDeletedAfterSuccess(t *testing.T) {
	f := newFixture(t)
	p := f.poller(t, nil)
	ctx := context.Background()

	f.writeSeed(t, time.Now().Add(-time.Minute))
	if got := p.PollOnce(ctx); got != OutcomeSynced {
		t.Fatalf("first poll = %v", got)
	}
	latest, summary := f.readArtifacts(t)

	if err := os.Remove(f.source); err != nil {
		t.Fatal(err)
	}
	if err := os.RemoveAll(f.artifacts.Dir); err != nil {
		t.Fatal(err)
	}
	if got := p.PollOnce(ctx); got != OutcomeWaiting {
		t.Fatalf("poll after delete = %v, want waiting", got)
	}
	gotLatest, gotSummary := f.readArtifacts(t)
	if gotLatest != latest || gotSummary != summary {
		t.Error("artifacts were not regenerated byte-identical from the last good document")
	}
	if !strings.Contains(f.logs.String(), "waiting for sync file") {
		t.Errorf("logs = %q", f.logs.String())
	}
}

func TestPollOnce_WaitingBeforeFirstFile(t *testing.T) {
	f := newFixture(t)
	p := f.poller(t, nil)

	if got := p.PollOnce(context.Background()); got != OutcomeWaiting {
		t.Fatalf("poll = %v, want waiting", got)
	}
	if _, err := os.Stat(f.artifacts.Dir); !os.IsNotExist(err) {
		t.Errorf("nothing should be written while waiting: %v", err)
	}
}

func TestPollOnce_WritesBackMutations(t *testing.T) {
	f := newFixture(t)
	replies := queue.InDir(f.artifacts.Dir)
	mutator := &triage.Mutator{Queue: replies, SourcePath: f.source}
	p := f.poller(t, mutator)
	ctx := context.Background()

	stale := time.Now().Add(-time.Hour).Truncate(time.Second)
	f.writeSeed(t, stale)
	if got := p.PollOnce(ctx); got != OutcomeSynced {
		t.Fatalf("first poll = %v", got)
	}

	doc, err := board.Load(f.source)
	if err != nil {
		t.Fatal(err)
	}
	_, b, _ := doc.ActiveBoard()
	if b.ColumnOf("task-1") != board.ColumnProgress || !b.Tasks["task-1"].HasTag(board.TagRead) {
		t.Errorf("task-1 not picked up: column %s tags %v", b.ColumnOf("task-1"), b.Tasks["task-1"].Tags)
	}
	if doc.ExportedAt == board.Default(stale).ExportedAt {
		t.Error("exportedAt should be refreshed on write-back")
	}

	latest, _ := f.readArtifacts(t)
	written, _ := os.ReadFile(f.source)
	if latest != string(written) {
		t.Error("latest.json should mirror the written-back sync file")
	}

	// The agent's own write is observed once, finds nothing to do, and is
	// not written again.
	if got := p.PollOnce(ctx); got != OutcomeSynced {
		t.Fatalf("second poll = %v, want synced", got)
	}
	again, _ := os.ReadFile(f.source)
	if string(again) != string(written) {
		t.Error("settled board should not be rewritten")
	}
	if got := p.PollOnce(ctx); got != OutcomeUnchanged {
		t.Errorf("third poll = %v, want unchanged", got)
	}
}

func TestPoller_Reset(t *testing.T) {
	f := newFixture(t)
	mutator := &countingMutator{}
	p := f.poller(t, mutator)
	ctx := context.Background()

	f.writeSeed(t, time.Now().Add(-time.Minute))
	p.PollOnce(ctx)
	if p.LastGood() == nil {
		t.Fatal("LastGood() should be set after a sync")
	}

	p.Reset()
	if p.LastGood() != nil {
		t.Error("Reset should clear the last good document")
	}
	if got := p.PollOnce(ctx); got != OutcomeSynced {
		t.Errorf("poll after Reset = %v, want synced", got)
	}
	if mutator.calls != 2 {
		t.Errorf("mutator called %d times, want 2", mutator.calls)
	}
}

func TestPoller_RunStopsOnCancel(t *testing.T) {
	f := newFixture(t)
	mutator := &countingMutator{}
	f.writeSeed(t, time.Now().Add(-time.Minute))

	p, err := New(Options{
		SourcePath: f.source,
		Artifacts:  f.artifacts,
		Mutator:    mutator,
		Interval:   5 * time.Millisecond,
	})
	if err != nil {
		t.Fatal(err)
	}

	ctx, cancel := context.WithTimeout(context.Background(), 50*time.Millisecond)
	defer cancel()
	if err := p.Run(ctx); err != nil {
		t.Fatalf("Run() error = %v", err)
	}
	if mutator.calls != 1 {
		t.Errorf("mutator called %d times, want 1 (mtime never advanced)", mutator.calls)
	}
	if _, err := os.Stat(f.artifacts.LatestPath()); err != nil {
		t.Errorf("Run should publish on its first cycle: %v", err)
	}
}

func TestOutcome_String(t *testing.T) {
	for outcome, want := range map[Outcome]string{
		OutcomeWaiting:   "waiting",
		OutcomeUnchanged: "unchanged",
		OutcomeSynced:    "synced",
		OutcomeRecovered: "recovered",
		OutcomeFailed:    "failed",
		Outcome(99):      "unknown",
	} {
		if got := outcome.String(); got != want {
			t.Errorf("Outcome(%d).String() = %q, want %q", outcome, got, want)
		}
	}
}
