// Package syncer runs the polling loop that keeps the .sync artifacts in
// step with the sync file.
//
// The source file's modification time is the only change signal. A cycle
// whose observed mtime is not newer than the last processed one does no
// work at all. A cycle that cannot read or parse the file republishes the
// last document that did parse, so the artifacts never disappear because
// the UI was caught mid-write.
package syncer

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"time"

	"github.com/charmbracelet/log"

	"github.com/gorewood/boardsync/internal/board"
	"github.com/gorewood/boardsync/internal/export"
	"github.com/gorewood/boardsync/internal/logging"
	"github.com/gorewood/boardsync/internal/output"
	"github.com/gorewood/boardsync/internal/triage"
)

// DefaultInterval is the pause between the end of one cycle and the start
// of the next.
const DefaultInterval = 1500 * time.Millisecond

// Mutator transforms a freshly read document before it is republished.
type Mutator interface {
	Mutate(doc *board.Document) (triage.Report, error)
}

// Outcome is the result of one poll cycle.
type Outcome int

// Poll cycle outcomes.
const (
	// OutcomeWaiting means the source file does not exist yet.
	OutcomeWaiting Outcome = iota
	// OutcomeUnchanged means the mtime has not advanced; nothing was done.
	OutcomeUnchanged
	// OutcomeSynced means the file was processed and artifacts published.
	OutcomeSynced
	// OutcomeRecovered means the file was unreadable and the last good
	// document was republished.
	OutcomeRecovered
	// OutcomeFailed means the file was unreadable and there was nothing
	// to fall back to.
	OutcomeFailed
)

func (o Outcome) String() string {
	switch o {
	case OutcomeWaiting:
		return "waiting"
	case OutcomeUnchanged:
		return "unchanged"
	case OutcomeSynced:
		return "synced"
	case OutcomeRecovered:
		return "recovered"
	case OutcomeFailed:
		return "failed"
	default:
		return "unknown"
	}
}

// Options configures a Poller.
type Options struct {
	SourcePath string
	Artifacts  export.Artifacts
	Mutator    Mutator // nil leaves documents unmodified
	Interval   time.Duration
	Logger     *log.Logger
	Now        func() time.Time
}

// Poller holds the state carried between cycles. The zero state is an
// unset mtime and no last-good document; Reset returns to it.
type Poller struct {
	source    string
	artifacts export.Artifacts
	mutator   Mutator
	interval  time.Duration
	logger    *log.Logger
	now       func() time.Time

	lastModTime time.Time
	lastGood    *board.Document
}

// New validates opts and returns a poller in its initial state.
// A missing source path is the only configuration error.
func New(opts Options) (*Poller, error) {
	if opts.SourcePath == "" {
		return nil, output.NewUserError("missing sync file path: use --file <path> or set SYNC_FILE")
	}
	p := &Poller{
		source:    opts.SourcePath,
		artifacts: opts.Artifacts,
		mutator:   opts.Mutator,
		interval:  opts.Interval,
		logger:    opts.Logger,
		now:       opts.Now,
	}
	if p.interval <= 0 {
		p.interval = DefaultInterval
	}
	if p.logger == nil {
		p.logger = logging.Discard()
	}
	if p.now == nil {
		p.now = time.Now
	}
	return p, nil
}

// Reset forgets the processed mtime and the last good document.
func (p *Poller) Reset() {
	p.lastModTime = time.Time{}
	p.lastGood = nil
}

// LastGood returns the most recently processed document, or nil.
func (p *Poller) LastGood() *board.Document {
	return p.lastGood
}

// Interval returns the pause between cycles.
func (p *Poller) Interval() time.Duration {
	return p.interval
}

// Run polls immediately and then again interval after each cycle finishes,
// until ctx is cancelled. Cycles never overlap.
func (p *Poller) Run(ctx context.Context) error {
	p.PollOnce(ctx)

	timer := time.NewTimer(p.interval)
	defer timer.Stop()
	for {
		select {
		case <-ctx.Done():
			return nil
		case <-timer.C:
			p.PollOnce(ctx)
			timer.Reset(p.interval)
		}
	}
}

// PollOnce runs a single cycle. Every failure is logged and contained.
func (p *Poller) PollOnce(ctx context.Context) Outcome {
	if ctx.Err() != nil {
		return OutcomeUnchanged
	}

	info, err := os.Stat(p.source)
	if errors.Is(err, os.ErrNotExist) {
		p.logger.Warn("waiting for sync file", "file", p.source)
		if p.lastGood != nil {
			p.publish(p.lastGood)
		}
		return OutcomeWaiting
	}
	if err != nil {
		return p.recover(err)
	}

	modTime := info.ModTime()
	if !modTime.After(p.lastModTime) {
		return OutcomeUnchanged
	}

	doc, err := board.Load(p.source)
	if err != nil {
		return p.recover(err)
	}

	p.apply(doc)
	p.lastModTime = modTime
	p.lastGood = doc
	p.publish(doc)
	p.logger.Info("updated", "file", filepath.Base(p.source))
	return OutcomeSynced
}

// apply runs the mutator and writes the document back when it changed.
func (p *Poller) apply(doc *board.Document) {
	if p.mutator == nil {
		return
	}
	report, err := p.mutator.Mutate(doc)
	if err != nil {
		p.logger.Warn("failed to drain reply queue", "err", err)
	}
	p.logReport(report)
	if !report.Changed() {
		return
	}

	doc.Touch(p.now())
	if err := board.Save(p.source, doc); err != nil {
		p.logger.Error("failed to write sync file", "file", p.source, "err", err)
	}
}

func (p *Poller) logReport(report triage.Report) {
	for _, id := range report.Picked {
		p.logger.Info("task picked up", "task", id)
	}
	for _, id := range report.Reviewed {
		p.logger.Info("task moved to review", "task", id)
	}
	replies := report.Replies
	if replies.Malformed {
		p.logger.Warn("reply queue is malformed, ignoring it")
	}
	if replies.Read > 0 {
		p.logger.Info("reply queue drained",
			"applied", replies.Applied,
			"skipped", replies.Skipped,
			"unmatched", replies.Unmatched,
			"completed", len(replies.Completed))
	}
}

// recover republishes the last good document after a failed read.
func (p *Poller) recover(err error) Outcome {
	p.logger.Warn("failed to read sync file", "err", err)
	if p.lastGood == nil {
		return OutcomeFailed
	}
	p.publish(p.lastGood)
	return OutcomeRecovered
}

func (p *Poller) publish(doc *board.Document) {
	if err := p.artifacts.Write(doc); err != nil {
		p.logger.Error("failed to write artifacts", "dir", p.artifacts.Dir, "err", err)
	}
}
