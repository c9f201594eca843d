// Package engine orchestrates one classification pass over a working
// directory: backup, route loading, per-photo classify → tag → mark, and
// outcome aggregation.
package engine

import (
	"context"
	"os"
	"path/filepath"

	"github.com/rotisserie/eris"
	"go.uber.org/zap"

	"github.com/arch-aerial/patrol-cli/internal/ledger"
	"github.com/arch-aerial/patrol-cli/internal/marker"
	"github.com/arch-aerial/patrol-cli/internal/match"
	"github.com/arch-aerial/patrol-cli/internal/model"
	"github.com/arch-aerial/patrol-cli/internal/photo"
	"github.com/arch-aerial/patrol-cli/internal/proj"
	"github.com/arch-aerial/patrol-cli/internal/route"
	"github.com/arch-aerial/patrol-cli/internal/tagger"
)

// BackupFolder receives a copy of every photo before any renaming happens.
const BackupFolder = "ORIGINAL_PHOTOS"

// Hooks are the two callback checkpoints the engine reports through. Both
// are optional; the engine never blocks on them.
type Hooks struct {
	Progress func(float64) // fractional progress in [0, 1]
	Status   func(string)  // short human-readable status line
}

func (h Hooks) progress(v float64) {
	if h.Progress != nil {
		h.Progress(v)
	}
}

func (h Hooks) status(s string) {
	if h.Status != nil {
		h.Status(s)
	}
}

// Option configures an Engine.
type Option func(*Engine)

// WithHooks installs progress/status callbacks.
func WithHooks(h Hooks) Option {
	return func(e *Engine) { e.hooks = h }
}

// WithLedger attaches an assignment ledger. Ledger failures are log-only;
// a run never aborts because the ledger could not be written.
func WithLedger(l ledger.Ledger) Option {
	return func(e *Engine) { e.ledger = l }
}

// WithPhotoReader overrides how photo metadata is decoded. Used by tests.
func WithPhotoReader(fn func(path string) model.PhotoRecord) Option {
	return func(e *Engine) { e.readPhoto = fn }
}

// Engine runs the classification pass. Processing is strictly sequential:
// one photo's full classify → rename/duplicate → mark cycle completes before
// the next begins, and the directory listing is taken exactly once, up front.
type Engine struct {
	dir       string
	client    string
	archive   string
	hooks     Hooks
	ledger    ledger.Ledger
	readPhoto func(path string) model.PhotoRecord
}

// New returns an engine for one working directory, client token, and route
// archive.
func New(dir, client, archivePath string, opts ...Option) *Engine {
	e := &Engine{
		dir:       dir,
		client:    client,
		archive:   archivePath,
		readPhoto: photo.Read,
	}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// Run executes the full pass and returns the outcome summary. Errors from
// Run are fatal-to-run (missing archive, no route segments, backup failure);
// per-photo failures are absorbed into the summary.
func (e *Engine) Run(ctx context.Context) (*model.RunSummary, error) {
	log := zap.L().With(
		zap.String("dir", e.dir),
		zap.String("client", e.client),
	)

	// The listing is taken once; the tagger mutates the directory as it
	// runs and re-listing mid-pass would reprocess renamed files.
	photos, err := photo.ListImages(e.dir)
	if err != nil {
		return nil, err
	}

	e.hooks.status("Backing up photos...")
	if err := e.backupOriginals(photos); err != nil {
		return nil, err
	}
	e.hooks.progress(0.25)

	segments, err := route.Load(e.archive)
	if err != nil {
		return nil, err
	}
	if len(segments) == 0 {
		return nil, eris.Errorf("engine: no route segments in %s", e.archive)
	}

	tr := proj.NewTransformer()
	corridors := route.BuildCorridors(tr, segments, route.BufferRadius)
	matcher := match.New(tr, corridors)
	log.Info("engine: corridors built", zap.Int("routes", len(corridors)))

	markers, err := marker.NewWriter(e.dir)
	if err != nil {
		return nil, err
	}

	opts := []tagger.Option{tagger.WithMarkerWriter(markers)}
	if e.ledger != nil {
		opts = append(opts, tagger.WithTaggedCheck(func(name string) bool {
			tagged, err := e.ledger.WasTagged(ctx, name)
			if err != nil {
				log.Debug("engine: ledger lookup failed", zap.Error(err))
				return false
			}
			return tagged
		}))
	}
	naming := tagger.NewEngine(e.dir, e.client, opts...)

	runID := e.beginRun(ctx, log)

	e.hooks.status("Classifying photos...")
	summary := &model.RunSummary{ID: runID, Client: e.client}
	for i, name := range photos {
		res := e.processPhoto(naming, matcher, name)
		if res.Outcome == model.OutcomeFailed {
			log.Error("engine: photo failed", zap.String("photo", name), zap.Error(res.Err))
		}
		summary.Count(res.Outcome)
		e.recordAssignments(ctx, log, runID, res)
		e.hooks.progress(0.25 + 0.70*float64(i+1)/float64(len(photos)))
	}

	e.finishRun(ctx, log, runID, summary)

	log.Info("engine: run complete",
		zap.Int("photos", summary.Photos),
		zap.Int("tagged", summary.Tagged),
		zap.Int("unmatched", summary.Unmatched),
		zap.Int("unlocatable", summary.Unlocatable),
		zap.Int("failed", summary.Failed),
	)
	e.hooks.progress(1.0)
	e.hooks.status("Done")
	return summary, nil
}

// processPhoto runs one photo's full cycle. Unlocatable photos never reach
// the matcher or the naming engine.
func (e *Engine) processPhoto(naming *tagger.Engine, matcher *match.Matcher, name string) model.PhotoResult {
	rec := e.readPhoto(filepath.Join(e.dir, name))
	rec.Name = name
	if rec.Location == nil {
		return model.PhotoResult{Photo: name, Outcome: model.OutcomeUnlocatable}
	}
	return naming.Apply(rec, matcher.Match(name, *rec.Location))
}

// backupOriginals copies every photo into the backup folder before anything
// mutates the directory. A failed backup aborts the run: renaming originals
// without a safety copy is worse than stopping.
func (e *Engine) backupOriginals(photos []string) error {
	if len(photos) == 0 {
		return nil
	}
	backupDir := filepath.Join(e.dir, BackupFolder)
	if err := os.MkdirAll(backupDir, 0o755); err != nil {
		return eris.Wrapf(err, "engine: create %s", backupDir)
	}
	for _, name := range photos {
		src := filepath.Join(e.dir, name)
		if err := tagger.CopyFile(src, filepath.Join(backupDir, name)); err != nil {
			return eris.Wrapf(err, "engine: backup %s", name)
		}
	}
	return nil
}

func (e *Engine) beginRun(ctx context.Context, log *zap.Logger) string {
	if e.ledger == nil {
		return ""
	}
	runID, err := e.ledger.BeginRun(ctx, e.client)
	if err != nil {
		log.Warn("engine: ledger begin run failed", zap.Error(err))
		return ""
	}
	return runID
}

func (e *Engine) recordAssignments(ctx context.Context, log *zap.Logger, runID string, res model.PhotoResult) {
	if e.ledger == nil || runID == "" {
		return
	}
	for _, a := range res.Assignments {
		if err := e.ledger.RecordAssignment(ctx, runID, a); err != nil {
			log.Warn("engine: ledger record failed",
				zap.String("photo", a.FinalName),
				zap.Error(err),
			)
		}
	}
}

func (e *Engine) finishRun(ctx context.Context, log *zap.Logger, runID string, summary *model.RunSummary) {
	if e.ledger == nil || runID == "" {
		return
	}
	if err := e.ledger.FinishRun(ctx, runID, *summary); err != nil {
		log.Warn("engine: ledger finish run failed", zap.Error(err))
	}
}
