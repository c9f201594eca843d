package tagger

import (
	"io"
	"os"
	"path/filepath"

	"github.com/rotisserie/eris"
	"go.uber.org/zap"

	"github.com/arch-aerial/patrol-cli/internal/model"
)

// MarkerWriter emits one point-of-interest document per assignment. Write
// errors never fail a photo; the engine logs and moves on.
type MarkerWriter interface {
	Write(a model.Assignment) error
}

// Option configures an Engine.
type Option func(*Engine)

// WithMarkerWriter attaches a marker writer invoked once per assignment.
func WithMarkerWriter(w MarkerWriter) Option {
	return func(e *Engine) { e.markers = w }
}

// WithTaggedCheck supplies an extra idempotency check consulted alongside the
// filename inspection, typically backed by the assignment ledger. When it
// reports true for a photo the client token is not appended again.
func WithTaggedCheck(fn func(name string) bool) Option {
	return func(e *Engine) { e.wasTagged = fn }
}

// Engine applies a MatchResult to filesystem state. Renaming or duplication
// for a given photo happens exactly once per run and is idempotent across
// runs: filenames that already carry route tokens are left untouched, and the
// client token is only appended when not already present as an underscore-
// delimited component.
type Engine struct {
	dir       string
	client    string
	markers   MarkerWriter
	wasTagged func(name string) bool
}

// NewEngine returns an engine over the given working directory and client
// identifier token.
func NewEngine(dir, client string, opts ...Option) *Engine {
	e := &Engine{dir: dir, client: client}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// Apply executes the naming policy for one photo:
//
//   - zero matched routes: leave the file untouched;
//   - one route: rename in place to {route}_[{client}_]{original};
//   - many routes: write one copy per route, then delete the original.
//
// Filesystem failures are fatal to the photo only: the partial state is left
// as-is (possibly a stray copy) and the error is carried in the result for
// the caller to log. The photo file's content is never modified.
func (e *Engine) Apply(rec model.PhotoRecord, matches model.MatchResult) model.PhotoResult {
	res := model.PhotoResult{Photo: rec.Name}

	if len(matches.Routes) == 0 {
		zap.L().Info("tagger: no corridor match", zap.String("photo", rec.Name))
		res.Outcome = model.OutcomeUnmatched
		return res
	}

	// A filename with route tokens ahead of the client token was tagged by a
	// previous run; re-tagging would stack route prefixes. A bare client
	// token without route tokens is different: the upstream tagging process
	// embeds the client in the photo id, so those names still need their
	// route prefix. The ledger check catches files tagged under another
	// client token, where the filename alone cannot tell.
	if f := Parse(rec.Name, e.client); f.RouteID != "" || (e.wasTagged != nil && e.wasTagged(rec.Name)) {
		zap.L().Debug("tagger: already tagged", zap.String("photo", rec.Name))
		routeName := f.RouteID
		if routeName == "" {
			routeName = matches.Routes[0]
		}
		res.Outcome = model.OutcomeTagged
		res.Assignments = []model.Assignment{{
			OriginalName: rec.Name,
			FinalName:    rec.Name,
			Route:        routeName,
			Location:     *rec.Location,
			CapturedAt:   rec.CapturedAt,
		}}
		e.writeMarkers(res.Assignments)
		return res
	}

	includeClient := !HasClientToken(rec.Name, e.client)

	if len(matches.Routes) == 1 {
		return e.applySingle(rec, matches.Routes[0], includeClient)
	}
	return e.applyMulti(rec, matches.Routes, includeClient)
}

func (e *Engine) applySingle(rec model.PhotoRecord, routeName string, includeClient bool) model.PhotoResult {
	res := model.PhotoResult{Photo: rec.Name}

	newName := TaggedName(routeName, e.client, rec.Name, includeClient)
	if err := os.Rename(filepath.Join(e.dir, rec.Name), filepath.Join(e.dir, newName)); err != nil {
		res.Outcome = model.OutcomeFailed
		res.Err = eris.Wrapf(err, "tagger: rename %s", rec.Name)
		return res
	}

	res.Outcome = model.OutcomeTagged
	res.Assignments = []model.Assignment{{
		OriginalName: rec.Name,
		FinalName:    newName,
		Route:        routeName,
		Location:     *rec.Location,
		CapturedAt:   rec.CapturedAt,
	}}
	e.writeMarkers(res.Assignments)
	return res
}

func (e *Engine) applyMulti(rec model.PhotoRecord, routes []string, includeClient bool) model.PhotoResult {
	res := model.PhotoResult{Photo: rec.Name}
	src := filepath.Join(e.dir, rec.Name)

	seen := make(map[string]bool, len(routes))
	for _, routeName := range routes {
		newName := TaggedName(routeName, e.client, rec.Name, includeClient)
		if seen[newName] {
			// Two routes collapsed to the same sanitized token; the first
			// copy already carries this name.
			zap.L().Warn("tagger: duplicate target name",
				zap.String("photo", rec.Name),
				zap.String("target", newName),
			)
			continue
		}
		seen[newName] = true

		if err := CopyFile(src, filepath.Join(e.dir, newName)); err != nil {
			res.Outcome = model.OutcomeFailed
			res.Err = eris.Wrapf(err, "tagger: copy %s", rec.Name)
			return res
		}
		res.Assignments = append(res.Assignments, model.Assignment{
			OriginalName: rec.Name,
			FinalName:    newName,
			Route:        routeName,
			Location:     *rec.Location,
			CapturedAt:   rec.CapturedAt,
		})
	}

	if err := os.Remove(src); err != nil {
		res.Outcome = model.OutcomeFailed
		res.Err = eris.Wrapf(err, "tagger: remove original %s", rec.Name)
		return res
	}

	res.Outcome = model.OutcomeTagged
	e.writeMarkers(res.Assignments)
	return res
}

func (e *Engine) writeMarkers(assignments []model.Assignment) {
	if e.markers == nil {
		return
	}
	for _, a := range assignments {
		if err := e.markers.Write(a); err != nil {
			zap.L().Error("tagger: marker write failed",
				zap.String("photo", a.FinalName),
				zap.Error(err),
			)
		}
	}
}

// CopyFile duplicates src as dst, carrying over the modification time so the
// copies keep the capture ordering tools expect from the original.
func CopyFile(src, dst string) error {
	info, err := os.Stat(src)
	if err != nil {
		return err
	}
	in, err := os.Open(src)
	if err != nil {
		return err
	}
	defer func() { _ = in.Close() }()

	out, err := os.Create(dst)
	if err != nil {
		return err
	}
	if _, err := io.Copy(out, in); err != nil {
		_ = out.Close()
		return err
	}
	if err := out.Close(); err != nil {
		return err
	}
	return os.Chtimes(dst, info.ModTime(), info.ModTime())
}
