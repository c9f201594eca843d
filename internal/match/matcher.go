// Package match classifies photo locations against the corridor set.
package match

import (
	"github.com/arch-aerial/patrol-cli/internal/model"
	"github.com/arch-aerial/patrol-cli/internal/proj"
	"github.com/arch-aerial/patrol-cli/internal/route"
)

// Matcher tests photo coordinates for containment in route corridors. It
// holds the corridor set read-only for the duration of a classification pass
// and has no side effects.
type Matcher struct {
	tr        proj.Transformer
	corridors []route.Corridor
}

// New returns a matcher over the given corridor set.
func New(tr proj.Transformer, corridors []route.Corridor) *Matcher {
	return &Matcher{tr: tr, corridors: corridors}
}

// Routes returns the number of corridors the matcher tests against.
func (m *Matcher) Routes() int { return len(m.corridors) }

// Match projects the coordinate and collects every corridor containing it.
// All matches are returned, not just the first; the result is deterministic
// for a given coordinate and corridor set. The caller must only invoke this
// for photos with a decoded location.
func (m *Matcher) Match(photo string, loc model.Coordinate) model.MatchResult {
	x, y := m.tr.ToProjected(loc.Lon, loc.Lat)
	res := model.MatchResult{Photo: photo}
	for _, c := range m.corridors {
		if c.Contains(x, y) {
			res.Routes = append(res.Routes, c.Name)
		}
	}
	return res
}
