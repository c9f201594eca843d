package model

// RouteSegment is one named polyline extracted from the route archive,
// representing a pipeline right-of-way centerline. Coordinates are
// (longitude, latitude) pairs in decimal degrees, at least two of them.
// Immutable once loaded.
type RouteSegment struct {
	Name   string       // raw placemark name
	Coords [][2]float64 // lon, lat
}

// RunSummary aggregates the outcome counts for one classification pass.
type RunSummary struct {
	ID          string `json:"id"`
	Client      string `json:"client"`
	Photos      int    `json:"photos"`
	Tagged      int    `json:"tagged"`
	Unmatched   int    `json:"unmatched"`
	Unlocatable int    `json:"unlocatable"`
	Failed      int    `json:"failed"`
}

// Count bumps the counter for the given outcome.
func (s *RunSummary) Count(o Outcome) {
	s.Photos++
	switch o {
	case OutcomeTagged:
		s.Tagged++
	case OutcomeUnmatched:
		s.Unmatched++
	case OutcomeUnlocatable:
		s.Unlocatable++
	case OutcomeFailed:
		s.Failed++
	}
}
