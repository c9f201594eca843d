// Package model holds the shared data types for the classification run.
package model

import "time"

// Outcome describes what happened to one photo during a classification pass.
type Outcome string

const (
	// OutcomeTagged means the photo matched at least one corridor and was
	// renamed (one match) or fanned out into copies (multiple matches).
	OutcomeTagged Outcome = "tagged"
	// OutcomeUnmatched means the photo carried a usable coordinate but fell
	// outside every corridor; the file is untouched.
	OutcomeUnmatched Outcome = "unmatched"
	// OutcomeUnlocatable means no usable GPS coordinate could be decoded;
	// the file is untouched.
	OutcomeUnlocatable Outcome = "unlocatable"
	// OutcomeFailed means a filesystem rename/copy/delete failed mid-photo.
	// The photo's partial state is left as-is and the run continues.
	OutcomeFailed Outcome = "failed"
)

// Coordinate is a decoded geographic position in decimal degrees.
type Coordinate struct {
	Lat float64 `json:"lat"`
	Lon float64 `json:"lon"`
}

// PhotoRecord identifies one image file in the working directory together
// with whatever metadata could be decoded from it. A nil Location marks the
// photo as unlocatable; it is excluded from matching entirely.
type PhotoRecord struct {
	Name       string      `json:"name"` // filename within the working directory
	Location   *Coordinate `json:"location,omitempty"`
	CapturedAt *time.Time  `json:"captured_at,omitempty"`
}

// MatchResult is the set of sanitized route names whose corridor contains a
// photo's projected location. Zero, one, or many names.
type MatchResult struct {
	Photo  string   `json:"photo"`
	Routes []string `json:"routes"`
}

// Assignment records one (photo, route) pairing after the naming engine has
// applied it: the final on-disk filename and the coordinate it was placed at.
type Assignment struct {
	OriginalName string     `json:"original_name"`
	FinalName    string     `json:"final_name"`
	Route        string     `json:"route"`
	Location     Coordinate `json:"location"`
	CapturedAt   *time.Time `json:"captured_at,omitempty"`
}

// PhotoResult is the typed per-photo result aggregated by the engine.
type PhotoResult struct {
	Photo       string       `json:"photo"`
	Outcome     Outcome      `json:"outcome"`
	Assignments []Assignment `json:"assignments,omitempty"`
	Err         error        `json:"-"`
}
