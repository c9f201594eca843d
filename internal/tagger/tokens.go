// Package tagger applies classification results to the filesystem: renaming,
// duplicating, and marker emission, with an idempotent naming policy.
package tagger

import (
	"path/filepath"
	"regexp"
	"strings"
)

var multiUnderscore = regexp.MustCompile(`__+`)

// Fields are the named components encoded in a tagged photo filename,
// left-to-right: route token(s), the client token, a sequential photo
// identifier, then optional classification code and status appended by an
// upstream tagging process. Any field not present in the filename is empty;
// Parse never fails.
type Fields struct {
	RouteID string // underscore-joined route tokens before the client token
	Client  string
	PhotoID string // client token plus the following sequence token
	Code    string
	Status  string
}

// Parse recovers the named fields from a tagged filename. When the client
// token is not a component of the name, only PhotoID is set, to the
// extension-less filename.
func Parse(filename, client string) Fields {
	base := strings.TrimSuffix(filename, filepath.Ext(filename))
	parts := strings.Split(base, "_")

	idx := -1
	for i, p := range parts {
		if p == client {
			idx = i
			break
		}
	}
	if idx < 0 {
		return Fields{PhotoID: base}
	}

	f := Fields{Client: client, RouteID: strings.Join(parts[:idx], "_")}
	if idx+1 < len(parts) {
		f.PhotoID = parts[idx] + "_" + parts[idx+1]
	} else {
		f.PhotoID = parts[idx]
	}
	if idx+2 < len(parts) {
		f.Code = parts[idx+2]
	}
	if idx+3 < len(parts) {
		f.Status = parts[idx+3]
	}
	return f
}

// HasClientToken reports whether the client token appears in the filename
// (extension excluded) as a whole underscore-delimited component, not merely
// as a substring.
func HasClientToken(filename, client string) bool {
	base := strings.TrimSuffix(filename, filepath.Ext(filename))
	return strings.Contains("_"+base+"_", "_"+client+"_")
}

// TaggedName builds the final filename for one (route, photo) assignment:
// {route}_{client}_{original}, with the client token omitted when
// includeClient is false and any run of consecutive underscores collapsed.
func TaggedName(routeName, client, original string, includeClient bool) string {
	var combined string
	if includeClient {
		combined = routeName + "_" + client + "_" + original
	} else {
		combined = routeName + "_" + original
	}
	return multiUnderscore.ReplaceAllString(combined, "_")
}
