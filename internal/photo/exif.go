// Package photo decodes embedded GPS coordinates and capture timestamps from
// image files.
package photo

import (
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/rotisserie/eris"
	"github.com/rwcarlsen/goexif/exif"
	"go.uber.org/zap"

	"github.com/arch-aerial/patrol-cli/internal/model"
)

// IsImage reports whether the filename has a photo extension this tool
// processes (.jpg/.jpeg, case-insensitive).
func IsImage(name string) bool {
	switch strings.ToLower(filepath.Ext(name)) {
	case ".jpg", ".jpeg":
		return true
	}
	return false
}

// ListImages returns the image filenames in dir, sorted. The listing is taken
// once; callers must not re-list mid-pass since the naming engine mutates the
// directory as it runs.
func ListImages(dir string) ([]string, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, eris.Wrapf(err, "photo: list %s", dir)
	}
	var names []string
	for _, e := range entries {
		if !e.IsDir() && IsImage(e.Name()) {
			names = append(names, e.Name())
		}
	}
	sort.Strings(names)
	return names, nil
}

// Read decodes the EXIF block of the image at path. A missing or unreadable
// GPS block is not an error: the returned record simply has no Location and
// the photo is classified unlocatable. The capture timestamp is independent
// of the GPS fields and kept when present.
func Read(path string) model.PhotoRecord {
	rec := model.PhotoRecord{Name: filepath.Base(path)}

	f, err := os.Open(path)
	if err != nil {
		zap.L().Warn("photo: open failed", zap.String("photo", rec.Name), zap.Error(err))
		return rec
	}
	defer func() { _ = f.Close() }()

	x, err := exif.Decode(f)
	if err != nil {
		zap.L().Warn("photo: no EXIF metadata", zap.String("photo", rec.Name), zap.Error(err))
		return rec
	}

	// DateTimeOriginal, when decodable.
	if ts, err := x.DateTime(); err == nil {
		rec.CapturedAt = &ts
	}

	// LatLong performs the DMS + hemisphere-reference decode and fails when
	// any of the four GPS fields is missing or corrupted.
	lat, lon, err := x.LatLong()
	if err != nil {
		zap.L().Warn("photo: no GPS coordinate", zap.String("photo", rec.Name), zap.Error(err))
		return rec
	}
	rec.Location = &model.Coordinate{Lat: lat, Lon: lon}
	return rec
}
