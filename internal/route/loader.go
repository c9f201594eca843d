package route

import (
	"archive/zip"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/rotisserie/eris"
	"go.uber.org/zap"

	"github.com/arch-aerial/patrol-cli/internal/model"
)

// ErrNoKML is returned when a KMZ archive contains no KML entry.
var ErrNoKML = eris.New("route: no KML document in archive")

// Load reads route segments from a route definition file, dispatching on the
// extension: .kmz (zip archive holding a KML), .kml, or .shp. The load is not
// cached; callers read once per run.
func Load(path string) ([]model.RouteSegment, error) {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".kmz":
		return LoadKMZ(path)
	case ".kml":
		data, err := os.ReadFile(path)
		if err != nil {
			return nil, eris.Wrapf(err, "route: read %s", path)
		}
		return ParseKML(data)
	case ".shp":
		return LoadShapefile(path, "")
	default:
		return nil, eris.Errorf("route: unsupported route file %s", path)
	}
}

// LoadKMZ extracts the first KML entry from a KMZ archive and parses it.
func LoadKMZ(path string) ([]model.RouteSegment, error) {
	data, err := extractKML(path)
	if err != nil {
		return nil, err
	}
	segments, err := ParseKML(data)
	if err != nil {
		return nil, err
	}
	zap.L().Debug("route: loaded KMZ",
		zap.String("path", path),
		zap.Int("segments", len(segments)),
	)
	return segments, nil
}

// extractKML returns the content of the first archive entry whose name ends
// in .kml, case-insensitively.
func extractKML(path string) ([]byte, error) {
	zr, err := zip.OpenReader(path)
	if err != nil {
		return nil, eris.Wrapf(err, "route: open archive %s", path)
	}
	defer func() { _ = zr.Close() }()

	for _, entry := range zr.File {
		if !strings.HasSuffix(strings.ToLower(entry.Name), ".kml") {
			continue
		}
		rc, err := entry.Open()
		if err != nil {
			return nil, eris.Wrapf(err, "route: open archive entry %s", entry.Name)
		}
		data, err := io.ReadAll(rc)
		_ = rc.Close()
		if err != nil {
			return nil, eris.Wrapf(err, "route: read archive entry %s", entry.Name)
		}
		return data, nil
	}
	return nil, ErrNoKML
}
