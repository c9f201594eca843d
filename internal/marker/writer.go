// Package marker emits one small KML point document per (photo, route)
// assignment for visualization and QA.
package marker

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/rotisserie/eris"
	kml "github.com/twpayne/go-kml/v2"

	"github.com/arch-aerial/patrol-cli/internal/model"
)

// Subfolder is the fixed marker directory inside the working directory.
const Subfolder = "KMLs"

// Writer writes assignment markers into the working directory's marker
// subfolder. A pre-existing marker with the same derived name is overwritten.
type Writer struct {
	dir string
}

// NewWriter creates the marker subfolder under workdir if needed.
func NewWriter(workdir string) (*Writer, error) {
	dir := filepath.Join(workdir, Subfolder)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, eris.Wrapf(err, "marker: create %s", dir)
	}
	return &Writer{dir: dir}, nil
}

// Write emits the marker for one assignment: a single point placemark at the
// photo's location, named after the final filename and embedding the photo as
// a preview image in the description.
func (w *Writer) Write(a model.Assignment) error {
	base := strings.TrimSuffix(a.FinalName, filepath.Ext(a.FinalName))

	doc := kml.KML(
		kml.Document(
			kml.Placemark(
				kml.Name(base),
				kml.Description(fmt.Sprintf(`<img src="%s" width="300"/>`, a.FinalName)),
				kml.Point(
					kml.Coordinates(kml.Coordinate{Lon: a.Location.Lon, Lat: a.Location.Lat}),
				),
			),
		),
	)

	path := filepath.Join(w.dir, base+".kml")
	f, err := os.Create(path)
	if err != nil {
		return eris.Wrapf(err, "marker: create %s", path)
	}
	if err := doc.WriteIndent(f, "", "  "); err != nil {
		_ = f.Close()
		return eris.Wrapf(err, "marker: encode %s", path)
	}
	return eris.Wrapf(f.Close(), "marker: close %s", path)
}
