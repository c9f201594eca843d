package route

import (
	"fmt"
	"strings"

	"github.com/jonas-p/go-shp"
	"github.com/rotisserie/eris"
	"go.uber.org/zap"

	"github.com/arch-aerial/patrol-cli/internal/model"
)

// defaultNameField is the DBF attribute used for route names when the caller
// does not specify one.
const defaultNameField = "NAME"

// LoadShapefile reads polyline shapes from a shapefile and returns one route
// segment per polyline part. Segment names come from the nameField DBF
// attribute, falling back to a generic label; parts beyond the first get a
// numeric suffix so each stays addressable as a filename prefix.
func LoadShapefile(path, nameField string) ([]model.RouteSegment, error) {
	if nameField == "" {
		nameField = defaultNameField
	}

	reader, err := shp.Open(path)
	if err != nil {
		return nil, eris.Wrapf(err, "route: open shapefile %s", path)
	}
	defer func() { _ = reader.Close() }()

	// Build field name → index map.
	nameIdx := -1
	for i, f := range reader.Fields() {
		name := strings.TrimRight(f.String(), "\x00")
		if strings.EqualFold(name, nameField) {
			nameIdx = i
			break
		}
	}

	var segments []model.RouteSegment
	var skipped int

	for reader.Next() {
		_, shape := reader.Shape()
		pl, ok := shape.(*shp.PolyLine)
		if !ok || pl.NumParts == 0 || len(pl.Points) == 0 {
			skipped++
			continue
		}

		name := defaultRouteName
		if nameIdx >= 0 {
			if attr := strings.TrimSpace(strings.TrimRight(reader.Attribute(nameIdx), "\x00")); attr != "" {
				name = attr
			}
		}

		for i := int32(0); i < pl.NumParts; i++ {
			start := pl.Parts[i]
			end := int32(len(pl.Points))
			if i+1 < pl.NumParts {
				end = pl.Parts[i+1]
			}
			if end-start < 2 {
				skipped++
				continue
			}
			coords := make([][2]float64, 0, end-start)
			for j := start; j < end; j++ {
				coords = append(coords, [2]float64{pl.Points[j].X, pl.Points[j].Y})
			}
			partName := name
			if i > 0 {
				partName = fmt.Sprintf("%s_%d", name, i+1)
			}
			segments = append(segments, model.RouteSegment{Name: partName, Coords: coords})
		}
	}

	if skipped > 0 {
		zap.L().Debug("route: skipped shapefile records",
			zap.String("path", path),
			zap.Int("skipped", skipped),
		)
	}

	return segments, nil
}
