package route

import (
	"github.com/twpayne/go-geom"
	"github.com/twpayne/go-geom/xy"
	"go.uber.org/zap"

	"github.com/arch-aerial/patrol-cli/internal/model"
	"github.com/arch-aerial/patrol-cli/internal/proj"
)

// BufferRadius is the corridor tolerance radius in meters (50 feet). It is a
// deployment-wide constant, not configurable per photo or per client.
const BufferRadius = 15.24

// Corridor is a route centerline reprojected into Web Mercator and inflated
// by a fixed tolerance radius. Immutable once built; the containment test is
// read-only and the corridor set may be shared across photos.
type Corridor struct {
	Name   string // sanitized route name
	line   *geom.LineString
	radius float64
}

// BuildCorridors projects every route vertex and pairs each segment with its
// sanitized name. Built once per run and reused for every photo. Sanitized
// name collisions are logged so differently named routes that collapse to the
// same token do not silently merge in the output.
func BuildCorridors(tr proj.Transformer, segments []model.RouteSegment, radius float64) []Corridor {
	seen := make(map[string]string, len(segments))
	corridors := make([]Corridor, 0, len(segments))

	for _, seg := range segments {
		name := Sanitize(seg.Name)
		if prev, ok := seen[name]; ok && prev != seg.Name {
			zap.L().Warn("route: sanitized name collision",
				zap.String("name", name),
				zap.String("first", prev),
				zap.String("second", seg.Name),
			)
		} else {
			seen[name] = seg.Name
		}

		flat := make([]float64, 0, len(seg.Coords)*2)
		for _, c := range seg.Coords {
			x, y := tr.ToProjected(c[0], c[1])
			flat = append(flat, x, y)
		}
		corridors = append(corridors, Corridor{
			Name:   name,
			line:   geom.NewLineStringFlat(geom.XY, flat),
			radius: radius,
		})
	}
	return corridors
}

// Contains reports whether the projected point (x, y) lies within the
// corridor: at planar distance <= radius from the centerline. This is the
// buffer-containment predicate expressed directly, including the circular
// caps at segment ends.
func (c Corridor) Contains(x, y float64) bool {
	p := geom.Coord{x, y}
	n := c.line.NumCoords()
	for i := 0; i < n-1; i++ {
		if xy.DistanceFromPointToLine(p, c.line.Coord(i), c.line.Coord(i+1)) <= c.radius {
			return true
		}
	}
	return false
}
