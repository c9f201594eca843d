// Package route loads pipeline right-of-way centerlines from KMZ/KML archives
// or shapefiles and inflates them into tolerance corridors for containment
// testing.
package route

import (
	"encoding/xml"
	"strconv"
	"strings"

	"github.com/rotisserie/eris"

	"github.com/arch-aerial/patrol-cli/internal/model"
)

// defaultRouteName labels placemarks that carry a line geometry but no name.
const defaultRouteName = "pipeline"

type kmlRoot struct {
	XMLName    xml.Name       `xml:"kml"`
	Document   kmlContainer   `xml:"Document"`
	Placemarks []kmlPlacemark `xml:"Placemark"`
}

// kmlContainer matches both Document and Folder elements, which nest
// arbitrarily and may hold placemarks at any level.
type kmlContainer struct {
	Placemarks []kmlPlacemark `xml:"Placemark"`
	Folders    []kmlContainer `xml:"Folder"`
	Documents  []kmlContainer `xml:"Document"`
}

type kmlPlacemark struct {
	Name          string            `xml:"name"`
	LineString    *kmlLineString    `xml:"LineString"`
	MultiGeometry *kmlMultiGeometry `xml:"MultiGeometry"`
}

type kmlMultiGeometry struct {
	LineStrings []kmlLineString `xml:"LineString"`
}

type kmlLineString struct {
	Coordinates string `xml:"coordinates"`
}

// lineString returns the placemark's line geometry, looking inside
// MultiGeometry when the placemark has no direct LineString child.
func (p kmlPlacemark) lineString() *kmlLineString {
	if p.LineString != nil {
		return p.LineString
	}
	if p.MultiGeometry != nil && len(p.MultiGeometry.LineStrings) > 0 {
		return &p.MultiGeometry.LineStrings[0]
	}
	return nil
}

// ParseKML extracts route segments from a KML document. Placemarks without a
// line geometry or with fewer than 2 coordinate pairs are discarded.
func ParseKML(data []byte) ([]model.RouteSegment, error) {
	var root kmlRoot
	if err := xml.Unmarshal(data, &root); err != nil {
		return nil, eris.Wrap(err, "route: parse KML")
	}

	placemarks := root.Placemarks
	placemarks = append(placemarks, collectPlacemarks(root.Document)...)

	var segments []model.RouteSegment
	for _, pm := range placemarks {
		ls := pm.lineString()
		if ls == nil {
			continue
		}
		coords, err := parseCoordinates(ls.Coordinates)
		if err != nil {
			return nil, err
		}
		if len(coords) < 2 {
			continue
		}
		name := strings.TrimSpace(pm.Name)
		if name == "" {
			name = defaultRouteName
		}
		segments = append(segments, model.RouteSegment{Name: name, Coords: coords})
	}
	return segments, nil
}

func collectPlacemarks(c kmlContainer) []kmlPlacemark {
	out := c.Placemarks
	for _, f := range c.Folders {
		out = append(out, collectPlacemarks(f)...)
	}
	for _, d := range c.Documents {
		out = append(out, collectPlacemarks(d)...)
	}
	return out
}

// parseCoordinates decodes the KML coordinate text format: whitespace-
// separated tuples of lon,lat[,elevation]. Elevation is ignored. Tuples with
// fewer than two elements are skipped.
func parseCoordinates(text string) ([][2]float64, error) {
	var coords [][2]float64
	for _, tuple := range strings.Fields(text) {
		pieces := strings.Split(tuple, ",")
		if len(pieces) < 2 {
			continue
		}
		lon, err := strconv.ParseFloat(pieces[0], 64)
		if err != nil {
			return nil, eris.Wrapf(err, "route: parse longitude %q", pieces[0])
		}
		lat, err := strconv.ParseFloat(pieces[1], 64)
		if err != nil {
			return nil, eris.Wrapf(err, "route: parse latitude %q", pieces[1])
		}
		coords = append(coords, [2]float64{lon, lat})
	}
	return coords, nil
}
