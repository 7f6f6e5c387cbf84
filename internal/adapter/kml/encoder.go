// Package kml renders plan results as KML documents for map tools
// such as Google Earth, CalTopo, and SARTopo.
package kml

import (
	"fmt"
	"image/color"
	"io"

	"github.com/couchcryptid/scent-plan-service/internal/domain"
	gokml "github.com/twpayne/go-kml/v2"
)

// Zone fill colors, innermost first. Alpha is kept low so the fans
// stay readable over aerial imagery.
var (
	coreColor     = color.RGBA{R: 0xff, G: 0x33, B: 0x33, A: 0x66}
	fringeColor   = color.RGBA{R: 0xff, G: 0xa5, B: 0x00, A: 0x4d}
	residualColor = color.RGBA{R: 0xff, G: 0xe0, B: 0x66, A: 0x33}
	axisColor     = color.RGBA{R: 0x33, G: 0x66, B: 0xff, A: 0xcc}
)

// Encode writes a plan result as a KML document containing the three
// zone polygons, the recommended start points, and the downwind axis.
func Encode(w io.Writer, result domain.PlanResult) error {
	env := result.Envelope

	doc := gokml.Document(
		gokml.Name(fmt.Sprintf("Scent Plan %s", result.PlanID)),
		gokml.Description(fmt.Sprintf(
			"Confidence %d (%s). Elapsed %d min. Reset recommendation: %d min.",
			env.ConfidenceScore, env.ConfidenceBand,
			env.MinutesSinceLKP, env.ResetRecommendationMinutes,
		)),
		zoneStyle("core", coreColor),
		zoneStyle("fringe", fringeColor),
		zoneStyle("residual", residualColor),
		gokml.SharedStyle("axis",
			gokml.LineStyle(gokml.Color(axisColor), gokml.Width(2)),
		),
	)

	// Outermost zone first so the core renders on top.
	doc.Add(
		zonePlacemark("Residual Zone", "residual", env.Polygons.Residual),
		zonePlacemark("Fringe Zone", "fringe", env.Polygons.Fringe),
		zonePlacemark("Core Zone", "core", env.Polygons.Core),
		axisPlacemark(result.LKP, env.Polygons.Residual),
	)

	for _, sp := range env.RecommendedStartPoints {
		doc.Add(gokml.Placemark(
			gokml.Name(sp.Label),
			gokml.Point(gokml.Coordinates(coordinate(sp.Point))),
		))
	}

	for _, note := range env.DeploymentNotes {
		doc.Add(gokml.Placemark(
			gokml.Name("Note"),
			gokml.Description(note),
			gokml.Visibility(false),
			gokml.Point(gokml.Coordinates(coordinate(result.LKP))),
		))
	}

	return gokml.KML(doc).WriteIndent(w, "", "  ")
}

func zoneStyle(id string, fill color.RGBA) gokml.Element {
	line := fill
	line.A = 0xff
	return gokml.SharedStyle(id,
		gokml.LineStyle(gokml.Color(line), gokml.Width(1.5)),
		gokml.PolyStyle(gokml.Color(fill)),
	)
}

func zonePlacemark(name, styleID string, polygon []domain.GeoPoint) gokml.Element {
	coords := make([]gokml.Coordinate, len(polygon))
	for i, pt := range polygon {
		coords[i] = coordinate(pt)
	}
	return gokml.Placemark(
		gokml.Name(name),
		gokml.StyleURL("#"+styleID),
		gokml.Polygon(
			gokml.Tessellate(true),
			gokml.OuterBoundaryIs(gokml.LinearRing(gokml.Coordinates(coords...))),
		),
	)
}

// axisPlacemark draws the downwind centerline from the LKP to the
// middle of the residual zone's far arc.
func axisPlacemark(lkp domain.GeoPoint, residual []domain.GeoPoint) gokml.Element {
	far := lkp
	if len(residual) >= 3 {
		far = residual[len(residual)/2]
	}
	return gokml.Placemark(
		gokml.Name("Downwind Axis"),
		gokml.StyleURL("#axis"),
		gokml.LineString(
			gokml.Tessellate(true),
			gokml.Coordinates(coordinate(lkp), coordinate(far)),
		),
	)
}

func coordinate(pt domain.GeoPoint) gokml.Coordinate {
	return gokml.Coordinate{Lon: pt.Lon, Lat: pt.Lat}
}
