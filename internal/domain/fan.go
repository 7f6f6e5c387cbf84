package domain

import "math"

// FanPolygon approximates a directional scent fan as a closed
// geographic polygon: an arc of samples equally spaced bearings across
// ±atan2(widthM, lengthM) about the axis, each placed lengthM meters
// from the LKP, closed back through the LKP at both ends. The curved
// far edge tracks angular spread better than a straight chord at the
// envelope's extremities.
func FanPolygon(lkp GeoPoint, axisDeg, lengthM, widthM float64, samples int) []GeoPoint {
	if samples < 2 {
		samples = DefaultFanSamples
	}

	halfAngleDeg := math.Atan2(widthM, lengthM) * 180 / math.Pi
	startDeg := axisDeg - halfAngleDeg
	spanDeg := 2 * halfAngleDeg

	poly := make([]GeoPoint, 0, samples+2)
	poly = append(poly, lkp)
	for i := 0; i < samples; i++ {
		bearing := startDeg + spanDeg*float64(i)/float64(samples-1)
		poly = append(poly, MovePoint(lkp, bearing, lengthM))
	}
	poly = append(poly, lkp)

	return poly
}
