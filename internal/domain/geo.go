package domain

import "math"

// MetersPerDegLat is the meridional arc length of one degree of
// latitude, treated as constant at search-area scale.
const MetersPerDegLat = 111320.0

// mphPerMPS converts meters per second to miles per hour.
const mphPerMPS = 2.236936

// MetersPerDegLon returns the arc length of one degree of longitude at
// the given latitude.
func MetersPerDegLon(latDeg float64) float64 {
	return MetersPerDegLat * math.Cos(latDeg*math.Pi/180)
}

// MovePoint displaces start by distanceMeters along bearingDeg
// (clockwise from north) using a flat-earth local projection. Valid for
// local-scale distances only; no geodesic correction is applied.
func MovePoint(start GeoPoint, bearingDeg, distanceMeters float64) GeoPoint {
	rad := bearingDeg * math.Pi / 180
	north := distanceMeters * math.Cos(rad)
	east := distanceMeters * math.Sin(rad)

	return GeoPoint{
		Lat: start.Lat + north/MetersPerDegLat,
		Lon: start.Lon + east/MetersPerDegLon(start.Lat),
	}
}

// NormalizeDeg wraps an angle into [0, 360).
func NormalizeDeg(deg float64) float64 {
	d := math.Mod(deg, 360)
	if d < 0 {
		d += 360
	}
	return d
}

// DownwindDeg converts a meteorological "from" bearing into the
// direction scent travels.
func DownwindDeg(fromDeg float64) float64 {
	return NormalizeDeg(fromDeg + 180)
}

// RotatePoint rotates p about origin by deg, clockwise-positive in
// screen coordinates. The rotation is an isometry: the distance from
// origin to p is preserved exactly.
func RotatePoint(origin, p ScreenPoint, deg float64) ScreenPoint {
	rad := deg * math.Pi / 180
	sin, cos := math.Sincos(rad)

	dx := p.X - origin.X
	dy := p.Y - origin.Y

	return ScreenPoint{
		X: origin.X + dx*cos - dy*sin,
		Y: origin.Y + dx*sin + dy*cos,
	}
}

// MPHFromMPS converts meters per second to miles per hour.
func MPHFromMPS(mps float64) float64 { return mps * mphPerMPS }

// MPSFromMPH converts miles per hour to meters per second.
func MPSFromMPH(mph float64) float64 { return mph / mphPerMPS }

// clamp constrains n to [lo, hi].
func clamp(n, lo, hi float64) float64 {
	return math.Max(lo, math.Min(hi, n))
}
