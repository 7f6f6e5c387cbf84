package domain

// ComputeCone builds the screen-space directional overlay triangle for
// a wind "from" bearing. An unrotated tip is placed lengthPx to the
// right of src, the left and right rays are found by rotating the tip
// by ∓halfAngleDeg about src, and all three points are then rotated by
// the negated downwind bearing so the cone points downwind.
func ComputeCone(src ScreenPoint, lengthPx, halfAngleDeg, windFromDeg float64) Cone {
	downwind := DownwindDeg(windFromDeg)

	tip := ScreenPoint{X: src.X + lengthPx, Y: src.Y}
	left := RotatePoint(src, tip, -halfAngleDeg)
	right := RotatePoint(src, tip, halfAngleDeg)

	return Cone{
		Left:        RotatePoint(src, left, -downwind),
		Right:       RotatePoint(src, right, -downwind),
		Tip:         RotatePoint(src, tip, -downwind),
		DownwindDeg: downwind,
	}
}

// DefaultHalfAngleDeg returns the cone half-angle for a wind speed in
// mph when the caller has not overridden it. Higher wind means tighter
// directional confidence, so the cone narrows as speed rises.
func DefaultHalfAngleDeg(windMPH float64) float64 {
	switch {
	case windMPH <= 3:
		return 28
	case windMPH <= 8:
		return 22
	case windMPH <= 14:
		return 18
	default:
		return 14
	}
}
