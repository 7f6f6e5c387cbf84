package domain

// Start point placement along the downwind axis, as fractions of the
// core zone length. Order is nearest to farthest and is meaningful:
// teams are briefed in this sequence.
const (
	coreMidlineFraction = 0.35
	coreFarFraction     = 0.55
)

// StartPoints derives the recommended K9 deployment points for a core
// zone of coreLengthM meters along the downwind axis.
func StartPoints(lkp GeoPoint, axisDeg, coreLengthM float64) []StartPoint {
	return []StartPoint{
		{Label: "Immediate", Point: lkp},
		{Label: "Core Midline", Point: MovePoint(lkp, axisDeg, coreMidlineFraction*coreLengthM)},
		{Label: "Core Far", Point: MovePoint(lkp, axisDeg, coreFarFraction*coreLengthM)},
	}
}
