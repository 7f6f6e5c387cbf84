package domain

import (
	"math"
	"time"
)

const (
	metersPerFoot = 0.3048

	// maxEffectiveWindMPH caps the wind term of the length formula.
	// Above this speed scent dilutes faster than it travels.
	maxEffectiveWindMPH = 18

	// DefaultFanSamples is the arc-sampling resolution of a zone
	// polygon when the request does not specify one.
	DefaultFanSamples = 28
)

// zoneScale holds the fixed multipliers that nest the three zones
// around the shared base length/width pair. Core must stay smaller
// than fringe, fringe smaller than residual.
type zoneScale struct {
	length float64
	width  float64
}

var (
	coreScale     = zoneScale{length: 0.55, width: 0.45}
	fringeScale   = zoneScale{length: 0.85, width: 0.8}
	residualScale = zoneScale{length: 1.0, width: 1.15}
)

// ComputeScentEnvelope runs the full planning computation: elapsed
// time, per-zone fan polygons, confidence score and band, reset
// recommendation, start points, and deployment notes. It is a pure
// function of the request.
func ComputeScentEnvelope(req EnvelopeRequest) EnvelopeResult {
	t := minutesSince(req.LKPTime, req.EvaluatedAt)
	windMPH := MPHFromMPS(math.Max(req.Wind.SpeedMPS, 0))
	axis := DownwindDeg(req.Wind.FromDeg)

	lengthM, widthM := envelopeSizeMeters(t, windMPH, req.Conditions)

	samples := req.FanSamples
	if samples <= 0 {
		samples = DefaultFanSamples
	}

	score, band := confidenceScore(t, windMPH, req.Conditions)

	return EnvelopeResult{
		MinutesSinceLKP: t,
		DownwindDeg:     axis,
		Polygons: ZonePolygons{
			Core:     FanPolygon(req.LKP, axis, coreScale.length*lengthM, coreScale.width*widthM, samples),
			Fringe:   FanPolygon(req.LKP, axis, fringeScale.length*lengthM, fringeScale.width*widthM, samples),
			Residual: FanPolygon(req.LKP, axis, residualScale.length*lengthM, residualScale.width*widthM, samples),
		},
		ConfidenceScore:            score,
		ConfidenceBand:             band,
		ResetRecommendationMinutes: resetMinutes(band),
		RecommendedStartPoints:     StartPoints(req.LKP, axis, coreScale.length*lengthM),
		DeploymentNotes:            deploymentNotes(windMPH, req.Conditions.Precip, band),
	}
}

// minutesSince returns whole minutes between the LKP time and the
// evaluation time, rounded from the millisecond difference and clamped
// to zero when evaluation precedes the LKP.
func minutesSince(lkpTime, evaluatedAt time.Time) int {
	d := evaluatedAt.Sub(lkpTime)
	if d < 0 {
		return 0
	}
	return int(math.Round(float64(d.Milliseconds()) / 60000))
}

// envelopeSizeMeters computes the shared base length and end-width of
// the scent envelope in meters for elapsed minutes t and wind in mph.
func envelopeSizeMeters(t int, windMPH float64, c Conditions) (lengthM, widthM float64) {
	tf := float64(t)
	effWind := math.Min(windMPH, maxEffectiveWindMPH)

	baseFt := 30 + 6*tf
	windFt := 120 * effWind * math.Log(1+tf/30)
	lengthFt := (baseFt + windFt) * terrainLengthMult(c.Terrain) * stabilityMult(c.Stability)

	widthFt := (20 + 3.5*tf + 40*math.Sqrt(math.Max(1, tf))) * widthMix(c)

	return lengthFt * metersPerFoot, widthFt * metersPerFoot
}

// terrainLengthMult scales envelope length by terrain class. Unknown
// terrain falls back to the mixed multiplier.
func terrainLengthMult(t Terrain) float64 {
	switch t {
	case TerrainOpen:
		return 1.1
	case TerrainForest:
		return 0.95
	case TerrainUrban:
		return 0.85
	case TerrainSwamp:
		return 0.9
	case TerrainBeach:
		return 1.0
	case TerrainMixed:
		return 1.0
	default:
		return 1.0
	}
}

// stabilityMult scales envelope length by atmospheric stability.
// Unknown stability falls back to neutral.
func stabilityMult(s Stability) float64 {
	switch s {
	case StabilityStable:
		return 0.9
	case StabilityConvective:
		return 1.05
	case StabilityNeutral:
		return 1.0
	default:
		return 1.0
	}
}

// widthMix compounds the lateral-spread multipliers. Stable and
// convective are mutually exclusive by input domain; urban terrain
// widens the plume through channeling and eddies.
func widthMix(c Conditions) float64 {
	mix := 1.0
	switch c.Stability {
	case StabilityStable:
		mix *= 0.85
	case StabilityConvective:
		mix *= 1.25
	}
	if c.Terrain == TerrainUrban {
		mix *= 1.15
	}
	return mix
}
