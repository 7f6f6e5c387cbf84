package domain

import (
	"math"
)

// Time-decay constants in minutes, selected by environmental regime.
const (
	tauFast    = 120 // hot, dry, windy, or clear sky: scent erodes quickly
	tauSlow    = 240 // cool, humid, overcast or night: scent persists
	tauNeutral = 180
)

// confidenceScore computes the 5–100 score and its band from elapsed
// minutes, wind (mph), and conditions: an exponential time decay with a
// regime-dependent tau, compounded with independent environmental
// multipliers.
func confidenceScore(t int, windMPH float64, c Conditions) (int, Band) {
	tau := decayTau(windMPH, c)
	base := 100 * math.Exp(-float64(t)/float64(tau))

	raw := base *
		humidityFactor(c.RelHumidityPct) *
		temperatureFactor(c.TemperatureF) *
		skyFactor(c.Cloud) *
		precipFactor(c.Precip, c.RecentRain) *
		windFactor(windMPH)

	score := int(clamp(math.Round(raw), 5, 100))
	return score, bandFor(score)
}

// decayTau selects the time constant by regime; the first matching
// rule wins.
func decayTau(windMPH float64, c Conditions) int {
	if c.TemperatureF > 85 || c.RelHumidityPct < 35 || windMPH > 15 || c.Cloud == CloudClear {
		return tauFast
	}
	if c.TemperatureF < 65 && c.RelHumidityPct > 55 && (c.Cloud == CloudOvercast || c.Cloud == CloudNight) {
		return tauSlow
	}
	return tauNeutral
}

func humidityFactor(rhPct float64) float64 {
	switch {
	case rhPct < 30:
		return 0.8
	case rhPct > 60:
		return 1.1
	default:
		return 1.0
	}
}

func temperatureFactor(tempF float64) float64 {
	switch {
	case tempF > 85:
		return 0.85
	case tempF < 60:
		return 1.05
	default:
		return 1.0
	}
}

func skyFactor(cloud Cloud) float64 {
	switch cloud {
	case CloudClear:
		return 0.85
	case CloudPartly:
		return 0.95
	case CloudOvercast, CloudNight:
		return 1.05
	default:
		return 1.0
	}
}

// precipFactor compounds the active-precipitation multiplier with a
// further 0.95 penalty when rain fell recently enough to have washed
// ground scent.
func precipFactor(p Precip, recentRain bool) float64 {
	var f float64
	switch p {
	case PrecipHeavy:
		f = 0.75
	case PrecipModerate:
		f = 0.9
	case PrecipLight:
		f = 0.9
	case PrecipNone:
		f = 1.0
	default:
		f = 1.0
	}
	if recentRain {
		f *= 0.95
	}
	return f
}

func windFactor(windMPH float64) float64 {
	switch {
	case windMPH <= 3:
		return 0.85
	case windMPH <= 12:
		return 1.0
	case windMPH <= 18:
		return 0.9
	default:
		return 0.8
	}
}

// bandFor maps a score to its qualitative tier.
func bandFor(score int) Band {
	switch {
	case score >= 70:
		return BandHigh
	case score >= 40:
		return BandModerate
	default:
		return BandLow
	}
}

// resetMinutes is how long a plan should stand before re-assessment.
func resetMinutes(band Band) int {
	switch band {
	case BandHigh:
		return 60
	case BandModerate:
		return 45
	default:
		return 30
	}
}

// deploymentNotes assembles the ordered tactical notes for the result.
// Conditions are evaluated independently; every matching note is
// appended, followed by the band-specific closing note.
func deploymentNotes(windMPH float64, precip Precip, band Band) []string {
	var notes []string

	if windMPH <= 3 {
		notes = append(notes, "Light wind: expect scent pooling and eddies near the LKP; work terrain traps and drainages before committing downwind.")
	}
	if windMPH >= 13 {
		notes = append(notes, "Strong wind: scent will be diluted and directionally variable; stage multiple start points across the fringe.")
	}
	if precip == PrecipHeavy {
		notes = append(notes, "Heavy precipitation is disrupting airborne scent; prioritize high-probability areas over envelope coverage.")
	}

	switch band {
	case BandLow:
		notes = append(notes, "Low confidence: treat the envelope as a planning aid only, not a search boundary.")
	case BandModerate:
		notes = append(notes, "Moderate confidence: clear the core first, support from the fringe, and cover the residual only if resources allow.")
	default:
		notes = append(notes, "High confidence: deploy along the core axis and bracket the fringe edges.")
	}

	return notes
}
