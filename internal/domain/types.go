package domain

import (
	"context"
	"time"
)

// GeoPoint is a geographic coordinate in degrees.
type GeoPoint struct {
	Lat float64 `json:"lat"`
	Lon float64 `json:"lon"`
}

// ScreenPoint is a pixel coordinate in a rendering surface's local
// space (y grows downward).
type ScreenPoint struct {
	X float64 `json:"x"`
	Y float64 `json:"y"`
}

// WindObservation is a single wind measurement. FromDeg is the
// meteorological "from" bearing: the direction the wind blows from,
// clockwise from north. Speed is carried in meters per second and
// converted to mph where the model formulas need it.
type WindObservation struct {
	SpeedMPS   float64   `json:"speed_mps"`
	FromDeg    float64   `json:"from_deg"`
	ObservedAt time.Time `json:"observed_at,omitzero"`
}

// Cloud is the sky-cover category.
type Cloud string

const (
	CloudClear    Cloud = "clear"
	CloudPartly   Cloud = "partly"
	CloudOvercast Cloud = "overcast"
	CloudNight    Cloud = "night"
)

// Precip is the active precipitation category.
type Precip string

const (
	PrecipNone     Precip = "none"
	PrecipLight    Precip = "light"
	PrecipModerate Precip = "moderate"
	PrecipHeavy    Precip = "heavy"
)

// Terrain is the dominant terrain class of the search area.
type Terrain string

const (
	TerrainMixed  Terrain = "mixed"
	TerrainOpen   Terrain = "open"
	TerrainForest Terrain = "forest"
	TerrainUrban  Terrain = "urban"
	TerrainSwamp  Terrain = "swamp"
	TerrainBeach  Terrain = "beach"
)

// Stability is the atmospheric stability class.
type Stability string

const (
	StabilityNeutral    Stability = "neutral"
	StabilityStable     Stability = "stable"
	StabilityConvective Stability = "convective"
)

// Conditions holds the environmental inputs to the envelope model.
type Conditions struct {
	TemperatureF   float64   `json:"temperature_f"`
	RelHumidityPct float64   `json:"rel_humidity_pct"`
	Cloud          Cloud     `json:"cloud"`
	Precip         Precip    `json:"precip"`
	RecentRain     bool      `json:"recent_rain"`
	Terrain        Terrain   `json:"terrain"`
	Stability      Stability `json:"stability"`
}

// EnvelopeRequest is the full input to a scent envelope computation.
// EvaluatedAt must be supplied by the caller; the model never reads a
// clock. FanSamples of 0 selects DefaultFanSamples.
type EnvelopeRequest struct {
	LKP         GeoPoint        `json:"lkp"`
	LKPTime     time.Time       `json:"lkp_time"`
	EvaluatedAt time.Time       `json:"evaluated_at"`
	Wind        WindObservation `json:"wind"`
	Conditions  Conditions      `json:"conditions"`
	FanSamples  int             `json:"fan_samples,omitempty"`
}

// Band is the qualitative confidence tier derived from the score.
type Band string

const (
	BandHigh     Band = "High"
	BandModerate Band = "Moderate"
	BandLow      Band = "Low"
)

// ZonePolygons holds the three nested fan polygons, innermost first.
// Each polygon is closed: its first and last vertex are the LKP.
type ZonePolygons struct {
	Core     []GeoPoint `json:"core"`
	Fringe   []GeoPoint `json:"fringe"`
	Residual []GeoPoint `json:"residual"`
}

// StartPoint is a recommended K9 deployment point along the downwind axis.
type StartPoint struct {
	Label string   `json:"label"`
	Point GeoPoint `json:"point"`
}

// EnvelopeResult is the complete output of a scent envelope computation.
type EnvelopeResult struct {
	MinutesSinceLKP            int          `json:"minutes_since_lkp"`
	DownwindDeg                float64      `json:"downwind_deg"`
	Polygons                   ZonePolygons `json:"polygons"`
	ConfidenceScore            int          `json:"confidence_score"`
	ConfidenceBand             Band         `json:"confidence_band"`
	ResetRecommendationMinutes int          `json:"reset_recommendation_minutes"`
	RecommendedStartPoints     []StartPoint `json:"recommended_start_points"`
	DeploymentNotes            []string     `json:"deployment_notes"`
}

// Cone is the screen-space directional overlay: a triangle with its
// apex at the source point, oriented along the downwind direction.
type Cone struct {
	Left        ScreenPoint `json:"left"`
	Right       ScreenPoint `json:"right"`
	Tip         ScreenPoint `json:"tip"`
	DownwindDeg float64     `json:"downwind_deg"`
}

// RawEvent represents an unprocessed plan request from the source topic.
type RawEvent struct {
	Key       []byte
	Value     []byte
	Headers   map[string]string
	Topic     string
	Partition int
	Offset    int64
	Timestamp time.Time
	Commit    func(ctx context.Context) error
}

// OutputEvent is the serialized form destined for the sink topic.
type OutputEvent struct {
	Key     []byte
	Value   []byte
	Headers map[string]string
}
