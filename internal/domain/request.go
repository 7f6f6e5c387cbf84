package domain

import (
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"errors"
	"fmt"
	"time"
)

// RawPlanRequest is the JSON schema published to the source topic by
// field units or the planning UI. EvaluatedAt is optional; when absent
// the serving layer stamps it once per computation.
type RawPlanRequest struct {
	PlanID      string          `json:"plan_id,omitempty"`
	LKP         GeoPoint        `json:"lkp"`
	LKPTime     time.Time       `json:"lkp_time"`
	EvaluatedAt time.Time       `json:"evaluated_at,omitzero"`
	Wind        WindObservation `json:"wind"`
	Conditions  Conditions      `json:"conditions"`
	FanSamples  int             `json:"fan_samples,omitempty"`
}

// PlanRequest is the parsed, normalized form of a raw plan request.
type PlanRequest struct {
	ID      string
	Request EnvelopeRequest

	RawPayload []byte
}

// PlanResult wraps an EnvelopeResult with the request context a map or
// briefing consumer needs. ComputedAt is stamped by the serving layer,
// never by the envelope computation itself.
type PlanResult struct {
	PlanID      string          `json:"plan_id"`
	LKP         GeoPoint        `json:"lkp"`
	LKPTime     time.Time       `json:"lkp_time"`
	EvaluatedAt time.Time       `json:"evaluated_at"`
	Wind        WindObservation `json:"wind"`
	Conditions  Conditions      `json:"conditions"`
	Envelope    EnvelopeResult  `json:"envelope"`
	ComputedAt  time.Time       `json:"computed_at"`
}

// ParseRawPlanRequest deserializes and normalizes a raw plan request.
// Coordinates and the LKP timestamp are hard requirements; everything
// else is defensively normalized (wind clamped, bearings wrapped,
// unknown categorical tags replaced by their neutral defaults) so a
// sloppy field entry still produces a usable plan.
func ParseRawPlanRequest(raw RawEvent) (PlanRequest, error) {
	var req RawPlanRequest
	if err := json.Unmarshal(raw.Value, &req); err != nil {
		return PlanRequest{}, fmt.Errorf("parse plan request: %w", err)
	}

	if req.LKP.Lat < -90 || req.LKP.Lat > 90 || req.LKP.Lon < -180 || req.LKP.Lon > 180 {
		return PlanRequest{}, fmt.Errorf("plan request: invalid LKP coordinates (%.4f, %.4f)", req.LKP.Lat, req.LKP.Lon)
	}
	if req.LKPTime.IsZero() {
		return PlanRequest{}, errors.New("plan request: lkp_time is required")
	}

	wind := req.Wind
	if wind.SpeedMPS < 0 {
		wind.SpeedMPS = 0
	}
	wind.FromDeg = NormalizeDeg(wind.FromDeg)

	// Same bounds as the FAN_SAMPLES setting; an out-of-range value
	// falls back to the serving layer's configured resolution.
	fanSamples := req.FanSamples
	if fanSamples < 2 || fanSamples > 360 {
		fanSamples = 0
	}

	id := req.PlanID
	if id == "" {
		id = generatePlanID(req)
	}

	return PlanRequest{
		ID: id,
		Request: EnvelopeRequest{
			LKP:         req.LKP,
			LKPTime:     req.LKPTime,
			EvaluatedAt: req.EvaluatedAt,
			Wind:        wind,
			Conditions:  normalizeConditions(req.Conditions),
			FanSamples:  fanSamples,
		},
		RawPayload: raw.Value,
	}, nil
}

// normalizeConditions replaces unrecognized categorical tags with the
// named value carrying the neutral 1.0 multiplier. The model degrades
// gracefully instead of aborting a planning session.
func normalizeConditions(c Conditions) Conditions {
	switch c.Terrain {
	case TerrainMixed, TerrainOpen, TerrainForest, TerrainUrban, TerrainSwamp, TerrainBeach:
	default:
		c.Terrain = TerrainMixed
	}
	switch c.Stability {
	case StabilityNeutral, StabilityStable, StabilityConvective:
	default:
		c.Stability = StabilityNeutral
	}
	// Cloud has no named neutral value; an unrecognized tag is left
	// as-is so the model's 1.0 sky multiplier applies.
	switch c.Precip {
	case PrecipNone, PrecipLight, PrecipModerate, PrecipHeavy:
	default:
		c.Precip = PrecipNone
	}
	return c
}

// generatePlanID produces a deterministic ID from the request's key
// fields. Deterministic IDs make reprocessing the same raw request
// replay-safe: consumers can dedupe on the message key.
func generatePlanID(req RawPlanRequest) string {
	input := fmt.Sprintf("%.6f|%.6f|%s|%s|%.2f|%.1f",
		req.LKP.Lat, req.LKP.Lon,
		req.LKPTime.UTC().Format(time.RFC3339),
		req.EvaluatedAt.UTC().Format(time.RFC3339),
		req.Wind.SpeedMPS, req.Wind.FromDeg,
	)
	hash := sha256.Sum256([]byte(input))
	return "plan-" + hex.EncodeToString(hash[:8])
}

// SerializePlanResult marshals a plan result into a sink-topic message
// keyed by plan ID, with routing headers for band-based consumers.
func SerializePlanResult(result PlanResult) (OutputEvent, error) {
	data, err := json.Marshal(result)
	if err != nil {
		return OutputEvent{}, fmt.Errorf("serialize plan result: %w", err)
	}
	return OutputEvent{
		Key:   []byte(result.PlanID),
		Value: data,
		Headers: map[string]string{
			"confidence_band": string(result.Envelope.ConfidenceBand),
			"computed_at":     result.ComputedAt.UTC().Format(time.RFC3339),
		},
	}, nil
}
