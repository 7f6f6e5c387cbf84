package http

import (
	"encoding/json"
	"io"
	"net/http"

	"github.com/couchcryptid/scent-plan-service/internal/adapter/kml"
	"github.com/couchcryptid/scent-plan-service/internal/domain"
)

const (
	maxRequestBytes = 1 << 20

	contentTypeKML = "application/vnd.google-earth.kml+xml"
)

// handleEnvelope computes a scent envelope synchronously. With
// ?format=kml the result is rendered as a KML document instead of JSON.
func (s *Server) handleEnvelope(w http.ResponseWriter, r *http.Request) {
	body, err := io.ReadAll(http.MaxBytesReader(w, r.Body, maxRequestBytes))
	if err != nil {
		s.rejectEnvelope(w, "read request body: "+err.Error())
		return
	}

	pr, err := domain.ParseRawPlanRequest(domain.RawEvent{Value: body})
	if err != nil {
		s.rejectEnvelope(w, err.Error())
		return
	}

	// Requests without an explicit evaluated_at are stamped with "now"
	// and can never be served from cache.
	cacheable := !pr.Request.EvaluatedAt.IsZero()

	var result domain.PlanResult
	key := cacheKey(body)
	switch {
	case !cacheable:
		s.metrics.ResultCache.WithLabelValues("bypass").Inc()
		result = s.computer.Compute(pr)
	default:
		var hit bool
		if result, hit = s.cache.get(key); hit {
			s.metrics.ResultCache.WithLabelValues("hit").Inc()
		} else {
			s.metrics.ResultCache.WithLabelValues("miss").Inc()
			result = s.computer.Compute(pr)
			s.cache.put(key, result)
		}
	}

	s.metrics.HTTPComputes.WithLabelValues("envelope", "ok").Inc()
	s.metrics.PlansByBand.WithLabelValues(string(result.Envelope.ConfidenceBand)).Inc()

	if r.URL.Query().Get("format") == "kml" {
		w.Header().Set("Content-Type", contentTypeKML)
		w.WriteHeader(http.StatusOK)
		if err := kml.Encode(w, result); err != nil {
			s.logger.Error("kml encode failed", "plan_id", result.PlanID, "error", err)
		}
		return
	}

	writeJSON(w, http.StatusOK, result)
}

func (s *Server) rejectEnvelope(w http.ResponseWriter, msg string) {
	s.metrics.HTTPComputes.WithLabelValues("envelope", "bad_request").Inc()
	writeJSON(w, http.StatusBadRequest, map[string]string{"error": msg})
}

// coneRequest is the input to the screen-space cone computation. A
// zero half_angle_deg selects the wind-speed default.
type coneRequest struct {
	Source       domain.ScreenPoint     `json:"source"`
	LengthPx     float64                `json:"length_px"`
	HalfAngleDeg float64                `json:"half_angle_deg,omitempty"`
	Wind         domain.WindObservation `json:"wind"`
}

func (s *Server) handleCone(w http.ResponseWriter, r *http.Request) {
	body, err := io.ReadAll(http.MaxBytesReader(w, r.Body, maxRequestBytes))
	if err != nil {
		s.rejectCone(w, "read request body: "+err.Error())
		return
	}

	var req coneRequest
	if err := json.Unmarshal(body, &req); err != nil {
		s.rejectCone(w, "parse cone request: "+err.Error())
		return
	}
	if req.LengthPx <= 0 {
		s.rejectCone(w, "length_px must be positive")
		return
	}
	if req.HalfAngleDeg < 0 || req.HalfAngleDeg >= 90 {
		s.rejectCone(w, "half_angle_deg must be in [0, 90)")
		return
	}

	halfAngle := req.HalfAngleDeg
	if halfAngle == 0 {
		halfAngle = domain.DefaultHalfAngleDeg(domain.MPHFromMPS(req.Wind.SpeedMPS))
	}

	cone := domain.ComputeCone(req.Source, req.LengthPx, halfAngle, req.Wind.FromDeg)

	s.metrics.HTTPComputes.WithLabelValues("cone", "ok").Inc()
	writeJSON(w, http.StatusOK, cone)
}

func (s *Server) rejectCone(w http.ResponseWriter, msg string) {
	s.metrics.HTTPComputes.WithLabelValues("cone", "bad_request").Inc()
	writeJSON(w, http.StatusBadRequest, map[string]string{"error": msg})
}
