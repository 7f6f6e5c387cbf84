package pipeline

import (
	"context"
	"log/slog"

	"github.com/couchcryptid/scent-plan-service/internal/domain"
)

// PlanTransformer turns raw plan requests into serialized plan
// results. A zero fanSamples defers to the model default.
type PlanTransformer struct {
	fanSamples int
	logger     *slog.Logger
}

// NewTransformer creates a PlanTransformer. fanSamples sets the arc
// resolution of zone polygons; pass 0 for the model default.
func NewTransformer(fanSamples int, logger *slog.Logger) *PlanTransformer {
	return &PlanTransformer{
		fanSamples: fanSamples,
		logger:     logger,
	}
}

// Transform parses, computes, and serializes a single plan request.
func (t *PlanTransformer) Transform(_ context.Context, raw domain.RawEvent) (domain.OutputEvent, error) {
	pr, err := domain.ParseRawPlanRequest(raw)
	if err != nil {
		return domain.OutputEvent{}, err
	}

	return domain.SerializePlanResult(t.Compute(pr))
}

// Compute runs the envelope model for a parsed plan request. A missing
// evaluation timestamp is stamped here, exactly once, so every read of
// "now" within one planning cycle is consistent.
func (t *PlanTransformer) Compute(pr domain.PlanRequest) domain.PlanResult {
	req := pr.Request
	if req.EvaluatedAt.IsZero() {
		req.EvaluatedAt = clock.Now().UTC()
	}
	if req.FanSamples == 0 {
		req.FanSamples = t.fanSamples
	}

	envelope := domain.ComputeScentEnvelope(req)

	return domain.PlanResult{
		PlanID:      pr.ID,
		LKP:         req.LKP,
		LKPTime:     req.LKPTime,
		EvaluatedAt: req.EvaluatedAt,
		Wind:        req.Wind,
		Conditions:  req.Conditions,
		Envelope:    envelope,
		ComputedAt:  clock.Now().UTC(),
	}
}
