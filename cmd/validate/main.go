// Command validate performs end-to-end integrity checks across the mock
// plan fixtures: raw plan requests and computed plan results. It verifies
// request schema, recomputes every envelope and compares it with the stored
// result, and checks the geometric and scoring invariants of the model.
// The results fixture is not checked in; run cmd/genmock first to produce
// data/mock/plan_results.json.
//
// Usage:
//
//	go run ./cmd/validate \
//	  -requests-json data/mock/plan_requests.json \
//	  -results-json data/mock/plan_results.json
package main

import (
	"encoding/json"
	"flag"
	"fmt"
	"log/slog"
	"math"
	"os"
	"time"

	"github.com/couchcryptid/scent-plan-service/internal/domain"
	"github.com/couchcryptid/scent-plan-service/internal/pipeline"
	"github.com/jonboulle/clockwork"
)

// evalTime matches the frozen clock in cmd/genmock so recomputed plan
// IDs and timestamps line up with the stored fixture.
var evalTime = time.Date(2026, time.March, 14, 10, 0, 0, 0, time.UTC)

// phase tracks pass/fail for a validation phase.
type phase struct {
	name   string
	errors []string
}

func (p *phase) errorf(format string, args ...any) {
	p.errors = append(p.errors, fmt.Sprintf(format, args...))
}

func (p *phase) passed() bool { return len(p.errors) == 0 }

func main() {
	requestsJSON := flag.String("requests-json", "", "path to raw plan request fixture")
	resultsJSON := flag.String("results-json", "", "path to computed plan result fixture")
	flag.Parse()

	if *requestsJSON == "" || *resultsJSON == "" {
		flag.Usage()
		os.Exit(1)
	}

	if code := run(*requestsJSON, *resultsJSON); code != 0 {
		os.Exit(code)
	}
}

func run(requestsPath, resultsPath string) int {
	pipeline.SetClock(clockwork.NewFakeClockAt(evalTime))
	defer pipeline.SetClock(nil)

	fmt.Println("=== Scent Plan Integrity Validation ===")
	fmt.Println()

	requests, err := loadJSON[domain.RawPlanRequest](requestsPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "FATAL: load request fixture: %v\n", err)
		return 1
	}

	results, err := loadJSON[domain.PlanResult](resultsPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "FATAL: load result fixture: %v\n", err)
		return 1
	}

	phases := []*phase{
		validateRequestSchema(requests),
		validateRecompute(requests, results),
		validateModelInvariants(results),
		validateDeterminism(requests),
	}

	fmt.Println()
	allPassed := true
	for _, p := range phases {
		status := "\033[32mPASS\033[0m"
		if !p.passed() {
			status = fmt.Sprintf("\033[31mFAIL (%d errors)\033[0m", len(p.errors))
			allPassed = false
		}
		fmt.Printf("  %-46s %s\n", p.name, status)
	}

	fmt.Println()
	fmt.Printf("Records: %d requests, %d results\n", len(requests), len(results))

	for _, p := range phases {
		if p.passed() {
			continue
		}
		fmt.Printf("\n--- %s ---\n", p.name)
		for i, e := range p.errors {
			fmt.Printf("  [%d] %s\n", i+1, e)
		}
	}

	if allPassed {
		fmt.Println("\nAll validations passed.")
		return 0
	}
	fmt.Println("\nValidation FAILED.")
	return 1
}

func loadJSON[T any](path string) ([]T, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	var items []T
	if err := json.Unmarshal(data, &items); err != nil {
		return nil, err
	}
	return items, nil
}

// ── Phase 1: Request Schema ──
// Validates that every fixture request parses and carries sane inputs.

func validateRequestSchema(requests []domain.RawPlanRequest) *phase {
	p := &phase{name: "Phase 1: Request Schema"}

	seen := map[string]int{}
	for i, req := range requests {
		if req.PlanID == "" {
			p.errorf("request %d: missing plan_id", i)
		}
		seen[req.PlanID]++

		if req.LKP.Lat < -90 || req.LKP.Lat > 90 || req.LKP.Lon < -180 || req.LKP.Lon > 180 {
			p.errorf("request %d (%s): LKP out of range (%.4f, %.4f)", i, req.PlanID, req.LKP.Lat, req.LKP.Lon)
		}
		if req.LKPTime.IsZero() {
			p.errorf("request %d (%s): lkp_time is zero", i, req.PlanID)
		}
		if !req.EvaluatedAt.IsZero() && req.EvaluatedAt.Before(req.LKPTime) {
			p.errorf("request %d (%s): evaluated_at precedes lkp_time", i, req.PlanID)
		}
		if req.Wind.SpeedMPS < 0 {
			p.errorf("request %d (%s): negative wind speed %g", i, req.PlanID, req.Wind.SpeedMPS)
		}
	}

	for id, n := range seen {
		if n > 1 {
			p.errorf("plan_id %q appears %d times", id, n)
		}
	}
	return p
}

// ── Phase 2: Recompute Parity ──
// Re-runs the envelope model on every request and compares key outputs
// with the stored result fixture.

func validateRecompute(requests []domain.RawPlanRequest, results []domain.PlanResult) *phase {
	p := &phase{name: "Phase 2: Recompute Parity (requests vs results)"}

	byID := map[string]*domain.PlanResult{}
	for i := range results {
		byID[results[i].PlanID] = &results[i]
	}

	tfm := pipeline.NewTransformer(0, slog.Default())
	for i, req := range requests {
		recomputed, err := computeRequest(tfm, req)
		if err != nil {
			p.errorf("request %d (%s): %v", i, req.PlanID, err)
			continue
		}

		stored, ok := byID[recomputed.PlanID]
		if !ok {
			p.errorf("request %d: plan %q not found in result fixture", i, recomputed.PlanID)
			continue
		}
		comparePlans(p, recomputed, stored)
	}
	return p
}

func computeRequest(tfm *pipeline.PlanTransformer, req domain.RawPlanRequest) (domain.PlanResult, error) {
	payload, err := json.Marshal(req)
	if err != nil {
		return domain.PlanResult{}, fmt.Errorf("marshal: %w", err)
	}
	pr, err := domain.ParseRawPlanRequest(domain.RawEvent{Value: payload})
	if err != nil {
		return domain.PlanResult{}, fmt.Errorf("parse: %w", err)
	}
	return tfm.Compute(pr), nil
}

func comparePlans(p *phase, recomputed domain.PlanResult, stored *domain.PlanResult) {
	id := recomputed.PlanID
	a, b := recomputed.Envelope, stored.Envelope

	if a.MinutesSinceLKP != b.MinutesSinceLKP {
		p.errorf("plan %s: minutes_since_lkp: expected %d, got %d", id, a.MinutesSinceLKP, b.MinutesSinceLKP)
	}
	if a.ConfidenceScore != b.ConfidenceScore {
		p.errorf("plan %s: confidence_score: expected %d, got %d", id, a.ConfidenceScore, b.ConfidenceScore)
	}
	if a.ConfidenceBand != b.ConfidenceBand {
		p.errorf("plan %s: confidence_band: expected %q, got %q", id, a.ConfidenceBand, b.ConfidenceBand)
	}
	if !floatEq(a.DownwindDeg, b.DownwindDeg) {
		p.errorf("plan %s: downwind_deg: expected %g, got %g", id, a.DownwindDeg, b.DownwindDeg)
	}
	if len(a.Polygons.Core) != len(b.Polygons.Core) {
		p.errorf("plan %s: core polygon size: expected %d, got %d", id, len(a.Polygons.Core), len(b.Polygons.Core))
	}
}

// ── Phase 3: Model Invariants ──
// Checks the geometric and scoring invariants every result must satisfy.

func validateModelInvariants(results []domain.PlanResult) *phase {
	p := &phase{name: "Phase 3: Model Invariants"}

	for i := range results {
		checkResultInvariants(p, i, &results[i])
	}
	return p
}

func checkResultInvariants(p *phase, i int, r *domain.PlanResult) {
	pf := func(format string, args ...any) {
		p.errorf("result %d (plan %s): "+format, append([]any{i, r.PlanID}, args...)...)
	}

	env := &r.Envelope
	if env.ConfidenceScore < 5 || env.ConfidenceScore > 100 {
		pf("confidence_score %d outside [5, 100]", env.ConfidenceScore)
	}
	switch {
	case env.ConfidenceScore >= 70 && env.ConfidenceBand != domain.BandHigh:
		pf("score %d should map to High, got %q", env.ConfidenceScore, env.ConfidenceBand)
	case env.ConfidenceScore >= 40 && env.ConfidenceScore < 70 && env.ConfidenceBand != domain.BandModerate:
		pf("score %d should map to Moderate, got %q", env.ConfidenceScore, env.ConfidenceBand)
	case env.ConfidenceScore < 40 && env.ConfidenceBand != domain.BandLow:
		pf("score %d should map to Low, got %q", env.ConfidenceScore, env.ConfidenceBand)
	}

	checkPolygon(pf, "core", env.Polygons.Core, r.LKP)
	checkPolygon(pf, "fringe", env.Polygons.Fringe, r.LKP)
	checkPolygon(pf, "residual", env.Polygons.Residual, r.LKP)

	if reach(env.Polygons.Core, r.LKP) > reach(env.Polygons.Fringe, r.LKP)+1e-9 {
		pf("core polygon reaches beyond fringe")
	}
	if reach(env.Polygons.Fringe, r.LKP) > reach(env.Polygons.Residual, r.LKP)+1e-9 {
		pf("fringe polygon reaches beyond residual")
	}

	if len(env.RecommendedStartPoints) != 3 {
		pf("expected 3 start points, got %d", len(env.RecommendedStartPoints))
	}
	if env.ResetRecommendationMinutes <= 0 {
		pf("reset recommendation must be positive, got %d", env.ResetRecommendationMinutes)
	}
	if env.DownwindDeg < 0 || env.DownwindDeg >= 360 {
		pf("downwind_deg %g outside [0, 360)", env.DownwindDeg)
	}
}

func checkPolygon(pf func(string, ...any), name string, poly []domain.GeoPoint, lkp domain.GeoPoint) {
	if len(poly) < 3 {
		pf("%s polygon has %d vertices", name, len(poly))
		return
	}
	if poly[0] != lkp || poly[len(poly)-1] != lkp {
		pf("%s polygon is not closed at the LKP", name)
	}
}

// reach returns the maximum angular distance of a polygon vertex from
// the LKP, as a cheap proxy for zone extent.
func reach(poly []domain.GeoPoint, lkp domain.GeoPoint) float64 {
	max := 0.0
	for _, pt := range poly {
		d := math.Hypot(pt.Lat-lkp.Lat, pt.Lon-lkp.Lon)
		if d > max {
			max = d
		}
	}
	return max
}

// ── Phase 4: Determinism ──
// Computes every request twice and verifies byte-identical output.

func validateDeterminism(requests []domain.RawPlanRequest) *phase {
	p := &phase{name: "Phase 4: Determinism"}

	tfm := pipeline.NewTransformer(0, slog.Default())
	for i, req := range requests {
		first, err := computeRequest(tfm, req)
		if err != nil {
			p.errorf("request %d (%s): %v", i, req.PlanID, err)
			continue
		}
		second, err := computeRequest(tfm, req)
		if err != nil {
			p.errorf("request %d (%s): recompute: %v", i, req.PlanID, err)
			continue
		}

		a, errA := json.Marshal(first)
		b, errB := json.Marshal(second)
		if errA != nil || errB != nil {
			p.errorf("request %d (%s): marshal error", i, req.PlanID)
			continue
		}
		if string(a) != string(b) {
			p.errorf("request %d (%s): repeated computation differs", i, req.PlanID)
		}
	}
	return p
}

func floatEq(a, b float64) bool {
	return math.Abs(a-b) < 1e-9
}
