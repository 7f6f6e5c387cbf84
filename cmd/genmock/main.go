// Command genmock generates mock plan-request fixtures and their computed
// plan results. It uses the actual envelope model so the results fixture
// matches real pipeline behavior. Only the requests fixture is checked in;
// run genmock to produce the results fixture consumed by cmd/validate.
//
// Usage:
//
//	go run ./cmd/genmock \
//	  -requests-out data/mock/plan_requests.json \
//	  -results-out data/mock/plan_results.json
package main

import (
	"encoding/json"
	"flag"
	"fmt"
	"log"
	"log/slog"
	"os"
	"path/filepath"
	"time"

	"github.com/couchcryptid/scent-plan-service/internal/domain"
	"github.com/couchcryptid/scent-plan-service/internal/pipeline"
	"github.com/jonboulle/clockwork"
)

// evalTime is the frozen evaluation instant shared with cmd/validate so
// generated plan IDs and scores are reproducible.
var evalTime = time.Date(2026, time.March, 14, 10, 0, 0, 0, time.UTC)

// baseLKP anchors the scenario grid near the Manatee County coastline.
var baseLKP = domain.GeoPoint{Lat: 27.49, Lon: -82.45}

func main() {
	if err := run(); err != nil {
		log.Fatal(err)
	}
}

func run() error {
	requestsOut := flag.String("requests-out", "", "output path for raw plan request fixture")
	resultsOut := flag.String("results-out", "", "output path for computed plan result fixture")
	flag.Parse()

	if *requestsOut == "" || *resultsOut == "" {
		flag.Usage()
		return fmt.Errorf("missing required flags: -requests-out, -results-out")
	}

	pipeline.SetClock(clockwork.NewFakeClockAt(evalTime))
	defer pipeline.SetClock(nil)

	requests := buildScenarioGrid()
	tfm := pipeline.NewTransformer(0, slog.Default())
	results := make([]domain.PlanResult, 0, len(requests))
	for i, req := range requests {
		payload, err := json.Marshal(req)
		if err != nil {
			return fmt.Errorf("marshal request %d: %w", i, err)
		}
		pr, err := domain.ParseRawPlanRequest(domain.RawEvent{Value: payload})
		if err != nil {
			return fmt.Errorf("parse request %d: %w", i, err)
		}
		results = append(results, tfm.Compute(pr))
	}

	if err := writeJSON(*requestsOut, requests); err != nil {
		return fmt.Errorf("writing request fixture: %w", err)
	}
	log.Printf("wrote request fixture: %s (%d requests)", *requestsOut, len(requests))

	if err := writeJSON(*resultsOut, results); err != nil {
		return fmt.Errorf("writing result fixture: %w", err)
	}
	log.Printf("wrote result fixture: %s", *resultsOut)

	printStats(results)
	return nil
}

// buildScenarioGrid produces a deterministic spread of plan requests
// covering every terrain, stability, cloud, and precipitation tag and a
// range of elapsed times and wind speeds. Categorical options are
// cycled by index so rerunning genmock always yields the same fixture.
func buildScenarioGrid() []domain.RawPlanRequest {
	elapsed := []time.Duration{
		10 * time.Minute,
		45 * time.Minute,
		90 * time.Minute,
		4 * time.Hour,
		8 * time.Hour,
	}
	windMPS := []float64{0, 1.5, 4.47, 9.0}
	terrains := []domain.Terrain{
		domain.TerrainOpen, domain.TerrainForest, domain.TerrainUrban,
		domain.TerrainSwamp, domain.TerrainBeach, domain.TerrainMixed,
	}
	stabilities := []domain.Stability{
		domain.StabilityStable, domain.StabilityNeutral, domain.StabilityConvective,
	}
	clouds := []domain.Cloud{
		domain.CloudClear, domain.CloudPartly, domain.CloudOvercast, domain.CloudNight,
	}
	precips := []domain.Precip{
		domain.PrecipNone, domain.PrecipLight, domain.PrecipModerate, domain.PrecipHeavy,
	}

	var requests []domain.RawPlanRequest
	i := 0
	for _, el := range elapsed {
		for _, w := range windMPS {
			req := domain.RawPlanRequest{
				PlanID: fmt.Sprintf("mock-%03d", i+1),
				LKP: domain.GeoPoint{
					Lat: baseLKP.Lat + float64(i%7)*0.01,
					Lon: baseLKP.Lon - float64(i%5)*0.01,
				},
				LKPTime:     evalTime.Add(-el),
				EvaluatedAt: evalTime,
				Wind: domain.WindObservation{
					SpeedMPS:   w,
					FromDeg:    float64((i * 45) % 360),
					ObservedAt: evalTime.Add(-5 * time.Minute),
				},
				Conditions: domain.Conditions{
					TemperatureF:   50 + float64(i%5)*10,
					RelHumidityPct: 30 + float64(i%6)*12,
					Cloud:          clouds[i%len(clouds)],
					Precip:         precips[i%len(precips)],
					RecentRain:     i%5 == 0,
					Terrain:        terrains[i%len(terrains)],
					Stability:      stabilities[i%len(stabilities)],
				},
			}
			requests = append(requests, req)
			i++
		}
	}
	return requests
}

func writeJSON(path string, v any) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return err
	}
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return err
	}
	data = append(data, '\n')
	return os.WriteFile(path, data, 0o600)
}

func printStats(results []domain.PlanResult) {
	bandCounts := map[domain.Band]int{}
	minScore, maxScore := 100, 0
	for i := range results {
		env := &results[i].Envelope
		bandCounts[env.ConfidenceBand]++
		if env.ConfidenceScore < minScore {
			minScore = env.ConfidenceScore
		}
		if env.ConfidenceScore > maxScore {
			maxScore = env.ConfidenceScore
		}
	}

	fmt.Println("\n=== Stats for updating test assertions ===")
	fmt.Printf("Total: %d\n", len(results))
	fmt.Printf("By band: high=%d, moderate=%d, low=%d\n",
		bandCounts[domain.BandHigh], bandCounts[domain.BandModerate], bandCounts[domain.BandLow])
	fmt.Printf("Score range: %d..%d\n", minScore, maxScore)
}
