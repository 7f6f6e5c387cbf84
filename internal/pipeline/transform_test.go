package pipeline_test

import (
	"context"
	"encoding/json"
	"log/slog"
	"strings"
	"testing"
	"time"

	"github.com/couchcryptid/scent-plan-service/internal/domain"
	"github.com/couchcryptid/scent-plan-service/internal/pipeline"
	"github.com/jonboulle/clockwork"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func frozenClock(t *testing.T, at time.Time) clockwork.Clock {
	t.Helper()
	fake := clockwork.NewFakeClockAt(at)
	pipeline.SetClock(fake)
	t.Cleanup(func() {
		pipeline.SetClock(nil)
	})
	return fake
}

func TestPlanTransformer_Transform(t *testing.T) {
	now := time.Date(2026, time.March, 14, 10, 0, 0, 0, time.UTC)
	frozenClock(t, now)

	tfm := pipeline.NewTransformer(0, slog.Default())
	out, err := tfm.Transform(context.Background(), makeRawRequest(t, "sar-42"))
	require.NoError(t, err)

	assert.Equal(t, []byte("sar-42"), out.Key)
	assert.Equal(t, now.Format(time.RFC3339), out.Headers["computed_at"])
	assert.Contains(t, []string{"High", "Moderate", "Low"}, out.Headers["confidence_band"])

	var result domain.PlanResult
	require.NoError(t, json.Unmarshal(out.Value, &result))
	assert.Equal(t, "sar-42", result.PlanID)
	assert.Equal(t, now, result.ComputedAt)
	assert.NotEmpty(t, result.Envelope.Polygons.Core)
}

func TestPlanTransformer_Transform_InvalidPayload(t *testing.T) {
	tfm := pipeline.NewTransformer(0, slog.Default())
	_, err := tfm.Transform(context.Background(), domain.RawEvent{Value: []byte("{nope")})
	assert.Error(t, err)
}

func TestPlanTransformer_Compute_StampsEvaluatedAtOnce(t *testing.T) {
	now := time.Date(2026, time.March, 14, 10, 0, 0, 0, time.UTC)
	frozenClock(t, now)

	pr, err := domain.ParseRawPlanRequest(makeRawRequest(t, "sar-43"))
	require.NoError(t, err)
	require.True(t, pr.Request.EvaluatedAt.IsZero())

	tfm := pipeline.NewTransformer(0, slog.Default())
	result := tfm.Compute(pr)

	assert.Equal(t, now, result.EvaluatedAt)
	// One hour after the 09:00Z LKP time.
	assert.Equal(t, 60, result.Envelope.MinutesSinceLKP)
}

func TestPlanTransformer_Compute_PreservesExplicitEvaluatedAt(t *testing.T) {
	now := time.Date(2026, time.March, 14, 12, 0, 0, 0, time.UTC)
	frozenClock(t, now)

	body := `{
		"plan_id": "sar-44",
		"lkp": {"lat": 27.49, "lon": -82.45},
		"lkp_time": "2026-03-14T09:00:00Z",
		"evaluated_at": "2026-03-14T09:30:00Z",
		"wind": {"speed_mps": 4.47, "from_deg": 270},
		"conditions": {"temperature_f": 75, "rel_humidity_pct": 50}
	}`

	pr, err := domain.ParseRawPlanRequest(domain.RawEvent{Value: []byte(body)})
	require.NoError(t, err)

	tfm := pipeline.NewTransformer(0, slog.Default())
	result := tfm.Compute(pr)

	assert.Equal(t, time.Date(2026, 3, 14, 9, 30, 0, 0, time.UTC), result.EvaluatedAt)
	assert.Equal(t, 30, result.Envelope.MinutesSinceLKP)
}

func TestPlanTransformer_Compute_AppliesConfiguredFanSamples(t *testing.T) {
	frozenClock(t, time.Date(2026, time.March, 14, 10, 0, 0, 0, time.UTC))

	pr, err := domain.ParseRawPlanRequest(makeRawRequest(t, "sar-45"))
	require.NoError(t, err)

	tfm := pipeline.NewTransformer(10, slog.Default())
	result := tfm.Compute(pr)

	// LKP + 10 arc samples + closing LKP.
	assert.Len(t, result.Envelope.Polygons.Core, 12)
}

func TestPlanTransformer_Compute_PerRequestFanSamplesWins(t *testing.T) {
	frozenClock(t, time.Date(2026, time.March, 14, 10, 0, 0, 0, time.UTC))

	raw := makeRawRequest(t, "sar-46")
	raw.Value = []byte(strings.Replace(string(raw.Value), `"lkp"`, `"fan_samples": 10, "lkp"`, 1))
	pr, err := domain.ParseRawPlanRequest(raw)
	require.NoError(t, err)

	tfm := pipeline.NewTransformer(40, slog.Default())
	result := tfm.Compute(pr)

	assert.Len(t, result.Envelope.Polygons.Core, 12)
}
