package pipeline_test

import (
	"context"
	"errors"
	"log/slog"
	"sync/atomic"
	"testing"
	"time"

	"github.com/couchcryptid/scent-plan-service/internal/domain"
	"github.com/couchcryptid/scent-plan-service/internal/observability"
	"github.com/couchcryptid/scent-plan-service/internal/pipeline"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// --- mocks ---

type mockExtractor struct {
	batches [][]domain.RawEvent
	index   atomic.Int64
}

func (m *mockExtractor) ExtractBatch(ctx context.Context, _ int) ([]domain.RawEvent, error) {
	i := int(m.index.Add(1) - 1)
	if i >= len(m.batches) {
		// block until context cancelled to simulate waiting for messages
		<-ctx.Done()
		return nil, ctx.Err()
	}
	return m.batches[i], nil
}

type mockTransformer struct {
	err error
}

func (m *mockTransformer) Transform(_ context.Context, raw domain.RawEvent) (domain.OutputEvent, error) {
	if m.err != nil {
		return domain.OutputEvent{}, m.err
	}
	return domain.OutputEvent{
		Key:     raw.Key,
		Value:   raw.Value,
		Headers: map[string]string{"confidence_band": string(domain.BandModerate)},
	}, nil
}

type mockLoader struct {
	loaded   []domain.OutputEvent
	failures int
}

func (m *mockLoader) LoadBatch(_ context.Context, events []domain.OutputEvent) error {
	if m.failures > 0 {
		m.failures--
		return errors.New("sink unavailable")
	}
	m.loaded = append(m.loaded, events...)
	return nil
}

func newTestMetrics() *observability.Metrics {
	// Use a fresh registry to avoid "already registered" panics in tests.
	return observability.NewMetricsForTesting()
}

// --- tests ---

func TestPipeline_Run_HappyPath(t *testing.T) {
	batch := []domain.RawEvent{
		makeRawRequest(t, "plan-a"),
		makeRawRequest(t, "plan-b"),
	}

	ext := &mockExtractor{batches: [][]domain.RawEvent{batch}}
	tfm := &mockTransformer{}
	ldr := &mockLoader{}
	metrics := newTestMetrics()

	p := pipeline.New(ext, tfm, ldr, slog.Default(), metrics, 50)

	ctx, cancel := context.WithTimeout(context.Background(), 500*time.Millisecond)
	defer cancel()

	err := p.Run(ctx)
	require.NoError(t, err)
	require.Len(t, ldr.loaded, 2)
	assert.Equal(t, []byte("plan-a"), ldr.loaded[0].Key)
	assert.NoError(t, p.CheckReadiness(context.Background()))
}

func TestPipeline_Run_ContextCancellation(t *testing.T) {
	ext := &mockExtractor{} // no batches, will block
	tfm := &mockTransformer{}
	ldr := &mockLoader{}
	metrics := newTestMetrics()

	p := pipeline.New(ext, tfm, ldr, slog.Default(), metrics, 50)

	ctx, cancel := context.WithCancel(context.Background())
	cancel() // cancel immediately

	err := p.Run(ctx)
	require.NoError(t, err)
	assert.Empty(t, ldr.loaded)
	assert.Error(t, p.CheckReadiness(context.Background()))
}

func TestPipeline_Run_PoisonRequestSkippedAndCommitted(t *testing.T) {
	committed := false
	poison := domain.RawEvent{
		Value: []byte("{nope"),
		Commit: func(_ context.Context) error {
			committed = true
			return nil
		},
	}

	ext := &mockExtractor{batches: [][]domain.RawEvent{{poison}}}
	tfm := &mockTransformer{err: errors.New("bad payload")}
	ldr := &mockLoader{}
	metrics := newTestMetrics()

	p := pipeline.New(ext, tfm, ldr, slog.Default(), metrics, 50)

	ctx, cancel := context.WithTimeout(context.Background(), 500*time.Millisecond)
	defer cancel()

	err := p.Run(ctx)
	require.NoError(t, err)
	assert.Empty(t, ldr.loaded)
	assert.True(t, committed, "poison requests must still be committed")
	assert.Error(t, p.CheckReadiness(context.Background()))
}

func TestPipeline_Run_CommitsAfterLoad(t *testing.T) {
	commitCalled := false

	raw := makeRawRequest(t, "plan-c")
	raw.Topic = "scent-plan-requests"
	raw.Commit = func(_ context.Context) error {
		commitCalled = true
		return nil
	}

	ext := &mockExtractor{batches: [][]domain.RawEvent{{raw}}}
	tfm := &mockTransformer{}
	ldr := &mockLoader{}
	metrics := newTestMetrics()

	p := pipeline.New(ext, tfm, ldr, slog.Default(), metrics, 50)

	ctx, cancel := context.WithTimeout(context.Background(), 500*time.Millisecond)
	defer cancel()

	err := p.Run(ctx)
	require.NoError(t, err)
	assert.True(t, commitCalled)
}

func TestPipeline_Run_RetriesAfterLoadFailure(t *testing.T) {
	batch := []domain.RawEvent{makeRawRequest(t, "plan-d")}

	// Same batch twice: the first load attempt fails, the retry succeeds.
	ext := &mockExtractor{batches: [][]domain.RawEvent{batch, batch}}
	tfm := &mockTransformer{}
	ldr := &mockLoader{failures: 1}
	metrics := newTestMetrics()

	p := pipeline.New(ext, tfm, ldr, slog.Default(), metrics, 50)

	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()

	err := p.Run(ctx)
	require.NoError(t, err)
	require.Len(t, ldr.loaded, 1)
	assert.NoError(t, p.CheckReadiness(context.Background()))
}

// --- helpers ---

func makeRawRequest(t *testing.T, planID string) domain.RawEvent {
	t.Helper()
	body := `{
		"plan_id": "` + planID + `",
		"lkp": {"lat": 27.49, "lon": -82.45},
		"lkp_time": "2026-03-14T09:00:00Z",
		"wind": {"speed_mps": 4.47, "from_deg": 270},
		"conditions": {
			"temperature_f": 75,
			"rel_humidity_pct": 50,
			"cloud": "partly",
			"precip": "none",
			"terrain": "mixed",
			"stability": "neutral"
		}
	}`
	return domain.RawEvent{
		Key:   []byte(planID),
		Value: []byte(body),
	}
}
