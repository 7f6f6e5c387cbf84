package pipeline

import (
	"context"
	"errors"
	"log/slog"
	"sync/atomic"
	"time"

	"github.com/couchcryptid/scent-plan-service/internal/domain"
	"github.com/couchcryptid/scent-plan-service/internal/observability"
)

// Backoff bounds for source/sink failures. Keeps retry storms short
// without tight-looping during a broker outage.
const (
	initialBackoff = 200 * time.Millisecond
	maxBackoff     = 5 * time.Second
)

// BatchExtractor reads up to batchSize raw plan requests from the source.
type BatchExtractor interface {
	ExtractBatch(ctx context.Context, batchSize int) ([]domain.RawEvent, error)
}

// Transformer converts a raw plan request into a serialized plan result.
type Transformer interface {
	Transform(ctx context.Context, raw domain.RawEvent) (domain.OutputEvent, error)
}

// BatchLoader writes plan results to the destination.
type BatchLoader interface {
	LoadBatch(ctx context.Context, events []domain.OutputEvent) error
}

// Pipeline runs the extract-compute-load loop for streaming plan requests.
type Pipeline struct {
	extractor   BatchExtractor
	transformer Transformer
	loader      BatchLoader
	logger      *slog.Logger
	metrics     *observability.Metrics
	batchSize   int

	ready   atomic.Bool
	backoff time.Duration
}

// New assembles a Pipeline from its stages.
func New(e BatchExtractor, t Transformer, l BatchLoader, logger *slog.Logger, metrics *observability.Metrics, batchSize int) *Pipeline {
	return &Pipeline{
		extractor:   e,
		transformer: t,
		loader:      l,
		logger:      logger,
		metrics:     metrics,
		batchSize:   batchSize,
		backoff:     initialBackoff,
	}
}

// CheckReadiness reports whether at least one plan has been computed
// and published since startup.
func (p *Pipeline) CheckReadiness(_ context.Context) error {
	if !p.ready.Load() {
		return errors.New("no plan requests processed yet")
	}
	return nil
}

// Run executes the batch loop until the context is cancelled.
func (p *Pipeline) Run(ctx context.Context) error {
	p.logger.Info("plan pipeline started", "batch_size", p.batchSize)
	p.metrics.PipelineRunning.Set(1)
	defer p.metrics.PipelineRunning.Set(0)

	for ctx.Err() == nil {
		if err := p.runBatch(ctx); err != nil {
			if ctx.Err() != nil {
				break
			}
			p.logger.Error("batch failed", "error", err)
			if !p.sleepBackoff(ctx) {
				break
			}
		}
	}

	p.logger.Info("plan pipeline stopping", "reason", ctx.Err())
	return nil
}

// runBatch performs one extract-compute-load cycle. Requests that fail
// to parse are logged, counted, and committed so a poison message
// cannot wedge the partition.
func (p *Pipeline) runBatch(ctx context.Context) error {
	start := time.Now()

	batch, err := p.extractor.ExtractBatch(ctx, p.batchSize)
	if err != nil {
		return err
	}
	if len(batch) == 0 {
		return nil
	}

	p.metrics.RequestsConsumed.Add(float64(len(batch)))
	p.metrics.BatchSize.Observe(float64(len(batch)))
	p.backoff = initialBackoff

	results := make([]domain.OutputEvent, 0, len(batch))
	computed := make([]domain.RawEvent, 0, len(batch))

	for _, raw := range batch {
		out, err := p.transformer.Transform(ctx, raw)
		if err != nil {
			p.logger.Warn("plan request skipped",
				"error", err,
				"topic", raw.Topic,
				"partition", raw.Partition,
				"offset", raw.Offset,
			)
			p.metrics.ComputeErrors.Inc()
			p.commit(ctx, raw)
			continue
		}
		p.observeResult(out)
		results = append(results, out)
		computed = append(computed, raw)
	}

	if len(results) == 0 {
		return nil
	}

	if err := p.loader.LoadBatch(ctx, results); err != nil {
		return err
	}

	p.metrics.ResultsProduced.Add(float64(len(results)))
	p.metrics.BatchDuration.Observe(time.Since(start).Seconds())
	for _, raw := range computed {
		p.commit(ctx, raw)
	}
	p.ready.Store(true)
	return nil
}

// observeResult records per-plan confidence metrics from the sink
// message headers, avoiding a second deserialization.
func (p *Pipeline) observeResult(out domain.OutputEvent) {
	if band, ok := out.Headers["confidence_band"]; ok {
		p.metrics.PlansByBand.WithLabelValues(band).Inc()
	}
}

// commit acknowledges a source message when a commit callback is present.
func (p *Pipeline) commit(ctx context.Context, raw domain.RawEvent) {
	if raw.Commit == nil {
		return
	}
	if err := raw.Commit(ctx); err != nil {
		p.logger.Warn("commit offset failed", "error", err,
			"topic", raw.Topic, "partition", raw.Partition, "offset", raw.Offset)
	}
}

// sleepBackoff waits for the current backoff, doubling it up to the
// cap. Returns false when the context is cancelled mid-sleep.
func (p *Pipeline) sleepBackoff(ctx context.Context) bool {
	timer := time.NewTimer(p.backoff)
	defer timer.Stop()

	if next := p.backoff * 2; next <= maxBackoff {
		p.backoff = next
	} else {
		p.backoff = maxBackoff
	}

	select {
	case <-ctx.Done():
		return false
	case <-timer.C:
		return true
	}
}
