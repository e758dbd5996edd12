package pipeline

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync"
	"sync/atomic"
	"time"

	"github.com/couchcryptid/seismic-histogram/internal/domain"
	"github.com/couchcryptid/seismic-histogram/internal/observability"
	sharedretry "github.com/couchcryptid/storm-data-shared/retry"
)

// Extractor reads every event of a named source.
type Extractor interface {
	Name() string
	Extract(ctx context.Context) ([]domain.Event, error)
}

// Renderer draws one histogram, to a file or on screen.
type Renderer interface {
	Render(ctx context.Context, hist domain.Histogram) error
}

// Publisher ships the reports of a completed sweep downstream.
type Publisher interface {
	Publish(ctx context.Context, reports []domain.Report) error
}

// Result is the outcome of one sweep.
type Result struct {
	Source  string
	Range   domain.Range
	Events  int
	Reports []domain.Report
}

// Pipeline reads the events once, sweeps the magnitude thresholds, renders
// each histogram and optionally publishes the reports.
type Pipeline struct {
	extractor      Extractor
	renderer       Renderer
	publisher      Publisher
	logger         *slog.Logger
	metrics        *observability.Metrics
	publishRetries int
	ready          atomic.Bool

	mu   sync.RWMutex
	last Result
}

// New creates a Pipeline. Pass a nil publisher to skip publishing;
// publishRetries is the number of publish attempts (minimum 1).
func New(e Extractor, r Renderer, pub Publisher, logger *slog.Logger, metrics *observability.Metrics, publishRetries int) *Pipeline {
	return &Pipeline{
		extractor:      e,
		renderer:       r,
		publisher:      pub,
		logger:         logger,
		metrics:        metrics,
		publishRetries: max(publishRetries, 1),
	}
}

// CheckReadiness returns nil once a sweep has completed.
func (p *Pipeline) CheckReadiness(_ context.Context) error {
	if !p.ready.Load() {
		return errors.New("threshold sweep has not completed yet")
	}
	return nil
}

// Last returns the result of the most recent completed sweep.
func (p *Pipeline) Last() Result {
	p.mu.RLock()
	defer p.mu.RUnlock()
	return p.last
}

// Reports returns the reports of the most recent completed sweep.
func (p *Pipeline) Reports() []domain.Report {
	return p.Last().Reports
}

// Run performs one complete sweep.
func (p *Pipeline) Run(ctx context.Context) (Result, error) {
	start := time.Now()
	p.metrics.SweepRunning.Set(1)
	defer p.metrics.SweepRunning.Set(0)

	source := p.extractor.Name()
	p.logger.Debug("reading events", "source", source)

	events, err := p.extractor.Extract(ctx)
	if err != nil {
		return Result{}, fmt.Errorf("extract events: %w", err)
	}
	p.metrics.EventsParsed.Add(float64(len(events)))

	rng := domain.Summarize(events)
	result := Result{Source: source, Range: rng, Events: len(events)}
	p.logger.Debug("events summarized",
		"source", source,
		"events", len(events),
		"start_year", rng.StartYear,
		"end_year", rng.EndYear,
		"low_mag", rng.LowMag,
		"high_mag", rng.HighMag,
	)

	if rng.Empty() {
		p.logger.Warn("no events found, nothing to plot", "source", source)
		p.complete(result, start)
		return result, nil
	}

	hists := domain.Sweep(events, rng)
	result.Reports = make([]domain.Report, 0, len(hists))
	for _, hist := range hists {
		if err := ctx.Err(); err != nil {
			return Result{}, err
		}
		p.logger.Debug("rendering histogram", "threshold", hist.Threshold, "events", hist.Total())
		p.metrics.ThresholdsSwept.Inc()

		if err := p.renderer.Render(ctx, hist); err != nil {
			p.metrics.RenderErrors.Inc()
			return Result{}, fmt.Errorf("render threshold %d: %w", hist.Threshold, err)
		}
		p.metrics.PlotsRendered.Inc()
		result.Reports = append(result.Reports, domain.NewReport(source, rng, len(events), hist))
	}

	if p.publisher != nil {
		if err := p.publish(ctx, result.Reports); err != nil {
			return Result{}, fmt.Errorf("publish reports: %w", err)
		}
	}

	p.complete(result, start)
	p.logger.Info("sweep complete",
		"source", source,
		"events", len(events),
		"thresholds", len(result.Reports),
		"duration", time.Since(start),
	)
	return result, nil
}

func (p *Pipeline) complete(result Result, start time.Time) {
	p.mu.Lock()
	p.last = result
	p.mu.Unlock()

	p.metrics.LastSweepEvents.Set(float64(result.Events))
	p.metrics.SweepDuration.Observe(time.Since(start).Seconds())
	p.ready.Store(true)
}

// publish retries with exponential backoff: start at 200ms, double each
// attempt, cap at 5s.
func (p *Pipeline) publish(ctx context.Context, reports []domain.Report) error {
	backoff := 200 * time.Millisecond
	maxBackoff := 5 * time.Second

	var err error
	for attempt := 1; attempt <= p.publishRetries; attempt++ {
		if err = p.publisher.Publish(ctx, reports); err == nil {
			p.metrics.ReportsPublished.Add(float64(len(reports)))
			return nil
		}
		p.metrics.PublishErrors.Inc()
		p.logger.Warn("publish failed", "error", err, "attempt", attempt, "max_attempts", p.publishRetries)

		if attempt == p.publishRetries {
			break
		}
		if !sharedretry.SleepWithContext(ctx, backoff) {
			return ctx.Err()
		}
		backoff = sharedretry.NextBackoff(backoff, maxBackoff)
	}
	return err
}
