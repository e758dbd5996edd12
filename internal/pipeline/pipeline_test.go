package pipeline_test

import (
	"context"
	"errors"
	"log/slog"
	"testing"
	"time"

	"github.com/couchcryptid/seismic-histogram/internal/domain"
	"github.com/couchcryptid/seismic-histogram/internal/observability"
	"github.com/couchcryptid/seismic-histogram/internal/pipeline"
	"github.com/google/go-cmp/cmp"
	"github.com/jonboulle/clockwork"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// --- mocks ---

type mockExtractor struct {
	events []domain.Event
	err    error
	calls  int
}

func (m *mockExtractor) Name() string { return "weedevent-new.txt" }

func (m *mockExtractor) Extract(_ context.Context) ([]domain.Event, error) {
	m.calls++
	return m.events, m.err
}

type mockRenderer struct {
	rendered []domain.Histogram
	failAt   int
	err      error
}

func (m *mockRenderer) Render(_ context.Context, hist domain.Histogram) error {
	if m.err != nil && hist.Threshold == m.failAt {
		return m.err
	}
	m.rendered = append(m.rendered, hist)
	return nil
}

type mockPublisher struct {
	failures  int
	attempts  int
	published []domain.Report
}

func (m *mockPublisher) Publish(_ context.Context, reports []domain.Report) error {
	m.attempts++
	if m.attempts <= m.failures {
		return errors.New("broker unavailable")
	}
	m.published = append(m.published, reports...)
	return nil
}

func sampleEvents() []domain.Event {
	return []domain.Event{
		{Year: 2000, Magnitude: 5.5},
		{Year: 2000, Magnitude: 6.5},
		{Year: 2001, Magnitude: 7.0},
	}
}

func freezeClock(t *testing.T) clockwork.Clock {
	t.Helper()
	c := clockwork.NewFakeClockAt(time.Date(2011, time.September, 19, 0, 0, 0, 0, time.UTC))
	domain.SetClock(c)
	t.Cleanup(func() { domain.SetClock(nil) })
	return c
}

// --- tests ---

func TestPipeline_Run_HappyPath(t *testing.T) {
	clock := freezeClock(t)
	ext := &mockExtractor{events: sampleEvents()}
	rdr := &mockRenderer{}
	metrics := observability.NewMetricsForTesting()

	p := pipeline.New(ext, rdr, nil, slog.Default(), metrics, 1)
	require.Error(t, p.CheckReadiness(context.Background()))

	result, err := p.Run(context.Background())
	require.NoError(t, err)

	assert.Equal(t, 1, ext.calls, "input is read exactly once")
	assert.Equal(t, domain.Range{StartYear: 2000, EndYear: 2001, LowMag: 5, HighMag: 7}, result.Range)
	assert.Equal(t, 3, result.Events)

	require.Len(t, rdr.rendered, 3)
	want := []map[int]int{
		{2000: 2, 2001: 1},
		{2000: 1, 2001: 1},
		{2000: 0, 2001: 1},
	}
	for i, hist := range rdr.rendered {
		assert.Equal(t, 5+i, hist.Threshold)
		if diff := cmp.Diff(want[i], hist.Map()); diff != "" {
			t.Errorf("threshold %d mismatch (-want +got):\n%s", hist.Threshold, diff)
		}
	}

	require.Len(t, result.Reports, 3)
	assert.Equal(t, "weedevent-new.txt", result.Reports[0].Source)
	assert.Equal(t, clock.Now(), result.Reports[0].GeneratedAt)

	require.NoError(t, p.CheckReadiness(context.Background()))
	assert.Equal(t, result.Reports, p.Reports())
	assert.InDelta(t, 3, testutil.ToFloat64(metrics.PlotsRendered), 1e-9)
	assert.InDelta(t, 3, testutil.ToFloat64(metrics.EventsParsed), 1e-9)
	assert.Zero(t, testutil.ToFloat64(metrics.SweepRunning))
}

func TestPipeline_Run_NoEvents(t *testing.T) {
	ext := &mockExtractor{}
	rdr := &mockRenderer{}
	pub := &mockPublisher{}

	p := pipeline.New(ext, rdr, pub, slog.Default(), observability.NewMetricsForTesting(), 1)

	result, err := p.Run(context.Background())
	require.NoError(t, err)
	assert.True(t, result.Range.Empty())
	assert.Equal(t, -1, result.Range.LowMag)
	assert.Empty(t, rdr.rendered)
	assert.Empty(t, result.Reports)
	assert.Zero(t, pub.attempts)
	assert.NoError(t, p.CheckReadiness(context.Background()))
}

func TestPipeline_Run_ExtractError(t *testing.T) {
	ext := &mockExtractor{err: errors.New("open: no such file")}
	p := pipeline.New(ext, &mockRenderer{}, nil, slog.Default(), observability.NewMetricsForTesting(), 1)

	_, err := p.Run(context.Background())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "extract events")
	assert.Error(t, p.CheckReadiness(context.Background()))
}

func TestPipeline_Run_RenderErrorStopsSweep(t *testing.T) {
	rdr := &mockRenderer{failAt: 6, err: errors.New("disk full")}
	metrics := observability.NewMetricsForTesting()
	p := pipeline.New(&mockExtractor{events: sampleEvents()}, rdr, nil, slog.Default(), metrics, 1)

	_, err := p.Run(context.Background())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "render threshold 6")
	assert.Len(t, rdr.rendered, 1)
	assert.InDelta(t, 1, testutil.ToFloat64(metrics.RenderErrors), 1e-9)
	assert.Error(t, p.CheckReadiness(context.Background()))
}

func TestPipeline_Run_CancelledContext(t *testing.T) {
	rdr := &mockRenderer{}
	p := pipeline.New(&mockExtractor{events: sampleEvents()}, rdr, nil, slog.Default(), observability.NewMetricsForTesting(), 1)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := p.Run(ctx)
	require.ErrorIs(t, err, context.Canceled)
	assert.Empty(t, rdr.rendered)
}

func TestPipeline_Run_PublishesReports(t *testing.T) {
	pub := &mockPublisher{}
	metrics := observability.NewMetricsForTesting()
	p := pipeline.New(&mockExtractor{events: sampleEvents()}, &mockRenderer{}, pub, slog.Default(), metrics, 3)

	_, err := p.Run(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 1, pub.attempts)
	require.Len(t, pub.published, 3)
	assert.Equal(t, 7, pub.published[2].Histogram.Threshold)
	assert.InDelta(t, 3, testutil.ToFloat64(metrics.ReportsPublished), 1e-9)
}

func TestPipeline_Run_RetriesPublish(t *testing.T) {
	pub := &mockPublisher{failures: 1}
	metrics := observability.NewMetricsForTesting()
	p := pipeline.New(&mockExtractor{events: sampleEvents()}, &mockRenderer{}, pub, slog.Default(), metrics, 2)

	_, err := p.Run(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 2, pub.attempts)
	assert.Len(t, pub.published, 3)
	assert.InDelta(t, 1, testutil.ToFloat64(metrics.PublishErrors), 1e-9)
}

func TestPipeline_Run_PublishGivesUp(t *testing.T) {
	pub := &mockPublisher{failures: 10}
	p := pipeline.New(&mockExtractor{events: sampleEvents()}, &mockRenderer{}, pub, slog.Default(), observability.NewMetricsForTesting(), 2)

	_, err := p.Run(context.Background())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "publish reports")
	assert.Contains(t, err.Error(), "broker unavailable")
	assert.Equal(t, 2, pub.attempts)
	assert.Error(t, p.CheckReadiness(context.Background()))
}

func TestPipeline_Run_PublishBackoffCancelled(t *testing.T) {
	pub := &mockPublisher{failures: 10}
	p := pipeline.New(&mockExtractor{events: sampleEvents()}, &mockRenderer{}, pub, slog.Default(), observability.NewMetricsForTesting(), 5)

	ctx, cancel := context.WithTimeout(context.Background(), 50*time.Millisecond)
	defer cancel()

	_, err := p.Run(ctx)
	require.ErrorIs(t, err, context.DeadlineExceeded)
	assert.Equal(t, 1, pub.attempts)
}
