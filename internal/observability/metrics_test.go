package observability

import (
	"context"
	"log/slog"
	"testing"

	"github.com/couchcryptid/seismic-histogram/internal/config"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
)

func TestNewMetricsForTesting_Independent(t *testing.T) {
	a := NewMetricsForTesting()
	b := NewMetricsForTesting()

	a.PlotsRendered.Inc()
	a.PlotsRendered.Inc()

	assert.InDelta(t, 2, testutil.ToFloat64(a.PlotsRendered), 1e-9)
	assert.Zero(t, testutil.ToFloat64(b.PlotsRendered))
}

func TestNewLogger_DebugWhenVerbose(t *testing.T) {
	logger := NewLogger(&config.Config{LogLevel: "debug", LogFormat: "text"})
	assert.True(t, logger.Enabled(context.Background(), slog.LevelDebug))
}
