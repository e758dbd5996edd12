package render

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"os/exec"
	"strings"

	"github.com/couchcryptid/seismic-histogram/internal/domain"
)

// ViewerRenderer shows each chart in an external image viewer and blocks
// until the viewer exits. The chart lives in a temp file for that duration.
// It implements pipeline.Renderer.
type ViewerRenderer struct {
	command []string
	size    Size
	logger  *slog.Logger
}

// NewViewerRenderer creates a renderer that runs command with the chart path
// appended, e.g. "display" or "feh --scale-down".
func NewViewerRenderer(command string, size Size, logger *slog.Logger) (*ViewerRenderer, error) {
	fields := strings.Fields(command)
	if len(fields) == 0 {
		return nil, errors.New("viewer command is empty")
	}
	return &ViewerRenderer{command: fields, size: size, logger: logger}, nil
}

func (r *ViewerRenderer) Render(ctx context.Context, hist domain.Histogram) (err error) {
	p, err := NewPlot(hist)
	if err != nil {
		return err
	}

	f, err := os.CreateTemp("", fmt.Sprintf("seismic_%d-*.%s", hist.Threshold, format))
	if err != nil {
		return fmt.Errorf("create temp chart: %w", err)
	}
	defer func() {
		err = combineErrors(err, os.Remove(f.Name()))
	}()
	if err := writeClosePlot(p, r.size, f); err != nil {
		return fmt.Errorf("write temp chart: %w", err)
	}

	args := append(append([]string{}, r.command[1:]...), f.Name())
	r.logger.Debug("opening chart viewer", "threshold", hist.Threshold, "command", r.command[0], "path", f.Name())
	if err := exec.CommandContext(ctx, r.command[0], args...).Run(); err != nil {
		return fmt.Errorf("run viewer %s: %w", r.command[0], err)
	}
	return nil
}
