// Package render draws seismic histograms as line charts with gonum/plot,
// either saved as PNG files or shown in an external image viewer.
package render

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"

	"github.com/couchcryptid/seismic-histogram/internal/domain"
	"gonum.org/v1/plot"
	"gonum.org/v1/plot/plotter"
	"gonum.org/v1/plot/vg"
)

const format = "png"

// Size is the canvas size of a rendered chart.
type Size struct {
	Width  vg.Length
	Height vg.Length
}

// SizeInches builds a Size from dimensions in inches.
func SizeInches(width, height float64) Size {
	return Size{Width: vg.Length(width) * vg.Inch, Height: vg.Length(height) * vg.Inch}
}

// Title is the chart title for a threshold.
func Title(threshold int) string {
	return fmt.Sprintf("seismic activity per year >= %d magnitude", threshold)
}

// FileName is the output file name for a threshold.
func FileName(threshold int) string {
	return fmt.Sprintf("seismic_%d.%s", threshold, format)
}

// NewPlot builds a gridded line chart of counts per year, in bin order.
func NewPlot(hist domain.Histogram) (*plot.Plot, error) {
	p := plot.New()
	p.Title.Text = Title(hist.Threshold)
	p.X.Label.Text = "year"
	p.Y.Label.Text = "count"
	p.Add(plotter.NewGrid())

	pts := make(plotter.XYs, len(hist.Bins))
	for i, b := range hist.Bins {
		pts[i].X = float64(b.Year)
		pts[i].Y = float64(b.Count)
	}
	line, err := plotter.NewLine(pts)
	if err != nil {
		return nil, fmt.Errorf("build line for threshold %d: %w", hist.Threshold, err)
	}
	line.LineStyle.Width = vg.Points(2)
	p.Add(line)
	return p, nil
}

// Encode writes the chart for hist to w as PNG.
func Encode(hist domain.Histogram, size Size, w io.Writer) error {
	p, err := NewPlot(hist)
	if err != nil {
		return err
	}
	return writePlot(p, size, w)
}

// FileRenderer saves each histogram as seismic_<threshold>.png in a directory.
// It implements pipeline.Renderer.
type FileRenderer struct {
	dir    string
	size   Size
	logger *slog.Logger
}

// NewFileRenderer creates a renderer writing into dir. An empty dir means the
// working directory.
func NewFileRenderer(dir string, size Size, logger *slog.Logger) *FileRenderer {
	if dir == "" {
		dir = "."
	}
	return &FileRenderer{dir: dir, size: size, logger: logger}
}

// Path returns where the chart for threshold is written.
func (r *FileRenderer) Path(threshold int) string {
	return filepath.Join(r.dir, FileName(threshold))
}

func (r *FileRenderer) Render(_ context.Context, hist domain.Histogram) error {
	p, err := NewPlot(hist)
	if err != nil {
		return err
	}
	path := r.Path(hist.Threshold)
	if err := savePlot(p, r.size, path); err != nil {
		return fmt.Errorf("save %s: %w", path, err)
	}
	r.logger.Debug("chart saved", "threshold", hist.Threshold, "path", path)
	return nil
}

func savePlot(p *plot.Plot, size Size, path string) error {
	output, err := os.Create(path)
	if err != nil {
		return err
	}
	return writeClosePlot(p, size, output)
}
