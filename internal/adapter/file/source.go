// Package file reads WEED event files from the local filesystem.
package file

import (
	"context"
	"fmt"
	"log/slog"
	"os"

	"github.com/couchcryptid/seismic-histogram/internal/domain"
)

// Source parses an event file once per Extract call.
// It implements pipeline.Extractor.
type Source struct {
	path   string
	logger *slog.Logger
}

// NewSource creates a Source for the file at path.
func NewSource(path string, logger *slog.Logger) *Source {
	return &Source{path: path, logger: logger}
}

// Name returns the file path, used to label reports.
func (s *Source) Name() string {
	return s.path
}

// Extract reads and parses every record in the file.
func (s *Source) Extract(ctx context.Context) ([]domain.Event, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	f, err := os.Open(s.path)
	if err != nil {
		return nil, fmt.Errorf("open: %w", err)
	}
	defer f.Close()

	events, err := domain.ReadEvents(f)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", s.path, err)
	}
	s.logger.Debug("event file read", "path", s.path, "events", len(events))
	return events, nil
}
