package sink

import (
	"context"
	"errors"
	"fmt"

	"NewsCollector/internal/ports"
)

type namedSink struct {
	name string
	sink ports.ResultSink
}

// Multi fans a digest out to every registered sink and joins their errors.
type Multi struct {
	sinks []namedSink
}

var _ ports.ResultSink = (*Multi)(nil)

// Add registers a sink under a name used in error messages.
func (m *Multi) Add(name string, s ports.ResultSink) {
	m.sinks = append(m.sinks, namedSink{name: name, sink: s})
}

// Len reports how many sinks are registered.
func (m *Multi) Len() int {
	return len(m.sinks)
}

// Write calls every sink even when an earlier one fails.
func (m *Multi) Write(ctx context.Context, digest ports.Digest) error {
	var errs []error
	for _, s := range m.sinks {
		if err := s.sink.Write(ctx, digest); err != nil {
			errs = append(errs, fmt.Errorf("sink %s: %w", s.name, err))
		}
	}
	return errors.Join(errs...)
}

// Close closes the sinks that hold resources.
func (m *Multi) Close() error {
	var errs []error
	for _, s := range m.sinks {
		if c, ok := s.sink.(interface{ Close() error }); ok {
			if err := c.Close(); err != nil {
				errs = append(errs, fmt.Errorf("close sink %s: %w", s.name, err))
			}
		}
	}
	return errors.Join(errs...)
}
