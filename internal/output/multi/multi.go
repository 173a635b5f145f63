package multi

import (
	"context"
	"errors"
	"fmt"

	"github.com/hejijunhao/logsentry/internal/output"
)

// Multi fans out a report to several outputs, for example the console and
// a webhook. If one output fails, the remaining outputs still receive it.
type Multi struct {
	outputs []output.Output
}

// New creates a Multi that fans out to the given outputs.
func New(outputs ...output.Output) *Multi {
	return &Multi{outputs: outputs}
}

// Write delivers the report to every output in order. A failing output is
// reported by its position and does not stop delivery to the rest.
func (m *Multi) Write(ctx context.Context, r output.Report) error {
	return m.each(func(o output.Output) error { return o.Write(ctx, r) })
}

// Close closes every output, collecting errors.
func (m *Multi) Close() error {
	return m.each(output.Output.Close)
}

func (m *Multi) each(fn func(output.Output) error) error {
	var errs []error
	for i, o := range m.outputs {
		if err := fn(o); err != nil {
			errs = append(errs, fmt.Errorf("multi: output %d: %w", i, err))
		}
	}
	return errors.Join(errs...)
}
