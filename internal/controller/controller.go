package controller

import (
	"context"
	"fmt"
	"io"

	"solvet.dev/pkg/solvet/internal/analysis"
	"solvet.dev/pkg/solvet/internal/model"
	"solvet.dev/pkg/solvet/internal/report"
)

// Controller runs one analysis end to end: engine, renderer, UI.
type Controller struct {
	engine *analysis.Engine
	ui     UI
}

// New wires a controller.
func New(engine *analysis.Engine, ui UI) *Controller {
	return &Controller{engine: engine, ui: ui}
}

// Run executes the pipeline and renders the report in the given format to
// out. The returned report lets callers derive an exit code from the
// summary.
func (c *Controller) Run(ctx context.Context, cfg analysis.Config, format string, out io.Writer) (*model.Report, error) {
	renderer, err := report.ForFormat(format, c.engine.Registry().Descriptors())
	if err != nil {
		return nil, err
	}

	if err := c.ui.Start(); err != nil {
		return nil, fmt.Errorf("starting UI: %w", err)
	}
	defer c.ui.Close()

	result, err := c.engine.Run(ctx, cfg)
	if err != nil {
		return nil, err
	}

	// Quit the progress UI before writing the report, so an out==stdout
	// render never interleaves with the bar.
	c.ui.Summary(result)

	if err := renderer.Render(out, result); err != nil {
		return nil, fmt.Errorf("rendering report: %w", err)
	}

	return result, nil
}
