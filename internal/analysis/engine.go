package analysis

import (
	"context"
	"fmt"
	"log/slog"
	"runtime"
	"time"

	"golang.org/x/sync/errgroup"

	"solvet.dev/pkg/solvet/internal/model"
	"solvet.dev/pkg/solvet/internal/project"
)

// Engine orchestrates the three pipeline stages: parallel parse, the
// resolve barrier, and parallel detection. One Engine value serves many
// runs; all per-run state lives on the stack of Run.
type Engine struct {
	fs     SourceFS
	reg    *Registry
	events Events
}

// NewEngine wires an engine from its collaborators. Pass NopEvents when no
// progress reporting is wanted.
func NewEngine(fs SourceFS, reg *Registry, events Events) *Engine {
	if events == nil {
		events = NopEvents{}
	}

	return &Engine{fs: fs, reg: reg, events: events}
}

// Registry exposes the engine's detector table for listings.
func (e *Engine) Registry() *Registry {
	return e.reg
}

// Run executes one full analysis. Only scope-level failures return an
// error; every per-file problem is recovered into a diagnostic on the
// Report. The Report is byte-for-byte identical for identical inputs
// regardless of worker count.
func (e *Engine) Run(ctx context.Context, cfg Config) (*model.Report, error) {
	started := time.Now()

	proj, err := e.resolveProject(cfg)
	if err != nil {
		return nil, err
	}

	workers := cfg.Workers
	if workers <= 0 {
		workers = runtime.NumCPU()
	}

	// Stage A: discover and parse the scoped files in parallel.
	files, err := e.discover(ctx, proj.Root, cfg.Scope, cfg.Exclude)
	if err != nil {
		return nil, err
	}

	e.events.Discovered(len(files))

	if err := e.parseAll(ctx, files, workers); err != nil {
		return nil, err
	}

	// Stage B: the barrier. Imports may extend the working set; then the
	// symbol table and every linearization are fixed before any detector
	// runs. Everything below happens on this goroutine.
	var diags []model.Diagnostic

	for _, state := range files {
		if state.parseErr != nil {
			diags = append(diags, state.parseDiagnostic())
		}
	}

	resolver := &importResolver{fs: e.fs, proj: proj}
	working, importDiags := resolver.closure(ctx, files)
	diags = append(diags, importDiags...)

	symbols, symbolDiags := buildSymbols(working)
	diags = append(diags, symbolDiags...)

	lin, linDiags := linearizeAll(symbols)
	diags = append(diags, linDiags...)

	sh := &shared{symbols: symbols, lin: lin}
	enabled := e.reg.enabledSet(cfg.MinSeverity, cfg.ExcludeDetectors, cfg.Flags)

	slog.Info("resolve barrier complete",
		"scoped", len(files), "working", len(working),
		"declarations", symbols.Len(), "workers", workers)

	// Stage C: detect scoped files in parallel against the now-immutable
	// shared state. Workers only read sh; each appends to its own slice
	// slot, so the merge needs no locks.
	findingsPer := make([][]model.Finding, len(files))
	diagsPer := make([][]model.Diagnostic, len(files))

	group, groupCtx := errgroup.WithContext(ctx)
	group.SetLimit(workers)

	for i, state := range files {
		if state.unit == nil {
			continue
		}

		group.Go(func() error {
			if err := groupCtx.Err(); err != nil {
				return err
			}

			found, fdiags := detectFile(state, e.reg, enabled, sh, cfg.Flags)
			findingsPer[i] = found
			diagsPer[i] = fdiags
			e.events.Analyzed(state.src.Display, len(found))

			return nil
		})
	}

	if err := group.Wait(); err != nil {
		return nil, err
	}

	// Reduction: gather and re-sort by the canonical key; completion
	// order never leaks into the Report.
	report := &model.Report{
		Tool:    "solvet",
		Version: cfg.Version,
		Root:    proj.Root,
	}

	for _, state := range files {
		report.Files = append(report.Files, model.File{
			Path: state.src.Display,
			Hash: state.src.Hash,
		})
	}

	for _, found := range findingsPer {
		report.Findings = append(report.Findings, found...)
	}

	report.Diagnostics = append(report.Diagnostics, diags...)
	for _, fdiags := range diagsPer {
		report.Diagnostics = append(report.Diagnostics, fdiags...)
	}

	report.Sort()

	slog.Info("analysis complete",
		"files", len(files),
		"findings", len(report.Findings),
		"diagnostics", len(report.Diagnostics),
		"elapsed", time.Since(started))

	return report, nil
}

// resolveProject picks the project for the run: an explicit one from the
// caller, or detection rooted at the override or first scope entry.
func (e *Engine) resolveProject(cfg Config) (*project.Project, error) {
	if cfg.Project != nil {
		return cfg.Project, nil
	}

	start := cfg.Root
	if start == "" {
		if len(cfg.Scope) > 0 {
			start = cfg.Scope[0]
		} else {
			start = "."
		}
	}

	proj, err := project.Detect(start)
	if err != nil {
		return nil, fmt.Errorf("detecting project at %s: %w", start, err)
	}

	if err := proj.AddRemappings(cfg.Remappings); err != nil {
		return nil, err
	}

	return proj, nil
}
