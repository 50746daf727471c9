package analysis

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"path/filepath"
	"strings"

	"golang.org/x/sync/errgroup"

	"solvet.dev/pkg/solvet/internal/lang"
	"solvet.dev/pkg/solvet/internal/model"
)

// fileState is one file moving through the pipeline. The src and unit
// fields are immutable after Stage A (or after the Stage B inline parse for
// files pulled in by imports); lines is a lazily built cache owned by the
// single Stage C worker that analyzes the file.
type fileState struct {
	src  model.SourceFile
	unit *lang.SourceUnit
	// parseErr is set when the file's syntax could not be parsed.
	parseErr error
	// scoped marks files named by the configured scope. Files reached only
	// through imports contribute symbols but are not run through detectors.
	scoped bool

	lines []string
}

// discover collects the scoped source files. Scope entries may name files
// or directories; results are deduped by cleaned absolute path and ordered
// deterministically by the walk.
func (e *Engine) discover(ctx context.Context, root string, scope, exclude []string) ([]*fileState, error) {
	if len(scope) == 0 {
		scope = []string{root}
	}

	seen := make(map[model.Path]bool)
	var files []*fileState

	for _, entry := range scope {
		if !filepath.IsAbs(entry) && !strings.Contains(entry, "://") {
			entry = filepath.Join(root, entry)
		}

		found, err := e.fs.Walk(ctx, entry, exclude)
		if err != nil {
			return nil, fmt.Errorf("walking scope %s: %w", entry, err)
		}

		for _, src := range found {
			if seen[src.Path] {
				continue
			}

			seen[src.Path] = true
			src.Display = displayPath(root, string(src.Path))
			files = append(files, &fileState{src: src, scoped: true})
		}
	}

	if len(files) == 0 {
		return nil, fmt.Errorf("no Solidity files in scope under %s", root)
	}

	return files, nil
}

// parseAll is Stage A: parse every scoped file with a bounded worker pool.
// Each worker owns exactly one fileState, so there is no shared state to
// protect. Parse failures are recorded on the state, never returned.
func (e *Engine) parseAll(ctx context.Context, files []*fileState, workers int) error {
	group, groupCtx := errgroup.WithContext(ctx)
	group.SetLimit(workers)

	for _, state := range files {
		group.Go(func() error {
			if err := groupCtx.Err(); err != nil {
				return err
			}

			state.parse()
			e.events.Parsed(state.src.Display, state.parseErr != nil)

			return nil
		})
	}

	return group.Wait()
}

// parse fills in the syntax tree for one file.
func (f *fileState) parse() {
	unit, err := lang.Parse(f.src.Content)
	if err != nil {
		f.parseErr = err
		slog.Debug("parse failed", "file", f.src.Display, "error", err)

		return
	}

	f.unit = unit
}

// parseDiagnostic turns a parse failure into its report diagnostic.
func (f *fileState) parseDiagnostic() model.Diagnostic {
	line := 1

	var perr *lang.ParseError
	if errors.As(f.parseErr, &perr) {
		line = perr.Line
	}

	return model.Diagnostic{
		Kind: model.DiagParseFailure,
		Location: model.Location{
			File:    f.src.Display,
			Line:    line,
			Snippet: model.SnippetAt(f.src.Content, line),
		},
		Message: f.parseErr.Error(),
	}
}

// displayPath renders a path relative to the project root where possible,
// in slash form so reports look the same on every platform.
func displayPath(root, path string) string {
	rel, err := filepath.Rel(root, path)
	if err != nil || rel == ".." || len(rel) > 2 && rel[:3] == ".."+string(filepath.Separator) {
		return filepath.ToSlash(path)
	}

	return filepath.ToSlash(rel)
}
