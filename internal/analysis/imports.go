package analysis

import (
	"context"
	"fmt"
	"log/slog"
	"path/filepath"
	"strings"

	"solvet.dev/pkg/solvet/internal/lang"
	"solvet.dev/pkg/solvet/internal/model"
	"solvet.dev/pkg/solvet/internal/project"
)

// importResolver turns import strings into files on disk and extends the
// working set with everything the scoped files transitively pull in.
type importResolver struct {
	fs   SourceFS
	proj *project.Project
}

// resolve maps one import string from a file in fromDir to a cleaned
// absolute path, or reports failure. Resolution order: exact relative
// path, then the remapping table (strongest source first, longest prefix
// within a source), then the project's library fallback roots.
func (r *importResolver) resolve(ctx context.Context, path, fromDir string) (string, bool) {
	if strings.HasPrefix(path, "./") || strings.HasPrefix(path, "../") {
		candidate := filepath.Clean(filepath.Join(fromDir, filepath.FromSlash(path)))
		if r.fs.Exists(ctx, candidate) {
			return candidate, true
		}

		return "", false
	}

	if target, ok := r.proj.Remap(path); ok {
		if !filepath.IsAbs(target) {
			target = filepath.Join(r.proj.Root, filepath.FromSlash(target))
		}

		candidate := filepath.Clean(target)
		if r.fs.Exists(ctx, candidate) {
			return candidate, true
		}

		return "", false
	}

	for _, root := range r.proj.LibraryRoots() {
		candidate := filepath.Clean(filepath.Join(root, filepath.FromSlash(path)))
		if r.fs.Exists(ctx, candidate) {
			return candidate, true
		}
	}

	return "", false
}

// closure resolves every import reachable from the scoped files, reading
// and parsing newly discovered files inline until a fixpoint. Files are
// deduped by resolved path, so cyclic import graphs terminate. Imports
// that resolve to nothing become UnresolvedImport diagnostics against the
// importing file; the edge is simply dropped.
//
// Runs during Stage B, on the single coordinating goroutine.
func (r *importResolver) closure(ctx context.Context, files []*fileState) ([]*fileState, []model.Diagnostic) {
	byPath := make(map[model.Path]*fileState, len(files))
	for _, state := range files {
		byPath[state.src.Path] = state
	}

	var diags []model.Diagnostic

	// files grows while we iterate; plain indexing keeps the worklist
	// semantics explicit.
	for i := 0; i < len(files); i++ {
		state := files[i]
		if state.unit == nil {
			continue
		}

		fromDir := filepath.Dir(string(state.src.Path))

		for _, imp := range imports(state.unit) {
			resolved, ok := r.resolve(ctx, imp.Path, fromDir)
			if !ok {
				diags = append(diags, model.Diagnostic{
					Kind: model.DiagUnresolvedImport,
					Location: model.Location{
						File:    state.src.Display,
						Line:    imp.Span.Line,
						Column:  imp.Span.Col,
						Snippet: model.SnippetAt(state.src.Content, imp.Span.Line),
					},
					Message: fmt.Sprintf("import %q matches no file", imp.Path),
				})

				continue
			}

			if _, seen := byPath[model.Path(resolved)]; seen {
				continue
			}

			src, err := r.fs.Read(ctx, resolved)
			if err != nil {
				diags = append(diags, model.Diagnostic{
					Kind: model.DiagUnresolvedImport,
					Location: model.Location{
						File:    state.src.Display,
						Line:    imp.Span.Line,
						Column:  imp.Span.Col,
						Snippet: model.SnippetAt(state.src.Content, imp.Span.Line),
					},
					Message: fmt.Sprintf("import %q: %v", imp.Path, err),
				})

				continue
			}

			src.Display = displayPath(r.proj.Root, resolved)

			imported := &fileState{src: src}
			imported.parse()

			if imported.parseErr != nil {
				diags = append(diags, imported.parseDiagnostic())
			}

			byPath[src.Path] = imported
			files = append(files, imported)

			slog.Debug("import pulled into working set", "file", src.Display, "via", state.src.Display)
		}
	}

	return files, diags
}

// imports lists a unit's import directives in source order.
func imports(unit *lang.SourceUnit) []*lang.ImportDirective {
	var out []*lang.ImportDirective

	for _, item := range unit.Items {
		if imp, ok := item.(*lang.ImportDirective); ok {
			out = append(out, imp)
		}
	}

	return out
}
