package analysis

import (
	"fmt"
	"log/slog"

	"solvet.dev/pkg/solvet/internal/lang"
	"solvet.dev/pkg/solvet/internal/model"
)

// walker performs the single depth-first traversal of one file, multiplexed
// across every interested detector. Adding a detector costs one dispatch
// entry, never a second walk.
type walker struct {
	reg     *Registry
	enabled map[string]bool
	ctx     *Context
}

// detectFile runs the dispatch engine over one parsed file and returns its
// findings and diagnostics. It is called from Stage C workers; everything
// it touches beyond the walker itself is read-only.
func detectFile(state *fileState, reg *Registry, enabled map[string]bool, sh *shared, flags Flags) ([]model.Finding, []model.Diagnostic) {
	w := &walker{
		reg:     reg,
		enabled: enabled,
		ctx: &Context{
			file:   state,
			shared: sh,
			flags:  flags,
		},
	}

	w.walk(state.unit)

	return w.ctx.findings, w.ctx.diags
}

// walk visits node and then its children, maintaining the lexical scope
// chain on the Context across the descent.
func (w *walker) walk(node lang.Node) {
	if node == nil {
		return
	}

	w.dispatch(node)

	switch n := node.(type) {
	case *lang.ContractDecl:
		prev := w.ctx.contract
		w.ctx.contract = n

		w.walkChildren(n)

		w.ctx.contract = prev
	case *lang.FunctionDecl:
		prev := w.ctx.function
		w.ctx.function = n

		w.walkChildren(n)

		w.ctx.function = prev
	case *lang.ForStmt:
		// The init clause runs once, before the first iteration; only the
		// condition, post expression, and body are inside the loop.
		w.walk(n.Init)

		w.ctx.loopDepth++
		w.walkExpr(n.Cond)
		w.walkExpr(n.Post)
		w.walkStmt(n.Body)
		w.ctx.loopDepth--
	case *lang.WhileStmt:
		w.ctx.loopDepth++
		w.walkExpr(n.Cond)
		w.walkStmt(n.Body)
		w.ctx.loopDepth--
	case *lang.DoWhileStmt:
		w.ctx.loopDepth++
		w.walkStmt(n.Body)
		w.walkExpr(n.Cond)
		w.ctx.loopDepth--
	case *lang.BlockStmt:
		if n.Unchecked {
			w.ctx.unchecked++
		}

		w.walkChildren(n)

		if n.Unchecked {
			w.ctx.unchecked--
		}
	default:
		w.walkChildren(node)
	}
}

func (w *walker) walkChildren(node lang.Node) {
	for _, child := range lang.Children(node) {
		w.walk(child)
	}
}

func (w *walker) walkExpr(expr lang.Expr) {
	if expr != nil {
		w.walk(expr)
	}
}

func (w *walker) walkStmt(stmt lang.Stmt) {
	if stmt != nil {
		w.walk(stmt)
	}
}

// dispatch looks up the detectors interested in node's kind and invokes
// each one that survives the run filters.
func (w *walker) dispatch(node lang.Node) {
	for _, d := range w.reg.For(node.Kind()) {
		if !w.enabled[d.ID] {
			continue
		}

		if d.NeedsSymbols && w.ctx.Symbols() == nil {
			continue
		}

		if d.NeedsLinearization && !w.ctx.hasLinearization(node) {
			continue
		}

		w.invoke(d, node)
	}
}

// invoke runs one check function, stamping its identity onto the findings.
// A panic inside the check is isolated to this detector/node pair: it
// becomes a DetectorPanic diagnostic and the traversal continues.
func (w *walker) invoke(d *Detector, node lang.Node) {
	defer func() {
		r := recover()
		if r == nil {
			return
		}

		w.ctx.diags = append(w.ctx.diags, model.Diagnostic{
			Kind:       model.DiagDetectorPanic,
			DetectorID: d.ID,
			Location:   w.ctx.Locate(node),
			Message:    fmt.Sprintf("detector %s failed on %s node: %v", d.ID, node.Kind(), r),
		})
		slog.Error("detector panicked", "detector", d.ID, "file", w.ctx.File().Display, "node", node.Kind().String(), "panic", r)
	}()

	findings := d.Check(node, w.ctx)

	for i := range findings {
		findings[i].DetectorID = d.ID
		findings[i].Severity = d.Severity
	}

	w.ctx.findings = append(w.ctx.findings, findings...)
}
