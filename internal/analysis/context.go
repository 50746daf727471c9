// Package analysis implements the pipeline core: source loading, import
// resolution, symbol and inheritance analysis, and the single-traversal
// detector dispatch engine with its parallel coordinator.
package analysis

import (
	"context"
	"strings"

	"solvet.dev/pkg/solvet/internal/lang"
	"solvet.dev/pkg/solvet/internal/model"
	"solvet.dev/pkg/solvet/internal/project"
)

// SourceFS is the filesystem port the engine loads projects through. A
// scope entry that names a single file is returned by Walk as-is.
type SourceFS interface {
	// Walk returns every Solidity file under root, skipping paths that
	// match one of the exclude patterns.
	Walk(ctx context.Context, root string, exclude []string) ([]model.SourceFile, error)
	// Read loads one file by absolute path.
	Read(ctx context.Context, path string) (model.SourceFile, error)
	// Exists reports whether path names a readable file.
	Exists(ctx context.Context, path string) bool
}

// Events receives progress notifications during a run. Stage C calls
// Analyzed from multiple workers, so implementations must be safe for
// concurrent use.
type Events interface {
	// Discovered reports the scoped file count before parsing starts.
	Discovered(total int)
	// Parsed reports one scoped file leaving Stage A.
	Parsed(display string, failed bool)
	// Analyzed reports one scoped file leaving Stage C.
	Analyzed(display string, findings int)
}

// NopEvents discards all notifications.
type NopEvents struct{}

func (NopEvents) Discovered(int)          {}
func (NopEvents) Parsed(string, bool)     {}
func (NopEvents) Analyzed(string, int)    {}

// Protocol flag names, as used in Detector.Flag and the configuration.
const (
	FlagFeeOnTransfer = "fot"
	FlagWeirdERC20    = "weird-erc20"
	FlagNative        = "native"
	FlagL2            = "l2"
	FlagNFT           = "nft"
)

// Flags are the protocol feature gates. A disabled flag removes its whole
// detector group from dispatch.
type Flags struct {
	FeeOnTransfer bool
	WeirdERC20    bool
	NativeToken   bool
	L2            bool
	NFT           bool
}

// DefaultFlags enables every protocol group.
func DefaultFlags() Flags {
	return Flags{
		FeeOnTransfer: true,
		WeirdERC20:    true,
		NativeToken:   true,
		L2:            true,
		NFT:           true,
	}
}

// Enabled reports whether the named gate is open. Detectors without a gate
// pass an empty name.
func (f Flags) Enabled(name string) bool {
	switch name {
	case "":
		return true
	case FlagFeeOnTransfer:
		return f.FeeOnTransfer
	case FlagWeirdERC20:
		return f.WeirdERC20
	case FlagNative:
		return f.NativeToken
	case FlagL2:
		return f.L2
	case FlagNFT:
		return f.NFT
	}

	return false
}

// Config is the resolved input for one run. Loading and validating it is
// the caller's job; the engine treats it as authoritative.
type Config struct {
	// Scope lists the files and directories to analyze. Empty means the
	// project root.
	Scope []string
	// Exclude holds path patterns skipped during discovery.
	Exclude []string
	// MinSeverity drops detectors below this rank from dispatch.
	MinSeverity model.Severity
	// ExcludeDetectors lists detector ids removed from dispatch.
	ExcludeDetectors []string
	// Remappings holds explicit prefix=target pairs, applied at the
	// highest source priority.
	Remappings []string
	// Root overrides the project detection starting point.
	Root string
	// Project short-circuits detection entirely when non-nil.
	Project *project.Project
	// Workers bounds Stage A and Stage C parallelism; zero or less means
	// runtime.NumCPU().
	Workers int
	// Flags are the protocol gates.
	Flags Flags
	// Version is stamped into the report.
	Version string
}

// Detector describes one registered check. Descriptors are immutable;
// Check must be pure apart from reading the Context.
type Detector struct {
	ID          string
	Severity    model.Severity
	Title       string
	Description string
	// Interests are the node kinds routed to Check.
	Interests []lang.NodeKind
	// Flag names the protocol gate; empty means always on.
	Flag string
	// NeedsLinearization skips the check for contracts without a usable
	// linearization (cycles, conflicts, duplicates).
	NeedsLinearization bool
	// NeedsSymbols skips the check when no symbol table is available.
	NeedsSymbols bool
	Check        func(node lang.Node, ctx *Context) []model.Finding
}

// shared is the read-only state every Stage C worker consults. It is
// complete and immutable once Stage B finishes.
type shared struct {
	symbols *SymbolTable
	lin     map[DeclID][]DeclID
}

// Context is the per-file view handed to detector checks. Checks read it;
// only the walker mutates the scope chain between invocations.
type Context struct {
	file   *fileState
	shared *shared
	flags  Flags

	contract  *lang.ContractDecl
	function  *lang.FunctionDecl
	loopDepth int
	unchecked int

	findings []model.Finding
	diags    []model.Diagnostic
}

// File returns the source file under analysis.
func (c *Context) File() *model.SourceFile {
	return &c.file.src
}

// Content returns the raw file text.
func (c *Context) Content() string {
	return c.file.src.Content
}

// Lines returns the raw file text split by line, computed once per file.
func (c *Context) Lines() []string {
	if c.file.lines == nil {
		c.file.lines = strings.Split(c.file.src.Content, "\n")
	}

	return c.file.lines
}

// Contract returns the enclosing contract declaration, or nil at file level.
func (c *Context) Contract() *lang.ContractDecl {
	return c.contract
}

// Function returns the enclosing function declaration, or nil outside one.
func (c *Context) Function() *lang.FunctionDecl {
	return c.function
}

// LoopDepth reports how many loops enclose the current node. A for loop's
// init clause runs once and does not count as inside the loop.
func (c *Context) LoopDepth() int {
	return c.loopDepth
}

// InUnchecked reports whether an unchecked block encloses the current node.
func (c *Context) InUnchecked() bool {
	return c.unchecked > 0
}

// Flags returns the protocol gates active for this run.
func (c *Context) Flags() Flags {
	return c.flags
}

// Symbols returns the global symbol table, or nil when unavailable.
func (c *Context) Symbols() *SymbolTable {
	if c.shared == nil {
		return nil
	}

	return c.shared.symbols
}

// Linearization returns decl's inheritance chain most-derived first, or nil
// when the contract has no usable linearization. The chain includes decl
// itself at index 0.
func (c *Context) Linearization(decl *lang.ContractDecl) []*Declaration {
	table := c.Symbols()
	if table == nil || decl == nil {
		return nil
	}

	d, ok := table.DeclFor(decl)
	if !ok {
		return nil
	}

	ids, ok := c.shared.lin[d.ID]
	if !ok {
		return nil
	}

	out := make([]*Declaration, len(ids))
	for i, id := range ids {
		out[i] = table.Decl(id)
	}

	return out
}

// hasLinearization reports whether the contract enclosing node (or node
// itself) linearized cleanly.
func (c *Context) hasLinearization(node lang.Node) bool {
	decl, ok := node.(*lang.ContractDecl)
	if !ok {
		decl = c.contract
	}

	if decl == nil || c.shared == nil || c.shared.symbols == nil {
		return false
	}

	d, ok := c.shared.symbols.DeclFor(decl)
	if !ok {
		return false
	}

	_, ok = c.shared.lin[d.ID]

	return ok
}

// Locate resolves a node to a report location with its source snippet.
func (c *Context) Locate(node lang.Node) model.Location {
	return c.LocateSpan(node.Pos())
}

// LocateSpan resolves a span to a report location with its source snippet.
func (c *Context) LocateSpan(span lang.Span) model.Location {
	return model.Location{
		File:      c.file.src.Display,
		Line:      span.Line,
		Column:    span.Col,
		EndLine:   span.EndLine,
		EndColumn: span.EndCol,
		Snippet:   model.SnippetAt(c.file.src.Content, span.Line),
	}
}

// LocateLine points at a whole 1-based line, for raw-text checks.
func (c *Context) LocateLine(line int) model.Location {
	return model.Location{
		File:    c.file.src.Display,
		Line:    line,
		Snippet: model.SnippetAt(c.file.src.Content, line),
	}
}

// NewFinding builds a finding anchored at node. The walker stamps the
// detector id and severity after the check returns.
func (c *Context) NewFinding(node lang.Node, message string) model.Finding {
	return model.Finding{
		Location: c.Locate(node),
		Message:  message,
	}
}
