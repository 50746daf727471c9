package detectors

import (
	"fmt"
	"path"
	"strings"

	"github.com/ethereum/go-ethereum/common"

	"solvet.dev/pkg/solvet/internal/analysis"
	"solvet.dev/pkg/solvet/internal/lang"
	"solvet.dev/pkg/solvet/internal/model"
)

const maxLineLength = 120

func ncDetectors() []analysis.Detector {
	return []analysis.Detector{
		{
			ID:          "missing-spdx",
			Severity:    model.SeverityNC,
			Title:       "missing SPDX license identifier",
			Description: "The compiler warns on files without an SPDX comment, and downstream tooling cannot classify the license.",
			Interests:   []lang.NodeKind{lang.KindSourceUnit},
			Check: func(node lang.Node, ctx *analysis.Context) []model.Finding {
				lines := ctx.Lines()
				if len(lines) > 0 && strings.Contains(lines[0], "SPDX-License-Identifier") {
					return nil
				}

				finding := ctx.LocateLine(1)
				finding.Snippet = ""

				return []model.Finding{{
					Location: finding,
					Message:  "file does not start with an SPDX license identifier",
				}}
			},
		},
		{
			ID:          "floating-pragma",
			Severity:    model.SeverityNC,
			Title:       "floating pragma on a deployable contract",
			Description: "Deployable sources should pin the compiler; floating carets belong in libraries meant for reuse.",
			Interests:   []lang.NodeKind{lang.KindSourceUnit},
			Check: func(node lang.Node, ctx *analysis.Context) []model.Finding {
				unit := node.(*lang.SourceUnit)

				value, span, ok := solidityPragma(unit)
				if !ok || !strings.Contains(value, "^") || !hasDeployableContract(unit) {
					return nil
				}

				return []model.Finding{{
					Location: ctx.LocateSpan(span),
					Message:  fmt.Sprintf("deployable contract compiled under floating pragma %s", value),
				}}
			},
		},
		{
			ID:          "line-length",
			Severity:    model.SeverityNC,
			Title:       "line too long",
			Description: "Lines beyond 120 characters fight every diff view and review tool.",
			Interests:   []lang.NodeKind{lang.KindSourceUnit},
			Check: func(node lang.Node, ctx *analysis.Context) []model.Finding {
				var out []model.Finding

				for i, line := range ctx.Lines() {
					if len(line) <= maxLineLength {
						continue
					}

					out = append(out, model.Finding{
						Location: ctx.LocateLine(i + 1),
						Message:  fmt.Sprintf("line is %d characters long (max %d)", len(line), maxLineLength),
					})
				}

				return out
			},
		},
		{
			ID:          "constant-case",
			Severity:    model.SeverityNC,
			Title:       "constant not in CONSTANT_CASE",
			Description: "Constants and immutables read as compile-time values when they are SHOUTED; mixed case hides that.",
			Interests:   []lang.NodeKind{lang.KindStateVar},
			Check: func(node lang.Node, ctx *analysis.Context) []model.Finding {
				v := node.(*lang.VarDecl)
				if !v.Constant && !v.Immutable || v.Override || isConstantCase(v.Name) {
					return nil
				}

				kind := "constant"
				if v.Immutable {
					kind = "immutable"
				}

				return []model.Finding{ctx.NewFinding(node,
					fmt.Sprintf("%s %s is not CONSTANT_CASE", kind, v.Name))}
			},
		},
		{
			ID:          "interface-naming",
			Severity:    model.SeverityNC,
			Title:       "interface name without I prefix",
			Description: "The I prefix separates interfaces from their implementations at a glance.",
			Interests:   []lang.NodeKind{lang.KindContract},
			Check: func(node lang.Node, ctx *analysis.Context) []model.Finding {
				contract := node.(*lang.ContractDecl)
				if contract.CKind != lang.ContractInterface || hasInterfacePrefix(contract.Name) {
					return nil
				}

				return []model.Finding{ctx.NewFinding(node,
					fmt.Sprintf("interface %s is not prefixed with I", contract.Name))}
			},
		},
		{
			ID:          "missing-error-message",
			Severity:    model.SeverityNC,
			Title:       "revert without a reason",
			Description: "A bare require or reasonless revert leaves callers debugging opaque failures.",
			Interests:   []lang.NodeKind{lang.KindCall, lang.KindRevert},
			Check:       checkMissingErrorMessage,
		},
		{
			ID:          "empty-blocks",
			Severity:    model.SeverityNC,
			Title:       "empty function body",
			Description: "An empty body is either a stub or a mistake; a comment or a revert makes the intent explicit.",
			Interests:   []lang.NodeKind{lang.KindFunction},
			Check: func(node lang.Node, ctx *analysis.Context) []model.Finding {
				fn := node.(*lang.FunctionDecl)
				if fn.FKind != lang.FuncPlain && fn.FKind != lang.FuncModifier {
					return nil
				}

				if fn.Virtual || fn.Body == nil || len(fn.Body.Stmts) > 0 {
					return nil
				}

				return []model.Finding{ctx.NewFinding(node,
					fmt.Sprintf("%s %s has an empty body", fn.FKind, fn.Name))}
			},
		},
		{
			ID:          "hardcoded-address",
			Severity:    model.SeverityNC,
			Title:       "hardcoded address literal",
			Description: "Literal addresses rot across networks and redeployments; inject them through the constructor or a config contract.",
			Interests:   []lang.NodeKind{lang.KindHexNumber},
			Check: func(node lang.Node, ctx *analysis.Context) []model.Finding {
				lit := node.(*lang.HexNumberLit)
				if !common.IsHexAddress(lit.Value) || isSentinelAddress(lit.Value) {
					return nil
				}

				return []model.Finding{ctx.NewFinding(node,
					fmt.Sprintf("hardcoded address %s", lit.Value))}
			},
		},
		{
			ID:          "console-log-import",
			Severity:    model.SeverityNC,
			Title:       "console.sol imported",
			Description: "Debug console imports bloat the bytecode and should never reach a deployment.",
			Interests:   []lang.NodeKind{lang.KindImport},
			Check: func(node lang.Node, ctx *analysis.Context) []model.Finding {
				imp := node.(*lang.ImportDirective)

				base := path.Base(imp.Path)
				if base != "console.sol" && base != "console2.sol" {
					return nil
				}

				return []model.Finding{ctx.NewFinding(node, fmt.Sprintf("debug import %s left in", imp.Path))}
			},
		},
		{
			ID:          "todo-left",
			Severity:    model.SeverityNC,
			Title:       "TODO left in source",
			Description: "Open TODO/FIXME markers in deployed code are unresolved questions about its correctness.",
			Interests:   []lang.NodeKind{lang.KindSourceUnit},
			Check: func(node lang.Node, ctx *analysis.Context) []model.Finding {
				var out []model.Finding

				for i, line := range ctx.Lines() {
					if !isCommentWithMarker(line) {
						continue
					}

					out = append(out, model.Finding{
						Location: ctx.LocateLine(i + 1),
						Message:  "TODO/FIXME comment left in source",
					})
				}

				return out
			},
		},
		{
			ID:          "large-literal",
			Severity:    model.SeverityNC,
			Title:       "unreadable numeric literal",
			Description: "Long runs of zeros invite miscounted magnitudes; use underscores, scientific notation, or ether units.",
			Interests:   []lang.NodeKind{lang.KindNumber},
			Check: func(node lang.Node, ctx *analysis.Context) []model.Finding {
				lit := node.(*lang.NumberLit)
				if !isLargeBareLiteral(lit.Value) {
					return nil
				}

				finding := ctx.NewFinding(node, fmt.Sprintf("literal %s is hard to audit", lit.Value))
				finding.Fix = "group digits with underscores or use e-notation"

				return []model.Finding{finding}
			},
		},
	}
}

// isConstantCase accepts SHOUTING_SNAKE names with an optional leading
// underscore.
func isConstantCase(name string) bool {
	trimmed := strings.TrimPrefix(name, "_")
	if trimmed == "" {
		return false
	}

	for i := 0; i < len(trimmed); i++ {
		c := trimmed[i]
		if c >= 'A' && c <= 'Z' || c >= '0' && c <= '9' || c == '_' {
			continue
		}

		return false
	}

	return true
}

func hasInterfacePrefix(name string) bool {
	return len(name) >= 2 && name[0] == 'I' && name[1] >= 'A' && name[1] <= 'Z'
}

// sentinel addresses that are intentional, not configuration.
func isSentinelAddress(value string) bool {
	digits := strings.ToLower(strings.TrimPrefix(value, "0x"))

	switch {
	case strings.Trim(digits, "0") == "":
		return true
	case strings.Trim(digits, "f") == "":
		return true
	case strings.HasSuffix(digits, "dead") && strings.Trim(digits[:len(digits)-4], "0") == "":
		return true
	}

	return false
}

func checkMissingErrorMessage(node lang.Node, ctx *analysis.Context) []model.Finding {
	switch n := node.(type) {
	case *lang.CallExpr:
		if !isNamedCall(n, "require") || len(n.Args) != 1 {
			if isNamedCall(n, "require") && len(n.Args) >= 2 {
				if str, ok := n.Args[1].(*lang.StringLit); ok && str.Value == "" {
					return []model.Finding{ctx.NewFinding(node, "require reason string is empty")}
				}
			}

			return nil
		}

		return []model.Finding{ctx.NewFinding(node, "require has no reason")}
	case *lang.RevertStmt:
		if n.Error != "" {
			return nil
		}

		if len(n.Args) == 0 {
			return []model.Finding{ctx.NewFinding(node, "revert has no reason")}
		}

		if str, ok := n.Args[0].(*lang.StringLit); ok && str.Value == "" {
			return []model.Finding{ctx.NewFinding(node, "revert reason string is empty")}
		}
	}

	return nil
}

// isCommentWithMarker matches TODO/FIXME inside a comment line.
func isCommentWithMarker(line string) bool {
	comment := -1

	if i := strings.Index(line, "//"); i >= 0 {
		comment = i
	} else if i := strings.Index(line, "/*"); i >= 0 {
		comment = i
	} else if strings.HasPrefix(strings.TrimSpace(line), "*") {
		comment = strings.Index(line, "*")
	}

	if comment < 0 {
		return false
	}

	rest := line[comment:]

	return strings.Contains(rest, "TODO") || strings.Contains(rest, "FIXME")
}

// isLargeBareLiteral matches plain decimal literals of six or more digits
// ending in five zeros, with no underscores already grouping them.
func isLargeBareLiteral(value string) bool {
	if len(value) < 6 || strings.Contains(value, "_") || strings.ContainsAny(value, "eE.") {
		return false
	}

	for i := 0; i < len(value); i++ {
		if value[i] < '0' || value[i] > '9' {
			return false
		}
	}

	return strings.HasSuffix(value, "00000")
}
