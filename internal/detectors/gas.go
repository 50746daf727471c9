package detectors

import (
	"fmt"
	"path"
	"strings"

	"solvet.dev/pkg/solvet/internal/analysis"
	"solvet.dev/pkg/solvet/internal/lang"
	"solvet.dev/pkg/solvet/internal/model"
)

func gasDetectors() []analysis.Detector {
	return []analysis.Detector{
		{
			ID:          "array-length-in-loop",
			Severity:    model.SeverityGas,
			Title:       "array length reread every iteration",
			Description: "A storage array's .length in the loop condition costs an SLOAD per iteration; hoist it into a local.",
			Interests:   []lang.NodeKind{lang.KindFor},
			Check: func(node lang.Node, ctx *analysis.Context) []model.Finding {
				loop := node.(*lang.ForStmt)
				if loop.Cond == nil {
					return nil
				}

				hasLength := lang.ContainsExpr(loop.Cond, func(e lang.Expr) bool {
					member, ok := e.(*lang.MemberExpr)
					return ok && member.Member == "length"
				})
				if !hasLength {
					return nil
				}

				finding := ctx.NewFinding(node, ".length evaluated in the loop condition")
				finding.Fix = "cache the length in a local before the loop"

				return []model.Finding{finding}
			},
		},
		{
			ID:          "custom-errors-instead-of-revert-strings",
			Severity:    model.SeverityGas,
			Title:       "revert string instead of custom error",
			Description: "String revert reasons cost deployment and runtime gas; custom errors encode to four bytes.",
			Interests:   []lang.NodeKind{lang.KindCall, lang.KindRevert},
			Check:       checkRevertStrings,
		},
		{
			ID:          "split-require",
			Severity:    model.SeverityGas,
			Title:       "require with &&",
			Description: "Each require condition evaluated separately reports the failing clause and skips evaluating the rest.",
			Interests:   []lang.NodeKind{lang.KindCall},
			Check: func(node lang.Node, ctx *analysis.Context) []model.Finding {
				call := asCall(node)
				if !isNamedCall(call, "require") || len(call.Args) == 0 {
					return nil
				}

				hasAnd := lang.ContainsExpr(call.Args[0], func(e lang.Expr) bool {
					bin, ok := e.(*lang.BinaryExpr)
					return ok && bin.Op == "&&"
				})
				if !hasAnd {
					return nil
				}

				finding := ctx.NewFinding(node, "require condition joins clauses with &&")
				finding.Fix = "split into one require per clause"

				return []model.Finding{finding}
			},
		},
		{
			ID:          "post-increment",
			Severity:    model.SeverityGas,
			Title:       "post-increment where pre-increment works",
			Description: "i++ keeps a temporary copy of the old value that nothing reads; ++i does not.",
			Interests:   []lang.NodeKind{lang.KindExprStmt, lang.KindFor},
			Check:       checkPostIncrement,
		},
		{
			ID:          "default-value-initialization",
			Severity:    model.SeverityGas,
			Title:       "explicit default initialization",
			Description: "Initializing storage to its default value writes the slot it already holds.",
			Interests:   []lang.NodeKind{lang.KindStateVar},
			Check: func(node lang.Node, ctx *analysis.Context) []model.Finding {
				v := node.(*lang.VarDecl)
				if v.Constant || v.Immutable || v.Value == nil || !isDefaultValue(v.Value) {
					return nil
				}

				return []model.Finding{ctx.NewFinding(node,
					fmt.Sprintf("%s is initialized to its default value", v.Name))}
			},
		},
		{
			ID:          "boolean-comparison",
			Severity:    model.SeverityGas,
			Title:       "comparison against a bool literal",
			Description: "x == true is x; x == false is !x. The literal comparison costs an extra EQ.",
			Interests:   []lang.NodeKind{lang.KindBinary},
			Check: func(node lang.Node, ctx *analysis.Context) []model.Finding {
				bin := node.(*lang.BinaryExpr)
				if bin.Op != "==" && bin.Op != "!=" {
					return nil
				}

				_, xBool := bin.X.(*lang.BoolLit)
				_, yBool := bin.Y.(*lang.BoolLit)

				if !xBool && !yBool {
					return nil
				}

				return []model.Finding{ctx.NewFinding(node, "comparison against a bool literal")}
			},
		},
		{
			ID:          "private-constants",
			Severity:    model.SeverityGas,
			Title:       "public constant",
			Description: "Every public constant gets an autogenerated getter in the bytecode; private keeps the value without the method.",
			Interests:   []lang.NodeKind{lang.KindStateVar},
			Check: func(node lang.Node, ctx *analysis.Context) []model.Finding {
				v := node.(*lang.VarDecl)
				if !v.Constant || v.Visibility != "public" {
					return nil
				}

				finding := ctx.NewFinding(node, fmt.Sprintf("constant %s is public", v.Name))
				finding.Fix = "declare it private and expose a view function if needed"

				return []model.Finding{finding}
			},
		},
		{
			ID:          "unchecked-loop-increment",
			Severity:    model.SeverityGas,
			Title:       "loop counter with checked arithmetic",
			Description: "A loop counter bounded by its condition cannot overflow; wrapping the increment in unchecked drops the overflow check per iteration.",
			Interests:   []lang.NodeKind{lang.KindFor},
			Check: func(node lang.Node, ctx *analysis.Context) []model.Finding {
				loop := node.(*lang.ForStmt)
				if !isIncDec(loop.Post) {
					return nil
				}

				finding := ctx.NewFinding(node, "loop increment runs with overflow checks")
				finding.Fix = "move the increment into an unchecked block at the end of the body"

				return []model.Finding{finding}
			},
		},
		{
			ID:          "variable-inside-loop",
			Severity:    model.SeverityGas,
			Title:       "variable declared inside a loop",
			Description: "Redeclaring per iteration re-allocates the stack slot; declare once outside and assign inside.",
			Interests:   []lang.NodeKind{lang.KindVarDeclStmt},
			Check: func(node lang.Node, ctx *analysis.Context) []model.Finding {
				if ctx.LoopDepth() == 0 {
					return nil
				}

				return []model.Finding{ctx.NewFinding(node, "variable declared inside a loop body")}
			},
		},
		{
			ID:          "use-erc721a",
			Severity:    model.SeverityGas,
			Title:       "vanilla ERC721 import",
			Description: "For serial mints ERC721A amortizes storage writes across a batch; the OpenZeppelin base writes per token.",
			Interests:   []lang.NodeKind{lang.KindImport},
			Flag:        analysis.FlagNFT,
			Check: func(node lang.Node, ctx *analysis.Context) []model.Finding {
				imp := node.(*lang.ImportDirective)
				if path.Base(imp.Path) != "ERC721.sol" || !strings.Contains(imp.Path, "openzeppelin") {
					return nil
				}

				return []model.Finding{ctx.NewFinding(node, "consider ERC721A for batch-minted collections")}
			},
		},
	}
}

// checkRevertStrings flags require(..., "reason") and revert("reason").
func checkRevertStrings(node lang.Node, ctx *analysis.Context) []model.Finding {
	switch n := node.(type) {
	case *lang.CallExpr:
		if !isNamedCall(n, "require") || len(n.Args) < 2 {
			return nil
		}

		if _, ok := n.Args[1].(*lang.StringLit); !ok {
			return nil
		}

		finding := ctx.NewFinding(node, "require uses a revert string")
		finding.Fix = "declare a custom error and use if (...) revert MyError()"

		return []model.Finding{finding}
	case *lang.RevertStmt:
		if n.Error != "" || len(n.Args) == 0 {
			return nil
		}

		str, ok := n.Args[0].(*lang.StringLit)
		if !ok || str.Value == "" {
			return nil
		}

		finding := ctx.NewFinding(node, "revert uses a string reason")
		finding.Fix = "declare a custom error and revert with it"

		return []model.Finding{finding}
	}

	return nil
}

// checkPostIncrement flags statement-level and for-post i++/i--, the two
// positions where the discarded temporary is provable.
func checkPostIncrement(node lang.Node, ctx *analysis.Context) []model.Finding {
	switch n := node.(type) {
	case *lang.ExprStmt:
		if !isIncDec(n.X) {
			return nil
		}

		return []model.Finding{ctx.NewFinding(node, "post-increment result is discarded; prefer the prefix form")}
	case *lang.ForStmt:
		if !isIncDec(n.Post) {
			return nil
		}

		return []model.Finding{ctx.NewFinding(node, "for-loop update uses the postfix form; prefer the prefix form")}
	}

	return nil
}

// isIncDec matches a postfix ++ or -- expression.
func isIncDec(expr lang.Expr) bool {
	unary, ok := expr.(*lang.UnaryExpr)

	return ok && !unary.Prefix && (unary.Op == "++" || unary.Op == "--")
}

// isDefaultValue matches 0, false, "", and address(0).
func isDefaultValue(expr lang.Expr) bool {
	switch e := expr.(type) {
	case *lang.NumberLit:
		return e.Value == "0" && e.Unit == ""
	case *lang.BoolLit:
		return !e.Value
	case *lang.StringLit:
		return e.Value == ""
	case *lang.CallExpr:
		if !isNamedCall(e, "address") || len(e.Args) != 1 {
			return false
		}

		num, ok := e.Args[0].(*lang.NumberLit)

		return ok && num.Value == "0"
	}

	return false
}
