package detectors

import (
	"solvet.dev/pkg/solvet/internal/analysis"
	"solvet.dev/pkg/solvet/internal/lang"
	"solvet.dev/pkg/solvet/internal/model"
)

func highDetectors() []analysis.Detector {
	return []analysis.Detector{
		{
			ID:          "delegatecall-in-loop",
			Severity:    model.SeverityHigh,
			Title:       "delegatecall inside a loop",
			Description: "A delegatecall in a loop forwards msg.value to every iteration and compounds the blast radius of a malicious implementation.",
			Interests:   []lang.NodeKind{lang.KindCall},
			Check: func(node lang.Node, ctx *analysis.Context) []model.Finding {
				call := asCall(node)
				if ctx.LoopDepth() == 0 || memberCall(call) != "delegatecall" {
					return nil
				}

				return []model.Finding{ctx.NewFinding(node, "delegatecall executed inside a loop")}
			},
		},
		{
			ID:          "msg-value-in-loop",
			Severity:    model.SeverityHigh,
			Title:       "msg.value read inside a loop",
			Description: "msg.value is constant for the whole call; using it per iteration usually double-counts the payment.",
			Interests:   []lang.NodeKind{lang.KindMember},
			Check: func(node lang.Node, ctx *analysis.Context) []model.Finding {
				if ctx.LoopDepth() == 0 || !lang.IsMemberOf(node.(lang.Expr), "msg", "value") {
					return nil
				}

				return []model.Finding{ctx.NewFinding(node, "msg.value used inside a loop")}
			},
		},
		{
			ID:          "comparison-without-effect",
			Severity:    model.SeverityHigh,
			Title:       "comparison used as a statement",
			Description: "A bare comparison discards its result; the author almost certainly meant an assignment or a require.",
			Interests:   []lang.NodeKind{lang.KindExprStmt},
			Check: func(node lang.Node, ctx *analysis.Context) []model.Finding {
				stmt := node.(*lang.ExprStmt)

				bin, ok := stmt.X.(*lang.BinaryExpr)
				if !ok || !comparisonOps[bin.Op] {
					return nil
				}

				finding := ctx.NewFinding(node, "comparison has no effect as a statement")
				finding.Fix = "replace with an assignment or wrap in require(...)"

				return []model.Finding{finding}
			},
		},
	}
}
