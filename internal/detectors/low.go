package detectors

import (
	"fmt"
	"strings"

	"golang.org/x/mod/semver"

	"solvet.dev/pkg/solvet/internal/analysis"
	"solvet.dev/pkg/solvet/internal/lang"
	"solvet.dev/pkg/solvet/internal/model"
)

func lowDetectors() []analysis.Detector {
	return []analysis.Detector{
		{
			ID:          "unspecific-pragma",
			Severity:    model.SeverityLow,
			Title:       "unspecific compiler version",
			Description: "Range pragmas let the deployer pick a different compiler than the one the code was audited under.",
			Interests:   []lang.NodeKind{lang.KindPragma},
			Check: func(node lang.Node, ctx *analysis.Context) []model.Finding {
				pragma := node.(*lang.PragmaDirective)
				if pragma.Name != "solidity" || !strings.ContainsAny(pragma.Value, "^~>") {
					return nil
				}

				finding := ctx.NewFinding(node, fmt.Sprintf("pragma solidity %s is not pinned", pragma.Value))
				finding.Fix = "pin an exact compiler version"

				return []model.Finding{finding}
			},
		},
		{
			ID:          "push0-opcode",
			Severity:    model.SeverityLow,
			Title:       "PUSH0 not supported on every chain",
			Description: "Compilers from 0.8.20 emit PUSH0, which several EVM chains still reject; deployable bytecode built under such a pragma may not deploy everywhere.",
			Interests:   []lang.NodeKind{lang.KindSourceUnit},
			Check:       checkPush0,
		},
		{
			ID:          "ecrecover-malleability",
			Severity:    model.SeverityLow,
			Title:       "raw ecrecover",
			Description: "ecrecover accepts malleable signatures and returns address(0) on failure; wrap it (e.g. OpenZeppelin ECDSA) or check both.",
			Interests:   []lang.NodeKind{lang.KindCall},
			Check: func(node lang.Node, ctx *analysis.Context) []model.Finding {
				if !isNamedCall(asCall(node), "ecrecover") {
					return nil
				}

				return []model.Finding{ctx.NewFinding(node, "raw ecrecover is malleable and returns address(0) on failure")}
			},
		},
		{
			ID:          "division-before-multiplication",
			Severity:    model.SeverityLow,
			Title:       "division before multiplication",
			Description: "Integer division truncates; multiplying afterwards amplifies the truncation error.",
			Interests:   []lang.NodeKind{lang.KindBinary},
			Check: func(node lang.Node, ctx *analysis.Context) []model.Finding {
				bin := node.(*lang.BinaryExpr)
				if bin.Op != "*" {
					return nil
				}

				if !isDivision(bin.X) && !isDivision(bin.Y) {
					return nil
				}

				finding := ctx.NewFinding(node, "division result is multiplied; reorder to multiply first")

				return []model.Finding{finding}
			},
		},
		{
			ID:          "unsafe-abi-encode-packed",
			Severity:    model.SeverityLow,
			Title:       "hash over encodePacked with dynamic types",
			Description: "abi.encodePacked concatenates dynamic values without length prefixes, so distinct inputs can hash identically.",
			Interests:   []lang.NodeKind{lang.KindCall},
			Check:       checkEncodePackedCollision,
		},
		{
			ID:          "zero-value-transfer",
			Severity:    model.SeverityLow,
			Title:       "unguarded token transfer amount",
			Description: "Some ERC20s revert on zero-amount transfers; guard the amount before calling.",
			Interests:   []lang.NodeKind{lang.KindCall},
			Flag:        analysis.FlagWeirdERC20,
			Check:       checkZeroValueTransfer,
		},
		{
			ID:          "large-approval",
			Severity:    model.SeverityLow,
			Title:       "unlimited approval",
			Description: "Approving type(uint).max hands the spender the full balance forever; some tokens (e.g. UNI-style) even truncate it.",
			Interests:   []lang.NodeKind{lang.KindCall},
			Flag:        analysis.FlagWeirdERC20,
			Check:       checkLargeApproval,
		},
		{
			ID:          "empty-ether-receiver",
			Severity:    model.SeverityLow,
			Title:       "empty receive/fallback",
			Description: "An empty non-virtual receive or fallback accepts ether with no way to move it back out.",
			Interests:   []lang.NodeKind{lang.KindFunction},
			Flag:        analysis.FlagNative,
			Check: func(node lang.Node, ctx *analysis.Context) []model.Finding {
				fn := node.(*lang.FunctionDecl)
				if fn.FKind != lang.FuncReceive && fn.FKind != lang.FuncFallback {
					return nil
				}

				if fn.Virtual || fn.Body == nil || len(fn.Body.Stmts) > 0 {
					return nil
				}

				return []model.Finding{ctx.NewFinding(node,
					fmt.Sprintf("empty %s accepts ether it cannot forward", fn.FKind))}
			},
		},
		{
			ID:          "block-timestamp-deadline",
			Severity:    model.SeverityLow,
			Title:       "strict comparison against block.timestamp",
			Description: "Validators influence block.timestamp by seconds; strict inequalities invite off-by-one deadline games.",
			Interests:   []lang.NodeKind{lang.KindBinary},
			Check: func(node lang.Node, ctx *analysis.Context) []model.Finding {
				bin := node.(*lang.BinaryExpr)
				if bin.Op != "<" && bin.Op != ">" {
					return nil
				}

				if !lang.IsMemberOf(bin.X, "block", "timestamp") && !lang.IsMemberOf(bin.Y, "block", "timestamp") {
					return nil
				}

				return []model.Finding{ctx.NewFinding(node, "strict comparison against block.timestamp")}
			},
		},
		{
			ID:          "nft-hard-fork",
			Severity:    model.SeverityLow,
			Title:       "tokenURI ignores the chain id",
			Description: "After a hard fork both chains serve the same metadata; a chain-aware tokenURI disambiguates the canonical collection.",
			Interests:   []lang.NodeKind{lang.KindFunction},
			Flag:        analysis.FlagNFT,
			Check: func(node lang.Node, ctx *analysis.Context) []model.Finding {
				fn := node.(*lang.FunctionDecl)
				if fn.Name != "tokenURI" || fn.Body == nil {
					return nil
				}

				reads := lang.ContainsExpr(fn.Body, func(e lang.Expr) bool {
					return lang.IsMemberOf(e, "block", "chainid")
				})
				if reads {
					return nil
				}

				return []model.Finding{ctx.NewFinding(node, "tokenURI does not consider block.chainid")}
			},
		},
	}
}

func isDivision(expr lang.Expr) bool {
	bin, ok := expr.(*lang.BinaryExpr)

	return ok && bin.Op == "/"
}

// checkPush0 reports deployable files whose pragma admits 0.8.20 or later.
func checkPush0(node lang.Node, ctx *analysis.Context) []model.Finding {
	unit := node.(*lang.SourceUnit)

	value, span, ok := solidityPragma(unit)
	if !ok || !hasDeployableContract(unit) {
		return nil
	}

	version := firstPragmaVersion(value)
	if version == "" || semver.Compare("v"+version, "v0.8.20") < 0 {
		return nil
	}

	// An exact pre-0.8.20 pin never reaches here; ranges and newer pins do.
	return []model.Finding{{
		Location: ctx.LocateSpan(span),
		Message:  fmt.Sprintf("pragma %s admits compilers that emit PUSH0, unsupported on some chains", value),
	}}
}

// checkEncodePackedCollision flags keccak256/sha256 over an encodePacked
// with two or more dynamically typed arguments.
func checkEncodePackedCollision(node lang.Node, ctx *analysis.Context) []model.Finding {
	call := asCall(node)
	if !isNamedCall(call, "keccak256") && !isNamedCall(call, "sha256") {
		return nil
	}

	for _, arg := range call.Args {
		packed := asCall(arg)
		if packed == nil || memberCall(packed) != "encodePacked" {
			continue
		}

		if base, ok := callBase(packed).(*lang.IdentExpr); !ok || base.Name != "abi" {
			continue
		}

		dynamic := 0
		for _, packedArg := range packed.Args {
			if isDynamicArg(packedArg, ctx) {
				dynamic++
			}
		}

		if dynamic >= 2 {
			return []model.Finding{ctx.NewFinding(node,
				"hash over abi.encodePacked with multiple dynamic arguments can collide")}
		}
	}

	return nil
}

// checkZeroValueTransfer flags transfer-family calls whose amount argument
// is a variable with no zero guard anywhere in the function.
func checkZeroValueTransfer(node lang.Node, ctx *analysis.Context) []model.Finding {
	call := asCall(node)
	if !transferFamily[memberCall(call)] || len(call.Args) == 0 {
		return nil
	}

	// Excludes the one-argument payable transfer form.
	if memberCall(call) == "transfer" && len(call.Args) < 2 {
		return nil
	}

	amount, ok := call.Args[len(call.Args)-1].(*lang.IdentExpr)
	if !ok || guardsZeroAmount(ctx.Function(), amount.Name) {
		return nil
	}

	return []model.Finding{ctx.NewFinding(node,
		fmt.Sprintf("%s amount %q has no zero-amount guard", memberCall(call), amount.Name))}
}

// checkLargeApproval flags type(uint).max approvals on anything that is
// not spelled like WETH.
func checkLargeApproval(node lang.Node, ctx *analysis.Context) []model.Finding {
	call := asCall(node)

	member := memberCall(call)
	if member != "approve" && member != "safeApprove" {
		return nil
	}

	maxed := false
	for _, arg := range call.Args {
		if isTypeMax(arg) {
			maxed = true
			break
		}
	}

	if !maxed {
		return nil
	}

	if base, ok := callBase(call).(*lang.IdentExpr); ok && strings.Contains(strings.ToLower(base.Name), "weth") {
		return nil
	}

	return []model.Finding{ctx.NewFinding(node, "unlimited approval granted")}
}
