package detectors

import (
	"fmt"

	"solvet.dev/pkg/solvet/internal/analysis"
	"solvet.dev/pkg/solvet/internal/lang"
	"solvet.dev/pkg/solvet/internal/model"
)

func mediumDetectors() []analysis.Detector {
	return []analysis.Detector{
		{
			ID:          "unchecked-low-level-call",
			Severity:    model.SeverityMedium,
			Title:       "low-level call result ignored",
			Description: "call/delegatecall/staticcall return a success flag instead of reverting; dropping it silently swallows failures.",
			Interests:   []lang.NodeKind{lang.KindFunction},
			Check:       checkUncheckedLowLevelCall,
		},
		{
			ID:          "tx-origin-usage",
			Severity:    model.SeverityMedium,
			Title:       "tx.origin used",
			Description: "tx.origin authentication is phishable: any contract the user calls can relay into this one with the user's origin.",
			Interests:   []lang.NodeKind{lang.KindMember},
			Check: func(node lang.Node, ctx *analysis.Context) []model.Finding {
				if !lang.IsMemberOf(node.(lang.Expr), "tx", "origin") {
					return nil
				}

				finding := ctx.NewFinding(node, "tx.origin used; prefer msg.sender")

				return []model.Finding{finding}
			},
		},
		{
			ID:          "deprecated-transfer",
			Severity:    model.SeverityMedium,
			Title:       "payable transfer with 2300 gas stipend",
			Description: "address.transfer forwards a fixed 2300 gas and bricks recipients with nontrivial receive logic; use call{value: ...} with a success check.",
			Interests:   []lang.NodeKind{lang.KindCall},
			Check: func(node lang.Node, ctx *analysis.Context) []model.Finding {
				call := asCall(node)
				if memberCall(call) != "transfer" || len(call.Args) != 1 {
					return nil
				}

				finding := ctx.NewFinding(node, "transfer() forwards a fixed 2300 gas stipend")
				finding.Fix = "use call{value: amount}(\"\") and check the success flag"

				return []model.Finding{finding}
			},
		},
		{
			ID:          "centralization-risk",
			Severity:    model.SeverityMedium,
			Title:       "privileged function",
			Description: "Functions behind owner/admin modifiers concentrate power in one key; document the trust assumption or move behind a timelock.",
			Interests:   []lang.NodeKind{lang.KindFunction},
			Check: func(node lang.Node, ctx *analysis.Context) []model.Finding {
				fn := node.(*lang.FunctionDecl)
				if fn.FKind != lang.FuncPlain || !hasPrivilegedModifier(fn) {
					return nil
				}

				return []model.Finding{ctx.NewFinding(node,
					fmt.Sprintf("function %s is restricted to a privileged role", fn.Name))}
			},
		},
		{
			ID:          "fee-on-transfer",
			Severity:    model.SeverityMedium,
			Title:       "transfer amount assumed exact",
			Description: "Fee-on-transfer tokens deliver less than the requested amount; credit the balance delta, not the argument.",
			Interests:   []lang.NodeKind{lang.KindCall},
			Flag:        analysis.FlagFeeOnTransfer,
			Check:       checkFeeOnTransfer,
		},
		{
			ID:          "block-number-l2",
			Severity:    model.SeverityMedium,
			Title:       "block.number on an L2",
			Description: "On rollups block.number may track the L1 block or the sequencer's batch clock; timing logic built on it drifts.",
			Interests:   []lang.NodeKind{lang.KindMember},
			Flag:        analysis.FlagL2,
			Check: func(node lang.Node, ctx *analysis.Context) []model.Finding {
				if !lang.IsMemberOf(node.(lang.Expr), "block", "number") {
					return nil
				}

				return []model.Finding{ctx.NewFinding(node, "block.number semantics differ across L2s")}
			},
		},
		{
			ID:          "l2-sequencer-check",
			Severity:    model.SeverityMedium,
			Title:       "oracle read without sequencer status",
			Description: "Chainlink reads on an L2 must confirm the sequencer uptime feed; stale answers pass silently while the sequencer is down.",
			Interests:   []lang.NodeKind{lang.KindExprStmt, lang.KindVarDeclStmt},
			Flag:        analysis.FlagL2,
			Check:       checkSequencerStatus,
		},
		{
			ID:          "nft-mint-asymmetry",
			Severity:    model.SeverityMedium,
			Title:       "asymmetric mint surface",
			Description: "Defining only one of _mint/_safeMint suggests the receiver check path was overlooked for part of the minting surface.",
			Interests:   []lang.NodeKind{lang.KindContract},
			Flag:        analysis.FlagNFT,
			Check: func(node lang.Node, ctx *analysis.Context) []model.Finding {
				contract := node.(*lang.ContractDecl)
				if contract.CKind != lang.ContractPlain {
					return nil
				}

				var mint, safeMint bool

				for _, fn := range contract.Functions() {
					switch fn.Name {
					case "_mint":
						mint = true
					case "_safeMint":
						safeMint = true
					}
				}

				if mint == safeMint {
					return nil
				}

				return []model.Finding{ctx.NewFinding(node,
					fmt.Sprintf("contract %s defines only one of _mint/_safeMint", contract.Name))}
			},
		},
		{
			ID:                 "missing-override",
			Severity:           model.SeverityMedium,
			Title:              "base virtual function redefined without override",
			Description:        "Redefining a base's virtual function without the override keyword compiles on old pragmas and hides the relationship.",
			Interests:          []lang.NodeKind{lang.KindContract},
			NeedsLinearization: true,
			NeedsSymbols:       true,
			Check:              checkMissingOverride,
		},
		{
			ID:                 "shadowed-state-variable",
			Severity:           model.SeverityMedium,
			Title:              "state variable shadows a base's",
			Description:        "Two storage slots with one name: base logic reads its own copy while derived logic writes the other.",
			Interests:          []lang.NodeKind{lang.KindContract},
			NeedsLinearization: true,
			NeedsSymbols:       true,
			Check:              checkShadowedStateVar,
		},
	}
}

// checkUncheckedLowLevelCall flags bare statement-level low-level calls:
// the success flag was neither bound nor tested.
func checkUncheckedLowLevelCall(node lang.Node, ctx *analysis.Context) []model.Finding {
	fn := node.(*lang.FunctionDecl)
	if fn.Body == nil {
		return nil
	}

	var out []model.Finding

	lang.Inspect(fn.Body, func(n lang.Node) bool {
		stmt, ok := n.(*lang.ExprStmt)
		if !ok {
			return true
		}

		call, ok := stmt.X.(*lang.CallExpr)
		if !ok || !lowLevelMembers[memberCall(call)] {
			return true
		}

		finding := ctx.NewFinding(stmt, fmt.Sprintf("return value of .%s is ignored", memberCall(call)))
		finding.Fix = "bind the success flag: (bool ok, ) = ...; require(ok)"
		out = append(out, finding)

		return true
	})

	return out
}

// checkFeeOnTransfer flags pulls into address(this) on a token, by member
// name or by a hand-encoded transferFrom selector in low-level call data.
func checkFeeOnTransfer(node lang.Node, ctx *analysis.Context) []model.Finding {
	call := asCall(node)

	member := memberCall(call)
	switch member {
	case "transferFrom", "safeTransferFrom":
		for _, arg := range call.Args {
			if isAddressThis(arg) {
				return []model.Finding{ctx.NewFinding(node,
					"amount pulled into the contract may shrink in transit on fee-on-transfer tokens")}
			}
		}
	case "encodeWithSelector":
		if hasSelectorArg(call, selTransferFrom) {
			for _, arg := range call.Args {
				if isAddressThis(arg) {
					return []model.Finding{ctx.NewFinding(node,
						"encoded transferFrom into the contract may shrink in transit on fee-on-transfer tokens")}
				}
			}
		}
	}

	return nil
}

// checkSequencerStatus flags latestRoundData destructures that drop the
// answer slot, in both declaration and assignment form.
func checkSequencerStatus(node lang.Node, ctx *analysis.Context) []model.Finding {
	switch n := node.(type) {
	case *lang.VarDeclStmt:
		if !n.Tuple || len(n.Vars) != 5 || n.Vars[1] != nil {
			return nil
		}

		if call := asCall(n.Value); call != nil && memberCall(call) == "latestRoundData" {
			return []model.Finding{ctx.NewFinding(node,
				"latestRoundData destructure ignores the answer slot; check the sequencer uptime feed")}
		}
	case *lang.ExprStmt:
		assign, ok := n.X.(*lang.AssignExpr)
		if !ok || assign.Op != "=" {
			return nil
		}

		tuple, ok := assign.LHS.(*lang.TupleExpr)
		if !ok || len(tuple.Elems) != 5 || tuple.Elems[1] != nil {
			return nil
		}

		if call := asCall(assign.RHS); call != nil && memberCall(call) == "latestRoundData" {
			return []model.Finding{ctx.NewFinding(node,
				"latestRoundData destructure ignores the answer slot; check the sequencer uptime feed")}
		}
	}

	return nil
}

// checkMissingOverride walks the contract's linearized bases looking for a
// virtual function redefined locally without the override keyword.
func checkMissingOverride(node lang.Node, ctx *analysis.Context) []model.Finding {
	contract := node.(*lang.ContractDecl)

	chain := ctx.Linearization(contract)
	if len(chain) < 2 {
		return nil
	}

	var out []model.Finding

	for _, fn := range contract.Functions() {
		if fn.Override || fn.FKind != lang.FuncPlain || fn.Name == "" {
			continue
		}

		for _, base := range chain[1:] {
			baseFn := base.Function(fn.Name)
			if baseFn == nil || !baseFn.Virtual {
				continue
			}

			finding := ctx.NewFinding(fn, fmt.Sprintf(
				"%s.%s redefines virtual %s.%s without override",
				contract.Name, fn.Name, base.Name, fn.Name))
			out = append(out, finding)

			break
		}
	}

	return out
}

// checkShadowedStateVar reports state variables whose name already exists
// on a linearized base.
func checkShadowedStateVar(node lang.Node, ctx *analysis.Context) []model.Finding {
	contract := node.(*lang.ContractDecl)

	chain := ctx.Linearization(contract)
	if len(chain) < 2 {
		return nil
	}

	var out []model.Finding

	for _, v := range contract.StateVars() {
		for _, base := range chain[1:] {
			if base.StateVar(v.Name) == nil {
				continue
			}

			out = append(out, ctx.NewFinding(v, fmt.Sprintf(
				"state variable %s shadows %s.%s",
				v.Name, base.Name, v.Name)))

			break
		}
	}

	return out
}
