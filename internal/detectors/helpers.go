// Package detectors holds the built-in detector battery. Each detector is
// a pure descriptor with a check function; the battery is assembled into
// one immutable registry at startup.
package detectors

import (
	"strings"

	"github.com/ethereum/go-ethereum/crypto"

	"solvet.dev/pkg/solvet/internal/analysis"
	"solvet.dev/pkg/solvet/internal/lang"
)

// selector computes the 4-byte ABI selector for a function signature, hex
// encoded without a 0x prefix. Used to recognize hand-encoded ERC20 calls
// in low-level call data.
func selector(signature string) string {
	sum := crypto.Keccak256([]byte(signature))
	const hexDigits = "0123456789abcdef"

	out := make([]byte, 0, 8)
	for _, b := range sum[:4] {
		out = append(out, hexDigits[b>>4], hexDigits[b&0xf])
	}

	return string(out)
}

// ERC20 call selectors matched inside abi.encodeWithSelector arguments.
var (
	selTransfer     = selector("transfer(address,uint256)")
	selTransferFrom = selector("transferFrom(address,address,uint256)")
	selApprove      = selector("approve(address,uint256)")
)

// asCall unwraps a node into a call expression, or nil.
func asCall(node lang.Node) *lang.CallExpr {
	call, ok := node.(*lang.CallExpr)
	if !ok {
		return nil
	}

	return call
}

// isNamedCall reports whether the call invokes a bare identifier, like
// require(...) or ecrecover(...).
func isNamedCall(call *lang.CallExpr, name string) bool {
	ident, ok := call.Callee.(*lang.IdentExpr)

	return ok && ident.Name == name
}

// memberCall returns the member name for x.member(...) calls, or "".
func memberCall(call *lang.CallExpr) string {
	if member, ok := call.Callee.(*lang.MemberExpr); ok {
		return member.Member
	}

	return ""
}

// callBase returns the receiver expression of a member call, or nil.
func callBase(call *lang.CallExpr) lang.Expr {
	if member, ok := call.Callee.(*lang.MemberExpr); ok {
		return member.X
	}

	return nil
}

// isAddressThis matches the expression address(this).
func isAddressThis(expr lang.Expr) bool {
	call, ok := expr.(*lang.CallExpr)
	if !ok || !isNamedCall(call, "address") || len(call.Args) != 1 {
		return false
	}

	ident, ok := call.Args[0].(*lang.IdentExpr)

	return ok && ident.Name == "this"
}

// isTypeMax matches type(uintN).max.
func isTypeMax(expr lang.Expr) bool {
	member, ok := expr.(*lang.MemberExpr)
	if !ok || member.Member != "max" {
		return false
	}

	call, ok := member.X.(*lang.CallExpr)

	return ok && isNamedCall(call, "type")
}

// hasSelectorArg reports whether any call argument is a hex literal whose
// digits start with the given 4-byte selector.
func hasSelectorArg(call *lang.CallExpr, sel string) bool {
	for _, arg := range call.Args {
		hex, ok := arg.(*lang.HexNumberLit)
		if !ok {
			continue
		}

		digits := strings.TrimPrefix(strings.ToLower(hex.Value), "0x")
		if strings.HasPrefix(digits, sel) {
			return true
		}
	}

	return false
}

// comparisonOps are the operators without effect when used as a bare
// statement.
var comparisonOps = map[string]bool{
	"==": true, "!=": true, "<": true, ">": true, "<=": true, ">=": true,
}

// lowLevelMembers are the raw call primitives on addresses.
var lowLevelMembers = map[string]bool{
	"call": true, "delegatecall": true, "staticcall": true,
}

// transferFamily covers the ERC20 transfer surface including the
// SafeERC20 wrappers.
var transferFamily = map[string]bool{
	"transfer": true, "transferFrom": true,
	"safeTransfer": true, "safeTransferFrom": true,
}

// privilegedModifierPrefixes mark access-restricted functions.
var privilegedModifierPrefixes = []string{
	"only", "Only", "auth", "requiresAuth", "admin",
}

// hasPrivilegedModifier reports whether the function carries an
// access-control modifier like onlyOwner or onlyRole(...).
func hasPrivilegedModifier(fn *lang.FunctionDecl) bool {
	for _, mod := range fn.Modifiers {
		for _, prefix := range privilegedModifierPrefixes {
			if strings.HasPrefix(mod.Name, prefix) {
				return true
			}
		}
	}

	return false
}

// declaredType resolves an identifier's textual type against the current
// function's parameters and the enclosing contract's state variables.
// Returns the zero TypeRef when the name cannot be resolved.
func declaredType(name string, ctx *analysis.Context) lang.TypeRef {
	if fn := ctx.Function(); fn != nil {
		for _, param := range fn.Params {
			if param.Name == name {
				return param.Type
			}
		}

		for _, ret := range fn.Returns {
			if ret.Name == name {
				return ret.Type
			}
		}
	}

	if contract := ctx.Contract(); contract != nil {
		for _, v := range contract.StateVars() {
			if v.Name == name {
				return v.Type
			}
		}
	}

	return lang.TypeRef{}
}

// isDynamicArg reports whether a call argument has dynamic ABI encoding:
// a string literal, or an identifier declared with a dynamic type.
func isDynamicArg(arg lang.Expr, ctx *analysis.Context) bool {
	switch a := arg.(type) {
	case *lang.StringLit:
		return true
	case *lang.IdentExpr:
		return declaredType(a.Name, ctx).IsDynamic()
	}

	return false
}

// firstPragmaVersion extracts the first version number from a solidity
// pragma value like "^0.8.20" or ">=0.8.0 <0.9.0".
func firstPragmaVersion(value string) string {
	start := -1

	for i := 0; i < len(value); i++ {
		c := value[i]
		if c >= '0' && c <= '9' {
			start = i
			break
		}
	}

	if start < 0 {
		return ""
	}

	end := start
	for end < len(value) && (value[end] >= '0' && value[end] <= '9' || value[end] == '.') {
		end++
	}

	return value[start:end]
}

// solidityPragma returns the version value of the unit's solidity pragma,
// or "" when the file has none.
func solidityPragma(unit *lang.SourceUnit) (string, lang.Span, bool) {
	for _, item := range unit.Items {
		if pragma, ok := item.(*lang.PragmaDirective); ok && pragma.Name == "solidity" {
			return pragma.Value, pragma.Span, true
		}
	}

	return "", lang.Span{}, false
}

// hasDeployableContract reports whether the unit declares a non-abstract
// contract (not an interface or library).
func hasDeployableContract(unit *lang.SourceUnit) bool {
	for _, item := range unit.Items {
		contract, ok := item.(*lang.ContractDecl)
		if ok && contract.CKind == lang.ContractPlain && !contract.Abstract {
			return true
		}
	}

	return false
}

// guardsZeroAmount reports whether the function body compares the named
// amount against zero anywhere (a require, if, or ternary guard).
func guardsZeroAmount(fn *lang.FunctionDecl, amount string) bool {
	if fn == nil || fn.Body == nil {
		return false
	}

	return lang.ContainsExpr(fn.Body, func(e lang.Expr) bool {
		bin, ok := e.(*lang.BinaryExpr)
		if !ok || !comparisonOps[bin.Op] {
			return false
		}

		return comparesIdentToZero(bin.X, bin.Y, amount) ||
			comparesIdentToZero(bin.Y, bin.X, amount)
	})
}

func comparesIdentToZero(identSide, zeroSide lang.Expr, name string) bool {
	ident, ok := identSide.(*lang.IdentExpr)
	if !ok || ident.Name != name {
		return false
	}

	num, ok := zeroSide.(*lang.NumberLit)

	return ok && num.Value == "0"
}
