package lang

import "strings"

// NodeKind identifies the concrete type of a syntax tree node. The analysis
// dispatch table is indexed by kind, so these values are dense.
type NodeKind int

const (
	KindSourceUnit NodeKind = iota
	KindPragma
	KindImport
	KindContract
	KindUsing
	KindStruct
	KindEnum
	KindEvent
	KindError
	KindStateVar
	KindFunction
	KindParam
	KindBlock
	KindIf
	KindFor
	KindWhile
	KindDoWhile
	KindReturn
	KindEmit
	KindRevert
	KindTry
	KindBreak
	KindContinue
	KindExprStmt
	KindVarDeclStmt
	KindAssembly
	KindPlaceholder
	KindBinary
	KindUnary
	KindAssign
	KindConditional
	KindCall
	KindMember
	KindIndex
	KindNew
	KindTuple
	KindArray
	KindIdent
	KindNumber
	KindHexNumber
	KindString
	KindBool

	// KindCount is the number of node kinds; it sizes dispatch tables.
	KindCount
)

var kindNames = [...]string{
	"SourceUnit", "Pragma", "Import", "Contract", "Using", "Struct", "Enum",
	"Event", "Error", "StateVar", "Function", "Param", "Block", "If", "For",
	"While", "DoWhile", "Return", "Emit", "Revert", "Try", "Break", "Continue",
	"ExprStmt", "VarDeclStmt", "Assembly", "Placeholder", "Binary", "Unary",
	"Assign", "Conditional", "Call", "Member", "Index", "New", "Tuple",
	"Array", "Ident", "Number", "HexNumber", "String", "Bool",
}

func (k NodeKind) String() string {
	if k >= 0 && int(k) < len(kindNames) {
		return kindNames[k]
	}

	return "NodeKind(?)"
}

// Node is any syntax tree node.
type Node interface {
	Pos() Span
	Kind() NodeKind
}

// Stmt is a statement node.
type Stmt interface {
	Node
	stmtNode()
}

// Expr is an expression node.
type Expr interface {
	Node
	exprNode()
}

// TypeRef is the textual form of a type annotation. The analyzer resolves
// declared names and inheritance only, so types stay textual.
type TypeRef struct {
	Text string
	Span Span
}

// IsDynamic reports whether the type has dynamic encoding (string, bytes,
// dynamic arrays, mappings).
func (t TypeRef) IsDynamic() bool {
	return t.Text == "string" || t.Text == "bytes" ||
		strings.HasSuffix(t.Text, "[]") || strings.HasPrefix(t.Text, "mapping")
}

// SourceUnit is the root node for one file. Items preserves declaration
// order across pragmas, imports, and top-level declarations.
type SourceUnit struct {
	Items []Node
	Span  Span
}

// PragmaDirective is `pragma <name> <value>;` with Value kept verbatim.
type PragmaDirective struct {
	Name  string
	Value string
	Span  Span
}

// ImportSymbol is one entry of an `import {A as B} from "p"` list.
type ImportSymbol struct {
	Name  string
	Alias string
}

// ImportDirective covers all three import statement forms.
type ImportDirective struct {
	Path    string
	Alias   string
	Symbols []ImportSymbol
	Span    Span
}

// ContractKind distinguishes contract, interface, and library declarations.
type ContractKind int

const (
	ContractPlain ContractKind = iota
	ContractInterface
	ContractLibrary
)

func (k ContractKind) String() string {
	switch k {
	case ContractInterface:
		return "interface"
	case ContractLibrary:
		return "library"
	default:
		return "contract"
	}
}

// BaseRef is one entry of a contract's inheritance list, in header order.
type BaseRef struct {
	Name string
	Args []Expr
	Span Span
}

// ContractDecl is a contract, interface, or library declaration.
type ContractDecl struct {
	CKind    ContractKind
	Abstract bool
	Name     string
	NameSpan Span
	Bases    []*BaseRef
	Items    []Node
	Span     Span
}

// Functions returns the contract's function declarations in source order.
func (c *ContractDecl) Functions() []*FunctionDecl {
	var out []*FunctionDecl

	for _, item := range c.Items {
		if fn, ok := item.(*FunctionDecl); ok {
			out = append(out, fn)
		}
	}

	return out
}

// StateVars returns the contract's state variable declarations.
func (c *ContractDecl) StateVars() []*VarDecl {
	var out []*VarDecl

	for _, item := range c.Items {
		if v, ok := item.(*VarDecl); ok {
			out = append(out, v)
		}
	}

	return out
}

// UsingDecl is `using Lib for Type;`.
type UsingDecl struct {
	Library string
	Target  string
	Span    Span
}

// Param is a function parameter, return value, struct field, or event field.
type Param struct {
	Name     string
	Type     TypeRef
	Location string
	Indexed  bool
	Span     Span
}

// StructDecl is a struct type declaration.
type StructDecl struct {
	Name   string
	Fields []*Param
	Span   Span
}

// EnumDecl is an enum type declaration.
type EnumDecl struct {
	Name   string
	Values []string
	Span   Span
}

// EventDecl is an event declaration.
type EventDecl struct {
	Name      string
	Params    []*Param
	Anonymous bool
	Span      Span
}

// ErrorDecl is a custom error declaration.
type ErrorDecl struct {
	Name   string
	Params []*Param
	Span   Span
}

// VarDecl is a state variable or file-level constant declaration.
type VarDecl struct {
	Name       string
	NameSpan   Span
	Type       TypeRef
	Visibility string
	Constant   bool
	Immutable  bool
	Override   bool
	Value      Expr
	Span       Span
}

// FuncKind distinguishes the function-like declaration forms.
type FuncKind int

const (
	FuncPlain FuncKind = iota
	FuncConstructor
	FuncReceive
	FuncFallback
	FuncModifier
)

func (k FuncKind) String() string {
	switch k {
	case FuncConstructor:
		return "constructor"
	case FuncReceive:
		return "receive"
	case FuncFallback:
		return "fallback"
	case FuncModifier:
		return "modifier"
	default:
		return "function"
	}
}

// ModifierRef is a modifier invocation (or base constructor call) in a
// function header.
type ModifierRef struct {
	Name string
	Args []Expr
	Span Span
}

// FunctionDecl is a function, constructor, receive, fallback, or modifier
// declaration. Body is nil for bodiless declarations.
type FunctionDecl struct {
	FKind      FuncKind
	Name       string
	NameSpan   Span
	Params     []*Param
	Returns    []*Param
	Visibility string
	Mutability string
	Modifiers  []*ModifierRef
	Virtual    bool
	Override   bool
	Overrides  []string
	Body       *BlockStmt
	Span       Span
}

// HasModifier reports whether the function header names the given modifier.
func (f *FunctionDecl) HasModifier(name string) bool {
	for _, mod := range f.Modifiers {
		if mod.Name == name {
			return true
		}
	}

	return false
}

// Statements.

// BlockStmt is `{ ... }`; Unchecked marks `unchecked { ... }`.
type BlockStmt struct {
	Stmts     []Stmt
	Unchecked bool
	Span      Span
}

// IfStmt is an if/else statement.
type IfStmt struct {
	Cond Expr
	Then Stmt
	Else Stmt
	Span Span
}

// ForStmt is a for loop; Init, Cond, and Post may each be nil.
type ForStmt struct {
	Init Stmt
	Cond Expr
	Post Expr
	Body Stmt
	Span Span
}

// WhileStmt is a while loop.
type WhileStmt struct {
	Cond Expr
	Body Stmt
	Span Span
}

// DoWhileStmt is a do/while loop.
type DoWhileStmt struct {
	Body Stmt
	Cond Expr
	Span Span
}

// ReturnStmt is a return statement; Value may be nil.
type ReturnStmt struct {
	Value Expr
	Span  Span
}

// EmitStmt is `emit Event(args);`.
type EmitStmt struct {
	Call *CallExpr
	Span Span
}

// RevertStmt is `revert();`, `revert("reason");`, or `revert Err(args);`.
type RevertStmt struct {
	Error string
	Args  []Expr
	Span  Span
}

// CatchClause is one catch arm of a try statement.
type CatchClause struct {
	Kind   string
	Params []*Param
	Body   *BlockStmt
	Span   Span
}

// TryStmt is a try/catch statement around an external call.
type TryStmt struct {
	Call    Expr
	Returns []*Param
	Body    *BlockStmt
	Catches []*CatchClause
	Span    Span
}

// BreakStmt is a break statement.
type BreakStmt struct {
	Span Span
}

// ContinueStmt is a continue statement.
type ContinueStmt struct {
	Span Span
}

// ExprStmt is an expression used as a statement.
type ExprStmt struct {
	X    Expr
	Span Span
}

// LocalVar is one declared variable of a VarDeclStmt; nil entries in the
// parent's list mark skipped tuple slots.
type LocalVar struct {
	Name     string
	Type     TypeRef
	Location string
	Span     Span
}

// VarDeclStmt is a local variable declaration, possibly a tuple form like
// `(bool ok, ) = target.call(...)`.
type VarDeclStmt struct {
	Vars  []*LocalVar
	Tuple bool
	Value Expr
	Span  Span
}

// AssemblyStmt is an inline assembly block, kept as raw text.
type AssemblyStmt struct {
	Flags []string
	Body  string
	Span  Span
}

// PlaceholderStmt is the `_;` statement inside a modifier body.
type PlaceholderStmt struct {
	Span Span
}

// Expressions.

// BinaryExpr is a binary operation; Op is the operator spelling.
type BinaryExpr struct {
	Op   string
	X    Expr
	Y    Expr
	Span Span
}

// UnaryExpr is a prefix or postfix unary operation.
type UnaryExpr struct {
	Op     string
	Prefix bool
	X      Expr
	Span   Span
}

// AssignExpr is an assignment; Op is "=" or a compound form like "+=".
type AssignExpr struct {
	Op   string
	LHS  Expr
	RHS  Expr
	Span Span
}

// ConditionalExpr is the ternary operator.
type ConditionalExpr struct {
	Cond Expr
	Then Expr
	Else Expr
	Span Span
}

// CallOption is one entry of a `{value: ..., gas: ...}` call option block.
type CallOption struct {
	Name  string
	Value Expr
}

// CallExpr is a function call, possibly with call options.
type CallExpr struct {
	Callee  Expr
	Options []CallOption
	Args    []Expr
	Span    Span
}

// MemberName returns the called member name for `x.member(...)` calls, or
// the bare identifier name for `ident(...)` calls; empty otherwise.
func (c *CallExpr) MemberName() string {
	switch callee := c.Callee.(type) {
	case *MemberExpr:
		return callee.Member
	case *IdentExpr:
		return callee.Name
	}

	return ""
}

// MemberExpr is `x.member`.
type MemberExpr struct {
	X          Expr
	Member     string
	MemberSpan Span
	Span       Span
}

// IndexExpr is `x[i]` or the slice form `x[lo:hi]`; Index and End may each
// be nil since slice bounds can be omitted.
type IndexExpr struct {
	X     Expr
	Index Expr
	End   Expr
	Span  Span
}

// NewExpr is `new T`; calls wrap it in a CallExpr.
type NewExpr struct {
	Type TypeRef
	Span Span
}

// TupleExpr is `(a, b)`; nil elements mark skipped slots.
type TupleExpr struct {
	Elems []Expr
	Span  Span
}

// ArrayExpr is an inline array literal `[a, b, c]`.
type ArrayExpr struct {
	Elems []Expr
	Span  Span
}

// IdentExpr is a bare identifier, including elementary type names used as
// conversion callees (`address(this)`, `payable(x)`).
type IdentExpr struct {
	Name string
	Span Span
}

// NumberLit is a decimal number literal; Unit holds a trailing denomination
// like `ether` or `days` when present.
type NumberLit struct {
	Value string
	Unit  string
	Span  Span
}

// HexNumberLit is a `0x...` literal.
type HexNumberLit struct {
	Value string
	Span  Span
}

// StringLit is a string literal; adjacent literals are concatenated.
type StringLit struct {
	Value string
	Span  Span
}

// BoolLit is `true` or `false`.
type BoolLit struct {
	Value bool
	Span  Span
}

// Pos and Kind implementations.

func (n *SourceUnit) Pos() Span       { return n.Span }
func (n *SourceUnit) Kind() NodeKind  { return KindSourceUnit }
func (n *PragmaDirective) Pos() Span  { return n.Span }
func (n *PragmaDirective) Kind() NodeKind { return KindPragma }
func (n *ImportDirective) Pos() Span  { return n.Span }
func (n *ImportDirective) Kind() NodeKind { return KindImport }
func (n *ContractDecl) Pos() Span     { return n.Span }
func (n *ContractDecl) Kind() NodeKind { return KindContract }
func (n *UsingDecl) Pos() Span        { return n.Span }
func (n *UsingDecl) Kind() NodeKind   { return KindUsing }
func (n *StructDecl) Pos() Span       { return n.Span }
func (n *StructDecl) Kind() NodeKind  { return KindStruct }
func (n *EnumDecl) Pos() Span         { return n.Span }
func (n *EnumDecl) Kind() NodeKind    { return KindEnum }
func (n *EventDecl) Pos() Span        { return n.Span }
func (n *EventDecl) Kind() NodeKind   { return KindEvent }
func (n *ErrorDecl) Pos() Span        { return n.Span }
func (n *ErrorDecl) Kind() NodeKind   { return KindError }
func (n *VarDecl) Pos() Span          { return n.Span }
func (n *VarDecl) Kind() NodeKind     { return KindStateVar }
func (n *FunctionDecl) Pos() Span     { return n.Span }
func (n *FunctionDecl) Kind() NodeKind { return KindFunction }
func (n *Param) Pos() Span            { return n.Span }
func (n *Param) Kind() NodeKind       { return KindParam }

func (n *BlockStmt) Pos() Span        { return n.Span }
func (n *BlockStmt) Kind() NodeKind   { return KindBlock }
func (n *IfStmt) Pos() Span           { return n.Span }
func (n *IfStmt) Kind() NodeKind      { return KindIf }
func (n *ForStmt) Pos() Span          { return n.Span }
func (n *ForStmt) Kind() NodeKind     { return KindFor }
func (n *WhileStmt) Pos() Span        { return n.Span }
func (n *WhileStmt) Kind() NodeKind   { return KindWhile }
func (n *DoWhileStmt) Pos() Span      { return n.Span }
func (n *DoWhileStmt) Kind() NodeKind { return KindDoWhile }
func (n *ReturnStmt) Pos() Span       { return n.Span }
func (n *ReturnStmt) Kind() NodeKind  { return KindReturn }
func (n *EmitStmt) Pos() Span         { return n.Span }
func (n *EmitStmt) Kind() NodeKind    { return KindEmit }
func (n *RevertStmt) Pos() Span       { return n.Span }
func (n *RevertStmt) Kind() NodeKind  { return KindRevert }
func (n *TryStmt) Pos() Span          { return n.Span }
func (n *TryStmt) Kind() NodeKind     { return KindTry }
func (n *BreakStmt) Pos() Span        { return n.Span }
func (n *BreakStmt) Kind() NodeKind   { return KindBreak }
func (n *ContinueStmt) Pos() Span     { return n.Span }
func (n *ContinueStmt) Kind() NodeKind { return KindContinue }
func (n *ExprStmt) Pos() Span         { return n.Span }
func (n *ExprStmt) Kind() NodeKind    { return KindExprStmt }
func (n *VarDeclStmt) Pos() Span      { return n.Span }
func (n *VarDeclStmt) Kind() NodeKind { return KindVarDeclStmt }
func (n *AssemblyStmt) Pos() Span     { return n.Span }
func (n *AssemblyStmt) Kind() NodeKind { return KindAssembly }
func (n *PlaceholderStmt) Pos() Span  { return n.Span }
func (n *PlaceholderStmt) Kind() NodeKind { return KindPlaceholder }

func (n *BinaryExpr) Pos() Span       { return n.Span }
func (n *BinaryExpr) Kind() NodeKind  { return KindBinary }
func (n *UnaryExpr) Pos() Span        { return n.Span }
func (n *UnaryExpr) Kind() NodeKind   { return KindUnary }
func (n *AssignExpr) Pos() Span       { return n.Span }
func (n *AssignExpr) Kind() NodeKind  { return KindAssign }
func (n *ConditionalExpr) Pos() Span  { return n.Span }
func (n *ConditionalExpr) Kind() NodeKind { return KindConditional }
func (n *CallExpr) Pos() Span         { return n.Span }
func (n *CallExpr) Kind() NodeKind    { return KindCall }
func (n *MemberExpr) Pos() Span       { return n.Span }
func (n *MemberExpr) Kind() NodeKind  { return KindMember }
func (n *IndexExpr) Pos() Span        { return n.Span }
func (n *IndexExpr) Kind() NodeKind   { return KindIndex }
func (n *NewExpr) Pos() Span          { return n.Span }
func (n *NewExpr) Kind() NodeKind     { return KindNew }
func (n *TupleExpr) Pos() Span        { return n.Span }
func (n *TupleExpr) Kind() NodeKind   { return KindTuple }
func (n *ArrayExpr) Pos() Span        { return n.Span }
func (n *ArrayExpr) Kind() NodeKind   { return KindArray }
func (n *IdentExpr) Pos() Span        { return n.Span }
func (n *IdentExpr) Kind() NodeKind   { return KindIdent }
func (n *NumberLit) Pos() Span        { return n.Span }
func (n *NumberLit) Kind() NodeKind   { return KindNumber }
func (n *HexNumberLit) Pos() Span     { return n.Span }
func (n *HexNumberLit) Kind() NodeKind { return KindHexNumber }
func (n *StringLit) Pos() Span        { return n.Span }
func (n *StringLit) Kind() NodeKind   { return KindString }
func (n *BoolLit) Pos() Span          { return n.Span }
func (n *BoolLit) Kind() NodeKind     { return KindBool }

func (*BlockStmt) stmtNode()       {}
func (*IfStmt) stmtNode()          {}
func (*ForStmt) stmtNode()         {}
func (*WhileStmt) stmtNode()       {}
func (*DoWhileStmt) stmtNode()     {}
func (*ReturnStmt) stmtNode()      {}
func (*EmitStmt) stmtNode()        {}
func (*RevertStmt) stmtNode()      {}
func (*TryStmt) stmtNode()         {}
func (*BreakStmt) stmtNode()       {}
func (*ContinueStmt) stmtNode()    {}
func (*ExprStmt) stmtNode()        {}
func (*VarDeclStmt) stmtNode()     {}
func (*AssemblyStmt) stmtNode()    {}
func (*PlaceholderStmt) stmtNode() {}

func (*BinaryExpr) exprNode()      {}
func (*UnaryExpr) exprNode()       {}
func (*AssignExpr) exprNode()      {}
func (*ConditionalExpr) exprNode() {}
func (*CallExpr) exprNode()        {}
func (*MemberExpr) exprNode()      {}
func (*IndexExpr) exprNode()       {}
func (*NewExpr) exprNode()         {}
func (*TupleExpr) exprNode()       {}
func (*ArrayExpr) exprNode()       {}
func (*IdentExpr) exprNode()       {}
func (*NumberLit) exprNode()       {}
func (*HexNumberLit) exprNode()    {}
func (*StringLit) exprNode()       {}
func (*BoolLit) exprNode()         {}

// IsMemberOf reports whether expr is the member access base.member with the
// given base identifier and member name (for patterns like msg.value and
// block.number).
func IsMemberOf(expr Expr, base, member string) bool {
	access, ok := expr.(*MemberExpr)
	if !ok || access.Member != member {
		return false
	}

	ident, ok := access.X.(*IdentExpr)

	return ok && ident.Name == base
}
