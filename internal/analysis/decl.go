package analysis

import (
	"solvet.dev/pkg/solvet/internal/lang"
)

// DeclID is the arena handle for a Declaration. Graph edges, linearization
// chains, and cycle detection all operate on these dense indices instead of
// pointers, so diamonds and self-references reduce to integer comparisons.
type DeclID int

// DeclKind classifies a top-level declaration.
type DeclKind int

const (
	DeclContract DeclKind = iota
	DeclInterface
	DeclLibrary
	DeclStruct
	DeclEnum
	DeclFreeFunction
	DeclError
	DeclEvent
)

func (k DeclKind) String() string {
	switch k {
	case DeclContract:
		return "contract"
	case DeclInterface:
		return "interface"
	case DeclLibrary:
		return "library"
	case DeclStruct:
		return "struct"
	case DeclEnum:
		return "enum"
	case DeclFreeFunction:
		return "function"
	case DeclError:
		return "error"
	case DeclEvent:
		return "event"
	}

	return "declaration"
}

// Declaration is one named top-level entity. Append-only once parsed; the
// symbol table owns the arena and hands out read-only views.
type Declaration struct {
	ID       DeclID
	Name     string
	Kind     DeclKind
	File     string
	Span     lang.Span
	Abstract bool

	// Bases holds the base-type names exactly as textually declared, in
	// header order. The order is the C3 tie-break.
	Bases []string

	// Contract is set for contract, interface, and library declarations.
	Contract *lang.ContractDecl
	// Node is the declaration's syntax node, whatever its kind.
	Node lang.Node
}

// IsContractLike reports whether the declaration takes part in inheritance.
func (d *Declaration) IsContractLike() bool {
	return d.Contract != nil
}

// Function returns the declared function with the given name, or nil.
func (d *Declaration) Function(name string) *lang.FunctionDecl {
	if d.Contract == nil {
		return nil
	}

	for _, fn := range d.Contract.Functions() {
		if fn.Name == name {
			return fn
		}
	}

	return nil
}

// StateVar returns the declared state variable with the given name, or nil.
func (d *Declaration) StateVar(name string) *lang.VarDecl {
	if d.Contract == nil {
		return nil
	}

	for _, v := range d.Contract.StateVars() {
		if v.Name == name {
			return v
		}
	}

	return nil
}

// SymbolTable maps qualified names to declarations for one run. Solidity
// top-level names share a single global scope; contract members stay on
// their Declaration. The table is immutable once Stage B hands it to the
// detection workers.
type SymbolTable struct {
	decls      []*Declaration
	byName     map[string]DeclID
	byContract map[*lang.ContractDecl]DeclID
}

// Decl returns the declaration for an arena handle.
func (t *SymbolTable) Decl(id DeclID) *Declaration {
	if t == nil || id < 0 || int(id) >= len(t.decls) {
		return nil
	}

	return t.decls[id]
}

// Lookup resolves a top-level name. Only the first-registered declaration
// for a name is in the table; duplicates were reported during the build.
func (t *SymbolTable) Lookup(name string) (*Declaration, bool) {
	if t == nil {
		return nil, false
	}

	id, ok := t.byName[name]
	if !ok {
		return nil, false
	}

	return t.decls[id], true
}

// DeclFor maps a contract syntax node back to its declaration. Duplicate
// declarations excluded from the name table still resolve here, so they
// stay structurally visitable.
func (t *SymbolTable) DeclFor(node *lang.ContractDecl) (*Declaration, bool) {
	if t == nil {
		return nil, false
	}

	id, ok := t.byContract[node]
	if !ok {
		return nil, false
	}

	return t.decls[id], true
}

// Len returns the arena size. Handles range over [0, Len).
func (t *SymbolTable) Len() int {
	if t == nil {
		return 0
	}

	return len(t.decls)
}
