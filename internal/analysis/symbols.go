package analysis

import (
	"fmt"

	"solvet.dev/pkg/solvet/internal/lang"
	"solvet.dev/pkg/solvet/internal/model"
)

// buildSymbols merges every successfully parsed file into one SymbolTable.
// A duplicate name in the global scope yields a DuplicateDeclaration
// diagnostic; the first occurrence wins and later ones are left out of the
// name table while remaining reachable via DeclFor.
func buildSymbols(files []*fileState) (*SymbolTable, []model.Diagnostic) {
	table := &SymbolTable{
		byName:     make(map[string]DeclID),
		byContract: make(map[*lang.ContractDecl]DeclID),
	}

	var diags []model.Diagnostic

	for _, state := range files {
		if state.unit == nil {
			continue
		}

		for _, item := range state.unit.Items {
			decl := declarationOf(item, state.src.Display)
			if decl == nil {
				continue
			}

			diags = append(diags, table.register(decl, state)...)
		}
	}

	return table, diags
}

// register appends decl to the arena and claims its name if still free.
func (t *SymbolTable) register(decl *Declaration, state *fileState) []model.Diagnostic {
	decl.ID = DeclID(len(t.decls))
	t.decls = append(t.decls, decl)

	if decl.Contract != nil {
		t.byContract[decl.Contract] = decl.ID
	}

	prev, taken := t.byName[decl.Name]
	if !taken {
		t.byName[decl.Name] = decl.ID
		return nil
	}

	first := t.decls[prev]

	return []model.Diagnostic{{
		Kind: model.DiagDuplicateDeclaration,
		Location: model.Location{
			File:    decl.File,
			Line:    decl.Span.Line,
			Column:  decl.Span.Col,
			Snippet: model.SnippetAt(state.src.Content, decl.Span.Line),
		},
		Message: fmt.Sprintf("%s %s is already declared in %s:%d",
			decl.Kind, decl.Name, first.File, first.Span.Line),
	}}
}

// declarationOf lifts one top-level syntax item into a Declaration, or
// returns nil for items that declare nothing (pragmas, imports, using).
func declarationOf(item lang.Node, file string) *Declaration {
	switch n := item.(type) {
	case *lang.ContractDecl:
		kind := DeclContract
		switch n.CKind {
		case lang.ContractInterface:
			kind = DeclInterface
		case lang.ContractLibrary:
			kind = DeclLibrary
		}

		bases := make([]string, 0, len(n.Bases))
		for _, base := range n.Bases {
			bases = append(bases, base.Name)
		}

		return &Declaration{
			Name:     n.Name,
			Kind:     kind,
			File:     file,
			Span:     n.Span,
			Abstract: n.Abstract,
			Bases:    bases,
			Contract: n,
			Node:     n,
		}
	case *lang.StructDecl:
		return &Declaration{Name: n.Name, Kind: DeclStruct, File: file, Span: n.Span, Node: n}
	case *lang.EnumDecl:
		return &Declaration{Name: n.Name, Kind: DeclEnum, File: file, Span: n.Span, Node: n}
	case *lang.EventDecl:
		return &Declaration{Name: n.Name, Kind: DeclEvent, File: file, Span: n.Span, Node: n}
	case *lang.ErrorDecl:
		return &Declaration{Name: n.Name, Kind: DeclError, File: file, Span: n.Span, Node: n}
	case *lang.FunctionDecl:
		return &Declaration{Name: n.Name, Kind: DeclFreeFunction, File: file, Span: n.Span, Node: n}
	}

	return nil
}
