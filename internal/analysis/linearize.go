package analysis

import (
	"fmt"
	"strings"

	"solvet.dev/pkg/solvet/internal/model"
)

// inheritanceGraph holds the "declares base" edges over arena handles, in
// header order. Base names that resolve to nothing (their defining file
// failed to load or parse) are dropped here; the failure already produced
// its own diagnostic upstream.
type inheritanceGraph struct {
	table *SymbolTable
	edges map[DeclID][]DeclID
}

func buildInheritanceGraph(table *SymbolTable) *inheritanceGraph {
	g := &inheritanceGraph{table: table, edges: make(map[DeclID][]DeclID)}

	for id := 0; id < table.Len(); id++ {
		decl := table.Decl(DeclID(id))
		if !decl.IsContractLike() {
			continue
		}

		bases := make([]DeclID, 0, len(decl.Bases))

		for _, name := range decl.Bases {
			base, ok := table.Lookup(name)
			if !ok || !base.IsContractLike() {
				continue
			}

			bases = append(bases, base.ID)
		}

		g.edges[decl.ID] = bases
	}

	return g
}

// dfs colors for cycle detection.
const (
	colorWhite = iota
	colorGray
	colorBlack
)

// findCycles runs an iterative colored depth-first search over the graph
// and returns each distinct inheritance cycle as the DeclID path that
// closes it. Iteration order over arena handles keeps the output
// deterministic.
func (g *inheritanceGraph) findCycles() [][]DeclID {
	color := make([]int, g.table.Len())
	var cycles [][]DeclID

	var stack []DeclID
	onStack := make(map[DeclID]int)

	// visit walks from root without recursion: each frame remembers how
	// many bases it has already explored.
	type frame struct {
		id   DeclID
		next int
	}

	for root := 0; root < g.table.Len(); root++ {
		if color[root] != colorWhite {
			continue
		}

		if _, ok := g.edges[DeclID(root)]; !ok {
			continue
		}

		frames := []frame{{id: DeclID(root)}}
		color[root] = colorGray
		stack = append(stack[:0], DeclID(root))
		onStack[DeclID(root)] = 0

		for len(frames) > 0 {
			top := &frames[len(frames)-1]
			bases := g.edges[top.id]

			if top.next >= len(bases) {
				color[top.id] = colorBlack
				delete(onStack, top.id)
				stack = stack[:len(stack)-1]
				frames = frames[:len(frames)-1]

				continue
			}

			base := bases[top.next]
			top.next++

			switch color[base] {
			case colorWhite:
				color[base] = colorGray
				onStack[base] = len(stack)
				stack = append(stack, base)
				frames = append(frames, frame{id: base})
			case colorGray:
				// The slice of the stack from the reentry point down is
				// the cycle, closed back on base.
				start := onStack[base]
				cycle := make([]DeclID, len(stack)-start)
				copy(cycle, stack[start:])
				cycles = append(cycles, cycle)
			}
		}
	}

	return cycles
}

// linearizer computes and caches C3 linearizations over the graph. Members
// of a reported cycle and contracts whose merge conflicts are excluded; a
// contract deriving from an excluded base is excluded too, without a
// diagnostic of its own, since the root cause was already reported.
type linearizer struct {
	graph    *inheritanceGraph
	excluded map[DeclID]bool
	cache    map[DeclID][]DeclID
	diags    []model.Diagnostic
}

// linearizeAll computes every contract's linearization during Stage B.
// The returned map is the shared read-only cache for Stage C.
func linearizeAll(table *SymbolTable) (map[DeclID][]DeclID, []model.Diagnostic) {
	graph := buildInheritanceGraph(table)

	lin := &linearizer{
		graph:    graph,
		excluded: make(map[DeclID]bool),
		cache:    make(map[DeclID][]DeclID),
	}

	for _, cycle := range graph.findCycles() {
		lin.diags = append(lin.diags, lin.cycleDiagnostic(cycle))

		for _, id := range cycle {
			lin.excluded[id] = true
		}
	}

	for id := 0; id < table.Len(); id++ {
		if _, ok := graph.edges[DeclID(id)]; ok {
			lin.linearize(DeclID(id))
		}
	}

	return lin.cache, lin.diags
}

// linearize computes L(C) = C + merge(L(B1), ..., L(Bn), [B1 ... Bn]) and
// caches the result. It returns nil for excluded contracts.
func (l *linearizer) linearize(id DeclID) []DeclID {
	if l.excluded[id] {
		return nil
	}

	if cached, ok := l.cache[id]; ok {
		return cached
	}

	bases := l.graph.edges[id]
	lists := make([][]DeclID, 0, len(bases)+1)

	for _, base := range bases {
		baseLin := l.linearize(base)
		if baseLin == nil {
			// Base is in a cycle or failed its own merge.
			l.excluded[id] = true
			return nil
		}

		lists = append(lists, baseLin)
	}

	// Local precedence list: the bases in header order.
	if len(bases) > 0 {
		lists = append(lists, bases)
	}

	merged, conflict := c3Merge(lists)
	if conflict != nil {
		l.diags = append(l.diags, l.conflictDiagnostic(id, conflict))
		l.excluded[id] = true

		return nil
	}

	out := append([]DeclID{id}, merged...)
	l.cache[id] = out

	return out
}

// c3Merge implements the C3 merge rule: repeatedly take the head of the
// first list that appears in no other list's tail, append it, and remove
// it everywhere. When no head qualifies the remaining heads are returned
// as the conflict set.
func c3Merge(lists [][]DeclID) ([]DeclID, []DeclID) {
	work := make([][]DeclID, 0, len(lists))
	for _, list := range lists {
		if len(list) > 0 {
			work = append(work, append([]DeclID(nil), list...))
		}
	}

	var out []DeclID

	for len(work) > 0 {
		candidate := DeclID(-1)

		for _, list := range work {
			head := list[0]
			if inAnyTail(work, head) {
				continue
			}

			candidate = head

			break
		}

		if candidate < 0 {
			heads := make([]DeclID, 0, len(work))
			for _, list := range work {
				heads = append(heads, list[0])
			}

			return nil, heads
		}

		out = append(out, candidate)
		work = removeHead(work, candidate)
	}

	return out, nil
}

func inAnyTail(lists [][]DeclID, id DeclID) bool {
	for _, list := range lists {
		for _, other := range list[1:] {
			if other == id {
				return true
			}
		}
	}

	return false
}

func removeHead(lists [][]DeclID, id DeclID) [][]DeclID {
	out := lists[:0]

	for _, list := range lists {
		if list[0] == id {
			list = list[1:]
		}

		if len(list) > 0 {
			out = append(out, list)
		}
	}

	return out
}

func (l *linearizer) cycleDiagnostic(cycle []DeclID) model.Diagnostic {
	names := make([]string, 0, len(cycle))
	for _, id := range cycle {
		names = append(names, l.graph.table.Decl(id).Name)
	}

	head := l.graph.table.Decl(cycle[0])

	return model.Diagnostic{
		Kind: model.DiagCyclicInheritance,
		Location: model.Location{
			File:   head.File,
			Line:   head.Span.Line,
			Column: head.Span.Col,
		},
		Message: fmt.Sprintf("inheritance cycle: %s -> %s",
			strings.Join(names, " -> "), names[0]),
	}
}

func (l *linearizer) conflictDiagnostic(id DeclID, conflict []DeclID) model.Diagnostic {
	decl := l.graph.table.Decl(id)

	names := make([]string, 0, len(conflict))
	for _, c := range conflict {
		names = append(names, l.graph.table.Decl(c).Name)
	}

	return model.Diagnostic{
		Kind: model.DiagLinearizationConflict,
		Location: model.Location{
			File:   decl.File,
			Line:   decl.Span.Line,
			Column: decl.Span.Col,
		},
		Message: fmt.Sprintf("cannot linearize %s: no valid order among %s",
			decl.Name, strings.Join(names, ", ")),
	}
}
