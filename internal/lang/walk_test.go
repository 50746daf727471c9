package lang

import "testing"

const walkFixture = `contract C {
	function sweep(address to, uint256 n) internal {
		for (uint256 i = 0; i < n; i++) {
			token.transfer(to, i);
		}
		emit Swept(msg.sender, n);
	}
}`

func TestInspect(t *testing.T) {
	t.Run("visits nodes depth-first", func(t *testing.T) {
		unit := mustParse(t, walkFixture)

		var calls, loops int

		Inspect(unit, func(n Node) bool {
			switch n.Kind() {
			case KindCall:
				calls++
			case KindFor:
				loops++
			}

			return true
		})

		// transfer plus the emitted event call.
		if calls != 2 {
			t.Errorf("visited %d calls, want 2", calls)
		}

		if loops != 1 {
			t.Errorf("visited %d loops, want 1", loops)
		}
	})

	t.Run("prunes subtrees when the callback returns false", func(t *testing.T) {
		unit := mustParse(t, walkFixture)

		var calls int

		Inspect(unit, func(n Node) bool {
			if n.Kind() == KindFunction {
				return false
			}

			if n.Kind() == KindCall {
				calls++
			}

			return true
		})

		if calls != 0 {
			t.Errorf("visited %d calls under a pruned function, want 0", calls)
		}
	})
}

func TestChildren(t *testing.T) {
	t.Run("returns loop parts in source order", func(t *testing.T) {
		stmts := bodyOf(t, walkFixture)
		loop := stmts[0].(*ForStmt)

		kinds := []NodeKind{}
		for _, child := range Children(loop) {
			kinds = append(kinds, child.Kind())
		}

		want := []NodeKind{KindVarDeclStmt, KindBinary, KindUnary, KindBlock}
		if len(kinds) != len(want) {
			t.Fatalf("Children returned %d nodes, want %d", len(kinds), len(want))
		}

		for i := range want {
			if kinds[i] != want[i] {
				t.Errorf("child %d kind = %v, want %v", i, kinds[i], want[i])
			}
		}
	})

	t.Run("skips nil branches", func(t *testing.T) {
		stmts := bodyOf(t, `contract C {
	function f(uint256 n) internal {
		if (n > 0) { n--; }
	}
}`)

		branch := stmts[0].(*IfStmt)

		for _, child := range Children(branch) {
			if child == nil {
				t.Fatal("Children returned a nil node")
			}
		}

		if got := len(Children(branch)); got != 2 {
			t.Errorf("if statement has %d children, want condition and then-block", got)
		}
	})
}

func TestExprSearch(t *testing.T) {
	t.Run("ContainsExpr finds a matching member access", func(t *testing.T) {
		unit := mustParse(t, walkFixture)

		found := ContainsExpr(unit, func(e Expr) bool {
			return IsMemberOf(e, "msg", "sender")
		})

		if !found {
			t.Error("ContainsExpr missed msg.sender")
		}

		missing := ContainsExpr(unit, func(e Expr) bool {
			return IsMemberOf(e, "tx", "origin")
		})

		if missing {
			t.Error("ContainsExpr reported tx.origin in a fixture without it")
		}
	})

	t.Run("FindExprs collects every match", func(t *testing.T) {
		unit := mustParse(t, walkFixture)

		calls := FindExprs(unit, func(e Expr) bool {
			_, ok := e.(*CallExpr)
			return ok
		})

		if len(calls) != 2 {
			t.Errorf("FindExprs returned %d calls, want 2", len(calls))
		}
	})
}
