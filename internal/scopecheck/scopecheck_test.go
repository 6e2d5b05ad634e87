package scopecheck

import (
	"testing"

	"vesper/internal/hir"
	"vesper/internal/registry"
	"vesper/internal/vesperrors"
)

func trivialExpr(v hir.Trivial) hir.Expr {
	return hir.TrivialExpr{Value: v, Type: hir.PendingType{}}
}

func expectFatal(t *testing.T, wantMessage string, fn func()) {
	t.Helper()
	defer func() {
		r := recover()
		if r == nil {
			t.Fatalf("expected a panic, got none")
		}
		f, ok := vesperrors.AsFatal(r)
		if !ok {
			t.Fatalf("expected a *vesperrors.Fatal, got %#v", r)
		}
		if f.Message != wantMessage {
			t.Fatalf("expected message %q, got %q", wantMessage, f.Message)
		}
	}()
	fn()
}

func TestRedeclarationPanics(t *testing.T) {
	stmts := []hir.Stmt{
		hir.Declare{Var: hir.TypedName{Name: "x", Type: hir.PendingType{}}, Expression: trivialExpr(hir.TrivialInteger{Value: 1, Type: hir.PendingType{}})},
		hir.Declare{Var: hir.TypedName{Name: "x", Type: hir.PendingType{}}, Expression: trivialExpr(hir.TrivialInteger{Value: 2, Type: hir.PendingType{}})},
	}
	expectFatal(t, "Variable x declared more than once", func() {
		Check(registry.New(), stmts)
	})
}

func TestAssignToUndeclaredVariablePanics(t *testing.T) {
	stmts := []hir.Stmt{
		hir.Assign{Path: []string{"x"}, Expression: trivialExpr(hir.TrivialInteger{Value: 1, Type: hir.PendingType{}})},
	}
	expectFatal(t, "Assign to undeclared variable x", func() {
		Check(registry.New(), stmts)
	})
}

func TestUnknownVariableReferencePanics(t *testing.T) {
	stmts := []hir.Stmt{
		hir.DeclareFunction{
			Name: "f",
			Body: []hir.Stmt{
				hir.Return{Expression: trivialExpr(hir.TrivialVariable{Name: "missing", Type: hir.PendingType{}})},
			},
		},
	}
	expectFatal(t, "Variable missing not found, function: f", func() {
		Check(registry.New(), stmts)
	})
}

func TestWellScopedProgramDoesNotPanic(t *testing.T) {
	stmts := []hir.Stmt{
		hir.Declare{Var: hir.TypedName{Name: "x", Type: hir.PendingType{}}, Expression: trivialExpr(hir.TrivialInteger{Value: 1, Type: hir.PendingType{}})},
		hir.Assign{Path: []string{"x"}, Expression: trivialExpr(hir.TrivialInteger{Value: 2, Type: hir.PendingType{}})},
	}
	Check(registry.New(), stmts)
}
