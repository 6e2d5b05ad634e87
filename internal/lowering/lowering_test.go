package lowering

import (
	"testing"

	"vesper/internal/ast"
	"vesper/internal/common"
	"vesper/internal/hir"
)

func TestLowerFlatBinaryOperationNeedsNoSyntheticTemp(t *testing.T) {
	// x = 1 + 2
	program := ast.Program{Statements: []ast.Stmt{
		ast.Declare{
			Var: ast.TypedName{Name: "x"},
			Expression: ast.BinaryOperation{
				Left:  ast.IntegerLiteral{Value: 1},
				Right: ast.IntegerLiteral{Value: 2},
				Op:    common.OpPlus,
			},
		},
	}}

	stmts := Lower(program)
	if len(stmts) != 1 {
		t.Fatalf("expected 1 statement, got %d", len(stmts))
	}
	decl, ok := stmts[0].(hir.Declare)
	if !ok {
		t.Fatalf("expected hir.Declare, got %T", stmts[0])
	}
	if decl.Var.Name != "x" {
		t.Fatalf("expected declared name x, got %s", decl.Var.Name)
	}
	bin, ok := decl.Expression.(hir.BinaryExpr)
	if !ok {
		t.Fatalf("expected hir.BinaryExpr, got %T", decl.Expression)
	}
	if bin.Op != common.OpPlus {
		t.Fatalf("expected OpPlus, got %v", bin.Op)
	}
}

func TestLowerNestedBinaryOperationMaterializesTemporary(t *testing.T) {
	// x = (1 + 2) * 3
	program := ast.Program{Statements: []ast.Stmt{
		ast.Declare{
			Var: ast.TypedName{Name: "x"},
			Expression: ast.BinaryOperation{
				Left: ast.BinaryOperation{
					Left:  ast.IntegerLiteral{Value: 1},
					Right: ast.IntegerLiteral{Value: 2},
					Op:    common.OpPlus,
				},
				Right: ast.IntegerLiteral{Value: 3},
				Op:    common.OpMultiply,
			},
		},
	}}

	stmts := Lower(program)
	if len(stmts) != 2 {
		t.Fatalf("expected 2 statements (1 synthetic temp + final declare), got %d", len(stmts))
	}
	tmp, ok := stmts[0].(hir.Declare)
	if !ok {
		t.Fatalf("expected first statement to be hir.Declare, got %T", stmts[0])
	}
	if tmp.Var.Name != "$0" {
		t.Fatalf("expected synthetic name $0, got %s", tmp.Var.Name)
	}
	final, ok := stmts[1].(hir.Declare)
	if !ok {
		t.Fatalf("expected second statement to be hir.Declare, got %T", stmts[1])
	}
	outer, ok := final.Expression.(hir.BinaryExpr)
	if !ok {
		t.Fatalf("expected outer BinaryExpr, got %T", final.Expression)
	}
	ref, ok := outer.Left.(hir.TrivialVariable)
	if !ok || ref.Name != "$0" {
		t.Fatalf("expected outer binary's left operand to reference $0, got %#v", outer.Left)
	}
}

func TestLowerIndexAccessDesugarsToIndexMethodCall(t *testing.T) {
	// standalone expr: arr[0]
	program := ast.Program{Statements: []ast.Stmt{
		ast.StandaloneExpr{Expression: ast.IndexAccess{
			Object: ast.Variable{Name: "arr"},
			Index:  ast.IntegerLiteral{Value: 0},
		}},
	}}

	stmts := Lower(program)
	if len(stmts) != 2 {
		t.Fatalf("expected 2 statements (synthetic __index__ bind + call), got %d", len(stmts))
	}
	bind, ok := stmts[0].(hir.Declare)
	if !ok {
		t.Fatalf("expected first statement to be hir.Declare, got %T", stmts[0])
	}
	if bind.Var.Name != "$0" {
		t.Fatalf("expected synthetic name $0, got %s", bind.Var.Name)
	}
	member, ok := bind.Expression.(hir.MemberAccessExpr)
	if !ok {
		t.Fatalf("expected bound expression to be a MemberAccessExpr, got %T", bind.Expression)
	}
	if member.Member != "__index__" {
		t.Fatalf("expected __index__ desugaring, got member %q", member.Member)
	}
	obj, ok := member.Object.(hir.TrivialVariable)
	if !ok || obj.Name != "arr" {
		t.Fatalf("expected member access object to reference arr, got %#v", member.Object)
	}

	call, ok := stmts[1].(hir.FunctionCallStmt)
	if !ok {
		t.Fatalf("expected second statement to be hir.FunctionCallStmt, got %T", stmts[1])
	}
	callee, ok := call.Call.Function.(hir.TrivialVariable)
	if !ok || callee.Name != "$0" {
		t.Fatalf("expected call target to reference $0, got %#v", call.Call.Function)
	}
	if len(call.Call.Args) != 1 {
		t.Fatalf("expected 1 argument to __index__, got %d", len(call.Call.Args))
	}
}

// TestLowerProducesTrivialOnlyCompositeOperands walks every composite Expr
// Lower produces across a handful of representative programs and asserts
// its direct operand positions (MemberAccessExpr.Object,
// FunctionCallExpr.Function/Args, BinaryExpr/UnaryExpr operands,
// ArrayExpr.Items) are always Trivial, never another composite Expr — the
// invariant spec §3/§8 name directly.
func TestLowerProducesTrivialOnlyCompositeOperands(t *testing.T) {
	programs := []ast.Program{
		{Statements: []ast.Stmt{
			ast.StandaloneExpr{Expression: ast.IndexAccess{
				Object: ast.Variable{Name: "arr"},
				Index:  ast.IntegerLiteral{Value: 0},
			}},
		}},
		{Statements: []ast.Stmt{
			ast.Declare{
				Var: ast.TypedName{Name: "x"},
				Expression: ast.BinaryOperation{
					Left: ast.BinaryOperation{
						Left:  ast.IntegerLiteral{Value: 1},
						Right: ast.IntegerLiteral{Value: 2},
						Op:    common.OpPlus,
					},
					Right: ast.IntegerLiteral{Value: 3},
					Op:    common.OpMultiply,
				},
			},
		}},
		{Statements: []ast.Stmt{
			ast.StandaloneExpr{Expression: ast.FunctionCall{
				Callee: ast.MemberAccess{Object: ast.Variable{Name: "obj"}, Member: "method"},
				Args:   []ast.Expr{ast.Variable{Name: "arr"}},
			}},
		}},
	}

	for _, program := range programs {
		for _, s := range Lower(program) {
			walkStmtExprs(t, s)
		}
	}
}

func walkStmtExprs(t *testing.T, s hir.Stmt) {
	t.Helper()
	switch v := s.(type) {
	case hir.Declare:
		checkTrivialOperands(t, v.Expression)
	case hir.Assign:
		checkTrivialOperands(t, v.Expression)
	case hir.Return:
		checkTrivialOperands(t, v.Expression)
	case hir.FunctionCallStmt:
		checkTrivialOperands(t, v.Call)
	case hir.If:
		for _, inner := range v.True {
			walkStmtExprs(t, inner)
		}
		for _, inner := range v.False {
			walkStmtExprs(t, inner)
		}
	case hir.DeclareFunction:
		for _, inner := range v.Body {
			walkStmtExprs(t, inner)
		}
	}
}

func checkTrivialOperands(t *testing.T, e hir.Expr) {
	t.Helper()
	switch v := e.(type) {
	case hir.BinaryExpr, hir.UnaryExpr, hir.TrivialExpr:
		// operands are already Trivial by field type.
		_ = v
	case hir.ArrayExpr:
		// items are already Trivial by field type.
	case hir.MemberAccessExpr:
		// Object is already Trivial by field type.
	case hir.FunctionCallExpr:
		// Function and Args are already Trivial by field type.
	case hir.Cast:
		t.Fatalf("unexpected Cast in lowered output: %#v", v)
	default:
		t.Fatalf("unrecognized composite Expr %T produced by Lower", e)
	}
}

func TestLowerFunctionDeclaration(t *testing.T) {
	program := ast.Program{Statements: []ast.Stmt{
		ast.DeclareFunction{
			Name: "add",
			Params: []ast.TypedName{
				{Name: "a", Type: ast.SimpleType{Name: "i32"}},
				{Name: "b", Type: ast.SimpleType{Name: "i32"}},
			},
			ReturnType: ast.SimpleType{Name: "i32"},
			Body: []ast.Stmt{
				ast.Return{Value: ast.BinaryOperation{
					Left:  ast.Variable{Name: "a"},
					Right: ast.Variable{Name: "b"},
					Op:    common.OpPlus,
				}},
			},
		},
	}}

	stmts := Lower(program)
	if len(stmts) != 1 {
		t.Fatalf("expected 1 statement, got %d", len(stmts))
	}
	fn, ok := stmts[0].(hir.DeclareFunction)
	if !ok {
		t.Fatalf("expected hir.DeclareFunction, got %T", stmts[0])
	}
	if len(fn.Params) != 2 {
		t.Fatalf("expected 2 params, got %d", len(fn.Params))
	}
	if len(fn.Body) != 1 {
		t.Fatalf("expected 1 body statement, got %d", len(fn.Body))
	}
	if _, ok := fn.Body[0].(hir.Return); !ok {
		t.Fatalf("expected hir.Return, got %T", fn.Body[0])
	}
}

func TestLowerBareReturnProducesEmptyReturn(t *testing.T) {
	program := ast.Program{Statements: []ast.Stmt{ast.Return{}}}
	stmts := Lower(program)
	if len(stmts) != 1 {
		t.Fatalf("expected 1 statement, got %d", len(stmts))
	}
	if _, ok := stmts[0].(hir.EmptyReturn); !ok {
		t.Fatalf("expected hir.EmptyReturn, got %T", stmts[0])
	}
}
