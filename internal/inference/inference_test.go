package inference

import (
	"testing"

	"vesper/internal/hir"
	"vesper/internal/registry"
	"vesper/internal/typedb"
	"vesper/internal/typeerrors"
)

func trivialExpr(v hir.Trivial) hir.Expr {
	return hir.TrivialExpr{Value: v, Type: hir.PendingType{}}
}

func i32Type() hir.TypeDef {
	return hir.UnresolvedType{Type: hir.SimpleType{Name: "i32"}}
}

func TestInferSimpleArithmeticFunction(t *testing.T) {
	db := typedb.New()
	fn := hir.DeclareFunction{
		Name: "add",
		Params: []hir.TypedName{
			{Name: "a", Type: i32Type()},
			{Name: "b", Type: i32Type()},
		},
		ReturnType: i32Type(),
		Body: []hir.Stmt{
			hir.Return{Expression: hir.BinaryExpr{
				Left:  hir.TrivialVariable{Name: "a", Type: hir.PendingType{}},
				Right: hir.TrivialVariable{Name: "b", Type: hir.PendingType{}},
				Op:    0, // common.OpPlus
				Type:  hir.PendingType{},
			}},
		},
	}

	out, bag := Infer(registry.New(), db, []hir.Stmt{fn})
	if !bag.Empty() {
		t.Fatalf("expected no type errors, got %d: %s", bag.Count(), bag.Render())
	}

	resolved := out[0].(hir.DeclareFunction)
	retType, ok := resolved.ReturnType.(hir.ResolvedType)
	if !ok {
		t.Fatalf("expected ReturnType to be Resolved, got %T", resolved.ReturnType)
	}
	i32ID, _ := db.Lookup("i32")
	want := hir.SimpleTypeInstance{ID: i32ID, Name: "i32"}
	if retType.Instance != want {
		t.Fatalf("expected resolved return type i32, got %#v", retType.Instance)
	}
}

func TestInferReturnMismatchCollected(t *testing.T) {
	db := typedb.New()
	fn := hir.DeclareFunction{
		Name:       "f",
		ReturnType: i32Type(),
		Body: []hir.Stmt{
			hir.Return{Expression: trivialExpr(hir.TrivialString{Value: "oops", Type: hir.PendingType{}})},
		},
	}

	_, bag := Infer(registry.New(), db, []hir.Stmt{fn})
	if len(bag.ReturnMismatches) != 1 {
		t.Fatalf("expected 1 ReturnMismatch, got %d", len(bag.ReturnMismatches))
	}
	if bag.ReturnMismatches[0].Function != "f" {
		t.Fatalf("expected mismatch attributed to function f, got %s", bag.ReturnMismatches[0].Function)
	}
}

func TestInferArrayIndexThroughGenericMethod(t *testing.T) {
	db := typedb.New()
	i32 := simple(db, "i32")
	arrID, _ := db.Lookup("array")

	e := &env{
		db:              db,
		resolvedGlobals: map[string]hir.TypeInstance{},
		locals: map[string]hir.TypeInstance{
			"arr": hir.GenericTypeInstance{ID: arrID, Name: "array", Args: []hir.TypeInstance{i32}},
		},
		bag:          &typeerrors.Bag{},
		functionName: "main",
	}

	// Mirrors lowering's desugaring of arr[0]: the MemberAccessExpr is
	// inferred on its own first, resolving to a FunctionTypeInstance, and
	// bound to a synthetic temporary ($0) before the call that consumes it.
	member := hir.MemberAccessExpr{
		Object: hir.TrivialVariable{Name: "arr", Type: hir.PendingType{}},
		Member: "__index__",
		Type:   hir.PendingType{},
	}
	_, memberType := e.inferExpr(member)
	ft, ok := memberType.(hir.FunctionTypeInstance)
	if !ok {
		t.Fatalf("expected __index__ member access to resolve to a FunctionTypeInstance, got %#v", memberType)
	}
	if len(ft.Params) != 1 || ft.Params[0] != simple(db, "u32") || ft.Return != i32 {
		t.Fatalf("expected __index__ signature (u32) -> i32, got %#v", ft)
	}
	e.locals["$0"] = ft

	call := hir.FunctionCallExpr{
		Function: hir.TrivialVariable{Name: "$0", Type: hir.PendingType{}},
		Args:     []hir.Trivial{hir.TrivialInteger{Value: 0, Type: hir.PendingType{}}},
		Type:     hir.PendingType{},
	}

	_, resultType := e.inferExpr(call)
	if resultType != i32 {
		t.Fatalf("expected __index__ on array<i32> to resolve to i32, got %#v", resultType)
	}
	if !e.bag.Empty() {
		t.Fatalf("expected no type errors, got %s", e.bag.Render())
	}
}

func TestInferDefaultVoidReturnMismatch(t *testing.T) {
	db := typedb.New()
	fn := hir.DeclareFunction{
		Name:       "g",
		ReturnType: i32Type(),
		Body:       []hir.Stmt{hir.EmptyReturn{}},
	}

	_, bag := Infer(registry.New(), db, []hir.Stmt{fn})
	if len(bag.ReturnMismatches) != 1 {
		t.Fatalf("expected a mismatch between declared i32 return and bare return's Void, got %d", len(bag.ReturnMismatches))
	}
}
