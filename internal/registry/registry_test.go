package registry

import (
	"testing"

	"vesper/internal/hir"
	"vesper/internal/typedb"
)

func TestBuildRegistersFunctionSignature(t *testing.T) {
	db := typedb.New()
	stmts := []hir.Stmt{
		hir.DeclareFunction{
			Name: "add",
			Params: []hir.TypedName{
				{Name: "a", Type: hir.UnresolvedType{Type: hir.SimpleType{Name: "i32"}}},
				{Name: "b", Type: hir.UnresolvedType{Type: hir.SimpleType{Name: "i32"}}},
			},
			ReturnType: hir.UnresolvedType{Type: hir.SimpleType{Name: "i32"}},
		},
	}

	r := Build(db, stmts)
	def, ok := r.Get("add")
	if !ok {
		t.Fatalf("expected add to be registered")
	}
	unresolved, ok := def.(hir.UnresolvedType)
	if !ok {
		t.Fatalf("expected an UnresolvedType, got %T", def)
	}
	fn, ok := unresolved.Type.(hir.FunctionType)
	if !ok {
		t.Fatalf("expected a FunctionType, got %T", unresolved.Type)
	}
	if len(fn.Params) != 2 {
		t.Fatalf("expected 2 params, got %d", len(fn.Params))
	}
}

func TestBuildRegistersStructAndItsFields(t *testing.T) {
	db := typedb.New()
	stmts := []hir.Stmt{
		hir.StructDeclaration{
			Name: "Point",
			Fields: []hir.TypedName{
				{Name: "x", Type: hir.UnresolvedType{Type: hir.SimpleType{Name: "i32"}}},
				{Name: "y", Type: hir.UnresolvedType{Type: hir.SimpleType{Name: "i32"}}},
			},
		},
	}

	r := Build(db, stmts)
	if _, ok := r.Get("Point"); !ok {
		t.Fatalf("expected Point to be registered as a name")
	}

	id, ok := db.Lookup("Point")
	if !ok {
		t.Fatalf("expected Point to be registered in the type database")
	}
	pointInstance := hir.SimpleTypeInstance{ID: id, Name: "Point"}
	field, err := db.ResolveField(pointInstance, "x")
	if err != nil {
		t.Fatalf("ResolveField(x) error: %v", err)
	}
	i32ID, _ := db.Lookup("i32")
	want := hir.SimpleTypeInstance{ID: i32ID, Name: "i32"}
	if field != want {
		t.Fatalf("expected field x to resolve to i32, got %#v", field)
	}
}

func TestIncludeMergesWithOtherWinningOnConflict(t *testing.T) {
	base := New()
	base.Insert("x", hir.PendingType{})

	other := New()
	other.Insert("x", hir.UnresolvedType{Type: hir.SimpleType{Name: "i32"}})
	other.Insert("y", hir.PendingType{})

	base.Include(other)

	def, _ := base.Get("x")
	if _, ok := def.(hir.UnresolvedType); !ok {
		t.Fatalf("expected other's entry for x to win, got %T", def)
	}
	if _, ok := base.Get("y"); !ok {
		t.Fatalf("expected y to be merged in from other")
	}
}
