// Package scopecheck implements the undeclared-variable and
// redeclaration checker (spec §4.4), ported message-for-message from the
// pony-lang original's semantic/undeclared_vars.rs
// (detect_undeclared_vars_and_redeclarations, detect_decl_errors_in_body).
// Like firstassign, If branches are checked against independent copies of
// the declared-name set — a name declared only inside one branch must not
// leak into code after the If.
package scopecheck

import (
	"vesper/internal/hir"
	"vesper/internal/registry"
	"vesper/internal/vesperrors"
)

// Check walks every top-level statement (and recursively, every function
// body) verifying that every read references an already-declared name,
// every Assign targets an already-declared name, and no name is declared
// twice in the same scope. It panics with a *vesperrors.Fatal on the
// first violation, exactly as the original panics.
func Check(globals *registry.Registry, stmts []hir.Stmt) {
	seeded := make(map[string]bool)
	for _, n := range globals.GetNames() {
		seeded[n] = true
	}
	for _, s := range stmts {
		switch v := s.(type) {
		case hir.DeclareFunction:
			seeded[v.Name] = true
		case hir.StructDeclaration:
			seeded[v.Name] = true
		}
	}
	checkBlock("main", stmts, seeded)
}

func checkBlock(functionName string, stmts []hir.Stmt, declared map[string]bool) {
	for _, s := range stmts {
		switch v := s.(type) {
		case hir.Declare:
			if declared[v.Var.Name] {
				vesperrors.Raise(vesperrors.Scope, "Variable %s declared more than once", v.Var.Name)
			}
			checkExpr(functionName, v.Expression, declared)
			declared[v.Var.Name] = true

		case hir.Assign:
			if len(v.Path) > 0 && !declared[v.Path[0]] {
				vesperrors.Raise(vesperrors.Scope, "Assign to undeclared variable %s", v.Path[0])
			}
			checkExpr(functionName, v.Expression, declared)

		case hir.FunctionCallStmt:
			checkExpr(functionName, v.Call, declared)

		case hir.If:
			checkTrivial(functionName, v.Condition, declared)
			checkBlock(functionName, v.True, cloneScope(declared))
			checkBlock(functionName, v.False, cloneScope(declared))

		case hir.Return:
			checkExpr(functionName, v.Expression, declared)

		case hir.EmptyReturn:
			// nothing to check

		case hir.DeclareFunction:
			fnScope := cloneScope(declared)
			for _, p := range v.Params {
				fnScope[p.Name] = true
			}
			checkBlock(v.Name, v.Body, fnScope)

		case hir.StructDeclaration:
			// field declarations carry no expressions to check
		}
	}
}

func checkExpr(functionName string, e hir.Expr, declared map[string]bool) {
	switch v := e.(type) {
	case hir.TrivialExpr:
		checkTrivial(functionName, v.Value, declared)
	case hir.Cast:
		checkExpr(functionName, v.Operand, declared)
	case hir.BinaryExpr:
		checkTrivial(functionName, v.Left, declared)
		checkTrivial(functionName, v.Right, declared)
	case hir.UnaryExpr:
		checkTrivial(functionName, v.Operand, declared)
	case hir.ArrayExpr:
		for _, item := range v.Items {
			checkTrivial(functionName, item, declared)
		}
	case hir.MemberAccessExpr:
		checkTrivial(functionName, v.Object, declared)
	case hir.FunctionCallExpr:
		checkTrivial(functionName, v.Function, declared)
		for _, a := range v.Args {
			checkTrivial(functionName, a, declared)
		}
	}
}

func checkTrivial(functionName string, t hir.Trivial, declared map[string]bool) {
	if v, ok := t.(hir.TrivialVariable); ok && !declared[v.Name] {
		vesperrors.Raise(vesperrors.Scope, "Variable %s not found, function: %s", v.Name, functionName)
	}
}

func cloneScope(declared map[string]bool) map[string]bool {
	c := make(map[string]bool, len(declared))
	for k := range declared {
		c[k] = true
	}
	return c
}
