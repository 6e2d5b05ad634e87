// Package lowering implements ast_to_hir: it decomposes tree-shaped
// expressions into the flat, three-address-form HIR statement sequence
// described in spec §4.1, introducing a synthetic temporary ($0, $1, ...)
// for every intermediate result a composite expression needs. Ported
// statement-by-statement from the pony-lang original's
// semantic/hir.rs (reduce_expr_to_hir_declarations, check_if_reducible,
// ast_to_hir).
package lowering

import (
	"fmt"

	"vesper/internal/ast"
	"vesper/internal/hir"
	"vesper/internal/vesperrors"
)

type lowerer struct {
	counter int
}

func (lw *lowerer) fresh() string {
	name := fmt.Sprintf("$%d", lw.counter)
	lw.counter++
	return name
}

// Lower reduces an entire ingress program into flat HIR statements.
func Lower(program ast.Program) []hir.Stmt {
	lw := &lowerer{}
	return lw.lowerBlock(program.Statements)
}

func (lw *lowerer) lowerBlock(stmts []ast.Stmt) []hir.Stmt {
	out := make([]hir.Stmt, 0, len(stmts))
	for _, s := range stmts {
		out = append(out, lw.lowerStmt(s)...)
	}
	return out
}

// reduceToTrivial guarantees a Trivial operand: literals and bare variable
// references pass through untouched; anything else is fully reduced and
// bound to a fresh synthetic name, and a TrivialVariable referencing that
// name is returned in its place. This is check_if_reducible plus the
// "materialize an intermediary" half of reduce_expr_to_hir_declarations.
func (lw *lowerer) reduceToTrivial(e ast.Expr, decls *[]hir.Stmt) hir.Trivial {
	switch v := e.(type) {
	case ast.IntegerLiteral:
		return hir.TrivialInteger{Value: v.Value, Type: hir.PendingType{}}
	case ast.FloatLiteral:
		return hir.TrivialFloat{Value: v.Value, Type: hir.PendingType{}}
	case ast.StringLiteral:
		return hir.TrivialString{Value: v.Value, Type: hir.PendingType{}}
	case ast.BoolLiteral:
		return hir.TrivialBool{Value: v.Value, Type: hir.PendingType{}}
	case ast.NoneLiteral:
		return hir.TrivialNone{Type: hir.PendingType{}}
	case ast.Variable:
		return hir.TrivialVariable{Name: v.Name, Type: hir.PendingType{}}
	case ast.Parenthesized:
		return lw.reduceToTrivial(v.Inner, decls)
	default:
		full := lw.reduceExprToHIR(e, decls)
		return lw.materialize(full, decls)
	}
}

// materialize binds an already-built composite HIR expression to a fresh
// synthetic temporary and returns a TrivialVariable referencing it — the
// same "cut a non-trivial sub-expression loose into its own statement"
// step reduceToTrivial performs for ast.Expr, but starting from an hir.Expr
// already built directly (as index-access desugaring does for its
// synthesized __index__ member access).
func (lw *lowerer) materialize(full hir.Expr, decls *[]hir.Stmt) hir.Trivial {
	name := lw.fresh()
	*decls = append(*decls, hir.Declare{
		Var:        hir.TypedName{Name: name, Type: hir.PendingType{}},
		Expression: full,
	})
	return hir.TrivialVariable{Name: name, Type: hir.PendingType{}}
}

// reduceExprToHIR reduces e into a (possibly composite) HIR expression
// whose operands are all Trivial, emitting any intermediate Declare
// statements needed along the way into decls. Unlike reduceToTrivial, the
// outermost result here is handed back to the caller's own statement
// rather than being wrapped in an extra synthetic declaration — this is
// the "is_reducing=false at top level" half of the original's algorithm.
func (lw *lowerer) reduceExprToHIR(e ast.Expr, decls *[]hir.Stmt) hir.Expr {
	switch v := e.(type) {
	case ast.Parenthesized:
		return lw.reduceExprToHIR(v.Inner, decls)

	case ast.IntegerLiteral, ast.FloatLiteral, ast.StringLiteral, ast.BoolLiteral, ast.NoneLiteral, ast.Variable:
		t := lw.reduceToTrivial(e, decls)
		return hir.TrivialExpr{Value: t, Type: hir.PendingType{}}

	case ast.BinaryOperation:
		left := lw.reduceToTrivial(v.Left, decls)
		right := lw.reduceToTrivial(v.Right, decls)
		return hir.BinaryExpr{Left: left, Right: right, Op: v.Op, Type: hir.PendingType{}}

	case ast.UnaryExpression:
		operand := lw.reduceToTrivial(v.Operand, decls)
		return hir.UnaryExpr{Operand: operand, Op: v.Op, Type: hir.PendingType{}}

	case ast.FunctionCall:
		fn := lw.reduceToTrivial(v.Callee, decls)
		args := make([]hir.Trivial, len(v.Args))
		for i, a := range v.Args {
			args[i] = lw.reduceToTrivial(a, decls)
		}
		return hir.FunctionCallExpr{Function: fn, Args: args, Type: hir.PendingType{}}

	case ast.IndexAccess:
		// obj[i] desugars to obj.__index__(i), exactly as the original's
		// reduce_expr_to_hir_declarations does for index expressions: the
		// member access itself is non-trivial, so it's bound to its own
		// synthetic temporary ($0 := obj.__index__) before being called
		// ($0(i)) — a composite HIR expression's operands are always
		// trivial, never another composite expression.
		obj := lw.reduceToTrivial(v.Object, decls)
		member := hir.MemberAccessExpr{Object: obj, Member: "__index__", Type: hir.PendingType{}}
		fn := lw.materialize(member, decls)
		idx := lw.reduceToTrivial(v.Index, decls)
		return hir.FunctionCallExpr{Function: fn, Args: []hir.Trivial{idx}, Type: hir.PendingType{}}

	case ast.MemberAccess:
		obj := lw.reduceToTrivial(v.Object, decls)
		return hir.MemberAccessExpr{Object: obj, Member: v.Member, Type: hir.PendingType{}}

	case ast.ArrayLiteral:
		items := make([]hir.Trivial, len(v.Elements))
		for i, el := range v.Elements {
			items[i] = lw.reduceToTrivial(el, decls)
		}
		return hir.ArrayExpr{Items: items, Type: hir.PendingType{}}

	default:
		vesperrors.Raise(vesperrors.Lowering, "cannot lower expression of type %T", e)
		panic("unreachable")
	}
}

func (lw *lowerer) lowerStmt(s ast.Stmt) []hir.Stmt {
	switch v := s.(type) {
	case ast.Declare:
		var decls []hir.Stmt
		expr := lw.reduceExprToHIR(v.Expression, &decls)
		decls = append(decls, hir.Declare{
			Var:        hir.TypedName{Name: v.Var.Name, Type: typeDefFromAST(v.Var.Type)},
			Expression: expr,
		})
		return decls

	case ast.Assign:
		var decls []hir.Stmt
		expr := lw.reduceExprToHIR(v.Expression, &decls)
		decls = append(decls, hir.Assign{Path: v.Path, Expression: expr})
		return decls

	case ast.Return:
		if v.Value == nil {
			return []hir.Stmt{hir.EmptyReturn{}}
		}
		var decls []hir.Stmt
		expr := lw.reduceExprToHIR(v.Value, &decls)
		decls = append(decls, hir.Return{Expression: expr})
		return decls

	case ast.If:
		var decls []hir.Stmt
		cond := lw.reduceToTrivial(v.Cond, &decls)
		trueBody := lw.lowerBlock(v.Then)
		falseBody := lw.lowerBlock(v.Else)
		decls = append(decls, hir.If{Condition: cond, True: trueBody, False: falseBody})
		return decls

	case ast.StandaloneExpr:
		var decls []hir.Stmt
		expr := lw.reduceExprToHIR(v.Expression, &decls)
		if call, ok := expr.(hir.FunctionCallExpr); ok {
			decls = append(decls, hir.FunctionCallStmt{Call: call})
		} else {
			name := lw.fresh()
			decls = append(decls, hir.Declare{
				Var:        hir.TypedName{Name: name, Type: hir.PendingType{}},
				Expression: expr,
			})
		}
		return decls

	case ast.DeclareFunction:
		params := make([]hir.TypedName, len(v.Params))
		for i, p := range v.Params {
			params[i] = hir.TypedName{Name: p.Name, Type: typeDefFromAST(p.Type)}
		}
		retType := hir.TypeDef(hir.UnresolvedType{Type: hir.SimpleType{Name: "Void"}})
		if v.ReturnType != nil {
			retType = typeDefFromAST(v.ReturnType)
		}
		return []hir.Stmt{hir.DeclareFunction{
			Name:       v.Name,
			Params:     params,
			ReturnType: retType,
			Body:       lw.lowerBlock(v.Body),
		}}

	case ast.StructDeclaration:
		fields := make([]hir.TypedName, len(v.Fields))
		for i, f := range v.Fields {
			fields[i] = hir.TypedName{Name: f.Name, Type: typeDefFromAST(f.Type)}
		}
		return []hir.Stmt{hir.StructDeclaration{Name: v.Name, Fields: fields}}

	default:
		vesperrors.Raise(vesperrors.Lowering, "cannot lower statement of type %T", s)
		panic("unreachable")
	}
}

func typeDefFromAST(t ast.Type) hir.TypeDef {
	if t == nil {
		return hir.PendingType{}
	}
	return hir.UnresolvedType{Type: hirTypeFromAST(t)}
}

func hirTypeFromAST(t ast.Type) hir.HIRType {
	switch v := t.(type) {
	case ast.SimpleType:
		return hir.SimpleType{Name: v.Name}
	case ast.GenericType:
		args := make([]hir.HIRType, len(v.Args))
		for i, a := range v.Args {
			args[i] = hirTypeFromAST(a)
		}
		return hir.GenericType{Name: v.Base, Args: args}
	default:
		vesperrors.Raise(vesperrors.Lowering, "cannot lower type annotation of type %T", t)
		panic("unreachable")
	}
}
