// Package inference implements the per-function type inference pass
// (spec §4.5): every function's signature is resolved and published into
// the global environment before its body is walked, so recursive and
// forward-referencing calls both resolve; every expression's TypeDef slot
// is advanced from Unresolved/Pending to Resolved; every mismatch is
// appended to a typeerrors.Bag rather than raised as a panic. Ported
// rule-for-rule from the pony-lang original's semantic/type_inference.rs
// (compute_and_infer_expr_type, instantiate_type, resolve_type,
// resolve_function_signature, infer_types).
package inference

import (
	"fmt"
	"reflect"

	"vesper/internal/hir"
	"vesper/internal/registry"
	"vesper/internal/typedb"
	"vesper/internal/typeerrors"
	"vesper/internal/vesperrors"
)

type env struct {
	db              *typedb.Database
	resolvedGlobals map[string]hir.TypeInstance
	locals          map[string]hir.TypeInstance
	bag             *typeerrors.Bag
	functionName    string
}

// Infer resolves every type slot in stmts, returning the updated
// statement list alongside every type error collected along the way.
func Infer(globals *registry.Registry, db *typedb.Database, stmts []hir.Stmt) ([]hir.Stmt, *typeerrors.Bag) {
	bag := &typeerrors.Bag{}
	resolvedGlobals := make(map[string]hir.TypeInstance)

	// Publish every function's signature before inferring any body, so
	// forward references and recursion both resolve (mirrors infer_types
	// seeding globals ahead of infer_function_parameter_types_and_return).
	for _, s := range stmts {
		if fn, ok := s.(hir.DeclareFunction); ok {
			resolvedGlobals[fn.Name] = resolveFunctionSignature(db, bag, fn)
		}
	}

	out := make([]hir.Stmt, len(stmts))
	for i, s := range stmts {
		switch v := s.(type) {
		case hir.DeclareFunction:
			sig := resolvedGlobals[v.Name].(hir.FunctionTypeInstance)
			e := &env{
				db:              db,
				resolvedGlobals: resolvedGlobals,
				locals:          paramLocals(db, bag, v),
				bag:             bag,
				functionName:    v.Name,
			}
			out[i] = hir.DeclareFunction{
				Name:       v.Name,
				Params:     resolveParams(db, bag, v.Params),
				ReturnType: hir.ResolvedType{Instance: sig.Return},
				Body:       e.inferBlock(v.Body, sig.Return),
			}

		case hir.Declare:
			e := &env{db: db, resolvedGlobals: resolvedGlobals, locals: map[string]hir.TypeInstance{}, bag: bag, functionName: "main"}
			newDecl, t := e.inferDeclare(v)
			resolvedGlobals[v.Var.Name] = t
			out[i] = newDecl

		default:
			out[i] = s
		}
	}
	return out, bag
}

func simple(db *typedb.Database, name string) hir.TypeInstance {
	id, _ := db.Lookup(name)
	return hir.SimpleTypeInstance{ID: id, Name: name}
}

func voidInstance(db *typedb.Database) hir.TypeInstance { return simple(db, "Void") }

func typesEqual(a, b hir.TypeInstance) bool { return reflect.DeepEqual(a, b) }

func resolveTypeDef(db *typedb.Database, bag *typeerrors.Bag, t hir.TypeDef) hir.TypeInstance {
	switch v := t.(type) {
	case hir.UnresolvedType:
		inst, err := db.Resolve(v.Type)
		if err != nil {
			bag.AddTypeNotFound(typeerrors.TypeNotFound{Name: fmt.Sprintf("%v", v.Type)})
			return voidInstance(db)
		}
		return inst
	case hir.ResolvedType:
		return v.Instance
	default:
		return voidInstance(db)
	}
}

func resolveFunctionSignature(db *typedb.Database, bag *typeerrors.Bag, fn hir.DeclareFunction) hir.TypeInstance {
	params := make([]hir.TypeInstance, len(fn.Params))
	for i, p := range fn.Params {
		params[i] = resolveTypeDef(db, bag, p.Type)
	}
	return hir.FunctionTypeInstance{Params: params, Return: resolveTypeDef(db, bag, fn.ReturnType)}
}

func resolveParams(db *typedb.Database, bag *typeerrors.Bag, params []hir.TypedName) []hir.TypedName {
	out := make([]hir.TypedName, len(params))
	for i, p := range params {
		out[i] = hir.TypedName{Name: p.Name, Type: hir.ResolvedType{Instance: resolveTypeDef(db, bag, p.Type)}}
	}
	return out
}

func paramLocals(db *typedb.Database, bag *typeerrors.Bag, fn hir.DeclareFunction) map[string]hir.TypeInstance {
	locals := make(map[string]hir.TypeInstance, len(fn.Params))
	for _, p := range fn.Params {
		locals[p.Name] = resolveTypeDef(db, bag, p.Type)
	}
	return locals
}

func cloneLocals(locals map[string]hir.TypeInstance) map[string]hir.TypeInstance {
	c := make(map[string]hir.TypeInstance, len(locals))
	for k, v := range locals {
		c[k] = v
	}
	return c
}

func (e *env) lookup(name string) (hir.TypeInstance, bool) {
	if t, ok := e.locals[name]; ok {
		return t, true
	}
	if t, ok := e.resolvedGlobals[name]; ok {
		return t, true
	}
	return nil, false
}

func (e *env) inferDeclare(v hir.Declare) (hir.Stmt, hir.TypeInstance) {
	newExpr, actual := e.inferExpr(v.Expression)
	var declared hir.TypeInstance
	if u, ok := v.Var.Type.(hir.UnresolvedType); ok {
		declared = resolveTypeDef(e.db, e.bag, u)
		if !typesEqual(declared, actual) {
			e.bag.AddAssignMismatch(typeerrors.AssignMismatch{Variable: v.Var.Name, Expected: declared, Actual: actual})
		}
	} else {
		declared = actual
	}
	e.locals[v.Var.Name] = declared
	return hir.Declare{Var: hir.TypedName{Name: v.Var.Name, Type: hir.ResolvedType{Instance: declared}}, Expression: newExpr}, declared
}

func (e *env) inferBlock(stmts []hir.Stmt, expectedReturn hir.TypeInstance) []hir.Stmt {
	out := make([]hir.Stmt, len(stmts))
	for i, s := range stmts {
		switch v := s.(type) {
		case hir.Declare:
			newStmt, _ := e.inferDeclare(v)
			out[i] = newStmt

		case hir.Assign:
			newExpr, actual := e.inferExpr(v.Expression)
			if len(v.Path) > 0 {
				if existing, ok := e.lookup(v.Path[0]); ok && !typesEqual(existing, actual) {
					e.bag.AddAssignMismatch(typeerrors.AssignMismatch{Variable: v.Path[0], Expected: existing, Actual: actual})
				}
			}
			out[i] = hir.Assign{Path: v.Path, Expression: newExpr}

		case hir.FunctionCallStmt:
			newExpr, _ := e.inferExpr(v.Call)
			out[i] = hir.FunctionCallStmt{Call: newExpr.(hir.FunctionCallExpr)}

		case hir.If:
			cond, _ := e.inferTrivial(v.Condition)
			trueEnv := &env{db: e.db, resolvedGlobals: e.resolvedGlobals, locals: cloneLocals(e.locals), bag: e.bag, functionName: e.functionName}
			falseEnv := &env{db: e.db, resolvedGlobals: e.resolvedGlobals, locals: cloneLocals(e.locals), bag: e.bag, functionName: e.functionName}
			out[i] = hir.If{
				Condition: cond,
				True:      trueEnv.inferBlock(v.True, expectedReturn),
				False:     falseEnv.inferBlock(v.False, expectedReturn),
			}

		case hir.Return:
			newExpr, actual := e.inferExpr(v.Expression)
			if expectedReturn != nil && !typesEqual(expectedReturn, actual) {
				e.bag.AddReturnMismatch(typeerrors.ReturnMismatch{Function: e.functionName, Expected: expectedReturn, Actual: actual})
			}
			out[i] = hir.Return{Expression: newExpr}

		case hir.EmptyReturn:
			voidT := voidInstance(e.db)
			if expectedReturn != nil && !typesEqual(expectedReturn, voidT) {
				e.bag.AddReturnMismatch(typeerrors.ReturnMismatch{Function: e.functionName, Expected: expectedReturn, Actual: voidT})
			}
			out[i] = v

		default:
			out[i] = s
		}
	}
	return out
}

func (e *env) inferTrivial(t hir.Trivial) (hir.Trivial, hir.TypeInstance) {
	switch v := t.(type) {
	case hir.TrivialVariable:
		instance, ok := e.lookup(v.Name)
		if !ok {
			e.bag.AddTypeNotFound(typeerrors.TypeNotFound{Name: v.Name})
			instance = voidInstance(e.db)
		}
		return hir.TrivialVariable{Name: v.Name, Type: hir.ResolvedType{Instance: instance}}, instance
	case hir.TrivialInteger:
		t := simple(e.db, "i32")
		return hir.TrivialInteger{Value: v.Value, Type: hir.ResolvedType{Instance: t}}, t
	case hir.TrivialFloat:
		t := simple(e.db, "f32")
		return hir.TrivialFloat{Value: v.Value, Type: hir.ResolvedType{Instance: t}}, t
	case hir.TrivialString:
		t := simple(e.db, "str")
		return hir.TrivialString{Value: v.Value, Type: hir.ResolvedType{Instance: t}}, t
	case hir.TrivialBool:
		t := simple(e.db, "bool")
		return hir.TrivialBool{Value: v.Value, Type: hir.ResolvedType{Instance: t}}, t
	case hir.TrivialNone:
		t := simple(e.db, "None")
		return hir.TrivialNone{Type: hir.ResolvedType{Instance: t}}, t
	default:
		vesperrors.Raise(vesperrors.Internal, "cannot infer type of trivial expression %T", t)
		panic("unreachable")
	}
}

func (e *env) inferExpr(expr hir.Expr) (hir.Expr, hir.TypeInstance) {
	switch v := expr.(type) {
	case hir.TrivialExpr:
		newVal, t := e.inferTrivial(v.Value)
		return hir.TrivialExpr{Value: newVal, Type: hir.ResolvedType{Instance: t}}, t

	case hir.Cast:
		// Casts are not a supported conversion: every Cast is reported and
		// folded to Void rather than silently passed through.
		newOperand, _ := e.inferExpr(v.Operand)
		void := voidInstance(e.db)
		e.bag.AddUnexpectedTypeFound(typeerrors.UnexpectedTypeFound{Context: "cast", Found: void})
		return hir.Cast{Operand: newOperand, Type: hir.ResolvedType{Instance: void}}, void

	case hir.BinaryExpr:
		left, lt := e.inferTrivial(v.Left)
		right, rt := e.inferTrivial(v.Right)
		if !typesEqual(lt, rt) {
			e.bag.AddUnexpectedTypeFound(typeerrors.UnexpectedTypeFound{Context: fmt.Sprintf("right operand of %s", v.Op), Found: rt})
		}
		result, ok := e.db.BinaryOperator(lt, v.Op)
		if !ok {
			e.bag.AddBinaryOperatorNotFound(typeerrors.BinaryOperatorNotFound{Op: v.Op, Operand: lt})
			result = lt
		}
		return hir.BinaryExpr{Left: left, Right: right, Op: v.Op, Type: hir.ResolvedType{Instance: result}}, result

	case hir.UnaryExpr:
		operand, ot := e.inferTrivial(v.Operand)
		result, ok := e.db.UnaryOperator(ot, v.Op)
		if !ok {
			e.bag.AddUnaryOperatorNotFound(typeerrors.UnaryOperatorNotFound{Op: v.Op, Operand: ot})
			result = ot
		}
		return hir.UnaryExpr{Operand: operand, Op: v.Op, Type: hir.ResolvedType{Instance: result}}, result

	case hir.ArrayExpr:
		items := make([]hir.Trivial, len(v.Items))
		var elem hir.TypeInstance
		for i, it := range v.Items {
			newIt, t := e.inferTrivial(it)
			items[i] = newIt
			if i == 0 {
				elem = t
			} else if !typesEqual(elem, t) {
				e.bag.AddUnexpectedTypeFound(typeerrors.UnexpectedTypeFound{Context: "array literal element", Found: t})
			}
		}
		if elem == nil {
			e.bag.AddInsufficientArrayInfo(typeerrors.InsufficientArrayInfo{Context: "empty array literal"})
			elem = voidInstance(e.db)
		}
		arrID, _ := e.db.Lookup("array")
		result := hir.GenericTypeInstance{ID: arrID, Name: "array", Args: []hir.TypeInstance{elem}}
		return hir.ArrayExpr{Items: items, Type: hir.ResolvedType{Instance: result}}, result

	case hir.MemberAccessExpr:
		obj, objType := e.inferTrivial(v.Object)
		if fieldType, err := e.db.ResolveField(objType, v.Member); err == nil {
			return hir.MemberAccessExpr{Object: obj, Member: v.Member, Type: hir.ResolvedType{Instance: fieldType}}, fieldType
		}
		if sig, err := e.db.ResolveMethod(objType, v.Member); err == nil {
			fnType := hir.FunctionTypeInstance{Params: sig.Params, Return: sig.Return}
			return hir.MemberAccessExpr{Object: obj, Member: v.Member, Type: hir.ResolvedType{Instance: fnType}}, fnType
		}
		e.bag.AddFieldOrMethodNotFound(typeerrors.FieldOrMethodNotFound{Type: objType, Name: v.Member})
		void := voidInstance(e.db)
		return hir.MemberAccessExpr{Object: obj, Member: v.Member, Type: hir.ResolvedType{Instance: void}}, void

	case hir.FunctionCallExpr:
		return e.inferCall(v)

	default:
		void := voidInstance(e.db)
		return expr, void
	}
}

func callName(callee hir.Trivial) string {
	if v, ok := callee.(hir.TrivialVariable); ok {
		return v.Name
	}
	return "<expression>"
}

func (e *env) checkArgs(name string, args []hir.Trivial, params []hir.TypeInstance) []hir.Trivial {
	if len(args) != len(params) {
		e.bag.AddArgumentCountMismatch(typeerrors.ArgumentCountMismatch{Function: name, Expected: len(params), Actual: len(args)})
	}
	out := make([]hir.Trivial, len(args))
	for i, a := range args {
		newA, t := e.inferTrivial(a)
		out[i] = newA
		if i < len(params) && !typesEqual(params[i], t) {
			e.bag.AddCallArgMismatch(typeerrors.CallArgMismatch{Function: name, Index: i, Expected: params[i], Actual: t})
		}
	}
	return out
}

func (e *env) inferArgsLoose(args []hir.Trivial) []hir.Trivial {
	out := make([]hir.Trivial, len(args))
	for i, a := range args {
		newA, _ := e.inferTrivial(a)
		out[i] = newA
	}
	return out
}

// inferCall infers a call's type. v.Function is always Trivial: for a
// direct call this is a TrivialVariable naming a declared function; for a
// method call (e.g. index-access desugaring's obj.__index__(i)), lowering
// has already bound the MemberAccessExpr to its own synthetic temporary,
// so by the time inferCall runs, inferring that Declare has already
// resolved the temporary's type to the method's FunctionTypeInstance via
// inferExpr's MemberAccessExpr case — inferCall itself needs no method
// special-case of its own.
func (e *env) inferCall(v hir.FunctionCallExpr) (hir.Expr, hir.TypeInstance) {
	fn, fnType := e.inferTrivial(v.Function)
	name := callName(v.Function)
	ft, ok := fnType.(hir.FunctionTypeInstance)
	if !ok {
		e.bag.AddCallToNonCallable(typeerrors.CallToNonCallable{Expression: name, Actual: fnType})
		void := voidInstance(e.db)
		args := e.inferArgsLoose(v.Args)
		return hir.FunctionCallExpr{Function: fn, Args: args, Type: hir.ResolvedType{Instance: void}}, void
	}
	args := e.checkArgs(name, v.Args, ft.Params)
	return hir.FunctionCallExpr{Function: fn, Args: args, Type: hir.ResolvedType{Instance: ft.Return}}, ft.Return
}
