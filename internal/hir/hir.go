// Package hir defines the flat, three-address-form intermediate
// representation lowering produces: every nested expression is decomposed
// into a sequence of statements over synthetic temporaries, and every
// expression and declared name carries its own type slot that progresses
// monotonically from Pending to Unresolved to Resolved as later passes
// fill it in. Ported field-for-field from the pony-lang original's
// semantic/hir.rs. This package has no dependency on internal/typedb: a
// TypeInstance here is a self-contained value (an ID plus enough shape to
// print and compare), and typedb is the package that knows how to build
// and look one up, not the package that defines its shape.
package hir

import "vesper/internal/common"

// TypeID identifies a registered type inside a type database.
type TypeID int

// TypeInstance is a resolved, concrete type: the result of successfully
// looking up and (for generics) instantiating an HIRType against a type
// database.
type TypeInstance interface{ typeInstanceNode() }

// SimpleTypeInstance is a non-generic resolved type, such as i32 or str.
type SimpleTypeInstance struct {
	ID   TypeID
	Name string
}

func (SimpleTypeInstance) typeInstanceNode() {}

// GenericTypeInstance is a resolved generic type applied to concrete type
// arguments, such as array<i32>.
type GenericTypeInstance struct {
	ID   TypeID
	Name string
	Args []TypeInstance
}

func (GenericTypeInstance) typeInstanceNode() {}

// FunctionTypeInstance is the resolved type of a callable value.
type FunctionTypeInstance struct {
	Params []TypeInstance
	Return TypeInstance
}

func (FunctionTypeInstance) typeInstanceNode() {}

// HIRType is a declared-but-not-yet-looked-up type, the shape carried
// over directly from an ast.Type by lowering, before inference resolves
// it against a type database.
type HIRType interface{ hirTypeNode() }

// SimpleType is a bare declared type name.
type SimpleType struct {
	Name string
}

func (SimpleType) hirTypeNode() {}

// GenericType is a declared type name applied to type arguments.
type GenericType struct {
	Name string
	Args []HIRType
}

func (GenericType) hirTypeNode() {}

// FunctionType is the declared type of a callable value.
type FunctionType struct {
	Params []HIRType
	Return HIRType
}

func (FunctionType) hirTypeNode() {}

// TypeDef is the tri-state type slot attached to every HIR expression and
// declared name. It only ever moves forward: Pending -> Unresolved ->
// Resolved. Reading a Pending slot during inference is a bug in an
// earlier pass, not a recoverable condition.
type TypeDef interface{ typeDefNode() }

// PendingType marks a slot lowering has not yet filled in at all.
type PendingType struct{}

func (PendingType) typeDefNode() {}

// UnresolvedType marks a slot that carries a syntactic type but has not
// yet been resolved against a type database.
type UnresolvedType struct {
	Type HIRType
}

func (UnresolvedType) typeDefNode() {}

// ResolvedType marks a slot inference has fully resolved.
type ResolvedType struct {
	Instance TypeInstance
}

func (ResolvedType) typeDefNode() {}

// TypedName pairs a name with its type slot, used for declarations,
// function parameters, and struct fields.
type TypedName struct {
	Name string
	Type TypeDef
}

// Trivial is an expression simple enough to appear directly as an operand
// without further reduction: a literal or a bare variable reference.
// check_if_reducible in the original draws exactly this line.
type Trivial interface{ trivialNode() }

// TrivialVariable references a name already bound in scope.
type TrivialVariable struct {
	Name string
	Type TypeDef
}

func (TrivialVariable) trivialNode() {}

// TrivialInteger is an integer literal operand.
type TrivialInteger struct {
	Value int64
	Type  TypeDef
}

func (TrivialInteger) trivialNode() {}

// TrivialFloat is a float literal operand.
type TrivialFloat struct {
	Value common.Float
	Type  TypeDef
}

func (TrivialFloat) trivialNode() {}

// TrivialString is a string literal operand.
type TrivialString struct {
	Value string
	Type  TypeDef
}

func (TrivialString) trivialNode() {}

// TrivialBool is a boolean literal operand.
type TrivialBool struct {
	Value bool
	Type  TypeDef
}

func (TrivialBool) trivialNode() {}

// TrivialNone is the none/void literal operand.
type TrivialNone struct {
	Type TypeDef
}

func (TrivialNone) trivialNode() {}

// TypeOf returns the type slot carried by any Trivial value.
func TypeOf(t Trivial) TypeDef {
	switch v := t.(type) {
	case TrivialVariable:
		return v.Type
	case TrivialInteger:
		return v.Type
	case TrivialFloat:
		return v.Type
	case TrivialString:
		return v.Type
	case TrivialBool:
		return v.Type
	case TrivialNone:
		return v.Type
	default:
		return PendingType{}
	}
}

// Expr is a (possibly still composite, but already reduced to operate
// only on Trivial operands) HIR expression.
type Expr interface{ exprNode() }

// TrivialExpr wraps a Trivial value so it can appear anywhere an Expr is
// expected (for instance as the right-hand side of a Declare whose
// expression needed no reduction at all).
type TrivialExpr struct {
	Value Trivial
	Type  TypeDef
}

func (TrivialExpr) exprNode() {}

// Cast converts Operand to Type. Present for structural completeness with
// the original representation; inference never produces or accepts one
// (casts are explicitly unsupported).
type Cast struct {
	Operand Expr
	Type    TypeDef
}

func (Cast) exprNode() {}

// BinaryExpr applies a binary operator to two already-trivial operands.
type BinaryExpr struct {
	Left, Right Trivial
	Op          common.Operator
	Type        TypeDef
}

func (BinaryExpr) exprNode() {}

// UnaryExpr applies a unary operator to an already-trivial operand.
type UnaryExpr struct {
	Operand Trivial
	Op      common.Operator
	Type    TypeDef
}

func (UnaryExpr) exprNode() {}

// ArrayExpr is an array literal over already-trivial elements.
type ArrayExpr struct {
	Items []Trivial
	Type  TypeDef
}

func (ArrayExpr) exprNode() {}

// MemberAccessExpr reads a field or method off Object. Object is always
// Trivial — a composite base expression (for instance another member
// access, or an index-access's synthesized __index__ reference) is bound
// to a synthetic temporary by lowering before it can appear here, so no
// sub-expression of a composite HIR expression is ever itself composite.
type MemberAccessExpr struct {
	Object Trivial
	Member string
	Type   TypeDef
}

func (MemberAccessExpr) exprNode() {}

// FunctionCallExpr calls Function, always Trivial — commonly a
// TrivialVariable naming a declared function, or one synthesized by
// lowering to hold a MemberAccessExpr's bound-method value ahead of the
// call (index-access desugaring materializes obj.__index__ this way) —
// with already-trivial arguments.
type FunctionCallExpr struct {
	Function Trivial
	Args     []Trivial
	Type     TypeDef
}

func (FunctionCallExpr) exprNode() {}

// TypeOfExpr returns the type slot carried by any Expr.
func TypeOfExpr(e Expr) TypeDef {
	switch v := e.(type) {
	case TrivialExpr:
		return v.Type
	case Cast:
		return v.Type
	case BinaryExpr:
		return v.Type
	case UnaryExpr:
		return v.Type
	case ArrayExpr:
		return v.Type
	case MemberAccessExpr:
		return v.Type
	case FunctionCallExpr:
		return v.Type
	default:
		return PendingType{}
	}
}

// Stmt is a flat HIR statement.
type Stmt interface{ stmtNode() }

// Declare introduces Var, binding it to Expression.
type Declare struct {
	Var        TypedName
	Expression Expr
}

func (Declare) stmtNode() {}

// Assign rebinds an existing name (or, for Path longer than one element,
// a member-access chain) to Expression.
type Assign struct {
	Path       []string
	Expression Expr
}

func (Assign) stmtNode() {}

// DeclareFunction declares a named function.
type DeclareFunction struct {
	Name       string
	Params     []TypedName
	ReturnType TypeDef
	Body       []Stmt
}

func (DeclareFunction) stmtNode() {}

// StructDeclaration declares a named struct type.
type StructDeclaration struct {
	Name   string
	Fields []TypedName
}

func (StructDeclaration) stmtNode() {}

// FunctionCallStmt is a function call used as a statement, its result
// value discarded.
type FunctionCallStmt struct {
	Call FunctionCallExpr
}

func (FunctionCallStmt) stmtNode() {}

// If is a conditional with independently-typed then/else bodies.
type If struct {
	Condition Trivial
	True      []Stmt
	False     []Stmt
}

func (If) stmtNode() {}

// Return exits the enclosing function with a value.
type Return struct {
	Expression Expr
}

func (Return) stmtNode() {}

// EmptyReturn exits the enclosing function with no value (Void).
type EmptyReturn struct{}

func (EmptyReturn) stmtNode() {}
