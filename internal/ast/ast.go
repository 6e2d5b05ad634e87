// Package ast defines the ingress contract the semantic pipeline is fed
// with. Nothing in this package parses source text — production of these
// trees is an external collaborator's job (spec §6). Lowering is this
// package's only consumer, so nodes are matched with a type switch rather
// than a second Visitor interface layered on top of them.
package ast

import "vesper/internal/common"

// Type is the surface-syntax type annotation attached to a TypedName —
// either a simple name ("i32") or a generic instantiation ("array<i32>").
type Type interface{ astType() }

// SimpleType is a bare type name with no generic arguments.
type SimpleType struct {
	Name string
}

func (SimpleType) astType() {}

// GenericType is a type name applied to one or more type arguments.
type GenericType struct {
	Base string
	Args []Type
}

func (GenericType) astType() {}

// TypedName pairs an identifier with its declared surface type, used for
// function parameters, struct fields, and declare-statement targets.
type TypedName struct {
	Name string
	Type Type
}

// Expr is any expression-producing node in the ingress tree.
type Expr interface{ exprNode() }

// IntegerLiteral is an integer constant.
type IntegerLiteral struct {
	Value int64
}

func (IntegerLiteral) exprNode() {}

// FloatLiteral is a floating-point constant.
type FloatLiteral struct {
	Value common.Float
}

func (FloatLiteral) exprNode() {}

// StringLiteral is a string constant.
type StringLiteral struct {
	Value string
}

func (StringLiteral) exprNode() {}

// BoolLiteral is a boolean constant.
type BoolLiteral struct {
	Value bool
}

func (BoolLiteral) exprNode() {}

// NoneLiteral is the absence-of-value constant.
type NoneLiteral struct{}

func (NoneLiteral) exprNode() {}

// Variable references a name in scope.
type Variable struct {
	Name string
}

func (Variable) exprNode() {}

// Parenthesized wraps an expression that was explicitly grouped in source.
// It carries no semantic weight beyond Inner; lowering treats it as
// transparent.
type Parenthesized struct {
	Inner Expr
}

func (Parenthesized) exprNode() {}

// BinaryOperation applies a binary operator to two operands.
type BinaryOperation struct {
	Left, Right Expr
	Op          common.Operator
}

func (BinaryOperation) exprNode() {}

// UnaryExpression applies a unary operator to one operand.
type UnaryExpression struct {
	Operand Expr
	Op      common.Operator
}

func (UnaryExpression) exprNode() {}

// FunctionCall invokes Callee with Args.
type FunctionCall struct {
	Callee Expr
	Args   []Expr
}

func (FunctionCall) exprNode() {}

// IndexAccess is obj[index] surface syntax; lowering desugars this into a
// call to the object's __index__ method.
type IndexAccess struct {
	Object Expr
	Index  Expr
}

func (IndexAccess) exprNode() {}

// MemberAccess is obj.field surface syntax.
type MemberAccess struct {
	Object Expr
	Member string
}

func (MemberAccess) exprNode() {}

// ArrayLiteral is an array literal expression.
type ArrayLiteral struct {
	Elements []Expr
}

func (ArrayLiteral) exprNode() {}
