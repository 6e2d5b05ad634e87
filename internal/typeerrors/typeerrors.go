// Package typeerrors is the structured, collected half of the pipeline's
// error model: inference never panics on a type mismatch, it appends one
// of these entries to a Bag and keeps going, so a caller sees every type
// error in a compilation unit instead of only the first (spec §7, §9
// Design Notes). This is a hand-expanded Go rendition of the pony-lang
// original's types/type_errors.rs make_type_errors! macro — Go has no
// declarative macro facility, so the "one Vec per error kind plus a
// Display impl" shape that macro generates is written out by hand here.
package typeerrors

import (
	"fmt"
	"strings"

	"vesper/internal/common"
	"vesper/internal/hir"
)

func typeString(t hir.TypeInstance) string {
	switch v := t.(type) {
	case hir.SimpleTypeInstance:
		return v.Name
	case hir.GenericTypeInstance:
		parts := make([]string, len(v.Args))
		for i, a := range v.Args {
			parts[i] = typeString(a)
		}
		return fmt.Sprintf("%s<%s>", v.Name, strings.Join(parts, ", "))
	case hir.FunctionTypeInstance:
		parts := make([]string, len(v.Params))
		for i, p := range v.Params {
			parts[i] = typeString(p)
		}
		return fmt.Sprintf("fn (%s) -> %s", strings.Join(parts, ", "), typeString(v.Return))
	default:
		return "<unknown type>"
	}
}

// AssignMismatch: a Declare or Assign's expression type doesn't match the
// target's declared type.
type AssignMismatch struct {
	Variable string
	Expected hir.TypeInstance
	Actual   hir.TypeInstance
}

func (e AssignMismatch) Error() string {
	return fmt.Sprintf("assigned type mismatch: %s expected %s but got %s",
		e.Variable, typeString(e.Expected), typeString(e.Actual))
}

// ReturnMismatch: a Return's expression type doesn't match the enclosing
// function's declared return type.
type ReturnMismatch struct {
	Function string
	Expected hir.TypeInstance
	Actual   hir.TypeInstance
}

func (e ReturnMismatch) Error() string {
	return fmt.Sprintf("return type mismatch in function %s: expected %s but got %s",
		e.Function, typeString(e.Expected), typeString(e.Actual))
}

// CallArgMismatch: the type of one argument at a call site doesn't match
// the callee's declared parameter type.
type CallArgMismatch struct {
	Function string
	Index    int
	Expected hir.TypeInstance
	Actual   hir.TypeInstance
}

func (e CallArgMismatch) Error() string {
	return fmt.Sprintf("argument %d to %s: expected %s but got %s",
		e.Index, e.Function, typeString(e.Expected), typeString(e.Actual))
}

// ArgumentCountMismatch: a call site passed a different number of
// arguments than the callee declares parameters.
type ArgumentCountMismatch struct {
	Function string
	Expected int
	Actual   int
}

func (e ArgumentCountMismatch) Error() string {
	return fmt.Sprintf("%s expects %d argument(s) but got %d", e.Function, e.Expected, e.Actual)
}

// CallToNonCallable: a call site's callee does not have function type.
type CallToNonCallable struct {
	Expression string
	Actual     hir.TypeInstance
}

func (e CallToNonCallable) Error() string {
	return fmt.Sprintf("%s has type %s, which is not callable", e.Expression, typeString(e.Actual))
}

// TypeNotFound: a declared type annotation names a type the database has
// no entry for.
type TypeNotFound struct {
	Name string
}

func (e TypeNotFound) Error() string {
	return fmt.Sprintf("type not found: %s", e.Name)
}

// UnexpectedTypeFound: an expression resolved to a type that makes no
// sense in its context (for instance a Void value used as an operand).
type UnexpectedTypeFound struct {
	Context string
	Found   hir.TypeInstance
}

func (e UnexpectedTypeFound) Error() string {
	return fmt.Sprintf("unexpected type in %s: %s", e.Context, typeString(e.Found))
}

// BinaryOperatorNotFound: a binary operator has no defined result type for
// the given operand type.
type BinaryOperatorNotFound struct {
	Op      common.Operator
	Operand hir.TypeInstance
}

func (e BinaryOperatorNotFound) Error() string {
	return fmt.Sprintf("operator %s not found for type %s", e.Op, typeString(e.Operand))
}

// UnaryOperatorNotFound: a unary operator has no defined result type for
// the given operand type.
type UnaryOperatorNotFound struct {
	Op      common.Operator
	Operand hir.TypeInstance
}

func (e UnaryOperatorNotFound) Error() string {
	return fmt.Sprintf("unary operator %s not found for type %s", e.Op, typeString(e.Operand))
}

// FieldOrMethodNotFound: a member access or method call named something
// its object type doesn't define.
type FieldOrMethodNotFound struct {
	Type hir.TypeInstance
	Name string
}

func (e FieldOrMethodNotFound) Error() string {
	return fmt.Sprintf("%s has no field or method named %s", typeString(e.Type), e.Name)
}

// InsufficientArrayInfo: an empty array literal has no element type to
// infer from and none was declared.
type InsufficientArrayInfo struct {
	Context string
}

func (e InsufficientArrayInfo) Error() string {
	return fmt.Sprintf("not enough information to infer array element type in %s", e.Context)
}

// Bag collects every type error found across one compilation unit's
// inference pass, one slice per category — the Go rendition of the
// original's make_type_errors!-generated struct.
type Bag struct {
	AssignMismatches        []AssignMismatch
	ReturnMismatches        []ReturnMismatch
	CallArgMismatches       []CallArgMismatch
	ArgumentCountMismatches []ArgumentCountMismatch
	CallToNonCallables      []CallToNonCallable
	TypeNotFounds           []TypeNotFound
	UnexpectedTypeFounds    []UnexpectedTypeFound
	BinaryOperatorNotFounds []BinaryOperatorNotFound
	UnaryOperatorNotFounds  []UnaryOperatorNotFound
	FieldOrMethodNotFounds  []FieldOrMethodNotFound
	InsufficientArrayInfos  []InsufficientArrayInfo
}

// Count returns the total number of collected errors across every
// category.
func (b *Bag) Count() int {
	return len(b.AssignMismatches) + len(b.ReturnMismatches) + len(b.CallArgMismatches) +
		len(b.ArgumentCountMismatches) + len(b.CallToNonCallables) + len(b.TypeNotFounds) +
		len(b.UnexpectedTypeFounds) + len(b.BinaryOperatorNotFounds) + len(b.UnaryOperatorNotFounds) +
		len(b.FieldOrMethodNotFounds) + len(b.InsufficientArrayInfos)
}

// Empty reports whether no errors were collected.
func (b *Bag) Empty() bool { return b.Count() == 0 }

func (b *Bag) AddAssignMismatch(e AssignMismatch) { b.AssignMismatches = append(b.AssignMismatches, e) }
func (b *Bag) AddReturnMismatch(e ReturnMismatch) { b.ReturnMismatches = append(b.ReturnMismatches, e) }
func (b *Bag) AddCallArgMismatch(e CallArgMismatch) {
	b.CallArgMismatches = append(b.CallArgMismatches, e)
}
func (b *Bag) AddArgumentCountMismatch(e ArgumentCountMismatch) {
	b.ArgumentCountMismatches = append(b.ArgumentCountMismatches, e)
}
func (b *Bag) AddCallToNonCallable(e CallToNonCallable) {
	b.CallToNonCallables = append(b.CallToNonCallables, e)
}
func (b *Bag) AddTypeNotFound(e TypeNotFound) { b.TypeNotFounds = append(b.TypeNotFounds, e) }
func (b *Bag) AddUnexpectedTypeFound(e UnexpectedTypeFound) {
	b.UnexpectedTypeFounds = append(b.UnexpectedTypeFounds, e)
}
func (b *Bag) AddBinaryOperatorNotFound(e BinaryOperatorNotFound) {
	b.BinaryOperatorNotFounds = append(b.BinaryOperatorNotFounds, e)
}
func (b *Bag) AddUnaryOperatorNotFound(e UnaryOperatorNotFound) {
	b.UnaryOperatorNotFounds = append(b.UnaryOperatorNotFounds, e)
}
func (b *Bag) AddFieldOrMethodNotFound(e FieldOrMethodNotFound) {
	b.FieldOrMethodNotFounds = append(b.FieldOrMethodNotFounds, e)
}
func (b *Bag) AddInsufficientArrayInfo(e InsufficientArrayInfo) {
	b.InsufficientArrayInfos = append(b.InsufficientArrayInfos, e)
}

// Render concatenates every collected error's message onto its own line,
// category by category, the Go rendition of the original's
// TypeErrorPrinter.
func (b *Bag) Render() string {
	var sb strings.Builder
	write := func(errs []error) {
		for _, e := range errs {
			sb.WriteString(e.Error())
			sb.WriteByte('\n')
		}
	}
	write(toErrors(b.AssignMismatches))
	write(toErrors(b.ReturnMismatches))
	write(toErrors(b.CallArgMismatches))
	write(toErrors(b.ArgumentCountMismatches))
	write(toErrors(b.CallToNonCallables))
	write(toErrors(b.TypeNotFounds))
	write(toErrors(b.UnexpectedTypeFounds))
	write(toErrors(b.BinaryOperatorNotFounds))
	write(toErrors(b.UnaryOperatorNotFounds))
	write(toErrors(b.FieldOrMethodNotFounds))
	write(toErrors(b.InsufficientArrayInfos))
	return sb.String()
}

func toErrors[T error](items []T) []error {
	out := make([]error, len(items))
	for i, item := range items {
		out[i] = item
	}
	return out
}
