// Package typedb builds and queries the type database: the immutable,
// safely-shareable-after-construction registry of built-in types,
// operators, fields, and methods that inference resolves every HIRType
// against (spec §3, §5). Grounded on the pony-lang original's
// semantic/type_inference.rs (instantiate_type, resolve_type,
// resolve_function_signature) and types::type_instance::TypeInstance.
package typedb

import (
	"fmt"

	"github.com/pkg/errors"
	humanize "github.com/dustin/go-humanize"

	"vesper/internal/common"
	"vesper/internal/hir"
)

// SigType is the declared, not-yet-instantiated shape of a field or
// method signature: either a reference to one of the declaring type's own
// generic parameters (by name, substituted positionally — the Go
// rendition of the original's Either<GenericParameter, TypeId>::Left) or
// a concrete type (::Right).
type SigType interface{ sigTypeNode() }

// SigParam references a generic parameter of the type that declares the
// signature this SigType appears in.
type SigParam struct{ Name string }

func (SigParam) sigTypeNode() {}

// SigSimple is a concrete, non-generic type reference.
type SigSimple struct {
	ID   hir.TypeID
	Name string
}

func (SigSimple) sigTypeNode() {}

// SigGeneric is a concrete generic type reference with its own type
// arguments (which may themselves reference the outer generic parameter).
type SigGeneric struct {
	ID   hir.TypeID
	Name string
	Args []SigType
}

func (SigGeneric) sigTypeNode() {}

// SigFunction is the declared type of a callable field or return value.
type SigFunction struct {
	Params []SigType
	Return SigType
}

func (SigFunction) sigTypeNode() {}

// MethodSignature is a method's declared parameter and return shapes,
// prior to generic substitution.
type MethodSignature struct {
	Params []SigType
	Return SigType
}

// ResolvedSignature is a MethodSignature after substituting the receiver's
// concrete generic arguments in for every SigParam.
type ResolvedSignature struct {
	Params []hir.TypeInstance
	Return hir.TypeInstance
}

type typeEntry struct {
	id            hir.TypeID
	name          string
	genericParams []string
	fields        map[string]SigType
	methods       map[string]MethodSignature
	binaryOps     map[common.Operator]hir.TypeInstance
	unaryOps      map[common.Operator]hir.TypeInstance
}

// Database is the built-in-plus-user-struct type registry. Build once via
// New, then share freely across goroutines: nothing after construction
// mutates it except RegisterStruct, which callers use only during the
// single-threaded name-registry phase before any concurrent work starts.
type Database struct {
	byID   map[hir.TypeID]*typeEntry
	byName map[string]hir.TypeID
	nextID hir.TypeID
}

// Well-known built-in type IDs.
const (
	TypeI32 hir.TypeID = iota + 1
	TypeU32
	TypeF32
	TypeBool
	TypeStr
	TypeNone
	TypeVoid
	TypeArray
)

// New builds a Database pre-registered with i32, u32, f32, bool, str,
// None, Void, and the generic array<T> (with __index__ and length), and
// their operator tables, exactly as spec §3 requires.
func New() *Database {
	db := &Database{
		byID:   make(map[hir.TypeID]*typeEntry),
		byName: make(map[string]hir.TypeID),
		nextID: TypeArray + 1,
	}

	numeric := []hir.TypeID{TypeI32, TypeU32, TypeF32}
	names := map[hir.TypeID]string{
		TypeI32: "i32", TypeU32: "u32", TypeF32: "f32",
		TypeBool: "bool", TypeStr: "str", TypeNone: "None", TypeVoid: "Void",
	}
	for id, name := range names {
		db.register(&typeEntry{id: id, name: name})
	}

	boolInstance := hir.SimpleTypeInstance{ID: TypeBool, Name: "bool"}
	for _, id := range numeric {
		e := db.byID[id]
		e.binaryOps = map[common.Operator]hir.TypeInstance{
			common.OpPlus:          db.simpleInstance(id),
			common.OpMinus:         db.simpleInstance(id),
			common.OpMultiply:      db.simpleInstance(id),
			common.OpDivide:        db.simpleInstance(id),
			common.OpMod:           db.simpleInstance(id),
			common.OpEquals:        boolInstance,
			common.OpNotEquals:     boolInstance,
			common.OpLess:          boolInstance,
			common.OpLessEquals:    boolInstance,
			common.OpGreater:       boolInstance,
			common.OpGreaterEquals: boolInstance,
		}
		e.unaryOps = map[common.Operator]hir.TypeInstance{
			common.OpMinus: db.simpleInstance(id),
		}
	}

	boolEntry := db.byID[TypeBool]
	boolEntry.binaryOps = map[common.Operator]hir.TypeInstance{
		common.OpAnd:       boolInstance,
		common.OpOr:        boolInstance,
		common.OpEquals:    boolInstance,
		common.OpNotEquals: boolInstance,
	}
	boolEntry.unaryOps = map[common.Operator]hir.TypeInstance{
		common.OpNot: boolInstance,
	}

	strEntry := db.byID[TypeStr]
	strEntry.binaryOps = map[common.Operator]hir.TypeInstance{
		common.OpPlus:       hir.SimpleTypeInstance{ID: TypeStr, Name: "str"},
		common.OpEquals:     boolInstance,
		common.OpNotEquals:  boolInstance,
	}
	strEntry.fields = map[string]SigType{
		"length": SigSimple{ID: TypeU32, Name: "u32"},
	}

	db.register(&typeEntry{
		id:            TypeArray,
		name:          "array",
		genericParams: []string{"T"},
		fields: map[string]SigType{
			"length": SigSimple{ID: TypeU32, Name: "u32"},
		},
		methods: map[string]MethodSignature{
			"__index__": {
				Params: []SigType{SigSimple{ID: TypeU32, Name: "u32"}},
				Return: SigParam{Name: "T"},
			},
		},
	})

	return db
}

func (db *Database) register(e *typeEntry) {
	if e.fields == nil {
		e.fields = map[string]SigType{}
	}
	if e.methods == nil {
		e.methods = map[string]MethodSignature{}
	}
	db.byID[e.id] = e
	db.byName[e.name] = e.id
	if e.id >= db.nextID {
		db.nextID = e.id + 1
	}
}

func (db *Database) simpleInstance(id hir.TypeID) hir.TypeInstance {
	return hir.SimpleTypeInstance{ID: id, Name: db.byID[id].name}
}

// Lookup finds a registered type's ID by name.
func (db *Database) Lookup(name string) (hir.TypeID, bool) {
	id, ok := db.byName[name]
	return id, ok
}

// RegisterStruct adds a user-defined struct type with plain (non-generic)
// fields. Must only be called before any concurrent analysis begins
// (spec §5: the database is shareable once built, not while building).
func (db *Database) RegisterStruct(name string, fields map[string]SigType) hir.TypeID {
	id := db.nextID
	db.nextID++
	db.register(&typeEntry{id: id, name: name, fields: fields})
	return id
}

// Resolve turns a syntactic HIRType into a concrete TypeInstance by
// looking up every name it mentions, recursively instantiating generic
// arguments. This is the Go rendition of instantiate_type.
func (db *Database) Resolve(t hir.HIRType) (hir.TypeInstance, error) {
	switch v := t.(type) {
	case hir.SimpleType:
		id, ok := db.byName[v.Name]
		if !ok {
			return nil, errors.Errorf("type not found: %s", v.Name)
		}
		return hir.SimpleTypeInstance{ID: id, Name: v.Name}, nil
	case hir.GenericType:
		id, ok := db.byName[v.Name]
		if !ok {
			return nil, errors.Errorf("type not found: %s", v.Name)
		}
		args := make([]hir.TypeInstance, len(v.Args))
		for i, a := range v.Args {
			inst, err := db.Resolve(a)
			if err != nil {
				return nil, err
			}
			args[i] = inst
		}
		return hir.GenericTypeInstance{ID: id, Name: v.Name, Args: args}, nil
	case hir.FunctionType:
		params := make([]hir.TypeInstance, len(v.Params))
		for i, p := range v.Params {
			inst, err := db.Resolve(p)
			if err != nil {
				return nil, err
			}
			params[i] = inst
		}
		ret, err := db.Resolve(v.Return)
		if err != nil {
			return nil, err
		}
		return hir.FunctionTypeInstance{Params: params, Return: ret}, nil
	default:
		return nil, errors.Errorf("unhandled HIRType %T", t)
	}
}

// substitute replaces every SigParam in sig with the concrete generic
// argument at the matching position in the declaring entry's
// genericParams list — the positional Left/Right substitution the
// original performs with Either<GenericParameter, TypeId>.
func (db *Database) substitute(sig SigType, entry *typeEntry, args []hir.TypeInstance) (hir.TypeInstance, error) {
	switch v := sig.(type) {
	case SigParam:
		for i, name := range entry.genericParams {
			if name == v.Name {
				if i >= len(args) {
					return nil, errors.Errorf("missing generic argument %s for %s", v.Name, entry.name)
				}
				return args[i], nil
			}
		}
		return nil, errors.Errorf("unknown generic parameter %s on %s", v.Name, entry.name)
	case SigSimple:
		return hir.SimpleTypeInstance{ID: v.ID, Name: v.Name}, nil
	case SigGeneric:
		resolvedArgs := make([]hir.TypeInstance, len(v.Args))
		for i, a := range v.Args {
			inst, err := db.substitute(a, entry, args)
			if err != nil {
				return nil, err
			}
			resolvedArgs[i] = inst
		}
		return hir.GenericTypeInstance{ID: v.ID, Name: v.Name, Args: resolvedArgs}, nil
	case SigFunction:
		params := make([]hir.TypeInstance, len(v.Params))
		for i, p := range v.Params {
			inst, err := db.substitute(p, entry, args)
			if err != nil {
				return nil, err
			}
			params[i] = inst
		}
		ret, err := db.substitute(v.Return, entry, args)
		if err != nil {
			return nil, err
		}
		return hir.FunctionTypeInstance{Params: params, Return: ret}, nil
	default:
		return nil, errors.Errorf("unhandled SigType %T", sig)
	}
}

func (db *Database) entryFor(instance hir.TypeInstance) (*typeEntry, []hir.TypeInstance, error) {
	switch v := instance.(type) {
	case hir.SimpleTypeInstance:
		e, ok := db.byID[v.ID]
		if !ok {
			return nil, nil, errors.Errorf("type id %d not found", v.ID)
		}
		return e, nil, nil
	case hir.GenericTypeInstance:
		e, ok := db.byID[v.ID]
		if !ok {
			return nil, nil, errors.Errorf("type id %d not found", v.ID)
		}
		return e, v.Args, nil
	default:
		return nil, nil, errors.Errorf("type %T has no fields or methods", instance)
	}
}

// ResolveMethod looks up method on instance and substitutes instance's
// concrete generic arguments into the declared signature.
func (db *Database) ResolveMethod(instance hir.TypeInstance, method string) (*ResolvedSignature, error) {
	entry, args, err := db.entryFor(instance)
	if err != nil {
		return nil, err
	}
	sig, ok := entry.methods[method]
	if !ok {
		return nil, errors.Errorf("method %s not found on %s", method, entry.name)
	}
	params := make([]hir.TypeInstance, len(sig.Params))
	for i, p := range sig.Params {
		inst, err := db.substitute(p, entry, args)
		if err != nil {
			return nil, err
		}
		params[i] = inst
	}
	ret, err := db.substitute(sig.Return, entry, args)
	if err != nil {
		return nil, err
	}
	return &ResolvedSignature{Params: params, Return: ret}, nil
}

// ResolveField looks up field on instance and substitutes generics.
func (db *Database) ResolveField(instance hir.TypeInstance, field string) (hir.TypeInstance, error) {
	entry, args, err := db.entryFor(instance)
	if err != nil {
		return nil, err
	}
	sig, ok := entry.fields[field]
	if !ok {
		return nil, errors.Errorf("field %s not found on %s", field, entry.name)
	}
	return db.substitute(sig, entry, args)
}

// BinaryOperator returns left op's result type for the given operand type,
// or false if the operator isn't defined on it.
func (db *Database) BinaryOperator(operand hir.TypeInstance, op common.Operator) (hir.TypeInstance, bool) {
	entry, _, err := db.entryFor(operand)
	if err != nil {
		return nil, false
	}
	inst, ok := entry.binaryOps[op]
	return inst, ok
}

// UnaryOperator returns the result type of applying op to operand, or
// false if undefined.
func (db *Database) UnaryOperator(operand hir.TypeInstance, op common.Operator) (hir.TypeInstance, bool) {
	entry, _, err := db.entryFor(operand)
	if err != nil {
		return nil, false
	}
	inst, ok := entry.unaryOps[op]
	return inst, ok
}

// Name returns the display name for a type ID, used by typeerrors
// rendering.
func (db *Database) Name(id hir.TypeID) string {
	if e, ok := db.byID[id]; ok {
		return e.name
	}
	return fmt.Sprintf("<unknown type %d>", id)
}

// Summary renders a one-line diagnostic count of registered types, fields,
// and methods.
func (db *Database) Summary() string {
	fields, methods := 0, 0
	for _, e := range db.byID {
		fields += len(e.fields)
		methods += len(e.methods)
	}
	return fmt.Sprintf("%s types, %s fields, %s methods",
		humanize.Comma(int64(len(db.byID))), humanize.Comma(int64(fields)), humanize.Comma(int64(methods)))
}
