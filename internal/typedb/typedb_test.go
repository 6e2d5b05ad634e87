package typedb

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"vesper/internal/common"
	"vesper/internal/hir"
)

func TestBuiltinsRegistered(t *testing.T) {
	db := New()
	for _, name := range []string{"i32", "u32", "f32", "bool", "str", "None", "Void", "array"} {
		_, ok := db.Lookup(name)
		assert.Truef(t, ok, "expected %s to be registered", name)
	}
}

func TestNumericBinaryOperators(t *testing.T) {
	db := New()
	i32 := db.simpleInstance(TypeI32)

	result, ok := db.BinaryOperator(i32, common.OpPlus)
	require.True(t, ok)
	assert.Equal(t, i32, result)

	result, ok = db.BinaryOperator(i32, common.OpLess)
	require.True(t, ok)
	assert.Equal(t, db.simpleInstance(TypeBool), result)

	_, ok = db.BinaryOperator(i32, common.OpAnd)
	assert.False(t, ok, "i32 should not support &&")
}

func TestArrayIndexMethodGenericSubstitution(t *testing.T) {
	db := New()
	strInstance := db.simpleInstance(TypeStr)
	arrayOfStr := hir.GenericTypeInstance{ID: TypeArray, Name: "array", Args: []hir.TypeInstance{strInstance}}

	sig, err := db.ResolveMethod(arrayOfStr, "__index__")
	require.NoError(t, err)
	require.Len(t, sig.Params, 1)
	assert.Equal(t, db.simpleInstance(TypeU32), sig.Params[0])
	assert.Equal(t, strInstance, sig.Return)
}

func TestArrayLengthField(t *testing.T) {
	db := New()
	arrayOfI32 := hir.GenericTypeInstance{ID: TypeArray, Name: "array", Args: []hir.TypeInstance{db.simpleInstance(TypeI32)}}

	field, err := db.ResolveField(arrayOfI32, "length")
	require.NoError(t, err)
	assert.Equal(t, db.simpleInstance(TypeU32), field)
}

func TestStructFields(t *testing.T) {
	db := New()
	id := db.RegisterStruct("Point", map[string]SigType{
		"x": SigSimple{ID: TypeI32, Name: "i32"},
		"y": SigSimple{ID: TypeI32, Name: "i32"},
	})

	point := hir.SimpleTypeInstance{ID: id, Name: "Point"}
	field, err := db.ResolveField(point, "x")
	require.NoError(t, err)
	assert.Equal(t, db.simpleInstance(TypeI32), field)

	_, err = db.ResolveField(point, "z")
	assert.Error(t, err)
}
