package jsonsize

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestZeroValueIsNull(t *testing.T) {
	var v Value
	require.True(t, v.IsNull())
	require.Equal(t, KindNull, v.Kind())
	require.Equal(t, "null", v.Kind().String())
}

func TestKindString(t *testing.T) {
	assert.Equal(t, "bool", KindBool.String())
	assert.Equal(t, "object", KindObject.String())
	assert.Equal(t, "kind(42)", Kind(42).String())
}

func TestAccessors(t *testing.T) {
	b, ok := Bool(true).AsBool()
	assert.True(t, ok)
	assert.True(t, b)

	_, ok = Int(1).AsBool()
	assert.False(t, ok)

	n, ok := Int(-5).AsNumber()
	require.True(t, ok)
	i, ok := n.Int64()
	assert.True(t, ok)
	assert.Equal(t, int64(-5), i)

	s, ok := String("hi").AsStr()
	require.True(t, ok)
	assert.Equal(t, "hi", s.String())

	arr, ok := Array(Null(), Null()).AsArray()
	require.True(t, ok)
	assert.Len(t, arr, 2)

	_, ok = String("x").AsArray()
	assert.False(t, ok)

	m, ok := Object(nil).AsMap()
	require.True(t, ok)
	assert.Equal(t, 0, m.Len())
}

func TestNumber(t *testing.T) {
	n, err := ParseNumber("42")
	require.NoError(t, err)
	assert.False(t, n.IsFloat())
	assert.Equal(t, "42", n.String())

	n, err = ParseNumber("18446744073709551615")
	require.NoError(t, err)
	u, ok := n.Uint64()
	assert.True(t, ok)
	assert.Equal(t, uint64(math.MaxUint64), u)
	_, ok = n.Int64()
	assert.False(t, ok)

	n, err = ParseNumber("-1.5e3")
	require.NoError(t, err)
	assert.True(t, n.IsFloat())
	assert.Equal(t, -1500.0, n.Float64())
	_, ok = n.Int64()
	assert.False(t, ok)

	n = IntNumber(-1)
	_, ok = n.Uint64()
	assert.False(t, ok)

	_, err = ParseNumber("1e999")
	assert.Error(t, err)
}

func TestParseNumberNegativeZero(t *testing.T) {
	n, err := ParseNumber("-0")
	require.NoError(t, err)
	require.True(t, n.IsFloat())
	require.True(t, math.Signbit(n.Float64()))
	require.Equal(t, "-0", n.String())

	n, err = ParseNumber("0")
	require.NoError(t, err)
	require.False(t, n.IsFloat())
	i, ok := n.Int64()
	require.True(t, ok)
	require.Equal(t, int64(0), i)
}

func TestStrCapacity(t *testing.T) {
	s := NewStr("abc")
	assert.Equal(t, 3, s.Len())
	assert.Equal(t, 3, s.Cap())

	s = NewStrWithCap("abc", 10)
	assert.Equal(t, 3, s.Len())
	assert.Equal(t, 10, s.Cap())

	s = NewStrWithCap("abc", 0)
	assert.Equal(t, 3, s.Cap())

	grown := s.Grow(5)
	assert.Equal(t, 8, grown.Cap())
	assert.Equal(t, 3, s.Cap())
	assert.Equal(t, grown, grown.Grow(-1))

	var zero Str
	assert.Equal(t, 0, zero.Cap())
}

func TestMapKeepsInsertionOrder(t *testing.T) {
	m := NewMap()
	m.Insert("b", Int(1))
	m.Insert("a", Int(2))
	m.Insert("c", Int(3))
	require.Equal(t, []string{"b", "a", "c"}, m.Keys())

	old, replaced := m.Insert("a", Int(20))
	require.True(t, replaced)
	n, _ := old.AsNumber()
	i, _ := n.Int64()
	require.Equal(t, int64(2), i)
	require.Equal(t, []string{"b", "a", "c"}, m.Keys())

	v, ok := m.Get("a")
	require.True(t, ok)
	n, _ = v.AsNumber()
	i, _ = n.Int64()
	require.Equal(t, int64(20), i)

	_, ok = m.Get("missing")
	require.False(t, ok)
}

func TestMapRemove(t *testing.T) {
	m := NewMap()
	for _, k := range []string{"a", "b", "c", "d"} {
		m.Insert(k, String(k))
	}

	_, ok := m.Remove("b")
	require.True(t, ok)
	_, ok = m.Remove("b")
	require.False(t, ok)
	require.Equal(t, []string{"a", "c", "d"}, m.Keys())

	v, ok := m.Get("d")
	require.True(t, ok)
	s, _ := v.AsStr()
	require.Equal(t, "d", s.String())
}

func TestMapRange(t *testing.T) {
	m := NewMap()
	m.Insert("x", Null())
	m.Insert("y", Null())
	m.Insert("z", Null())

	var seen []string
	m.Range(func(k Str, _ Value) bool {
		seen = append(seen, k.String())
		return k.String() != "y"
	})
	require.Equal(t, []string{"x", "y"}, seen)
}

func TestNilMap(t *testing.T) {
	var m *Map
	assert.Equal(t, 0, m.Len())
	assert.Nil(t, m.Keys())
	_, ok := m.Get("a")
	assert.False(t, ok)
	_, ok = m.Remove("a")
	assert.False(t, ok)
	m.Range(func(Str, Value) bool {
		t.Fatal("range over nil map")
		return true
	})
}

func TestZeroMapInsert(t *testing.T) {
	var m Map
	m.Insert("a", Null())
	assert.Equal(t, 1, m.Len())
}
