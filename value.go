package jsonsize

import (
	"math"
	"strconv"
	"strings"
)

// Kind identifies which variant a Value holds.
type Kind uint8

const (
	KindNull Kind = iota
	KindBool
	KindNumber
	KindString
	KindArray
	KindObject
)

var kindNames = [...]string{
	KindNull:   "null",
	KindBool:   "bool",
	KindNumber: "number",
	KindString: "string",
	KindArray:  "array",
	KindObject: "object",
}

func (k Kind) String() string {
	if int(k) < len(kindNames) {
		return kindNames[k]
	}
	return "kind(" + strconv.Itoa(int(k)) + ")"
}

// Value is a parsed JSON value. The zero Value is null.
//
// Values share their array and object storage when copied, the tree is
// meant to be built once and then read.
type Value struct {
	kind Kind
	num  Number
	str  Str
	arr  []Value
	obj  *Map
}

// Null returns the JSON null value. It is also the zero Value.
func Null() Value { return Value{} }

// Bool returns a boolean value.
func Bool(b bool) Value {
	v := Value{kind: KindBool}
	if b {
		v.num.bits = 1
	}
	return v
}

// Int returns a number value backed by a signed integer.
func Int(i int64) Value { return NumberValue(IntNumber(i)) }

// Uint returns a number value backed by an unsigned integer.
func Uint(u uint64) Value { return NumberValue(UintNumber(u)) }

// Float returns a number value backed by a float64.
func Float(f float64) Value { return NumberValue(FloatNumber(f)) }

// NumberValue wraps n in a Value.
func NumberValue(n Number) Value { return Value{kind: KindNumber, num: n} }

// String returns a string value whose capacity equals its length.
func String(s string) Value { return StrValue(NewStr(s)) }

// StringWithCap returns a string value that reports the given allocated
// capacity. Capacities smaller than len(s) are raised to len(s).
func StringWithCap(s string, capacity int) Value { return StrValue(NewStrWithCap(s, capacity)) }

// StrValue wraps s in a Value, keeping its capacity.
func StrValue(s Str) Value { return Value{kind: KindString, str: s} }

// Array returns an array value holding elems. The slice is not copied.
func Array(elems ...Value) Value {
	if elems == nil {
		elems = []Value{}
	}
	return Value{kind: KindArray, arr: elems}
}

// Object returns an object value backed by m. A nil map yields an empty
// object.
func Object(m *Map) Value {
	if m == nil {
		m = NewMap()
	}
	return Value{kind: KindObject, obj: m}
}

// Kind reports which variant v holds.
func (v Value) Kind() Kind { return v.kind }

// IsNull reports whether v is null.
func (v Value) IsNull() bool { return v.kind == KindNull }

// AsBool returns the boolean held by v and whether v is a boolean.
func (v Value) AsBool() (bool, bool) {
	if v.kind != KindBool {
		return false, false
	}
	return v.num.bits != 0, true
}

// AsNumber returns the number held by v and whether v is a number.
func (v Value) AsNumber() (Number, bool) {
	return v.num, v.kind == KindNumber
}

// AsStr returns the string held by v and whether v is a string.
func (v Value) AsStr() (Str, bool) {
	return v.str, v.kind == KindString
}

// AsArray returns the elements of v and whether v is an array. The slice
// is shared with v.
func (v Value) AsArray() ([]Value, bool) {
	return v.arr, v.kind == KindArray
}

// AsMap returns the map backing v and whether v is an object.
func (v Value) AsMap() (*Map, bool) {
	return v.obj, v.kind == KindObject
}

type numberKind uint8

const (
	numberInt numberKind = iota
	numberUint
	numberFloat
)

// Number is a JSON number backed by an int64, a uint64 or a float64.
type Number struct {
	kind numberKind
	bits uint64
}

// IntNumber returns a Number backed by an int64.
func IntNumber(i int64) Number { return Number{kind: numberInt, bits: uint64(i)} }

// UintNumber returns a Number backed by a uint64.
func UintNumber(u uint64) Number { return Number{kind: numberUint, bits: u} }

// FloatNumber returns a Number backed by a float64.
func FloatNumber(f float64) Number { return Number{kind: numberFloat, bits: math.Float64bits(f)} }

// ParseNumber parses the textual form of a JSON number, trying a signed
// integer first, then an unsigned one, then a float. Negative zero is kept
// as a float so its sign survives.
func ParseNumber(s string) (Number, error) {
	if i, err := strconv.ParseInt(s, 10, 64); err == nil && (i != 0 || !strings.HasPrefix(s, "-")) {
		return IntNumber(i), nil
	}
	if u, err := strconv.ParseUint(s, 10, 64); err == nil {
		return UintNumber(u), nil
	}
	f, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return Number{}, err
	}
	return FloatNumber(f), nil
}

// Int64 returns the number as an int64 if it is integral and in range.
func (n Number) Int64() (int64, bool) {
	switch n.kind {
	case numberInt:
		return int64(n.bits), true
	case numberUint:
		return int64(n.bits), n.bits <= math.MaxInt64
	}
	return 0, false
}

// Uint64 returns the number as a uint64 if it is integral and non-negative.
func (n Number) Uint64() (uint64, bool) {
	switch n.kind {
	case numberInt:
		return n.bits, int64(n.bits) >= 0
	case numberUint:
		return n.bits, true
	}
	return 0, false
}

func (n Number) Float64() float64 {
	switch n.kind {
	case numberInt:
		return float64(int64(n.bits))
	case numberUint:
		return float64(n.bits)
	}
	return math.Float64frombits(n.bits)
}

func (n Number) IsFloat() bool { return n.kind == numberFloat }

func (n Number) String() string {
	switch n.kind {
	case numberInt:
		return strconv.FormatInt(int64(n.bits), 10)
	case numberUint:
		return strconv.FormatUint(n.bits, 10)
	}
	return strconv.FormatFloat(math.Float64frombits(n.bits), 'g', -1, 64)
}

// Str is a string together with the capacity of the buffer holding it.
type Str struct {
	s   string
	cap int
}

// NewStr returns a Str whose capacity equals its length.
func NewStr(s string) Str { return Str{s: s, cap: len(s)} }

// NewStrWithCap returns a Str reporting the given capacity, raised to
// len(s) when smaller.
func NewStrWithCap(s string, capacity int) Str {
	if capacity < len(s) {
		capacity = len(s)
	}
	return Str{s: s, cap: capacity}
}

func (s Str) String() string { return s.s }

func (s Str) Len() int { return len(s.s) }

func (s Str) Cap() int {
	if s.cap < len(s.s) {
		return len(s.s)
	}
	return s.cap
}

// Grow returns a copy of s with capacity raised by n bytes.
func (s Str) Grow(n int) Str {
	if n <= 0 {
		return s
	}
	return Str{s: s.s, cap: s.Cap() + n}
}

// Map is an insertion-ordered JSON object with unique keys.
type Map struct {
	keys  []Str
	vals  []Value
	index map[string]int
}

// NewMap returns an empty Map.
func NewMap() *Map {
	return &Map{index: map[string]int{}}
}

func (m *Map) Len() int {
	if m == nil {
		return 0
	}
	return len(m.keys)
}

// Insert sets key to v. An existing key keeps its position and its old
// value is returned.
func (m *Map) Insert(key string, v Value) (Value, bool) {
	return m.InsertStr(NewStr(key), v)
}

func (m *Map) InsertStr(key Str, v Value) (Value, bool) {
	if m.index == nil {
		m.index = map[string]int{}
	}
	if i, ok := m.index[key.s]; ok {
		old := m.vals[i]
		m.keys[i] = key
		m.vals[i] = v
		return old, true
	}
	m.index[key.s] = len(m.keys)
	m.keys = append(m.keys, key)
	m.vals = append(m.vals, v)
	return Value{}, false
}

func (m *Map) Get(key string) (Value, bool) {
	if m == nil {
		return Value{}, false
	}
	i, ok := m.index[key]
	if !ok {
		return Value{}, false
	}
	return m.vals[i], true
}

// Remove deletes key, preserving the order of the remaining entries.
func (m *Map) Remove(key string) (Value, bool) {
	if m == nil {
		return Value{}, false
	}
	i, ok := m.index[key]
	if !ok {
		return Value{}, false
	}
	old := m.vals[i]
	m.keys = append(m.keys[:i], m.keys[i+1:]...)
	m.vals = append(m.vals[:i], m.vals[i+1:]...)
	delete(m.index, key)
	for j := i; j < len(m.keys); j++ {
		m.index[m.keys[j].s] = j
	}
	return old, true
}

func (m *Map) Keys() []string {
	if m == nil {
		return nil
	}
	keys := make([]string, len(m.keys))
	for i, k := range m.keys {
		keys[i] = k.s
	}
	return keys
}

// Range calls fn for each entry in insertion order until fn returns false.
func (m *Map) Range(fn func(key Str, v Value) bool) {
	if m == nil {
		return
	}
	for i := range m.keys {
		if !fn(m.keys[i], m.vals[i]) {
			return
		}
	}
}
