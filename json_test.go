package jsonsize

import (
	"io"
	"strings"
	"testing"

	json "github.com/goccy/go-json"
	"github.com/stretchr/testify/require"
)

func TestParseKinds(t *testing.T) {
	testCases := []struct {
		input string
		kind  Kind
	}{
		{`null`, KindNull},
		{`true`, KindBool},
		{`12`, KindNumber},
		{`-0.5`, KindNumber},
		{`"s"`, KindString},
		{`[]`, KindArray},
		{`{}`, KindObject},
		{` [1, {"a": [null]}] `, KindArray},
	}

	for _, tc := range testCases {
		t.Run(tc.input, func(t *testing.T) {
			v, err := Parse([]byte(tc.input))
			require.NoError(t, err)
			require.Equal(t, tc.kind, v.Kind())
		})
	}
}

func TestParseObjectOrderAndValues(t *testing.T) {
	v, err := Parse([]byte(`{"z": 1, "a": "two", "m": [true, false], "n": {"x": null}}`))
	require.NoError(t, err)

	m, ok := v.AsMap()
	require.True(t, ok)
	require.Equal(t, []string{"z", "a", "m", "n"}, m.Keys())

	z, _ := m.Get("z")
	n, ok := z.AsNumber()
	require.True(t, ok)
	i, ok := n.Int64()
	require.True(t, ok)
	require.Equal(t, int64(1), i)

	a, _ := m.Get("a")
	s, ok := a.AsStr()
	require.True(t, ok)
	require.Equal(t, "two", s.String())

	arr, _ := m.Get("m")
	elems, ok := arr.AsArray()
	require.True(t, ok)
	require.Len(t, elems, 2)

	nested, _ := m.Get("n")
	inner, ok := nested.AsMap()
	require.True(t, ok)
	x, ok := inner.Get("x")
	require.True(t, ok)
	require.True(t, x.IsNull())
}

func TestParseDuplicateKeysKeepLast(t *testing.T) {
	v, err := Parse([]byte(`{"a": 1, "a": 2}`))
	require.NoError(t, err)

	m, _ := v.AsMap()
	require.Equal(t, 1, m.Len())
	a, _ := m.Get("a")
	n, _ := a.AsNumber()
	i, _ := n.Int64()
	require.Equal(t, int64(2), i)
}

func TestParseErrors(t *testing.T) {
	for _, input := range []string{
		``,
		`{`,
		`[1,`,
		`{"a" 1}`,
		`nul`,
		`1 2`,
		`{} []`,
		`]`,
		`}`,
		`[}`,
		`{]`,
		`[1 2]`,
		`[1,,2]`,
		`[1:2]`,
		`[1,]`,
		`{"a":1,}`,
		`{"a"}`,
		`{"a":1 "b":2}`,
		`{1:2}`,
		`tru`,
		`fals`,
		`"open`,
	} {
		t.Run(input, func(t *testing.T) {
			_, err := Parse([]byte(input))
			require.Error(t, err)
		})
	}

	_, err := Parse(nil)
	require.ErrorIs(t, err, io.ErrUnexpectedEOF)

	_, err = Parse([]byte(" \n\t"))
	require.ErrorIs(t, err, io.ErrUnexpectedEOF)

	_, err = Parse([]byte(`[1,,2]`))
	require.ErrorIs(t, err, ErrSyntax)

	_, err = Decode(strings.NewReader(`]`))
	require.ErrorIs(t, err, ErrSyntax)
}

func TestWalkRejectsUnbalancedDelimiters(t *testing.T) {
	for _, input := range []string{`]`, `}`, `[}`, `{]`, `{"a"}`, `[[]`} {
		t.Run(input, func(t *testing.T) {
			require.NotPanics(t, func() {
				_, err := walk(json.NewDecoder(strings.NewReader(input)))
				require.Error(t, err)
			})
		})
	}
}

func TestParseDeepNesting(t *testing.T) {
	const depth = 1000
	doc := strings.Repeat("[", depth) + strings.Repeat("]", depth)

	v, err := Parse([]byte(doc))
	require.NoError(t, err)
	require.Equal(t, depth*Envelope, SizeOf(v))
}

func TestDecodeReader(t *testing.T) {
	v, err := Decode(strings.NewReader(`{"k": "v"}`))
	require.NoError(t, err)
	require.Equal(t, KindObject, v.Kind())
}

func TestMarshalRoundTrip(t *testing.T) {
	doc := `{"name":"json_size","details":{"year":2022,"version":"v4"},"list":[1,2.5,-3,true,null,"q\"uote"]}`

	v, err := Parse([]byte(doc))
	require.NoError(t, err)

	out, err := json.Marshal(v)
	require.NoError(t, err)
	require.Equal(t, doc, string(out))

	var back Value
	require.NoError(t, json.Unmarshal(out, &back))
	require.Equal(t, SizeOf(v), SizeOf(back))
}

func TestParseKeepsNegativeZero(t *testing.T) {
	v, err := Parse([]byte(`[-0,0]`))
	require.NoError(t, err)

	out, err := v.MarshalJSON()
	require.NoError(t, err)
	require.Equal(t, `[-0,0]`, string(out))
}

func TestMarshalRejectsNonFinite(t *testing.T) {
	_, err := Float(posInf()).MarshalJSON()
	require.Error(t, err)
}

func TestFromAny(t *testing.T) {
	var decoded interface{}
	require.NoError(t, json.Unmarshal([]byte(`{"key":"value","list":[1,2,3],"flag":false}`), &decoded))

	v, err := FromAny(decoded)
	require.NoError(t, err)

	m, ok := v.AsMap()
	require.True(t, ok)
	require.Equal(t, 3, m.Len())

	list, _ := m.Get("list")
	elems, _ := list.AsArray()
	require.Len(t, elems, 3)
	for _, e := range elems {
		require.Equal(t, Envelope, SizeOf(e))
	}
}

func TestFromAnyScalars(t *testing.T) {
	testCases := []struct {
		name  string
		input interface{}
		kind  Kind
	}{
		{"nil", nil, KindNull},
		{"bool", true, KindBool},
		{"int", 1, KindNumber},
		{"int8", int8(1), KindNumber},
		{"uint64", uint64(1), KindNumber},
		{"float32", float32(1.5), KindNumber},
		{"number", json.Number("12"), KindNumber},
		{"string", "s", KindString},
		{"strings", []string{"a", "b"}, KindArray},
		{"value", Int(3), KindNumber},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			v, err := FromAny(tc.input)
			require.NoError(t, err)
			require.Equal(t, tc.kind, v.Kind())
		})
	}
}

func TestFromAnyErrors(t *testing.T) {
	_, err := FromAny(struct{}{})
	require.ErrorContains(t, err, "unsupported type")

	_, err = FromAny(map[string]interface{}{"a": []interface{}{make(chan int)}})
	require.ErrorContains(t, err, `key "a": index 0: unsupported type chan int`)

	_, err = FromAny(posInf())
	require.Error(t, err)
}

func posInf() float64 {
	var zero float64
	return 1 / zero
}
