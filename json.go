package jsonsize

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"math"

	json "github.com/goccy/go-json"
)

// ErrSyntax is returned for input that is not a single well-formed JSON
// document.
var ErrSyntax = errors.New("invalid json document")

// Parse parses a single JSON document into a Value.
func Parse(data []byte) (Value, error) {
	if len(bytes.TrimSpace(data)) == 0 {
		return Value{}, io.ErrUnexpectedEOF
	}
	if !json.Valid(data) {
		return Value{}, fmt.Errorf("decoding json: %w", ErrSyntax)
	}
	return walk(json.NewDecoder(bytes.NewReader(data)))
}

// frame is an array or object that is still being filled while decoding.
type frame struct {
	arr    []Value
	obj    *Map
	key    string
	hasKey bool
}

func (f *frame) push(v Value) {
	if f.obj != nil {
		f.obj.Insert(f.key, v)
		f.hasKey = false
		return
	}
	f.arr = append(f.arr, v)
}

func (f *frame) value() Value {
	if f.obj != nil {
		return Object(f.obj)
	}
	return Array(f.arr...)
}

// Decode reads all of r and parses it as exactly one JSON document.
func Decode(r io.Reader) (Value, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return Value{}, fmt.Errorf("reading json: %w", err)
	}
	return Parse(data)
}

// walk builds a Value from the token stream of dec. Nesting is handled with
// an explicit stack rather than recursion. The token reader does not check
// grammar, so callers validate the document first and walk only re-checks
// delimiter balance.
func walk(dec *json.Decoder) (Value, error) {
	dec.UseNumber()

	var (
		stack []*frame
		root  Value
		done  bool
	)

	emit := func(v Value) {
		if len(stack) == 0 {
			root = v
			done = true
			return
		}
		stack[len(stack)-1].push(v)
	}

	for !done {
		tok, err := dec.Token()
		if err == io.EOF {
			return Value{}, io.ErrUnexpectedEOF
		}
		if err != nil {
			return Value{}, fmt.Errorf("decoding json: %w", err)
		}

		if len(stack) > 0 {
			top := stack[len(stack)-1]
			if top.obj != nil && !top.hasKey && tok != json.Delim('}') {
				key, ok := tok.(string)
				if !ok {
					return Value{}, fmt.Errorf("decoding json: object key is %T, not string", tok)
				}
				top.key = key
				top.hasKey = true
				continue
			}
		}

		switch t := tok.(type) {
		case json.Delim:
			switch t {
			case '[':
				stack = append(stack, &frame{arr: []Value{}})
			case '{':
				stack = append(stack, &frame{obj: NewMap()})
			case ']', '}':
				if len(stack) == 0 {
					return Value{}, fmt.Errorf("decoding json: %w: unexpected %q", ErrSyntax, rune(t))
				}
				top := stack[len(stack)-1]
				if (t == '}') != (top.obj != nil) || top.hasKey {
					return Value{}, fmt.Errorf("decoding json: %w: mismatched %q", ErrSyntax, rune(t))
				}
				stack = stack[:len(stack)-1]
				emit(top.value())
			}
		case nil:
			emit(Null())
		case bool:
			emit(Bool(t))
		case json.Number:
			n, err := ParseNumber(string(t))
			if err != nil {
				return Value{}, fmt.Errorf("decoding json: number %q: %w", t, err)
			}
			emit(NumberValue(n))
		case float64:
			emit(Float(t))
		case string:
			emit(String(t))
		default:
			return Value{}, fmt.Errorf("decoding json: unexpected token %T", tok)
		}
	}

	if _, err := dec.Token(); err != io.EOF {
		return Value{}, fmt.Errorf("decoding json: %w: trailing data after top-level value", ErrSyntax)
	}
	return root, nil
}

// FromAny converts a tree of Go values, as produced by json.Unmarshal into
// an interface{}, into a Value.
func FromAny(x interface{}) (Value, error) {
	switch val := x.(type) {
	case nil:
		return Null(), nil
	case Value:
		return val, nil
	case bool:
		return Bool(val), nil
	case int:
		return Int(int64(val)), nil
	case int8:
		return Int(int64(val)), nil
	case int16:
		return Int(int64(val)), nil
	case int32:
		return Int(int64(val)), nil
	case int64:
		return Int(val), nil
	case uint:
		return Uint(uint64(val)), nil
	case uint8:
		return Uint(uint64(val)), nil
	case uint16:
		return Uint(uint64(val)), nil
	case uint32:
		return Uint(uint64(val)), nil
	case uint64:
		return Uint(val), nil
	case float32:
		return floatValue(float64(val))
	case float64:
		return floatValue(val)
	case json.Number:
		n, err := ParseNumber(string(val))
		if err != nil {
			return Value{}, fmt.Errorf("number %q: %w", val, err)
		}
		return NumberValue(n), nil
	case string:
		return String(val), nil
	case []string:
		elems := make([]Value, len(val))
		for i, s := range val {
			elems[i] = String(s)
		}
		return Array(elems...), nil
	case []interface{}:
		elems := make([]Value, len(val))
		for i, item := range val {
			v, err := FromAny(item)
			if err != nil {
				return Value{}, fmt.Errorf("index %d: %w", i, err)
			}
			elems[i] = v
		}
		return Array(elems...), nil
	case map[string]interface{}:
		m := NewMap()
		for k, item := range val {
			v, err := FromAny(item)
			if err != nil {
				return Value{}, fmt.Errorf("key %q: %w", k, err)
			}
			m.Insert(k, v)
		}
		return Object(m), nil
	default:
		return Value{}, fmt.Errorf("unsupported type %T", x)
	}
}

func floatValue(f float64) (Value, error) {
	if math.IsNaN(f) || math.IsInf(f, 0) {
		return Value{}, fmt.Errorf("unsupported float value %v", f)
	}
	return Float(f), nil
}

// MarshalJSON encodes v with object keys in insertion order.
func (v Value) MarshalJSON() ([]byte, error) {
	var buf bytes.Buffer
	if err := v.encode(&buf); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

func (v Value) encode(buf *bytes.Buffer) error {
	switch v.kind {
	case KindNull:
		buf.WriteString("null")
	case KindBool:
		if v.num.bits != 0 {
			buf.WriteString("true")
		} else {
			buf.WriteString("false")
		}
	case KindNumber:
		if f := v.num.Float64(); v.num.IsFloat() && (math.IsNaN(f) || math.IsInf(f, 0)) {
			return fmt.Errorf("unsupported float value %v", f)
		}
		buf.WriteString(v.num.String())
	case KindString:
		return writeString(buf, v.str.s)
	case KindArray:
		buf.WriteByte('[')
		for i, elem := range v.arr {
			if i > 0 {
				buf.WriteByte(',')
			}
			if err := elem.encode(buf); err != nil {
				return err
			}
		}
		buf.WriteByte(']')
	case KindObject:
		buf.WriteByte('{')
		for i := 0; i < v.obj.Len(); i++ {
			if i > 0 {
				buf.WriteByte(',')
			}
			if err := writeString(buf, v.obj.keys[i].s); err != nil {
				return err
			}
			buf.WriteByte(':')
			if err := v.obj.vals[i].encode(buf); err != nil {
				return err
			}
		}
		buf.WriteByte('}')
	default:
		return fmt.Errorf("unknown value kind %v", v.kind)
	}
	return nil
}

func writeString(buf *bytes.Buffer, s string) error {
	b, err := json.Marshal(s)
	if err != nil {
		return err
	}
	buf.Write(b)
	return nil
}

// UnmarshalJSON replaces v with the decoded document.
func (v *Value) UnmarshalJSON(data []byte) error {
	parsed, err := Parse(data)
	if err != nil {
		return err
	}
	*v = parsed
	return nil
}
