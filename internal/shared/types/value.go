package types

import (
	"fmt"
	"math"

	"github.com/bytedance/sonic"
)

// Kind tags the declared type of a field default.
type Kind uint8

const (
	KindNull Kind = iota
	KindBool
	KindInt
	KindFloat
	KindString
	KindStringList
	KindStructured
)

// String returns the kind name for logs and error messages.
func (k Kind) String() string {
	switch k {
	case KindNull:
		return "null"
	case KindBool:
		return "bool"
	case KindInt:
		return "int"
	case KindFloat:
		return "float"
	case KindString:
		return "string"
	case KindStringList:
		return "string_list"
	case KindStructured:
		return "structured"
	default:
		return "unknown"
	}
}

// Value is a tagged field default. The zero value is null. Only the member
// matching Kind is meaningful; Structured holds raw interchange JSON.
type Value struct {
	Kind       Kind
	Bool       bool
	Int        int64
	Float      float64
	Str        string
	List       []string
	Structured []byte
}

// NullValue returns the null default.
func NullValue() Value { return Value{} }

// BoolValue returns a boolean default.
func BoolValue(b bool) Value { return Value{Kind: KindBool, Bool: b} }

// IntValue returns an integer default.
func IntValue(i int64) Value { return Value{Kind: KindInt, Int: i} }

// FloatValue returns a floating-point default.
func FloatValue(f float64) Value { return Value{Kind: KindFloat, Float: f} }

// StringValue returns a string default.
func StringValue(s string) Value { return Value{Kind: KindString, Str: s} }

// StringListValue returns a list-of-strings default.
func StringListValue(list []string) Value {
	if list == nil {
		list = []string{}
	}
	return Value{Kind: KindStringList, List: list}
}

// StructuredValue returns a default carrying arbitrary interchange JSON.
func StructuredValue(raw []byte) Value {
	return Value{Kind: KindStructured, Structured: raw}
}

// IsNull reports whether the value is the null default.
func (v Value) IsNull() bool { return v.Kind == KindNull }

// Interface returns the decoded generic representation of the value.
func (v Value) Interface() interface{} {
	switch v.Kind {
	case KindBool:
		return v.Bool
	case KindInt:
		return v.Int
	case KindFloat:
		return v.Float
	case KindString:
		return v.Str
	case KindStringList:
		return v.List
	case KindStructured:
		var out interface{}
		if err := sonic.Unmarshal(v.Structured, &out); err != nil {
			return nil
		}
		return out
	default:
		return nil
	}
}

// MarshalJSON encodes the value in its interchange form. Nulls are preserved.
func (v Value) MarshalJSON() ([]byte, error) {
	switch v.Kind {
	case KindNull:
		return []byte("null"), nil
	case KindBool:
		return sonic.Marshal(v.Bool)
	case KindInt:
		return sonic.Marshal(v.Int)
	case KindFloat:
		return sonic.Marshal(v.Float)
	case KindString:
		return sonic.Marshal(v.Str)
	case KindStringList:
		return sonic.Marshal(v.List)
	case KindStructured:
		if len(v.Structured) == 0 {
			return []byte("null"), nil
		}
		out := make([]byte, len(v.Structured))
		copy(out, v.Structured)
		return out, nil
	default:
		return nil, fmt.Errorf("unknown value kind %d", v.Kind)
	}
}

// UnmarshalJSON decodes an interchange value into its tagged form.
func (v *Value) UnmarshalJSON(data []byte) error {
	var generic interface{}
	if err := sonic.Unmarshal(data, &generic); err != nil {
		return err
	}
	parsed, err := ValueOf(generic)
	if err != nil {
		return err
	}
	*v = parsed
	return nil
}

// ValueOf builds a tagged Value from a decoded generic representation. Whole
// numbers collapse to KindInt; lists of strings to KindStringList; anything
// else structured is kept as raw interchange JSON.
func ValueOf(generic interface{}) (Value, error) {
	switch val := generic.(type) {
	case nil:
		return NullValue(), nil
	case bool:
		return BoolValue(val), nil
	case int:
		return IntValue(int64(val)), nil
	case int64:
		return IntValue(val), nil
	case uint64:
		return IntValue(int64(val)), nil
	case float64:
		if val == math.Trunc(val) && !math.IsInf(val, 0) {
			return IntValue(int64(val)), nil
		}
		return FloatValue(val), nil
	case string:
		return StringValue(val), nil
	case []string:
		return StringListValue(val), nil
	case []interface{}:
		list := make([]string, 0, len(val))
		for _, item := range val {
			s, ok := item.(string)
			if !ok {
				raw, err := sonic.Marshal(val)
				if err != nil {
					return Value{}, err
				}
				return StructuredValue(raw), nil
			}
			list = append(list, s)
		}
		return StringListValue(list), nil
	default:
		raw, err := sonic.Marshal(val)
		if err != nil {
			return Value{}, fmt.Errorf("unsupported default value %T: %w", generic, err)
		}
		return StructuredValue(raw), nil
	}
}
