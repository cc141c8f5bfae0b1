package types

import (
	"testing"

	"github.com/bytedance/sonic"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestValueMarshalJSON(t *testing.T) {
	tests := []struct {
		name  string
		value Value
		want  string
	}{
		{"null", NullValue(), "null"},
		{"bool", BoolValue(true), "true"},
		{"int", IntValue(42), "42"},
		{"float", FloatValue(1.5), "1.5"},
		{"string", StringValue("hello"), `"hello"`},
		{"empty list", StringListValue(nil), "[]"},
		{"list", StringListValue([]string{"a", "b"}), `["a","b"]`},
		{"structured", StructuredValue([]byte(`{"x":1}`)), `{"x":1}`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			data, err := sonic.Marshal(tt.value)
			require.NoError(t, err)
			assert.JSONEq(t, tt.want, string(data))
		})
	}
}

func TestValueRoundTrip(t *testing.T) {
	values := []Value{
		NullValue(),
		BoolValue(false),
		IntValue(-7),
		FloatValue(2.25),
		StringValue("x"),
		StringListValue([]string{"build", "fly"}),
	}

	for _, v := range values {
		data, err := sonic.Marshal(v)
		require.NoError(t, err)

		var decoded Value
		require.NoError(t, sonic.Unmarshal(data, &decoded))
		assert.Equal(t, v.Kind, decoded.Kind)
		assert.Equal(t, v.Interface(), decoded.Interface())
	}
}

func TestValueOf(t *testing.T) {
	tests := []struct {
		name    string
		in      interface{}
		want    Kind
	}{
		{"nil", nil, KindNull},
		{"bool", true, KindBool},
		{"whole float collapses to int", float64(3), KindInt},
		{"fractional float", 3.5, KindFloat},
		{"int", 9, KindInt},
		{"string", "s", KindString},
		{"string slice", []string{"a"}, KindStringList},
		{"generic string list", []interface{}{"a", "b"}, KindStringList},
		{"mixed list is structured", []interface{}{"a", 1.0}, KindStructured},
		{"map is structured", map[string]interface{}{"k": "v"}, KindStructured},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			v, err := ValueOf(tt.in)
			require.NoError(t, err)
			assert.Equal(t, tt.want, v.Kind)
		})
	}
}

func TestFieldDefinitionJSON(t *testing.T) {
	def := NewField("coins", IntValue(0))

	data, err := sonic.Marshal(def)
	require.NoError(t, err)
	assert.JSONEq(t, `{"name":"coins","defaultValue":0}`, string(data))

	var decoded FieldDefinition
	require.NoError(t, sonic.Unmarshal([]byte(`{"name":"uuid","defaultValue":null}`), &decoded))
	assert.Equal(t, "uuid", decoded.Name)
	assert.True(t, decoded.Default.IsNull())
}
