package codec

import (
	"bytes"
	"encoding/json"
	"fmt"

	"github.com/bytedance/sonic"
)

// DecodeError reports a raw field value that cannot be coerced to the
// requested target type.
type DecodeError struct {
	Field  string
	Target string
	Err    error
}

func (e *DecodeError) Error() string {
	return fmt.Sprintf("decode field %q as %s: %v", e.Field, e.Target, e.Err)
}

func (e *DecodeError) Unwrap() error { return e.Err }

// Encode serializes a value into its interchange form.
func Encode(v interface{}) (json.RawMessage, error) {
	data, err := sonic.Marshal(v)
	if err != nil {
		return nil, fmt.Errorf("encode value: %w", err)
	}
	return data, nil
}

// Decode parses a raw field value into out. A nil or null raw value leaves
// out untouched, matching the behavior of decoding JSON null.
func Decode(field string, raw json.RawMessage, out interface{}) error {
	if IsNull(raw) {
		return nil
	}
	if err := sonic.Unmarshal(raw, out); err != nil {
		return &DecodeError{Field: field, Target: fmt.Sprintf("%T", out), Err: err}
	}
	return nil
}

// DecodeNumber parses a raw field value into the generic numeric
// representation. Typed numeric accessors narrow or widen from this.
func DecodeNumber(field string, raw json.RawMessage) (float64, error) {
	if IsNull(raw) {
		return 0, &DecodeError{Field: field, Target: "number", Err: fmt.Errorf("value is null")}
	}
	var n float64
	if err := sonic.Unmarshal(raw, &n); err != nil {
		return 0, &DecodeError{Field: field, Target: "number", Err: err}
	}
	return n, nil
}

// EncodeDocument serializes a field map into the flat object form used for
// per-identity file storage.
func EncodeDocument(fields map[string]json.RawMessage) ([]byte, error) {
	data, err := sonic.Marshal(fields)
	if err != nil {
		return nil, fmt.Errorf("encode document: %w", err)
	}
	return data, nil
}

// DecodeDocument parses the flat object form back into a field map.
func DecodeDocument(data []byte) (map[string]json.RawMessage, error) {
	var fields map[string]json.RawMessage
	if err := sonic.Unmarshal(data, &fields); err != nil {
		return nil, fmt.Errorf("decode document: %w", err)
	}
	if fields == nil {
		fields = make(map[string]json.RawMessage)
	}
	return fields, nil
}

// IsNull reports whether a raw value is absent or the JSON null literal.
func IsNull(raw json.RawMessage) bool {
	return len(raw) == 0 || bytes.Equal(bytes.TrimSpace(raw), []byte("null"))
}
