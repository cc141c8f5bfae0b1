package codec

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestEncodeDecodeRoundTrip(t *testing.T) {
	fields := map[string]json.RawMessage{
		"uuid":         json.RawMessage(`"7f1d9aee-15c0-4c23-9d67-1f731f7de6a2"`),
		"username":     json.RawMessage(`"steve"`),
		"playing_time": json.RawMessage(`128`),
		"permissions":  json.RawMessage(`["fly","build"]`),
		"profile":      json.RawMessage(`{"rank":3,"tags":["x"]}`),
		"nothing":      json.RawMessage(`null`),
	}

	data, err := EncodeDocument(fields)
	require.NoError(t, err)

	decoded, err := DecodeDocument(data)
	require.NoError(t, err)
	require.Len(t, decoded, len(fields))
	for name, raw := range fields {
		assert.JSONEq(t, string(raw), string(decoded[name]), "field %s", name)
	}
}

func TestDecodeDocumentMalformed(t *testing.T) {
	_, err := DecodeDocument([]byte(`{"uuid": `))
	assert.Error(t, err)

	_, err = DecodeDocument([]byte(`[1,2,3]`))
	assert.Error(t, err)
}

func TestDecodeDocumentEmpty(t *testing.T) {
	decoded, err := DecodeDocument([]byte(`{}`))
	require.NoError(t, err)
	assert.NotNil(t, decoded)
	assert.Empty(t, decoded)
}

func TestDecodeTypeMismatch(t *testing.T) {
	var s string
	err := Decode("coins", json.RawMessage(`42`), &s)
	require.Error(t, err)

	var decodeErr *DecodeError
	require.ErrorAs(t, err, &decodeErr)
	assert.Equal(t, "coins", decodeErr.Field)
}

func TestDecodeNullLeavesTargetUntouched(t *testing.T) {
	v := "unchanged"
	require.NoError(t, Decode("x", json.RawMessage(`null`), &v))
	assert.Equal(t, "unchanged", v)

	require.NoError(t, Decode("x", nil, &v))
	assert.Equal(t, "unchanged", v)
}

func TestDecodeNumber(t *testing.T) {
	n, err := DecodeNumber("playing_time", json.RawMessage(`12`))
	require.NoError(t, err)
	assert.Equal(t, float64(12), n)

	n, err = DecodeNumber("ratio", json.RawMessage(`2.75`))
	require.NoError(t, err)
	assert.Equal(t, 2.75, n)

	_, err = DecodeNumber("playing_time", json.RawMessage(`"12"`))
	assert.Error(t, err)

	_, err = DecodeNumber("playing_time", json.RawMessage(`null`))
	assert.Error(t, err)
}

func TestIsNull(t *testing.T) {
	assert.True(t, IsNull(nil))
	assert.True(t, IsNull(json.RawMessage(`null`)))
	assert.True(t, IsNull(json.RawMessage(" null ")))
	assert.False(t, IsNull(json.RawMessage(`0`)))
	assert.False(t, IsNull(json.RawMessage(`""`)))
}
