package document

import (
	"encoding/json"
	"fmt"
	"sync"

	"github.com/google/uuid"

	"github.com/gamecore/playerdata/internal/domain/codec"
	"github.com/gamecore/playerdata/internal/domain/field"
)

// Authority answers elevated-status checks; implemented by the host.
type Authority interface {
	IsOperator(id uuid.UUID) bool
}

// ErrUnknownField is returned by Set for a name reconciliation never
// populated. Set replaces values, it never inserts fields.
var ErrUnknownField = fmt.Errorf("unknown field")

// Document is the in-memory field-value record of a single identity. Values
// stay in their raw interchange form until an accessor decodes them.
type Document struct {
	mu        sync.RWMutex
	fields    map[string]json.RawMessage
	taskIDs   []int64
	authority Authority
}

// New wraps a raw field map. The map is owned by the document afterward.
func New(fields map[string]json.RawMessage, authority Authority) *Document {
	if fields == nil {
		fields = make(map[string]json.RawMessage)
	}
	return &Document{fields: fields, authority: authority}
}

// GetBool decodes the named field as a boolean.
func (d *Document) GetBool(name string) (bool, error) {
	var v bool
	err := d.decode(name, &v)
	return v, err
}

// GetNumber decodes the named field as the generic numeric representation.
func (d *Document) GetNumber(name string) (float64, error) {
	d.mu.RLock()
	raw := d.fields[name]
	d.mu.RUnlock()
	return codec.DecodeNumber(name, raw)
}

// GetDouble decodes the named field as a float64.
func (d *Document) GetDouble(name string) (float64, error) {
	return d.GetNumber(name)
}

// GetFloat decodes the named field as a float32.
func (d *Document) GetFloat(name string) (float32, error) {
	n, err := d.GetNumber(name)
	return float32(n), err
}

// GetLong decodes the named field as an int64, truncating toward zero.
func (d *Document) GetLong(name string) (int64, error) {
	n, err := d.GetNumber(name)
	return int64(n), err
}

// GetInt decodes the named field as an int, truncating toward zero.
func (d *Document) GetInt(name string) (int, error) {
	n, err := d.GetNumber(name)
	return int(n), err
}

// GetShort decodes the named field as an int16, truncating toward zero.
func (d *Document) GetShort(name string) (int16, error) {
	n, err := d.GetNumber(name)
	return int16(n), err
}

// GetByte decodes the named field as a byte, truncating toward zero.
func (d *Document) GetByte(name string) (byte, error) {
	n, err := d.GetNumber(name)
	return byte(int64(n)), err
}

// GetChar decodes the named field as the first rune of its string value.
func (d *Document) GetChar(name string) (rune, error) {
	s, err := d.GetString(name)
	if err != nil {
		return 0, err
	}
	for _, r := range s {
		return r, nil
	}
	return 0, &codec.DecodeError{Field: name, Target: "char", Err: fmt.Errorf("empty string")}
}

// GetString decodes the named field as a string.
func (d *Document) GetString(name string) (string, error) {
	var v string
	err := d.decode(name, &v)
	return v, err
}

// GetObject decodes the named field as a generic value.
func (d *Document) GetObject(name string) (interface{}, error) {
	var v interface{}
	err := d.decode(name, &v)
	return v, err
}

// GetCustomType decodes the named field into out, which must be a pointer to
// the expected type.
func (d *Document) GetCustomType(name string, out interface{}) error {
	return d.decode(name, out)
}

// FieldIsNull reports whether the stored raw value is absent or null,
// without decoding it.
func (d *Document) FieldIsNull(name string) bool {
	d.mu.RLock()
	defer d.mu.RUnlock()
	return codec.IsNull(d.fields[name])
}

// Set replaces the named field's value. It returns ErrUnknownField for names
// not present in the document; reconciliation is responsible for inserts.
func (d *Document) Set(name string, value interface{}) error {
	raw, err := codec.Encode(value)
	if err != nil {
		return err
	}

	d.mu.Lock()
	defer d.mu.Unlock()
	if _, ok := d.fields[name]; !ok {
		return fmt.Errorf("set %q: %w", name, ErrUnknownField)
	}
	d.fields[name] = raw
	return nil
}

// Permissions decodes the permissions field.
func (d *Document) Permissions() ([]string, error) {
	var perms []string
	if err := d.decode(field.NamePermissions, &perms); err != nil {
		return nil, err
	}
	return perms, nil
}

// HasPermission reports whether the permission is present in the decoded
// permissions list, or the identity holds operator status with the authority.
func (d *Document) HasPermission(perm string) bool {
	perms, err := d.Permissions()
	if err == nil {
		for _, p := range perms {
			if p == perm {
				return true
			}
		}
	}
	if d.authority == nil {
		return false
	}
	id, err := d.UUID()
	if err != nil {
		return false
	}
	return d.authority.IsOperator(id)
}

// UUID decodes the identity key stored in the document.
func (d *Document) UUID() (uuid.UUID, error) {
	var id uuid.UUID
	err := d.decode(field.NameUUID, &id)
	return id, err
}

// SetUUID stores the identity key.
func (d *Document) SetUUID(id uuid.UUID) error {
	return d.Set(field.NameUUID, id)
}

// Username decodes the stored display name.
func (d *Document) Username() (string, error) {
	return d.GetString(field.NameUsername)
}

// SetUsername stores the display name.
func (d *Document) SetUsername(name string) error {
	return d.Set(field.NameUsername, name)
}

// PlayingTime returns the accumulated playing time in seconds.
func (d *Document) PlayingTime() (int64, error) {
	return d.GetLong(field.NamePlayingTime)
}

// SetPlayingTime stores the accumulated playing time.
func (d *Document) SetPlayingTime(seconds int64) error {
	return d.Set(field.NamePlayingTime, seconds)
}

// All returns an immutable snapshot mapping every field name to its decoded
// generic value.
func (d *Document) All() (map[string]interface{}, error) {
	d.mu.RLock()
	defer d.mu.RUnlock()

	out := make(map[string]interface{}, len(d.fields))
	for name, raw := range d.fields {
		var v interface{}
		if err := codec.Decode(name, raw, &v); err != nil {
			return nil, err
		}
		out[name] = v
	}
	return out, nil
}

// AddTask records a scheduler task id to cancel when the identity goes
// offline. Returns the id for convenience.
func (d *Document) AddTask(id int64) int64 {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.taskIDs = append(d.taskIDs, id)
	return id
}

// TaskIDs returns a snapshot of the recorded scheduler task ids.
func (d *Document) TaskIDs() []int64 {
	d.mu.RLock()
	defer d.mu.RUnlock()
	out := make([]int64, len(d.taskIDs))
	copy(out, d.taskIDs)
	return out
}

// ClearTasks drops the recorded task ids.
func (d *Document) ClearTasks() {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.taskIDs = nil
}

// Has reports whether the field name exists in the document, null or not.
func (d *Document) Has(name string) bool {
	d.mu.RLock()
	defer d.mu.RUnlock()
	_, ok := d.fields[name]
	return ok
}

// Names returns a snapshot of the field names present in the document.
func (d *Document) Names() []string {
	d.mu.RLock()
	defer d.mu.RUnlock()
	out := make([]string, 0, len(d.fields))
	for name := range d.fields {
		out = append(out, name)
	}
	return out
}

// RawSnapshot returns a copy of the raw field map, used for persistence.
func (d *Document) RawSnapshot() map[string]json.RawMessage {
	d.mu.RLock()
	defer d.mu.RUnlock()
	out := make(map[string]json.RawMessage, len(d.fields))
	for name, raw := range d.fields {
		out[name] = raw
	}
	return out
}

// SetRaw inserts or replaces a raw field value. Reconciliation only.
func (d *Document) SetRaw(name string, raw json.RawMessage) {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.fields[name] = raw
}

// DeleteRaw removes a field entirely. Reconciliation only.
func (d *Document) DeleteRaw(name string) {
	d.mu.Lock()
	defer d.mu.Unlock()
	delete(d.fields, name)
}

func (d *Document) decode(name string, out interface{}) error {
	d.mu.RLock()
	raw := d.fields[name]
	d.mu.RUnlock()
	return codec.Decode(name, raw, out)
}
