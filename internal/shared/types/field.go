package types

// FieldDefinition declares a named field applied to every identity document.
// The default is written into a document whenever the field is missing or null
// at load time.
type FieldDefinition struct {
	Name    string `json:"name"`
	Default Value  `json:"defaultValue"`
}

// NewField creates a field definition.
func NewField(name string, def Value) FieldDefinition {
	return FieldDefinition{Name: name, Default: def}
}
