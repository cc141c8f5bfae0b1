package field

import (
	"fmt"
	"os"
	"strings"
	"sync"

	"github.com/bytedance/sonic"
	"go.uber.org/zap"

	"github.com/gamecore/playerdata/internal/infrastructure/logging"
	"github.com/gamecore/playerdata/internal/shared/types"
)

// Reserved field names. The first three can never be removed; permissions is
// a removable built-in.
const (
	NameUUID        = "uuid"
	NameUsername    = "username"
	NamePlayingTime = "playing_time"
	NamePermissions = "permissions"
)

// Registry is the ordered set of field definitions, persisted in its entirety
// to a single schema file after every mutation.
type Registry struct {
	log  *logging.Logger
	path string

	mu     sync.RWMutex
	fields []types.FieldDefinition
}

// Builtins returns the four field definitions seeded into every registry.
func Builtins() []types.FieldDefinition {
	return []types.FieldDefinition{
		types.NewField(NameUUID, types.NullValue()),
		types.NewField(NameUsername, types.NullValue()),
		types.NewField(NamePlayingTime, types.IntValue(0)),
		types.NewField(NamePermissions, types.StringListValue(nil)),
	}
}

// Open loads the registry from the schema file at path, creating the file
// seeded with the built-ins if it does not exist. A loaded file missing any
// built-in has it appended and is saved back.
func Open(path string, log *logging.Logger) (*Registry, error) {
	r := &Registry{log: log, path: path}

	data, err := os.ReadFile(path)
	switch {
	case os.IsNotExist(err):
		r.fields = Builtins()
		if err := r.save(); err != nil {
			return nil, fmt.Errorf("create schema file: %w", err)
		}
		log.Info("Created schema file", zap.String("path", path))
	case err != nil:
		return nil, fmt.Errorf("read schema file: %w", err)
	default:
		if err := sonic.Unmarshal(data, &r.fields); err != nil {
			return nil, fmt.Errorf("decode schema file %s: %w", path, err)
		}
		for _, builtin := range Builtins() {
			if !r.contains(builtin.Name) {
				r.fields = append(r.fields, builtin)
			}
		}
		if err := r.save(); err != nil {
			return nil, fmt.Errorf("reconcile schema file: %w", err)
		}
	}

	return r, nil
}

// Add inserts a definition unless one with the same name already exists.
// The registry is persisted afterward either way; a persistence failure is
// logged but the in-memory change stands.
func (r *Registry) Add(def types.FieldDefinition) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if !r.contains(def.Name) {
		r.fields = append(r.fields, def)
	}
	if err := r.save(); err != nil {
		r.log.Error("Failed to save schema file", zap.String("field", def.Name), zap.Error(err))
	}
}

// Remove deletes the definition whose name matches case-insensitively.
// The permanently reserved names are silently kept.
func (r *Registry) Remove(name string) {
	switch strings.ToLower(name) {
	case NameUUID, NameUsername, NamePlayingTime:
		return
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	for i, def := range r.fields {
		if strings.EqualFold(def.Name, name) {
			r.fields = append(r.fields[:i], r.fields[i+1:]...)
			if err := r.save(); err != nil {
				r.log.Error("Failed to save schema file", zap.String("field", name), zap.Error(err))
			}
			return
		}
	}
}

// Contains reports whether a definition with the given name exists.
func (r *Registry) Contains(name string) bool {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.contains(name)
}

// List returns a snapshot of the definitions in registration order.
func (r *Registry) List() []types.FieldDefinition {
	r.mu.RLock()
	defer r.mu.RUnlock()

	out := make([]types.FieldDefinition, len(r.fields))
	copy(out, r.fields)
	return out
}

// Len returns the number of registered definitions.
func (r *Registry) Len() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.fields)
}

// Save persists the registry. Called at shutdown; mutations persist on their
// own.
func (r *Registry) Save() error {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.save()
}

// contains expects the lock to be held.
func (r *Registry) contains(name string) bool {
	for _, def := range r.fields {
		if def.Name == name {
			return true
		}
	}
	return false
}

// save expects at least a read lock to be held.
func (r *Registry) save() error {
	data, err := sonic.Marshal(r.fields)
	if err != nil {
		return fmt.Errorf("encode schema: %w", err)
	}
	if err := os.WriteFile(r.path, data, 0o644); err != nil {
		return fmt.Errorf("write schema file: %w", err)
	}
	return nil
}
