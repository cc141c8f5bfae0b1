package lifecycle

import (
	"errors"
	"fmt"

	"github.com/google/uuid"
)

// ErrAlreadyOnline is returned by HandleJoin when the identity already has a
// cached document. The event source guarantees at most one active session
// per identity; hitting this is a caller logic error.
var ErrAlreadyOnline = errors.New("identity already online")

// LoadError reports a document file that could not be read or decoded. The
// caller must treat it as "no document available" for that identity.
type LoadError struct {
	Identity uuid.UUID
	Path     string
	Err      error
}

func (e *LoadError) Error() string {
	return fmt.Sprintf("load document %s: %v", e.Identity, e.Err)
}

func (e *LoadError) Unwrap() error { return e.Err }

// PersistError reports a document write failure at unload time. It is logged
// and never crosses the unload boundary; the identity's data is simply not
// persisted that cycle.
type PersistError struct {
	Identity uuid.UUID
	Name     string
	Path     string
	Err      error
}

func (e *PersistError) Error() string {
	return fmt.Sprintf("persist document of %s (%s): %v", e.Name, e.Identity, e.Err)
}

func (e *PersistError) Unwrap() error { return e.Err }
