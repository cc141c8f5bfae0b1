package types

import "github.com/google/uuid"

// Identity is a resolved reference to a tracked entity: its stable key plus
// the display name known to the host at resolution time.
type Identity struct {
	ID   uuid.UUID
	Name string
}
