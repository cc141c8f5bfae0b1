package server

import (
	"sync"

	"github.com/google/uuid"

	"github.com/gamecore/playerdata/internal/shared/types"
)

// sessions is the server's in-process identity directory: it tracks which
// identities are online and their display names, and answers operator
// checks from a static set. It backs the lifecycle Directory, the document
// Authority, and the HTTP SessionDirectory interfaces.
type sessions struct {
	mu        sync.RWMutex
	online    map[uuid.UUID]types.Identity
	operators map[uuid.UUID]struct{}
}

func newSessions(operators []string) *sessions {
	s := &sessions{
		online:    make(map[uuid.UUID]types.Identity),
		operators: make(map[uuid.UUID]struct{}),
	}
	for _, op := range operators {
		if id, err := uuid.Parse(op); err == nil {
			s.operators[id] = struct{}{}
		}
	}
	return s
}

// Join records an identity as online and reports whether the entry was
// created. An already-online identity keeps its existing entry.
func (s *sessions) Join(identity types.Identity) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.online[identity.ID]; ok {
		return false
	}
	s.online[identity.ID] = identity
	return true
}

// Leave removes an identity and returns the reference it was known by.
func (s *sessions) Leave(id uuid.UUID) types.Identity {
	s.mu.Lock()
	defer s.mu.Unlock()
	if identity, ok := s.online[id]; ok {
		delete(s.online, id)
		return identity
	}
	return types.Identity{ID: id, Name: id.String()}
}

// Resolve implements lifecycle.Directory.
func (s *sessions) Resolve(id uuid.UUID) (types.Identity, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if identity, ok := s.online[id]; ok {
		return identity, true
	}
	return types.Identity{ID: id, Name: id.String()}, false
}

// IsOperator implements document.Authority.
func (s *sessions) IsOperator(id uuid.UUID) bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	_, ok := s.operators[id]
	return ok
}
