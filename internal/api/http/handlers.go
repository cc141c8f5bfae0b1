package http

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/gamecore/playerdata/internal/domain/lifecycle"
	"github.com/gamecore/playerdata/internal/infrastructure/logging"
	"github.com/gamecore/playerdata/internal/shared/types"
)

// SessionDirectory tracks which identities the HTTP surface considers
// online. The server's directory implements it alongside the lifecycle
// Directory interface. Join reports whether it created the entry; an
// existing entry is left untouched.
type SessionDirectory interface {
	Join(identity types.Identity) bool
	Leave(id uuid.UUID) types.Identity
}

// Handlers contains the HTTP admin surface over the store.
type Handlers struct {
	manager  *lifecycle.Manager
	sessions SessionDirectory
	log      *logging.Logger
}

// NewHandlers creates a new handler set.
func NewHandlers(manager *lifecycle.Manager, sessions SessionDirectory, log *logging.Logger) *Handlers {
	return &Handlers{manager: manager, sessions: sessions, log: log}
}

// Root handles the bare health check.
func (h *Handlers) Root(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"status":  "online",
		"service": "playerdata",
	})
}

// Health reports store health and basic counts.
func (h *Handlers) Health(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"status": "healthy",
		"online": h.manager.OnlineCount(),
		"fields": len(h.manager.ListFields()),
	})
}

// ListFields lists the registered field definitions in order.
func (h *Handlers) ListFields(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"fields": h.manager.ListFields()})
}

// AddField registers a field definition from the request body.
func (h *Handlers) AddField(c *gin.Context) {
	var def types.FieldDefinition
	if err := c.ShouldBindJSON(&def); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	if def.Name == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "field name is required"})
		return
	}

	h.manager.AddField(def)
	c.JSON(http.StatusCreated, gin.H{"field": def})
}

// RemoveField removes a non-reserved field definition. Removal requests for
// reserved names succeed without effect.
func (h *Handlers) RemoveField(c *gin.Context) {
	h.manager.RemoveField(c.Param("name"))
	c.Status(http.StatusNoContent)
}

// GetPlayer returns the decoded snapshot of an identity's document: the
// cached copy when online, a transient load otherwise.
func (h *Handlers) GetPlayer(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid player id"})
		return
	}

	doc, err := h.manager.Get(id)
	if err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "player data unavailable"})
		return
	}

	snapshot, err := doc.All()
	h.manager.Release(doc)
	if err != nil {
		h.log.Error("Failed to decode document snapshot", zap.String("player", id.String()), zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "undecodable document"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"player": id.String(), "fields": snapshot})
}

// JoinPlayer brings an identity online: loads its document, runs join hooks,
// and caches it.
func (h *Handlers) JoinPlayer(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid player id"})
		return
	}

	var body struct {
		Name string `json:"name"`
	}
	_ = c.ShouldBindJSON(&body)
	if body.Name == "" {
		body.Name = id.String()
	}

	identity := types.Identity{ID: id, Name: body.Name}
	created := h.sessions.Join(identity)
	if err := h.manager.HandleJoin(identity); err != nil {
		// Roll back only an entry this request created; a conflicting join
		// must not evict the existing session's directory entry.
		if created {
			h.sessions.Leave(id)
		}
		c.JSON(http.StatusConflict, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, gin.H{"player": id.String(), "online": true})
}

// QuitPlayer takes an identity offline and persists its document.
func (h *Handlers) QuitPlayer(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid player id"})
		return
	}

	h.manager.HandleQuit(h.sessions.Leave(id))
	c.JSON(http.StatusOK, gin.H{"player": id.String(), "online": false})
}
