package lifecycle

import (
	"os"
	"path/filepath"
	"sync"
	"sync/atomic"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/gamecore/playerdata/internal/domain/codec"
	"github.com/gamecore/playerdata/internal/domain/document"
	"github.com/gamecore/playerdata/internal/domain/field"
	"github.com/gamecore/playerdata/internal/infrastructure/logging"
	"github.com/gamecore/playerdata/internal/infrastructure/monitoring"
	"github.com/gamecore/playerdata/internal/shared/types"
)

// Directory resolves an identity key to its display name and online status.
type Directory interface {
	Resolve(id uuid.UUID) (types.Identity, bool)
}

// Scheduler submits one-shot and repeating tasks and cancels them by id.
type Scheduler interface {
	RunLater(delay time.Duration, fn func()) int64
	RunRepeating(interval time.Duration, fn func()) int64
	Cancel(id int64)
}

// Hook is a lifecycle callback. Hooks run in registration order; a panicking
// hook is recovered and logged without aborting its siblings.
type Hook func(identity types.Identity, doc *document.Document)

// Manager orchestrates document load/unload, schema reconciliation, hook
// dispatch, and the cache of currently-online documents.
type Manager struct {
	log       *logging.Logger
	metrics   *monitoring.Metrics
	registry  *field.Registry
	directory Directory
	authority document.Authority
	sched     Scheduler
	dataDir   string
	tick      time.Duration

	loading atomic.Bool

	hookMu      sync.RWMutex
	loadHooks   []Hook
	joinHooks   []Hook
	quitHooks   []Hook
	unloadHooks []Hook

	// mu serializes registry mutations against in-flight reconciliation so
	// no document is reconciled against a half-updated schema.
	mu sync.Mutex

	cacheMu sync.RWMutex
	online  map[uuid.UUID]*document.Document
}

// NewManager creates a manager in the loading phase, with the built-in hooks
// registered: a load hook filling uuid/username on first login and a join
// hook ticking playing_time through the scheduler.
func NewManager(
	registry *field.Registry,
	directory Directory,
	authority document.Authority,
	sched Scheduler,
	dataDir string,
	tick time.Duration,
	log *logging.Logger,
) *Manager {
	m := &Manager{
		log:       log,
		registry:  registry,
		directory: directory,
		authority: authority,
		sched:     sched,
		dataDir:   dataDir,
		tick:      tick,
		online:    make(map[uuid.UUID]*document.Document),
	}
	m.loading.Store(true)

	m.OnLoad(func(identity types.Identity, doc *document.Document) {
		if doc.FieldIsNull(field.NameUUID) {
			_ = doc.SetUUID(identity.ID)
		}
		if doc.FieldIsNull(field.NameUsername) {
			_ = doc.SetUsername(identity.Name)
		}
	})

	m.OnJoin(func(identity types.Identity, doc *document.Document) {
		doc.AddTask(m.sched.RunRepeating(m.tick, func() {
			t, err := doc.PlayingTime()
			if err != nil {
				return
			}
			_ = doc.SetPlayingTime(t + 1)
		}))
	})

	return m
}

// WithMetrics attaches a metrics collector.
func (m *Manager) WithMetrics(metrics *monitoring.Metrics) *Manager {
	m.metrics = metrics
	if metrics != nil {
		metrics.FieldsRegistered.Set(float64(m.registry.Len()))
	}
	return m
}

// FinishLoading marks the end of the host's composition phase. Field
// additions after this point are accepted but reach cached documents only at
// their next reconciliation.
func (m *Manager) FinishLoading() {
	m.loading.Store(false)
}

// OnLoad registers a hook dispatched after a document is loaded and
// reconciled. Registration is additive only.
func (m *Manager) OnLoad(h Hook) { m.addHook(&m.loadHooks, h) }

// OnJoin registers a hook dispatched when an identity comes online.
func (m *Manager) OnJoin(h Hook) { m.addHook(&m.joinHooks, h) }

// OnQuit registers a hook dispatched when an identity goes offline, before
// its document is unloaded.
func (m *Manager) OnQuit(h Hook) { m.addHook(&m.quitHooks, h) }

// OnUnload registers a hook dispatched just before a document is serialized
// and written. Unload hooks may still mutate the document.
func (m *Manager) OnUnload(h Hook) { m.addHook(&m.unloadHooks, h) }

// LoadDocument loads the identity's document from disk, or creates an empty
// one when there is no prior record or file. The result is reconciled
// against the registry and has had every load hook dispatched. Returns a
// *LoadError when the file is unreadable or undecodable.
func (m *Manager) LoadDocument(identity types.Identity, hasPrior bool) (*document.Document, error) {
	path := m.docPath(identity.ID)

	var doc *document.Document
	if _, err := os.Stat(path); !hasPrior || os.IsNotExist(err) {
		doc = document.New(nil, m.authority)
		m.log.Debug("Created document", zap.String("player", identity.Name))
		if m.metrics != nil {
			m.metrics.DocumentsCreated.Inc()
		}
	} else {
		data, err := os.ReadFile(path)
		if err != nil {
			return nil, m.loadFailed(identity, path, err)
		}
		fields, err := codec.DecodeDocument(data)
		if err != nil {
			return nil, m.loadFailed(identity, path, err)
		}
		doc = document.New(fields, m.authority)
		if m.metrics != nil {
			m.metrics.DocumentsLoaded.Inc()
		}
	}

	m.reconcile(doc)
	m.dispatch("load", m.hooks(&m.loadHooks), identity, doc)
	m.log.Debug("Loaded document", zap.String("player", identity.Name))
	return doc, nil
}

// HandleJoin loads the identity's document, dispatches join hooks, and
// inserts the document into the online cache. A join for an already-cached
// identity is rejected; the event source guarantees at most one active
// session per identity.
func (m *Manager) HandleJoin(identity types.Identity) error {
	m.cacheMu.RLock()
	_, cached := m.online[identity.ID]
	m.cacheMu.RUnlock()
	if cached {
		m.log.Error("Join for already-online identity", zap.String("player", identity.Name))
		return ErrAlreadyOnline
	}

	doc, err := m.LoadDocument(identity, m.hasPrior(identity.ID))
	if err != nil {
		return err
	}

	m.dispatch("join", m.hooks(&m.joinHooks), identity, doc)

	m.cacheMu.Lock()
	m.online[identity.ID] = doc
	size := len(m.online)
	m.cacheMu.Unlock()
	if m.metrics != nil {
		m.metrics.PlayersOnline.Set(float64(size))
	}
	return nil
}

// HandleQuit dispatches quit hooks, cancels the document's scheduler tasks,
// evicts it from the online cache, and unloads it to disk, in that order, so
// a quit hook still observes the live cached document through Get. A quit for
// an identity with no cached document is a logged no-op.
func (m *Manager) HandleQuit(identity types.Identity) {
	m.cacheMu.RLock()
	doc, ok := m.online[identity.ID]
	m.cacheMu.RUnlock()

	if !ok {
		m.log.Warn("Quit for identity with no cached document", zap.String("player", identity.Name))
		return
	}

	m.dispatch("quit", m.hooks(&m.quitHooks), identity, doc)

	for _, id := range doc.TaskIDs() {
		m.sched.Cancel(id)
	}
	doc.ClearTasks()

	m.cacheMu.Lock()
	delete(m.online, identity.ID)
	size := len(m.online)
	m.cacheMu.Unlock()
	if m.metrics != nil {
		m.metrics.PlayersOnline.Set(float64(size))
	}

	m.UnloadDocument(identity, doc)
}

// UnloadDocument dispatches unload hooks, then serializes and writes the
// document. A write failure is logged and does not propagate; the identity's
// data is simply not persisted this cycle.
func (m *Manager) UnloadDocument(identity types.Identity, doc *document.Document) {
	m.dispatch("unload", m.hooks(&m.unloadHooks), identity, doc)

	data, err := codec.EncodeDocument(doc.RawSnapshot())
	if err != nil {
		m.persistFailed(identity, err)
		return
	}
	path := m.docPath(identity.ID)
	if err := os.WriteFile(path, data, 0o644); err != nil {
		m.persistFailed(identity, err)
		return
	}

	m.log.Debug("Saved document", zap.String("player", identity.Name))
	if m.metrics != nil {
		m.metrics.DocumentsPersisted.Inc()
	}
}

// Get returns the cached document when the identity is online, without file
// I/O. Otherwise the document is loaded fresh and not cached; the caller must
// pass it to Release when done or its changes are lost.
func (m *Manager) Get(id uuid.UUID) (*document.Document, error) {
	m.cacheMu.RLock()
	doc, ok := m.online[id]
	m.cacheMu.RUnlock()
	if ok {
		return doc, nil
	}

	identity := m.resolve(id)
	return m.LoadDocument(identity, m.hasPrior(id))
}

// Release persists and releases a document obtained through Get for an
// offline identity. Releasing a document still owned by the online cache is
// a no-op; the cache controls its lifecycle.
func (m *Manager) Release(doc *document.Document) {
	id, err := doc.UUID()
	if err != nil {
		m.log.Error("Cannot release document without identity key", zap.Error(err))
		return
	}

	m.cacheMu.RLock()
	cached := m.online[id] == doc
	m.cacheMu.RUnlock()
	if cached {
		return
	}

	m.UnloadDocument(m.resolve(id), doc)
}

// AddField registers a field definition. Expected during the loading phase;
// afterward the call still persists but already-cached documents pick the
// field up only at their next reconciliation.
func (m *Manager) AddField(def types.FieldDefinition) {
	if !m.loading.Load() {
		m.log.Warn("Field added after loading phase", zap.String("field", def.Name))
	}

	m.mu.Lock()
	m.registry.Add(def)
	m.mu.Unlock()

	if m.metrics != nil {
		m.metrics.FieldsRegistered.Set(float64(m.registry.Len()))
	}
}

// RemoveField deletes a non-reserved field definition. Stored documents shed
// the field lazily, at their next load.
func (m *Manager) RemoveField(name string) {
	m.mu.Lock()
	m.registry.Remove(name)
	m.mu.Unlock()

	if m.metrics != nil {
		m.metrics.FieldsRegistered.Set(float64(m.registry.Len()))
	}
}

// ContainsField reports whether the field is registered.
func (m *Manager) ContainsField(name string) bool { return m.registry.Contains(name) }

// ListFields returns a snapshot of the registered definitions.
func (m *Manager) ListFields() []types.FieldDefinition { return m.registry.List() }

// OnlineCount returns the number of identities with a cached document.
func (m *Manager) OnlineCount() int {
	m.cacheMu.RLock()
	defer m.cacheMu.RUnlock()
	return len(m.online)
}

// Shutdown drains the online cache, running the full quit path for every
// cached identity, then persists the field registry. It must complete before
// the process exits.
func (m *Manager) Shutdown() {
	m.cacheMu.RLock()
	ids := make([]uuid.UUID, 0, len(m.online))
	for id := range m.online {
		ids = append(ids, id)
	}
	m.cacheMu.RUnlock()

	for _, id := range ids {
		m.HandleQuit(m.resolve(id))
	}

	if err := m.registry.Save(); err != nil {
		m.log.Error("Failed to save schema file at shutdown", zap.Error(err))
	}
	m.log.Info("Player data store shut down", zap.Int("persisted", len(ids)))
}

// reconcile fills missing or null registered fields with their encoded
// defaults and strips fields no longer in the registry.
func (m *Manager) reconcile(doc *document.Document) {
	m.mu.Lock()
	defer m.mu.Unlock()

	defs := m.registry.List()
	registered := make(map[string]struct{}, len(defs))
	for _, def := range defs {
		registered[def.Name] = struct{}{}
		if !doc.Has(def.Name) || doc.FieldIsNull(def.Name) {
			raw, err := codec.Encode(def.Default)
			if err != nil {
				m.log.Error("Failed to encode field default", zap.String("field", def.Name), zap.Error(err))
				continue
			}
			doc.SetRaw(def.Name, raw)
		}
	}

	for _, name := range doc.Names() {
		if _, ok := registered[name]; !ok {
			doc.DeleteRaw(name)
		}
	}
}

func (m *Manager) addHook(list *[]Hook, h Hook) {
	m.hookMu.Lock()
	defer m.hookMu.Unlock()
	*list = append(*list, h)
}

// hooks takes a stable snapshot so registration during dispatch cannot
// corrupt iteration.
func (m *Manager) hooks(list *[]Hook) []Hook {
	m.hookMu.RLock()
	defer m.hookMu.RUnlock()
	out := make([]Hook, len(*list))
	copy(out, *list)
	return out
}

func (m *Manager) dispatch(stage string, hooks []Hook, identity types.Identity, doc *document.Document) {
	for _, h := range hooks {
		func() {
			defer func() {
				if r := recover(); r != nil {
					m.log.Error("Lifecycle hook panicked",
						zap.String("stage", stage),
						zap.String("player", identity.Name),
						zap.Any("panic", r))
					if m.metrics != nil {
						m.metrics.HookPanics.WithLabelValues(stage).Inc()
					}
				}
			}()
			h(identity, doc)
		}()
	}
}

func (m *Manager) loadFailed(identity types.Identity, path string, err error) error {
	lerr := &LoadError{Identity: identity.ID, Path: path, Err: err}
	m.log.Error("Failed to load document", zap.String("player", identity.Name), zap.Error(err))
	if m.metrics != nil {
		m.metrics.LoadFailures.Inc()
	}
	return lerr
}

func (m *Manager) persistFailed(identity types.Identity, err error) {
	perr := &PersistError{Identity: identity.ID, Name: identity.Name, Path: m.docPath(identity.ID), Err: err}
	m.log.Error("Failed to save document", zap.String("player", identity.Name), zap.Error(perr))
	if m.metrics != nil {
		m.metrics.PersistFailures.Inc()
	}
}

func (m *Manager) resolve(id uuid.UUID) types.Identity {
	if identity, _ := m.directory.Resolve(id); identity.ID != uuid.Nil {
		return identity
	}
	return types.Identity{ID: id, Name: id.String()}
}

func (m *Manager) hasPrior(id uuid.UUID) bool {
	_, err := os.Stat(m.docPath(id))
	return err == nil
}

func (m *Manager) docPath(id uuid.UUID) string {
	return filepath.Join(m.dataDir, id.String()+".json")
}
