package session

import (
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/patrickmn/go-cache"
)

// Message roles as stored in conversation history.
const (
	RoleHuman     = "human"
	RoleAssistant = "assistant"
)

// Message is one conversational turn. Immutable once appended.
type Message struct {
	Role      string    `json:"role"`
	Content   string    `json:"content"`
	Timestamp time.Time `json:"timestamp"`
}

// Session holds the full append-only history of one conversation plus its
// context-window configuration. History is never truncated in storage; only
// the view handed to the generator is windowed.
type Session struct {
	SessionId              string
	History                []Message
	LastUpdated            time.Time
	ConversationWindowSize int

	mu sync.Mutex
}

const (
	// MaxSessionAge is how long an untouched session survives.
	MaxSessionAge = 24 * time.Hour

	// SweepInterval is go-cache's purge cadence for expired sessions; an
	// explicit CleanupExpiredSessions pass can run on the same schedule.
	SweepInterval = time.Hour

	// DefaultWindowSize is the process-wide conversation window applied to
	// sessions that carry no override.
	DefaultWindowSize = 10
)

// Manager owns all in-memory conversation sessions, keyed by session id.
// Expiry is lazy: go-cache treats entries older than MaxSessionAge as absent
// on access, and its janitor sweeps them on SweepInterval. State does not
// survive a process restart; a durable store is deliberately out of scope.
type Manager struct {
	sessions *cache.Cache

	mu                sync.RWMutex
	defaultWindowSize int
}

func NewManager() *Manager {
	return newManagerWithTTL(MaxSessionAge, SweepInterval)
}

func newManagerWithTTL(maxAge, sweep time.Duration) *Manager {
	return &Manager{
		sessions:          cache.New(maxAge, sweep),
		defaultWindowSize: DefaultWindowSize,
	}
}

// GetOrCreateSession returns the session for id, creating it (or recreating
// it, when the previous one expired) with empty history and the current
// default window size. A fresh unique id is generated when id is empty.
// Accessing a live session refreshes its age.
func (m *Manager) GetOrCreateSession(id string) *Session {
	if id == "" {
		id = uuid.NewString()
	}

	for {
		if x, found := m.sessions.Get(id); found {
			sess := x.(*Session)
			m.touch(sess)
			return sess
		}

		sess := &Session{
			SessionId:              id,
			History:                []Message{},
			LastUpdated:            time.Now(),
			ConversationWindowSize: m.getDefaultWindowSize(),
		}
		// Add is atomic; losing a concurrent create race retries the lookup
		// so both callers end up on the same session.
		if err := m.sessions.Add(id, sess, cache.DefaultExpiration); err == nil {
			return sess
		}
	}
}

// AddMessage appends a message to the session's full history, creating the
// session if necessary. A zero timestamp is stamped with now. Appends to the
// same session are serialized by a per-session lock.
func (m *Manager) AddMessage(id string, msg Message) {
	sess := m.GetOrCreateSession(id)

	if msg.Timestamp.IsZero() {
		msg.Timestamp = time.Now()
	}

	sess.mu.Lock()
	sess.History = append(sess.History, msg)
	sess.LastUpdated = time.Now()
	sess.mu.Unlock()

	// Refresh the cache TTL to match LastUpdated.
	m.sessions.Set(sess.SessionId, sess, cache.DefaultExpiration)
}

// GetFormattedHistory returns a copy of the last N messages in original
// order, where N is windowOverride when > 0, else the session's own window
// size, else the process default. The stored history is untouched.
func (m *Manager) GetFormattedHistory(id string, windowOverride int) []Message {
	sess := m.GetOrCreateSession(id)

	windowSize := windowOverride
	if windowSize <= 0 {
		windowSize = sess.ConversationWindowSize
	}
	if windowSize <= 0 {
		windowSize = m.getDefaultWindowSize()
	}

	sess.mu.Lock()
	defer sess.mu.Unlock()

	start := len(sess.History) - windowSize
	if start < 0 {
		start = 0
	}
	view := make([]Message, len(sess.History)-start)
	copy(view, sess.History[start:])
	return view
}

// GetFullHistory returns a copy of the complete history, ignoring windows.
func (m *Manager) GetFullHistory(id string) []Message {
	sess := m.GetOrCreateSession(id)

	sess.mu.Lock()
	defer sess.mu.Unlock()

	full := make([]Message, len(sess.History))
	copy(full, sess.History)
	return full
}

// SetConversationWindowSize sets a per-session window override. Sizes below
// one are rejected as a no-op.
func (m *Manager) SetConversationWindowSize(id string, windowSize int) {
	if windowSize < 1 {
		return
	}
	sess := m.GetOrCreateSession(id)
	sess.mu.Lock()
	sess.ConversationWindowSize = windowSize
	sess.mu.Unlock()
}

// GetConversationWindowSize returns the session's window size, falling back
// to the process default for unknown sessions.
func (m *Manager) GetConversationWindowSize(id string) int {
	if x, found := m.sessions.Get(id); found {
		return x.(*Session).ConversationWindowSize
	}
	return m.getDefaultWindowSize()
}

// SetDefaultWindowSize changes the window applied to future session
// creations. Non-positive sizes are ignored.
func (m *Manager) SetDefaultWindowSize(size int) {
	if size <= 0 {
		return
	}
	m.mu.Lock()
	m.defaultWindowSize = size
	m.mu.Unlock()
}

// GetDefaultWindowSize returns the window applied to new sessions.
func (m *Manager) GetDefaultWindowSize() int {
	return m.getDefaultWindowSize()
}

func (m *Manager) getDefaultWindowSize() int {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.defaultWindowSize
}

// CleanupExpiredSessions evicts every session older than MaxSessionAge.
// go-cache runs this on its own janitor as well; exposing it lets main wire
// an explicit recurring sweep that is independent of request traffic.
func (m *Manager) CleanupExpiredSessions() {
	m.sessions.DeleteExpired()
}

// SessionCount reports the number of live sessions (expired entries not yet
// swept may be included, matching go-cache semantics).
func (m *Manager) SessionCount() int {
	return m.sessions.ItemCount()
}

func (m *Manager) touch(sess *Session) {
	sess.mu.Lock()
	sess.LastUpdated = time.Now()
	sess.mu.Unlock()
	m.sessions.Set(sess.SessionId, sess, cache.DefaultExpiration)
}
