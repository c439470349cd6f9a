package conversation

import (
	"context"
	"sync"

	"github.com/valerie-05/AI-Immigration-Assistant/internal/audio"
	"github.com/valerie-05/AI-Immigration-Assistant/internal/guidance"
	"github.com/valerie-05/AI-Immigration-Assistant/internal/speech"
	"github.com/valerie-05/AI-Immigration-Assistant/internal/store"
)

// Manager opens conversations and tracks the live ones by session id. Each
// conversation gets its own playback device so audio in one does not
// interfere with another surface.
type Manager struct {
	store     store.Store
	guide     *guidance.Client
	speech    *speech.Client
	newDevice audio.DeviceFactory

	mu            sync.Mutex
	conversations map[string]*Conversation
}

func NewManager(st store.Store, guide *guidance.Client, sp *speech.Client, newDevice audio.DeviceFactory) *Manager {
	return &Manager{
		store:         st,
		guide:         guide,
		speech:        sp,
		newDevice:     newDevice,
		conversations: make(map[string]*Conversation),
	}
}

// Open creates a conversation and its session record. On failure the
// conversation is not registered; the caller retries by opening again.
func (m *Manager) Open(ctx context.Context) (*Conversation, error) {
	c := New(m.store, m.guide, m.speech, m.newDevice())
	if err := c.Open(ctx); err != nil {
		return nil, err
	}

	m.mu.Lock()
	m.conversations[c.SessionID()] = c
	m.mu.Unlock()
	return c, nil
}

func (m *Manager) Get(sessionID string) (*Conversation, bool) {
	m.mu.Lock()
	defer m.mu.Unlock()
	c, ok := m.conversations[sessionID]
	return c, ok
}

// Close stops the conversation's playback and removes it from the live
// set. Reports whether the session was known.
func (m *Manager) Close(sessionID string) bool {
	m.mu.Lock()
	c, ok := m.conversations[sessionID]
	delete(m.conversations, sessionID)
	m.mu.Unlock()
	if !ok {
		return false
	}
	c.Close()
	return true
}

// CloseAll stops playback on every live conversation. Called on shutdown.
func (m *Manager) CloseAll() {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, c := range m.conversations {
		c.Close()
	}
}
