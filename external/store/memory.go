package store

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/valerie-05/AI-Immigration-Assistant/internal/store"
)

// MemoryStore keeps sessions, messages, and articles in process memory.
// Used in development when no database is configured, and by tests.
type MemoryStore struct {
	mu       sync.Mutex
	sessions map[string]store.Session
	messages map[string][]store.Message
	articles []store.Article
	now      func() time.Time
}

func NewMemoryStore() *MemoryStore {
	return &MemoryStore{
		sessions: make(map[string]store.Session),
		messages: make(map[string][]store.Message),
		now:      time.Now,
	}
}

func (s *MemoryStore) CreateSession(_ context.Context, title string) (*store.Session, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	now := s.now()
	sess := store.Session{
		ID:        uuid.NewString(),
		Title:     title,
		CreatedAt: now,
		UpdatedAt: now,
	}
	s.sessions[sess.ID] = sess
	return &sess, nil
}

func (s *MemoryStore) InsertMessage(_ context.Context, sessionID string, role store.Role, content string) (*store.Message, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.sessions[sessionID]; !ok {
		return nil, fmt.Errorf("session %s not found", sessionID)
	}
	m := store.Message{
		ID:        uuid.NewString(),
		SessionID: sessionID,
		Role:      role,
		Content:   content,
		CreatedAt: s.now(),
	}
	s.messages[sessionID] = append(s.messages[sessionID], m)
	return &m, nil
}

func (s *MemoryStore) ListMessagesBySessionID(_ context.Context, sessionID string) ([]store.Message, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	msgs := s.messages[sessionID]
	out := make([]store.Message, len(msgs))
	copy(out, msgs)
	return out, nil
}

func (s *MemoryStore) ListArticles(_ context.Context) ([]store.Article, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]store.Article, len(s.articles))
	copy(out, s.articles)
	return out, nil
}

// SeedArticles replaces the article list, newest first ordering is the
// caller's responsibility.
func (s *MemoryStore) SeedArticles(articles []store.Article) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.articles = make([]store.Article, len(articles))
	copy(s.articles, articles)
}
