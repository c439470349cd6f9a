package store

import (
	"context"
	"testing"
	"time"

	"github.com/valerie-05/AI-Immigration-Assistant/internal/store"
)

func TestMemoryStore_SessionAndMessages(t *testing.T) {
	s := NewMemoryStore()
	ctx := context.Background()

	sess, err := s.CreateSession(ctx, "Immigration Chat")
	if err != nil {
		t.Fatalf("expected no error, got %v", err)
	}
	if sess.ID == "" || sess.Title != "Immigration Chat" {
		t.Fatalf("unexpected session: %+v", sess)
	}

	first, err := s.InsertMessage(ctx, sess.ID, store.RoleUser, "question")
	if err != nil {
		t.Fatalf("expected no error, got %v", err)
	}
	second, err := s.InsertMessage(ctx, sess.ID, store.RoleAssistant, "answer")
	if err != nil {
		t.Fatalf("expected no error, got %v", err)
	}
	if first.ID == second.ID {
		t.Fatal("expected distinct message ids")
	}

	msgs, err := s.ListMessagesBySessionID(ctx, sess.ID)
	if err != nil {
		t.Fatalf("expected no error, got %v", err)
	}
	if len(msgs) != 2 {
		t.Fatalf("expected 2 messages, got %d", len(msgs))
	}
	if msgs[0].Role != store.RoleUser || msgs[1].Role != store.RoleAssistant {
		t.Fatalf("unexpected order: %+v", msgs)
	}
}

func TestMemoryStore_InsertIntoUnknownSessionFails(t *testing.T) {
	s := NewMemoryStore()
	if _, err := s.InsertMessage(context.Background(), "missing", store.RoleUser, "question"); err == nil {
		t.Fatal("expected error for unknown session")
	}
}

func TestMemoryStore_Articles(t *testing.T) {
	s := NewMemoryStore()
	s.SeedArticles([]store.Article{
		{ID: "1", Title: "News", Category: "policy", PublishedAt: time.Now()},
	})
	articles, err := s.ListArticles(context.Background())
	if err != nil {
		t.Fatalf("expected no error, got %v", err)
	}
	if len(articles) != 1 || articles[0].ID != "1" {
		t.Fatalf("unexpected articles: %+v", articles)
	}
}
