package store

import "context"

type SessionStore interface {
	CreateSession(ctx context.Context, title string) (*Session, error)
}

type MessageStore interface {
	InsertMessage(ctx context.Context, sessionID string, role Role, content string) (*Message, error)
	ListMessagesBySessionID(ctx context.Context, sessionID string) ([]Message, error)
}

type ArticleStore interface {
	ListArticles(ctx context.Context) ([]Article, error)
}

// Store is the external persistence boundary. Every call may fail with a
// store-level error; callers log and degrade, there is no retry.
type Store interface {
	SessionStore
	MessageStore
	ArticleStore
}
