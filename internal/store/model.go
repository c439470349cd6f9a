package store

import "time"

type Role string

const (
	RoleUser      Role = "user"
	RoleAssistant Role = "assistant"
)

type Session struct {
	ID        string
	Title     string
	CreatedAt time.Time
	UpdatedAt time.Time
}

type Message struct {
	ID        string
	SessionID string
	Role      Role
	Content   string
	CreatedAt time.Time
}

// Article is a read-only news record. The core never mutates articles; they
// pass through to the display layer as-is.
type Article struct {
	ID          string
	Title       string
	Summary     string
	Content     *string
	Source      string
	SourceURL   *string
	ImageURL    *string
	Category    string
	PublishedAt time.Time
}
