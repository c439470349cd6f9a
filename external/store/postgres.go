package store

import (
	"context"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/valerie-05/AI-Immigration-Assistant/internal/store"
)

type PostgresStore struct {
	pool *pgxpool.Pool
}

func NewPostgresStore(pool *pgxpool.Pool) store.Store {
	return &PostgresStore{pool: pool}
}

func (s *PostgresStore) CreateSession(ctx context.Context, title string) (*store.Session, error) {
	row := s.pool.QueryRow(ctx,
		`INSERT INTO chat_sessions (title)
		 VALUES ($1)
		 RETURNING id, title, created_at, updated_at`,
		title)
	var sess store.Session
	if err := row.Scan(&sess.ID, &sess.Title, &sess.CreatedAt, &sess.UpdatedAt); err != nil {
		return nil, err
	}
	return &sess, nil
}

func (s *PostgresStore) InsertMessage(ctx context.Context, sessionID string, role store.Role, content string) (*store.Message, error) {
	row := s.pool.QueryRow(ctx,
		`INSERT INTO messages (session_id, role, content)
		 VALUES ($1, $2, $3)
		 RETURNING id, session_id, role, content, created_at`,
		sessionID, role, content)
	var m store.Message
	if err := row.Scan(&m.ID, &m.SessionID, &m.Role, &m.Content, &m.CreatedAt); err != nil {
		return nil, err
	}
	return &m, nil
}

func (s *PostgresStore) ListMessagesBySessionID(ctx context.Context, sessionID string) ([]store.Message, error) {
	rows, err := s.pool.Query(ctx,
		`SELECT id, session_id, role, content, created_at
		 FROM messages WHERE session_id = $1 ORDER BY created_at ASC`,
		sessionID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var list []store.Message
	for rows.Next() {
		var m store.Message
		if err := rows.Scan(&m.ID, &m.SessionID, &m.Role, &m.Content, &m.CreatedAt); err != nil {
			return nil, err
		}
		list = append(list, m)
	}
	return list, rows.Err()
}

func (s *PostgresStore) ListArticles(ctx context.Context) ([]store.Article, error) {
	rows, err := s.pool.Query(ctx,
		`SELECT id, title, summary, content, source, source_url, image_url, category, published_at
		 FROM immigration_news ORDER BY published_at DESC`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var list []store.Article
	for rows.Next() {
		var a store.Article
		if err := rows.Scan(&a.ID, &a.Title, &a.Summary, &a.Content, &a.Source, &a.SourceURL, &a.ImageURL, &a.Category, &a.PublishedAt); err != nil {
			return nil, err
		}
		list = append(list, a)
	}
	return list, rows.Err()
}
