package httpapi

import (
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"github.com/valerie-05/AI-Immigration-Assistant/internal/conversation"
	"github.com/valerie-05/AI-Immigration-Assistant/internal/language"
	"github.com/valerie-05/AI-Immigration-Assistant/internal/news"
	"github.com/valerie-05/AI-Immigration-Assistant/internal/store"
)

// Server exposes the conversation, language, and news operations to the
// display layer.
type Server struct {
	manager         *conversation.Manager
	registry        *language.Registry
	news            *news.Service
	defaultLanguage string
}

func NewServer(manager *conversation.Manager, registry *language.Registry, newsService *news.Service, defaultLanguage string) *Server {
	return &Server{
		manager:         manager,
		registry:        registry,
		news:            newsService,
		defaultLanguage: defaultLanguage,
	}
}

func (s *Server) Handler() http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc("POST /api/sessions", s.handleOpenSession)
	mux.HandleFunc("DELETE /api/sessions/{id}", s.handleCloseSession)
	mux.HandleFunc("GET /api/sessions/{id}/messages", s.handleListMessages)
	mux.HandleFunc("POST /api/sessions/{id}/messages", s.handleSubmit)
	mux.HandleFunc("POST /api/sessions/{id}/audio", s.handleRequestAudio)
	mux.HandleFunc("DELETE /api/sessions/{id}/audio", s.handleStopAudio)
	mux.HandleFunc("GET /api/sessions/{id}/messages/{messageID}/export", s.handleExport)
	mux.HandleFunc("GET /api/languages", s.handleListLanguages)
	mux.HandleFunc("GET /api/news", s.handleListNews)
	mux.HandleFunc("GET /api/news/categories", s.handleListNewsCategories)
	return mux
}

type sessionResponse struct {
	ID        string    `json:"id"`
	Title     string    `json:"title"`
	CreatedAt time.Time `json:"created_at"`
}

type messageResponse struct {
	ID        string    `json:"id"`
	SessionID string    `json:"session_id"`
	Role      string    `json:"role"`
	Content   string    `json:"content"`
	CreatedAt time.Time `json:"created_at"`
}

func toMessageResponse(m store.Message) messageResponse {
	return messageResponse{
		ID:        m.ID,
		SessionID: m.SessionID,
		Role:      string(m.Role),
		Content:   m.Content,
		CreatedAt: m.CreatedAt,
	}
}

func (s *Server) handleOpenSession(w http.ResponseWriter, r *http.Request) {
	c, err := s.manager.Open(r.Context())
	if err != nil {
		slog.Error("failed to open conversation", "error", err)
		writeError(w, http.StatusBadGateway, "could not open a conversation")
		return
	}
	sess := c.Session()
	writeJSON(w, http.StatusCreated, sessionResponse{
		ID:        sess.ID,
		Title:     sess.Title,
		CreatedAt: sess.CreatedAt,
	})
}

func (s *Server) handleCloseSession(w http.ResponseWriter, r *http.Request) {
	if !s.manager.Close(r.PathValue("id")) {
		writeError(w, http.StatusNotFound, "unknown session")
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (s *Server) handleListMessages(w http.ResponseWriter, r *http.Request) {
	c, ok := s.manager.Get(r.PathValue("id"))
	if !ok {
		writeError(w, http.StatusNotFound, "unknown session")
		return
	}
	log := c.Log()
	out := make([]messageResponse, 0, len(log))
	for _, m := range log {
		out = append(out, toMessageResponse(m))
	}
	writeJSON(w, http.StatusOK, out)
}

type submitRequest struct {
	Question string `json:"question"`
}

type submitResponse struct {
	User      messageResponse `json:"user"`
	Assistant messageResponse `json:"assistant"`
}

func (s *Server) handleSubmit(w http.ResponseWriter, r *http.Request) {
	c, ok := s.manager.Get(r.PathValue("id"))
	if !ok {
		writeError(w, http.StatusNotFound, "unknown session")
		return
	}
	var req submitRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	turn, err := c.Submit(r.Context(), req.Question)
	switch {
	case errors.Is(err, conversation.ErrEmptyQuestion):
		writeError(w, http.StatusBadRequest, "question is empty")
		return
	case errors.Is(err, conversation.ErrBusy):
		writeError(w, http.StatusConflict, "a previous question is still being answered")
		return
	case errors.Is(err, conversation.ErrNotReady):
		writeError(w, http.StatusConflict, "conversation is not ready")
		return
	case err != nil:
		slog.Error("turn failed", "error", err, "session_id", c.SessionID())
		writeError(w, http.StatusBadGateway, "could not record the message")
		return
	}

	writeJSON(w, http.StatusOK, submitResponse{
		User:      toMessageResponse(turn.User),
		Assistant: toMessageResponse(turn.Assistant),
	})
}

type audioRequest struct {
	MessageID string `json:"message_id"`
	Text      string `json:"text"`
	Language  string `json:"language"`
}

func (s *Server) handleRequestAudio(w http.ResponseWriter, r *http.Request) {
	c, ok := s.manager.Get(r.PathValue("id"))
	if !ok {
		writeError(w, http.StatusNotFound, "unknown session")
		return
	}
	var req audioRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	if req.Language == "" {
		req.Language = s.defaultLanguage
	}
	// Audio degradation is silent: synthesis and playback failures end up
	// in the log only, never in the response.
	c.RequestAudio(r.Context(), req.MessageID, req.Text, req.Language)
	w.WriteHeader(http.StatusNoContent)
}

func (s *Server) handleStopAudio(w http.ResponseWriter, r *http.Request) {
	c, ok := s.manager.Get(r.PathValue("id"))
	if !ok {
		writeError(w, http.StatusNotFound, "unknown session")
		return
	}
	c.StopAudio()
	w.WriteHeader(http.StatusNoContent)
}

func (s *Server) handleExport(w http.ResponseWriter, r *http.Request) {
	c, ok := s.manager.Get(r.PathValue("id"))
	if !ok {
		writeError(w, http.StatusNotFound, "unknown session")
		return
	}
	content, filename, err := c.Export(r.PathValue("messageID"))
	if err != nil {
		writeError(w, http.StatusNotFound, "unknown message")
		return
	}
	w.Header().Set("Content-Type", "text/plain; charset=utf-8")
	w.Header().Set("Content-Disposition", fmt.Sprintf("attachment; filename=%q", filename))
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write([]byte(content))
}

type languageResponse struct {
	Code string `json:"code"`
	Name string `json:"name"`
}

func (s *Server) handleListLanguages(w http.ResponseWriter, _ *http.Request) {
	entries := s.registry.List()
	out := make([]languageResponse, 0, len(entries))
	for _, e := range entries {
		out = append(out, languageResponse{Code: e.Code, Name: e.Name})
	}
	writeJSON(w, http.StatusOK, out)
}

type articleResponse struct {
	ID          string    `json:"id"`
	Title       string    `json:"title"`
	Summary     string    `json:"summary"`
	Content     *string   `json:"content"`
	Source      string    `json:"source"`
	SourceURL   *string   `json:"source_url"`
	ImageURL    *string   `json:"image_url"`
	Category    string    `json:"category"`
	PublishedAt time.Time `json:"published_at"`
}

func (s *Server) handleListNews(w http.ResponseWriter, r *http.Request) {
	articles, err := s.news.List(r.Context(), r.URL.Query().Get("category"))
	if err != nil {
		slog.Error("failed to list news", "error", err)
		writeError(w, http.StatusBadGateway, "could not load news")
		return
	}
	out := make([]articleResponse, 0, len(articles))
	for _, a := range articles {
		out = append(out, articleResponse{
			ID:          a.ID,
			Title:       a.Title,
			Summary:     a.Summary,
			Content:     a.Content,
			Source:      a.Source,
			SourceURL:   a.SourceURL,
			ImageURL:    a.ImageURL,
			Category:    a.Category,
			PublishedAt: a.PublishedAt,
		})
	}
	writeJSON(w, http.StatusOK, out)
}

func (s *Server) handleListNewsCategories(w http.ResponseWriter, r *http.Request) {
	categories, err := s.news.Categories(r.Context())
	if err != nil {
		slog.Error("failed to list news categories", "error", err)
		writeError(w, http.StatusBadGateway, "could not load news categories")
		return
	}
	writeJSON(w, http.StatusOK, categories)
}

type errorResponse struct {
	Error string `json:"error"`
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		slog.Error("failed to encode response", "error", err)
	}
}

func writeError(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, errorResponse{Error: msg})
}
