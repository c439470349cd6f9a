package conversation

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"sync"

	"github.com/valerie-05/AI-Immigration-Assistant/internal/audio"
	"github.com/valerie-05/AI-Immigration-Assistant/internal/guidance"
	"github.com/valerie-05/AI-Immigration-Assistant/internal/speech"
	"github.com/valerie-05/AI-Immigration-Assistant/internal/store"
)

const sessionTitle = "Immigration Chat"

type State int

const (
	StateUnopened State = iota
	StateInitializing
	StateReady
)

var (
	ErrNotReady      = errors.New("conversation is not ready")
	ErrBusy          = errors.New("a guidance call is already outstanding")
	ErrEmptyQuestion = errors.New("question is empty")
	ErrNoSuchMessage = errors.New("message not found in conversation log")
)

// Turn is one user submission and its assistant response.
type Turn struct {
	User      store.Message
	Assistant store.Message
}

// Conversation owns one session's identity, its ordered message log, and
// the playback slot for its audio. All mutation goes through the mutex; a
// second Submit while one is outstanding is rejected, not queued.
type Conversation struct {
	store    store.Store
	guide    *guidance.Client
	speech   *speech.Client
	playback *audio.Controller

	mu            sync.Mutex
	state         State
	session       *store.Session
	log           []store.Message
	awaiting      bool
	audioInFlight map[string]struct{}
}

func New(st store.Store, guide *guidance.Client, sp *speech.Client, device audio.Device) *Conversation {
	return &Conversation{
		store:         st,
		guide:         guide,
		speech:        sp,
		playback:      audio.NewController(device),
		audioInFlight: make(map[string]struct{}),
	}
}

// Open creates the session record. On store failure the conversation stays
// in Initializing and a later Open retries; opening a Ready conversation is
// a no-op.
func (c *Conversation) Open(ctx context.Context) error {
	c.mu.Lock()
	if c.state == StateReady {
		c.mu.Unlock()
		return nil
	}
	c.state = StateInitializing
	c.mu.Unlock()

	sess, err := c.store.CreateSession(ctx, sessionTitle)
	if err != nil {
		slog.Error("failed to create session", "error", err)
		return err
	}
	if sess == nil {
		err := fmt.Errorf("store returned no session")
		slog.Error("failed to create session", "error", err)
		return err
	}

	c.mu.Lock()
	c.session = sess
	c.state = StateReady
	c.mu.Unlock()
	slog.Info("conversation opened", "session_id", sess.ID)
	return nil
}

func (c *Conversation) State() State {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.state
}

// SessionID returns the session identity, empty until Open succeeds.
func (c *Conversation) SessionID() string {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.session == nil {
		return ""
	}
	return c.session.ID
}

// Session returns a copy of the session record, nil until Open succeeds.
func (c *Conversation) Session() *store.Session {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.session == nil {
		return nil
	}
	sess := *c.session
	return &sess
}

// Submit runs one turn: persist the user message, obtain guidance, persist
// the assistant message. Blank questions and reentrant calls are rejected
// before any store write or guidance call. A persistence failure aborts the
// turn without retry; an already-logged user message stays in the log, so
// the log and the store diverge for that turn only.
func (c *Conversation) Submit(ctx context.Context, question string) (*Turn, error) {
	question = strings.TrimSpace(question)

	c.mu.Lock()
	if question == "" {
		c.mu.Unlock()
		return nil, ErrEmptyQuestion
	}
	if c.state != StateReady {
		c.mu.Unlock()
		return nil, ErrNotReady
	}
	if c.awaiting {
		c.mu.Unlock()
		return nil, ErrBusy
	}
	c.awaiting = true
	sessionID := c.session.ID
	c.mu.Unlock()

	defer func() {
		c.mu.Lock()
		c.awaiting = false
		c.mu.Unlock()
	}()

	userMsg, err := c.store.InsertMessage(ctx, sessionID, store.RoleUser, question)
	if err != nil {
		slog.Error("failed to persist user message", "error", err, "session_id", sessionID)
		return nil, err
	}
	c.appendToLog(*userMsg)

	answer := c.guide.Guide(ctx, question)

	assistantMsg, err := c.store.InsertMessage(ctx, sessionID, store.RoleAssistant, answer)
	if err != nil {
		slog.Error("failed to persist assistant message", "error", err, "session_id", sessionID)
		return nil, err
	}
	c.appendToLog(*assistantMsg)

	return &Turn{User: *userMsg, Assistant: *assistantMsg}, nil
}

func (c *Conversation) appendToLog(m store.Message) {
	c.mu.Lock()
	c.log = append(c.log, m)
	c.mu.Unlock()
}

// RequestAudio synthesizes the message text and plays it. Failures are
// silent: no audio plays and nothing is surfaced beyond a log line. A
// duplicate trigger for a message whose synthesis is still in flight is a
// no-op.
func (c *Conversation) RequestAudio(ctx context.Context, messageID, text, languageCode string) {
	c.mu.Lock()
	if _, inFlight := c.audioInFlight[messageID]; inFlight {
		c.mu.Unlock()
		return
	}
	c.audioInFlight[messageID] = struct{}{}
	c.mu.Unlock()

	defer func() {
		c.mu.Lock()
		delete(c.audioInFlight, messageID)
		c.mu.Unlock()
	}()

	clip, err := c.speech.Synthesize(ctx, text, languageCode)
	if err != nil {
		var statusErr *speech.StatusError
		if errors.As(err, &statusErr) {
			slog.Error("speech synthesis rejected", "status", statusErr.Code, "message_id", messageID)
		} else {
			slog.Error("speech synthesis failed", "error", err, "message_id", messageID)
		}
		return
	}
	if clip == nil {
		return
	}

	// Playback outlives the triggering request: the caller's context ends
	// when its handler returns, but the audio keeps playing until it
	// completes, a newer request interrupts it, or the conversation closes.
	if _, err := c.playback.Play(context.WithoutCancel(ctx), clip); err != nil {
		slog.Error("audio playback failed", "error", err, "message_id", messageID)
	}
}

// AudioActive reports whether this conversation has audio playing.
func (c *Conversation) AudioActive() bool {
	return c.playback.Active()
}

// StopAudio stops the current playback, if any.
func (c *Conversation) StopAudio() {
	c.playback.StopCurrent()
}

// Close stops playback and releases the playback slot. In-flight guidance
// or synthesis calls are not cancelled; their results are discarded.
func (c *Conversation) Close() {
	c.playback.StopCurrent()
}

// Log returns a copy of the ordered in-memory message log.
func (c *Conversation) Log() []store.Message {
	c.mu.Lock()
	defer c.mu.Unlock()
	out := make([]store.Message, len(c.log))
	copy(out, c.log)
	return out
}

// Export returns the content of one logged message and a filename for the
// downloadable text artifact.
func (c *Conversation) Export(messageID string) (content, filename string, err error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	for _, m := range c.log {
		if m.ID == messageID {
			return m.Content, fmt.Sprintf("immigration-guidance-%s.txt", m.ID), nil
		}
	}
	return "", "", ErrNoSuchMessage
}
