package speech

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"sync"

	"github.com/google/uuid"
	"github.com/valerie-05/AI-Immigration-Assistant/internal/language"
)

// Backend performs one raw synthesis request and returns the binary audio
// payload.
type Backend interface {
	Synthesize(ctx context.Context, voiceID, text string) ([]byte, error)
}

// StatusError reports a non-success response from the synthesis backend.
type StatusError struct {
	Code int
}

func (e *StatusError) Error() string {
	return fmt.Sprintf("speech synthesis returned status %d", e.Code)
}

// Clip is a locally-addressable, revocable handle to one synthesized audio
// payload. Release removes the underlying file and is idempotent.
type Clip struct {
	ID   string
	Path string

	mu       sync.Mutex
	released bool
}

func (c *Clip) Release() {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.released {
		return
	}
	c.released = true
	if err := os.Remove(c.Path); err != nil && !os.IsNotExist(err) {
		slog.Warn("failed to remove audio clip file", "error", err, "path", c.Path)
	}
}

// Client resolves a language to a voice, localizes the text, and turns the
// backend's payload into a Clip. A nil backend means synthesis is not
// configured and every request yields a nil clip.
type Client struct {
	registry *language.Registry
	backend  Backend
}

func NewClient(registry *language.Registry, backend Backend) *Client {
	return &Client{registry: registry, backend: backend}
}

// Synthesize returns a playable clip, or (nil, nil) when synthesis is not
// configured. Backend failures are returned to the caller, which treats
// them as a silent no-op.
func (c *Client) Synthesize(ctx context.Context, text, languageCode string) (*Clip, error) {
	if c.backend == nil {
		slog.Info("speech synthesis not configured; skipping")
		return nil, nil
	}

	entry := c.registry.Resolve(languageCode)
	localized := language.Localize(text, entry.Code)

	payload, err := c.backend.Synthesize(ctx, entry.VoiceID, localized)
	if err != nil {
		return nil, err
	}

	id := uuid.NewString()
	f, err := os.CreateTemp("", "guidance-audio-"+id+"-*.mp3")
	if err != nil {
		return nil, fmt.Errorf("materialize audio payload: %w", err)
	}
	if _, err := f.Write(payload); err != nil {
		_ = f.Close()
		_ = os.Remove(f.Name())
		return nil, fmt.Errorf("write audio payload: %w", err)
	}
	if err := f.Close(); err != nil {
		_ = os.Remove(f.Name())
		return nil, fmt.Errorf("close audio payload: %w", err)
	}
	return &Clip{ID: id, Path: f.Name()}, nil
}
