package audio

import (
	"context"
	"sync"

	"github.com/valerie-05/AI-Immigration-Assistant/internal/speech"
)

// Controller owns the single "currently playing audio" slot. Starting a new
// playback always stops and releases the previous one first; there is no
// queueing, the newest request wins.
type Controller struct {
	device Device

	mu     sync.Mutex
	active *Handle
}

func NewController(device Device) *Controller {
	return &Controller{device: device}
}

// Handle references one playback started by the controller.
type Handle struct {
	clip     *speech.Clip
	playback Playback

	mu     sync.Mutex
	active bool
}

func (h *Handle) IsActive() bool {
	h.mu.Lock()
	defer h.mu.Unlock()
	return h.active
}

func (h *Handle) deactivate() {
	h.mu.Lock()
	if !h.active {
		h.mu.Unlock()
		return
	}
	h.active = false
	h.mu.Unlock()
	h.playback.Stop()
	h.clip.Release()
}

// Play stops any active playback, releases its clip, then starts the new
// one. On a device failure the clip is released and no handle becomes
// active.
func (c *Controller) Play(ctx context.Context, clip *speech.Clip) (*Handle, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.stopLocked()

	playback, err := c.device.Start(ctx, clip)
	if err != nil {
		clip.Release()
		return nil, err
	}
	h := &Handle{clip: clip, playback: playback, active: true}
	c.active = h

	go c.watchCompletion(h)
	return h, nil
}

// StopCurrent stops the active playback, if any. Safe to call repeatedly.
func (c *Controller) StopCurrent() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.stopLocked()
}

func (c *Controller) stopLocked() {
	h := c.active
	if h == nil {
		return
	}
	c.active = nil
	h.deactivate()
}

func (c *Controller) watchCompletion(h *Handle) {
	<-h.playback.Done()
	c.mu.Lock()
	if c.active == h {
		c.active = nil
	}
	c.mu.Unlock()
	h.deactivate()
}

// Active reports whether any playback is currently active.
func (c *Controller) Active() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.active != nil
}
