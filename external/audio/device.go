package audio

import (
	"context"
	"sync"

	internalaudio "github.com/valerie-05/AI-Immigration-Assistant/internal/audio"
	"github.com/valerie-05/AI-Immigration-Assistant/internal/speech"
)

// SilentDevice is the default playback device for environments without
// audio hardware, such as the backend container. A playback stays open
// until it is stopped or its context ends; the interface layer streams the
// clip file to the listener itself.
type SilentDevice struct{}

func NewSilentDevice() internalaudio.Device {
	return &SilentDevice{}
}

func (d *SilentDevice) Start(ctx context.Context, _ *speech.Clip) (internalaudio.Playback, error) {
	p := &silentPlayback{done: make(chan struct{})}
	if ctx.Done() != nil {
		go func() {
			select {
			case <-ctx.Done():
				p.Stop()
			case <-p.done:
			}
		}()
	}
	return p, nil
}

type silentPlayback struct {
	done chan struct{}
	once sync.Once
}

func (p *silentPlayback) Done() <-chan struct{} {
	return p.done
}

func (p *silentPlayback) Stop() {
	p.once.Do(func() {
		close(p.done)
	})
}
