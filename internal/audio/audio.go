package audio

import (
	"context"

	"github.com/valerie-05/AI-Immigration-Assistant/internal/speech"
)

// Playback is one in-flight playback on a device. Done is closed when the
// playback ends, whether it ran to completion or was stopped.
type Playback interface {
	Done() <-chan struct{}
	Stop()
}

// Device starts playback of a clip.
type Device interface {
	Start(ctx context.Context, clip *speech.Clip) (Playback, error)
}

type DeviceFactory func() Device
