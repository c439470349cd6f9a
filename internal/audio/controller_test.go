package audio

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"sync"
	"testing"
	"time"

	"github.com/valerie-05/AI-Immigration-Assistant/internal/speech"
)

type fakePlayback struct {
	done chan struct{}
	once sync.Once
}

func newFakePlayback() *fakePlayback {
	return &fakePlayback{done: make(chan struct{})}
}

func (p *fakePlayback) Done() <-chan struct{} { return p.done }

func (p *fakePlayback) Stop() {
	p.once.Do(func() { close(p.done) })
}

type fakeDevice struct {
	playbacks []*fakePlayback
	startErr  error
}

func (d *fakeDevice) Start(_ context.Context, _ *speech.Clip) (Playback, error) {
	if d.startErr != nil {
		return nil, d.startErr
	}
	p := newFakePlayback()
	d.playbacks = append(d.playbacks, p)
	return p, nil
}

func testClip(t *testing.T, name string) *speech.Clip {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	if err := os.WriteFile(path, []byte("audio"), 0o600); err != nil {
		t.Fatalf("failed to write clip file: %v", err)
	}
	return &speech.Clip{ID: name, Path: path}
}

func waitFor(t *testing.T, cond func() bool) {
	t.Helper()
	deadline := time.Now().Add(2 * time.Second)
	for time.Now().Before(deadline) {
		if cond() {
			return
		}
		time.Sleep(5 * time.Millisecond)
	}
	t.Fatal("condition not met before deadline")
}

func TestPlay_StopsPreviousBeforeStartingNext(t *testing.T) {
	device := &fakeDevice{}
	c := NewController(device)

	clipA := testClip(t, "a.mp3")
	clipB := testClip(t, "b.mp3")

	handleA, err := c.Play(context.Background(), clipA)
	if err != nil {
		t.Fatalf("expected no error, got %v", err)
	}
	if !handleA.IsActive() {
		t.Fatal("expected A to be active")
	}

	handleB, err := c.Play(context.Background(), clipB)
	if err != nil {
		t.Fatalf("expected no error, got %v", err)
	}
	if handleA.IsActive() {
		t.Fatal("expected A to be inactive after starting B")
	}
	if !handleB.IsActive() {
		t.Fatal("expected B to be active")
	}
	if _, err := os.Stat(clipA.Path); !os.IsNotExist(err) {
		t.Fatal("expected A's clip to be released")
	}
	if _, err := os.Stat(clipB.Path); err != nil {
		t.Fatalf("expected B's clip to still exist: %v", err)
	}
}

func TestStopCurrent_Idempotent(t *testing.T) {
	device := &fakeDevice{}
	c := NewController(device)

	handle, err := c.Play(context.Background(), testClip(t, "a.mp3"))
	if err != nil {
		t.Fatalf("expected no error, got %v", err)
	}

	c.StopCurrent()
	if handle.IsActive() {
		t.Fatal("expected handle to be inactive after stop")
	}
	if c.Active() {
		t.Fatal("expected controller to be inactive after stop")
	}
	c.StopCurrent()
	c.StopCurrent()
}

func TestNaturalCompletion_ReleasesAndClears(t *testing.T) {
	device := &fakeDevice{}
	c := NewController(device)

	clip := testClip(t, "a.mp3")
	handle, err := c.Play(context.Background(), clip)
	if err != nil {
		t.Fatalf("expected no error, got %v", err)
	}

	device.playbacks[0].Stop() // simulates the playback reaching its end
	waitFor(t, func() bool { return !c.Active() && !handle.IsActive() })
	waitFor(t, func() bool {
		_, err := os.Stat(clip.Path)
		return os.IsNotExist(err)
	})
}

func TestPlay_DeviceFailureReleasesClip(t *testing.T) {
	device := &fakeDevice{startErr: errors.New("device unavailable")}
	c := NewController(device)

	clip := testClip(t, "a.mp3")
	if _, err := c.Play(context.Background(), clip); err == nil {
		t.Fatal("expected device error")
	}
	if c.Active() {
		t.Fatal("expected no active playback after device failure")
	}
	if _, err := os.Stat(clip.Path); !os.IsNotExist(err) {
		t.Fatal("expected clip release after device failure")
	}
}
