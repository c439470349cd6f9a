package conversation

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"testing"
	"time"

	"github.com/valerie-05/AI-Immigration-Assistant/internal/audio"
	"github.com/valerie-05/AI-Immigration-Assistant/internal/guidance"
	"github.com/valerie-05/AI-Immigration-Assistant/internal/language"
	"github.com/valerie-05/AI-Immigration-Assistant/internal/speech"
	"github.com/valerie-05/AI-Immigration-Assistant/internal/store"
)

type insertCall struct {
	SessionID string
	Role      store.Role
	Content   string
}

type mockStore struct {
	mu          sync.Mutex
	createCount int
	createErr   error
	insertCalls []insertCall
	insertErrBy map[store.Role]error
}

func (m *mockStore) CreateSession(_ context.Context, title string) (*store.Session, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.createErr != nil {
		return nil, m.createErr
	}
	m.createCount++
	now := time.Now()
	return &store.Session{
		ID:        fmt.Sprintf("session-%d", m.createCount),
		Title:     title,
		CreatedAt: now,
		UpdatedAt: now,
	}, nil
}

func (m *mockStore) InsertMessage(_ context.Context, sessionID string, role store.Role, content string) (*store.Message, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if err := m.insertErrBy[role]; err != nil {
		return nil, err
	}
	m.insertCalls = append(m.insertCalls, insertCall{SessionID: sessionID, Role: role, Content: content})
	return &store.Message{
		ID:        fmt.Sprintf("message-%d", len(m.insertCalls)),
		SessionID: sessionID,
		Role:      role,
		Content:   content,
		CreatedAt: time.Now(),
	}, nil
}

func (m *mockStore) ListMessagesBySessionID(_ context.Context, _ string) ([]store.Message, error) {
	return nil, nil
}

func (m *mockStore) ListArticles(_ context.Context) ([]store.Article, error) {
	return nil, nil
}

func (m *mockStore) inserts() []insertCall {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := make([]insertCall, len(m.insertCalls))
	copy(out, m.insertCalls)
	return out
}

type blockingGenerator struct {
	entered chan struct{}
	release chan struct{}
	calls   int
	mu      sync.Mutex
}

func (g *blockingGenerator) Generate(_ context.Context, _ string) (string, error) {
	g.mu.Lock()
	g.calls++
	g.mu.Unlock()
	if g.entered != nil {
		close(g.entered)
		g.entered = nil
	}
	if g.release != nil {
		<-g.release
	}
	return "generated answer", nil
}

type mockSpeechBackend struct {
	mu      sync.Mutex
	calls   int
	entered chan struct{}
	release chan struct{}
	payload []byte
	err     error
}

func (b *mockSpeechBackend) Synthesize(_ context.Context, _, _ string) ([]byte, error) {
	b.mu.Lock()
	b.calls++
	entered := b.entered
	b.entered = nil
	b.mu.Unlock()
	if entered != nil {
		close(entered)
	}
	if b.release != nil {
		<-b.release
	}
	return b.payload, b.err
}

func (b *mockSpeechBackend) callCount() int {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.calls
}

type fakePlayback struct {
	done chan struct{}
	once sync.Once
}

func (p *fakePlayback) Done() <-chan struct{} { return p.done }
func (p *fakePlayback) Stop()                 { p.once.Do(func() { close(p.done) }) }

type fakeDevice struct{}

func (d *fakeDevice) Start(_ context.Context, _ *speech.Clip) (audio.Playback, error) {
	return &fakePlayback{done: make(chan struct{})}, nil
}

func newTestConversation(st store.Store, gen guidance.Generator, backend speech.Backend) *Conversation {
	registry := language.NewRegistry()
	return New(st, guidance.NewClient(gen), speech.NewClient(registry, backend), &fakeDevice{})
}

func openTestConversation(t *testing.T, st store.Store, gen guidance.Generator, backend speech.Backend) *Conversation {
	t.Helper()
	c := newTestConversation(st, gen, backend)
	if err := c.Open(context.Background()); err != nil {
		t.Fatalf("failed to open conversation: %v", err)
	}
	return c
}

func TestOpen_FailureStaysInitializingAndRetryWorks(t *testing.T) {
	st := &mockStore{createErr: errors.New("store down")}
	c := newTestConversation(st, nil, nil)

	if err := c.Open(context.Background()); err == nil {
		t.Fatal("expected open to fail")
	}
	if c.State() != StateInitializing {
		t.Fatalf("expected Initializing after failure, got %v", c.State())
	}
	if _, err := c.Submit(context.Background(), "hello"); !errors.Is(err, ErrNotReady) {
		t.Fatalf("expected ErrNotReady, got %v", err)
	}

	st.mu.Lock()
	st.createErr = nil
	st.mu.Unlock()
	if err := c.Open(context.Background()); err != nil {
		t.Fatalf("expected retry to succeed, got %v", err)
	}
	if c.State() != StateReady {
		t.Fatalf("expected Ready after retry, got %v", c.State())
	}
}

func TestOpen_ReadyIsNoOp(t *testing.T) {
	st := &mockStore{}
	c := openTestConversation(t, st, nil, nil)
	sessionID := c.SessionID()
	if err := c.Open(context.Background()); err != nil {
		t.Fatalf("expected no error, got %v", err)
	}
	if c.SessionID() != sessionID {
		t.Fatal("expected reopening a ready conversation to keep its session")
	}
	if st.createCount != 1 {
		t.Fatalf("expected exactly one session creation, got %d", st.createCount)
	}
}

func TestSubmit_BlankQuestionIsNoOp(t *testing.T) {
	st := &mockStore{}
	gen := &blockingGenerator{}
	c := openTestConversation(t, st, gen, nil)

	for _, q := range []string{"", "   ", "\n\t"} {
		if _, err := c.Submit(context.Background(), q); !errors.Is(err, ErrEmptyQuestion) {
			t.Fatalf("expected ErrEmptyQuestion for %q, got %v", q, err)
		}
	}
	if len(st.inserts()) != 0 {
		t.Fatal("expected zero store writes for blank questions")
	}
	if gen.calls != 0 {
		t.Fatal("expected zero guidance calls for blank questions")
	}
}

func TestSubmit_TurnPersistsUserThenAssistant(t *testing.T) {
	st := &mockStore{}
	c := openTestConversation(t, st, nil, nil)

	question := "My student visa expires next year"
	turn, err := c.Submit(context.Background(), question)
	if err != nil {
		t.Fatalf("expected no error, got %v", err)
	}

	calls := st.inserts()
	if len(calls) != 2 {
		t.Fatalf("expected 2 store writes, got %d", len(calls))
	}
	if calls[0].Role != store.RoleUser || calls[0].Content != question {
		t.Fatalf("unexpected first write: %+v", calls[0])
	}
	if calls[1].Role != store.RoleAssistant {
		t.Fatalf("unexpected second write: %+v", calls[1])
	}
	// Unconfigured backend: the assistant text is the deterministic fallback.
	if calls[1].Content != guidance.Fallback(question) {
		t.Fatal("expected the student-visa fallback as the assistant content")
	}

	log := c.Log()
	if len(log) != 2 {
		t.Fatalf("expected 2 logged messages, got %d", len(log))
	}
	if log[0].Role != store.RoleUser || log[0].Content != question {
		t.Fatalf("unexpected first logged message: %+v", log[0])
	}
	if log[1].Role != store.RoleAssistant || log[1].Content != turn.Assistant.Content {
		t.Fatalf("unexpected second logged message: %+v", log[1])
	}
}

func TestSubmit_SecondConcurrentCallIsRejected(t *testing.T) {
	st := &mockStore{}
	gen := &blockingGenerator{
		entered: make(chan struct{}),
		release: make(chan struct{}),
	}
	c := openTestConversation(t, st, gen, nil)
	entered := gen.entered

	firstDone := make(chan error, 1)
	go func() {
		_, err := c.Submit(context.Background(), "first question")
		firstDone <- err
	}()

	<-entered
	if _, err := c.Submit(context.Background(), "second question"); !errors.Is(err, ErrBusy) {
		t.Fatalf("expected ErrBusy for reentrant submit, got %v", err)
	}

	close(gen.release)
	if err := <-firstDone; err != nil {
		t.Fatalf("expected first submit to succeed, got %v", err)
	}

	log := c.Log()
	if len(log) != 2 {
		t.Fatalf("expected exactly 2 messages, got %d", len(log))
	}
	if log[0].Role != store.RoleUser || log[1].Role != store.RoleAssistant {
		t.Fatalf("unexpected roles in log: %+v", log)
	}

	// The slot is free again once the turn completes.
	if _, err := c.Submit(context.Background(), "third question"); err != nil {
		t.Fatalf("expected submit to work after the turn completed, got %v", err)
	}
}

func TestSubmit_UserPersistFailureAbortsTurn(t *testing.T) {
	st := &mockStore{insertErrBy: map[store.Role]error{store.RoleUser: errors.New("insert failed")}}
	gen := &blockingGenerator{}
	c := openTestConversation(t, st, gen, nil)

	if _, err := c.Submit(context.Background(), "hello"); err == nil {
		t.Fatal("expected persistence error")
	}
	if len(c.Log()) != 0 {
		t.Fatal("expected empty log after aborted turn")
	}
	if gen.calls != 0 {
		t.Fatal("expected no guidance call after user persist failure")
	}
	// The guard is released, the next turn may proceed.
	st.mu.Lock()
	st.insertErrBy = nil
	st.mu.Unlock()
	if _, err := c.Submit(context.Background(), "hello again"); err != nil {
		t.Fatalf("expected submit to work after aborted turn, got %v", err)
	}
}

func TestSubmit_AssistantPersistFailureKeepsUserMessage(t *testing.T) {
	st := &mockStore{insertErrBy: map[store.Role]error{store.RoleAssistant: errors.New("insert failed")}}
	c := openTestConversation(t, st, nil, nil)

	if _, err := c.Submit(context.Background(), "hello"); err == nil {
		t.Fatal("expected persistence error")
	}
	log := c.Log()
	if len(log) != 1 || log[0].Role != store.RoleUser {
		t.Fatalf("expected only the user message in the log, got %+v", log)
	}
}

func TestRequestAudio_UnconfiguredLeavesControllerInactive(t *testing.T) {
	st := &mockStore{}
	c := openTestConversation(t, st, nil, nil)

	c.RequestAudio(context.Background(), "message-1", "hello", "zh")
	if c.AudioActive() {
		t.Fatal("expected no active playback when synthesis is unconfigured")
	}
}

func TestRequestAudio_StatusErrorIsSilent(t *testing.T) {
	st := &mockStore{}
	backend := &mockSpeechBackend{err: &speech.StatusError{Code: 500}}
	c := openTestConversation(t, st, nil, backend)

	c.RequestAudio(context.Background(), "message-1", "hello", "en")
	if c.AudioActive() {
		t.Fatal("expected no active playback after a synthesis status failure")
	}
	if backend.callCount() != 1 {
		t.Fatalf("expected one synthesis call, got %d", backend.callCount())
	}
}

func TestRequestAudio_SuccessActivatesPlayback(t *testing.T) {
	st := &mockStore{}
	backend := &mockSpeechBackend{payload: []byte("mp3")}
	c := openTestConversation(t, st, nil, backend)

	c.RequestAudio(context.Background(), "message-1", "hello", "es")
	if !c.AudioActive() {
		t.Fatal("expected active playback after successful synthesis")
	}
	c.StopAudio()
	if c.AudioActive() {
		t.Fatal("expected playback to stop")
	}
}

func TestRequestAudio_DuplicateTriggerIsNoOp(t *testing.T) {
	st := &mockStore{}
	backend := &mockSpeechBackend{
		payload: []byte("mp3"),
		entered: make(chan struct{}),
		release: make(chan struct{}),
	}
	c := openTestConversation(t, st, nil, backend)
	entered := backend.entered

	go c.RequestAudio(context.Background(), "message-1", "hello", "en")
	<-entered

	c.RequestAudio(context.Background(), "message-1", "hello", "en")
	if backend.callCount() != 1 {
		t.Fatalf("expected the duplicate trigger to be ignored, got %d calls", backend.callCount())
	}
	close(backend.release)

	deadline := time.Now().Add(2 * time.Second)
	for time.Now().Before(deadline) && !c.AudioActive() {
		time.Sleep(5 * time.Millisecond)
	}
	c.Close()
}

// cancelAwareDevice stops its playback when the start context ends, the way
// a real output device would.
type cancelAwareDevice struct{}

func (d *cancelAwareDevice) Start(ctx context.Context, _ *speech.Clip) (audio.Playback, error) {
	p := &fakePlayback{done: make(chan struct{})}
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

func TestRequestAudio_PlaybackSurvivesCallerContext(t *testing.T) {
	st := &mockStore{}
	backend := &mockSpeechBackend{payload: []byte("mp3")}
	registry := language.NewRegistry()
	c := New(st, guidance.NewClient(nil), speech.NewClient(registry, backend), &cancelAwareDevice{})
	if err := c.Open(context.Background()); err != nil {
		t.Fatalf("failed to open conversation: %v", err)
	}

	ctx, cancel := context.WithCancel(context.Background())
	c.RequestAudio(ctx, "message-1", "hello", "en")
	if !c.AudioActive() {
		t.Fatal("expected active playback")
	}

	// A request-scoped context ends as soon as its handler returns; the
	// playback must keep going until it is stopped or replaced.
	cancel()
	time.Sleep(20 * time.Millisecond)
	if !c.AudioActive() {
		t.Fatal("expected playback to survive the caller's context")
	}
	c.StopAudio()
	if c.AudioActive() {
		t.Fatal("expected playback to stop")
	}
}

func TestManagerClose_EvictsAndStopsPlayback(t *testing.T) {
	st := &mockStore{}
	backend := &mockSpeechBackend{payload: []byte("mp3")}
	registry := language.NewRegistry()
	m := NewManager(st, guidance.NewClient(nil), speech.NewClient(registry, backend),
		func() audio.Device { return &fakeDevice{} })

	c, err := m.Open(context.Background())
	if err != nil {
		t.Fatalf("failed to open conversation: %v", err)
	}
	sessionID := c.SessionID()
	c.RequestAudio(context.Background(), "message-1", "hello", "en")
	if !c.AudioActive() {
		t.Fatal("expected active playback")
	}

	if !m.Close(sessionID) {
		t.Fatal("expected close to report a known session")
	}
	if c.AudioActive() {
		t.Fatal("expected playback to stop on close")
	}
	if _, ok := m.Get(sessionID); ok {
		t.Fatal("expected the conversation to be evicted")
	}
	if m.Close(sessionID) {
		t.Fatal("expected a second close to report an unknown session")
	}
}

func TestClose_StopsPlayback(t *testing.T) {
	st := &mockStore{}
	backend := &mockSpeechBackend{payload: []byte("mp3")}
	c := openTestConversation(t, st, nil, backend)

	c.RequestAudio(context.Background(), "message-1", "hello", "en")
	if !c.AudioActive() {
		t.Fatal("expected active playback")
	}
	c.Close()
	if c.AudioActive() {
		t.Fatal("expected playback to stop on close")
	}
}

func TestExport_ReturnsLoggedContent(t *testing.T) {
	st := &mockStore{}
	c := openTestConversation(t, st, nil, nil)

	turn, err := c.Submit(context.Background(), "How do I get an H-1B?")
	if err != nil {
		t.Fatalf("expected no error, got %v", err)
	}

	content, filename, err := c.Export(turn.Assistant.ID)
	if err != nil {
		t.Fatalf("expected no error, got %v", err)
	}
	if content != turn.Assistant.Content {
		t.Fatal("expected the assistant message content")
	}
	if filename != fmt.Sprintf("immigration-guidance-%s.txt", turn.Assistant.ID) {
		t.Fatalf("unexpected filename: %s", filename)
	}

	if _, _, err := c.Export("missing"); !errors.Is(err, ErrNoSuchMessage) {
		t.Fatalf("expected ErrNoSuchMessage, got %v", err)
	}
}
