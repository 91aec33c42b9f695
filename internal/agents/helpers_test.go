package agents_test

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"path/filepath"
	"sync"
	"testing"
	"time"

	"github.com/Mark0025/peterental/internal/agents"
	"github.com/Mark0025/peterental/internal/session"
	"github.com/Mark0025/peterental/internal/vapi"
	"github.com/Mark0025/peterental/pkg/lifecycle"
	"github.com/Mark0025/peterental/pkg/pagination"
	"github.com/Mark0025/peterental/pkg/storage"
)

func discard() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func newStore(t *testing.T) storage.System {
	t.Helper()
	dir := t.TempDir()

	cfg := &storage.Config{
		Driver:        storage.DriverFilesystem,
		BasePath:      filepath.Join(dir, "blobs"),
		MaxObjectSize: "1MB",
	}
	if err := cfg.Finalize(nil); err != nil {
		t.Fatalf("Finalize() error = %v", err)
	}

	sys, err := storage.New(cfg, discard(), nil)
	if err != nil {
		t.Fatalf("New() error = %v", err)
	}

	lc := lifecycle.New()
	if err := sys.Start(lc); err != nil {
		t.Fatalf("Start() error = %v", err)
	}
	lc.WaitForStartup()
	t.Cleanup(func() { lc.Shutdown(5 * time.Second) })

	return sys
}

// fakeRemote records calls. When gate is set, Create blocks until it is
// closed or ctx ends.
type fakeRemote struct {
	mu         sync.Mutex
	creates    int
	updates    int
	pushed     []*vapi.Assistant
	assistants map[string]*vapi.Assistant
	err        error
	gate       chan struct{}
}

func (f *fakeRemote) Create(ctx context.Context, a *vapi.Assistant) (*vapi.Assistant, error) {
	f.mu.Lock()
	f.creates++
	f.pushed = append(f.pushed, a)
	n := f.creates
	gate := f.gate
	f.mu.Unlock()

	if gate != nil {
		select {
		case <-gate:
		case <-ctx.Done():
			return nil, ctx.Err()
		}
	}
	if f.err != nil {
		return nil, f.err
	}
	return &vapi.Assistant{ID: fmt.Sprintf("asst_%d", n), Name: a.Name}, nil
}

func (f *fakeRemote) Update(ctx context.Context, id string, a *vapi.Assistant) (*vapi.Assistant, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.updates++
	f.pushed = append(f.pushed, a)
	if f.err != nil {
		return nil, f.err
	}
	return &vapi.Assistant{ID: id, Name: a.Name}, nil
}

func (f *fakeRemote) Get(ctx context.Context, id string) (*vapi.Assistant, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if a, ok := f.assistants[id]; ok {
		return a, nil
	}
	return nil, &vapi.StatusError{StatusCode: 404, Body: "not found"}
}

func (f *fakeRemote) counts() (int, int) {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.creates, f.updates
}

var syncSettings = agents.SyncSettings{
	ModelProvider: "openai",
	VoiceProvider: "11labs",
	WebhookURL:    webhook,
}

type env struct {
	repo   *agents.Repository
	remote *fakeRemote
	syncer *agents.Synchronizer
	sys    agents.System
}

func newEnv(t *testing.T, remote agents.Remote) *env {
	t.Helper()
	repo := agents.NewRepository(newStore(t))
	syncer := agents.NewSynchronizer(remote, repo, syncSettings, discard())
	e := &env{
		repo:   repo,
		syncer: syncer,
		sys:    agents.New(repo, syncer, discard(), pagination.Config{DefaultPageSize: 20, MaxPageSize: 100}),
	}
	if f, ok := remote.(*fakeRemote); ok {
		e.remote = f
	}
	return e
}

func asUser(userID string) context.Context {
	return session.WithSession(context.Background(), session.Session{UserID: userID})
}

func createCommand(userID string) agents.CreateCommand {
	f := fixture()
	return agents.CreateCommand{
		Name:         f.Name,
		UserID:       userID,
		VoiceID:      f.VoiceID,
		Model:        f.Model,
		SystemPrompt: f.SystemPrompt,
		FirstMessage: f.FirstMessage,
		Variables:    f.Variables,
		Functions:    f.Functions,
	}
}

// joins returns a channel that receives the config id each time a caller
// enters a sync flight.
func (e *env) joins() <-chan string {
	ch := make(chan string, 16)
	agents.SetJoinHook(e.syncer, func(id string) { ch <- id })
	return ch
}

func waitJoins(t *testing.T, ch <-chan string, n int) {
	t.Helper()
	for range n {
		select {
		case <-ch:
		case <-time.After(5 * time.Second):
			t.Fatalf("timed out waiting for %d sync callers", n)
		}
	}
}
