package agents

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"slices"
	"sync"
	"time"

	"github.com/Mark0025/peterental/pkg/storage"
)

// Storage keys. All users' configs share one list under ConfigsKey.
const (
	ConfigsKey     = "peterental_agent_configs"
	CurrentUserKey = "peterental_current_user"
)

// Repository persists agent configs as a single JSON list in blob storage.
// Every write rewrites the whole list; the mutex serializes read-modify-write
// within the process and the last write wins across processes.
type Repository struct {
	store storage.System
	mu    sync.Mutex
	now   func() time.Time
}

func NewRepository(store storage.System) *Repository {
	return &Repository{
		store: store,
		now:   time.Now,
	}
}

// List returns the configs owned by userID, or every config when userID is "".
func (r *Repository) List(ctx context.Context, userID string) ([]AgentConfig, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	all, err := r.load(ctx)
	if err != nil {
		return nil, err
	}
	if userID == "" {
		return all, nil
	}

	owned := make([]AgentConfig, 0, len(all))
	for _, c := range all {
		if c.UserID == userID {
			owned = append(owned, c)
		}
	}
	return owned, nil
}

func (r *Repository) Find(ctx context.Context, id string) (*AgentConfig, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	all, err := r.load(ctx)
	if err != nil {
		return nil, err
	}

	i := index(all, id)
	if i < 0 {
		return nil, ErrNotFound
	}
	return &all[i], nil
}

// Insert assigns an id of the form agent_<user>_<unix millis>, bumping the
// timestamp until it is unique, and appends cfg.
func (r *Repository) Insert(ctx context.Context, cfg AgentConfig) (*AgentConfig, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	all, err := r.load(ctx)
	if err != nil {
		return nil, err
	}

	now := r.now().UTC()
	ms := now.UnixMilli()
	for {
		cfg.ID = fmt.Sprintf("agent_%s_%d", cfg.UserID, ms)
		if index(all, cfg.ID) < 0 {
			break
		}
		ms++
	}

	cfg.assignIDs()
	if cfg.SyncStatus == "" {
		cfg.SyncStatus = StatusDraft
	}
	cfg.CreatedAt = now
	cfg.UpdatedAt = now

	all = append(all, cfg)
	if err := r.save(ctx, all); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// Modify applies fn to the config with the given id and persists the list.
// If fn returns an error nothing is written.
func (r *Repository) Modify(ctx context.Context, id string, fn func(*AgentConfig) error) (*AgentConfig, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	all, err := r.load(ctx)
	if err != nil {
		return nil, err
	}

	i := index(all, id)
	if i < 0 {
		return nil, ErrNotFound
	}

	updated := all[i]
	if err := fn(&updated); err != nil {
		return nil, err
	}
	updated.ID = id
	updated.assignIDs()
	updated.UpdatedAt = r.now().UTC()
	all[i] = updated

	if err := r.save(ctx, all); err != nil {
		return nil, err
	}
	return &updated, nil
}

func (r *Repository) Remove(ctx context.Context, id string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	all, err := r.load(ctx)
	if err != nil {
		return err
	}

	i := index(all, id)
	if i < 0 {
		return ErrNotFound
	}

	return r.save(ctx, slices.Delete(all, i, i+1))
}

// CurrentUser returns the selected user id, or "" when none is selected.
func (r *Repository) CurrentUser(ctx context.Context) (string, error) {
	data, err := r.store.Retrieve(ctx, CurrentUserKey)
	if err != nil {
		if errors.Is(err, storage.ErrNotFound) {
			return "", nil
		}
		return "", fmt.Errorf("read current user: %w", err)
	}
	return string(data), nil
}

// SetCurrentUser selects userID. An empty id clears the selection.
func (r *Repository) SetCurrentUser(ctx context.Context, userID string) error {
	if userID == "" {
		if err := r.store.Delete(ctx, CurrentUserKey); err != nil {
			return fmt.Errorf("clear current user: %w", err)
		}
		return nil
	}
	if err := r.store.Store(ctx, CurrentUserKey, []byte(userID)); err != nil {
		return fmt.Errorf("write current user: %w", err)
	}
	return nil
}

func (r *Repository) load(ctx context.Context) ([]AgentConfig, error) {
	data, err := r.store.Retrieve(ctx, ConfigsKey)
	if err != nil {
		if errors.Is(err, storage.ErrNotFound) {
			return []AgentConfig{}, nil
		}
		return nil, fmt.Errorf("read agent configs: %w", err)
	}

	var all []AgentConfig
	if err := json.Unmarshal(data, &all); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrCorruptStore, err)
	}
	if all == nil {
		all = []AgentConfig{}
	}
	return all, nil
}

func (r *Repository) save(ctx context.Context, all []AgentConfig) error {
	data, err := json.Marshal(all)
	if err != nil {
		return fmt.Errorf("encode agent configs: %w", err)
	}
	if err := r.store.Store(ctx, ConfigsKey, data); err != nil {
		return fmt.Errorf("write agent configs: %w", err)
	}
	return nil
}

func index(all []AgentConfig, id string) int {
	return slices.IndexFunc(all, func(c AgentConfig) bool { return c.ID == id })
}
