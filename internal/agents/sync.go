package agents

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"golang.org/x/sync/singleflight"

	"github.com/Mark0025/peterental/internal/vapi"
)

// Remote is the subset of the VAPI client used for sync and import.
type Remote interface {
	Create(ctx context.Context, a *vapi.Assistant) (*vapi.Assistant, error)
	Update(ctx context.Context, id string, a *vapi.Assistant) (*vapi.Assistant, error)
	Get(ctx context.Context, id string) (*vapi.Assistant, error)
}

// SyncResult reports a sync attempt. Failures are carried in Error; the
// underlying error is kept for status mapping and is not serialized.
type SyncResult struct {
	Success     bool   `json:"success"`
	Error       string `json:"error,omitempty"`
	AssistantID string `json:"assistant_id,omitempty"`

	err error
}

func (r SyncResult) Err() error {
	return r.err
}

func syncFailure(err error) SyncResult {
	return SyncResult{Error: err.Error(), err: err}
}

// ImportResult reports an import attempt.
type ImportResult struct {
	Success bool         `json:"success"`
	Error   string       `json:"error,omitempty"`
	Config  *AgentConfig `json:"config,omitempty"`

	err error
}

func (r ImportResult) Err() error {
	return r.err
}

// SyncSettings holds the fixed values embedded in every pushed assistant.
type SyncSettings struct {
	ModelProvider string
	VoiceProvider string
	WebhookURL    string
	RequiredMerge RequiredMerge
}

// Synchronizer pushes configs to VAPI and imports assistants from it.
// Concurrent syncs of the same config share one remote call.
type Synchronizer struct {
	remote   Remote
	repo     *Repository
	settings SyncSettings
	flight   singleflight.Group
	logger   *slog.Logger
	now      func() time.Time

	// joined runs after a caller has entered the flight for id.
	joined func(id string)
}

func NewSynchronizer(remote Remote, repo *Repository, settings SyncSettings, logger *slog.Logger) *Synchronizer {
	return &Synchronizer{
		remote:   remote,
		repo:     repo,
		settings: settings,
		logger:   logger.With("system", "sync"),
		now:      time.Now,
	}
}

// Assistant builds the remote representation of cfg.
func (s *Synchronizer) Assistant(cfg *AgentConfig) *vapi.Assistant {
	return &vapi.Assistant{
		Name: cfg.Name,
		Model: vapi.Model{
			Provider: s.settings.ModelProvider,
			Model:    cfg.Model,
			Messages: []vapi.Message{
				{Role: vapi.RoleSystem, Content: GenerateSystemPrompt(cfg)},
			},
			Functions: GenerateFunctionConfig(cfg, s.settings.WebhookURL),
		},
		Voice: vapi.Voice{
			Provider: s.settings.VoiceProvider,
			VoiceID:  cfg.VoiceID,
		},
		FirstMessage: cfg.FirstMessage,
		ServerURL:    s.settings.WebhookURL,
	}
}

// Push creates the remote assistant, or updates it when cfg is linked.
// It does not touch local storage and does not retry.
func (s *Synchronizer) Push(ctx context.Context, cfg *AgentConfig) SyncResult {
	a := s.Assistant(cfg)

	var (
		out *vapi.Assistant
		err error
	)
	if cfg.Linked() {
		out, err = s.remote.Update(ctx, cfg.VAPIAssistantID, a)
	} else {
		out, err = s.remote.Create(ctx, a)
	}
	if err != nil {
		return syncFailure(err)
	}

	return SyncResult{Success: true, AssistantID: out.ID}
}

// Sync pushes the stored config with the given id and records the outcome:
// status syncing while in flight, then synced with the remote id and sync
// time, or error with the failure text. Only lookup failures are returned
// as errors.
//
// The shared flight runs detached from any single caller. A caller whose
// context ends stops waiting and gets a failure result; the flight and the
// other callers are unaffected.
func (s *Synchronizer) Sync(ctx context.Context, id string) (SyncResult, error) {
	ch := s.flight.DoChan(id, func() (any, error) {
		return s.sync(context.WithoutCancel(ctx), id)
	})
	if s.joined != nil {
		s.joined(id)
	}

	select {
	case <-ctx.Done():
		return syncFailure(ctx.Err()), nil
	case res := <-ch:
		if res.Err != nil {
			return SyncResult{}, res.Err
		}
		return res.Val.(SyncResult), nil
	}
}

func (s *Synchronizer) sync(ctx context.Context, id string) (SyncResult, error) {
	cfg, err := s.repo.Modify(ctx, id, func(c *AgentConfig) error {
		c.SyncStatus = StatusSyncing
		return nil
	})
	if err != nil {
		return SyncResult{}, err
	}

	for _, w := range cfg.Warnings() {
		s.logger.Warn("syncing config with warnings", "id", id, "warning", w)
	}

	result := s.Push(ctx, cfg)

	_, err = s.repo.Modify(ctx, id, func(c *AgentConfig) error {
		if result.Success {
			now := s.now().UTC()
			c.VAPIAssistantID = result.AssistantID
			c.SyncStatus = StatusSynced
			c.LastSyncedAt = &now
			c.SyncError = ""
		} else {
			c.SyncStatus = StatusError
			c.SyncError = result.Error
		}
		return nil
	})
	if err != nil {
		s.logger.Error("record sync outcome failed", "id", id, "error", err)
	}

	if result.Success {
		s.logger.Info("config synced", "id", id, "assistant_id", result.AssistantID)
	} else {
		s.logger.Warn("config sync failed", "id", id, "error", result.Error)
	}
	return result, nil
}

// Import fetches a remote assistant, reconstructs a config owned by
// userID, and stores it.
func (s *Synchronizer) Import(ctx context.Context, assistantID, userID string) ImportResult {
	if assistantID == "" {
		err := fmt.Errorf("%w: assistant_id required", ErrInvalidConfig)
		return ImportResult{Error: err.Error(), err: err}
	}
	if userID == "" {
		return ImportResult{Error: ErrNoUser.Error(), err: ErrNoUser}
	}

	a, err := s.remote.Get(ctx, assistantID)
	if err != nil {
		err = fmt.Errorf("fetch assistant %s: %w", assistantID, err)
		return ImportResult{Error: err.Error(), err: err}
	}

	draft := Import(a, userID, s.now().UTC(), s.settings.RequiredMerge)

	cfg, err := s.repo.Insert(ctx, *draft)
	if err != nil {
		err = fmt.Errorf("store imported config: %w", err)
		return ImportResult{Error: err.Error(), err: err}
	}

	s.logger.Info("assistant imported",
		"id", cfg.ID,
		"assistant_id", assistantID,
		"variables", len(cfg.Variables),
		"functions", len(cfg.Functions),
	)
	return ImportResult{Success: true, Config: cfg}
}

// MapResultStatus maps a failed sync or import to an HTTP status.
func MapResultStatus(err error) int {
	if errors.Is(err, ErrNotFound) || errors.Is(err, ErrInvalidConfig) || errors.Is(err, ErrNoUser) {
		return MapHTTPStatus(err)
	}
	return vapi.MapHTTPStatus(err)
}
