package agents

import (
	"context"
	"fmt"
	"log/slog"
	"slices"
	"strings"

	"github.com/Mark0025/peterental/internal/session"
	"github.com/Mark0025/peterental/internal/vapi"
	"github.com/Mark0025/peterental/pkg/pagination"
)

// System defines the agent config operations. Operations act on behalf of
// the session user in ctx: listings are filtered to that user, and configs
// owned by someone else are reported as not found. Without a session user
// nothing is filtered.
type System interface {
	List(ctx context.Context, page pagination.PageRequest, filters Filters) (*pagination.PageResult[AgentConfig], error)
	Find(ctx context.Context, id string) (*AgentConfig, error)
	Create(ctx context.Context, cmd CreateCommand) (*AgentConfig, error)
	Update(ctx context.Context, id string, cmd UpdateCommand) (*AgentConfig, error)
	Delete(ctx context.Context, id string) error
	Unlink(ctx context.Context, id string) (*AgentConfig, error)

	Prompt(ctx context.Context, id string) (string, error)
	Functions(ctx context.Context, id string) ([]vapi.Function, error)
	Sync(ctx context.Context, id string) (SyncResult, error)
	Import(ctx context.Context, assistantID string) ImportResult

	CurrentUser(ctx context.Context) (string, error)
	SetCurrentUser(ctx context.Context, userID string) error
}

type service struct {
	repo       *Repository
	sync       *Synchronizer
	logger     *slog.Logger
	pagination pagination.Config
}

// New creates the agents system over repo, pushing to VAPI through syncer.
func New(repo *Repository, syncer *Synchronizer, logger *slog.Logger, pagination pagination.Config) System {
	return &service{
		repo:       repo,
		sync:       syncer,
		logger:     logger.With("system", "agents"),
		pagination: pagination,
	}
}

func (s *service) List(ctx context.Context, page pagination.PageRequest, filters Filters) (*pagination.PageResult[AgentConfig], error) {
	page.Normalize(s.pagination)

	all, err := s.repo.List(ctx, session.UserID(ctx))
	if err != nil {
		return nil, err
	}

	matched := make([]AgentConfig, 0, len(all))
	for _, c := range all {
		if filters.match(&c) && matchSearch(&c, page.Search) {
			matched = append(matched, c)
		}
	}
	sortConfigs(matched, page.Sort)

	result := pagination.Slice(matched, page)
	return &result, nil
}

func (s *service) Find(ctx context.Context, id string) (*AgentConfig, error) {
	cfg, err := s.repo.Find(ctx, id)
	if err != nil {
		return nil, err
	}
	if !owns(ctx, cfg) {
		return nil, ErrNotFound
	}
	return cfg, nil
}

func (s *service) Create(ctx context.Context, cmd CreateCommand) (*AgentConfig, error) {
	userID := session.UserID(ctx)
	if userID == "" {
		userID = strings.TrimSpace(cmd.UserID)
	}
	if userID == "" {
		return nil, fmt.Errorf("%w: user_id required", ErrInvalidConfig)
	}

	cfg := AgentConfig{
		UserID:     userID,
		SyncStatus: StatusDraft,
	}
	UpdateCommand{
		Name:         cmd.Name,
		Description:  cmd.Description,
		VoiceID:      cmd.VoiceID,
		Model:        cmd.Model,
		SystemPrompt: cmd.SystemPrompt,
		FirstMessage: cmd.FirstMessage,
		Variables:    cmd.Variables,
		Functions:    cmd.Functions,
	}.apply(&cfg)
	cfg.assignIDs()

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	created, err := s.repo.Insert(ctx, cfg)
	if err != nil {
		return nil, err
	}

	s.logWarnings(created)
	s.logger.Info("agent config created", "id", created.ID, "user_id", created.UserID)
	return created, nil
}

func (s *service) Update(ctx context.Context, id string, cmd UpdateCommand) (*AgentConfig, error) {
	updated, err := s.modifyOwned(ctx, id, func(c *AgentConfig) error {
		cmd.apply(c)
		c.assignIDs()
		return c.Validate()
	})
	if err != nil {
		return nil, err
	}

	s.logWarnings(updated)
	s.logger.Info("agent config updated", "id", id)
	return updated, nil
}

func (s *service) Delete(ctx context.Context, id string) error {
	if _, err := s.Find(ctx, id); err != nil {
		return err
	}
	if err := s.repo.Remove(ctx, id); err != nil {
		return err
	}

	s.logger.Info("agent config deleted", "id", id)
	return nil
}

// Unlink clears the remote assistant reference and returns the config to
// draft. The remote assistant is left in place.
func (s *service) Unlink(ctx context.Context, id string) (*AgentConfig, error) {
	cfg, err := s.modifyOwned(ctx, id, func(c *AgentConfig) error {
		c.VAPIAssistantID = ""
		c.SyncStatus = StatusDraft
		c.LastSyncedAt = nil
		c.SyncError = ""
		return nil
	})
	if err != nil {
		return nil, err
	}

	s.logger.Info("agent config unlinked", "id", id)
	return cfg, nil
}

func (s *service) Prompt(ctx context.Context, id string) (string, error) {
	cfg, err := s.Find(ctx, id)
	if err != nil {
		return "", err
	}
	return GenerateSystemPrompt(cfg), nil
}

func (s *service) Functions(ctx context.Context, id string) ([]vapi.Function, error) {
	cfg, err := s.Find(ctx, id)
	if err != nil {
		return nil, err
	}
	return GenerateFunctionConfig(cfg, s.sync.settings.WebhookURL), nil
}

func (s *service) Sync(ctx context.Context, id string) (SyncResult, error) {
	if _, err := s.Find(ctx, id); err != nil {
		return SyncResult{}, err
	}
	return s.sync.Sync(ctx, id)
}

func (s *service) Import(ctx context.Context, assistantID string) ImportResult {
	return s.sync.Import(ctx, assistantID, session.UserID(ctx))
}

func (s *service) CurrentUser(ctx context.Context) (string, error) {
	return s.repo.CurrentUser(ctx)
}

func (s *service) SetCurrentUser(ctx context.Context, userID string) error {
	return s.repo.SetCurrentUser(ctx, strings.TrimSpace(userID))
}

func (s *service) modifyOwned(ctx context.Context, id string, fn func(*AgentConfig) error) (*AgentConfig, error) {
	return s.repo.Modify(ctx, id, func(c *AgentConfig) error {
		if !owns(ctx, c) {
			return ErrNotFound
		}
		return fn(c)
	})
}

func (s *service) logWarnings(cfg *AgentConfig) {
	for _, w := range cfg.Warnings() {
		s.logger.Warn("agent config warning", "id", cfg.ID, "warning", w)
	}
}

func owns(ctx context.Context, cfg *AgentConfig) bool {
	userID := session.UserID(ctx)
	return userID == "" || cfg.UserID == userID
}

func matchSearch(c *AgentConfig, search *string) bool {
	if search == nil || *search == "" {
		return true
	}
	q := strings.ToLower(*search)
	return strings.Contains(strings.ToLower(c.Name), q) ||
		strings.Contains(strings.ToLower(c.Description), q)
}

func sortConfigs(configs []AgentConfig, fields []pagination.SortField) {
	if len(fields) == 0 {
		return
	}
	slices.SortStableFunc(configs, func(a, b AgentConfig) int {
		for _, f := range fields {
			c := compareField(&a, &b, f.Field)
			if f.Descending {
				c = -c
			}
			if c != 0 {
				return c
			}
		}
		return 0
	})
}
