package api

import (
	"github.com/Mark0025/peterental/internal/agents"
	"github.com/Mark0025/peterental/internal/calendar"
	"github.com/Mark0025/peterental/internal/config"
	"github.com/Mark0025/peterental/internal/rentals"
)

// Domain holds all domain systems that comprise the API.
type Domain struct {
	Agents   agents.System
	Rentals  rentals.System
	Calendar calendar.System
}

// NewDomain creates all domain systems from the API runtime.
func NewDomain(cfg *config.Config, runtime *Runtime) (*Domain, error) {
	agentsSys, err := NewAgents(cfg, runtime)
	if err != nil {
		return nil, err
	}

	return &Domain{
		Agents:   agentsSys,
		Rentals:  rentals.New(runtime.Backend, runtime.Logger),
		Calendar: calendar.New(runtime.Backend, runtime.Logger),
	}, nil
}

// NewAgents builds the agents system over the runtime's storage and VAPI
// client. The CLI uses it directly.
func NewAgents(cfg *config.Config, runtime *Runtime) (agents.System, error) {
	policy, err := agents.ParseRequiredMerge(cfg.VAPI.RequiredMerge)
	if err != nil {
		return nil, err
	}

	repo := agents.NewRepository(runtime.Storage)
	syncer := agents.NewSynchronizer(
		runtime.VAPI,
		repo,
		agents.SyncSettings{
			ModelProvider: cfg.VAPI.ModelProvider,
			VoiceProvider: cfg.VAPI.VoiceProvider,
			WebhookURL:    cfg.Backend.WebhookURL(),
			RequiredMerge: policy,
		},
		runtime.Logger,
	)

	return agents.New(repo, syncer, runtime.Logger, runtime.Pagination), nil
}
