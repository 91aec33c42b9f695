package api

import (
	"github.com/Mark0025/peterental/internal/config"
	"github.com/Mark0025/peterental/internal/infrastructure"
	"github.com/Mark0025/peterental/internal/session"
	"github.com/Mark0025/peterental/pkg/pagination"
)

// Runtime extends Infrastructure with API-specific configuration.
type Runtime struct {
	*infrastructure.Infrastructure
	Pagination pagination.Config
	Sessions   *session.Resolver
}

// NewRuntime creates an API runtime with a module-scoped logger.
func NewRuntime(cfg *config.Config, infra *infrastructure.Infrastructure) *Runtime {
	scoped := *infra
	scoped.Logger = infra.Logger.With("module", "api")

	return &Runtime{
		Infrastructure: &scoped,
		Pagination:     cfg.API.Pagination,
		Sessions:       session.NewResolver(&cfg.Auth),
	}
}
