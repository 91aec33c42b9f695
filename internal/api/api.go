// Package api assembles the /api module: domain systems, their routes, the
// OpenAPI document, and the module middleware chain.
package api

import (
	"net/http"

	"github.com/Mark0025/peterental/internal/config"
	"github.com/Mark0025/peterental/internal/infrastructure"
	"github.com/Mark0025/peterental/internal/session"
	"github.com/Mark0025/peterental/pkg/middleware"
	"github.com/Mark0025/peterental/pkg/module"
	"github.com/Mark0025/peterental/pkg/openapi"
)

// NewModule builds the API module. Requests pass through slash trimming,
// CORS, request logging, the body size limit, and session resolution before
// reaching a handler.
func NewModule(cfg *config.Config, infra *infrastructure.Infrastructure) (*module.Module, error) {
	runtime := NewRuntime(cfg, infra)

	domain, err := NewDomain(cfg, runtime)
	if err != nil {
		return nil, err
	}

	spec := openapi.NewSpec(cfg.API.OpenAPI.Title, cfg.Version)
	spec.SetDescription(cfg.API.OpenAPI.Description)
	if cfg.Domain != "" {
		spec.AddServer(cfg.Domain)
	}

	mux := http.NewServeMux()
	registerRoutes(mux, spec, runtime, domain, cfg)

	specBytes, err := openapi.MarshalJSON(spec)
	if err != nil {
		return nil, err
	}
	mux.HandleFunc("GET /openapi.json", openapi.ServeSpec(specBytes))

	m := module.New(cfg.API.BasePath, mux)
	m.Use(middleware.TrimSlash())
	m.Use(middleware.CORS(&cfg.API.CORS))
	m.Use(middleware.Logger(runtime.Logger))
	m.Use(middleware.MaxBytes(cfg.API.MaxBodySizeBytes()))
	m.Use(session.Middleware(runtime.Sessions, runtime.Logger))

	return m, nil
}
