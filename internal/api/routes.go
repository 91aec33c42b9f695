package api

import (
	"net/http"

	"github.com/Mark0025/peterental/internal/agents"
	"github.com/Mark0025/peterental/internal/calendar"
	"github.com/Mark0025/peterental/internal/config"
	"github.com/Mark0025/peterental/internal/rentals"
	"github.com/Mark0025/peterental/internal/session"
	"github.com/Mark0025/peterental/internal/vapi"
	"github.com/Mark0025/peterental/pkg/openapi"
	"github.com/Mark0025/peterental/pkg/routes"
)

func registerRoutes(
	mux *http.ServeMux,
	spec *openapi.Spec,
	runtime *Runtime,
	domain *Domain,
	cfg *config.Config,
) {
	agentsHandler := agents.NewHandler(domain.Agents, runtime.Logger, runtime.Pagination)
	assistantsHandler := vapi.NewHandler(runtime.VAPI, runtime.Logger)
	rentalsHandler := rentals.NewHandler(domain.Rentals, runtime.Logger, runtime.Pagination)
	calendarHandler := calendar.NewHandler(domain.Calendar, runtime.Logger)
	sessionHandler := session.NewHandler()

	routes.Register(
		mux,
		cfg.API.BasePath,
		spec,
		agentsHandler.Routes(),
		assistantsHandler.Routes(),
		rentalsHandler.Routes(),
		calendarHandler.Routes(),
		sessionHandler.Routes(),
	)
}
