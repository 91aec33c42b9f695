package calendar

import (
	"log/slog"
	"net/http"
	"strconv"

	"github.com/Mark0025/peterental/internal/session"
	"github.com/Mark0025/peterental/pkg/handlers"
	"github.com/Mark0025/peterental/pkg/openapi"
	"github.com/Mark0025/peterental/pkg/routes"
)

type Handler struct {
	sys    System
	logger *slog.Logger
}

func NewHandler(sys System, logger *slog.Logger) *Handler {
	return &Handler{
		sys:    sys,
		logger: logger,
	}
}

func (h *Handler) Routes() routes.Group {
	return routes.Group{
		Prefix:      "/calendar",
		Tags:        []string{"Calendar"},
		Description: "Calendar of the session user",
		Routes: []routes.Route{
			{Method: "GET", Pattern: "/events", Handler: h.Events, OpenAPI: eventsOp},
			{Method: "GET", Pattern: "/availability", Handler: h.Availability, OpenAPI: availabilityOp},
			{Method: "GET", Pattern: "/status", Handler: h.Status, OpenAPI: statusOp},
		},
		Schemas: schemas,
	}
}

func daysAhead(r *http.Request) int {
	n, _ := strconv.Atoi(r.URL.Query().Get("days_ahead"))
	return n
}

func (h *Handler) Events(w http.ResponseWriter, r *http.Request) {
	events, err := h.sys.Events(r.Context(), session.UserID(r.Context()), daysAhead(r))
	if err != nil {
		handlers.RespondError(w, h.logger, MapHTTPStatus(err), err)
		return
	}
	handlers.RespondJSON(w, http.StatusOK, map[string]any{"events": events})
}

func (h *Handler) Availability(w http.ResponseWriter, r *http.Request) {
	slots, err := h.sys.Availability(r.Context(), session.UserID(r.Context()), daysAhead(r))
	if err != nil {
		handlers.RespondError(w, h.logger, MapHTTPStatus(err), err)
		return
	}
	handlers.RespondJSON(w, http.StatusOK, map[string]any{"slots": slots})
}

func (h *Handler) Status(w http.ResponseWriter, r *http.Request) {
	status, err := h.sys.AuthStatus(r.Context(), session.UserID(r.Context()))
	if err != nil {
		handlers.RespondError(w, h.logger, MapHTTPStatus(err), err)
		return
	}
	handlers.RespondJSON(w, http.StatusOK, status)
}

var daysParam = openapi.QueryParam("days_ahead", "integer", "Days to look ahead (default 14, max 90)", false)

var eventsOp = &openapi.Operation{
	Summary: "List calendar events",
	Parameters: []*openapi.Parameter{
		daysParam,
	},
	Responses: map[int]*openapi.Response{
		200: openapi.ResponseJSON("Upcoming events", "CalendarEvents"),
		401: openapi.ResponseRef("Unauthorized"),
		502: openapi.ResponseRef("BadGateway"),
	},
}

var availabilityOp = &openapi.Operation{
	Summary: "List open viewing slots",
	Parameters: []*openapi.Parameter{
		daysParam,
	},
	Responses: map[int]*openapi.Response{
		200: openapi.ResponseJSON("Open slots", "CalendarAvailability"),
		401: openapi.ResponseRef("Unauthorized"),
		502: openapi.ResponseRef("BadGateway"),
	},
}

var statusOp = &openapi.Operation{
	Summary:     "Calendar connection status",
	Description: "Reports whether the session user has authorized calendar access",
	Responses: map[int]*openapi.Response{
		200: openapi.ResponseJSON("Authorization status", "CalendarAuthStatus"),
		401: openapi.ResponseRef("Unauthorized"),
		502: openapi.ResponseRef("BadGateway"),
	},
}

var slot = map[string]*openapi.Schema{
	"start": {Type: "string", Format: "date-time"},
	"end":   {Type: "string", Format: "date-time"},
}

var schemas = map[string]*openapi.Schema{
	"CalendarEvent": {
		Type: "object",
		Properties: map[string]*openapi.Schema{
			"id":          {Type: "string"},
			"summary":     {Type: "string"},
			"description": {Type: "string"},
			"location":    {Type: "string"},
			"start":       {Type: "string", Format: "date-time"},
			"end":         {Type: "string", Format: "date-time"},
		},
	},
	"CalendarSlot": {Type: "object", Properties: slot},
	"CalendarEvents": {
		Type: "object",
		Properties: map[string]*openapi.Schema{
			"events": {Type: "array", Items: openapi.SchemaRef("CalendarEvent")},
		},
	},
	"CalendarAvailability": {
		Type: "object",
		Properties: map[string]*openapi.Schema{
			"slots": {Type: "array", Items: openapi.SchemaRef("CalendarSlot")},
		},
	},
	"CalendarAuthStatus": {
		Type: "object",
		Properties: map[string]*openapi.Schema{
			"authorized": {Type: "boolean"},
			"email":      {Type: "string"},
			"auth_url":   {Type: "string"},
		},
	},
}
