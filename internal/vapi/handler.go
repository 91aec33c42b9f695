package vapi

import (
	"log/slog"
	"net/http"

	"github.com/Mark0025/peterental/pkg/handlers"
	"github.com/Mark0025/peterental/pkg/routes"
)

// ListResult reports a remote listing. Failures are carried in Error
// rather than as a bare error body.
type ListResult struct {
	Success    bool        `json:"success"`
	Assistants []Assistant `json:"assistants"`
	Error      string      `json:"error,omitempty"`
}

// Handler exposes the remote assistants for browsing before import.
type Handler struct {
	client *Client
	logger *slog.Logger
}

func NewHandler(client *Client, logger *slog.Logger) *Handler {
	return &Handler{
		client: client,
		logger: logger,
	}
}

func (h *Handler) Routes() routes.Group {
	return routes.Group{
		Prefix:      "/assistants",
		Tags:        []string{"Assistants"},
		Description: "Remote VAPI assistants",
		Routes: []routes.Route{
			{Method: "GET", Pattern: "", Handler: h.List, OpenAPI: Spec.List},
			{Method: "GET", Pattern: "/{id}", Handler: h.Find, OpenAPI: Spec.Find},
			{Method: "DELETE", Pattern: "/{id}", Handler: h.Delete, OpenAPI: Spec.Delete},
		},
		Schemas: Spec.Schemas(),
	}
}

func (h *Handler) List(w http.ResponseWriter, r *http.Request) {
	list, err := h.client.List(r.Context())
	if err != nil {
		h.logger.Error("list assistants failed", "error", err)
		handlers.RespondJSON(w, MapHTTPStatus(err), ListResult{
			Assistants: []Assistant{},
			Error:      err.Error(),
		})
		return
	}

	if list == nil {
		list = []Assistant{}
	}
	handlers.RespondJSON(w, http.StatusOK, ListResult{Success: true, Assistants: list})
}

func (h *Handler) Find(w http.ResponseWriter, r *http.Request) {
	a, err := h.client.Get(r.Context(), r.PathValue("id"))
	if err != nil {
		handlers.RespondError(w, h.logger, MapHTTPStatus(err), err)
		return
	}
	handlers.RespondJSON(w, http.StatusOK, a)
}

func (h *Handler) Delete(w http.ResponseWriter, r *http.Request) {
	if err := h.client.Delete(r.Context(), r.PathValue("id")); err != nil {
		handlers.RespondError(w, h.logger, MapHTTPStatus(err), err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
