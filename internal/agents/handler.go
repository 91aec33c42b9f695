package agents

import (
	"log/slog"
	"net/http"

	"github.com/Mark0025/peterental/pkg/decode"
	"github.com/Mark0025/peterental/pkg/handlers"
	"github.com/Mark0025/peterental/pkg/pagination"
	"github.com/Mark0025/peterental/pkg/routes"
)

// Handler provides HTTP handlers for agent config CRUD, prompt and schema
// generation, sync, and import.
type Handler struct {
	sys        System
	logger     *slog.Logger
	pagination pagination.Config
}

// NewHandler creates a new agents HTTP handler.
func NewHandler(sys System, logger *slog.Logger, pagination pagination.Config) *Handler {
	return &Handler{
		sys:        sys,
		logger:     logger,
		pagination: pagination,
	}
}

// Routes returns the route group configuration for agent endpoints.
func (h *Handler) Routes() routes.Group {
	return routes.Group{
		Prefix:      "/agents",
		Tags:        []string{"Agents"},
		Description: "Voice agent configurations and VAPI synchronization",
		Routes: []routes.Route{
			{Method: "GET", Pattern: "", Handler: h.List, OpenAPI: Spec.List},
			{Method: "GET", Pattern: "/{id}", Handler: h.Find, OpenAPI: Spec.Find},
			{Method: "POST", Pattern: "", Handler: h.Create, OpenAPI: Spec.Create},
			{Method: "PUT", Pattern: "/{id}", Handler: h.Update, OpenAPI: Spec.Update},
			{Method: "DELETE", Pattern: "/{id}", Handler: h.Delete, OpenAPI: Spec.Delete},
			{Method: "GET", Pattern: "/{id}/prompt", Handler: h.Prompt, OpenAPI: Spec.Prompt},
			{Method: "GET", Pattern: "/{id}/functions", Handler: h.Functions, OpenAPI: Spec.Functions},
			{Method: "POST", Pattern: "/{id}/sync", Handler: h.Sync, OpenAPI: Spec.Sync},
			{Method: "POST", Pattern: "/{id}/unlink", Handler: h.Unlink, OpenAPI: Spec.Unlink},
			{Method: "POST", Pattern: "/import", Handler: h.Import, OpenAPI: Spec.Import},
		},
		Schemas: Spec.Schemas(),
	}
}

// List handles GET /agents to retrieve the session user's configs.
func (h *Handler) List(w http.ResponseWriter, r *http.Request) {
	page := pagination.PageRequestFromQuery(r.URL.Query(), h.pagination)
	filters := FiltersFromQuery(r.URL.Query())

	result, err := h.sys.List(r.Context(), page, filters)
	if err != nil {
		handlers.RespondError(w, h.logger, MapHTTPStatus(err), err)
		return
	}

	handlers.RespondJSON(w, http.StatusOK, result)
}

// Find handles GET /agents/{id}.
func (h *Handler) Find(w http.ResponseWriter, r *http.Request) {
	result, err := h.sys.Find(r.Context(), r.PathValue("id"))
	if err != nil {
		handlers.RespondError(w, h.logger, MapHTTPStatus(err), err)
		return
	}

	handlers.RespondJSON(w, http.StatusOK, result)
}

// Create handles POST /agents.
func (h *Handler) Create(w http.ResponseWriter, r *http.Request) {
	cmd, err := decode.JSON[CreateCommand](r.Body)
	if err != nil {
		handlers.RespondError(w, h.logger, decode.Status(err), err)
		return
	}

	result, err := h.sys.Create(r.Context(), cmd)
	if err != nil {
		handlers.RespondError(w, h.logger, MapHTTPStatus(err), err)
		return
	}

	handlers.RespondJSON(w, http.StatusCreated, result)
}

// Update handles PUT /agents/{id}.
func (h *Handler) Update(w http.ResponseWriter, r *http.Request) {
	cmd, err := decode.JSON[UpdateCommand](r.Body)
	if err != nil {
		handlers.RespondError(w, h.logger, decode.Status(err), err)
		return
	}

	result, err := h.sys.Update(r.Context(), r.PathValue("id"), cmd)
	if err != nil {
		handlers.RespondError(w, h.logger, MapHTTPStatus(err), err)
		return
	}

	handlers.RespondJSON(w, http.StatusOK, result)
}

// Delete handles DELETE /agents/{id}. The linked remote assistant is not deleted.
func (h *Handler) Delete(w http.ResponseWriter, r *http.Request) {
	if err := h.sys.Delete(r.Context(), r.PathValue("id")); err != nil {
		handlers.RespondError(w, h.logger, MapHTTPStatus(err), err)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

// Prompt handles GET /agents/{id}/prompt.
func (h *Handler) Prompt(w http.ResponseWriter, r *http.Request) {
	prompt, err := h.sys.Prompt(r.Context(), r.PathValue("id"))
	if err != nil {
		handlers.RespondError(w, h.logger, MapHTTPStatus(err), err)
		return
	}

	handlers.RespondText(w, http.StatusOK, prompt)
}

// Functions handles GET /agents/{id}/functions.
func (h *Handler) Functions(w http.ResponseWriter, r *http.Request) {
	fns, err := h.sys.Functions(r.Context(), r.PathValue("id"))
	if err != nil {
		handlers.RespondError(w, h.logger, MapHTTPStatus(err), err)
		return
	}

	handlers.RespondJSON(w, http.StatusOK, fns)
}

// Sync handles POST /agents/{id}/sync. Remote failures are reported in the
// result body with a gateway status.
func (h *Handler) Sync(w http.ResponseWriter, r *http.Request) {
	result, err := h.sys.Sync(r.Context(), r.PathValue("id"))
	if err != nil {
		handlers.RespondError(w, h.logger, MapHTTPStatus(err), err)
		return
	}

	status := http.StatusOK
	if !result.Success {
		status = MapResultStatus(result.Err())
	}
	handlers.RespondJSON(w, status, result)
}

// Unlink handles POST /agents/{id}/unlink.
func (h *Handler) Unlink(w http.ResponseWriter, r *http.Request) {
	result, err := h.sys.Unlink(r.Context(), r.PathValue("id"))
	if err != nil {
		handlers.RespondError(w, h.logger, MapHTTPStatus(err), err)
		return
	}

	handlers.RespondJSON(w, http.StatusOK, result)
}

// ImportRequest names the remote assistant to import.
type ImportRequest struct {
	AssistantID string `json:"assistant_id"`
}

// Import handles POST /agents/import.
func (h *Handler) Import(w http.ResponseWriter, r *http.Request) {
	req, err := decode.JSON[ImportRequest](r.Body)
	if err != nil {
		handlers.RespondError(w, h.logger, decode.Status(err), err)
		return
	}

	result := h.sys.Import(r.Context(), req.AssistantID)
	if !result.Success {
		h.logger.Warn("import failed", "assistant_id", req.AssistantID, "error", result.Error)
		handlers.RespondJSON(w, MapResultStatus(result.Err()), result)
		return
	}

	handlers.RespondJSON(w, http.StatusCreated, result)
}
