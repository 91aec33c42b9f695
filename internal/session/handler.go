package session

import (
	"net/http"

	"github.com/Mark0025/peterental/pkg/handlers"
	"github.com/Mark0025/peterental/pkg/openapi"
	"github.com/Mark0025/peterental/pkg/routes"
)

type view struct {
	UserID        string `json:"user_id"`
	Authenticated bool   `json:"authenticated"`
}

// Handler reports the session resolved for the calling request.
type Handler struct{}

func NewHandler() *Handler {
	return &Handler{}
}

func (h *Handler) Routes() routes.Group {
	return routes.Group{
		Prefix:      "/session",
		Tags:        []string{"Session"},
		Description: "Resolved caller identity",
		Routes: []routes.Route{
			{Method: "GET", Pattern: "", Handler: h.Current, OpenAPI: currentOp},
		},
		Schemas: map[string]*openapi.Schema{
			"Session": {
				Type: "object",
				Properties: map[string]*openapi.Schema{
					"user_id":       {Type: "string"},
					"authenticated": {Type: "boolean"},
				},
			},
		},
	}
}

// Current handles GET /session.
func (h *Handler) Current(w http.ResponseWriter, r *http.Request) {
	s, _ := FromContext(r.Context())
	handlers.RespondJSON(w, http.StatusOK, view{
		UserID:        s.UserID,
		Authenticated: s.Authenticated(),
	})
}

var currentOp = &openapi.Operation{
	Summary:     "Current session",
	Description: "Returns the user id resolved from the bearer token or user header",
	Responses: map[int]*openapi.Response{
		200: openapi.ResponseJSON("Resolved session", "Session"),
		401: openapi.ResponseRef("Unauthorized"),
	},
}
