package openapi_test

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"

	"github.com/Mark0025/peterental/pkg/openapi"
)

func TestNewComponents(t *testing.T) {
	components := openapi.NewComponents()

	if _, ok := components.Schemas["PageRequest"]; !ok {
		t.Error("missing required schema: PageRequest")
	}

	for _, name := range []string{"BadRequest", "NotFound", "Conflict", "BadGateway"} {
		if _, ok := components.Responses[name]; !ok {
			t.Errorf("missing required response: %s", name)
		}
	}
}

func TestSpec_AddOperation(t *testing.T) {
	spec := openapi.NewSpec("Test API", "1.0.0")

	spec.AddOperation("/rentals/{id}", "PATCH", &openapi.Operation{Summary: "Update"})
	spec.AddOperation("/rentals/{id}", "DELETE", &openapi.Operation{Summary: "Delete"})

	item := spec.Paths["/rentals/{id}"]
	if item == nil {
		t.Fatal("path not added")
	}
	if item.Patch == nil || item.Patch.Summary != "Update" {
		t.Error("PATCH operation not added")
	}
	if item.Delete == nil {
		t.Error("DELETE operation not added")
	}
}

func TestSpec_AddServer_SkipsEmpty(t *testing.T) {
	spec := openapi.NewSpec("Test API", "1.0.0")
	spec.AddServer("")

	if len(spec.Servers) != 0 {
		t.Errorf("Servers = %d, want 0", len(spec.Servers))
	}
}

func TestMarshalJSON(t *testing.T) {
	spec := openapi.NewSpec("Test API", "1.0.0")

	data, err := openapi.MarshalJSON(spec)
	if err != nil {
		t.Fatalf("MarshalJSON() error = %v", err)
	}

	var result map[string]any
	if err := json.Unmarshal(data, &result); err != nil {
		t.Fatalf("output is not valid JSON: %v", err)
	}

	if result["openapi"] != "3.1.0" {
		t.Errorf("openapi = %v, want 3.1.0", result["openapi"])
	}
}

func TestWriteJSON(t *testing.T) {
	path := filepath.Join(t.TempDir(), "openapi.json")

	if err := openapi.WriteJSON(openapi.NewSpec("Test API", "1.0.0"), path); err != nil {
		t.Fatalf("WriteJSON() error = %v", err)
	}

	if _, err := os.Stat(path); err != nil {
		t.Errorf("spec file not written: %v", err)
	}
}

func TestServeSpec(t *testing.T) {
	handler := openapi.ServeSpec([]byte(`{"openapi":"3.1.0"}`))

	w := httptest.NewRecorder()
	handler(w, httptest.NewRequest(http.MethodGet, "/openapi.json", nil))

	if w.Code != http.StatusOK {
		t.Errorf("status = %d, want %d", w.Code, http.StatusOK)
	}
	if got := w.Header().Get("Content-Type"); got != "application/json; charset=utf-8" {
		t.Errorf("Content-Type = %q", got)
	}
}

func TestPathParam(t *testing.T) {
	p := openapi.PathParam("id", "Agent ID")

	if p.In != "path" || !p.Required {
		t.Errorf("PathParam = %+v, want required path param", p)
	}
}
