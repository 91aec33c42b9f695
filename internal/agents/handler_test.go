package agents_test

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/Mark0025/peterental/internal/agents"
	"github.com/Mark0025/peterental/internal/vapi"
	"github.com/Mark0025/peterental/pkg/openapi"
	"github.com/Mark0025/peterental/pkg/pagination"
	"github.com/Mark0025/peterental/pkg/routes"
)

func newMux(t *testing.T, e *env) *http.ServeMux {
	t.Helper()
	h := agents.NewHandler(e.sys, discard(), pagination.Config{DefaultPageSize: 20, MaxPageSize: 100})
	mux := http.NewServeMux()
	routes.Register(mux, "/api", openapi.NewSpec("Test API", "1.0.0"), h.Routes())
	return mux
}

func serve(mux http.Handler, user, method, target, body string) *httptest.ResponseRecorder {
	var r *http.Request
	if body != "" {
		r = httptest.NewRequest(method, target, strings.NewReader(body))
		r.Header.Set("Content-Type", "application/json")
	} else {
		r = httptest.NewRequest(method, target, nil)
	}
	if user != "" {
		r = r.WithContext(asUser(user))
	}
	w := httptest.NewRecorder()
	mux.ServeHTTP(w, r)
	return w
}

func TestHandler_Lifecycle(t *testing.T) {
	e := newEnv(t, &fakeRemote{})
	mux := newMux(t, e)

	cmd, _ := json.Marshal(createCommand(""))
	w := serve(mux, "alice", "POST", "/agents", string(cmd))
	if w.Code != http.StatusCreated {
		t.Fatalf("create status = %d, body = %s", w.Code, w.Body)
	}
	var created agents.AgentConfig
	if err := json.Unmarshal(w.Body.Bytes(), &created); err != nil {
		t.Fatalf("decode create: %v", err)
	}

	w = serve(mux, "alice", "GET", "/agents?sort=-name", "")
	if w.Code != http.StatusOK || !strings.Contains(w.Body.String(), `"total":1`) {
		t.Errorf("list = %d %s", w.Code, w.Body)
	}

	w = serve(mux, "alice", "GET", "/agents/"+created.ID+"/prompt", "")
	if w.Code != http.StatusOK || !strings.Contains(w.Body.String(), "## User Context") {
		t.Errorf("prompt = %d %s", w.Code, w.Body)
	}

	w = serve(mux, "alice", "GET", "/agents/"+created.ID+"/functions", "")
	if w.Code != http.StatusOK || !strings.Contains(w.Body.String(), `"user_id"`) {
		t.Errorf("functions = %d %s", w.Code, w.Body)
	}

	w = serve(mux, "alice", "POST", "/agents/"+created.ID+"/sync", "")
	if w.Code != http.StatusOK || !strings.Contains(w.Body.String(), `"assistant_id":"asst_1"`) {
		t.Errorf("sync = %d %s", w.Code, w.Body)
	}

	w = serve(mux, "alice", "POST", "/agents/"+created.ID+"/unlink", "")
	if w.Code != http.StatusOK || strings.Contains(w.Body.String(), "vapi_assistant_id") {
		t.Errorf("unlink = %d %s", w.Code, w.Body)
	}

	w = serve(mux, "bob", "GET", "/agents/"+created.ID, "")
	if w.Code != http.StatusNotFound {
		t.Errorf("other user find = %d", w.Code)
	}

	w = serve(mux, "alice", "DELETE", "/agents/"+created.ID, "")
	if w.Code != http.StatusNoContent {
		t.Errorf("delete = %d", w.Code)
	}
}

func TestHandler_SyncFailureStatus(t *testing.T) {
	e := newEnv(t, &fakeRemote{err: context.DeadlineExceeded})
	mux := newMux(t, e)

	cfg, _ := e.sys.Create(asUser("alice"), createCommand(""))

	w := serve(mux, "alice", "POST", "/agents/"+cfg.ID+"/sync", "")
	if w.Code != http.StatusGatewayTimeout {
		t.Errorf("sync status = %d, want 504", w.Code)
	}
	var result agents.SyncResult
	if err := json.Unmarshal(w.Body.Bytes(), &result); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if result.Success || result.Error == "" {
		t.Errorf("result = %+v", result)
	}
}

func TestHandler_Import(t *testing.T) {
	e := newEnv(t, &fakeRemote{assistants: map[string]*vapi.Assistant{"asst_1": remote()}})
	mux := newMux(t, e)

	w := serve(mux, "alice", "POST", "/agents/import", `{"assistant_id":"asst_1"}`)
	if w.Code != http.StatusCreated || !strings.Contains(w.Body.String(), `"success":true`) {
		t.Errorf("import = %d %s", w.Code, w.Body)
	}

	w = serve(mux, "alice", "POST", "/agents/import", `{"assistant_id":"asst_nope"}`)
	if w.Code != http.StatusNotFound || !strings.Contains(w.Body.String(), `"success":false`) {
		t.Errorf("missing import = %d %s", w.Code, w.Body)
	}

	w = serve(mux, "alice", "POST", "/agents/import", `{not json`)
	if w.Code != http.StatusBadRequest {
		t.Errorf("malformed import = %d", w.Code)
	}
}

func TestHandler_CreateInvalid(t *testing.T) {
	e := newEnv(t, &fakeRemote{})
	mux := newMux(t, e)

	w := serve(mux, "alice", "POST", "/agents", `{"name":"x","variables":[{"name":"a","type":"color"}]}`)
	if w.Code != http.StatusBadRequest {
		t.Errorf("status = %d, want 400", w.Code)
	}
}
