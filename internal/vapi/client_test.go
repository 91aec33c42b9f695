package vapi_test

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"

	"github.com/Mark0025/peterental/internal/vapi"
)

func discard() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func newClient(t *testing.T, baseURL, apiKey string) *vapi.Client {
	t.Helper()
	cfg := &vapi.Config{BaseURL: baseURL, APIKey: apiKey}
	if err := cfg.Finalize(nil); err != nil {
		t.Fatalf("Finalize() failed: %v", err)
	}
	return vapi.New(cfg, discard())
}

const assistantJSON = `{
	"id": "asst_1",
	"name": "Leasing Agent",
	"model": {
		"provider": "openai",
		"model": "gpt-4o",
		"messages": [{"role": "system", "content": "You are helpful."}],
		"functions": [{
			"name": "get_availability",
			"description": "Check showings",
			"parameters": {
				"type": "object",
				"properties": {
					"user_id": {"type": "string"},
					"zeta": {"type": "string"},
					"alpha": {"type": "number"}
				},
				"required": ["user_id", "zeta"]
			}
		}]
	},
	"voice": {"provider": "11labs", "voiceId": "rachel"},
	"firstMessage": "Hi!"
}`

func TestClient_Create(t *testing.T) {
	var gotMethod, gotPath, gotAuth string
	var gotBody map[string]any

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotMethod, gotPath, gotAuth = r.Method, r.URL.Path, r.Header.Get("Authorization")
		json.NewDecoder(r.Body).Decode(&gotBody)
		w.WriteHeader(http.StatusCreated)
		io.WriteString(w, assistantJSON)
	}))
	defer srv.Close()

	c := newClient(t, srv.URL, "key_123")
	a, err := c.Create(context.Background(), &vapi.Assistant{Name: "Leasing Agent"})
	if err != nil {
		t.Fatalf("Create() failed: %v", err)
	}

	if gotMethod != http.MethodPost || gotPath != "/assistant" {
		t.Errorf("request = %s %s, want POST /assistant", gotMethod, gotPath)
	}
	if gotAuth != "Bearer key_123" {
		t.Errorf("Authorization = %q", gotAuth)
	}
	if gotBody["name"] != "Leasing Agent" {
		t.Errorf("body name = %v", gotBody["name"])
	}
	if a.ID != "asst_1" {
		t.Errorf("ID = %q, want asst_1", a.ID)
	}
	if a.SystemPrompt() != "You are helpful." {
		t.Errorf("SystemPrompt() = %q", a.SystemPrompt())
	}
}

func TestClient_UpdateUsesPatch(t *testing.T) {
	var gotMethod, gotPath string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotMethod, gotPath = r.Method, r.URL.Path
		io.WriteString(w, assistantJSON)
	}))
	defer srv.Close()

	c := newClient(t, srv.URL, "key")
	if _, err := c.Update(context.Background(), "asst_1", &vapi.Assistant{}); err != nil {
		t.Fatalf("Update() failed: %v", err)
	}
	if gotMethod != http.MethodPatch || gotPath != "/assistant/asst_1" {
		t.Errorf("request = %s %s, want PATCH /assistant/asst_1", gotMethod, gotPath)
	}
}

func TestClient_MissingAPIKey(t *testing.T) {
	var calls atomic.Int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls.Add(1)
	}))
	defer srv.Close()

	c := newClient(t, srv.URL, "")
	_, err := c.Create(context.Background(), &vapi.Assistant{})
	if !errors.Is(err, vapi.ErrMissingAPIKey) {
		t.Errorf("Create() error = %v, want ErrMissingAPIKey", err)
	}
	if calls.Load() != 0 {
		t.Errorf("server received %d calls, want 0", calls.Load())
	}
	if c.Configured() {
		t.Error("Configured() = true without key")
	}
}

func TestClient_StatusError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadRequest)
		io.WriteString(w, `{"message":"voice not found"}`)
	}))
	defer srv.Close()

	c := newClient(t, srv.URL, "key")
	_, err := c.Create(context.Background(), &vapi.Assistant{})

	var se *vapi.StatusError
	if !errors.As(err, &se) {
		t.Fatalf("error = %v, want *StatusError", err)
	}
	if se.StatusCode != http.StatusBadRequest {
		t.Errorf("StatusCode = %d, want 400", se.StatusCode)
	}
	if se.Body != `{"message":"voice not found"}` {
		t.Errorf("Body = %q", se.Body)
	}
	if vapi.MapHTTPStatus(err) != http.StatusBadGateway {
		t.Errorf("MapHTTPStatus = %d, want 502", vapi.MapHTTPStatus(err))
	}
}

func TestClient_TransportError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
	url := srv.URL
	srv.Close()

	c := newClient(t, url, "key")
	_, err := c.Get(context.Background(), "asst_1")
	if err == nil {
		t.Fatal("Get() succeeded against closed server")
	}
	var se *vapi.StatusError
	if errors.As(err, &se) {
		t.Errorf("transport failure reported as status error: %v", err)
	}
}

func TestClient_BreakerOpens(t *testing.T) {
	var calls atomic.Int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls.Add(1)
		w.WriteHeader(http.StatusInternalServerError)
	}))
	defer srv.Close()

	cfg := &vapi.Config{
		BaseURL: srv.URL,
		APIKey:  "key",
		Breaker: vapi.BreakerConfig{FailureThreshold: 2, Timeout: "1h"},
	}
	if err := cfg.Finalize(nil); err != nil {
		t.Fatalf("Finalize() failed: %v", err)
	}
	c := vapi.New(cfg, discard())

	for range 2 {
		c.Delete(context.Background(), "asst_1")
	}

	err := c.Delete(context.Background(), "asst_1")
	if !errors.Is(err, vapi.ErrUnavailable) {
		t.Errorf("error = %v, want ErrUnavailable", err)
	}
	if calls.Load() != 2 {
		t.Errorf("server received %d calls, want 2", calls.Load())
	}
}

func TestClient_ClientErrorsDoNotTripBreaker(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNotFound)
	}))
	defer srv.Close()

	cfg := &vapi.Config{BaseURL: srv.URL, APIKey: "key", Breaker: vapi.BreakerConfig{FailureThreshold: 1}}
	if err := cfg.Finalize(nil); err != nil {
		t.Fatalf("Finalize() failed: %v", err)
	}
	c := vapi.New(cfg, discard())

	for range 3 {
		_, err := c.Get(context.Background(), "missing")
		if vapi.MapHTTPStatus(err) != http.StatusNotFound {
			t.Fatalf("MapHTTPStatus = %d, want 404 (err %v)", vapi.MapHTTPStatus(err), err)
		}
	}
}

func TestClient_List(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		io.WriteString(w, "["+assistantJSON+`,{"id":"asst_2","name":"Other"}]`)
	}))
	defer srv.Close()

	list, err := newClient(t, srv.URL, "key").List(context.Background())
	if err != nil {
		t.Fatalf("List() failed: %v", err)
	}
	if len(list) != 2 || list[1].ID != "asst_2" {
		t.Errorf("List() = %+v", list)
	}
}
