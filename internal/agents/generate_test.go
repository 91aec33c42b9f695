package agents_test

import (
	"encoding/json"
	"slices"
	"strings"
	"testing"

	"github.com/Mark0025/peterental/internal/agents"
)

const webhook = "https://backend.example.com/vapi/webhook"

func fixture() *agents.AgentConfig {
	return &agents.AgentConfig{
		ID:           "agent_user_1_1700000000000",
		Name:         "Leasing Agent",
		UserID:       "user_1",
		VoiceID:      "rachel",
		Model:        "gpt-4o",
		SystemPrompt: "You help renters book viewings.",
		FirstMessage: "Hi, this is Pete.",
		Variables: []agents.Variable{
			{ID: "v1", Name: "property_address", Type: agents.TypeAddress, Description: "Address of the property", Required: true, ExtractionPrompt: "Which property are you interested in?"},
			{ID: "v2", Name: "email", Type: agents.TypeEmail, Description: "Caller email", Required: true},
			{ID: "v3", Name: "bedrooms", Type: agents.TypeNumber, Description: "Bedrooms wanted"},
			{ID: "v4", Name: "has_pets", Type: agents.TypeBoolean, Description: "Whether the caller has pets"},
			{ID: "v5", Name: "contact_time", Type: agents.TypeString, Description: "Preferred time", Validation: &agents.Validation{Options: []string{"morning", "evening"}}},
		},
		Functions: []agents.Function{
			{ID: "f1", Name: "get_availability", Description: "Check open viewing slots", Variables: []string{"v1"}, Enabled: true},
			{ID: "f2", Name: "archived", Description: "Disabled", Variables: []string{"v2"}, Enabled: false},
			{ID: "f3", Name: "book_viewing", Description: "Book a viewing", Variables: []string{"v1", "v2", "v3", "v4", "v5", "missing"}, Enabled: true},
		},
	}
}

func TestGenerateFunctionConfig_EnabledOnly(t *testing.T) {
	fns := agents.GenerateFunctionConfig(fixture(), webhook)

	if len(fns) != 2 {
		t.Fatalf("got %d schemas, want 2", len(fns))
	}
	if fns[0].Name != "get_availability" || fns[1].Name != "book_viewing" {
		t.Errorf("names = %q, %q", fns[0].Name, fns[1].Name)
	}

	for _, fn := range fns {
		p, ok := fn.Parameters.Properties.Get("user_id")
		if !ok {
			t.Fatalf("%s: user_id property missing", fn.Name)
		}
		if p.Type != "string" || p.Default != "user_1" || p.Description == "" {
			t.Errorf("%s: user_id property = %+v", fn.Name, p)
		}
		if fn.Parameters.Properties[0].Name != "user_id" {
			t.Errorf("%s: user_id is not the first property", fn.Name)
		}
		if !fn.Parameters.IsRequired("user_id") {
			t.Errorf("%s: user_id not required", fn.Name)
		}
		if fn.URL != webhook || fn.Method != "POST" {
			t.Errorf("%s: url = %q, method = %q", fn.Name, fn.URL, fn.Method)
		}
		if fn.Parameters.Type != "object" {
			t.Errorf("%s: parameters type = %q", fn.Name, fn.Parameters.Type)
		}
	}
}

func TestGenerateFunctionConfig_DisabledNeverAppears(t *testing.T) {
	for pos := range 3 {
		cfg := fixture()
		for i := range cfg.Functions {
			cfg.Functions[i].Enabled = i != pos
		}

		fns := agents.GenerateFunctionConfig(cfg, webhook)
		if len(fns) != 2 {
			t.Errorf("disabled at %d: got %d schemas, want 2", pos, len(fns))
		}
		for _, fn := range fns {
			if fn.Name == cfg.Functions[pos].Name {
				t.Errorf("disabled function %q appeared", fn.Name)
			}
		}
	}
}

func TestGenerateFunctionConfig_Properties(t *testing.T) {
	fn := agents.GenerateFunctionConfig(fixture(), webhook)[1]

	wantOrder := []string{"user_id", "property_address", "email", "bedrooms", "has_pets", "contact_time"}
	var gotOrder []string
	for _, p := range fn.Parameters.Properties {
		gotOrder = append(gotOrder, p.Name)
	}
	if !slices.Equal(gotOrder, wantOrder) {
		t.Errorf("property order = %v, want %v", gotOrder, wantOrder)
	}

	types := map[string]string{
		"property_address": "string",
		"email":            "string",
		"bedrooms":         "number",
		"has_pets":         "boolean",
		"contact_time":     "string",
	}
	for name, want := range types {
		p, _ := fn.Parameters.Properties.Get(name)
		if p.Type != want {
			t.Errorf("%s type = %q, want %q", name, p.Type, want)
		}
	}

	if p, _ := fn.Parameters.Properties.Get("contact_time"); !slices.Equal(p.Enum, []string{"morning", "evening"}) {
		t.Errorf("contact_time enum = %v", p.Enum)
	}

	wantRequired := []string{"user_id", "property_address", "email"}
	if !slices.Equal(fn.Parameters.Required, wantRequired) {
		t.Errorf("required = %v, want %v", fn.Parameters.Required, wantRequired)
	}
}

func TestGenerateFunctionConfig_WireShape(t *testing.T) {
	cfg := fixture()
	cfg.Functions = cfg.Functions[:1]

	data, err := json.Marshal(agents.GenerateFunctionConfig(cfg, webhook))
	if err != nil {
		t.Fatalf("Marshal() failed: %v", err)
	}

	want := `[{"name":"get_availability","description":"Check open viewing slots","parameters":{"type":"object",` +
		`"properties":{"user_id":{"type":"string","description":"The ID of the user this agent is assisting. Always pass the user ID given in the system prompt.","default":"user_1"},` +
		`"property_address":{"type":"string","description":"Address of the property"}},"required":["user_id","property_address"]},` +
		`"url":"https://backend.example.com/vapi/webhook","method":"POST"}]`
	if string(data) != want {
		t.Errorf("wire shape mismatch:\n got %s\nwant %s", data, want)
	}
}

func TestGenerateFunctionConfig_EmptyInput(t *testing.T) {
	fns := agents.GenerateFunctionConfig(&agents.AgentConfig{
		Functions: []agents.Function{{Name: "ping", Enabled: true}},
	}, "")
	if len(fns) != 1 || len(fns[0].Parameters.Properties) != 1 {
		t.Errorf("GenerateFunctionConfig() = %+v", fns)
	}
}

func TestGenerateSystemPrompt(t *testing.T) {
	cfg := fixture()
	prompt := agents.GenerateSystemPrompt(cfg)

	if prompt != agents.GenerateSystemPrompt(cfg) {
		t.Fatal("GenerateSystemPrompt() is not deterministic")
	}

	for _, want := range []string{
		"You help renters book viewings.\n\n",
		"You are assisting user: user_1",
		`user_id="user_1"`,
		"- property_address **REQUIRED**: Address of the property",
		`  Ask: "Which property are you interested in?"`,
		"- bedrooms (optional): Bedrooms wanted",
		"### get_availability",
		"### book_viewing",
		"Required before calling: property_address, email",
		"- has_pets (optional)",
	} {
		if !strings.Contains(prompt, want) {
			t.Errorf("prompt missing %q", want)
		}
	}

	if strings.Contains(prompt, "### archived") {
		t.Error("prompt contains disabled function")
	}
	if !strings.HasPrefix(prompt, cfg.SystemPrompt) {
		t.Error("prompt does not start with the configured system prompt")
	}
}

func TestGenerateFunctionConfig_RequiredIsUnique(t *testing.T) {
	cfg := fixture()
	cfg.Variables = append(cfg.Variables, agents.Variable{ID: "v6", Name: "email", Type: agents.TypeEmail, Required: true})
	cfg.Functions = []agents.Function{
		{ID: "f1", Name: "book_viewing", Variables: []string{"v2", "v2", "v6", "v1"}, Enabled: true},
	}

	fns := agents.GenerateFunctionConfig(cfg, webhook)
	if len(fns) != 1 {
		t.Fatalf("got %d schemas, want 1", len(fns))
	}

	want := []string{"user_id", "email", "property_address"}
	if got := fns[0].Parameters.Required; !slices.Equal(got, want) {
		t.Errorf("required = %v, want %v", got, want)
	}

	cfg.Functions[0].Variables = []string{"v2", "v2", "v1"}
	prompt := agents.GenerateSystemPrompt(cfg)
	if !strings.Contains(prompt, "Required before calling: email, property_address\n") {
		t.Errorf("prompt required line missing:\n%s", prompt)
	}
	if n := strings.Count(prompt, "- email (required)"); n != 1 {
		t.Errorf("email parameter listed %d times, want 1", n)
	}
}

func TestGenerateSystemPrompt_KeepsRawPrompt(t *testing.T) {
	cfg := fixture()
	cfg.SystemPrompt = "  Indented intro.\n\n- keep this list\n"

	prompt := agents.GenerateSystemPrompt(cfg)
	if !strings.HasPrefix(prompt, cfg.SystemPrompt+"\n\n## User Context\n") {
		t.Errorf("prompt does not start with the raw system prompt:\n%q", prompt)
	}

	cfg.SystemPrompt = ""
	if prompt := agents.GenerateSystemPrompt(cfg); !strings.HasPrefix(prompt, "## User Context\n") {
		t.Errorf("empty system prompt: got prefix %q", prompt[:min(len(prompt), 20)])
	}
}

func TestAgentConfig_ValidateAndWarnings(t *testing.T) {
	cfg := fixture()
	if err := cfg.Validate(); err != nil {
		t.Fatalf("Validate() failed: %v", err)
	}

	warnings := cfg.Warnings()
	if len(warnings) != 1 || !strings.Contains(warnings[0], `"missing"`) {
		t.Errorf("Warnings() = %v", warnings)
	}

	cfg.Variables = append(cfg.Variables, agents.Variable{ID: "v6", Name: "email", Type: agents.TypeEmail})
	if len(cfg.Warnings()) != 2 {
		t.Errorf("duplicate name not warned: %v", cfg.Warnings())
	}

	bad := fixture()
	bad.Name = ""
	bad.Variables[0].Type = "color"
	bad.Variables[1].Validation = &agents.Validation{Pattern: "("}
	err := bad.Validate()
	if err == nil {
		t.Fatal("Validate() succeeded on invalid config")
	}
	for _, want := range []string{"name required", `invalid type "color"`, "invalid pattern"} {
		if !strings.Contains(err.Error(), want) {
			t.Errorf("Validate() error %q missing %q", err, want)
		}
	}
}
