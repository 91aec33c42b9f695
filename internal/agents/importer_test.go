package agents_test

import (
	"slices"
	"testing"
	"time"

	"github.com/Mark0025/peterental/internal/agents"
	"github.com/Mark0025/peterental/internal/vapi"
)

func props(entries ...vapi.NamedProperty) vapi.Properties {
	return vapi.Properties(entries)
}

func prop(name, typ, desc string) vapi.NamedProperty {
	return vapi.NamedProperty{Name: name, Property: vapi.Property{Type: typ, Description: desc}}
}

func remote() *vapi.Assistant {
	return &vapi.Assistant{
		ID:   "asst_1",
		Name: "Leasing Agent",
		Model: vapi.Model{
			Model: "gpt-4o",
			Messages: []vapi.Message{
				{Role: vapi.RoleSystem, Content: "Be concise.\n\n## User Context\nYou are assisting user: old"},
			},
			Functions: []vapi.Function{
				{
					Name:        "get_availability",
					Description: "Check slots",
					Parameters: vapi.Parameters{
						Properties: props(
							prop("user_id", "string", "owner"),
							prop("property_address", "string", "Address"),
							prop("email", "string", ""),
						),
						Required: []string{"user_id", "property_address"},
					},
				},
			},
			Tools: []vapi.Tool{
				{
					Type: vapi.ToolTypeFunction,
					Function: &vapi.Function{
						Name: "book_viewing",
						Parameters: vapi.Parameters{
							Properties: props(
								prop("email", "string", "Contact email"),
								prop("bedrooms", "number", "Bedrooms"),
								prop("has_pets", "boolean", ""),
								vapi.NamedProperty{Name: "slot", Property: vapi.Property{Type: "string", Enum: []string{"am", "pm"}}},
							),
							Required: []string{"email"},
						},
					},
				},
			},
		},
		Voice:        vapi.Voice{VoiceID: "rachel"},
		FirstMessage: "Hello!",
	}
}

var importedAt = time.Date(2025, 3, 1, 12, 0, 0, 0, time.UTC)

func TestImport_Draft(t *testing.T) {
	cfg := agents.Import(remote(), "user_1", importedAt, agents.RequiredAny)

	if cfg.ID != "" {
		t.Errorf("draft has id %q", cfg.ID)
	}
	if cfg.SyncStatus != agents.StatusSynced || cfg.LastSyncedAt == nil || !cfg.LastSyncedAt.Equal(importedAt) {
		t.Errorf("sync state = %s, %v", cfg.SyncStatus, cfg.LastSyncedAt)
	}
	if cfg.VAPIAssistantID != "asst_1" || cfg.UserID != "user_1" {
		t.Errorf("link = %q, user = %q", cfg.VAPIAssistantID, cfg.UserID)
	}
	if cfg.Name != "Leasing Agent" || cfg.VoiceID != "rachel" || cfg.Model != "gpt-4o" || cfg.FirstMessage != "Hello!" {
		t.Errorf("mirrored fields = %+v", cfg)
	}
	if cfg.SystemPrompt != "Be concise." {
		t.Errorf("SystemPrompt = %q, want generated sections stripped", cfg.SystemPrompt)
	}
}

func TestImport_DedupAndSkipUserID(t *testing.T) {
	cfg := agents.Import(remote(), "user_1", importedAt, agents.RequiredAny)

	var names []string
	for _, v := range cfg.Variables {
		names = append(names, v.Name)
	}
	want := []string{"property_address", "email", "bedrooms", "has_pets", "slot"}
	if !slices.Equal(names, want) {
		t.Fatalf("variables = %v, want %v", names, want)
	}

	if len(cfg.Functions) != 2 {
		t.Fatalf("got %d functions, want 2", len(cfg.Functions))
	}
	emailID := cfg.Variables[1].ID
	if !slices.Contains(cfg.Functions[0].Variables, emailID) || !slices.Contains(cfg.Functions[1].Variables, emailID) {
		t.Error("email variable not shared by both functions")
	}
	for _, fn := range cfg.Functions {
		if !fn.Enabled {
			t.Errorf("function %q not enabled", fn.Name)
		}
	}
	if cfg.Functions[1].DisplayName != "Book Viewing" {
		t.Errorf("function display name = %q", cfg.Functions[1].DisplayName)
	}
}

func TestImport_SynthesizedVariables(t *testing.T) {
	cfg := agents.Import(remote(), "user_1", importedAt, agents.RequiredAny)

	addr := cfg.Variables[0]
	if addr.DisplayName != "Property Address" || addr.Type != agents.TypeString || !addr.Required {
		t.Errorf("property_address = %+v", addr)
	}
	if addr.ExtractionPrompt != "What is the property address?" {
		t.Errorf("ExtractionPrompt = %q", addr.ExtractionPrompt)
	}

	email := cfg.Variables[1]
	if email.Description != "email" || email.ExtractionPrompt != "" {
		t.Errorf("email without remote description = %+v", email)
	}

	if cfg.Variables[2].Type != agents.TypeNumber || cfg.Variables[3].Type != agents.TypeBoolean {
		t.Errorf("types = %s, %s", cfg.Variables[2].Type, cfg.Variables[3].Type)
	}

	slot := cfg.Variables[4]
	if slot.Validation == nil || !slices.Equal(slot.Validation.Options, []string{"am", "pm"}) {
		t.Errorf("slot validation = %+v", slot.Validation)
	}
}

func TestImport_RequiredMerge(t *testing.T) {
	merged := agents.Import(remote(), "u", importedAt, agents.RequiredAny)
	if !merged.Variables[1].Required {
		t.Error("RequiredAny: email should be required by the second function")
	}

	first := agents.Import(remote(), "u", importedAt, agents.RequiredFirstWins)
	if first.Variables[1].Required {
		t.Error("RequiredFirstWins: email should keep the first function's optional flag")
	}
}

func TestParseRequiredMerge(t *testing.T) {
	tests := []struct {
		in      string
		want    agents.RequiredMerge
		wantErr bool
	}{
		{"", agents.RequiredAny, false},
		{"any", agents.RequiredAny, false},
		{"FIRST", agents.RequiredFirstWins, false},
		{"last", agents.RequiredAny, true},
	}
	for _, tt := range tests {
		got, err := agents.ParseRequiredMerge(tt.in)
		if (err != nil) != tt.wantErr || got != tt.want {
			t.Errorf("ParseRequiredMerge(%q) = %v, %v", tt.in, got, err)
		}
	}
}

func TestImport_EmptyRemote(t *testing.T) {
	cfg := agents.Import(&vapi.Assistant{ID: "asst_empty"}, "u", importedAt, agents.RequiredAny)
	if cfg.Variables == nil || cfg.Functions == nil || len(cfg.Variables) != 0 || len(cfg.Functions) != 0 {
		t.Errorf("empty import = %+v", cfg)
	}
}

func TestImport_LooseParameterSchemas(t *testing.T) {
	raw := `{
		"id": "asst_loose",
		"model": {
			"functions": [{
				"name": "book_viewing",
				"parameters": {
					"type": "object",
					"properties": {
						"user_id": {"type": "string"},
						"bedrooms": {"type": ["number", "null"], "description": "Bedrooms wanted", "enum": [1, 2, 3]},
						"notes": {"type": ["null", "string"]}
					},
					"required": ["bedrooms"]
				}
			}]
		}
	}`

	a, err := vapi.DecodeAssistant([]byte(raw))
	if err != nil {
		t.Fatalf("DecodeAssistant() failed: %v", err)
	}

	cfg := agents.Import(a, "u", importedAt, agents.RequiredAny)
	if len(cfg.Variables) != 2 {
		t.Fatalf("got %d variables, want 2", len(cfg.Variables))
	}

	bedrooms := cfg.Variables[0]
	if bedrooms.Name != "bedrooms" || bedrooms.Type != agents.TypeNumber || !bedrooms.Required {
		t.Errorf("bedrooms = %+v", bedrooms)
	}
	if bedrooms.Validation == nil || !slices.Equal(bedrooms.Validation.Options, []string{"1", "2", "3"}) {
		t.Errorf("bedrooms validation = %+v, want options 1,2,3", bedrooms.Validation)
	}

	if notes := cfg.Variables[1]; notes.Name != "notes" || notes.Type != agents.TypeString {
		t.Errorf("notes = %+v", notes)
	}
}

func TestImport_RoundTrip(t *testing.T) {
	src := fixture()
	for i := range src.Functions {
		src.Functions[i].Enabled = true
	}
	src.Functions[2].Variables = src.Functions[2].Variables[:5]

	a := &vapi.Assistant{
		ID:   "asst_rt",
		Name: src.Name,
		Model: vapi.Model{
			Messages:  []vapi.Message{{Role: vapi.RoleSystem, Content: agents.GenerateSystemPrompt(src)}},
			Functions: agents.GenerateFunctionConfig(src, webhook),
		},
	}

	got := agents.Import(a, src.UserID, importedAt, agents.RequiredAny)

	if got.SystemPrompt != src.SystemPrompt {
		t.Errorf("SystemPrompt = %q, want %q", got.SystemPrompt, src.SystemPrompt)
	}
	if len(got.Variables) != len(src.Variables) {
		t.Fatalf("got %d variables, want %d", len(got.Variables), len(src.Variables))
	}
	for _, want := range src.Variables {
		idx := slices.IndexFunc(got.Variables, func(v agents.Variable) bool { return v.Name == want.Name })
		if idx < 0 {
			t.Errorf("variable %q lost in round trip", want.Name)
			continue
		}
		if got.Variables[idx].Required != want.Required {
			t.Errorf("%s required = %v, want %v", want.Name, got.Variables[idx].Required, want.Required)
		}
	}
}
