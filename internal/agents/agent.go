// Package agents manages voice agent configurations: their persistence, the
// system prompt and function schemas derived from them, and their
// synchronization with VAPI assistants.
package agents

import (
	"fmt"
	"regexp"
	"slices"
	"strings"
	"time"

	"github.com/google/uuid"
)

type VariableType string

const (
	TypeString   VariableType = "string"
	TypeNumber   VariableType = "number"
	TypeBoolean  VariableType = "boolean"
	TypeEmail    VariableType = "email"
	TypePhone    VariableType = "phone"
	TypeAddress  VariableType = "address"
	TypeDatetime VariableType = "datetime"
)

func (t VariableType) Valid() bool {
	switch t {
	case TypeString, TypeNumber, TypeBoolean, TypeEmail, TypePhone, TypeAddress, TypeDatetime:
		return true
	}
	return false
}

// SyncStatus is advisory; it records the outcome of the last sync attempt.
type SyncStatus string

const (
	StatusDraft   SyncStatus = "draft"
	StatusSyncing SyncStatus = "syncing"
	StatusSynced  SyncStatus = "synced"
	StatusError   SyncStatus = "error"
)

func (s SyncStatus) Valid() bool {
	switch s {
	case StatusDraft, StatusSyncing, StatusSynced, StatusError:
		return true
	}
	return false
}

type Validation struct {
	Pattern   string   `json:"pattern,omitempty"`
	MinLength *int     `json:"min_length,omitempty"`
	MaxLength *int     `json:"max_length,omitempty"`
	Options   []string `json:"options,omitempty"`
}

// Variable is a piece of information the agent collects from the caller.
// Name is the snake_case key used in prompts and function parameters.
type Variable struct {
	ID               string       `json:"id"`
	Name             string       `json:"name"`
	DisplayName      string       `json:"display_name"`
	Type             VariableType `json:"type"`
	Description      string       `json:"description"`
	Required         bool         `json:"required"`
	DefaultValue     any          `json:"default_value,omitempty"`
	Validation       *Validation  `json:"validation,omitempty"`
	ExtractionPrompt string       `json:"extraction_prompt,omitempty"`
}

// Function is a webhook-backed capability. Variables holds variable ids in
// parameter order.
type Function struct {
	ID          string   `json:"id"`
	Name        string   `json:"name"`
	DisplayName string   `json:"display_name"`
	Description string   `json:"description"`
	Variables   []string `json:"variables"`
	Enabled     bool     `json:"enabled"`
}

// AgentConfig is the local description of a voice assistant. It owns its
// variables and functions; the remote assistant is referenced by
// VAPIAssistantID.
type AgentConfig struct {
	ID              string     `json:"id"`
	Name            string     `json:"name"`
	Description     string     `json:"description"`
	UserID          string     `json:"user_id"`
	VAPIAssistantID string     `json:"vapi_assistant_id,omitempty"`
	VoiceID         string     `json:"voice_id"`
	Model           string     `json:"model"`
	SystemPrompt    string     `json:"system_prompt"`
	FirstMessage    string     `json:"first_message"`
	Variables       []Variable `json:"variables"`
	Functions       []Function `json:"functions"`
	SyncStatus      SyncStatus `json:"sync_status"`
	LastSyncedAt    *time.Time `json:"last_synced_at,omitempty"`
	SyncError       string     `json:"sync_error,omitempty"`
	CreatedAt       time.Time  `json:"created_at"`
	UpdatedAt       time.Time  `json:"updated_at"`
}

// Variable returns the variable with the given id.
func (c *AgentConfig) Variable(id string) (*Variable, bool) {
	for i := range c.Variables {
		if c.Variables[i].ID == id {
			return &c.Variables[i], true
		}
	}
	return nil, false
}

// ResolveVariables returns fn's variables in order, skipping unknown and
// repeated ids.
func (c *AgentConfig) ResolveVariables(fn *Function) []*Variable {
	vars := make([]*Variable, 0, len(fn.Variables))
	for i, id := range fn.Variables {
		if slices.Contains(fn.Variables[:i], id) {
			continue
		}
		if v, ok := c.Variable(id); ok {
			vars = append(vars, v)
		}
	}
	return vars
}

// Linked reports whether the config references a remote assistant.
func (c *AgentConfig) Linked() bool {
	return c.VAPIAssistantID != ""
}

// Validate reports structural problems that prevent storing the config.
func (c *AgentConfig) Validate() error {
	var problems []string

	if strings.TrimSpace(c.Name) == "" {
		problems = append(problems, "name required")
	}
	if c.SyncStatus != "" && !c.SyncStatus.Valid() {
		problems = append(problems, fmt.Sprintf("invalid sync_status %q", c.SyncStatus))
	}

	ids := make(map[string]bool)
	for i, v := range c.Variables {
		if v.Name == "" {
			problems = append(problems, fmt.Sprintf("variables[%d]: name required", i))
		}
		if !v.Type.Valid() {
			problems = append(problems, fmt.Sprintf("variables[%d]: invalid type %q", i, v.Type))
		}
		if ids[v.ID] {
			problems = append(problems, fmt.Sprintf("variables[%d]: duplicate id %q", i, v.ID))
		}
		ids[v.ID] = true
		if v.Validation != nil && v.Validation.Pattern != "" {
			if _, err := regexp.Compile(v.Validation.Pattern); err != nil {
				problems = append(problems, fmt.Sprintf("variables[%d]: invalid pattern: %v", i, err))
			}
		}
	}

	fnIDs := make(map[string]bool)
	for i, fn := range c.Functions {
		if fn.Name == "" {
			problems = append(problems, fmt.Sprintf("functions[%d]: name required", i))
		}
		if fnIDs[fn.ID] {
			problems = append(problems, fmt.Sprintf("functions[%d]: duplicate id %q", i, fn.ID))
		}
		fnIDs[fn.ID] = true
	}

	if len(problems) > 0 {
		return fmt.Errorf("%w: %s", ErrInvalidConfig, strings.Join(problems, "; "))
	}
	return nil
}

// Warnings lists problems that generation tolerates: duplicate variable
// names (later properties overwrite earlier ones), variables shadowing the
// reserved user_id parameter, and unresolved variable references.
func (c *AgentConfig) Warnings() []string {
	var warnings []string

	seen := make(map[string]bool)
	for _, v := range c.Variables {
		if v.Name == UserIDParam {
			warnings = append(warnings, fmt.Sprintf("variable %q shadows the reserved user_id parameter", v.ID))
		}
		if seen[v.Name] {
			warnings = append(warnings, fmt.Sprintf("variable name %q is used more than once", v.Name))
		}
		seen[v.Name] = true
	}

	for _, fn := range c.Functions {
		for _, id := range fn.Variables {
			if _, ok := c.Variable(id); !ok {
				warnings = append(warnings, fmt.Sprintf("function %q references unknown variable %q", fn.Name, id))
			}
		}
	}

	return warnings
}

// assignIDs gives every variable and function without an id a new one.
func (c *AgentConfig) assignIDs() {
	for i := range c.Variables {
		if c.Variables[i].ID == "" {
			c.Variables[i].ID = uuid.NewString()
		}
	}
	for i := range c.Functions {
		if c.Functions[i].ID == "" {
			c.Functions[i].ID = uuid.NewString()
		}
	}
}

// CreateCommand contains the data required to create an agent config.
// UserID is only used when the request has no session user.
type CreateCommand struct {
	Name         string     `json:"name"`
	Description  string     `json:"description"`
	UserID       string     `json:"user_id,omitempty"`
	VoiceID      string     `json:"voice_id"`
	Model        string     `json:"model"`
	SystemPrompt string     `json:"system_prompt"`
	FirstMessage string     `json:"first_message"`
	Variables    []Variable `json:"variables"`
	Functions    []Function `json:"functions"`
}

// UpdateCommand replaces the editable content of an agent config. Owner,
// remote link, and sync state are left unchanged.
type UpdateCommand struct {
	Name         string     `json:"name"`
	Description  string     `json:"description"`
	VoiceID      string     `json:"voice_id"`
	Model        string     `json:"model"`
	SystemPrompt string     `json:"system_prompt"`
	FirstMessage string     `json:"first_message"`
	Variables    []Variable `json:"variables"`
	Functions    []Function `json:"functions"`
}

func (cmd UpdateCommand) apply(c *AgentConfig) {
	c.Name = cmd.Name
	c.Description = cmd.Description
	c.VoiceID = cmd.VoiceID
	c.Model = cmd.Model
	c.SystemPrompt = cmd.SystemPrompt
	c.FirstMessage = cmd.FirstMessage
	c.Variables = cmd.Variables
	c.Functions = cmd.Functions
}
