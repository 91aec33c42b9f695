// Package vapi is a client for the VAPI voice-assistant platform. It covers
// the assistant resource only: create, update, fetch, list, and delete.
package vapi

import (
	"bytes"
	"encoding/json"
	"fmt"
	"slices"

	"github.com/tidwall/gjson"
)

// Assistant is the remote assistant resource.
type Assistant struct {
	ID           string `json:"id,omitempty"`
	Name         string `json:"name"`
	Model        Model  `json:"model"`
	Voice        Voice  `json:"voice"`
	FirstMessage string `json:"firstMessage,omitempty"`
	ServerURL    string `json:"serverUrl,omitempty"`
	CreatedAt    string `json:"createdAt,omitempty"`
	UpdatedAt    string `json:"updatedAt,omitempty"`
}

// SystemPrompt returns the content of the first system message, or "".
func (a *Assistant) SystemPrompt() string {
	for _, m := range a.Model.Messages {
		if m.Role == RoleSystem {
			return m.Content
		}
	}
	return ""
}

const RoleSystem = "system"

type Model struct {
	Provider  string     `json:"provider"`
	Model     string     `json:"model"`
	Messages  []Message  `json:"messages,omitempty"`
	Functions []Function `json:"functions,omitempty"`
	Tools     []Tool     `json:"tools,omitempty"`
}

// AllFunctions returns the legacy model.functions entries followed by the
// function definitions of model.tools entries of type "function".
func (m *Model) AllFunctions() []Function {
	fns := make([]Function, 0, len(m.Functions)+len(m.Tools))
	fns = append(fns, m.Functions...)
	for _, t := range m.Tools {
		if t.Type == ToolTypeFunction && t.Function != nil {
			fns = append(fns, *t.Function)
		}
	}
	return fns
}

type Message struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

type Voice struct {
	Provider string `json:"provider"`
	VoiceID  string `json:"voiceId"`
}

const ToolTypeFunction = "function"

// Tool is the newer VAPI shape wrapping a function definition.
type Tool struct {
	Type     string    `json:"type"`
	Function *Function `json:"function,omitempty"`
	Server   *Server   `json:"server,omitempty"`
}

type Server struct {
	URL string `json:"url"`
}

// Function is a callable function definition with its parameter schema.
// URL and Method route invocations to the webhook.
type Function struct {
	Name        string     `json:"name"`
	Description string     `json:"description"`
	Parameters  Parameters `json:"parameters"`
	URL         string     `json:"url,omitempty"`
	Method      string     `json:"method,omitempty"`
}

// Parameters is a JSON Schema object describing function arguments.
type Parameters struct {
	Type       string     `json:"type"`
	Properties Properties `json:"properties"`
	Required   []string   `json:"required"`
}

// IsRequired reports whether name is listed in Required.
func (p *Parameters) IsRequired(name string) bool {
	return slices.Contains(p.Required, name)
}

// Property is one parameter schema. Decoding is lenient: a type union such
// as ["number","null"] keeps its first non-null string member, scalar enum
// values are kept in their string form, and a non-object schema decodes to
// an empty Property.
type Property struct {
	Type        string   `json:"type"`
	Description string   `json:"description,omitempty"`
	Default     any      `json:"default,omitempty"`
	Enum        []string `json:"enum,omitempty"`
}

// NamedProperty pairs a property with its key.
type NamedProperty struct {
	Name     string
	Property Property
}

// Properties is a JSON object whose key order is preserved through decode
// and encode. Setting an existing name replaces its value in place.
type Properties []NamedProperty

// Get returns the property named name.
func (ps Properties) Get(name string) (Property, bool) {
	for _, p := range ps {
		if p.Name == name {
			return p.Property, true
		}
	}
	return Property{}, false
}

// Set adds or replaces the property named name.
func (ps *Properties) Set(name string, prop Property) {
	for i := range *ps {
		if (*ps)[i].Name == name {
			(*ps)[i].Property = prop
			return
		}
	}
	*ps = append(*ps, NamedProperty{Name: name, Property: prop})
}

func (ps Properties) MarshalJSON() ([]byte, error) {
	var buf bytes.Buffer
	buf.WriteByte('{')
	for i, p := range ps {
		if i > 0 {
			buf.WriteByte(',')
		}
		key, err := json.Marshal(p.Name)
		if err != nil {
			return nil, err
		}
		val, err := json.Marshal(p.Property)
		if err != nil {
			return nil, err
		}
		buf.Write(key)
		buf.WriteByte(':')
		buf.Write(val)
	}
	buf.WriteByte('}')
	return buf.Bytes(), nil
}

func (ps *Properties) UnmarshalJSON(data []byte) error {
	result := gjson.ParseBytes(data)
	if result.Type == gjson.Null {
		*ps = nil
		return nil
	}
	if !result.IsObject() {
		return fmt.Errorf("properties: expected object")
	}

	var out Properties
	var decodeErr error
	result.ForEach(func(key, value gjson.Result) bool {
		var prop Property
		if err := json.Unmarshal([]byte(value.Raw), &prop); err != nil {
			decodeErr = fmt.Errorf("property %q: %w", key.String(), err)
			return false
		}
		out.Set(key.String(), prop)
		return true
	})
	if decodeErr != nil {
		return decodeErr
	}

	*ps = out
	return nil
}

func (p *Property) UnmarshalJSON(data []byte) error {
	v := gjson.ParseBytes(data)
	if !v.IsObject() {
		*p = Property{}
		return nil
	}

	var prop Property
	prop.Type = propertyType(v.Get("type"))
	if d := v.Get("description"); d.Type == gjson.String {
		prop.Description = d.String()
	}
	if d := v.Get("default"); d.Exists() {
		prop.Default = d.Value()
	}
	for _, e := range v.Get("enum").Array() {
		switch e.Type {
		case gjson.String, gjson.Number, gjson.True, gjson.False:
			prop.Enum = append(prop.Enum, e.String())
		}
	}

	*p = prop
	return nil
}

func propertyType(t gjson.Result) string {
	if t.Type == gjson.String {
		return t.String()
	}
	for _, m := range t.Array() {
		if m.Type == gjson.String && m.String() != "null" {
			return m.String()
		}
	}
	return ""
}
