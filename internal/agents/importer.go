package agents

import (
	"fmt"
	"slices"
	"strings"
	"time"
	"unicode"
	"unicode/utf8"

	"github.com/google/uuid"

	"github.com/Mark0025/peterental/internal/vapi"
)

// RequiredMerge decides a synthesized variable's required flag when the
// same parameter appears in several remote functions.
type RequiredMerge int

const (
	// RequiredAny marks the variable required if any declaring function requires it.
	RequiredAny RequiredMerge = iota
	// RequiredFirstWins keeps the flag from the first declaring function.
	RequiredFirstWins
)

func (m RequiredMerge) String() string {
	switch m {
	case RequiredFirstWins:
		return "first"
	default:
		return "any"
	}
}

// ParseRequiredMerge accepts "any" (or "") and "first".
func ParseRequiredMerge(s string) (RequiredMerge, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "any":
		return RequiredAny, nil
	case "first":
		return RequiredFirstWins, nil
	default:
		return RequiredAny, fmt.Errorf("unknown required merge policy %q (want any or first)", s)
	}
}

// Import reconstructs a draft config from a remote assistant. Each distinct
// parameter name becomes one variable shared by every function that
// declares it; user_id is never turned into a variable. The draft has no
// id and is marked synced as of now.
func Import(a *vapi.Assistant, userID string, now time.Time, policy RequiredMerge) *AgentConfig {
	cfg := &AgentConfig{
		Name:            a.Name,
		UserID:          userID,
		VAPIAssistantID: a.ID,
		VoiceID:         a.Voice.VoiceID,
		Model:           a.Model.Model,
		SystemPrompt:    basePrompt(a.SystemPrompt()),
		FirstMessage:    a.FirstMessage,
		Variables:       []Variable{},
		Functions:       []Function{},
		SyncStatus:      StatusSynced,
		LastSyncedAt:    &now,
	}

	byName := make(map[string]int)

	for _, rf := range a.Model.AllFunctions() {
		fn := Function{
			ID:          uuid.NewString(),
			Name:        rf.Name,
			DisplayName: displayName(rf.Name),
			Description: rf.Description,
			Variables:   []string{},
			Enabled:     true,
		}

		for _, p := range rf.Parameters.Properties {
			if p.Name == UserIDParam {
				continue
			}
			required := rf.Parameters.IsRequired(p.Name)

			idx, seen := byName[p.Name]
			if !seen {
				cfg.Variables = append(cfg.Variables, synthesize(p, required))
				idx = len(cfg.Variables) - 1
				byName[p.Name] = idx
			} else if required && policy == RequiredAny {
				cfg.Variables[idx].Required = true
			}

			id := cfg.Variables[idx].ID
			if !slices.Contains(fn.Variables, id) {
				fn.Variables = append(fn.Variables, id)
			}
		}

		cfg.Functions = append(cfg.Functions, fn)
	}

	return cfg
}

func synthesize(p vapi.NamedProperty, required bool) Variable {
	spaced := strings.ReplaceAll(p.Name, "_", " ")

	v := Variable{
		ID:          uuid.NewString(),
		Name:        p.Name,
		DisplayName: displayName(p.Name),
		Type:        importType(p.Property.Type),
		Description: p.Property.Description,
		Required:    required,
	}

	if p.Property.Description != "" {
		v.ExtractionPrompt = fmt.Sprintf("What is the %s?", spaced)
	} else {
		v.Description = spaced
	}

	if len(p.Property.Enum) > 0 {
		v.Validation = &Validation{Options: p.Property.Enum}
	}

	return v
}

func importType(t string) VariableType {
	switch t {
	case "number":
		return TypeNumber
	case "boolean":
		return TypeBoolean
	default:
		return TypeString
	}
}

// displayName turns a snake_case name into space-separated words with
// each word's first letter upper-cased.
func displayName(name string) string {
	words := strings.Split(name, "_")
	for i, w := range words {
		r, size := utf8.DecodeRuneInString(w)
		if size == 0 {
			continue
		}
		words[i] = string(unicode.ToUpper(r)) + w[size:]
	}
	return strings.Join(words, " ")
}
