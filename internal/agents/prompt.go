package agents

import (
	"fmt"
	"strings"
)

// userContextHeading marks the start of the generated portion of a system
// prompt. Import strips everything from it onward.
const userContextHeading = "## User Context"

// GenerateSystemPrompt renders the assistant's system prompt: the configured
// prompt, the user context, the information to collect, and the enabled
// functions. Output is a pure function of cfg.
func GenerateSystemPrompt(cfg *AgentConfig) string {
	var b strings.Builder

	if cfg.SystemPrompt != "" {
		b.WriteString(cfg.SystemPrompt)
		b.WriteString("\n\n")
	}

	b.WriteString(userContextHeading)
	b.WriteString("\n")
	fmt.Fprintf(&b, "You are assisting user: %s\n", cfg.UserID)
	fmt.Fprintf(&b, "IMPORTANT: Every function call must include %s=%q.\n", UserIDParam, cfg.UserID)

	if len(cfg.Variables) > 0 {
		b.WriteString("\n## Information to Collect\n")
		for _, v := range cfg.Variables {
			fmt.Fprintf(&b, "- %s %s: %s\n", v.Name, requiredMarker(v.Required), v.Description)
			if v.ExtractionPrompt != "" {
				fmt.Fprintf(&b, "  Ask: %q\n", v.ExtractionPrompt)
			}
		}
	}

	header := false
	for i := range cfg.Functions {
		fn := &cfg.Functions[i]
		if !fn.Enabled {
			continue
		}
		if !header {
			b.WriteString("\n## Available Functions\n")
			header = true
		}

		vars := cfg.ResolveVariables(fn)

		fmt.Fprintf(&b, "\n### %s\n", fn.Name)
		if fn.Description != "" {
			b.WriteString(fn.Description)
			b.WriteString("\n")
		}

		var required []string
		for _, v := range vars {
			if v.Required {
				required = append(required, v.Name)
			}
		}
		if len(required) > 0 {
			fmt.Fprintf(&b, "Required before calling: %s\n", strings.Join(required, ", "))
		} else {
			b.WriteString("Required before calling: none\n")
		}

		b.WriteString("Parameters:\n")
		fmt.Fprintf(&b, "- %s (required)\n", UserIDParam)
		for _, v := range vars {
			annotation := "optional"
			if v.Required {
				annotation = "required"
			}
			fmt.Fprintf(&b, "- %s (%s)\n", v.Name, annotation)
		}
	}

	return b.String()
}

func requiredMarker(required bool) string {
	if required {
		return "**REQUIRED**"
	}
	return "(optional)"
}

// basePrompt removes the generated sections from a prompt produced by
// GenerateSystemPrompt.
func basePrompt(prompt string) string {
	if i := strings.Index(prompt, userContextHeading); i >= 0 {
		return strings.TrimSpace(prompt[:i])
	}
	return prompt
}
