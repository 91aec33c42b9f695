package agents

import (
	"net/http"
	"slices"

	"github.com/Mark0025/peterental/internal/vapi"
)

// UserIDParam is the reserved parameter carried by every generated function.
const UserIDParam = "user_id"

const userIDDescription = "The ID of the user this agent is assisting. Always pass the user ID given in the system prompt."

// GenerateFunctionConfig renders one VAPI function schema per enabled
// function, in order. Every schema starts with the user_id parameter,
// defaulted to the config owner and always required. Unresolved variable
// ids are skipped, and each name appears at most once in required.
func GenerateFunctionConfig(cfg *AgentConfig, webhookURL string) []vapi.Function {
	fns := make([]vapi.Function, 0, len(cfg.Functions))

	for i := range cfg.Functions {
		fn := &cfg.Functions[i]
		if !fn.Enabled {
			continue
		}

		params := vapi.Parameters{
			Type:     "object",
			Required: []string{UserIDParam},
		}
		params.Properties.Set(UserIDParam, vapi.Property{
			Type:        "string",
			Description: userIDDescription,
			Default:     cfg.UserID,
		})

		for _, v := range cfg.ResolveVariables(fn) {
			prop := vapi.Property{
				Type:        schemaType(v.Type),
				Description: v.Description,
			}
			if v.Validation != nil && len(v.Validation.Options) > 0 {
				prop.Enum = v.Validation.Options
			}
			params.Properties.Set(v.Name, prop)

			if v.Required && !slices.Contains(params.Required, v.Name) {
				params.Required = append(params.Required, v.Name)
			}
		}

		fns = append(fns, vapi.Function{
			Name:        fn.Name,
			Description: fn.Description,
			Parameters:  params,
			URL:         webhookURL,
			Method:      http.MethodPost,
		})
	}

	return fns
}

func schemaType(t VariableType) string {
	switch t {
	case TypeNumber:
		return "number"
	case TypeBoolean:
		return "boolean"
	default:
		return "string"
	}
}
