package agents

import "github.com/Mark0025/peterental/pkg/openapi"

// spec holds OpenAPI operation definitions for the agents domain.
type spec struct {
	List      *openapi.Operation
	Find      *openapi.Operation
	Create    *openapi.Operation
	Update    *openapi.Operation
	Delete    *openapi.Operation
	Prompt    *openapi.Operation
	Functions *openapi.Operation
	Sync      *openapi.Operation
	Unlink    *openapi.Operation
	Import    *openapi.Operation
}

var idParam = openapi.PathParam("id", "Agent config id (agent_<user>_<millis>)")

// Spec contains OpenAPI operation definitions for all agent endpoints.
var Spec = spec{
	List: &openapi.Operation{
		Summary:     "List agent configs",
		Description: "Returns the session user's agent configs with optional filtering and sorting",
		Parameters: []*openapi.Parameter{
			openapi.QueryParam("page", "integer", "Page number (1-indexed)", false),
			openapi.QueryParam("page_size", "integer", "Results per page", false),
			openapi.QueryParam("search", "string", "Search query (matches name and description)", false),
			openapi.QueryParam("sort", "string", "Comma-separated sort fields (name, created_at, updated_at, sync_status). Prefix with - for descending", false),
			openapi.QueryParam("name", "string", "Filter by name (contains)", false),
			openapi.QueryParam("status", "string", "Filter by sync status", false),
		},
		Responses: map[int]*openapi.Response{
			200: openapi.ResponseJSON("Paginated list of agent configs", "AgentConfigPageResult"),
		},
	},
	Find: &openapi.Operation{
		Summary:    "Get agent config",
		Parameters: []*openapi.Parameter{idParam},
		Responses: map[int]*openapi.Response{
			200: openapi.ResponseJSON("Agent config", "AgentConfig"),
			404: openapi.ResponseRef("NotFound"),
		},
	},
	Create: &openapi.Operation{
		Summary:     "Create agent config",
		Description: "Stores a new draft config owned by the session user",
		RequestBody: openapi.RequestBodyJSON("CreateAgentConfigCommand", true),
		Responses: map[int]*openapi.Response{
			201: openapi.ResponseJSON("Agent config created", "AgentConfig"),
			400: openapi.ResponseRef("BadRequest"),
		},
	},
	Update: &openapi.Operation{
		Summary:     "Update agent config",
		Description: "Replaces the editable content of a config. The remote link and sync state are kept",
		Parameters:  []*openapi.Parameter{idParam},
		RequestBody: openapi.RequestBodyJSON("UpdateAgentConfigCommand", true),
		Responses: map[int]*openapi.Response{
			200: openapi.ResponseJSON("Agent config updated", "AgentConfig"),
			400: openapi.ResponseRef("BadRequest"),
			404: openapi.ResponseRef("NotFound"),
		},
	},
	Delete: &openapi.Operation{
		Summary:     "Delete agent config",
		Description: "Removes the local config. The linked VAPI assistant is not deleted",
		Parameters:  []*openapi.Parameter{idParam},
		Responses: map[int]*openapi.Response{
			204: {Description: "Agent config deleted"},
			404: openapi.ResponseRef("NotFound"),
		},
	},
	Prompt: &openapi.Operation{
		Summary:     "Generated system prompt",
		Description: "Renders the system prompt that sync sends to VAPI",
		Parameters:  []*openapi.Parameter{idParam},
		Responses: map[int]*openapi.Response{
			200: openapi.ResponseText("System prompt"),
			404: openapi.ResponseRef("NotFound"),
		},
	},
	Functions: &openapi.Operation{
		Summary:     "Generated function schemas",
		Description: "Renders the function schemas that sync sends to VAPI, one per enabled function",
		Parameters:  []*openapi.Parameter{idParam},
		Responses: map[int]*openapi.Response{
			200: {
				Description: "Function schemas",
				Content: map[string]*openapi.MediaType{
					"application/json": {Schema: &openapi.Schema{Type: "array", Items: openapi.SchemaRef("FunctionSchema")}},
				},
			},
			404: openapi.ResponseRef("NotFound"),
		},
	},
	Sync: &openapi.Operation{
		Summary:     "Sync to VAPI",
		Description: "Creates the remote assistant, or updates it when linked, and records the outcome",
		Parameters:  []*openapi.Parameter{idParam},
		Responses: map[int]*openapi.Response{
			200: openapi.ResponseJSON("Sync succeeded", "SyncResult"),
			404: openapi.ResponseRef("NotFound"),
			502: openapi.ResponseJSON("VAPI rejected the request or could not be reached", "SyncResult"),
			503: openapi.ResponseJSON("VAPI not configured or unavailable", "SyncResult"),
		},
	},
	Unlink: &openapi.Operation{
		Summary:     "Unlink from VAPI",
		Description: "Clears the remote assistant reference and resets the config to draft",
		Parameters:  []*openapi.Parameter{idParam},
		Responses: map[int]*openapi.Response{
			200: openapi.ResponseJSON("Agent config unlinked", "AgentConfig"),
			404: openapi.ResponseRef("NotFound"),
		},
	},
	Import: &openapi.Operation{
		Summary:     "Import from VAPI",
		Description: "Fetches a VAPI assistant and stores it as a config owned by the session user",
		RequestBody: openapi.RequestBodyJSON("ImportRequest", true),
		Responses: map[int]*openapi.Response{
			201: openapi.ResponseJSON("Assistant imported", "ImportResult"),
			400: openapi.ResponseJSON("Missing assistant id", "ImportResult"),
			401: openapi.ResponseJSON("No session user", "ImportResult"),
			404: openapi.ResponseJSON("Assistant not found", "ImportResult"),
			502: openapi.ResponseJSON("VAPI request failed", "ImportResult"),
		},
	},
}

// Schemas returns the component schemas for the agents domain.
func (spec) Schemas() map[string]*openapi.Schema {
	variableTypes := []string{"string", "number", "boolean", "email", "phone", "address", "datetime"}

	variable := &openapi.Schema{
		Type: "object",
		Properties: map[string]*openapi.Schema{
			"id":           {Type: "string"},
			"name":         {Type: "string", Description: "snake_case parameter key", Example: "property_address"},
			"display_name": {Type: "string"},
			"type":         {Type: "string", Enum: variableTypes},
			"description":  {Type: "string"},
			"required":     {Type: "boolean"},
			"default_value": {
				Description: "Any JSON value",
			},
			"validation": {
				Type: "object",
				Properties: map[string]*openapi.Schema{
					"pattern":    {Type: "string"},
					"min_length": {Type: "integer"},
					"max_length": {Type: "integer"},
					"options":    {Type: "array", Items: &openapi.Schema{Type: "string"}},
				},
			},
			"extraction_prompt": {Type: "string"},
		},
		Required: []string{"name", "type"},
	}

	function := &openapi.Schema{
		Type: "object",
		Properties: map[string]*openapi.Schema{
			"id":           {Type: "string"},
			"name":         {Type: "string"},
			"display_name": {Type: "string"},
			"description":  {Type: "string"},
			"variables":    {Type: "array", Items: &openapi.Schema{Type: "string"}, Description: "Variable ids in parameter order"},
			"enabled":      {Type: "boolean"},
		},
		Required: []string{"name"},
	}

	content := func() map[string]*openapi.Schema {
		return map[string]*openapi.Schema{
			"name":          {Type: "string"},
			"description":   {Type: "string"},
			"voice_id":      {Type: "string"},
			"model":         {Type: "string", Example: "gpt-4o"},
			"system_prompt": {Type: "string"},
			"first_message": {Type: "string"},
			"variables":     {Type: "array", Items: openapi.SchemaRef("Variable")},
			"functions":     {Type: "array", Items: openapi.SchemaRef("Function")},
		}
	}

	config := content()
	config["id"] = &openapi.Schema{Type: "string"}
	config["user_id"] = &openapi.Schema{Type: "string"}
	config["vapi_assistant_id"] = &openapi.Schema{Type: "string"}
	config["sync_status"] = &openapi.Schema{Type: "string", Enum: []string{"draft", "syncing", "synced", "error"}}
	config["last_synced_at"] = &openapi.Schema{Type: "string", Format: "date-time"}
	config["sync_error"] = &openapi.Schema{Type: "string"}
	config["created_at"] = &openapi.Schema{Type: "string", Format: "date-time"}
	config["updated_at"] = &openapi.Schema{Type: "string", Format: "date-time"}

	create := content()
	create["user_id"] = &openapi.Schema{Type: "string", Description: "Owner when the request has no session user"}

	return map[string]*openapi.Schema{
		"Variable":                 variable,
		"Function":                 function,
		"AgentConfig":              {Type: "object", Properties: config},
		"CreateAgentConfigCommand": {Type: "object", Properties: create, Required: []string{"name"}},
		"UpdateAgentConfigCommand": {Type: "object", Properties: content(), Required: []string{"name"}},
		"AgentConfigPageResult": {
			Type: "object",
			Properties: map[string]*openapi.Schema{
				"data":        {Type: "array", Items: openapi.SchemaRef("AgentConfig")},
				"total":       {Type: "integer"},
				"page":        {Type: "integer"},
				"page_size":   {Type: "integer"},
				"total_pages": {Type: "integer"},
			},
		},
		"SyncResult": {
			Type: "object",
			Properties: map[string]*openapi.Schema{
				"success":      {Type: "boolean"},
				"error":        {Type: "string"},
				"assistant_id": {Type: "string"},
			},
		},
		"ImportRequest": {
			Type:       "object",
			Properties: map[string]*openapi.Schema{"assistant_id": {Type: "string"}},
			Required:   []string{"assistant_id"},
		},
		"ImportResult": {
			Type: "object",
			Properties: map[string]*openapi.Schema{
				"success": {Type: "boolean"},
				"error":   {Type: "string"},
				"config":  openapi.SchemaRef("AgentConfig"),
			},
		},
	}
}
