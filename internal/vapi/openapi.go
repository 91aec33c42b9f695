package vapi

import "github.com/Mark0025/peterental/pkg/openapi"

type spec struct {
	List   *openapi.Operation
	Find   *openapi.Operation
	Delete *openapi.Operation
}

var Spec = spec{
	List: &openapi.Operation{
		Summary:     "List remote assistants",
		Description: "Lists assistants from the VAPI account. Failures are reported in the result body",
		Responses: map[int]*openapi.Response{
			200: openapi.ResponseJSON("Remote assistants", "AssistantListResult"),
			502: openapi.ResponseJSON("VAPI request failed", "AssistantListResult"),
			503: openapi.ResponseJSON("VAPI not configured or unavailable", "AssistantListResult"),
		},
	},
	Find: &openapi.Operation{
		Summary:     "Get remote assistant",
		Description: "Fetches a single assistant from VAPI",
		Parameters: []*openapi.Parameter{
			openapi.PathParam("id", "VAPI assistant id"),
		},
		Responses: map[int]*openapi.Response{
			200: openapi.ResponseJSON("Remote assistant", "Assistant"),
			404: openapi.ResponseRef("NotFound"),
			502: openapi.ResponseRef("BadGateway"),
		},
	},
	Delete: &openapi.Operation{
		Summary:     "Delete remote assistant",
		Description: "Deletes an assistant from VAPI. Local configs linked to it are left unchanged",
		Parameters: []*openapi.Parameter{
			openapi.PathParam("id", "VAPI assistant id"),
		},
		Responses: map[int]*openapi.Response{
			204: {Description: "Assistant deleted"},
			404: openapi.ResponseRef("NotFound"),
			502: openapi.ResponseRef("BadGateway"),
		},
	},
}

func (spec) Schemas() map[string]*openapi.Schema {
	function := &openapi.Schema{
		Type: "object",
		Properties: map[string]*openapi.Schema{
			"name":        {Type: "string"},
			"description": {Type: "string"},
			"parameters": {
				Type: "object",
				Properties: map[string]*openapi.Schema{
					"type":       {Type: "string", Example: "object"},
					"properties": {Type: "object"},
					"required":   {Type: "array", Items: &openapi.Schema{Type: "string"}},
				},
			},
			"url":    {Type: "string"},
			"method": {Type: "string", Example: "POST"},
		},
	}

	return map[string]*openapi.Schema{
		"FunctionSchema": function,
		"Assistant": {
			Type: "object",
			Properties: map[string]*openapi.Schema{
				"id":   {Type: "string"},
				"name": {Type: "string"},
				"model": {
					Type: "object",
					Properties: map[string]*openapi.Schema{
						"provider":  {Type: "string"},
						"model":     {Type: "string"},
						"messages":  {Type: "array", Items: &openapi.Schema{Type: "object"}},
						"functions": {Type: "array", Items: openapi.SchemaRef("FunctionSchema")},
					},
				},
				"voice": {
					Type: "object",
					Properties: map[string]*openapi.Schema{
						"provider": {Type: "string"},
						"voiceId":  {Type: "string"},
					},
				},
				"firstMessage": {Type: "string"},
				"serverUrl":    {Type: "string"},
			},
		},
		"AssistantListResult": {
			Type: "object",
			Properties: map[string]*openapi.Schema{
				"success":    {Type: "boolean"},
				"assistants": {Type: "array", Items: openapi.SchemaRef("Assistant")},
				"error":      {Type: "string"},
			},
		},
	}
}
