package openapi

// Components holds reusable schema and response definitions.
type Components struct {
	Schemas   map[string]*Schema   `json:"schemas,omitempty"`
	Responses map[string]*Response `json:"responses,omitempty"`
}

// NewComponents returns components pre-populated with the shared error
// responses and the page request schema.
func NewComponents() *Components {
	errorSchema := &Schema{
		Type: "object",
		Properties: map[string]*Schema{
			"error": {Type: "string"},
		},
	}

	errorResponse := func(description string) *Response {
		return &Response{
			Description: description,
			Content: map[string]*MediaType{
				"application/json": {Schema: errorSchema},
			},
		}
	}

	return &Components{
		Schemas: map[string]*Schema{
			"PageRequest": {
				Type: "object",
				Properties: map[string]*Schema{
					"page":      {Type: "integer", Description: "Page number (1-indexed)"},
					"page_size": {Type: "integer", Description: "Results per page"},
					"search":    {Type: "string", Description: "Search query"},
				},
			},
		},
		Responses: map[string]*Response{
			"BadRequest":   errorResponse("Invalid request"),
			"Unauthorized": errorResponse("Missing or invalid credentials"),
			"NotFound":     errorResponse("Resource not found"),
			"Conflict":     errorResponse("Resource conflict"),
			"BadGateway":   errorResponse("Upstream service failure"),
		},
	}
}

func (c *Components) AddSchemas(schemas map[string]*Schema) {
	for name, schema := range schemas {
		c.Schemas[name] = schema
	}
}

func (c *Components) AddResponses(responses map[string]*Response) {
	for name, response := range responses {
		c.Responses[name] = response
	}
}
