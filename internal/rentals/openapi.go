package rentals

import "github.com/Mark0025/peterental/pkg/openapi"

type spec struct {
	List   *openapi.Operation
	Find   *openapi.Operation
	Create *openapi.Operation
	Update *openapi.Operation
	Delete *openapi.Operation
}

var Spec = spec{
	List: &openapi.Operation{
		Summary:     "List rentals",
		Description: "Returns a paginated list of rental listings from the backend",
		Parameters: []*openapi.Parameter{
			openapi.QueryParam("page", "integer", "Page number (1-indexed)", false),
			openapi.QueryParam("page_size", "integer", "Results per page", false),
			openapi.QueryParam("search", "string", "Filter by address (contains)", false),
			openapi.QueryParam("max_price", "number", "Maximum monthly price", false),
		},
		Responses: map[int]*openapi.Response{
			200: openapi.ResponseJSON("Paginated list of rentals", "RentalPageResult"),
			502: openapi.ResponseRef("BadGateway"),
		},
	},
	Find: &openapi.Operation{
		Summary: "Get rental",
		Parameters: []*openapi.Parameter{
			openapi.PathParam("id", "Rental id"),
		},
		Responses: map[int]*openapi.Response{
			200: openapi.ResponseJSON("Rental listing", "Rental"),
			404: openapi.ResponseRef("NotFound"),
			502: openapi.ResponseRef("BadGateway"),
		},
	},
	Create: &openapi.Operation{
		Summary:     "Create rental",
		RequestBody: openapi.RequestBodyJSON("CreateRentalCommand", true),
		Responses: map[int]*openapi.Response{
			201: openapi.ResponseJSON("Rental created", "Rental"),
			400: openapi.ResponseRef("BadRequest"),
			502: openapi.ResponseRef("BadGateway"),
		},
	},
	Update: &openapi.Operation{
		Summary:     "Update rental",
		Description: "Applies a partial update. Omitted fields are unchanged",
		Parameters: []*openapi.Parameter{
			openapi.PathParam("id", "Rental id"),
		},
		RequestBody: openapi.RequestBodyJSON("UpdateRentalCommand", true),
		Responses: map[int]*openapi.Response{
			200: openapi.ResponseJSON("Rental updated", "Rental"),
			400: openapi.ResponseRef("BadRequest"),
			404: openapi.ResponseRef("NotFound"),
			502: openapi.ResponseRef("BadGateway"),
		},
	},
	Delete: &openapi.Operation{
		Summary: "Delete rental",
		Parameters: []*openapi.Parameter{
			openapi.PathParam("id", "Rental id"),
		},
		Responses: map[int]*openapi.Response{
			204: {Description: "Rental deleted"},
			404: openapi.ResponseRef("NotFound"),
			502: openapi.ResponseRef("BadGateway"),
		},
	},
}

func (spec) Schemas() map[string]*openapi.Schema {
	fields := func() map[string]*openapi.Schema {
		return map[string]*openapi.Schema{
			"address":        {Type: "string"},
			"price":          {Type: "number"},
			"bedrooms":       {Type: "integer"},
			"bathrooms":      {Type: "number"},
			"square_feet":    {Type: "integer"},
			"property_type":  {Type: "string", Example: "apartment"},
			"available_date": {Type: "string", Format: "date"},
			"description":    {Type: "string"},
			"amenities":      {Type: "array", Items: &openapi.Schema{Type: "string"}},
		}
	}

	rental := fields()
	rental["id"] = &openapi.Schema{Type: "string"}
	rental["status"] = &openapi.Schema{Type: "string"}

	return map[string]*openapi.Schema{
		"Rental":              {Type: "object", Properties: rental},
		"CreateRentalCommand": {Type: "object", Properties: fields(), Required: []string{"address", "price"}},
		"UpdateRentalCommand": {Type: "object", Properties: fields()},
		"RentalPageResult": {
			Type: "object",
			Properties: map[string]*openapi.Schema{
				"data":        {Type: "array", Items: openapi.SchemaRef("Rental")},
				"total":       {Type: "integer"},
				"page":        {Type: "integer"},
				"page_size":   {Type: "integer"},
				"total_pages": {Type: "integer"},
			},
		},
	}
}
