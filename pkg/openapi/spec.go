package openapi

// NewSpec creates an empty OpenAPI 3.1 document with the shared components.
func NewSpec(title, version string) *Spec {
	return &Spec{
		OpenAPI: "3.1.0",
		Info: &Info{
			Title:   title,
			Version: version,
		},
		Paths:      make(map[string]*PathItem),
		Components: NewComponents(),
	}
}

func (s *Spec) SetDescription(desc string) {
	s.Info.Description = desc
}

func (s *Spec) AddServer(url string) {
	if url == "" {
		return
	}
	s.Servers = append(s.Servers, &Server{URL: url})
}

// AddOperation attaches op to path under the given HTTP method.
func (s *Spec) AddOperation(path, method string, op *Operation) {
	if s.Paths[path] == nil {
		s.Paths[path] = &PathItem{}
	}

	switch method {
	case "GET":
		s.Paths[path].Get = op
	case "POST":
		s.Paths[path].Post = op
	case "PUT":
		s.Paths[path].Put = op
	case "PATCH":
		s.Paths[path].Patch = op
	case "DELETE":
		s.Paths[path].Delete = op
	}
}
