// Package docs serves the interactive API reference, rendered by Scalar from
// the API module's OpenAPI document.
package docs

import (
	"bytes"
	_ "embed"
	"html/template"
	"net/http"

	"github.com/Mark0025/peterental/pkg/module"
)

//go:embed index.html
var indexTemplate string

var index = template.Must(template.New("index").Parse(indexTemplate))

// NewModule renders the reference page once and serves it at prefix.
// specURL is the absolute path of the OpenAPI document.
func NewModule(prefix, title, specURL string) (*module.Module, error) {
	var buf bytes.Buffer
	err := index.Execute(&buf, struct {
		Title   string
		SpecURL string
	}{title, specURL})
	if err != nil {
		return nil, err
	}
	page := buf.Bytes()

	mux := http.NewServeMux()
	mux.HandleFunc("GET /{$}", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "text/html; charset=utf-8")
		w.WriteHeader(http.StatusOK)
		w.Write(page)
	})

	return module.New(prefix, mux), nil
}
