package http

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"net/http"
	"sync"

	"github.com/getkin/kin-openapi/openapi3"
	"github.com/getkin/kin-openapi/openapi3filter"

	"github.com/aretw0/abacus/api"
)

// Contract loads and validates the embedded OpenAPI document once.
var Contract = sync.OnceValues(func() (*openapi3.T, error) {
	loader := openapi3.NewLoader()
	doc, err := loader.LoadFromData(api.OpenAPI)
	if err != nil {
		return nil, fmt.Errorf("load openapi: %w", err)
	}
	if err := doc.Validate(context.Background()); err != nil {
		return nil, fmt.Errorf("invalid openapi: %w", err)
	}
	return doc, nil
})

// validateBody rejects request bodies that do not match the contract of the
// operation registered at path for method.
func (s *Server) validateBody(path, method string) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			doc, err := Contract()
			if err != nil {
				s.fail(w, "OpenAPI contract unavailable", err)
				return
			}
			item := doc.Paths.Find(path)
			if item == nil || item.GetOperation(method) == nil || item.GetOperation(method).RequestBody == nil {
				next.ServeHTTP(w, r)
				return
			}

			data, err := io.ReadAll(r.Body)
			if err != nil {
				s.badRequest(w, "Request body unreadable", err)
				return
			}
			if r.Header.Get("Content-Type") == "" {
				r.Header.Set("Content-Type", "application/json")
			}

			r.Body = io.NopCloser(bytes.NewReader(data))
			input := &openapi3filter.RequestValidationInput{
				Request: r,
				Options: &openapi3filter.Options{MultiError: false},
			}
			body := item.GetOperation(method).RequestBody.Value
			if err := openapi3filter.ValidateRequestBody(r.Context(), input, body); err != nil {
				s.badRequest(w, "Request body violates contract", err)
				return
			}

			r.Body = io.NopCloser(bytes.NewReader(data))
			next.ServeHTTP(w, r)
		})
	}
}

// GetOpenAPI handles the GET /openapi.yaml request.
func (s *Server) GetOpenAPI(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "text/yaml")
	w.Write(api.OpenAPI)
}

// GetSwagger serves a Swagger UI page backed by /openapi.yaml.
func (s *Server) GetSwagger(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "text/html")
	w.Write([]byte(swaggerHTML))
}

const swaggerHTML = `
<!DOCTYPE html>
<html lang="en">
<head>
    <meta charset="utf-8" />
    <meta name="viewport" content="width=device-width, initial-scale=1" />
    <title>Abacus API Documentation</title>
    <link rel="stylesheet" href="https://unpkg.com/swagger-ui-dist@5.11.0/swagger-ui.css" />
</head>
<body>
<div id="swagger-ui"></div>
<script src="https://unpkg.com/swagger-ui-dist@5.11.0/swagger-ui-bundle.js" crossorigin></script>
<script>
    window.onload = () => {
    window.ui = SwaggerUIBundle({
        url: '/openapi.yaml',
        dom_id: '#swagger-ui',
    });
    };
</script>
</body>
</html>
`
