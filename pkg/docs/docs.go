// Package docs serves the pokedex OpenAPI description and checks live
// responses against it.
package docs

import (
	"bytes"
	"context"
	_ "embed"
	"errors"
	"fmt"
	"io"
	"net/http"

	"github.com/getkin/kin-openapi/openapi3"
	"github.com/getkin/kin-openapi/openapi3filter"
	"github.com/getkin/kin-openapi/routers"
	"github.com/getkin/kin-openapi/routers/gorillamux"

	"github.com/getmockd/pokedex/pkg/httputil"
)

//go:embed openapi.yaml
var documentYAML []byte

// ErrUndocumented is returned when a request has no matching operation.
var ErrUndocumented = errors.New("operation not documented")

// Document is a loaded and validated OpenAPI description.
type Document struct {
	doc    *openapi3.T
	router routers.Router
	json   []byte
}

// Load parses the embedded OpenAPI document and validates it.
func Load(ctx context.Context) (*Document, error) {
	return LoadFromData(ctx, documentYAML)
}

// LoadFromData parses and validates an OpenAPI document in YAML or JSON.
func LoadFromData(ctx context.Context, data []byte) (*Document, error) {
	loader := openapi3.NewLoader()
	loader.Context = ctx

	doc, err := loader.LoadFromData(data)
	if err != nil {
		return nil, fmt.Errorf("failed to load OpenAPI document: %w", err)
	}
	if err := doc.Validate(ctx); err != nil {
		return nil, fmt.Errorf("invalid OpenAPI document: %w", err)
	}

	router, err := gorillamux.NewRouter(doc)
	if err != nil {
		return nil, fmt.Errorf("failed to create router: %w", err)
	}

	encoded, err := doc.MarshalJSON()
	if err != nil {
		return nil, fmt.Errorf("encode OpenAPI document: %w", err)
	}

	return &Document{doc: doc, router: router, json: encoded}, nil
}

// Spec returns the parsed document.
func (d *Document) Spec() *openapi3.T {
	return d.doc
}

// Handler serves the document as JSON.
func (d *Document) Handler() http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		httputil.WriteBlob(w, r, http.StatusOK, httputil.ContentTypeJSON, d.json)
	})
}

// ValidateResponse checks a response to req against the documented status
// codes, content types and schemas. The request body is not validated.
// It returns ErrUndocumented when no operation matches req.
func (d *Document) ValidateResponse(ctx context.Context, req *http.Request, status int, header http.Header, body []byte) error {
	route, pathParams, err := d.router.FindRoute(req)
	if err != nil {
		return fmt.Errorf("%w: %s %s", ErrUndocumented, req.Method, req.URL.Path)
	}

	reqInput := &openapi3filter.RequestValidationInput{
		Request:    req,
		PathParams: pathParams,
		Route:      route,
	}
	respInput := &openapi3filter.ResponseValidationInput{
		RequestValidationInput: reqInput,
		Status:                 status,
		Header:                 header,
		Body:                   io.NopCloser(bytes.NewReader(body)),
		Options: &openapi3filter.Options{
			IncludeResponseStatus: true,
		},
	}
	return openapi3filter.ValidateResponse(ctx, respInput)
}
