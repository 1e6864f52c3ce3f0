//go:build swagger

package httpapi

import (
	"github.com/go-chi/chi/v5"
	httpSwagger "github.com/swaggo/http-swagger"
	"github.com/swaggo/swag"
)

// openAPIDoc is a minimal Swagger 2.0 description of the HTTP surface.
const openAPIDoc = `{
  "swagger": "2.0",
  "info": {"title": "llamapanama API", "version": "1.0", "description": "Local inference sessions over HTTP"},
  "basePath": "/",
  "paths": {
    "/models": {"get": {"summary": "List models", "produces": ["application/json"], "responses": {"200": {"description": "OK"}}}},
    "/healthz": {"get": {"summary": "Liveness", "responses": {"200": {"description": "ok"}}}},
    "/readyz": {"get": {"summary": "Readiness", "produces": ["application/json"], "responses": {"200": {"description": "ready"}, "503": {"description": "backend unavailable"}}}},
    "/v1/generate": {"post": {"summary": "Stream a completion", "consumes": ["application/json"], "produces": ["application/x-ndjson"],
      "responses": {"200": {"description": "token lines then a done line"}, "400": {"description": "bad request"}, "404": {"description": "model not found"}, "429": {"description": "too busy"}, "503": {"description": "backend unavailable"}}}},
    "/v1/tokenize": {"post": {"summary": "Tokenize text", "consumes": ["application/json"], "produces": ["application/json"], "responses": {"200": {"description": "OK"}, "413": {"description": "too many tokens"}}}},
    "/v1/embeddings": {"post": {"summary": "Embed text", "consumes": ["application/json"], "produces": ["application/json"], "responses": {"200": {"description": "OK"}}}}
  }
}`

type staticDoc struct{}

func (staticDoc) ReadDoc() string { return openAPIDoc }

func init() {
	swag.Register(swag.Name, staticDoc{})
}

// MountSwagger serves the Swagger UI under /swagger/.
func MountSwagger(r chi.Router) {
	r.Get("/swagger/*", httpSwagger.Handler(httpSwagger.URL("/swagger/doc.json")))
}

// SwaggerEnabled reports whether the swagger UI is compiled in.
func SwaggerEnabled() bool { return true }
