// Package swaggerkit serves the API's OpenAPI document and the swagger UI
package swaggerkit

import (
	"encoding/json"
	"net/http"
	"strings"

	httpSwagger "github.com/swaggo/http-swagger"

	phttp "adwarden/internal/platform/net/http"
	"adwarden/internal/services/api/docs"
)

var readDoc = func() string { return docs.SwaggerInfo.ReadDoc() }

// Mount serves the UI under /api/docs/ and the document at
// /api/docs/doc.json. Nothing is mounted when enabled is false
func Mount(r phttp.Router, enabled bool) {
	if !enabled {
		return
	}
	r.Get("/api/docs", func(w http.ResponseWriter, r *http.Request) {
		http.Redirect(w, r, "/api/docs/", http.StatusPermanentRedirect)
	})
	r.Get("/api/docs/doc.json", serveDoc)
	r.Handle("/api/docs/*", httpSwagger.Handler(
		httpSwagger.InstanceName(docs.SwaggerInfo.InstanceName()),
		httpSwagger.URL("/api/docs/doc.json"),
	))
}

func serveDoc(w http.ResponseWriter, _ *http.Request) {
	var spec map[string]any
	if err := json.Unmarshal([]byte(readDoc()), &spec); err != nil {
		http.Error(w, "openapi document is not valid json", http.StatusInternalServerError)
		return
	}
	normalize(spec, "/api/v1")

	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.Header().Set("Cache-Control", "no-store")
	_ = json.NewEncoder(w).Encode(spec)
}

// normalize pins the document to 3.0.3, which the UI renders, points it at
// base and gives every operation the error envelope for 400 and 500
func normalize(spec map[string]any, base string) {
	delete(spec, "swagger")
	if v, _ := spec["openapi"].(string); !strings.HasPrefix(v, "3.0") {
		spec["openapi"] = "3.0.3"
	}
	if _, ok := spec["servers"]; !ok {
		spec["servers"] = []any{map[string]any{"url": base}}
	}

	schemas := child(child(spec, "components"), "schemas")
	if _, ok := schemas["ErrorResponse"]; !ok {
		schemas["ErrorResponse"] = map[string]any{
			"type": "object",
			"properties": map[string]any{
				"status_code": map[string]any{"type": "integer"},
				"status":      map[string]any{"type": "string"},
				"code":        map[string]any{"type": "integer"},
				"error":       map[string]any{"type": "string"},
				"request_id":  map[string]any{"type": "string"},
			},
			"required": []any{"status_code", "status", "error"},
		}
	}

	paths, _ := spec["paths"].(map[string]any)
	for _, item := range paths {
		ops, _ := item.(map[string]any)
		for _, op := range ops {
			o, ok := op.(map[string]any)
			if !ok {
				continue
			}
			resp := child(o, "responses")
			for code, desc := range map[string]string{"400": "Bad Request", "500": "Internal Server Error"} {
				if _, ok := resp[code]; !ok {
					resp[code] = errorResponse(desc)
				}
			}
		}
	}
}

func errorResponse(desc string) map[string]any {
	return map[string]any{
		"description": desc,
		"content": map[string]any{
			"application/json": map[string]any{
				"schema": map[string]any{"$ref": "#/components/schemas/ErrorResponse"},
			},
		},
	}
}

// child returns m[key] as a map, creating it when missing
func child(m map[string]any, key string) map[string]any {
	c, ok := m[key].(map[string]any)
	if !ok {
		c = map[string]any{}
		m[key] = c
	}
	return c
}
