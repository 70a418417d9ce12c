// Package swagger serves the API reference.
package swagger

import (
	"context"
	"io/fs"
	"net/http"
	"strings"
)

// redocCDN is used only when the bundle was not embedded at build time.
const redocCDN = "https://cdn.redoc.ly/redoc/v2.1.5/bundles/redoc.standalone.js"

// Register attaches the ReDoc page and the OpenAPI document routes to mux.
// Routes:
//
//	GET /api-docs                     -> ReDoc HTML
//	GET /openapi.yaml                 -> Embedded OpenAPI document
//	GET /api-docs/redoc.standalone.js -> Embedded ReDoc JavaScript
func Register(ctx context.Context, mux *http.ServeMux) {
	register(ctx, mux, Assets())
}

func register(_ context.Context, mux *http.ServeMux, assets fs.FS) {
	if mux == nil {
		panic("mux is nil")
	}

	script := redocCDN
	redoc, err := fs.ReadFile(assets, redocAsset)
	if err == nil && len(redoc) > 0 {
		script = "/api-docs/" + redocAsset
		mux.HandleFunc("/api-docs/"+redocAsset, func(w http.ResponseWriter, r *http.Request) {
			w.Header().Set("Content-Type", "application/javascript; charset=utf-8")
			_, _ = w.Write(redoc)
		})
	}
	page := strings.Replace(indexHTML, "{{script}}", script, 1)

	mux.HandleFunc("/api-docs", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "text/html; charset=utf-8")
		_, _ = w.Write([]byte(page))
	})

	mux.HandleFunc("/openapi.yaml", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/yaml; charset=utf-8")
		_, _ = w.Write(OpenAPI)
	})
}

const indexHTML = `<!doctype html>
<html>
  <head>
    <meta charset="utf-8">
    <title>draftboard API</title>
    <style>body{margin:0;padding:0}</style>
  </head>
  <body>
    <redoc id="redoc-container"></redoc>
    <script src="{{script}}"></script>
    <script>Redoc.init('/openapi.yaml', { suppressWarnings: true }, document.getElementById('redoc-container'));</script>
  </body>
</html>`
