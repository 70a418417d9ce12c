package swagger

import (
	"embed"
	"io/fs"
)

//go:generate curl -sSfL -o static/redoc.standalone.js https://cdn.redoc.ly/redoc/v2.1.5/bundles/redoc.standalone.js

// OpenAPI contains the embedded OpenAPI YAML document.
//
//go:embed openapi.yaml
var OpenAPI []byte

//go:embed all:static
var static embed.FS

// redocAsset is the ReDoc bundle name inside static/.
const redocAsset = "redoc.standalone.js"

// Assets returns the embedded static files. The ReDoc bundle is present once
// go generate has fetched it.
func Assets() fs.FS {
	sub, err := fs.Sub(static, "static")
	if err != nil {
		panic(err)
	}
	return sub
}
