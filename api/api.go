// Package api embeds the OpenAPI description of the JSON surface.
package api

import _ "embed"

//go:embed openapi.json
var OpenAPISpec []byte
