// Package web carries the embedded HTML templates.
package web

import "embed"

//go:embed templates/*.html
var FS embed.FS
