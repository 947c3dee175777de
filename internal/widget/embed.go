package widget

import "embed"

//go:embed templates/*.tmpl
var embeddedTemplates embed.FS

// TemplatesFS exposes the embedded template bundle.
func TemplatesFS() embed.FS {
	return embeddedTemplates
}
