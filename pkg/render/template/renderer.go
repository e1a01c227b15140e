// Package template defines the contract markup renderers use to execute
// their templates, decoupling them from the concrete engine.
package template

import "io"

// TemplateRenderer executes a named template (or inline template content)
// against a data context and returns the rendered string. Implementations may
// additionally stream to the optional writers.
type TemplateRenderer interface {
	Render(name string, data any, out ...io.Writer) (string, error)
	RenderTemplate(name string, data any, out ...io.Writer) (string, error)
	RenderString(content string, data any, out ...io.Writer) (string, error)
}
