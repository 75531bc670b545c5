// Package content defines the HTML sanitization collaborator. Sanitization
// rules themselves live outside this codebase; handlers only orchestrate the
// interface.
package content

import "html"

// Sanitizer neutralizes untrusted rich-text input before storage.
type Sanitizer interface {
	Sanitize(dirty string) string
}

// EscapeSanitizer is the default implementation: it escapes all markup
// instead of allow-listing tags, trading formatting for safety. Deployments
// with a real HTML sanitizer swap it in behind the same interface.
type EscapeSanitizer struct{}

// Sanitize HTML-escapes the input.
func (EscapeSanitizer) Sanitize(dirty string) string {
	return html.EscapeString(dirty)
}
