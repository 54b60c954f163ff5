// Package license renders the site's Markdown license document as HTML.
package license

import (
	"bytes"
	"fmt"
	"html/template"

	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/extension"
)

// MsgLoadFailed is the ErrorHTML message for a license that could not be fetched.
const MsgLoadFailed = "Could not load license file"

// DefaultLocation is the license path relative to the site root.
const DefaultLocation = "LICENSE"

var markdown = goldmark.New(
	goldmark.WithExtensions(extension.Linkify, extension.Table),
)

var errorTemplate = template.Must(template.New("license-error").Parse(`<div class="alert alert-danger">
  <p>Error loading license information: {{.Message}}</p>
  <p>Please visit <a href="{{.Link}}">the license file</a> directly.</p>
</div>`))

// Render converts Markdown to HTML wrapped in the license container. Raw
// HTML embedded in the Markdown is omitted.
func Render(source string) (string, error) {
	var body bytes.Buffer
	if err := markdown.Convert([]byte(source), &body); err != nil {
		return "", fmt.Errorf("rendering license markdown: %w", err)
	}
	return `<div class="license-content">` + "\n" + body.String() + "</div>", nil
}

// ErrorHTML renders the fallback shown when the license cannot be loaded,
// linking to the raw file at link.
func ErrorHTML(message, link string) string {
	if link == "" {
		link = DefaultLocation
	}
	var buf bytes.Buffer
	data := struct {
		Message string
		Link    string
	}{Message: message, Link: link}
	if terr := errorTemplate.Execute(&buf, data); terr != nil {
		return `<div class="alert alert-danger"><p>Error loading license information.</p></div>`
	}
	return buf.String()
}
