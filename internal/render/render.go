// Package render converts canonical Markdown documentation into HTML for
// the export command and the docs server.
package render

import (
	"bytes"
	"fmt"
	"html"
	"strings"

	"github.com/yuin/goldmark"
)

var md = goldmark.New()

// HTML renders one Markdown fragment as an HTML fragment.
func HTML(markdown string) (string, error) {
	var buf bytes.Buffer
	if err := md.Convert([]byte(markdown), &buf); err != nil {
		return "", fmt.Errorf("render markdown: %w", err)
	}
	return buf.String(), nil
}

// Section is one titled fragment of a documentation page.
type Section struct {
	Title    string
	Markdown string
}

// Page assembles a standalone HTML document from Markdown sections.
// Sections with empty Markdown render their title only.
func Page(title string, sections []Section) (string, error) {
	var b strings.Builder
	b.WriteString("<!DOCTYPE html>\n<html>\n<head>\n")
	b.WriteString("<meta charset=\"utf-8\">\n")
	fmt.Fprintf(&b, "<title>%s</title>\n", html.EscapeString(title))
	b.WriteString("</head>\n<body>\n")
	fmt.Fprintf(&b, "<h1>%s</h1>\n", html.EscapeString(title))

	for _, section := range sections {
		if section.Title != "" {
			fmt.Fprintf(&b, "<h2>%s</h2>\n", html.EscapeString(section.Title))
		}
		if section.Markdown == "" {
			continue
		}
		fragment, err := HTML(section.Markdown)
		if err != nil {
			return "", err
		}
		b.WriteString(fragment)
	}

	b.WriteString("</body>\n</html>\n")
	return b.String(), nil
}
