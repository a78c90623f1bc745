// Package render turns markup documents into styled terminal text.
package render

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/oxidoc/oxidoc/internal/markup"
)

// DefaultWidth is used when the terminal width cannot be determined,
// e.g. when output goes to a pipe.
const DefaultWidth = 80

// Terminal is the environment capability the renderer depends on: the
// display width and a markdown-to-ANSI converter. Keeping it narrow lets
// rendering logic run in tests without a real terminal.
type Terminal interface {
	Width() int
	RenderMarkdown(src string, width int) (string, error)
}

var (
	headerStyle  = lipgloss.NewStyle().Bold(true)
	sectionStyle = lipgloss.NewStyle().Bold(true)
)

// Renderer renders documents against a terminal.
type Renderer struct {
	term Terminal
}

func New(term Terminal) *Renderer {
	return &Renderer{term: term}
}

// Render writes each directive in order, terminating every directive's
// output with a newline, the final one included. The width is queried
// once per invocation and never cached across invocations.
func (r *Renderer) Render(d markup.Document) string {
	width := r.term.Width()
	if width <= 0 {
		width = DefaultWidth
	}

	var b strings.Builder
	for _, part := range d.Parts {
		b.WriteString(r.renderDirective(part, width))
		b.WriteByte('\n')
	}
	return b.String()
}

func (r *Renderer) renderDirective(d markup.Directive, width int) string {
	switch v := d.(type) {
	case markup.Header:
		return headerStyle.Render("==== " + v.Text)
	case markup.Section:
		return sectionStyle.Render("== " + v.Text)
	case markup.Block:
		return v.Text
	case markup.Markdown:
		out, err := r.term.RenderMarkdown(v.Text, width)
		if err != nil {
			// Degraded environment: show the raw markdown.
			return v.Text
		}
		return strings.TrimRight(out, "\n")
	case markup.Rule:
		return strings.Repeat("-", v.Width)
	case markup.LineBreak:
		return ""
	default:
		panic(fmt.Sprintf("unhandled directive %T", d))
	}
}
