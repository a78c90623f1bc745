package render

import (
	"os"

	"github.com/charmbracelet/glamour"
	"github.com/mattn/go-isatty"
	"github.com/muesli/termenv"
	"golang.org/x/term"

	"github.com/oxidoc/oxidoc/internal/markdown"
)

// ANSITerminal is the real terminal capability: it reads the width of
// the attached output and converts markdown through glamour.
type ANSITerminal struct {
	out   *os.File
	style string // glamour style name, "" = detect
	width int    // fixed width override, 0 = query the terminal
}

type Option func(*ANSITerminal)

// WithStyle forces a glamour style ("dark", "light", "notty", ...)
// instead of detecting one from the environment.
func WithStyle(style string) Option {
	return func(t *ANSITerminal) { t.style = style }
}

// WithWidth fixes the rendering width instead of querying the terminal.
func WithWidth(width int) Option {
	return func(t *ANSITerminal) { t.width = width }
}

func NewANSITerminal(out *os.File, opts ...Option) *ANSITerminal {
	t := &ANSITerminal{out: out}
	for _, o := range opts {
		o(t)
	}
	return t
}

// Width reports the current terminal width, falling back to DefaultWidth
// when the size cannot be determined.
func (t *ANSITerminal) Width() int {
	if t.width > 0 {
		return t.width
	}
	if t.out == nil {
		return DefaultWidth
	}
	if w, _, err := term.GetSize(int(t.out.Fd())); err == nil && w > 0 {
		return w
	}
	return DefaultWidth
}

// RenderMarkdown converts a doc-comment body to ANSI text wrapped at
// width. Intra-doc link targets that only resolve inside rustdoc are
// stripped first; web URLs survive.
func (t *ANSITerminal) RenderMarkdown(src string, width int) (string, error) {
	opts := []glamour.TermRendererOption{glamour.WithWordWrap(width)}
	switch {
	case t.style != "":
		opts = append(opts, glamour.WithStylePath(t.style))
	case t.plainOutput():
		opts = append(opts, glamour.WithStandardStyle("notty"))
	default:
		opts = append(opts, glamour.WithAutoStyle())
	}

	r, err := glamour.NewTermRenderer(opts...)
	if err != nil {
		return "", err
	}
	return r.Render(markdown.StripDocLinks(src))
}

// plainOutput reports whether styling should be suppressed: NO_COLOR,
// a colorless terminal, or a non-terminal destination.
func (t *ANSITerminal) plainOutput() bool {
	if t.out == nil || !isatty.IsTerminal(t.out.Fd()) {
		return true
	}
	if termenv.EnvNoColor() {
		return true
	}
	return termenv.ColorProfile() == termenv.Ascii
}
