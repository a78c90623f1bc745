// Package markdown prepares rustdoc doc comments for terminal display.
package markdown

import (
	"strings"

	gm "github.com/gomarkdown/markdown"
	"github.com/gomarkdown/markdown/ast"
	gmparser "github.com/gomarkdown/markdown/parser"
)

// StripDocLinks removes link destinations that only resolve inside
// rustdoc's own site — intra-doc paths like `crate::Foo` or relative
// `struct.Foo.html` targets — leaving the link text in place. Web URLs
// are kept. It parses the markdown to AST to find destinations, then
// performs targeted string replacements to preserve original formatting.
func StripDocLinks(src string) string {
	doc := gm.Parse([]byte(src), gmparser.NewWithExtensions(
		gmparser.CommonExtensions|gmparser.Autolink,
	))

	seen := make(map[string]bool)
	var dests []string

	ast.WalkFunc(doc, func(node ast.Node, entering bool) ast.WalkStatus {
		if !entering {
			return ast.GoToNext
		}
		if link, ok := node.(*ast.Link); ok {
			dest := string(link.Destination)
			if !isWebURL(dest) && !seen[dest] {
				seen[dest] = true
				dests = append(dests, dest)
			}
		}
		return ast.GoToNext
	})

	if len(dests) == 0 {
		return src
	}

	result := src

	// Inline links: [text](destination) → [text]
	for _, dest := range dests {
		result = strings.ReplaceAll(result, "]("+dest+")", "]")
	}

	// Reference-style definitions: drop "[ref]: destination" lines whose
	// destination was stripped.
	stripped := make(map[string]bool, len(dests))
	for _, dest := range dests {
		stripped[dest] = true
	}
	lines := strings.Split(result, "\n")
	kept := lines[:0]
	for _, line := range lines {
		trimmed := strings.TrimSpace(line)
		if ref, dest, ok := strings.Cut(trimmed, "]: "); ok &&
			strings.HasPrefix(ref, "[") && stripped[dest] {
			continue
		}
		kept = append(kept, line)
	}
	return strings.Join(kept, "\n")
}

func isWebURL(dest string) bool {
	return strings.HasPrefix(dest, "http://") || strings.HasPrefix(dest, "https://")
}
