// Package markup is the intermediate representation between the entry
// model and the terminal renderer: an ordered list of atomic formatting
// directives.
package markup

// Directive is one atomic formatting instruction. The set is closed;
// renderers dispatch with an exhaustive type switch.
type Directive interface{ directive() }

// Header introduces an entry or a major annotation line.
type Header struct{ Text string }

// Section introduces a sub-grouping within an entry.
type Section struct{ Text string }

// Block is emitted verbatim.
type Block struct{ Text string }

// Markdown is converted through the terminal markdown renderer at the
// width in effect when the document is rendered.
type Markdown struct{ Text string }

// Rule draws Width dash characters.
type Rule struct{ Width int }

// LineBreak emits an empty line.
type LineBreak struct{}

func (Header) directive()    {}
func (Section) directive()   {}
func (Block) directive()     {}
func (Markdown) directive()  {}
func (Rule) directive()      {}
func (LineBreak) directive() {}

// Document is the ordered directive sequence for one formatted entry.
// It is write-once: built by concatenation, then handed to a renderer.
type Document struct {
	Parts []Directive
}

func New(parts ...Directive) Document {
	return Document{Parts: parts}
}

// Append returns a new document with the parts of others concatenated
// after d's, in the given order.
func (d Document) Append(others ...Document) Document {
	parts := make([]Directive, 0, len(d.Parts))
	parts = append(parts, d.Parts...)
	for _, o := range others {
		parts = append(parts, o.Parts...)
	}
	return Document{Parts: parts}
}
