package markup

import (
	"fmt"
	"strings"

	"github.com/oxidoc/oxidoc/internal/doc"
)

const ruleWidth = 10

// Format turns an entry into its display document. The result is always
// the concatenation of five phases in fixed order: header, inner info,
// signature, body, related items. Format is total: every variant has a
// rule and the header phase alone guarantees a non-empty document.
func Format(e *doc.Entry) Document {
	return header(e).Append(
		innerInfo(e),
		signature(e),
		body(e),
		relatedItems(e),
	)
}

// header emits the crate label and the "<Kind> <path>" headline.
func header(e *doc.Entry) Document {
	return New(
		Block{"(" + e.CrateInfo + ")"},
		Header{kindLabel(e.Inner) + " " + e.Path.String()},
	)
}

func kindLabel(in doc.Inner) string {
	switch v := in.(type) {
	case doc.Function:
		return "Function"
	case doc.Struct:
		return "Struct"
	case doc.Constant:
		return "Constant"
	case doc.Enum:
		return "Enum"
	case doc.Trait:
		return "Trait"
	case doc.TraitItem:
		return "Trait Item"
	case doc.Module:
		if v.IsCrateRoot {
			return "Crate"
		}
		return "Module"
	default:
		panic(fmt.Sprintf("unhandled item variant %T", in))
	}
}

// innerInfo attributes a method to its originating impl and a trait item
// to its trait. Every other kind contributes a single blank line so the
// vertical rhythm stays uniform across kinds.
func innerInfo(e *doc.Entry) Document {
	switch v := e.Inner.(type) {
	case doc.Function:
		if v.Kind == doc.FnMethodFromImpl {
			if parent, ok := e.Path.Parent(); ok {
				return New(Header{"Impl on type " + parent.String()})
			}
		}
	case doc.TraitItem:
		if parent, ok := e.Path.Parent(); ok {
			return New(Header{"From trait " + parent.String()})
		}
	}
	return New(LineBreak{})
}

// signature wraps the one-line signature in a ruled frame. Crate roots
// have no signature line and collapse to a single rule.
func signature(e *doc.Entry) Document {
	if m, ok := e.Inner.(doc.Module); ok && m.IsCrateRoot {
		return New(Rule{ruleWidth}, LineBreak{})
	}

	return New(
		Rule{ruleWidth},
		LineBreak{},
		Block{"  " + e.Visibility + " " + signatureText(e)},
		LineBreak{},
		Rule{ruleWidth},
		LineBreak{},
	)
}

func signatureText(e *doc.Entry) string {
	switch v := e.Inner.(type) {
	case doc.Module:
		return "mod " + e.Path.String()
	case doc.Function:
		return "fn " + e.Name + " " + v.Signature
	case doc.Enum:
		return "enum " + e.Name
	case doc.Struct:
		return "struct " + e.Name + " { /* fields omitted */ }"
	case doc.Constant:
		return "const " + e.Name + ": " + v.Type + " = " + v.Expr
	case doc.Trait:
		return "trait " + e.Name + " { /* fields omitted */ }"
	case doc.TraitItem:
		return traitItemText(e.Name, v.Item)
	default:
		panic(fmt.Sprintf("unhandled item variant %T", e.Inner))
	}
}

func traitItemText(name string, item doc.TraitItemKind) string {
	switch v := item.(type) {
	case doc.TraitConst:
		return "const " + name + ": " + v.Type + " = " + v.Expr
	case doc.TraitMethod:
		return "fn " + name + " " + v.Signature
	case doc.TraitType:
		return "type " + v.Type
	case doc.TraitMacro:
		return "macro " + name + " " + v.Body
	default:
		panic(fmt.Sprintf("unhandled trait item variant %T", item))
	}
}

// body joins the doc-comment lines, order preserved, into one markdown
// directive.
func body(e *doc.Entry) Document {
	return New(Markdown{strings.Join(e.Attrs, "\n")})
}

// relatedItems is a reserved extension point. It contributes nothing yet
// but keeps its place in the phase order.
func relatedItems(_ *doc.Entry) Document {
	return Document{}
}
