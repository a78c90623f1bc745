package markup

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestDocumentAppendKeepsOrder(t *testing.T) {
	t.Parallel()

	a := New(Header{"a"})
	b := New(Block{"b"}, LineBreak{})
	c := Document{}
	d := New(Rule{10})

	got := a.Append(b, c, d)

	want := []Directive{Header{"a"}, Block{"b"}, LineBreak{}, Rule{10}}
	assert.Equal(t, want, got.Parts)

	// The receivers are untouched.
	assert.Len(t, a.Parts, 1)
	assert.Len(t, b.Parts, 2)
}

func TestDocumentAppendEmptyReceiver(t *testing.T) {
	t.Parallel()

	got := Document{}.Append(New(Section{"s"}))
	assert.Equal(t, []Directive{Section{"s"}}, got.Parts)
}
