package doc

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestEntryRoundTrip(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name  string
		inner Inner
	}{
		{"function", Function{Signature: "(x: i32) -> i32", Kind: FnMethodFromImpl}},
		{"struct", Struct{}},
		{"enum", Enum{}},
		{"constant", Constant{Type: "usize", Expr: "32"}},
		{"trait", Trait{}},
		{"trait_const", TraitItem{Item: TraitConst{Type: "u8", Expr: "0"}}},
		{"trait_method", TraitItem{Item: TraitMethod{Signature: "(&self)"}}},
		{"trait_type", TraitItem{Item: TraitType{Type: "Item"}}},
		{"trait_macro", TraitItem{Item: TraitMacro{Body: "{ ... }"}}},
		{"module", Module{IsCrateRoot: true}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			in := Entry{
				Path:       ModPath{"mycrate", "thing"},
				Name:       "thing",
				CrateInfo:  "mycrate 0.1.0",
				Visibility: "pub",
				Inner:      tt.inner,
				Attrs:      []string{"line one", "", "line three"},
			}

			data, err := json.Marshal(in)
			require.NoError(t, err)

			var out Entry
			require.NoError(t, json.Unmarshal(data, &out))
			assert.Equal(t, in, out)
		})
	}
}

func TestEntryDecodeRejectsAmbiguousInner(t *testing.T) {
	t.Parallel()

	raw := `{"path":["c","x"],"name":"x","crate_info":"c 1.0.0",
		"inner":{"struct":{},"enum":{}}}`

	var e Entry
	err := json.Unmarshal([]byte(raw), &e)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "exactly 1")
}

func TestEntryDecodeRejectsMissingInner(t *testing.T) {
	t.Parallel()

	var e Entry
	err := json.Unmarshal([]byte(`{"path":["c","x"],"name":"x","crate_info":"c 1.0.0"}`), &e)
	require.Error(t, err)
}

func TestEntryDecodeRejectsUnknownKind(t *testing.T) {
	t.Parallel()

	var e Entry
	err := json.Unmarshal([]byte(`{"path":["c","x"],"name":"x","inner":{"widget":{}}}`), &e)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "widget")
}

func TestModPath(t *testing.T) {
	t.Parallel()

	p := ModPath{"mycrate", "Foo", "bar"}
	assert.Equal(t, "mycrate::Foo::bar", p.String())
	assert.Equal(t, "bar", p.Name())

	parent, ok := p.Parent()
	require.True(t, ok)
	assert.Equal(t, "mycrate::Foo", parent.String())

	_, ok = ModPath{"mycrate"}.Parent()
	assert.False(t, ok)
}

func TestKindNameCoversAllVariants(t *testing.T) {
	t.Parallel()

	variants := []Inner{
		Function{}, Struct{}, Enum{}, Constant{}, Trait{},
		TraitItem{Item: TraitMethod{}}, Module{},
	}

	seen := make(map[string]bool)
	for _, v := range variants {
		name := KindName(v)
		assert.NotEmpty(t, name)
		assert.False(t, seen[name], "duplicate kind name %q", name)
		seen[name] = true
	}
}
