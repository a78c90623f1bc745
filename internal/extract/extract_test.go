package extract

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/oxidoc/oxidoc/internal/doc"
)

const crateJSON = `{
	"root": 0,
	"crate_version": "0.1.0",
	"index": {
		"0": {"crate_id": 0, "name": "mycrate", "docs": "The crate.",
			"visibility": "public",
			"inner": {"module": {"is_crate": true, "items": [1, 2, 5]}}},
		"1": {"crate_id": 0, "name": "Foo", "docs": "A foo.",
			"visibility": "public",
			"inner": {"struct": {"kind": {"plain": {"fields": []}}}}},
		"2": {"crate_id": 0, "name": "add", "docs": "Adds two numbers.\nReturns the sum.",
			"visibility": "public",
			"inner": {"function": {"sig": {"inputs": [["x", {"primitive": "i32"}], ["y", {"primitive": "i32"}]], "output": {"primitive": "i32"}}, "header": {}}}},
		"3": {"crate_id": 0, "name": null,
			"visibility": "default",
			"inner": {"impl": {"for": {"resolved_path": {"name": "Foo", "id": 1}}, "trait": null, "items": [4]}}},
		"4": {"crate_id": 0, "name": "bar", "docs": "A method.",
			"visibility": "public",
			"inner": {"function": {"sig": {"inputs": [["self", {"borrowed_ref": {"lifetime": null, "is_mutable": false, "type": {"generic": "Self"}}}]], "output": null}, "header": {}}}},
		"5": {"crate_id": 0, "name": "Read", "docs": "A reader.",
			"visibility": "public",
			"inner": {"trait": {"items": [6, 7]}}},
		"6": {"crate_id": 0, "name": "read",
			"visibility": "default",
			"inner": {"function": {"sig": {"inputs": [["self", {"borrowed_ref": {"lifetime": null, "is_mutable": true, "type": {"generic": "Self"}}}]], "output": {"primitive": "usize"}}, "header": {}}}},
		"7": {"crate_id": 0, "name": "SIZE",
			"visibility": "default",
			"inner": {"assoc_const": {"type": {"primitive": "usize"}, "value": "32"}}},
		"8": {"crate_id": 1, "name": "External", "inner": {"struct": {}}}
	},
	"paths": {
		"0": {"crate_id": 0, "path": ["mycrate"], "kind": "module"},
		"1": {"crate_id": 0, "path": ["mycrate", "Foo"], "kind": "struct"},
		"2": {"crate_id": 0, "path": ["mycrate", "add"], "kind": "function"},
		"5": {"crate_id": 0, "path": ["mycrate", "Read"], "kind": "trait"}
	},
	"format_version": 37
}`

func extractTestCrate(t *testing.T) map[string]doc.Entry {
	t.Helper()
	docs, err := Crate([]byte(crateJSON), "mycrate")
	require.NoError(t, err)
	assert.Equal(t, "mycrate", docs.Name)
	assert.Equal(t, "0.1.0", docs.Version)

	byPath := make(map[string]doc.Entry, len(docs.Entries))
	for _, e := range docs.Entries {
		byPath[e.Path.String()] = e
	}
	return byPath
}

func TestCrateRootModule(t *testing.T) {
	t.Parallel()

	entries := extractTestCrate(t)
	root, ok := entries["mycrate"]
	require.True(t, ok)

	assert.Equal(t, doc.Module{IsCrateRoot: true}, root.Inner)
	assert.Equal(t, "mycrate 0.1.0", root.CrateInfo)
	assert.Equal(t, []string{"The crate."}, root.Attrs)
}

func TestCrateFreeFunction(t *testing.T) {
	t.Parallel()

	entries := extractTestCrate(t)
	add, ok := entries["mycrate::add"]
	require.True(t, ok)

	assert.Equal(t,
		doc.Function{Signature: "(x: i32, y: i32) -> i32", Kind: doc.FnFree},
		add.Inner)
	assert.Equal(t, "pub", add.Visibility)
	assert.Equal(t, []string{"Adds two numbers.", "Returns the sum."}, add.Attrs)
}

func TestCrateImplMethod(t *testing.T) {
	t.Parallel()

	entries := extractTestCrate(t)
	bar, ok := entries["mycrate::Foo::bar"]
	require.True(t, ok, "impl children must be attributed to the impl target type")

	assert.Equal(t,
		doc.Function{Signature: "(&self)", Kind: doc.FnMethodFromImpl},
		bar.Inner)
}

func TestCrateTraitItems(t *testing.T) {
	t.Parallel()

	entries := extractTestCrate(t)

	read, ok := entries["mycrate::Read::read"]
	require.True(t, ok)
	assert.Equal(t,
		doc.TraitItem{Item: doc.TraitMethod{Signature: "(&mut self) -> usize"}},
		read.Inner)

	size, ok := entries["mycrate::Read::SIZE"]
	require.True(t, ok)
	assert.Equal(t,
		doc.TraitItem{Item: doc.TraitConst{Type: "usize", Expr: "32"}},
		size.Inner)
}

func TestCrateSkipsForeignAndImplItems(t *testing.T) {
	t.Parallel()

	entries := extractTestCrate(t)
	assert.NotContains(t, entries, "mycrate::External")
	for path, e := range entries {
		assert.NotNil(t, e.Inner, "entry %s has no inner variant", path)
	}
}

func TestCrateEntriesAreSorted(t *testing.T) {
	t.Parallel()

	docs, err := Crate([]byte(crateJSON), "mycrate")
	require.NoError(t, err)

	for i := 1; i < len(docs.Entries); i++ {
		assert.Less(t,
			docs.Entries[i-1].Path.String(),
			docs.Entries[i].Path.String())
	}
}

func TestCrateRejectsGarbage(t *testing.T) {
	t.Parallel()

	_, err := Crate([]byte("not json"), "mycrate")
	require.Error(t, err)

	// Valid JSON that is not rustdoc output must also be rejected.
	_, err = Crate([]byte(`{"hello":"world"}`), "mycrate")
	require.Error(t, err)
}

func TestCrateDefaultsVersion(t *testing.T) {
	t.Parallel()

	docs, err := Crate([]byte(`{"root":0,"index":{},"paths":{},"format_version":37}`), "mycrate")
	require.NoError(t, err)
	assert.Equal(t, "0.0.0", docs.Version)
	assert.Empty(t, docs.Entries)
}
