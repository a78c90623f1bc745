package store

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/oxidoc/oxidoc/internal/doc"
)

func sampleEntries() []doc.Entry {
	return []doc.Entry{
		{
			Path:      doc.ModPath{"mycrate"},
			Name:      "mycrate",
			CrateInfo: "mycrate 0.1.0",
			Inner:     doc.Module{IsCrateRoot: true},
			Attrs:     []string{"The crate."},
		},
		{
			Path:       doc.ModPath{"mycrate", "Foo"},
			Name:       "Foo",
			CrateInfo:  "mycrate 0.1.0",
			Visibility: "pub",
			Inner:      doc.Struct{},
			Attrs:      []string{"A foo."},
		},
		{
			Path:       doc.ModPath{"mycrate", "Foo", "bar"},
			Name:       "bar",
			CrateInfo:  "mycrate 0.1.0",
			Visibility: "pub",
			Inner:      doc.Function{Signature: "(&self) -> i32", Kind: doc.FnMethodFromImpl},
		},
	}
}

func openTestStore(t *testing.T) (*Store, string) {
	t.Helper()
	dir := t.TempDir()
	s, err := Open(dir)
	require.NoError(t, err)
	t.Cleanup(func() { s.Close() })
	require.NoError(t, s.ReplaceCrate("mycrate", "0.1.0", sampleEntries()))
	return s, dir
}

func TestLookupNameExactFirst(t *testing.T) {
	s, _ := openTestStore(t)

	locs, err := s.LookupName("Foo")
	require.NoError(t, err)
	require.NotEmpty(t, locs)

	// "Foo" is an exact name match; "Foo::bar"'s path also contains the
	// query but must sort after it.
	assert.Equal(t, 1, locs[0].Entry)
	assert.Equal(t, "mycrate", locs[0].Crate)
	assert.Equal(t, "0.1.0", locs[0].Version)
}

func TestLookupNameByPath(t *testing.T) {
	s, _ := openTestStore(t)

	locs, err := s.LookupName("mycrate::Foo::bar")
	require.NoError(t, err)
	require.NotEmpty(t, locs)
	assert.Equal(t, 2, locs[0].Entry)
}

func TestLookupNameNoMatch(t *testing.T) {
	s, _ := openTestStore(t)

	locs, err := s.LookupName("nonexistent_item_xyz")
	require.NoError(t, err)
	assert.Empty(t, locs)
}

func TestLookupNameDeterministic(t *testing.T) {
	s, _ := openTestStore(t)

	first, err := s.LookupName("mycrate")
	require.NoError(t, err)
	second, err := s.LookupName("mycrate")
	require.NoError(t, err)
	assert.Equal(t, first, second)
}

func TestDriverGetDoc(t *testing.T) {
	s, dir := openTestStore(t)

	locs, err := s.LookupName("bar")
	require.NoError(t, err)
	require.NotEmpty(t, locs)

	d := NewDriver(dir)
	entry, err := d.GetDoc(locs[0])
	require.NoError(t, err)

	assert.Equal(t, "bar", entry.Name)
	assert.Equal(t, "mycrate::Foo::bar", entry.Path.String())
	assert.Equal(t,
		doc.Function{Signature: "(&self) -> i32", Kind: doc.FnMethodFromImpl},
		entry.Inner)
}

func TestDriverMissingBlob(t *testing.T) {
	t.Parallel()

	d := NewDriver(t.TempDir())
	_, err := d.GetDoc(Location{Crate: "ghost", Version: "1.0.0", Entry: 0})
	require.Error(t, err)
	assert.ErrorContains(t, err, "ghost")
}

func TestDriverEntryOutOfRange(t *testing.T) {
	_, dir := openTestStore(t)

	d := NewDriver(dir)
	_, err := d.GetDoc(Location{Crate: "mycrate", Version: "0.1.0", Entry: 99})
	require.Error(t, err)
	assert.ErrorContains(t, err, "out of range")
}

func TestReplaceCrateIsIdempotent(t *testing.T) {
	s, _ := openTestStore(t)

	// Regenerating must not duplicate index rows.
	require.NoError(t, s.ReplaceCrate("mycrate", "0.1.0", sampleEntries()))

	locs, err := s.LookupName("Foo")
	require.NoError(t, err)

	count := 0
	for _, loc := range locs {
		if loc.Entry == 1 {
			count++
		}
	}
	assert.Equal(t, 1, count)
}
