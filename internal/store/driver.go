package store

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"

	"github.com/klauspost/compress/zstd"

	"github.com/oxidoc/oxidoc/internal/doc"
)

// Driver materializes documentation entries from store blobs. Decoded
// crates are cached for the lifetime of the driver, which is one query
// invocation; nothing persists across invocations.
type Driver struct {
	dir    string
	crates map[string][]doc.Entry
}

func NewDriver(dir string) *Driver {
	return &Driver{dir: dir, crates: make(map[string][]doc.Entry)}
}

// GetDoc resolves a location to its entry. Failures carry the location
// so a caller can report which record was unreadable.
func (d *Driver) GetDoc(loc Location) (*doc.Entry, error) {
	key := loc.Crate + " " + loc.Version
	entries, ok := d.crates[key]
	if !ok {
		var err error
		entries, err = readBlob(blobPath(d.dir, loc.Crate, loc.Version))
		if err != nil {
			return nil, fmt.Errorf("reading entries for %s %s: %w", loc.Crate, loc.Version, err)
		}
		d.crates[key] = entries
	}

	if loc.Entry < 0 || loc.Entry >= len(entries) {
		return nil, fmt.Errorf("entry %d out of range for %s %s (%d entries)",
			loc.Entry, loc.Crate, loc.Version, len(entries))
	}

	e := entries[loc.Entry]
	return &e, nil
}

func blobPath(dir, name, version string) string {
	return filepath.Join(dir, name+"_"+version+".json.zst")
}

func writeBlob(path string, entries []doc.Entry) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("creating blob file: %w", err)
	}
	defer f.Close()

	w, err := zstd.NewWriter(f)
	if err != nil {
		return fmt.Errorf("creating zstd writer: %w", err)
	}

	if err := json.NewEncoder(w).Encode(entries); err != nil {
		w.Close()
		return fmt.Errorf("encoding entries: %w", err)
	}
	if err := w.Close(); err != nil {
		return fmt.Errorf("closing zstd writer: %w", err)
	}
	return nil
}

func readBlob(path string) ([]doc.Entry, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("opening blob file: %w", err)
	}
	defer f.Close()

	r, err := zstd.NewReader(f)
	if err != nil {
		return nil, fmt.Errorf("creating zstd reader: %w", err)
	}
	defer r.Close()

	var entries []doc.Entry
	if err := json.NewDecoder(r).Decode(&entries); err != nil {
		return nil, fmt.Errorf("decoding entries: %w", err)
	}
	return entries, nil
}
