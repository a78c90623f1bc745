// Package present orchestrates one documentation query: index lookup,
// entry resolution, formatting, rendering, and paged output.
package present

import (
	"fmt"
	"io"
	"log/slog"

	"github.com/oxidoc/oxidoc/internal/doc"
	"github.com/oxidoc/oxidoc/internal/markup"
	"github.com/oxidoc/oxidoc/internal/store"
)

// maxResults caps how many candidates a single query renders.
const maxResults = 10

// Store lists candidate locations for a name query, best match first.
type Store interface {
	LookupName(query string) ([]store.Location, error)
}

// Resolver materializes the entry behind a location.
type Resolver interface {
	GetDoc(loc store.Location) (*doc.Entry, error)
}

// Renderer turns a formatted document into terminal text.
type Renderer interface {
	Render(d markup.Document) string
}

// OpenOutput acquires the scoped output channel. It is called only when
// there is something to write; the channel is closed on every exit path.
type OpenOutput func() (io.WriteCloser, error)

// Driver runs queries end to end.
type Driver struct {
	store    Store
	resolver Resolver
	renderer Renderer
	stdout   io.Writer
	output   OpenOutput
}

func New(st Store, resolver Resolver, renderer Renderer, stdout io.Writer, output OpenOutput) *Driver {
	return &Driver{
		store:    st,
		resolver: resolver,
		renderer: renderer,
		stdout:   stdout,
		output:   output,
	}
}

// Run resolves and renders up to ten results for query, preserving the
// store's candidate order. A location that fails to resolve is skipped
// with a warning so one bad record does not blank the other results; the
// query only fails when nothing at all could be resolved.
func (d *Driver) Run(query string) error {
	locs, err := d.store.LookupName(query)
	if err != nil {
		return fmt.Errorf("looking up %q: %w", query, err)
	}
	if len(locs) > maxResults {
		locs = locs[:maxResults]
	}

	if len(locs) == 0 {
		_, err := fmt.Fprintf(d.stdout, "No results for %q.\n", query)
		return err
	}

	rendered := make([]string, 0, len(locs))
	for _, loc := range locs {
		entry, err := d.resolver.GetDoc(loc)
		if err != nil {
			slog.Warn("skipping unreadable entry",
				"crate", loc.Crate, "version", loc.Version, "entry", loc.Entry, "error", err)
			continue
		}
		rendered = append(rendered, d.renderer.Render(markup.Format(entry)))
	}
	if len(rendered) == 0 {
		return fmt.Errorf("none of the %d results for %q could be read", len(locs), query)
	}

	out, err := d.output()
	if err != nil {
		return fmt.Errorf("opening output: %w", err)
	}
	defer out.Close()

	for _, text := range rendered {
		if _, err := io.WriteString(out, text+"\n"); err != nil {
			return fmt.Errorf("writing output: %w", err)
		}
	}
	return nil
}
