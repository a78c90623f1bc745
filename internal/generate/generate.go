// Package generate builds the documentation store from prebuilt rustdoc
// JSON files. Rust sources are never parsed here; rustdoc owns
// extraction and generation only ingests its output.
package generate

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"sync"

	"golang.org/x/sync/errgroup"

	"github.com/oxidoc/oxidoc/internal/extract"
	"github.com/oxidoc/oxidoc/internal/store"
)

const extractWorkers = 4

// Run dispatches a --generate target: "std" (requires RUST_SRC_PATH),
// "crates" (the cargo registry), "all" (both), or a crate directory.
func Run(ctx context.Context, target, storeDir string) error {
	switch target {
	case "all":
		if err := Stdlib(ctx, storeDir); err != nil {
			return err
		}
		return Registry(ctx, storeDir)
	case "crates":
		return Registry(ctx, storeDir)
	case "std":
		return Stdlib(ctx, storeDir)
	default:
		return Path(ctx, target, storeDir)
	}
}

// Stdlib ingests standard library documentation from RUST_SRC_PATH.
func Stdlib(ctx context.Context, storeDir string) error {
	src := os.Getenv("RUST_SRC_PATH")
	if src == "" {
		return errors.New("RUST_SRC_PATH must be set to generate stdlib docs")
	}
	return Path(ctx, src, storeDir)
}

// Registry ingests documentation for all crates in the cargo registry.
func Registry(ctx context.Context, storeDir string) error {
	root := os.Getenv("CARGO_HOME")
	if root == "" {
		home, err := os.UserHomeDir()
		if err != nil {
			return fmt.Errorf("locating cargo registry: %w", err)
		}
		root = filepath.Join(home, ".cargo")
	}
	return Path(ctx, filepath.Join(root, "registry", "src"), storeDir)
}

// Path ingests every rustdoc JSON file found under dir.
func Path(ctx context.Context, dir, storeDir string) error {
	files, err := findRustdocJSON(dir)
	if err != nil {
		return err
	}
	if len(files) == 0 {
		return fmt.Errorf("no rustdoc JSON found under %s", dir)
	}

	// Extraction is CPU-bound and parallel; store writes stay
	// sequential after the group finishes.
	var mu sync.Mutex
	var crates []*extract.CrateDocs

	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(extractWorkers)
	for _, file := range files {
		g.Go(func() error {
			if err := ctx.Err(); err != nil {
				return err
			}
			data, err := os.ReadFile(file)
			if err != nil {
				return fmt.Errorf("reading %s: %w", file, err)
			}
			docs, err := extract.Crate(data, crateNameFromFile(file))
			if err != nil {
				slog.Warn("skipping unparseable rustdoc JSON", "file", file, "error", err)
				return nil
			}
			mu.Lock()
			crates = append(crates, docs)
			mu.Unlock()
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return err
	}

	st, err := store.Open(storeDir)
	if err != nil {
		return fmt.Errorf("opening store: %w", err)
	}
	defer st.Close()

	for _, c := range crates {
		if err := st.ReplaceCrate(c.Name, c.Version, c.Entries); err != nil {
			return fmt.Errorf("indexing %s %s: %w", c.Name, c.Version, err)
		}
		slog.Info("indexed crate", "crate", c.Name, "version", c.Version, "entries", len(c.Entries))
	}
	return nil
}

// findRustdocJSON collects .json files under dir, preferring the
// conventional target/doc output directory when present.
func findRustdocJSON(dir string) ([]string, error) {
	if docDir := filepath.Join(dir, "target", "doc"); dirExists(docDir) {
		dir = docDir
	}

	var files []string
	err := filepath.WalkDir(dir, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if !d.IsDir() && strings.HasSuffix(d.Name(), ".json") {
			files = append(files, path)
		}
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("scanning %s: %w", dir, err)
	}
	return files, nil
}

func dirExists(path string) bool {
	info, err := os.Stat(path)
	return err == nil && info.IsDir()
}

// crateNameFromFile derives the crate name from a rustdoc JSON filename,
// e.g. "serde@1.0.0.json" or "serde.json" → "serde".
func crateNameFromFile(path string) string {
	name := strings.TrimSuffix(filepath.Base(path), ".json")
	if at := strings.IndexByte(name, '@'); at >= 0 {
		name = name[:at]
	}
	return name
}
