// Package catalog enumerates the playable assets and provides cyclic
// navigation over them.
package catalog

import (
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/pkg/errors"
)

// Extension is the only asset type the appliance plays.
const Extension = ".gif"

// Asset is one playable animation file, immutable once enumerated.
type Asset struct {
	Name string
	Path string
}

// Catalog is the ordered set of assets found at startup.
type Catalog struct {
	dir    string
	assets []Asset
}

// Load builds the catalog for dir, creating it if absent. Entries are
// filtered to the supported extension (case-insensitive) and sorted
// lexicographically by filename for a deterministic order. An empty
// directory yields an empty catalog, not an error.
func Load(dir string) (*Catalog, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, errors.Wrapf(err, "unable to create asset directory %q", dir)
	}
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, errors.Wrapf(err, "unable to list asset directory %q", dir)
	}

	var assets []Asset
	for _, entry := range entries {
		if entry.IsDir() {
			continue
		}
		if !strings.EqualFold(filepath.Ext(entry.Name()), Extension) {
			continue
		}
		assets = append(assets, Asset{
			Name: entry.Name(),
			Path: filepath.Join(dir, entry.Name()),
		})
	}
	sort.Slice(assets, func(i, j int) bool { return assets[i].Name < assets[j].Name })

	return &Catalog{dir: dir, assets: assets}, nil
}

// Dir returns the backing directory.
func (c *Catalog) Dir() string { return c.dir }

// Len returns the number of assets.
func (c *Catalog) Len() int { return len(c.assets) }

// Asset returns the asset at index i.
func (c *Catalog) Asset(i int) Asset { return c.assets[i] }

// Assets returns the full ordered sequence.
func (c *Catalog) Assets() []Asset { return c.assets }

// Advance computes (i + delta) mod Len(), wrapping at both ends.
// Defined only for a non-empty catalog.
func (c *Catalog) Advance(i, delta int) int {
	n := len(c.assets)
	return ((i+delta)%n + n) % n
}
