// Package roamly is the public entry point to a roamly catalog.
package roamly

import (
	"context"

	"github.com/roamly/roamly/internal/sqlite"
	"github.com/roamly/roamly/pkg/types"
)

// Version is the roamly release.
const Version = "0.3.0"

// Catalog is read access to an attached catalog database.
type Catalog interface {
	// Get returns one map by ID.
	Get(ctx context.Context, id string) (types.MapRecord, error)
	// BySource returns every map of a storage driver, ordered by path.
	BySource(ctx context.Context, source string) ([]types.MapRecord, error)
	// OCRCounts returns the number of maps per OCR status.
	OCRCounts(ctx context.Context) (map[string]int, error)
	// Detach closes the database.
	Detach() error
}

// OpenCatalog attaches the catalog stored in dataDir, creating it if
// needed. The caller must Detach it.
//
// Example:
//
//	cat, err := roamly.OpenCatalog(ctx, ".roamly-data")
//	if err != nil {
//	    return err
//	}
//	defer cat.Detach()
func OpenCatalog(ctx context.Context, dataDir string) (Catalog, error) {
	b := sqlite.NewBackend()
	if err := b.Attach(ctx, sqlite.Config{DataDir: dataDir}); err != nil {
		return nil, err
	}
	return b, nil
}
