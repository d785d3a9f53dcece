// Package overrides defines the category override store: a persisted
// mapping from an external transaction id to the category label the user
// chose for it. The reconciler reads it; category edits write it.
package overrides

import "context"

// Store is the port implemented by the sqlite and memory adapters.
// Keys are immutable external ids, so last-write-wins is the only
// consistency the store promises.
type Store interface {
	// Get returns the override for a source id, with found=false when none
	// is stored.
	Get(ctx context.Context, sourceID string) (category string, found bool, err error)

	// Set stores or replaces the override for a source id.
	Set(ctx context.Context, sourceID, category string) error

	// Delete removes an override. Deleting an absent key is not an error.
	Delete(ctx context.Context, sourceID string) error

	// All returns every stored override, keyed by source id.
	All(ctx context.Context) (map[string]string, error)
}
