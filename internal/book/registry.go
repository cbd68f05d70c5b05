package book

import (
	"sort"
	"sync"
)

// Registry owns every maintained book for one subscription session.
// It is born empty at connection open, populated by snapshot events and
// mutated by incremental batches, then discarded whole when the session
// ends. One mutex covers an entire event application, so a reader never
// observes a half-applied batch.
type Registry struct {
	mu     sync.RWMutex
	places int32
	books  map[string]*Book
}

// NewRegistry creates an empty registry with the given price precision.
func NewRegistry(places int32) *Registry {
	return &Registry{
		places: places,
		books:  make(map[string]*Book),
	}
}

// ApplySnapshot replaces (or creates) the book for assetID wholesale.
func (r *Registry) ApplySnapshot(assetID, marketID, timestamp, hash string, bids, asks []Level) {
	r.mu.Lock()
	defer r.mu.Unlock()

	b, ok := r.books[assetID]
	if !ok {
		b = NewBook(marketID, assetID, r.places)
		r.books[assetID] = b
	}
	b.MarketID = marketID
	b.ApplySnapshot(timestamp, hash, bids, asks)
}

// ApplyIncremental applies one price-change batch to an established book.
// A batch arriving before its snapshot is dropped, not buffered: the
// snapshot establishes baseline state and later batches apply cleanly.
// Returns false when the batch was dropped.
func (r *Registry) ApplyIncremental(assetID, timestamp, hash string, changes []Change) bool {
	r.mu.Lock()
	defer r.mu.Unlock()

	b, ok := r.books[assetID]
	if !ok {
		return false
	}
	b.ApplyChanges(timestamp, hash, changes)
	return true
}

// Snapshot returns a deep copy of the book for assetID for read-side use.
func (r *Registry) Snapshot(assetID string) (*Book, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	b, ok := r.books[assetID]
	if !ok {
		return nil, false
	}
	return b.Clone(), true
}

// AssetIDs returns the ids of all established books, sorted.
func (r *Registry) AssetIDs() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()

	ids := make([]string, 0, len(r.books))
	for id := range r.books {
		ids = append(ids, id)
	}
	sort.Strings(ids)
	return ids
}

// Len returns the number of established books.
func (r *Registry) Len() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.books)
}
