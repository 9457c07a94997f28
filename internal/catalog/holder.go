package catalog

import "sync/atomic"

// Holder publishes the current store. Readers call Snapshot and keep using
// the store they got; a reload swaps in a new store without locking.
type Holder struct {
	current atomic.Pointer[Store]
}

// NewHolder returns a holder serving store. A nil store is replaced by an
// empty one.
func NewHolder(store *Store) *Holder {
	h := &Holder{}
	h.Swap(store)
	return h
}

// Snapshot returns the store currently being served.
func (h *Holder) Snapshot() *Store {
	return h.current.Load()
}

// Swap replaces the served store and returns the previous one.
func (h *Holder) Swap(store *Store) *Store {
	if store == nil {
		store = New(nil)
	}
	return h.current.Swap(store)
}
