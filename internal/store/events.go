package store

import (
	"todosync/internal/status"
	"todosync/internal/transport"
)

// Event is the closed set of store mutations. Each variant describes one
// atomic change; Store.Apply matches the set exhaustively. Only the engine
// constructs events.
type Event interface {
	isEvent()
}

// ListsReplaced replaces the whole list collection (full refresh). Item
// buckets are re-provisioned to match the new membership in the same step.
type ListsReplaced struct {
	Lists []transport.List
}

// ListAdded prepends a freshly created list and provisions its empty item
// bucket.
type ListAdded struct {
	List transport.List
}

// ListRemoved deletes a list and discards its item bucket.
type ListRemoved struct {
	ID string
}

// ListRenamed updates a list's title only.
type ListRenamed struct {
	ID    string
	Title string
}

// FilterChanged updates a list's display filter. Local-only; no remote call
// precedes it.
type FilterChanged struct {
	ID     string
	Filter Filter
}

// ListStatusChanged updates a list's own operation status so its controls
// can be disabled while a list-targeted operation is in flight.
type ListStatusChanged struct {
	ID     string
	Status status.Status
}

// ItemsReplaced replaces one list's item sequence (item fetch).
type ItemsReplaced struct {
	ListID string
	Items  []transport.Item
}

// ItemAdded prepends a freshly created item to its owning list's sequence.
type ItemAdded struct {
	Item transport.Item
}

// ItemRemoved deletes one item. Removing an absent item is a no-op.
type ItemRemoved struct {
	ListID string
	ItemID string
}

// ItemUpdated merges a full field set into one item. If the item is gone
// (for example a concurrent removal completed first) the event is a no-op
// rather than re-inserting stale data.
type ItemUpdated struct {
	ListID string
	ItemID string
	Model  transport.UpdateItemModel
}

// Cleared empties both collections. Fired on session end.
type Cleared struct{}

func (ListsReplaced) isEvent()     {}
func (ListAdded) isEvent()         {}
func (ListRemoved) isEvent()       {}
func (ListRenamed) isEvent()       {}
func (FilterChanged) isEvent()     {}
func (ListStatusChanged) isEvent() {}
func (ItemsReplaced) isEvent()     {}
func (ItemAdded) isEvent()         {}
func (ItemRemoved) isEvent()       {}
func (ItemUpdated) isEvent()       {}
func (Cleared) isEvent()           {}
