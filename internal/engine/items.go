package engine

import (
	"context"
	"fmt"

	"todosync/internal/store"
	"todosync/internal/transport"
)

// FetchItems replaces one list's item sequence with the server's. Other
// lists are unaffected.
func (e *Engine) FetchItems(ctx context.Context, listID string) error {
	return perform(ctx, e, "fetch-items",
		func(ctx context.Context) (transport.Response[[]transport.Item], error) {
			return e.tp.GetItems(ctx, listID)
		},
		func(items []transport.Item) {
			e.st.Apply(store.ItemsReplaced{ListID: listID, Items: items})
		})
}

// CreateItem creates an item remotely and prepends the server-assigned
// entity to its list's sequence.
func (e *Engine) CreateItem(ctx context.Context, listID, title string) error {
	return perform(ctx, e, "create-item",
		func(ctx context.Context) (transport.Response[transport.Item], error) {
			return e.tp.CreateItem(ctx, listID, title)
		},
		func(item transport.Item) {
			e.st.Apply(store.ItemAdded{Item: item})
		})
}

// RemoveItem deletes an item remotely and drops it from the mirror.
// Removing an item already absent from the sequence is a no-op.
func (e *Engine) RemoveItem(ctx context.Context, listID, itemID string) error {
	return perform(ctx, e, "remove-item",
		func(ctx context.Context) (transport.Response[transport.Empty], error) {
			return e.tp.DeleteItem(ctx, listID, itemID)
		},
		func(transport.Empty) {
			e.st.Apply(store.ItemRemoved{ListID: listID, ItemID: itemID})
		})
}

// UpdateItem merges the supplied fields into the item. The remote update
// contract is a full replace, so the engine first reconstructs the complete
// field set by overlaying the patch onto the currently-held entity. When the
// item is not in the mirror the operation fails before any transport call.
// If a concurrent removal wins the race, the confirmed update applies as a
// no-op instead of re-inserting the stale item.
func (e *Engine) UpdateItem(ctx context.Context, listID, itemID string, patch transport.ItemPatch) error {
	current, ok := e.st.ItemByID(listID, itemID)
	if !ok {
		oe := &OpError{
			Kind:    KindPrecondition,
			Op:      "update-item",
			Message: fmt.Sprintf("item not found: %s", itemID),
		}
		e.report(oe)
		return oe
	}

	model := patch.ApplyTo(current)
	return perform(ctx, e, "update-item",
		func(ctx context.Context) (transport.Response[transport.Item], error) {
			return e.tp.UpdateItem(ctx, listID, itemID, model)
		},
		func(transport.Item) {
			e.st.Apply(store.ItemUpdated{ListID: listID, ItemID: itemID, Model: model})
		})
}
