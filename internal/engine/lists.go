package engine

import (
	"context"

	"todosync/internal/status"
	"todosync/internal/store"
	"todosync/internal/transport"
)

// FetchLists replaces the mirror's list collection with the server's and
// spawns an independent item fetch for each returned list. The child
// fetches are fire-and-forget: their completion order is unspecified and a
// failing child never aborts its siblings. Use Wait to observe quiescence.
//
// The children start only after the parent operation has resolved its own
// status, so a failing child is never overwritten by the parent's
// succeeded write.
func (e *Engine) FetchLists(ctx context.Context) error {
	var fetched []transport.List
	err := perform(ctx, e, "fetch-lists",
		func(ctx context.Context) (transport.Response[[]transport.List], error) {
			return e.tp.GetLists(ctx)
		},
		func(lists []transport.List) {
			e.st.Apply(store.ListsReplaced{Lists: lists})
			fetched = lists
		})
	if err != nil {
		return err
	}
	for _, l := range fetched {
		e.wg.Add(1)
		go func(id string) {
			defer e.wg.Done()
			_ = e.FetchItems(ctx, id)
		}(l.ID)
	}
	return nil
}

// CreateList creates a list remotely and prepends the server-assigned
// entity to the mirror. Identifiers are never invented client-side.
func (e *Engine) CreateList(ctx context.Context, title string) error {
	return perform(ctx, e, "create-list",
		func(ctx context.Context) (transport.Response[transport.List], error) {
			return e.tp.CreateList(ctx, title)
		},
		func(l transport.List) {
			e.st.Apply(store.ListAdded{List: l})
		})
}

// RemoveList deletes a list remotely, then drops the entity and its item
// sequence in one mutation. The list's own status goes loading for the
// duration so its controls can be disabled.
func (e *Engine) RemoveList(ctx context.Context, id string) error {
	e.st.Apply(store.ListStatusChanged{ID: id, Status: status.Loading})
	err := perform(ctx, e, "remove-list",
		func(ctx context.Context) (transport.Response[transport.Empty], error) {
			return e.tp.DeleteList(ctx, id)
		},
		func(transport.Empty) {
			e.st.Apply(store.ListRemoved{ID: id})
		})
	if err != nil {
		e.st.Apply(store.ListStatusChanged{ID: id, Status: status.Failed})
	}
	return err
}

// RenameList updates a list's title remotely and, on confirmation, in the
// mirror. Filter and entity status are untouched.
func (e *Engine) RenameList(ctx context.Context, id, title string) error {
	return perform(ctx, e, "rename-list",
		func(ctx context.Context) (transport.Response[transport.Empty], error) {
			return e.tp.RenameList(ctx, id, title)
		},
		func(transport.Empty) {
			e.st.Apply(store.ListRenamed{ID: id, Title: title})
		})
}

// ChangeFilter updates a list's display filter. Local-only: no remote call,
// no status transition.
func (e *Engine) ChangeFilter(id string, filter store.Filter) {
	e.st.Apply(store.FilterChanged{ID: id, Filter: filter})
}
