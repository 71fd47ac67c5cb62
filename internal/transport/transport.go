package transport

import "context"

// Transport is the backend-agnostic interface for remote CRUD operations.
// Every call returns the uniform envelope on a completed exchange; a Go
// error means the exchange itself failed (timeout, connection failure,
// malformed response). The engine never imports a backend directly.
type Transport interface {
	// ProbeSession checks whether stored credentials identify a user.
	// A non-zero result code means "not logged in", not a hard failure.
	ProbeSession(ctx context.Context) (Response[User], error)

	// Login authenticates with explicit credentials.
	Login(ctx context.Context, params LoginParams) (Response[LoginResult], error)

	// Logout ends the current session.
	Logout(ctx context.Context) (Response[Empty], error)

	// GetLists returns all lists in server order.
	GetLists(ctx context.Context) (Response[[]List], error)

	// CreateList creates a list; the server assigns the identifier.
	CreateList(ctx context.Context, title string) (Response[List], error)

	// DeleteList removes a list and everything it owns.
	DeleteList(ctx context.Context, listID string) (Response[Empty], error)

	// RenameList changes a list's title.
	RenameList(ctx context.Context, listID, title string) (Response[Empty], error)

	// GetItems returns all items of one list in server order.
	GetItems(ctx context.Context, listID string) (Response[[]Item], error)

	// CreateItem creates an item in the given list.
	CreateItem(ctx context.Context, listID, title string) (Response[Item], error)

	// DeleteItem removes one item.
	DeleteItem(ctx context.Context, listID, itemID string) (Response[Empty], error)

	// UpdateItem replaces an item's full field set.
	UpdateItem(ctx context.Context, listID, itemID string, model UpdateItemModel) (Response[Item], error)
}
