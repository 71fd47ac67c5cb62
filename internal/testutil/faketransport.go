// Package testutil provides testing utilities.
package testutil

import (
	"context"
	"fmt"
	"slices"
	"sync"

	"todosync/internal/transport"
)

// Operation names accepted by the FakeTransport injection helpers.
const (
	OpProbeSession = "probeSession"
	OpLogin        = "login"
	OpLogout       = "logout"
	OpGetLists     = "getLists"
	OpCreateList   = "createList"
	OpDeleteList   = "deleteList"
	OpRenameList   = "renameList"
	OpGetItems     = "getItems"
	OpCreateItem   = "createItem"
	OpDeleteItem   = "deleteItem"
	OpUpdateItem   = "updateItem"
)

// Rejection configures an application-level rejection envelope.
type Rejection struct {
	Messages     []string
	FieldsErrors []transport.FieldError
}

// FakeTransport is an in-memory implementation of transport.Transport with
// per-operation failure injection. Server-assigned identifiers are
// deterministic ("list-1", "item-1", ...) in creation order.
type FakeTransport struct {
	mu     sync.Mutex
	lists  []transport.List
	items  map[string][]transport.Item
	nextID int

	errs       map[string]error
	rejections map[string]Rejection
	gates      map[string]*gate
}

type gate struct {
	entered chan struct{}
	release chan struct{}
	once    sync.Once
}

var _ transport.Transport = (*FakeTransport)(nil)

// NewFakeTransport creates an empty fake backend.
func NewFakeTransport() *FakeTransport {
	return &FakeTransport{
		items:      make(map[string][]transport.Item),
		errs:       make(map[string]error),
		rejections: make(map[string]Rejection),
		gates:      make(map[string]*gate),
	}
}

// SeedList adds a list server-side without going through the transport.
func (f *FakeTransport) SeedList(id, title string) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.lists = append(f.lists, transport.List{ID: id, Title: title, Order: len(f.lists)})
	if _, ok := f.items[id]; !ok {
		f.items[id] = nil
	}
}

// SeedItem adds an item server-side without going through the transport.
func (f *FakeTransport) SeedItem(item transport.Item) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.items[item.ListID] = append(f.items[item.ListID], item)
}

// Fail makes the named operation return a transport-level error.
func (f *FakeTransport) Fail(op string, err error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.errs[op] = err
}

// Reject makes the named operation answer a rejection envelope.
func (f *FakeTransport) Reject(op string, r Rejection) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.rejections[op] = r
}

// Gate makes the named operation block until release is closed, so tests
// can control completion order. entered is closed when the operation first
// reaches the transport, so the test can sequence other calls after it.
func (f *FakeTransport) Gate(op string) (entered <-chan struct{}, release chan struct{}) {
	f.mu.Lock()
	defer f.mu.Unlock()
	g := &gate{entered: make(chan struct{}), release: make(chan struct{})}
	f.gates[op] = g
	return g.entered, g.release
}

// intercept applies gating and injected failures for op. The second result
// is non-nil when a rejection is configured.
func (f *FakeTransport) intercept(op string) (error, *Rejection) {
	f.mu.Lock()
	g := f.gates[op]
	f.mu.Unlock()
	if g != nil {
		g.once.Do(func() { close(g.entered) })
		<-g.release
	}

	f.mu.Lock()
	defer f.mu.Unlock()
	if err := f.errs[op]; err != nil {
		return err, nil
	}
	if r, ok := f.rejections[op]; ok {
		return nil, &r
	}
	return nil, nil
}

func rejected[D any](r *Rejection) transport.Response[D] {
	return transport.Response[D]{
		ResultCode:   1,
		Messages:     r.Messages,
		FieldsErrors: r.FieldsErrors,
	}
}

func ok[D any](data D) transport.Response[D] {
	return transport.Response[D]{ResultCode: transport.ResultCodeSuccess, Data: data}
}

// ProbeSession implements transport.Transport.
func (f *FakeTransport) ProbeSession(ctx context.Context) (transport.Response[transport.User], error) {
	if err, r := f.intercept(OpProbeSession); err != nil {
		return transport.Response[transport.User]{}, err
	} else if r != nil {
		return rejected[transport.User](r), nil
	}
	return ok(transport.User{ID: 1, Email: "user@example.com", Login: "user"}), nil
}

// Login implements transport.Transport.
func (f *FakeTransport) Login(ctx context.Context, params transport.LoginParams) (transport.Response[transport.LoginResult], error) {
	if err, r := f.intercept(OpLogin); err != nil {
		return transport.Response[transport.LoginResult]{}, err
	} else if r != nil {
		return rejected[transport.LoginResult](r), nil
	}
	return ok(transport.LoginResult{UserID: 1, Token: "fake-token"}), nil
}

// Logout implements transport.Transport.
func (f *FakeTransport) Logout(ctx context.Context) (transport.Response[transport.Empty], error) {
	if err, r := f.intercept(OpLogout); err != nil {
		return transport.Response[transport.Empty]{}, err
	} else if r != nil {
		return rejected[transport.Empty](r), nil
	}
	return ok(transport.Empty{}), nil
}

// GetLists implements transport.Transport.
func (f *FakeTransport) GetLists(ctx context.Context) (transport.Response[[]transport.List], error) {
	if err, r := f.intercept(OpGetLists); err != nil {
		return transport.Response[[]transport.List]{}, err
	} else if r != nil {
		return rejected[[]transport.List](r), nil
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	return ok(slices.Clone(f.lists)), nil
}

// CreateList implements transport.Transport.
func (f *FakeTransport) CreateList(ctx context.Context, title string) (transport.Response[transport.List], error) {
	if err, r := f.intercept(OpCreateList); err != nil {
		return transport.Response[transport.List]{}, err
	} else if r != nil {
		return rejected[transport.List](r), nil
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	f.nextID++
	list := transport.List{ID: fmt.Sprintf("list-%d", f.nextID), Title: title}
	f.lists = slices.Insert(f.lists, 0, list)
	f.items[list.ID] = nil
	return ok(list), nil
}

// DeleteList implements transport.Transport.
func (f *FakeTransport) DeleteList(ctx context.Context, listID string) (transport.Response[transport.Empty], error) {
	if err, r := f.intercept(OpDeleteList); err != nil {
		return transport.Response[transport.Empty]{}, err
	} else if r != nil {
		return rejected[transport.Empty](r), nil
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	f.lists = slices.DeleteFunc(f.lists, func(l transport.List) bool { return l.ID == listID })
	delete(f.items, listID)
	return ok(transport.Empty{}), nil
}

// RenameList implements transport.Transport.
func (f *FakeTransport) RenameList(ctx context.Context, listID, title string) (transport.Response[transport.Empty], error) {
	if err, r := f.intercept(OpRenameList); err != nil {
		return transport.Response[transport.Empty]{}, err
	} else if r != nil {
		return rejected[transport.Empty](r), nil
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	for i := range f.lists {
		if f.lists[i].ID == listID {
			f.lists[i].Title = title
		}
	}
	return ok(transport.Empty{}), nil
}

// GetItems implements transport.Transport.
func (f *FakeTransport) GetItems(ctx context.Context, listID string) (transport.Response[[]transport.Item], error) {
	if err, r := f.intercept(OpGetItems); err != nil {
		return transport.Response[[]transport.Item]{}, err
	} else if r != nil {
		return rejected[[]transport.Item](r), nil
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	return ok(slices.Clone(f.items[listID])), nil
}

// CreateItem implements transport.Transport.
func (f *FakeTransport) CreateItem(ctx context.Context, listID, title string) (transport.Response[transport.Item], error) {
	if err, r := f.intercept(OpCreateItem); err != nil {
		return transport.Response[transport.Item]{}, err
	} else if r != nil {
		return rejected[transport.Item](r), nil
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	f.nextID++
	item := transport.Item{ID: fmt.Sprintf("item-%d", f.nextID), ListID: listID, Title: title}
	f.items[listID] = slices.Insert(f.items[listID], 0, item)
	return ok(item), nil
}

// DeleteItem implements transport.Transport.
func (f *FakeTransport) DeleteItem(ctx context.Context, listID, itemID string) (transport.Response[transport.Empty], error) {
	if err, r := f.intercept(OpDeleteItem); err != nil {
		return transport.Response[transport.Empty]{}, err
	} else if r != nil {
		return rejected[transport.Empty](r), nil
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	f.items[listID] = slices.DeleteFunc(f.items[listID], func(it transport.Item) bool { return it.ID == itemID })
	return ok(transport.Empty{}), nil
}

// UpdateItem implements transport.Transport.
func (f *FakeTransport) UpdateItem(ctx context.Context, listID, itemID string, model transport.UpdateItemModel) (transport.Response[transport.Item], error) {
	if err, r := f.intercept(OpUpdateItem); err != nil {
		return transport.Response[transport.Item]{}, err
	} else if r != nil {
		return rejected[transport.Item](r), nil
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	for i, it := range f.items[listID] {
		if it.ID == itemID {
			it.Title = model.Title
			it.Description = model.Description
			it.Status = model.Status
			it.Priority = model.Priority
			it.StartDate = model.StartDate
			it.Deadline = model.Deadline
			f.items[listID][i] = it
			return ok(it), nil
		}
	}
	// The server still answers success for an unknown item; the mirror
	// decides what to do with it.
	return ok(transport.Item{ID: itemID, ListID: listID, Title: model.Title}), nil
}
