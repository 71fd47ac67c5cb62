// Package store holds the client-resident mirror of the remote lists and
// items. Mutations arrive as events from the engine and apply atomically;
// reads return defensive copies and may happen at any time from any
// goroutine.
package store

import (
	"fmt"
	"slices"
	"sync"

	"todosync/internal/status"
	"todosync/internal/transport"
)

// Filter selects which items of a list are rendered.
type Filter string

const (
	FilterAll       Filter = "all"
	FilterActive    Filter = "active"
	FilterCompleted Filter = "completed"
)

// ParseFilter resolves a display name back to a filter.
func ParseFilter(s string) (Filter, error) {
	switch Filter(s) {
	case FilterAll, FilterActive, FilterCompleted:
		return Filter(s), nil
	}
	return "", fmt.Errorf("unknown filter: %s", s)
}

// List is a list entity as the mirror holds it: the wire fields plus the
// local display filter and the per-entity operation status.
type List struct {
	transport.List
	Filter       Filter
	EntityStatus status.Status
}

// Store is the normalized mirror: an ordered list collection and an item
// sequence per list. The item map's key set always equals the list
// collection's identifier set; every event that changes list membership
// fixes up the item side within the same locked step, so no reader can
// observe the two out of sync.
type Store struct {
	mu    sync.RWMutex
	lists []List
	items map[string][]transport.Item
}

// New creates an empty store.
func New() *Store {
	return &Store{items: make(map[string][]transport.Item)}
}

// Apply executes one mutation event atomically.
func (s *Store) Apply(ev Event) {
	s.mu.Lock()
	defer s.mu.Unlock()

	switch ev := ev.(type) {
	case ListsReplaced:
		s.replaceLists(ev.Lists)
	case ListAdded:
		s.addList(ev.List)
	case ListRemoved:
		s.removeList(ev.ID)
	case ListRenamed:
		s.renameList(ev.ID, ev.Title)
	case FilterChanged:
		if i := s.indexOfList(ev.ID); i != -1 {
			s.lists[i].Filter = ev.Filter
		}
	case ListStatusChanged:
		if i := s.indexOfList(ev.ID); i != -1 {
			s.lists[i].EntityStatus = ev.Status
		}
	case ItemsReplaced:
		if _, ok := s.items[ev.ListID]; ok {
			s.items[ev.ListID] = slices.Clone(ev.Items)
		}
	case ItemAdded:
		if _, ok := s.items[ev.Item.ListID]; ok {
			s.items[ev.Item.ListID] = slices.Insert(s.items[ev.Item.ListID], 0, ev.Item)
		}
	case ItemRemoved:
		s.removeItem(ev.ListID, ev.ItemID)
	case ItemUpdated:
		s.updateItem(ev.ListID, ev.ItemID, ev.Model)
	case Cleared:
		s.lists = nil
		s.items = make(map[string][]transport.Item)
	default:
		panic(fmt.Sprintf("store: unhandled event %T", ev))
	}
}

func (s *Store) replaceLists(lists []transport.List) {
	s.lists = make([]List, 0, len(lists))
	s.items = make(map[string][]transport.Item, len(lists))
	for _, l := range lists {
		s.lists = append(s.lists, List{List: l, Filter: FilterAll, EntityStatus: status.Idle})
		s.items[l.ID] = nil
	}
}

func (s *Store) addList(l transport.List) {
	s.lists = slices.Insert(s.lists, 0, List{List: l, Filter: FilterAll, EntityStatus: status.Idle})
	s.items[l.ID] = nil
}

func (s *Store) removeList(id string) {
	if i := s.indexOfList(id); i != -1 {
		s.lists = slices.Delete(s.lists, i, i+1)
	}
	delete(s.items, id)
}

func (s *Store) renameList(id, title string) {
	if i := s.indexOfList(id); i != -1 {
		s.lists[i].Title = title
	}
}

func (s *Store) removeItem(listID, itemID string) {
	seq := s.items[listID]
	for i, item := range seq {
		if item.ID == itemID {
			s.items[listID] = slices.Delete(seq, i, i+1)
			return
		}
	}
}

func (s *Store) updateItem(listID, itemID string, model transport.UpdateItemModel) {
	seq := s.items[listID]
	for i, item := range seq {
		if item.ID == itemID {
			seq[i].Title = model.Title
			seq[i].Description = model.Description
			seq[i].Status = model.Status
			seq[i].Priority = model.Priority
			seq[i].StartDate = model.StartDate
			seq[i].Deadline = model.Deadline
			return
		}
	}
}

func (s *Store) indexOfList(id string) int {
	return slices.IndexFunc(s.lists, func(l List) bool { return l.ID == id })
}

// Lists returns a copy of the list collection in order.
func (s *Store) Lists() []List {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return slices.Clone(s.lists)
}

// ListByID returns one list by identifier.
func (s *Store) ListByID(id string) (List, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if i := s.indexOfList(id); i != -1 {
		return s.lists[i], true
	}
	return List{}, false
}

// Items returns a copy of one list's item sequence. The second result is
// false when no bucket exists for the identifier.
func (s *Store) Items(listID string) ([]transport.Item, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	seq, ok := s.items[listID]
	return slices.Clone(seq), ok
}

// ItemByID returns one item from one list.
func (s *Store) ItemByID(listID, itemID string) (transport.Item, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	for _, item := range s.items[listID] {
		if item.ID == itemID {
			return item, true
		}
	}
	return transport.Item{}, false
}

// VisibleItems returns one list's items narrowed by its display filter.
func (s *Store) VisibleItems(listID string) []transport.Item {
	s.mu.RLock()
	defer s.mu.RUnlock()

	filter := FilterAll
	if i := s.indexOfList(listID); i != -1 {
		filter = s.lists[i].Filter
	}

	var visible []transport.Item
	for _, item := range s.items[listID] {
		switch filter {
		case FilterActive:
			if item.Status == transport.StatusCompleted {
				continue
			}
		case FilterCompleted:
			if item.Status != transport.StatusCompleted {
				continue
			}
		}
		visible = append(visible, item)
	}
	return visible
}

// ListIDs returns the list identifiers in collection order.
func (s *Store) ListIDs() []string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	ids := make([]string, len(s.lists))
	for i, l := range s.lists {
		ids[i] = l.ID
	}
	return ids
}

// ItemKeys returns the identifiers the item map is keyed by, in no
// particular order.
func (s *Store) ItemKeys() []string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	keys := make([]string, 0, len(s.items))
	for k := range s.items {
		keys = append(keys, k)
	}
	return keys
}
