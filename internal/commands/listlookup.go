package commands

import (
	"errors"
	"fmt"
	"io"
	"strings"

	"todosync/internal/engine"
	"todosync/internal/exitcode"
	"todosync/internal/store"
	"todosync/internal/transport"
)

// Lookup errors. Lookups run against the local mirror only; no remote calls
// are made after the refresh.
var (
	ErrListNotFound  = errors.New("list not found")
	ErrListAmbiguous = errors.New("ambiguous list name")
	ErrNoLists       = errors.New("no lists")
)

// resolveListByName finds a mirror list by title (case-insensitive,
// trimmed).
func resolveListByName(eng *engine.Engine, name string) (store.List, error) {
	nameLower := strings.ToLower(strings.TrimSpace(name))

	var matches []store.List
	for _, l := range eng.Store().Lists() {
		if strings.ToLower(strings.TrimSpace(l.Title)) == nameLower {
			matches = append(matches, l)
		}
	}

	switch len(matches) {
	case 0:
		return store.List{}, ErrListNotFound
	case 1:
		return matches[0], nil
	default:
		return store.List{}, ErrListAmbiguous
	}
}

// resolveListByLetter maps 'a' to the first mirror list, 'b' to the second,
// and so on, matching the letters the lists command prints.
func resolveListByLetter(eng *engine.Engine, letter rune) (store.List, error) {
	lists := eng.Store().Lists()
	idx := int(letter - 'a')
	if idx < 0 || idx >= len(lists) {
		return store.List{}, fmt.Errorf("list letter not found: %c", letter)
	}
	return lists[idx], nil
}

// resolveListForRef picks the target list for an item reference: the --list
// name wins, then the reference's letter, then the first mirror list.
func resolveListForRef(eng *engine.Engine, listName string, ref ItemRef) (store.List, error) {
	if listName != "" {
		return resolveListByName(eng, listName)
	}
	if ref.HasLetter {
		return resolveListByLetter(eng, ref.Letter)
	}
	lists := eng.Store().Lists()
	if len(lists) == 0 {
		return store.List{}, ErrNoLists
	}
	return lists[0], nil
}

// resolveTargetList resolves the list a new item should land in: the
// --list name when given, otherwise the first mirror list. Prints the
// failure and returns the exit code alongside the list.
func resolveTargetList(eng *engine.Engine, listName string, errOut io.Writer) (store.List, int) {
	if listName != "" {
		list, err := resolveListByName(eng, listName)
		if err != nil {
			if errors.Is(err, ErrListAmbiguous) {
				fmt.Fprintf(errOut, "error: ambiguous list name: %s\n", listName)
			} else {
				fmt.Fprintf(errOut, "error: list not found: %s\n", listName)
			}
			return store.List{}, exitcode.UserError
		}
		return list, exitcode.Success
	}
	lists := eng.Store().Lists()
	if len(lists) == 0 {
		fmt.Fprintln(errOut, "error: no lists found (run: todosync addlist <name>)")
		return store.List{}, exitcode.UserError
	}
	return lists[0], exitcode.Success
}

// findItemByNumber finds an item by its 1-based position in the mirror's
// sequence for the list.
func findItemByNumber(eng *engine.Engine, listID string, num int) (transport.Item, error) {
	items, _ := eng.Store().Items(listID)
	if num < 1 || num > len(items) {
		return transport.Item{}, fmt.Errorf("item number out of range: %d", num)
	}
	return items[num-1], nil
}

// resolveItemRef parses an item reference from args and maps it to a
// concrete mirror item. Prints failures and returns the exit code
// alongside the result.
func resolveItemRef(eng *engine.Engine, listName string, args []string, errOut io.Writer) (transport.Item, int) {
	ref, err := ParseItemRef(args)
	if err != nil {
		fmt.Fprintf(errOut, "error: %v\n", err)
		return transport.Item{}, exitcode.UserError
	}

	list, err := resolveListForRef(eng, listName, ref)
	if err != nil {
		fmt.Fprintf(errOut, "error: %v\n", err)
		return transport.Item{}, exitcode.UserError
	}

	item, err := findItemByNumber(eng, list.ID, ref.Num)
	if err != nil {
		fmt.Fprintf(errOut, "error: %v\n", err)
		return transport.Item{}, exitcode.UserError
	}
	return item, exitcode.Success
}
