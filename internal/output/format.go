// Package output provides formatters for CLI output.
package output

import (
	"fmt"
	"io"
	"strings"

	"todosync/internal/store"
	"todosync/internal/transport"
)

const (
	// ListSeparator is the separator line for list sections.
	ListSeparator = "------------"
)

// statusMarker returns the checkbox-style marker for an item's status.
func statusMarker(s transport.ItemStatus) string {
	switch s {
	case transport.StatusInProgress:
		return "[>]"
	case transport.StatusDraft:
		return "[d]"
	case transport.StatusCompleted:
		return "[x]"
	default:
		return "[ ]"
	}
}

// FormatItem formats an item line.
// Format: "{N:>4}  {MARKER} {TITLE}{annotations}\n"
func FormatItem(w io.Writer, num int, item transport.Item) {
	fmt.Fprintf(w, "%4d  %s %s%s\n", num, statusMarker(item.Status), normalizeTitle(item.Title), annotations(item))
}

// FormatItemWithLetter formats an item line prefixed with its list letter.
// Format: "{L}{N:>3}  {MARKER} {TITLE}{annotations}\n"
func FormatItemWithLetter(w io.Writer, letter rune, num int, item transport.Item) {
	fmt.Fprintf(w, "%c%3d  %s %s%s\n", letter, num, statusMarker(item.Status), normalizeTitle(item.Title), annotations(item))
}

// annotations renders priority and deadline suffixes when set.
func annotations(item transport.Item) string {
	var sb strings.Builder
	if item.Priority != transport.PriorityLow {
		fmt.Fprintf(&sb, "  !%s", item.Priority)
	}
	if item.Deadline != "" {
		fmt.Fprintf(&sb, "  due:%s", item.Deadline)
	}
	return sb.String()
}

// FormatListHeader formats a list section header. A non-default filter is
// shown so the reader knows the section is narrowed.
func FormatListHeader(w io.Writer, list store.List) {
	title := normalizeListTitle(list.Title)
	if list.Filter != store.FilterAll && list.Filter != "" {
		title += fmt.Sprintf(" [%s]", list.Filter)
	}
	fmt.Fprintln(w, ListSeparator)
	fmt.Fprintln(w, title)
	fmt.Fprintln(w, ListSeparator)
}

// FormatListName formats a list line for the lists command, with the item
// count currently held by the mirror.
func FormatListName(w io.Writer, list store.List, count int) {
	title := normalizeListTitle(list.Title)
	if list.Filter != store.FilterAll && list.Filter != "" {
		title += fmt.Sprintf(" [%s]", list.Filter)
	}
	fmt.Fprintf(w, "%s (%d)\n", title, count)
}

// normalizeTitle normalizes an item title for display.
// - Empty or whitespace-only titles become "(untitled)"
// - Newlines are replaced with spaces
func normalizeTitle(title string) string {
	title = strings.ReplaceAll(title, "\r", " ")
	title = strings.ReplaceAll(title, "\n", " ")

	if strings.TrimSpace(title) == "" {
		return "(untitled)"
	}
	return title
}

// normalizeListTitle normalizes a list title for display.
// Empty or whitespace-only titles become "(untitled)".
func normalizeListTitle(title string) string {
	if strings.TrimSpace(title) == "" {
		return "(untitled)"
	}
	return title
}
