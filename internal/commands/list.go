package commands

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"strings"

	"todosync/internal/config"
	"todosync/internal/engine"
	"todosync/internal/exitcode"
	"todosync/internal/output"
	"todosync/internal/store"
)

func init() {
	Register(&ListCmd{})
}

// ListCmd implements the list command.
// Handles both `todosync` (no args: all lists) and `todosync list <name>`.
type ListCmd struct {
	filter string
}

// SetFilter sets the display filter (for testing).
func (c *ListCmd) SetFilter(f string) {
	c.filter = f
}

func (c *ListCmd) Name() string      { return "list" }
func (c *ListCmd) Aliases() []string { return nil }
func (c *ListCmd) Synopsis() string  { return "List items" }
func (c *ListCmd) Usage() string     { return "todosync list [--filter all|active|completed] <list-name>" }
func (c *ListCmd) NeedsSession() bool { return true }

func (c *ListCmd) RegisterFlags(fs *flag.FlagSet) {
	fs.StringVar(&c.filter, "filter", "", "")
	fs.StringVar(&c.filter, "f", "", "")
}

func (c *ListCmd) Run(ctx context.Context, cfg *config.Config, eng *engine.Engine, args []string, out, errOut io.Writer) int {
	var filter store.Filter
	if c.filter != "" {
		var err error
		filter, err = store.ParseFilter(c.filter)
		if err != nil {
			fmt.Fprintf(errOut, "error: %v\n", err)
			return exitcode.UserError
		}
	}

	if code := refreshMirror(ctx, eng, errOut); code != exitcode.Success {
		return code
	}

	// No args: print every list's items.
	if len(args) == 0 {
		return c.listAll(cfg, eng, filter, out)
	}

	listName := strings.TrimSpace(strings.Join(args, " "))
	if listName == "" {
		fmt.Fprintln(errOut, "error: list name required")
		return exitcode.UserError
	}

	l, err := resolveListByName(eng, listName)
	if err != nil {
		if errors.Is(err, ErrListNotFound) {
			fmt.Fprintf(errOut, "error: list not found: %s\n", listName)
		} else {
			fmt.Fprintf(errOut, "error: ambiguous list name: %s\n", listName)
		}
		return exitcode.UserError
	}

	if filter != "" {
		// Display filter is a local-only mutation; no remote call.
		eng.ChangeFilter(l.ID, filter)
		l, _ = eng.Store().ListByID(l.ID)
	}

	output.FormatListHeader(out, l)
	for i, item := range eng.Store().VisibleItems(l.ID) {
		output.FormatItem(out, i+1, item)
	}
	return exitcode.Success
}

func (c *ListCmd) listAll(cfg *config.Config, eng *engine.Engine, filter store.Filter, out io.Writer) int {
	lists := eng.Store().Lists()

	hasAnyItems := false
	letter := 'a'
	for _, l := range lists {
		if filter != "" {
			eng.ChangeFilter(l.ID, filter)
		}
		items := eng.Store().VisibleItems(l.ID)
		if len(items) > 0 {
			current, _ := eng.Store().ListByID(l.ID)
			output.FormatListHeader(out, current)
			for i, item := range items {
				output.FormatItemWithLetter(out, letter, i+1, item)
			}
			hasAnyItems = true
		}
		letter++
	}

	if !hasAnyItems && !cfg.Quiet {
		fmt.Fprintln(out, "no items found")
	}
	return exitcode.Success
}
