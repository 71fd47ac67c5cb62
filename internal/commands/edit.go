package commands

import (
	"context"
	"flag"
	"fmt"
	"io"

	"todosync/internal/config"
	"todosync/internal/engine"
	"todosync/internal/exitcode"
	"todosync/internal/transport"
)

func init() {
	Register(&EditCmd{})
}

// EditCmd implements the edit command. Flags accumulate into a patch so
// that only the fields the user named are changed; everything else keeps
// its current value.
type EditCmd struct {
	listName string
	patch    transport.ItemPatch
}

// SetListName sets the target list name (for testing).
func (c *EditCmd) SetListName(name string) {
	c.listName = name
}

// SetPatch sets the patch directly (for testing).
func (c *EditCmd) SetPatch(p transport.ItemPatch) {
	c.patch = p
}

func (c *EditCmd) Name() string      { return "edit" }
func (c *EditCmd) Aliases() []string { return nil }
func (c *EditCmd) Synopsis() string  { return "Edit fields of an item" }
func (c *EditCmd) Usage() string {
	return "todosync edit [--list <name>] [--title <t>] [--desc <d>] [--status <s>] [--priority <p>] [--start <date>] [--deadline <date>] <item-ref>"
}
func (c *EditCmd) NeedsSession() bool { return true }

func (c *EditCmd) RegisterFlags(fs *flag.FlagSet) {
	fs.StringVar(&c.listName, "list", "", "")
	fs.StringVar(&c.listName, "l", "", "")
	fs.Func("title", "", func(s string) error {
		c.patch.Title = &s
		return nil
	})
	fs.Func("desc", "", func(s string) error {
		c.patch.Description = &s
		return nil
	})
	fs.Func("status", "", func(s string) error {
		st, err := transport.ParseItemStatus(s)
		if err != nil {
			return err
		}
		c.patch.Status = &st
		return nil
	})
	fs.Func("priority", "", func(s string) error {
		p, err := transport.ParseItemPriority(s)
		if err != nil {
			return err
		}
		c.patch.Priority = &p
		return nil
	})
	fs.Func("start", "", func(s string) error {
		c.patch.StartDate = &s
		return nil
	})
	fs.Func("deadline", "", func(s string) error {
		c.patch.Deadline = &s
		return nil
	})
}

func (c *EditCmd) Run(ctx context.Context, cfg *config.Config, eng *engine.Engine, args []string, out, errOut io.Writer) int {
	if c.patch.IsZero() {
		fmt.Fprintln(errOut, "error: nothing to change (pass at least one field flag)")
		return exitcode.UserError
	}

	if code := refreshMirror(ctx, eng, errOut); code != exitcode.Success {
		return code
	}

	item, code := resolveItemRef(eng, c.listName, args, errOut)
	if code != exitcode.Success {
		return code
	}

	if err := eng.UpdateItem(ctx, item.ListID, item.ID, c.patch); err != nil {
		return reportOpError(err, errOut)
	}

	if !cfg.Quiet {
		fmt.Fprintln(out, "ok")
	}
	return exitcode.Success
}
