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
	Register(&DoneCmd{})
}

// DoneCmd implements the done command. Marking done is an update with a
// completed status; every other field rides along unchanged.
type DoneCmd struct {
	listName string
	undo     bool
}

// SetListName sets the target list name (for testing).
func (c *DoneCmd) SetListName(name string) {
	c.listName = name
}

// SetUndo sets the undo flag (for testing).
func (c *DoneCmd) SetUndo(undo bool) {
	c.undo = undo
}

func (c *DoneCmd) Name() string       { return "done" }
func (c *DoneCmd) Aliases() []string  { return []string{"d", "complete"} }
func (c *DoneCmd) Synopsis() string   { return "Mark an item completed" }
func (c *DoneCmd) Usage() string      { return "todosync done [--list <name>] [--undo] <item-ref>" }
func (c *DoneCmd) NeedsSession() bool { return true }

func (c *DoneCmd) RegisterFlags(fs *flag.FlagSet) {
	fs.StringVar(&c.listName, "list", "", "")
	fs.StringVar(&c.listName, "l", "", "")
	fs.BoolVar(&c.undo, "undo", false, "")
}

func (c *DoneCmd) Run(ctx context.Context, cfg *config.Config, eng *engine.Engine, args []string, out, errOut io.Writer) int {
	if code := refreshMirror(ctx, eng, errOut); code != exitcode.Success {
		return code
	}

	item, code := resolveItemRef(eng, c.listName, args, errOut)
	if code != exitcode.Success {
		return code
	}

	target := transport.StatusCompleted
	if c.undo {
		target = transport.StatusNew
	}
	patch := transport.ItemPatch{Status: &target}

	if err := eng.UpdateItem(ctx, item.ListID, item.ID, patch); err != nil {
		return reportOpError(err, errOut)
	}

	if !cfg.Quiet {
		fmt.Fprintln(out, "ok")
	}
	return exitcode.Success
}
