package commands

import (
	"context"
	"flag"
	"fmt"
	"io"

	"todosync/internal/config"
	"todosync/internal/engine"
	"todosync/internal/exitcode"
)

func init() {
	Register(&RmCmd{})
}

// RmCmd implements the rm command.
type RmCmd struct {
	listName string
}

// SetListName sets the target list name (for testing).
func (c *RmCmd) SetListName(name string) {
	c.listName = name
}

func (c *RmCmd) Name() string       { return "rm" }
func (c *RmCmd) Aliases() []string  { return []string{"delete"} }
func (c *RmCmd) Synopsis() string   { return "Delete an item" }
func (c *RmCmd) Usage() string      { return "todosync rm [--list <name>] <item-ref>" }
func (c *RmCmd) NeedsSession() bool { return true }

func (c *RmCmd) RegisterFlags(fs *flag.FlagSet) {
	fs.StringVar(&c.listName, "list", "", "")
	fs.StringVar(&c.listName, "l", "", "")
}

func (c *RmCmd) Run(ctx context.Context, cfg *config.Config, eng *engine.Engine, args []string, out, errOut io.Writer) int {
	if code := refreshMirror(ctx, eng, errOut); code != exitcode.Success {
		return code
	}

	item, code := resolveItemRef(eng, c.listName, args, errOut)
	if code != exitcode.Success {
		return code
	}

	if err := eng.RemoveItem(ctx, item.ListID, item.ID); err != nil {
		return reportOpError(err, errOut)
	}

	if !cfg.Quiet {
		fmt.Fprintln(out, "ok")
	}
	return exitcode.Success
}
