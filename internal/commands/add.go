package commands

import (
	"context"
	"flag"
	"fmt"
	"io"
	"strings"

	"todosync/internal/config"
	"todosync/internal/engine"
	"todosync/internal/exitcode"
)

func init() {
	Register(&AddCmd{})
}

// AddCmd implements the add command.
type AddCmd struct {
	listName string
}

// SetListName sets the target list name (for testing).
func (c *AddCmd) SetListName(name string) {
	c.listName = name
}

func (c *AddCmd) Name() string       { return "add" }
func (c *AddCmd) Aliases() []string  { return []string{"a"} }
func (c *AddCmd) Synopsis() string   { return "Add an item" }
func (c *AddCmd) Usage() string      { return "todosync add [--list <name>] <title>" }
func (c *AddCmd) NeedsSession() bool { return true }

func (c *AddCmd) RegisterFlags(fs *flag.FlagSet) {
	fs.StringVar(&c.listName, "list", "", "")
	fs.StringVar(&c.listName, "l", "", "")
}

func (c *AddCmd) Run(ctx context.Context, cfg *config.Config, eng *engine.Engine, args []string, out, errOut io.Writer) int {
	title := strings.TrimSpace(strings.Join(args, " "))
	if title == "" {
		fmt.Fprintln(errOut, "error: item title required")
		return exitcode.UserError
	}

	if code := refreshMirror(ctx, eng, errOut); code != exitcode.Success {
		return code
	}

	list, code := resolveTargetList(eng, c.listName, errOut)
	if code != exitcode.Success {
		return code
	}

	if err := eng.CreateItem(ctx, list.ID, title); err != nil {
		return reportOpError(err, errOut)
	}

	if !cfg.Quiet {
		fmt.Fprintln(out, "ok")
	}
	return exitcode.Success
}
