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
)

func init() {
	Register(&RenameListCmd{})
}

// RenameListCmd implements the renamelist command.
type RenameListCmd struct{}

func (c *RenameListCmd) Name() string       { return "renamelist" }
func (c *RenameListCmd) Aliases() []string  { return nil }
func (c *RenameListCmd) Synopsis() string   { return "Rename a list" }
func (c *RenameListCmd) Usage() string      { return "todosync renamelist <list-name> <new-name>" }
func (c *RenameListCmd) NeedsSession() bool { return true }

func (c *RenameListCmd) RegisterFlags(fs *flag.FlagSet) {}

func (c *RenameListCmd) Run(ctx context.Context, cfg *config.Config, eng *engine.Engine, args []string, out, errOut io.Writer) int {
	if len(args) < 2 {
		fmt.Fprintln(errOut, "error: usage: todosync renamelist <list-name> <new-name>")
		return exitcode.UserError
	}

	name := strings.TrimSpace(args[0])
	newName := strings.TrimSpace(strings.Join(args[1:], " "))
	if name == "" || newName == "" {
		fmt.Fprintln(errOut, "error: usage: todosync renamelist <list-name> <new-name>")
		return exitcode.UserError
	}

	if code := refreshMirror(ctx, eng, errOut); code != exitcode.Success {
		return code
	}

	list, err := resolveListByName(eng, name)
	if err != nil {
		if errors.Is(err, ErrListNotFound) {
			fmt.Fprintf(errOut, "error: list not found: %s\n", name)
		} else {
			fmt.Fprintf(errOut, "error: ambiguous list name: %s\n", name)
		}
		return exitcode.UserError
	}

	if err := eng.RenameList(ctx, list.ID, newName); err != nil {
		return reportOpError(err, errOut)
	}

	if !cfg.Quiet {
		fmt.Fprintln(out, "ok")
	}
	return exitcode.Success
}
