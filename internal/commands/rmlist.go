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
	"todosync/internal/transport"
)

func init() {
	Register(&RmListCmd{})
}

// RmListCmd implements the rmlist command. Removing a list also removes
// every item it owns, so a non-empty list needs --force.
type RmListCmd struct {
	force bool
}

// SetForce sets the force flag (for testing).
func (c *RmListCmd) SetForce(force bool) {
	c.force = force
}

func (c *RmListCmd) Name() string      { return "rmlist" }
func (c *RmListCmd) Aliases() []string { return nil }
func (c *RmListCmd) Synopsis() string  { return "Delete a list" }
func (c *RmListCmd) Usage() string     { return "todosync rmlist [--force] <list-name>" }
func (c *RmListCmd) NeedsSession() bool { return true }

func (c *RmListCmd) RegisterFlags(fs *flag.FlagSet) {
	fs.BoolVar(&c.force, "force", false, "")
}

func (c *RmListCmd) Run(ctx context.Context, cfg *config.Config, eng *engine.Engine, args []string, out, errOut io.Writer) int {
	if len(args) == 0 {
		fmt.Fprintln(errOut, "error: list name required")
		return exitcode.UserError
	}

	name := strings.TrimSpace(strings.Join(args, " "))
	if name == "" {
		fmt.Fprintln(errOut, "error: list name required")
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

	if !c.force {
		items, _ := eng.Store().Items(list.ID)
		open := 0
		for _, item := range items {
			if item.Status != transport.StatusCompleted {
				open++
			}
		}
		if open > 0 {
			fmt.Fprintln(errOut, "error: list not empty (use --force)")
			return exitcode.UserError
		}
	}

	if err := eng.RemoveList(ctx, list.ID); err != nil {
		return reportOpError(err, errOut)
	}

	if !cfg.Quiet {
		fmt.Fprintln(out, "ok")
	}
	return exitcode.Success
}
