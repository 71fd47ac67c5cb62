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
	"todosync/internal/store"
)

func init() {
	Register(&FilterCmd{})
}

// FilterCmd implements the filter command. The view filter is local
// state only and never round-trips to the backend.
type FilterCmd struct{}

func (c *FilterCmd) Name() string       { return "filter" }
func (c *FilterCmd) Aliases() []string  { return nil }
func (c *FilterCmd) Synopsis() string   { return "Set the view filter of a list" }
func (c *FilterCmd) Usage() string      { return "todosync filter <list-name> <all|active|completed>" }
func (c *FilterCmd) NeedsSession() bool { return true }

func (c *FilterCmd) RegisterFlags(fs *flag.FlagSet) {}

func (c *FilterCmd) Run(ctx context.Context, cfg *config.Config, eng *engine.Engine, args []string, out, errOut io.Writer) int {
	if len(args) < 2 {
		fmt.Fprintln(errOut, "error: usage: todosync filter <list-name> <all|active|completed>")
		return exitcode.UserError
	}

	name := strings.TrimSpace(strings.Join(args[:len(args)-1], " "))
	filter, err := store.ParseFilter(args[len(args)-1])
	if err != nil {
		fmt.Fprintf(errOut, "error: %v\n", err)
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

	eng.ChangeFilter(list.ID, filter)

	if !cfg.Quiet {
		fmt.Fprintf(out, "%s: %s\n", list.Title, filter)
	}
	return exitcode.Success
}
