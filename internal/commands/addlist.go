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
	Register(&AddListCmd{})
}

// AddListCmd implements the addlist command.
type AddListCmd struct{}

func (c *AddListCmd) Name() string      { return "addlist" }
func (c *AddListCmd) Aliases() []string { return []string{"createlist"} }
func (c *AddListCmd) Synopsis() string  { return "Create a new list" }
func (c *AddListCmd) Usage() string     { return "todosync addlist [common flags] <list-name>" }
func (c *AddListCmd) NeedsSession() bool { return true }

func (c *AddListCmd) RegisterFlags(fs *flag.FlagSet) {}

func (c *AddListCmd) Run(ctx context.Context, cfg *config.Config, eng *engine.Engine, args []string, out, errOut io.Writer) int {
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

	// Duplicate titles are legal server-side but make every later
	// name-based lookup ambiguous, so refuse them up front.
	if _, err := resolveListByName(eng, name); err == nil || errors.Is(err, ErrListAmbiguous) {
		fmt.Fprintf(errOut, "error: list already exists: %s\n", name)
		return exitcode.UserError
	}

	if err := eng.CreateList(ctx, name); err != nil {
		return reportOpError(err, errOut)
	}

	if !cfg.Quiet {
		fmt.Fprintln(out, "ok")
	}
	return exitcode.Success
}
