package commands

import (
	"context"
	"flag"
	"fmt"
	"io"

	"todosync/internal/config"
	"todosync/internal/engine"
	"todosync/internal/exitcode"
	"todosync/internal/output"
)

func init() {
	Register(&ListsCmd{})
}

// ListsCmd implements the lists command: refresh the mirror, then print
// every list with its item count and letter.
type ListsCmd struct{}

func (c *ListsCmd) Name() string      { return "lists" }
func (c *ListsCmd) Aliases() []string { return nil }
func (c *ListsCmd) Synopsis() string  { return "Print all lists" }
func (c *ListsCmd) Usage() string     { return "todosync lists [common flags]" }
func (c *ListsCmd) NeedsSession() bool { return true }

func (c *ListsCmd) RegisterFlags(fs *flag.FlagSet) {}

func (c *ListsCmd) Run(ctx context.Context, cfg *config.Config, eng *engine.Engine, args []string, out, errOut io.Writer) int {
	if code := refreshMirror(ctx, eng, errOut); code != exitcode.Success {
		return code
	}

	lists := eng.Store().Lists()
	if len(lists) == 0 {
		if !cfg.Quiet {
			fmt.Fprintln(out, "no lists found")
		}
		return exitcode.Success
	}

	letter := 'a'
	for _, l := range lists {
		items, _ := eng.Store().Items(l.ID)
		fmt.Fprintf(out, "%c  ", letter)
		output.FormatListName(out, l, len(items))
		letter++
	}
	return exitcode.Success
}
