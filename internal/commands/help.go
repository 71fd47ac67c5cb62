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
	Register(&HelpCmd{})
}

// HelpCmd implements the help command.
type HelpCmd struct{}

func (c *HelpCmd) Name() string       { return "help" }
func (c *HelpCmd) Aliases() []string  { return nil }
func (c *HelpCmd) Synopsis() string   { return "Print usage" }
func (c *HelpCmd) Usage() string      { return "todosync help" }
func (c *HelpCmd) NeedsSession() bool { return false }

func (c *HelpCmd) RegisterFlags(fs *flag.FlagSet) {}

func (c *HelpCmd) Run(ctx context.Context, cfg *config.Config, eng *engine.Engine, args []string, out, errOut io.Writer) int {
	fmt.Fprint(out, helpText)
	return exitcode.Success
}

const helpText = `Usage:
  todosync                                           List all items across lists
  todosync list [common flags] [--filter <f>] [<list-name>]
  todosync lists [common flags]
  todosync add [common flags] [--list <list-name>] <title...>
  todosync done [common flags] [--list <list-name>] [--undo] <ref>
  todosync edit [common flags] [--list <list-name>] [field flags] <ref>
  todosync rm [common flags] [--list <list-name>] <ref>
  todosync addlist [common flags] <list-name>
  todosync renamelist [common flags] <list-name> <new-name>
  todosync rmlist [common flags] [--force] <list-name>
  todosync filter [common flags] <list-name> <all|active|completed>
  todosync login [common flags] [--email <addr> --password <pw>] [--remember]
  todosync logout [common flags]
  todosync help
  todosync version

Field flags (edit):
  --title <t>       New title
  --desc <d>        New description
  --status <s>      new | in-progress | draft | completed
  --priority <p>    low | middle | high | urgent | later
  --start <date>    Start date
  --deadline <date> Deadline

Common flags:
  --config <dir>   Override config directory
  --quiet          Suppress informational output
  --debug          Print debug logs to stderr
`
