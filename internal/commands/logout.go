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
	Register(&LogoutCmd{})
}

// LogoutCmd implements the logout command. The remote session is ended
// when an engine is available; the stored token is removed either way,
// and the local mirror is dropped with it.
type LogoutCmd struct{}

func (c *LogoutCmd) Name() string       { return "logout" }
func (c *LogoutCmd) Aliases() []string  { return nil }
func (c *LogoutCmd) Synopsis() string   { return "End the session and remove stored credentials" }
func (c *LogoutCmd) Usage() string      { return "todosync logout" }
func (c *LogoutCmd) NeedsSession() bool { return false }

func (c *LogoutCmd) RegisterFlags(fs *flag.FlagSet) {}

func (c *LogoutCmd) Run(ctx context.Context, cfg *config.Config, eng *engine.Engine, args []string, out, errOut io.Writer) int {
	if !cfg.HasToken() {
		if !cfg.Quiet {
			fmt.Fprintln(out, "not logged in")
		}
		return exitcode.Success
	}

	if eng != nil && cfg.Backend == config.BackendREST {
		if err := eng.Logout(ctx); err != nil {
			return reportOpError(err, errOut)
		}
	}

	if cfg.HasToken() {
		if err := cfg.RemoveToken(); err != nil {
			fmt.Fprintf(errOut, "error: failed to remove token: %v\n", err)
			return exitcode.AuthError
		}
	}

	if !cfg.Quiet {
		fmt.Fprintln(out, "ok")
	}
	return exitcode.Success
}
