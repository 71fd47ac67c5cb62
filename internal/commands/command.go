// Package commands provides the command interface and implementations.
// Commands are the presentation collaborator: they drive the engine's named
// operations and read the mirror through selectors, never mutating state
// directly.
package commands

import (
	"context"
	"flag"
	"io"

	"todosync/internal/config"
	"todosync/internal/engine"
)

// Command defines the interface for CLI commands.
type Command interface {
	// Name returns the primary command name.
	Name() string

	// Aliases returns alternative names for the command.
	Aliases() []string

	// Synopsis returns a short description for help output.
	Synopsis() string

	// Usage returns the usage string for help output.
	Usage() string

	// NeedsSession returns true if the command requires a logged-in
	// session. The dispatcher runs the startup probe before such
	// commands. help, version, login, logout return false.
	NeedsSession() bool

	// RegisterFlags registers command-specific flags.
	RegisterFlags(fs *flag.FlagSet)

	// Run executes the command.
	// cfg is always provided (config dir, paths).
	// eng is nil only when the backend could not be constructed and the
	// command declared NeedsSession false.
	// args contains positional arguments after flag parsing.
	// Returns exit code.
	Run(ctx context.Context, cfg *config.Config, eng *engine.Engine, args []string, out, errOut io.Writer) int
}
