package commands

import (
	"context"
	"errors"
	"fmt"
	"io"

	"todosync/internal/engine"
	"todosync/internal/exitcode"
	"todosync/internal/status"
)

// refreshMirror seeds the local mirror: fetch-lists plus the per-list item
// fetches it spawns. Waits for the children so the caller sees a settled
// mirror. A failure in any child surfaces through the global error channel.
func refreshMirror(ctx context.Context, eng *engine.Engine, errOut io.Writer) int {
	if err := eng.FetchLists(ctx); err != nil {
		return reportOpError(err, errOut)
	}
	eng.Wait()
	if app := eng.App(); app.Status == status.Failed {
		fmt.Fprintf(errOut, "error: backend error: %s\n", app.LastError)
		return exitcode.BackendError
	}
	return exitcode.Success
}

// reportOpError prints an operation failure and maps it to an exit code.
// Field-scoped rejections are rendered per field; local precondition
// failures are the user's mistake, not the backend's.
func reportOpError(err error, errOut io.Writer) int {
	var oe *engine.OpError
	if errors.As(err, &oe) {
		switch oe.Kind {
		case engine.KindField:
			for _, fe := range oe.FieldErrors {
				fmt.Fprintf(errOut, "error: %s: %s\n", fe.Field, fe.Error)
			}
			return exitcode.UserError
		case engine.KindPrecondition:
			fmt.Fprintf(errOut, "error: %s\n", oe.Message)
			return exitcode.UserError
		default:
			fmt.Fprintf(errOut, "error: backend error: %s\n", oe.Message)
			return exitcode.BackendError
		}
	}
	fmt.Fprintf(errOut, "error: backend error: %v\n", err)
	return exitcode.BackendError
}
