package engine

import (
	"context"
	"errors"

	"todosync/internal/status"
	"todosync/internal/store"
	"todosync/internal/transport"
)

// Initialize runs the silent startup session probe. A success envelope
// flips the session to logged in; an application-level rejection means "no
// session" and is swallowed without recording a global error. Either way
// the one-time initialized flag is set on completion; consumers should not
// render session-dependent content before it is.
func (e *Engine) Initialize(ctx context.Context) error {
	defer func() {
		e.mu.Lock()
		e.app.Initialized = true
		e.mu.Unlock()
	}()

	err := perform(ctx, e, "initialize",
		func(ctx context.Context) (transport.Response[transport.User], error) {
			return e.tp.ProbeSession(ctx)
		},
		func(transport.User) {
			e.mu.Lock()
			e.app.LoggedIn = true
			e.mu.Unlock()
		})

	var oe *OpError
	if errors.As(err, &oe) && oe.Kind == KindApplication {
		// Probe rejections are the expected logged-out answer.
		e.mu.Lock()
		e.app.Status = status.Idle
		e.app.LastError = ""
		e.mu.Unlock()
	}
	return err
}

// Login authenticates with explicit credentials. A field-scoped rejection
// comes back to the caller for per-field annotation and does not populate
// the global error channel.
func (e *Engine) Login(ctx context.Context, params transport.LoginParams) error {
	return perform(ctx, e, "login",
		func(ctx context.Context) (transport.Response[transport.LoginResult], error) {
			return e.tp.Login(ctx, params)
		},
		func(transport.LoginResult) {
			e.mu.Lock()
			e.app.LoggedIn = true
			e.mu.Unlock()
		})
}

// Logout ends the session remotely and clears both local collections. The
// session-clear is the only event allowed to empty the stores.
func (e *Engine) Logout(ctx context.Context) error {
	return perform(ctx, e, "logout",
		func(ctx context.Context) (transport.Response[transport.Empty], error) {
			return e.tp.Logout(ctx)
		},
		func(transport.Empty) {
			e.st.Apply(store.Cleared{})
			e.mu.Lock()
			e.app.LoggedIn = false
			e.mu.Unlock()
		})
}
