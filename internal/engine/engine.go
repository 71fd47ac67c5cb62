// Package engine orchestrates synchronization between the local mirror and
// the remote service. Every remote-facing operation follows one template:
// mark the app loading, invoke the transport, classify the outcome, apply
// the store mutation on success, and resolve the app status. The engine
// alone owns the global operation status and the session state; the store
// never reads or writes them.
package engine

import (
	"context"
	"log/slog"
	"sync"

	"todosync/internal/status"
	"todosync/internal/store"
	"todosync/internal/transport"
)

// AppState is the engine-owned application state: the process-wide
// operation status, the last global error (empty when none), the one-time
// initialized flag, and the session flag.
type AppState struct {
	Status      status.Status
	LastError   string
	Initialized bool
	LoggedIn    bool
}

// Engine drives all asynchronous operations against one transport and one
// store. Safe for concurrent use; store mutations apply atomically in the
// order operations complete, which is not necessarily the order they were
// issued.
type Engine struct {
	tp  transport.Transport
	st  *store.Store
	log *slog.Logger

	mu  sync.Mutex
	app AppState
	wg  sync.WaitGroup
}

// New creates an engine over the given transport and store. logger may be
// nil to disable debug logging.
func New(tp transport.Transport, st *store.Store, logger *slog.Logger) *Engine {
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}
	return &Engine{
		tp:  tp,
		st:  st,
		log: logger,
		app: AppState{Status: status.Idle},
	}
}

// Store returns the mirror for read-only selector access.
func (e *Engine) Store() *store.Store {
	return e.st
}

// App returns a snapshot of the application state.
func (e *Engine) App() AppState {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.app
}

// Wait blocks until all fire-and-forget child operations have completed.
func (e *Engine) Wait() {
	e.wg.Wait()
}

func (e *Engine) setStatus(st status.Status) {
	e.mu.Lock()
	e.app.Status = st
	e.mu.Unlock()
}

// report records a failed operation. Field-scoped rejections transition the
// status but leave the global error alone; everything else records the
// message for the generic failure channel.
func (e *Engine) report(oe *OpError) {
	e.mu.Lock()
	e.app.Status = status.Failed
	if oe.Kind != KindField {
		e.app.LastError = oe.Message
	}
	e.mu.Unlock()
	e.log.Debug("operation failed", "op", oe.Op, "kind", string(oe.Kind), "err", oe.Message)
}

// ClearError resets the recorded global error, typically after the
// presentation layer has shown it.
func (e *Engine) ClearError() {
	e.mu.Lock()
	e.app.LastError = ""
	e.mu.Unlock()
}

// perform is the one implementation of the operation state machine:
// idle -> loading -> (succeeded -> store mutation) | (failed -> no mutation).
// call invokes the transport; apply runs only on a success envelope, before
// the status resolves to succeeded. The returned error is always an
// *OpError classified as network or application/field.
func perform[D any](ctx context.Context, e *Engine, op string, call func(context.Context) (transport.Response[D], error), apply func(D)) error {
	e.setStatus(status.Loading)
	e.log.Debug("operation started", "op", op)

	res, err := call(ctx)
	if err != nil {
		oe := &OpError{Kind: KindNetwork, Op: op, Message: err.Error()}
		e.report(oe)
		return oe
	}
	if !res.OK() {
		oe := rejection(op, res.Messages, res.FieldsErrors)
		e.report(oe)
		return oe
	}

	if apply != nil {
		apply(res.Data)
	}
	e.setStatus(status.Succeeded)
	e.log.Debug("operation succeeded", "op", op)
	return nil
}

// rejection classifies a non-zero result code. A rejection carrying field
// errors is field-scoped; otherwise the first message (or the fallback)
// becomes the global error.
func rejection(op string, messages []string, fieldErrors []transport.FieldError) *OpError {
	if len(fieldErrors) > 0 {
		msg := fallbackMessage
		if len(messages) > 0 {
			msg = messages[0]
		}
		return &OpError{Kind: KindField, Op: op, Message: msg, FieldErrors: fieldErrors}
	}
	msg := fallbackMessage
	if len(messages) > 0 {
		msg = messages[0]
	}
	return &OpError{Kind: KindApplication, Op: op, Message: msg}
}
