// Package status defines the request-status values shared by the engine and
// the per-list entity status.
package status

// Status tracks the progress of an asynchronous operation.
type Status string

const (
	// Idle means no operation has run yet, or the last cycle is fully settled.
	Idle Status = "idle"

	// Loading means an operation is in flight.
	Loading Status = "loading"

	// Succeeded means the last operation completed and its mutation applied.
	Succeeded Status = "succeeded"

	// Failed means the last operation ended in an error; no mutation applied.
	Failed Status = "failed"
)
