// Package stream implements the lifecycle event relay that running tasks use
// to publish progress toward a single consumer.
//
// Events move through two forwarding lanes. Lane A carries events from the
// execution layer to the service layer; Lane B carries them from the service
// layer to the session/UI layer. Each lane forwards events one-to-one in
// production order, but runs extra bookkeeping on one event kind before
// re-emitting it: Lane A reconciles partial state on abort, Lane B runs
// completion bookkeeping on end. The relay never reorders, coalesces, or
// concatenates events; delta payload concatenation, if any, happens upstream.
package stream

// EventKind identifies one of the five lifecycle event kinds. The set is
// closed; relays reject unknown kinds rather than forwarding them.
type EventKind string

// Lifecycle event kinds.
const (
	// KindPending announces that work has been accepted but not started.
	KindPending EventKind = "pending"

	// KindStart announces that work has begun producing output.
	KindStart EventKind = "start"

	// KindDelta carries a partial payload (text or tool output).
	KindDelta EventKind = "delta"

	// KindAbort announces that work stopped before completion.
	KindAbort EventKind = "abort"

	// KindEnd announces that work finished.
	KindEnd EventKind = "end"
)

// String returns the string representation of the EventKind.
func (k EventKind) String() string {
	return string(k)
}

// validKinds is the closed set of forwardable event kinds.
var validKinds = map[EventKind]bool{ //nolint:gochecknoglobals // Read-only lookup table
	KindPending: true,
	KindStart:   true,
	KindDelta:   true,
	KindAbort:   true,
	KindEnd:     true,
}

// Valid reports whether k is one of the five lifecycle kinds.
func (k EventKind) Valid() bool {
	return validKinds[k]
}

// Event is one lifecycle event produced by a running task.
type Event struct {
	// Kind is the lifecycle event kind.
	Kind EventKind `json:"kind"`

	// TaskID identifies the producing task. Ordering is guaranteed per
	// task; events from concurrent tasks may interleave arbitrarily.
	TaskID string `json:"task_id"`

	// Payload carries the delta text for KindDelta events, and is empty
	// for the other kinds.
	Payload string `json:"payload,omitempty"`

	// IsError marks a delta as stderr rather than stdout output.
	IsError bool `json:"is_error,omitempty"`

	// Seq is the per-task sequence number assigned by the producer.
	Seq uint64 `json:"seq"`
}
