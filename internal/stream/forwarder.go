package stream

import (
	"github.com/rs/zerolog"

	"github.com/mrz1836/taskmux/internal/errors"
)

// Sink consumes forwarded events. The next lane or the final consumer
// implements this.
type Sink interface {
	// Emit delivers one event. Implementations must not reorder events
	// from the same task.
	Emit(ev Event) error
}

// SinkFunc adapts a function to the Sink interface.
type SinkFunc func(ev Event) error

// Emit implements Sink.
func (f SinkFunc) Emit(ev Event) error {
	return f(ev)
}

// ServiceRelay is Lane A: it forwards events from the execution layer to the
// service layer. All kinds forward verbatim one-to-one; abort additionally
// triggers the reconcile hook before re-emission so the service layer can
// reconcile any partial state it holds for the task.
type ServiceRelay struct {
	sink      Sink
	reconcile func(taskID string) error
	logger    zerolog.Logger
}

// NewServiceRelay creates a Lane A relay. reconcile may be nil when the
// service layer keeps no partial state.
func NewServiceRelay(sink Sink, reconcile func(taskID string) error, logger zerolog.Logger) *ServiceRelay {
	return &ServiceRelay{
		sink:      sink,
		reconcile: reconcile,
		logger:    logger,
	}
}

// Emit implements Sink, making relays chainable into lanes.
func (r *ServiceRelay) Emit(ev Event) error {
	return r.Forward(ev)
}

// Forward relays one event to the service layer. Events of unknown kind are
// rejected, never silently dropped, so a producer bug surfaces immediately.
func (r *ServiceRelay) Forward(ev Event) error {
	if !ev.Kind.Valid() {
		return errors.Wrapf(errors.ErrInvalidArgument, "unknown event kind %q", ev.Kind)
	}

	if ev.Kind == KindAbort && r.reconcile != nil {
		if err := r.reconcile(ev.TaskID); err != nil {
			// The abort still forwards; losing it would strand the
			// downstream consumer in a running state.
			r.logger.Error().
				Err(err).
				Str("task_id", ev.TaskID).
				Msg("failed to reconcile partial state on abort")
		}
	}

	return r.sink.Emit(ev)
}

// SessionRelay is Lane B: it forwards events from the service layer to the
// session/UI layer. All kinds forward verbatim one-to-one; end additionally
// triggers the completion hook before re-emission so the session layer can
// run its bookkeeping, such as releasing the task's running slot.
type SessionRelay struct {
	sink     Sink
	complete func(taskID string) error
	logger   zerolog.Logger
}

// NewSessionRelay creates a Lane B relay. complete may be nil when no
// completion bookkeeping is needed.
func NewSessionRelay(sink Sink, complete func(taskID string) error, logger zerolog.Logger) *SessionRelay {
	return &SessionRelay{
		sink:     sink,
		complete: complete,
		logger:   logger,
	}
}

// Emit implements Sink, making relays chainable into lanes.
func (r *SessionRelay) Emit(ev Event) error {
	return r.Forward(ev)
}

// Forward relays one event to the session layer.
func (r *SessionRelay) Forward(ev Event) error {
	if !ev.Kind.Valid() {
		return errors.Wrapf(errors.ErrInvalidArgument, "unknown event kind %q", ev.Kind)
	}

	if ev.Kind == KindEnd && r.complete != nil {
		if err := r.complete(ev.TaskID); err != nil {
			r.logger.Error().
				Err(err).
				Str("task_id", ev.TaskID).
				Msg("failed to run completion bookkeeping on end")
		}
	}

	return r.sink.Emit(ev)
}
