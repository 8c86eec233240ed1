package orchestrator

import (
	"context"

	"github.com/mrz1836/taskmux/internal/constants"
	"github.com/mrz1836/taskmux/internal/domain"
	"github.com/mrz1836/taskmux/internal/errors"
	"github.com/mrz1836/taskmux/internal/liveoutput"
	"github.com/mrz1836/taskmux/internal/stream"
)

// Terminate terminates the requested tasks and, for each, its live
// descendants. callerID scopes the request: a task may only terminate
// tasks inside its own subtree, never itself; an empty callerID is the
// operator scope and covers the whole workspace.
//
// The call never fails as a whole. Every requested id gets exactly one
// outcome, duplicates collapsed to the first occurrence. An id already
// terminal reports not_found, since it has left the live tree; retries
// are therefore idempotent, not errors. That includes ids taken down by
// an earlier cascade in the same call.
func (o *Orchestrator) Terminate(workspaceID, callerID string, taskIDs []string) ([]domain.TerminateOutcome, error) {
	ws, err := o.lookupWorkspace(workspaceID)
	if err != nil {
		return nil, err
	}

	ws.mu.Lock()
	defer ws.mu.Unlock()
	ws.sweepRetainedLocked(o.clk.Now())

	if callerID != "" {
		if _, ok := ws.nodes[callerID]; !ok {
			return nil, errors.Wrapf(errors.ErrTaskNotFound, "calling task %s", callerID)
		}
	}

	outcomes := make([]domain.TerminateOutcome, 0, len(taskIDs))
	seen := make(map[string]bool, len(taskIDs))

	for _, id := range taskIDs {
		if seen[id] {
			continue
		}
		seen[id] = true
		outcomes = append(outcomes, o.terminateOneLocked(ws, callerID, id))
	}

	ws.admitQueuedLocked(o)
	return outcomes, nil
}

// terminateOneLocked resolves a single requested id to its outcome.
// A task that has already left the live tree, whether it finished before
// this call or fell to an earlier cascade within it, reports not_found.
func (o *Orchestrator) terminateOneLocked(ws *workspace, callerID, id string) domain.TerminateOutcome {
	n, live := ws.nodes[id]
	if !live {
		return domain.TerminateOutcome{TaskID: id, Status: domain.TerminateStatusNotFound}
	}

	if !ws.inScopeLocked(callerID, id) {
		return domain.TerminateOutcome{TaskID: id, Status: domain.TerminateStatusInvalidScope}
	}

	terminated, err := ws.cascadeLocked(o, n, "terminate requested")
	if err != nil {
		return domain.TerminateOutcome{
			TaskID:        id,
			Status:        domain.TerminateStatusError,
			TerminatedIDs: terminated,
			Error:         err.Error(),
		}
	}
	return domain.TerminateOutcome{
		TaskID:        id,
		Status:        domain.TerminateStatusTerminated,
		TerminatedIDs: terminated,
	}
}

// Report checks whether the task may report completion. It fails with
// ErrDescendantsStillActive while any descendant is queued or running and
// succeeds otherwise. Report itself mutates nothing; the owning session
// drives the actual state change through Complete once the report is
// accepted. The check reads the same descendant index that Spawn and
// Terminate maintain, so it is a hard precondition, not a racy scan.
func (o *Orchestrator) Report(workspaceID, taskID string) error {
	ws, err := o.lookupWorkspace(workspaceID)
	if err != nil {
		return err
	}

	ws.mu.Lock()
	defer ws.mu.Unlock()
	ws.sweepRetainedLocked(o.clk.Now())

	n, ok := ws.nodes[taskID]
	if !ok {
		return errors.Wrapf(errors.ErrTaskNotFound, "task %s", taskID)
	}
	if len(n.descendants) > 0 {
		return errors.Wrapf(errors.ErrDescendantsStillActive,
			"task %s has %d active descendants", taskID, len(n.descendants))
	}
	return nil
}

// Complete marks a running task completed. The descendant gate enforced by
// Report holds here too, which keeps completion strictly bottom-up even if
// a caller skips the report step.
func (o *Orchestrator) Complete(workspaceID, taskID string) (*domain.Task, error) {
	return o.finishTask(workspaceID, taskID, constants.TaskStateCompleted, "completed")
}

// Fail marks a running task failed, recording the cause in the transition
// trail. Unlike Complete, failure does not require the subtree to be settled;
// live descendants keep running and still need an explicit terminate or
// their own completion.
func (o *Orchestrator) Fail(workspaceID, taskID, cause string) (*domain.Task, error) {
	reason := "failed"
	if cause != "" {
		reason = "failed: " + cause
	}
	return o.finishTask(workspaceID, taskID, constants.TaskStateFailed, reason)
}

func (o *Orchestrator) finishTask(workspaceID, taskID string, to constants.TaskState, reason string) (*domain.Task, error) {
	ws, err := o.lookupWorkspace(workspaceID)
	if err != nil {
		return nil, err
	}

	ws.mu.Lock()
	defer ws.mu.Unlock()
	ws.sweepRetainedLocked(o.clk.Now())

	n, ok := ws.nodes[taskID]
	if !ok {
		return nil, errors.Wrapf(errors.ErrTaskNotFound, "task %s", taskID)
	}
	if to == constants.TaskStateCompleted && len(n.descendants) > 0 {
		return nil, errors.Wrapf(errors.ErrDescendantsStillActive,
			"task %s has %d active descendants", taskID, len(n.descendants))
	}

	if err := ws.finalizeLocked(o, n, to, reason); err != nil {
		return nil, err
	}
	ws.admitQueuedLocked(o)

	snapshot := ws.retained[taskID].task
	return &snapshot, nil
}

// awaitEntry is one member of an Await wait set, captured under the
// workspace lock before any blocking happens.
type awaitEntry struct {
	n        *node        // live at capture time, nil otherwise
	finished *domain.Task // already-terminal snapshot at capture time
}

// Await blocks until every named descendant of callerID reaches a terminal
// state, then returns their final snapshots in request order. The whole call
// fails with ErrInvalidScope before any waiting if a named id is not a
// descendant of the caller; recently finished descendants still inside the
// retention window count as reached, not out of scope. An empty id list
// awaits the caller's entire current subtree. Tasks spawned after the wait
// set is captured are not awaited. An empty callerID is the operator scope.
func (o *Orchestrator) Await(ctx context.Context, workspaceID, callerID string, descendantIDs []string) ([]domain.Task, error) {
	ws, err := o.lookupWorkspace(workspaceID)
	if err != nil {
		return nil, err
	}

	ws.mu.Lock()

	var caller *node
	if callerID != "" {
		var ok bool
		if caller, ok = ws.nodes[callerID]; !ok {
			ws.mu.Unlock()
			return nil, errors.Wrapf(errors.ErrTaskNotFound, "calling task %s", callerID)
		}
	}

	if len(descendantIDs) == 0 {
		if caller != nil {
			for id := range caller.descendants {
				descendantIDs = append(descendantIDs, id)
			}
		} else {
			for id := range ws.nodes {
				descendantIDs = append(descendantIDs, id)
			}
		}
	}

	// Resolve and scope-check every named id before blocking on any.
	entries := make([]awaitEntry, 0, len(descendantIDs))
	seen := make(map[string]bool, len(descendantIDs))
	for _, id := range descendantIDs {
		if seen[id] {
			continue
		}
		seen[id] = true

		if n, live := ws.nodes[id]; live {
			if !ws.inScopeLocked(callerID, id) {
				ws.mu.Unlock()
				return nil, errors.Wrapf(errors.ErrInvalidScope,
					"task %s is not a descendant of the caller", id)
			}
			entries = append(entries, awaitEntry{n: n})
			continue
		}
		if r, retained := ws.retained[id]; retained && (callerID == "" || r.ancestors[callerID]) {
			snapshot := r.task
			entries = append(entries, awaitEntry{finished: &snapshot})
			continue
		}
		ws.mu.Unlock()
		return nil, errors.Wrapf(errors.ErrInvalidScope,
			"task %s is not a descendant of the caller", id)
	}
	ws.mu.Unlock()

	results := make([]domain.Task, 0, len(entries))
	for _, e := range entries {
		if e.finished != nil {
			results = append(results, *e.finished)
			continue
		}

		select {
		case <-e.n.done:
			// The final state is written before done closes, under the
			// workspace lock, so this read is ordered after it.
		case <-ctx.Done():
			return nil, ctx.Err()
		}

		ws.mu.Lock()
		if r, retained := ws.retained[e.n.task.ID]; retained {
			results = append(results, r.task)
		} else {
			results = append(results, e.n.snapshotLocked())
		}
		ws.mu.Unlock()
	}
	return results, nil
}

// AppendOutput feeds a chunk of the task's process output into its bounded
// buffer and emits a delta event. Output appended to a terminal or unknown
// task is dropped with ErrTaskNotFound; the caller races the task's own
// termination and losing that race is expected.
func (o *Orchestrator) AppendOutput(workspaceID, taskID string, chunk liveoutput.Chunk) error {
	ws, err := o.lookupWorkspace(workspaceID)
	if err != nil {
		return err
	}

	ws.mu.Lock()
	defer ws.mu.Unlock()

	n, ok := ws.nodes[taskID]
	if !ok {
		return errors.Wrapf(errors.ErrTaskNotFound, "task %s", taskID)
	}

	next, err := liveoutput.Append(n.output, chunk, o.limits.OutputMaxBytes)
	if err != nil {
		return err
	}
	n.output = next

	o.publish(stream.Event{
		Kind:    stream.KindDelta,
		TaskID:  taskID,
		Payload: chunk.Text,
		IsError: chunk.IsError,
	})
	return nil
}

// Output returns the task's retained live output, live or recently
// finished.
func (o *Orchestrator) Output(workspaceID, taskID string) (liveoutput.Snapshot, error) {
	ws, err := o.lookupWorkspace(workspaceID)
	if err != nil {
		return liveoutput.Snapshot{}, err
	}

	ws.mu.Lock()
	defer ws.mu.Unlock()
	ws.sweepRetainedLocked(o.clk.Now())

	if n, ok := ws.nodes[taskID]; ok {
		return n.output.View(), nil
	}
	if r, ok := ws.retained[taskID]; ok {
		return r.output, nil
	}
	return liveoutput.Snapshot{}, errors.Wrapf(errors.ErrTaskNotFound, "task %s", taskID)
}
