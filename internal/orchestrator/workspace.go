package orchestrator

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/mrz1836/taskmux/internal/constants"
	"github.com/mrz1836/taskmux/internal/domain"
	"github.com/mrz1836/taskmux/internal/liveoutput"
	"github.com/mrz1836/taskmux/internal/stream"
)

// node is one live task in a workspace's tree. All fields are guarded by
// the owning workspace's lock except ctx/admitted/done, which are safe to
// read concurrently (channels close exactly once, under the lock).
type node struct {
	task domain.Task

	parent *node

	// descendants maps the id of every transitively owned child to its
	// node. Maintained incrementally on spawn and terminate; never
	// recomputed by traversal.
	descendants map[string]*node

	ctx    context.Context
	cancel context.CancelFunc

	// admitted is closed when the task gets a running slot.
	admitted chan struct{}

	// done is closed when the task reaches a terminal state.
	done chan struct{}

	// output is the task's bounded live-output buffer state. Replaced,
	// never mutated, on append.
	output *liveoutput.Buffer

	// timer is the optional timeout cascade trigger, stopped on finalize.
	timer *time.Timer
}

// snapshotLocked copies the node's task for external consumption, deriving
// the descendant id list from the maintained index. Caller holds ws.mu.
func (n *node) snapshotLocked() domain.Task {
	t := n.task
	if len(n.descendants) > 0 {
		t.DescendantIDs = make([]string, 0, len(n.descendants))
		for id := range n.descendants {
			t.DescendantIDs = append(t.DescendantIDs, id)
		}
	}
	t.Transitions = append([]domain.Transition(nil), n.task.Transitions...)
	return t
}

// retainedTask is a terminal task kept briefly for idempotent re-queries
// after leaving the live tree.
type retainedTask struct {
	task      domain.Task
	output    liveoutput.Snapshot
	ancestors map[string]bool
	expiresAt time.Time
}

// workspace is the per-workspace coordinator. One lock serializes every
// state transition in the workspace's tree, which is what makes admission
// counting and termination cascades atomic to external observers.
type workspace struct {
	id string

	mu       sync.Mutex
	nodes    map[string]*node
	queue    []*node
	running  int
	retained map[string]*retainedTask
}

func newWorkspace(id string) *workspace {
	return &workspace{
		id:       id,
		nodes:    make(map[string]*node),
		retained: make(map[string]*retainedTask),
	}
}

// rootsLocked returns the live root tasks. Caller holds ws.mu.
func (ws *workspace) rootsLocked() []*node {
	var roots []*node
	for _, n := range ws.nodes {
		if n.parent == nil {
			roots = append(roots, n)
		}
	}
	return roots
}

// inScopeLocked reports whether target is within the caller's descendant
// scope. An empty callerID is the operator scope and covers the whole
// workspace. A task is never in its own scope.
func (ws *workspace) inScopeLocked(callerID, targetID string) bool {
	if callerID == "" {
		return true
	}
	caller, ok := ws.nodes[callerID]
	if !ok {
		return false
	}
	_, ok = caller.descendants[targetID]
	return ok
}

// transitionLocked applies one state change to a node, appending to its
// audit trail. Caller holds ws.mu.
func (ws *workspace) transitionLocked(o *Orchestrator, n *node, to constants.TaskState, reason string) error {
	from := n.task.State
	if err := checkTransition(from, to); err != nil {
		return err
	}

	now := o.clk.Now().UTC()
	n.task.State = to
	n.task.UpdatedAt = now
	n.task.Transitions = append(n.task.Transitions, domain.Transition{
		From:   from,
		To:     to,
		Reason: reason,
		At:     now,
	})
	return nil
}

// promoteLocked moves a task from queued to running and gives it a slot.
// Caller holds ws.mu and has verified capacity.
func (ws *workspace) promoteLocked(o *Orchestrator, n *node, reason string) {
	// Queued -> Running is always legal; a failure here is a coordinator bug.
	if err := ws.transitionLocked(o, n, constants.TaskStateRunning, reason); err != nil {
		panic(fmt.Sprintf("orchestrator: promote of queued task %s: %v", n.task.ID, err))
	}
	ws.running++
	o.metrics.observeRunning(ws.running)
	close(n.admitted)
	o.publish(stream.Event{Kind: stream.KindStart, TaskID: n.task.ID})
}

// admitQueuedLocked promotes queued tasks FIFO while capacity remains.
// Called after any transition that can free a running slot.
func (ws *workspace) admitQueuedLocked(o *Orchestrator) {
	for len(ws.queue) > 0 && ws.running < o.limits.MaxParallelTasks {
		n := ws.queue[0]
		ws.queue = ws.queue[1:]
		ws.promoteLocked(o, n, "capacity freed")
		o.metrics.admitted()
		o.logger.Debug().
			Str("workspace_id", ws.id).
			Str("task_id", n.task.ID).
			Msg("queued task admitted")
	}
}

// finalizeLocked moves a node into a terminal state and out of the live
// tree: it releases the running slot, cancels the task's context, closes
// its done channel, detaches it from every ancestor's descendant index and
// parks it in the retained set. Caller holds ws.mu.
func (ws *workspace) finalizeLocked(o *Orchestrator, n *node, to constants.TaskState, reason string) error {
	wasRunning := n.task.State == constants.TaskStateRunning
	wasQueued := n.task.State == constants.TaskStateQueued

	if err := ws.transitionLocked(o, n, to, reason); err != nil {
		return err
	}

	now := o.clk.Now().UTC()
	n.task.FinishedAt = &now

	if n.timer != nil {
		n.timer.Stop()
	}
	n.cancel()
	close(n.done)

	if wasRunning {
		ws.running--
		if ws.running < 0 {
			// The counter and the tree have diverged; this is a bug,
			// not a usage fault.
			panic(fmt.Sprintf("orchestrator: negative running count in workspace %s", ws.id))
		}
	}
	if wasQueued {
		ws.dropFromQueueLocked(n)
	}

	for anc := n.parent; anc != nil; anc = anc.parent {
		delete(anc.descendants, n.task.ID)
	}
	delete(ws.nodes, n.task.ID)

	retainedAncestors := make(map[string]bool)
	for anc := n.parent; anc != nil; anc = anc.parent {
		retainedAncestors[anc.task.ID] = true
	}
	ws.retained[n.task.ID] = &retainedTask{
		task:      n.snapshotLocked(),
		output:    n.output.View(),
		ancestors: retainedAncestors,
		expiresAt: o.clk.Now().Add(o.limits.Retention),
	}

	o.metrics.finished(to.String())
	switch to {
	case constants.TaskStateCompleted:
		o.publish(stream.Event{Kind: stream.KindEnd, TaskID: n.task.ID})
	case constants.TaskStateTerminated, constants.TaskStateFailed:
		o.publish(stream.Event{Kind: stream.KindAbort, TaskID: n.task.ID})
	}
	if o.producer != nil {
		o.producer.Forget(n.task.ID)
	}

	o.logger.Info().
		Str("workspace_id", ws.id).
		Str("task_id", n.task.ID).
		Str("state", to.String()).
		Str("reason", reason).
		Msg("task finished")
	return nil
}

// dropFromQueueLocked removes a node from the FIFO admission queue.
func (ws *workspace) dropFromQueueLocked(n *node) {
	for i, queued := range ws.queue {
		if queued == n {
			ws.queue = append(ws.queue[:i], ws.queue[i+1:]...)
			return
		}
	}
}

// cascadeLocked terminates a node together with all of its live
// descendants. The whole cascade runs under ws.mu, so no observer sees a
// partially-terminated subtree. Descendants finalize before the requested
// task; sibling order is unspecified. Returns the ids actually terminated
// and the first fault, if any. Partial progress is never rolled back.
func (ws *workspace) cascadeLocked(o *Orchestrator, n *node, reason string) (terminated []string, err error) {
	members := make([]*node, 0, len(n.descendants)+1)
	for _, desc := range n.descendants {
		members = append(members, desc)
	}
	members = append(members, n)

	for _, member := range members {
		if ferr := ws.finalizeLocked(o, member, constants.TaskStateTerminated, reason); ferr != nil {
			return terminated, ferr
		}
		terminated = append(terminated, member.task.ID)
	}
	return terminated, nil
}

// sweepRetainedLocked drops retained tasks whose retention window has
// passed. Called at the top of every coordinator operation.
func (ws *workspace) sweepRetainedLocked(now time.Time) {
	for id, r := range ws.retained {
		if now.After(r.expiresAt) {
			delete(ws.retained, id)
		}
	}
}
