package orchestrator

import (
	"context"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"golang.org/x/sync/errgroup"

	"github.com/mrz1836/taskmux/internal/clock"
	"github.com/mrz1836/taskmux/internal/constants"
	"github.com/mrz1836/taskmux/internal/domain"
	"github.com/mrz1836/taskmux/internal/errors"
	"github.com/mrz1836/taskmux/internal/stream"
)

// Limits holds the workspace-level settings the orchestrator enforces at
// spawn and admission time.
type Limits struct {
	// MaxParallelTasks caps concurrently running tasks per workspace (1-10).
	MaxParallelTasks int

	// MaxNestingDepth caps task nesting depth (1-5). A root task has
	// depth 0, so a cap of 1 allows one level of subtasks.
	MaxNestingDepth int

	// Retention is how long terminal tasks stay queryable after leaving
	// the live tree.
	Retention time.Duration

	// OutputMaxBytes is the byte budget for each task's live-output buffer.
	OutputMaxBytes int
}

// Orchestrator owns the task trees for all workspaces. It is the single
// source of truth for admission and serializes all state transitions for a
// given tree through one lock-guarded coordinator per workspace, keeping the
// concurrency and depth invariants atomic under concurrent spawn, terminate
// and await calls from multiple tasks.
type Orchestrator struct {
	limits   Limits
	clk      clock.Clock
	logger   zerolog.Logger
	producer *stream.Producer

	baseCtx    context.Context
	baseCancel context.CancelFunc

	mu         sync.Mutex
	workspaces map[string]*workspace
	closed     bool

	metrics metricsCollector
}

// Option configures an Orchestrator.
type Option func(*Orchestrator)

// WithClock sets the clock used for timestamps and retention expiry.
// Tests use this to control time.
func WithClock(clk clock.Clock) Option {
	return func(o *Orchestrator) {
		o.clk = clk
	}
}

// WithStreamProducer sets the producer that lifecycle events are published
// through. Without it the orchestrator emits no stream events.
func WithStreamProducer(p *stream.Producer) Option {
	return func(o *Orchestrator) {
		o.producer = p
	}
}

// New creates an orchestrator with the given limits. Limits outside the
// documented ranges fail with ErrInvalidConfiguration.
func New(limits Limits, logger zerolog.Logger, opts ...Option) (*Orchestrator, error) {
	if limits.MaxParallelTasks < constants.MinParallelAgentTasks || limits.MaxParallelTasks > constants.MaxParallelAgentTasks {
		return nil, errors.Wrapf(errors.ErrInvalidConfiguration,
			"max parallel tasks must be between %d and %d, got %d",
			constants.MinParallelAgentTasks, constants.MaxParallelAgentTasks, limits.MaxParallelTasks)
	}
	if limits.MaxNestingDepth < constants.MinTaskNestingDepth || limits.MaxNestingDepth > constants.MaxTaskNestingDepth {
		return nil, errors.Wrapf(errors.ErrInvalidConfiguration,
			"max nesting depth must be between %d and %d, got %d",
			constants.MinTaskNestingDepth, constants.MaxTaskNestingDepth, limits.MaxNestingDepth)
	}
	if limits.OutputMaxBytes <= 0 {
		return nil, errors.Wrapf(errors.ErrInvalidConfiguration,
			"output max bytes must be positive, got %d", limits.OutputMaxBytes)
	}
	if limits.Retention <= 0 {
		limits.Retention = constants.DefaultRetention
	}

	baseCtx, baseCancel := context.WithCancel(context.Background())
	o := &Orchestrator{
		limits:     limits,
		clk:        clock.RealClock{},
		logger:     logger,
		baseCtx:    baseCtx,
		baseCancel: baseCancel,
		workspaces: make(map[string]*workspace),
	}
	for _, opt := range opts {
		opt(o)
	}
	return o, nil
}

// SpawnRequest describes one spawn call from the tool-execution layer.
type SpawnRequest struct {
	// WorkspaceID is the workspace the task belongs to. Required.
	WorkspaceID string

	// ParentID is the spawning task's id, empty for a root task.
	ParentID string

	// Prompt is a human-readable summary of what the task should do.
	Prompt string

	// Timeout, when positive, arms a timer that terminates the task and
	// its descendants with a cascade. Timeouts are not a distinct
	// mechanism; they reuse the terminate path.
	Timeout time.Duration

	// RequireImmediate rejects the spawn with ErrConcurrencyExceeded when
	// no running slot is free, instead of queueing the task.
	RequireImmediate bool
}

// Handle is what a spawned task's body holds onto while it runs.
type Handle struct {
	// Task is a snapshot of the task at spawn time.
	Task *domain.Task

	ctx      context.Context
	admitted chan struct{}
	done     chan struct{}
}

// Context returns the task's cancellation context. It is derived from the
// parent task's context at spawn time, so terminating any ancestor cancels
// it. Task bodies must observe it at safe points; they are never preempted.
func (h *Handle) Context() context.Context {
	return h.ctx
}

// Admitted is closed once the task holds a running slot. Tasks spawned with
// free capacity are admitted immediately; queued tasks wait here.
func (h *Handle) Admitted() <-chan struct{} {
	return h.admitted
}

// Done is closed once the task reaches a terminal state.
func (h *Handle) Done() <-chan struct{} {
	return h.done
}

// Spawn admits a new task into a workspace's tree.
//
// The spawn is rejected with ErrDepthExceeded when the prospective depth
// would exceed the nesting cap; the depth check runs at spawn time, not at
// execution start. When the workspace's running slots are saturated the
// task is created queued and admitted FIFO as capacity frees, unless the
// request requires immediate admission.
//
// The new task is registered as a descendant of every ancestor up to the
// root, so scope and await checks cost O(depth) rather than a tree walk.
func (o *Orchestrator) Spawn(ctx context.Context, req SpawnRequest) (*Handle, error) {
	select {
	case <-ctx.Done():
		return nil, ctx.Err()
	default:
	}

	if req.WorkspaceID == "" {
		return nil, errors.Wrap(errors.ErrEmptyValue, "workspace id is required")
	}

	ws, err := o.workspaceFor(req.WorkspaceID)
	if err != nil {
		return nil, err
	}

	ws.mu.Lock()
	defer ws.mu.Unlock()
	ws.sweepRetainedLocked(o.clk.Now())

	var parent *node
	depth := 0
	parentCtx := o.baseCtx
	if req.ParentID != "" {
		parent = ws.nodes[req.ParentID]
		if parent == nil {
			return nil, errors.Wrapf(errors.ErrTaskNotFound, "parent task %s", req.ParentID)
		}
		depth = parent.task.Depth + 1
		parentCtx = parent.ctx
	}

	if depth > o.limits.MaxNestingDepth {
		return nil, errors.Wrapf(errors.ErrDepthExceeded,
			"depth %d exceeds limit %d", depth, o.limits.MaxNestingDepth)
	}

	hasCapacity := ws.running < o.limits.MaxParallelTasks
	if !hasCapacity && req.RequireImmediate {
		return nil, errors.Wrapf(errors.ErrConcurrencyExceeded,
			"%d tasks already running in workspace %s", ws.running, req.WorkspaceID)
	}

	now := o.clk.Now().UTC()
	taskCtx, taskCancel := context.WithCancel(parentCtx)
	n := &node{
		task: domain.Task{
			ID:          uuid.NewString(),
			ParentID:    req.ParentID,
			WorkspaceID: req.WorkspaceID,
			Depth:       depth,
			State:       constants.TaskStateQueued,
			Prompt:      req.Prompt,
			CreatedAt:   now,
			UpdatedAt:   now,
		},
		parent:      parent,
		descendants: make(map[string]*node),
		ctx:         taskCtx,
		cancel:      taskCancel,
		admitted:    make(chan struct{}),
		done:        make(chan struct{}),
	}

	ws.nodes[n.task.ID] = n
	for anc := parent; anc != nil; anc = anc.parent {
		anc.descendants[n.task.ID] = n
	}

	o.metrics.spawned()
	o.publish(stream.Event{Kind: stream.KindPending, TaskID: n.task.ID})

	if hasCapacity {
		ws.promoteLocked(o, n, "spawned with free capacity")
	} else {
		ws.queue = append(ws.queue, n)
		o.logger.Debug().
			Str("workspace_id", req.WorkspaceID).
			Str("task_id", n.task.ID).
			Int("queue_len", len(ws.queue)).
			Msg("task queued awaiting capacity")
	}

	if req.Timeout > 0 {
		n.timer = time.AfterFunc(req.Timeout, func() {
			o.terminateExpired(req.WorkspaceID, n.task.ID)
		})
	}

	o.logger.Info().
		Str("workspace_id", req.WorkspaceID).
		Str("task_id", n.task.ID).
		Str("parent_id", req.ParentID).
		Int("depth", depth).
		Str("state", n.task.State.String()).
		Msg("task spawned")

	snapshot := n.snapshotLocked()
	return &Handle{
		Task:     &snapshot,
		ctx:      taskCtx,
		admitted: n.admitted,
		done:     n.done,
	}, nil
}

// workspaceFor returns the coordinator for a workspace, creating it on
// first use. Fails once the orchestrator is shut down.
func (o *Orchestrator) workspaceFor(workspaceID string) (*workspace, error) {
	o.mu.Lock()
	defer o.mu.Unlock()
	if o.closed {
		return nil, errors.ErrOrchestratorClosed
	}
	ws, ok := o.workspaces[workspaceID]
	if !ok {
		ws = newWorkspace(workspaceID)
		o.workspaces[workspaceID] = ws
	}
	return ws, nil
}

// lookupWorkspace returns an existing workspace coordinator without
// creating one.
func (o *Orchestrator) lookupWorkspace(workspaceID string) (*workspace, error) {
	o.mu.Lock()
	defer o.mu.Unlock()
	ws, ok := o.workspaces[workspaceID]
	if !ok {
		return nil, errors.Wrapf(errors.ErrWorkspaceNotFound, "workspace %s", workspaceID)
	}
	return ws, nil
}

// Get returns a snapshot of a task, live or recently finished.
func (o *Orchestrator) Get(workspaceID, taskID string) (*domain.Task, error) {
	ws, err := o.lookupWorkspace(workspaceID)
	if err != nil {
		return nil, err
	}

	ws.mu.Lock()
	defer ws.mu.Unlock()
	ws.sweepRetainedLocked(o.clk.Now())

	if n, ok := ws.nodes[taskID]; ok {
		snapshot := n.snapshotLocked()
		return &snapshot, nil
	}
	if r, ok := ws.retained[taskID]; ok {
		snapshot := r.task
		return &snapshot, nil
	}
	return nil, errors.Wrapf(errors.ErrTaskNotFound, "task %s", taskID)
}

// Metrics returns a snapshot of the orchestrator's counters.
func (o *Orchestrator) Metrics() Metrics {
	return o.metrics.snapshot()
}

// Shutdown terminates every live task in every workspace and stops
// accepting spawns. Workspace cascades run concurrently; the call returns
// once all cascades finish or ctx expires.
func (o *Orchestrator) Shutdown(ctx context.Context) error {
	o.mu.Lock()
	if o.closed {
		o.mu.Unlock()
		return nil
	}
	o.closed = true
	workspaces := make([]*workspace, 0, len(o.workspaces))
	for _, ws := range o.workspaces {
		workspaces = append(workspaces, ws)
	}
	o.mu.Unlock()

	g, _ := errgroup.WithContext(ctx)
	for _, ws := range workspaces {
		g.Go(func() error {
			ws.mu.Lock()
			defer ws.mu.Unlock()
			for _, n := range ws.rootsLocked() {
				ws.cascadeLocked(o, n, "orchestrator shutdown")
			}
			ws.admitQueuedLocked(o)
			return nil
		})
	}
	err := g.Wait()
	o.baseCancel()
	return err
}

// publish emits a lifecycle event when a stream producer is configured.
func (o *Orchestrator) publish(ev stream.Event) {
	if o.producer == nil {
		return
	}
	if err := o.producer.Publish(ev); err != nil {
		o.logger.Error().
			Err(err).
			Str("task_id", ev.TaskID).
			Str("kind", ev.Kind.String()).
			Msg("failed to publish stream event")
	}
}

// terminateExpired runs a timeout-triggered terminate cascade. It is called
// from a timer goroutine, never from a coordinator lock.
func (o *Orchestrator) terminateExpired(workspaceID, taskID string) {
	ws, err := o.lookupWorkspace(workspaceID)
	if err != nil {
		return
	}

	ws.mu.Lock()
	defer ws.mu.Unlock()
	n, ok := ws.nodes[taskID]
	if !ok {
		return // Already terminal
	}

	o.logger.Warn().
		Str("workspace_id", workspaceID).
		Str("task_id", taskID).
		Msg("task timeout expired, terminating subtree")
	ws.cascadeLocked(o, n, "timeout expired")
	ws.admitQueuedLocked(o)
}
