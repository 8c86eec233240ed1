package orchestrator

import "sync"

// Metrics is a point-in-time snapshot of orchestrator counters.
type Metrics struct {
	// TasksSpawned counts every task admitted to a tree, queued or running.
	TasksSpawned uint64 `json:"tasks_spawned"`

	// TasksAdmitted counts queued tasks promoted to running as capacity freed.
	TasksAdmitted uint64 `json:"tasks_admitted"`

	// TasksCompleted counts tasks that reached the completed state.
	TasksCompleted uint64 `json:"tasks_completed"`

	// TasksTerminated counts tasks cancelled directly or by cascade.
	TasksTerminated uint64 `json:"tasks_terminated"`

	// TasksFailed counts tasks whose bodies reported an error.
	TasksFailed uint64 `json:"tasks_failed"`

	// PeakRunning is the highest concurrent running count observed in any
	// single workspace.
	PeakRunning int `json:"peak_running"`
}

// metricsCollector accumulates orchestrator counters. All methods are safe
// for concurrent use.
type metricsCollector struct {
	mu sync.Mutex
	m  Metrics
}

func (c *metricsCollector) spawned() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.m.TasksSpawned++
}

func (c *metricsCollector) admitted() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.m.TasksAdmitted++
}

func (c *metricsCollector) finished(state string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	switch state {
	case "completed":
		c.m.TasksCompleted++
	case "terminated":
		c.m.TasksTerminated++
	case "failed":
		c.m.TasksFailed++
	}
}

func (c *metricsCollector) observeRunning(running int) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if running > c.m.PeakRunning {
		c.m.PeakRunning = running
	}
}

func (c *metricsCollector) snapshot() Metrics {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.m
}
