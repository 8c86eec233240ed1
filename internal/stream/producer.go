package stream

import "sync"

// Producer assigns per-task sequence numbers and pushes events into the
// first lane. One producer serves many tasks; each task's events get a
// monotonically increasing sequence so consumers can assert ordering.
type Producer struct {
	sink Sink

	mu   sync.Mutex
	seqs map[string]uint64
}

// NewProducer creates a producer that emits into sink (normally Lane A).
func NewProducer(sink Sink) *Producer {
	return &Producer{
		sink: sink,
		seqs: make(map[string]uint64),
	}
}

// Publish stamps the event with the task's next sequence number and emits
// it. The lock covers both stamping and emission so two goroutines cannot
// publish the same task's events out of order; events for different tasks
// may interleave freely.
func (p *Producer) Publish(ev Event) error {
	p.mu.Lock()
	defer p.mu.Unlock()

	p.seqs[ev.TaskID]++
	ev.Seq = p.seqs[ev.TaskID]
	return p.sink.Emit(ev)
}

// Forget drops the sequence counter for a task that has left the tree.
func (p *Producer) Forget(taskID string) {
	p.mu.Lock()
	defer p.mu.Unlock()
	delete(p.seqs, taskID)
}
