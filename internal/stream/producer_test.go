package stream

import (
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestProducerStampsPerTaskSequences(t *testing.T) {
	t.Parallel()

	sink := &recordingSink{}
	producer := NewProducer(sink)

	require.NoError(t, producer.Publish(Event{Kind: KindPending, TaskID: "a"}))
	require.NoError(t, producer.Publish(Event{Kind: KindPending, TaskID: "b"}))
	require.NoError(t, producer.Publish(Event{Kind: KindStart, TaskID: "a"}))
	require.NoError(t, producer.Publish(Event{Kind: KindStart, TaskID: "b"}))

	events := sink.recorded()
	require.Len(t, events, 4)
	assert.Equal(t, uint64(1), events[0].Seq) // a/pending
	assert.Equal(t, uint64(1), events[1].Seq) // b/pending
	assert.Equal(t, uint64(2), events[2].Seq) // a/start
	assert.Equal(t, uint64(2), events[3].Seq) // b/start
}

func TestProducerForgetResetsSequence(t *testing.T) {
	t.Parallel()

	sink := &recordingSink{}
	producer := NewProducer(sink)

	require.NoError(t, producer.Publish(Event{Kind: KindPending, TaskID: "a"}))
	producer.Forget("a")
	require.NoError(t, producer.Publish(Event{Kind: KindPending, TaskID: "a"}))

	events := sink.recorded()
	require.Len(t, events, 2)
	assert.Equal(t, uint64(1), events[1].Seq)
}

func TestProducerConcurrentPublishKeepsPerTaskMonotonicity(t *testing.T) {
	t.Parallel()

	sink := &recordingSink{}
	producer := NewProducer(sink)

	const perTask = 50
	var wg sync.WaitGroup
	for _, taskID := range []string{"a", "b", "c"} {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for i := 0; i < perTask; i++ {
				_ = producer.Publish(Event{Kind: KindDelta, TaskID: taskID})
			}
		}()
	}
	wg.Wait()

	lastSeq := map[string]uint64{}
	for _, ev := range sink.recorded() {
		assert.Greater(t, ev.Seq, lastSeq[ev.TaskID])
		lastSeq[ev.TaskID] = ev.Seq
	}
	for _, taskID := range []string{"a", "b", "c"} {
		assert.Equal(t, uint64(perTask), lastSeq[taskID])
	}
}
