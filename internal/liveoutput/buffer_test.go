package liveoutput

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mrz1836/taskmux/internal/errors"
)

// appendAll feeds chunks through Append sequentially, failing the test on
// any error.
func appendAll(t *testing.T, maxBytes int, chunks ...Chunk) *Buffer {
	t.Helper()

	var (
		buf *Buffer
		err error
	)
	for _, chunk := range chunks {
		buf, err = Append(buf, chunk, maxBytes)
		require.NoError(t, err)
	}
	return buf
}

func TestAppendAccumulatesPerStream(t *testing.T) {
	t.Parallel()

	buf := appendAll(t, 1024,
		Chunk{Text: "hello "},
		Chunk{Text: "oops", IsError: true},
		Chunk{Text: "world"},
	)

	view := buf.View()
	assert.Equal(t, "hello world", view.Stdout)
	assert.Equal(t, "oops", view.Stderr)
	assert.False(t, view.Truncated)
	assert.Equal(t, 15, buf.TotalBytes())
	assert.Len(t, buf.Segments(), 3)
}

func TestAppendEvictsOldestFirstAcrossStreams(t *testing.T) {
	t.Parallel()

	// A=1 byte stdout, B=1 byte stderr, C=1 byte stdout with a 2-byte cap:
	// appending C must evict A (the oldest) even though B is on the other
	// stream.
	buf := appendAll(t, 2,
		Chunk{Text: "A"},
		Chunk{Text: "B", IsError: true},
		Chunk{Text: "C"},
	)

	view := buf.View()
	assert.Equal(t, "C", view.Stdout)
	assert.Equal(t, "B", view.Stderr)
	assert.True(t, view.Truncated)
	assert.Equal(t, 2, buf.TotalBytes())
}

func TestAppendChunkLargerThanBudget(t *testing.T) {
	t.Parallel()

	buf := appendAll(t, 4, Chunk{Text: "this chunk exceeds the cap"})

	view := buf.View()
	assert.Empty(t, view.Stdout)
	assert.Empty(t, view.Stderr)
	assert.True(t, view.Truncated)
	assert.Equal(t, 0, buf.TotalBytes())
	assert.Empty(t, buf.Segments())
}

func TestAppendTruncatedLatchesPermanently(t *testing.T) {
	t.Parallel()

	buf := appendAll(t, 3,
		Chunk{Text: "abc"},
		Chunk{Text: "d"}, // forces eviction of "abc"
	)
	require.True(t, buf.View().Truncated)

	// A later append that fits without evicting must not clear the flag.
	buf, err := Append(buf, Chunk{Text: "e"}, 3)
	require.NoError(t, err)
	assert.True(t, buf.View().Truncated)
	assert.Equal(t, "de", buf.View().Stdout)
}

func TestAppendTotalBytesMatchesRetainedSegments(t *testing.T) {
	t.Parallel()

	buf := appendAll(t, 10,
		Chunk{Text: "aaaa"},
		Chunk{Text: "bbbb", IsError: true},
		Chunk{Text: "cccc"},
		Chunk{Text: "dd"},
	)

	sum := 0
	for _, seg := range buf.Segments() {
		sum += seg.ByteLen
	}
	assert.Equal(t, sum, buf.TotalBytes())
	assert.LessOrEqual(t, buf.TotalBytes(), 10)
}

func TestAppendEmptyChunkIsNoOp(t *testing.T) {
	t.Parallel()

	buf := appendAll(t, 8, Chunk{Text: "data"})
	next, err := Append(buf, Chunk{Text: ""}, 8)
	require.NoError(t, err)
	assert.Same(t, buf, next)
}

func TestAppendNilPrevIsEmptyBuffer(t *testing.T) {
	t.Parallel()

	buf, err := Append(nil, Chunk{Text: "first"}, 64)
	require.NoError(t, err)
	assert.Equal(t, "first", buf.View().Stdout)
}

func TestAppendRejectsNonPositiveMaxBytes(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name     string
		chunk    Chunk
		maxBytes int
	}{
		{"zero cap with data", Chunk{Text: "x"}, 0},
		{"zero cap with empty chunk", Chunk{}, 0},
		{"negative cap", Chunk{Text: "x"}, -1},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			_, err := Append(nil, tt.chunk, tt.maxBytes)
			require.Error(t, err)
			assert.ErrorIs(t, err, errors.ErrInvalidConfiguration)
		})
	}
}

func TestAppendDoesNotMutatePrev(t *testing.T) {
	t.Parallel()

	first := appendAll(t, 1024, Chunk{Text: "one"})
	beforeView := first.View()
	beforeTotal := first.TotalBytes()

	_, err := Append(first, Chunk{Text: "two"}, 1024)
	require.NoError(t, err)

	assert.Equal(t, beforeView, first.View())
	assert.Equal(t, beforeTotal, first.TotalBytes())
	assert.Len(t, first.Segments(), 1)
}

func TestViewNilBuffer(t *testing.T) {
	t.Parallel()

	var buf *Buffer
	assert.Equal(t, Snapshot{}, buf.View())
	assert.Equal(t, 0, buf.TotalBytes())
	assert.Empty(t, buf.Segments())
}

func TestAppendMultibyteTextCountsBytes(t *testing.T) {
	t.Parallel()

	// "héllo" is 6 bytes but 5 runes; the budget is measured in bytes.
	buf := appendAll(t, 6, Chunk{Text: "héllo"})
	assert.Equal(t, 6, buf.TotalBytes())
	assert.False(t, buf.View().Truncated)

	buf, err := Append(buf, Chunk{Text: "!"}, 6)
	require.NoError(t, err)
	assert.True(t, buf.View().Truncated)
	assert.Equal(t, "!", buf.View().Stdout)
}
