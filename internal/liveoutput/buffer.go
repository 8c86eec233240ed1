// Package liveoutput provides the bounded buffer that keeps a running task's
// partial process output memory-bounded while preserving per-stream text
// integrity.
//
// A Buffer is an append-only sequence of output segments, interleaved across
// stdout and stderr in arrival order. When the total retained bytes exceed
// a byte budget, whole segments are evicted oldest-first regardless of which
// stream they belong to, and the evicted text is removed from the front of
// that stream's aggregate string. Once any eviction has happened the buffer
// is permanently marked truncated.
//
// Append returns a new state instead of mutating the receiver, so a task's
// writer goroutine can publish the latest state while observers read earlier
// snapshots without coordination.
package liveoutput

import (
	"fmt"

	"github.com/mrz1836/taskmux/internal/errors"
)

// Chunk is one piece of raw process output handed to the buffer.
type Chunk struct {
	// Text is the output text. Empty text is a no-op on append.
	Text string `json:"text"`

	// IsError is true for stderr output, false for stdout.
	IsError bool `json:"is_error"`
}

// Segment is one retained chunk of process output.
type Segment struct {
	// IsError mirrors the chunk's stream.
	IsError bool `json:"is_error"`

	// Text is the segment's output text.
	Text string `json:"text"`

	// ByteLen is the UTF-8 encoded length of Text in bytes. Byte lengths,
	// not rune counts, are what the budget is measured in.
	ByteLen int `json:"byte_len"`
}

// Buffer is the bounded, per-task live-output state. The zero value is an
// empty buffer. Buffers are immutable once returned from Append.
type Buffer struct {
	segments   []Segment
	stdout     string
	stderr     string
	totalBytes int
	truncated  bool
}

// Snapshot is the read-only projection of a buffer exposed to observers.
type Snapshot struct {
	// Stdout is the retained stdout text in arrival order.
	Stdout string `json:"stdout"`

	// Stderr is the retained stderr text in arrival order.
	Stderr string `json:"stderr"`

	// Truncated is true once any segment has been evicted.
	Truncated bool `json:"truncated"`
}

// Append adds a chunk of process output to prev and enforces the byte budget,
// returning the new buffer state. prev may be nil, meaning an empty buffer.
//
// Appending an empty chunk returns prev unchanged (or an empty buffer when
// prev is nil). A non-positive maxBytes is caller misuse and fails with
// ErrInvalidConfiguration for every input, including empty chunks.
//
// Eviction removes whole segments from the oldest end until the total
// retained bytes fit the budget. A single chunk larger than the budget is
// therefore evicted immediately after being appended, leaving an empty but
// truncated buffer.
func Append(prev *Buffer, chunk Chunk, maxBytes int) (*Buffer, error) {
	if maxBytes <= 0 {
		return nil, errors.Wrapf(errors.ErrInvalidConfiguration,
			"live output max bytes must be positive, got %d", maxBytes)
	}

	if prev == nil {
		prev = &Buffer{}
	}
	if chunk.Text == "" {
		return prev, nil
	}

	seg := Segment{
		IsError: chunk.IsError,
		Text:    chunk.Text,
		ByteLen: len(chunk.Text),
	}

	next := &Buffer{
		segments:   make([]Segment, len(prev.segments), len(prev.segments)+1),
		stdout:     prev.stdout,
		stderr:     prev.stderr,
		totalBytes: prev.totalBytes,
		truncated:  prev.truncated,
	}
	copy(next.segments, prev.segments)

	next.segments = append(next.segments, seg)
	next.totalBytes += seg.ByteLen
	if seg.IsError {
		next.stderr += seg.Text
	} else {
		next.stdout += seg.Text
	}

	next.evict(maxBytes)
	return next, nil
}

// evict removes oldest segments until totalBytes fits maxBytes or no
// segments remain. The evicted segment's text is removed from the front of
// its own stream's aggregate; the other stream is untouched.
func (b *Buffer) evict(maxBytes int) {
	for b.totalBytes > maxBytes && len(b.segments) > 0 {
		oldest := b.segments[0]
		b.segments = b.segments[1:]
		b.totalBytes -= oldest.ByteLen
		b.truncated = true

		if oldest.IsError {
			b.stderr = b.stderr[oldest.ByteLen:]
		} else {
			b.stdout = b.stdout[oldest.ByteLen:]
		}
	}

	// A negative total means the segment list and the running total have
	// diverged. That is a bug in this package, not a usage fault.
	if b.totalBytes < 0 {
		panic(fmt.Sprintf("liveoutput: negative total bytes %d after eviction", b.totalBytes))
	}
}

// View returns the read-only projection of the buffer. A nil buffer views
// as empty. View never mutates state.
func (b *Buffer) View() Snapshot {
	if b == nil {
		return Snapshot{}
	}
	return Snapshot{
		Stdout:    b.stdout,
		Stderr:    b.stderr,
		Truncated: b.truncated,
	}
}

// TotalBytes returns the sum of retained segment byte lengths.
func (b *Buffer) TotalBytes() int {
	if b == nil {
		return 0
	}
	return b.totalBytes
}

// Segments returns the retained segments in arrival order. The returned
// slice must not be modified.
func (b *Buffer) Segments() []Segment {
	if b == nil {
		return nil
	}
	return b.segments
}
