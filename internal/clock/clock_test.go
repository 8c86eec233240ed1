package clock

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestRealClockTracksSystemTime(t *testing.T) {
	t.Parallel()

	before := time.Now()
	got := RealClock{}.Now()
	after := time.Now()

	assert.False(t, got.Before(before))
	assert.False(t, got.After(after))
}

func TestMockClock(t *testing.T) {
	t.Parallel()

	start := time.Date(2026, 8, 26, 10, 0, 0, 0, time.UTC)
	mock := NewMock(start)
	assert.Equal(t, start, mock.Now())

	mock.Advance(90 * time.Second)
	assert.Equal(t, start.Add(90*time.Second), mock.Now())

	later := start.Add(time.Hour)
	mock.Set(later)
	assert.Equal(t, later, mock.Now())
}

func TestMockClockZeroValue(t *testing.T) {
	t.Parallel()

	var mock Mock
	assert.True(t, mock.Now().IsZero())

	mock.Advance(time.Minute)
	assert.Equal(t, time.Time{}.Add(time.Minute), mock.Now())
}
