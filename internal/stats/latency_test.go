package stats

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestRecorder_Summary(t *testing.T) {
	r := NewRecorder()
	for i := 1; i <= 100; i++ {
		r.Record(time.Duration(i)*time.Millisecond, i%10 != 0, 1, 10)
	}

	s := r.Summary()
	assert.Equal(t, int64(100), s.Runs)
	assert.Equal(t, int64(10), s.Failed)
	assert.Equal(t, int64(100), s.Redirects)
	assert.Equal(t, int64(1000), s.Bytes)

	assert.InDelta(t, float64(time.Millisecond), float64(s.Min), float64(time.Millisecond)/100)
	assert.InDelta(t, float64(100*time.Millisecond), float64(s.Max), float64(time.Millisecond))
	assert.InDelta(t, float64(50*time.Millisecond), float64(s.P50), float64(time.Millisecond))
	assert.InDelta(t, float64(90*time.Millisecond), float64(s.P90), float64(time.Millisecond))
	assert.InDelta(t, float64(50500*time.Microsecond), float64(s.Mean), float64(time.Millisecond))
	assert.True(t, s.P50 <= s.P90 && s.P90 <= s.P99 && s.P99 <= s.Max)
}

func TestRecorder_Empty(t *testing.T) {
	s := NewRecorder().Summary()
	assert.Equal(t, int64(0), s.Runs)
	assert.Equal(t, time.Duration(0), s.P99)
}

func TestRecorder_ClampsOutOfRange(t *testing.T) {
	r := NewRecorder()
	r.Record(0, true, 0, 0)
	r.Record(2*time.Hour, true, 0, 0)

	s := r.Summary()
	assert.Equal(t, time.Microsecond, s.Min)
	assert.InDelta(t, float64(time.Hour), float64(s.Max), float64(time.Hour)/100)
}
