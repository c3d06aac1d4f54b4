// Package stats summarises the latency of repeated session executions.
package stats

import (
	"time"

	"github.com/HdrHistogram/hdrhistogram-go"
)

// Histogram range: 1 microsecond to 1 hour, 3 significant figures.
const (
	histogramMin     = 1
	histogramMax     = 3600000000
	histogramSigFigs = 3
)

// Recorder collects run latencies and outcomes. It is not safe for
// concurrent use; runs are recorded sequentially.
type Recorder struct {
	hist      *hdrhistogram.Histogram
	total     int64
	failed    int64
	redirects int64
	bytes     int64
	started   time.Time
}

// Summary is a point-in-time view of a Recorder.
type Summary struct {
	Runs      int64         `json:"runs" yaml:"runs"`
	Failed    int64         `json:"failed" yaml:"failed"`
	Redirects int64         `json:"redirects" yaml:"redirects"`
	Bytes     int64         `json:"bytes" yaml:"bytes"`
	Elapsed   time.Duration `json:"elapsed" yaml:"elapsed"`
	Min       time.Duration `json:"min" yaml:"min"`
	Mean      time.Duration `json:"mean" yaml:"mean"`
	P50       time.Duration `json:"p50" yaml:"p50"`
	P90       time.Duration `json:"p90" yaml:"p90"`
	P99       time.Duration `json:"p99" yaml:"p99"`
	Max       time.Duration `json:"max" yaml:"max"`
}

// NewRecorder creates an empty recorder.
func NewRecorder() *Recorder {
	return &Recorder{
		hist:    hdrhistogram.New(histogramMin, histogramMax, histogramSigFigs),
		started: time.Now(),
	}
}

// Record adds one run: its duration, whether it succeeded, how many
// redirects it followed and how many body bytes it returned.
func (r *Recorder) Record(d time.Duration, ok bool, redirects int, bytes int) {
	micros := d.Microseconds()
	if micros < histogramMin {
		micros = histogramMin
	}
	if micros > histogramMax {
		micros = histogramMax
	}
	_ = r.hist.RecordValue(micros)

	r.total++
	if !ok {
		r.failed++
	}
	r.redirects += int64(redirects)
	r.bytes += int64(bytes)
}

// Summary returns the current percentiles and counters.
func (r *Recorder) Summary() Summary {
	s := Summary{
		Runs:      r.total,
		Failed:    r.failed,
		Redirects: r.redirects,
		Bytes:     r.bytes,
		Elapsed:   time.Since(r.started),
	}
	if r.total == 0 {
		return s
	}

	s.Min = micros(r.hist.Min())
	s.Mean = time.Duration(r.hist.Mean() * float64(time.Microsecond))
	s.P50 = micros(r.hist.ValueAtQuantile(50))
	s.P90 = micros(r.hist.ValueAtQuantile(90))
	s.P99 = micros(r.hist.ValueAtQuantile(99))
	s.Max = micros(r.hist.Max())
	return s
}

func micros(v int64) time.Duration {
	return time.Duration(v) * time.Microsecond
}
