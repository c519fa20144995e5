// Package metrics keeps process-local counters and histograms and renders
// them in the Prometheus text exposition format.
package metrics

import (
	"bytes"
	"fmt"
	"net/http"
	"sort"
	"strconv"
	"sync"
	"sync/atomic"
	"time"

	"github.com/gin-gonic/gin"
)

var (
	resumeScoredTotal    atomic.Uint64
	resumeOptimizedTotal atomic.Uint64
	panicsTotal          atomic.Uint64

	engineErrors    = newCounterVec("op")
	jobDescriptions = newCounterVec("source")
	rateLimited     = newCounterVec("group")

	optimizeDuration = newHistogram([]float64{1, 5, 10, 25, 50, 100, 250, 500, 1000})
	scores           = newHistogram([]float64{10, 20, 30, 40, 50, 60, 70, 80, 90, 100})
)

// IncResumeScored increments the scored counter.
func IncResumeScored() {
	resumeScoredTotal.Add(1)
}

// IncResumeOptimized increments the optimized counter.
func IncResumeOptimized() {
	resumeOptimizedTotal.Add(1)
}

// IncEngineErrors counts an engine call rejected as invalid input.
func IncEngineErrors(op string) {
	engineErrors.Inc(op)
}

// IncJobDescriptions counts a stored job description by source.
func IncJobDescriptions(source string) {
	jobDescriptions.Inc(source)
}

// IncRateLimited counts a request rejected by the rate limiter.
func IncRateLimited(group string) {
	rateLimited.Inc(group)
}

// IncPanics counts a recovered handler panic.
func IncPanics() {
	panicsTotal.Add(1)
}

// ObserveScore records a computed completeness score.
func ObserveScore(score int) {
	scores.Observe(float64(score))
}

// ObserveOptimizeDurationMs records an optimize duration in milliseconds.
func ObserveOptimizeDurationMs(value float64) {
	if value < 0 {
		value = 0
	}
	optimizeDuration.Observe(value)
}

// SinceMillis returns the milliseconds elapsed since start.
func SinceMillis(start time.Time) float64 {
	return float64(time.Since(start)) / float64(time.Millisecond)
}

// Handler exposes metrics in Prometheus text format.
func Handler() gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Header("Content-Type", "text/plain; version=0.0.4")
		c.String(http.StatusOK, Render())
	}
}

// Render renders metrics in Prometheus text format.
func Render() string {
	var buf bytes.Buffer
	writeCounter(&buf, "resume_scored_total", "Total resumes scored", resumeScoredTotal.Load())
	writeCounter(&buf, "resume_optimized_total", "Total resumes optimized against a job description", resumeOptimizedTotal.Load())
	writeCounterVec(&buf, "resume_engine_errors_total", "Engine calls rejected as invalid input", engineErrors)
	writeCounterVec(&buf, "job_descriptions_created_total", "Job descriptions stored", jobDescriptions)
	writeCounterVec(&buf, "http_rate_limited_total", "Requests rejected by the rate limiter", rateLimited)
	writeCounter(&buf, "http_panics_total", "Handler panics recovered", panicsTotal.Load())
	writeHistogram(&buf, "resume_score", "Completeness scores computed", scores.Snapshot())
	writeHistogram(&buf, "optimize_duration_ms", "Optimize duration in milliseconds", optimizeDuration.Snapshot())
	return buf.String()
}

// counterVec is a counter partitioned by the value of a single label.
type counterVec struct {
	label  string
	mu     sync.Mutex
	values map[string]uint64
}

func newCounterVec(label string) *counterVec {
	return &counterVec{label: label, values: map[string]uint64{}}
}

func (v *counterVec) Inc(value string) {
	if value == "" {
		value = "unknown"
	}
	v.mu.Lock()
	v.values[value]++
	v.mu.Unlock()
}

func (v *counterVec) Get(value string) uint64 {
	v.mu.Lock()
	defer v.mu.Unlock()
	return v.values[value]
}

// snapshot returns label values in sorted order with their counts.
func (v *counterVec) snapshot() ([]string, []uint64) {
	v.mu.Lock()
	defer v.mu.Unlock()
	keys := make([]string, 0, len(v.values))
	for k := range v.values {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	counts := make([]uint64, len(keys))
	for i, k := range keys {
		counts[i] = v.values[k]
	}
	return keys, counts
}

type histogram struct {
	mu      sync.Mutex
	buckets []float64
	counts  []uint64
	sum     float64
	count   uint64
}

type histogramSnapshot struct {
	buckets []float64
	counts  []uint64
	sum     float64
	count   uint64
}

func newHistogram(buckets []float64) *histogram {
	return &histogram{
		buckets: buckets,
		counts:  make([]uint64, len(buckets)),
	}
}

func (h *histogram) Observe(value float64) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.count++
	h.sum += value
	for i, bound := range h.buckets {
		if value <= bound {
			h.counts[i]++
			break
		}
	}
}

func (h *histogram) Snapshot() histogramSnapshot {
	h.mu.Lock()
	defer h.mu.Unlock()
	return histogramSnapshot{
		buckets: append([]float64(nil), h.buckets...),
		counts:  append([]uint64(nil), h.counts...),
		sum:     h.sum,
		count:   h.count,
	}
}

func writeHeader(buf *bytes.Buffer, name, help, kind string) {
	fmt.Fprintf(buf, "# HELP %s %s\n", name, help)
	fmt.Fprintf(buf, "# TYPE %s %s\n", name, kind)
}

func writeCounter(buf *bytes.Buffer, name, help string, value uint64) {
	writeHeader(buf, name, help, "counter")
	fmt.Fprintf(buf, "%s %d\n", name, value)
}

func writeCounterVec(buf *bytes.Buffer, name, help string, v *counterVec) {
	writeHeader(buf, name, help, "counter")
	keys, counts := v.snapshot()
	for i, k := range keys {
		fmt.Fprintf(buf, "%s{%s=%q} %d\n", name, v.label, k, counts[i])
	}
}

func writeHistogram(buf *bytes.Buffer, name, help string, snap histogramSnapshot) {
	writeHeader(buf, name, help, "histogram")
	var cumulative uint64
	for i, bound := range snap.buckets {
		cumulative += snap.counts[i]
		fmt.Fprintf(buf, "%s_bucket{le=\"%s\"} %d\n", name, formatFloat(bound), cumulative)
	}
	fmt.Fprintf(buf, "%s_bucket{le=\"+Inf\"} %d\n", name, snap.count)
	fmt.Fprintf(buf, "%s_sum %s\n", name, formatFloat(snap.sum))
	fmt.Fprintf(buf, "%s_count %d\n", name, snap.count)
}

func formatFloat(value float64) string {
	if value == float64(int64(value)) {
		return strconv.FormatInt(int64(value), 10)
	}
	return strconv.FormatFloat(value, 'f', -1, 64)
}
