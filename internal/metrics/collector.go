package metrics

import (
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/GoSim-25-26J-441/bandit-sim/pkg/models"
)

// Run-level metric names recorded once per completed simulation
const (
	MetricTotalReward    = "total_reward"
	MetricConversionRate = "conversion_rate"
	MetricFinalRegret    = "final_regret"
	MetricRunDurationMs  = "run_duration_ms"
)

// Point is one recorded value
type Point struct {
	Timestamp time.Time         `json:"timestamp"`
	Name      string            `json:"name"`
	Value     float64           `json:"value"`
	Labels    map[string]string `json:"labels,omitempty"`
}

// Aggregation holds summary statistics over a series
type Aggregation struct {
	Count int64   `json:"count"`
	Sum   float64 `json:"sum"`
	Min   float64 `json:"min"`
	Max   float64 `json:"max"`
	Mean  float64 `json:"mean"`
	P50   float64 `json:"p50"`
	P95   float64 `json:"p95"`
	P99   float64 `json:"p99"`
}

// SeriesStats is the aggregation of one (name, labels) series
type SeriesStats struct {
	Name        string            `json:"name"`
	Labels      map[string]string `json:"labels,omitempty"`
	Aggregation *Aggregation      `json:"aggregation"`
}

// Collector keeps labelled series of run outcomes across the life of the
// process. It is safe for concurrent use.
type Collector struct {
	mu sync.RWMutex

	startTime time.Time

	// metric name -> label key -> points
	timeSeries map[string]map[string][]*Point
}

// NewCollector creates a new collector
func NewCollector() *Collector {
	return &Collector{
		startTime:  time.Now(),
		timeSeries: make(map[string]map[string][]*Point),
	}
}

// Record records a metric value at a specific timestamp
func (c *Collector) Record(name string, value float64, timestamp time.Time, labels map[string]string) {
	c.mu.Lock()
	defer c.mu.Unlock()

	key := labelKey(labels)
	if c.timeSeries[name] == nil {
		c.timeSeries[name] = make(map[string][]*Point)
	}
	c.timeSeries[name][key] = append(c.timeSeries[name][key], &Point{
		Timestamp: timestamp,
		Name:      name,
		Value:     value,
		Labels:    copyLabels(labels),
	})
}

// RecordRun records the outcome metrics of a completed run, labelled by policy.
func (c *Collector) RecordRun(run *models.RunResult, elapsed time.Duration) {
	if run == nil {
		return
	}
	now := time.Now()
	labels := PolicyLabels(run.Policy)

	c.Record(MetricTotalReward, float64(run.TotalReward()), now, labels)
	c.Record(MetricConversionRate, rate(run.TotalReward(), run.Len()), now, labels)
	c.Record(MetricRunDurationMs, float64(elapsed.Microseconds())/1000.0, now, labels)
	if run.Policy == models.PolicyEpsilonGreedy {
		c.Record(MetricFinalRegret, Regret(run, run.Len()), now, labels)
	}
}

// PolicyLabels creates a labels map for a policy
func PolicyLabels(policy models.Policy) map[string]string {
	return map[string]string{"policy": string(policy)}
}

// GetTimeSeries returns a copy of all points for a metric and label set
func (c *Collector) GetTimeSeries(name string, labels map[string]string) []*Point {
	c.mu.RLock()
	defer c.mu.RUnlock()

	points := c.timeSeries[name][labelKey(labels)]
	if points == nil {
		return nil
	}
	result := make([]*Point, len(points))
	for i, p := range points {
		result[i] = &Point{
			Timestamp: p.Timestamp,
			Name:      p.Name,
			Value:     p.Value,
			Labels:    copyLabels(p.Labels),
		}
	}
	return result
}

// GetAggregation calculates aggregated statistics for a metric, or nil when empty
func (c *Collector) GetAggregation(name string, labels map[string]string) *Aggregation {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return calculateAggregation(c.timeSeries[name][labelKey(labels)])
}

// Stats aggregates every series, sorted by name then label key
func (c *Collector) Stats() []SeriesStats {
	c.mu.RLock()
	defer c.mu.RUnlock()

	type entry struct {
		name, key string
		points    []*Point
	}
	entries := make([]entry, 0)
	for name, byLabel := range c.timeSeries {
		for key, points := range byLabel {
			if len(points) > 0 {
				entries = append(entries, entry{name, key, points})
			}
		}
	}
	sort.Slice(entries, func(i, j int) bool {
		if entries[i].name != entries[j].name {
			return entries[i].name < entries[j].name
		}
		return entries[i].key < entries[j].key
	})

	out := make([]SeriesStats, 0, len(entries))
	for _, e := range entries {
		out = append(out, SeriesStats{
			Name:        e.name,
			Labels:      copyLabels(e.points[0].Labels),
			Aggregation: calculateAggregation(e.points),
		})
	}
	return out
}

// Uptime returns the time since the collector was created or last cleared
func (c *Collector) Uptime() time.Duration {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return time.Since(c.startTime)
}

// Clear clears all collected metrics
func (c *Collector) Clear() {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.timeSeries = make(map[string]map[string][]*Point)
	c.startTime = time.Now()
}

// labelKey creates a key from labels for map lookup
func labelKey(labels map[string]string) string {
	if len(labels) == 0 {
		return ""
	}

	keys := make([]string, 0, len(labels))
	for k := range labels {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	var b strings.Builder
	for _, k := range keys {
		b.WriteString(k)
		b.WriteByte('=')
		b.WriteString(labels[k])
		b.WriteByte(',')
	}
	return b.String()
}

func copyLabels(labels map[string]string) map[string]string {
	if labels == nil {
		return nil
	}
	out := make(map[string]string, len(labels))
	for k, v := range labels {
		out[k] = v
	}
	return out
}

func calculateAggregation(points []*Point) *Aggregation {
	if len(points) == 0 {
		return nil
	}

	values := make([]float64, len(points))
	sum := 0.0
	for i, p := range points {
		values[i] = p.Value
		sum += p.Value
	}
	sort.Float64s(values)

	count := int64(len(values))
	return &Aggregation{
		Count: count,
		Sum:   sum,
		Min:   values[0],
		Max:   values[len(values)-1],
		Mean:  sum / float64(count),
		P50:   calculatePercentile(values, 0.50),
		P95:   calculatePercentile(values, 0.95),
		P99:   calculatePercentile(values, 0.99),
	}
}

// calculatePercentile interpolates linearly between the closest ranks of a sorted slice
func calculatePercentile(sortedValues []float64, p float64) float64 {
	if len(sortedValues) == 0 {
		return 0.0
	}
	if len(sortedValues) == 1 {
		return sortedValues[0]
	}

	index := p * float64(len(sortedValues)-1)
	lower := int(index)
	upper := lower + 1
	if upper >= len(sortedValues) {
		return sortedValues[len(sortedValues)-1]
	}

	weight := index - float64(lower)
	return sortedValues[lower]*(1-weight) + sortedValues[upper]*weight
}
