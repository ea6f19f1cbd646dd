package vision

import (
	"fmt"
	"sort"
	"sync"

	"gonum.org/v1/gonum/stat"
)

// Aggregate accumulates detection statistics across a run. It is a
// diagnostic aid: area drift over a session usually means lighting changed
// and the HSV table needs retuning.
type Aggregate struct {
	mu      sync.Mutex
	areas   []float64
	byColor map[string]int
}

// NewAggregate returns an empty aggregate.
func NewAggregate() *Aggregate {
	return &Aggregate{byColor: make(map[string]int)}
}

// Add records detections into the aggregate.
func (a *Aggregate) Add(objects ...DetectedObject) {
	a.mu.Lock()
	defer a.mu.Unlock()
	for _, obj := range objects {
		a.areas = append(a.areas, obj.Area)
		a.byColor[obj.Color]++
	}
}

// Count returns the total number of detections recorded.
func (a *Aggregate) Count() int {
	a.mu.Lock()
	defer a.mu.Unlock()
	return len(a.areas)
}

// AreaMeanStdDev returns the mean and standard deviation of recorded
// detection areas. Both are zero when nothing has been recorded.
func (a *Aggregate) AreaMeanStdDev() (mean, stddev float64) {
	a.mu.Lock()
	defer a.mu.Unlock()
	if len(a.areas) == 0 {
		return 0, 0
	}
	mean, stddev = stat.MeanStdDev(a.areas, nil)
	if len(a.areas) < 2 {
		stddev = 0
	}
	return mean, stddev
}

// Summary renders a one-line human-readable report of the aggregate.
func (a *Aggregate) Summary() string {
	mean, stddev := a.AreaMeanStdDev()

	a.mu.Lock()
	defer a.mu.Unlock()

	colors := make([]string, 0, len(a.byColor))
	for c := range a.byColor {
		colors = append(colors, c)
	}
	sort.Strings(colors)

	s := fmt.Sprintf("%d detections, area mean=%.0f stddev=%.0f", len(a.areas), mean, stddev)
	for _, c := range colors {
		s += fmt.Sprintf(" %s=%d", c, a.byColor[c])
	}
	return s
}
