// Package perf records named timing measurements and notifies observers when
// a measurement completes.
//
// It is used to time render passes and filter/sort work in the list browser.
// A Monitor is safe for concurrent use.
package perf

import (
	"slices"
	"sort"
	"sync"
	"time"

	"github.com/oklog/ulid/v2"
	"github.com/rs/zerolog"
)

// Metric is a single timing measurement.
type Metric struct {
	// ID uniquely identifies the measurement (a ULID).
	ID string `json:"id" yaml:"id"`

	// Name groups measurements of the same operation.
	Name string `json:"name" yaml:"name"`

	// StartTime is when Start was called.
	StartTime time.Time `json:"start_time" yaml:"start_time"`

	// EndTime is when End was called; zero while the measurement is open.
	EndTime time.Time `json:"end_time,omitzero" yaml:"end_time,omitempty"`

	// Duration is EndTime - StartTime; zero while the measurement is open.
	Duration time.Duration `json:"duration" yaml:"duration"`
}

// Done reports whether End has been called for this metric.
func (m Metric) Done() bool {
	return !m.EndTime.IsZero()
}

// DefaultRetention is the number of finished metrics kept per name.
const DefaultRetention = 256

// Observer is called with each measurement as it finishes.
type Observer func(metric Metric)

type observerEntry struct {
	key uint64
	fn  Observer
}

// Monitor collects Metrics. Open measurements are keyed by ID; finished ones
// are kept per name up to the retention limit, oldest dropped first, while
// running totals per name cover every measurement.
type Monitor struct {
	mu        sync.Mutex
	open      map[string]*Metric
	finished  map[string][]Metric
	totals    map[string]*Summary
	retention int
	observers []observerEntry
	nextObs   uint64
	now       func() time.Time
}

// NewMonitor creates an empty Monitor.
func NewMonitor() *Monitor {
	return &Monitor{
		open:      make(map[string]*Metric),
		finished:  make(map[string][]Metric),
		totals:    make(map[string]*Summary),
		retention: DefaultRetention,
		now:       time.Now,
	}
}

// WithClock replaces the time source. Intended for tests.
func (m *Monitor) WithClock(now func() time.Time) *Monitor {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.now = now
	return m
}

// WithRetention sets how many finished metrics are kept per name.
// Values below one keep a single metric.
func (m *Monitor) WithRetention(n int) *Monitor {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.retention = max(n, 1)
	for name, kept := range m.finished {
		if len(kept) > m.retention {
			m.finished[name] = kept[len(kept)-m.retention:]
		}
	}
	return m
}

// Start opens a measurement named name and returns its ID.
func (m *Monitor) Start(name string) string {
	m.mu.Lock()
	defer m.mu.Unlock()

	id := ulid.Make().String()
	m.open[id] = &Metric{
		ID:        id,
		Name:      name,
		StartTime: m.now(),
	}
	return id
}

// End closes the measurement with the given ID and returns its duration.
// The boolean is false when the ID is unknown or already closed.
// Observers are notified synchronously after the metric is recorded.
func (m *Monitor) End(id string) (time.Duration, bool) {
	m.mu.Lock()
	open, ok := m.open[id]
	if !ok {
		m.mu.Unlock()
		return 0, false
	}
	delete(m.open, id)

	metric := *open
	metric.EndTime = m.now()
	metric.Duration = metric.EndTime.Sub(metric.StartTime)
	m.recordLocked(metric)

	observers := make([]Observer, len(m.observers))
	for i, e := range m.observers {
		observers[i] = e.fn
	}
	m.mu.Unlock()

	for _, obs := range observers {
		obs(metric)
	}
	return metric.Duration, true
}

func (m *Monitor) recordLocked(metric Metric) {
	kept := m.finished[metric.Name]
	if len(kept) >= m.retention {
		kept = kept[len(kept)-m.retention+1:]
	}
	m.finished[metric.Name] = append(kept, metric)

	total, ok := m.totals[metric.Name]
	if !ok {
		total = &Summary{Name: metric.Name}
		m.totals[metric.Name] = total
	}
	total.add(metric.Duration)
}

// Measure times fn under name. The measurement is closed even if fn panics.
func (m *Monitor) Measure(name string, fn func() error) error {
	id := m.Start(name)
	defer m.End(id)
	return fn()
}

// Metrics returns the open and retained metrics with the given name ordered
// by start time. An empty name returns every metric.
func (m *Monitor) Metrics(name string) []Metric {
	m.mu.Lock()
	defer m.mu.Unlock()

	var out []Metric
	for _, metric := range m.open {
		if name == "" || metric.Name == name {
			out = append(out, *metric)
		}
	}
	for n, kept := range m.finished {
		if name == "" || n == name {
			out = append(out, kept...)
		}
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].StartTime.Equal(out[j].StartTime) {
			return out[i].ID < out[j].ID
		}
		return out[i].StartTime.Before(out[j].StartTime)
	})
	return out
}

// Totals returns running aggregates over every finished measurement,
// including those no longer retained, sorted by name.
func (m *Monitor) Totals() []Summary {
	m.mu.Lock()
	defer m.mu.Unlock()

	out := make([]Summary, 0, len(m.totals))
	for _, s := range m.totals {
		out = append(out, *s)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Name < out[j].Name })
	return out
}

// Clear removes the metrics and totals with the given name, or everything
// when name is empty.
func (m *Monitor) Clear(name string) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if name == "" {
		m.open = make(map[string]*Metric)
		m.finished = make(map[string][]Metric)
		m.totals = make(map[string]*Summary)
		return
	}
	for id, metric := range m.open {
		if metric.Name == name {
			delete(m.open, id)
		}
	}
	delete(m.finished, name)
	delete(m.totals, name)
}

// AddObserver registers fn and returns a function that unregisters it.
// Observers run in registration order.
func (m *Monitor) AddObserver(fn Observer) func() {
	m.mu.Lock()
	defer m.mu.Unlock()

	key := m.nextObs
	m.nextObs++
	m.observers = append(m.observers, observerEntry{key: key, fn: fn})

	return func() {
		m.mu.Lock()
		defer m.mu.Unlock()
		m.observers = slices.DeleteFunc(m.observers, func(e observerEntry) bool { return e.key == key })
	}
}

// LogObserver returns an Observer that logs each finished metric at debug level.
func LogObserver(logger zerolog.Logger) Observer {
	return func(metric Metric) {
		logger.Debug().
			Str("component", "perf").
			Str("metric", metric.Name).
			Str("metric_id", metric.ID).
			Dur("duration", metric.Duration).
			Msg("measurement finished")
	}
}
