package perf

import "time"

// Summary aggregates the finished metrics sharing a name.
type Summary struct {
	Name  string        `json:"name"  yaml:"name"`
	Count int           `json:"count" yaml:"count"`
	Total time.Duration `json:"total" yaml:"total"`
	Max   time.Duration `json:"max"   yaml:"max"`
}

// Mean returns the average duration, or zero when Count is zero.
func (s Summary) Mean() time.Duration {
	if s.Count == 0 {
		return 0
	}
	return s.Total / time.Duration(s.Count)
}

func (s *Summary) add(d time.Duration) {
	s.Count++
	s.Total += d
	s.Max = max(s.Max, d)
}
