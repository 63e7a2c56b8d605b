package proposal

import (
	"fmt"
	"math/rand/v2"
	"time"
)

const (
	minParticipants   = 100
	participantSpread = 1000
	maxEndWindow      = 30 * 24 * time.Hour
)

// Generate returns n synthetic proposals. Output is fully determined by seed
// and now, so fixtures and benchmarks are reproducible. Statuses cycle through
// active, completed and upcoming by index.
func Generate(n int, seed int64, now time.Time) []Proposal {
	if n <= 0 {
		return nil
	}

	//nolint:gosec // Fixture data, not security sensitive.
	rng := rand.New(rand.NewPCG(uint64(seed), uint64(seed)^0x9e3779b97f4a7c15))
	out := make([]Proposal, n)
	for i := range out {
		out[i] = Proposal{
			ID:           fmt.Sprintf("voting-%d", i),
			Title:        fmt.Sprintf("Proposal %d", i+1),
			Description:  fmt.Sprintf("Description for proposal %d with the full voting details.", i+1),
			Status:       Statuses[i%len(Statuses)],
			Participants: minParticipants + rng.IntN(participantSpread),
			EndTime:      now.Add(time.Duration(rng.Int64N(int64(maxEndWindow)))).Truncate(time.Second),
		}
	}
	return out
}
