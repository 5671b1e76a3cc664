package ranking

import (
	"context"
	"time"

	"github.com/jonathan/cv-screener/internal/criteria"
	"github.com/jonathan/cv-screener/internal/types"
)

// DefaultMockDelay approximates the latency of a real screening call.
const DefaultMockDelay = 800 * time.Millisecond

// MockRanker implements Ranker with the deterministic local scorer.
type MockRanker struct {
	delay time.Duration
}

// NewMockRanker creates a mock ranker. A zero delay selects DefaultMockDelay;
// a negative delay disables the artificial latency.
func NewMockRanker(delay time.Duration) *MockRanker {
	if delay == 0 {
		delay = DefaultMockDelay
	}
	return &MockRanker{delay: delay}
}

// Rank scores each file locally. The synthetic delay honors context
// cancellation so shutdown is never blocked on it.
func (m *MockRanker) Rank(ctx context.Context, files []types.CVFile, qualities string) ([]types.Candidate, error) {
	if m.delay > 0 {
		timer := time.NewTimer(m.delay)
		defer timer.Stop()
		select {
		case <-timer.C:
		case <-ctx.Done():
			return nil, ctx.Err()
		}
	}

	tokens := criteria.Tokens(qualities)
	notes := mockNotes(tokens)

	candidates := make([]types.Candidate, 0, len(files))
	for _, f := range files {
		name := f.StrippedName()
		candidates = append(candidates, types.Candidate{
			ID:     f.ID.String(),
			Name:   name,
			Score:  MockScore(name, qualities),
			Notes:  notes,
			FileID: f.ID,
		})
	}

	SortCandidates(candidates)
	return candidates, nil
}
