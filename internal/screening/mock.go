package screening

import (
	"crypto/sha1"
	"encoding/binary"

	"github.com/jonathan/cv-screener/internal/ranking"
)

// mockReason annotates results produced without a model.
const mockReason = "Mock score (AI disabled)."

// mockScore returns a deterministic pseudo-random score in [10, 100], seeded
// by candidate name and qualities text. The same inputs always produce the
// same score, which keeps demo runs reproducible.
func mockScore(name, qualitiesText string) float64 {
	sum := sha1.Sum([]byte(name + ":" + qualitiesText))
	seed := binary.BigEndian.Uint64(sum[:8])

	return ranking.Round2(10 + float64(seed%9001)/100)
}
