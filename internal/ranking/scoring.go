// Package ranking provides functionality to rank uploaded CVs against desired qualities.
package ranking

import (
	"encoding/json"
	"fmt"
	"math"
	"strconv"
	"strings"

	"github.com/jonathan/cv-screener/internal/criteria"
)

// Constants for the local synthetic scoring strategy
const (
	// hashOffsetBasis is the 32-bit FNV-1a offset basis.
	hashOffsetBasis uint32 = 2166136261
	// nameSeparator joins the stripped file name and the criteria text before hashing.
	nameSeparator = "|"

	baseScoreWeight = 0.7
	baseScoreFloor  = 30.0
	tokenBonusStep  = 2.0
	tokenBonusCap   = 20.0

	minScore = 0.0
	maxScore = 100.0

	// maxNoteTokens caps how many criteria tokens a note lists.
	maxNoteTokens = 4
)

// hashNameCriteria computes the 32-bit mixing hash over the stripped file
// name and the raw criteria text. Arithmetic wraps at 32 bits; the result is
// the absolute value of the two's-complement reading, so scores reproduce
// across platforms.
func hashNameCriteria(strippedName, qualities string) int64 {
	h := hashOffsetBasis
	for _, b := range []byte(strippedName + nameSeparator + qualities) {
		h ^= uint32(b)
		h += (h << 1) + (h << 4) + (h << 7) + (h << 8) + (h << 24)
	}

	v := int64(int32(h))
	if v < 0 {
		v = -v
	}
	return v
}

// MockScore computes the deterministic synthetic score for one stripped file
// name against the qualities text: a hash-derived base plus a bonus for the
// number of criteria tokens, clamped to the valid range.
func MockScore(strippedName, qualities string) float64 {
	base := float64(hashNameCriteria(strippedName, qualities)%100)*baseScoreWeight + baseScoreFloor

	bonus := tokenBonusStep * float64(len(criteria.Tokens(qualities)))
	if bonus > tokenBonusCap {
		bonus = tokenBonusCap
	}

	return ClampScore(base + bonus)
}

// ClampScore clamps a score into the [0, 100] range.
func ClampScore(score float64) float64 {
	if score < minScore {
		return minScore
	}
	if score > maxScore {
		return maxScore
	}
	return score
}

// Round2 rounds a score to two decimal places for wire responses.
func Round2(score float64) float64 {
	return math.Round(score*100) / 100
}

// RoundScore returns the display form of a score: a whole number out of 100.
func RoundScore(score float64) int {
	return int(math.Round(score))
}

// CoerceScore converts a decoded JSON score value to a float64, treating
// anything non-numeric as zero.
func CoerceScore(v any) float64 {
	switch val := v.(type) {
	case float64:
		return val
	case int:
		return float64(val)
	case json.Number:
		f, err := val.Float64()
		if err != nil {
			return 0
		}
		return f
	case string:
		f, err := strconv.ParseFloat(strings.TrimSpace(val), 64)
		if err != nil {
			return 0
		}
		return f
	default:
		return 0
	}
}

// mockNotes creates the human-readable note for a synthetic result, listing
// up to the first maxNoteTokens criteria tokens.
func mockNotes(tokens []string) string {
	if len(tokens) == 0 {
		return "No qualities provided"
	}

	listed := tokens
	suffix := ""
	if len(listed) > maxNoteTokens {
		listed = listed[:maxNoteTokens]
		suffix = "..."
	}

	return fmt.Sprintf("Matched qualities: %s%s", strings.Join(listed, ", "), suffix)
}
