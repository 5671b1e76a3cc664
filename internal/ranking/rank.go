// Package ranking provides functionality to rank uploaded CVs against desired qualities.
package ranking

import (
	"sort"

	"github.com/jonathan/cv-screener/internal/types"
)

// SortCandidates sorts candidates by score in descending order, in place.
// Ties keep no particular relative order.
func SortCandidates(candidates []types.Candidate) {
	sort.Slice(candidates, func(i, j int) bool {
		return candidates[i].Score > candidates[j].Score
	})
}
