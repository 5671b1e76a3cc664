package ranking

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/jonathan/cv-screener/internal/types"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// testFiles builds an in-memory upload set for ranker tests.
func testFiles(names ...string) []types.CVFile {
	files := make([]types.CVFile, 0, len(names))
	for _, name := range names {
		files = append(files, types.NewCVFile(name, "application/pdf", []byte("%PDF-1.4 "+name)))
	}
	return files
}

func TestSortCandidates_Descending(t *testing.T) {
	candidates := []types.Candidate{
		{Name: "low", Score: 12.5},
		{Name: "high", Score: 96.0},
		{Name: "mid", Score: 48.3},
	}

	SortCandidates(candidates)

	assert.Equal(t, "high", candidates[0].Name)
	assert.Equal(t, "mid", candidates[1].Name)
	assert.Equal(t, "low", candidates[2].Name)
	for i := 1; i < len(candidates); i++ {
		assert.GreaterOrEqual(t, candidates[i-1].Score, candidates[i].Score)
	}
}

func TestMockRanker_BasicRanking(t *testing.T) {
	ranker := NewMockRanker(-1)
	files := testFiles("alice.pdf", "bob.pdf", "carol.pdf")

	candidates, err := ranker.Rank(context.Background(), files, "Python\nSQL")
	require.NoError(t, err)
	require.Len(t, candidates, 3)

	for i := 1; i < len(candidates); i++ {
		assert.GreaterOrEqual(t, candidates[i-1].Score, candidates[i].Score)
	}
	for _, c := range candidates {
		assert.GreaterOrEqual(t, c.Score, 0.0)
		assert.LessOrEqual(t, c.Score, 100.0)
		assert.NotEqual(t, uuid.Nil, c.FileID, "local results keep their upload linkage")
		assert.Equal(t, "Matched qualities: Python, SQL", c.Notes)
	}
}

func TestMockRanker_Deterministic(t *testing.T) {
	ranker := NewMockRanker(-1)
	files := testFiles("alice.pdf")

	first, err := ranker.Rank(context.Background(), files, "Python\nSQL")
	require.NoError(t, err)
	require.Len(t, first, 1)

	for i := 0; i < 5; i++ {
		again, err := ranker.Rank(context.Background(), files, "Python\nSQL")
		require.NoError(t, err)
		assert.Equal(t, first[0].Score, again[0].Score)
	}
}

func TestMockRanker_StripsExtension(t *testing.T) {
	ranker := NewMockRanker(-1)

	candidates, err := ranker.Rank(context.Background(), testFiles("Alice.PDF"), "Go")
	require.NoError(t, err)
	require.Len(t, candidates, 1)
	assert.Equal(t, "Alice", candidates[0].Name)
}

func TestMockRanker_DelayHonorsCancellation(t *testing.T) {
	ranker := NewMockRanker(5 * time.Second)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	start := time.Now()
	_, err := ranker.Rank(ctx, testFiles("alice.pdf"), "Go")
	assert.ErrorIs(t, err, context.Canceled)
	assert.Less(t, time.Since(start), time.Second)
}

func TestNewRanker_ModeSelection(t *testing.T) {
	mock, err := NewRanker(ModeMock, Options{Delay: -1})
	require.NoError(t, err)
	assert.IsType(t, &MockRanker{}, mock)

	remote, err := NewRanker(ModeRemote, Options{BaseURL: "http://localhost:8000"})
	require.NoError(t, err)
	assert.IsType(t, &RemoteRanker{}, remote)

	fallback, err := NewRanker("", Options{Delay: -1})
	require.NoError(t, err)
	assert.IsType(t, &MockRanker{}, fallback)

	_, err = NewRanker("carrier-pigeon", Options{})
	assert.Error(t, err)
}
