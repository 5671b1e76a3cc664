package ranking

import (
	"encoding/json"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestMockScore_Deterministic(t *testing.T) {
	// Fixed inputs must reproduce the identical score across runs and platforms.
	first := MockScore("alice", "Python\nSQL")
	for i := 0; i < 10; i++ {
		assert.Equal(t, first, MockScore("alice", "Python\nSQL"))
	}
}

func TestMockScore_ScoreRange(t *testing.T) {
	names := []string{"alice", "bob", "carol-anne", "Jörg", "", "a very long candidate file name"}
	qualities := []string{"", "Python", "Python\nSQL", "Go, Kubernetes, Terraform, AWS, Docker, CI/CD, SQL, NoSQL, GraphQL, REST, gRPC, Kafka"}

	for _, name := range names {
		for _, q := range qualities {
			score := MockScore(name, q)
			assert.GreaterOrEqual(t, score, 0.0, "name=%q qualities=%q", name, q)
			assert.LessOrEqual(t, score, 100.0, "name=%q qualities=%q", name, q)
		}
	}
}

func TestMockScore_VariesByName(t *testing.T) {
	qualities := "Python\nSQL"
	scores := make(map[float64]bool)
	for _, name := range []string{"alice", "bob", "carol", "dave", "eve", "frank", "grace", "heidi"} {
		scores[MockScore(name, qualities)] = true
	}
	// The hash base should spread candidates, not collapse them onto one value.
	assert.Greater(t, len(scores), 1)
}

func TestClampScore(t *testing.T) {
	tests := []struct {
		name     string
		input    float64
		expected float64
	}{
		{"below range", -5.0, 0.0},
		{"above range", 150.0, 100.0},
		{"lower bound", 0.0, 0.0},
		{"upper bound", 100.0, 100.0},
		{"in range", 42.5, 42.5},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, ClampScore(tt.input))
		})
	}
}

func TestCoerceScore(t *testing.T) {
	tests := []struct {
		name     string
		input    any
		expected float64
	}{
		{"float", 87.5, 87.5},
		{"int", 42, 42.0},
		{"numeric string", "73.2", 73.2},
		{"padded numeric string", " 50 ", 50.0},
		{"json number", json.Number("61.5"), 61.5},
		{"non-numeric string", "high", 0.0},
		{"empty string", "", 0.0},
		{"nil", nil, 0.0},
		{"bool", true, 0.0},
		{"object", map[string]any{"value": 9}, 0.0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, CoerceScore(tt.input))
		})
	}
}

func TestRound2(t *testing.T) {
	assert.Equal(t, 87.13, Round2(87.1278))
	assert.Equal(t, 50.0, Round2(50.0))
}

func TestRoundScore(t *testing.T) {
	assert.Equal(t, 88, RoundScore(87.5))
	assert.Equal(t, 87, RoundScore(87.4))
}

func TestMockNotes(t *testing.T) {
	assert.Equal(t, "No qualities provided", mockNotes(nil))
	assert.Equal(t, "Matched qualities: Python", mockNotes([]string{"Python"}))
	assert.Equal(t,
		"Matched qualities: Python, SQL, Go, Docker",
		mockNotes([]string{"Python", "SQL", "Go", "Docker"}))
	assert.Equal(t,
		"Matched qualities: Python, SQL, Go, Docker...",
		mockNotes([]string{"Python", "SQL", "Go", "Docker", "Kubernetes"}))
}

func TestHashNameCriteria_StableAndNonNegative(t *testing.T) {
	for i := 0; i < 50; i++ {
		name := fmt.Sprintf("candidate-%d", i)
		v := hashNameCriteria(name, "Python\nSQL")
		assert.GreaterOrEqual(t, v, int64(0))
		assert.Equal(t, v, hashNameCriteria(name, "Python\nSQL"))
	}
}
