package ranking

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"github.com/jonathan/cv-screener/internal/types"
)

// Mode selects a ranking strategy.
type Mode string

// Mode constants define the supported ranking strategies
const (
	// ModeMock scores locally with the deterministic synthetic scorer
	ModeMock Mode = "mock"
	// ModeRemote delegates scoring to the screening service
	ModeRemote Mode = "remote"
)

// Ranker is an abstraction over ranking strategies: given the uploaded files
// and the raw qualities text, produce candidates sorted descending by score.
type Ranker interface {
	// Rank performs exactly one scoring pass over the files
	Rank(ctx context.Context, files []types.CVFile, qualities string) ([]types.Candidate, error)
}

// Options configures the ranker factory.
type Options struct {
	// BaseURL is the screening service address for ModeRemote; empty uses the default.
	BaseURL string
	// Delay overrides the synthetic latency for ModeMock; zero keeps the default,
	// negative disables it.
	Delay time.Duration
	// HTTPClient overrides the transport for ModeRemote (for test servers).
	HTTPClient *http.Client
}

// NewRanker creates a ranker for the given mode.
func NewRanker(mode Mode, opts Options) (Ranker, error) {
	switch mode {
	case ModeMock, "":
		return NewMockRanker(opts.Delay), nil
	case ModeRemote:
		return NewRemoteRanker(opts.BaseURL, opts.HTTPClient), nil
	default:
		return nil, fmt.Errorf("unsupported ranking mode: %s", mode)
	}
}
