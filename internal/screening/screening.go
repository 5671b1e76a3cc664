// Package screening scores batches of CVs against desired qualities, using
// either an LLM or a deterministic demo scorer.
package screening

import (
	"context"
	"crypto/sha1"
	"encoding/hex"
	"fmt"
	"path/filepath"

	"github.com/rs/zerolog/log"
	"golang.org/x/sync/errgroup"

	"github.com/jonathan/cv-screener/internal/criteria"
	"github.com/jonathan/cv-screener/internal/ingestion"
	"github.com/jonathan/cv-screener/internal/llm"
	"github.com/jonathan/cv-screener/internal/metrics"
	"github.com/jonathan/cv-screener/internal/ranking"
	"github.com/jonathan/cv-screener/internal/types"
)

// DefaultConcurrency bounds how many CVs are scored at once.
const DefaultConcurrency = 4

// recordIDLen is the length of the short hex id attached to each result.
const recordIDLen = 10

// Screener runs the scoring pipeline for a batch of CVs.
type Screener struct {
	client      llm.Client
	maxCVChars  int
	concurrency int
}

// Options configures a Screener.
type Options struct {
	Client      llm.Client // nil disables model scoring and uses the demo scorer
	MaxCVChars  int        // 0 uses ingestion.DefaultMaxCVChars
	Concurrency int        // 0 uses DefaultConcurrency
}

// New creates a Screener.
func New(opts Options) *Screener {
	maxChars := opts.MaxCVChars
	if maxChars <= 0 {
		maxChars = ingestion.DefaultMaxCVChars
	}
	concurrency := opts.Concurrency
	if concurrency <= 0 {
		concurrency = DefaultConcurrency
	}

	return &Screener{
		client:      opts.Client,
		maxCVChars:  maxChars,
		concurrency: concurrency,
	}
}

// Request carries the inputs of one screening run.
type Request struct {
	Files     []types.CVFile
	Qualities string
}

// Screen validates the request, scores every CV, and returns candidates
// sorted best to worst. Validation failures reject the whole batch before
// any CV is scored.
func (s *Screener) Screen(ctx context.Context, req Request) ([]types.Candidate, error) {
	if len(req.Files) == 0 {
		return nil, ErrNoFiles
	}
	if criteria.IsBlank(req.Qualities) {
		return nil, ErrNoQualities
	}
	for _, f := range req.Files {
		if !types.HasPDFExt(f.Name) {
			return nil, &NonPDFError{Name: f.Name}
		}
	}

	qualitiesText := criteria.Bullets(req.Qualities)

	log.Info().
		Int("files", len(req.Files)).
		Bool("model", s.client != nil).
		Msg("screening candidates")

	results := make([]types.Candidate, len(req.Files))

	g, gCtx := errgroup.WithContext(ctx)
	g.SetLimit(s.concurrency)
	for i, f := range req.Files {
		g.Go(func() error {
			candidate, err := s.screenOne(gCtx, f, qualitiesText)
			if err != nil {
				return err
			}
			results[i] = candidate
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	ranking.SortCandidates(results)
	return results, nil
}

// screenOne extracts one CV's text and scores it.
func (s *Screener) screenOne(ctx context.Context, f types.CVFile, qualitiesText string) (types.Candidate, error) {
	name := types.StripPDFExt(filepath.Base(f.Name))
	text := ingestion.CleanText(ingestion.ExtractText(f.Data))

	pages := 0
	if n, err := ingestion.PageCount(f.Data); err == nil {
		pages = n
	} else {
		log.Debug().Err(err).Str("candidate", name).Msg("page count unavailable")
	}

	meta := ingestion.NewMetadata(text, pages)
	log.Info().
		Str("candidate", name).
		Int("chars", meta.Chars).
		Int("pages", meta.Pages).
		Msg("parsed CV text")

	var (
		score  float64
		reason string
	)
	if s.client != nil {
		var err error
		score, reason, err = s.scoreWithModel(ctx, name, text, qualitiesText)
		if err != nil {
			return types.Candidate{}, err
		}
		metrics.IncScored("model")
	} else {
		score = mockScore(name, qualitiesText)
		reason = mockReason
		metrics.IncScored("mock")
	}

	log.Info().
		Str("candidate", name).
		Float64("score", score).
		Msg("scored candidate")

	return types.Candidate{
		ID:    recordID(name, len(text)),
		Name:  name,
		Score: score,
		Notes: reason,
	}, nil
}

// recordID derives a short stable id from the candidate name and the length
// of the extracted text.
func recordID(name string, chars int) string {
	sum := sha1.Sum([]byte(fmt.Sprintf("%s:%d", name, chars)))
	return hex.EncodeToString(sum[:])[:recordIDLen]
}
