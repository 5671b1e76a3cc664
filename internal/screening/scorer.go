package screening

import (
	"context"
	"encoding/json"
	"fmt"
	"math"
	"strconv"
	"strings"

	"github.com/rs/zerolog/log"

	"github.com/jonathan/cv-screener/internal/ingestion"
	"github.com/jonathan/cv-screener/internal/llm"
	"github.com/jonathan/cv-screener/internal/metrics"
	"github.com/jonathan/cv-screener/internal/prompts"
	"github.com/jonathan/cv-screener/internal/ranking"
	"github.com/jonathan/cv-screener/internal/schemas"
)

// parseFailureReason is attached to results when the model reply is unusable.
const parseFailureReason = "Parse error; defaulted to 50."

// defaultModelScore stands in when a usable reply carries no score field.
const defaultModelScore = 50.0

// rawPreviewLen bounds logged reply previews.
const rawPreviewLen = 300

// scoreWithModel asks the LLM to judge one CV against the qualities and
// returns a clamped score plus the model's reason. Unusable replies fall
// back to the default score instead of failing the run; only transport and
// provider errors propagate.
func (s *Screener) scoreWithModel(ctx context.Context, name, cvText, qualitiesText string) (float64, string, error) {
	systemPrompt := prompts.MustGet("screening.json", "score-system")
	userTemplate := prompts.MustGet("screening.json", "score-user")

	userPrompt := prompts.Format(userTemplate, map[string]string{
		"Qualities": qualitiesText,
		"Candidate": name,
		"CVText":    ingestion.TruncateForModel(cvText, s.maxCVChars),
	})

	raw, err := s.client.GenerateJSON(ctx, systemPrompt+"\n\n"+userPrompt, llm.TierLite)
	if err != nil {
		return 0, "", &ModelCallError{Candidate: name, Cause: err}
	}

	score, reason, ok := parseScoreReply(raw)
	if !ok {
		log.Warn().
			Str("candidate", name).
			Str("raw", preview(raw)).
			Msg("unusable score reply")
		metrics.IncParseFailure()
		return defaultModelScore, parseFailureReason, nil
	}

	return ranking.ClampScore(ranking.Round2(score)), reason, nil
}

// parseScoreReply extracts score and reason from a cleaned model reply.
// The reply must pass schema validation and carry a coercible score; a
// missing score falls back to the default without counting as a failure.
func parseScoreReply(raw string) (float64, string, bool) {
	if err := schemas.ValidateScoreResponse(raw); err != nil {
		return 0, "", false
	}

	var reply map[string]any
	if err := json.Unmarshal([]byte(raw), &reply); err != nil {
		return 0, "", false
	}

	score := defaultModelScore
	if v, exists := reply["score"]; exists {
		f := coerceFloat(v)
		if math.IsNaN(f) {
			return 0, "", false
		}
		score = f
	}

	return score, coerceString(reply["reason"]), true
}

func coerceFloat(v any) float64 {
	switch val := v.(type) {
	case float64:
		return val
	case int:
		return float64(val)
	case string:
		trimmed := strings.TrimSpace(val)
		if trimmed == "" {
			return math.NaN()
		}
		f, err := strconv.ParseFloat(trimmed, 64)
		if err != nil {
			return math.NaN()
		}
		return f
	default:
		return math.NaN()
	}
}

func coerceString(v any) string {
	switch val := v.(type) {
	case string:
		return strings.TrimSpace(val)
	default:
		if v == nil {
			return ""
		}
		bytes, err := json.Marshal(v)
		if err != nil {
			return fmt.Sprintf("%v", v)
		}
		return string(bytes)
	}
}

func preview(raw string) string {
	if len(raw) <= rawPreviewLen {
		return raw
	}
	return raw[:rawPreviewLen]
}
