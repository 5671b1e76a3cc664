package ranking

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"strings"

	"github.com/jonathan/cv-screener/internal/types"
)

// Remote strategy defaults
const (
	// DefaultBaseURL is the screening service address used when none is configured.
	DefaultBaseURL = "http://localhost:8000"
	// screenPath is the screening route on the service.
	screenPath = "/api/screen"
)

// RemoteRanker implements Ranker by delegating to the screening service over
// a single multipart request per submission.
type RemoteRanker struct {
	baseURL    string
	httpClient *http.Client
}

// NewRemoteRanker creates a remote ranker for the given base URL.
func NewRemoteRanker(baseURL string, httpClient *http.Client) *RemoteRanker {
	if baseURL == "" {
		baseURL = DefaultBaseURL
	}
	if httpClient == nil {
		httpClient = &http.Client{}
	}

	return &RemoteRanker{
		baseURL:    strings.TrimRight(baseURL, "/"),
		httpClient: httpClient,
	}
}

// remoteRecord mirrors one entry of the service response. Score stays
// untyped so malformed values are coerced instead of failing the decode.
type remoteRecord struct {
	ID    string `json:"id"`
	Name  string `json:"name"`
	Score any    `json:"score"`
	Notes string `json:"notes"`
	URL   string `json:"url"`
}

// Rank sends the files and qualities to the screening service and normalizes
// the response: scores coerced and clamped, records matched back to uploads
// by stripped file name, result sorted descending.
func (r *RemoteRanker) Rank(ctx context.Context, files []types.CVFile, qualities string) ([]types.Candidate, error) {
	body, contentType, err := buildScreenRequest(files, qualities)
	if err != nil {
		return nil, fmt.Errorf("failed to build screen request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, r.baseURL+screenPath, body)
	if err != nil {
		return nil, fmt.Errorf("failed to create screen request: %w", err)
	}
	req.Header.Set("Content-Type", contentType)

	resp, err := r.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("screen request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < http.StatusOK || resp.StatusCode >= http.StatusMultipleChoices {
		return nil, remoteFailure(resp)
	}

	var records []remoteRecord
	if err := json.NewDecoder(resp.Body).Decode(&records); err != nil {
		return nil, fmt.Errorf("failed to decode screen response: %w", err)
	}

	candidates := make([]types.Candidate, 0, len(records))
	for _, rec := range records {
		candidate := types.Candidate{
			ID:        rec.ID,
			Name:      rec.Name,
			Score:     ClampScore(CoerceScore(rec.Score)),
			Notes:     rec.Notes,
			SourceURL: rec.URL,
		}
		if match := matchByStrippedName(files, rec.Name); match != nil {
			candidate.FileID = match.ID
		}
		candidates = append(candidates, candidate)
	}

	SortCandidates(candidates)
	return candidates, nil
}

// buildScreenRequest packages all files plus the raw qualities string into
// one multipart body: repeated "files" parts with original names preserved
// and a single "qualities" text field.
func buildScreenRequest(files []types.CVFile, qualities string) (*bytes.Buffer, string, error) {
	var b bytes.Buffer
	w := multipart.NewWriter(&b)

	for _, f := range files {
		part, err := w.CreateFormFile("files", f.Name)
		if err != nil {
			return nil, "", err
		}
		if _, err := part.Write(f.Data); err != nil {
			return nil, "", err
		}
	}
	if err := w.WriteField("qualities", qualities); err != nil {
		return nil, "", err
	}
	if err := w.Close(); err != nil {
		return nil, "", err
	}

	return &b, w.FormDataContentType(), nil
}

// remoteFailure turns a non-success response into the user-facing error:
// the body text verbatim when the server sent one, otherwise a status fallback.
func remoteFailure(resp *http.Response) error {
	body, _ := io.ReadAll(resp.Body)
	message := strings.TrimSpace(string(body))
	if message == "" {
		message = fmt.Sprintf("API error: %d", resp.StatusCode)
	}
	return &RemoteError{StatusCode: resp.StatusCode, Message: message}
}

// matchByStrippedName finds the uploaded file whose stripped name equals the
// record name. The wire format carries no upload ID, so name matching is the
// only linkage available for remote results.
func matchByStrippedName(files []types.CVFile, name string) *types.CVFile {
	for i := range files {
		if files[i].StrippedName() == name {
			return &files[i]
		}
	}
	return nil
}
