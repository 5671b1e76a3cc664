package server

import (
	"errors"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/jonathan/cv-screener/internal/metrics"
	"github.com/jonathan/cv-screener/internal/screening"
	"github.com/jonathan/cv-screener/internal/types"
)

// maxMultipartMemory bounds how much of a parsed form stays in memory;
// larger uploads spill to temp files.
const maxMultipartMemory = 10 << 20

// ScreenRecord is the wire form of one ranked candidate.
type ScreenRecord struct {
	ID    string  `json:"id"`
	Name  string  `json:"name"`
	Score float64 `json:"score"`
	Notes string  `json:"notes,omitempty"`
	URL   *string `json:"url"`
}

// handleScreen scores the uploaded CVs against the posted qualities and
// returns the ranked records as a bare JSON array.
func (s *Server) handleScreen(w http.ResponseWriter, r *http.Request) {
	start := time.Now()

	if s.maxUploadBytes > 0 {
		r.Body = http.MaxBytesReader(w, r.Body, s.maxUploadBytes)
	}

	if err := r.ParseMultipartForm(maxMultipartMemory); err != nil {
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			metrics.ObserveScreen("invalid", time.Since(start))
			s.errorResponse(w, http.StatusRequestEntityTooLarge,
				fmt.Sprintf("Upload exceeds the %d MB limit", tooLarge.Limit>>20))
			return
		}
		metrics.ObserveScreen("invalid", time.Since(start))
		s.errorResponse(w, http.StatusBadRequest, "Invalid multipart form: "+err.Error())
		return
	}

	files, err := s.collectUploads(r)
	if err != nil {
		metrics.ObserveScreen("error", time.Since(start))
		s.errorResponse(w, http.StatusInternalServerError, "Failed to read upload: "+err.Error())
		return
	}

	req := screening.Request{
		Files:     files,
		Qualities: r.FormValue("qualities"),
	}

	candidates, err := s.screener.Screen(r.Context(), req)
	if err != nil {
		status := HTTPStatus(err)
		metrics.ObserveScreen(resultLabel(status), time.Since(start))
		s.errorResponse(w, status, err.Error())
		return
	}

	metrics.ObserveScreen("ok", time.Since(start))
	s.jsonResponse(w, http.StatusOK, toRecords(candidates))
}

// collectUploads reads every "files" part into memory as a CVFile.
func (s *Server) collectUploads(r *http.Request) ([]types.CVFile, error) {
	if r.MultipartForm == nil {
		return nil, nil
	}

	headers := r.MultipartForm.File["files"]
	files := make([]types.CVFile, 0, len(headers))
	for _, fh := range headers {
		part, err := fh.Open()
		if err != nil {
			return nil, fmt.Errorf("failed to open %q: %w", fh.Filename, err)
		}
		data, err := io.ReadAll(part)
		part.Close()
		if err != nil {
			return nil, fmt.Errorf("failed to read %q: %w", fh.Filename, err)
		}
		files = append(files, types.NewCVFile(fh.Filename, fh.Header.Get("Content-Type"), data))
	}
	return files, nil
}

// toRecords converts engine candidates to their wire form. The url field is
// null unless a source link is known; resolving uploads to links is the form
// server's concern.
func toRecords(candidates []types.Candidate) []ScreenRecord {
	records := make([]ScreenRecord, len(candidates))
	for i, c := range candidates {
		rec := ScreenRecord{
			ID:    c.ID,
			Name:  c.Name,
			Score: c.Score,
			Notes: c.Notes,
		}
		if c.SourceURL != "" {
			url := c.SourceURL
			rec.URL = &url
		}
		records[i] = rec
	}
	return records
}

// resultLabel maps an error status to the metrics result label.
func resultLabel(status int) string {
	if status >= 400 && status < 500 {
		return "invalid"
	}
	return "error"
}
