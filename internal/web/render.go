package web

import (
	"fmt"

	"github.com/google/uuid"

	"github.com/jonathan/cv-screener/internal/ranking"
	"github.com/jonathan/cv-screener/internal/session"
)

// fileRow is one collected upload as shown in the files list.
type fileRow struct {
	Name string
	Size string
	Href string
}

// resultRow is one ranked candidate as shown in the results table.
type resultRow struct {
	Rank  int
	Name  string
	Score string
	Href  string // source link, empty when the record matched no upload
}

// viewData is everything the page template needs.
type viewData struct {
	Files     []fileRow
	Qualities string
	Remote    bool
	Busy      bool
	Error     string
	Results   []resultRow
}

// buildView assembles the page state from the session.
func buildView(sess *session.Session) viewData {
	files := sess.Files()

	v := viewData{
		Qualities: sess.Qualities(),
		Remote:    sess.Remote(),
		Busy:      sess.Busy(),
		Error:     sess.LastError(),
		Files:     make([]fileRow, 0, len(files)),
	}
	for _, f := range files {
		v.Files = append(v.Files, fileRow{
			Name: f.Name,
			Size: formatSize(f.Size),
			Href: fileHref(f.ID),
		})
	}
	for i, c := range sess.Results() {
		v.Results = append(v.Results, resultRow{
			Rank:  i + 1,
			Name:  c.Name,
			Score: fmt.Sprintf("%d / 100", ranking.RoundScore(c.Score)),
			Href:  fileHref(c.FileID),
		})
	}
	return v
}

// fileHref returns the serving path for an upload. The zero ID yields ""
// so results that matched no upload render the placeholder, not a dead link.
func fileHref(id uuid.UUID) string {
	if id == uuid.Nil {
		return ""
	}
	return "/files/" + id.String()
}

// formatSize renders a byte count the way file pickers do.
func formatSize(n int64) string {
	switch {
	case n >= 1<<20:
		return fmt.Sprintf("%.1f MB", float64(n)/(1<<20))
	case n >= 1<<10:
		return fmt.Sprintf("%.1f KB", float64(n)/(1<<10))
	default:
		return fmt.Sprintf("%d B", n)
	}
}
