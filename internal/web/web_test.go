package web

import (
	"bytes"
	"fmt"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/PuerkitoBio/goquery"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jonathan/cv-screener/internal/ranking"
	"github.com/jonathan/cv-screener/internal/session"
)

func newTestServer(t *testing.T, cfg Config) *Server {
	t.Helper()

	if cfg.Host == "" {
		cfg.Host = "127.0.0.1"
	}
	if cfg.Port == 0 {
		cfg.Port = 8080
	}
	if cfg.MockDelay == 0 {
		cfg.MockDelay = -1 // no artificial latency in tests
	}

	s, err := New(cfg)
	require.NoError(t, err)
	t.Cleanup(s.store.Stop)
	return s
}

// testClient replays the session cookie across requests like a browser would.
type testClient struct {
	t       *testing.T
	handler http.Handler
	cookie  *http.Cookie
}

func newTestClient(t *testing.T, s *Server) *testClient {
	return &testClient{t: t, handler: s.httpServer.Handler}
}

func (c *testClient) do(req *http.Request) *httptest.ResponseRecorder {
	c.t.Helper()

	if c.cookie != nil {
		req.AddCookie(c.cookie)
	}
	rec := httptest.NewRecorder()
	c.handler.ServeHTTP(rec, req)

	for _, ck := range rec.Result().Cookies() {
		if ck.Name == sessionCookie {
			c.cookie = ck
		}
	}
	return rec
}

func (c *testClient) get(path string) *httptest.ResponseRecorder {
	c.t.Helper()
	return c.do(httptest.NewRequest(http.MethodGet, path, nil))
}

// postForm sends a multipart form the way the page does: text fields plus
// zero or more "files" parts.
func (c *testClient) postForm(path string, fields map[string]string, files map[string][]byte) *httptest.ResponseRecorder {
	c.t.Helper()

	var body bytes.Buffer
	mw := multipart.NewWriter(&body)
	for name, data := range files {
		part, err := mw.CreateFormFile("files", name)
		require.NoError(c.t, err)
		_, err = part.Write(data)
		require.NoError(c.t, err)
	}
	for key, value := range fields {
		require.NoError(c.t, mw.WriteField(key, value))
	}
	require.NoError(c.t, mw.Close())

	req := httptest.NewRequest(http.MethodPost, path, &body)
	req.Header.Set("Content-Type", mw.FormDataContentType())
	return c.do(req)
}

// page fetches and parses the form page.
func (c *testClient) page() *goquery.Document {
	c.t.Helper()

	rec := c.get("/")
	require.Equal(c.t, http.StatusOK, rec.Code)

	doc, err := goquery.NewDocumentFromReader(rec.Body)
	require.NoError(c.t, err)
	return doc
}

// sess digs the client's session out of the store for white-box checks.
func (c *testClient) sess(s *Server) *session.Session {
	c.t.Helper()

	require.NotNil(c.t, c.cookie, "no session cookie issued yet")
	id, err := uuid.Parse(c.cookie.Value)
	require.NoError(c.t, err)

	sess, ok := s.store.Get(id)
	require.True(c.t, ok)
	return sess
}

func pdfBytes(seed string) []byte {
	return []byte("%PDF-1.4\n" + seed)
}

func TestIndex_EmptyPage(t *testing.T) {
	s := newTestServer(t, Config{})
	c := newTestClient(t, s)

	rec := c.get("/")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Header().Get("Content-Type"), "text/html")
	require.NotNil(t, c.cookie, "first visit should set the session cookie")
	assert.True(t, c.cookie.HttpOnly)

	doc, err := goquery.NewDocumentFromReader(rec.Body)
	require.NoError(t, err)
	assert.Equal(t, 1, doc.Find(`form[action="/screen"]`).Length())
	assert.Equal(t, 1, doc.Find(`textarea[name="qualities"]`).Length())
	assert.Equal(t, 1, doc.Find("p.empty").Length())
	assert.Zero(t, doc.Find("table.results").Length())
	assert.Zero(t, doc.Find(".error").Length())
}

func TestIndex_OnlyRootServesPage(t *testing.T) {
	s := newTestServer(t, Config{})
	c := newTestClient(t, s)

	assert.Equal(t, http.StatusNotFound, c.get("/nope").Code)
}

func TestAddFiles_CollectsInOrder(t *testing.T) {
	s := newTestServer(t, Config{})
	c := newTestClient(t, s)

	c.postForm("/files", nil, map[string][]byte{"alice.pdf": pdfBytes("alice")})
	rec := c.postForm("/files", nil, map[string][]byte{"bob.pdf": pdfBytes("bob")})
	require.Equal(t, http.StatusSeeOther, rec.Code)
	assert.Equal(t, "/", rec.Header().Get("Location"))

	rows := c.page().Find("table.files tbody tr")
	require.Equal(t, 2, rows.Length())
	assert.Equal(t, "alice.pdf", rows.Eq(0).Find("a").Text())
	assert.Equal(t, "bob.pdf", rows.Eq(1).Find("a").Text())
}

func TestAddFiles_FiltersNonPDFAndDuplicates(t *testing.T) {
	s := newTestServer(t, Config{})
	c := newTestClient(t, s)

	c.postForm("/files", nil, map[string][]byte{
		"alice.pdf": pdfBytes("alice"),
		"notes.txt": []byte("plain text"),
	})
	c.postForm("/files", nil, map[string][]byte{"alice.pdf": pdfBytes("alice again")})

	rows := c.page().Find("table.files tbody tr")
	require.Equal(t, 1, rows.Length())
	assert.Equal(t, "alice.pdf", rows.Eq(0).Find("a").Text())
}

func TestAddFiles_KeepsDraftFields(t *testing.T) {
	s := newTestServer(t, Config{})
	c := newTestClient(t, s)

	fields := map[string]string{"qualities": "Go experts with Kafka", "remote": "on"}
	c.postForm("/files", fields, map[string][]byte{"alice.pdf": pdfBytes("alice")})

	doc := c.page()
	assert.Equal(t, "Go experts with Kafka", doc.Find(`textarea[name="qualities"]`).Text())
	_, checked := doc.Find(`input[name="remote"]`).Attr("checked")
	assert.True(t, checked, "remote toggle should survive the redirect")
}

func TestRemoveFile_RevokesLink(t *testing.T) {
	s := newTestServer(t, Config{})
	c := newTestClient(t, s)

	c.postForm("/files", nil, map[string][]byte{"alice.pdf": pdfBytes("alice")})
	c.postForm("/files", nil, map[string][]byte{"bob.pdf": pdfBytes("bob")})

	href, ok := c.page().Find("table.files tbody tr").Eq(0).Find("a").Attr("href")
	require.True(t, ok)
	require.Equal(t, http.StatusOK, c.get(href).Code)

	rec := c.postForm("/files/remove", map[string]string{"name": "alice.pdf"}, nil)
	require.Equal(t, http.StatusSeeOther, rec.Code)

	rows := c.page().Find("table.files tbody tr")
	require.Equal(t, 1, rows.Length())
	assert.Equal(t, "bob.pdf", rows.Eq(0).Find("a").Text())

	assert.Equal(t, http.StatusNotFound, c.get(href).Code)
}

func TestServeFile(t *testing.T) {
	s := newTestServer(t, Config{})
	c := newTestClient(t, s)

	c.postForm("/files", nil, map[string][]byte{"alice.pdf": pdfBytes("alice")})

	href, ok := c.page().Find("table.files a").Attr("href")
	require.True(t, ok)

	rec := c.get(href)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "application/pdf", rec.Header().Get("Content-Type"))
	assert.Contains(t, rec.Header().Get("Content-Disposition"), `filename="alice.pdf"`)
	assert.Equal(t, pdfBytes("alice"), rec.Body.Bytes())
}

func TestServeFile_UnknownID(t *testing.T) {
	s := newTestServer(t, Config{})
	c := newTestClient(t, s)

	assert.Equal(t, http.StatusNotFound, c.get("/files/"+uuid.NewString()).Code)
	assert.Equal(t, http.StatusNotFound, c.get("/files/not-a-uuid").Code)
}

func TestReset_ClearsEverything(t *testing.T) {
	s := newTestServer(t, Config{})
	c := newTestClient(t, s)

	c.postForm("/files", nil, map[string][]byte{"alice.pdf": pdfBytes("alice")})
	href, _ := c.page().Find("table.files a").Attr("href")
	c.postForm("/screen", map[string]string{"qualities": "Go"}, nil)
	require.Equal(t, 1, c.page().Find("table.results tbody tr").Length())

	rec := c.postForm("/reset", nil, nil)
	require.Equal(t, http.StatusSeeOther, rec.Code)

	doc := c.page()
	assert.Equal(t, 1, doc.Find("p.empty").Length())
	assert.Empty(t, doc.Find(`textarea[name="qualities"]`).Text())
	assert.Zero(t, doc.Find("table.results").Length())
	assert.Zero(t, doc.Find(".error").Length())

	assert.Equal(t, http.StatusNotFound, c.get(href).Code)
}

func TestScreen_RequiresFiles(t *testing.T) {
	s := newTestServer(t, Config{})
	c := newTestClient(t, s)

	rec := c.postForm("/screen", map[string]string{"qualities": "Go"}, nil)
	require.Equal(t, http.StatusSeeOther, rec.Code)

	doc := c.page()
	assert.Equal(t, "Please add at least one PDF CV.", strings.TrimSpace(doc.Find(".error").Text()))
	assert.Zero(t, doc.Find("table.results").Length())
}

func TestScreen_RequiresQualities(t *testing.T) {
	s := newTestServer(t, Config{})
	c := newTestClient(t, s)

	c.postForm("/files", nil, map[string][]byte{"alice.pdf": pdfBytes("alice")})
	rec := c.postForm("/screen", map[string]string{"qualities": "  \n\t "}, nil)
	require.Equal(t, http.StatusSeeOther, rec.Code)

	doc := c.page()
	assert.Equal(t, "Please enter the desired candidate qualities.", strings.TrimSpace(doc.Find(".error").Text()))
}

func TestScreen_MockRanking(t *testing.T) {
	const qualities = "Go, Kubernetes, mentoring"

	s := newTestServer(t, Config{})
	c := newTestClient(t, s)

	c.postForm("/files", nil, map[string][]byte{"alice.pdf": pdfBytes("alice")})
	c.postForm("/files", nil, map[string][]byte{"bob.pdf": pdfBytes("bob")})

	rec := c.postForm("/screen", map[string]string{"qualities": qualities}, nil)
	require.Equal(t, http.StatusSeeOther, rec.Code)

	doc := c.page()
	assert.Zero(t, doc.Find(".error").Length())

	rows := doc.Find("table.results tbody tr")
	require.Equal(t, 2, rows.Length())
	assert.Equal(t, "1", rows.Eq(0).Find("td").Eq(0).Text())
	assert.Equal(t, "2", rows.Eq(1).Find("td").Eq(0).Text())

	// The deterministic scorer fixes both the values and the order.
	first, second := "alice", "bob"
	if ranking.MockScore("bob", qualities) > ranking.MockScore("alice", qualities) {
		first, second = "bob", "alice"
	}
	assert.Equal(t, first, rows.Eq(0).Find("td").Eq(1).Text())
	assert.Equal(t, second, rows.Eq(1).Find("td").Eq(1).Text())

	wantScores := map[string]string{
		"alice": fmt.Sprintf("%d / 100", ranking.RoundScore(ranking.MockScore("alice", qualities))),
		"bob":   fmt.Sprintf("%d / 100", ranking.RoundScore(ranking.MockScore("bob", qualities))),
	}
	rows.Each(func(_ int, row *goquery.Selection) {
		cells := row.Find("td")
		assert.Equal(t, wantScores[cells.Eq(1).Text()], cells.Eq(2).Text())

		link := cells.Eq(3).Find("a")
		require.Equal(t, 1, link.Length())
		assert.Equal(t, "Open CV", link.Text())
		href, ok := link.Attr("href")
		require.True(t, ok)
		assert.Equal(t, http.StatusOK, c.get(href).Code)
	})
}

func TestScreen_PicksUpFilesFromSubmission(t *testing.T) {
	s := newTestServer(t, Config{})
	c := newTestClient(t, s)

	rec := c.postForm("/screen",
		map[string]string{"qualities": "Go"},
		map[string][]byte{"alice.pdf": pdfBytes("alice")})
	require.Equal(t, http.StatusSeeOther, rec.Code)

	doc := c.page()
	assert.Equal(t, 1, doc.Find("table.files tbody tr").Length())
	assert.Equal(t, 1, doc.Find("table.results tbody tr").Length())
}

func TestScreen_BusyConflict(t *testing.T) {
	s := newTestServer(t, Config{})
	c := newTestClient(t, s)

	c.postForm("/files", nil, map[string][]byte{"alice.pdf": pdfBytes("alice")})

	sess := c.sess(s)
	require.NoError(t, sess.Begin())
	defer sess.Finish(nil, nil)

	rec := c.postForm("/screen", map[string]string{"qualities": "Go"}, nil)
	require.Equal(t, http.StatusConflict, rec.Code)
	assert.Contains(t, rec.Body.String(), "screening already in progress")
}

func TestIndex_BusyDisablesSubmit(t *testing.T) {
	s := newTestServer(t, Config{})
	c := newTestClient(t, s)

	c.get("/")
	sess := c.sess(s)
	require.NoError(t, sess.Begin())
	defer sess.Finish(nil, nil)

	button := c.page().Find("button.primary")
	require.Equal(t, 1, button.Length())
	_, disabled := button.Attr("disabled")
	assert.True(t, disabled)
	assert.Equal(t, "Screening...", strings.TrimSpace(button.Text()))
}

func TestScreen_RemoteStrategy(t *testing.T) {
	backend := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, http.MethodPost, r.Method)
		require.Equal(t, "/api/screen", r.URL.Path)

		require.NoError(t, r.ParseMultipartForm(1<<20))
		assert.Equal(t, "Go", r.FormValue("qualities"))
		assert.Len(t, r.MultipartForm.File["files"], 1)

		w.Header().Set("Content-Type", "application/json")
		fmt.Fprint(w, `[{"id":"ab12cd34ef","name":"alice","score":88.4,"notes":"Go","url":null}]`)
	}))
	defer backend.Close()

	s := newTestServer(t, Config{BackendURL: backend.URL})
	c := newTestClient(t, s)

	c.postForm("/files", nil, map[string][]byte{"alice.pdf": pdfBytes("alice")})
	rec := c.postForm("/screen", map[string]string{"qualities": "Go", "remote": "on"}, nil)
	require.Equal(t, http.StatusSeeOther, rec.Code)

	rows := c.page().Find("table.results tbody tr")
	require.Equal(t, 1, rows.Length())

	cells := rows.Find("td")
	assert.Equal(t, "alice", cells.Eq(1).Text())
	assert.Equal(t, "88 / 100", cells.Eq(2).Text())

	// The record is matched back to the upload by stripped name, so the
	// link serves the original bytes.
	link := cells.Eq(3).Find("a")
	require.Equal(t, 1, link.Length())
	href, ok := link.Attr("href")
	require.True(t, ok)
	got := c.get(href)
	require.Equal(t, http.StatusOK, got.Code)
	assert.Equal(t, pdfBytes("alice"), got.Body.Bytes())
}

func TestScreen_RemoteFailureShownInline(t *testing.T) {
	backend := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadRequest)
		fmt.Fprint(w, "Qualities are required.")
	}))
	defer backend.Close()

	s := newTestServer(t, Config{BackendURL: backend.URL})
	c := newTestClient(t, s)

	c.postForm("/files", nil, map[string][]byte{"alice.pdf": pdfBytes("alice")})

	// A successful mock pass first, so the failure visibly clears results.
	c.postForm("/screen", map[string]string{"qualities": "Go"}, nil)
	require.Equal(t, 1, c.page().Find("table.results tbody tr").Length())

	rec := c.postForm("/screen", map[string]string{"qualities": "Go", "remote": "on"}, nil)
	require.Equal(t, http.StatusSeeOther, rec.Code)

	doc := c.page()
	assert.Equal(t, "Qualities are required.", strings.TrimSpace(doc.Find(".error").Text()))
	assert.Zero(t, doc.Find("table.results").Length(), "failed run should clear prior results")
}

func TestHealthz(t *testing.T) {
	s := newTestServer(t, Config{})
	c := newTestClient(t, s)

	rec := c.get("/healthz")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `{"ok": true}`, rec.Body.String())
}
