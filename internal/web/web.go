// Package web serves the screening form UI: a single server-rendered page
// where uploads, criteria text, and results live in a per-browser session.
package web

import (
	"context"
	"embed"
	"encoding/json"
	"fmt"
	"html/template"
	"io"
	"net/http"
	"os"
	"os/signal"
	"strconv"
	"syscall"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog/log"

	"github.com/jonathan/cv-screener/internal/ranking"
	"github.com/jonathan/cv-screener/internal/session"
	"github.com/jonathan/cv-screener/internal/types"
)

//go:embed templates/*
var templatesFS embed.FS

// sessionCookie names the browser cookie that keys the form session.
const sessionCookie = "cv_session"

// maxUploadMemory bounds the in-memory portion of multipart parsing.
const maxUploadMemory = 10 << 20

// Server serves the screening form UI.
type Server struct {
	httpServer *http.Server
	store      *session.Store
	tmpl       *template.Template
	mock       ranking.Ranker
	remote     ranking.Ranker
}

// Config holds form server configuration.
type Config struct {
	Host       string
	Port       int
	BackendURL string        // screening API base for remote submissions
	MockDelay  time.Duration // latency of the built-in scorer, negative disables
	SessionTTL time.Duration // idle time before a session and its uploads are evicted
}

// New creates a form server instance.
func New(cfg Config) (*Server, error) {
	tmpl, err := template.ParseFS(templatesFS, "templates/*.html")
	if err != nil {
		return nil, fmt.Errorf("failed to parse templates: %w", err)
	}

	s := &Server{
		store:  session.NewStore(cfg.SessionTTL, 0),
		tmpl:   tmpl,
		mock:   ranking.NewMockRanker(cfg.MockDelay),
		remote: ranking.NewRemoteRanker(cfg.BackendURL, nil),
	}

	// Setup router
	mux := http.NewServeMux()
	mux.HandleFunc("GET /{$}", s.handleIndex)
	mux.HandleFunc("POST /files", s.handleAddFiles)
	mux.HandleFunc("POST /files/remove", s.handleRemoveFile)
	mux.HandleFunc("GET /files/{id}", s.handleServeFile)
	mux.HandleFunc("POST /reset", s.handleReset)
	mux.HandleFunc("POST /screen", s.handleScreen)
	mux.HandleFunc("GET /healthz", s.handleHealthz)

	s.httpServer = &http.Server{
		Addr:         fmt.Sprintf("%s:%d", cfg.Host, cfg.Port),
		Handler:      s.withLogging(mux),
		ReadTimeout:  30 * time.Second,
		WriteTimeout: 300 * time.Second, // remote screening runs inside the request
		IdleTimeout:  60 * time.Second,
	}

	return s, nil
}

// Start begins listening for requests
func (s *Server) Start() error {
	// Graceful shutdown
	stop := make(chan os.Signal, 1)
	signal.Notify(stop, os.Interrupt, syscall.SIGTERM)

	go func() {
		log.Info().Str("addr", s.httpServer.Addr).Msg("screening form listening")
		if err := s.httpServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatal().Err(err).Msg("server error")
		}
	}()

	<-stop
	log.Info().Msg("shutting down server")

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := s.httpServer.Shutdown(ctx); err != nil {
		return fmt.Errorf("server shutdown failed: %w", err)
	}

	// Stop session eviction goroutine
	s.store.Stop()

	log.Info().Msg("server stopped")
	return nil
}

// sessionFor returns the browser's session, creating one and setting the
// cookie when the request carries none or a stale ID.
func (s *Server) sessionFor(w http.ResponseWriter, r *http.Request) *session.Session {
	if c, err := r.Cookie(sessionCookie); err == nil {
		if id, err := uuid.Parse(c.Value); err == nil {
			if sess, ok := s.store.Get(id); ok {
				return sess
			}
		}
	}

	sess := s.store.Create()
	http.SetCookie(w, &http.Cookie{
		Name:     sessionCookie,
		Value:    sess.ID.String(),
		Path:     "/",
		HttpOnly: true,
		SameSite: http.SameSiteLaxMode,
	})
	return sess
}

// handleIndex renders the form page from the current session state.
func (s *Server) handleIndex(w http.ResponseWriter, r *http.Request) {
	sess := s.sessionFor(w, r)
	s.render(w, buildView(sess))
}

// handleAddFiles merges picked files into the session collection.
func (s *Server) handleAddFiles(w http.ResponseWriter, r *http.Request) {
	sess := s.sessionFor(w, r)

	if err := r.ParseMultipartForm(maxUploadMemory); err != nil {
		log.Warn().Err(err).Msg("rejecting malformed upload")
		http.Error(w, "Invalid upload", http.StatusBadRequest)
		return
	}
	captureDraft(sess, r)

	files, err := formFiles(r)
	if err != nil {
		http.Error(w, "Failed to read upload", http.StatusInternalServerError)
		return
	}

	added := sess.AddFiles(files...)
	log.Debug().Int("received", len(files)).Int("added", added).Msg("files added to session")

	http.Redirect(w, r, "/", http.StatusSeeOther)
}

// handleRemoveFile drops one collected file by its exact name.
func (s *Server) handleRemoveFile(w http.ResponseWriter, r *http.Request) {
	sess := s.sessionFor(w, r)
	captureDraft(sess, r)

	name := r.FormValue("name")
	if removed := sess.RemoveFile(name); removed {
		log.Debug().Str("file", name).Msg("file removed from session")
	}

	http.Redirect(w, r, "/", http.StatusSeeOther)
}

// handleReset clears the whole session: files, criteria, results, error.
func (s *Server) handleReset(w http.ResponseWriter, r *http.Request) {
	sess := s.sessionFor(w, r)
	sess.Reset()

	http.Redirect(w, r, "/", http.StatusSeeOther)
}

// handleScreen validates the session and runs one ranking pass with the
// selected strategy, storing the outcome for the follow-up page load.
func (s *Server) handleScreen(w http.ResponseWriter, r *http.Request) {
	sess := s.sessionFor(w, r)

	if err := r.ParseMultipartForm(maxUploadMemory); err != nil {
		log.Warn().Err(err).Msg("rejecting malformed submission")
		http.Error(w, "Invalid upload", http.StatusBadRequest)
		return
	}

	// Files still sitting in the picker ride along with the submission.
	files, err := formFiles(r)
	if err != nil {
		http.Error(w, "Failed to read upload", http.StatusInternalServerError)
		return
	}
	sess.AddFiles(files...)
	captureDraft(sess, r)

	if err := sess.Validate(); err != nil {
		// Records the message and clears stale results, then lets the page
		// render it inline.
		sess.Finish(nil, err)
		http.Redirect(w, r, "/", http.StatusSeeOther)
		return
	}

	if err := sess.Begin(); err != nil {
		http.Error(w, err.Error(), http.StatusConflict)
		return
	}

	ranker := s.mock
	strategy := "mock"
	if sess.Remote() {
		ranker = s.remote
		strategy = "remote"
	}

	start := time.Now()
	// A started run always completes; closing the tab must not cancel it.
	results, rankErr := ranker.Rank(context.WithoutCancel(r.Context()), sess.Files(), sess.Qualities())
	sess.Finish(results, rankErr)

	if rankErr != nil {
		log.Warn().Err(rankErr).Str("strategy", strategy).Msg("screening failed")
	} else {
		log.Info().
			Str("strategy", strategy).
			Int("candidates", len(results)).
			Dur("elapsed", time.Since(start)).
			Msg("screening complete")
	}

	http.Redirect(w, r, "/", http.StatusSeeOther)
}

// handleServeFile streams a collected upload back to the browser. Uploads
// removed from the session stop resolving, which is what revokes the links
// in old result tables.
func (s *Server) handleServeFile(w http.ResponseWriter, r *http.Request) {
	sess := s.sessionFor(w, r)

	id, err := uuid.Parse(r.PathValue("id"))
	if err != nil {
		http.NotFound(w, r)
		return
	}
	f, ok := sess.FileByID(id)
	if !ok {
		http.NotFound(w, r)
		return
	}

	w.Header().Set("Content-Type", "application/pdf")
	w.Header().Set("Content-Disposition", fmt.Sprintf("inline; filename=%q", f.Name))
	w.Header().Set("Content-Length", strconv.FormatInt(f.Size, 10))
	w.Write(f.Data)
}

// handleHealthz returns service health status
func (s *Server) handleHealthz(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	if err := json.NewEncoder(w).Encode(map[string]bool{"ok": true}); err != nil {
		log.Error().Err(err).Msg("failed to encode health response")
	}
}

// render executes the page template against the view state.
func (s *Server) render(w http.ResponseWriter, data viewData) {
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	if err := s.tmpl.ExecuteTemplate(w, "index.html", data); err != nil {
		log.Error().Err(err).Msg("failed to render page")
	}
}

// captureDraft saves the editable form fields that rode along with the
// action so they survive the redirect back to the page.
func captureDraft(sess *session.Session, r *http.Request) {
	sess.SetQualities(r.FormValue("qualities"))
	sess.SetRemote(r.FormValue("remote") != "")
}

// formFiles reads every part of the "files" field into memory.
func formFiles(r *http.Request) ([]types.CVFile, error) {
	if r.MultipartForm == nil {
		return nil, nil
	}

	var files []types.CVFile
	for _, fh := range r.MultipartForm.File["files"] {
		// Browsers submit a nameless empty part when the picker is untouched.
		if fh.Filename == "" {
			continue
		}
		part, err := fh.Open()
		if err != nil {
			return nil, fmt.Errorf("failed to open %s: %w", fh.Filename, err)
		}
		data, err := io.ReadAll(part)
		part.Close()
		if err != nil {
			return nil, fmt.Errorf("failed to read %s: %w", fh.Filename, err)
		}
		files = append(files, types.NewCVFile(fh.Filename, fh.Header.Get("Content-Type"), data))
	}
	return files, nil
}

// statusRecorder wraps http.ResponseWriter to capture the status code
type statusRecorder struct {
	http.ResponseWriter
	status int
}

func (r *statusRecorder) WriteHeader(status int) {
	r.status = status
	r.ResponseWriter.WriteHeader(status)
}

// withLogging logs each request with method, path, status, and duration.
func (s *Server) withLogging(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		rec := &statusRecorder{ResponseWriter: w, status: http.StatusOK}

		next.ServeHTTP(rec, r)

		log.Debug().
			Str("method", r.Method).
			Str("path", r.URL.Path).
			Int("status", rec.status).
			Dur("elapsed", time.Since(start)).
			Msg("request")
	})
}
