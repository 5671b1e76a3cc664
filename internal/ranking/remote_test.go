package ranking

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRemoteRanker_RequestShape(t *testing.T) {
	var gotQualities string
	var gotFilenames []string

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, http.MethodPost, r.Method)
		require.Equal(t, "/api/screen", r.URL.Path)

		require.NoError(t, r.ParseMultipartForm(32<<20))
		gotQualities = r.FormValue("qualities")
		for _, fh := range r.MultipartForm.File["files"] {
			gotFilenames = append(gotFilenames, fh.Filename)
		}

		w.Header().Set("Content-Type", "application/json")
		_ = json.NewEncoder(w).Encode([]map[string]any{})
	}))
	defer server.Close()

	ranker := NewRemoteRanker(server.URL, server.Client())
	files := testFiles("alice.pdf", "bob.pdf")

	_, err := ranker.Rank(context.Background(), files, "Python\nSQL")
	require.NoError(t, err)

	assert.Equal(t, "Python\nSQL", gotQualities)
	assert.Equal(t, []string{"alice.pdf", "bob.pdf"}, gotFilenames)
}

func TestRemoteRanker_NormalizesAndSorts(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`[
			{"id":"aa11","name":"alice","score":150,"url":null},
			{"id":"bb22","name":"bob","score":"62.5"},
			{"id":"cc33","name":"carol","score":"not-a-number"},
			{"id":"dd44","name":"dave","score":-10}
		]`))
	}))
	defer server.Close()

	ranker := NewRemoteRanker(server.URL, server.Client())
	files := testFiles("alice.pdf", "bob.pdf", "carol.pdf")

	candidates, err := ranker.Rank(context.Background(), files, "Go")
	require.NoError(t, err)
	require.Len(t, candidates, 4)

	// Above-range clamps to 100 and keeps its upload linkage (spec example).
	assert.Equal(t, "alice", candidates[0].Name)
	assert.Equal(t, 100.0, candidates[0].Score)
	assert.NotEqual(t, uuid.Nil, candidates[0].FileID)

	assert.Equal(t, "bob", candidates[1].Name)
	assert.Equal(t, 62.5, candidates[1].Score)

	// Non-numeric and negative scores normalize to zero.
	lastTwo := []float64{candidates[2].Score, candidates[3].Score}
	assert.Equal(t, []float64{0.0, 0.0}, lastTwo)

	// "dave" was never uploaded, so no linkage.
	for _, c := range candidates {
		if c.Name == "dave" {
			assert.Equal(t, uuid.Nil, c.FileID)
		}
	}
}

func TestRemoteRanker_ErrorBodySurfacedVerbatim(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
		_, _ = w.Write([]byte("model unavailable"))
	}))
	defer server.Close()

	ranker := NewRemoteRanker(server.URL, server.Client())

	_, err := ranker.Rank(context.Background(), testFiles("alice.pdf"), "Go")
	require.Error(t, err)
	assert.Equal(t, "model unavailable", err.Error())

	var remoteErr *RemoteError
	require.ErrorAs(t, err, &remoteErr)
	assert.Equal(t, http.StatusInternalServerError, remoteErr.StatusCode)
}

func TestRemoteRanker_EmptyErrorBodyFallback(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
	}))
	defer server.Close()

	ranker := NewRemoteRanker(server.URL, server.Client())

	_, err := ranker.Rank(context.Background(), testFiles("alice.pdf"), "Go")
	require.Error(t, err)
	assert.Equal(t, "API error: 500", err.Error())
}

func TestRemoteRanker_TransportErrorWrapped(t *testing.T) {
	// Point at a server that is already closed.
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
	server.Close()

	ranker := NewRemoteRanker(server.URL, nil)

	_, err := ranker.Rank(context.Background(), testFiles("alice.pdf"), "Go")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "screen request failed")
}

func TestRemoteRanker_DefaultBaseURL(t *testing.T) {
	ranker := NewRemoteRanker("", nil)
	assert.Equal(t, DefaultBaseURL, ranker.baseURL)

	trimmed := NewRemoteRanker("http://example.com/", nil)
	assert.Equal(t, "http://example.com", trimmed.baseURL)
}
