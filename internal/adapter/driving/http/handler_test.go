package httphandler_test

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ericfisherdev/reviewregistry/internal/adapter/driven/registryfile"
	httphandler "github.com/ericfisherdev/reviewregistry/internal/adapter/driving/http"
	"github.com/ericfisherdev/reviewregistry/internal/application"
	"github.com/ericfisherdev/reviewregistry/internal/domain/model"
)

// --- Mock implementations ---

type mockGenerator struct {
	mu      sync.Mutex
	result  *application.GenerateResult
	err     error
	block   chan struct{}
	entered chan struct{}
	repos   []string
}

func (m *mockGenerator) Generate(_ context.Context, repo string) (*application.GenerateResult, error) {
	m.mu.Lock()
	m.repos = append(m.repos, repo)
	m.mu.Unlock()
	if m.entered != nil {
		m.entered <- struct{}{}
	}
	if m.block != nil {
		<-m.block
	}
	return m.result, m.err
}

func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func sampleRegistry() *model.Registry {
	reg := &model.Registry{
		Version:     model.RegistryVersion,
		GeneratedAt: "2026-02-12T10:00:00+00:00",
		Source:      model.Source{Type: model.SourceTypeGitHubIssues, Repo: "o/r"},
	}
	reg.Reviews.Set("abc-123", &model.Entry{
		State:          model.ReviewStateReviewed,
		ReviewIssueURL: "https://github.com/o/r/issues/1?a=1&b=2",
		Reviewers:      []string{"alice"},
	})
	reg.Reviews.Set("def-456", &model.Entry{
		State:          model.ReviewStateQueued,
		ReviewIssueURL: "https://github.com/o/r/issues/2",
	})
	return reg
}

func setupServer(t *testing.T, withRegistry bool, gen httphandler.Generator) (*httptest.Server, string) {
	t.Helper()
	path := filepath.Join(t.TempDir(), "reviews.json")
	if withRegistry {
		require.NoError(t, registryfile.Write(path, sampleRegistry()))
	}

	h := httphandler.NewHandler(path, "o/r", gen, discardLogger())
	srv := httptest.NewServer(httphandler.NewServeMux(h, discardLogger()))
	t.Cleanup(srv.Close)
	return srv, path
}

func get(t *testing.T, url string) (*http.Response, []byte) {
	t.Helper()
	resp, err := http.Get(url)
	require.NoError(t, err)
	defer resp.Body.Close()
	body, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	return resp, body
}

func TestRegistryFile(t *testing.T) {
	srv, path := setupServer(t, true, nil)

	resp, body := get(t, srv.URL+"/reviews.json")

	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, "*", resp.Header.Get("Access-Control-Allow-Origin"))
	assert.Equal(t, "application/json; charset=utf-8", resp.Header.Get("Content-Type"))

	onDisk, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t, string(onDisk), string(body))
}

func TestRegistryFile_NotGenerated(t *testing.T) {
	srv, _ := setupServer(t, false, nil)

	resp, body := get(t, srv.URL+"/reviews.json")

	assert.Equal(t, http.StatusNotFound, resp.StatusCode)
	assert.JSONEq(t, `{"error":"registry not generated yet"}`, string(body))
}

func TestListReviews(t *testing.T) {
	srv, _ := setupServer(t, true, nil)

	resp, body := get(t, srv.URL+"/api/v1/reviews")

	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.JSONEq(t, `[
		{"review_id":"abc-123","state":"reviewed","review_issue_url":"https://github.com/o/r/issues/1?a=1&b=2","reviewers":["alice"]},
		{"review_id":"def-456","state":"queued","review_issue_url":"https://github.com/o/r/issues/2"}
	]`, string(body))
	assert.Contains(t, string(body), "?a=1&b=2", "URLs must not be HTML-escaped")
}

func TestGetReview(t *testing.T) {
	srv, _ := setupServer(t, true, nil)

	resp, body := get(t, srv.URL+"/api/v1/reviews/def-456")
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.JSONEq(t, `{"review_id":"def-456","state":"queued","review_issue_url":"https://github.com/o/r/issues/2"}`, string(body))

	resp, _ = get(t, srv.URL+"/api/v1/reviews/missing")
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)
}

func TestRegenerate(t *testing.T) {
	gen := &mockGenerator{result: &application.GenerateResult{
		Registry:   sampleRegistry(),
		StaleCount: 1,
		Changes: []application.StateChange{
			{ReviewID: "abc-123", From: model.ReviewStateQueued, To: model.ReviewStateReviewed},
			{ReviewID: "def-456", To: model.ReviewStateQueued},
		},
	}}
	srv, _ := setupServer(t, true, gen)

	resp, err := http.Post(srv.URL+"/api/v1/regenerate", "application/json", nil)
	require.NoError(t, err)
	defer resp.Body.Close()

	require.Equal(t, http.StatusOK, resp.StatusCode)
	var got httphandler.RegenerateResponse
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&got))
	assert.Equal(t, httphandler.RegenerateResponse{
		GeneratedAt: "2026-02-12T10:00:00+00:00",
		Reviews:     2,
		Stale:       1,
		Changes: []httphandler.StateChangeResponse{
			{ReviewID: "abc-123", From: "queued", To: "reviewed"},
			{ReviewID: "def-456", To: "queued"},
		},
	}, got)
	assert.Equal(t, []string{"o/r"}, gen.repos)
}

func TestRegenerate_Errors(t *testing.T) {
	t.Run("disabled", func(t *testing.T) {
		srv, _ := setupServer(t, true, nil)

		resp, err := http.Post(srv.URL+"/api/v1/regenerate", "application/json", nil)
		require.NoError(t, err)
		resp.Body.Close()

		assert.Equal(t, http.StatusNotImplemented, resp.StatusCode)
	})

	t.Run("generator failure", func(t *testing.T) {
		srv, _ := setupServer(t, true, &mockGenerator{err: errors.New("search failed")})

		resp, err := http.Post(srv.URL+"/api/v1/regenerate", "application/json", nil)
		require.NoError(t, err)
		resp.Body.Close()

		assert.Equal(t, http.StatusBadGateway, resp.StatusCode)
	})

	t.Run("concurrent request", func(t *testing.T) {
		gen := &mockGenerator{
			result:  &application.GenerateResult{Registry: sampleRegistry()},
			block:   make(chan struct{}),
			entered: make(chan struct{}, 1),
		}
		srv, _ := setupServer(t, true, gen)

		first := make(chan int, 1)
		go func() {
			resp, err := http.Post(srv.URL+"/api/v1/regenerate", "application/json", nil)
			if err != nil {
				first <- 0
				return
			}
			resp.Body.Close()
			first <- resp.StatusCode
		}()
		<-gen.entered

		resp, err := http.Post(srv.URL+"/api/v1/regenerate", "application/json", nil)
		require.NoError(t, err)
		resp.Body.Close()
		assert.Equal(t, http.StatusConflict, resp.StatusCode)

		close(gen.block)
		assert.Equal(t, http.StatusOK, <-first)
	})
}

func TestHealth(t *testing.T) {
	srv, _ := setupServer(t, false, nil)

	resp, body := get(t, srv.URL+"/api/v1/health")

	assert.Equal(t, http.StatusOK, resp.StatusCode)
	var got httphandler.HealthResponse
	require.NoError(t, json.Unmarshal(body, &got))
	assert.Equal(t, "ok", got.Status)
	assert.NotEmpty(t, got.Time)
}

func TestCORSPreflight(t *testing.T) {
	srv, _ := setupServer(t, false, nil)

	req, err := http.NewRequest(http.MethodOptions, srv.URL+"/api/v1/regenerate", nil)
	require.NoError(t, err)
	resp, err := http.DefaultClient.Do(req)
	require.NoError(t, err)
	resp.Body.Close()

	assert.Equal(t, http.StatusNoContent, resp.StatusCode)
	assert.Contains(t, resp.Header.Get("Access-Control-Allow-Methods"), "POST")
}
