// Copyright (c) 2026 dobashi.
// Use of this source code is governed by an MIT-style
// license that can be found in the LICENSE file.

package api

import (
	"bytes"
	"context"
	"net/http"
	"net/http/httptest"
	"net/url"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"testing"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dobashi/itaban/internal/bbs"
	"github.com/dobashi/itaban/internal/metrics"
	"github.com/dobashi/itaban/internal/middleware"
	"github.com/dobashi/itaban/internal/post"
	"github.com/dobashi/itaban/internal/setting"
)

// stubDateTime is a middleware.After that writes a fixed datetime
// field, so tests don't depend on wall-clock time.
type stubDateTime struct{}

func (stubDateTime) After(p *post.Post, ctx context.Context, s *setting.Settings) error {
	*p.DatetimeMut() = []byte("2026/07/30(Thu) 12:00:00")
	return nil
}

func newTestAPI(t *testing.T) (*API, *bbs.Board) {
	t.Helper()
	workspace := t.TempDir()
	boardDir := filepath.Join(workspace, "test")
	require.NoError(t, os.MkdirAll(filepath.Join(boardDir, "dat"), 0o755))
	require.NoError(t, os.WriteFile(filepath.Join(boardDir, "SETTING.TXT"), []byte("BBS_TITLE=Test\n"), 0o644))

	registry, err := bbs.WithWorkspace(workspace)
	require.NoError(t, err)

	pipeline := middleware.NewPipeline()
	pipeline.AttachAfter(stubDateTime{})

	met := metrics.New(prometheus.NewRegistry())

	a := New(registry, pipeline, met, []byte("<html>read</html>"))
	board, ok := registry.Board("test")
	require.True(t, ok)
	return a, board
}

func TestBbsCgiCreatesThreadAndAppendsDat(t *testing.T) {
	a, board := newTestAPI(t)

	form := url.Values{
		"bbs":     {"test"},
		"subject": {"Hello World"},
		"FROM":    {"Anon"},
		"mail":    {""},
		"MESSAGE": {"First post"},
	}
	req := httptest.NewRequest(http.MethodPost, "/test/bbs.cgi", strings.NewReader(form.Encode()))
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	rec := httptest.NewRecorder()

	a.Router().ServeHTTP(rec, req)

	require.Equal(t, http.StatusCreated, rec.Code)
	assert.Contains(t, rec.Header().Get("Location"), "read.cgi/test/")
	assert.Equal(t, successMessage, rec.Body.Bytes())
	assert.Equal(t, 1, board.TopicCount())
}

func TestBbsCgiAppendsToExistingThread(t *testing.T) {
	a, board := newTestAPI(t)

	h := board.CreateTopic([]byte("Existing"))
	dat, err := h.Dat()
	require.NoError(t, err)
	_, err = dat.Write([]byte("Anon<><>2026/07/30(Thu) 11:00:00<> opener <>Existing\n"))
	require.NoError(t, err)
	dat.IncrementPostCount()
	require.NoError(t, dat.Close())
	id := h.Id()
	h.Close()

	form := url.Values{
		"bbs":     {"test"},
		"key":     {strconv.FormatUint(id, 10)},
		"FROM":    {"Anon2"},
		"mail":    {"sage"},
		"MESSAGE": {"Second post"},
	}
	req := httptest.NewRequest(http.MethodPost, "/test/bbs.cgi", strings.NewReader(form.Encode()))
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	rec := httptest.NewRecorder()

	a.Router().ServeHTTP(rec, req)

	require.Equal(t, http.StatusCreated, rec.Code)

	view, ok := board.Topic(id)
	require.True(t, ok)
	assert.Equal(t, 2, view.PostCount)

	raw, err := os.ReadFile(board.DatPath(id))
	require.NoError(t, err)
	assert.True(t, bytes.Contains(raw, []byte("Second post")))
}

func TestBbsCgiMissingBoard(t *testing.T) {
	a, _ := newTestAPI(t)

	form := url.Values{"bbs": {"nope"}, "subject": {"x"}, "MESSAGE": {"x"}}
	req := httptest.NewRequest(http.MethodPost, "/test/bbs.cgi", strings.NewReader(form.Encode()))
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	rec := httptest.NewRecorder()

	a.Router().ServeHTTP(rec, req)
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestBbsCgiRequiresKeyOrSubject(t *testing.T) {
	a, _ := newTestAPI(t)

	form := url.Values{"bbs": {"test"}, "MESSAGE": {"x"}}
	req := httptest.NewRequest(http.MethodPost, "/test/bbs.cgi", strings.NewReader(form.Encode()))
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	rec := httptest.NewRecorder()

	a.Router().ServeHTTP(rec, req)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}
