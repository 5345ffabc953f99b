// Copyright (c) 2026 dobashi.
// Use of this source code is governed by an MIT-style
// license that can be found in the LICENSE file.

// Package api wires the board engine to HTTP: the read-only board
// artifacts (subject.txt, SETTING.TXT, a thread's .dat, the test
// read.cgi page) and the bbs.cgi write endpoint.
package api

import (
	"net/http"
	"time"

	"github.com/gorilla/mux"

	"github.com/dobashi/itaban/internal/bbs"
	"github.com/dobashi/itaban/internal/metrics"
	"github.com/dobashi/itaban/internal/middleware"
	"github.com/dobashi/itaban/pkg/cacheable"
)

// API holds everything a request handler needs: the board registry,
// the write-path middleware pipeline, optional metrics, and the
// static page served at /test/read.cgi.
type API struct {
	bbs      *bbs.Bbs
	pipeline *middleware.Pipeline
	metrics  *metrics.Metrics
	readHTML *cacheable.Artifact[[]byte]
}

// New builds an API. readHTML is the bytes to serve (with full HTTP
// cache validation) from the test read.cgi endpoint.
func New(registry *bbs.Bbs, pipeline *middleware.Pipeline, m *metrics.Metrics, readHTML []byte) *API {
	return &API{
		bbs:      registry,
		pipeline: pipeline,
		metrics:  m,
		readHTML: cacheable.New(readHTML, cacheable.NewMetadata(readHTMLIdentity, time.Now())),
	}
}

// readHTMLIdentity is the fixed cache identity fed into the static
// test page's etag derivation -- it never changes across a process
// lifetime, so a single fixed id is as good as any other.
const readHTMLIdentity uint64 = 0x726561

// Router builds the engine's gorilla/mux router.
func (a *API) Router() *mux.Router {
	r := mux.NewRouter()
	r.HandleFunc("/test/bbs.cgi", a.bbsCgi).Methods(http.MethodPost)
	r.HandleFunc("/test/read.cgi/{board}/{key}", a.readCgi).Methods(http.MethodGet)
	r.HandleFunc("/{board}/subject.txt", a.subjectTxt).Methods(http.MethodGet)
	r.HandleFunc("/{board}/SETTING.TXT", a.settingTxt).Methods(http.MethodGet)
	r.HandleFunc("/{board}/dat/{dat}", a.dat).Methods(http.MethodGet)
	return r
}

func boardNotFound(w http.ResponseWriter) {
	http.Error(w, "Board not found", http.StatusNotFound)
}
