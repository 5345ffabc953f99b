// Copyright (c) 2026 dobashi.
// Use of this source code is governed by an MIT-style
// license that can be found in the LICENSE file.

package api

import (
	"net/http"
	"os"
	"strconv"
	"strings"

	"github.com/gorilla/mux"

	"github.com/dobashi/itaban/internal/httpcache"
	"github.com/dobashi/itaban/internal/validator"
	"github.com/dobashi/itaban/pkg/cacheable"
)

func (a *API) subjectTxt(w http.ResponseWriter, r *http.Request) {
	board, ok := a.bbs.Board(mux.Vars(r)["board"])
	if !ok {
		boardNotFound(w)
		return
	}
	artifact := board.SubjectTxt()
	status := httpcache.Respond(w, r, artifact.Body(), artifact.Metadata())
	a.metrics.RecordCacheResponse(status)
}

func (a *API) settingTxt(w http.ResponseWriter, r *http.Request) {
	board, ok := a.bbs.Board(mux.Vars(r)["board"])
	if !ok {
		boardNotFound(w)
		return
	}
	artifact := board.SettingTxt()
	status := httpcache.Respond(w, r, artifact.Body(), artifact.Metadata())
	a.metrics.RecordCacheResponse(status)
}

func (a *API) dat(w http.ResponseWriter, r *http.Request) {
	vars := mux.Vars(r)
	board, ok := a.bbs.Board(vars["board"])
	if !ok {
		boardNotFound(w)
		return
	}

	fname := vars["dat"]
	if !strings.HasSuffix(fname, ".dat") {
		http.NotFound(w, r)
		return
	}
	id, err := strconv.ParseUint(strings.TrimSuffix(fname, ".dat"), 10, 64)
	if err != nil {
		http.NotFound(w, r)
		return
	}
	if _, ok := board.Topic(id); !ok {
		http.NotFound(w, r)
		return
	}

	path := board.DatPath(id)
	data, err := os.ReadFile(path)
	if err != nil {
		http.NotFound(w, r)
		return
	}
	info, err := os.Stat(path)
	if err != nil {
		http.NotFound(w, r)
		return
	}

	status := httpcache.Respond(w, r, data, cacheable.NewMetadata(id, info.ModTime()))
	a.metrics.RecordCacheResponse(status)
}

func (a *API) readCgi(w http.ResponseWriter, r *http.Request) {
	vars := mux.Vars(r)
	if _, err := validator.ParseAlphaNum(vars["board"]); err != nil {
		http.NotFound(w, r)
		return
	}
	if _, err := validator.ParseDigits(vars["key"]); err != nil {
		http.NotFound(w, r)
		return
	}

	status := httpcache.Respond(w, r, a.readHTML.Body(), a.readHTML.Metadata())
	a.metrics.RecordCacheResponse(status)
}
