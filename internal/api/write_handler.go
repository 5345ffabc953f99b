// Copyright (c) 2026 dobashi.
// Use of this source code is governed by an MIT-style
// license that can be found in the LICENSE file.

package api

import (
	"fmt"
	"net/http"
	"strconv"

	"github.com/dobashi/itaban/internal/bbs"
	"github.com/dobashi/itaban/internal/middleware"
	"github.com/dobashi/itaban/internal/post"
	"github.com/dobashi/itaban/internal/validator"
	"github.com/dobashi/itaban/pkg/log"
)

// successMessage is the Shift_JIS encoding of "書き込みました。"
// ("Your post has been written."), the legacy client's expected
// success body.
var successMessage = []byte{
	0x8F, 0x91, 0x82, 0xAB, 0x8D, 0x9E, 0x82, 0xDD, 0x82, 0xDC, 0x82, 0xB5, 0x82, 0xBD, 0x81, 0x42,
}

func (a *API) bbsCgi(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseForm(); err != nil {
		http.Error(w, "Malformed form body", http.StatusBadRequest)
		return
	}

	boardID := r.FormValue("bbs")
	board, ok := a.bbs.Board(boardID)
	if !ok {
		http.Error(w, "Board not found", http.StatusNotFound)
		return
	}

	subjectRaw := r.FormValue("subject")
	hasSubject := subjectRaw != ""
	var title []byte
	if hasSubject {
		title = validator.Escaped(subjectRaw)
	}

	handle, key, err := openOrCreateTopic(board, r.FormValue("key"), hasSubject, title)
	if err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}
	if handle == nil {
		http.Error(w, "Thread not found", http.StatusNotFound)
		return
	}
	defer handle.Close()

	dat, err := handle.Dat()
	if err != nil {
		log.Errorf("api: opening dat file for %s/%d: %v", board.Id(), handle.Id(), err)
		http.Error(w, "Internal error", http.StatusInternalServerError)
		return
	}
	defer dat.Close()

	p := post.New(
		validator.Escaped(r.FormValue("FROM")),
		validator.Escaped(r.FormValue("mail")),
		validator.Escaped(r.FormValue("MESSAGE")),
	)
	if hasSubject {
		p.SetTitle(title)
	}

	boardAlpha, err := validator.ParseAlphaNum(board.Id())
	if err != nil {
		// Unreachable: board ids are validated alphanumeric at
		// workspace-load time.
		http.Error(w, "Internal error", http.StatusInternalServerError)
		return
	}
	mreq := middleware.NewRequest(boardAlpha, key, w, r)
	if err := a.pipeline.Apply(r.Context(), p, mreq, board.Settings()); err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	if _, err := dat.Write(datLine(p)); err != nil {
		log.Errorf("api: writing to %s/%d.dat: %v", board.Id(), handle.Id(), err)
		http.Error(w, "Internal error", http.StatusInternalServerError)
		return
	}
	dat.IncrementPostCount()

	a.metrics.RecordPost(board.Id())

	w.Header().Set("Location", fmt.Sprintf("read.cgi/%s/%s/", board.Id(), key.Raw))
	w.WriteHeader(http.StatusCreated)
	w.Write(successMessage)
}

// openOrCreateTopic resolves the thread a post targets: an existing
// one by key, or a freshly created one when a subject was given
// instead. handle is nil (with no error) only when key names a thread
// that doesn't exist.
func openOrCreateTopic(board *bbs.Board, keyRaw string, hasSubject bool, title []byte) (*bbs.TopicHandle, validator.Digits, error) {
	if keyRaw != "" {
		d, err := validator.ParseDigits(keyRaw)
		if err != nil {
			return nil, validator.Digits{}, fmt.Errorf("invalid key %q", keyRaw)
		}
		h, ok := board.OpenTopic(d.Number)
		if !ok {
			return nil, d, nil
		}
		return h, d, nil
	}
	if hasSubject {
		h := board.CreateTopic(title)
		return h, validator.NewDigits(h.Id(), strconv.FormatUint(h.Id(), 10)), nil
	}
	return nil, validator.Digits{}, fmt.Errorf("either `key` or `subject` parameter is required")
}

// datLine renders a post as the wire-exact append-only log line:
// "name<>mail<>datetime<> body <>title\n", with title only present
// for a thread's opening post -- needed so a restarted server's
// LoadTopic can recover it.
func datLine(p *post.Post) []byte {
	line := make([]byte, 0, len(p.Name())+len(p.Mail())+len(p.Datetime())+len(p.Body())+len(p.Title())+11)
	line = append(line, p.Name()...)
	line = append(line, "<>"...)
	line = append(line, p.Mail()...)
	line = append(line, "<>"...)
	line = append(line, p.Datetime()...)
	line = append(line, "<> "...)
	line = append(line, p.Body()...)
	line = append(line, " <>"...)
	if p.IsNewThread() {
		line = append(line, p.Title()...)
	}
	line = append(line, '\n')
	return line
}
