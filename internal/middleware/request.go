// Copyright (c) 2026 dobashi.
// Use of this source code is governed by an MIT-style
// license that can be found in the LICENSE file.

// Package middleware implements the two-phase before/after post
// pipeline: before-middlewares inspect an incoming write and may
// reject it before anything is parsed further; after-middlewares
// rewrite the post's fields (chiefly its datetime line) once the rest
// of the request has been accepted.
package middleware

import (
	"net/http"

	"github.com/dobashi/itaban/internal/validator"
)

// Request is the read-only view of an incoming write a middleware is
// allowed to inspect: the validated board id and thread key, plus
// enough of the underlying HTTP exchange to look at headers, cookies,
// and the remote address.
type Request struct {
	board validator.AlphaNum
	key   validator.Digits
	r     *http.Request
	w     http.ResponseWriter
}

// NewRequest wraps an incoming write's validated board/key along with
// the HTTP request/response pair middlewares may need (remote address,
// user agent, cookies).
func NewRequest(board validator.AlphaNum, key validator.Digits, w http.ResponseWriter, r *http.Request) *Request {
	return &Request{board: board, key: key, r: r, w: w}
}

func (req *Request) Board() string  { return req.board.String() }
func (req *Request) Key() uint64    { return req.key.Number }
func (req *Request) KeyStr() string { return req.key.Raw }
func (req *Request) Remote() string { return req.r.RemoteAddr }

func (req *Request) UserAgent() string {
	return req.r.Header.Get("User-Agent")
}

// HTTP returns the underlying request, for middlewares that need more
// than the fields exposed directly (e.g. reading a cookie).
func (req *Request) HTTP() *http.Request { return req.r }

// ResponseWriter returns the underlying response writer, for
// middlewares that need to set a cookie before the handler responds.
func (req *Request) ResponseWriter() http.ResponseWriter { return req.w }
