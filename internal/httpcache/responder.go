// Copyright (c) 2026 dobashi.
// Use of this source code is governed by an MIT-style
// license that can be found in the LICENSE file.

// Package httpcache turns a byte body plus cacheable.Metadata into an
// HTTP response: conditional-request validation (If-None-Match,
// If-Modified-Since) and single-range requests (RFC 7233 section 2.1),
// the way every board artifact (subject.txt, a thread's .dat,
// SETTING.TXT) is served.
package httpcache

import (
	"fmt"
	"net/http"
	"strconv"
	"strings"

	"github.com/dobashi/itaban/pkg/cacheable"
)

// DefaultChunkSize is the body-size threshold at or below which a response
// is sent with an explicit Content-Length (a "sized" body) rather than
// left to the server's own chunked transfer encoding (a "streamed"
// one).
const DefaultChunkSize = 4096

// Respond writes body to w as an HTTP response honoring the request's
// cache validators and any single Range header, and stamping meta's
// ETag/Last-Modified on any response that actually carries a body. It
// returns the status code written, for callers that want to record it
// (e.g. as a metric).
func Respond(w http.ResponseWriter, r *http.Request, body []byte, meta cacheable.Metadata) int {
	w.Header().Set("Accept-Ranges", "bytes")

	if inm := r.Header.Get("If-None-Match"); inm != "" && inm == meta.ETag {
		w.WriteHeader(http.StatusNotModified)
		return http.StatusNotModified
	}

	if ims := r.Header.Get("If-Modified-Since"); ims != "" {
		// Literal original behavior: a client's If-Modified-Since is
		// honored only when it is strictly earlier than the
		// artifact's mtime, not the usual "at least as new" HTTP
		// semantics.
		if tm, err := http.ParseTime(ims); err == nil && tm.Unix() < meta.MtimeSec {
			w.WriteHeader(http.StatusNotModified)
			return http.StatusNotModified
		}
	}

	slice := body
	status := http.StatusOK

	if values := r.Header.Values("Range"); len(values) > 0 {
		if len(values) > 1 {
			w.WriteHeader(http.StatusRequestedRangeNotSatisfiable)
			return http.StatusRequestedRangeNotSatisfiable
		}
		start, end, ok := parseRange(values[0], len(body))
		if !ok {
			w.WriteHeader(http.StatusRequestedRangeNotSatisfiable)
			return http.StatusRequestedRangeNotSatisfiable
		}
		slice = body[start:end]
		status = http.StatusPartialContent
		w.Header().Set("Content-Range", fmt.Sprintf("bytes %d-%d/%d", start, end-1, len(body)))
	}

	w.Header().Set("ETag", meta.ETag)
	w.Header().Set("Last-Modified", meta.Modified)
	writeSlice(w, slice, status)
	return status
}

// parseRange parses a "bytes=N-M" or "bytes=N-" header value per RFC
// 7233 section 2.1 against a body of the given length, returning a
// [start, end) slice bound. Anything else -- a missing "bytes="
// prefix, an inverted or out-of-bounds range -- reports ok=false.
func parseRange(val string, bodyLen int) (start, end int, ok bool) {
	const prefix = "bytes="
	if !strings.HasPrefix(val, prefix) {
		return 0, 0, false
	}
	spec := val[len(prefix):]

	dash := strings.IndexByte(spec, '-')
	if dash < 0 {
		return 0, 0, false
	}
	s, err := strconv.Atoi(spec[:dash])
	if err != nil || s < 0 {
		return 0, 0, false
	}

	if rest := spec[dash+1:]; rest == "" {
		if s >= bodyLen {
			return 0, 0, false
		}
		return s, bodyLen, true
	} else {
		e, err := strconv.Atoi(rest)
		if err != nil || e < s || e >= bodyLen {
			return 0, 0, false
		}
		return s, e + 1, true
	}
}

func writeSlice(w http.ResponseWriter, slice []byte, status int) {
	if len(slice) <= DefaultChunkSize {
		w.Header().Set("Content-Length", strconv.Itoa(len(slice)))
	}
	w.WriteHeader(status)
	w.Write(slice)
}
