// Copyright (c) 2026 dobashi.
// Use of this source code is governed by an MIT-style
// license that can be found in the LICENSE file.

// Package cacheable bundles a byte-oriented body with the HTTP
// cache-validation metadata (ETag, Last-Modified) the legacy board wire
// format needs, and derives both from an opaque identity plus a
// modification instant the same way every time.
package cacheable

import (
	"fmt"
	"math"
	"time"
)

const (
	etagInnerLen = 11
	etagLen      = etagInnerLen + 2 // quotes
	rfc822Len    = 29
)

const b64enc = "ABCDEFGHIJKLMNOPQRSTUVWXYZabcdefghijklmnopqrstuvwxyz0123456789+/"

// sentinelSec is stored as metadata.mtimeSec for a Default artifact so
// that no real If-Modified-Since date (whose seconds are always greater
// than math.MinInt64) can ever satisfy "tm.sec < metadata.mtime.sec".
const sentinelSec = math.MinInt64

// Metadata is the HTTP cache-validator pair attached to an Artifact: a
// 13-byte quoted ETag and a 29-byte RFC 822 Last-Modified string, plus
// the raw (sec, nsec) the two were derived from.
type Metadata struct {
	ETag      string
	Modified  string
	MtimeSec  int64
	MtimeNsec int32
}

// NewMetadata derives fresh validators for id, stamped at mtime.
func NewMetadata(id uint64, mtime time.Time) Metadata {
	m := Metadata{
		MtimeSec:  mtime.Unix(),
		MtimeNsec: int32(mtime.Nanosecond()),
	}
	m.ETag = deriveETag(id, m.MtimeSec)
	m.Modified = formatRFC822(mtime)
	return m
}

// defaultMetadata produces the sentinel validators used by a zero-value
// Artifact: an ETag no real client could already hold, and an mtime no
// real If-Modified-Since date precedes.
func defaultMetadata() Metadata {
	return Metadata{
		ETag: deriveETag(0, sentinelSec),
		// The display string only needs to be a well-formed 29-byte
		// RFC 822 date; the sentinelSec comparison is what actually
		// guarantees a Default artifact never satisfies a client's
		// cache, so the epoch is a safe stand-in here (time.Time
		// can't format math.MinInt64 seconds without overflowing).
		Modified:  formatRFC822(time.Unix(0, 0).UTC()),
		MtimeSec:  sentinelSec,
		MtimeNsec: 0,
	}
}

// deriveETag follows the shape of the legacy etag algorithm: hash the
// identity by a wrapping multiply against the modification second,
// then peel off 11 base64 characters from the hash's low six bits
// (hash & 0b111111), shifting it right by six after each one.
func deriveETag(id uint64, mtimeSec int64) string {
	hash := id * uint64(mtimeSec)

	buf := make([]byte, etagLen)
	buf[0] = '"'
	buf[etagLen-1] = '"'
	for i := 0; i < etagInnerLen; i++ {
		buf[1+i] = b64enc[hash&0b111111]
		hash >>= 6
	}
	return string(buf)
}

func formatRFC822(t time.Time) string {
	s := t.UTC().Format(http822Format)
	if len(s) != rfc822Len {
		// Pad/trim defensively so the byte width invariant always
		// holds even for single-digit years etc.; this never
		// triggers for Format's own zero-padded layout but keeps
		// the contract explicit rather than assumed.
		s = fmt.Sprintf("%-29s", s)[:rfc822Len]
	}
	return s
}

// http822Format matches net/http's TimeFormat exactly: "Mon, 02 Jan 2006
// 15:04:05 GMT", 29 bytes wide.
const http822Format = "Mon, 02 Jan 2006 15:04:05 GMT"

// Artifact bundles a body with its cache metadata. The zero value is
// not usable directly; use Default or New.
type Artifact[T any] struct {
	body T
	meta Metadata
}

// New wraps body with pre-derived metadata.
func New[T any](body T, meta Metadata) *Artifact[T] {
	return &Artifact[T]{body: body, meta: meta}
}

// Default returns an empty artifact whose validators can never be
// satisfied by a real client request.
func Default[T any]() *Artifact[T] {
	var zero T
	return &Artifact[T]{body: zero, meta: defaultMetadata()}
}

// Modify re-stamps the artifact at now for identity id and returns a
// pointer to the body for in-place mutation.
func (a *Artifact[T]) Modify(id uint64, now time.Time) *T {
	a.meta = NewMetadata(id, now)
	return &a.body
}

// Body returns the artifact's body.
func (a *Artifact[T]) Body() T {
	return a.body
}

// BodyMut returns a pointer to the artifact's body for in-place edits
// that should not by themselves re-stamp the metadata (callers that
// want a fresh ETag must call Modify once they're done writing).
func (a *Artifact[T]) BodyMut() *T {
	return &a.body
}

// Metadata returns the artifact's current validators.
func (a *Artifact[T]) Metadata() Metadata {
	return a.meta
}
