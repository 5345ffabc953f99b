// Copyright (c) 2026 dobashi.
// Use of this source code is governed by an MIT-style
// license that can be found in the LICENSE file.

// Package validator parses and validates the small set of wire-format
// tokens the BBS engine accepts from requests: alphanumeric board ids,
// decimal thread keys, and HTML-escaped form fields.
package validator

import (
	"fmt"
	"net/url"
	"strconv"
	"strings"
)

// IsAlphaNum reports whether c is an ASCII letter or digit.
func IsAlphaNum(c byte) bool {
	return ('a' <= c && c <= 'z') || ('A' <= c && c <= 'Z') || IsDigit(c)
}

// IsDigit reports whether c is an ASCII decimal digit.
func IsDigit(c byte) bool {
	return '0' <= c && c <= '9'
}

// AlphaNum validates a non-empty string of ASCII letters and digits,
// e.g. a board id.
type AlphaNum string

// ParseAlphaNum validates s as /[A-Za-z0-9]+/.
func ParseAlphaNum(s string) (AlphaNum, error) {
	if len(s) == 0 {
		return "", fmt.Errorf("validator: empty alphanumeric value")
	}
	for i := 0; i < len(s); i++ {
		if !IsAlphaNum(s[i]) {
			return "", fmt.Errorf("validator: %q is not alphanumeric", s)
		}
	}
	return AlphaNum(s), nil
}

func (a AlphaNum) String() string { return string(a) }

// Digits validates /[0-9]+/ and keeps both the parsed number and the
// exact textual form it was parsed from (needed verbatim for URLs such
// as the Location header built from a thread key).
type Digits struct {
	Number uint64
	Raw    string
}

// ParseDigits validates and parses s as a decimal uint64.
func ParseDigits(s string) (Digits, error) {
	if len(s) == 0 {
		return Digits{}, fmt.Errorf("validator: empty digit sequence")
	}
	n, err := strconv.ParseUint(s, 10, 64)
	if err != nil {
		return Digits{}, fmt.Errorf("validator: %q is not a decimal number: %w", s, err)
	}
	return Digits{Number: n, Raw: s}, nil
}

// NewDigits wraps an already-known (number, raw) pair, e.g. the id
// minted for a freshly created topic. The caller must ensure
// strconv.FormatUint(number, 10) == raw.
func NewDigits(number uint64, raw string) Digits {
	return Digits{Number: number, Raw: raw}
}

// Escaped is a percent-decoded byte string with 2channel's narrow HTML
// escaping applied: only '"', '<' and '>' are escaped, matching what
// the legacy client/server pair actually does (not a general-purpose
// HTML escaper).
func Escaped(raw string) []byte {
	decoded, err := url.QueryUnescape(raw)
	if err != nil {
		decoded = raw
	}
	return htmlEscape([]byte(decoded))
}

func htmlEscape(src []byte) []byte {
	var needsEscape bool
	for _, c := range src {
		if c == '"' || c == '<' || c == '>' {
			needsEscape = true
			break
		}
	}
	if !needsEscape {
		return src
	}

	var b strings.Builder
	b.Grow(len(src) * 2)
	for _, c := range src {
		switch c {
		case '"':
			b.WriteString("&quot;")
		case '<':
			b.WriteString("&lt;")
		case '>':
			b.WriteString("&gt;")
		default:
			b.WriteByte(c)
		}
	}
	return []byte(b.String())
}
