// Copyright (c) 2026 dobashi.
// Use of this source code is governed by an MIT-style
// license that can be found in the LICENSE file.

package middleware

import (
	"context"
	"fmt"
	"time"

	"github.com/dobashi/itaban/internal/post"
	"github.com/dobashi/itaban/internal/setting"
)

// jst is the fixed +9:00 offset the legacy wire format's datetime
// field is always stamped in, regardless of server locale.
var jst = time.FixedZone("JST", 9*60*60)

// weekdaySJIS holds the single-byte-pair Shift_JIS encodings of
// 日月火水木金土, indexed by time.Weekday (Sunday = 0).
var weekdaySJIS = [7][]byte{
	{0x93, 0xFA}, // 日
	{0x8C, 0x8E}, // 月
	{0x89, 0xCE}, // 火
	{0x90, 0x85}, // 水
	{0x96, 0xD8}, // 木
	{0x8B, 0xE0}, // 金
	{0x93, 0x79}, // 土
}

type dateTimeCtxKey struct{}

// DateTime stamps every post with the current instant in tz, rendered
// as "YYYY/MM/DD(W) HH:MM:SS.cc" on the after pass. Its before pass
// only records the instant, so every other after-middleware observes
// the same timestamp this one renders.
type DateTime struct {
	tz *time.Location
}

// NewJST returns the standard JST-stamping DateTime middleware.
func NewJST() *DateTime {
	return &DateTime{tz: jst}
}

// NewDateTime returns a DateTime middleware stamping in an arbitrary
// zone, e.g. UTC for tests.
func NewDateTime(tz *time.Location) *DateTime {
	return &DateTime{tz: tz}
}

func (d *DateTime) Before(ctx context.Context, _ *post.Post, _ *Request, _ *setting.Settings) (context.Context, error) {
	now := time.Now().In(d.tz)
	return context.WithValue(ctx, dateTimeCtxKey{}, now), nil
}

func (d *DateTime) After(p *post.Post, ctx context.Context, s *setting.Settings) error {
	now, ok := ctx.Value(dateTimeCtxKey{}).(time.Time)
	if !ok {
		return nil
	}

	y, mon, day := now.Date()
	wday := int(now.Weekday())
	glyph := weekdaySJIS[wday]
	if weeks := s.YmdWeeks(); weeks != nil {
		glyph = []byte(weeks[wday])
	}

	h, mi, se := now.Clock()
	cs := now.Nanosecond() / 10_000_000
	if cs >= 100 { // leap second rollover
		cs -= 100
		se++
	}

	rendered := make([]byte, 0, 24+len(glyph))
	rendered = fmt.Appendf(rendered, "%04d/%02d/%02d(", y, mon, day)
	rendered = append(rendered, glyph...)
	rendered = fmt.Appendf(rendered, ") %02d:%02d:%02d.%02d", h, mi, se, cs)

	appendDelimited(p.DatetimeMut(), rendered)
	return nil
}

// appendDelimited appends suffix to *buf, inserting a separating space
// first unless *buf is empty or already ends in one.
func appendDelimited(buf *[]byte, suffix []byte) {
	if len(*buf) > 0 && (*buf)[len(*buf)-1] != ' ' {
		*buf = append(*buf, ' ')
	}
	*buf = append(*buf, suffix...)
}
