// Copyright (c) 2026 dobashi.
// Use of this source code is governed by an MIT-style
// license that can be found in the LICENSE file.

package middleware

import (
	"context"
	"errors"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/dobashi/itaban/internal/post"
	"github.com/dobashi/itaban/internal/setting"
	"github.com/dobashi/itaban/internal/validator"
)

func newTestRequest() *Request {
	w := httptest.NewRecorder()
	r := httptest.NewRequest("POST", "/test/bbs.cgi", nil)
	r.RemoteAddr = "203.0.113.1:1234"
	board, _ := validator.ParseAlphaNum("news")
	return NewRequest(board, validator.Digits{}, w, r)
}

func TestDateTimeAfterRendersFixedFormat(t *testing.T) {
	loc := time.FixedZone("JST", 9*60*60)
	fixed := time.Date(2000, time.January, 1, 12, 51, 48, 970000000, loc)

	dt := &DateTime{tz: loc}
	ctx := context.WithValue(context.Background(), dateTimeCtxKey{}, fixed)

	p := post.New(nil, nil, nil)
	s := setting.Parse(nil)
	if err := dt.After(p, ctx, s); err != nil {
		t.Fatalf("After: %v", err)
	}

	want := "2000/01/01(\x93\x79) 12:51:48.97"
	if got := string(*p.DatetimeMut()); got != want {
		t.Fatalf("datetime = %q, want %q", got, want)
	}
}

func TestDateTimeLastCentisecondDoesNotRollOver(t *testing.T) {
	loc := time.UTC
	// A nanosecond component of 999999999 truncates to centisecond 99,
	// the last one of the second; it does not carry into the next
	// second.
	fixed := time.Date(2020, time.June, 30, 23, 59, 59, 999999999, loc)

	dt := &DateTime{tz: loc}
	ctx := context.WithValue(context.Background(), dateTimeCtxKey{}, fixed)
	p := post.New(nil, nil, nil)
	s := setting.Parse(nil)
	if err := dt.After(p, ctx, s); err != nil {
		t.Fatalf("After: %v", err)
	}
	got := string(*p.DatetimeMut())
	if want := "2020/06/30(\x89\xCE) 23:59:59.99"; got != want {
		t.Fatalf("datetime = %q, want %q", got, want)
	}
}

func TestAppendDelimitedAddsSpaceOnce(t *testing.T) {
	buf := []byte("2000/01/01(Sat) 00:00:00.00")
	appendDelimited(&buf, []byte("ID:abc"))
	if got := string(buf); got != "2000/01/01(Sat) 00:00:00.00 ID:abc" {
		t.Fatalf("got %q", got)
	}

	empty := []byte{}
	appendDelimited(&empty, []byte("ID:abc"))
	if got := string(empty); got != "ID:abc" {
		t.Fatalf("got %q, want no leading space on empty buffer", got)
	}
}

func TestPipelineShortCircuitsOnBeforeError(t *testing.T) {
	boom := errors.New("boom")
	pipeline := NewPipeline()
	pipeline.AttachBefore(beforeFunc(func(ctx context.Context, p *post.Post, req *Request, s *setting.Settings) (context.Context, error) {
		return ctx, boom
	}))
	ran := false
	pipeline.AttachAfter(afterFunc(func(p *post.Post, ctx context.Context, s *setting.Settings) error {
		ran = true
		return nil
	}))

	err := pipeline.Apply(context.Background(), post.New(nil, nil, nil), newTestRequest(), setting.Parse(nil))
	if !errors.Is(err, boom) {
		t.Fatalf("expected boom, got %v", err)
	}
	if ran {
		t.Fatal("after middleware should not run once before fails")
	}
}

func TestCapSuppressesId(t *testing.T) {
	pipeline := NewPipeline()
	pipeline.Attach(Cap{})
	pipeline.AttachBefore(beforeFunc(func(ctx context.Context, p *post.Post, req *Request, s *setting.Settings) (context.Context, error) {
		if !isCapped(ctx) {
			t.Fatal("expected Cap's before middleware to have already marked the context")
		}
		return ctx, nil
	}))

	if err := pipeline.Apply(context.Background(), post.New(nil, nil, nil), newTestRequest(), setting.Parse(nil)); err != nil {
		t.Fatalf("Apply: %v", err)
	}
}

type beforeFunc func(ctx context.Context, p *post.Post, req *Request, s *setting.Settings) (context.Context, error)

func (f beforeFunc) Before(ctx context.Context, p *post.Post, req *Request, s *setting.Settings) (context.Context, error) {
	return f(ctx, p, req, s)
}

type afterFunc func(p *post.Post, ctx context.Context, s *setting.Settings) error

func (f afterFunc) After(p *post.Post, ctx context.Context, s *setting.Settings) error {
	return f(p, ctx, s)
}
