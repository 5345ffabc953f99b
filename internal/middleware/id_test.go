// Copyright (c) 2026 dobashi.
// Use of this source code is governed by an MIT-style
// license that can be found in the LICENSE file.

package middleware

import (
	"context"
	"net/http/httptest"
	"testing"

	"github.com/dobashi/itaban/internal/post"
	"github.com/dobashi/itaban/internal/session"
	"github.com/dobashi/itaban/internal/setting"
	"github.com/dobashi/itaban/internal/validator"
)

func TestIdTokenDeterministic(t *testing.T) {
	a := idToken("identity-a", "news")
	b := idToken("identity-a", "news")
	c := idToken("identity-a", "livejupiter")
	if a != b {
		t.Fatalf("same inputs should yield the same token: %q != %q", a, b)
	}
	if a == c {
		t.Fatalf("different boards should yield different tokens: %q", a)
	}
	if len(a) != 9 {
		t.Fatalf("token length = %d, want 9", len(a))
	}
}

func TestIdAppendsTokenWhenPresent(t *testing.T) {
	id := NewId(session.New())
	ctx := context.WithValue(context.Background(), idCtxKey{}, "abcdefghi")
	p := post.New(nil, nil, nil)

	if err := id.After(p, ctx, setting.Parse(nil)); err != nil {
		t.Fatalf("After: %v", err)
	}
	if got := string(*p.DatetimeMut()); got != "ID:abcdefghi" {
		t.Fatalf("got %q", got)
	}
}

func TestIdFallsBackToPlaceholderByDefault(t *testing.T) {
	id := NewId(session.New())
	p := post.New(nil, nil, nil)

	if err := id.After(p, context.Background(), setting.Parse(nil)); err != nil {
		t.Fatalf("After: %v", err)
	}
	if got := string(*p.DatetimeMut()); got != "ID:???" {
		t.Fatalf("got %q, want placeholder", got)
	}
}

func TestIdSuppressedByNoIdSetting(t *testing.T) {
	id := NewId(session.New())
	p := post.New(nil, nil, nil)
	s := setting.Parse([]byte("BBS_NO_ID=1\n"))

	if err := id.After(p, context.Background(), s); err != nil {
		t.Fatalf("After: %v", err)
	}
	if got := *p.DatetimeMut(); len(got) != 0 {
		t.Fatalf("got %q, want nothing appended", got)
	}
}

func TestIdBeforeSkipsWhenCapped(t *testing.T) {
	id := NewId(session.New())
	board, _ := validator.ParseAlphaNum("news")
	req := NewRequest(board, validator.Digits{}, httptest.NewRecorder(), httptest.NewRequest("POST", "/", nil))

	ctx := context.WithValue(context.Background(), capCtxKey{}, true)
	ctx, err := id.Before(ctx, post.New(nil, nil, nil), req, setting.Parse(nil))
	if err != nil {
		t.Fatalf("Before: %v", err)
	}
	if _, ok := ctx.Value(idCtxKey{}).(string); ok {
		t.Fatal("capped request should not have an id token resolved")
	}
}
