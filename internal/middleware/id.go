// Copyright (c) 2026 dobashi.
// Use of this source code is governed by an MIT-style
// license that can be found in the LICENSE file.

package middleware

import (
	"context"
	"fmt"
	"hash/fnv"

	"github.com/dobashi/itaban/internal/post"
	"github.com/dobashi/itaban/internal/session"
	"github.com/dobashi/itaban/internal/setting"
)

type idCtxKey struct{}

const b64enc = "ABCDEFGHIJKLMNOPQRSTUVWXYZabcdefghijklmnopqrstuvwxyz0123456789+/"

// Id computes the legacy "ID:xxxxxxxx?" suffix: a short code that is
// stable for the same identity and board, so readers can tell whether
// two posts on a thread came from the same person without exposing who
// that is.
//
// The original engine left both the identity source and the encoding
// of this suffix unimplemented; this realizes it against a
// cookie-backed opaque per-browser identity (see internal/session)
// rather than the remote IP address, since the latter is rarely
// meaningful behind the reverse proxies a modern deployment sits
// behind.
type Id struct {
	sessions *session.Store
}

// NewId returns the Id middleware backed by store for identity lookup.
func NewId(store *session.Store) *Id {
	return &Id{sessions: store}
}

func (id *Id) Before(ctx context.Context, _ *post.Post, req *Request, s *setting.Settings) (context.Context, error) {
	if isCapped(ctx) {
		return ctx, nil
	}
	if s.NoId() {
		return ctx, nil
	}
	if !s.ForceId() {
		return ctx, nil
	}

	identity, err := id.sessions.Identity(req.ResponseWriter(), req.HTTP())
	if err != nil {
		return ctx, fmt.Errorf("id: resolving poster identity: %w", err)
	}

	token := idToken(identity, req.Board())
	return context.WithValue(ctx, idCtxKey{}, token), nil
}

func (id *Id) After(p *post.Post, ctx context.Context, s *setting.Settings) error {
	dt := p.DatetimeMut()

	if token, ok := ctx.Value(idCtxKey{}).(string); ok {
		// "ID:abcdefgh0"
		appendDelimited(dt, append([]byte("ID:"), token...))
		return nil
	}
	if !s.NoId() && s.ForceId() {
		appendDelimited(dt, []byte("ID:???"))
	}
	return nil
}

// idToken derives a 9-character code from identity and board, in the
// family of the real board software's MD5-and-base64 scheme: hash the
// inputs, then read off 6 bits per output character.
func idToken(identity, board string) string {
	h := fnv.New64a()
	h.Write([]byte(identity))
	h.Write([]byte{0})
	h.Write([]byte(board))
	sum := h.Sum64()

	buf := make([]byte, 9)
	v := sum
	for i := 0; i < 9; i++ {
		buf[i] = b64enc[v&0b111111]
		v >>= 6
	}
	return string(buf)
}
