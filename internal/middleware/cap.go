// Copyright (c) 2026 dobashi.
// Use of this source code is governed by an MIT-style
// license that can be found in the LICENSE file.

package middleware

import (
	"context"

	"github.com/dobashi/itaban/internal/post"
	"github.com/dobashi/itaban/internal/setting"
)

type capCtxKey struct{}

// Cap marks every post it sees as coming from a capped
// (registered-name) poster, which suppresses the Id middleware's own
// id lookup. It does not inspect the post or request for a cap or
// trip, and carries no state of its own beyond the marker in the
// context.
type Cap struct{}

func (Cap) Before(ctx context.Context, _ *post.Post, _ *Request, _ *setting.Settings) (context.Context, error) {
	return context.WithValue(ctx, capCtxKey{}, true), nil
}

func isCapped(ctx context.Context) bool {
	capped, _ := ctx.Value(capCtxKey{}).(bool)
	return capped
}
