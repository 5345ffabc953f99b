// Copyright (c) 2026 dobashi.
// Use of this source code is governed by an MIT-style
// license that can be found in the LICENSE file.

package middleware

import (
	"context"
	"fmt"

	"github.com/dobashi/itaban/internal/post"
	"github.com/dobashi/itaban/internal/setting"
)

// Before inspects an incoming write before it is otherwise processed
// and may reject it. It may stash data in the returned context for
// later After middlewares to read.
type Before interface {
	Before(ctx context.Context, p *post.Post, req *Request, s *setting.Settings) (context.Context, error)
}

// After rewrites a post's fields once every Before middleware has
// accepted the write.
type After interface {
	After(p *post.Post, ctx context.Context, s *setting.Settings) error
}

// Pipeline runs a board's attached middlewares over every write:
// first every Before in attachment order, then every After.
type Pipeline struct {
	before []Before
	after  []After
}

// NewPipeline returns an empty pipeline.
func NewPipeline() *Pipeline {
	return &Pipeline{}
}

// Attach registers m under whichever of Before/After it implements. m
// must implement at least one.
func (p *Pipeline) Attach(m any) {
	attached := false
	if b, ok := m.(Before); ok {
		p.before = append(p.before, b)
		attached = true
	}
	if a, ok := m.(After); ok {
		p.after = append(p.after, a)
		attached = true
	}
	if !attached {
		panic(fmt.Sprintf("middleware: %T implements neither Before nor After", m))
	}
}

// AttachBefore registers a Before-only middleware.
func (p *Pipeline) AttachBefore(m Before) {
	p.before = append(p.before, m)
}

// AttachAfter registers an After-only middleware.
func (p *Pipeline) AttachAfter(m After) {
	p.after = append(p.after, m)
}

// Apply runs the before chain, then the after chain, short-circuiting
// on the first error from either phase. ctx seeds the shared data bag
// Before middlewares thread state through to After middlewares with.
func (p *Pipeline) Apply(ctx context.Context, pst *post.Post, req *Request, s *setting.Settings) error {
	for _, b := range p.before {
		var err error
		ctx, err = b.Before(ctx, pst, req, s)
		if err != nil {
			return err
		}
	}
	for _, a := range p.after {
		if err := a.After(pst, ctx, s); err != nil {
			return err
		}
	}
	return nil
}
