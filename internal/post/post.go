// Copyright (c) 2026 dobashi.
// Use of this source code is governed by an MIT-style
// license that can be found in the LICENSE file.

// Package post holds the mutable fields of a single incoming post
// before it is serialized onto a thread's append-only log.
package post

// Post is the set of fields a write-path handler and the middleware
// pipeline collaborate to fill in before the post is serialized. Title
// is only present when the post starts a new thread.
type Post struct {
	name     []byte
	mail     []byte
	datetime []byte
	body     []byte
	title    *[]byte
}

// New builds a Post from its already-escaped name/mail/body fields.
// Datetime and (for new threads) title are filled in later by the
// middleware pipeline and the caller respectively.
func New(name, mail, body []byte) *Post {
	return &Post{name: name, mail: mail, body: body}
}

func (p *Post) Name() []byte     { return p.name }
func (p *Post) Mail() []byte     { return p.mail }
func (p *Post) Datetime() []byte { return p.datetime }
func (p *Post) Body() []byte     { return p.body }

// Title returns the thread title, or nil if this post does not start
// a new thread.
func (p *Post) Title() []byte {
	if p.title == nil {
		return nil
	}
	return *p.title
}

func (p *Post) NameMut() *[]byte     { return &p.name }
func (p *Post) MailMut() *[]byte     { return &p.mail }
func (p *Post) DatetimeMut() *[]byte { return &p.datetime }
func (p *Post) BodyMut() *[]byte     { return &p.body }

// SetTitle marks this post as the opener of a new thread with title t.
func (p *Post) SetTitle(t []byte) {
	p.title = &t
}

// TitleMut returns a pointer to the title slot, allocating an empty
// title first if this post wasn't already marked as a thread opener.
func (p *Post) TitleMut() *[]byte {
	if p.title == nil {
		p.title = new([]byte)
	}
	return p.title
}

// IsNewThread reports whether this post opens a new thread.
func (p *Post) IsNewThread() bool {
	return p.title != nil
}
