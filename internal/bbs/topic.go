// Copyright (c) 2026 dobashi.
// Use of this source code is governed by an MIT-style
// license that can be found in the LICENSE file.

// Package bbs implements the in-memory board/thread engine: the
// ordered collection of threads per board, each thread's post count
// and title, and the workspace-wide board registry.
package bbs

import (
	"bytes"
	"io"
)

// Topic is one thread: its numeric id (also its filename stem), its
// title as posted by whoever opened it, and how many posts it holds.
type Topic struct {
	id        uint64
	title     []byte
	postCount int
}

// NewTopic builds a topic with an already-known title and post count,
// e.g. the one just created by a write handler.
func NewTopic(id uint64, title []byte, postCount int) *Topic {
	return &Topic{id: id, title: title, postCount: postCount}
}

// LoadTopic derives a Topic's title and post count from the raw bytes
// of its .dat file. The title is whatever the opening post's fifth
// field (name<>mail<>datetime<>body<>title) holds; if the opening
// post was written without a title field -- malformed input, or a
// deleted/garbled first post, both of which the legacy server must
// tolerate rather than reject -- the title is left empty, matching
// what real boards serve for such threads.
func LoadTopic(id uint64, src io.Reader) (*Topic, error) {
	data, err := io.ReadAll(src)
	if err != nil {
		return nil, err
	}
	return NewTopic(id, parseTitle(data), bytes.Count(data, []byte{'\n'})), nil
}

// parseTitle scans the opening line for the fourth "<>" field
// separator and returns everything between it and the line's
// terminating newline. Returns nil if the line has fewer than four
// separators before its first newline.
func parseTitle(data []byte) []byte {
	const fieldsBeforeTitle = 4

	sep := 0
	i := 0
	for i < len(data) {
		switch {
		case data[i] == '\n':
			return nil
		case data[i] == '<' && i+1 < len(data) && data[i+1] == '>':
			sep++
			if sep == fieldsBeforeTitle {
				rest := data[i+2:]
				if nl := bytes.IndexByte(rest, '\n'); nl >= 0 {
					return append([]byte(nil), rest[:nl]...)
				}
				return append([]byte(nil), rest...)
			}
			i += 2
		default:
			i++
		}
	}
	return nil
}

func (t *Topic) Id() uint64 { return t.id }

func (t *Topic) Title() []byte { return t.title }

func (t *Topic) PostCount() int { return t.postCount }

// IncrementPostCount records that one more post was appended.
func (t *Topic) IncrementPostCount() {
	t.postCount++
}
