// Copyright (c) 2026 dobashi.
// Use of this source code is governed by an MIT-style
// license that can be found in the LICENSE file.

package bbs

import (
	"fmt"
	"time"

	"github.com/dobashi/itaban/pkg/cacheable"
	"github.com/dobashi/itaban/pkg/orderedmap"
)

// subjectTxtIdentity is the fixed cache identity fed into a board's
// subject.txt etag derivation; it only needs to be stable and distinct
// from a real topic id's role in that formula, not globally unique.
const subjectTxtIdentity uint64 = 0x5562a5f

// standardLineLen estimates the width of one subject.txt line --
// "TTTTTTTTTT.dat<>TITLE (NNNN)\n" -- and is used to size the buffer
// grown by one new topic, so a single post rarely forces a second
// reallocation.
const standardLineLen = 128

// Topics is a board's thread collection: insertion-ordered so the
// bump-to-front behavior of a new post can move its thread to the
// front the same way the legacy server does, with a lazily rebuilt
// subject.txt cached alongside it.
type Topics struct {
	topics     *orderedmap.Map[uint64, *Topic]
	subjectTxt *cacheable.Artifact[[]byte]
	dirty      bool
	growHint   bool
	lastLen    int
}

// NewTopics returns an empty topic collection.
func NewTopics() *Topics {
	return &Topics{
		topics:     orderedmap.New[uint64, *Topic](),
		subjectTxt: cacheable.Default[[]byte](),
		dirty:      true,
	}
}

func (ts *Topics) Get(id uint64) (*Topic, bool) {
	return ts.topics.Get(id)
}

func (ts *Topics) GetMut(id uint64) (**Topic, bool) {
	return ts.topics.GetMut(id)
}

func (ts *Topics) Contains(id uint64) bool {
	return ts.topics.ContainsKey(id)
}

func (ts *Topics) Len() int {
	return ts.topics.Len()
}

// Insert adds topic to the collection. If a topic already occupies
// that id, the insert is rejected -- the existing topic is left in
// place -- and the topic the caller passed in is handed back along
// with inserted=false, mirroring the ordered map's own insert
// semantics one level up.
func (ts *Topics) Insert(topic *Topic) (rejected *Topic, inserted bool) {
	rejected, inserted = ts.topics.Insert(topic.Id(), topic)
	if inserted {
		ts.invalidate(true)
	}
	return rejected, inserted
}

// Remove deletes the topic with the given id, if any.
func (ts *Topics) Remove(id uint64) (*Topic, bool) {
	topic, ok := ts.topics.Remove(id)
	if ok {
		ts.invalidate(false)
	}
	return topic, ok
}

// Bump moves an existing topic to the front of iteration order, as
// happens when a new post lands on it.
func (ts *Topics) Bump(id uint64) bool {
	if !ts.topics.Bump(id) {
		return false
	}
	ts.invalidate(false)
	return true
}

// SubjectTxt returns the board's subject.txt artifact, rebuilding it
// first if a topic was added, removed, or bumped since the last call.
func (ts *Topics) SubjectTxt() *cacheable.Artifact[[]byte] {
	if ts.dirty {
		ts.rebuild()
	}
	return ts.subjectTxt
}

// MarkAppended marks the cached subject.txt stale after a post landed
// on an existing topic. The original engine applies its buffer-growth
// hint here too, even though the topic count didn't change -- harmless,
// since it only costs a slightly larger next allocation.
func (ts *Topics) MarkAppended() {
	ts.invalidate(true)
}

// invalidate marks the cached subject.txt stale. addition records
// whether the invalidating change grew the topic count, which sizes
// the next rebuild's buffer preallocation.
func (ts *Topics) invalidate(addition bool) {
	ts.dirty = true
	ts.growHint = ts.growHint || addition
}

func (ts *Topics) rebuild() {
	cap := ts.lastLen
	if ts.growHint {
		cap += standardLineLen
	}
	body := make([]byte, 0, cap)

	ts.topics.Iter(func(id uint64, t *Topic) bool {
		body = fmt.Appendf(body, "%d", id)
		body = append(body, ".dat<>"...)
		body = append(body, t.Title()...)
		body = append(body, " ("...)
		body = fmt.Appendf(body, "%d", t.PostCount())
		body = append(body, ")\n"...)
		return true
	})

	ts.subjectTxt = cacheable.New(body, cacheable.NewMetadata(subjectTxtIdentity, time.Now()))
	ts.lastLen = len(body)
	ts.growHint = false
	ts.dirty = false
}
