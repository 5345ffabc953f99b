// Copyright (c) 2026 dobashi.
// Use of this source code is governed by an MIT-style
// license that can be found in the LICENSE file.

package bbs

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"github.com/dobashi/itaban/internal/setting"
	"github.com/dobashi/itaban/pkg/cacheable"
)

// settingTxtIdentity is the fixed cache identity fed into a board's
// SETTING.TXT etag derivation; it only needs to be stable and distinct
// from subjectTxtIdentity and a real topic id's role in that formula,
// not globally unique.
const settingTxtIdentity uint64 = 0x5e771196

// Board is one topic board: its settings, its threads, and the
// directory its .dat files live in. Board ids compare
// case-insensitively, matching the legacy client/server pair; the id
// returned by Id keeps the original casing used on disk.
type Board struct {
	id         string
	key        string // lower-cased, used for lookups
	settings   *setting.Settings
	settingTxt *cacheable.Artifact[[]byte]
	datDir     string

	mu     sync.RWMutex
	topics *Topics
}

// NewBoard builds an (initially empty) board rooted at datDir, where
// datDir is the directory its N.dat files are read from and appended
// to. mtime is SETTING.TXT's modification time (or the load instant,
// if the file is absent), stamped onto the cached SETTING.TXT
// artifact's cache validators.
func NewBoard(id string, settings *setting.Settings, datDir string, mtime time.Time) *Board {
	return &Board{
		id:         id,
		key:        strings.ToLower(id),
		settings:   settings,
		settingTxt: cacheable.New(settings.Raw(), cacheable.NewMetadata(settingTxtIdentity, mtime)),
		datDir:     datDir,
		topics:     NewTopics(),
	}
}

func (b *Board) Id() string                  { return b.id }
func (b *Board) Key() string                 { return b.key }
func (b *Board) Settings() *setting.Settings { return b.settings }

// SettingTxt returns the board's SETTING.TXT artifact, cacheable the
// same way subject.txt and a thread's .dat are.
func (b *Board) SettingTxt() *cacheable.Artifact[[]byte] {
	return b.settingTxt
}

// InsertTopic adds a topic loaded at startup. Only safe to call before
// the board is shared across goroutines.
func (b *Board) InsertTopic(t *Topic) {
	b.topics.Insert(t)
}

// SubjectTxt returns the board's current subject.txt artifact. An
// up-to-date artifact is returned under the read lock; a stale one is
// rebuilt and swapped in under the write lock.
func (b *Board) SubjectTxt() *cacheable.Artifact[[]byte] {
	b.mu.RLock()
	if !b.topics.dirty {
		defer b.mu.RUnlock()
		return b.topics.subjectTxt
	}
	b.mu.RUnlock()

	b.mu.Lock()
	defer b.mu.Unlock()
	return b.topics.SubjectTxt()
}

// TopicView is a read-only snapshot of a topic's fields, safe to use
// after the board's lock has been released.
type TopicView struct {
	Id        uint64
	Title     []byte
	PostCount int
}

// Topic returns a snapshot of the topic with the given id, if any.
func (b *Board) Topic(id uint64) (TopicView, bool) {
	b.mu.RLock()
	defer b.mu.RUnlock()
	t, ok := b.topics.Get(id)
	if !ok {
		return TopicView{}, false
	}
	return TopicView{Id: t.Id(), Title: t.Title(), PostCount: t.PostCount()}, true
}

func (b *Board) datPath(id uint64) string {
	return filepath.Join(b.datDir, fmt.Sprintf("%d.dat", id))
}

// DatPath returns the on-disk path of topic id's .dat file.
func (b *Board) DatPath(id uint64) string {
	return b.datPath(id)
}

// TopicCount returns the number of topics currently on the board.
func (b *Board) TopicCount() int {
	b.mu.RLock()
	defer b.mu.RUnlock()
	return b.topics.Len()
}

// OpenTopic locks the board for writing and returns a handle to the
// existing topic id, or ok=false (with the lock released) if no such
// topic exists. The caller must Close the handle.
func (b *Board) OpenTopic(id uint64) (h *TopicHandle, ok bool) {
	b.mu.Lock()
	if !b.topics.Contains(id) {
		b.mu.Unlock()
		return nil, false
	}
	return &TopicHandle{board: b, id: id}, true
}

// CreateTopic locks the board for writing, mints a fresh topic id from
// the current time (bumping past any collision), inserts an empty
// topic with the given title, and returns a handle to it. The caller
// must Close the handle.
func (b *Board) CreateTopic(title []byte) *TopicHandle {
	b.mu.Lock()

	id := uint64(time.Now().Unix())
	for b.topics.Contains(id) {
		id++
	}
	if _, inserted := b.topics.Insert(NewTopic(id, title, 0)); !inserted {
		// Unreachable: id was just proven absent under the same lock.
		panic("bbs: freshly minted topic id already present")
	}

	return &TopicHandle{board: b, id: id}
}

// TopicHandle holds a board's write lock for as long as a single post
// is being appended. It keeps only the topic's id rather than a direct
// pointer into the board's topic map -- an index, not a live reference
// -- so the handle stays valid across any bookkeeping the board does
// on its own state while the lock is held.
type TopicHandle struct {
	board *Board
	id    uint64
}

func (h *TopicHandle) Id() uint64 { return h.id }

// Close releases the board's write lock. Must be called exactly once.
func (h *TopicHandle) Close() {
	h.board.mu.Unlock()
}

// Dat opens (creating if necessary) the handle's topic's .dat file for
// appending.
func (h *TopicHandle) Dat() (*DatHandle, error) {
	f, err := os.OpenFile(h.board.datPath(h.id), os.O_CREATE|os.O_APPEND|os.O_WRONLY, 0o644)
	if err != nil {
		return nil, err
	}
	return &DatHandle{handle: h, file: f}, nil
}

// DatHandle is an open, append-only file descriptor for a topic's .dat
// file, paired with the topic write lock it was opened under.
type DatHandle struct {
	handle *TopicHandle
	file   *os.File
}

// Write appends raw bytes to the .dat file.
func (d *DatHandle) Write(p []byte) (int, error) {
	return d.file.Write(p)
}

// Close closes the underlying file descriptor. It does not release the
// board's write lock; call the TopicHandle's Close for that.
func (d *DatHandle) Close() error {
	return d.file.Close()
}

// IncrementPostCount records that a post was just appended, bumps the
// topic to the front of the board's iteration order, and marks
// subject.txt stale -- the last step of a write, performed with the
// write lock still held from OpenTopic/CreateTopic.
func (d *DatHandle) IncrementPostCount() {
	b := d.handle.board
	t, ok := b.topics.GetMut(d.handle.id)
	if !ok {
		// Unreachable while the write lock is held continuously from
		// OpenTopic/CreateTopic through here.
		panic("bbs: topic vanished under its own write lock")
	}
	(*t).IncrementPostCount()
	b.topics.Bump(d.handle.id)
	b.topics.MarkAppended()
}
