// Copyright (c) 2026 dobashi.
// Use of this source code is governed by an MIT-style
// license that can be found in the LICENSE file.

package bbs

import (
	"fmt"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/dobashi/itaban/internal/setting"
)

func TestCreateTopicThenAppendUpdatesCount(t *testing.T) {
	dir := t.TempDir()
	board := NewBoard("test", setting.Parse(nil), dir, time.Now())

	h := board.CreateTopic([]byte("hello"))
	id := h.Id()
	dat, err := h.Dat()
	if err != nil {
		t.Fatalf("Dat: %v", err)
	}
	if _, err := dat.Write([]byte("name<>mail<>datetime<> body <>hello\n")); err != nil {
		t.Fatalf("Write: %v", err)
	}
	dat.IncrementPostCount()
	dat.Close()
	h.Close()

	view, ok := board.Topic(id)
	if !ok {
		t.Fatal("topic should exist after CreateTopic")
	}
	if view.PostCount != 1 {
		t.Fatalf("post count = %d, want 1", view.PostCount)
	}

	if _, err := os.Stat(filepath.Join(dir, itoaDat(id))); err != nil {
		t.Fatalf("expected .dat file on disk: %v", err)
	}

	h2, ok := board.OpenTopic(id)
	if !ok {
		t.Fatal("OpenTopic should find the topic just created")
	}
	dat2, _ := h2.Dat()
	dat2.Write([]byte("name<>mail<>datetime<> second\n"))
	dat2.IncrementPostCount()
	dat2.Close()
	h2.Close()

	view, _ = board.Topic(id)
	if view.PostCount != 2 {
		t.Fatalf("post count after second append = %d, want 2", view.PostCount)
	}
}

func TestOpenTopicMissing(t *testing.T) {
	board := NewBoard("test", setting.Parse(nil), t.TempDir(), time.Now())
	if _, ok := board.OpenTopic(999); ok {
		t.Fatal("OpenTopic should report false for an unknown id")
	}
}

func itoaDat(id uint64) string {
	return fmt.Sprintf("%d.dat", id)
}
