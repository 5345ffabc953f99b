// Copyright (c) 2026 dobashi.
// Use of this source code is governed by an MIT-style
// license that can be found in the LICENSE file.

package bbs

import (
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/dobashi/itaban/internal/setting"
	"github.com/dobashi/itaban/internal/validator"
)

// Bbs is the workspace-wide board registry: every board found under a
// root directory at startup, keyed case-insensitively by id.
type Bbs struct {
	boards    map[string]*Board
	workspace string
}

// WithWorkspace crawls workspace for board directories: every
// alphanumeric-named immediate subdirectory is a board, its
// SETTING.TXT (if present) is its settings, and every N.dat file under
// its dat/ subdirectory is a preloaded topic. A dat/ directory is
// created if missing. Two board directories that collide once their
// names are lower-cased are a startup error -- the legacy server's
// case-insensitive board lookup has no way to disambiguate them later.
func WithWorkspace(workspace string) (*Bbs, error) {
	entries, err := os.ReadDir(workspace)
	if err != nil {
		return nil, fmt.Errorf("bbs: reading workspace %q: %w", workspace, err)
	}

	boards := make(map[string]*Board)
	for _, ent := range entries {
		if !ent.IsDir() || !isAlphaNumName(ent.Name()) {
			continue
		}
		name := ent.Name()
		key := strings.ToLower(name)
		if _, exists := boards[key]; exists {
			return nil, fmt.Errorf("bbs: board id %q collides case-insensitively with an existing board", name)
		}

		board, err := loadBoard(workspace, name)
		if err != nil {
			return nil, err
		}
		boards[key] = board
	}

	return &Bbs{boards: boards, workspace: workspace}, nil
}

func isAlphaNumName(name string) bool {
	if name == "" {
		return false
	}
	for i := 0; i < len(name); i++ {
		if !validator.IsAlphaNum(name[i]) {
			return false
		}
	}
	return true
}

func loadBoard(workspace, name string) (*Board, error) {
	boardDir := filepath.Join(workspace, name)

	settingsPath := filepath.Join(boardDir, "SETTING.TXT")
	raw, err := os.ReadFile(settingsPath)
	mtime := time.Now()
	if err != nil {
		if !os.IsNotExist(err) {
			return nil, fmt.Errorf("bbs: reading %s: %w", settingsPath, err)
		}
		raw = nil
	} else if info, err := os.Stat(settingsPath); err == nil {
		mtime = info.ModTime()
	}

	datDir := filepath.Join(boardDir, "dat")
	if err := os.MkdirAll(datDir, 0o755); err != nil {
		return nil, fmt.Errorf("bbs: creating %s: %w", datDir, err)
	}

	board := NewBoard(name, setting.Parse(raw), datDir, mtime)

	datEntries, err := os.ReadDir(datDir)
	if err != nil {
		return nil, fmt.Errorf("bbs: reading %s: %w", datDir, err)
	}
	for _, de := range datEntries {
		if de.IsDir() {
			continue
		}
		fname := de.Name()
		if !strings.HasSuffix(fname, ".dat") {
			continue
		}
		id, err := strconv.ParseUint(strings.TrimSuffix(fname, ".dat"), 10, 64)
		if err != nil {
			continue
		}

		f, err := os.Open(filepath.Join(datDir, fname))
		if err != nil {
			return nil, fmt.Errorf("bbs: opening %s: %w", fname, err)
		}
		topic, err := LoadTopic(id, f)
		f.Close()
		if err != nil {
			return nil, fmt.Errorf("bbs: loading %s: %w", fname, err)
		}
		board.InsertTopic(topic)
	}

	return board, nil
}

// Board returns the board with the given id, matched case-insensitively.
func (b *Bbs) Board(id string) (*Board, bool) {
	board, ok := b.boards[strings.ToLower(id)]
	return board, ok
}

// Boards returns every board in the registry, in no particular order.
func (b *Bbs) Boards() []*Board {
	boards := make([]*Board, 0, len(b.boards))
	for _, board := range b.boards {
		boards = append(boards, board)
	}
	return boards
}

// Workspace returns the root directory the registry was built from.
func (b *Bbs) Workspace() string {
	return b.workspace
}
