// Copyright (c) 2026 dobashi.
// Use of this source code is governed by an MIT-style
// license that can be found in the LICENSE file.

package bbs

import (
	"strings"
	"testing"
)

// S2 -- a thread's title and post count are recovered from its raw
// .dat bytes.
func TestLoadTopicParsesTitleAndCountsPosts(t *testing.T) {
	dat := "" +
		"maji<>sage<>2012/10/28(Sun) 13:12:07.97 ID:nXycV/Aa0<>('A') ...<>('A')\n" +
		"maji<>sage<>2012/10/28(Sun) 15:15:21.32 ID:nXycV/Aa0<>('A' ) ...<>\n" +
		"!softbank221044009121.bbtec.net<>sage<>2012/10/29(Mon) 17:44:00.15 ID:dJX3cXbx0<>a\n"

	topic, err := LoadTopic(1351397527, strings.NewReader(dat))
	if err != nil {
		t.Fatalf("LoadTopic: %v", err)
	}
	if got := string(topic.Title()); got != "('A')" {
		t.Fatalf("title = %q, want %q", got, "('A')")
	}
	if topic.PostCount() != 3 {
		t.Fatalf("post count = %d, want 3", topic.PostCount())
	}
	if topic.Id() != 1351397527 {
		t.Fatalf("id = %d, want 1351397527", topic.Id())
	}
}

// A thread whose opening line lacks four field separators before its
// first newline is tolerated rather than rejected: it is simply
// treated as title-less.
func TestLoadTopicTitlelessFirstLine(t *testing.T) {
	dat := "garbled first line with no title field\n" +
		"name<>mail<>datetime<>body\n"

	topic, err := LoadTopic(1, strings.NewReader(dat))
	if err != nil {
		t.Fatalf("LoadTopic: %v", err)
	}
	if topic.Title() != nil {
		t.Fatalf("title = %q, want nil", topic.Title())
	}
	if topic.PostCount() != 2 {
		t.Fatalf("post count = %d, want 2", topic.PostCount())
	}
}

func TestLoadTopicEmpty(t *testing.T) {
	topic, err := LoadTopic(7, strings.NewReader(""))
	if err != nil {
		t.Fatalf("LoadTopic: %v", err)
	}
	if topic.Title() != nil || topic.PostCount() != 0 {
		t.Fatalf("expected empty topic, got title=%q count=%d", topic.Title(), topic.PostCount())
	}
}
