// Copyright (c) 2026 dobashi.
// Use of this source code is governed by an MIT-style
// license that can be found in the LICENSE file.

package setting

import "testing"

func TestParseRoundTripsRawAndValues(t *testing.T) {
	raw := []byte("BBS_TITLE=Test Board\n# comment\nBBS_HEISA=1\n\nBBS_LINE_NUMBER=false\n")
	s := Parse(raw)

	if string(s.Raw()) != string(raw) {
		t.Fatalf("Raw() not verbatim")
	}
	if s.Title() != "Test Board" {
		t.Fatalf("Title() = %q", s.Title())
	}
	if !s.Heisa() {
		t.Fatal("Heisa() should be true")
	}
	if s.LineNumber() {
		t.Fatal("LineNumber() should be false")
	}
}

func TestForceIdDefaultsTrue(t *testing.T) {
	s := Parse(nil)
	if !s.ForceId() {
		t.Fatal("ForceId() should default to true when unset")
	}
}

func TestForceIdExplicitlyDisabled(t *testing.T) {
	s := Parse([]byte("BBS_FORCE_ID=0\n"))
	if s.ForceId() {
		t.Fatal("ForceId() should be false when explicitly set to 0")
	}
}

func TestNonameNameDefaultsToLegacyName(t *testing.T) {
	s := Parse(nil)
	if s.NonameName() != defaultNonameName {
		t.Fatalf("NonameName() = %q", s.NonameName())
	}
}

func TestYmdWeeksRequiresExactlySevenEntries(t *testing.T) {
	s := Parse([]byte("BBS_YMD_WEEKS=Sun,Mon,Tue,Wed,Thu,Fri,Sat\n"))
	weeks := s.YmdWeeks()
	if len(weeks) != 7 || weeks[0] != "Sun" || weeks[6] != "Sat" {
		t.Fatalf("YmdWeeks() = %+v", weeks)
	}

	s2 := Parse([]byte("BBS_YMD_WEEKS=Sun,Mon\n"))
	if s2.YmdWeeks() != nil {
		t.Fatal("YmdWeeks() should reject a short list")
	}
}
