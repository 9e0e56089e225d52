// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package cli

import (
	"reflect"
	"testing"
)

func TestArgParser_LongFlags(t *testing.T) {
	p := NewArgParser([]string{"--tag", "Invoices", "--config=/etc/pe.toml"})

	if got := p.Flag("tag"); got != "Invoices" {
		t.Errorf("Flag(tag) = %q", got)
	}
	if got := p.Flag("config"); got != "/etc/pe.toml" {
		t.Errorf("Flag(config) = %q", got)
	}
	if got := p.Flag("missing"); got != "" {
		t.Errorf("Flag(missing) = %q, want empty", got)
	}
}

func TestArgParser_ShortAliases(t *testing.T) {
	p := NewArgParser([]string{"-t", "Receipts", "-q"})

	if got := p.Flag("tag", "t"); got != "Receipts" {
		t.Errorf("Flag(tag, t) = %q", got)
	}
	if !p.BoolFlag("quiet", "q") {
		t.Error("BoolFlag(quiet, q) = false")
	}
}

func TestArgParser_BoolForms(t *testing.T) {
	p := NewArgParser([]string{"--verbose", "--color=false", "--force=true"})

	if !p.BoolFlag("verbose") {
		t.Error("bare flag should be true")
	}
	if p.BoolFlag("color") {
		t.Error("--color=false should be false")
	}
	if !p.BoolFlag("force") {
		t.Error("--force=true should be true")
	}
}

func TestArgParser_IntFlag(t *testing.T) {
	p := NewArgParser([]string{"--limit", "5", "--bad", "abc"})

	if got := p.IntFlag("limit", 20); got != 5 {
		t.Errorf("IntFlag(limit) = %d, want 5", got)
	}
	if got := p.IntFlag("bad", 20); got != 20 {
		t.Errorf("IntFlag(bad) = %d, want default 20", got)
	}
	if got := p.IntFlag("missing", 7); got != 7 {
		t.Errorf("IntFlag(missing) = %d, want default 7", got)
	}
}

func TestArgParser_Positional(t *testing.T) {
	p := NewArgParser([]string{"first", "--tag", "x", "second"})

	want := []string{"first", "second"}
	if got := p.Positional(); !reflect.DeepEqual(got, want) {
		t.Errorf("Positional() = %v, want %v", got, want)
	}
}

func TestTruncate(t *testing.T) {
	tests := []struct {
		s        string
		max      int
		expected string
	}{
		{"short", 10, "short"},
		{"exactly ten chars here", 10, "exactly t…"},
		{"anything", 0, ""},
		{"ab", 1, "a"},
		{"ümläut titles", 8, "ümläut …"},
	}
	for _, tt := range tests {
		if got := truncate(tt.s, tt.max); got != tt.expected {
			t.Errorf("truncate(%q, %d) = %q, want %q", tt.s, tt.max, got, tt.expected)
		}
	}
}
