// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package cli

import (
	"os"
	"testing"
)

func parseArgs(t *testing.T, argv ...string) (Command, *Args) {
	t.Helper()
	old := os.Args
	os.Args = append([]string{"paperless-export"}, argv...)
	defer func() { os.Args = old }()
	return Parse()
}

func TestParse_DefaultsToExport(t *testing.T) {
	cmd, args := parseArgs(t)
	if cmd != CmdExport {
		t.Errorf("cmd = %v, want CmdExport", cmd)
	}
	if args.Limit != 20 {
		t.Errorf("Limit = %d, want default 20", args.Limit)
	}
}

func TestParse_CommandRouting(t *testing.T) {
	tests := []struct {
		argv []string
		want Command
	}{
		{[]string{"export"}, CmdExport},
		{[]string{"tags"}, CmdTags},
		{[]string{"fields"}, CmdFields},
		{[]string{"history"}, CmdHistory},
		{[]string{"config"}, CmdConfig},
		{[]string{"version"}, CmdVersion},
		{[]string{"--version"}, CmdVersion},
		{[]string{"help"}, CmdHelp},
		{[]string{"-h"}, CmdHelp},
	}
	for _, tt := range tests {
		if cmd, _ := parseArgs(t, tt.argv...); cmd != tt.want {
			t.Errorf("Parse(%v) = %v, want %v", tt.argv, cmd, tt.want)
		}
	}
}

func TestParse_ExportFlags(t *testing.T) {
	cmd, args := parseArgs(t, "export", "--tag", "Invoices", "-c", "/tmp/pe.toml", "--verbose")
	if cmd != CmdExport {
		t.Fatalf("cmd = %v", cmd)
	}
	if args.Tag != "Invoices" {
		t.Errorf("Tag = %q", args.Tag)
	}
	if args.ConfigPath != "/tmp/pe.toml" {
		t.Errorf("ConfigPath = %q", args.ConfigPath)
	}
	if !args.Verbose || args.Quiet {
		t.Errorf("Verbose=%v Quiet=%v", args.Verbose, args.Quiet)
	}
}

func TestParse_HistoryLimit(t *testing.T) {
	cmd, args := parseArgs(t, "history", "--limit", "5")
	if cmd != CmdHistory {
		t.Fatalf("cmd = %v", cmd)
	}
	if args.Limit != 5 {
		t.Errorf("Limit = %d, want 5", args.Limit)
	}
}
