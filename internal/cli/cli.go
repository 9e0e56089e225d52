// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// cli.go - CLI parsing for paperless-export.
package cli

import (
	"fmt"
	"os"
)

// Version information (can be overridden at build time)
var (
	Version   = "0.1.0"
	GitCommit = "unknown"
	BuildDate = "unknown"
)

// Command represents the CLI command to execute.
type Command int

const (
	CmdExport Command = iota
	CmdTags
	CmdFields
	CmdHistory
	CmdConfig
	CmdVersion
	CmdHelp
)

// Args holds parsed CLI arguments.
type Args struct {
	// Global flags
	ConfigPath string
	Quiet      bool
	Verbose    bool

	// Command-specific
	Tag   string // export: tag override
	Limit int    // history: number of runs to show

	// Raw args remaining after the command word
	Raw []string
}

// Parse parses os.Args and returns the command plus its arguments.
func Parse() (Command, *Args) {
	raw := os.Args[1:]

	cmd := CmdExport
	if len(raw) > 0 {
		switch raw[0] {
		case "export":
			cmd, raw = CmdExport, raw[1:]
		case "tags":
			cmd, raw = CmdTags, raw[1:]
		case "fields":
			cmd, raw = CmdFields, raw[1:]
		case "history":
			cmd, raw = CmdHistory, raw[1:]
		case "config":
			cmd, raw = CmdConfig, raw[1:]
		case "version", "--version", "-v":
			cmd, raw = CmdVersion, raw[1:]
		case "help", "--help", "-h":
			cmd, raw = CmdHelp, raw[1:]
		}
	}

	parser := NewArgParser(raw)
	args := &Args{
		ConfigPath: parser.Flag("config", "c"),
		Quiet:      parser.BoolFlag("quiet", "q"),
		Verbose:    parser.BoolFlag("verbose"),
		Tag:        parser.Flag("tag", "t"),
		Limit:      parser.IntFlag("limit", 20),
		Raw:        parser.Positional(),
	}
	return cmd, args
}

// PrintHelp writes the usage text.
func PrintHelp() {
	fmt.Println(TitleStyle.Render("paperless-export") + " - export Paperless-ngx documents by tag")
	fmt.Print(`
Usage:
  paperless-export [export] [flags]   export documents for the configured tag
  paperless-export tags               list tags known to the server
  paperless-export fields             list the custom-field schema
  paperless-export history [--limit N]  show recent export runs
  paperless-export config             show the effective configuration
  paperless-export version            show version information

Flags:
  -c, --config PATH   config file (default ~/.paperless-export/config.toml)
  -t, --tag NAME      override the configured export tag
  -q, --quiet         errors only
      --verbose       debug logging

Environment overrides: PAPERLESS_URL, PAPERLESS_TOKEN, PAPERLESS_EXPORT_DIR,
PAPERLESS_TAG.
`)
}

// PrintVersion writes version information.
func PrintVersion() {
	fmt.Printf("paperless-export %s (commit %s, built %s)\n", Version, GitCommit, BuildDate)
}
