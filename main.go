// paperless-export - Tag-filtered document export for Paperless-ngx.
//
// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later
package main

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"sort"
	"strings"
	"time"

	"github.com/jeranaias/paperless-export/internal/cli"
	"github.com/jeranaias/paperless-export/internal/config"
	"github.com/jeranaias/paperless-export/internal/export"
	"github.com/jeranaias/paperless-export/internal/history"
	"github.com/jeranaias/paperless-export/internal/paperless"
	"github.com/jeranaias/paperless-export/internal/upload"
)

// Version information (set at build time)
var (
	Version   = "0.1.0"
	GitCommit = "unknown"
	BuildDate = "unknown"
)

func init() {
	// Sync version info with cli package
	cli.Version = Version
	cli.GitCommit = GitCommit
	cli.BuildDate = BuildDate
}

func main() {
	cmd, args := cli.Parse()
	setupLogging(args)

	switch cmd {
	case cli.CmdExport:
		runExport(args)
	case cli.CmdTags:
		runTags(args)
	case cli.CmdFields:
		runFields(args)
	case cli.CmdHistory:
		runHistory(args)
	case cli.CmdConfig:
		runConfig(args)
	case cli.CmdVersion:
		cli.PrintVersion()
	case cli.CmdHelp:
		cli.PrintHelp()
	}
}

func setupLogging(args *cli.Args) {
	level := slog.LevelInfo
	if args.Verbose {
		level = slog.LevelDebug
	}
	if args.Quiet {
		level = slog.LevelError
	}
	slog.SetDefault(slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: level})))
}

func fatal(msg string, err error) {
	if err != nil {
		msg = msg + ": " + err.Error()
	}
	fmt.Fprintln(os.Stderr, cli.ErrorStyle.Render("Error:")+" "+msg)
	os.Exit(1)
}

func loadConfig(args *cli.Args) *config.Config {
	cfg, err := config.Load(args.ConfigPath)
	if err != nil {
		fatal("failed to load configuration", err)
	}
	if args.Tag != "" {
		cfg.Export.Tag = args.Tag
	}
	return cfg
}

// requireConnection checks the fields every server-talking command needs.
// Commands like tags/fields run fine without an export tag configured.
func requireConnection(cfg *config.Config) *paperless.Client {
	if cfg.Paperless.URL == "" || cfg.Paperless.Token == "" {
		fatal("paperless.url and paperless.token must be configured (file or PAPERLESS_URL/PAPERLESS_TOKEN)", nil)
	}
	return paperless.NewClient(paperless.ClientConfig{
		BaseURL:           cfg.Paperless.URL,
		Token:             cfg.Paperless.Token,
		Timeout:           time.Duration(cfg.Paperless.TimeoutSecs) * time.Second,
		RequestsPerSecond: cfg.Paperless.RequestsPerSecond,
	})
}

// =============================================================================
// EXPORT
// =============================================================================

func runExport(args *cli.Args) {
	cfg := loadConfig(args)
	if err := cfg.Validate(); err != nil {
		fatal(err.Error(), nil)
	}
	client := requireConnection(cfg)

	runner := export.NewRunner(client, slog.Default())
	progress := cli.NewProgress()

	summary, err := runner.Run(context.Background(), export.Options{
		TagName:    cfg.Export.Tag,
		ExportRoot: cfg.Export.Directory,
		Locale:     cfg.Locale.Currency,
		Progress:   progress.Update,
	})
	progress.Done()
	if err != nil {
		fatal("export failed", err)
	}

	fmt.Println(cli.SuccessStyle.Render("Export complete"))
	fmt.Println(cli.KeyValue("Tag", summary.TagName))
	fmt.Println(cli.KeyValue("Documents", fmt.Sprintf("%d", summary.Exported)))
	if summary.BinarySkipped > 0 {
		fmt.Println(cli.WarnStyle.Render(fmt.Sprintf("%d binary artifact(s) skipped after download failures", summary.BinarySkipped)))
	}
	if summary.FetchTruncated {
		fmt.Println(cli.WarnStyle.Render("document listing was truncated by a page failure; the export covers the retrieved pages only"))
	}
	fmt.Println(cli.KeyValue("Report", summary.ReportPath))

	recordHistory(cfg, summary)
	uploadArtifacts(cfg, summary)
}

// recordHistory saves the run to the local history database. History is an
// extra; problems with it never fail a finished export.
func recordHistory(cfg *config.Config, summary *export.Summary) {
	if !cfg.History.Enabled {
		return
	}
	path, err := cfg.HistoryPath()
	if err != nil {
		slog.Warn("history disabled", "error", err)
		return
	}
	store, err := history.Open(path)
	if err != nil {
		slog.Warn("history disabled", "error", err)
		return
	}
	defer store.Close()

	_, err = store.Add(context.Background(), history.Record{
		Tag:           summary.TagName,
		Fetched:       summary.Fetched,
		Exported:      summary.Exported,
		BinarySkipped: summary.BinarySkipped,
		Truncated:     summary.FetchTruncated,
		Directory:     summary.Directory,
		ReportPath:    summary.ReportPath,
		Started:       summary.Started,
		Finished:      summary.Finished,
	})
	if err != nil {
		slog.Warn("failed to record run", "error", err)
	}
}

// uploadArtifacts mirrors the export directory to the configured object
// store. Best-effort only.
func uploadArtifacts(cfg *config.Config, summary *export.Summary) {
	if !cfg.Upload.Enabled {
		return
	}
	up, err := upload.New(cfg.Upload, slog.Default())
	if err != nil {
		slog.Warn("upload skipped", "error", err)
		return
	}
	ctx := context.Background()
	if err := up.EnsureBucket(ctx); err != nil {
		slog.Warn("upload skipped", "error", err)
		return
	}
	uploaded, failed, err := up.UploadDir(ctx, summary.Directory, cfg.Upload.Prefix)
	if err != nil {
		slog.Warn("upload incomplete", "error", err)
	}
	if failed > 0 {
		fmt.Println(cli.WarnStyle.Render(fmt.Sprintf("Uploaded %d file(s), %d failed", uploaded, failed)))
	} else if uploaded > 0 {
		fmt.Println(cli.KeyValue("Uploaded", fmt.Sprintf("%d file(s) to %s/%s", uploaded, cfg.Upload.Endpoint, cfg.Upload.Bucket)))
	}
}

// =============================================================================
// REFERENCE DATA COMMANDS
// =============================================================================

func runTags(args *cli.Args) {
	cfg := loadConfig(args)
	client := requireConnection(cfg)

	tags, err := client.ListTags(context.Background())
	if err != nil {
		fatal("failed to load tags", err)
	}

	ids := make([]int, 0, len(tags))
	for id := range tags {
		ids = append(ids, id)
	}
	sort.Ints(ids)

	fmt.Println(cli.TitleStyle.Render(fmt.Sprintf("Tags (%d)", len(ids))))
	for _, id := range ids {
		fmt.Printf("  %4d  %s\n", id, tags[id])
	}
}

func runFields(args *cli.Args) {
	cfg := loadConfig(args)
	client := requireConnection(cfg)

	fields, err := client.ListCustomFields(context.Background())
	if err != nil {
		fatal("failed to load custom fields", err)
	}

	ids := make([]int, 0, len(fields))
	for id := range fields {
		ids = append(ids, id)
	}
	sort.Ints(ids)

	fmt.Println(cli.TitleStyle.Render(fmt.Sprintf("Custom fields (%d)", len(ids))))
	for _, id := range ids {
		f := fields[id]
		fmt.Printf("  %4d  %-24s %s\n", f.ID, f.Name, f.DataType)
		if f.ExtraData != nil && len(f.ExtraData.SelectOptions) > 0 {
			fmt.Printf("        choices: %s\n", strings.Join(f.ExtraData.SelectOptions, ", "))
		}
	}
}

// =============================================================================
// HISTORY AND CONFIG COMMANDS
// =============================================================================

func runHistory(args *cli.Args) {
	cfg := loadConfig(args)
	path, err := cfg.HistoryPath()
	if err != nil {
		fatal("failed to locate history database", err)
	}
	store, err := history.Open(path)
	if err != nil {
		fatal("failed to open history database", err)
	}
	defer store.Close()

	records, err := store.Recent(context.Background(), args.Limit)
	if err != nil {
		fatal("failed to read history", err)
	}
	if len(records) == 0 {
		fmt.Println("No export runs recorded yet.")
		return
	}

	fmt.Println(cli.TitleStyle.Render("Recent export runs"))
	for _, rec := range records {
		status := ""
		if rec.Truncated {
			status = "  " + cli.WarnStyle.Render("(truncated)")
		}
		fmt.Printf("  %s  %-16s %4d docs  %8s  %s%s\n",
			rec.Started.Format("2006-01-02 15:04"),
			rec.Tag, rec.Exported,
			rec.Duration().Round(time.Second/10),
			rec.ReportPath, status)
	}
}

func runConfig(args *cli.Args) {
	cfg := loadConfig(args)

	path := args.ConfigPath
	if path == "" {
		path, _ = config.ConfigPath()
	}

	fmt.Println(cli.TitleStyle.Render("Configuration"))
	fmt.Println(cli.KeyValue("File", path))
	fmt.Println(cli.KeyValue("Server", cfg.Paperless.URL))
	fmt.Println(cli.KeyValue("Token", maskToken(cfg.Paperless.Token)))
	fmt.Println(cli.KeyValue("Export dir", cfg.Export.Directory))
	fmt.Println(cli.KeyValue("Tag", cfg.Export.Tag))
	fmt.Println(cli.KeyValue("Locale", cfg.Locale.Currency))
	fmt.Println(cli.KeyValue("History", fmt.Sprintf("%t", cfg.History.Enabled)))
	fmt.Println(cli.KeyValue("Upload", fmt.Sprintf("%t", cfg.Upload.Enabled)))
}

func maskToken(token string) string {
	if token == "" {
		return "(not set)"
	}
	if len(token) <= 8 {
		return "********"
	}
	return token[:4] + "…" + token[len(token)-4:]
}
