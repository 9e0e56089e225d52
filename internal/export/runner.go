// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package export

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"path/filepath"
	"time"

	"github.com/jeranaias/paperless-export/internal/paperless"
	"github.com/jeranaias/paperless-export/internal/report"
	"github.com/jeranaias/paperless-export/internal/resolve"
)

// ErrTagNotFound is returned when the configured tag name matches nothing in
// the tag collection.
var ErrTagNotFound = errors.New("tag not found")

// ProgressFunc receives per-document progress while the pipeline runs.
// total is the number of matching documents, done the number processed so
// far, title the document currently being exported.
type ProgressFunc func(done, total int, title string)

// Options configures one export run.
type Options struct {
	// TagName selects the documents to export. Resolution against the tag
	// collection is case-insensitive.
	TagName string

	// ExportRoot is the directory under which the tag-scoped output
	// directory is created.
	ExportRoot string

	// Locale is the BCP-47 tag for monetary rendering (empty = default).
	Locale string

	// Progress, when set, is called once per exported document.
	Progress ProgressFunc

	// Now stands in for time.Now in tests.
	Now func() time.Time
}

// Summary describes what a finished run produced.
type Summary struct {
	TagName        string
	TagID          int
	Fetched        int  // documents retrieved from the list endpoint
	Exported       int  // documents matching the tag and written out
	BinarySkipped  int  // binary artifacts skipped after download failures
	FetchTruncated bool // document listing ended early on a page failure
	Directory      string
	ReportPath     string
	Started        time.Time
	Finished       time.Time
}

// =============================================================================
// RUNNER
// =============================================================================

// Runner wires the export pipeline together: reference data first, then the
// document set, then one pass per document through the resolver, the
// artifact writer and the report builder, and finally the report render.
//
// Everything is sequential and single-threaded. There are no retries
// anywhere; each failure is handled once, locally, with either abort or
// substitution per the error's class.
type Runner struct {
	client *paperless.Client
	log    *slog.Logger
}

// NewRunner creates a runner over a configured Paperless client.
func NewRunner(client *paperless.Client, log *slog.Logger) *Runner {
	if log == nil {
		log = slog.Default()
	}
	return &Runner{client: client, log: log.With("component", "export")}
}

// Run executes one export and returns its summary.
//
// Failure to load the tag collection or the custom-field schema aborts
// immediately: downstream resolution is meaningless without them. Past that
// point only filesystem errors abort; network failures degrade per document
// or per artifact.
func (r *Runner) Run(ctx context.Context, opts Options) (*Summary, error) {
	now := opts.Now
	if now == nil {
		now = time.Now
	}
	summary := &Summary{TagName: opts.TagName, Started: now()}

	r.log.Info("loading custom-field schema")
	fields, err := r.client.ListCustomFields(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to load custom-field schema: %w", err)
	}

	r.log.Info("loading tags")
	tags, err := r.client.ListTags(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to load tags: %w", err)
	}

	resolver := resolve.New(r.client, tags, fields, resolve.NewCurrencyFormatter(opts.Locale), r.log)

	tagID, ok := resolver.TagIDByName(opts.TagName)
	if !ok {
		return nil, fmt.Errorf("%w: %q", ErrTagNotFound, opts.TagName)
	}
	summary.TagID = tagID

	r.log.Info("listing documents", "tag", opts.TagName, "tag_id", tagID)
	docs, fetchErr := r.client.ListDocuments(ctx, paperless.ListDocumentsOptions{TagID: tagID})
	if fetchErr != nil {
		// Partial-result policy: keep whatever pages succeeded.
		r.log.Warn("document listing truncated", "fetched", len(docs), "error", fetchErr)
		summary.FetchTruncated = true
	}
	summary.Fetched = len(docs)

	dir, err := PrepareDir(opts.ExportRoot, opts.TagName)
	if err != nil {
		return nil, err
	}
	summary.Directory = dir

	writer := NewArtifactWriter(dir, r.log)
	builder := report.NewBuilder()

	matching := 0
	for i := range docs {
		if docs[i].HasTag(tagID) {
			matching++
		}
	}

	for i := range docs {
		doc := &docs[i]
		if !doc.HasTag(tagID) {
			continue
		}

		detail, err := r.client.GetDocument(ctx, doc.ID)
		if err != nil {
			r.log.Warn("detail fetch failed, using list summary", "id", doc.ID, "error", err)
			detail = doc
		}

		builder.Append(r.buildRow(ctx, resolver, detail))

		skipped, err := writer.ExportDocument(ctx, r.client, detail)
		if err != nil {
			return nil, err
		}
		if skipped {
			summary.BinarySkipped++
		}

		summary.Exported++
		if opts.Progress != nil {
			opts.Progress(summary.Exported, matching, detail.Title)
		}
	}

	reportPath := filepath.Join(dir, report.Filename(opts.TagName, now()))
	if err := builder.Render(reportPath); err != nil {
		return nil, err
	}
	summary.ReportPath = reportPath
	summary.Finished = now()

	r.log.Info("export finished",
		"documents", summary.Exported,
		"binary_skipped", summary.BinarySkipped,
		"report", reportPath)
	return summary, nil
}

// buildRow composes one report row from fixed document attributes and the
// resolved custom fields.
func (r *Runner) buildRow(ctx context.Context, resolver *resolve.Resolver, doc *paperless.Document) *report.Row {
	row := report.NewRow().
		Set(report.ColID, doc.ID).
		Set(report.ColTitle, doc.Title).
		Set(report.ColCorrespondent, resolver.ResolveName(ctx, paperless.RefCorrespondents, doc.Correspondent)).
		Set(report.ColDocumentType, resolver.ResolveName(ctx, paperless.RefDocumentTypes, doc.DocumentType)).
		Set(report.ColStoragePath, resolver.ResolveName(ctx, paperless.RefStoragePaths, doc.StoragePath)).
		Set(report.ColTags, resolver.TagNames(doc.Tags)).
		Set(report.ColDate, resolve.FormatDate(doc.Created))

	for _, v := range doc.CustomFields {
		name, display := resolver.FormatField(v)
		row.Set(name, display)
	}
	return row
}
