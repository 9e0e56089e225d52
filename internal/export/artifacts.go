// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package export drives the document export pipeline: per-document artifact
// files plus the consolidated spreadsheet report.
package export

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"

	"github.com/jeranaias/paperless-export/internal/paperless"
	"github.com/jeranaias/paperless-export/internal/util"
)

// Artifact file extensions.
const (
	BinaryExt   = ".pdf"
	MetadataExt = ".json"
)

// Downloader is the slice of the Paperless client the artifact writer needs.
type Downloader interface {
	DownloadDocument(ctx context.Context, id int) ([]byte, error)
}

// PrepareDir creates the tag-scoped output directory under root, purging any
// pre-existing contents first so two runs never mix artifacts. The purge is
// unconditional; see the config documentation for the warning about pointing
// the export root at a directory holding anything else.
func PrepareDir(root, tagName string) (string, error) {
	dir := filepath.Join(root, "export-"+tagName)
	if err := os.RemoveAll(dir); err != nil {
		return "", fmt.Errorf("failed to purge export directory: %w", err)
	}
	if err := os.MkdirAll(dir, 0755); err != nil {
		return "", fmt.Errorf("failed to create export directory: %w", err)
	}
	return dir, nil
}

// =============================================================================
// ARTIFACT WRITER
// =============================================================================

// ArtifactWriter writes the per-document output files into one export
// directory. Document titles name the files; titles are neither unique nor
// filesystem-safe, so stems are sanitized and deduplicated per run.
type ArtifactWriter struct {
	dir  string
	log  *slog.Logger
	used map[string]int
}

// NewArtifactWriter creates a writer targeting an already-prepared directory.
func NewArtifactWriter(dir string, log *slog.Logger) *ArtifactWriter {
	if log == nil {
		log = slog.Default()
	}
	return &ArtifactWriter{
		dir:  dir,
		log:  log.With("component", "export"),
		used: make(map[string]int),
	}
}

// ExportDocument writes the document's artifacts: the binary copy retrieved
// via the download endpoint and the structured-metadata copy serialized as
// indented JSON.
//
// A failed download is logged and the binary artifact skipped; the run
// continues and the returned skipped flag is true. Metadata serialization
// and filesystem errors propagate.
func (w *ArtifactWriter) ExportDocument(ctx context.Context, dl Downloader, doc *paperless.Document) (skipped bool, err error) {
	stem := w.stem(doc)

	data, dlErr := dl.DownloadDocument(ctx, doc.ID)
	if dlErr != nil {
		w.log.Warn("binary download failed, skipping artifact", "id", doc.ID, "title", doc.Title, "error", dlErr)
		skipped = true
	} else {
		if err := os.WriteFile(filepath.Join(w.dir, stem+BinaryExt), data, 0644); err != nil {
			return skipped, fmt.Errorf("failed to write binary artifact: %w", err)
		}
	}

	meta, err := metadataJSON(doc)
	if err != nil {
		return skipped, fmt.Errorf("failed to serialize document %d: %w", doc.ID, err)
	}
	if err := util.AtomicWriteFile(filepath.Join(w.dir, stem+MetadataExt), meta, 0644); err != nil {
		return skipped, fmt.Errorf("failed to write metadata artifact: %w", err)
	}
	return skipped, nil
}

// metadataJSON renders the artifact body. The verbatim detail record wins
// when available: it carries every field the server returned, not just the
// ones the typed struct declares. Documents that fell back to the list
// summary have no raw record and serialize from the struct.
func metadataJSON(doc *paperless.Document) ([]byte, error) {
	if len(doc.Raw) > 0 {
		var buf bytes.Buffer
		if err := json.Indent(&buf, doc.Raw, "", "    "); err == nil {
			return buf.Bytes(), nil
		}
	}
	return json.MarshalIndent(doc, "", "    ")
}

// stem picks the filename stem for a document, deduplicating repeated titles
// with a numeric suffix.
func (w *ArtifactWriter) stem(doc *paperless.Document) string {
	base := util.SafeFilename(doc.Title, fmt.Sprintf("document-%d", doc.ID))
	n := w.used[base]
	w.used[base] = n + 1
	if n == 0 {
		return base
	}
	return fmt.Sprintf("%s (%d)", base, n+1)
}
