// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package export

import (
	"context"
	"encoding/json"
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/jeranaias/paperless-export/internal/paperless"
)

// fakeDownloader serves canned bytes per document id.
type fakeDownloader struct {
	data map[int][]byte
}

func (f *fakeDownloader) DownloadDocument(_ context.Context, id int) ([]byte, error) {
	data, ok := f.data[id]
	if !ok {
		return nil, errors.New("download failed")
	}
	return data, nil
}

func TestPrepareDir_CreatesAndPurges(t *testing.T) {
	root := t.TempDir()

	dir, err := PrepareDir(root, "Invoices")
	if err != nil {
		t.Fatalf("PrepareDir failed: %v", err)
	}
	if filepath.Base(dir) != "export-Invoices" {
		t.Errorf("dir = %q", dir)
	}

	stale := filepath.Join(dir, "stale.pdf")
	if err := os.WriteFile(stale, []byte("old"), 0644); err != nil {
		t.Fatal(err)
	}

	// A second run against the same root must not mix artifacts.
	if _, err := PrepareDir(root, "Invoices"); err != nil {
		t.Fatalf("second PrepareDir failed: %v", err)
	}
	if _, err := os.Stat(stale); !os.IsNotExist(err) {
		t.Error("stale artifact survived the purge")
	}
}

func TestExportDocument_WritesBothArtifacts(t *testing.T) {
	dir := t.TempDir()
	w := NewArtifactWriter(dir, nil)
	dl := &fakeDownloader{data: map[int][]byte{1: []byte("%PDF fake")}}

	doc := &paperless.Document{ID: 1, Title: "Invoice A", Tags: []int{1}}
	skipped, err := w.ExportDocument(context.Background(), dl, doc)
	if err != nil {
		t.Fatalf("ExportDocument failed: %v", err)
	}
	if skipped {
		t.Error("skipped = true for a successful download")
	}

	pdf, err := os.ReadFile(filepath.Join(dir, "Invoice A.pdf"))
	if err != nil {
		t.Fatalf("binary artifact missing: %v", err)
	}
	if string(pdf) != "%PDF fake" {
		t.Errorf("binary content = %q", pdf)
	}

	meta, err := os.ReadFile(filepath.Join(dir, "Invoice A.json"))
	if err != nil {
		t.Fatalf("metadata artifact missing: %v", err)
	}
	var decoded paperless.Document
	if err := json.Unmarshal(meta, &decoded); err != nil {
		t.Fatalf("metadata is not valid JSON: %v", err)
	}
	if decoded.ID != 1 || decoded.Title != "Invoice A" {
		t.Errorf("metadata = %+v", decoded)
	}
}

func TestExportDocument_MetadataKeepsUndeclaredFields(t *testing.T) {
	dir := t.TempDir()
	w := NewArtifactWriter(dir, nil)
	dl := &fakeDownloader{data: map[int][]byte{1: []byte("%PDF fake")}}

	// A detail record with fields the Document struct does not declare.
	raw := []byte(`{"id":1,"title":"Invoice A","tags":[1],` +
		`"owner":3,"notes":[{"id":9,"note":"check this"}],` +
		`"original_file_name":"scan_0001.pdf","added":"2024-03-05T10:31:00+01:00"}`)
	doc := &paperless.Document{ID: 1, Title: "Invoice A", Tags: []int{1}, Raw: raw}

	if _, err := w.ExportDocument(context.Background(), dl, doc); err != nil {
		t.Fatalf("ExportDocument failed: %v", err)
	}

	meta, err := os.ReadFile(filepath.Join(dir, "Invoice A.json"))
	if err != nil {
		t.Fatalf("metadata artifact missing: %v", err)
	}
	var decoded map[string]any
	if err := json.Unmarshal(meta, &decoded); err != nil {
		t.Fatalf("metadata is not valid JSON: %v", err)
	}
	for _, field := range []string{"owner", "notes", "original_file_name", "added"} {
		if _, ok := decoded[field]; !ok {
			t.Errorf("metadata artifact lost detail field %q", field)
		}
	}
	if decoded["owner"] != float64(3) {
		t.Errorf("owner = %v", decoded["owner"])
	}
}

func TestExportDocument_DownloadFailureSkipsBinaryOnly(t *testing.T) {
	dir := t.TempDir()
	w := NewArtifactWriter(dir, nil)
	dl := &fakeDownloader{} // every download fails

	doc := &paperless.Document{ID: 2, Title: "Broken"}
	skipped, err := w.ExportDocument(context.Background(), dl, doc)
	if err != nil {
		t.Fatalf("ExportDocument failed: %v", err)
	}
	if !skipped {
		t.Error("skipped = false, want true")
	}

	if _, err := os.Stat(filepath.Join(dir, "Broken.pdf")); !os.IsNotExist(err) {
		t.Error("binary artifact written despite failed download")
	}
	if _, err := os.Stat(filepath.Join(dir, "Broken.json")); err != nil {
		t.Error("metadata artifact must still be written")
	}
}

func TestStem_SanitizesAndDeduplicates(t *testing.T) {
	w := NewArtifactWriter(t.TempDir(), nil)

	if got := w.stem(&paperless.Document{ID: 1, Title: "a/b: c"}); got != "a_b_ c" {
		t.Errorf("stem = %q", got)
	}
	if got := w.stem(&paperless.Document{ID: 2, Title: "Invoice"}); got != "Invoice" {
		t.Errorf("stem = %q", got)
	}
	if got := w.stem(&paperless.Document{ID: 3, Title: "Invoice"}); got != "Invoice (2)" {
		t.Errorf("duplicate stem = %q", got)
	}
	if got := w.stem(&paperless.Document{ID: 4, Title: "..."}); got != "document-4" {
		t.Errorf("fallback stem = %q", got)
	}
}
