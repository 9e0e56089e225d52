// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package report accumulates per-document rows and renders the consolidated
// spreadsheet report.
//
// The column set is not a fixed schema: it is the ordered union of every
// column observed across all rows. Fixed document columns appear first
// because every row sets them first; custom-field columns follow in
// first-seen order. Rows missing a column leave the cell empty.
package report

import (
	"fmt"
	"time"

	"github.com/xuri/excelize/v2"
)

// Fixed document columns present on every row.
const (
	ColID            = "ID"
	ColTitle         = "Title"
	ColCorrespondent = "Correspondent"
	ColDocumentType  = "Document type"
	ColStoragePath   = "Storage path"
	ColTags          = "Tags"
	ColDate          = "Date"
)

// SheetName is the name of the single worksheet in the report.
const SheetName = "Documents"

// Header styling: bold white text on a solid accent fill.
const headerFillColor = "4F81BD"

// =============================================================================
// ROWS
// =============================================================================

// Row is one report row: a flat mapping from column name to display value
// that remembers the order columns were first set in.
type Row struct {
	keys   []string
	values map[string]any
}

// NewRow creates an empty row.
func NewRow() *Row {
	return &Row{values: make(map[string]any)}
}

// Set assigns a cell value. The first Set of a column fixes its position in
// the row's column order; later Sets overwrite the value in place.
func (r *Row) Set(column string, value any) *Row {
	if _, ok := r.values[column]; !ok {
		r.keys = append(r.keys, column)
	}
	r.values[column] = value
	return r
}

// Get returns the cell value for a column, or nil if the cell is absent.
func (r *Row) Get(column string) any {
	return r.values[column]
}

// Has reports whether the row has a value for the column.
func (r *Row) Has(column string) bool {
	_, ok := r.values[column]
	return ok
}

// =============================================================================
// BUILDER
// =============================================================================

// Builder collects rows in encounter order and renders them once the full
// document set has been processed. It is an append-only accumulator; there
// is no concurrency and no locking.
type Builder struct {
	rows    []*Row
	columns []string
	seen    map[string]struct{}
}

// NewBuilder creates an empty report builder.
func NewBuilder() *Builder {
	return &Builder{seen: make(map[string]struct{})}
}

// Append adds a row, folding any columns the builder has not seen yet into
// the header in the order they appear on the row.
func (b *Builder) Append(row *Row) {
	for _, col := range row.keys {
		if _, ok := b.seen[col]; !ok {
			b.seen[col] = struct{}{}
			b.columns = append(b.columns, col)
		}
	}
	b.rows = append(b.rows, row)
}

// Len returns the number of accumulated rows.
func (b *Builder) Len() int {
	return len(b.rows)
}

// Columns returns the header in observed order.
func (b *Builder) Columns() []string {
	return b.columns
}

// Rows returns the accumulated rows in encounter order.
func (b *Builder) Rows() []*Row {
	return b.rows
}

// =============================================================================
// RENDERING
// =============================================================================

// Render writes the report as a styled spreadsheet: one header row with the
// accent styling, then one row per document in encounter order.
func (b *Builder) Render(path string) error {
	f := excelize.NewFile()
	defer f.Close()

	if err := f.SetSheetName("Sheet1", SheetName); err != nil {
		return fmt.Errorf("failed to name sheet: %w", err)
	}

	for i, col := range b.columns {
		cell, err := excelize.CoordinatesToCellName(i+1, 1)
		if err != nil {
			return fmt.Errorf("failed to compute header cell: %w", err)
		}
		if err := f.SetCellValue(SheetName, cell, col); err != nil {
			return fmt.Errorf("failed to write header cell: %w", err)
		}
	}

	if len(b.columns) > 0 {
		styleID, err := f.NewStyle(&excelize.Style{
			Font: &excelize.Font{Bold: true, Color: "FFFFFF", Family: "Arial"},
			Fill: excelize.Fill{Type: "pattern", Pattern: 1, Color: []string{headerFillColor}},
		})
		if err != nil {
			return fmt.Errorf("failed to create header style: %w", err)
		}
		last, err := excelize.CoordinatesToCellName(len(b.columns), 1)
		if err != nil {
			return fmt.Errorf("failed to compute header range: %w", err)
		}
		if err := f.SetCellStyle(SheetName, "A1", last, styleID); err != nil {
			return fmt.Errorf("failed to style header: %w", err)
		}
	}

	for rowIdx, row := range b.rows {
		for colIdx, col := range b.columns {
			if !row.Has(col) {
				continue
			}
			cell, err := excelize.CoordinatesToCellName(colIdx+1, rowIdx+2)
			if err != nil {
				return fmt.Errorf("failed to compute cell: %w", err)
			}
			if err := f.SetCellValue(SheetName, cell, row.Get(col)); err != nil {
				return fmt.Errorf("failed to write cell: %w", err)
			}
		}
	}

	if err := f.SaveAs(path); err != nil {
		return fmt.Errorf("failed to save report: %w", err)
	}
	return nil
}

// Filename returns the report filename for a tag and export date,
// e.g. export-Invoices-20260831.xlsx.
func Filename(tag string, date time.Time) string {
	return fmt.Sprintf("export-%s-%s.xlsx", tag, date.Format("20060102"))
}
