// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package resolve maps raw Paperless identifiers to display values.
//
// The resolver owns the reference data loaded once per run (tags and the
// custom-field schema) and applies the type-aware formatting rules for
// custom-field values. Name lookups against the reference endpoints are
// cached for the duration of the run; the same correspondent recurs across
// documents and a fresh round-trip per row buys nothing.
package resolve

import (
	"context"
	"fmt"
	"log/slog"
	"strconv"
	"strings"
	"time"

	"github.com/jeranaias/paperless-export/internal/paperless"
)

// UnknownName is the sentinel rendered when a reference identifier is absent
// or its lookup fails. A missing correspondent never blocks the rest of the
// row.
const UnknownName = "Unknown"

// Paperless custom-field data types we format specially. Everything else is
// rendered verbatim.
const (
	dataTypeMonetary = "monetary"
	dataTypeSelect   = "select"
)

// NameLookup is the slice of the Paperless client the resolver needs.
type NameLookup interface {
	GetEntityName(ctx context.Context, category paperless.RefCategory, id int) (string, error)
}

// =============================================================================
// RESOLVER
// =============================================================================

// Resolver resolves foreign-key style identifiers into display names and
// formats custom-field values according to their schema definition.
type Resolver struct {
	lookup   NameLookup
	tags     map[int]string
	fields   map[int]paperless.CustomField
	currency *CurrencyFormatter
	log      *slog.Logger

	// names caches resolved reference names for the run, keyed by
	// "<category>/<id>".
	names map[string]string
}

// New creates a resolver over reference data loaded once per run.
func New(lookup NameLookup, tags map[int]string, fields map[int]paperless.CustomField, currency *CurrencyFormatter, log *slog.Logger) *Resolver {
	if currency == nil {
		currency = NewCurrencyFormatter("")
	}
	if log == nil {
		log = slog.Default()
	}
	return &Resolver{
		lookup:   lookup,
		tags:     tags,
		fields:   fields,
		currency: currency,
		log:      log.With("component", "resolve"),
		names:    make(map[string]string),
	}
}

// =============================================================================
// REFERENCE NAMES
// =============================================================================

// ResolveName returns the display name for a nullable reference identifier.
// A nil identifier or a failed lookup yields UnknownName; lookup failures
// are logged and never abort the run.
func (r *Resolver) ResolveName(ctx context.Context, category paperless.RefCategory, id *int) string {
	if id == nil {
		return UnknownName
	}

	key := string(category) + "/" + strconv.Itoa(*id)
	if name, ok := r.names[key]; ok {
		return name
	}

	name, err := r.lookup.GetEntityName(ctx, category, *id)
	if err != nil {
		r.log.Warn("reference lookup failed", "category", category, "id", *id, "error", err)
		return UnknownName
	}
	r.names[key] = name
	return name
}

// TagNames renders a document's tag set as a comma-joined display string,
// preserving the document's stored tag order. Identifiers missing from the
// tag mapping get a synthetic placeholder rather than being dropped.
func (r *Resolver) TagNames(tagIDs []int) string {
	names := make([]string, 0, len(tagIDs))
	for _, id := range tagIDs {
		if name, ok := r.tags[id]; ok {
			names = append(names, name)
		} else {
			names = append(names, fmt.Sprintf("Tag %d", id))
		}
	}
	return strings.Join(names, ", ")
}

// TagName resolves a single tag identifier from the reference mapping.
func (r *Resolver) TagName(id int) (string, bool) {
	name, ok := r.tags[id]
	return name, ok
}

// TagIDByName finds the identifier for a tag name, case-insensitively.
func (r *Resolver) TagIDByName(name string) (int, bool) {
	for id, n := range r.tags {
		if strings.EqualFold(n, name) {
			return id, true
		}
	}
	return 0, false
}

// =============================================================================
// CUSTOM FIELDS
// =============================================================================

// FormatField resolves one custom-field value into its column name and
// display string, per the field definition's data type:
//
//   - monetary values go through the locale-aware currency formatter
//   - select values index into the definition's choice table, with a
//     placeholder for an out-of-range index
//   - everything else is rendered verbatim
//
// A value whose definition is missing from the schema gets a synthetic
// "Field <id>" column name and verbatim rendering; data-quality problems
// are never errors.
func (r *Resolver) FormatField(v paperless.CustomFieldValue) (name, display string) {
	def, ok := r.fields[v.Field]
	if !ok {
		return fmt.Sprintf("Field %d", v.Field), renderVerbatim(v.Value)
	}

	switch def.DataType {
	case dataTypeMonetary:
		return def.Name, r.currency.Format(renderVerbatim(v.Value))
	case dataTypeSelect:
		return def.Name, r.formatSelect(def, v.Value)
	default:
		return def.Name, renderVerbatim(v.Value)
	}
}

func (r *Resolver) formatSelect(def paperless.CustomField, raw any) string {
	idx, ok := intValue(raw)
	if !ok {
		return renderVerbatim(raw)
	}
	if def.ExtraData != nil && idx >= 0 && idx < len(def.ExtraData.SelectOptions) {
		return def.ExtraData.SelectOptions[idx]
	}
	return fmt.Sprintf("Value %d", idx)
}

// =============================================================================
// DATES
// =============================================================================

// Creation timestamps arrive as ISO-8601, with or without a zone qualifier,
// and occasionally as a bare date.
var dateLayouts = []string{
	time.RFC3339,
	"2006-01-02T15:04:05",
	"2006-01-02",
}

// FormatDate normalizes a document's creation timestamp to DD.MM.YYYY.
// Unparseable input renders as the empty string.
func FormatDate(created string) string {
	if created == "" {
		return ""
	}
	for _, layout := range dateLayouts {
		if t, err := time.Parse(layout, created); err == nil {
			return t.Format("02.01.2006")
		}
	}
	return ""
}

// =============================================================================
// VALUE COERCION
// =============================================================================

// renderVerbatim renders an untyped JSON value without interpretation.
// Whole numbers decoded as float64 render without a trailing fraction.
func renderVerbatim(v any) string {
	switch val := v.(type) {
	case nil:
		return ""
	case string:
		return val
	case float64:
		return strconv.FormatFloat(val, 'f', -1, 64)
	case bool:
		return strconv.FormatBool(val)
	default:
		return fmt.Sprint(val)
	}
}

// intValue coerces a JSON-decoded value to an integer index.
func intValue(v any) (int, bool) {
	switch val := v.(type) {
	case int:
		return val, true
	case float64:
		if val == float64(int(val)) {
			return int(val), true
		}
		return 0, false
	case string:
		n, err := strconv.Atoi(val)
		if err != nil {
			return 0, false
		}
		return n, true
	default:
		return 0, false
	}
}
