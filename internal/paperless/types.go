// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package paperless

import "encoding/json"

// =============================================================================
// API RESOURCE TYPES
// =============================================================================

// Document is a document record as returned by the Paperless-ngx API.
//
// The list endpoint returns a summary that may omit the custom-field values;
// GetDocument returns the full record. Foreign references (correspondent,
// document type, storage path) are nullable identifiers.
type Document struct {
	ID            int                `json:"id"`
	Title         string             `json:"title"`
	Created       string             `json:"created"`
	Correspondent *int               `json:"correspondent"`
	DocumentType  *int               `json:"document_type"`
	StoragePath   *int               `json:"storage_path"`
	Tags          []int              `json:"tags"`
	CustomFields  []CustomFieldValue `json:"custom_fields,omitempty"`

	// ArchiveSerialNumber and content are carried through for the JSON
	// artifact but never interpreted locally.
	ArchiveSerialNumber *int   `json:"archive_serial_number,omitempty"`
	Content             string `json:"content,omitempty"`

	// Raw is the verbatim detail-endpoint response body, set by GetDocument.
	// The metadata artifact writes this record, so fields the struct does not
	// declare (owner, notes, original_file_name, ...) survive the export.
	// Documents from the list endpoint carry no raw record.
	Raw json.RawMessage `json:"-"`
}

// HasTag reports whether the document carries the given tag identifier.
func (d *Document) HasTag(tagID int) bool {
	for _, id := range d.Tags {
		if id == tagID {
			return true
		}
	}
	return false
}

// Tag is a user-defined label attachable to documents.
type Tag struct {
	ID   int    `json:"id"`
	Name string `json:"name"`
}

// CustomField is a custom-field definition from the schema endpoint.
//
// DataType is one of the Paperless data types ("string", "monetary",
// "select", ...). For select fields ExtraData carries the ordered choice
// labels; a stored value is an index into that list.
type CustomField struct {
	ID        int        `json:"id"`
	Name      string     `json:"name"`
	DataType  string     `json:"data_type"`
	ExtraData *FieldData `json:"extra_data,omitempty"`
}

// FieldData holds type-specific schema extras.
type FieldData struct {
	SelectOptions []string `json:"select_options,omitempty"`
}

// CustomFieldValue is a single custom-field value attached to a document.
// The raw value's JSON type depends on the field's data type: a string for
// monetary fields, an integer choice index for select fields, and anything
// for the rest, so it is kept as an untyped value.
type CustomFieldValue struct {
	Field int `json:"field"`
	Value any `json:"value"`
}

// =============================================================================
// REFERENCE ENDPOINT CATEGORIES
// =============================================================================

// RefCategory names a single-entity lookup endpoint that maps an identifier
// to a display name.
type RefCategory string

const (
	RefCorrespondents RefCategory = "correspondents"
	RefDocumentTypes  RefCategory = "document_types"
	RefStoragePaths   RefCategory = "storage_paths"
)

// =============================================================================
// PAGINATION ENVELOPES
// =============================================================================

// Paperless list endpoints wrap results in a count/next/previous envelope.
// Next is a full URL to the following page, or null on the last page.

type documentsPage struct {
	Count   int        `json:"count"`
	Next    *string    `json:"next"`
	Results []Document `json:"results"`
}

type tagsPage struct {
	Count   int     `json:"count"`
	Next    *string `json:"next"`
	Results []Tag   `json:"results"`
}

type customFieldsPage struct {
	Count   int           `json:"count"`
	Next    *string       `json:"next"`
	Results []CustomField `json:"results"`
}

// namedEntity is the subset of a reference-endpoint response we care about.
type namedEntity struct {
	Name string `json:"name"`
}
