// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package paperless provides the HTTP client for the Paperless-ngx REST API.
package paperless

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"golang.org/x/time/rate"
)

// =============================================================================
// ERROR TYPES
// =============================================================================

// ClientError represents an error from the Paperless client.
type ClientError struct {
	Type       ErrorType
	Endpoint   string
	StatusCode int
	Message    string
	Cause      error
}

func (e *ClientError) Error() string {
	msg := e.Message
	if e.Endpoint != "" {
		msg = e.Endpoint + ": " + msg
	}
	if e.Cause != nil {
		return msg + ": " + e.Cause.Error()
	}
	return msg
}

func (e *ClientError) Unwrap() error {
	return e.Cause
}

// ErrorType categorizes client errors for handling.
//
// ErrTypeStatus and ErrTypeDecode are deliberately distinct: a non-success
// HTTP response and a malformed response body are different failure modes
// and diagnostics must tell them apart.
type ErrorType int

const (
	ErrTypeUnknown ErrorType = iota
	ErrTypeConnection
	ErrTypeStatus
	ErrTypeDecode
)

// IsStatusError reports whether err is an HTTP-level failure (non-2xx).
func IsStatusError(err error) bool {
	var clientErr *ClientError
	return errors.As(err, &clientErr) && clientErr.Type == ErrTypeStatus
}

// IsDecodeError reports whether err is a malformed-response failure.
func IsDecodeError(err error) bool {
	var clientErr *ClientError
	return errors.As(err, &clientErr) && clientErr.Type == ErrTypeDecode
}

// =============================================================================
// CLIENT CONFIGURATION
// =============================================================================

// PageSize is the fixed page size used for document listing.
const PageSize = 25

// ClientConfig holds configuration options for the Paperless client.
type ClientConfig struct {
	// BaseURL is the API base URL, e.g. https://paperless.example.com/api
	BaseURL string

	// Token is the API token sent on every request.
	Token string

	// Timeout for non-download requests (default: 30s).
	Timeout time.Duration

	// RequestsPerSecond throttles outgoing requests when > 0.
	// Zero disables throttling.
	RequestsPerSecond float64
}

// Client handles communication with a Paperless-ngx server.
//
// All requests carry the token in an Authorization header. The client never
// retries: every failure is surfaced once and handled by the caller.
type Client struct {
	config     ClientConfig
	httpClient *http.Client
	limiter    *rate.Limiter
}

// NewClient creates a Paperless client for the given base URL and token.
func NewClient(config ClientConfig) *Client {
	if config.Timeout == 0 {
		config.Timeout = 30 * time.Second
	}
	var limiter *rate.Limiter
	if config.RequestsPerSecond > 0 {
		limiter = rate.NewLimiter(rate.Limit(config.RequestsPerSecond), 1)
	}
	return &Client{
		config:     ClientConfig{BaseURL: strings.TrimSuffix(config.BaseURL, "/"), Token: config.Token, Timeout: config.Timeout, RequestsPerSecond: config.RequestsPerSecond},
		httpClient: &http.Client{Timeout: config.Timeout},
		limiter:    limiter,
	}
}

// BaseURL returns the normalized API base URL.
func (c *Client) BaseURL() string {
	return c.config.BaseURL
}

// =============================================================================
// REFERENCE DATA
// =============================================================================

// ListTags retrieves the complete tag collection, following pagination until
// no further page remains. Any failure is fatal to the caller: an incomplete
// tag mapping makes downstream resolution meaningless.
func (c *Client) ListTags(ctx context.Context) (map[int]string, error) {
	tags := make(map[int]string)
	url := c.config.BaseURL + "/tags/"
	for url != "" {
		var page tagsPage
		if err := c.getJSON(ctx, url, "tags", &page); err != nil {
			return nil, err
		}
		for _, t := range page.Results {
			tags[t.ID] = t.Name
		}
		url = nextURL(page.Next)
	}
	return tags, nil
}

// ListCustomFields retrieves the complete custom-field schema, keyed by
// field identifier. Like ListTags, a partial schema is never returned.
func (c *Client) ListCustomFields(ctx context.Context) (map[int]CustomField, error) {
	fields := make(map[int]CustomField)
	url := c.config.BaseURL + "/custom_fields/"
	for url != "" {
		var page customFieldsPage
		if err := c.getJSON(ctx, url, "custom_fields", &page); err != nil {
			return nil, err
		}
		for _, f := range page.Results {
			fields[f.ID] = f
		}
		url = nextURL(page.Next)
	}
	return fields, nil
}

// =============================================================================
// DOCUMENTS
// =============================================================================

// ListDocumentsOptions narrows a document listing.
type ListDocumentsOptions struct {
	// TagID restricts the listing to documents carrying this tag (0 = all).
	TagID int
}

// ListDocuments retrieves documents page by page with a fixed page size.
// Page N+1 is requested only after page N succeeds.
//
// Unlike the reference-data calls this is deliberately non-fatal: a failed
// page terminates the fetch, and whatever was accumulated is returned
// alongside the error so the caller can still act on a partial set.
func (c *Client) ListDocuments(ctx context.Context, opts ListDocumentsOptions) ([]Document, error) {
	var docs []Document
	page := 1
	for {
		url := fmt.Sprintf("%s/documents/?page_size=%d&page=%d", c.config.BaseURL, PageSize, page)
		if opts.TagID > 0 {
			url += fmt.Sprintf("&tags__id__all=%d", opts.TagID)
		}

		var result documentsPage
		if err := c.getJSON(ctx, url, "documents", &result); err != nil {
			return docs, err
		}
		docs = append(docs, result.Results...)
		if result.Next == nil || *result.Next == "" {
			return docs, nil
		}
		page++
	}
}

// GetDocument retrieves the full record for a single document, including its
// custom-field values, which the list endpoint only summarizes. The verbatim
// response body is kept on the document (Raw) so the metadata artifact can
// preserve fields the typed struct does not declare.
func (c *Client) GetDocument(ctx context.Context, id int) (*Document, error) {
	url := fmt.Sprintf("%s/documents/%d/", c.config.BaseURL, id)
	resp, err := c.do(ctx, url)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		drain(resp.Body)
		return nil, &ClientError{Type: ErrTypeStatus, Endpoint: "documents", StatusCode: resp.StatusCode, Message: "unexpected status " + resp.Status}
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, &ClientError{Type: ErrTypeConnection, Endpoint: "documents", Message: "failed to read body", Cause: err}
	}

	var doc Document
	if err := json.Unmarshal(body, &doc); err != nil {
		return nil, &ClientError{Type: ErrTypeDecode, Endpoint: "documents", Message: "failed to decode response", Cause: err}
	}
	doc.Raw = body
	return &doc, nil
}

// DownloadDocument retrieves the binary content of a document.
func (c *Client) DownloadDocument(ctx context.Context, id int) ([]byte, error) {
	url := fmt.Sprintf("%s/documents/%d/download/", c.config.BaseURL, id)
	resp, err := c.do(ctx, url)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		drain(resp.Body)
		return nil, &ClientError{Type: ErrTypeStatus, Endpoint: "download", StatusCode: resp.StatusCode, Message: "unexpected status " + resp.Status}
	}

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, &ClientError{Type: ErrTypeConnection, Endpoint: "download", Message: "failed to read body", Cause: err}
	}
	return data, nil
}

// =============================================================================
// REFERENCE LOOKUPS
// =============================================================================

// GetEntityName resolves a reference identifier (correspondent, document
// type or storage path) to its display name via a direct lookup call.
func (c *Client) GetEntityName(ctx context.Context, category RefCategory, id int) (string, error) {
	url := fmt.Sprintf("%s/%s/%d/", c.config.BaseURL, category, id)
	var entity namedEntity
	if err := c.getJSON(ctx, url, string(category), &entity); err != nil {
		return "", err
	}
	return entity.Name, nil
}

// =============================================================================
// REQUEST PLUMBING
// =============================================================================

// getJSON issues a GET and decodes the JSON body into out. HTTP-level and
// decode-level failures map to distinct error types.
func (c *Client) getJSON(ctx context.Context, url, endpoint string, out any) error {
	resp, err := c.do(ctx, url)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		drain(resp.Body)
		return &ClientError{Type: ErrTypeStatus, Endpoint: endpoint, StatusCode: resp.StatusCode, Message: "unexpected status " + resp.Status}
	}

	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return &ClientError{Type: ErrTypeDecode, Endpoint: endpoint, Message: "failed to decode response", Cause: err}
	}
	return nil
}

func (c *Client) do(ctx context.Context, url string) (*http.Response, error) {
	if c.limiter != nil {
		if err := c.limiter.Wait(ctx); err != nil {
			return nil, &ClientError{Type: ErrTypeConnection, Message: "request throttled past deadline", Cause: err}
		}
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, &ClientError{Type: ErrTypeConnection, Message: "failed to create request", Cause: err}
	}
	req.Header.Set("Authorization", "Token "+c.config.Token)
	req.Header.Set("Accept", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		if errors.Is(err, context.DeadlineExceeded) {
			return nil, &ClientError{Type: ErrTypeConnection, Message: "request timed out", Cause: err}
		}
		return nil, &ClientError{Type: ErrTypeConnection, Message: "request failed", Cause: err}
	}
	return resp, nil
}

// nextURL unwraps a pagination link; a null or empty link ends the walk.
func nextURL(next *string) string {
	if next == nil {
		return ""
	}
	return *next
}

func drain(r io.ReadCloser) {
	io.Copy(io.Discard, r)
}
