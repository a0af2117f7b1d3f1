// Copyright (C) 2025 Marginalia Reads (dev@marginalia.reads)
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.

package bookclub

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/marginalia-reads/marginalia/pkg/logging"
)

// -----------------------------------------------------------------------------
// Search Kinds
// -----------------------------------------------------------------------------

// SearchKind selects the lookup endpoint used by Search.
type SearchKind string

const (
	SearchISBN   SearchKind = "isbn"
	SearchAuthor SearchKind = "author"
	SearchTitle  SearchKind = "title"
)

// Valid reports whether the kind names a known lookup endpoint.
func (k SearchKind) Valid() bool {
	switch k {
	case SearchISBN, SearchAuthor, SearchTitle:
		return true
	default:
		return false
	}
}

// -----------------------------------------------------------------------------
// Interface Definition
// -----------------------------------------------------------------------------

// ReviewService defines the contract for talking to the book-review API.
// This interface enables testing the UI layers with mocks.
//
// Implementations must be safe for concurrent use.
type ReviewService interface {
	// ListBooks returns the full catalog, sorted by ISBN.
	ListBooks(ctx context.Context) ([]Book, error)

	// GetBookByISBN returns a single book, or an ErrorNotFound-kind
	// error when the book is absent or its payload has no title.
	GetBookByISBN(ctx context.Context, isbn string) (Book, error)

	// Search dispatches to the isbn/author/title lookup selected by
	// kind. Unknown kinds and empty terms fail locally without touching
	// the network.
	Search(ctx context.Context, kind SearchKind, term string) ([]Book, error)

	// GetReviews returns a book's reviews sorted by review ID. A
	// non-success response means "no reviews", not an error.
	GetReviews(ctx context.Context, isbn string) ([]Review, error)

	// Register creates an account. The result message is the server's
	// plain-text response, verbatim.
	Register(ctx context.Context, username, password string) (MutationResult, error)

	// Login authenticates and returns the bearer token.
	Login(ctx context.Context, username, password string) (string, error)

	// AddReview creates the current user's review for a book.
	AddReview(ctx context.Context, isbn, text, token string) (MutationResult, error)

	// UpdateReview replaces the current user's review for a book. The
	// request is scoped by isbn + token only; the server resolves which
	// review belongs to the caller.
	UpdateReview(ctx context.Context, isbn, text, token string) (MutationResult, error)

	// DeleteReview removes the current user's review for a book, again
	// scoped by isbn + token only.
	DeleteReview(ctx context.Context, isbn, token string) (MutationResult, error)

	// FindUserReviews scans every book's reviews for entries authored
	// by username. See aggregator.go.
	FindUserReviews(ctx context.Context, username string) ([]UserReview, error)
}

// -----------------------------------------------------------------------------
// Client
// -----------------------------------------------------------------------------

// Client implements ReviewService over HTTP.
type Client struct {
	// baseURL is the review service URL, no trailing slash.
	baseURL string

	// httpClient is used for all requests.
	httpClient *http.Client

	// logger receives request-level debug logs and aggregator warnings.
	logger *logging.Logger

	// aggregator fan-out settings, see aggregator.go.
	aggWorkers int
	aggRate    float64
}

var _ ReviewService = (*Client)(nil)

// Option customizes a Client.
type Option func(*Client)

// WithTimeout overrides the default 30 second request timeout.
func WithTimeout(d time.Duration) Option {
	return func(c *Client) { c.httpClient.Timeout = d }
}

// WithAggregatorLimits sets the bounded fan-out used by FindUserReviews:
// at most workers concurrent review fetches, throttled to rps requests
// per second. Zero values keep the defaults.
func WithAggregatorLimits(workers int, rps float64) Option {
	return func(c *Client) {
		if workers > 0 {
			c.aggWorkers = workers
		}
		if rps > 0 {
			c.aggRate = rps
		}
	}
}

// NewClient creates a review-service client.
//
// # Inputs
//
//   - baseURL: Service URL (e.g., "https://reviews.example.com"). A
//     trailing slash is stripped.
//   - logger: Destination for debug and warning logs. May not be nil.
//
// # Examples
//
//	client := bookclub.NewClient(cfg.API.BaseURL, logger)
//	books, err := client.ListBooks(ctx)
func NewClient(baseURL string, logger *logging.Logger, opts ...Option) *Client {
	c := &Client{
		baseURL: strings.TrimSuffix(baseURL, "/"),
		httpClient: &http.Client{
			Timeout: 30 * time.Second,
		},
		logger:     logger,
		aggWorkers: defaultAggregatorWorkers,
		aggRate:    defaultAggregatorRate,
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// BaseURL returns the configured service URL.
func (c *Client) BaseURL() string {
	return c.baseURL
}

// -----------------------------------------------------------------------------
// Request Plumbing
// -----------------------------------------------------------------------------

// newRequest builds a request with a per-request correlation ID attached.
func (c *Client) newRequest(ctx context.Context, method, path string, body io.Reader) (*http.Request, error) {
	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, body)
	if err != nil {
		return nil, &APIError{
			Kind:    ErrorConnectionFailed,
			Message: "Failed to build request",
			Detail:  err.Error(),
			Wrapped: err,
		}
	}
	req.Header.Set("X-Request-ID", uuid.NewString())
	return req, nil
}

// do executes the request and returns the response, mapping transport
// failures to ErrorConnectionFailed. The caller owns the body.
func (c *Client) do(req *http.Request) (*http.Response, error) {
	start := time.Now()
	resp, err := c.httpClient.Do(req)
	if err != nil {
		if req.Context().Err() != nil {
			return nil, &APIError{
				Kind:    ErrorConnectionFailed,
				Message: "Request cancelled",
				Detail:  req.Context().Err().Error(),
				Wrapped: err,
			}
		}
		return nil, connectionFailed(c.baseURL, err)
	}
	c.logger.Debug("api request",
		"method", req.Method,
		"path", req.URL.Path,
		"status", resp.StatusCode,
		"duration_ms", time.Since(start).Milliseconds(),
		"request_id", req.Header.Get("X-Request-ID"),
	)
	return resp, nil
}

// -----------------------------------------------------------------------------
// Catalog and Search
// -----------------------------------------------------------------------------

// ListBooks fetches the full catalog from GET / and normalizes it.
func (c *Client) ListBooks(ctx context.Context) ([]Book, error) {
	req, err := c.newRequest(ctx, http.MethodGet, "/", nil)
	if err != nil {
		return nil, err
	}
	resp, err := c.do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(resp.Body)
		return nil, &APIError{
			Kind:        ErrorInvalidResponse,
			Message:     fmt.Sprintf("Service returned status %d", resp.StatusCode),
			Detail:      strings.TrimSpace(string(body)),
			Remediation: "Try again later",
		}
	}

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, connectionFailed(c.baseURL, err)
	}
	books, err := decodeCatalog(data)
	if err != nil {
		return nil, &APIError{
			Kind:    ErrorInvalidResponse,
			Message: "Failed to parse the book catalog",
			Detail:  err.Error(),
			Wrapped: err,
		}
	}
	return books, nil
}

// GetBookByISBN fetches a single book from GET /isbn/{isbn}.
//
// A non-success status, or a payload whose record has no title, yields an
// ErrorNotFound-kind error: the book is unusable either way.
func (c *Client) GetBookByISBN(ctx context.Context, isbn string) (Book, error) {
	req, err := c.newRequest(ctx, http.MethodGet, "/isbn/"+url.PathEscape(isbn), nil)
	if err != nil {
		return Book{}, err
	}
	resp, err := c.do(req)
	if err != nil {
		return Book{}, err
	}
	defer resp.Body.Close()

	body, _ := io.ReadAll(resp.Body)
	if resp.StatusCode != http.StatusOK {
		return Book{}, &APIError{
			Kind:    ErrorNotFound,
			Message: fmt.Sprintf("Book %s not found", isbn),
			Detail:  strings.TrimSpace(string(body)),
		}
	}

	book, err := decodeBookRecord(isbn, body)
	if err != nil {
		return Book{}, &APIError{
			Kind:    ErrorInvalidResponse,
			Message: "Invalid book data received",
			Detail:  err.Error(),
			Wrapped: err,
		}
	}
	// A record with no title anywhere (flat, wrapped, or keyed) decodes
	// to the fallback; such a payload is unusable as a lookup result.
	if book.Title == UnknownTitle {
		return Book{}, &APIError{
			Kind:    ErrorNotFound,
			Message: "Invalid book data received",
			Detail:  strings.TrimSpace(string(body)),
		}
	}
	return book, nil
}

// Search dispatches to the lookup endpoint selected by kind.
//
// # Description
//
// Both validation failures are local: an unrecognized kind and an empty
// (or all-whitespace) term short-circuit with ErrorInvalidInput before
// any network call. Results are normalized to a sequence whether the
// server answered with one object or many.
func (c *Client) Search(ctx context.Context, kind SearchKind, term string) ([]Book, error) {
	term = strings.TrimSpace(term)
	if term == "" {
		return nil, invalidInput("Please enter a search term")
	}
	if !kind.Valid() {
		return nil, invalidInput("Invalid search type")
	}

	if kind == SearchISBN {
		book, err := c.GetBookByISBN(ctx, term)
		if err != nil {
			return nil, err
		}
		return []Book{book}, nil
	}

	path := fmt.Sprintf("/%s/%s", kind, url.PathEscape(term))
	req, err := c.newRequest(ctx, http.MethodGet, path, nil)
	if err != nil {
		return nil, err
	}
	resp, err := c.do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	body, _ := io.ReadAll(resp.Body)
	if resp.StatusCode != http.StatusOK {
		message := strings.TrimSpace(string(body))
		if message == "" {
			message = "Search failed"
		}
		return nil, &APIError{
			Kind:    ErrorNotFound,
			Message: message,
		}
	}

	books, err := decodeSearchResult(body)
	if err != nil {
		return nil, &APIError{
			Kind:    ErrorInvalidResponse,
			Message: "Failed to parse search results",
			Detail:  err.Error(),
			Wrapped: err,
		}
	}
	return books, nil
}

// -----------------------------------------------------------------------------
// Reviews
// -----------------------------------------------------------------------------

// GetReviews fetches a book's reviews from GET /review/{isbn}.
//
// A non-success response is the service's way of saying the book has no
// reviews, so it normalizes to an empty slice rather than an error. Only
// transport failures (and unparseable success bodies) surface as errors.
func (c *Client) GetReviews(ctx context.Context, isbn string) ([]Review, error) {
	req, err := c.newRequest(ctx, http.MethodGet, "/review/"+url.PathEscape(isbn), nil)
	if err != nil {
		return nil, err
	}
	resp, err := c.do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		io.Copy(io.Discard, resp.Body)
		return []Review{}, nil
	}

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, connectionFailed(c.baseURL, err)
	}
	reviews, err := decodeReviews(data)
	if err != nil {
		return nil, &APIError{
			Kind:    ErrorInvalidResponse,
			Message: "Failed to parse reviews",
			Detail:  err.Error(),
			Wrapped: err,
		}
	}
	return reviews, nil
}

// -----------------------------------------------------------------------------
// Accounts
// -----------------------------------------------------------------------------

// credentials is the JSON body for register and login.
type credentials struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

// Register creates an account via POST /register.
//
// The server answers in plain text for success and failure alike; the
// text is returned verbatim in the result.
func (c *Client) Register(ctx context.Context, username, password string) (MutationResult, error) {
	username = strings.TrimSpace(username)
	if username == "" || password == "" {
		return MutationResult{}, invalidInput("Please enter both username and password")
	}

	payload, err := json.Marshal(credentials{Username: username, Password: password})
	if err != nil {
		return MutationResult{}, &APIError{
			Kind:    ErrorInvalidInput,
			Message: "Failed to encode credentials",
			Detail:  err.Error(),
			Wrapped: err,
		}
	}

	req, err := c.newRequest(ctx, http.MethodPost, "/register", bytes.NewReader(payload))
	if err != nil {
		return MutationResult{}, err
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.do(req)
	if err != nil {
		return MutationResult{}, err
	}
	defer resp.Body.Close()

	body, _ := io.ReadAll(resp.Body)
	return MutationResult{
		OK:      resp.StatusCode >= 200 && resp.StatusCode < 300,
		Message: strings.TrimSpace(string(body)),
	}, nil
}

// loginResponse is the JSON answer from POST /customer/login. The
// message field is only set on failure.
type loginResponse struct {
	Token   string `json:"token"`
	Message string `json:"message"`
}

// Login authenticates via POST /customer/login and returns the bearer
// token.
//
// Empty credentials fail locally. A non-success response yields an
// ErrorUnauthorized-kind error carrying the server's message when
// present, else a generic "Login failed".
func (c *Client) Login(ctx context.Context, username, password string) (string, error) {
	username = strings.TrimSpace(username)
	if username == "" || password == "" {
		return "", invalidInput("Please enter both username and password")
	}

	payload, err := json.Marshal(credentials{Username: username, Password: password})
	if err != nil {
		return "", &APIError{
			Kind:    ErrorInvalidInput,
			Message: "Failed to encode credentials",
			Detail:  err.Error(),
			Wrapped: err,
		}
	}

	req, err := c.newRequest(ctx, http.MethodPost, "/customer/login", bytes.NewReader(payload))
	if err != nil {
		return "", err
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.do(req)
	if err != nil {
		return "", err
	}
	defer resp.Body.Close()

	body, _ := io.ReadAll(resp.Body)
	var login loginResponse
	// Some failure paths answer with plain text; tolerate that and fall
	// back to the generic message.
	_ = json.Unmarshal(body, &login)

	if resp.StatusCode != http.StatusOK {
		message := login.Message
		if message == "" {
			message = "Login failed"
		}
		return "", &APIError{
			Kind:        ErrorUnauthorized,
			Message:     message,
			Detail:      strings.TrimSpace(string(body)),
			Remediation: "Check the username and password, or register first",
		}
	}
	if login.Token == "" {
		return "", &APIError{
			Kind:    ErrorInvalidResponse,
			Message: "Login succeeded but no token was returned",
			Detail:  strings.TrimSpace(string(body)),
		}
	}

	c.logger.Info("login succeeded", "username", username, "token_present", true)
	return login.Token, nil
}

// -----------------------------------------------------------------------------
// Review Mutations
// -----------------------------------------------------------------------------

// reviewMutation issues one of the authenticated review calls. They all
// share the same shape: the review text travels as a query parameter, the
// token as a bearer header, and the answer is plain text.
func (c *Client) reviewMutation(ctx context.Context, method, isbn, text, token string) (MutationResult, error) {
	path := "/customer/auth/review/" + url.PathEscape(isbn)
	if method != http.MethodDelete {
		path += "?review=" + url.QueryEscape(text)
	}

	req, err := c.newRequest(ctx, method, path, nil)
	if err != nil {
		return MutationResult{}, err
	}
	req.Header.Set("Authorization", "Bearer "+token)

	resp, err := c.do(req)
	if err != nil {
		return MutationResult{}, err
	}
	defer resp.Body.Close()

	body, _ := io.ReadAll(resp.Body)
	return MutationResult{
		OK:      resp.StatusCode >= 200 && resp.StatusCode < 300,
		Message: strings.TrimSpace(string(body)),
	}, nil
}

// AddReview creates the caller's review for a book via POST.
//
// Blank text fails locally with ErrorInvalidInput; the session check
// belongs to the caller (the UI shows its "please login" message without
// calling here).
func (c *Client) AddReview(ctx context.Context, isbn, text, token string) (MutationResult, error) {
	text = strings.TrimSpace(text)
	if text == "" {
		return MutationResult{}, invalidInput("Please enter a review")
	}
	return c.reviewMutation(ctx, http.MethodPost, isbn, text, token)
}

// UpdateReview replaces the caller's review for a book via PUT.
//
// The request is scoped by isbn + bearer token only, never by review
// ID: the service resolves "this user's review of this book" itself.
func (c *Client) UpdateReview(ctx context.Context, isbn, text, token string) (MutationResult, error) {
	text = strings.TrimSpace(text)
	if text == "" {
		return MutationResult{}, invalidInput("Please enter a review")
	}
	return c.reviewMutation(ctx, http.MethodPut, isbn, text, token)
}

// DeleteReview removes the caller's review for a book via DELETE, scoped
// by isbn + bearer token only.
func (c *Client) DeleteReview(ctx context.Context, isbn, token string) (MutationResult, error) {
	return c.reviewMutation(ctx, http.MethodDelete, isbn, "", token)
}
