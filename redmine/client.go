// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package redmine

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/dustin/go-humanize"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"

	"github.com/danielhkuo/fabval/telemetry"
)

// DefaultPageSize is the number of issues requested per page.
const DefaultPageSize = 100

// DefaultTimeout bounds each page request.
const DefaultTimeout = 30 * time.Second

// IDName is Redmine's {id, name} reference shape.
type IDName struct {
	ID   int64  `json:"id"`
	Name string `json:"name"`
}

// Issue holds the fields of a Redmine issue that synchronization reads.
type Issue struct {
	ID      int64  `json:"id"`
	Project IDName `json:"project"`
	Tracker IDName `json:"tracker"`
	Subject string `json:"subject"`
}

// IssuesPage is one page of GET /issues.json.
type IssuesPage struct {
	Issues     []Issue `json:"issues"`
	TotalCount int     `json:"total_count"`
	Offset     int     `json:"offset"`
	Limit      int     `json:"limit"`
}

// UpstreamError reports a failed page fetch. StatusCode is 0 for transport
// and decoding failures.
type UpstreamError struct {
	Offset     int
	StatusCode int
	Err        error
}

func (e *UpstreamError) Error() string {
	if e.StatusCode != 0 {
		return fmt.Sprintf("redmine issues at offset %d: HTTP %d: %v", e.Offset, e.StatusCode, e.Err)
	}
	return fmt.Sprintf("redmine issues at offset %d: %v", e.Offset, e.Err)
}

func (e *UpstreamError) Unwrap() error {
	return e.Err
}

// Client provides HTTP access to a Redmine instance with basic auth.
type Client struct {
	BaseURL    string
	User       string
	Password   string
	PageSize   int
	HTTPClient *http.Client
	tracer     trace.Tracer
}

// NewClient creates a new Redmine client.
func NewClient(baseURL, user, password string) *Client {
	return &Client{
		BaseURL:  strings.TrimSuffix(baseURL, "/"),
		User:     user,
		Password: password,
		PageSize: DefaultPageSize,
		HTTPClient: &http.Client{
			Timeout: DefaultTimeout,
		},
		tracer: telemetry.Tracer(telemetry.ScopeName + "/redmine"),
	}
}

// FetchIssues pages through /issues.json and returns every issue. It stops
// at the first page holding fewer than PageSize issues; total_count is not
// consulted, so a full final page costs one extra empty request. Any failed
// page fails the whole fetch.
func (c *Client) FetchIssues(ctx context.Context) (issues []Issue, err error) {
	ctx, span := c.tracer.Start(ctx, "redmine.FetchIssues",
		trace.WithSpanKind(trace.SpanKindClient),
		trace.WithAttributes(attribute.String("redmine.url", c.BaseURL)),
	)
	defer func() {
		if err != nil {
			span.RecordError(err)
			span.SetStatus(codes.Error, err.Error())
		}
		span.SetAttributes(attribute.Int("redmine.issue.count", len(issues)))
		span.End()
	}()

	limit := c.PageSize
	if limit <= 0 {
		limit = DefaultPageSize
	}

	pages := 0
	for offset := 0; ; offset += limit {
		page, err := c.fetchPage(ctx, limit, offset)
		if err != nil {
			return nil, err
		}
		pages++
		issues = append(issues, page.Issues...)

		if len(page.Issues) < limit {
			break
		}
	}

	slog.Info("fetched redmine issues",
		"url", c.BaseURL,
		"issues", humanize.Comma(int64(len(issues))),
		"pages", pages,
	)
	return issues, nil
}

func (c *Client) fetchPage(ctx context.Context, limit, offset int) (*IssuesPage, error) {
	params := url.Values{
		"limit":  {strconv.Itoa(limit)},
		"offset": {strconv.Itoa(offset)},
	}
	apiURL := c.BaseURL + "/issues.json?" + params.Encode()

	body, status, err := c.doRequest(ctx, apiURL)
	if err != nil {
		return nil, &UpstreamError{Offset: offset, StatusCode: status, Err: err}
	}

	var page IssuesPage
	if err := json.Unmarshal(body, &page); err != nil {
		return nil, &UpstreamError{Offset: offset, Err: fmt.Errorf("parse issues response: %w", err)}
	}
	return &page, nil
}

// doRequest executes an authenticated GET and returns the body. The status
// code is returned alongside non-2xx errors.
func (c *Client) doRequest(ctx context.Context, apiURL string) ([]byte, int, error) {
	if c.BaseURL == "" {
		return nil, 0, fmt.Errorf("redmine URL not configured")
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, apiURL, nil)
	if err != nil {
		return nil, 0, fmt.Errorf("create request: %w", err)
	}
	req.SetBasicAuth(c.User, c.Password)
	req.Header.Set("Accept", "application/json")
	req.Header.Set("User-Agent", "fabval-sync/1.0")

	resp, err := c.HTTPClient.Do(req)
	if err != nil {
		return nil, 0, err
	}
	defer func() { _ = resp.Body.Close() }()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, 0, fmt.Errorf("read response: %w", err)
	}

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return nil, resp.StatusCode, errors.New(http.StatusText(resp.StatusCode))
	}

	return respBody, resp.StatusCode, nil
}
