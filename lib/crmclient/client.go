// Copyright 2026 The Harbor Authors
// SPDX-License-Identifier: Apache-2.0

// Package crmclient is a typed REST client for the Harbor CRM API.
//
// The client takes fully expanded request paths (see
// [crm.RouteSet.Expand]) so that route configuration stays with the
// component that owns it; this package only knows transport concerns:
// authentication, bounded body reads, rate-limit backoff, and
// structured error parsing.
package crmclient

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/harbor-crm/harbor/lib/clock"
	"github.com/harbor-crm/harbor/lib/netutil"
)

// defaultRetryAfter is the backoff used for a 429 response that
// carries no Retry-After header.
const defaultRetryAfter = 2 // seconds

// Config holds configuration for creating a CRM API [Client].
type Config struct {
	// BaseURL is the root URL for API requests. Required. Must use
	// HTTPS unless the host is localhost (the development mock API
	// serves plain HTTP on a loopback port).
	BaseURL string

	// Token is the bearer token for API authentication. Required.
	Token string

	// HTTPClient is used for all HTTP requests. Defaults to
	// http.DefaultClient.
	HTTPClient *http.Client

	// Clock provides time operations. Defaults to clock.Real().
	// Inject clock.Fake() in tests for deterministic backoff.
	Clock clock.Clock

	// Logger is used for structured logging. Defaults to slog.Default().
	Logger *slog.Logger
}

// Client is a typed CRM REST API client with bearer authentication,
// rate-limit backoff, and structured error handling.
type Client struct {
	baseURL    string
	token      string
	httpClient *http.Client
	clock      clock.Clock
	logger     *slog.Logger
}

// NewClient creates a CRM API client from the given configuration.
// Returns an error if the configuration is invalid (missing token,
// non-HTTPS URL on a non-loopback host).
func NewClient(config Config) (*Client, error) {
	baseURL := strings.TrimRight(config.BaseURL, "/")
	if baseURL == "" {
		return nil, fmt.Errorf("crm: BaseURL is required")
	}
	if !strings.HasPrefix(baseURL, "https://") && !isLoopbackURL(baseURL) {
		return nil, fmt.Errorf("crm: API client requires HTTPS (got %q)", baseURL)
	}
	if config.Token == "" {
		return nil, fmt.Errorf("crm: Token is required")
	}

	httpClient := config.HTTPClient
	if httpClient == nil {
		httpClient = http.DefaultClient
	}

	clk := config.Clock
	if clk == nil {
		clk = clock.Real()
	}

	logger := config.Logger
	if logger == nil {
		logger = slog.Default()
	}

	return &Client{
		baseURL:    baseURL,
		token:      config.Token,
		httpClient: httpClient,
		clock:      clk,
		logger:     logger,
	}, nil
}

// isLoopbackURL reports whether a plain-HTTP base URL points at a
// loopback host.
func isLoopbackURL(baseURL string) bool {
	rest, ok := strings.CutPrefix(baseURL, "http://")
	if !ok {
		return false
	}
	host := rest
	if index := strings.IndexAny(rest, ":/"); index >= 0 {
		host = rest[:index]
	}
	return host == "localhost" || host == "127.0.0.1" || host == "::1"
}

// do executes an authenticated CRM API request. The path must be
// relative to the base URL (e.g. "/opportunities/opp-1/updates").
//
// Returns the response body as raw bytes. On non-2xx responses,
// returns an *APIError. A 429 response is retried once after the
// server's Retry-After interval.
func (client *Client) do(ctx context.Context, method, path string, requestBody any) ([]byte, error) {
	return client.doWithRetry(ctx, method, path, requestBody, false)
}

// doWithRetry is the internal implementation of do with a retry flag
// to prevent infinite recursion on persistent rate limiting.
func (client *Client) doWithRetry(ctx context.Context, method, path string, requestBody any, isRetry bool) ([]byte, error) {
	var bodyReader io.Reader
	if requestBody != nil {
		encoded, err := json.Marshal(requestBody)
		if err != nil {
			return nil, fmt.Errorf("crm: encoding request body: %w", err)
		}
		bodyReader = bytes.NewReader(encoded)
	}

	url := client.baseURL + path
	request, err := http.NewRequestWithContext(ctx, method, url, bodyReader)
	if err != nil {
		return nil, fmt.Errorf("crm: creating request: %w", err)
	}
	request.Header.Set("Authorization", "Bearer "+client.token)
	request.Header.Set("Accept", "application/json")
	if requestBody != nil {
		request.Header.Set("Content-Type", "application/json")
	}

	response, err := client.httpClient.Do(request)
	if err != nil {
		return nil, fmt.Errorf("crm: %s %s: %w", method, url, err)
	}
	defer response.Body.Close()

	if response.StatusCode >= 200 && response.StatusCode < 300 {
		body, err := netutil.ReadResponse(response.Body)
		if err != nil {
			return nil, fmt.Errorf("crm: reading response body: %w", err)
		}
		return body, nil
	}

	// Attempt one retry on rate limiting, honoring Retry-After.
	if !isRetry && response.StatusCode == http.StatusTooManyRequests {
		retrySeconds := defaultRetryAfter
		if header := response.Header.Get("Retry-After"); header != "" {
			if parsed, parseErr := strconv.Atoi(header); parseErr == nil && parsed > 0 {
				retrySeconds = parsed
			}
		}
		client.logger.Info("rate limited, backing off",
			"seconds", retrySeconds,
			"method", method,
			"path", path,
		)

		select {
		case <-client.clock.After(time.Duration(retrySeconds) * time.Second):
		case <-ctx.Done():
			return nil, ctx.Err()
		}

		return client.doWithRetry(ctx, method, path, requestBody, true)
	}

	return nil, parseAPIError(response.StatusCode, []byte(netutil.ErrorBody(response.Body)))
}

// get is a convenience method for GET requests that return a JSON
// value. Decodes the response into result.
func (client *Client) get(ctx context.Context, path string, result any) error {
	body, err := client.do(ctx, http.MethodGet, path, nil)
	if err != nil {
		return err
	}
	return json.Unmarshal(body, result)
}

// post is a convenience method for POST requests that return a JSON
// value. Decodes the response into result when result is non-nil.
func (client *Client) post(ctx context.Context, path string, requestBody any, result any) error {
	body, err := client.do(ctx, http.MethodPost, path, requestBody)
	if err != nil {
		return err
	}
	if result != nil {
		return json.Unmarshal(body, result)
	}
	return nil
}

// delete is a convenience method for DELETE requests.
func (client *Client) delete(ctx context.Context, path string) error {
	_, err := client.do(ctx, http.MethodDelete, path, nil)
	return err
}
