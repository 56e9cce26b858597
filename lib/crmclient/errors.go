// Copyright 2026 The Harbor Authors
// SPDX-License-Identifier: Apache-2.0

package crmclient

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
)

// APIError represents a non-2xx response from the CRM REST API. The
// API returns structured JSON error bodies with a message and an
// optional request ID for support correlation.
type APIError struct {
	// StatusCode is the HTTP response status code.
	StatusCode int

	// Message is the error description from the API.
	Message string

	// RequestID identifies the failed request in server-side logs.
	// Empty when the server omitted it.
	RequestID string
}

func (err *APIError) Error() string {
	if err.RequestID != "" {
		return fmt.Sprintf("crm: HTTP %d: %s (request %s)", err.StatusCode, err.Message, err.RequestID)
	}
	return fmt.Sprintf("crm: HTTP %d: %s", err.StatusCode, err.Message)
}

// IsNotFound reports whether err is a CRM API 404 Not Found response.
// The caller typically maps this to an empty state rather than an
// error banner: a just-created entity may have no update feed yet.
func IsNotFound(err error) bool {
	var apiError *APIError
	return errors.As(err, &apiError) && apiError.StatusCode == http.StatusNotFound
}

// IsRateLimited reports whether err is a CRM API 429 response.
func IsRateLimited(err error) bool {
	var apiError *APIError
	return errors.As(err, &apiError) && apiError.StatusCode == http.StatusTooManyRequests
}

// IsUnauthorized reports whether err is a CRM API 401 response,
// usually an expired or revoked token.
func IsUnauthorized(err error) bool {
	var apiError *APIError
	return errors.As(err, &apiError) && apiError.StatusCode == http.StatusUnauthorized
}

// parseAPIError builds an APIError from a status code and response
// body. Falls back to the raw body text when the body is not the
// structured error shape.
func parseAPIError(statusCode int, body []byte) *APIError {
	apiError := &APIError{StatusCode: statusCode}

	var wireError struct {
		Message   string `json:"message"`
		RequestID string `json:"request_id"`
	}
	if json.Unmarshal(body, &wireError) == nil && wireError.Message != "" {
		apiError.Message = wireError.Message
		apiError.RequestID = wireError.RequestID
	} else {
		apiError.Message = string(body)
	}
	if apiError.Message == "" {
		apiError.Message = http.StatusText(statusCode)
	}

	return apiError
}
