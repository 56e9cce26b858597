// Copyright 2026 The Harbor Authors
// SPDX-License-Identifier: Apache-2.0

package crm

import (
	"fmt"
	"time"
)

// File is a file attachment on an entity, as returned by the CRM
// API's list-files endpoint. The sidebar displays metadata only; file
// content stays on the server.
type File struct {
	// ID is the server-assigned file identifier (e.g. "fil-91c3").
	ID string `json:"id"`

	// Name is the original filename.
	Name string `json:"name"`

	// Size is the file size in bytes.
	Size int64 `json:"size"`

	// ContentType is the MIME type reported at upload.
	ContentType string `json:"content_type,omitempty"`

	// UploadedBy is the display name of the uploading user.
	UploadedBy string `json:"uploaded_by"`

	// CreatedAt is an RFC 3339 timestamp set by the server.
	CreatedAt string `json:"created_at"`
}

// Age returns a compact relative-time label for the upload time, or
// an empty string when the timestamp does not parse.
func (file File) Age(now time.Time) string {
	created, err := time.Parse(time.RFC3339, file.CreatedAt)
	if err != nil {
		return ""
	}
	return compactAge(now.Sub(created))
}

// FormatSize renders a byte count in the most readable unit. Sizes
// below 1 KB show exact bytes; larger sizes show one decimal place.
func FormatSize(size int64) string {
	const (
		kb = 1 << 10
		mb = 1 << 20
		gb = 1 << 30
	)
	switch {
	case size < kb:
		return fmt.Sprintf("%d B", size)
	case size < mb:
		return fmt.Sprintf("%.1f KB", float64(size)/kb)
	case size < gb:
		return fmt.Sprintf("%.1f MB", float64(size)/mb)
	default:
		return fmt.Sprintf("%.1f GB", float64(size)/gb)
	}
}
