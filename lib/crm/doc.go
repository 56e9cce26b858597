// Copyright 2026 The Harbor Authors
// SPDX-License-Identifier: Apache-2.0

// Package crm defines the Harbor domain schema: the entity kinds the
// sidebar can be bound to (opportunities and jobs), the related
// records it displays (activity updates and file attachments), and
// the per-kind route tables mapping logical operations to CRM API
// endpoint templates.
//
// Records mirror the CRM API's JSON wire format. Timestamps are
// RFC 3339 strings as transmitted; parsing happens at display time so
// a malformed server timestamp degrades one row instead of failing a
// whole decode.
package crm
