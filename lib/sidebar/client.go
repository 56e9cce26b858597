// Copyright 2026 The Harbor Authors
// SPDX-License-Identifier: Apache-2.0

package sidebar

import (
	"context"

	"github.com/harbor-crm/harbor/lib/crm"
)

// Client is the slice of the CRM API the sidebar consumes. Paths are
// fully expanded routes; the panel expands its RouteSet before
// calling. Satisfied by *crmclient.Client; tests substitute in-memory
// fakes.
type Client interface {
	ListUpdates(ctx context.Context, path string) ([]crm.Update, error)
	CreateUpdate(ctx context.Context, path string, draft crm.UpdateDraft) (crm.Update, error)
	DeleteUpdate(ctx context.Context, path string) error
	ListFiles(ctx context.Context, path string) ([]crm.File, error)
	DeleteFile(ctx context.Context, path string) error
}
