// Copyright 2026 The Harbor Authors
// SPDX-License-Identifier: Apache-2.0

package crmclient

import (
	"context"
	"fmt"

	"github.com/harbor-crm/harbor/lib/crm"
)

// ListUpdates fetches the activity updates at the given expanded path
// (e.g. "/opportunities/opp-1/updates"). The server returns newest
// first; the client does not re-sort.
func (client *Client) ListUpdates(ctx context.Context, path string) ([]crm.Update, error) {
	var updates []crm.Update
	if err := client.get(ctx, path, &updates); err != nil {
		return nil, err
	}
	return updates, nil
}

// CreateUpdate posts a new update draft to the given expanded path and
// returns the server's stored record, including the assigned ID,
// author, and timestamp.
func (client *Client) CreateUpdate(ctx context.Context, path string, draft crm.UpdateDraft) (crm.Update, error) {
	if err := draft.Validate(); err != nil {
		return crm.Update{}, err
	}
	var created crm.Update
	if err := client.post(ctx, path, draft, &created); err != nil {
		return crm.Update{}, err
	}
	if created.ID == "" {
		return crm.Update{}, fmt.Errorf("crm: server returned update without ID")
	}
	return created, nil
}

// DeleteUpdate removes the update at the given expanded record path
// (e.g. "/opportunities/opp-1/updates/upd-7f2a").
func (client *Client) DeleteUpdate(ctx context.Context, path string) error {
	return client.delete(ctx, path)
}

// ListFiles fetches the file attachments at the given expanded path.
func (client *Client) ListFiles(ctx context.Context, path string) ([]crm.File, error) {
	var files []crm.File
	if err := client.get(ctx, path, &files); err != nil {
		return nil, err
	}
	return files, nil
}

// DeleteFile removes the file at the given expanded record path.
func (client *Client) DeleteFile(ctx context.Context, path string) error {
	return client.delete(ctx, path)
}
