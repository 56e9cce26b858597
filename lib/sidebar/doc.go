// Copyright 2026 The Harbor Authors
// SPDX-License-Identifier: Apache-2.0

// Package sidebar implements the entity sidebar: a tabbed terminal
// panel showing a CRM entity's related records (activity updates and
// file attachments), lazily fetched through a read-through query
// cache and kept fresh by cache invalidation after mutations.
//
// The panel itself is generic over the entity kind. A SidebarConfig
// binds it to a concrete kind by supplying the route set, the cache
// keys to invalidate after mutations, and the per-tab copy strings.
// [OpportunityConfig] and [JobConfig] are the two shipped bindings;
// they differ only in configuration, never in logic.
//
// Fetches run off the bubbletea event loop and deliver results as
// messages tagged with a generation counter. Switching the entity or
// the tab bumps the counter, so a completion that arrives for a
// selection the user has already left is discarded instead of
// rendered.
package sidebar
