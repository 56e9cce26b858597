// Copyright 2026 The Harbor Authors
// SPDX-License-Identifier: Apache-2.0

package sidebar

import (
	"log/slog"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/harbor-crm/harbor/lib/clock"
	"github.com/harbor-crm/harbor/lib/crm"
	"github.com/harbor-crm/harbor/lib/querycache"
)

// Tab identifies one of the sidebar's record tabs.
type Tab int

const (
	// TabUpdates shows the entity's activity timeline.
	TabUpdates Tab = iota
	// TabFiles shows the entity's file attachments.
	TabFiles
)

// String returns the lowercase tab name used in test identifiers and
// log attributes.
func (tab Tab) String() string {
	if tab == TabFiles {
		return "files"
	}
	return "updates"
}

// SidebarConfig binds the generic panel to a concrete entity kind.
// The first block is the binding surface: everything an instance
// supplies. Instances must not diverge in which fields they populate;
// a parity test enforces this for the shipped configs.
type SidebarConfig struct {
	// Kind is the entity kind this config binds to.
	Kind crm.EntityKind

	// Routes maps the panel's operations to URL templates. Every
	// operation the panel performs must be present; NewPanel rejects
	// incomplete route sets.
	Routes crm.RouteSet

	// InvalidationKeys are cache-key prefixes discarded after every
	// successful mutation, in addition to the mutated tab's own list
	// key. Typically the outer list view's key, so entity summaries
	// outside the panel reflect the change.
	InvalidationKeys []querycache.Key

	// InitialTab is the tab selected when an entity is shown.
	InitialTab Tab

	// TestIDPrefix namespaces the identifiers returned by TestID.
	TestIDPrefix string

	// EmptyUpdatesMessage is shown when the updates tab has zero
	// records.
	EmptyUpdatesMessage string

	// EmptyFilesMessage is shown when the files tab has zero records.
	EmptyFilesMessage string

	// OnClose is returned from Update when the user presses the
	// close key with no overlay active. Nil means tea.Quit.
	OnClose tea.Cmd

	// Clock supplies time for relative ages and glow animation.
	// Defaults to the real clock.
	Clock clock.Clock

	// Logger receives panel events. Defaults to slog.Default().
	Logger *slog.Logger
}

// TestID returns the stable identifier "{prefix}-{part}" for a panel
// region. The panel embeds these in its status line and log records
// so external harnesses can address regions without parsing styled
// output.
func (config SidebarConfig) TestID(part string) string {
	return config.TestIDPrefix + "-" + part
}

// OpportunityConfig returns the sidebar binding for opportunities.
func OpportunityConfig() SidebarConfig {
	return SidebarConfig{
		Kind:   crm.KindOpportunity,
		Routes: crm.OpportunityRoutes(),
		InvalidationKeys: []querycache.Key{
			{"list-opportunities"},
		},
		InitialTab:          TabUpdates,
		TestIDPrefix:        "opportunity-sidebar",
		EmptyUpdatesMessage: "Write a note, drop an email, or share files to get things moving",
		EmptyFilesMessage:   "Upload files or paste screenshots to attach them",
	}
}

// JobConfig returns the sidebar binding for jobs.
func JobConfig() SidebarConfig {
	return SidebarConfig{
		Kind:   crm.KindJob,
		Routes: crm.JobRoutes(),
		InvalidationKeys: []querycache.Key{
			{"list-jobs"},
		},
		InitialTab:          TabUpdates,
		TestIDPrefix:        "job-sidebar",
		EmptyUpdatesMessage: "Log a note, email, or call to start this job's activity trail",
		EmptyFilesMessage:   "Attach contracts, photos, or invoices to keep them with the job",
	}
}
