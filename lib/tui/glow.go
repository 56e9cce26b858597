// Copyright 2026 The Harbor Authors
// SPDX-License-Identifier: Apache-2.0

package tui

import (
	"time"
)

// GlowDecayDuration is how long a row glows after a change event.
// Glow starts at 1.0 and decays linearly to 0.0 over this duration.
const GlowDecayDuration = 4 * time.Second

// GlowTickInterval is the re-render interval while any rows are
// glowing. 100ms gives ~10fps animation for smooth color decay.
const GlowTickInterval = 100 * time.Millisecond

// GlowKind distinguishes change types for color selection.
type GlowKind int

const (
	// GlowPut indicates a row was created or updated (amber tint).
	GlowPut GlowKind = iota
	// GlowRemove indicates a row left the view (red tint).
	GlowRemove
)

// glowEntry records when and how a row was last changed.
type glowEntry struct {
	ignition time.Time
	kind     GlowKind
}

// GlowTracker maps row IDs to ignition timestamps for animated
// change highlighting. Each change ignites a row, which then decays
// from full intensity to zero over [GlowDecayDuration].
type GlowTracker struct {
	entries map[string]glowEntry
}

// NewGlowTracker creates an empty glow tracker.
func NewGlowTracker() *GlowTracker {
	return &GlowTracker{
		entries: make(map[string]glowEntry),
	}
}

// Ignite records a change event for a row. Resets the decay timer if
// the row was already glowing.
func (tracker *GlowTracker) Ignite(rowID string, kind GlowKind, now time.Time) {
	tracker.entries[rowID] = glowEntry{ignition: now, kind: kind}
}

// Glow returns the current intensity for a row: 1.0 at ignition,
// linearly decaying to 0.0 over [GlowDecayDuration]. Returns 0.0 for
// rows that were never ignited or have fully decayed.
func (tracker *GlowTracker) Glow(rowID string, now time.Time) float64 {
	entry, exists := tracker.entries[rowID]
	if !exists {
		return 0.0
	}
	elapsed := now.Sub(entry.ignition)
	if elapsed >= GlowDecayDuration {
		return 0.0
	}
	return 1.0 - float64(elapsed)/float64(GlowDecayDuration)
}

// Kind returns the glow kind for a row. Only meaningful when Glow()
// returns > 0.
func (tracker *GlowTracker) Kind(rowID string) GlowKind {
	entry, exists := tracker.entries[rowID]
	if !exists {
		return GlowPut
	}
	return entry.kind
}

// HasGlowing returns true if any tracked row still has glow > 0,
// meaning the tick timer should keep running for animation.
func (tracker *GlowTracker) HasGlowing(now time.Time) bool {
	for rowID, entry := range tracker.entries {
		if now.Sub(entry.ignition) < GlowDecayDuration {
			return true
		}
		// Garbage-collect fully decayed entries.
		delete(tracker.entries, rowID)
	}
	return false
}
