// Copyright 2026 The Harbor Authors
// SPDX-License-Identifier: Apache-2.0

package tui

import (
	"testing"
	"time"
)

func TestGlowDecay(t *testing.T) {
	tracker := NewGlowTracker()
	start := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)

	tracker.Ignite("upd-1", GlowPut, start)

	if glow := tracker.Glow("upd-1", start); glow != 1.0 {
		t.Errorf("glow at ignition = %f, want 1.0", glow)
	}
	halfway := start.Add(GlowDecayDuration / 2)
	if glow := tracker.Glow("upd-1", halfway); glow < 0.45 || glow > 0.55 {
		t.Errorf("glow at halfway = %f, want ~0.5", glow)
	}
	if glow := tracker.Glow("upd-1", start.Add(GlowDecayDuration)); glow != 0.0 {
		t.Errorf("glow after full decay = %f, want 0.0", glow)
	}
	if glow := tracker.Glow("never-ignited", start); glow != 0.0 {
		t.Errorf("glow for unknown row = %f, want 0.0", glow)
	}
}

func TestGlowKind(t *testing.T) {
	tracker := NewGlowTracker()
	now := time.Now()
	tracker.Ignite("upd-1", GlowRemove, now)

	if kind := tracker.Kind("upd-1"); kind != GlowRemove {
		t.Errorf("Kind = %v, want GlowRemove", kind)
	}
}

func TestHasGlowingGarbageCollects(t *testing.T) {
	tracker := NewGlowTracker()
	start := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)
	tracker.Ignite("upd-1", GlowPut, start)

	if !tracker.HasGlowing(start.Add(time.Second)) {
		t.Error("expected glowing row shortly after ignition")
	}
	if tracker.HasGlowing(start.Add(GlowDecayDuration + time.Second)) {
		t.Error("expected no glowing rows after decay")
	}
	// The decayed entry should have been dropped.
	if len(tracker.entries) != 0 {
		t.Errorf("decayed entries not collected: %d remain", len(tracker.entries))
	}
}
