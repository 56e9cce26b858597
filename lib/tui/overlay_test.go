// Copyright 2026 The Harbor Authors
// SPDX-License-Identifier: Apache-2.0

package tui

import (
	"strings"
	"testing"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/x/ansi"
)

func TestSpliceOverlayReplacesRegion(t *testing.T) {
	view := strings.Join([]string{
		"aaaaaaaaaa",
		"bbbbbbbbbb",
		"cccccccccc",
	}, "\n")
	overlay := []string{"XXXX", "YYYY"}

	result := SpliceOverlay(view, overlay, 3, 1)
	lines := strings.Split(result, "\n")

	if lines[0] != "aaaaaaaaaa" {
		t.Errorf("line 0 should be untouched: %q", lines[0])
	}
	if got := ansi.Strip(lines[1]); got != "bbbXXXXbbb" {
		t.Errorf("line 1 = %q, want overlay spliced at column 3", got)
	}
	if got := ansi.Strip(lines[2]); got != "cccYYYYccc" {
		t.Errorf("line 2 = %q, want overlay spliced at column 3", got)
	}
}

func TestSpliceOverlayEmptyOverlay(t *testing.T) {
	view := "unchanged"
	if got := SpliceOverlay(view, nil, 2, 0); got != view {
		t.Errorf("empty overlay should return view unchanged, got %q", got)
	}
}

func TestSpliceOverlayOutOfBoundsLines(t *testing.T) {
	view := "only line"
	result := SpliceOverlay(view, []string{"AA", "BB", "CC"}, 0, -1)
	lines := strings.Split(result, "\n")
	if len(lines) != 1 {
		t.Fatalf("overlay must not add lines, got %d", len(lines))
	}
	if got := ansi.Strip(lines[0]); got != "BBly line" {
		t.Errorf("line 0 = %q, want %q", got, "BBly line")
	}
}

func TestPadOverlayLine(t *testing.T) {
	background := lipgloss.NewStyle().Background(DefaultTheme.ModalBackground)

	padded := PadOverlayLine("menu", 10, background)
	if got := ansi.StringWidth(padded); got != 10 {
		t.Errorf("padded width = %d, want 10", got)
	}
	if !strings.HasPrefix(ansi.Strip(padded), "menu") {
		t.Errorf("content should lead the padded line: %q", padded)
	}

	// Content at or past the width is returned as is.
	if got := PadOverlayLine("exactly ten", 10, background); got != "exactly ten" {
		t.Errorf("over-width content should pass through unchanged: %q", got)
	}
}

func TestExtractExcerpt(t *testing.T) {
	body := "\n\nFirst real line\n\nSecond line that is quite long indeed\nThird\nFourth"
	excerpt := ExtractExcerpt(body, 20, 3)

	if len(excerpt) != 3 {
		t.Fatalf("got %d lines, want 3", len(excerpt))
	}
	if excerpt[0] != "First real line" {
		t.Errorf("first line = %q", excerpt[0])
	}
	if ansi.StringWidth(excerpt[1]) > 20 {
		t.Errorf("long line not truncated: %q", excerpt[1])
	}
	if !strings.HasSuffix(excerpt[1], "…") {
		t.Errorf("truncated line should end with ellipsis: %q", excerpt[1])
	}
}
