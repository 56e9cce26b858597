// Copyright 2026 The Harbor Authors
// SPDX-License-Identifier: Apache-2.0

package tui

import (
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/x/ansi"
)

// SpliceOverlay replaces a rectangular region of a rendered view with
// overlay content. The overlay lines are placed starting at (anchorX,
// anchorY) in screen coordinates. Uses ANSI-aware truncation so escape
// sequences in the original view are preserved on both sides of the
// overlay.
func SpliceOverlay(view string, overlayLines []string, anchorX, anchorY int) string {
	if len(overlayLines) == 0 {
		return view
	}

	viewLines := strings.Split(view, "\n")
	overlayWidth := ansi.StringWidth(overlayLines[0])

	for index, overlayLine := range overlayLines {
		viewLineIndex := anchorY + index
		if viewLineIndex < 0 || viewLineIndex >= len(viewLines) {
			continue
		}

		viewLine := viewLines[viewLineIndex]
		viewLineWidth := ansi.StringWidth(viewLine)

		// Build: prefix + reset + overlay + reset + suffix.
		var result strings.Builder
		if anchorX > 0 {
			result.WriteString(ansi.Truncate(viewLine, anchorX, ""))
		}
		result.WriteString("\x1b[0m")
		result.WriteString(overlayLine)
		result.WriteString("\x1b[0m")

		suffixStart := anchorX + overlayWidth
		if suffixStart < viewLineWidth {
			result.WriteString(ansi.TruncateLeft(viewLine, suffixStart, ""))
		}

		viewLines[viewLineIndex] = result.String()
	}

	return strings.Join(viewLines, "\n")
}

// PadOverlayLine pads styled content to the given visible width with
// background-colored spaces. Overlay lines must all share one width
// so SpliceOverlay replaces a clean rectangle.
func PadOverlayLine(styledContent string, width int, backgroundStyle lipgloss.Style) string {
	padding := width - ansi.StringWidth(styledContent)
	if padding <= 0 {
		return styledContent
	}
	return styledContent + backgroundStyle.Render(strings.Repeat(" ", padding))
}

// ExtractExcerpt returns the first maxLines non-blank lines of a
// body text, each truncated to maxWidth. Blank lines and leading
// whitespace-only lines are skipped.
func ExtractExcerpt(body string, maxWidth, maxLines int) []string {
	bodyLines := strings.Split(body, "\n")
	var result []string
	for _, line := range bodyLines {
		trimmed := strings.TrimSpace(line)
		if trimmed == "" {
			continue
		}
		if ansi.StringWidth(trimmed) > maxWidth {
			trimmed = ansi.Truncate(trimmed, maxWidth-1, "…")
		}
		result = append(result, trimmed)
		if len(result) >= maxLines {
			break
		}
	}
	return result
}
