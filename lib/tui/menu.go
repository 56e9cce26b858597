// Copyright 2026 The Harbor Authors
// SPDX-License-Identifier: Apache-2.0

package tui

import (
	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/x/ansi"
)

// MenuOption is a single selectable item in a menu overlay.
type MenuOption struct {
	Label string // Display text shown in the menu.
	Value string // Value reported to the owner on selection.
}

// MenuOverlay renders a floating menu anchored at a screen position.
// It captures all keyboard input while active (up/down to navigate,
// enter to select, escape to dismiss). The owning model holds the
// menu instance and routes input to it while it has focus. The
// sidebar uses it for destructive-action confirmation anchored at the
// row being acted on.
type MenuOverlay struct {
	Title   string // Optional header line above the options.
	Options []MenuOption
	Cursor  int
	AnchorX int    // Screen X coordinate of the menu's top-left corner.
	AnchorY int    // Screen Y coordinate of the menu's top-left corner.
	Action  string // The operation this menu confirms (e.g. "delete-update").
	RowID   string // The record the action targets.
}

// MoveUp moves the cursor up by one, wrapping to the bottom.
func (menu *MenuOverlay) MoveUp() {
	menu.Cursor--
	if menu.Cursor < 0 {
		menu.Cursor = len(menu.Options) - 1
	}
}

// MoveDown moves the cursor down by one, wrapping to the top.
func (menu *MenuOverlay) MoveDown() {
	menu.Cursor++
	if menu.Cursor >= len(menu.Options) {
		menu.Cursor = 0
	}
}

// Selected returns the currently highlighted option.
func (menu *MenuOverlay) Selected() MenuOption {
	return menu.Options[menu.Cursor]
}

// Width returns the total visible width of the rendered menu in
// columns.
func (menu *MenuOverlay) Width() int {
	maxWidth := ansi.StringWidth(menu.Title)
	for _, option := range menu.Options {
		if labelWidth := ansi.StringWidth(option.Label); labelWidth > maxWidth {
			maxWidth = labelWidth
		}
	}
	// Layout: " > LABEL " — 3 chars prefix (space + marker + space),
	// label, 1 char right padding.
	return 3 + maxWidth + 1
}

// Render produces the menu lines for overlay splicing. Each line has
// the same visible width and a solid background for visual separation
// from the underlying content. The highlighted option uses a
// contrasting background.
func (menu *MenuOverlay) Render(theme Theme) []string {
	totalWidth := menu.Width()

	backgroundStyle := lipgloss.NewStyle().
		Background(theme.ModalBackground)
	titleStyle := lipgloss.NewStyle().
		Bold(true).
		Foreground(theme.HeaderForeground).
		Background(theme.ModalBackground)
	selectedStyle := lipgloss.NewStyle().
		Background(theme.SelectedBackground).
		Foreground(theme.SelectedForeground)

	pad := func(content string, style lipgloss.Style) string {
		return PadOverlayLine(style.Render(content), totalWidth, style)
	}

	var lines []string
	if menu.Title != "" {
		lines = append(lines, pad(" "+menu.Title, titleStyle))
	}
	for index, option := range menu.Options {
		marker := " "
		if index == menu.Cursor {
			marker = ">"
		}
		content := " " + marker + " " + option.Label
		if index == menu.Cursor {
			lines = append(lines, pad(content, selectedStyle))
		} else {
			lines = append(lines, pad(content, backgroundStyle))
		}
	}

	return lines
}
