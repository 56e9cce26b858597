// Copyright 2026 The Harbor Authors
// SPDX-License-Identifier: Apache-2.0

package tui

import (
	"testing"

	"github.com/charmbracelet/x/ansi"
)

func confirmMenu() MenuOverlay {
	return MenuOverlay{
		Title: "Delete update?",
		Options: []MenuOption{
			{Label: "Cancel", Value: "cancel"},
			{Label: "Delete", Value: "delete"},
		},
		Action: "delete-update",
		RowID:  "upd-1",
	}
}

func TestMenuNavigationWraps(t *testing.T) {
	menu := confirmMenu()
	if menu.Selected().Value != "cancel" {
		t.Fatalf("initial selection = %q", menu.Selected().Value)
	}
	menu.MoveDown()
	if menu.Selected().Value != "delete" {
		t.Errorf("after MoveDown: %q", menu.Selected().Value)
	}
	menu.MoveDown()
	if menu.Selected().Value != "cancel" {
		t.Errorf("MoveDown should wrap to top, got %q", menu.Selected().Value)
	}
	menu.MoveUp()
	if menu.Selected().Value != "delete" {
		t.Errorf("MoveUp should wrap to bottom, got %q", menu.Selected().Value)
	}
}

func TestMenuRenderUniformWidth(t *testing.T) {
	menu := confirmMenu()
	lines := menu.Render(DefaultTheme)

	if len(lines) != 3 {
		t.Fatalf("got %d lines, want title + 2 options", len(lines))
	}
	width := ansi.StringWidth(lines[0])
	for index, line := range lines {
		if ansi.StringWidth(line) != width {
			t.Errorf("line %d width %d != %d", index, ansi.StringWidth(line), width)
		}
	}
	if ansi.Strip(lines[0]) != " Delete update?"+spaces(width-15) {
		t.Errorf("title line = %q", ansi.Strip(lines[0]))
	}
}

func spaces(count int) string {
	result := make([]byte, count)
	for index := range result {
		result[index] = ' '
	}
	return string(result)
}
