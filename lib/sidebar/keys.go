// Copyright 2026 The Harbor Authors
// SPDX-License-Identifier: Apache-2.0

package sidebar

import "github.com/charmbracelet/bubbles/key"

// KeyMap defines the key bindings for the entity sidebar.
type KeyMap struct {
	// List navigation.
	Up   key.Binding
	Down key.Binding
	Home key.Binding
	End  key.Binding

	// Tab switching.
	TabUpdates key.Binding
	TabFiles   key.Binding
	TabCycle   key.Binding

	// Record actions.
	NewUpdate key.Binding // Open the compose modal.
	Delete    key.Binding // Delete the selected record after confirm.

	// Fetching.
	Refresh key.Binding // Invalidate and re-fetch the active tab.

	// Filter.
	FilterActivate key.Binding
	FilterClear    key.Binding

	// Close the sidebar (invokes the configured OnClose).
	Close key.Binding
}

// DefaultKeyMap is the built-in key binding set. Vim-style j/k
// navigation alongside arrow keys, number keys for tabs.
var DefaultKeyMap = KeyMap{
	Up: key.NewBinding(
		key.WithKeys("k", "up"),
		key.WithHelp("k/↑", "up"),
	),
	Down: key.NewBinding(
		key.WithKeys("j", "down"),
		key.WithHelp("j/↓", "down"),
	),
	Home: key.NewBinding(
		key.WithKeys("g", "home"),
		key.WithHelp("g", "top"),
	),
	End: key.NewBinding(
		key.WithKeys("G", "end"),
		key.WithHelp("G", "bottom"),
	),
	TabUpdates: key.NewBinding(
		key.WithKeys("1"),
		key.WithHelp("1", "updates"),
	),
	TabFiles: key.NewBinding(
		key.WithKeys("2"),
		key.WithHelp("2", "files"),
	),
	TabCycle: key.NewBinding(
		key.WithKeys("tab"),
		key.WithHelp("Tab", "next tab"),
	),
	NewUpdate: key.NewBinding(
		key.WithKeys("n"),
		key.WithHelp("n", "new update"),
	),
	Delete: key.NewBinding(
		key.WithKeys("d"),
		key.WithHelp("d", "delete"),
	),
	Refresh: key.NewBinding(
		key.WithKeys("r"),
		key.WithHelp("r", "refresh"),
	),
	FilterActivate: key.NewBinding(
		key.WithKeys("/"),
		key.WithHelp("/", "filter"),
	),
	FilterClear: key.NewBinding(
		key.WithKeys("esc"),
		key.WithHelp("Esc", "clear filter"),
	),
	Close: key.NewBinding(
		key.WithKeys("q", "ctrl+c"),
		key.WithHelp("q", "close"),
	),
}
