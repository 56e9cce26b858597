// Copyright 2026 The Harbor Authors
// SPDX-License-Identifier: Apache-2.0

package tui

import (
	"github.com/charmbracelet/lipgloss"

	"github.com/harbor-crm/harbor/lib/crm"
)

// Theme defines the color palette and visual properties for Harbor's
// terminal UIs. All colors use lipgloss ANSI 256-color codes for
// broad terminal compatibility.
//
// The fields cover both universal chrome (text, selection, borders,
// tabs) and semantic categories that recur across CRM views: update
// kinds, errors, transient notices.
type Theme struct {
	// Text colors.
	NormalText lipgloss.Color
	FaintText  lipgloss.Color

	// Selected row.
	SelectedBackground lipgloss.Color
	SelectedForeground lipgloss.Color

	// Update kind colors.
	KindNote  lipgloss.Color
	KindEmail lipgloss.Color
	KindCall  lipgloss.Color

	// Tab bar.
	TabActive   lipgloss.Color
	TabInactive lipgloss.Color

	// Error banners and transient notices.
	ErrorText  lipgloss.Color
	NoticeText lipgloss.Color

	// UI chrome.
	HeaderForeground lipgloss.Color
	BorderColor      lipgloss.Color
	HelpText         lipgloss.Color

	// Glow accents: background tint for recently-changed rows.
	// GlowAccentPut is used for created/updated rows; GlowAccentRemove
	// for rows that left the view.
	GlowAccentPut    lipgloss.Color
	GlowAccentRemove lipgloss.Color

	// Filter match highlighting.
	MatchHighlightBackground lipgloss.Color

	// Modal and menu overlays.
	ModalBackground lipgloss.Color
}

// KindColor returns the color for an update kind. Unknown kinds
// return FaintText.
func (theme Theme) KindColor(kind crm.UpdateKind) lipgloss.Color {
	switch kind {
	case crm.UpdateNote:
		return theme.KindNote
	case crm.UpdateEmail:
		return theme.KindEmail
	case crm.UpdateCall:
		return theme.KindCall
	default:
		return theme.FaintText
	}
}

// DefaultTheme is the built-in dark-terminal color scheme. Designed
// for 256-color terminals with a dark background (the common case for
// development environments and tmux sessions).
var DefaultTheme = Theme{
	NormalText: lipgloss.Color("252"),
	FaintText:  lipgloss.Color("245"),

	SelectedBackground: lipgloss.Color("236"),
	SelectedForeground: lipgloss.Color("255"),

	KindNote:  lipgloss.Color("114"), // green
	KindEmail: lipgloss.Color("75"),  // blue
	KindCall:  lipgloss.Color("220"), // amber

	TabActive:   lipgloss.Color("255"),
	TabInactive: lipgloss.Color("243"),

	ErrorText:  lipgloss.Color("196"), // bright red
	NoticeText: lipgloss.Color("220"), // amber

	HeaderForeground: lipgloss.Color("255"),
	BorderColor:      lipgloss.Color("240"),
	HelpText:         lipgloss.Color("241"),

	GlowAccentPut:    lipgloss.Color("58"), // dark amber background tint
	GlowAccentRemove: lipgloss.Color("52"), // dark red background tint

	MatchHighlightBackground: lipgloss.Color("58"),

	ModalBackground: lipgloss.Color("237"), // slightly lighter than terminal background
}
