// Copyright 2026 The Harbor Authors
// SPDX-License-Identifier: Apache-2.0

package tui

import (
	"strings"
	"testing"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/x/ansi"

	"github.com/harbor-crm/harbor/lib/crm"
)

func typeText(modal *ComposeModal, text string) {
	for _, character := range text {
		modal.Update(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune{character}})
	}
}

func TestComposeModalTyping(t *testing.T) {
	modal := NewComposeModal("opp-1", DefaultTheme)
	typeText(&modal, "Spoke with the buyer.")

	draft := modal.Draft()
	if draft.Body != "Spoke with the buyer." {
		t.Errorf("Body = %q", draft.Body)
	}
	if draft.Kind != crm.UpdateNote {
		t.Errorf("Kind = %q, want note", draft.Kind)
	}
}

func TestComposeModalMultiline(t *testing.T) {
	modal := NewComposeModal("opp-1", DefaultTheme)
	typeText(&modal, "line one")
	modal.Update(tea.KeyMsg{Type: tea.KeyEnter})
	typeText(&modal, "line two")

	if got := modal.Draft().Body; got != "line one\nline two" {
		t.Errorf("Body = %q", got)
	}
}

func TestComposeModalBackspaceMergesLines(t *testing.T) {
	modal := NewComposeModal("opp-1", DefaultTheme)
	typeText(&modal, "ab")
	modal.Update(tea.KeyMsg{Type: tea.KeyEnter})
	modal.Update(tea.KeyMsg{Type: tea.KeyBackspace})
	typeText(&modal, "c")

	if got := modal.Draft().Body; got != "abc" {
		t.Errorf("Body = %q, want %q", got, "abc")
	}
}

func TestComposeModalKindCycle(t *testing.T) {
	modal := NewComposeModal("opp-1", DefaultTheme)
	want := []crm.UpdateKind{crm.UpdateEmail, crm.UpdateCall, crm.UpdateNote}
	for _, kind := range want {
		modal.Update(tea.KeyMsg{Type: tea.KeyCtrlK})
		if modal.Kind != kind {
			t.Fatalf("Kind = %q, want %q", modal.Kind, kind)
		}
	}
}

func TestComposeModalSubject(t *testing.T) {
	modal := NewComposeModal("opp-1", DefaultTheme)
	modal.Update(tea.KeyMsg{Type: tea.KeyCtrlK}) // email
	modal.Update(tea.KeyMsg{Type: tea.KeyTab})   // focus subject
	typeText(&modal, "Re: pricing")
	modal.Update(tea.KeyMsg{Type: tea.KeyEnter}) // back to body
	typeText(&modal, "Details below.")

	draft := modal.Draft()
	if draft.Subject != "Re: pricing" {
		t.Errorf("Subject = %q", draft.Subject)
	}
	if draft.Body != "Details below." {
		t.Errorf("Body = %q", draft.Body)
	}
}

func TestComposeModalRender(t *testing.T) {
	modal := NewComposeModal("opp-1", DefaultTheme)
	typeText(&modal, "visible text")

	lines, anchorX, anchorY := modal.Render(100, 40)
	if len(lines) == 0 {
		t.Fatal("expected rendered lines")
	}
	if anchorX < 0 || anchorY < 0 {
		t.Errorf("anchor out of bounds: (%d, %d)", anchorX, anchorY)
	}

	joined := ansi.Strip(strings.Join(lines, "\n"))
	if !strings.Contains(joined, "New update on opp-1") {
		t.Errorf("missing title:\n%s", joined)
	}
	if !strings.Contains(joined, "[note]") {
		t.Errorf("missing kind tag:\n%s", joined)
	}
	if !strings.Contains(joined, "visible text") {
		t.Errorf("missing body text:\n%s", joined)
	}

	// All lines must have equal visible width for clean splicing.
	width := ansi.StringWidth(lines[0])
	for index, line := range lines {
		if ansi.StringWidth(line) != width {
			t.Errorf("line %d width %d != %d", index, ansi.StringWidth(line), width)
		}
	}
}
