// Copyright 2026 The Harbor Authors
// SPDX-License-Identifier: Apache-2.0

package tui

import (
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/x/ansi"

	"github.com/harbor-crm/harbor/lib/crm"
)

// ComposeModal is a modal overlay for composing a new entity update:
// a kind selector, an optional subject line, and a multi-line body
// editor. Rendered as a centered overlay on top of the main view.
type ComposeModal struct {
	// ContextLabel identifies the entity the update is logged
	// against, shown in the modal title (e.g. "opp-1").
	ContextLabel string

	// Kind is the update kind that will be submitted. Cycled with
	// Ctrl+K.
	Kind crm.UpdateKind

	subject      []rune
	subjectFocus bool

	lines   [][]rune // Body text, one slice of runes per line.
	cursorY int      // Current body line index.
	cursorX int      // Cursor position within the current body line.

	theme Theme
}

// NewComposeModal creates a ComposeModal for the given entity. The
// kind starts as a note and the body starts empty and focused.
func NewComposeModal(contextLabel string, theme Theme) ComposeModal {
	return ComposeModal{
		ContextLabel: contextLabel,
		Kind:         crm.UpdateNote,
		lines:        [][]rune{{}},
		theme:        theme,
	}
}

// Draft returns the update draft the modal currently describes.
func (modal ComposeModal) Draft() crm.UpdateDraft {
	var parts []string
	for _, line := range modal.lines {
		parts = append(parts, string(line))
	}
	return crm.UpdateDraft{
		Kind:    modal.Kind,
		Subject: string(modal.subject),
		Body:    strings.Join(parts, "\n"),
	}
}

// cycleKind advances the kind through note → email → call → note.
func (modal *ComposeModal) cycleKind() {
	switch modal.Kind {
	case crm.UpdateNote:
		modal.Kind = crm.UpdateEmail
	case crm.UpdateEmail:
		modal.Kind = crm.UpdateCall
	default:
		modal.Kind = crm.UpdateNote
	}
}

// Update processes a key message for the modal. Submit and cancel
// keys (Ctrl+D, Esc) are handled by the owning model, not here.
func (modal *ComposeModal) Update(message tea.KeyMsg) {
	switch message.Type {
	case tea.KeyCtrlK:
		modal.cycleKind()
		return
	case tea.KeyTab:
		modal.subjectFocus = !modal.subjectFocus
		return
	}

	if modal.subjectFocus {
		modal.updateSubject(message)
		return
	}
	modal.updateBody(message)
}

// updateSubject edits the single-line subject field.
func (modal *ComposeModal) updateSubject(message tea.KeyMsg) {
	switch message.Type {
	case tea.KeyRunes, tea.KeySpace:
		modal.subject = append(modal.subject, message.Runes...)
	case tea.KeyBackspace:
		if len(modal.subject) > 0 {
			modal.subject = modal.subject[:len(modal.subject)-1]
		}
	case tea.KeyEnter:
		// Subject is single-line; enter moves focus to the body.
		modal.subjectFocus = false
	}
}

// updateBody edits the multi-line body with cursor tracking.
func (modal *ComposeModal) updateBody(message tea.KeyMsg) {
	switch message.Type {
	case tea.KeyRunes, tea.KeySpace:
		for _, character := range message.Runes {
			modal.insertRune(character)
		}

	case tea.KeyEnter:
		modal.splitLineAtCursor()

	case tea.KeyBackspace:
		modal.deleteBeforeCursor()

	case tea.KeyDelete:
		modal.deleteAtCursor()

	case tea.KeyLeft:
		if modal.cursorX > 0 {
			modal.cursorX--
		} else if modal.cursorY > 0 {
			modal.cursorY--
			modal.cursorX = len(modal.lines[modal.cursorY])
		}

	case tea.KeyRight:
		if modal.cursorX < len(modal.lines[modal.cursorY]) {
			modal.cursorX++
		} else if modal.cursorY < len(modal.lines)-1 {
			modal.cursorY++
			modal.cursorX = 0
		}

	case tea.KeyUp:
		if modal.cursorY > 0 {
			modal.cursorY--
			modal.clampCursorX()
		}

	case tea.KeyDown:
		if modal.cursorY < len(modal.lines)-1 {
			modal.cursorY++
			modal.clampCursorX()
		}

	case tea.KeyHome, tea.KeyCtrlA:
		modal.cursorX = 0

	case tea.KeyEnd, tea.KeyCtrlE:
		modal.cursorX = len(modal.lines[modal.cursorY])
	}
}

func (modal *ComposeModal) clampCursorX() {
	if modal.cursorX > len(modal.lines[modal.cursorY]) {
		modal.cursorX = len(modal.lines[modal.cursorY])
	}
}

// insertRune inserts a single rune at the cursor position.
func (modal *ComposeModal) insertRune(character rune) {
	line := modal.lines[modal.cursorY]
	newLine := make([]rune, len(line)+1)
	copy(newLine, line[:modal.cursorX])
	newLine[modal.cursorX] = character
	copy(newLine[modal.cursorX+1:], line[modal.cursorX:])
	modal.lines[modal.cursorY] = newLine
	modal.cursorX++
}

// splitLineAtCursor breaks the current line in two at the cursor.
func (modal *ComposeModal) splitLineAtCursor() {
	line := modal.lines[modal.cursorY]
	before := make([]rune, modal.cursorX)
	copy(before, line[:modal.cursorX])
	after := make([]rune, len(line)-modal.cursorX)
	copy(after, line[modal.cursorX:])

	modal.lines[modal.cursorY] = before
	newLines := make([][]rune, len(modal.lines)+1)
	copy(newLines, modal.lines[:modal.cursorY+1])
	newLines[modal.cursorY+1] = after
	copy(newLines[modal.cursorY+2:], modal.lines[modal.cursorY+1:])
	modal.lines = newLines
	modal.cursorY++
	modal.cursorX = 0
}

// deleteBeforeCursor handles backspace: removes the rune before the
// cursor, or merges with the previous line at column zero.
func (modal *ComposeModal) deleteBeforeCursor() {
	if modal.cursorX > 0 {
		line := modal.lines[modal.cursorY]
		modal.lines[modal.cursorY] = append(line[:modal.cursorX-1], line[modal.cursorX:]...)
		modal.cursorX--
		return
	}
	if modal.cursorY == 0 {
		return
	}
	previousLine := modal.lines[modal.cursorY-1]
	currentLine := modal.lines[modal.cursorY]
	modal.cursorX = len(previousLine)
	modal.lines[modal.cursorY-1] = append(previousLine, currentLine...)
	modal.lines = append(modal.lines[:modal.cursorY], modal.lines[modal.cursorY+1:]...)
	modal.cursorY--
}

// deleteAtCursor handles forward delete: removes the rune under the
// cursor, or merges with the next line at end of line.
func (modal *ComposeModal) deleteAtCursor() {
	line := modal.lines[modal.cursorY]
	if modal.cursorX < len(line) {
		modal.lines[modal.cursorY] = append(line[:modal.cursorX], line[modal.cursorX+1:]...)
		return
	}
	if modal.cursorY >= len(modal.lines)-1 {
		return
	}
	nextLine := modal.lines[modal.cursorY+1]
	modal.lines[modal.cursorY] = append(line, nextLine...)
	modal.lines = append(modal.lines[:modal.cursorY+1], modal.lines[modal.cursorY+2:]...)
}

// Modal chrome overhead: 2 columns border + 2 columns padding = 4
// columns horizontal; 2 lines border + 1 title + 1 kind/subject row +
// 1 footer = 5 lines vertical. The inner text area gets the rest.
const (
	composeChromeWidth  = 4
	composeChromeHeight = 5
	// Minimum inner text area. Below this the editor is too cramped
	// to be useful.
	composeMinInnerWidth  = 30
	composeMinInnerHeight = 5
	// Margin between the modal edge and the screen edge, so the user
	// can see the underlying view isn't gone. Collapses to 0 on very
	// small screens.
	composeMargin = 2
)

// Render produces the modal overlay lines for splicing onto the view.
// Returns the rendered lines and the anchor position (top-left corner
// in screen coordinates).
func (modal ComposeModal) Render(screenWidth, screenHeight int) ([]string, int, int) {
	modalWidth := screenWidth - composeMargin*2
	modalHeight := screenHeight - composeMargin*2

	minWidth := composeMinInnerWidth + composeChromeWidth
	minHeight := composeMinInnerHeight + composeChromeHeight
	if modalWidth < minWidth {
		modalWidth = minWidth
	}
	if modalHeight < minHeight {
		modalHeight = minHeight
	}
	if modalWidth > screenWidth {
		modalWidth = screenWidth
	}
	if modalHeight > screenHeight {
		modalHeight = screenHeight
	}

	innerWidth := modalWidth - composeChromeWidth
	innerHeight := modalHeight - composeChromeHeight

	bgStyle := lipgloss.NewStyle().
		Background(modal.theme.ModalBackground)
	titleStyle := lipgloss.NewStyle().
		Bold(true).
		Foreground(modal.theme.HeaderForeground).
		Background(modal.theme.ModalBackground)
	footerStyle := lipgloss.NewStyle().
		Foreground(modal.theme.FaintText).
		Background(modal.theme.ModalBackground)
	cursorStyle := lipgloss.NewStyle().
		Reverse(true)
	textStyle := lipgloss.NewStyle().
		Foreground(modal.theme.NormalText).
		Background(modal.theme.ModalBackground)
	kindStyle := lipgloss.NewStyle().
		Bold(true).
		Foreground(modal.theme.KindColor(modal.Kind)).
		Background(modal.theme.ModalBackground)

	padTo := func(styled string) string {
		return PadOverlayLine(styled, innerWidth, bgStyle)
	}

	title := padTo(titleStyle.Render("New update on " + modal.ContextLabel))

	// Kind + subject row. The subject shows its own cursor when
	// focused.
	subjectText := string(modal.subject)
	var subjectRendered string
	if modal.subjectFocus {
		subjectRendered = textStyle.Render(subjectText) + cursorStyle.Render(" ")
	} else if subjectText == "" {
		subjectRendered = footerStyle.Render("(no subject)")
	} else {
		subjectRendered = textStyle.Render(subjectText)
	}
	header := padTo(kindStyle.Render("["+string(modal.Kind)+"] ") + subjectRendered)

	footer := padTo(footerStyle.Render("Ctrl+D submit  Ctrl+K kind  Tab subject  Esc cancel"))

	// Body area with cursor, scrolled so the cursor stays visible.
	scrollOffset := 0
	if modal.cursorY >= innerHeight {
		scrollOffset = modal.cursorY - innerHeight + 1
	}

	var bodyLines []string
	for lineIndex := scrollOffset; lineIndex < scrollOffset+innerHeight; lineIndex++ {
		var rendered string
		if lineIndex < len(modal.lines) {
			line := modal.lines[lineIndex]
			if lineIndex == modal.cursorY && !modal.subjectFocus {
				if modal.cursorX >= len(line) {
					rendered = textStyle.Render(string(line)) + cursorStyle.Render(" ")
				} else {
					rendered = textStyle.Render(string(line[:modal.cursorX])) +
						cursorStyle.Render(string(line[modal.cursorX:modal.cursorX+1])) +
						textStyle.Render(string(line[modal.cursorX+1:]))
				}
			} else {
				rendered = textStyle.Render(string(line))
			}
		}
		bodyLines = append(bodyLines, padTo(rendered))
	}

	borderStyle := lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(modal.theme.BorderColor).
		Background(modal.theme.ModalBackground)

	inner := title + "\n" + header + "\n" + strings.Join(bodyLines, "\n") + "\n" + footer
	rendered := borderStyle.Render(inner)

	resultLines := strings.Split(rendered, "\n")
	renderedWidth := 0
	if len(resultLines) > 0 {
		renderedWidth = ansi.StringWidth(resultLines[0])
	}

	anchorX := (screenWidth - renderedWidth) / 2
	anchorY := (screenHeight - len(resultLines)) / 2
	if anchorX < 0 {
		anchorX = 0
	}
	if anchorY < 0 {
		anchorY = 0
	}

	return resultLines, anchorX, anchorY
}
