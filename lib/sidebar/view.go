// Copyright 2026 The Harbor Authors
// SPDX-License-Identifier: Apache-2.0

package sidebar

import (
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/x/ansi"

	"github.com/harbor-crm/harbor/lib/crm"
	"github.com/harbor-crm/harbor/lib/tui"
)

// contentStartY is the screen row where the list begins: header line
// plus the tab (or filter) bar.
const contentStartY = 2

// previewHeight is the record preview area under the list, shown when
// the terminal is tall enough. Excludes its divider line.
const previewHeight = 6

// minHeightForPreview is the terminal height below which the preview
// area is dropped to keep the list usable.
const minHeightForPreview = 16

// listHeight returns the number of list rows between the top chrome
// and the bottom chrome (preview, separator, status bar).
func (panel Panel) listHeight() int {
	height := panel.height - contentStartY - 2
	if panel.showPreview() {
		height -= previewHeight + 1
	}
	return height
}

func (panel Panel) showPreview() bool {
	return panel.height >= minHeightForPreview
}

// View implements tea.Model.
func (panel Panel) View() string {
	if !panel.ready {
		return "Loading..."
	}
	if panel.entityID == "" {
		return panel.renderClosed()
	}

	sections := []string{panel.renderHeader()}

	// The filter bar replaces the tab bar while filtering so the
	// layout doesn't shift.
	if filterBar := panel.renderFilterBar(); filterBar != "" {
		sections = append(sections, filterBar)
	} else {
		sections = append(sections, panel.renderTabBar())
	}

	sections = append(sections, panel.renderList())

	if panel.showPreview() {
		separatorStyle := lipgloss.NewStyle().Foreground(panel.theme.BorderColor)
		sections = append(sections, separatorStyle.Render(strings.Repeat("─", panel.width)))
		sections = append(sections, panel.renderPreview())
	}

	separatorStyle := lipgloss.NewStyle().Foreground(panel.theme.BorderColor)
	sections = append(sections, separatorStyle.Render(strings.Repeat("─", panel.width)))
	sections = append(sections, panel.renderStatus())

	output := strings.Join(sections, "\n")

	if panel.menu != nil {
		output = tui.SpliceOverlay(output, panel.menu.Render(panel.theme),
			panel.menu.AnchorX, panel.menu.AnchorY)
	}
	if panel.compose != nil {
		modalLines, anchorX, anchorY := panel.compose.Render(panel.width, panel.height)
		output = tui.SpliceOverlay(output, modalLines, anchorX, anchorY)
	}
	return output
}

// renderClosed renders the placeholder shown while no entity is set.
func (panel Panel) renderClosed() string {
	message := lipgloss.NewStyle().
		Foreground(panel.theme.FaintText).
		Render("No entity selected")
	return lipgloss.Place(panel.width, panel.height,
		lipgloss.Center, lipgloss.Center, message)
}

// renderHeader renders the top line: entity name, kind and id, and
// the close hint, embedded in a horizontal rule.
func (panel Panel) renderHeader() string {
	separatorStyle := lipgloss.NewStyle().Foreground(panel.theme.BorderColor)
	nameStyle := lipgloss.NewStyle().Bold(true).Foreground(panel.theme.HeaderForeground)
	faintStyle := lipgloss.NewStyle().Foreground(panel.theme.FaintText)

	sep := separatorStyle.Render("─")

	name := panel.entityName
	if name == "" {
		name = panel.entityID
	}
	identity := fmt.Sprintf("%s · %s", panel.config.Kind, panel.entityID)

	left := sep + " " + nameStyle.Render(name) + "  " + faintStyle.Render(identity) + " "
	leftWidth := 1 + 1 + ansi.StringWidth(name) + 2 + ansi.StringWidth(identity) + 1

	closeHint := faintStyle.Render("q close")
	rightWidth := 1 + ansi.StringWidth("q close") + 1 + 1

	fillCount := panel.width - leftWidth - rightWidth
	if fillCount < 1 {
		fillCount = 1
	}
	fill := separatorStyle.Render(strings.Repeat("─", fillCount))

	return left + fill + " " + closeHint + " " + sep
}

// tabDefs is the fixed tab list shared by the bar renderer and the
// status line.
var tabDefs = []struct {
	label string
	tab   Tab
}{
	{"1:Updates", TabUpdates},
	{"2:Files", TabFiles},
}

// renderTabBar renders the tab labels embedded in a horizontal rule,
// with record counts on the right once the tabs have loaded.
func (panel Panel) renderTabBar() string {
	separatorStyle := lipgloss.NewStyle().Foreground(panel.theme.BorderColor)
	activeStyle := lipgloss.NewStyle().Bold(true).Foreground(panel.theme.TabActive)
	inactiveStyle := lipgloss.NewStyle().Foreground(panel.theme.TabInactive)
	statsStyle := lipgloss.NewStyle().Foreground(panel.theme.FaintText)

	sep := separatorStyle.Render("─")

	left := sep + sep + sep
	cursor := 3
	for index, definition := range tabDefs {
		left += " "
		cursor++
		if panel.activeTab == definition.tab {
			left += activeStyle.Render(definition.label)
		} else {
			left += inactiveStyle.Render(definition.label)
		}
		cursor += ansi.StringWidth(definition.label)
		left += " "
		cursor++
		sepCount := 3
		if index == len(tabDefs)-1 {
			sepCount = 1
		}
		for range sepCount {
			left += sep
			cursor++
		}
	}

	statsText := fmt.Sprintf("%d shown", len(panel.rows))
	statsWidth := ansi.StringWidth(statsText)
	right := " " + statsStyle.Render(statsText) + " " + sep
	rightWidth := statsWidth + 3

	fillCount := panel.width - cursor - rightWidth
	if fillCount < 1 {
		fillCount = 1
	}
	return left + separatorStyle.Render(strings.Repeat("─", fillCount)) + right
}

// renderFilterBar renders the filter input line, or an empty string
// when no filter is active or standing.
func (panel Panel) renderFilterBar() string {
	if !panel.filterActive && panel.filterInput == "" {
		return ""
	}
	if panel.filterActive {
		cursor := lipgloss.NewStyle().
			Foreground(panel.theme.HeaderForeground).
			Bold(true).
			Render("▎")
		return lipgloss.NewStyle().
			Foreground(panel.theme.NormalText).
			Width(panel.width).
			Render(" / " + panel.filterInput + cursor)
	}
	return lipgloss.NewStyle().
		Foreground(panel.theme.FaintText).
		Width(panel.width).
		Render(" filter: " + panel.filterInput)
}

// renderList renders the active tab's content area: the record rows
// with a scrollbar, or the tab's loading, error, or empty state.
func (panel Panel) renderList() string {
	visible := panel.listHeight()
	if visible < 0 {
		visible = 0
	}

	state := panel.updatesState
	emptyMessage := panel.config.EmptyUpdatesMessage
	if panel.activeTab == TabFiles {
		state = panel.filesState
		emptyMessage = panel.config.EmptyFilesMessage
	}

	switch state.phase {
	case phaseIdle, phaseLoading:
		return panel.renderCentered(visible,
			panel.spinner.View()+" Loading "+panel.activeTab.String()+"…",
			panel.theme.FaintText)
	case phaseFailed:
		return panel.renderError(visible, state.err)
	}

	if len(panel.rows) == 0 {
		if panel.filterInput != "" {
			return panel.renderCentered(visible, "No matches", panel.theme.FaintText)
		}
		return panel.renderCentered(visible, emptyMessage, panel.theme.FaintText)
	}

	rowWidth := panel.width - 1
	now := panel.clock.Now()
	var lines []string
	for index := panel.scrollOffset; index < panel.scrollOffset+visible && index < len(panel.rows); index++ {
		lines = append(lines, panel.renderRow(panel.rows[index], rowWidth, index == panel.cursor, now))
	}
	for len(lines) < visible {
		lines = append(lines, strings.Repeat(" ", rowWidth))
	}

	scrollbar := tui.RenderScrollbar(panel.theme, visible,
		len(panel.rows), visible, panel.scrollOffset, !panel.filterActive)

	content := lipgloss.NewStyle().Width(rowWidth).Height(visible).
		Render(strings.Join(lines, "\n"))
	return lipgloss.JoinHorizontal(lipgloss.Top, content, scrollbar)
}

// renderCentered renders a single message centered in the list area.
func (panel Panel) renderCentered(visible int, message string, color lipgloss.Color) string {
	styled := lipgloss.NewStyle().Foreground(color).Render(message)
	return lipgloss.Place(panel.width, visible, lipgloss.Center, lipgloss.Center, styled)
}

// renderError renders a failed tab's inline error with the retry
// hint. The error stays inside the tab; the rest of the panel keeps
// working.
func (panel Panel) renderError(visible int, errText string) string {
	errorStyle := lipgloss.NewStyle().Foreground(panel.theme.ErrorText)
	faintStyle := lipgloss.NewStyle().Foreground(panel.theme.FaintText)
	content := errorStyle.Render("Could not load "+panel.activeTab.String()) + "\n" +
		errorStyle.Render(ansi.Truncate(errText, panel.width-4, "…")) + "\n\n" +
		faintStyle.Render("press r to retry")
	return lipgloss.Place(panel.width, visible, lipgloss.Center, lipgloss.Center, content)
}

// renderRow renders one list row at the given width.
func (panel Panel) renderRow(row listRow, rowWidth int, selected bool, now time.Time) string {
	if row.update != nil {
		return panel.renderUpdateRow(row, rowWidth, selected, now)
	}
	return panel.renderFileRow(row, rowWidth, selected, now)
}

func (panel Panel) renderUpdateRow(row listRow, rowWidth int, selected bool, now time.Time) string {
	update := row.update
	badge := fmt.Sprintf("[%s]", update.Kind)
	age := update.Age(now)

	const badgeWidth = 8
	const authorWidth = 14
	const ageWidth = 4
	titleWidth := rowWidth - 1 - badgeWidth - 1 - authorWidth - 1 - ageWidth - 1
	if titleWidth < 4 {
		titleWidth = 4
	}

	title := ansi.Truncate(update.Title(), titleWidth, "…")
	author := ansi.Truncate(update.Author, authorWidth, "…")

	if selected {
		content := fmt.Sprintf(" %-*s %-*s %*s %*s ",
			badgeWidth, badge, titleWidth, title, authorWidth, author, ageWidth, age)
		return lipgloss.NewStyle().
			Background(panel.theme.SelectedBackground).
			Foreground(panel.theme.SelectedForeground).
			Width(rowWidth).MaxWidth(rowWidth).
			Render(content)
	}

	badgeStyled := lipgloss.NewStyle().
		Foreground(panel.theme.KindColor(update.Kind)).
		Render(fmt.Sprintf("%-*s", badgeWidth, badge))
	titleStyled := panel.highlightTitle(title, titleWidth, row.positions)
	metaStyled := lipgloss.NewStyle().
		Foreground(panel.theme.FaintText).
		Render(fmt.Sprintf("%-*s %*s", authorWidth, author, ageWidth, age))

	line := " " + badgeStyled + " " + titleStyled + " " + metaStyled + " "
	return panel.applyGlow(line, row.id, rowWidth, now)
}

func (panel Panel) renderFileRow(row listRow, rowWidth int, selected bool, now time.Time) string {
	file := row.file
	size := crm.FormatSize(file.Size)
	age := file.Age(now)

	const sizeWidth = 10
	const uploaderWidth = 14
	const ageWidth = 4
	nameWidth := rowWidth - 1 - sizeWidth - 1 - uploaderWidth - 1 - ageWidth - 1
	if nameWidth < 4 {
		nameWidth = 4
	}

	name := ansi.Truncate(file.Name, nameWidth, "…")
	uploader := ansi.Truncate(file.UploadedBy, uploaderWidth, "…")

	if selected {
		content := fmt.Sprintf(" %-*s %*s %-*s %*s ",
			nameWidth, name, sizeWidth, size, uploaderWidth, uploader, ageWidth, age)
		return lipgloss.NewStyle().
			Background(panel.theme.SelectedBackground).
			Foreground(panel.theme.SelectedForeground).
			Width(rowWidth).MaxWidth(rowWidth).
			Render(content)
	}

	nameStyled := panel.highlightTitle(name, nameWidth, row.positions)
	metaStyled := lipgloss.NewStyle().
		Foreground(panel.theme.FaintText).
		Render(fmt.Sprintf("%*s %-*s %*s", sizeWidth, size, uploaderWidth, uploader, ageWidth, age))

	line := " " + nameStyled + " " + metaStyled + " "
	return panel.applyGlow(line, row.id, rowWidth, now)
}

// highlightTitle left-pads the title to its column width, styling the
// fuzzy-match positions that fall within the rendered text.
func (panel Panel) highlightTitle(title string, columnWidth int, positions []int) string {
	runes := []rune(title)
	padding := columnWidth - ansi.StringWidth(title)

	if len(positions) == 0 {
		base := lipgloss.NewStyle().Foreground(panel.theme.NormalText).Render(title)
		return base + strings.Repeat(" ", max(padding, 0))
	}

	matched := make(map[int]bool, len(positions))
	for _, position := range positions {
		matched[position] = true
	}
	baseStyle := lipgloss.NewStyle().Foreground(panel.theme.NormalText)
	matchStyle := lipgloss.NewStyle().
		Foreground(panel.theme.NormalText).
		Background(panel.theme.MatchHighlightBackground)

	var builder strings.Builder
	for index, character := range runes {
		if matched[index] {
			builder.WriteString(matchStyle.Render(string(character)))
		} else {
			builder.WriteString(baseStyle.Render(string(character)))
		}
	}
	builder.WriteString(strings.Repeat(" ", max(padding, 0)))
	return builder.String()
}

// applyGlow tints a row's background while its glow is decaying.
func (panel Panel) applyGlow(line, rowID string, rowWidth int, now time.Time) string {
	if panel.glow.Glow(rowID, now) <= 0 {
		return lipgloss.NewStyle().Width(rowWidth).MaxWidth(rowWidth).Render(line)
	}
	accent := panel.theme.GlowAccentPut
	if panel.glow.Kind(rowID) == tui.GlowRemove {
		accent = panel.theme.GlowAccentRemove
	}
	return lipgloss.NewStyle().
		Background(accent).
		Width(rowWidth).MaxWidth(rowWidth).
		Render(line)
}

// renderPreview renders the selected record's detail under the list:
// rendered markdown for updates, metadata for files.
func (panel Panel) renderPreview() string {
	faintStyle := lipgloss.NewStyle().Foreground(panel.theme.FaintText)

	var lines []string
	if len(panel.rows) > 0 && panel.cursor < len(panel.rows) {
		row := panel.rows[panel.cursor]
		now := panel.clock.Now()
		if row.update != nil {
			update := row.update
			heading := fmt.Sprintf("%s · %s · %s", update.Kind, update.Author, update.Age(now))
			lines = append(lines, " "+faintStyle.Render(heading))
			rendered := tui.RenderMarkdown(update.Body, panel.theme, panel.width-2)
			for _, bodyLine := range tui.ExtractExcerpt(rendered, panel.width-2, previewHeight-1) {
				lines = append(lines, " "+bodyLine)
			}
		} else {
			file := row.file
			lines = append(lines,
				" "+lipgloss.NewStyle().Bold(true).Foreground(panel.theme.NormalText).Render(file.Name),
				" "+faintStyle.Render(fmt.Sprintf("%s · %s", crm.FormatSize(file.Size), file.ContentType)),
				" "+faintStyle.Render(fmt.Sprintf("uploaded by %s · %s", file.UploadedBy, file.Age(now))),
			)
		}
	}

	if len(lines) > previewHeight {
		lines = lines[:previewHeight]
	}
	for len(lines) < previewHeight {
		lines = append(lines, "")
	}
	return strings.Join(lines, "\n")
}

// renderStatus renders the bottom status bar: the active region's
// test identifier, key hints, list position, and any transient
// notice.
func (panel Panel) renderStatus() string {
	helpStyle := lipgloss.NewStyle().Foreground(panel.theme.HelpText)

	status := fmt.Sprintf(" [%s] q close  1/2 tabs  j/k move  n new update  d delete  / filter  r refresh",
		panel.TestID(panel.activeTab.String()+"-tab"))

	if len(panel.rows) > 0 {
		status += fmt.Sprintf("  %d/%d", panel.cursor+1, len(panel.rows))
	}

	rendered := helpStyle.Render(status)
	if panel.notice != "" {
		noticeColor := panel.theme.NoticeText
		if panel.noticeIsErr {
			noticeColor = panel.theme.ErrorText
		}
		noticeStyle := lipgloss.NewStyle().Foreground(noticeColor).Bold(true)
		rendered += "  " + noticeStyle.Render(panel.notice)
	}
	return rendered
}
