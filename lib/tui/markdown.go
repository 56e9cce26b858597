// Copyright 2026 The Harbor Authors
// SPDX-License-Identifier: Apache-2.0

package tui

import (
	"fmt"
	"os"
	"strings"
	"sync"

	"github.com/alecthomas/chroma/v2/quick"
	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/x/ansi"
	"github.com/muesli/termenv"
	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/ast"
	"github.com/yuin/goldmark/extension"
	extast "github.com/yuin/goldmark/extension/ast"
	"github.com/yuin/goldmark/text"
)

// The goldmark parser is initialized once and reused. The parser
// configuration never changes and the parser is safe to share —
// actual parsing creates per-call state via Parse(reader).
var (
	markdownParser     goldmark.Markdown
	markdownParserOnce sync.Once
)

func getMarkdownParser() goldmark.Markdown {
	markdownParserOnce.Do(func() {
		markdownParser = goldmark.New(
			goldmark.WithExtensions(extension.GFM),
		)
	})
	return markdownParser
}

// RenderMarkdown parses markdown text and renders it as styled
// terminal output, word-wrapped to the given width. Soft line breaks
// (single newlines within paragraphs) become spaces so hard-wrapped
// source text reflows correctly at any terminal width. Fenced code
// blocks are syntax-highlighted. Update bodies in the sidebar detail
// pane go through this.
func RenderMarkdown(input string, theme Theme, width int) string {
	if input == "" {
		return ""
	}
	source := []byte(input)
	document := getMarkdownParser().Parser().Parse(text.NewReader(source))

	// Force the ANSI256 color profile: this output is always for
	// terminal display, so auto-detection (which yields no color in
	// test environments without a TTY) is bypassed.
	lipRenderer := lipgloss.NewRenderer(os.Stderr, termenv.WithProfile(termenv.ANSI256))
	lipRenderer.SetColorProfile(termenv.ANSI256)

	state := &markdownState{
		source:      source,
		theme:       theme,
		width:       width,
		lipRenderer: lipRenderer,
	}
	ast.Walk(document, state.walk)

	return strings.TrimRight(state.output.String(), "\n")
}

// markdownState walks a goldmark AST and produces styled terminal
// text. It uses a direct ast.Walk rather than goldmark's renderer
// interface because terminal rendering needs accumulate-then-wrap
// semantics: a block's inline content collects in a buffer and gets
// word-wrapped as a unit when the block closes.
type markdownState struct {
	source []byte
	theme  Theme
	width  int

	output strings.Builder

	// Inline accumulator for the block currently being rendered.
	inline strings.Builder

	// Prefix stack for nested containers (blockquotes, list items).
	prefixes    []string
	prefixWidth int

	// Pending bullet: replaces the prefix for the very next emitted
	// line, then clears. Used for list item bullets and numbers.
	pendingBullet string

	// Inline style depth counters; counters rather than booleans so
	// nested emphasis unwinds correctly.
	boldDepth   int
	italicDepth int
	strikeDepth int

	// List nesting state.
	lists []listLevel

	lipRenderer *lipgloss.Renderer

	// Trailing newlines at the end of output, for blank-line
	// management between blocks.
	trailingNewlines int
}

type listLevel struct {
	ordered bool
	counter int
	tight   bool
}

func (state *markdownState) newStyle() lipgloss.Style {
	return state.lipRenderer.NewStyle()
}

// contentWidth is the wrap width after subtracting nesting prefixes,
// clamped so degenerate terminal sizes still produce usable output.
func (state *markdownState) contentWidth() int {
	width := state.width - state.prefixWidth
	if width < 10 {
		width = 10
	}
	return width
}

func (state *markdownState) pushPrefix(prefix string, visibleWidth int) {
	state.prefixes = append(state.prefixes, prefix)
	state.prefixWidth += visibleWidth
}

func (state *markdownState) popPrefix() {
	if len(state.prefixes) == 0 {
		return
	}
	top := state.prefixes[len(state.prefixes)-1]
	state.prefixes = state.prefixes[:len(state.prefixes)-1]
	state.prefixWidth -= ansi.StringWidth(top)
}

func (state *markdownState) linePrefix() string {
	return strings.Join(state.prefixes, "")
}

func (state *markdownState) inTightList() bool {
	if len(state.lists) == 0 {
		return false
	}
	return state.lists[len(state.lists)-1].tight
}

// write appends text to the output, tracking trailing newlines.
func (state *markdownState) write(s string) {
	if s == "" {
		return
	}
	state.output.WriteString(s)

	trailing := 0
	allNewlines := true
	for index := len(s) - 1; index >= 0; index-- {
		if s[index] == '\n' {
			trailing++
		} else {
			allNewlines = false
			break
		}
	}
	if allNewlines {
		state.trailingNewlines += trailing
	} else {
		state.trailingNewlines = trailing
	}
}

func (state *markdownState) ensureNewline() {
	if state.trailingNewlines < 1 {
		state.write("\n")
	}
}

func (state *markdownState) ensureBlankLine() {
	for state.trailingNewlines < 2 {
		state.write("\n")
	}
}

// firstLinePrefix returns the prefix for the next emitted line: the
// pending bullet when set (first line of a list item), otherwise the
// regular nesting prefix.
func (state *markdownState) firstLinePrefix() string {
	if state.pendingBullet != "" {
		bullet := state.pendingBullet
		state.pendingBullet = ""
		return bullet
	}
	return state.linePrefix()
}

// prefixLines prepends the nesting prefix to each line of content,
// using the pending bullet for the first line.
func (state *markdownState) prefixLines(content string) string {
	lines := strings.Split(content, "\n")
	var result strings.Builder
	for index, line := range lines {
		if index == 0 {
			result.WriteString(state.firstLinePrefix())
		} else {
			result.WriteString(state.linePrefix())
		}
		result.WriteString(line)
		if index < len(lines)-1 {
			result.WriteString("\n")
		}
	}
	return result.String()
}

// flushInline word-wraps the accumulated inline content, applies
// prefixes, and resets the buffer.
func (state *markdownState) flushInline() string {
	content := state.inline.String()
	state.inline.Reset()
	if content == "" {
		return ""
	}
	wrapped := ansi.Wrap(content, state.contentWidth(), " ,.;-+|")
	return state.prefixLines(wrapped)
}

// styled applies the current inline style depth to a text fragment.
func (state *markdownState) styled(content string) string {
	style := state.newStyle().Foreground(state.theme.NormalText)
	if state.boldDepth > 0 {
		style = style.Bold(true)
	}
	if state.italicDepth > 0 {
		style = style.Italic(true)
	}
	if state.strikeDepth > 0 {
		style = style.Strikethrough(true)
	}
	return style.Render(content)
}

// inlineContent renders a node's children into a string, saving and
// restoring the inline buffer and style depths around the walk.
func (state *markdownState) inlineContent(node ast.Node) string {
	savedInline := state.inline.String()
	savedBold, savedItalic, savedStrike := state.boldDepth, state.italicDepth, state.strikeDepth

	state.inline.Reset()
	for child := node.FirstChild(); child != nil; child = child.NextSibling() {
		ast.Walk(child, state.walk)
	}
	result := state.inline.String()

	state.inline.Reset()
	state.inline.WriteString(savedInline)
	state.boldDepth, state.italicDepth, state.strikeDepth = savedBold, savedItalic, savedStrike

	return result
}

func (state *markdownState) walk(node ast.Node, entering bool) (ast.WalkStatus, error) {
	switch node.Kind() {

	case ast.KindDocument:
		// Nothing to do at either boundary.

	case ast.KindParagraph, ast.KindTextBlock:
		if entering {
			state.inline.Reset()
		} else {
			flushed := state.flushInline()
			if flushed != "" {
				state.write(flushed)
				state.ensureNewline()
				if !state.inTightList() {
					state.ensureBlankLine()
				}
			}
		}

	case ast.KindHeading:
		if entering {
			state.inline.Reset()
		} else {
			state.closeHeading(node.(*ast.Heading))
		}

	case ast.KindFencedCodeBlock:
		if entering {
			block := node.(*ast.FencedCodeBlock)
			state.emitCode(state.nodeLines(node), string(block.Language(state.source)))
			return ast.WalkSkipChildren, nil
		}

	case ast.KindCodeBlock:
		if entering {
			state.emitCode(state.nodeLines(node), "")
			return ast.WalkSkipChildren, nil
		}

	case ast.KindBlockquote:
		if entering {
			state.pushPrefix("│ ", 2)
		} else {
			state.popPrefix()
			state.ensureBlankLine()
		}

	case ast.KindList:
		if entering {
			list := node.(*ast.List)
			start := 0
			if list.IsOrdered() {
				start = list.Start
			}
			state.lists = append(state.lists, listLevel{
				ordered: list.IsOrdered(),
				counter: start,
				tight:   list.IsTight,
			})
		} else {
			if len(state.lists) > 0 {
				state.lists = state.lists[:len(state.lists)-1]
			}
			if !state.inTightList() {
				state.ensureBlankLine()
			}
		}

	case ast.KindListItem:
		if entering {
			state.enterListItem()
		} else {
			state.popPrefix()
			if state.inTightList() {
				state.ensureNewline()
			} else {
				state.ensureBlankLine()
			}
		}

	case ast.KindThematicBreak:
		if entering {
			rule := strings.Repeat("─", state.contentWidth())
			ruleStyle := state.newStyle().Foreground(state.theme.BorderColor)
			state.ensureBlankLine()
			state.write(state.prefixLines(ruleStyle.Render(rule)))
			state.ensureNewline()
			state.ensureBlankLine()
		}

	case ast.KindText:
		if entering {
			textNode := node.(*ast.Text)
			state.inline.WriteString(state.styled(string(textNode.Segment.Value(state.source))))
			if textNode.SoftLineBreak() {
				// Soft breaks become spaces so hard-wrapped source
				// reflows at the terminal's width.
				state.inline.WriteString(" ")
			}
			if textNode.HardLineBreak() {
				state.inline.WriteString("\n")
			}
		}

	case ast.KindString:
		if entering {
			state.inline.WriteString(state.styled(string(node.(*ast.String).Value)))
		}

	case ast.KindEmphasis:
		emphasis := node.(*ast.Emphasis)
		delta := 1
		if !entering {
			delta = -1
		}
		if emphasis.Level >= 2 {
			state.boldDepth += delta
		} else {
			state.italicDepth += delta
		}

	case ast.KindCodeSpan:
		if entering {
			state.emitCodeSpan(node)
			return ast.WalkSkipChildren, nil
		}

	case ast.KindLink:
		if entering {
			display := state.inlineContent(node)
			state.inline.WriteString(display)
			if url := string(node.(*ast.Link).Destination); url != "" {
				faint := state.newStyle().Foreground(state.theme.FaintText)
				state.inline.WriteString(" " + faint.Render("("+url+")"))
			}
			return ast.WalkSkipChildren, nil
		}

	case ast.KindAutoLink:
		if entering {
			url := string(node.(*ast.AutoLink).URL(state.source))
			faint := state.newStyle().Foreground(state.theme.FaintText)
			state.inline.WriteString(faint.Render(url))
		}

	case ast.KindImage:
		if entering {
			altText := state.inlineContent(node)
			faint := state.newStyle().Foreground(state.theme.FaintText)
			state.inline.WriteString(faint.Render("[" + altText + "]"))
			if url := string(node.(*ast.Image).Destination); url != "" {
				state.inline.WriteString(" " + faint.Render("("+url+")"))
			}
			return ast.WalkSkipChildren, nil
		}

	case extast.KindStrikethrough:
		if entering {
			state.strikeDepth++
		} else {
			state.strikeDepth--
		}

	case extast.KindTaskCheckBox:
		if entering {
			checkbox := node.(*extast.TaskCheckBox)
			if checkbox.IsChecked {
				done := state.newStyle().Foreground(state.theme.KindNote)
				state.inline.WriteString(done.Render("[x]") + " ")
			} else {
				state.inline.WriteString(state.styled("[ ] "))
			}
		}

	case extast.KindTable:
		// Tables are rare in CRM notes; render the raw rows as faint
		// text rather than carrying a full table layout engine.
		if entering {
			state.emitCode(state.rawLines(node), "")
			return ast.WalkSkipChildren, nil
		}
	}

	return ast.WalkContinue, nil
}

// closeHeading flushes a heading block. Headings restyle their
// accumulated inline content, so existing ANSI styling is stripped
// first.
func (state *markdownState) closeHeading(heading *ast.Heading) {
	content := ansi.Strip(state.inline.String())
	state.inline.Reset()
	if content == "" {
		return
	}

	style := state.newStyle().Bold(true)
	if heading.Level <= 2 {
		style = style.Foreground(state.theme.HeaderForeground)
	} else {
		style = style.Foreground(state.theme.NormalText)
	}

	wrapped := ansi.Wrap(style.Render(content), state.contentWidth(), " ,.;-+|")
	state.ensureBlankLine()
	state.write(state.prefixLines(wrapped))
	state.ensureNewline()
	state.ensureBlankLine()
}

// nodeLines joins a block node's line segments into a single string.
func (state *markdownState) nodeLines(node ast.Node) string {
	var buffer strings.Builder
	lines := node.Lines()
	for index := 0; index < lines.Len(); index++ {
		segment := lines.At(index)
		buffer.Write(segment.Value(state.source))
	}
	return buffer.String()
}

// rawLines reassembles a container's source text line by line, for
// nodes rendered verbatim.
func (state *markdownState) rawLines(node ast.Node) string {
	var buffer strings.Builder
	for child := node.FirstChild(); child != nil; child = child.NextSibling() {
		lines := child.Lines()
		for index := 0; index < lines.Len(); index++ {
			segment := lines.At(index)
			buffer.Write(segment.Value(state.source))
		}
		if buffer.Len() > 0 && !strings.HasSuffix(buffer.String(), "\n") {
			buffer.WriteString("\n")
		}
	}
	return buffer.String()
}

// emitCode writes a code block, syntax-highlighted when a language is
// known.
func (state *markdownState) emitCode(code, language string) {
	var highlighted string
	if language == "" {
		highlighted = state.newStyle().Foreground(state.theme.FaintText).Render(strings.TrimRight(code, "\n"))
	} else {
		var buffer strings.Builder
		if err := quick.Highlight(&buffer, code, language, "terminal256", "monokai"); err != nil {
			highlighted = state.newStyle().Foreground(state.theme.FaintText).Render(strings.TrimRight(code, "\n"))
		} else {
			highlighted = strings.TrimRight(buffer.String(), "\n")
		}
	}

	state.ensureBlankLine()
	for _, line := range strings.Split(highlighted, "\n") {
		state.write(state.firstLinePrefix() + line)
		state.ensureNewline()
	}
	state.ensureBlankLine()
}

// emitCodeSpan writes inline code in faint styling.
func (state *markdownState) emitCodeSpan(node ast.Node) {
	var code strings.Builder
	for child := node.FirstChild(); child != nil; child = child.NextSibling() {
		switch typed := child.(type) {
		case *ast.Text:
			code.Write(typed.Segment.Value(state.source))
		case *ast.String:
			code.Write(typed.Value)
		}
	}
	faint := state.newStyle().Foreground(state.theme.FaintText)
	state.inline.WriteString(faint.Render(code.String()))
}

// enterListItem sets up the bullet and continuation prefix for a list
// item.
func (state *markdownState) enterListItem() {
	if len(state.lists) == 0 {
		return
	}
	top := &state.lists[len(state.lists)-1]

	var bullet string
	if top.ordered {
		bullet = fmt.Sprintf("%d. ", top.counter)
		top.counter++
	} else {
		bullet = "- "
	}

	// The pending bullet includes the current prefix so it replaces
	// the whole prefix for the item's first line; continuation lines
	// get matching indentation.
	state.pendingBullet = state.linePrefix() + bullet
	state.pushPrefix(strings.Repeat(" ", len(bullet)), len(bullet))
}
