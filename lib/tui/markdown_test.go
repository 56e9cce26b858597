// Copyright 2026 The Harbor Authors
// SPDX-License-Identifier: Apache-2.0

package tui

import (
	"strings"
	"testing"

	"github.com/charmbracelet/x/ansi"
)

// stripped renders markdown and returns ANSI-stripped visible text.
func stripped(input string, width int) string {
	return ansi.Strip(RenderMarkdown(input, DefaultTheme, width))
}

// raw renders markdown and returns the raw ANSI-styled output.
func raw(input string, width int) string {
	return RenderMarkdown(input, DefaultTheme, width)
}

func TestRenderMarkdownEmpty(t *testing.T) {
	if result := RenderMarkdown("", DefaultTheme, 80); result != "" {
		t.Errorf("expected empty string for empty input, got %q", result)
	}
}

func TestRenderMarkdownParagraphReflow(t *testing.T) {
	// Source text hard-wrapped at ~40 columns, as pasted email bodies
	// often are.
	input := "Customer confirmed the revised\nquote and asked for an updated\ndelivery schedule by Friday."
	result := stripped(input, 120)

	if strings.Contains(result, "\n") {
		t.Errorf("expected no newlines at width=120, got:\n%s", result)
	}
	if !strings.Contains(result, "revised quote and") {
		t.Errorf("expected soft break converted to space, got:\n%s", result)
	}
}

func TestRenderMarkdownParagraphWrapsToWidth(t *testing.T) {
	input := "This paragraph should be wrapped at the requested target width."
	result := stripped(input, 30)

	for _, line := range strings.Split(result, "\n") {
		if len(line) > 30 {
			t.Errorf("line exceeds width 30: %q (len=%d)", line, len(line))
		}
	}
}

func TestRenderMarkdownHardLineBreak(t *testing.T) {
	// Two trailing spaces create a hard line break in CommonMark.
	input := "Line one  \nLine two"
	result := stripped(input, 80)

	if !strings.Contains(result, "Line one\nLine two") {
		t.Errorf("expected hard line break preserved, got:\n%s", result)
	}
}

func TestRenderMarkdownHeading(t *testing.T) {
	input := "# Summary\n\n## Next steps"
	result := stripped(input, 80)

	if !strings.Contains(result, "Summary") || !strings.Contains(result, "Next steps") {
		t.Errorf("missing heading text:\n%s", result)
	}
	if raw(input, 80) == result {
		t.Error("expected ANSI styling in heading output")
	}
}

func TestRenderMarkdownEmphasis(t *testing.T) {
	input := "This is *tentative* and **confirmed** text."
	result := stripped(input, 80)

	if !strings.Contains(result, "tentative") || !strings.Contains(result, "confirmed") {
		t.Errorf("missing emphasized text:\n%s", result)
	}
	if raw(input, 80) == result {
		t.Error("expected ANSI styling in emphasis output")
	}
}

func TestRenderMarkdownLists(t *testing.T) {
	input := "- first\n- second\n\n1. alpha\n2. beta"
	result := stripped(input, 80)

	if !strings.Contains(result, "- first") || !strings.Contains(result, "- second") {
		t.Errorf("missing unordered bullets:\n%s", result)
	}
	if !strings.Contains(result, "1. alpha") || !strings.Contains(result, "2. beta") {
		t.Errorf("missing ordered numbering:\n%s", result)
	}
}

func TestRenderMarkdownNestedListIndentation(t *testing.T) {
	input := "- outer\n  - inner"
	result := stripped(input, 80)

	if !strings.Contains(result, "- outer") {
		t.Errorf("missing outer bullet:\n%s", result)
	}
	if !strings.Contains(result, "  - inner") {
		t.Errorf("inner bullet should be indented under outer:\n%s", result)
	}
}

func TestRenderMarkdownFencedCode(t *testing.T) {
	input := "Check:\n\n```go\nfunc main() {}\n```"
	result := stripped(input, 80)

	if !strings.Contains(result, "func main() {}") {
		t.Errorf("missing code content:\n%s", result)
	}
}

func TestRenderMarkdownCodeSpan(t *testing.T) {
	input := "Run `harbor-sidebar --help` for flags."
	result := stripped(input, 80)

	if !strings.Contains(result, "harbor-sidebar --help") {
		t.Errorf("missing code span text:\n%s", result)
	}
}

func TestRenderMarkdownBlockquote(t *testing.T) {
	input := "> We need this installed before the 15th."
	result := stripped(input, 80)

	if !strings.Contains(result, "│ ") {
		t.Errorf("expected blockquote prefix:\n%s", result)
	}
	if !strings.Contains(result, "installed before") {
		t.Errorf("missing quoted text:\n%s", result)
	}
}

func TestRenderMarkdownLink(t *testing.T) {
	input := "See [the contract](https://example.com/contract.pdf) for terms."
	result := stripped(input, 120)

	if !strings.Contains(result, "the contract") {
		t.Errorf("missing link text:\n%s", result)
	}
	if !strings.Contains(result, "(https://example.com/contract.pdf)") {
		t.Errorf("missing link destination:\n%s", result)
	}
}

func TestRenderMarkdownTaskList(t *testing.T) {
	input := "- [x] send quote\n- [ ] schedule install"
	result := stripped(input, 80)

	if !strings.Contains(result, "[x]") || !strings.Contains(result, "[ ]") {
		t.Errorf("missing task checkboxes:\n%s", result)
	}
}

func TestRenderMarkdownStrikethrough(t *testing.T) {
	input := "~~cancelled~~ rescheduled"
	result := stripped(input, 80)

	if !strings.Contains(result, "cancelled") || !strings.Contains(result, "rescheduled") {
		t.Errorf("missing strikethrough content:\n%s", result)
	}
}

func TestRenderMarkdownThematicBreak(t *testing.T) {
	input := "before\n\n---\n\nafter"
	result := stripped(input, 40)

	if !strings.Contains(result, "────") {
		t.Errorf("expected horizontal rule:\n%s", result)
	}
}
