// Copyright 2026 The Harbor Authors
// SPDX-License-Identifier: Apache-2.0

package tui

import (
	"strings"

	"github.com/junegunn/fzf/src/algo"
	"github.com/junegunn/fzf/src/util"
)

// fzf's matcher reads character-class tables that algo.Init builds.
// Without the call every rune classifies as non-word and
// case-insensitive matching fails on uppercase text.
func init() {
	algo.Init("default")
}

// FuzzyResult holds the outcome of matching a pattern against a text:
// the fzf score (higher is better, zero means no match) and the rune
// positions in the text that matched, for highlight rendering.
type FuzzyResult struct {
	Score     int
	Positions []int
}

// FuzzyMatch runs fzf's FuzzyMatchV2 algorithm against a single text.
// Matching is case-insensitive. The optional slab is reused across
// calls to avoid per-match allocations; pass nil for one-off matches.
func FuzzyMatch(text string, pattern []rune, slab *util.Slab) FuzzyResult {
	if len(pattern) == 0 {
		return FuzzyResult{}
	}

	// fzf treats the pattern as already case-folded when matching
	// case-insensitively.
	folded := []rune(strings.ToLower(string(pattern)))
	chars := util.ToChars([]byte(text))

	result, positions := algo.FuzzyMatchV2(false, true, true, &chars, folded, true, slab)
	if result.Score <= 0 {
		return FuzzyResult{}
	}

	matched := FuzzyResult{Score: result.Score}
	if positions != nil {
		matched.Positions = *positions
	}
	return matched
}
