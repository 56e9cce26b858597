// Copyright 2026 The Harbor Authors
// SPDX-License-Identifier: Apache-2.0

package sidebar

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"sync/atomic"

	tea "github.com/charmbracelet/bubbletea"
)

// logRecordMsg delivers a slog record to the panel for display as a
// status-bar notice.
type logRecordMsg struct {
	// Summary is the one-line "message (key=value, ...)" form.
	Summary string

	// Level styles the notice (warn vs error).
	Level slog.Level
}

// TUILogHandler is a slog.Handler that routes log records into a
// running bubbletea program instead of stderr, which a full-screen
// TUI has painted over. Records below the configured level are
// dropped; the rest arrive as status-bar notices.
//
// Create the handler before the program exists and call SetProgram
// once the tea.Program is constructed. Records logged before then are
// dropped. Handlers derived with WithAttrs/WithGroup share the same
// program pointer, so one SetProgram call covers all of them.
type TUILogHandler struct {
	level   slog.Level
	program *atomic.Pointer[tea.Program]
	attrs   []slog.Attr
	prefix  string // Dotted group path applied to attribute keys.
}

// NewTUILogHandler creates a handler delivering records at or above
// level.
func NewTUILogHandler(level slog.Level) *TUILogHandler {
	return &TUILogHandler{
		level:   level,
		program: &atomic.Pointer[tea.Program]{},
	}
}

// SetProgram sets the program that receives notices. Safe to call
// from any goroutine.
func (handler *TUILogHandler) SetProgram(program *tea.Program) {
	handler.program.Store(program)
}

// Enabled implements slog.Handler.
func (handler *TUILogHandler) Enabled(_ context.Context, level slog.Level) bool {
	return level >= handler.level
}

// Handle formats the record as a one-line summary and sends it to the
// program. Dropped silently when no program is set yet.
func (handler *TUILogHandler) Handle(_ context.Context, record slog.Record) error {
	program := handler.program.Load()
	if program == nil {
		return nil
	}
	program.Send(logRecordMsg{Summary: handler.summarize(record), Level: record.Level})
	return nil
}

// summarize renders a record as the one-line "message (key=value, ...)"
// form the status bar displays.
func (handler *TUILogHandler) summarize(record slog.Record) string {
	var parts []string
	for _, attr := range handler.attrs {
		parts = append(parts, fmt.Sprintf("%s%s=%s", handler.prefix, attr.Key, attr.Value))
	}
	record.Attrs(func(attr slog.Attr) bool {
		parts = append(parts, fmt.Sprintf("%s%s=%s", handler.prefix, attr.Key, attr.Value))
		return true
	})

	summary := record.Message
	if len(parts) > 0 {
		summary += " (" + strings.Join(parts, ", ") + ")"
	}
	return summary
}

// WithAttrs implements slog.Handler. The derived handler shares the
// program pointer.
func (handler *TUILogHandler) WithAttrs(attrs []slog.Attr) slog.Handler {
	derived := *handler
	derived.attrs = append(append([]slog.Attr(nil), handler.attrs...), attrs...)
	return &derived
}

// WithGroup implements slog.Handler. Groups flatten into a dotted key
// prefix; the status bar has no room for nesting.
func (handler *TUILogHandler) WithGroup(name string) slog.Handler {
	derived := *handler
	derived.prefix = handler.prefix + name + "."
	return &derived
}
