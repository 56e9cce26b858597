// Copyright 2026 The Harbor Authors
// SPDX-License-Identifier: Apache-2.0

package crm

import (
	"fmt"
	"strings"
	"time"
)

// UpdateKind categorizes an activity update on an entity.
type UpdateKind string

const (
	// UpdateNote is a free-form note written by a user.
	UpdateNote UpdateKind = "note"
	// UpdateEmail is an email logged against the entity.
	UpdateEmail UpdateKind = "email"
	// UpdateCall is a call summary logged against the entity.
	UpdateCall UpdateKind = "call"
)

// Valid reports whether the kind is one of the known update kinds.
func (kind UpdateKind) Valid() bool {
	switch kind {
	case UpdateNote, UpdateEmail, UpdateCall:
		return true
	}
	return false
}

// Update is one activity record on an entity's timeline, as returned
// by the CRM API's list-updates endpoint.
type Update struct {
	// ID is the server-assigned update identifier (e.g. "upd-7f2a").
	ID string `json:"id"`

	// Kind is the activity category: note, email, or call.
	Kind UpdateKind `json:"kind"`

	// Author is the display name of the user who logged the update.
	Author string `json:"author"`

	// Subject is the email subject or call title. Empty for notes.
	Subject string `json:"subject,omitempty"`

	// Body is the update text. Supports markdown; the sidebar renders
	// it with the shared terminal markdown renderer.
	Body string `json:"body"`

	// CreatedAt is an RFC 3339 timestamp set by the server.
	CreatedAt string `json:"created_at"`
}

// Title returns the line shown in the update list: the subject when
// present, otherwise the first line of the body.
func (update Update) Title() string {
	if update.Subject != "" {
		return update.Subject
	}
	body := strings.TrimSpace(update.Body)
	if index := strings.IndexByte(body, '\n'); index >= 0 {
		body = body[:index]
	}
	return body
}

// Age returns a compact relative-time label ("3h", "2d") for the
// update's creation time, or an empty string when the timestamp does
// not parse.
func (update Update) Age(now time.Time) string {
	created, err := time.Parse(time.RFC3339, update.CreatedAt)
	if err != nil {
		return ""
	}
	return compactAge(now.Sub(created))
}

// UpdateDraft is the client-side payload for creating an update. The
// server assigns ID, Author (from the auth token), and CreatedAt.
type UpdateDraft struct {
	Kind    UpdateKind `json:"kind"`
	Subject string     `json:"subject,omitempty"`
	Body    string     `json:"body"`
}

// Validate checks the draft before it is sent to the server.
func (draft UpdateDraft) Validate() error {
	if !draft.Kind.Valid() {
		return fmt.Errorf("crm: invalid update kind %q", draft.Kind)
	}
	if strings.TrimSpace(draft.Body) == "" {
		return fmt.Errorf("crm: update body must not be empty")
	}
	return nil
}

// compactAge formats a duration as the shortest sensible unit. Negative
// durations (client clock behind server) render as "now" rather than a
// nonsense negative age.
func compactAge(elapsed time.Duration) string {
	if elapsed < time.Minute {
		return "now"
	}
	if elapsed < time.Hour {
		return fmt.Sprintf("%dm", int(elapsed.Minutes()))
	}
	if elapsed < 24*time.Hour {
		return fmt.Sprintf("%dh", int(elapsed.Hours()))
	}
	return fmt.Sprintf("%dd", int(elapsed.Hours()/24))
}
