// Copyright 2026 The Harbor Authors
// SPDX-License-Identifier: Apache-2.0

package crm

import "fmt"

// EntityKind identifies which kind of business record a sidebar is
// bound to. Each kind owns a fixed RouteSet and its own empty-state
// copy.
type EntityKind string

const (
	// KindOpportunity is a sales opportunity (a deal in the pipeline).
	KindOpportunity EntityKind = "opportunity"
	// KindJob is a scheduled unit of field work.
	KindJob EntityKind = "job"
)

// Valid reports whether the kind is one of the known entity kinds.
func (kind EntityKind) Valid() bool {
	switch kind {
	case KindOpportunity, KindJob:
		return true
	}
	return false
}

// ParseEntityKind converts a string to an EntityKind, rejecting
// unknown values.
func ParseEntityKind(value string) (EntityKind, error) {
	kind := EntityKind(value)
	if !kind.Valid() {
		return "", fmt.Errorf("crm: unknown entity kind %q (want %q or %q)",
			value, KindOpportunity, KindJob)
	}
	return kind, nil
}
