// Copyright 2026 The Harbor Authors
// SPDX-License-Identifier: Apache-2.0

package crm

import (
	"fmt"
	"net/url"
	"strings"
)

// Logical operation names. A RouteSet maps each of these to a URL
// template on the CRM API. The same names are the first fragment of
// query cache keys, so invalidating ["list-updates", entityID]
// discards exactly the cached list for that entity.
const (
	OpListUpdates  = "list-updates"
	OpCreateUpdate = "create-update"
	OpDeleteUpdate = "delete-update"
	OpListFiles    = "list-files"
	OpDeleteFile   = "delete-file"
)

// Placeholders substituted by Expand and ExpandRecord.
const (
	entityPlaceholder = "{id}"
	recordPlaceholder = "{record}"
)

// RouteSet maps logical operation names to URL templates, e.g.
//
//	"list-updates": "/opportunities/{id}/updates"
//
// A RouteSet is constructed once per entity kind and never mutated.
// Templates use {id} for the entity identifier and, for per-record
// operations, {record} for the update or file identifier. Identifiers
// are path-escaped at expansion time.
type RouteSet map[string]string

// Expand substitutes the entity id into the template for the given
// operation. Returns an error when the operation has no route —
// callers that validated their RouteSet up front (see Validate) never
// see that error at runtime.
func (routes RouteSet) Expand(operation, entityID string) (string, error) {
	template, ok := routes[operation]
	if !ok {
		return "", fmt.Errorf("crm: no route for operation %q", operation)
	}
	return strings.ReplaceAll(template, entityPlaceholder, url.PathEscape(entityID)), nil
}

// ExpandRecord substitutes both the entity id and a record id into
// the template for a per-record operation (delete-update,
// delete-file).
func (routes RouteSet) ExpandRecord(operation, entityID, recordID string) (string, error) {
	expanded, err := routes.Expand(operation, entityID)
	if err != nil {
		return "", err
	}
	if !strings.Contains(expanded, recordPlaceholder) {
		return "", fmt.Errorf("crm: route for %q has no {record} placeholder", operation)
	}
	return strings.ReplaceAll(expanded, recordPlaceholder, url.PathEscape(recordID)), nil
}

// Validate checks that every operation in required has a route and
// that each template carries the placeholders its expansion needs.
// A missing route is a wiring mistake in the instance configuration,
// so the sidebar constructor calls this and refuses to build a panel
// from a bad RouteSet.
func (routes RouteSet) Validate(required ...string) error {
	for _, operation := range required {
		template, ok := routes[operation]
		if !ok {
			return fmt.Errorf("crm: route set is missing operation %q", operation)
		}
		if !strings.Contains(template, entityPlaceholder) {
			return fmt.Errorf("crm: route %q template %q has no %s placeholder",
				operation, template, entityPlaceholder)
		}
		if isRecordOperation(operation) && !strings.Contains(template, recordPlaceholder) {
			return fmt.Errorf("crm: route %q template %q has no %s placeholder",
				operation, template, recordPlaceholder)
		}
	}
	return nil
}

// isRecordOperation reports whether the operation addresses a single
// record and therefore needs a {record} placeholder.
func isRecordOperation(operation string) bool {
	return operation == OpDeleteUpdate || operation == OpDeleteFile
}

// OpportunityRoutes returns the route table for opportunity entities.
func OpportunityRoutes() RouteSet {
	return RouteSet{
		OpListUpdates:  "/opportunities/{id}/updates",
		OpCreateUpdate: "/opportunities/{id}/updates",
		OpDeleteUpdate: "/opportunities/{id}/updates/{record}",
		OpListFiles:    "/opportunities/{id}/files",
		OpDeleteFile:   "/opportunities/{id}/files/{record}",
	}
}

// JobRoutes returns the route table for job entities.
func JobRoutes() RouteSet {
	return RouteSet{
		OpListUpdates:  "/jobs/{id}/updates",
		OpCreateUpdate: "/jobs/{id}/updates",
		OpDeleteUpdate: "/jobs/{id}/updates/{record}",
		OpListFiles:    "/jobs/{id}/files",
		OpDeleteFile:   "/jobs/{id}/files/{record}",
	}
}

// RoutesForKind returns the route table for an entity kind.
func RoutesForKind(kind EntityKind) (RouteSet, error) {
	switch kind {
	case KindOpportunity:
		return OpportunityRoutes(), nil
	case KindJob:
		return JobRoutes(), nil
	default:
		return nil, fmt.Errorf("crm: no routes for entity kind %q", kind)
	}
}
