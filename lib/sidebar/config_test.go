// Copyright 2026 The Harbor Authors
// SPDX-License-Identifier: Apache-2.0

package sidebar

import (
	"reflect"
	"strings"
	"testing"
	"time"

	"github.com/harbor-crm/harbor/lib/crm"
	"github.com/harbor-crm/harbor/lib/querycache"
)

func TestTestID(t *testing.T) {
	config := OpportunityConfig()
	got := config.TestID("updates-tab")
	if got != "opportunity-sidebar-updates-tab" {
		t.Fatalf("TestID: got %q", got)
	}
}

// TestInstanceParity verifies that the two shipped bindings populate
// exactly the same configuration surface. Instances must differ only
// in values (kind, routes, keys, copy), never in shape: a field one
// instance sets and the other leaves zero means the instances have
// started to diverge.
func TestInstanceParity(t *testing.T) {
	opportunity := OpportunityConfig()
	job := JobConfig()

	opportunityValue := reflect.ValueOf(opportunity)
	jobValue := reflect.ValueOf(job)
	configType := opportunityValue.Type()

	for index := range configType.NumField() {
		field := configType.Field(index)
		opportunitySet := !opportunityValue.Field(index).IsZero()
		jobSet := !jobValue.Field(index).IsZero()
		if opportunitySet != jobSet {
			t.Errorf("field %s: opportunity set=%v, job set=%v",
				field.Name, opportunitySet, jobSet)
		}
	}

	// Both route sets must cover the same operations.
	for operation := range opportunity.Routes {
		if _, ok := job.Routes[operation]; !ok {
			t.Errorf("job routes missing operation %q", operation)
		}
	}
	for operation := range job.Routes {
		if _, ok := opportunity.Routes[operation]; !ok {
			t.Errorf("opportunity routes missing operation %q", operation)
		}
	}

	if len(opportunity.InvalidationKeys) != len(job.InvalidationKeys) {
		t.Errorf("invalidation key count differs: %d vs %d",
			len(opportunity.InvalidationKeys), len(job.InvalidationKeys))
	}

	if opportunity.Kind == job.Kind {
		t.Error("instances share an entity kind")
	}
	if opportunity.TestIDPrefix == job.TestIDPrefix {
		t.Error("instances share a test ID prefix")
	}
}

func TestOpportunityEmptyStateCopy(t *testing.T) {
	config := OpportunityConfig()
	if config.EmptyUpdatesMessage != "Write a note, drop an email, or share files to get things moving" {
		t.Errorf("updates copy: got %q", config.EmptyUpdatesMessage)
	}
	if config.EmptyFilesMessage != "Upload files or paste screenshots to attach them" {
		t.Errorf("files copy: got %q", config.EmptyFilesMessage)
	}
}

func TestNewPanelValidatesRoutes(t *testing.T) {
	cache := querycache.New(time.Minute)
	defer cache.Close()

	config := OpportunityConfig()
	delete(config.Routes, crm.OpDeleteFile)

	_, err := NewPanel(config, &fakeClient{}, cache)
	if err == nil {
		t.Fatal("expected error for missing route")
	}
	if !strings.Contains(err.Error(), crm.OpDeleteFile) {
		t.Errorf("error should name the missing operation: %v", err)
	}
}

func TestNewPanelValidatesCollaborators(t *testing.T) {
	cache := querycache.New(time.Minute)
	defer cache.Close()

	if _, err := NewPanel(OpportunityConfig(), nil, cache); err == nil {
		t.Error("expected error for nil client")
	}
	if _, err := NewPanel(OpportunityConfig(), &fakeClient{}, nil); err == nil {
		t.Error("expected error for nil cache")
	}

	config := OpportunityConfig()
	config.TestIDPrefix = ""
	if _, err := NewPanel(config, &fakeClient{}, cache); err == nil {
		t.Error("expected error for empty test ID prefix")
	}

	config = OpportunityConfig()
	config.Kind = "invoice"
	if _, err := NewPanel(config, &fakeClient{}, cache); err == nil {
		t.Error("expected error for unknown entity kind")
	}
}
