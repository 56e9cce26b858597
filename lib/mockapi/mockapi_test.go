// Copyright 2026 The Harbor Authors
// SPDX-License-Identifier: Apache-2.0

package mockapi

import (
	"context"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/harbor-crm/harbor/lib/crm"
	"github.com/harbor-crm/harbor/lib/crmclient"
)

// jsonBody wraps a JSON literal for use as a request body.
func jsonBody(literal string) io.Reader {
	return strings.NewReader(literal)
}

// newTestPair starts a mock API server and a crmclient pointed at it.
// Exercising the server through the real client keeps the two wire
// formats honest with each other.
func newTestPair(t *testing.T) (*Server, *crmclient.Client) {
	t.Helper()
	server, err := NewServer(Config{Token: "dev-token", Author: "Test Author"})
	if err != nil {
		t.Fatalf("NewServer: %v", err)
	}
	httpServer := httptest.NewServer(server.Handler())
	t.Cleanup(httpServer.Close)

	client, err := crmclient.NewClient(crmclient.Config{
		BaseURL: httpServer.URL,
		Token:   "dev-token",
	})
	if err != nil {
		t.Fatalf("NewClient: %v", err)
	}
	return server, client
}

func TestListUpdatesEmptyForSeededEntity(t *testing.T) {
	server, client := newTestPair(t)
	server.SeedEntity(crm.KindOpportunity, "opp-1")

	updates, err := client.ListUpdates(context.Background(), "/opportunities/opp-1/updates")
	if err != nil {
		t.Fatalf("ListUpdates: %v", err)
	}
	if len(updates) != 0 {
		t.Errorf("expected empty feed, got %+v", updates)
	}
}

func TestListUpdatesUnknownEntity(t *testing.T) {
	_, client := newTestPair(t)

	_, err := client.ListUpdates(context.Background(), "/opportunities/missing/updates")
	if !crmclient.IsNotFound(err) {
		t.Errorf("expected not-found error, got %v", err)
	}
}

func TestCreateUpdateRoundTrip(t *testing.T) {
	server, client := newTestPair(t)
	server.SeedEntity(crm.KindJob, "job-5")

	created, err := client.CreateUpdate(context.Background(), "/jobs/job-5/updates", crm.UpdateDraft{
		Kind: crm.UpdateNote,
		Body: "Permit approved.",
	})
	if err != nil {
		t.Fatalf("CreateUpdate: %v", err)
	}
	if created.ID == "" || created.Author != "Test Author" || created.CreatedAt == "" {
		t.Errorf("server did not fill in assigned fields: %+v", created)
	}

	updates, err := client.ListUpdates(context.Background(), "/jobs/job-5/updates")
	if err != nil {
		t.Fatalf("ListUpdates: %v", err)
	}
	if len(updates) != 1 || updates[0].ID != created.ID {
		t.Errorf("created update missing from feed: %+v", updates)
	}
}

func TestFeedOrderNewestFirst(t *testing.T) {
	server, client := newTestPair(t)
	server.SeedUpdate(crm.KindOpportunity, "opp-2", crm.Update{Kind: crm.UpdateNote, Author: "A", Body: "older"})
	server.SeedUpdate(crm.KindOpportunity, "opp-2", crm.Update{Kind: crm.UpdateNote, Author: "B", Body: "newer"})

	updates, err := client.ListUpdates(context.Background(), "/opportunities/opp-2/updates")
	if err != nil {
		t.Fatalf("ListUpdates: %v", err)
	}
	if len(updates) != 2 || updates[0].Body != "newer" || updates[1].Body != "older" {
		t.Errorf("feed order wrong: %+v", updates)
	}
}

func TestCreateUpdateRejectsBadDraft(t *testing.T) {
	server, _ := newTestPair(t)
	server.SeedEntity(crm.KindJob, "job-1")

	// Go through raw HTTP: crmclient validates drafts before sending,
	// and this test is about the server-side check.
	httpServer := httptest.NewServer(server.Handler())
	t.Cleanup(httpServer.Close)

	request, _ := http.NewRequest(http.MethodPost, httpServer.URL+"/jobs/job-1/updates",
		jsonBody(`{"kind":"fax","body":"nope"}`))
	request.Header.Set("Authorization", "Bearer dev-token")
	response, err := http.DefaultClient.Do(request)
	if err != nil {
		t.Fatalf("POST: %v", err)
	}
	defer response.Body.Close()
	if response.StatusCode != http.StatusUnprocessableEntity {
		t.Errorf("status = %d, want 422", response.StatusCode)
	}
}

func TestDeleteUpdate(t *testing.T) {
	server, client := newTestPair(t)
	seeded := server.SeedUpdate(crm.KindOpportunity, "opp-3", crm.Update{Kind: crm.UpdateCall, Author: "C", Body: "call log"})

	if err := client.DeleteUpdate(context.Background(), "/opportunities/opp-3/updates/"+seeded.ID); err != nil {
		t.Fatalf("DeleteUpdate: %v", err)
	}
	updates, err := client.ListUpdates(context.Background(), "/opportunities/opp-3/updates")
	if err != nil {
		t.Fatalf("ListUpdates: %v", err)
	}
	if len(updates) != 0 {
		t.Errorf("update not deleted: %+v", updates)
	}

	err = client.DeleteUpdate(context.Background(), "/opportunities/opp-3/updates/"+seeded.ID)
	if !crmclient.IsNotFound(err) {
		t.Errorf("second delete: expected not-found, got %v", err)
	}
}

func TestFilesRoundTrip(t *testing.T) {
	server, client := newTestPair(t)
	seeded := server.SeedFile(crm.KindJob, "job-2", crm.File{
		Name: "site-survey.pdf", Size: 48213, UploadedBy: "Dana",
	})

	files, err := client.ListFiles(context.Background(), "/jobs/job-2/files")
	if err != nil {
		t.Fatalf("ListFiles: %v", err)
	}
	if len(files) != 1 || files[0].ID != seeded.ID || files[0].Name != "site-survey.pdf" {
		t.Errorf("unexpected files: %+v", files)
	}

	if err := client.DeleteFile(context.Background(), "/jobs/job-2/files/"+seeded.ID); err != nil {
		t.Fatalf("DeleteFile: %v", err)
	}
	files, err = client.ListFiles(context.Background(), "/jobs/job-2/files")
	if err != nil {
		t.Fatalf("ListFiles after delete: %v", err)
	}
	if len(files) != 0 {
		t.Errorf("file not deleted: %+v", files)
	}
}

func TestAuthRequired(t *testing.T) {
	server, _ := newTestPair(t)
	server.SeedEntity(crm.KindOpportunity, "opp-1")
	httpServer := httptest.NewServer(server.Handler())
	t.Cleanup(httpServer.Close)

	response, err := http.Get(httpServer.URL + "/opportunities/opp-1/updates")
	if err != nil {
		t.Fatalf("GET: %v", err)
	}
	defer response.Body.Close()
	if response.StatusCode != http.StatusUnauthorized {
		t.Errorf("status = %d, want 401", response.StatusCode)
	}
}

func TestFailNext(t *testing.T) {
	server, client := newTestPair(t)
	server.SeedEntity(crm.KindOpportunity, "opp-1")
	server.FailNext(http.StatusInternalServerError, "simulated outage")

	_, err := client.ListUpdates(context.Background(), "/opportunities/opp-1/updates")
	if err == nil {
		t.Fatal("expected injected failure")
	}

	// The failure is consumed; the next request succeeds.
	if _, err := client.ListUpdates(context.Background(), "/opportunities/opp-1/updates"); err != nil {
		t.Fatalf("request after injected failure: %v", err)
	}
}
