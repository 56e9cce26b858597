// Copyright 2026 The Harbor Authors
// SPDX-License-Identifier: Apache-2.0

package netutil

import (
	"bytes"
	"fmt"
	"io"
	"strings"
	"testing"
)

func TestReadResponse(t *testing.T) {
	t.Run("update feed body", func(t *testing.T) {
		payload := `[{"id":"upd-1","kind":"note","body":"Kickoff scheduled"}]`
		data, err := ReadResponse(strings.NewReader(payload))
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if string(data) != payload {
			t.Fatalf("got %q, want %q", data, payload)
		}
	})

	t.Run("204 no content", func(t *testing.T) {
		data, err := ReadResponse(bytes.NewReader(nil))
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if len(data) != 0 {
			t.Fatalf("expected empty, got %d bytes", len(data))
		}
	})

	t.Run("truncates at the size bound", func(t *testing.T) {
		oversized := io.MultiReader(
			strings.NewReader(strings.Repeat("x", int(MaxResponseSize))),
			strings.NewReader("overflow"),
		)
		data, err := ReadResponse(oversized)
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if int64(len(data)) != MaxResponseSize {
			t.Fatalf("got %d bytes, want the %d bound", len(data), MaxResponseSize)
		}
	})

	t.Run("read error propagates", func(t *testing.T) {
		if _, err := ReadResponse(&droppedConnection{}); err == nil {
			t.Fatal("expected error from failing reader")
		}
	})
}

func TestDecodeResponse(t *testing.T) {
	t.Run("file attachment", func(t *testing.T) {
		body := strings.NewReader(`{"id":"fil-1","name":"proposal.pdf","size":482133}`)
		var attachment struct {
			ID   string `json:"id"`
			Name string `json:"name"`
			Size int64  `json:"size"`
		}
		if err := DecodeResponse(body, &attachment); err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if attachment.Name != "proposal.pdf" {
			t.Errorf("name = %q, want %q", attachment.Name, "proposal.pdf")
		}
		if attachment.Size != 482133 {
			t.Errorf("size = %d, want 482133", attachment.Size)
		}
	})

	t.Run("html error page is not json", func(t *testing.T) {
		body := strings.NewReader("<html><body>502 Bad Gateway</body></html>")
		if err := DecodeResponse(body, &struct{}{}); err == nil {
			t.Fatal("expected error for non-JSON body")
		}
	})

	t.Run("read error propagates", func(t *testing.T) {
		if err := DecodeResponse(&droppedConnection{}, &struct{}{}); err == nil {
			t.Fatal("expected error from failing reader")
		}
	})
}

func TestErrorBody(t *testing.T) {
	t.Run("structured api error", func(t *testing.T) {
		payload := `{"message":"opportunity \"opp-9\" not found","request_id":"req-0042"}`
		if got := ErrorBody(strings.NewReader(payload)); got != payload {
			t.Fatalf("got %q, want %q", got, payload)
		}
	})

	t.Run("empty body", func(t *testing.T) {
		if got := ErrorBody(bytes.NewReader(nil)); got != "" {
			t.Fatalf("expected empty, got %q", got)
		}
	})

	t.Run("read error yields empty diagnostic", func(t *testing.T) {
		if got := ErrorBody(&droppedConnection{}); got != "" {
			t.Fatalf("expected empty from failing reader, got %q", got)
		}
	})
}

// droppedConnection simulates a response body whose connection died
// mid-read.
type droppedConnection struct{}

func (*droppedConnection) Read([]byte) (int, error) {
	return 0, fmt.Errorf("read tcp 127.0.0.1:52114->127.0.0.1:8780: connection reset by peer")
}
