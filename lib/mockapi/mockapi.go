// Copyright 2026 The Harbor Authors
// SPDX-License-Identifier: Apache-2.0

// Package mockapi is an in-memory CRM API server. It backs the
// harbor-mock-api development binary and the sidebar integration
// tests, serving the same routes and wire shapes as the production
// CRM API: entity update feeds, file attachment lists, and the
// mutations the sidebar performs against them.
package mockapi

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"net/http"
	"slices"
	"strings"
	"sync"
	"time"

	"github.com/harbor-crm/harbor/lib/clock"
	"github.com/harbor-crm/harbor/lib/crm"
	"github.com/harbor-crm/harbor/lib/netutil"
)

// Config holds configuration for creating a mock API [Server].
type Config struct {
	// Token is the bearer token requests must present. Required.
	Token string

	// Author is the display name attributed to updates created
	// through the API. Defaults to "Mock User".
	Author string

	// Latency is an artificial delay applied to every request, for
	// exercising loading states in the viewer. Zero means no delay.
	Latency time.Duration

	// Clock provides time operations. Defaults to clock.Real().
	Clock clock.Clock

	// Logger is used for structured request logging. Defaults to
	// slog.Default().
	Logger *slog.Logger
}

// entityRef addresses an entity's records: collection is the URL
// collection segment ("opportunities" or "jobs").
type entityRef struct {
	collection string
	id         string
}

// Server is an in-memory CRM API. Safe for concurrent use.
type Server struct {
	token   string
	author  string
	latency time.Duration
	clock   clock.Clock
	logger  *slog.Logger

	mu       sync.Mutex
	entities map[entityRef]bool
	updates  map[entityRef][]crm.Update
	files    map[entityRef][]crm.File
	nextID   int
	failures []injectedFailure
	requests int
}

// injectedFailure is a response queued by FailNext.
type injectedFailure struct {
	statusCode int
	message    string
	retryAfter int
}

// NewServer creates a mock CRM API server from the given
// configuration.
func NewServer(config Config) (*Server, error) {
	if config.Token == "" {
		return nil, fmt.Errorf("mockapi: Token is required")
	}
	author := config.Author
	if author == "" {
		author = "Mock User"
	}
	clk := config.Clock
	if clk == nil {
		clk = clock.Real()
	}
	logger := config.Logger
	if logger == nil {
		logger = slog.Default()
	}
	return &Server{
		token:    config.Token,
		author:   author,
		latency:  config.Latency,
		clock:    clk,
		logger:   logger,
		entities: make(map[entityRef]bool),
		updates:  make(map[entityRef][]crm.Update),
		files:    make(map[entityRef][]crm.File),
	}, nil
}

// collectionForKind maps an entity kind to its URL collection segment.
func collectionForKind(kind crm.EntityKind) string {
	switch kind {
	case crm.KindOpportunity:
		return "opportunities"
	case crm.KindJob:
		return "jobs"
	}
	return ""
}

// SeedEntity registers an entity so that its update and file
// endpoints return empty lists instead of 404.
func (server *Server) SeedEntity(kind crm.EntityKind, entityID string) {
	server.mu.Lock()
	defer server.mu.Unlock()
	server.entities[entityRef{collectionForKind(kind), entityID}] = true
}

// SeedUpdate appends an update to an entity's feed, registering the
// entity if needed. Missing IDs and timestamps are filled in.
func (server *Server) SeedUpdate(kind crm.EntityKind, entityID string, update crm.Update) crm.Update {
	server.mu.Lock()
	defer server.mu.Unlock()
	ref := entityRef{collectionForKind(kind), entityID}
	server.entities[ref] = true
	if update.ID == "" {
		update.ID = server.assignID("upd")
	}
	if update.CreatedAt == "" {
		update.CreatedAt = server.clock.Now().UTC().Format(time.RFC3339)
	}
	// Newest first, matching the production API's feed order.
	server.updates[ref] = append([]crm.Update{update}, server.updates[ref]...)
	return update
}

// SeedFile appends a file to an entity's attachment list, registering
// the entity if needed. Missing IDs and timestamps are filled in.
func (server *Server) SeedFile(kind crm.EntityKind, entityID string, file crm.File) crm.File {
	server.mu.Lock()
	defer server.mu.Unlock()
	ref := entityRef{collectionForKind(kind), entityID}
	server.entities[ref] = true
	if file.ID == "" {
		file.ID = server.assignID("fil")
	}
	if file.CreatedAt == "" {
		file.CreatedAt = server.clock.Now().UTC().Format(time.RFC3339)
	}
	server.files[ref] = append(server.files[ref], file)
	return file
}

// FailNext queues an error response for the next request. Queued
// failures are consumed in order before normal handling resumes. A
// 429 failure carries a Retry-After of one second.
func (server *Server) FailNext(statusCode int, message string) {
	server.mu.Lock()
	defer server.mu.Unlock()
	failure := injectedFailure{statusCode: statusCode, message: message}
	if statusCode == http.StatusTooManyRequests {
		failure.retryAfter = 1
	}
	server.failures = append(server.failures, failure)
}

// assignID mints the next record identifier. Caller holds the lock.
func (server *Server) assignID(prefix string) string {
	server.nextID++
	return fmt.Sprintf("%s-%04d", prefix, server.nextID)
}

// Handler returns the HTTP handler serving the CRM API routes.
func (server *Server) Handler() http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc("GET /{collection}/{id}/updates", server.handleListUpdates)
	mux.HandleFunc("POST /{collection}/{id}/updates", server.handleCreateUpdate)
	mux.HandleFunc("DELETE /{collection}/{id}/updates/{record}", server.handleDeleteUpdate)
	mux.HandleFunc("GET /{collection}/{id}/files", server.handleListFiles)
	mux.HandleFunc("DELETE /{collection}/{id}/files/{record}", server.handleDeleteFile)
	return server.middleware(mux)
}

// middleware applies latency, auth, and injected failures around
// route handling, and logs every request.
func (server *Server) middleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(writer http.ResponseWriter, request *http.Request) {
		if server.latency > 0 {
			server.clock.Sleep(server.latency)
		}

		server.mu.Lock()
		server.requests++
		requestID := fmt.Sprintf("req-%04d", server.requests)
		var failure *injectedFailure
		if len(server.failures) > 0 {
			failure = &server.failures[0]
			server.failures = server.failures[1:]
		}
		server.mu.Unlock()

		server.logger.Debug("mock API request",
			"method", request.Method,
			"path", request.URL.Path,
			"request_id", requestID,
		)

		if request.Header.Get("Authorization") != "Bearer "+server.token {
			writeError(writer, http.StatusUnauthorized, "invalid or missing bearer token", requestID)
			return
		}
		if failure != nil {
			if failure.retryAfter > 0 {
				writer.Header().Set("Retry-After", fmt.Sprintf("%d", failure.retryAfter))
			}
			writeError(writer, failure.statusCode, failure.message, requestID)
			return
		}

		next.ServeHTTP(writer, requestWithID(request, requestID))
	})
}

// requestIDKey carries the request ID through the handler chain.
type requestIDKey struct{}

func requestWithID(request *http.Request, requestID string) *http.Request {
	return request.WithContext(context.WithValue(request.Context(), requestIDKey{}, requestID))
}

func requestIDFromContext(ctx context.Context) string {
	requestID, _ := ctx.Value(requestIDKey{}).(string)
	return requestID
}

// resolveRef extracts and validates the entity reference from the
// request path. Writes a 404 and returns false when the collection is
// unknown or the entity was never seeded.
func (server *Server) resolveRef(writer http.ResponseWriter, request *http.Request) (entityRef, bool) {
	ref := entityRef{
		collection: request.PathValue("collection"),
		id:         request.PathValue("id"),
	}
	requestID := requestIDFromContext(request.Context())
	if ref.collection != "opportunities" && ref.collection != "jobs" {
		writeError(writer, http.StatusNotFound, fmt.Sprintf("unknown collection %q", ref.collection), requestID)
		return entityRef{}, false
	}

	server.mu.Lock()
	known := server.entities[ref]
	server.mu.Unlock()
	if !known {
		writeError(writer, http.StatusNotFound, fmt.Sprintf("%s %q not found", strings.TrimSuffix(ref.collection, "s"), ref.id), requestID)
		return entityRef{}, false
	}
	return ref, true
}

func (server *Server) handleListUpdates(writer http.ResponseWriter, request *http.Request) {
	ref, ok := server.resolveRef(writer, request)
	if !ok {
		return
	}
	server.mu.Lock()
	updates := slices.Clone(server.updates[ref])
	server.mu.Unlock()
	if updates == nil {
		updates = []crm.Update{}
	}
	writeJSON(writer, http.StatusOK, updates)
}

func (server *Server) handleCreateUpdate(writer http.ResponseWriter, request *http.Request) {
	ref, ok := server.resolveRef(writer, request)
	if !ok {
		return
	}
	requestID := requestIDFromContext(request.Context())

	var draft crm.UpdateDraft
	if err := netutil.DecodeResponse(request.Body, &draft); err != nil {
		writeError(writer, http.StatusBadRequest, "malformed update draft", requestID)
		return
	}
	if err := draft.Validate(); err != nil {
		writeError(writer, http.StatusUnprocessableEntity, err.Error(), requestID)
		return
	}

	server.mu.Lock()
	created := crm.Update{
		ID:        server.assignID("upd"),
		Kind:      draft.Kind,
		Author:    server.author,
		Subject:   draft.Subject,
		Body:      draft.Body,
		CreatedAt: server.clock.Now().UTC().Format(time.RFC3339),
	}
	server.updates[ref] = append([]crm.Update{created}, server.updates[ref]...)
	server.mu.Unlock()

	writeJSON(writer, http.StatusCreated, created)
}

func (server *Server) handleDeleteUpdate(writer http.ResponseWriter, request *http.Request) {
	ref, ok := server.resolveRef(writer, request)
	if !ok {
		return
	}
	recordID := request.PathValue("record")
	requestID := requestIDFromContext(request.Context())

	server.mu.Lock()
	defer server.mu.Unlock()
	for index, update := range server.updates[ref] {
		if update.ID == recordID {
			server.updates[ref] = slices.Delete(server.updates[ref], index, index+1)
			writer.WriteHeader(http.StatusNoContent)
			return
		}
	}
	writeError(writer, http.StatusNotFound, fmt.Sprintf("update %q not found", recordID), requestID)
}

func (server *Server) handleListFiles(writer http.ResponseWriter, request *http.Request) {
	ref, ok := server.resolveRef(writer, request)
	if !ok {
		return
	}
	server.mu.Lock()
	files := slices.Clone(server.files[ref])
	server.mu.Unlock()
	if files == nil {
		files = []crm.File{}
	}
	writeJSON(writer, http.StatusOK, files)
}

func (server *Server) handleDeleteFile(writer http.ResponseWriter, request *http.Request) {
	ref, ok := server.resolveRef(writer, request)
	if !ok {
		return
	}
	recordID := request.PathValue("record")
	requestID := requestIDFromContext(request.Context())

	server.mu.Lock()
	defer server.mu.Unlock()
	for index, file := range server.files[ref] {
		if file.ID == recordID {
			server.files[ref] = slices.Delete(server.files[ref], index, index+1)
			writer.WriteHeader(http.StatusNoContent)
			return
		}
	}
	writeError(writer, http.StatusNotFound, fmt.Sprintf("file %q not found", recordID), requestID)
}

// writeJSON writes a JSON response with the given status code.
func writeJSON(writer http.ResponseWriter, statusCode int, value any) {
	writer.Header().Set("Content-Type", "application/json")
	writer.WriteHeader(statusCode)
	json.NewEncoder(writer).Encode(value)
}

// writeError writes the structured error body the production CRM API
// uses: a message plus a request ID for log correlation.
func writeError(writer http.ResponseWriter, statusCode int, message, requestID string) {
	writeJSON(writer, statusCode, map[string]string{
		"message":    message,
		"request_id": requestID,
	})
}
