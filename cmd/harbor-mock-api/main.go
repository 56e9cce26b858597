// Copyright 2026 The Harbor Authors
// SPDX-License-Identifier: Apache-2.0

// harbor-mock-api is an in-memory stand-in for the CRM REST API, used
// for local development of the sidebar TUI and for integration tests.
// It serves the same routes the real API serves (list/create/delete
// updates, list/delete files for opportunities and jobs), requires
// the same bearer token authentication, and can inject artificial
// latency to exercise loading states.
//
// With --seed-demo it pre-populates one opportunity (opp-1) and one
// job (job-1) with a handful of updates and files, so the sidebar has
// something to show out of the box:
//
//	harbor-mock-api --token dev-token --seed-demo
//	HARBOR_CONFIG=dev.yaml harbor-sidebar --entity opp-1
package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/pflag"

	"github.com/harbor-crm/harbor/lib/crm"
	"github.com/harbor-crm/harbor/lib/mockapi"
	"github.com/harbor-crm/harbor/lib/version"
)

func main() {
	if err := run(); err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(1)
	}
}

func run() error {
	var listenAddr string
	var token string
	var author string
	var latency time.Duration
	var seedDemo bool

	flagSet := pflag.NewFlagSet("harbor-mock-api", pflag.ContinueOnError)
	flagSet.StringVar(&listenAddr, "listen", "127.0.0.1:8780", "address to listen on")
	flagSet.StringVar(&token, "token", "", "bearer token clients must present (required)")
	flagSet.StringVar(&author, "author", "", "author attributed to created updates")
	flagSet.DurationVar(&latency, "latency", 0, "artificial delay added to every request")
	flagSet.BoolVar(&seedDemo, "seed-demo", false, "pre-populate demo entities opp-1 and job-1")
	flagSet.BoolP("help", "h", false, "show help")

	if len(os.Args) > 1 && os.Args[1] == "--version" {
		version.Print("harbor-mock-api")
		return nil
	}

	if err := flagSet.Parse(os.Args[1:]); err != nil {
		if err == pflag.ErrHelp {
			printHelp(flagSet)
			return nil
		}
		return err
	}
	if help, _ := flagSet.GetBool("help"); help {
		printHelp(flagSet)
		return nil
	}
	if token == "" {
		return fmt.Errorf("--token is required")
	}

	logger := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: slog.LevelInfo}))

	server, err := mockapi.NewServer(mockapi.Config{
		Token:   token,
		Author:  author,
		Latency: latency,
		Logger:  logger,
	})
	if err != nil {
		return err
	}

	if seedDemo {
		seedDemoData(server)
		logger.Info("seeded demo data", "entities", []string{"opp-1", "job-1"})
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	httpServer := &http.Server{
		Addr:              listenAddr,
		Handler:           server.Handler(),
		ReadHeaderTimeout: 5 * time.Second,
	}

	errs := make(chan error, 1)
	go func() {
		logger.Info("mock CRM API listening", "addr", listenAddr, "version", version.Short())
		errs <- httpServer.ListenAndServe()
	}()

	select {
	case err := <-errs:
		return err
	case <-ctx.Done():
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := httpServer.Shutdown(shutdownCtx); err != nil && !errors.Is(err, context.DeadlineExceeded) {
		return err
	}
	logger.Info("mock CRM API stopped")
	return nil
}

// seedDemoData fills the server with one opportunity and one job
// carrying enough records to exercise both tabs, the preview pane,
// and the filter.
func seedDemoData(server *mockapi.Server) {
	now := time.Now().UTC()

	stamp := func(age time.Duration) string {
		return now.Add(-age).Format(time.RFC3339)
	}

	server.SeedEntity(crm.KindOpportunity, "opp-1")
	server.SeedUpdate(crm.KindOpportunity, "opp-1", crm.Update{
		Kind:      crm.UpdateNote,
		Body:      "Kickoff call scheduled. Agreed on a **discovery call** next Tuesday; bring the pricing sheet.",
		Author:    "Dana Reyes",
		CreatedAt: stamp(3 * time.Hour),
	})
	server.SeedUpdate(crm.KindOpportunity, "opp-1", crm.Update{
		Kind:      crm.UpdateEmail,
		Subject:   "Re: Proposal draft",
		Body:      "Client replied with two edits to the SOW. Turnaround by Friday.",
		Author:    "Miguel Chen",
		CreatedAt: stamp(26 * time.Hour),
	})
	server.SeedUpdate(crm.KindOpportunity, "opp-1", crm.Update{
		Kind:      crm.UpdateCall,
		Subject:   "Voicemail left",
		Body:      "No answer; left a voicemail about the renewal terms.",
		Author:    "Dana Reyes",
		CreatedAt: stamp(49 * time.Hour),
	})
	server.SeedFile(crm.KindOpportunity, "opp-1", crm.File{
		Name:        "proposal-v2.pdf",
		Size:        482133,
		ContentType: "application/pdf",
		UploadedBy:  "Miguel Chen",
		CreatedAt:   stamp(20 * time.Hour),
	})
	server.SeedFile(crm.KindOpportunity, "opp-1", crm.File{
		Name:        "pricing-sheet.xlsx",
		Size:        90412,
		ContentType: "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet",
		UploadedBy:  "Dana Reyes",
		CreatedAt:   stamp(70 * time.Hour),
	})

	server.SeedEntity(crm.KindJob, "job-1")
	server.SeedUpdate(crm.KindJob, "job-1", crm.Update{
		Kind:      crm.UpdateNote,
		Body:      "Site survey complete. Measurements taken; access via the loading dock only.",
		Author:    "Priya Nair",
		CreatedAt: stamp(5 * time.Hour),
	})
	server.SeedFile(crm.KindJob, "job-1", crm.File{
		Name:        "site-photos.zip",
		Size:        5242880,
		ContentType: "application/zip",
		UploadedBy:  "Priya Nair",
		CreatedAt:   stamp(4 * time.Hour),
	})
}

func printHelp(flagSet *pflag.FlagSet) {
	fmt.Fprintf(os.Stderr, `Harbor mock CRM API — in-memory HTTP server matching the real CRM
API's routes and authentication, for local development and tests.

Usage:
  harbor-mock-api --token TOKEN [flags]

Examples:
  # Serve on the default port with demo data
  harbor-mock-api --token dev-token --seed-demo

  # Exercise loading spinners with 800ms of artificial latency
  harbor-mock-api --token dev-token --seed-demo --latency 800ms

Flags:
`)
	flagSet.SetOutput(os.Stderr)
	flagSet.PrintDefaults()
}
