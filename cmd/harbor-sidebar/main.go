// Copyright 2026 The Harbor Authors
// SPDX-License-Identifier: Apache-2.0

// harbor-sidebar is a standalone TUI for the entity detail sidebar:
// the tabbed Updates/Files panel shown next to an opportunity or job
// in the Harbor CRM. It connects to the CRM API configured via
// HARBOR_CONFIG (or --config) and displays the entity named on the
// command line.
//
// Background logging (from the API client and cache) is routed
// through a TUILogHandler that displays warnings and errors in the
// status bar instead of writing to stderr (which would corrupt the
// alt-screen display). An optional file logger captures all records
// to a JSONL file for post-mortem debugging.
package main

import (
	"fmt"
	"log/slog"
	"net/http"
	"os"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/spf13/pflag"

	"github.com/harbor-crm/harbor/lib/config"
	"github.com/harbor-crm/harbor/lib/crm"
	"github.com/harbor-crm/harbor/lib/crmclient"
	"github.com/harbor-crm/harbor/lib/querycache"
	"github.com/harbor-crm/harbor/lib/sidebar"
	"github.com/harbor-crm/harbor/lib/version"
)

func main() {
	if err := run(); err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(1)
	}
}

func run() error {
	var configPath string
	var entityID string
	var entityName string
	var kindFlag string
	var logOutput string

	flagSet := pflag.NewFlagSet("harbor-sidebar", pflag.ContinueOnError)
	flagSet.StringVar(&configPath, "config", "", "path to config file (default: $HARBOR_CONFIG)")
	flagSet.StringVar(&entityID, "entity", "", "ID of the entity to display (required)")
	flagSet.StringVar(&entityName, "name", "", "display name of the entity (defaults to the ID)")
	flagSet.StringVar(&kindFlag, "kind", "opportunity", "entity kind: opportunity or job")
	flagSet.StringVar(&logOutput, "log-output", "", "write JSON log records to this file (in addition to TUI display)")
	flagSet.BoolP("help", "h", false, "show help")

	// Handle --version before flag parsing to match other Harbor binaries.
	if len(os.Args) > 1 && os.Args[1] == "--version" {
		version.Print("harbor-sidebar")
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

	if args := flagSet.Args(); len(args) > 0 {
		return fmt.Errorf("unexpected argument: %s", args[0])
	}
	if entityID == "" {
		return fmt.Errorf("--entity is required")
	}
	if entityName == "" {
		entityName = entityID
	}

	var panelConfig sidebar.SidebarConfig
	switch crm.EntityKind(kindFlag) {
	case crm.KindOpportunity:
		panelConfig = sidebar.OpportunityConfig()
	case crm.KindJob:
		panelConfig = sidebar.JobConfig()
	default:
		return fmt.Errorf("unknown entity kind %q (want opportunity or job)", kindFlag)
	}

	var cfg *config.Config
	var err error
	if configPath != "" {
		cfg, err = config.LoadFile(configPath)
	} else {
		cfg, err = config.Load()
	}
	if err != nil {
		return err
	}
	if err := cfg.Validate(); err != nil {
		return err
	}

	token, err := cfg.ResolveToken()
	if err != nil {
		return err
	}

	if cfg.UI.InitialTab == "files" {
		panelConfig.InitialTab = sidebar.TabFiles
	}

	tuiHandler := sidebar.NewTUILogHandler(cfg.LogLevel())

	var backgroundLogger *slog.Logger
	if logOutput != "" {
		fileHandler, fileCloser, fileErr := openFileLogHandler(logOutput)
		if fileErr != nil {
			return fmt.Errorf("cannot open log file %s: %w", logOutput, fileErr)
		}
		defer fileCloser()
		backgroundLogger = slog.New(fanoutHandler{tuiHandler, fileHandler})
	} else {
		backgroundLogger = slog.New(tuiHandler)
	}
	panelConfig.Logger = backgroundLogger

	client, err := crmclient.NewClient(crmclient.Config{
		BaseURL:    cfg.API.BaseURL,
		Token:      token,
		HTTPClient: &http.Client{Timeout: cfg.APITimeout()},
		Logger:     backgroundLogger,
	})
	if err != nil {
		return err
	}

	cache := querycache.New(cfg.CacheTTL())
	defer cache.Close()

	panel, err := sidebar.NewPanel(panelConfig, client, cache)
	if err != nil {
		return err
	}

	program := tea.NewProgram(panel, tea.WithAltScreen())

	tuiHandler.SetProgram(program)
	program.Send(sidebar.ShowEntityMsg{ID: entityID, Name: entityName})

	_, err = program.Run()
	return err
}

func printHelp(flagSet *pflag.FlagSet) {
	fmt.Fprintf(os.Stderr, `Harbor entity sidebar — interactive terminal UI for an entity's
activity updates and file attachments.

The sidebar connects to the CRM API named in the config file (from
$HARBOR_CONFIG, or --config) and shows the entity given by --entity.
Keys inside the panel: 1/2 or tab switch tabs, j/k move, n writes a
new update, d deletes the selected record, / filters, r refreshes,
q closes.

Usage:
  harbor-sidebar --entity ID [flags]

Examples:
  # Show an opportunity's sidebar
  harbor-sidebar --entity opp-1401 --name "Acme renewal"

  # Show a job, starting on the Files tab (initial_tab: files in config)
  harbor-sidebar --kind job --entity job-77

  # Capture background logs for debugging
  harbor-sidebar --entity opp-1401 --log-output /tmp/sidebar.jsonl

Flags:
`)
	flagSet.SetOutput(os.Stderr)
	flagSet.PrintDefaults()
}
