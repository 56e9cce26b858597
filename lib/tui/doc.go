// Copyright 2026 The Harbor Authors
// SPDX-License-Identifier: Apache-2.0

// Package tui provides shared terminal user interface components for
// Harbor's interactive viewers. Built on bubbletea (Elm architecture),
// these components handle common patterns: overlay splicing, menu and
// compose modals, fuzzy matching, markdown rendering, change-glow
// animation, and ANSI-aware text manipulation.
//
// Domain-specific viewers (the entity sidebar today) import this
// package for consistent look and behavior: same theme, same keyboard
// conventions, same overlay mechanics. Each viewer owns its own data
// source, layout, and domain-specific rendering.
package tui
