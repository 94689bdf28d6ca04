// Package pkg provides the core libraries for the tilemarks bookmark-group
// engine.
//
// # Overview
//
// Tilemarks keeps named groups of quick links, enriches them with favicons
// and page metadata, and lays them out as proportionally sized tiles. The
// pkg directory is organized into these areas:
//
//  1. [groups] - Domain logic (group store, size derivation, palette)
//  2. [treemap] - One-axis slice layout over a canvas
//  3. [enrich] - Favicon resolution and metadata fetching
//  4. [drag] - Drag-assignment state machine over browser bookmarks
//  5. [bookmarks] - Bookmark tree model and export-file sources
//  6. [kvstore] - Persistence backends (memory, file, Redis, MongoDB)
//
// # Architecture
//
// The typical data flow:
//
//	Bookmark export / API request
//	         ↓
//	    [enrich] package (favicon + metadata)
//	         ↓
//	    [groups] package (store, size derivation, persistence)
//	         ↓
//	    [treemap] package (tile geometry)
//	         ↓
//	    HTTP JSON / terminal board output
//
// # Quick Start
//
// Create a group, attach an enriched link, and lay out the board:
//
//	import (
//	    "context"
//	    "github.com/tilemarks/tilemarks/pkg/enrich"
//	    "github.com/tilemarks/tilemarks/pkg/groups"
//	    "github.com/tilemarks/tilemarks/pkg/kvstore"
//	    "github.com/tilemarks/tilemarks/pkg/treemap"
//	)
//
//	ctx := context.Background()
//	store := groups.NewStore(kvstore.NewMemoryStore())
//	g, _ := store.CreateGroup(ctx, "Work")
//
//	client := enrich.NewClient(enrich.Config{})
//	link := client.Enrich(ctx, "bm-1", "Docs", "https://docs.example.com")
//	_ = store.AddLink(ctx, g.ID, link)
//
//	tiles := treemap.Layout(store.Groups(), 1920, 1080)
//
// Supporting packages: [errors] carries coded errors across package
// boundaries, [httputil] retries transient metadata-service failures,
// [observability] exposes hook points, and [buildinfo] holds version
// metadata injected at build time.
package pkg
