// Package observability provides hooks for metrics, tracing, and logging.
//
// This package enables optional instrumentation without adding hard dependencies
// on specific observability backends. Consumers can register hooks at startup
// to receive events about store mutations, enrichment fetches, and layout
// computation.
//
// # Architecture
//
// The package uses a simple hooks pattern:
//   - Define hook interfaces for different event categories
//   - Provide no-op default implementations
//   - Allow registration of custom implementations at startup
//
// This approach:
//   - Avoids import cycles (hooks are registered by main, not by libraries)
//   - Keeps the core library dependency-free from observability frameworks
//   - Allows different backends (OpenTelemetry, Prometheus, DataDog, etc.)
//
// # Usage
//
// Register hooks at application startup:
//
//	func main() {
//	    observability.SetStoreHooks(&myStoreHooks{})
//	    observability.SetEnrichHooks(&myEnrichHooks{})
//	    // ... run application
//	}
//
// Libraries call hooks to emit events:
//
//	observability.Store().OnMutation(ctx, "createGroup", groupID)
//	observability.Store().OnSaveComplete(ctx, groupCount, duration, err)
package observability

import (
	"context"
	"sync"
	"time"
)

// =============================================================================
// Store Hooks
// =============================================================================

// StoreHooks receives events from the group store.
type StoreHooks interface {
	// OnMutation records a completed mutation (createGroup, removeGroup,
	// addLink, removeLink, setGroupSize, ...) on the named group.
	OnMutation(ctx context.Context, op, groupID string)

	// OnSaveComplete records the outcome of a persistence write.
	// Failed saves carry a non-nil err; the write is fire-and-forget so
	// this hook is the only place a failure is observable programmatically.
	OnSaveComplete(ctx context.Context, groupCount int, duration time.Duration, err error)

	// OnLoadComplete records the outcome of the startup load.
	OnLoadComplete(ctx context.Context, groupCount int, err error)
}

// =============================================================================
// Enrichment Hooks
// =============================================================================

// EnrichHooks receives events from the metadata/favicon enrichment pipeline.
type EnrichHooks interface {
	// OnFaviconFallback records that a URL failed to parse and the
	// embedded fallback icon was substituted.
	OnFaviconFallback(ctx context.Context, rawURL string)

	// OnMetaFetch records a metadata fetch outcome. Failed fetches
	// degrade to an empty-title result, so err here is informational.
	OnMetaFetch(ctx context.Context, url string, duration time.Duration, err error)
}

// =============================================================================
// Layout Hooks
// =============================================================================

// LayoutHooks receives events from the treemap layout engine's callers.
type LayoutHooks interface {
	// OnLayout records a layout pass over the group collection.
	OnLayout(ctx context.Context, groupCount, width, height int, duration time.Duration)
}

// =============================================================================
// No-op Implementations
// =============================================================================

// NoopStoreHooks is a no-op implementation of StoreHooks.
type NoopStoreHooks struct{}

func (NoopStoreHooks) OnMutation(context.Context, string, string)                    {}
func (NoopStoreHooks) OnSaveComplete(context.Context, int, time.Duration, error)     {}
func (NoopStoreHooks) OnLoadComplete(context.Context, int, error)                    {}

// NoopEnrichHooks is a no-op implementation of EnrichHooks.
type NoopEnrichHooks struct{}

func (NoopEnrichHooks) OnFaviconFallback(context.Context, string)                  {}
func (NoopEnrichHooks) OnMetaFetch(context.Context, string, time.Duration, error)  {}

// NoopLayoutHooks is a no-op implementation of LayoutHooks.
type NoopLayoutHooks struct{}

func (NoopLayoutHooks) OnLayout(context.Context, int, int, int, time.Duration) {}

// =============================================================================
// Global Hook Registry
// =============================================================================

var (
	storeHooks  StoreHooks  = NoopStoreHooks{}
	enrichHooks EnrichHooks = NoopEnrichHooks{}
	layoutHooks LayoutHooks = NoopLayoutHooks{}
	hooksMu     sync.RWMutex
)

// SetStoreHooks registers custom store hooks.
// This should be called once at application startup before any store operations.
func SetStoreHooks(h StoreHooks) {
	hooksMu.Lock()
	defer hooksMu.Unlock()
	if h != nil {
		storeHooks = h
	}
}

// SetEnrichHooks registers custom enrichment hooks.
// This should be called once at application startup before any enrichment operations.
func SetEnrichHooks(h EnrichHooks) {
	hooksMu.Lock()
	defer hooksMu.Unlock()
	if h != nil {
		enrichHooks = h
	}
}

// SetLayoutHooks registers custom layout hooks.
// This should be called once at application startup before any layout operations.
func SetLayoutHooks(h LayoutHooks) {
	hooksMu.Lock()
	defer hooksMu.Unlock()
	if h != nil {
		layoutHooks = h
	}
}

// Store returns the registered store hooks.
func Store() StoreHooks {
	hooksMu.RLock()
	defer hooksMu.RUnlock()
	return storeHooks
}

// Enrich returns the registered enrichment hooks.
func Enrich() EnrichHooks {
	hooksMu.RLock()
	defer hooksMu.RUnlock()
	return enrichHooks
}

// Layout returns the registered layout hooks.
func Layout() LayoutHooks {
	hooksMu.RLock()
	defer hooksMu.RUnlock()
	return layoutHooks
}

// Reset restores all hooks to their no-op defaults.
// This is primarily useful for testing.
func Reset() {
	hooksMu.Lock()
	defer hooksMu.Unlock()
	storeHooks = NoopStoreHooks{}
	enrichHooks = NoopEnrichHooks{}
	layoutHooks = NoopLayoutHooks{}
}
