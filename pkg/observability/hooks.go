// Package observability lets the host application observe paint runs and
// cache traffic without the library depending on a metrics backend.
//
// The CLI registers hooks that write debug log lines; a service embedding
// the pipeline could register Prometheus counters instead:
//
//	observability.SetPaintHooks(&myHooks{})
//
// Library code emits events through the accessors:
//
//	observability.Paint().OnPaintStart(ctx, style, w, h)
//	// ... subdivide ...
//	observability.Paint().OnPaintComplete(ctx, style, tiles, depth, duration, err)
package observability

import (
	"context"
	"sync"
	"time"
)

// =============================================================================
// Paint Hooks
// =============================================================================

// PaintHooks receives events from the paint pipeline.
type PaintHooks interface {
	// Subdivision events
	OnPaintStart(ctx context.Context, style string, width, height int)
	OnPaintComplete(ctx context.Context, style string, tiles, depth int, duration time.Duration, err error)

	// Encoding events, once per output format
	OnRenderStart(ctx context.Context, format string)
	OnRenderComplete(ctx context.Context, format string, size int, duration time.Duration, err error)
}

// =============================================================================
// Cache Hooks
// =============================================================================

// CacheHooks receives events from cache lookups made by the pipeline.
type CacheHooks interface {
	OnCacheHit(ctx context.Context, key string)
	OnCacheMiss(ctx context.Context, key string)
	OnCacheSet(ctx context.Context, key string, size int)
}

// =============================================================================
// No-op Implementations
// =============================================================================

// NoopPaintHooks ignores every event.
type NoopPaintHooks struct{}

func (NoopPaintHooks) OnPaintStart(context.Context, string, int, int) {}
func (NoopPaintHooks) OnPaintComplete(context.Context, string, int, int, time.Duration, error) {
}
func (NoopPaintHooks) OnRenderStart(context.Context, string)                               {}
func (NoopPaintHooks) OnRenderComplete(context.Context, string, int, time.Duration, error) {}

// NoopCacheHooks ignores every event.
type NoopCacheHooks struct{}

func (NoopCacheHooks) OnCacheHit(context.Context, string)      {}
func (NoopCacheHooks) OnCacheMiss(context.Context, string)     {}
func (NoopCacheHooks) OnCacheSet(context.Context, string, int) {}

// =============================================================================
// Global Hook Registry
// =============================================================================

var (
	paintHooks PaintHooks = NoopPaintHooks{}
	cacheHooks CacheHooks = NoopCacheHooks{}
	hooksMu    sync.RWMutex
)

// SetPaintHooks registers paint hooks. Nil is ignored.
func SetPaintHooks(h PaintHooks) {
	hooksMu.Lock()
	defer hooksMu.Unlock()
	if h != nil {
		paintHooks = h
	}
}

// SetCacheHooks registers cache hooks. Nil is ignored.
func SetCacheHooks(h CacheHooks) {
	hooksMu.Lock()
	defer hooksMu.Unlock()
	if h != nil {
		cacheHooks = h
	}
}

// Paint returns the registered paint hooks.
func Paint() PaintHooks {
	hooksMu.RLock()
	defer hooksMu.RUnlock()
	return paintHooks
}

// Cache returns the registered cache hooks.
func Cache() CacheHooks {
	hooksMu.RLock()
	defer hooksMu.RUnlock()
	return cacheHooks
}

// Reset restores the no-op defaults.
func Reset() {
	hooksMu.Lock()
	defer hooksMu.Unlock()
	paintHooks = NoopPaintHooks{}
	cacheHooks = NoopCacheHooks{}
}
