// File: internal/snapshot/capture.go
package snapshot

import (
	"runtime"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/xkilldash9x/pagelens-cli/api/schemas"
	"github.com/xkilldash9x/pagelens-cli/internal/dom"
)

// Engine runs the snapshot passes over a dom.Document. It holds no state of
// its own beyond the logger; every capture allocates its caches fresh, so a
// single Engine is safe for concurrent captures against different documents.
type Engine struct {
	logger *zap.Logger
}

// NewEngine creates a snapshot engine.
func NewEngine(logger *zap.Logger) *Engine {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Engine{logger: logger.Named("snapshot")}
}

// Capture runs one snapshot pass and returns a fresh result envelope.
// Ownership of the result transfers to the caller; nothing survives into the
// next invocation.
func (e *Engine) Capture(doc dom.Document, opts schemas.SnapshotOptions, variant schemas.ScriptVariant) *schemas.SnapshotResult {
	opts = opts.Normalize()
	start := time.Now()
	invocationID := uuid.NewString()

	log := e.logger.With(
		zap.String("invocation_id", invocationID),
		zap.String("mode", string(opts.Mode)),
		zap.String("variant", string(variant)),
	)

	var idx *docIndex
	indexStart := time.Now()
	if variant == schemas.VariantFull {
		// One upfront O(n) walk; uniqueness checks become map hits after this.
		idx = buildIndex(doc)
	}
	processingMs := float64(time.Since(indexStart).Microseconds()) / 1000

	t := newTraverser(doc, opts, idx, log)
	walkStart := time.Now()

	var nodes []schemas.SnapshotNode
	switch {
	case variant == schemas.VariantReduced:
		nodes = t.reducedOutline()
	case opts.Mode == schemas.ModeDomLite:
		nodes = t.domLite()
	default:
		nodes = t.outline()
	}
	traversalMs := float64(time.Since(walkStart).Microseconds()) / 1000

	meta := &schemas.SnapshotMeta{
		URL:          doc.URL(),
		Title:        doc.Title(),
		Timestamp:    start.UTC(),
		DurationMs:   float64(time.Since(start).Microseconds()) / 1000,
		VisibleOnly:  opts.VisibleOnly,
		InvocationID: invocationID,
		Performance:  performanceInfo(t, traversalMs, processingMs, len(nodes)),
	}
	if opts.Mode == schemas.ModeDomLite {
		depth := opts.MaxDepth
		meta.MaxDepth = &depth
	}

	if t.failures > 0 {
		log.Debug("Capture finished with recovered element failures.",
			zap.Int("failures", t.failures), zap.Int("emitted", len(nodes)))
	}

	return &schemas.SnapshotResult{
		OK:    true,
		Cmd:   "snapshot",
		Nodes: nodes,
		Meta:  meta,
	}
}

// performanceInfo packages the diagnostic counters. Best effort only; none of
// this may ever fail the call.
func performanceInfo(t *traverser, traversalMs, processingMs float64, emitted int) *schemas.PerformanceInfo {
	var mem runtime.MemStats
	runtime.ReadMemStats(&mem)
	return &schemas.PerformanceInfo{
		NodesScanned: t.scanned,
		NodesEmitted: emitted,
		TraversalMs:  traversalMs,
		ProcessingMs: processingMs,
		PeakMemoryKB: int64(mem.HeapAlloc / 1024),
	}
}
