// File: internal/channel/channel.go

// Package channel defines the execution channel the snapshot scripts travel
// through, the resilience coordinator that drives it, and the parser that
// turns raw channel payloads into snapshot results. The channel is assumed
// unreliable: it may fail outright, return nothing, or answer with a
// success-shaped placeholder instead of data.
package channel

import (
	"context"
	"encoding/json"
	"time"

	"github.com/xkilldash9x/pagelens-cli/api/schemas"
)

// Target addresses the document the snapshot should run against. When
// ActiveTab is set the tab index is ignored and the channel resolves the
// currently focused page itself.
type Target struct {
	TabIndex  int
	ActiveTab bool
}

// Job is the structured form of one capture: the normalized options plus the
// script variant. Channels that do not execute JavaScript run the job with
// the in-process engine instead and must honor the same semantics.
type Job struct {
	Options schemas.SnapshotOptions
	Variant schemas.ScriptVariant
}

// Request is one submission to the channel. Script is the rendered traversal
// program for script-executing channels; Job carries the equivalent
// structured intent. Timeout bounds this single attempt.
type Request struct {
	Script  string
	Job     Job
	Target  Target
	Timeout time.Duration
}

// Channel executes one request and returns the raw payload exactly as the
// transport produced it: a JSON object, a JSON-encoded string, or garbage.
// Transport level failures (unreachable endpoint, no such tab, evaluation
// error, timeout) are returned as errors; payload interpretation is the
// parser's job.
type Channel interface {
	Execute(ctx context.Context, req Request) (json.RawMessage, error)
}
