// File: internal/channel/inproc.go
package channel

import (
	"context"
	"encoding/json"

	"go.uber.org/zap"

	"github.com/xkilldash9x/pagelens-cli/internal/dom"
	"github.com/xkilldash9x/pagelens-cli/internal/snapshot"
)

// InProcChannel executes snapshots directly against an in-memory document.
// There is no script host: the structured job runs through the native
// traversal engine and the result is serialized back as the payload, so the
// coordinator and parser see exactly what a scripted channel would hand them.
// Used for local HTML input and throughout the test suite.
type InProcChannel struct {
	doc    dom.Document
	engine *snapshot.Engine
}

// NewInProcChannel builds a channel over a parsed document.
func NewInProcChannel(doc dom.Document, logger *zap.Logger) *InProcChannel {
	return &InProcChannel{
		doc:    doc,
		engine: snapshot.NewEngine(logger),
	}
}

// Execute runs the job's traversal and returns the marshaled result. Tab
// targeting is meaningless here and is ignored; there is only one document.
func (c *InProcChannel) Execute(ctx context.Context, req Request) (json.RawMessage, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	result := c.engine.Capture(c.doc, req.Job.Options, req.Job.Variant)
	raw, err := jsonFast.Marshal(result)
	if err != nil {
		return nil, err
	}
	return raw, nil
}
