// File: internal/channel/cdp.go
package channel

import (
	"context"
	"encoding/json"

	"github.com/chromedp/cdproto/runtime"
	"github.com/chromedp/cdproto/target"
	"github.com/chromedp/chromedp"
	"go.uber.org/zap"

	"github.com/xkilldash9x/pagelens-cli/api/schemas"
)

// CDPChannel submits the traversal script to a running browser over the
// DevTools protocol. It owns no browser process: it attaches to whatever is
// already listening on the configured debugging endpoint and detaches after
// each request.
type CDPChannel struct {
	devtoolsURL string
	logger      *zap.Logger
}

// NewCDPChannel creates a channel against a remote debugging endpoint such as
// http://127.0.0.1:9222.
func NewCDPChannel(devtoolsURL string, logger *zap.Logger) *CDPChannel {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &CDPChannel{
		devtoolsURL: devtoolsURL,
		logger:      logger.Named("cdp"),
	}
}

// Execute attaches to the requested page target and evaluates the script
// there. The payload is the evaluation result exactly as the protocol
// serialized it; since the script returns a JSON string, this is normally a
// quoted string for the parser to unwrap.
func (c *CDPChannel) Execute(ctx context.Context, req Request) (json.RawMessage, error) {
	allocCtx, cancelAlloc := chromedp.NewRemoteAllocator(ctx, c.devtoolsURL)
	defer cancelAlloc()

	browserCtx, cancelBrowser := chromedp.NewContext(allocCtx)
	defer cancelBrowser()

	// Connect before enumerating targets.
	if err := chromedp.Run(browserCtx); err != nil {
		return nil, schemas.NewSnapshotError(schemas.ErrKindChannelFailure,
			"cannot attach to browser at %s: %v", c.devtoolsURL, err)
	}

	info, err := c.resolveTarget(browserCtx, req.Target)
	if err != nil {
		return nil, err
	}
	c.logger.Debug("Resolved page target.",
		zap.String("target_id", string(info.TargetID)),
		zap.String("url", info.URL))

	tabCtx, cancelTab := chromedp.NewContext(browserCtx, chromedp.WithTargetID(info.TargetID))
	defer cancelTab()

	var raw json.RawMessage
	evalAction := chromedp.Evaluate(req.Script, &raw, func(p *runtime.EvaluateParams) *runtime.EvaluateParams {
		return p.WithReturnByValue(true).WithAwaitPromise(true).WithSilent(true)
	})
	if err := chromedp.Run(tabCtx, evalAction); err != nil {
		return nil, schemas.NewSnapshotError(schemas.ErrKindChannelFailure,
			"script evaluation failed: %v", err)
	}
	return raw, nil
}

// resolveTarget picks the page target the request addresses. Active-tab
// resolution takes the first page target the browser reports; index targeting
// counts page targets in report order.
func (c *CDPChannel) resolveTarget(ctx context.Context, t Target) (*target.Info, error) {
	infos, err := chromedp.Targets(ctx)
	if err != nil {
		return nil, schemas.NewSnapshotError(schemas.ErrKindChannelFailure,
			"cannot list browser targets: %v", err)
	}

	var pages []*target.Info
	for _, info := range infos {
		if info.Type == "page" {
			pages = append(pages, info)
		}
	}
	if len(pages) == 0 {
		return nil, schemas.NewSnapshotError(schemas.ErrKindChannelFailure,
			"browser has no page targets")
	}

	if t.ActiveTab || t.TabIndex < 0 {
		return pages[0], nil
	}
	if t.TabIndex >= len(pages) {
		return nil, schemas.NewSnapshotError(schemas.ErrKindChannelFailure,
			"tab index %d out of range (browser has %d pages)", t.TabIndex, len(pages))
	}
	return pages[t.TabIndex], nil
}
