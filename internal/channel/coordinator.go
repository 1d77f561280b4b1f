// File: internal/channel/coordinator.go
package channel

import (
	"context"
	"errors"
	"time"

	"go.uber.org/zap"

	"github.com/xkilldash9x/pagelens-cli/api/schemas"
	"github.com/xkilldash9x/pagelens-cli/internal/config"
	"github.com/xkilldash9x/pagelens-cli/internal/snapshot"
)

// attempt is one rung of the resilience ladder.
type attempt struct {
	label   string
	target  Target
	variant schemas.ScriptVariant
}

// Coordinator drives the execution channel with a fixed escalation ladder.
// Attempts are strictly sequential; the first attempt that yields a parsed,
// non-ambiguous result wins and later rungs never run.
type Coordinator struct {
	channel  Channel
	strategy schemas.ExecStrategy
	timeouts map[schemas.SnapshotMode]time.Duration
	logger   *zap.Logger
}

// NewCoordinator wires a coordinator over the given channel. An unknown
// strategy string falls back to robust.
func NewCoordinator(ch Channel, cfg config.ChannelConfig, logger *zap.Logger) *Coordinator {
	if logger == nil {
		logger = zap.NewNop()
	}
	strategy := schemas.ExecStrategy(cfg.Strategy)
	if strategy != schemas.StrategyLegacy {
		strategy = schemas.StrategyRobust
	}
	outline := cfg.OutlineTimeout
	if outline <= 0 {
		outline = 15 * time.Second
	}
	domLite := cfg.DomLiteTimeout
	if domLite <= 0 {
		domLite = 20 * time.Second
	}
	return &Coordinator{
		channel:  ch,
		strategy: strategy,
		timeouts: map[schemas.SnapshotMode]time.Duration{
			schemas.ModeOutline: outline,
			schemas.ModeDomLite: domLite,
		},
		logger: logger.Named("coordinator"),
	}
}

// Snapshot runs one capture through the ladder appropriate for the configured
// strategy. With simple set, the ladder is bypassed entirely and a single
// reduced-script submission against the requested target is final.
func (c *Coordinator) Snapshot(ctx context.Context, opts schemas.SnapshotOptions, target Target, simple bool) (*schemas.SnapshotResult, error) {
	opts = opts.Normalize()

	var ladder []attempt
	switch {
	case simple:
		ladder = []attempt{
			{label: "simple", target: target, variant: schemas.VariantReduced},
		}
	case c.strategy == schemas.StrategyLegacy:
		ladder = []attempt{
			{label: "legacy", target: target, variant: schemas.VariantFull},
		}
	default:
		// Robust: same target again via active-tab resolution, then the
		// reduced script. Escalation only changes one thing per rung.
		ladder = []attempt{
			{label: "primary", target: target, variant: schemas.VariantFull},
			{label: "alternate", target: Target{ActiveTab: true}, variant: schemas.VariantFull},
			{label: "reduced", target: Target{ActiveTab: true}, variant: schemas.VariantReduced},
		}
	}

	timeout := c.timeouts[opts.Mode]
	var lastErr error
	sawAmbiguous := false

	for i, a := range ladder {
		result, err := c.submit(ctx, opts, a, timeout)
		if err == nil {
			if i > 0 {
				c.logger.Info("Snapshot recovered on a later ladder rung.",
					zap.String("rung", a.label), zap.String("variant", string(a.variant)))
			}
			return result, nil
		}
		lastErr = err

		var snapErr *schemas.SnapshotError
		kind := schemas.ErrKindChannelFailure
		if errors.As(err, &snapErr) {
			kind = snapErr.Kind()
		}
		if kind == schemas.ErrKindAmbiguousResponse {
			sawAmbiguous = true
		}
		c.logger.Warn("Snapshot attempt failed.",
			zap.String("rung", a.label),
			zap.String("variant", string(a.variant)),
			zap.String("kind", string(kind)),
			zap.Error(err))

		// A canceled parent context ends the ladder; there is nobody left
		// waiting for further rungs.
		if ctx.Err() != nil {
			break
		}
	}

	if sawAmbiguous {
		return nil, schemas.NewSnapshotError(schemas.ErrKindAmbiguousResponse,
			"every attempt returned a placeholder or failed; the target page is likely not scriptable")
	}
	var snapErr *schemas.SnapshotError
	if errors.As(lastErr, &snapErr) {
		return nil, snapErr
	}
	return nil, schemas.NewSnapshotError(schemas.ErrKindChannelFailure,
		"snapshot execution failed: %v", lastErr)
}

// submit performs a single channel round trip with its own deadline and
// parses whatever came back.
func (c *Coordinator) submit(ctx context.Context, opts schemas.SnapshotOptions, a attempt, timeout time.Duration) (*schemas.SnapshotResult, error) {
	attemptCtx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	req := Request{
		Script: snapshot.RenderScript(opts, a.variant),
		Job: Job{
			Options: opts,
			Variant: a.variant,
		},
		Target:  a.target,
		Timeout: timeout,
	}

	raw, err := c.channel.Execute(attemptCtx, req)
	if err != nil {
		var snapErr *schemas.SnapshotError
		if errors.As(err, &snapErr) {
			return nil, snapErr
		}
		return nil, schemas.NewSnapshotError(schemas.ErrKindChannelFailure,
			"channel execution failed: %v", err)
	}
	return ParsePayload(raw)
}
