package engine

import (
	"context"
	"time"

	"github.com/idlerack/idlerack/internal/platform/metrics"
	"github.com/idlerack/idlerack/internal/platform/tuning"
)

// SimTickRate is the fixed simulation cadence: 4 ticks per second.
const SimTickRate = 250 * time.Millisecond

// RenderRate is the render frame cadence, roughly 30 fps.
const RenderRate = 33 * time.Millisecond

// Mux merges the three action producers into the single channel the
// dispatch loop consumes. The backpressure contract differs per producer:
// ticks and input block until accepted and are never lost; render frames
// are sent best-effort, since a newer frame supersedes a dropped one.
type Mux struct {
	actions chan Action
}

// NewMux sizes the action channel from the tuning config.
func NewMux(cfg *tuning.Config) *Mux {
	return &Mux{actions: make(chan Action, cfg.ActionChannelBuffer)}
}

// Actions is the consumer side, read only by the dispatch loop.
func (m *Mux) Actions() <-chan Action {
	return m.actions
}

// StartTickers launches the simulation and render tickers. They stop when
// ctx is cancelled.
func (m *Mux) StartTickers(ctx context.Context) {
	go m.runTicker(ctx, SimTickRate, Action{Kind: ActionTick}, true)
	go m.runTicker(ctx, RenderRate, Action{Kind: ActionRender}, false)
}

func (m *Mux) runTicker(ctx context.Context, rate time.Duration, action Action, blocking bool) {
	ticker := time.NewTicker(rate)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			if blocking {
				select {
				case m.actions <- action:
				case <-ctx.Done():
					return
				}
				continue
			}
			select {
			case m.actions <- action:
			default:
				metrics.Get().RecordRenderCoalesced()
			}
		}
	}
}

// Submit enqueues a player action, blocking until the loop accepts it.
// Input is never dropped.
func (m *Mux) Submit(ctx context.Context, action Action) error {
	select {
	case m.actions <- action:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}
