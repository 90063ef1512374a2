// Package engine contains the action pipeline: three producers, one
// multiplexed channel, one dispatch loop that exclusively owns the game
// state. Nothing else mutates state, so the simulation needs no locks.
package engine

import (
	"context"
	"time"

	"github.com/idlerack/idlerack/internal/game"
	"github.com/idlerack/idlerack/internal/journal"
	"github.com/idlerack/idlerack/internal/platform/logger"
	"github.com/idlerack/idlerack/internal/platform/metrics"
)

// AutosaveEveryTicks is the autosave cadence: 240 ticks is one minute of
// real time at the 4 Hz simulation rate.
const AutosaveEveryTicks = 240

// Saver persists the full game state. IO failures are logged, never fatal.
type Saver interface {
	Save(state *game.State) error
}

// SnapshotSink receives read-only snapshots on render frames. The tcell
// renderer and the websocket hub both sit behind this.
type SnapshotSink interface {
	Publish(snap game.Snapshot)
}

// Engine runs the dispatch loop.
type Engine struct {
	dispatcher *Dispatcher
	mux        *Mux
	journal    *journal.Journal
	logger     *logger.Logger
	saver      Saver
	sinks      []SnapshotSink

	ticksSinceSave uint64
}

// New assembles the loop. saver may be nil (ephemeral runs); sinks may be
// empty (pure headless simulation).
func New(dispatcher *Dispatcher, mux *Mux, jrnl *journal.Journal, log *logger.Logger, saver Saver, sinks ...SnapshotSink) *Engine {
	return &Engine{
		dispatcher: dispatcher,
		mux:        mux,
		journal:    jrnl,
		logger:     log,
		saver:      saver,
		sinks:      sinks,
	}
}

// Mux exposes the producer side for the UI and the tickers.
func (e *Engine) Mux() *Mux {
	return e.mux
}

// Run consumes actions until a Shutdown action arrives or ctx is
// cancelled. Either way the final state is saved before returning.
func (e *Engine) Run(ctx context.Context) error {
	e.logger.Info("Dispatch loop started.")
	e.mux.StartTickers(ctx)

	for {
		select {
		case <-ctx.Done():
			e.logger.Info("Dispatch loop stopped by context.")
			e.save("shutdown")
			return ctx.Err()

		case action := <-e.mux.Actions():
			switch action.Kind {
			case ActionShutdown:
				e.logger.Info("Shutdown action received.")
				e.save("shutdown")
				return nil

			case ActionSave:
				e.save("manual")

			case ActionRender:
				e.publish()

			case ActionTick:
				start := time.Now()
				e.dispatcher.Dispatch(action)
				metrics.Get().RecordTick(time.Since(start))

				e.ticksSinceSave++
				if e.ticksSinceSave >= AutosaveEveryTicks {
					e.save("auto")
				}

			default:
				e.dispatcher.Dispatch(action)
			}
		}
	}
}

// publish hands a fresh deep-copied snapshot to every sink.
func (e *Engine) publish() {
	if len(e.sinks) == 0 {
		return
	}
	snap := e.dispatcher.State().Snapshot()
	for _, sink := range e.sinks {
		sink.Publish(snap)
	}
}

// save persists the state, logging failure without stopping the loop.
func (e *Engine) save(reason string) {
	e.ticksSinceSave = 0
	if e.saver == nil {
		return
	}
	start := time.Now()
	err := e.saver.Save(e.dispatcher.State())
	metrics.Get().RecordSave(time.Since(start), err)
	if err != nil {
		e.logger.Errorf("save (%s) failed: %v", reason, err)
		return
	}
	e.logger.Event("save", reason)
}
