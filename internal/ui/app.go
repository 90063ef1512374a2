// Package ui renders the terminal dashboard and translates keystrokes
// into engine actions. It never touches game state directly: input goes
// through the multiplexer, output comes back as snapshots.
package ui

import (
	"context"
	"sync"

	"github.com/gdamore/tcell/v2"

	"github.com/idlerack/idlerack/internal/domain/catalog"
	"github.com/idlerack/idlerack/internal/engine"
	"github.com/idlerack/idlerack/internal/game"
	"github.com/idlerack/idlerack/internal/journal"
	"github.com/idlerack/idlerack/internal/platform/logger"
)

// pane identifies the focusable dashboard regions.
type pane int

const (
	paneRack pane = iota
	paneUpgrades
	paneTask
)

// App owns the tcell screen and the dashboard's view state.
type App struct {
	screen  tcell.Screen
	mux     *engine.Mux
	journal *journal.Journal
	logger  *logger.Logger

	mu   sync.Mutex
	snap game.Snapshot

	focus        pane
	rackIndex    int
	upgradeIndex int

	// banner is the welcome-back line shown until the first keypress.
	banner string
}

// New creates the dashboard. banner may be empty.
func New(mux *engine.Mux, jrnl *journal.Journal, log *logger.Logger, banner string) (*App, error) {
	screen, err := tcell.NewScreen()
	if err != nil {
		return nil, err
	}
	if err := screen.Init(); err != nil {
		return nil, err
	}
	screen.Clear()
	return &App{
		screen:  screen,
		mux:     mux,
		journal: jrnl,
		logger:  log,
		banner:  banner,
	}, nil
}

// Publish stores the latest snapshot and schedules a redraw. Implements
// engine.SnapshotSink; called from the dispatch loop.
func (a *App) Publish(snap game.Snapshot) {
	a.mu.Lock()
	a.snap = snap
	a.mu.Unlock()
	// Wake the event loop; drawing happens on its goroutine only.
	a.screen.PostEvent(tcell.NewEventInterrupt(nil))
}

// Run consumes terminal events until quit. It submits a Shutdown action
// and restores the terminal before returning.
func (a *App) Run(ctx context.Context) error {
	defer a.screen.Fini()

	for {
		ev := a.screen.PollEvent()
		switch ev := ev.(type) {
		case *tcell.EventInterrupt:
			a.draw()

		case *tcell.EventResize:
			a.screen.Sync()
			a.draw()

		case *tcell.EventKey:
			a.banner = ""
			if quit := a.handleKey(ctx, ev); quit {
				return a.mux.Submit(ctx, engine.Action{Kind: engine.ActionShutdown})
			}
			a.draw()

		case nil:
			// Screen finalized elsewhere.
			return nil
		}
	}
}

// handleKey routes one keystroke. Returns true on quit.
func (a *App) handleKey(ctx context.Context, ev *tcell.EventKey) bool {
	// Global bindings first.
	switch {
	case ev.Key() == tcell.KeyCtrlC:
		return true
	case ev.Key() == tcell.KeyTab:
		a.cycleFocus()
		return false
	}

	if a.focus == paneTask {
		return a.handleTaskKey(ctx, ev)
	}

	switch ev.Key() {
	case tcell.KeyUp:
		a.moveSelection(-1)
		return false
	case tcell.KeyDown:
		a.moveSelection(1)
		return false
	case tcell.KeyEnter:
		a.activateSelection(ctx)
		return false
	}

	switch ev.Rune() {
	case 'q':
		return true
	case 'k':
		a.moveSelection(-1)
	case 'j':
		a.moveSelection(1)
	case 'b':
		if a.focus == paneRack {
			a.buySelected(ctx)
		}
	case 'l':
		if a.focus == paneRack {
			a.levelSelected(ctx)
		}
	case 'p':
		a.submit(ctx, engine.Action{Kind: engine.ActionPrestige})
	case 's':
		a.submit(ctx, engine.Action{Kind: engine.ActionSave})
	}
	return false
}

// handleTaskKey routes keystrokes to the active task.
func (a *App) handleTaskKey(ctx context.Context, ev *tcell.EventKey) bool {
	snap := a.snapshot()
	task := snap.ActiveTask()
	if task == nil {
		// Nothing to type into; fall back to the rack.
		a.focus = paneRack
		return false
	}
	def, ok := catalog.TaskByID(task.DefID)
	if !ok {
		return false
	}

	switch ev.Key() {
	case tcell.KeyEnter:
		a.submit(ctx, engine.Action{Kind: engine.ActionTaskSubmit})
		return false
	case tcell.KeyBackspace, tcell.KeyBackspace2:
		a.submit(ctx, engine.Action{Kind: engine.ActionTaskBackspace})
		return false
	case tcell.KeyUp:
		if def.Kind == catalog.TaskIncidentResponse {
			a.submit(ctx, engine.Action{Kind: engine.ActionTaskSelect, Delta: -1})
		}
		return false
	case tcell.KeyDown:
		if def.Kind == catalog.TaskIncidentResponse {
			a.submit(ctx, engine.Action{Kind: engine.ActionTaskSelect, Delta: 1})
		}
		return false
	case tcell.KeyEscape:
		a.focus = paneRack
		return false
	}

	if def.Kind == catalog.TaskTypeCommand && ev.Rune() != 0 {
		a.submit(ctx, engine.Action{Kind: engine.ActionTaskInput, Rune: ev.Rune()})
	}
	return false
}

func (a *App) cycleFocus() {
	switch a.focus {
	case paneRack:
		a.focus = paneUpgrades
	case paneUpgrades:
		snap := a.snapshot()
		if snap.ActiveTask() != nil {
			a.focus = paneTask
		} else {
			a.focus = paneRack
		}
	default:
		a.focus = paneRack
	}
}

func (a *App) moveSelection(delta int) {
	snap := a.snapshot()
	switch a.focus {
	case paneRack:
		visible := visibleBuildings(&snap)
		if n := len(visible); n > 0 {
			a.rackIndex = clampIndex(a.rackIndex+delta, n)
		}
	case paneUpgrades:
		avail := availableUpgrades(&snap)
		if n := len(avail); n > 0 {
			a.upgradeIndex = clampIndex(a.upgradeIndex+delta, n)
		}
	}
}

func (a *App) activateSelection(ctx context.Context) {
	switch a.focus {
	case paneRack:
		a.buySelected(ctx)
	case paneUpgrades:
		snap := a.snapshot()
		avail := availableUpgrades(&snap)
		if a.upgradeIndex < len(avail) {
			a.submit(ctx, engine.Action{Kind: engine.ActionPurchaseUpgrade, Upgrade: avail[a.upgradeIndex].ID})
		}
	}
}

func (a *App) buySelected(ctx context.Context) {
	snap := a.snapshot()
	visible := visibleBuildings(&snap)
	if a.rackIndex < len(visible) {
		a.submit(ctx, engine.Action{Kind: engine.ActionPurchaseBuilding, Building: visible[a.rackIndex].ID})
	}
}

func (a *App) levelSelected(ctx context.Context) {
	snap := a.snapshot()
	visible := visibleBuildings(&snap)
	if a.rackIndex < len(visible) {
		a.submit(ctx, engine.Action{Kind: engine.ActionLevelUpBuilding, Building: visible[a.rackIndex].ID})
	}
}

func (a *App) submit(ctx context.Context, action engine.Action) {
	if err := a.mux.Submit(ctx, action); err != nil {
		a.logger.Errorf("submit %s: %v", action.Kind, err)
	}
}

func (a *App) snapshot() game.Snapshot {
	a.mu.Lock()
	defer a.mu.Unlock()
	return a.snap
}

func clampIndex(i, n int) int {
	if i < 0 {
		return 0
	}
	if i >= n {
		return n - 1
	}
	return i
}
