package engine

import (
	"errors"
	"fmt"

	"github.com/idlerack/idlerack/internal/domain/catalog"
	"github.com/idlerack/idlerack/internal/domain/ledger"
	"github.com/idlerack/idlerack/internal/game"
	"github.com/idlerack/idlerack/internal/journal"
	"github.com/idlerack/idlerack/internal/platform/logger"
	"github.com/idlerack/idlerack/internal/platform/metrics"
)

// Dispatcher is the single mutation path into the game state. Every
// action outcome, including rejections, becomes a journal entry; gameplay
// errors are journaled and never escape.
type Dispatcher struct {
	state   *game.State
	journal *journal.Journal
	logger  *logger.Logger
}

// NewDispatcher wires the dispatcher to the state it exclusively mutates.
func NewDispatcher(state *game.State, jrnl *journal.Journal, log *logger.Logger) *Dispatcher {
	return &Dispatcher{state: state, journal: jrnl, logger: log}
}

// State exposes the aggregate for the loop's snapshot and save steps.
func (d *Dispatcher) State() *game.State {
	return d.state
}

// Dispatch applies one action and returns the journal entries it produced.
// ActionRender, ActionSave and ActionShutdown are loop concerns and fall
// through as no-ops here.
func (d *Dispatcher) Dispatch(action Action) []journal.Entry {
	var entries []journal.Entry

	switch action.Kind {
	case ActionTick:
		entries = d.state.AdvanceTick()

	case ActionPurchaseBuilding:
		entries = d.purchaseBuilding(action.Building)

	case ActionLevelUpBuilding:
		entries = d.levelUpBuilding(action.Building)

	case ActionPurchaseUpgrade:
		entries = d.purchaseUpgrade(action.Upgrade)

	case ActionPrestige:
		entries = d.prestige()

	case ActionTaskInput:
		if err := d.state.TaskInput(action.Rune); err != nil {
			// Stray keystrokes with no task live are routine; drop quietly.
			return nil
		}

	case ActionTaskBackspace:
		if err := d.state.TaskBackspace(); err != nil {
			return nil
		}

	case ActionTaskSelect:
		if err := d.state.TaskSelect(action.Delta); err != nil {
			return nil
		}

	case ActionTaskSubmit:
		entries = d.taskSubmit()
	}

	rejected := false
	for _, e := range entries {
		d.journal.Append(e)
		if e.Code == "rejected" {
			rejected = true
		}
	}
	metrics.Get().RecordDispatch(rejected)
	return entries
}

func (d *Dispatcher) purchaseBuilding(id catalog.BuildingID) []journal.Entry {
	def, ok := catalog.BuildingByID(id)
	if !ok {
		return d.reject(fmt.Sprintf("unknown building %q", id), game.ErrInvalidAction)
	}
	cost, err := d.state.PurchaseBuilding(id)
	if err != nil {
		return d.reject(fmt.Sprintf("buy %s", def.Name), err)
	}
	return []journal.Entry{journal.NewEntry(d.state.TickCount, journal.SeverityInfo,
		"purchase", fmt.Sprintf("Bought %s (now %d)", def.Name, d.state.Buildings[id].Count), cost)}
}

func (d *Dispatcher) levelUpBuilding(id catalog.BuildingID) []journal.Entry {
	def, ok := catalog.BuildingByID(id)
	if !ok {
		return d.reject(fmt.Sprintf("unknown building %q", id), game.ErrInvalidAction)
	}
	cost, err := d.state.LevelUpBuilding(id)
	if err != nil {
		return d.reject(fmt.Sprintf("level up %s", def.Name), err)
	}
	return []journal.Entry{journal.NewEntry(d.state.TickCount, journal.SeverityInfo,
		"level_up", fmt.Sprintf("%s upgraded to L%d", def.Name, d.state.Buildings[id].Level), cost)}
}

func (d *Dispatcher) purchaseUpgrade(id catalog.UpgradeID) []journal.Entry {
	def, ok := catalog.UpgradeByID(id)
	if !ok {
		return d.reject(fmt.Sprintf("unknown upgrade %q", id), game.ErrInvalidAction)
	}
	cost, err := d.state.PurchaseUpgrade(id)
	if err != nil {
		return d.reject(fmt.Sprintf("research %s", def.Name), err)
	}
	return []journal.Entry{journal.NewEntry(d.state.TickCount, journal.SeverityGood,
		"upgrade", fmt.Sprintf("Researched %s", def.Name), cost)}
}

func (d *Dispatcher) prestige() []journal.Entry {
	earned, err := d.state.Prestige()
	if err != nil {
		return d.reject("prestige", err)
	}
	d.logger.Event("prestige", fmt.Sprintf("run %d, +%.0f reputation", d.state.PrestigeCount, earned))
	return []journal.Entry{journal.NewEntry(d.state.TickCount, journal.SeverityGood,
		"prestige", fmt.Sprintf("Datacenter rebuilt: +%.0f reputation", earned),
		ledger.Resources{Reputation: earned})}
}

func (d *Dispatcher) taskSubmit() []journal.Entry {
	out, err := d.state.TaskSubmit()
	if err != nil {
		return nil
	}
	switch out.Status {
	case game.TaskSucceeded:
		return []journal.Entry{journal.NewEntry(d.state.TickCount, journal.SeverityGood,
			"task_done", fmt.Sprintf("Task complete: %s", out.Def.Name), out.Reward)}
	case game.TaskFailed:
		return []journal.Entry{journal.NewEntry(d.state.TickCount, journal.SeverityError,
			"task_failed", fmt.Sprintf("Task failed: %s", out.Def.Name), ledger.Resources{})}
	default:
		// Wrong command; still in progress, nothing to journal.
		return nil
	}
}

// reject turns a gameplay error into a warning entry. Unknown errors are
// logged as well since they indicate a bug, not a player mistake.
func (d *Dispatcher) reject(what string, err error) []journal.Entry {
	msg := fmt.Sprintf("Cannot %s: %s", what, rejectReason(err))
	if !errors.Is(err, game.ErrInsufficientResources) &&
		!errors.Is(err, game.ErrPrerequisiteNotMet) &&
		!errors.Is(err, game.ErrPrestigeThresholdNotMet) &&
		!errors.Is(err, game.ErrInvalidAction) {
		d.logger.Errorf("unexpected dispatch error: %v", err)
	}
	return []journal.Entry{journal.NewEntry(d.state.TickCount, journal.SeverityWarning,
		"rejected", msg, ledger.Resources{})}
}

func rejectReason(err error) string {
	switch {
	case errors.Is(err, game.ErrInsufficientResources):
		return "insufficient resources"
	case errors.Is(err, game.ErrPrerequisiteNotMet):
		return "prerequisite not met"
	case errors.Is(err, game.ErrPrestigeThresholdNotMet):
		return "prestige threshold not reached"
	case errors.Is(err, game.ErrInvalidAction):
		return "invalid action"
	default:
		return err.Error()
	}
}
