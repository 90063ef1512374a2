package engine

import "github.com/idlerack/idlerack/internal/domain/catalog"

// ActionKind discriminates the Action union.
type ActionKind string

const (
	// ActionTick advances the simulation one step. Emitted by the sim
	// ticker; never dropped.
	ActionTick ActionKind = "tick"
	// ActionRender asks the loop to publish a fresh snapshot. Emitted by
	// the render ticker; redundant frames coalesce.
	ActionRender ActionKind = "render"

	ActionPurchaseBuilding ActionKind = "purchase_building"
	ActionLevelUpBuilding  ActionKind = "level_up_building"
	ActionPurchaseUpgrade  ActionKind = "purchase_upgrade"
	ActionPrestige         ActionKind = "prestige"

	ActionTaskInput     ActionKind = "task_input"
	ActionTaskBackspace ActionKind = "task_backspace"
	ActionTaskSelect    ActionKind = "task_select"
	ActionTaskSubmit    ActionKind = "task_submit"

	// ActionSave forces an immediate save outside the autosave cadence.
	ActionSave ActionKind = "save"
	// ActionShutdown drains the loop: final save, then exit.
	ActionShutdown ActionKind = "shutdown"
)

// Action is one unit of work for the dispatch loop. Producers build them;
// only the loop applies them.
type Action struct {
	Kind ActionKind

	Building catalog.BuildingID
	Upgrade  catalog.UpgradeID

	// Rune is the typed character for ActionTaskInput.
	Rune rune
	// Delta is the selection movement for ActionTaskSelect.
	Delta int
}
