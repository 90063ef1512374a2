package game

import (
	"github.com/idlerack/idlerack/internal/domain/catalog"
	"github.com/idlerack/idlerack/internal/domain/ledger"
)

// PurchaseUpgrade buys an upgrade. Prerequisites are checked before cost
// so the journal can say which precondition actually failed; the deduction
// is all-or-nothing across the cost vector.
func (s *State) PurchaseUpgrade(id catalog.UpgradeID) (ledger.Resources, error) {
	def, ok := catalog.UpgradeByID(id)
	if !ok {
		return ledger.Resources{}, ErrInvalidAction
	}
	if s.Upgrades[id] {
		return ledger.Resources{}, ErrInvalidAction
	}
	if !s.prerequisitesMet(def) {
		return ledger.Resources{}, ErrPrerequisiteNotMet
	}
	if !s.Resources.Spend(def.Cost) {
		return ledger.Resources{}, ErrInsufficientResources
	}

	s.Upgrades[id] = true
	s.applyUpgradeEffect(def)
	s.RecalcProduction()
	return def.Cost, nil
}

// applyUpgradeEffect folds an upgrade's effect into the aggregate
// multipliers. Building multipliers are picked up by RecalcProduction.
func (s *State) applyUpgradeEffect(def catalog.UpgradeDef) {
	switch def.Effect.Kind {
	case catalog.EffectGlobalMultiplier:
		s.GlobalMultiplier *= def.Effect.Factor
	case catalog.EffectTaskReward:
		s.TaskRewardMultiplier *= def.Effect.Factor
	case catalog.EffectOfflineEfficiency:
		if def.Effect.Factor > s.OfflineEfficiency {
			s.OfflineEfficiency = def.Effect.Factor
		}
	}
}
