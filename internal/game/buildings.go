package game

import (
	"github.com/idlerack/idlerack/internal/domain/catalog"
	"github.com/idlerack/idlerack/internal/domain/formula"
	"github.com/idlerack/idlerack/internal/domain/ledger"
)

// BuildingCost returns the price vector of the next unit of a building.
func (s *State) BuildingCost(id catalog.BuildingID) (ledger.Resources, bool) {
	def, ok := catalog.BuildingByID(id)
	if !ok {
		return ledger.Resources{}, false
	}
	b := s.Buildings[id]
	if b == nil {
		return ledger.Resources{}, false
	}
	var cost ledger.Resources
	cost.Set(def.CostKind, formula.BuildingCost(def.BaseCost, def.CostGrowth, b.Count))
	return cost, true
}

// PurchaseBuilding buys one unit, deducting the cost all-or-nothing and
// refreshing the production cache.
func (s *State) PurchaseBuilding(id catalog.BuildingID) (ledger.Resources, error) {
	cost, ok := s.BuildingCost(id)
	if !ok {
		return ledger.Resources{}, ErrInvalidAction
	}
	if !s.Resources.Spend(cost) {
		return ledger.Resources{}, ErrInsufficientResources
	}
	s.Buildings[id].Count++
	s.RecalcProduction()
	return cost, nil
}

// LevelUpCost returns the price vector of raising a building's level.
func (s *State) LevelUpCost(id catalog.BuildingID) (ledger.Resources, bool) {
	def, ok := catalog.BuildingByID(id)
	if !ok {
		return ledger.Resources{}, false
	}
	b := s.Buildings[id]
	if b == nil {
		return ledger.Resources{}, false
	}
	var cost ledger.Resources
	cost.Set(def.CostKind, formula.LevelUpCost(def.BaseCost, b.Level))
	return cost, true
}

// LevelUpBuilding raises a building's level. At least one unit must be
// owned; levelling an empty rack slot is an invalid action.
func (s *State) LevelUpBuilding(id catalog.BuildingID) (ledger.Resources, error) {
	b := s.Buildings[id]
	if b == nil || b.Count == 0 {
		return ledger.Resources{}, ErrInvalidAction
	}
	cost, ok := s.LevelUpCost(id)
	if !ok {
		return ledger.Resources{}, ErrInvalidAction
	}
	if !s.Resources.Spend(cost) {
		return ledger.Resources{}, ErrInsufficientResources
	}
	b.Level++
	s.RecalcProduction()
	return cost, nil
}
