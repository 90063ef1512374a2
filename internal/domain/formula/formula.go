// Package formula holds the pure cost and production math. Everything here
// is a function of its arguments; no rounding happens before accumulation.
package formula

import "math"

// BuildingCost returns the price of the next unit given the owned count:
// base * growth^owned.
func BuildingCost(base, growth float64, owned int) float64 {
	return base * math.Pow(growth, float64(owned))
}

// LevelUpCost returns the price of raising a building's level:
// base * 10 * 2^level.
func LevelUpCost(base float64, level int) float64 {
	return base * 10 * math.Pow(2, float64(level))
}

// Production returns per-tick output for one building type:
// count * base * (1 + levelBonus*level) * multiplier. Multipliers from
// upgrades, incidents and prestige are combined multiplicatively by the
// caller, so stacking order never matters.
func Production(count int, base float64, level int, levelBonus, multiplier float64) float64 {
	return float64(count) * base * (1 + levelBonus*float64(level)) * multiplier
}

// PrestigeThreshold is the compute total required before a prestige reset
// is allowed.
const PrestigeThreshold = 1_000_000

// PrestigeReputation returns the reputation earned by resetting at the
// given compute total: floor(sqrt(compute / threshold)).
func PrestigeReputation(compute float64) float64 {
	if compute <= 0 {
		return 0
	}
	return math.Floor(math.Sqrt(compute / PrestigeThreshold))
}

// ReputationMultiplier returns the permanent global production multiplier
// for a reputation total: +10% per point.
func ReputationMultiplier(reputation float64) float64 {
	return 1 + 0.10*reputation
}
