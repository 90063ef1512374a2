package formula

import (
	"math"
	"testing"
)

func almost(a, b float64) bool {
	return math.Abs(a-b) < 0.001
}

func TestBuildingCost(t *testing.T) {
	if got := BuildingCost(10, 1.15, 0); !almost(got, 10) {
		t.Errorf("cost at 0 owned = %v, want 10", got)
	}
	if got := BuildingCost(10, 1.15, 1); !almost(got, 11.5) {
		t.Errorf("cost at 1 owned = %v, want 11.5", got)
	}
	want := 10 * math.Pow(1.15, 10)
	if got := BuildingCost(10, 1.15, 10); math.Abs(got-want) > 0.01 {
		t.Errorf("cost at 10 owned = %v, want %v", got, want)
	}
}

func TestLevelUpCost(t *testing.T) {
	if got := LevelUpCost(10, 0); !almost(got, 100) {
		t.Errorf("level 0 upgrade = %v, want 100", got)
	}
	if got := LevelUpCost(10, 3); !almost(got, 800) {
		t.Errorf("level 3 upgrade = %v, want 800", got)
	}
}

func TestProduction(t *testing.T) {
	// 5 units, 1.0 base, level 2, 0.5 bonus per level, x1 multiplier.
	if got := Production(5, 1.0, 2, 0.5, 1.0); !almost(got, 10) {
		t.Errorf("production = %v, want 10", got)
	}
	if got := Production(0, 100, 5, 0.5, 10); got != 0 {
		t.Errorf("zero owned must produce zero, got %v", got)
	}
}

func TestPrestigeReputation(t *testing.T) {
	cases := map[float64]float64{
		0:           0,
		999_999:     0,
		1_000_000:   1,
		4_000_000:   2,
		9_000_000:   3,
		100_000_000: 10,
	}
	for in, want := range cases {
		if got := PrestigeReputation(in); got != want {
			t.Errorf("PrestigeReputation(%v) = %v, want %v", in, got, want)
		}
	}
}

func TestReputationMultiplier(t *testing.T) {
	if got := ReputationMultiplier(0); got != 1 {
		t.Errorf("zero reputation should be x1, got %v", got)
	}
	if got := ReputationMultiplier(10); !almost(got, 2) {
		t.Errorf("10 reputation should be x2, got %v", got)
	}
}
