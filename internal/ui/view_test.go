package ui

import (
	"testing"

	"github.com/idlerack/idlerack/internal/domain/catalog"
	"github.com/idlerack/idlerack/internal/game"
)

func TestVisibleBuildings(t *testing.T) {
	s := game.New(1)
	snap := s.Snapshot()

	// Fresh game: only the tier-1 machines below the 50-compute wallet.
	visible := visibleBuildings(&snap)
	for _, def := range visible {
		if def.UnlockThreshold > snap.Resources.Compute {
			t.Fatalf("%s visible above its unlock threshold", def.ID)
		}
	}

	// Owned buildings stay visible even when compute drops back down.
	s.Resources.Compute = 2000
	if _, err := s.PurchaseBuilding(catalog.VPS); err != nil {
		t.Fatal(err)
	}
	s.Resources.Compute = 0
	snap = s.Snapshot()
	found := false
	for _, def := range visibleBuildings(&snap) {
		if def.ID == catalog.VPS {
			found = true
		}
	}
	if !found {
		t.Fatal("owned building hidden after compute dropped below threshold")
	}
}

func TestAvailableUpgrades(t *testing.T) {
	s := game.New(1)
	snap := s.Snapshot()

	for _, def := range availableUpgrades(&snap) {
		if len(def.Prerequisites) != 0 {
			t.Fatalf("%s offered with unmet prerequisites", def.ID)
		}
	}

	s.Upgrades[catalog.Overclocking] = true
	snap = s.Snapshot()
	found := false
	for _, def := range availableUpgrades(&snap) {
		if def.ID == catalog.Overclocking {
			t.Fatal("purchased upgrade still offered")
		}
		if def.ID == catalog.Containerization {
			found = true
		}
	}
	if !found {
		t.Fatal("upgrade with satisfied prerequisite not offered")
	}
}

func TestCycleFocusSkipsEmptyTaskPane(t *testing.T) {
	a := &App{focus: paneUpgrades}
	a.cycleFocus()
	if a.focus != paneRack {
		t.Fatalf("focus = %v, want rack with no live task", a.focus)
	}

	a = &App{focus: paneUpgrades}
	a.snap = game.Snapshot{Tasks: []game.Task{{ID: "t1", Status: game.TaskPending}}}
	a.cycleFocus()
	if a.focus != paneTask {
		t.Fatalf("focus = %v, want task pane with a live task", a.focus)
	}
}

func TestClampIndex(t *testing.T) {
	if got := clampIndex(-3, 5); got != 0 {
		t.Fatalf("clampIndex(-3, 5) = %d", got)
	}
	if got := clampIndex(9, 5); got != 4 {
		t.Fatalf("clampIndex(9, 5) = %d", got)
	}
	if got := clampIndex(2, 5); got != 2 {
		t.Fatalf("clampIndex(2, 5) = %d", got)
	}
}
