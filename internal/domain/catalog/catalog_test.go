package catalog

import "testing"

func TestValidate(t *testing.T) {
	if err := Validate(); err != nil {
		t.Fatalf("shipped catalog failed validation: %v", err)
	}
}

func TestBuildingIDsUnique(t *testing.T) {
	seen := make(map[BuildingID]bool)
	for _, d := range Buildings() {
		if seen[d.ID] {
			t.Errorf("duplicate building id %q", d.ID)
		}
		seen[d.ID] = true
	}
}

func TestUpgradePrerequisitesResolve(t *testing.T) {
	ids := make(map[UpgradeID]bool)
	for _, u := range Upgrades() {
		ids[u.ID] = true
	}
	for _, u := range Upgrades() {
		for _, pre := range u.Prerequisites {
			if !ids[pre] {
				t.Errorf("upgrade %q has dangling prerequisite %q", u.ID, pre)
			}
		}
	}
}

func TestLookups(t *testing.T) {
	if _, ok := BuildingByID(RaspberryPi); !ok {
		t.Error("raspberry_pi missing from index")
	}
	if _, ok := UpgradeByID(Overclocking); !ok {
		t.Error("overclocking missing from index")
	}
	if _, ok := TaskByID("restart_service"); !ok {
		t.Error("restart_service missing from index")
	}
	if _, ok := IncidentByID(TrafficSpike); !ok {
		t.Error("traffic_spike missing from index")
	}
	if _, ok := BuildingByID("mainframe"); ok {
		t.Error("unknown building id should not resolve")
	}
}

func TestIncidentResponseAnswersInRange(t *testing.T) {
	for _, d := range Tasks() {
		if d.Kind != TaskIncidentResponse {
			continue
		}
		if d.Correct < 0 || d.Correct >= len(d.Options) {
			t.Errorf("task %q: answer %d outside %d options", d.ID, d.Correct, len(d.Options))
		}
	}
}
