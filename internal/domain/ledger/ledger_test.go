package ledger

import (
	"math"
	"testing"
)

func TestCanAfford(t *testing.T) {
	r := Resources{Compute: 100, Bandwidth: 50}

	if !r.CanAfford(Resources{Compute: 80}) {
		t.Error("expected 100 compute to cover a cost of 80")
	}
	if r.CanAfford(Resources{Compute: 200}) {
		t.Error("expected a cost of 200 compute to be unaffordable")
	}
	if r.CanAfford(Resources{Compute: 50, Storage: 1}) {
		t.Error("one short column must make the whole vector unaffordable")
	}
}

func TestSpendAllOrNothing(t *testing.T) {
	r := Resources{Compute: 100, Bandwidth: 10}

	// Bandwidth is short: nothing may be deducted.
	if r.Spend(Resources{Compute: 50, Bandwidth: 20}) {
		t.Fatal("spend should fail when any column is short")
	}
	if r.Compute != 100 || r.Bandwidth != 10 {
		t.Errorf("failed spend mutated the ledger: %+v", r)
	}

	if !r.Spend(Resources{Compute: 50, Bandwidth: 10}) {
		t.Fatal("affordable spend should succeed")
	}
	if r.Compute != 50 || r.Bandwidth != 0 {
		t.Errorf("unexpected balances after spend: %+v", r)
	}
}

func TestDrainClampsAtZero(t *testing.T) {
	r := Resources{Bandwidth: 30}
	r.Drain(Bandwidth, 100)
	if r.Bandwidth != 0 {
		t.Errorf("drain past zero should clamp, got %v", r.Bandwidth)
	}
}

func TestAddSaturates(t *testing.T) {
	r := Resources{Compute: math.MaxFloat64}
	r.Add(Resources{Compute: math.MaxFloat64})
	if math.IsInf(r.Compute, 0) || math.IsNaN(r.Compute) {
		t.Fatalf("saturating add produced %v", r.Compute)
	}
	if r.Compute != math.MaxFloat64 {
		t.Errorf("expected saturation at MaxFloat64, got %v", r.Compute)
	}
	if !r.IsValid() {
		t.Error("saturated ledger should still validate")
	}
}

func TestIsValidRejectsBadValues(t *testing.T) {
	for _, bad := range []Resources{
		{Compute: -1},
		{Storage: math.NaN()},
		{Crypto: math.Inf(1)},
	} {
		if bad.IsValid() {
			t.Errorf("expected %+v to be invalid", bad)
		}
	}
}

func TestFormatShort(t *testing.T) {
	cases := map[float64]string{
		0:             "0.00",
		1.5:           "1.50",
		42.3:          "42.3",
		999:           "999",
		1000:          "1.00K",
		1234:          "1.23K",
		1_000_000:     "1.00M",
		2_500_000_000: "2.50B",
	}
	for in, want := range cases {
		if got := FormatShort(in); got != want {
			t.Errorf("FormatShort(%v) = %q, want %q", in, got, want)
		}
	}
}
