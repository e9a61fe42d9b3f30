package model

import "testing"

func TestUsableRangeKm(t *testing.T) {
	v := VehicleState{BatteryPercent: 40, TotalRangeKm: 312}
	got := v.UsableRangeKm(0.8)
	if got < 99 || got > 100 {
		t.Fatalf("expected ~99.8 km usable range, got %v", got)
	}
}

func TestUsableRangeKm_Monotonic(t *testing.T) {
	prev := -1.0
	for pct := 0.0; pct <= 100; pct += 5 {
		v := VehicleState{BatteryPercent: pct, TotalRangeKm: 400}
		r := v.UsableRangeKm(0.85)
		if r < prev {
			t.Fatalf("usable range decreased at %v%%: %v < %v", pct, r, prev)
		}
		prev = r
	}
}

func TestUsableRangeKm_Bounds(t *testing.T) {
	v := VehicleState{BatteryPercent: -10, TotalRangeKm: 300}
	if v.UsableRangeKm(0.8) != 0 {
		t.Fatal("negative battery should yield zero usable range")
	}
	v = VehicleState{BatteryPercent: 100, TotalRangeKm: 300}
	if v.UsableRangeKm(2.0) != 300 {
		t.Fatal("usable range must never exceed rated range")
	}
}
