package skim

import "testing"

func TestLookup_MissingIsExplicitUnreachable(t *testing.T) {
	s := NewStore()
	e := s.Lookup(Key{OriginCell: "c1", DestinationID: "d1", Mode: "walk", TimeSlice: "am"})
	if e.Reachable {
		t.Fatal("expected missing entry to be unreachable, not zero-valued reachable")
	}
}

func TestLoad_ThenLookup(t *testing.T) {
	s := NewStore()
	s.Load([]Entry{
		{OriginCell: "c1", DestinationID: "d1", Mode: "walk", TimeSlice: "am", InVehicleMin: 5, Reachable: true},
	})
	e := s.Lookup(Key{OriginCell: "c1", DestinationID: "d1", Mode: "walk", TimeSlice: "am"})
	if !e.Reachable || e.InVehicleMin != 5 {
		t.Fatalf("unexpected entry: %+v", e)
	}
}

func TestLoad_PanicsAfterSeal(t *testing.T) {
	s := NewStore()
	s.Seal()
	defer func() {
		if r := recover(); r == nil {
			t.Fatal("expected panic on Load after Seal")
		}
	}()
	s.Load([]Entry{{OriginCell: "c1"}})
}

func TestPruneByDistance_DropsHopeless(t *testing.T) {
	keys := []Key{
		{OriginCell: "c1", DestinationID: "near", Mode: "walk"},
		{OriginCell: "c1", DestinationID: "far", Mode: "walk"},
	}
	dist := func(k Key) float64 {
		if k.DestinationID == "near" {
			return 1
		}
		return 100
	}
	maxTime := func(mode string) float64 { return 30 }
	maxSpeed := func(mode string) float64 { return 5 }

	kept := PruneByDistance(keys, dist, maxTime, maxSpeed)
	if len(kept) != 1 || kept[0].DestinationID != "near" {
		t.Fatalf("expected only 'near' to survive pruning, got %+v", kept)
	}
}
