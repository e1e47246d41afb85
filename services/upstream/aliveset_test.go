package upstream

import "testing"

func TestAliveSet_AddAndContains(t *testing.T) {
	s := NewAliveSet()

	if s.Contains("https://a.example") {
		t.Fatal("new set should be empty")
	}

	s.Add("https://a.example")
	if !s.Contains("https://a.example") {
		t.Error("expected added member to be present")
	}
	if s.Len() != 1 {
		t.Errorf("expected length 1, got %d", s.Len())
	}
}

func TestAliveSet_ReplaceDropsStaleMembers(t *testing.T) {
	s := NewAliveSet()
	s.Add("https://stale.example")
	s.Add("https://kept.example")

	s.Replace([]string{"https://kept.example", "https://new.example"})

	if s.Contains("https://stale.example") {
		t.Error("stale member survived Replace")
	}
	if !s.Contains("https://kept.example") || !s.Contains("https://new.example") {
		t.Error("expected replaced membership to be present")
	}
	if s.Len() != 2 {
		t.Errorf("expected length 2, got %d", s.Len())
	}
}

func TestAliveSet_SnapshotIsIsolated(t *testing.T) {
	s := NewAliveSet()
	s.Add("https://a.example")

	snap := s.Snapshot()
	delete(snap, "https://a.example")

	if !s.Contains("https://a.example") {
		t.Error("mutating a snapshot changed set state")
	}
}
